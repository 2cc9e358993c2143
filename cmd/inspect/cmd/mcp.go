package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"device-inspection/internal/mcp"
	"device-inspection/internal/service"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "以 MCP stdio 服务方式运行",
	Long: `启动 Model Context Protocol 服务（stdio 传输），提供以下工具:
  inspect_text       巡检一段采集文本
  inspect_directory  批量巡检采集目录
  list_commands      列出各厂商需要采集的命令

日志输出到标准错误，标准输出仅用于协议通信。`,
	Args: cobra.NoArgs,
	Run:  runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ 加载配置失败: %v\n", err)
		os.Exit(1)
	}
	logger := newLogger(cmd, cfg)

	catalog, err := loadCatalog(cfg)
	if err != nil {
		logger.Error().Err(err).Msg("failed to load command catalog")
		os.Exit(1)
	}

	runner := service.NewRunner(thresholdsFrom(cfg), logger, service.WithWorkers(cfg.Inspection.Concurrency))
	inspection, err := service.NewInspection(cfg, runner, logger, service.WithVersion(Version))
	if err != nil {
		logger.Error().Err(err).Msg("failed to create inspection")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info().Str("version", Version).Msg("starting MCP stdio server")
	server := mcp.NewServer(Version, runner, inspection, catalog, logger)
	if err := server.Start(ctx); err != nil && ctx.Err() == nil {
		logger.Error().Err(err).Msg("MCP server stopped")
		os.Exit(1)
	}
}
