// Package cmd provides CLI commands for the device inspection tool.
package cmd

import (
	"io"
	"os"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"device-inspection/internal/config"
	"device-inspection/internal/inspector"
)

// Version information, injected at build time via -ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// Global flags
var (
	cfgFile  string // Config file path
	logLevel string // Log level
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "inspect",
	Short: "网络设备巡检工具 - 基于命令采集文本的离线巡检",
	Long: `网络设备巡检工具读取交换机/路由器的 display 命令采集文本，
自动识别厂商（华为 VRP / H3C Comware），对 CPU、内存、电源、风扇、
NTP、接口错包、告警和温度八个检查项给出正常/异常/警告/错误结论，
并生成 Excel、HTML 和 JSON 格式的巡检报告。

数据流: 设备 CLI 采集 → 文本文件 → 本工具 → Excel/HTML/JSON 报告

主要功能:
  - 批量巡检目录下的所有采集文件（并发）
  - 单文件巡检，结果以 JSON 输出
  - 列出各厂商需要采集的命令
  - 以 MCP 工具形式对外提供巡检能力`,
	Version: Version,
	// Run displays help when called without any subcommands
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// init initializes the root command and its flags.
func init() {
	// Global flags available to all commands
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "配置文件路径（为空时使用内置默认配置）")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "日志级别 (debug, info, warn, error)")

	// Customize version template
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

// GetConfigFile returns the config file path from command line flag.
func GetConfigFile() string {
	return cfgFile
}

// GetLogLevel returns the log level from command line flag.
func GetLogLevel() string {
	return logLevel
}

// GetVersionInfo returns formatted version information.
func GetVersionInfo() string {
	return Version + "\n" +
		"Build Time: " + BuildTime + "\n" +
		"Git Commit: " + GitCommit + "\n" +
		"Go Version: " + runtime.Version() + "\n" +
		"OS/Arch: " + runtime.GOOS + "/" + runtime.GOARCH
}

// loadConfig loads the config file given by --config, or the built-in
// defaults when none is given. Environment overrides apply in both cases.
func loadConfig() (*config.Config, error) {
	if cfgFile == "" {
		return config.Default()
	}
	return config.Load(cfgFile)
}

// loadCatalog returns the configured command catalog or the built-in one.
func loadCatalog(cfg *config.Config) (*config.CommandCatalog, error) {
	if cfg == nil || cfg.Inspection.CommandsFile == "" {
		return config.DefaultCommands(), nil
	}
	return config.LoadCommands(cfg.Inspection.CommandsFile)
}

// thresholdsFrom converts configured thresholds for the inspector.
func thresholdsFrom(cfg *config.Config) inspector.Thresholds {
	return inspector.Thresholds{
		CPUUsage:    cfg.Thresholds.CPUUsage,
		MemoryUsage: cfg.Thresholds.MemoryUsage,
	}
}

// newLogger builds the logger for a command.
// Command line --log-level overrides config file setting.
func newLogger(cmd *cobra.Command, cfg *config.Config) zerolog.Logger {
	level := cfg.Logging.Level
	if cmd.Flags().Changed("log-level") {
		level = GetLogLevel()
	}
	return setupLogger(level, cfg.Logging.Format)
}

// setupLogger creates a zerolog logger with the specified level and format.
// It sets the timezone to Asia/Shanghai for all log timestamps.
// Logs always go to stderr so that stdout stays usable for JSON and MCP.
func setupLogger(level string, format string) zerolog.Logger {
	logLevel, err := zerolog.ParseLevel(level)
	if err != nil {
		logLevel = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(logLevel)

	tz, err := time.LoadLocation("Asia/Shanghai")
	if err != nil {
		tz = time.Local
	}

	zerolog.TimestampFunc = func() time.Time {
		return time.Now().In(tz)
	}

	var output io.Writer
	if format == "json" {
		// JSON format - structured logging for log aggregation systems
		output = os.Stderr
	} else {
		// Console format - human-readable output for development
		output = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: "15:04:05",
			NoColor:    false,
		}
	}

	return zerolog.New(output).With().Timestamp().Logger()
}
