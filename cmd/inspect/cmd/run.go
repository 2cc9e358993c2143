package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"device-inspection/internal/client/push"
	"device-inspection/internal/config"
	"device-inspection/internal/model"
	"device-inspection/internal/report"
	"device-inspection/internal/service"
)

// Command flags
var (
	outputDir       string   // Output directory for reports
	formats         []string // Output formats (excel, html, json)
	workers         int      // Concurrent file workers
	cpuThreshold    float64  // CPU usage threshold override
	memoryThreshold float64  // Memory usage threshold override
	pushResult      bool     // Push the batch result to the configured endpoint
)

// runCmd represents the run command.
var runCmd = &cobra.Command{
	Use:   "run <采集目录>",
	Short: "批量巡检采集目录",
	Long: `递归读取采集目录下的所有文件，识别厂商并执行八项巡检，
生成巡检报告。无法读取、非 UTF-8 编码或无法识别厂商的文件会被跳过。

退出码:
  0  所有设备正常
  1  存在警告或错误（采集不完整）的设备
  2  存在异常设备

示例:
  # 使用默认配置巡检目录
  inspect run ./captures

  # 指定输出格式、目录和并发数
  inspect run ./captures -f excel,html,json -o ./reports -w 50

  # 调整阈值并推送结果
  inspect run ./captures -c config.yaml --cpu-threshold 70 --push`,
	Args: cobra.ExactArgs(1),
	Run:  runInspection,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringSliceVarP(&formats, "format", "f", nil, "输出格式 (excel,html,json)，可用逗号分隔多个")
	runCmd.Flags().StringVarP(&outputDir, "output", "o", "", "输出目录")
	runCmd.Flags().IntVarP(&workers, "workers", "w", 0, "并发巡检文件数（默认取配置 inspection.concurrency）")
	runCmd.Flags().Float64Var(&cpuThreshold, "cpu-threshold", 0, "CPU 使用率阈值（%）")
	runCmd.Flags().Float64Var(&memoryThreshold, "memory-threshold", 0, "内存使用率阈值（%）")
	runCmd.Flags().BoolVar(&pushResult, "push", false, "巡检完成后推送结果到 push.endpoint")
}

// runInspection executes the complete batch inspection workflow.
func runInspection(cmd *cobra.Command, args []string) {
	root := args[0]

	printBanner()

	// Step 1: Load configuration
	cfg, err := loadConfig()
	if err != nil {
		tmpLogger := setupLogger("error", "console")
		tmpLogger.Error().Err(err).Str("path", GetConfigFile()).Msg("failed to load config")
		fmt.Fprintf(os.Stderr, "❌ 加载配置失败: %v\n", err)
		os.Exit(1)
	}
	applyThresholdFlags(cfg)
	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "❌ 阈值参数无效: %v\n", err)
		os.Exit(1)
	}

	// Step 2: Initialize logger with configuration
	logger := newLogger(cmd, cfg)
	logger.Debug().
		Str("config_path", GetConfigFile()).
		Float64("cpu_threshold", cfg.Thresholds.CPUUsage).
		Float64("memory_threshold", cfg.Thresholds.MemoryUsage).
		Msg("configuration loaded successfully")

	if pushResult && cfg.Push.Endpoint == "" {
		fmt.Fprintf(os.Stderr, "❌ --push 需要在配置文件中设置 push.endpoint\n")
		os.Exit(1)
	}

	// Step 3: Determine output settings
	outputFormats := resolveFormats(cfg)
	outputPath := resolveOutputDir(cfg)

	if err := os.MkdirAll(outputPath, 0755); err != nil {
		logger.Error().Err(err).Str("path", outputPath).Msg("failed to create output directory")
		fmt.Fprintf(os.Stderr, "❌ 创建输出目录失败: %v\n", err)
		os.Exit(1)
	}

	// Step 4: Run inspection
	runner := service.NewRunner(thresholdsFrom(cfg), logger, service.WithWorkers(resolveWorkers(cfg)))
	inspection, err := service.NewInspection(cfg, runner, logger, service.WithVersion(Version))
	if err != nil {
		logger.Error().Err(err).Msg("failed to create inspection")
		fmt.Fprintf(os.Stderr, "❌ 初始化巡检失败: %v\n", err)
		os.Exit(1)
	}

	registry := report.NewRegistry(inspection.Timezone(), cfg.Report.HTMLTemplate)
	for _, f := range outputFormats {
		if !registry.Has(f) {
			fmt.Fprintf(os.Stderr, "❌ 不支持的输出格式: %s (支持: %s)\n", f, strings.Join(registry.GetAll(), ", "))
			os.Exit(1)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("🔎 巡检目录: %s (并发 %d)\n", root, runner.Workers())
	result, err := inspection.Run(ctx, root)
	if err != nil {
		if result == nil || !errors.Is(err, context.Canceled) {
			fmt.Fprintf(os.Stderr, "❌ 巡检失败: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "⚠️  巡检被中断，仅输出已完成的 %d 台设备\n", len(result.Reports))
	}

	printSummary(result)

	// Step 5: Generate reports
	baseName := generateFilename(cfg.Report.FilenameTemplate, inspection.Timezone())
	paths, err := registry.WriteAll(result, outputPath, baseName, outputFormats)
	for _, p := range paths {
		fmt.Printf("📄 报告已生成: %s\n", p)
	}
	if err != nil {
		logger.Error().Err(err).Msg("failed to generate report")
		fmt.Fprintf(os.Stderr, "❌ 生成报告失败: %v\n", err)
		os.Exit(1)
	}

	// Step 6: Push result
	if pushResult || cfg.Push.Enabled {
		client := push.NewClient(&cfg.Push, &cfg.HTTP.Retry, logger)
		if _, err := client.Push(context.Background(), result); err != nil {
			fmt.Fprintf(os.Stderr, "⚠️  推送巡检结果失败: %v\n", err)
		} else {
			fmt.Printf("📤 巡检结果已推送: %s\n", cfg.Push.Endpoint)
		}
	}

	fmt.Println("✅ 巡检完成")

	if code := exitCode(result); code > 0 {
		os.Exit(code)
	}
}

// applyThresholdFlags overrides configured thresholds with explicit flags.
func applyThresholdFlags(cfg *config.Config) {
	if cpuThreshold > 0 {
		cfg.Thresholds.CPUUsage = cpuThreshold
	}
	if memoryThreshold > 0 {
		cfg.Thresholds.MemoryUsage = memoryThreshold
	}
}

// exitCode maps the batch outcome to the process exit code.
func exitCode(result *model.BatchResult) int {
	switch {
	case result.HasAbnormal():
		return 2
	case result.HasWarning():
		return 1
	default:
		return 0
	}
}

// printBanner prints the application banner.
func printBanner() {
	fmt.Printf("🔍 网络设备巡检工具 %s\n", Version)
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
}

// printSummary prints the batch result summary.
func printSummary(result *model.BatchResult) {
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	if result.Summary != nil {
		fmt.Printf("   设备总数: %d\n", result.Summary.TotalDevices)
		fmt.Printf("   正常设备: %d\n", result.Summary.NormalDevices)
		fmt.Printf("   警告设备: %d\n", result.Summary.WarningDevices)
		fmt.Printf("   异常设备: %d\n", result.Summary.AbnormalDevices)
		fmt.Printf("   错误设备: %d\n", result.Summary.ErrorDevices)
	}
	fmt.Printf("   巡检耗时: %s\n", result.Duration.Round(time.Millisecond))

	for _, r := range result.Reports {
		problems := r.Problems()
		if len(problems) == 0 {
			continue
		}
		names := make([]string, 0, len(problems))
		for _, c := range problems {
			names = append(names, c.DisplayName()+"("+r.Results[c].Status.DisplayText()+")")
		}
		fmt.Printf("   %s [%s]: %s\n", r.Source, r.Vendor.DisplayName(), strings.Join(names, ", "))
	}
}

// resolveFormats determines the output formats to use.
// Command line flags take precedence over config file.
func resolveFormats(cfg *config.Config) []string {
	if len(formats) > 0 {
		return formats
	}
	if len(cfg.Report.Formats) > 0 {
		return cfg.Report.Formats
	}
	return []string{"excel", "html"} // default
}

// resolveOutputDir determines the output directory to use.
// Command line flags take precedence over config file.
func resolveOutputDir(cfg *config.Config) string {
	if outputDir != "" {
		return outputDir
	}
	if cfg.Report.OutputDir != "" {
		return cfg.Report.OutputDir
	}
	return "./reports" // default
}

// resolveWorkers determines the worker count.
// Command line flags take precedence over config file.
func resolveWorkers(cfg *config.Config) int {
	if workers > 0 {
		return workers
	}
	return cfg.Inspection.Concurrency
}

// generateFilename creates a filename from the template.
// Supports {{.Date}} and {{.Time}} placeholders.
func generateFilename(template string, tz *time.Location) string {
	if template == "" {
		template = "device_inspection_{{.Date}}"
	}

	now := time.Now().In(tz)
	dateStr := now.Format("2006-01-02")
	timeStr := now.Format("150405")

	filename := strings.ReplaceAll(template, "{{.Date}}", dateStr)
	filename = strings.ReplaceAll(filename, "{{ .Date }}", dateStr)
	filename = strings.ReplaceAll(filename, "{{.Time}}", timeStr)
	filename = strings.ReplaceAll(filename, "{{ .Time }}", timeStr)

	return filename
}
