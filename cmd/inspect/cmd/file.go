package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"device-inspection/internal/model"
	"device-inspection/internal/service"
)

var forceVendor string // Vendor override for single-file inspection

// fileCmd represents the file command.
var fileCmd = &cobra.Command{
	Use:   "file <采集文件>",
	Short: "巡检单个采集文件并输出 JSON",
	Long: `巡检单个采集文件，将结果以 JSON 格式输出到标准输出。
文件无法读取、编码错误或厂商无法识别时 success 为 false，退出码为 1。

示例:
  inspect file ./captures/core-sw-01.txt
  inspect file ./captures/edge.txt --vendor h3c`,
	Args: cobra.ExactArgs(1),
	Run:  runFile,
}

func init() {
	rootCmd.AddCommand(fileCmd)

	fileCmd.Flags().StringVar(&forceVendor, "vendor", "", "指定厂商 (huawei, h3c)，为空时自动识别")
}

// runFile inspects one capture and prints the FileResult.
func runFile(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ 加载配置失败: %v\n", err)
		os.Exit(1)
	}
	logger := newLogger(cmd, cfg)

	vendor := model.ParseVendor(forceVendor)
	if forceVendor != "" && !vendor.IsSupported() {
		fmt.Fprintf(os.Stderr, "❌ 不支持的厂商: %s\n", forceVendor)
		os.Exit(1)
	}

	runner := service.NewRunner(thresholdsFrom(cfg), logger)

	var result model.FileResult
	if vendor.IsSupported() {
		result = inspectFileAs(runner, args[0], vendor)
	} else {
		result = runner.ProcessFile(args[0])
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(result); err != nil {
		fmt.Fprintf(os.Stderr, "❌ 输出结果失败: %v\n", err)
		os.Exit(1)
	}

	if !result.Success {
		os.Exit(1)
	}
}

// inspectFileAs inspects path with a forced vendor.
func inspectFileAs(runner *service.Runner, path string, vendor model.Vendor) model.FileResult {
	result := model.FileResult{Source: path, Vendor: vendor}

	text, err := service.ReadCapture(path)
	if err != nil {
		result.Error = err.Error()
		return result
	}

	report, _ := runner.InspectTextAs(path, text, vendor)
	result.Success = true
	result.Report = report
	return result
}
