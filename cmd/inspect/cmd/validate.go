package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// validateCmd represents the validate command.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "验证配置文件",
	Long:  "加载并验证配置文件和命令清单，检查格式、必填字段、数值范围和业务逻辑约束。",
	Run:   runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

// runValidate executes the validate command logic.
func runValidate(cmd *cobra.Command, args []string) {
	configPath := GetConfigFile()

	// Load and validate configuration (Load internally calls Validate)
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ 配置验证失败: %v\n", err)
		os.Exit(1)
	}

	if _, err := loadCatalog(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "❌ 命令清单验证失败: %v\n", err)
		os.Exit(1)
	}

	if configPath == "" {
		fmt.Println("✅ 内置默认配置验证通过")
		return
	}
	fmt.Printf("✅ 配置文件验证通过: %s\n", configPath)
}
