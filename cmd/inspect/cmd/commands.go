package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"device-inspection/internal/model"
)

// commandsCmd represents the commands command.
var commandsCmd = &cobra.Command{
	Use:   "commands [厂商]",
	Short: "列出各厂商需要采集的命令",
	Long: `列出巡检所需的 display 命令。采集文件中缺少的命令对应的检查项会被判定为错误。
未指定厂商时列出全部厂商。命令清单可通过配置 inspection.commands_file 覆盖。`,
	Args: cobra.MaximumNArgs(1),
	Run:  runCommands,
}

func init() {
	rootCmd.AddCommand(commandsCmd)
}

func runCommands(cmd *cobra.Command, args []string) {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ 加载配置失败: %v\n", err)
		os.Exit(1)
	}

	catalog, err := loadCatalog(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ 加载命令清单失败: %v\n", err)
		os.Exit(1)
	}

	var vendors []model.Vendor
	if len(args) == 1 {
		v := model.ParseVendor(args[0])
		if !v.IsSupported() {
			fmt.Fprintf(os.Stderr, "❌ 不支持的厂商: %s\n", args[0])
			os.Exit(1)
		}
		vendors = append(vendors, v)
	} else {
		for name := range catalog.Vendors {
			vendors = append(vendors, model.Vendor(name))
		}
		sort.Slice(vendors, func(i, j int) bool { return vendors[i] < vendors[j] })
	}

	for _, v := range vendors {
		fmt.Printf("# %s (%s)\n", v.DisplayName(), v)
		for _, c := range catalog.For(v) {
			fmt.Println(c)
		}
		fmt.Println()
	}
}
