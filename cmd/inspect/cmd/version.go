package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var shortVersion bool

// versionCmd represents the version command.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "显示版本信息",
	Long:  "显示巡检工具的版本号、构建时间、Git 提交哈希、Go 版本和运行平台信息。",
	Run: func(cmd *cobra.Command, args []string) {
		if shortVersion {
			fmt.Println(Version)
			return
		}
		fmt.Println("网络设备巡检工具 " + GetVersionInfo())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)

	versionCmd.Flags().BoolVar(&shortVersion, "short", false, "仅输出版本号")
}
