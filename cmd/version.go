package cmd

import (
	"fmt"

	"github.com/hyperport/hyperport/pkg/buildinfo"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, _ []string) {
		line := "hyperport " + buildinfo.BinaryVersion
		if mv := buildinfo.ModuleVersion(); mv != "" {
			line += " (" + mv + ")"
		}
		fmt.Fprintln(cmd.OutOrStdout(), line)
	},
}
