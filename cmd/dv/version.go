package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mistvale/dreamscope/pkg/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the dv version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("dv %s\n", version.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
