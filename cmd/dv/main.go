// Command dv is dreamscope's terminal viewer: it reads a vault of markdown
// dream journal entries, computes recall and metric statistics, and presents
// them interactively. Subcommands cover scripted use.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile       string
	noUpdateCheck bool
)

var rootCmd = &cobra.Command{
	Use:   "dv [vault]",
	Short: "Terminal dream journal metrics viewer",
	Long: `dv reads a vault of markdown dream journal entries, computes recall
quality, metric trends, and the symbol co-occurrence network, and
presents them in an interactive terminal viewer.

Without a vault argument the configured vault path is used, falling
back to the current directory.`,
	Args:          cobra.MaximumNArgs(1),
	RunE:          runTUI,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path (defaults to the per-user config)")
	rootCmd.PersistentFlags().BoolVar(&noUpdateCheck, "no-update-check", false, "skip the release check on startup")
}
