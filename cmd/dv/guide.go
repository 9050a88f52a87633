package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mistvale/dreamscope/pkg/guide"
	"github.com/mistvale/dreamscope/pkg/metric"
)

var guideCmd = &cobra.Command{
	Use:   "guide",
	Short: "Print the annotated metrics guide",
	Long:  `Prints the dream metrics guide with each metric heading icon-annotated, styled for the terminal when stdout is a TTY and as plain markdown otherwise.`,
	Args:  cobra.NoArgs,
	RunE:  runGuide,
}

func init() {
	rootCmd.AddCommand(guideCmd)
}

func runGuide(cmd *cobra.Command, args []string) error {
	region := guide.NewLineRegion(metric.GuideMarkdown())
	guide.NewAnnotator().Annotate(region, metric.GuideRules(), guide.TerminalIcons())
	doc := region.String()

	if term.IsTerminal(int(os.Stdout.Fd())) {
		if styled, ok := renderStyled(doc); ok {
			fmt.Print(styled)
			return nil
		}
	}
	fmt.Println(doc)
	return nil
}

// renderStyled renders the guide through glamour at the terminal width.
// Any failure falls back to plain markdown.
func renderStyled(doc string) (string, bool) {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		width = 80
	}
	if width > 100 {
		width = 100
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", false
	}
	out, err := r.Render(doc)
	if err != nil {
		return "", false
	}
	return out, true
}
