package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mistvale/dreamscope/pkg/analysis"
	"github.com/mistvale/dreamscope/pkg/config"
	"github.com/mistvale/dreamscope/pkg/export"
	"github.com/mistvale/dreamscope/pkg/model"
)

var (
	exportFormat string
	exportOut    string
	exportMetric string
	exportWidth  int
)

var exportCmd = &cobra.Command{
	Use:   "export [vault]",
	Short: "Export the journal as a report or data snapshot",
	Long: `Exports the journal in one of five formats:

  md      markdown report with stats, symbol map, and per-entry sections
  html    standalone metrics guide with inline SVG icons
  sqlite  queryable database of entries, metric values, and symbol edges
  svg     histogram of one metric's recorded values
  png     calendar heatmap of recall quality`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "", "export format: md|html|sqlite|svg|png (defaults to the configured format)")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output path (defaults under the configured export directory)")
	exportCmd.Flags().StringVar(&exportMetric, "metric", "Sensory Detail", "metric to chart with --format svg")
	exportCmd.Flags().IntVar(&exportWidth, "width", 640, "chart width in pixels with --format svg")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}
	resolveVault(&cfg, args)

	format := exportFormat
	if format == "" {
		format = cfg.Export.Format
	}

	out := exportOut
	if out == "" {
		out = filepath.Join(cfg.Export.OutDir, defaultExportName(format))
	}
	if dir := filepath.Dir(out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating export directory: %w", err)
		}
	}

	switch format {
	case "html":
		// The guide export needs no journal
		if err := export.HTMLGuide(out); err != nil {
			return err
		}

	case "md", "sqlite", "svg", "png":
		entries, _, err := loadJournal(cfg)
		if err != nil {
			return fmt.Errorf("loading journal: %w", err)
		}
		switch format {
		case "md":
			err = export.SaveMarkdownToFile(entries, out)
		case "sqlite":
			err = export.NewSQLiteExporter(entries).Export(out)
		case "svg":
			err = writeSVGChart(entries, out)
		case "png":
			err = export.PNGHeatmap(entries, out)
		}
		if err != nil {
			return err
		}

	default:
		return fmt.Errorf("unknown export format %q (valid: %s)",
			format, strings.Join(config.ValidExportFormats, ", "))
	}

	fmt.Printf("Exported %s to %s\n", format, out)
	return nil
}

func writeSVGChart(entries []model.Entry, out string) error {
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("creating chart file: %w", err)
	}
	defer f.Close()

	stats := analysis.ComputeStats(entries)
	if err := export.SVGChart(f, stats, exportMetric, exportWidth); err != nil {
		return fmt.Errorf("rendering %s chart: %w", exportMetric, err)
	}
	return nil
}

// defaultExportName picks the file name used under the configured export
// directory when no output path is given.
func defaultExportName(format string) string {
	switch format {
	case "md":
		return "journal.md"
	case "html":
		return "guide.html"
	case "sqlite":
		return "journal.sqlite3"
	case "svg":
		return "metric.svg"
	case "png":
		return "heatmap.png"
	default:
		return "export." + format
	}
}
