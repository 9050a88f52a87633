package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mistvale/dreamscope/pkg/analysis"
	"github.com/mistvale/dreamscope/pkg/metric"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats [vault]",
	Short: "Aggregate journal statistics",
	Long:  `Computes journal statistics, recall quality, drift signals, and insights. With --json the full document is emitted for scripted consumers.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "emit the machine-readable stats document")
	rootCmd.AddCommand(statsCmd)
}

// statsDocument is the JSON shape emitted by `dv stats --json`.
type statsDocument struct {
	GeneratedAt time.Time              `json:"generated_at"`
	Vault       string                 `json:"vault"`
	Stats       analysis.JournalStats  `json:"stats"`
	Drift       analysis.DriftSignals  `json:"drift"`
	Recall      []analysis.RecallScore `json:"recall,omitempty"`
	Insights    []analysis.Insight     `json:"insights,omitempty"`
	Skipped     []string               `json:"skipped,omitempty"`
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}
	resolveVault(&cfg, args)

	entries, summary, err := loadJournal(cfg)
	if err != nil {
		return fmt.Errorf("loading journal: %w", err)
	}

	now := time.Now()
	stats := analysis.ComputeStatsAt(entries, now)
	drift := analysis.ComputeDriftSignals(entries, now)

	if statsJSON {
		doc := statsDocument{
			GeneratedAt: now.UTC(),
			Vault:       cfg.JournalRoot(),
			Stats:       stats,
			Drift:       drift,
			Recall:      analysis.TopRecallScores(entries, 5),
			Insights:    analysis.GenerateInsights(entries, analysis.NewSymbolAnalyzer(entries).Analyze(), now),
			Skipped:     summary.FailedPaths,
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	}

	printStats(cfg.JournalRoot(), stats, drift, summary.Failed)
	return nil
}

func printStats(root string, stats analysis.JournalStats, drift analysis.DriftSignals, skipped int) {
	fmt.Printf("Vault:    %s\n", root)
	if skipped > 0 {
		fmt.Printf("Entries:  %d (%d skipped)\n", stats.EntryCount, skipped)
	} else {
		fmt.Printf("Entries:  %d\n", stats.EntryCount)
	}
	if stats.EntryCount == 0 {
		return
	}

	fmt.Printf("Span:     %s to %s (%d days)\n",
		stats.FirstDate.Format("2006-01-02"), stats.LastDate.Format("2006-01-02"), stats.SpanDays)
	fmt.Printf("Lucid:    %d (%.0f%%)\n", stats.LucidCount, stats.LucidRate*100)
	fmt.Printf("Streak:   %d now, %d best\n", stats.CurrentStreak, stats.LongestStreak)
	fmt.Printf("Pace:     %.1f entries/week\n", stats.EntriesPerWeek)
	fmt.Printf("Words:    %d total, %.0f avg\n", stats.TotalWords, stats.AvgWords)

	if len(stats.TopSymbols) > 0 {
		parts := make([]string, 0, 5)
		for i, nc := range stats.TopSymbols {
			if i == 5 {
				break
			}
			parts = append(parts, fmt.Sprintf("%s (%d)", nc.Name, nc.Count))
		}
		fmt.Printf("Symbols:  %s\n", strings.Join(parts, ", "))
	}

	fmt.Printf("Drift:    %.2f", drift.CompositeDrift)
	if drift.Explanation != "" {
		fmt.Printf(" — %s", drift.Explanation)
	}
	fmt.Println()

	if len(stats.Metrics) > 0 {
		fmt.Println()
		for _, name := range sortedMetricNames(stats.Metrics) {
			s := stats.Metrics[name]
			fmt.Printf("  %-28s mean %.2f  trend %+.3f  (%d samples)\n",
				name, s.Mean, s.Trend, s.Samples)
		}
	}
}

// sortedMetricNames orders recorded metrics by catalog position, with any
// names outside the catalog sorted after.
func sortedMetricNames(metrics map[string]analysis.MetricSummary) []string {
	ordered := make([]string, 0, len(metrics))
	seen := make(map[string]bool, len(metrics))
	for _, name := range metric.Names() {
		if _, ok := metrics[name]; ok {
			ordered = append(ordered, name)
			seen[name] = true
		}
	}
	rest := make([]string, 0)
	for name := range metrics {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(ordered, rest...)
}
