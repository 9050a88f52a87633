// Package analysis computes journal statistics: per-metric distributions,
// recall quality scores, drift signals, and the symbol co-occurrence network.
package analysis

import (
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/mistvale/dreamscope/pkg/model"
)

// MetricSummary is the distribution of one metric across the journal.
type MetricSummary struct {
	Name    string  `json:"name"`
	Samples int     `json:"samples"`
	Mean    float64 `json:"mean"`
	StdDev  float64 `json:"std_dev"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Median  float64 `json:"median"`

	// Trend is the least-squares slope of the metric over entry order.
	// Positive means the metric is rising through the journal.
	Trend float64 `json:"trend"`

	// Recent holds the metric's values for the newest entries, oldest
	// first, for sparkline rendering.
	Recent []float64 `json:"recent,omitempty"`

	// Histogram counts samples per integer value starting at HistogramMin.
	// Populated only when every sample is a whole number over a narrow
	// range, which covers score, toggle, and small count metrics.
	Histogram    []int `json:"histogram,omitempty"`
	HistogramMin int   `json:"histogram_min,omitempty"`
}

// NameCount pairs a symbol or character with its entry count.
type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// JournalStats summarizes a loaded journal.
type JournalStats struct {
	EntryCount int       `json:"entry_count"`
	FirstDate  time.Time `json:"first_date"`
	LastDate   time.Time `json:"last_date"`
	SpanDays   int       `json:"span_days"`

	TotalWords int     `json:"total_words"`
	AvgWords   float64 `json:"avg_words"`

	LucidCount int                     `json:"lucid_count"`
	LucidRate  float64                 `json:"lucid_rate"`
	KindCounts map[model.EntryKind]int `json:"kind_counts"`

	CurrentStreak  int     `json:"current_streak"`
	LongestStreak  int     `json:"longest_streak"`
	EntriesPerWeek float64 `json:"entries_per_week"`

	Metrics map[string]MetricSummary `json:"metrics"`

	TopSymbols    []NameCount `json:"top_symbols,omitempty"`
	TopCharacters []NameCount `json:"top_characters,omitempty"`
}

// recentWindow is how many trailing values each MetricSummary keeps.
const recentWindow = 14

// ComputeStats summarizes the journal as of now.
func ComputeStats(entries []model.Entry) JournalStats {
	return ComputeStatsAt(entries, time.Now())
}

// ComputeStatsAt summarizes the journal as of a specific time. Entries must
// be sorted by date, oldest first, which is how the journal loader returns
// them.
func ComputeStatsAt(entries []model.Entry, now time.Time) JournalStats {
	stats := JournalStats{
		KindCounts: make(map[model.EntryKind]int),
		Metrics:    make(map[string]MetricSummary),
	}
	if len(entries) == 0 {
		return stats
	}

	stats.EntryCount = len(entries)
	stats.FirstDate = entries[0].Date
	stats.LastDate = entries[len(entries)-1].Date
	stats.SpanDays = int(stats.LastDate.Sub(stats.FirstDate).Hours()/24) + 1

	symbolCounts := make(map[string]int)
	characterCounts := make(map[string]int)
	series := make(map[string][]sample)

	for i, e := range entries {
		stats.TotalWords += e.WordCount
		stats.KindCounts[e.Kind]++
		if e.Lucid() {
			stats.LucidCount++
		}
		for _, s := range e.Symbols {
			symbolCounts[s]++
		}
		for _, c := range e.Characters {
			characterCounts[c]++
		}
		for name, v := range e.Metrics {
			series[name] = append(series[name], sample{order: i, value: v})
		}
	}

	stats.AvgWords = float64(stats.TotalWords) / float64(stats.EntryCount)
	stats.LucidRate = float64(stats.LucidCount) / float64(stats.EntryCount)
	if stats.SpanDays > 0 {
		stats.EntriesPerWeek = float64(stats.EntryCount) / float64(stats.SpanDays) * 7
	}

	stats.CurrentStreak, stats.LongestStreak = computeStreaks(entries, now)

	for name, samples := range series {
		stats.Metrics[name] = summarizeMetric(name, samples)
	}

	stats.TopSymbols = topCounts(symbolCounts, 10)
	stats.TopCharacters = topCounts(characterCounts, 10)

	return stats
}

type sample struct {
	order int
	value float64
}

// summarizeMetric computes distribution statistics for one metric's samples.
func summarizeMetric(name string, samples []sample) MetricSummary {
	values := make([]float64, len(samples))
	orders := make([]float64, len(samples))
	for i, s := range samples {
		values[i] = s.value
		orders[i] = float64(s.order)
	}

	summary := MetricSummary{
		Name:    name,
		Samples: len(values),
		Mean:    stat.Mean(values, nil),
		Min:     values[0],
		Max:     values[0],
	}
	for _, v := range values {
		if v < summary.Min {
			summary.Min = v
		}
		if v > summary.Max {
			summary.Max = v
		}
	}

	if len(values) > 1 {
		summary.StdDev = stat.StdDev(values, nil)
		_, summary.Trend = stat.LinearRegression(orders, values, nil, false)
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	summary.Median = stat.Quantile(0.5, stat.Empirical, sorted, nil)

	recent := values
	if len(recent) > recentWindow {
		recent = recent[len(recent)-recentWindow:]
	}
	summary.Recent = append([]float64(nil), recent...)

	if hist, lo, ok := integerHistogram(values); ok {
		summary.Histogram = hist
		summary.HistogramMin = lo
	}

	return summary
}

// maxHistogramBins bounds the histogram so wide-ranging counts stay
// summarized rather than binned.
const maxHistogramBins = 12

// integerHistogram bins whole-number samples by value. Returns false when
// any sample is fractional or the value range needs too many bins.
func integerHistogram(values []float64) ([]int, int, bool) {
	if len(values) == 0 {
		return nil, 0, false
	}
	lo, hi := 0, 0
	for i, v := range values {
		if v != math.Trunc(v) {
			return nil, 0, false
		}
		n := int(v)
		if i == 0 || n < lo {
			lo = n
		}
		if i == 0 || n > hi {
			hi = n
		}
	}
	if hi-lo+1 > maxHistogramBins {
		return nil, 0, false
	}
	bins := make([]int, hi-lo+1)
	for _, v := range values {
		bins[int(v)-lo]++
	}
	return bins, lo, true
}

// computeStreaks returns the current and longest run of consecutive days
// with at least one entry. The current streak counts back from today or
// yesterday, so last night's missing entry doesn't zero it mid-day.
func computeStreaks(entries []model.Entry, now time.Time) (current, longest int) {
	days := make(map[string]bool, len(entries))
	for _, e := range entries {
		days[e.Date.Format("2006-01-02")] = true
	}

	// Longest: walk distinct days in order
	distinct := make([]string, 0, len(days))
	for d := range days {
		distinct = append(distinct, d)
	}
	sort.Strings(distinct)

	run := 0
	var prev time.Time
	for _, d := range distinct {
		day, _ := time.Parse("2006-01-02", d)
		if run > 0 && day.Sub(prev) == 24*time.Hour {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
		prev = day
	}

	// Current: anchor on today, tolerating no entry yet today
	anchor := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if !days[anchor.Format("2006-01-02")] {
		anchor = anchor.AddDate(0, 0, -1)
	}
	for days[anchor.Format("2006-01-02")] {
		current++
		anchor = anchor.AddDate(0, 0, -1)
	}

	return current, longest
}

// topCounts returns the n highest counts, ties broken by name.
func topCounts(counts map[string]int, n int) []NameCount {
	out := make([]NameCount, 0, len(counts))
	for name, count := range counts {
		out = append(out, NameCount{Name: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// MetricCorrelation returns the Pearson correlation between two metrics over
// the entries where both are recorded. The second return is the sample count.
func MetricCorrelation(entries []model.Entry, a, b string) (float64, int) {
	var xs, ys []float64
	for _, e := range entries {
		va, oka := e.Metric(a)
		vb, okb := e.Metric(b)
		if oka && okb {
			xs = append(xs, va)
			ys = append(ys, vb)
		}
	}
	if len(xs) < 3 {
		return 0, len(xs)
	}
	return stat.Correlation(xs, ys, nil), len(xs)
}
