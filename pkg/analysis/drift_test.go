package analysis_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/mistvale/dreamscope/pkg/analysis"
	"github.com/mistvale/dreamscope/pkg/model"
)

// Helper building a dated entry that scores 1.0 (high) or 0.0 (low).
func driftEntry(date time.Time, path string, high bool) model.Entry {
	level, lost, words := 5.0, 0.0, 500
	if !high {
		level, lost, words = 1.0, 5.0, 0
	}
	return model.Entry{
		Path:      path,
		Title:     path,
		Date:      date,
		Kind:      model.KindOrdinary,
		WordCount: words,
		Metrics: map[string]float64{
			"Sensory Detail":   level,
			"Emotional Recall": level,
			"Lost Segments":    lost,
			"Confidence Score": level,
			"Descriptiveness":  level,
		},
	}
}

// Helper building one entry per day starting at start.
func dailyEntries(start time.Time, highs []bool) []model.Entry {
	entries := make([]model.Entry, len(highs))
	for i, high := range highs {
		entries[i] = driftEntry(start.AddDate(0, 0, i), fmt.Sprintf("e%02d.md", i), high)
	}
	return entries
}

func runPattern(nHigh, nLow int) []bool {
	var pattern []bool
	for i := 0; i < nHigh; i++ {
		pattern = append(pattern, true)
	}
	for i := 0; i < nLow; i++ {
		pattern = append(pattern, false)
	}
	return pattern
}

func TestDriftEmptyJournal(t *testing.T) {
	signals := analysis.ComputeDriftSignals(nil, time.Now())

	if signals.CompositeDrift != 0 {
		t.Errorf("Expected 0 drift for empty journal, got %f", signals.CompositeDrift)
	}
	if signals.Explanation != "No entries yet" {
		t.Errorf("Unexpected explanation: %q", signals.Explanation)
	}
}

func TestGapRiskGrowsWithSilence(t *testing.T) {
	now := time.Date(2026, 2, 20, 12, 0, 0, 0, time.UTC)

	fresh := []model.Entry{driftEntry(now, "today.md", true)}
	signals := analysis.ComputeDriftSignals(fresh, now)
	if !approx(signals.GapRisk, 0) {
		t.Errorf("Entry today should carry no gap risk, got %f", signals.GapRisk)
	}

	week := []model.Entry{driftEntry(now.AddDate(0, 0, -7), "week.md", true)}
	signals = analysis.ComputeDriftSignals(week, now)
	if !approx(signals.GapRisk, 0.5) {
		t.Errorf("A week of silence should score 0.5, got %f", signals.GapRisk)
	}

	month := []model.Entry{driftEntry(now.AddDate(0, 0, -30), "month.md", true)}
	signals = analysis.ComputeDriftSignals(month, now)
	if !approx(signals.GapRisk, 1.0) {
		t.Errorf("A month of silence should cap at 1.0, got %f", signals.GapRisk)
	}
}

func TestScoreSlumpDetectsDecline(t *testing.T) {
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	entries := dailyEntries(start, runPattern(3, 7))
	now := entries[len(entries)-1].Date

	signals := analysis.ComputeDriftSignals(entries, now)

	if !approx(signals.ScoreSlump, 1.0) {
		t.Errorf("Collapsed recent scores should slump fully, got %f", signals.ScoreSlump)
	}
	if !strings.Contains(signals.Explanation, "recall scores are slipping") {
		t.Errorf("Explanation should name the slump: %q", signals.Explanation)
	}
}

func TestScoreSlumpIgnoresImprovement(t *testing.T) {
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	// Middling baseline, then a strong recent run
	var entries []model.Entry
	for i := 0; i < 3; i++ {
		e := driftEntry(start.AddDate(0, 0, i), fmt.Sprintf("base%d.md", i), true)
		e.Metrics = map[string]float64{
			"Sensory Detail": 3, "Emotional Recall": 3, "Lost Segments": 2,
			"Confidence Score": 3, "Descriptiveness": 3,
		}
		e.WordCount = 250
		entries = append(entries, e)
	}
	for i := 0; i < 7; i++ {
		entries = append(entries, driftEntry(start.AddDate(0, 0, 3+i), fmt.Sprintf("up%d.md", i), true))
	}
	now := entries[len(entries)-1].Date

	signals := analysis.ComputeDriftSignals(entries, now)

	if signals.ScoreSlump != 0 {
		t.Errorf("Improving scores should not register as slump, got %f", signals.ScoreSlump)
	}
}

func TestScoreSlumpNeedsHistory(t *testing.T) {
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	entries := dailyEntries(start, runPattern(2, 7))
	now := entries[len(entries)-1].Date

	signals := analysis.ComputeDriftSignals(entries, now)

	if signals.ScoreSlump != 0 {
		t.Errorf("Nine entries are too few to call a slump, got %f", signals.ScoreSlump)
	}
}

func TestVariabilityFlagsErraticScores(t *testing.T) {
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	erratic := dailyEntries(start, []bool{true, false, true, false, true, false, true})
	now := erratic[len(erratic)-1].Date

	signals := analysis.ComputeDriftSignals(erratic, now)
	if !approx(signals.Variability, 1.0) {
		t.Errorf("Alternating scores should max out variability, got %f", signals.Variability)
	}

	steady := dailyEntries(start, runPattern(7, 0))
	signals = analysis.ComputeDriftSignals(steady, now)
	if signals.Variability != 0 {
		t.Errorf("Identical scores should have no variability, got %f", signals.Variability)
	}
}

func TestFragmentRiskCountsRecentWindow(t *testing.T) {
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	entries := dailyEntries(start, runPattern(10, 0))

	// Recent window holds the last seven: two fragments, one shaky entry
	entries[4].Kind = model.KindFragment
	entries[5].Kind = model.KindFragment
	entries[5].Metrics["Confidence Score"] = 1 // Fragment with low confidence counts once
	entries[6].Metrics["Confidence Score"] = 2
	now := entries[len(entries)-1].Date

	signals := analysis.ComputeDriftSignals(entries, now)

	if !approx(signals.FragmentRisk, 3.0/7.0) {
		t.Errorf("Expected fragment risk 3/7, got %f", signals.FragmentRisk)
	}
}

func TestLowDriftExplanation(t *testing.T) {
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	entries := dailyEntries(start, runPattern(12, 0))
	now := entries[len(entries)-1].Date

	signals := analysis.ComputeDriftSignals(entries, now)

	if signals.CompositeDrift >= 0.2 {
		t.Fatalf("Steady daily journal should have low drift, got %f", signals.CompositeDrift)
	}
	if signals.Explanation != "Low drift - recall practice is holding steady" {
		t.Errorf("Unexpected explanation: %q", signals.Explanation)
	}
}

func TestDriftExplanationNamesFactors(t *testing.T) {
	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	entries := dailyEntries(start, runPattern(3, 7))
	now := entries[len(entries)-1].Date.AddDate(0, 0, 10)

	signals := analysis.ComputeDriftSignals(entries, now)

	for _, factor := range []string{
		"recall scores are slipping",
		"long gap since the last entry",
		"recent entries are mostly fragments",
	} {
		if !strings.Contains(signals.Explanation, factor) {
			t.Errorf("Explanation missing %q: %q", factor, signals.Explanation)
		}
	}
	if !strings.HasPrefix(signals.Explanation, "Drift factors: ") {
		t.Errorf("Expected factor list, got %q", signals.Explanation)
	}
}

func TestDriftCustomWeights(t *testing.T) {
	now := time.Date(2026, 2, 20, 12, 0, 0, 0, time.UTC)
	entries := []model.Entry{driftEntry(now.AddDate(0, 0, -7), "week.md", true)}

	weights := analysis.DriftWeights{GapRisk: 1}
	signals := analysis.ComputeDriftSignalsWithWeights(entries, now, weights)

	if !approx(signals.CompositeDrift, 0.5) {
		t.Errorf("Gap-only weighting should yield 0.5, got %f", signals.CompositeDrift)
	}
}
