package analysis_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/mistvale/dreamscope/pkg/analysis"
	"github.com/mistvale/dreamscope/pkg/model"
)

func findInsight(insights []analysis.Insight, kind string) (analysis.Insight, bool) {
	for _, in := range insights {
		if in.Kind == kind {
			return in, true
		}
	}
	return analysis.Insight{}, false
}

func TestGenerateInsightsEmpty(t *testing.T) {
	insights := analysis.GenerateInsights(nil, nil, time.Now())
	if insights != nil {
		t.Errorf("Expected no insights for empty journal, got %v", insights)
	}
}

func TestTrendInsightRising(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	var entries []model.Entry
	for i := 0; i < 12; i++ {
		entries = append(entries, model.Entry{
			Path:      fmt.Sprintf("e%02d.md", i),
			Date:      start.AddDate(0, 0, i),
			Kind:      model.KindOrdinary,
			WordCount: 500,
			Metrics:   map[string]float64{"Sensory Detail": 2 + 0.25*float64(i)},
		})
	}
	now := entries[len(entries)-1].Date

	insights := analysis.GenerateInsights(entries, nil, now)

	trend, ok := findInsight(insights, "trend")
	if !ok {
		t.Fatalf("Expected a trend insight, got %v", insights)
	}
	if trend.Title != "Sensory Detail is improving" {
		t.Errorf("Unexpected trend title: %q", trend.Title)
	}
	if !strings.Contains(trend.Detail, "12 entries") {
		t.Errorf("Detail should name the sample count: %q", trend.Detail)
	}
	if !approx(trend.Confidence, 0.8) {
		t.Errorf("Expected confidence 0.8, got %f", trend.Confidence)
	}
}

func TestTrendInsightDeclining(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	var entries []model.Entry
	for i := 0; i < 12; i++ {
		entries = append(entries, model.Entry{
			Path:      fmt.Sprintf("e%02d.md", i),
			Date:      start.AddDate(0, 0, i),
			Kind:      model.KindOrdinary,
			WordCount: 500,
			Metrics:   map[string]float64{"Sensory Detail": 4.75 - 0.25*float64(i)},
		})
	}
	now := entries[len(entries)-1].Date

	insights := analysis.GenerateInsights(entries, nil, now)

	trend, ok := findInsight(insights, "trend")
	if !ok {
		t.Fatalf("Expected a trend insight, got %v", insights)
	}
	if trend.Title != "Sensory Detail is declining" {
		t.Errorf("Unexpected trend title: %q", trend.Title)
	}
}

func TestTrendInsightNeedsSamples(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	var entries []model.Entry
	for i := 0; i < 5; i++ {
		entries = append(entries, model.Entry{
			Path:      fmt.Sprintf("e%d.md", i),
			Date:      start.AddDate(0, 0, i),
			Kind:      model.KindOrdinary,
			WordCount: 500,
			Metrics:   map[string]float64{"Sensory Detail": float64(i + 1)},
		})
	}
	now := entries[len(entries)-1].Date

	insights := analysis.GenerateInsights(entries, nil, now)

	if len(insights) != 0 {
		t.Errorf("Five entries are too few for insights, got %v", insights)
	}
}

// Entries where every recall metric tracks the lucidity level, so recall
// quality and lucidity correlate almost perfectly.
func lucidityTrackingEntries(invert bool) []model.Entry {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	var entries []model.Entry
	for i := 0; i < 10; i++ {
		lucidity := float64(i%5 + 1)
		level := lucidity
		if invert {
			level = 6 - lucidity
		}
		entries = append(entries, model.Entry{
			Path:      fmt.Sprintf("e%02d.md", i),
			Date:      start.AddDate(0, 0, i),
			Kind:      model.KindOrdinary,
			WordCount: int(level * 100),
			Metrics: map[string]float64{
				"Lucidity Level":   lucidity,
				"Sensory Detail":   level,
				"Emotional Recall": level,
				"Lost Segments":    5 - level,
				"Confidence Score": level,
				"Descriptiveness":  level,
			},
		})
	}
	return entries
}

func TestCorrelationInsightPositive(t *testing.T) {
	entries := lucidityTrackingEntries(false)
	now := entries[len(entries)-1].Date

	insights := analysis.GenerateInsights(entries, nil, now)

	corr, ok := findInsight(insights, "correlation")
	if !ok {
		t.Fatalf("Expected a correlation insight, got %v", insights)
	}
	if corr.Title != "Lucid nights recall better" {
		t.Errorf("Unexpected title: %q", corr.Title)
	}
	if !strings.Contains(corr.Detail, "10 entries") {
		t.Errorf("Detail should name the sample count: %q", corr.Detail)
	}
}

func TestCorrelationInsightNegative(t *testing.T) {
	entries := lucidityTrackingEntries(true)
	now := entries[len(entries)-1].Date

	insights := analysis.GenerateInsights(entries, nil, now)

	corr, ok := findInsight(insights, "correlation")
	if !ok {
		t.Fatalf("Expected a correlation insight, got %v", insights)
	}
	if corr.Title != "Lucid nights recall worse" {
		t.Errorf("Unexpected title: %q", corr.Title)
	}
}

func TestSymbolInsight(t *testing.T) {
	entry := recallEntry("a.md", 3, 3, 2, 3, 3, 250)
	entry.Date = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	entries := []model.Entry{entry}

	symbolStats := analysis.NewSymbolStatsForTest(
		map[string]float64{"door": 0.5, "water": 0.3},
		map[string]int{"door": 1, "water": 1},
		map[string]int{"door": 5, "water": 3},
		nil,
		[]analysis.SymbolPair{{A: "door", B: "water", Weight: 3}},
		1.0,
	)

	insights := analysis.GenerateInsights(entries, symbolStats, entry.Date)

	if len(insights) != 1 {
		t.Fatalf("Expected exactly the symbol insight, got %v", insights)
	}
	in := insights[0]
	if in.Kind != "symbol" {
		t.Errorf("Expected symbol kind, got %q", in.Kind)
	}
	if in.Title != `"door" anchors your dream imagery` {
		t.Errorf("Unexpected title: %q", in.Title)
	}
	if !strings.Contains(in.Detail, `alongside "water"`) {
		t.Errorf("Detail should name the companion symbol: %q", in.Detail)
	}
	if !approx(in.Confidence, 0.55) {
		t.Errorf("Expected confidence 0.55, got %f", in.Confidence)
	}
}

func TestSymbolInsightRequiresStats(t *testing.T) {
	entry := recallEntry("a.md", 3, 3, 2, 3, 3, 250)
	entry.Date = time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	insights := analysis.GenerateInsights([]model.Entry{entry}, nil, entry.Date)

	if _, ok := findInsight(insights, "symbol"); ok {
		t.Error("No symbol insight expected without network stats")
	}
}

func TestStreakInsight(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	entries := dailyEntries(start, runPattern(8, 0))
	now := entries[len(entries)-1].Date

	insights := analysis.GenerateInsights(entries, nil, now)

	if len(insights) != 1 {
		t.Fatalf("Expected exactly the streak insight, got %v", insights)
	}
	if insights[0].Title != "8-day recording streak" {
		t.Errorf("Unexpected title: %q", insights[0].Title)
	}
}

func TestPracticeInsightWeakestComponent(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	var entries []model.Entry
	for i := 0; i < 5; i++ {
		entries = append(entries, driftEntry(start.AddDate(0, 0, i), fmt.Sprintf("e%d.md", i), true))
		entries[i].Metrics["Sensory Detail"] = 1
	}
	now := entries[len(entries)-1].Date

	insights := analysis.GenerateInsights(entries, nil, now)

	practice, ok := findInsight(insights, "practice")
	if !ok {
		t.Fatalf("Expected a practice insight, got %v", insights)
	}
	if practice.Title != "Weakest recall component: sensory detail" {
		t.Errorf("Unexpected title: %q", practice.Title)
	}
	if !strings.Contains(practice.Detail, "sensory impression") {
		t.Errorf("Detail should carry the exercise: %q", practice.Detail)
	}
}

func TestInsightsSortedByConfidence(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	var entries []model.Entry
	for i := 0; i < 8; i++ {
		entries = append(entries, driftEntry(start.AddDate(0, 0, i), fmt.Sprintf("e%d.md", i), true))
		entries[i].Metrics["Sensory Detail"] = 1
	}
	now := entries[len(entries)-1].Date

	insights := analysis.GenerateInsights(entries, nil, now)

	if len(insights) < 2 {
		t.Fatalf("Expected streak and practice insights, got %v", insights)
	}
	for i := 1; i < len(insights); i++ {
		if insights[i].Confidence > insights[i-1].Confidence {
			t.Errorf("Insights not sorted by confidence: %v", insights)
		}
	}
	if insights[0].Kind != "practice" {
		t.Errorf("Practice insight should lead with higher confidence, got %q", insights[0].Kind)
	}
}

func TestInsightsMinConfidenceFilter(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	entries := dailyEntries(start, runPattern(8, 0))
	now := entries[len(entries)-1].Date

	thresholds := analysis.DefaultInsightThresholds()
	thresholds.MinConfidence = 0.9

	insights := analysis.GenerateInsightsWithThresholds(entries, nil, now, thresholds)

	if len(insights) != 0 {
		t.Errorf("High confidence floor should filter everything, got %v", insights)
	}
}
