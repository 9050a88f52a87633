package analysis

import (
	"fmt"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/mistvale/dreamscope/pkg/model"
)

// Insight is one observation about the journal with a confidence level
type Insight struct {
	Kind       string  `json:"kind"`   // "trend", "correlation", "symbol", "streak", "practice"
	Title      string  `json:"title"`  // Short headline
	Detail     string  `json:"detail"` // Supporting explanation
	Confidence float64 `json:"confidence"`
}

// InsightThresholds configure when observations become insights
type InsightThresholds struct {
	MinSamples      int     // Entries needed before trends are trusted
	TrendSlope      float64 // Per-entry slope treated as a real trend
	StrongCorr      float64 // Absolute correlation treated as meaningful
	MinConfidence   float64 // Minimum confidence to include an insight
	StreakHighlight int     // Streak length worth celebrating
}

// DefaultInsightThresholds returns sensible default thresholds
func DefaultInsightThresholds() InsightThresholds {
	return InsightThresholds{
		MinSamples:      10,
		TrendSlope:      0.02,
		StrongCorr:      0.4,
		MinConfidence:   0.3,
		StreakHighlight: 7,
	}
}

// GenerateInsights analyzes the journal and surfaces notable patterns
func GenerateInsights(entries []model.Entry, symbolStats *SymbolStats, now time.Time) []Insight {
	return GenerateInsightsWithThresholds(entries, symbolStats, now, DefaultInsightThresholds())
}

// GenerateInsightsWithThresholds generates insights with custom thresholds
func GenerateInsightsWithThresholds(entries []model.Entry, symbolStats *SymbolStats, now time.Time, thresholds InsightThresholds) []Insight {
	if len(entries) == 0 {
		return nil
	}

	stats := ComputeStatsAt(entries, now)
	scores := ComputeRecallScores(entries)
	drift := ComputeDriftSignals(entries, now)

	var insights []Insight

	insights = append(insights, trendInsights(stats, thresholds)...)
	insights = append(insights, correlationInsights(entries, scores, thresholds)...)
	insights = append(insights, symbolInsights(symbolStats, thresholds)...)
	insights = append(insights, streakInsight(stats, thresholds)...)
	insights = append(insights, practiceInsights(scores, drift, thresholds)...)

	// Filter by confidence, then sort by confidence descending
	kept := insights[:0]
	for _, in := range insights {
		if in.Confidence >= thresholds.MinConfidence {
			kept = append(kept, in)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Confidence > kept[j].Confidence
	})

	return kept
}

// trendInsights reports metrics that are clearly rising or falling
func trendInsights(stats JournalStats, thresholds InsightThresholds) []Insight {
	var insights []Insight
	for _, summary := range stats.Metrics {
		if summary.Samples < thresholds.MinSamples {
			continue
		}
		if summary.Trend >= thresholds.TrendSlope {
			insights = append(insights, Insight{
				Kind:       "trend",
				Title:      fmt.Sprintf("%s is improving", summary.Name),
				Detail:     fmt.Sprintf("Rising about %.2f per entry over %d entries", summary.Trend, summary.Samples),
				Confidence: trendConfidence(summary, thresholds),
			})
		} else if summary.Trend <= -thresholds.TrendSlope {
			insights = append(insights, Insight{
				Kind:       "trend",
				Title:      fmt.Sprintf("%s is declining", summary.Name),
				Detail:     fmt.Sprintf("Falling about %.2f per entry over %d entries", -summary.Trend, summary.Samples),
				Confidence: trendConfidence(summary, thresholds),
			})
		}
	}
	// Deterministic order before the confidence sort
	sort.Slice(insights, func(i, j int) bool { return insights[i].Title < insights[j].Title })
	return insights
}

// trendConfidence grows with sample size and slope strength
func trendConfidence(summary MetricSummary, thresholds InsightThresholds) float64 {
	sampleConf := float64(summary.Samples) / 40.0
	if sampleConf > 0.5 {
		sampleConf = 0.5
	}
	slopeConf := math.Abs(summary.Trend) / (thresholds.TrendSlope * 4)
	if slopeConf > 0.5 {
		slopeConf = 0.5
	}
	return sampleConf + slopeConf
}

// correlationInsights checks whether lucidity travels with recall quality
func correlationInsights(entries []model.Entry, scores []RecallScore, thresholds InsightThresholds) []Insight {
	var xs, ys []float64
	scoreByPath := make(map[string]float64, len(scores))
	for _, s := range scores {
		scoreByPath[s.Path] = s.Score
	}
	for i := range entries {
		if v, ok := entries[i].Metric("Lucidity Level"); ok {
			xs = append(xs, v)
			ys = append(ys, scoreByPath[entries[i].Path])
		}
	}
	if len(xs) < thresholds.MinSamples {
		return nil
	}

	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) || math.Abs(r) < thresholds.StrongCorr {
		return nil
	}

	direction := "better"
	if r < 0 {
		direction = "worse"
	}
	confidence := math.Abs(r)*0.7 + float64(len(xs))/100.0
	if confidence > 1 {
		confidence = 1
	}
	return []Insight{{
		Kind:       "correlation",
		Title:      fmt.Sprintf("Lucid nights recall %s", direction),
		Detail:     fmt.Sprintf("Lucidity and recall quality correlate at %.2f across %d entries", r, len(xs)),
		Confidence: confidence,
	}}
}

// symbolInsights surfaces the dominant symbol and its strongest companion
func symbolInsights(symbolStats *SymbolStats, thresholds InsightThresholds) []Insight {
	if symbolStats == nil || !symbolStats.IsPhase2Ready() {
		return nil
	}
	top := symbolStats.TopSymbols(1)
	if len(top) == 0 || top[0].Count < 3 {
		return nil
	}

	symbol := top[0]
	detail := fmt.Sprintf("Appears in %d entries", symbol.Count)
	for _, pair := range symbolStats.TopPairs {
		if pair.A == symbol.Name || pair.B == symbol.Name {
			other := pair.A
			if other == symbol.Name {
				other = pair.B
			}
			detail = fmt.Sprintf("Appears in %d entries, most often alongside %q", symbol.Count, other)
			break
		}
	}

	confidence := 0.3 + float64(symbol.Count)/20.0
	if confidence > 0.9 {
		confidence = 0.9
	}
	return []Insight{{
		Kind:       "symbol",
		Title:      fmt.Sprintf("%q anchors your dream imagery", symbol.Name),
		Detail:     detail,
		Confidence: confidence,
	}}
}

// streakInsight celebrates a live recording streak
func streakInsight(stats JournalStats, thresholds InsightThresholds) []Insight {
	if stats.CurrentStreak < thresholds.StreakHighlight {
		return nil
	}
	confidence := 0.5 + float64(stats.CurrentStreak)/60.0
	if confidence > 1 {
		confidence = 1
	}
	return []Insight{{
		Kind:       "streak",
		Title:      fmt.Sprintf("%d-day recording streak", stats.CurrentStreak),
		Detail:     "Consistent recording is the strongest predictor of recall gains",
		Confidence: confidence,
	}}
}

// practiceInsights suggests what to work on next
func practiceInsights(scores []RecallScore, drift DriftSignals, thresholds InsightThresholds) []Insight {
	var insights []Insight

	if drift.CompositeDrift >= 0.4 {
		insights = append(insights, Insight{
			Kind:       "practice",
			Title:      "Recall practice is drifting",
			Detail:     drift.Explanation,
			Confidence: drift.CompositeDrift,
		})
	}

	if weakest, avg, ok := weakestComponent(scores); ok && avg < 0.45 {
		insights = append(insights, Insight{
			Kind:       "practice",
			Title:      fmt.Sprintf("Weakest recall component: %s", weakest),
			Detail:     practiceTip(weakest),
			Confidence: 0.3 + (0.45-avg),
		})
	}

	return insights
}

// weakestComponent finds the lowest-averaging recall component
func weakestComponent(scores []RecallScore) (string, float64, bool) {
	if len(scores) == 0 {
		return "", 0, false
	}

	sums := map[string]float64{}
	for _, s := range scores {
		sums["sensory detail"] += s.Breakdown.SensoryNorm
		sums["emotional recall"] += s.Breakdown.EmotionalNorm
		sums["continuity"] += s.Breakdown.ContinuityNorm
		sums["confidence"] += s.Breakdown.ConfidenceNorm
		sums["descriptiveness"] += s.Breakdown.DetailNorm
	}

	names := make([]string, 0, len(sums))
	for name := range sums {
		names = append(names, name)
	}
	sort.Strings(names)

	weakest := names[0]
	lowest := sums[weakest]
	for _, name := range names[1:] {
		if sums[name] < lowest {
			weakest = name
			lowest = sums[name]
		}
	}
	return weakest, lowest / float64(len(scores)), true
}

// practiceTip maps a weak component to a concrete exercise
func practiceTip(component string) string {
	switch component {
	case "sensory detail":
		return "Before opening your eyes, hold one sensory impression and write it first"
	case "emotional recall":
		return "Name the strongest feeling of the dream before describing events"
	case "continuity":
		return "Mark gaps explicitly; naming a gap often recovers the scene around it"
	case "confidence":
		return "Write immediately on waking, before the memory gets reconstructed"
	case "descriptiveness":
		return "Expand one scene per entry into full sentences instead of notes"
	default:
		return "Keep recording daily"
	}
}

