package analysis

import (
	"math"
	"time"

	"github.com/mistvale/dreamscope/pkg/model"
)

// DriftSignals contains recall degradation metrics for a journal.
// Drift is the slow decay of a recall practice: scores slipping, entries
// thinning out, recall turning erratic.
type DriftSignals struct {
	// ScoreSlump measures how far recent recall scores have fallen below
	// the journal's baseline. High slump = recall quality is declining.
	ScoreSlump float64 `json:"score_slump"`

	// GapRisk measures how long it has been since the last entry.
	// Dream recall fades fast without regular practice.
	GapRisk float64 `json:"gap_risk"`

	// Variability measures how erratic recent recall scores are.
	// High variability = unstable recall that may need attention.
	Variability float64 `json:"variability"`

	// FragmentRisk measures the share of recent entries that are fragments
	// or recorded with low confidence.
	FragmentRisk float64 `json:"fragment_risk"`

	// CompositeDrift is the weighted combination of all drift signals (0-1)
	CompositeDrift float64 `json:"composite_drift"`

	// Explanation provides a human-readable drift assessment
	Explanation string `json:"explanation,omitempty"`
}

// DriftWeights configure the relative importance of drift signals
type DriftWeights struct {
	ScoreSlump   float64
	GapRisk      float64
	Variability  float64
	FragmentRisk float64
}

// DefaultDriftWeights returns balanced drift weights
func DefaultDriftWeights() DriftWeights {
	return DriftWeights{
		ScoreSlump:   0.35,
		GapRisk:      0.25,
		Variability:  0.20,
		FragmentRisk: 0.20,
	}
}

// recentEntries is the window treated as "recent" by the drift signals.
const recentEntries = 7

// ComputeDriftSignals calculates drift metrics for a journal.
// Entries must be sorted by date, oldest first.
func ComputeDriftSignals(entries []model.Entry, now time.Time) DriftSignals {
	return ComputeDriftSignalsWithWeights(entries, now, DefaultDriftWeights())
}

// ComputeDriftSignalsWithWeights calculates drift with custom weights
func ComputeDriftSignalsWithWeights(entries []model.Entry, now time.Time, weights DriftWeights) DriftSignals {
	signals := DriftSignals{}
	if len(entries) == 0 {
		signals.Explanation = "No entries yet"
		return signals
	}

	// Per-entry composite scores in journal order
	scores := make([]float64, len(entries))
	for i := range entries {
		scores[i] = ComputeRecallScore(&entries[i]).Score
	}

	// 1. Score slump - recent mean vs baseline mean
	signals.ScoreSlump = computeScoreSlump(scores)

	// 2. Gap risk - days since the last entry
	signals.GapRisk = computeGapRisk(entries[len(entries)-1].Date, now)

	// 3. Variability - coefficient of variation over recent scores
	signals.Variability = computeVariability(scores)

	// 4. Fragment risk - fragments and low confidence in the recent window
	signals.FragmentRisk = computeFragmentRisk(entries)

	// Compute weighted composite
	signals.CompositeDrift = signals.ScoreSlump*weights.ScoreSlump +
		signals.GapRisk*weights.GapRisk +
		signals.Variability*weights.Variability +
		signals.FragmentRisk*weights.FragmentRisk

	// Cap at 1.0
	if signals.CompositeDrift > 1.0 {
		signals.CompositeDrift = 1.0
	}

	// Generate explanation
	signals.Explanation = generateDriftExplanation(signals)

	return signals
}

// computeScoreSlump compares the recent window's mean score against the
// mean of everything before it.
func computeScoreSlump(scores []float64) float64 {
	if len(scores) < recentEntries+3 {
		// Not enough history to call it a slump
		return 0
	}

	recent := scores[len(scores)-recentEntries:]
	baseline := scores[:len(scores)-recentEntries]

	baseMean := meanOf(baseline)
	if baseMean == 0 {
		return 0
	}
	recentMean := meanOf(recent)

	slump := (baseMean - recentMean) / baseMean
	if slump < 0 {
		return 0 // Improving, no drift
	}
	if slump > 1 {
		slump = 1
	}
	return slump
}

// computeGapRisk maps days since the last entry onto 0-1.
// Two weeks of silence is full risk.
func computeGapRisk(lastEntry time.Time, now time.Time) float64 {
	if lastEntry.IsZero() {
		return 0.5 // Unknown = moderate risk
	}

	daysSince := now.Sub(lastEntry).Hours() / 24
	risk := daysSince / 14.0
	if risk > 1.0 {
		risk = 1.0
	}
	if risk < 0 {
		risk = 0
	}
	return risk
}

// computeVariability measures the coefficient of variation over the recent
// window. Erratic recall scores signal an unstable practice.
func computeVariability(scores []float64) float64 {
	window := scores
	if len(window) > recentEntries {
		window = window[len(window)-recentEntries:]
	}
	if len(window) < 2 {
		return 0
	}

	mean := meanOf(window)
	if mean == 0 {
		return 0
	}

	sumSquares := 0.0
	for _, v := range window {
		diff := v - mean
		sumSquares += diff * diff
	}
	stdDev := math.Sqrt(sumSquares / float64(len(window)))
	cv := stdDev / mean

	// Normalize: CV above 0.5 is highly erratic for 0-1 scores
	normalized := cv / 0.5
	if normalized > 1.0 {
		normalized = 1.0
	}
	return normalized
}

// computeFragmentRisk measures fragments and low-confidence entries in the
// recent window.
func computeFragmentRisk(entries []model.Entry) float64 {
	window := entries
	if len(window) > recentEntries {
		window = window[len(window)-recentEntries:]
	}
	if len(window) == 0 {
		return 0
	}

	risky := 0
	for i := range window {
		if window[i].Kind == model.KindFragment {
			risky++
			continue
		}
		if conf, ok := window[i].Metric(metricConfidence); ok && conf <= 2 {
			risky++
		}
	}
	return float64(risky) / float64(len(window))
}

// generateDriftExplanation creates a human-readable drift assessment
func generateDriftExplanation(signals DriftSignals) string {
	if signals.CompositeDrift < 0.2 {
		return "Low drift - recall practice is holding steady"
	}

	var explanations []string

	if signals.ScoreSlump > 0.25 {
		explanations = append(explanations, "recall scores are slipping")
	}
	if signals.GapRisk > 0.5 {
		explanations = append(explanations, "long gap since the last entry")
	}
	if signals.Variability > 0.6 {
		explanations = append(explanations, "recall quality is erratic")
	}
	if signals.FragmentRisk > 0.4 {
		explanations = append(explanations, "recent entries are mostly fragments")
	}

	if len(explanations) == 0 {
		return "Moderate drift"
	}

	return "Drift factors: " + joinFactors(explanations)
}

// joinFactors joins factors with commas
func joinFactors(factors []string) string {
	if len(factors) == 0 {
		return ""
	}
	result := factors[0]
	for i := 1; i < len(factors); i++ {
		result += ", " + factors[i]
	}
	return result
}

// meanOf calculates the arithmetic mean
func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
