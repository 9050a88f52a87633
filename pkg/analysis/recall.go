package analysis

import (
	"sort"

	"github.com/mistvale/dreamscope/pkg/model"
)

// RecallScore represents the composite recall quality score for an entry
type RecallScore struct {
	Path      string          `json:"path"`
	Title     string          `json:"title"`
	Score     float64         `json:"score"`     // Composite 0-1 score
	Breakdown RecallBreakdown `json:"breakdown"` // Individual components
	Kind      model.EntryKind `json:"kind"`
}

// RecallBreakdown shows the weighted contribution of each component
type RecallBreakdown struct {
	Sensory    float64 `json:"sensory"`    // 0.25 weight
	Emotional  float64 `json:"emotional"`  // 0.20 weight
	Continuity float64 `json:"continuity"` // 0.20 weight
	Confidence float64 `json:"confidence"` // 0.20 weight
	Detail     float64 `json:"detail"`     // 0.15 weight

	// Raw normalized values (before weighting)
	SensoryNorm    float64 `json:"sensory_norm"`
	EmotionalNorm  float64 `json:"emotional_norm"`
	ContinuityNorm float64 `json:"continuity_norm"`
	ConfidenceNorm float64 `json:"confidence_norm"`
	DetailNorm     float64 `json:"detail_norm"`
}

// Weights for the composite recall score
const (
	WeightSensory    = 0.25
	WeightEmotional  = 0.20
	WeightContinuity = 0.20
	WeightConfidence = 0.20
	WeightDetail     = 0.15
)

// Metric names feeding the recall score. These match the catalog.
const (
	metricSensory    = "Sensory Detail"
	metricEmotional  = "Emotional Recall"
	metricLost       = "Lost Segments"
	metricConfidence = "Confidence Score"
	metricDetail     = "Descriptiveness"
)

// wordCountCeiling is the word count treated as full marks for the detail
// component's length signal.
const wordCountCeiling = 500

// ComputeRecallScores calculates recall scores for all entries,
// sorted best first.
func ComputeRecallScores(entries []model.Entry) []RecallScore {
	if len(entries) == 0 {
		return nil
	}

	scores := make([]RecallScore, 0, len(entries))
	for i := range entries {
		scores = append(scores, ComputeRecallScore(&entries[i]))
	}

	// Sort by score descending, then by path ascending for stability
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Score != scores[j].Score {
			return scores[i].Score > scores[j].Score
		}
		return scores[i].Path < scores[j].Path
	})

	return scores
}

// ComputeRecallScore calculates the composite recall score for one entry.
// Missing score metrics contribute a neutral 0.5, so sparse entries land in
// the middle rather than the bottom.
func ComputeRecallScore(entry *model.Entry) RecallScore {
	sensoryNorm := scoreNorm(entry, metricSensory)
	emotionalNorm := scoreNorm(entry, metricEmotional)
	continuityNorm := continuityNorm(entry)
	confidenceNorm := scoreNorm(entry, metricConfidence)
	detailNorm := detailNorm(entry)

	breakdown := RecallBreakdown{
		Sensory:    sensoryNorm * WeightSensory,
		Emotional:  emotionalNorm * WeightEmotional,
		Continuity: continuityNorm * WeightContinuity,
		Confidence: confidenceNorm * WeightConfidence,
		Detail:     detailNorm * WeightDetail,

		SensoryNorm:    sensoryNorm,
		EmotionalNorm:  emotionalNorm,
		ContinuityNorm: continuityNorm,
		ConfidenceNorm: confidenceNorm,
		DetailNorm:     detailNorm,
	}

	score := breakdown.Sensory +
		breakdown.Emotional +
		breakdown.Continuity +
		breakdown.Confidence +
		breakdown.Detail

	return RecallScore{
		Path:      entry.Path,
		Title:     entry.Title,
		Score:     score,
		Breakdown: breakdown,
		Kind:      entry.Kind,
	}
}

// TopRecallScores returns the top N recall scores
func TopRecallScores(entries []model.Entry, n int) []RecallScore {
	scores := ComputeRecallScores(entries)
	if n > len(scores) {
		n = len(scores)
	}
	return scores[:n]
}

// AverageRecall returns the mean composite score, 0 for an empty set.
func AverageRecall(scores []RecallScore) float64 {
	if len(scores) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range scores {
		sum += s.Score
	}
	return sum / float64(len(scores))
}

// scoreNorm maps a 1-5 score metric onto 0-1, 0.5 when unrecorded.
func scoreNorm(entry *model.Entry, name string) float64 {
	v, ok := entry.Metric(name)
	if !ok {
		return 0.5
	}
	return clamp01((v - 1) / 4)
}

// continuityNorm maps lost segments onto 0-1: no gaps is 1.0, five or more
// gaps is 0. Unrecorded counts as no known gaps.
func continuityNorm(entry *model.Entry) float64 {
	v, ok := entry.Metric(metricLost)
	if !ok {
		return 0.5
	}
	return clamp01(1 - v/5)
}

// detailNorm blends the descriptiveness score with entry length. Length
// alone carries the component when descriptiveness is unrecorded.
func detailNorm(entry *model.Entry) float64 {
	wordNorm := clamp01(float64(entry.WordCount) / wordCountCeiling)
	v, ok := entry.Metric(metricDetail)
	if !ok {
		return wordNorm
	}
	descNorm := clamp01((v - 1) / 4)
	return descNorm*0.6 + wordNorm*0.4
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
