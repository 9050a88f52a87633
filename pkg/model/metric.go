package model

import "fmt"

// MetricKind describes how a metric's value is recorded.
type MetricKind string

const (
	// MetricScore is a bounded integer score (e.g. 1-5).
	MetricScore MetricKind = "score"
	// MetricCount is an unbounded non-negative count.
	MetricCount MetricKind = "count"
	// MetricKeywords is a free-form list; the recorded value is the list length.
	MetricKeywords MetricKind = "keywords"
	// MetricToggle is a yes/no flag recorded as 0 or 1.
	MetricToggle MetricKind = "toggle"
)

// Metric is one catalog definition. The catalog itself lives in pkg/metric.
type Metric struct {
	Name        string     `json:"name" yaml:"name"`
	Icon        string     `json:"icon" yaml:"icon"`
	Kind        MetricKind `json:"kind" yaml:"kind"`
	Min         int        `json:"min,omitempty" yaml:"min,omitempty"`
	Max         int        `json:"max,omitempty" yaml:"max,omitempty"`
	Description string     `json:"description" yaml:"description"`

	// Rubric holds one guidance line per score level for score metrics,
	// lowest level first. Empty for other kinds.
	Rubric []string `json:"rubric,omitempty" yaml:"rubric,omitempty"`
}

// RangeLabel renders the range suffix used in guide headings, e.g.
// "Score 1-5" or "Count". Keyword metrics have no range.
func (m Metric) RangeLabel() string {
	switch m.Kind {
	case MetricScore:
		return fmt.Sprintf("Score %d-%d", m.Min, m.Max)
	case MetricCount:
		return "Count"
	case MetricToggle:
		return "Yes/No"
	default:
		return ""
	}
}

// HeadingText is the metric's guide heading: the name plus the range suffix
// in parentheses when one applies. Guide prefix rules match against this.
func (m Metric) HeadingText() string {
	if label := m.RangeLabel(); label != "" {
		return fmt.Sprintf("%s (%s)", m.Name, label)
	}
	return m.Name
}

// ValidValue reports whether a recorded value is in range for the metric.
func (m Metric) ValidValue(v float64) bool {
	switch m.Kind {
	case MetricScore:
		return v >= float64(m.Min) && v <= float64(m.Max)
	case MetricCount, MetricKeywords:
		return v >= 0
	case MetricToggle:
		return v == 0 || v == 1
	default:
		return false
	}
}
