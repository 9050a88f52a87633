// Package model defines the core data types for dream-journal entries and
// the metric catalog. Types here are plain data; parsing lives in pkg/journal
// and scoring logic in pkg/analysis.
package model

import "time"

// EntryKind classifies a journal entry for display purposes.
type EntryKind string

const (
	KindOrdinary  EntryKind = "ordinary"
	KindVivid     EntryKind = "vivid"
	KindLucid     EntryKind = "lucid"
	KindFragment  EntryKind = "fragment"
	KindNightmare EntryKind = "nightmare"
)

// ParseEntryKind maps a front-matter kind string to an EntryKind.
// Unknown or empty values default to ordinary.
func ParseEntryKind(s string) EntryKind {
	switch EntryKind(s) {
	case KindVivid, KindLucid, KindFragment, KindNightmare:
		return EntryKind(s)
	default:
		return KindOrdinary
	}
}

// Entry is one recorded dream.
type Entry struct {
	Path  string    `json:"path" yaml:"-"`
	Title string    `json:"title" yaml:"title"`
	Date  time.Time `json:"date" yaml:"date"`
	Kind  EntryKind `json:"kind" yaml:"kind"`

	// Metrics maps a catalog metric name to its recorded value. Score
	// metrics store the score, toggles store 0 or 1, counts store the count.
	Metrics map[string]float64 `json:"metrics" yaml:"metrics"`

	Symbols    []string `json:"symbols,omitempty" yaml:"symbols"`
	Characters []string `json:"characters,omitempty" yaml:"characters"`
	Tags       []string `json:"tags,omitempty" yaml:"tags"`

	WordCount int `json:"word_count" yaml:"-"`

	// ModTime is the source file's modification time, used for staleness
	// signals. ContentHash fingerprints the raw file for cache keys.
	ModTime     time.Time `json:"mod_time" yaml:"-"`
	ContentHash string    `json:"content_hash,omitempty" yaml:"-"`
}

// Metric returns the recorded value for a metric name.
func (e *Entry) Metric(name string) (float64, bool) {
	if e.Metrics == nil {
		return 0, false
	}
	v, ok := e.Metrics[name]
	return v, ok
}

// HasSymbol reports whether the entry records the given symbol.
func (e *Entry) HasSymbol(symbol string) bool {
	for _, s := range e.Symbols {
		if s == symbol {
			return true
		}
	}
	return false
}

// Lucid reports whether the entry is classified as a lucid dream.
func (e *Entry) Lucid() bool {
	return e.Kind == KindLucid
}
