// Package guide implements the heading annotation pass used by the metrics
// guide. The annotator walks a rendered content region, finds the headings
// that introduce a metric, and inserts that metric's icon as the heading's
// first child. It depends only on the minimal Region capability, so the same
// pass runs against markdown source (TUI), parsed HTML (export), and an
// in-memory double (tests).
package guide

import (
	"io"
	"log"
	"strings"
)

// IconRule maps a heading-text prefix to an icon identifier. Rules are an
// explicit ordered sequence: they are tried in slice order and the first
// prefix match wins, which makes the match deterministic and testable.
type IconRule struct {
	Prefix string
	IconID string
}

// IconRegistry resolves icon identifiers to renderable content. Resolve
// reports false for unknown identifiers.
type IconRegistry interface {
	Resolve(id string) (content string, ok bool)
}

// Heading is one mutable heading element inside a Region.
type Heading interface {
	// Level is the heading level (3 for h3/###, 4 for h4/####).
	Level() int
	// Text is the heading's read-only text label, empty if unset.
	Text() string
	// Prepend inserts a decoration node as the heading's first child.
	Prepend(decoration string)
}

// Region is the minimal container capability the annotator needs: its
// heading elements in document order.
type Region interface {
	Headings() []Heading
}

// Annotator decorates matching headings in a Region. The zero value is not
// usable; construct with NewAnnotator.
type Annotator struct {
	logger *log.Logger
}

// NewAnnotator returns an annotator that discards log output until a logger
// is injected with SetLogger.
func NewAnnotator() *Annotator {
	return &Annotator{logger: log.New(io.Discard, "", 0)}
}

// SetLogger injects the logger used for suppressed failures. Messages carry
// the "[UI]" category prefix.
func (a *Annotator) SetLogger(l *log.Logger) {
	if l != nil {
		a.logger = l
	}
}

// Annotate walks the region's level 3 and 4 headings in document order and
// inserts the first matching rule's icon as each heading's first child.
// Matching is case-sensitive literal prefix matching. Once a rule matches a
// heading, no further rules are tried for it, even if the matched icon is
// missing from the registry (the miss is logged and the heading left alone).
//
// Annotate never panics or returns an error: the dialog must stay usable
// when decoration fails, so failures are logged and suppressed. Decorations
// inserted before a failure are kept.
//
// Re-running on an already-annotated region inserts a second decoration.
// Callers annotate exactly once per fresh render.
func (a *Annotator) Annotate(root Region, rules []IconRule, registry IconRegistry) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Printf("[UI] metrics guide annotation aborted: %v", r)
		}
	}()

	if root == nil {
		return
	}

	for _, h := range root.Headings() {
		if lvl := h.Level(); lvl != 3 && lvl != 4 {
			continue
		}
		text := h.Text()
		for _, rule := range rules {
			if !strings.HasPrefix(text, rule.Prefix) {
				continue
			}
			if icon, ok := registry.Resolve(rule.IconID); ok {
				h.Prepend(icon)
			} else {
				a.logger.Printf("[UI] icon %q not registered, leaving heading %q undecorated", rule.IconID, text)
			}
			break
		}
	}
}
