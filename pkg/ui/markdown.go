package ui

import (
	"github.com/charmbracelet/glamour"
)

// MarkdownRenderer wraps a glamour terminal renderer. Construction can fail
// (no usable style, odd TERM); callers always get a renderer back, and
// Render degrades to returning the raw markdown instead of erroring the
// whole view away.
type MarkdownRenderer struct {
	renderer *glamour.TermRenderer
	width    int
}

// NewMarkdownRendererWithTheme builds a renderer wrapping at width, picking
// a glamour style to match the theme's background.
func NewMarkdownRendererWithTheme(width int, theme Theme) *MarkdownRenderer {
	m := &MarkdownRenderer{}
	m.SetWidthWithTheme(width, theme)
	return m
}

// SetWidthWithTheme rebuilds the underlying glamour renderer for a new wrap
// width. Glamour renderers bake the width in, so resize means rebuild.
func (m *MarkdownRenderer) SetWidthWithTheme(width int, theme Theme) {
	if width < 40 {
		width = 40
	}
	m.width = width

	style := "light"
	if theme.Renderer == nil || theme.Renderer.HasDarkBackground() {
		style = "dracula"
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		m.renderer = nil
		return
	}
	m.renderer = r
}

// Render renders markdown to styled terminal output. When the glamour
// renderer is unavailable the raw content comes back with a nil error, so
// the guide stays readable on terminals glamour cannot style.
func (m *MarkdownRenderer) Render(content string) (string, error) {
	if m == nil || m.renderer == nil {
		return content, nil
	}
	out, err := m.renderer.Render(content)
	if err != nil {
		return content, err
	}
	return out, nil
}

// Width returns the current wrap width.
func (m *MarkdownRenderer) Width() int {
	return m.width
}
