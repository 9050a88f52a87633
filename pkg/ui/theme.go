package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/mistvale/dreamscope/pkg/guide"
	"github.com/mistvale/dreamscope/pkg/model"
)

type Theme struct {
	Renderer *lipgloss.Renderer

	// Colors
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor

	// Entry kinds
	Lucid     lipgloss.AdaptiveColor
	Vivid     lipgloss.AdaptiveColor
	Nightmare lipgloss.AdaptiveColor
	Fragment  lipgloss.AdaptiveColor
	Ordinary  lipgloss.AdaptiveColor

	// Signals
	Positive lipgloss.AdaptiveColor
	Warning  lipgloss.AdaptiveColor

	// UI Elements
	Border    lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor

	// Styles
	Base     lipgloss.Style
	Selected lipgloss.Style
	Header   lipgloss.Style

	icons guide.GlyphRegistry
}

// DefaultTheme returns the standard "dusk" theme, Dracula-inspired (adaptive)
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,

		// Dracula / Light Mode equivalent
		Primary:   lipgloss.AdaptiveColor{Light: "#7D56F4", Dark: "#BD93F9"}, // Purple
		Secondary: lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"}, // Gray
		Subtext:   lipgloss.AdaptiveColor{Light: "#999999", Dark: "#BFBFBF"}, // Dim
		Muted:     lipgloss.AdaptiveColor{Light: "#CCCCCC", Dark: "#44475A"}, // Dimmer

		Lucid:     lipgloss.AdaptiveColor{Light: "#7D56F4", Dark: "#BD93F9"}, // Purple
		Vivid:     lipgloss.AdaptiveColor{Light: "#D88000", Dark: "#FFB86C"}, // Orange
		Nightmare: lipgloss.AdaptiveColor{Light: "#D80000", Dark: "#FF5555"}, // Red
		Fragment:  lipgloss.AdaptiveColor{Light: "#555555", Dark: "#6272A4"}, // Gray
		Ordinary:  lipgloss.AdaptiveColor{Light: "#007EA8", Dark: "#8BE9FD"}, // Cyan

		Positive: lipgloss.AdaptiveColor{Light: "#00A800", Dark: "#50FA7B"}, // Green
		Warning:  lipgloss.AdaptiveColor{Light: "#A8A800", Dark: "#F1FA8C"}, // Yellow

		Border:    lipgloss.AdaptiveColor{Light: "#DDDDDD", Dark: "#44475A"},
		Highlight: lipgloss.AdaptiveColor{Light: "#EEEEEE", Dark: "#44475A"},

		icons: guide.TerminalIcons(),
	}

	t.Base = r.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#000000", Dark: "#F8F8F2"})

	t.Selected = r.NewStyle().
		Background(t.Highlight).
		Border(lipgloss.ThickBorder(), false, false, false, true).
		BorderForeground(t.Primary).
		PaddingLeft(1).
		Bold(true)

	t.Header = r.NewStyle().
		Background(t.Primary).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}).
		Bold(true).
		Padding(0, 1)

	return t
}

// ThemeByName maps a config theme name to its palette. Unknown names fall
// back to the default "dusk" theme.
func ThemeByName(name string, r *lipgloss.Renderer) Theme {
	switch name {
	case "dawn":
		return dawnTheme(r)
	case "mono":
		return monoTheme(r)
	default:
		return DefaultTheme(r)
	}
}

// dawnTheme is a warmer variant for people who journal in the morning.
func dawnTheme(r *lipgloss.Renderer) Theme {
	t := DefaultTheme(r)
	t.Primary = lipgloss.AdaptiveColor{Light: "#C2410C", Dark: "#FFB86C"}   // Amber
	t.Secondary = lipgloss.AdaptiveColor{Light: "#7A5C3E", Dark: "#B8A088"} // Sand
	t.Lucid = lipgloss.AdaptiveColor{Light: "#C2410C", Dark: "#FFB86C"}
	t.Highlight = lipgloss.AdaptiveColor{Light: "#FFE9D6", Dark: "#4A3B2A"}
	t.Selected = t.Selected.BorderForeground(t.Primary)
	t.Header = t.Header.Background(t.Primary)
	return t
}

// monoTheme strips color for plain terminals and screenshots.
func monoTheme(r *lipgloss.Renderer) Theme {
	gray := lipgloss.AdaptiveColor{Light: "#444444", Dark: "#AAAAAA"}
	dim := lipgloss.AdaptiveColor{Light: "#888888", Dark: "#666666"}
	t := DefaultTheme(r)
	t.Primary = gray
	t.Secondary = dim
	t.Subtext = dim
	t.Muted = dim
	t.Lucid = gray
	t.Vivid = gray
	t.Nightmare = gray
	t.Fragment = dim
	t.Ordinary = gray
	t.Positive = gray
	t.Warning = gray
	t.Border = dim
	t.Highlight = lipgloss.AdaptiveColor{Light: "#EEEEEE", Dark: "#333333"}
	t.Selected = t.Selected.BorderForeground(gray)
	t.Header = t.Header.Background(gray)
	return t
}

func (t Theme) GetKindColor(k model.EntryKind) lipgloss.AdaptiveColor {
	switch k {
	case model.KindLucid:
		return t.Lucid
	case model.KindVivid:
		return t.Vivid
	case model.KindNightmare:
		return t.Nightmare
	case model.KindFragment:
		return t.Fragment
	case model.KindOrdinary:
		return t.Ordinary
	default:
		return t.Subtext
	}
}

func (t Theme) GetKindIcon(k model.EntryKind) (string, lipgloss.AdaptiveColor) {
	switch k {
	case model.KindLucid:
		// Use 🌙 instead of 🪄 here - the wand stays reserved for the
		// Lucidity Level metric and the moon reads better in entry lists
		return "🌙", t.Lucid
	case model.KindVivid:
		return "✨", t.Vivid
	case model.KindNightmare:
		return "💀", t.Nightmare
	case model.KindFragment:
		return "🧩", t.Fragment
	case model.KindOrdinary:
		return "💤", t.Ordinary
	default:
		return "•", t.Subtext
	}
}

// Resolve implements guide.IconRegistry, so the theme itself is the icon
// registry handed to the annotator in the TUI.
func (t Theme) Resolve(id string) (string, bool) {
	return t.icons.Resolve(id)
}

// GetMetricIcon resolves a catalog icon id to its terminal glyph and a
// display color. Unregistered ids get the neutral bullet.
func (t Theme) GetMetricIcon(id string) (string, lipgloss.AdaptiveColor) {
	glyph, ok := t.icons.Resolve(id)
	if !ok {
		return "•", t.Subtext
	}
	switch id {
	case "wand", "sparkles":
		return glyph, t.Lucid
	case "heart", "circle-minus", "user-x":
		return glyph, t.Nightmare
	case "eye", "glasses", "clock", "home":
		return glyph, t.Ordinary
	case "pen-tool", "zap":
		return glyph, t.Vivid
	case "check-circle", "layers", "user-check":
		return glyph, t.Positive
	case "users", "users-round", "user-cog":
		return glyph, t.Warning
	default:
		return glyph, t.Subtext
	}
}
