package guide

import "fmt"

// GlyphRegistry is a fixed icon table. It satisfies IconRegistry for both
// the terminal glyph set and the inline SVG set.
type GlyphRegistry map[string]string

func (g GlyphRegistry) Resolve(id string) (string, bool) {
	content, ok := g[id]
	return content, ok
}

// TerminalIcons is the built-in glyph table used when annotating the guide
// for terminal display.
func TerminalIcons() GlyphRegistry {
	return GlyphRegistry{
		"eye":          "👁",
		"heart":        "💗",
		"circle-minus": "⊖",
		"pen-tool":     "🖋",
		"check-circle": "✅",
		"user-cog":     "🎭",
		"users":        "👥",
		"user-check":   "🤝",
		"user-x":       "👤",
		"users-round":  "👪",
		"sparkles":     "✨",
		"wand":         "🪄",
		"glasses":      "👓",
		"home":         "🏠",
		"clock":        "🕑",
		"zap":          "⚡",
		"layers":       "📚",
	}
}

// svgShapes holds the inner markup for each icon id. Shapes are simplified
// 24x24 outlines, not pixel-faithful icon art.
var svgShapes = map[string]string{
	"eye":          `<path d="M1 12s4-7 11-7 11 7 11 7-4 7-11 7-11-7-11-7z"/><circle cx="12" cy="12" r="3"/>`,
	"heart":        `<path d="M12 21l-8-8a5.5 5.5 0 1 1 8-7 5.5 5.5 0 1 1 8 7z"/>`,
	"circle-minus": `<circle cx="12" cy="12" r="10"/><line x1="8" y1="12" x2="16" y2="12"/>`,
	"pen-tool":     `<path d="M12 19l7-7 3 3-7 7-3-3z"/><path d="M18 13l-1.5-7.5L2 2l3.5 14.5L13 18l5-5z"/>`,
	"check-circle": `<circle cx="12" cy="12" r="10"/><path d="M8 12l3 3 5-6"/>`,
	"user-cog":     `<circle cx="9" cy="7" r="4"/><path d="M2 21v-2a4 4 0 0 1 4-4h6"/><circle cx="18" cy="17" r="3"/>`,
	"users":        `<circle cx="9" cy="7" r="4"/><path d="M2 21v-2a4 4 0 0 1 4-4h6a4 4 0 0 1 4 4v2"/><path d="M16 3.1a4 4 0 0 1 0 7.8"/>`,
	"user-check":   `<circle cx="9" cy="7" r="4"/><path d="M2 21v-2a4 4 0 0 1 4-4h6"/><path d="M16 11l2 2 4-4"/>`,
	"user-x":       `<circle cx="9" cy="7" r="4"/><path d="M2 21v-2a4 4 0 0 1 4-4h6"/><path d="M17 8l5 5M22 8l-5 5"/>`,
	"users-round":  `<circle cx="12" cy="6" r="4"/><path d="M4 21a8 8 0 0 1 16 0"/>`,
	"sparkles":     `<path d="M12 3l1.9 5.8L20 11l-6.1 2.2L12 19l-1.9-5.8L4 11l6.1-2.2z"/>`,
	"wand":         `<path d="M15 4V2M15 10V8M11 6h2M19 6h2M17.8 8.2L19 9.4M17.8 3.8L19 2.6M3 21l9-9"/>`,
	"glasses":      `<circle cx="6" cy="15" r="4"/><circle cx="18" cy="15" r="4"/><path d="M10 15h4M2 15l2-8h2M22 15l-2-8h-2"/>`,
	"home":         `<path d="M3 10l9-7 9 7v10a1 1 0 0 1-1 1h-5v-7h-6v7H4a1 1 0 0 1-1-1z"/>`,
	"clock":        `<circle cx="12" cy="12" r="10"/><path d="M12 6v6l4 2"/>`,
	"zap":          `<path d="M13 2L3 14h7l-1 8 10-12h-7z"/>`,
	"layers":       `<path d="M12 2l10 5-10 5L2 7z"/><path d="M2 12l10 5 10-5"/><path d="M2 17l10 5 10-5"/>`,
}

// SVGIcons is the inline icon table used by the HTML guide exporter.
func SVGIcons() GlyphRegistry {
	out := make(GlyphRegistry, len(svgShapes))
	for id, shape := range svgShapes {
		out[id] = fmt.Sprintf(`<svg class="metric-icon" viewBox="0 0 24 24" width="16" height="16" fill="none" stroke="currentColor" stroke-width="2" stroke-linecap="round" stroke-linejoin="round" aria-hidden="true">%s</svg>`, shape)
	}
	return out
}
