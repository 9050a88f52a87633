package ui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// colorMuted is the fallback for uncolorable badges.
var colorMuted = lipgloss.Color("#6272A4")

// RenderSparkline creates a textual bar chart of value (0.0 - 1.0)
func RenderSparkline(val float64, width int) string {
	if width <= 0 {
		return ""
	}

	chars := []string{" ", "▂", "▃", "▄", "▅", "▆", "▇", "█"}

	if math.IsNaN(val) {
		val = 0
	}
	if val < 0 {
		val = 0
	}
	if val > 1 {
		val = 1
	}

	// Calculate fullness
	fullChars := int(val * float64(width))
	remainder := (val * float64(width)) - float64(fullChars)

	var sb strings.Builder
	for i := 0; i < fullChars; i++ {
		sb.WriteString("█")
	}

	if fullChars < width {
		idx := int(remainder * float64(len(chars)))
		// Ensure non-zero values are visible
		if idx == 0 && remainder > 0 {
			idx = 1
		}
		if idx >= len(chars) {
			idx = len(chars) - 1
		}
		if idx > 0 {
			sb.WriteString(chars[idx])
		} else {
			sb.WriteString(" ")
		}
	}

	// Pad
	padding := width - fullChars - 1
	if padding > 0 {
		sb.WriteString(strings.Repeat(" ", padding))
	}

	return sb.String()
}

// RenderSeries draws one block character per value, scaled to the series
// range. Used for the recent-history sparkline next to each metric.
func RenderSeries(values []float64) string {
	if len(values) == 0 {
		return ""
	}

	chars := []rune("▁▂▃▄▅▆▇█")

	min, max := math.Inf(1), math.Inf(-1)
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}

	var sb strings.Builder
	for _, v := range values {
		if math.IsNaN(v) {
			sb.WriteRune(' ')
			continue
		}
		idx := 0
		if max > min {
			idx = int((v - min) / (max - min) * float64(len(chars)-1))
		}
		if idx < 0 {
			idx = 0
		}
		if idx >= len(chars) {
			idx = len(chars) - 1
		}
		sb.WriteRune(chars[idx])
	}
	return sb.String()
}

// GetHeatmapColor returns a color based on score (0-1)
func GetHeatmapColor(score float64, t Theme) lipgloss.TerminalColor {
	if score > 0.8 {
		return t.Primary // Peak/High
	} else if score > 0.5 {
		return t.Vivid // Mid-High
	} else if score > 0.2 {
		return t.Ordinary // Low-Mid
	}
	return t.Secondary // Low
}

// HeatmapGradientColors defines the color gradient for the recall heatmap.
// Ordered from cold (no entries) to hot (dense recall).
var HeatmapGradientColors = []lipgloss.Color{
	lipgloss.Color("#1a1a2e"), // 0: dark blue/gray - empty
	lipgloss.Color("#16213e"), // 1: navy - very few
	lipgloss.Color("#0f4c75"), // 2: blue - few
	lipgloss.Color("#3282b8"), // 3: light blue - some
	lipgloss.Color("#bbe1fa"), // 4: pale blue - moderate (transition)
	lipgloss.Color("#f7dc6f"), // 5: gold - above average
	lipgloss.Color("#e94560"), // 6: coral - many
	lipgloss.Color("#ff2e63"), // 7: hot pink/red - hot
}

// GetHeatGradientColor returns an interpolated color for heatmap intensity (0-1)
func GetHeatGradientColor(intensity float64) lipgloss.Color {
	if intensity <= 0 {
		return HeatmapGradientColors[0]
	}
	if intensity >= 1 {
		return HeatmapGradientColors[len(HeatmapGradientColors)-1]
	}

	// Map intensity to gradient index
	idx := int(intensity * float64(len(HeatmapGradientColors)-1))
	if idx >= len(HeatmapGradientColors)-1 {
		idx = len(HeatmapGradientColors) - 2
	}

	return HeatmapGradientColors[idx+1] // +1 because 0 is for empty cells
}

// GetHeatGradientColorBg returns a background-friendly color for a heatmap
// cell, plus a foreground with enough contrast to read on it.
func GetHeatGradientColorBg(intensity float64) (bg lipgloss.Color, fg lipgloss.Color) {
	if intensity <= 0 {
		return lipgloss.Color("#1a1a2e"), lipgloss.Color("#6272a4") // Dark bg, muted fg
	}

	// Select background color based on intensity
	switch {
	case intensity >= 0.8:
		return lipgloss.Color("#ff2e63"), lipgloss.Color("#ffffff") // Hot pink, white text
	case intensity >= 0.6:
		return lipgloss.Color("#e94560"), lipgloss.Color("#ffffff") // Coral, white text
	case intensity >= 0.4:
		return lipgloss.Color("#f7dc6f"), lipgloss.Color("#1a1a2e") // Gold, dark text
	case intensity >= 0.2:
		return lipgloss.Color("#3282b8"), lipgloss.Color("#ffffff") // Blue, white text
	default:
		return lipgloss.Color("#16213e"), lipgloss.Color("#bbe1fa") // Navy, light text
	}
}

// GetContrastColor returns white or black text color for best contrast
func GetContrastColor(bg lipgloss.Color) lipgloss.Color {
	// Simple heuristic: lighter backgrounds get dark text
	bgStr := string(bg)
	if len(bgStr) >= 7 && bgStr[0] == '#' {
		// Parse hex color and check if it's "light"
		if bgStr[1] >= 'a' || bgStr[1] >= 'A' || (bgStr[1] >= '8' && bgStr[1] <= '9') {
			return lipgloss.Color("#1a1a2e") // Dark text
		}
		if bgStr[1] == 'f' || bgStr[1] == 'F' || bgStr[1] == 'e' || bgStr[1] == 'E' {
			return lipgloss.Color("#1a1a2e") // Dark text for F/E prefixed colors
		}
	}
	return lipgloss.Color("#ffffff") // White text by default
}

// SymbolColors maps dream symbols to distinctive colors for visual
// differentiation in the symbol panel and entry list.
var SymbolColors = []lipgloss.Color{
	lipgloss.Color("#FF6B6B"), // Coral red
	lipgloss.Color("#4ECDC4"), // Teal
	lipgloss.Color("#45B7D1"), // Sky blue
	lipgloss.Color("#96CEB4"), // Sage green
	lipgloss.Color("#DDA0DD"), // Plum
	lipgloss.Color("#F7DC6F"), // Gold
	lipgloss.Color("#BB8FCE"), // Lavender
	lipgloss.Color("#85C1E9"), // Light blue
}

// GetSymbolColor returns a consistent color for a symbol based on hash
func GetSymbolColor(symbol string) lipgloss.Color {
	if symbol == "" {
		return colorMuted
	}
	// Simple hash based on symbol characters
	hash := 0
	for _, c := range symbol {
		hash = (hash*31 + int(c)) % len(SymbolColors)
	}
	if hash < 0 {
		hash = -hash
	}
	return SymbolColors[hash%len(SymbolColors)]
}

// RenderSymbolBadge creates a compact colored badge for a dream symbol.
// Example: "water" -> "[water]" with a stable per-symbol color.
func RenderSymbolBadge(symbol string) string {
	if symbol == "" {
		return ""
	}
	display := symbol
	if len(display) > 12 {
		display = display[:11] + "…"
	}

	color := GetSymbolColor(symbol)
	return lipgloss.NewStyle().
		Foreground(color).
		Bold(true).
		Render("[" + display + "]")
}
