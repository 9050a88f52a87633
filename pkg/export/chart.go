package export

import (
	"fmt"
	"io"
	"strconv"

	svg "github.com/ajstarks/svgo"

	"github.com/mistvale/dreamscope/pkg/analysis"
)

// Chart palette, matching the TUI's dusk theme.
const (
	chartBg    = "#1a1a2e"
	chartBar   = "#bd93f9"
	chartText  = "#e4e4f0"
	chartMuted = "#8a8aa3"
)

const (
	chartMarginLeft   = 32
	chartMarginRight  = 24
	chartMarginTop    = 64
	chartMarginBottom = 40
)

// SVGChart writes one metric's value distribution as an SVG bar chart.
// Metrics whose samples cannot be binned by integer value chart their
// recent values instead, one bar per entry.
func SVGChart(w io.Writer, stats analysis.JournalStats, metricName string, width int) error {
	summary, ok := stats.Metrics[metricName]
	if !ok || summary.Samples == 0 {
		return fmt.Errorf("no recorded values for metric %q", metricName)
	}
	if width < 320 {
		width = 320
	}
	height := width * 5 / 8

	type bar struct {
		label string
		value float64
	}
	var bars []bar
	subtitle := fmt.Sprintf("%d samples, mean %.2f", summary.Samples, summary.Mean)
	if len(summary.Histogram) > 0 {
		for i, count := range summary.Histogram {
			bars = append(bars, bar{
				label: strconv.Itoa(summary.HistogramMin + i),
				value: float64(count),
			})
		}
	} else {
		// Wide or fractional range: show the recent series instead.
		subtitle = fmt.Sprintf("last %d values, mean %.2f", len(summary.Recent), summary.Mean)
		for i, v := range summary.Recent {
			bars = append(bars, bar{
				label: strconv.Itoa(i + 1),
				value: v,
			})
		}
	}

	maxValue := 0.0
	for _, b := range bars {
		if b.value > maxValue {
			maxValue = b.value
		}
	}
	if maxValue == 0 {
		maxValue = 1
	}

	plotW := width - chartMarginLeft - chartMarginRight
	plotH := height - chartMarginTop - chartMarginBottom
	slot := plotW / len(bars)
	barW := slot * 7 / 10
	if barW < 2 {
		barW = 2
	}

	textStyle := "font-family:sans-serif;fill:" + chartText
	mutedStyle := "font-family:sans-serif;fill:" + chartMuted

	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:"+chartBg)
	canvas.Text(chartMarginLeft, 28, metricName, textStyle+";font-size:16px;font-weight:bold")
	canvas.Text(chartMarginLeft, 48, subtitle, mutedStyle+";font-size:11px")

	baseline := chartMarginTop + plotH
	for i, b := range bars {
		x := chartMarginLeft + i*slot + (slot-barW)/2
		h := int(b.value / maxValue * float64(plotH))
		if b.value > 0 && h < 2 {
			h = 2
		}
		if h > 0 {
			canvas.Rect(x, baseline-h, barW, h, "fill:"+chartBar)
			canvas.Text(x+barW/2, baseline-h-6, formatBarValue(b.value),
				mutedStyle+";font-size:10px;text-anchor:middle")
		}
		canvas.Text(x+barW/2, baseline+16, b.label,
			mutedStyle+";font-size:10px;text-anchor:middle")
	}
	canvas.Line(chartMarginLeft, baseline, chartMarginLeft+plotW, baseline,
		"stroke:"+chartMuted+";stroke-width:1")
	canvas.End()

	return nil
}

func formatBarValue(v float64) string {
	return strconv.FormatFloat(v, 'g', 3, 64)
}
