package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/mistvale/dreamscope/pkg/analysis"
)

func TestSVGChart(t *testing.T) {
	stats := analysis.ComputeStats(exportEntries())

	var buf bytes.Buffer
	if err := SVGChart(&buf, stats, "Sensory Detail", 480); err != nil {
		t.Fatalf("SVGChart: %v", err)
	}
	out := buf.String()

	for _, want := range []string{"<svg", "Sensory Detail", "<rect", "</svg>"} {
		if !strings.Contains(out, want) {
			t.Errorf("chart missing %q", want)
		}
	}
	if !strings.Contains(out, "3 samples") {
		t.Errorf("chart subtitle missing sample count:\n%s", out[:200])
	}
}

func TestSVGChartUnknownMetric(t *testing.T) {
	stats := analysis.ComputeStats(exportEntries())

	var buf bytes.Buffer
	if err := SVGChart(&buf, stats, "Dream Altitude", 480); err == nil {
		t.Fatalf("expected error for unrecorded metric")
	}
}

func TestSVGChartMinWidth(t *testing.T) {
	stats := analysis.ComputeStats(exportEntries())

	var buf bytes.Buffer
	if err := SVGChart(&buf, stats, "Emotional Recall", 10); err != nil {
		t.Fatalf("SVGChart: %v", err)
	}
	if !strings.Contains(buf.String(), `width="320"`) {
		t.Errorf("narrow chart not clamped to minimum width")
	}
}
