package export

import (
	"fmt"

	"git.sr.ht/~sbinet/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/mistvale/dreamscope/pkg/analysis"
	"github.com/mistvale/dreamscope/pkg/model"
)

// heatmapWeeks is how many trailing weeks the calendar covers.
const heatmapWeeks = 26

const (
	heatCell = 14.0
	heatGap  = 3.0
	heatStep = heatCell + heatGap
)

// heatLevels shades a day by its best recall score. Level 0 is a day with
// no entry.
var heatLevels = [5]string{"#16213e", "#3a2f5e", "#64498c", "#9169c2", "#bd93f9"}

// PNGHeatmap writes a calendar heatmap of recall quality, one cell per day
// over the trailing half year, as a PNG.
func PNGHeatmap(entries []model.Entry, path string) error {
	if len(entries) == 0 {
		return fmt.Errorf("no entries to chart")
	}

	// Best recall score per day
	scores := analysis.ComputeRecallScores(entries)
	scoreByPath := make(map[string]float64, len(scores))
	for _, s := range scores {
		scoreByPath[s.Path] = s.Score
	}
	dayScore := make(map[string]float64)
	latest := entries[0].Date
	for _, e := range entries {
		if e.Date.After(latest) {
			latest = e.Date
		}
		key := e.Date.Format("2006-01-02")
		if s, ok := dayScore[key]; !ok || scoreByPath[e.Path] > s {
			dayScore[key] = scoreByPath[e.Path]
		}
	}

	// Grid runs through the week containing the latest entry
	gridEnd := latest.AddDate(0, 0, 6-int(latest.Weekday()))
	gridStart := gridEnd.AddDate(0, 0, -(heatmapWeeks*7 - 1))

	const (
		marginLeft   = 34.0
		marginTop    = 52.0
		marginRight  = 16.0
		marginBottom = 34.0
	)
	width := int(marginLeft + heatmapWeeks*heatStep - heatGap + marginRight)
	height := int(marginTop + 7*heatStep - heatGap + marginBottom)

	dc := gg.NewContext(width, height)
	dc.SetFontFace(basicfont.Face7x13)
	dc.SetHexColor("#1a1a2e")
	dc.Clear()

	dc.SetHexColor("#e4e4f0")
	dc.DrawString("Recall heatmap", marginLeft, 18)
	dc.SetHexColor("#8a8aa3")
	dc.DrawString(fmt.Sprintf("%s to %s",
		gridStart.Format("Jan 2 2006"), latest.Format("Jan 2 2006")), marginLeft, 32)

	// Day-of-week labels on alternating rows
	for _, row := range []struct {
		idx   int
		label string
	}{{1, "Mon"}, {3, "Wed"}, {5, "Fri"}} {
		y := marginTop + float64(row.idx)*heatStep + heatCell - 3
		dc.DrawString(row.label, 2, y)
	}

	for week := 0; week < heatmapWeeks; week++ {
		sunday := gridStart.AddDate(0, 0, week*7)
		x := marginLeft + float64(week)*heatStep

		// Month label above the first week of each month
		if sunday.Day() <= 7 {
			dc.SetHexColor("#8a8aa3")
			dc.DrawString(sunday.Format("Jan"), x, marginTop-6)
		}

		for day := 0; day < 7; day++ {
			date := sunday.AddDate(0, 0, day)
			y := marginTop + float64(day)*heatStep

			level := 0
			if score, ok := dayScore[date.Format("2006-01-02")]; ok {
				level = scoreLevel(score)
			}
			dc.SetHexColor(heatLevels[level])
			dc.DrawRoundedRectangle(x, y, heatCell, heatCell, 2)
			dc.Fill()
		}
	}

	// Legend
	legendY := marginTop + 7*heatStep + 6
	legendX := marginLeft
	dc.SetHexColor("#8a8aa3")
	dc.DrawString("less", legendX, legendY+heatCell-3)
	legendX += 30
	for _, hex := range heatLevels {
		dc.SetHexColor(hex)
		dc.DrawRoundedRectangle(legendX, legendY, heatCell, heatCell, 2)
		dc.Fill()
		legendX += heatStep
	}
	dc.SetHexColor("#8a8aa3")
	dc.DrawString("more", legendX+2, legendY+heatCell-3)

	return dc.SavePNG(path)
}

// scoreLevel buckets a 0-1 recall score into shade levels 1-4.
func scoreLevel(score float64) int {
	switch {
	case score >= 0.75:
		return 4
	case score >= 0.5:
		return 3
	case score >= 0.25:
		return 2
	default:
		return 1
	}
}
