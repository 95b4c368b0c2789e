// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package export

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/danielhkuo/tierboard/models"
)

var chartTierColors = map[models.Tier]drawing.Color{
	models.TierS: drawing.ColorFromHex("ff4d6d"),
	models.TierA: drawing.ColorFromHex("ff9f1c"),
	models.TierB: drawing.ColorFromHex("4dabf7"),
	models.TierC: drawing.ColorFromHex("51cf66"),
	models.TierD: drawing.ColorFromHex("5c7cfa"),
}

// ResultsChart draws one stacked bar per item showing how its placements
// split across tiers. Items nobody ranked are left out.
func ResultsChart(res models.ProjectResults) ([]byte, error) {
	var bars []chart.StackedBar
	for _, r := range res.Items {
		var values []chart.Value
		for _, t := range models.Tiers {
			if r.Counts[t] == 0 {
				continue
			}
			values = append(values, chart.Value{
				Label: string(t),
				Value: float64(r.Counts[t]),
				Style: chart.Style{
					FillColor:   chartTierColors[t],
					StrokeColor: chartTierColors[t],
				},
			})
		}
		if len(values) == 0 {
			continue
		}
		bars = append(bars, chart.StackedBar{Name: barLabel(r.Item.Name), Values: values})
	}

	if len(bars) == 0 {
		return renderNoResults()
	}

	width := 120 + len(bars)*60
	if width < 400 {
		width = 400
	}
	graph := chart.StackedBarChart{
		Title:      res.Project.Title,
		Width:      width,
		Height:     400,
		BarSpacing: 20,
		Bars:       bars,
		// Names without spaces only fit under a bar when split by rune
		XAxis: chart.Style{TextWrap: chart.TextWrapRune},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// maxBarLabel keeps a wrapped label to a few lines under its bar.
const maxBarLabel = 20

func barLabel(name string) string {
	r := []rune(strings.TrimSpace(name))
	if len(r) <= maxBarLabel {
		return string(r)
	}
	return string(r[:maxBarLabel-3]) + "..."
}

// renderNoResults draws a plain message; go-chart refuses to render a
// chart with no series.
func renderNoResults() ([]byte, error) {
	const msg = "No submissions yet"

	dst := image.NewRGBA(image.Rect(0, 0, 400, 200))
	fill(dst, dst.Bounds(), color.White)
	w := font.MeasureString(basicfont.Face7x13, msg).Ceil()
	drawText(dst, msg, (400-w)/2, 104, color.Black)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
