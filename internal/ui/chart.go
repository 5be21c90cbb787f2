package ui

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/png"

	chart "github.com/wcharczuk/go-chart/v2"

	"github.com/dkrysak/chemviz/internal/domain/analysis"
)

// RenderBarChartPNG draws the type distribution as a PNG bar chart with the
// palette's bar colors. Errors on an empty distribution; callers show a
// placeholder instead.
func RenderBarChartPNG(dist analysis.Distribution, pal Palette, width, height int) ([]byte, error) {
	if len(dist.Labels) == 0 {
		return nil, fmt.Errorf("empty distribution")
	}

	bars := make([]chart.Value, 0, len(dist.Labels))
	for i, label := range dist.Labels {
		bars = append(bars, chart.Value{
			Label: label,
			Value: float64(dist.Values[i]),
			Style: chart.Style{
				FillColor:   pal.Bar(i),
				StrokeColor: pal.Bar(i),
			},
		})
	}

	bc := chart.BarChart{
		Width:    width,
		Height:   height,
		BarWidth: 42,
		Background: chart.Style{
			FillColor: chart.ColorTransparent,
		},
		Canvas: chart.Style{
			FillColor: chart.ColorTransparent,
		},
		XAxis: chart.Style{
			FontColor: pal.Subtle,
		},
		YAxis: chart.YAxis{
			Style: chart.Style{
				FontColor: pal.Subtle,
			},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := bc.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodePNG turns rendered chart bytes into an image for display.
func DecodePNG(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	return img, err
}

// ChartBase64 is the /download/ payload form of a rendered chart.
func ChartBase64(png []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
}
