package ui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkrysak/chemviz/internal/domain/analysis"
)

func TestRenderBarChartPNG(t *testing.T) {
	dist := analysis.Distribution{
		Labels: []string{"Pump", "Valve", "Reactor"},
		Values: []int{5, 3, 1},
	}

	png, err := RenderBarChartPNG(dist, PaletteDark, 640, 480)
	require.NoError(t, err)
	require.NotEmpty(t, png)

	img, err := DecodePNG(png)
	require.NoError(t, err)
	assert.Equal(t, 640, img.Bounds().Dx())
	assert.Equal(t, 480, img.Bounds().Dy())
}

func TestRenderBarChartPNGEmptyDistribution(t *testing.T) {
	_, err := RenderBarChartPNG(analysis.Distribution{}, PaletteLight, 640, 480)
	assert.Error(t, err)
}

func TestChartBase64(t *testing.T) {
	payload := ChartBase64([]byte{0x89, 'P', 'N', 'G'})
	assert.True(t, strings.HasPrefix(payload, "data:image/png;base64,"))
}

func TestPaletteByName(t *testing.T) {
	assert.Equal(t, PaletteLight, PaletteByName("light"))
	assert.Equal(t, PaletteDark, PaletteByName("dark"))
	assert.Equal(t, PaletteDark, PaletteByName("anything-else"))
}

func TestPaletteBarCycles(t *testing.T) {
	n := len(PaletteDark.Bars)
	require.Greater(t, n, 0)
	assert.Equal(t, PaletteDark.Bar(0), PaletteDark.Bar(n))
}
