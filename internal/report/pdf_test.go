package report

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkrysak/chemviz/internal/domain/analysis"
)

func tinyPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: 56, G: 189, B: 248, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestRenderProducesEncryptedPDF(t *testing.T) {
	out, err := Render(Request{
		Stats:     map[string]any{"total equipment count": 3, "avg flowrate": 20.0},
		ChartPNG:  tinyPNG(t),
		CreatedAt: "2026-09-01T10:30:00Z",
		Recipient: "alice@acme.test",
	})
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
	// RC4 protection writes an /Encrypt dictionary into the trailer.
	assert.True(t, bytes.Contains(out, []byte("/Encrypt")))
}

func TestRenderWithoutChart(t *testing.T) {
	out, err := Render(Request{
		Stats:     map[string]any{"total equipment count": 0},
		CreatedAt: "2026-09-01T10:30:00Z",
		Recipient: "bob@acme.test",
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRenderWithSummary(t *testing.T) {
	out, err := Render(Request{
		Stats:     map[string]any{"avg pressure": 2.5},
		CreatedAt: "2026-09-01T10:30:00Z",
		Recipient: "carol@acme.test",
		Summary:   "Pumps dominate the dataset and pressure sits in the expected band.",
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestDecodeChartImagePlainBase64(t *testing.T) {
	raw := tinyPNG(t)
	decoded, err := DecodeChartImage(base64.StdEncoding.EncodeToString(raw))
	require.NoError(t, err)
	assert.Equal(t, raw, decoded)
}

func TestDecodeChartImageDataURI(t *testing.T) {
	raw := tinyPNG(t)
	payload := "data:image/png;base64," + base64.StdEncoding.EncodeToString(raw)
	decoded, err := DecodeChartImage(payload)
	require.NoError(t, err)
	assert.Equal(t, raw, decoded)
}

func TestDecodeChartImageRejectsGarbage(t *testing.T) {
	_, err := DecodeChartImage("!!not base64!!")
	require.Error(t, err)
	assert.ErrorIs(t, err, analysis.ErrBadInput)

	_, err = DecodeChartImage(base64.StdEncoding.EncodeToString([]byte("not a png")))
	require.Error(t, err)
	assert.ErrorIs(t, err, analysis.ErrBadInput)
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Avg flowrate", capitalize("avg flowrate"))
	assert.Equal(t, "", capitalize(""))
	assert.Equal(t, "X", capitalize("x"))
}
