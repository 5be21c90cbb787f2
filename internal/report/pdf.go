package report

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
	"sort"
	"strings"
	"unicode"

	"github.com/jung-kurt/gofpdf"

	"github.com/dkrysak/chemviz/internal/domain/analysis"
)

// Title printed at the top of every report page.
const Title = "Equipment Analysis Report"

// Request carries everything needed to lay out one report.
type Request struct {
	// Stats is the key/value listing shown under the header. Keys are
	// capitalized; the listing is ordered by key for determinism.
	Stats map[string]any
	// ChartPNG is the raster chart to embed, nil to skip the chart.
	ChartPNG []byte
	// CreatedAt is printed verbatim on the "Date:" line.
	CreatedAt string
	// Recipient is printed on the "Generated for:" line and doubles as the
	// encryption password.
	Recipient string
	// Summary is an optional paragraph placed under the stats listing.
	Summary string
}

// DecodeChartImage decodes a base64 PNG payload, tolerating a data-URI
// prefix. ErrBadInput when the payload is not a PNG.
func DecodeChartImage(payload string) ([]byte, error) {
	if i := strings.Index(payload, "base64,"); i >= 0 {
		payload = payload[i+len("base64,"):]
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimSpace(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: chart image is not valid base64: %v", analysis.ErrBadInput, err)
	}
	if _, err := png.DecodeConfig(bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("%w: chart image is not a PNG: %v", analysis.ErrBadInput, err)
	}
	return raw, nil
}

// Render lays out the single-page report and encrypts it with the recipient
// identity as user password. A chart that fails to embed is dropped; any
// text or output failure is fatal.
func Render(req Request) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(Title, false)
	pdf.SetProtection(gofpdf.CnProtectPrint, req.Recipient, "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, Title, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, "Date: "+req.CreatedAt, "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 7, "Generated for: "+req.Recipient, "", 1, "L", false, 0, "")
	pdf.Ln(6)

	keys := make([]string, 0, len(req.Stats))
	for k := range req.Stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.Cell(60, 7, capitalize(k)+":")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 7, fmt.Sprintf("%v", req.Stats[k]), "", 1, "L", false, 0, "")
	}

	if req.Summary != "" {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(0, 7, "Summary:", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, req.Summary, "", "L", false)
	}

	if len(req.ChartPNG) > 0 {
		opts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader("chart", opts, bytes.NewReader(req.ChartPNG))
		if pdf.Ok() {
			pdf.ImageOptions("chart", 30, 130, 150, 0, false, opts, 0, "")
		} else {
			// Chart failure is non-fatal: reset and emit the text-only page.
			return renderWithoutChart(req)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering report: %w", err)
	}
	return buf.Bytes(), nil
}

func renderWithoutChart(req Request) ([]byte, error) {
	req.ChartPNG = nil
	return Render(req)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
