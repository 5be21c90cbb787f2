package ui

import (
	"context"
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/dkrysak/chemviz/internal/client"
)

// historyView lists the retained analyses (newest first, capped at five by
// the server) as cards with a chart and a report download button.
type historyView struct {
	shell   *Shell
	content fyne.CanvasObject

	cards  *fyne.Container
	status *widget.Label
}

func newHistoryView(s *Shell) *historyView {
	v := &historyView{shell: s}
	v.status = widget.NewLabel("")
	v.cards = container.NewVBox()
	v.content = container.NewBorder(v.status, nil, nil, nil, container.NewVScroll(v.cards))
	return v
}

// refresh reloads the history; called every time the tab is entered.
func (v *historyView) refresh() {
	v.status.SetText("Loading history...")
	task := v.shell.historySlot.Start(context.Background(), func(ctx context.Context) ([]client.Analysis, error) {
		return v.shell.api.Records(ctx)
	})
	go func() {
		out := <-task.Done()
		fyne.Do(func() {
			v.status.SetText("")
			if out.Err != nil {
				v.shell.showError(out.Err)
				return
			}
			v.render(out.Value)
		})
	}()
}

func (v *historyView) render(records []client.Analysis) {
	v.cards.Objects = nil
	if len(records) == 0 {
		v.cards.Add(widget.NewLabelWithStyle(
			"No analyses yet. Upload a CSV from the Workspace.",
			fyne.TextAlignCenter, fyne.TextStyle{Italic: true}))
		v.cards.Refresh()
		return
	}
	for _, rec := range records {
		v.cards.Add(v.card(rec))
	}
	v.cards.Refresh()
}

func (v *historyView) card(rec client.Analysis) fyne.CanvasObject {
	title := rec.CreatedAt
	if t, err := time.Parse(time.RFC3339, rec.CreatedAt); err == nil {
		title = t.Local().Format("Jan 2, 2006 • 3:04 PM")
	}

	var body fyne.CanvasObject = widget.NewLabel("No chart data")
	png, err := RenderBarChartPNG(rec.Distribution, v.shell.pal, 480, 300)
	if err == nil {
		if img, derr := DecodePNG(png); derr == nil {
			ci := canvas.NewImageFromImage(img)
			ci.FillMode = canvas.ImageFillContain
			ci.SetMinSize(fyne.NewSize(360, 220))
			body = ci
		}
	}

	download := widget.NewButton("Download Report", func() {
		v.download(rec, png)
	})

	subtitle := fmt.Sprintf("%d entries", rec.TotalCount)
	return widget.NewCard(title, subtitle, container.NewVBox(body, download))
}

func (v *historyView) download(rec client.Analysis, chartPNG []byte) {
	dialog.ShowFileSave(func(wc fyne.URIWriteCloser, err error) {
		if err != nil {
			v.shell.showError(err)
			return
		}
		if wc == nil {
			return
		}
		v.fetchReport(rec, chartPNG, wc)
	}, v.shell.win)
}

func (v *historyView) fetchReport(rec client.Analysis, chartPNG []byte, wc fyne.URIWriteCloser) {
	req := client.DownloadRequest{
		CreatedAt: rec.CreatedAt,
		Stats: map[string]any{
			"total equipment count": rec.TotalCount,
			"avg flowrate":          rec.Averages.Flowrate,
			"avg pressure":          rec.Averages.Pressure,
			"avg temperature":       rec.Averages.Temperature,
		},
		TotalCount:   rec.TotalCount,
		Averages:     rec.Averages,
		Distribution: rec.Distribution,
	}
	if len(chartPNG) > 0 {
		req.ChartImage = ChartBase64(chartPNG)
	}

	task := v.shell.downloadSlot.Start(context.Background(), func(ctx context.Context) ([]byte, error) {
		return v.shell.api.Download(ctx, req)
	})
	go func() {
		out := <-task.Done()
		fyne.Do(func() {
			defer wc.Close()
			if out.Err != nil {
				v.shell.showError(out.Err)
				return
			}
			if _, err := wc.Write(out.Value); err != nil {
				v.shell.showError(err)
				return
			}
			dialog.ShowInformation("Report Saved",
				"PDF downloaded successfully. Open it with your account email as the password.",
				v.shell.win)
		})
	}()
}
