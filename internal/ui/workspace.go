package ui

import (
	"context"
	"fmt"
	"io"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/dkrysak/chemviz/internal/client"
)

// workspaceView is the upload/analyze screen: file picker, three summary
// tiles and the distribution bar chart.
type workspaceView struct {
	shell   *Shell
	content fyne.CanvasObject

	flowTile  *widget.Card
	pressTile *widget.Card
	tempTile  *widget.Card
	countLbl  *widget.Label
	chartArea *fyne.Container
	status    *widget.Label
}

func newWorkspaceView(s *Shell) *workspaceView {
	v := &workspaceView{shell: s}

	v.flowTile = widget.NewCard("Avg Flowrate", "-", nil)
	v.pressTile = widget.NewCard("Avg Pressure", "-", nil)
	v.tempTile = widget.NewCard("Avg Temperature", "-", nil)
	v.countLbl = widget.NewLabelWithStyle("No data yet", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	v.status = widget.NewLabel("")
	v.chartArea = container.NewStack(widget.NewLabelWithStyle(
		"Upload a CSV file to see the equipment type distribution.",
		fyne.TextAlignCenter, fyne.TextStyle{Italic: true}))

	uploadBtn := widget.NewButton("Select CSV File", v.pickAndUpload)

	tiles := container.NewGridWithColumns(3, v.flowTile, v.pressTile, v.tempTile)
	v.content = container.NewBorder(
		container.NewVBox(uploadBtn, v.status, v.countLbl, tiles),
		nil, nil, nil,
		v.chartArea,
	)
	return v
}

func (v *workspaceView) pickAndUpload() {
	dialog.ShowFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil {
			v.shell.showError(err)
			return
		}
		if rc == nil {
			return
		}
		v.upload(rc)
	}, v.shell.win)
}

func (v *workspaceView) upload(rc fyne.URIReadCloser) {
	name := rc.URI().Name()
	v.status.SetText("Analyzing " + name + "...")

	task := v.shell.uploadSlot.Start(context.Background(), func(ctx context.Context) (*client.Analysis, error) {
		defer rc.Close()
		return v.shell.api.Upload(ctx, name, io.Reader(rc))
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

func (v *workspaceView) render(a *client.Analysis) {
	v.flowTile.SetSubTitle(fmt.Sprintf("%.2f", a.Averages.Flowrate))
	v.pressTile.SetSubTitle(fmt.Sprintf("%.2f", a.Averages.Pressure))
	v.tempTile.SetSubTitle(fmt.Sprintf("%.2f", a.Averages.Temperature))
	v.countLbl.SetText(fmt.Sprintf("%d equipment entries analyzed", a.TotalCount))

	png, err := RenderBarChartPNG(a.Distribution, v.shell.pal, 640, 420)
	if err != nil {
		v.chartArea.Objects = []fyne.CanvasObject{widget.NewLabel("No distribution to chart.")}
		v.chartArea.Refresh()
		return
	}
	img, err := DecodePNG(png)
	if err != nil {
		v.shell.showError(err)
		return
	}
	ci := canvas.NewImageFromImage(img)
	ci.FillMode = canvas.ImageFillContain
	ci.SetMinSize(fyne.NewSize(480, 320))
	v.chartArea.Objects = []fyne.CanvasObject{ci}
	v.chartArea.Refresh()
}
