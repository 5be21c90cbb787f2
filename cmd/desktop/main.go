package main

import (
	"flag"
	"os"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"github.com/dkrysak/chemviz/internal/client"
	"github.com/dkrysak/chemviz/internal/ui"
)

func main() {
	server := flag.String("server", defaultServer(), "backend base URL")
	palette := flag.String("palette", "dark", "color palette: dark or light")
	flag.Parse()

	a := app.New()
	win := a.NewWindow("Chemical Equipment Parameter Visualizer")
	win.Resize(fyne.NewSize(1100, 760))

	api := client.New(*server)
	shell := ui.NewShell(win, api, ui.PaletteByName(*palette))
	shell.ShowLogin()

	win.ShowAndRun()
}

func defaultServer() string {
	if v := os.Getenv("CHEMVIZ_SERVER"); v != "" {
		return v
	}
	return "http://127.0.0.1:8000"
}
