package main

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
)

func (app *Application) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Image...", func() {
			app.view.ShowOpenDialog()
		}),
		fyne.NewMenuItem("Save Result...", func() {
			if !app.controller.Session().HasResult() {
				dialog.ShowInformation("Save Result", "There is no cleaned image to save yet.", app.window)
				return
			}
			app.view.ShowSaveDialog()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Start Over", func() {
			app.controller.Reset()
		}),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", func() {
			dialog.ShowInformation("About "+AppName,
				AppName+" "+AppVersion+"\nRemoves watermarks, logos and text overlays using "+app.config.Editor.Model+".",
				app.window)
		}),
	)

	app.window.SetMainMenu(fyne.NewMainMenu(fileMenu, helpMenu))
}
