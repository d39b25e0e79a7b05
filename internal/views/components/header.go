package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

const AppTitle = "ClearView"

// Header carries the application title and the Start Over action
type Header struct {
	container   *fyne.Container
	title       *widget.Label
	resetButton *widget.Button

	resetHandler func()
}

func NewHeader() *Header {
	h := &Header{}
	h.title = widget.NewLabelWithStyle(AppTitle, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	h.resetButton = widget.NewButton("Start Over", func() {
		if h.resetHandler != nil {
			h.resetHandler()
		}
	})
	h.resetButton.Importance = widget.LowImportance
	h.resetButton.Hide()

	h.container = container.NewHBox(h.title, layout.NewSpacer(), h.resetButton)
	return h
}

func (h *Header) SetResetHandler(handler func()) {
	h.resetHandler = handler
}

// SetResetVisible toggles Start Over, which is hidden while idle
func (h *Header) SetResetVisible(visible bool) {
	if visible {
		h.resetButton.Show()
	} else {
		h.resetButton.Hide()
	}
}

func (h *Header) ResetButton() *widget.Button {
	return h.resetButton
}

func (h *Header) GetContainer() *fyne.Container {
	return h.container
}
