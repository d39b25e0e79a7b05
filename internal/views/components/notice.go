package components

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// ErrorNotice shows the single current error message with a dismiss button
type ErrorNotice struct {
	container     *fyne.Container
	message       *widget.Label
	dismissButton *widget.Button

	dismissHandler func()
}

func NewErrorNotice() *ErrorNotice {
	n := &ErrorNotice{}
	n.message = widget.NewLabel("")
	n.message.Importance = widget.DangerImportance
	n.message.Wrapping = fyne.TextWrapWord

	n.dismissButton = widget.NewButtonWithIcon("", theme.CancelIcon(), func() {
		if n.dismissHandler != nil {
			n.dismissHandler()
		}
	})
	n.dismissButton.Importance = widget.LowImportance

	n.container = container.NewBorder(nil, nil, n.dismissButton, nil, n.message)
	n.container.Hide()
	return n
}

func (n *ErrorNotice) SetDismissHandler(handler func()) {
	n.dismissHandler = handler
}

// SetMessage shows msg, or hides the notice when msg is empty
func (n *ErrorNotice) SetMessage(msg string) {
	n.message.SetText(msg)
	if msg == "" {
		n.container.Hide()
		return
	}
	n.container.Show()
}

func (n *ErrorNotice) Message() string {
	return n.message.Text
}

func (n *ErrorNotice) Visible() bool {
	return n.container.Visible()
}

func (n *ErrorNotice) DismissButton() *widget.Button {
	return n.dismissButton
}

func (n *ErrorNotice) GetContainer() *fyne.Container {
	return n.container
}
