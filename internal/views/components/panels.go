package components

import (
	"image"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

const (
	PreviewWidth  = 640
	PreviewHeight = 420
)

// UploadPanel is the idle screen inviting the user to pick an image
type UploadPanel struct {
	container    *fyne.Container
	uploadButton *widget.Button
	selection    *widget.Label

	uploadHandler func()
}

func NewUploadPanel() *UploadPanel {
	p := &UploadPanel{}

	p.uploadButton = widget.NewButtonWithIcon("Upload an image", theme.UploadIcon(), func() {
		if p.uploadHandler != nil {
			p.uploadHandler()
		}
	})
	p.uploadButton.Importance = widget.HighImportance
	p.selection = widget.NewLabel("")
	p.selection.Alignment = fyne.TextAlignCenter

	headline := widget.NewLabelWithStyle("Magic eraser for your photos.", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	blurb := widget.NewLabelWithStyle(
		"Instantly remove watermarks, logos, and unwanted text.",
		fyne.TextAlignCenter, fyne.TextStyle{})
	hint := widget.NewLabelWithStyle("or drag and drop here", fyne.TextAlignCenter, fyne.TextStyle{Italic: true})
	formats := widget.NewLabelWithStyle("Supported formats: JPG, PNG, WEBP", fyne.TextAlignCenter, fyne.TextStyle{})
	formats.Importance = widget.LowImportance

	p.container = container.NewVBox(
		layout.NewSpacer(),
		headline,
		blurb,
		container.NewCenter(p.uploadButton),
		hint,
		p.selection,
		formats,
		layout.NewSpacer(),
	)
	return p
}

func (p *UploadPanel) SetUploadHandler(handler func()) {
	p.uploadHandler = handler
}

// SetSelection shows the name of the file being loaded
func (p *UploadPanel) SetSelection(name string) {
	p.selection.SetText(name)
}

func (p *UploadPanel) Selection() string {
	return p.selection.Text
}

func (p *UploadPanel) UploadButton() *widget.Button {
	return p.uploadButton
}

func (p *UploadPanel) GetContainer() *fyne.Container {
	return p.container
}

// PreviewPanel shows the selected image and the Remove Watermark action.
// While processing the action is disabled and a busy indicator is shown.
type PreviewPanel struct {
	container     *fyne.Container
	image         *canvas.Image
	processButton *widget.Button
	progress      *widget.ProgressBarInfinite
	busy          *fyne.Container
	details       *widget.Label

	processHandler func()
}

func NewPreviewPanel() *PreviewPanel {
	p := &PreviewPanel{}

	p.image = canvas.NewImageFromImage(nil)
	p.image.FillMode = canvas.ImageFillContain
	p.image.ScaleMode = canvas.ImageScaleSmooth
	p.image.SetMinSize(fyne.NewSize(PreviewWidth, PreviewHeight))

	p.processButton = widget.NewButtonWithIcon("Remove Watermark", theme.MediaPlayIcon(), func() {
		if p.processHandler != nil {
			p.processHandler()
		}
	})
	p.processButton.Importance = widget.HighImportance

	p.progress = widget.NewProgressBarInfinite()
	p.busy = container.NewVBox(
		widget.NewLabelWithStyle("Analyzing & Cleaning...", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		p.progress,
	)
	p.busy.Hide()

	p.details = widget.NewLabel("")

	heading := container.NewVBox(
		widget.NewLabelWithStyle("Review Image", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewLabel("Ready to remove watermarks?"),
	)

	p.container = container.NewBorder(
		container.NewBorder(nil, nil, nil, p.processButton, heading),
		container.NewVBox(p.details, p.busy),
		nil, nil,
		p.image,
	)
	return p
}

func (p *PreviewPanel) SetProcessHandler(handler func()) {
	p.processHandler = handler
}

// SetImage shows img with a caption describing the source
func (p *PreviewPanel) SetImage(img image.Image, caption string) {
	p.image.Image = img
	p.image.Refresh()
	p.details.SetText(caption)
}

// SetProcessing toggles the busy indicator and the process action
func (p *PreviewPanel) SetProcessing(processing bool) {
	if processing {
		p.processButton.Disable()
		p.busy.Show()
		return
	}
	p.busy.Hide()
	p.processButton.Enable()
}

func (p *PreviewPanel) Processing() bool {
	return p.busy.Visible()
}

func (p *PreviewPanel) ProcessButton() *widget.Button {
	return p.processButton
}

func (p *PreviewPanel) GetContainer() *fyne.Container {
	return p.container
}

// ResultPanel hosts the comparison slider and the follow-up actions
type ResultPanel struct {
	container      *fyne.Container
	stage          *fyne.Container
	comparison     *ComparisonSlider
	tryAgainButton *widget.Button
	downloadButton *widget.Button

	tryAgainHandler func()
	downloadHandler func()
}

func NewResultPanel() *ResultPanel {
	p := &ResultPanel{}

	p.tryAgainButton = widget.NewButtonWithIcon("Try Another", theme.ViewRefreshIcon(), func() {
		if p.tryAgainHandler != nil {
			p.tryAgainHandler()
		}
	})
	p.downloadButton = widget.NewButtonWithIcon("Download Result", theme.DownloadIcon(), func() {
		if p.downloadHandler != nil {
			p.downloadHandler()
		}
	})
	p.downloadButton.Importance = widget.HighImportance

	heading := container.NewVBox(
		widget.NewLabelWithStyle("Magic Done!", fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		widget.NewLabelWithStyle("Drag the slider to compare the results.", fyne.TextAlignCenter, fyne.TextStyle{}),
	)

	p.stage = container.NewStack()
	p.container = container.NewBorder(
		heading,
		container.NewCenter(container.NewHBox(p.tryAgainButton, p.downloadButton)),
		nil, nil,
		p.stage,
	)
	return p
}

func (p *ResultPanel) SetTryAgainHandler(handler func()) {
	p.tryAgainHandler = handler
}

func (p *ResultPanel) SetDownloadHandler(handler func()) {
	p.downloadHandler = handler
}

// ShowComparison replaces any previous comparison with a fresh one for the
// given pair. The old slider is torn down first.
func (p *ResultPanel) ShowComparison(before, after image.Image) *ComparisonSlider {
	p.Clear()
	p.comparison = NewComparisonSlider(before, after)
	p.stage.Objects = []fyne.CanvasObject{p.comparison}
	p.stage.Refresh()
	return p.comparison
}

// Clear tears down the current comparison, if any
func (p *ResultPanel) Clear() {
	if p.comparison == nil {
		return
	}
	p.comparison.Teardown()
	p.comparison = nil
	p.stage.Objects = nil
	p.stage.Refresh()
}

func (p *ResultPanel) Comparison() *ComparisonSlider {
	return p.comparison
}

func (p *ResultPanel) DownloadButton() *widget.Button {
	return p.downloadButton
}

func (p *ResultPanel) TryAgainButton() *widget.Button {
	return p.tryAgainButton
}

func (p *ResultPanel) GetContainer() *fyne.Container {
	return p.container
}
