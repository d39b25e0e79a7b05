package views

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"io"
	"strings"

	"clearview/internal/logger"
	"clearview/internal/models"
	"clearview/internal/services"
	"clearview/internal/views/components"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
)

const component = "MainView"

// ImageExtensions are offered by the open dialog
var ImageExtensions = []string{".png", ".jpg", ".jpeg", ".webp", ".gif"}

// MainView renders a session snapshot into the window. It never changes
// workflow state itself; user intent goes out through the handlers.
type MainView struct {
	window        fyne.Window
	mainContainer *fyne.Container
	body          *fyne.Container

	header  *components.Header
	notice  *components.ErrorNotice
	upload  *components.UploadPanel
	preview *components.PreviewPanel
	result  *components.ResultPanel

	decode  func(dataURL string) (image.Image, error)
	logger  logger.Logger
	current models.Session

	previewURL string
	resultURL  string

	selectHandler       func(models.FileInput) error
	processHandler      func()
	resetHandler        func()
	dismissErrorHandler func()
	downloadHandler     func(io.Writer) error
	filenameProvider    func() string
}

func NewMainView(window fyne.Window, log logger.Logger) *MainView {
	if log == nil {
		log = logger.NoOp{}
	}
	view := &MainView{
		window: window,
		decode: services.DecodeDataURL,
		logger: log,
	}

	view.initializeComponents()
	view.buildLayout()
	view.setupEventHandlers()

	return view
}

func (mv *MainView) initializeComponents() {
	mv.header = components.NewHeader()
	mv.notice = components.NewErrorNotice()
	mv.upload = components.NewUploadPanel()
	mv.preview = components.NewPreviewPanel()
	mv.result = components.NewResultPanel()
}

func (mv *MainView) buildLayout() {
	mv.body = container.NewStack(mv.upload.GetContainer())

	mv.mainContainer = container.NewBorder(
		mv.header.GetContainer(),
		mv.notice.GetContainer(),
		nil,
		nil,
		container.NewPadded(mv.body),
	)

	mv.window.SetContent(mv.mainContainer)
}

func (mv *MainView) setupEventHandlers() {
	mv.upload.SetUploadHandler(mv.ShowOpenDialog)

	mv.preview.SetProcessHandler(func() {
		if mv.processHandler != nil {
			mv.processHandler()
		}
	})

	reset := func() {
		if mv.resetHandler != nil {
			mv.resetHandler()
		}
	}
	mv.header.SetResetHandler(reset)
	mv.result.SetTryAgainHandler(reset)

	mv.result.SetDownloadHandler(mv.ShowSaveDialog)

	mv.notice.SetDismissHandler(func() {
		if mv.dismissErrorHandler != nil {
			mv.dismissErrorHandler()
		}
	})

	mv.window.SetOnDropped(mv.handleDrop)
}

// Event handler setters - called from main

func (mv *MainView) SetSelectHandler(handler func(models.FileInput) error) {
	mv.selectHandler = handler
}

func (mv *MainView) SetProcessHandler(handler func()) {
	mv.processHandler = handler
}

func (mv *MainView) SetResetHandler(handler func()) {
	mv.resetHandler = handler
}

func (mv *MainView) SetDismissErrorHandler(handler func()) {
	mv.dismissErrorHandler = handler
}

func (mv *MainView) SetDownloadHandler(handler func(io.Writer) error) {
	mv.downloadHandler = handler
}

// SetFilenameProvider supplies the name proposed by the save dialog
func (mv *MainView) SetFilenameProvider(provider func() string) {
	mv.filenameProvider = provider
}

// Render draws s. Called on the UI goroutine after every transition.
func (mv *MainView) Render(s models.Session) {
	previous := mv.current.State
	mv.current = s

	mv.header.SetResetVisible(s.State != models.StateIdle)
	mv.notice.SetMessage(s.ErrorMessage)

	if s.State != models.StateResult {
		mv.result.Clear()
		mv.resultURL = ""
	}

	switch s.State {
	case models.StateIdle:
		mv.previewURL = ""
		mv.showBody(mv.upload.GetContainer())
	case models.StatePreview, models.StateProcessing:
		mv.renderPreview(s.Source)
		mv.preview.SetProcessing(s.State == models.StateProcessing)
		mv.showBody(mv.preview.GetContainer())
	case models.StateResult:
		mv.renderResult(s)
		mv.showBody(mv.result.GetContainer())
	}

	if previous != s.State {
		mv.logger.Debug(component, "rendered state", map[string]interface{}{
			"session": s.ID,
			"state":   s.State.String(),
		})
	}
}

// ClearFileSelection forgets the last picked file name so picking the same
// file again reads as a fresh selection.
func (mv *MainView) ClearFileSelection() {
	mv.upload.SetSelection("")
}

func (mv *MainView) showBody(obj fyne.CanvasObject) {
	if len(mv.body.Objects) == 1 && mv.body.Objects[0] == obj {
		return
	}
	mv.body.Objects = []fyne.CanvasObject{obj}
	mv.body.Refresh()
}

func (mv *MainView) renderPreview(src *models.SourceImage) {
	if src == nil || src.DisplayURL == mv.previewURL {
		return
	}
	mv.previewURL = src.DisplayURL
	img := mv.decodeOrPlaceholder(src.DisplayURL, src.Width, src.Height)
	mv.preview.SetImage(img, describeSource(src))
}

func (mv *MainView) renderResult(s models.Session) {
	if s.ResultURL == mv.resultURL && mv.result.Comparison() != nil {
		return
	}
	mv.resultURL = s.ResultURL

	var width, height int
	var before image.Image
	if s.Source != nil {
		width, height = s.Source.Width, s.Source.Height
		before = mv.decodeOrPlaceholder(s.Source.DisplayURL, width, height)
	}
	after := mv.decodeOrPlaceholder(s.ResultURL, width, height)
	mv.result.ShowComparison(before, after)
}

func (mv *MainView) decodeOrPlaceholder(dataURL string, width, height int) image.Image {
	img, err := mv.decode(dataURL)
	if err == nil {
		return img
	}

	mv.logger.Warning(component, "image not renderable, showing placeholder", map[string]interface{}{
		"error":  err.Error(),
		"prefix": truncate(dataURL, 32),
	})
	return placeholder(width, height)
}

func placeholder(width, height int) image.Image {
	if width <= 0 || height <= 0 {
		width, height = components.PreviewWidth, components.PreviewHeight
	}
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.NRGBA{R: 230, G: 230, B: 230, A: 255}), image.Point{}, draw.Src)
	return img
}

func describeSource(src *models.SourceImage) string {
	if src.Width > 0 && src.Height > 0 {
		return fmt.Sprintf("%s  %dx%d  %s", src.Name, src.Width, src.Height, src.MimeType)
	}
	return fmt.Sprintf("%s  %s", src.Name, src.MimeType)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// ShowOpenDialog lets the user pick an image file
func (mv *MainView) ShowOpenDialog() {
	open := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			dialog.ShowError(err, mv.window)
			return
		}
		if reader == nil {
			return
		}
		defer reader.Close()
		mv.submit(reader.URI(), reader)
	}, mv.window)
	open.SetFilter(storage.NewExtensionFileFilter(ImageExtensions))
	open.Show()
}

func (mv *MainView) handleDrop(_ fyne.Position, uris []fyne.URI) {
	if len(uris) == 0 {
		return
	}
	uri := uris[0]

	reader, err := storage.Reader(uri)
	if err != nil {
		mv.logger.Error(component, fmt.Errorf("open dropped file: %w", err), map[string]interface{}{
			"uri": uri.String(),
		})
		mv.submit(uri, failingReader{err: err})
		return
	}
	defer reader.Close()
	mv.submit(uri, reader)
}

func (mv *MainView) submit(uri fyne.URI, r io.Reader) {
	mv.upload.SetSelection(uri.Name())
	if mv.selectHandler == nil {
		return
	}
	file := FileInputFromURI(uri, r)
	if err := mv.selectHandler(file); err != nil {
		mv.upload.SetSelection("")
	}
}

// FileInputFromURI describes r using the name and declared type of uri
func FileInputFromURI(uri fyne.URI, r io.Reader) models.FileInput {
	return models.FileInput{
		Name:     uri.Name(),
		MimeType: declaredMimeType(uri),
		Reader:   r,
	}
}

func declaredMimeType(uri fyne.URI) string {
	mimeType := uri.MimeType()
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	return mimeType
}

type failingReader struct {
	err error
}

func (f failingReader) Read([]byte) (int, error) {
	return 0, f.err
}

// ShowSaveDialog asks for a destination and writes the result there
func (mv *MainView) ShowSaveDialog() {
	save := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil {
			dialog.ShowError(err, mv.window)
			return
		}
		if writer == nil || mv.downloadHandler == nil {
			return
		}

		saveErr := mv.downloadHandler(writer)
		if closeErr := writer.Close(); closeErr != nil && saveErr == nil {
			mv.logger.Error(component, fmt.Errorf("close %s: %w", writer.URI().Name(), closeErr), nil)
		}
		if saveErr == nil {
			mv.logger.Info(component, "result saved", map[string]interface{}{
				"file": writer.URI().String(),
			})
		}
	}, mv.window)

	if mv.filenameProvider != nil {
		save.SetFileName(mv.filenameProvider())
	}
	save.SetFilter(storage.NewExtensionFileFilter(ImageExtensions))
	save.Show()
}

// Session returns the snapshot drawn last
func (mv *MainView) Session() models.Session {
	return mv.current
}

func (mv *MainView) Header() *components.Header {
	return mv.header
}

func (mv *MainView) Notice() *components.ErrorNotice {
	return mv.notice
}

func (mv *MainView) Upload() *components.UploadPanel {
	return mv.upload
}

func (mv *MainView) Preview() *components.PreviewPanel {
	return mv.preview
}

func (mv *MainView) Result() *components.ResultPanel {
	return mv.result
}

// CurrentBody returns the panel on screen
func (mv *MainView) CurrentBody() fyne.CanvasObject {
	if len(mv.body.Objects) == 0 {
		return nil
	}
	return mv.body.Objects[0]
}

func (mv *MainView) GetContainer() *fyne.Container {
	return mv.mainContainer
}

func (mv *MainView) Show() {
	mv.window.Show()
}

// Resize changes the window size
func (mv *MainView) Resize(width, height float32) {
	mv.window.Resize(fyne.NewSize(width, height))
}
