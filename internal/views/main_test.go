package views

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"clearview/internal/controllers"
	"clearview/internal/models"
	"clearview/internal/services"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: 200, G: uint8(x), B: uint8(y), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newTestView(t *testing.T) *MainView {
	t.Helper()
	test.NewTempApp(t)
	w := test.NewTempWindow(t, widget.NewLabel(""))
	view := NewMainView(w, nil)
	w.Resize(fyne.NewSize(900, 700))
	return view
}

func previewSession(t *testing.T) models.Session {
	t.Helper()
	encoded := base64.StdEncoding.EncodeToString(pngBytes(t, 16, 12))
	return models.Session{
		ID:    "s1",
		State: models.StatePreview,
		Source: &models.SourceImage{
			Name:         "photo.png",
			EncodedBytes: encoded,
			MimeType:     "image/png",
			DisplayURL:   models.BuildDataURL("image/png", encoded),
			Width:        16,
			Height:       12,
		},
	}
}

func TestRenderIdle(t *testing.T) {
	view := newTestView(t)
	view.Render(models.Session{ID: "s1", State: models.StateIdle})

	assert.Same(t, view.Upload().GetContainer(), view.CurrentBody())
	assert.False(t, view.Header().ResetButton().Visible())
	assert.False(t, view.Notice().Visible())
}

func TestRenderPreviewAndProcessing(t *testing.T) {
	view := newTestView(t)
	s := previewSession(t)

	view.Render(s)
	assert.Same(t, view.Preview().GetContainer(), view.CurrentBody())
	assert.True(t, view.Header().ResetButton().Visible())
	assert.False(t, view.Preview().ProcessButton().Disabled())

	s.State = models.StateProcessing
	view.Render(s)
	assert.True(t, view.Preview().Processing())
	assert.True(t, view.Preview().ProcessButton().Disabled())
}

func TestRenderResultWithUndecodableImage(t *testing.T) {
	view := newTestView(t)
	s := previewSession(t)
	s.State = models.StateResult
	s.ResultURL = "data:image/png;base64,AAAA"

	view.Render(s)
	assert.Same(t, view.Result().GetContainer(), view.CurrentBody())

	comparison := view.Result().Comparison()
	require.NotNil(t, comparison, "a placeholder stands in for the result")
	assert.Equal(t, 50.0, comparison.Position())

	view.Render(s)
	assert.Same(t, comparison, view.Result().Comparison(), "same result keeps its slider")

	view.Render(models.Session{ID: "s2", State: models.StateIdle})
	assert.Nil(t, view.Result().Comparison())
	assert.Equal(t, 0, comparison.Document().ListenerCount())
}

func TestRenderErrorNotice(t *testing.T) {
	view := newTestView(t)
	s := previewSession(t)
	s.ErrorMessage = "quota exceeded"

	view.Render(s)
	assert.True(t, view.Notice().Visible())
	assert.Equal(t, "quota exceeded", view.Notice().Message())

	s.ErrorMessage = ""
	view.Render(s)
	assert.False(t, view.Notice().Visible())
}

func TestClearFileSelection(t *testing.T) {
	view := newTestView(t)
	view.Upload().SetSelection("photo.png")

	view.ClearFileSelection()
	assert.Empty(t, view.Upload().Selection())
}

type fixedEditor struct {
	result string
	err    error
}

func (f fixedEditor) Edit(context.Context, string, string) (string, error) {
	return f.result, f.err
}

func wire(t *testing.T, editor services.Editor) (*MainView, *controllers.WorkflowController) {
	t.Helper()
	view := newTestView(t)
	done := make(chan func(), 1)
	wc := controllers.NewWorkflowController(controllers.Options{
		Decoder:  services.NewDecoder(),
		Editor:   editor,
		Dispatch: func(fn func()) { done <- fn },
	})
	t.Cleanup(func() {
		select {
		case fn := <-done:
			fn()
		default:
		}
		wc.Shutdown()
	})

	view.SetSelectHandler(wc.SelectImage)
	view.SetProcessHandler(func() {
		if wc.StartProcessing() {
			(<-done)()
		}
	})
	view.SetResetHandler(wc.Reset)
	view.SetDismissErrorHandler(wc.DismissError)
	wc.SetRenderer(view)
	return view, wc
}

func dropFile(t *testing.T, view *MainView, name string, data []byte) {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o600))
	view.handleDrop(fyne.NewPos(0, 0), []fyne.URI{storage.NewFileURI(path)})
}

func TestDropProcessAndReset(t *testing.T) {
	view, wc := wire(t, fixedEditor{result: base64.StdEncoding.EncodeToString(pngBytes(t, 16, 12))})

	dropFile(t, view, "photo.png", pngBytes(t, 16, 12))
	require.Equal(t, models.StatePreview, wc.Session().State)
	assert.Equal(t, "photo.png", view.Upload().Selection())
	assert.Same(t, view.Preview().GetContainer(), view.CurrentBody())

	test.Tap(view.Preview().ProcessButton())
	require.Equal(t, models.StateResult, wc.Session().State)
	assert.NotNil(t, view.Result().Comparison())

	test.Tap(view.Result().TryAgainButton())
	assert.Equal(t, models.StateIdle, wc.Session().State)
	assert.Empty(t, view.Upload().Selection())
	assert.Same(t, view.Upload().GetContainer(), view.CurrentBody())
}

func TestEditFailureShowsNotice(t *testing.T) {
	view, wc := wire(t, fixedEditor{err: errors.New("quota exceeded")})

	dropFile(t, view, "photo.png", pngBytes(t, 8, 8))
	test.Tap(view.Preview().ProcessButton())

	assert.Equal(t, models.StatePreview, wc.Session().State)
	assert.Equal(t, "quota exceeded", view.Notice().Message())

	test.Tap(view.Notice().DismissButton())
	assert.False(t, view.Notice().Visible())
}

func TestDropNonImage(t *testing.T) {
	view, wc := wire(t, fixedEditor{})

	dropFile(t, view, "notes.txt", []byte("hello"))
	assert.Equal(t, models.StateIdle, wc.Session().State)
	assert.Equal(t, models.InvalidFileTypeMessage, view.Notice().Message())
	assert.Empty(t, view.Upload().Selection())
}

func TestFileInputFromURI(t *testing.T) {
	uri := storage.NewFileURI("/tmp/photo.jpeg")
	file := FileInputFromURI(uri, bytes.NewReader(nil))

	assert.Equal(t, "photo.jpeg", file.Name)
	assert.Equal(t, "image/jpeg", file.MimeType)
}
