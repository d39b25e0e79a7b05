package components

import (
	"image"
	"image/color"
	"testing"

	"clearview/internal/slider"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(width, height int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func newTestComparison(t *testing.T, size fyne.Size) *ComparisonSlider {
	t.Helper()
	test.NewTempApp(t)

	c := NewComparisonSlider(solid(400, 300, color.Black), solid(400, 300, color.White))
	c.absolutePosition = func(fyne.CanvasObject) fyne.Position { return fyne.NewPos(0, 0) }
	c.Resize(size)
	t.Cleanup(c.Teardown)
	return c
}

func dragTo(c *ComparisonSlider, x float32) {
	c.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{AbsolutePosition: fyne.NewPos(x, 10)}})
}

func TestComparisonStartsCentred(t *testing.T) {
	c := newTestComparison(t, fyne.NewSize(400, 300))
	assert.Equal(t, 50.0, c.Position())
	assert.False(t, c.Dragging())
	assert.Equal(t, 1, c.Document().ListenerCount())
}

func TestComparisonDragPastEdgeClamps(t *testing.T) {
	c := newTestComparison(t, fyne.NewSize(400, 300))

	c.MouseDown(&desktop.MouseEvent{})
	dragTo(c, 450)

	assert.Equal(t, 100.0, c.Position())
}

func TestComparisonMoveWithoutPressIgnored(t *testing.T) {
	c := newTestComparison(t, fyne.NewSize(400, 300))

	dragTo(c, 100)
	assert.Equal(t, 50.0, c.Position())
}

func TestComparisonReleaseStopsTracking(t *testing.T) {
	c := newTestComparison(t, fyne.NewSize(400, 300))

	c.MouseDown(&desktop.MouseEvent{})
	dragTo(c, 100)
	c.DragEnd()
	dragTo(c, 300)
	assert.InDelta(t, 25.0, c.Position(), 1e-6)

	c.MouseDown(&desktop.MouseEvent{})
	c.MouseUp(&desktop.MouseEvent{})
	assert.False(t, c.Dragging())
}

func TestComparisonTouch(t *testing.T) {
	c := newTestComparison(t, fyne.NewSize(400, 300))

	c.TouchDown(&mobile.TouchEvent{})
	c.Document().Move(slider.SourceTouch, 300)
	assert.InDelta(t, 75.0, c.Position(), 1e-6)

	c.TouchCancel(&mobile.TouchEvent{})
	assert.False(t, c.Dragging())
}

func TestComparisonDragKeepsPressSource(t *testing.T) {
	c := newTestComparison(t, fyne.NewSize(400, 300))

	var seen []slider.PointerEvent
	unsubscribe := c.Document().Subscribe(func(ev slider.PointerEvent) { seen = append(seen, ev) })
	defer unsubscribe()

	c.TouchDown(&mobile.TouchEvent{})
	dragTo(c, 100)
	c.DragEnd()

	c.MouseDown(&desktop.MouseEvent{})
	dragTo(c, 200)

	require.Len(t, seen, 3)
	assert.Equal(t, slider.PointerEvent{Type: slider.PointerMove, Source: slider.SourceTouch, X: 100}, seen[0])
	assert.Equal(t, slider.PointerEvent{Type: slider.PointerRelease, Source: slider.SourceTouch}, seen[1])
	assert.Equal(t, slider.PointerEvent{Type: slider.PointerMove, Source: slider.SourceMouse, X: 200}, seen[2])
	assert.InDelta(t, 50.0, c.Position(), 1e-6)
}

func TestComparisonMeasuresFittedImage(t *testing.T) {
	c := newTestComparison(t, fyne.NewSize(600, 300))
	c.MouseDown(&desktop.MouseEvent{})

	dragTo(c, 300)
	assert.InDelta(t, 50.0, c.Position(), 1e-6)

	dragTo(c, 100)
	assert.Equal(t, 0.0, c.Position())

	c.Resize(fyne.NewSize(400, 300))
	dragTo(c, 100)
	assert.InDelta(t, 25.0, c.Position(), 1e-6, "geometry is re-read after a resize")
}

func TestComparisonRendererClipsBefore(t *testing.T) {
	c := newTestComparison(t, fyne.NewSize(400, 300))
	r := test.TempWidgetRenderer(t, c).(*comparisonRenderer)

	c.MouseDown(&desktop.MouseEvent{})
	dragTo(c, 100)
	r.Layout(c.Size())

	assert.InDelta(t, 100, r.beforeClip.Size().Width, 0.5)
	require.NotNil(t, r.beforeClip.Image)
	assert.Equal(t, 100, r.beforeClip.Image.Bounds().Dx())
	assert.InDelta(t, 100, r.line.Position1.X, 0.5)
	assert.Equal(t, "Original", r.before.Text)
	assert.Equal(t, "Clean", r.after.Text)

	r.Destroy()
	assert.Equal(t, 0, c.Document().ListenerCount())
}

func TestComparisonTeardownReleasesListener(t *testing.T) {
	c := newTestComparison(t, fyne.NewSize(400, 300))
	c.MouseDown(&desktop.MouseEvent{})

	c.Teardown()
	assert.Equal(t, 0, c.Document().ListenerCount())
	assert.False(t, c.Dragging())

	c.Teardown()
	assert.Equal(t, 0, c.Document().ListenerCount())
}

func TestComparisonWithoutImagesIsInert(t *testing.T) {
	test.NewTempApp(t)
	c := NewComparisonSlider(nil, nil)
	c.absolutePosition = func(fyne.CanvasObject) fyne.Position { return fyne.Position{} }
	c.Resize(fyne.NewSize(400, 300))
	defer c.Teardown()

	c.MouseDown(&desktop.MouseEvent{})
	dragTo(c, 10)
	assert.Equal(t, 50.0, c.Position())
}

func TestCropLeft(t *testing.T) {
	img := solid(10, 4, color.Black)

	assert.Nil(t, cropLeft(img, 0))
	assert.Nil(t, cropLeft(nil, 0.5))
	assert.Same(t, img.(*image.RGBA), cropLeft(img, 1).(*image.RGBA))
	assert.Equal(t, 3, cropLeft(img, 0.3).Bounds().Dx())
	assert.Equal(t, 4, cropLeft(img, 0.3).Bounds().Dy())
}
