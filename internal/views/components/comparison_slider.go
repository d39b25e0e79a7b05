package components

import (
	"image"
	"image/color"
	"image/draw"

	"clearview/internal/slider"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/driver/mobile"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

const (
	ComparisonMinWidth  = 480
	ComparisonMinHeight = 360
	handleRadius        = 14
	handleLineWidth     = 3
)

// ComparisonSlider overlaps a before and an after image and reveals the
// before image left of a draggable boundary.
type ComparisonSlider struct {
	widget.BaseWidget

	before image.Image
	after  image.Image

	slider *slider.Slider
	doc    *slider.Document
	// source is the pointer kind of the press that started the drag
	source slider.PointerSource

	// absolutePosition locates the widget in window coordinates
	absolutePosition func(fyne.CanvasObject) fyne.Position
	onChange         func(position float64)
}

var (
	_ desktop.Mouseable  = (*ComparisonSlider)(nil)
	_ desktop.Cursorable = (*ComparisonSlider)(nil)
	_ fyne.Draggable     = (*ComparisonSlider)(nil)
	_ mobile.Touchable   = (*ComparisonSlider)(nil)
)

func NewComparisonSlider(before, after image.Image) *ComparisonSlider {
	c := &ComparisonSlider{
		before:           before,
		after:            after,
		doc:              slider.NewDocument(),
		absolutePosition: driverPosition,
	}
	c.slider = slider.New(c.measure)
	c.slider.SetOnChange(func(position float64) {
		c.Refresh()
		if c.onChange != nil {
			c.onChange(position)
		}
	})
	c.slider.Mount(c.doc)
	c.ExtendBaseWidget(c)
	return c
}

func driverPosition(obj fyne.CanvasObject) fyne.Position {
	app := fyne.CurrentApp()
	if app == nil {
		return fyne.Position{}
	}
	return app.Driver().AbsolutePositionForObject(obj)
}

// SetOnChange registers a callback fired whenever the boundary moves
func (c *ComparisonSlider) SetOnChange(fn func(position float64)) {
	c.onChange = fn
}

// Position returns the reveal boundary in percent
func (c *ComparisonSlider) Position() float64 {
	return c.slider.Position()
}

func (c *ComparisonSlider) Dragging() bool {
	return c.slider.Dragging()
}

// Document exposes the pointer hub the slider listens on
func (c *ComparisonSlider) Document() *slider.Document {
	return c.doc
}

// Teardown releases the pointer subscription
func (c *ComparisonSlider) Teardown() {
	c.slider.Unmount()
}

func (c *ComparisonSlider) MouseDown(*desktop.MouseEvent) {
	c.press(slider.SourceMouse)
}

func (c *ComparisonSlider) MouseUp(*desktop.MouseEvent) {
	c.doc.Release(slider.SourceMouse)
}

// Dragged keeps arriving after the pointer leaves the widget, so it stands in
// for a window-wide move listener.
func (c *ComparisonSlider) Dragged(ev *fyne.DragEvent) {
	c.doc.Move(c.source, ev.AbsolutePosition.X)
}

func (c *ComparisonSlider) DragEnd() {
	c.doc.Release(c.source)
}

func (c *ComparisonSlider) TouchDown(*mobile.TouchEvent) {
	c.press(slider.SourceTouch)
}

func (c *ComparisonSlider) press(source slider.PointerSource) {
	c.source = source
	c.slider.Press()
}

func (c *ComparisonSlider) TouchUp(*mobile.TouchEvent) {
	c.doc.Release(slider.SourceTouch)
}

func (c *ComparisonSlider) TouchCancel(*mobile.TouchEvent) {
	c.doc.Release(slider.SourceTouch)
}

func (c *ComparisonSlider) Cursor() desktop.Cursor {
	return desktop.HResizeCursor
}

// measure returns the fitted image rectangle in window coordinates
func (c *ComparisonSlider) measure() slider.Bounds {
	rect := c.imageRect(c.Size())
	origin := c.absolutePosition(c)
	return slider.Bounds{Left: origin.X + rect.Position.X, Width: rect.Size.Width}
}

type fittedRect struct {
	Position fyne.Position
	Size     fyne.Size
}

// imageRect is where the images land inside size when scaled to fit
func (c *ComparisonSlider) imageRect(size fyne.Size) fittedRect {
	img := c.before
	if img == nil {
		img = c.after
	}
	if img == nil || size.Width <= 0 || size.Height <= 0 {
		return fittedRect{}
	}

	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return fittedRect{}
	}

	aspect := float32(b.Dx()) / float32(b.Dy())
	w, h := size.Width, size.Width/aspect
	if h > size.Height {
		h = size.Height
		w = h * aspect
	}
	return fittedRect{
		Position: fyne.NewPos((size.Width-w)/2, (size.Height-h)/2),
		Size:     fyne.NewSize(w, h),
	}
}

func (c *ComparisonSlider) CreateRenderer() fyne.WidgetRenderer {
	c.ExtendBaseWidget(c)
	c.slider.Mount(c.doc)

	r := &comparisonRenderer{
		widget:     c,
		background: canvas.NewRectangle(theme.Color(theme.ColorNameInputBackground)),
		afterImage: canvas.NewImageFromImage(c.after),
		beforeClip: canvas.NewImageFromImage(nil),
		line:       canvas.NewLine(color.White),
		knob:       canvas.NewCircle(theme.Color(theme.ColorNamePrimary)),
		before:     newCaption("Original"),
		after:      newCaption("Clean"),
	}
	r.afterImage.FillMode = canvas.ImageFillStretch
	r.afterImage.ScaleMode = canvas.ImageScaleSmooth
	r.beforeClip.FillMode = canvas.ImageFillStretch
	r.beforeClip.ScaleMode = canvas.ImageScaleSmooth
	r.line.StrokeWidth = handleLineWidth
	r.knob.StrokeColor = color.White
	r.knob.StrokeWidth = 2

	r.objects = []fyne.CanvasObject{
		r.background, r.afterImage, r.beforeClip, r.line, r.knob, r.before, r.after,
	}
	return r
}

func newCaption(text string) *canvas.Text {
	t := canvas.NewText(text, color.White)
	t.TextSize = theme.CaptionTextSize()
	t.TextStyle = fyne.TextStyle{Bold: true}
	return t
}

type comparisonRenderer struct {
	widget     *ComparisonSlider
	background *canvas.Rectangle
	afterImage *canvas.Image
	beforeClip *canvas.Image
	line       *canvas.Line
	knob       *canvas.Circle
	before     *canvas.Text
	after      *canvas.Text
	objects    []fyne.CanvasObject
}

func (r *comparisonRenderer) Layout(size fyne.Size) {
	r.background.Resize(size)
	r.background.Move(fyne.NewPos(0, 0))

	rect := r.widget.imageRect(size)
	r.afterImage.Move(rect.Position)
	r.afterImage.Resize(rect.Size)

	fraction := float32(r.widget.slider.Position() / 100)
	clipWidth := rect.Size.Width * fraction
	r.beforeClip.Image = cropLeft(r.widget.before, float64(fraction))
	r.beforeClip.Move(rect.Position)
	r.beforeClip.Resize(fyne.NewSize(clipWidth, rect.Size.Height))

	x := rect.Position.X + clipWidth
	r.line.Position1 = fyne.NewPos(x, rect.Position.Y)
	r.line.Position2 = fyne.NewPos(x, rect.Position.Y+rect.Size.Height)

	cy := rect.Position.Y + rect.Size.Height/2
	r.knob.Position1 = fyne.NewPos(x-handleRadius, cy-handleRadius)
	r.knob.Position2 = fyne.NewPos(x+handleRadius, cy+handleRadius)

	pad := theme.Padding() * 2
	r.before.Move(fyne.NewPos(rect.Position.X+pad, rect.Position.Y+pad))
	afterWidth := r.after.MinSize().Width
	r.after.Move(fyne.NewPos(rect.Position.X+rect.Size.Width-afterWidth-pad, rect.Position.Y+pad))
}

func (r *comparisonRenderer) MinSize() fyne.Size {
	return fyne.NewSize(ComparisonMinWidth, ComparisonMinHeight)
}

func (r *comparisonRenderer) Refresh() {
	r.afterImage.Image = r.widget.after
	r.background.FillColor = theme.Color(theme.ColorNameInputBackground)
	r.knob.FillColor = theme.Color(theme.ColorNamePrimary)
	r.Layout(r.widget.Size())
	for _, obj := range r.objects {
		obj.Refresh()
	}
}

func (r *comparisonRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *comparisonRenderer) Destroy() {
	r.widget.slider.Unmount()
}

type subImager interface {
	SubImage(image.Rectangle) image.Image
}

// cropLeft returns the leftmost fraction of img
func cropLeft(img image.Image, fraction float64) image.Image {
	if img == nil || fraction <= 0 {
		return nil
	}
	b := img.Bounds()
	width := int(float64(b.Dx())*fraction + 0.5)
	if width <= 0 {
		return nil
	}
	if width >= b.Dx() {
		return img
	}

	rect := image.Rect(b.Min.X, b.Min.Y, b.Min.X+width, b.Max.Y)
	if s, ok := img.(subImager); ok {
		return s.SubImage(rect)
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, rect.Min, draw.Src)
	return dst
}
