// Package slider holds the reveal-boundary state of the before/after
// comparison view, independent of any toolkit.
package slider

import "math"

const DefaultPosition = 50.0

// Bounds is the horizontal geometry of the comparison container in the same
// coordinate space as pointer events.
type Bounds struct {
	Left  float32
	Width float32
}

// GeometryFunc measures the container. It is called on every move so a
// relayout between two moves is picked up.
type GeometryFunc func() Bounds

// Slider owns the reveal position and the drag flag for one comparison view
type Slider struct {
	position    float64
	dragging    bool
	measure     GeometryFunc
	unsubscribe func()
	onChange    func(position float64)
}

// New creates a slider at the even split
func New(measure GeometryFunc) *Slider {
	return &Slider{
		position: DefaultPosition,
		measure:  measure,
	}
}

// Position returns the reveal boundary as a percentage of container width
func (s *Slider) Position() float64 {
	return s.position
}

// Dragging reports whether a press is active
func (s *Slider) Dragging() bool {
	return s.dragging
}

// Mounted reports whether the slider currently listens to a pointer source
func (s *Slider) Mounted() bool {
	return s.unsubscribe != nil
}

// SetOnChange registers a callback fired after each position update
func (s *Slider) SetOnChange(fn func(position float64)) {
	s.onChange = fn
}

// Mount subscribes to document-level move and release events. Repeated
// calls keep the first subscription.
func (s *Slider) Mount(src EventSource) {
	if s.unsubscribe != nil || src == nil {
		return
	}
	s.unsubscribe = src.Subscribe(s.handle)
}

// Unmount releases the subscription and ends any drag in progress
func (s *Slider) Unmount() {
	if s.unsubscribe != nil {
		s.unsubscribe()
		s.unsubscribe = nil
	}
	s.dragging = false
}

// Press starts a drag. The press location does not move the boundary.
func (s *Slider) Press() {
	s.dragging = true
}

func (s *Slider) handle(ev PointerEvent) {
	switch ev.Type {
	case PointerMove:
		s.move(ev.X)
	case PointerRelease:
		s.dragging = false
	}
}

func (s *Slider) move(x float32) {
	if !s.dragging || s.measure == nil {
		return
	}

	position, ok := PositionFor(x, s.measure())
	if !ok {
		return
	}

	s.position = position
	if s.onChange != nil {
		s.onChange(position)
	}
}

// PositionFor maps a pointer x coordinate to a percentage of b, clamping to
// the container edges. ok is false while the container has no width or
// either coordinate is NaN.
func PositionFor(x float32, b Bounds) (position float64, ok bool) {
	if isNaN(x) || isNaN(b.Left) || isNaN(b.Width) || b.Width <= 0 {
		return 0, false
	}

	right := b.Left + b.Width
	switch {
	case x < b.Left:
		x = b.Left
	case x > right:
		x = right
	}

	position = 100 * float64(x-b.Left) / float64(b.Width)
	if position < 0 {
		position = 0
	} else if position > 100 {
		position = 100
	}
	return position, true
}

func isNaN(f float32) bool {
	return math.IsNaN(float64(f))
}
