package slider

import "sync"

type PointerEventType int

const (
	PointerMove PointerEventType = iota
	PointerRelease
)

// PointerSource tells mouse and touch input apart in logs and tests
type PointerSource int

const (
	SourceMouse PointerSource = iota
	SourceTouch
)

type PointerEvent struct {
	Type   PointerEventType
	Source PointerSource
	X      float32
}

// EventSource delivers pointer events observed anywhere in the window.
// Subscribe returns the function that removes the listener.
type EventSource interface {
	Subscribe(listener func(PointerEvent)) (unsubscribe func())
}

// Document fans pointer events out to its listeners
type Document struct {
	mu        sync.Mutex
	listeners map[uint64]func(PointerEvent)
	nextID    uint64
}

func NewDocument() *Document {
	return &Document{
		listeners: make(map[uint64]func(PointerEvent)),
	}
}

func (d *Document) Subscribe(listener func(PointerEvent)) func() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.nextID++
	id := d.nextID
	d.listeners[id] = listener

	var once sync.Once
	return func() {
		once.Do(func() {
			d.mu.Lock()
			delete(d.listeners, id)
			d.mu.Unlock()
		})
	}
}

// Dispatch delivers ev to every listener registered at the time of the call
func (d *Document) Dispatch(ev PointerEvent) {
	d.mu.Lock()
	listeners := make([]func(PointerEvent), 0, len(d.listeners))
	for _, l := range d.listeners {
		listeners = append(listeners, l)
	}
	d.mu.Unlock()

	for _, l := range listeners {
		l(ev)
	}
}

func (d *Document) Move(source PointerSource, x float32) {
	d.Dispatch(PointerEvent{Type: PointerMove, Source: source, X: x})
}

func (d *Document) Release(source PointerSource) {
	d.Dispatch(PointerEvent{Type: PointerRelease, Source: source})
}

// ListenerCount is the number of live subscriptions
func (d *Document) ListenerCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.listeners)
}
