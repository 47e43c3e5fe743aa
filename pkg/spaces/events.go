package spaces

import (
	"slices"
	"sync"
)

// EventKind names a class of pointer event.
type EventKind string

const (
	MouseMove EventKind = "mousemove"
	MouseUp   EventKind = "mouseup"
	TouchMove EventKind = "touchmove"
	TouchEnd  EventKind = "touchend"
)

// Event is whatever a source delivers; a PointerFunc knows its shape.
type Event any

// MouseEvent carries the page coordinates of a mouse event.
type MouseEvent struct {
	PageX, PageY float64
}

// TouchPoint is one finger of a touch event.
type TouchPoint struct {
	PageX, PageY float64
}

// TouchEvent carries the active touch points. End events usually have none.
type TouchEvent struct {
	Touches []TouchPoint
}

// PointerFunc extracts a page coordinate from an event. It reports false
// when the event carries no usable coordinate.
type PointerFunc func(Event) (Point, bool)

// MousePointer reads PageX and PageY of a MouseEvent.
func MousePointer(e Event) (Point, bool) {
	switch m := e.(type) {
	case MouseEvent:
		return Point{m.PageX, m.PageY}, true
	case *MouseEvent:
		if m != nil {
			return Point{m.PageX, m.PageY}, true
		}
	}
	return Point{}, false
}

// TouchPointer reads the first touch point of a TouchEvent.
func TouchPointer(e Event) (Point, bool) {
	var touches []TouchPoint
	switch t := e.(type) {
	case TouchEvent:
		touches = t.Touches
	case *TouchEvent:
		if t != nil {
			touches = t.Touches
		}
	}
	if len(touches) == 0 {
		return Point{}, false
	}
	return Point{touches[0].PageX, touches[0].PageY}, true
}

// EventSource lets the resize controller subscribe to pointer events for
// the duration of a drag. The returned function removes the listener and
// must be safe to call more than once.
type EventSource interface {
	Listen(kind EventKind, fn func(Event)) (cancel func())
}

type listener struct {
	id int
	fn func(Event)
}

// Dispatcher is an in-process EventSource. Listeners may cancel themselves,
// or each other, while an event is being dispatched.
type Dispatcher struct {
	mu        sync.Mutex
	next      int
	listeners map[EventKind][]listener
}

// NewDispatcher returns a dispatcher with no listeners.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{listeners: make(map[EventKind][]listener)}
}

// Listen registers fn for events of the given kind.
func (d *Dispatcher) Listen(kind EventKind, fn func(Event)) func() {
	d.mu.Lock()
	d.next++
	id := d.next
	d.listeners[kind] = append(d.listeners[kind], listener{id: id, fn: fn})
	d.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			d.mu.Lock()
			defer d.mu.Unlock()
			d.listeners[kind] = slices.DeleteFunc(d.listeners[kind], func(l listener) bool { return l.id == id })
			if len(d.listeners[kind]) == 0 {
				delete(d.listeners, kind)
			}
		})
	}
}

// Dispatch delivers e to the listeners registered for kind at the time of
// the call and returns how many were invoked.
func (d *Dispatcher) Dispatch(kind EventKind, e Event) int {
	d.mu.Lock()
	ls := slices.Clone(d.listeners[kind])
	d.mu.Unlock()
	for _, l := range ls {
		l.fn(e)
	}
	return len(ls)
}

// Len returns the number of listeners registered for kind.
func (d *Dispatcher) Len(kind EventKind) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.listeners[kind])
}
