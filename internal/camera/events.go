package camera

import "errors"

// ErrUnsupportedProjection is reported when pan or dolly is asked of a
// camera whose projection has no defined math. The feature is disabled.
var ErrUnsupportedProjection = errors.New("camera: unsupported projection")

type PointerType int

const (
	PointerMouse PointerType = iota
	PointerTouch
	PointerPen
)

// Mouse buttons as numbered by pointer events.
const (
	ButtonLeft   = 0
	ButtonMiddle = 1
	ButtonRight  = 2
)

// PointerEvent carries page coordinates of one pointer.
type PointerEvent struct {
	PointerID int
	Type      PointerType
	Button    int
	X, Y      float64
	Ctrl      bool
	Meta      bool
	Shift     bool
}

func (e PointerEvent) modified() bool { return e.Ctrl || e.Meta || e.Shift }

// WheelEvent: negative DeltaY scrolls up.
type WheelEvent struct {
	DeltaY float64
}

// KeyEvent.Code uses DOM key code names such as "ArrowUp".
type KeyEvent struct {
	Code  string
	Ctrl  bool
	Meta  bool
	Shift bool
}

func (e KeyEvent) modified() bool { return e.Ctrl || e.Meta || e.Shift }

type EventType int

const (
	EventChange EventType = iota
	EventStart
	EventEnd
	EventWarning
)

func (t EventType) String() string {
	switch t {
	case EventChange:
		return "change"
	case EventStart:
		return "start"
	case EventEnd:
		return "end"
	case EventWarning:
		return "warning"
	}
	return "unknown"
}

// Event is delivered to listeners registered with Controls.On. Err is set
// for EventWarning.
type Event struct {
	Type EventType
	Err  error
}

// InputHandler consumes raw input.
type InputHandler interface {
	PointerDown(PointerEvent)
	PointerMove(PointerEvent)
	PointerUp(PointerEvent)
	PointerCancel(PointerEvent)
	Wheel(WheelEvent)
	KeyDown(KeyEvent)
}

// InputSource is anything handlers can subscribe to. The returned func
// removes the subscription.
type InputSource interface {
	Subscribe(h InputHandler) (unsubscribe func())
}

// Hub fans raw input out to its subscribers in subscription order. It is
// meant to be driven from a single event loop goroutine.
type Hub struct {
	next     int
	handlers []hubEntry
}

type hubEntry struct {
	id int
	h  InputHandler
}

func NewHub() *Hub { return &Hub{} }

func (hb *Hub) Subscribe(h InputHandler) func() {
	hb.next++
	id := hb.next
	hb.handlers = append(hb.handlers, hubEntry{id: id, h: h})
	return func() {
		for i, e := range hb.handlers {
			if e.id == id {
				hb.handlers = append(hb.handlers[:i:i], hb.handlers[i+1:]...)
				return
			}
		}
	}
}

func (hb *Hub) Len() int { return len(hb.handlers) }

func (hb *Hub) each(fn func(InputHandler)) {
	for _, e := range append([]hubEntry(nil), hb.handlers...) {
		fn(e.h)
	}
}

func (hb *Hub) PointerDown(e PointerEvent)   { hb.each(func(h InputHandler) { h.PointerDown(e) }) }
func (hb *Hub) PointerMove(e PointerEvent)   { hb.each(func(h InputHandler) { h.PointerMove(e) }) }
func (hb *Hub) PointerUp(e PointerEvent)     { hb.each(func(h InputHandler) { h.PointerUp(e) }) }
func (hb *Hub) PointerCancel(e PointerEvent) { hb.each(func(h InputHandler) { h.PointerCancel(e) }) }
func (hb *Hub) Wheel(e WheelEvent)           { hb.each(func(h InputHandler) { h.Wheel(e) }) }
func (hb *Hub) KeyDown(e KeyEvent)           { hb.each(func(h InputHandler) { h.KeyDown(e) }) }
