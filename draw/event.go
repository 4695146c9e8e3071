package draw

import (
	"fmt"
	"image"
)

// Event is one of Redraw, PointerPress, PointerRelease, PointerMotion or
// Unknown. Backends decode window-system events into these once, at the
// boundary.
type Event interface {
	event()
}

// Redraw asks for the content of a surface to be drawn again. It may
// arrive at any time and more than once.
type Redraw struct {
	Surface Surface
}

// PointerPress reports a button going down over Surface. Point is
// relative to the surface.
type PointerPress struct {
	Surface Surface
	Point   image.Point
	Button  int
}

type PointerRelease struct {
	Surface Surface
	Point   image.Point
	Button  int
}

type PointerMotion struct {
	Surface Surface
	Point   image.Point
}

// Unknown is any event the backend does not decode. Code is the
// window-system event type.
type Unknown struct {
	Code   int
	Detail string
}

func (Redraw) event()         {}
func (PointerPress) event()   {}
func (PointerRelease) event() {}
func (PointerMotion) event()  {}
func (Unknown) event()        {}

func (e Redraw) String() string { return fmt.Sprintf("redraw %d", e.Surface) }
func (e PointerPress) String() string {
	return fmt.Sprintf("press %d button %d at %v", e.Surface, e.Button, e.Point)
}
func (e PointerRelease) String() string {
	return fmt.Sprintf("release %d button %d at %v", e.Surface, e.Button, e.Point)
}
func (e PointerMotion) String() string { return fmt.Sprintf("motion %d at %v", e.Surface, e.Point) }
func (e Unknown) String() string {
	if e.Detail != "" {
		return fmt.Sprintf("unknown event %d: %s", e.Code, e.Detail)
	}
	return fmt.Sprintf("unknown event %d", e.Code)
}
