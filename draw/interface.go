// Package draw is the boundary between asskey and a window system. A
// Display owns the connection, the surfaces (windows) and the drawing
// contexts; it turns window-system events into the closed set of Event
// values declared in event.go.
package draw

import (
	"errors"
	"fmt"
	"image"

	"github.com/rjkroege/asskey/grid"
)

// Surface is an opaque handle to a drawable region: a window, or a
// region of a shared window.
type Surface uint32

// Context bundles drawing attributes (foreground colour, font) used by
// fill and text requests.
type Context uint32

// FontID names a font opened with Display.OpenFont.
type FontID uint32

// ErrNoFont reports a font name the display could not resolve.
var ErrNoFont = errors.New("could not load font")

// Display is a window system connection. It owns the pixel surfaces
// drawn on and delivers the input events they receive.
type Display interface {
	// NewWindow creates and maps a surface of the given pixel size.
	NewWindow(label string, size image.Point) (Surface, error)
	ResizeSurface(s Surface, size image.Point)

	CreateContext(s Surface, fg Color) (Context, error)
	FreeContext(c Context)
	SetContextColor(c Context, fg Color)
	SetContextFont(c Context, f FontID)

	// OpenFont loads name and reports its metrics. On failure the
	// metrics are nil and the error wraps ErrNoFont.
	OpenFont(name string) (FontID, *grid.Metrics, error)

	FillRectangle(s Surface, c Context, r image.Rectangle)
	// TextDraw draws text with its baseline starting at pt.
	TextDraw(s Surface, c Context, pt image.Point, text []uint16)

	// NextEvent blocks until the window system delivers an event. It
	// returns io.EOF once the event stream has ended.
	NextEvent() (Event, error)
	Flush() error
	Close() error
}

// Color is a packed 0xRRGGBB value.
type Color uint32

func (c Color) RGB() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// RGBA implements image/color.Color. Colours are always opaque.
func (c Color) RGBA() (r, g, b, a uint32) {
	r8, g8, b8 := c.RGB()
	r = uint32(r8) | uint32(r8)<<8
	g = uint32(g8) | uint32(g8)<<8
	b = uint32(b8) | uint32(b8)<<8
	return r, g, b, 0xffff
}

func (c Color) String() string {
	return fmt.Sprintf("#%06x", uint32(c)&0xffffff)
}
