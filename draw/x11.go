package draw

import (
	"fmt"
	"image"
	"io"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
	"github.com/rjkroege/asskey/grid"
)

const (
	copyFromParent = 0
	borderWidth    = 10

	windowEvents = xproto.EventMaskExposure |
		xproto.EventMaskButtonPress |
		xproto.EventMaskButtonRelease |
		xproto.EventMaskButtonMotion

	// sendEventBit is set in the event code of events sent with SendEvent.
	sendEventBit = 0x80
)

// x11Display implements Display over a core X11 connection.
type x11Display struct {
	conn   *xgb.Conn
	screen *xproto.ScreenInfo
}

var _ = Display((*x11Display)(nil))

// OpenX11 connects to the X server named by name, or $DISPLAY when name
// is empty.
func OpenX11(name string) (Display, error) {
	c, err := xgb.NewConnDisplay(name)
	if err != nil {
		return nil, fmt.Errorf("can't connect to X server: %w", err)
	}
	return &x11Display{
		conn:   c,
		screen: xproto.Setup(c).DefaultScreen(c),
	}, nil
}

func (d *x11Display) NewWindow(label string, size image.Point) (Surface, error) {
	wid, err := xproto.NewWindowId(d.conn)
	if err != nil {
		return 0, fmt.Errorf("can't allocate window id: %w", err)
	}
	xproto.CreateWindow(d.conn, copyFromParent, wid, d.screen.Root,
		0, 0, uint16(size.X), uint16(size.Y), borderWidth,
		xproto.WindowClassInputOutput, d.screen.RootVisual,
		xproto.CwBackPixel|xproto.CwEventMask,
		[]uint32{d.screen.BlackPixel, windowEvents})
	xproto.ChangeProperty(d.conn, xproto.PropModeReplace, wid,
		xproto.AtomWmName, xproto.AtomString, 8, uint32(len(label)), []byte(label))
	xproto.MapWindow(d.conn, wid)
	return Surface(wid), nil
}

func (d *x11Display) ResizeSurface(s Surface, size image.Point) {
	xproto.ConfigureWindow(d.conn, xproto.Window(s),
		xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
		[]uint32{uint32(size.X), uint32(size.Y)})
}

func (d *x11Display) CreateContext(s Surface, fg Color) (Context, error) {
	gc, err := xproto.NewGcontextId(d.conn)
	if err != nil {
		return 0, fmt.Errorf("can't allocate graphics context id: %w", err)
	}
	xproto.CreateGC(d.conn, gc, xproto.Drawable(s),
		xproto.GcForeground|xproto.GcBackground|xproto.GcGraphicsExposures,
		[]uint32{uint32(fg), uint32(fg), 0})
	return Context(gc), nil
}

func (d *x11Display) FreeContext(c Context) {
	xproto.FreeGC(d.conn, xproto.Gcontext(c))
}

func (d *x11Display) SetContextColor(c Context, fg Color) {
	xproto.ChangeGC(d.conn, xproto.Gcontext(c), xproto.GcForeground, []uint32{uint32(fg)})
}

func (d *x11Display) SetContextFont(c Context, f FontID) {
	xproto.ChangeGC(d.conn, xproto.Gcontext(c), xproto.GcFont, []uint32{uint32(f)})
}

func (d *x11Display) OpenFont(name string) (FontID, *grid.Metrics, error) {
	fid, err := xproto.NewFontId(d.conn)
	if err != nil {
		return 0, nil, fmt.Errorf("can't allocate font id: %w", err)
	}
	if err := xproto.OpenFontChecked(d.conn, fid, uint16(len(name)), name).Check(); err != nil {
		return 0, nil, fmt.Errorf("%w %q: %v", ErrNoFont, name, err)
	}
	info, err := xproto.QueryFont(d.conn, xproto.Fontable(fid)).Reply()
	if err != nil {
		return 0, nil, fmt.Errorf("%w %q: query: %v", ErrNoFont, name, err)
	}
	return FontID(fid), fontMetrics(info), nil
}

func fontMetrics(info *xproto.QueryFontReply) *grid.Metrics {
	return &grid.Metrics{
		Width:   int(info.MaxBounds.CharacterWidth),
		Height:  int(info.FontAscent) + int(info.FontDescent),
		Descent: int(info.FontDescent),
		CharMin: uint16(info.MinByte1)<<8 | info.MinCharOrByte2,
		CharMax: uint16(info.MaxByte1)<<8 | info.MaxCharOrByte2,
	}
}

func (d *x11Display) FillRectangle(s Surface, c Context, r image.Rectangle) {
	xproto.PolyFillRectangle(d.conn, xproto.Drawable(s), xproto.Gcontext(c), []xproto.Rectangle{{
		X:      int16(r.Min.X),
		Y:      int16(r.Min.Y),
		Width:  uint16(r.Dx()),
		Height: uint16(r.Dy()),
	}})
}

func (d *x11Display) TextDraw(s Surface, c Context, pt image.Point, text []uint16) {
	req := &textRequest{
		drawable: uint32(s),
		gc:       uint32(c),
		x:        int16(pt.X),
		y:        int16(pt.Y),
		text:     text,
	}
	d.conn.NewRequest(req.Bytes(), d.conn.NewCookie(false, false))
}

func (d *x11Display) NextEvent() (Event, error) {
	ev, xerr := d.conn.WaitForEvent()
	switch {
	case ev == nil && xerr == nil:
		return nil, io.EOF
	case xerr != nil:
		// X errors arrive on the event stream with code 0.
		return Unknown{Code: 0, Detail: xerr.Error()}, nil
	}
	return decodeX11Event(ev), nil
}

// decodeX11Event maps a core protocol event onto the closed Event set.
func decodeX11Event(ev xgb.Event) Event {
	switch e := ev.(type) {
	case xproto.ExposeEvent:
		return Redraw{Surface: Surface(e.Window)}
	case xproto.ButtonPressEvent:
		return PointerPress{
			Surface: Surface(e.Event),
			Point:   image.Pt(int(e.EventX), int(e.EventY)),
			Button:  int(e.Detail),
		}
	case xproto.ButtonReleaseEvent:
		return PointerRelease{
			Surface: Surface(e.Event),
			Point:   image.Pt(int(e.EventX), int(e.EventY)),
			Button:  int(e.Detail),
		}
	case xproto.MotionNotifyEvent:
		return PointerMotion{
			Surface: Surface(e.Event),
			Point:   image.Pt(int(e.EventX), int(e.EventY)),
		}
	}
	code := 0
	if b := ev.Bytes(); len(b) > 0 {
		code = int(b[0] &^ sendEventBit)
	}
	return Unknown{Code: code, Detail: ev.String()}
}

// Flush is a no-op: xgb writes each request as it is issued.
func (d *x11Display) Flush() error { return nil }

func (d *x11Display) Close() error {
	d.conn.Close()
	return nil
}
