package draw

import (
	"fmt"
	"image"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/rjkroege/asskey/grid"
)

// keyDelete ends the event stream of a devdraw display.
const keyDelete = 0x7f

// devdrawDisplay implements Display on a single devdraw window. Surfaces
// are regions of that window laid out left to right in creation order.
type devdrawDisplay struct {
	display  *drawDisplay
	mousectl *drawMousectl
	kbdctl   *drawKeyboardctl

	surfaces []image.Rectangle // indexed by Surface-1, window coordinates
	contexts map[Context]*devdrawContext
	nextctx  Context
	fonts    []*drawFont // indexed by FontID-1
	colours  map[Color]*drawImage

	buttons int
	pending []Event
	done    chan struct{}
}

type devdrawContext struct {
	fg   Color
	font *drawFont
}

var _ = Display((*devdrawDisplay)(nil))

// OpenDevdraw opens a devdraw window. fontname is the window's default
// font; empty selects $font.
func OpenDevdraw(fontname, label string) (Display, error) {
	d, err := initDisplay(nil, fontname, label, "")
	if err != nil {
		return nil, fmt.Errorf("can't open display: %w", err)
	}
	return &devdrawDisplay{
		display:  d,
		mousectl: d.InitMouse(),
		kbdctl:   d.InitKeyboard(),
		contexts: make(map[Context]*devdrawContext),
		colours:  make(map[Color]*drawImage),
		done:     make(chan struct{}),
	}, nil
}

func (d *devdrawDisplay) origin() image.Point {
	return d.display.ScreenImage.R.Min
}

func (d *devdrawDisplay) NewWindow(label string, size image.Point) (Surface, error) {
	x := d.origin().X
	if n := len(d.surfaces); n > 0 {
		x = d.surfaces[n-1].Max.X
	}
	r := image.Rectangle{image.Pt(x, d.origin().Y), image.Pt(x, d.origin().Y).Add(size)}
	d.surfaces = append(d.surfaces, r)
	s := Surface(len(d.surfaces))
	d.pending = append(d.pending, Redraw{Surface: s})
	return s, nil
}

func (d *devdrawDisplay) rect(s Surface) (image.Rectangle, bool) {
	if s == 0 || int(s) > len(d.surfaces) {
		return image.Rectangle{}, false
	}
	return d.surfaces[s-1], true
}

// ResizeSurface changes the size of s and shifts the surfaces to its right.
func (d *devdrawDisplay) ResizeSurface(s Surface, size image.Point) {
	r, ok := d.rect(s)
	if !ok {
		return
	}
	d.surfaces[s-1] = image.Rectangle{r.Min, r.Min.Add(size)}
	for i := int(s); i < len(d.surfaces); i++ {
		prev := d.surfaces[i-1]
		cur := d.surfaces[i]
		d.surfaces[i] = cur.Add(image.Pt(prev.Max.X-cur.Min.X, 0))
	}
}

func (d *devdrawDisplay) CreateContext(s Surface, fg Color) (Context, error) {
	if _, ok := d.rect(s); !ok {
		return 0, fmt.Errorf("no surface %d", s)
	}
	d.nextctx++
	d.contexts[d.nextctx] = &devdrawContext{fg: fg, font: defaultFont(d.display)}
	return d.nextctx, nil
}

func (d *devdrawDisplay) FreeContext(c Context) {
	delete(d.contexts, c)
}

func (d *devdrawDisplay) SetContextColor(c Context, fg Color) {
	if ctx, ok := d.contexts[c]; ok {
		ctx.fg = fg
	}
}

func (d *devdrawDisplay) SetContextFont(c Context, f FontID) {
	ctx, ok := d.contexts[c]
	if !ok || f == 0 || int(f) > len(d.fonts) {
		return
	}
	ctx.font = d.fonts[f-1]
}

// OpenFont opens a devdraw font. X logical font descriptions cannot be
// resolved by devdraw so they select the window's default font.
func (d *devdrawDisplay) OpenFont(name string) (FontID, *grid.Metrics, error) {
	var f *drawFont
	if name == "" || strings.HasPrefix(name, "-") {
		f = defaultFont(d.display)
	} else {
		var err error
		if f, err = d.display.OpenFont(name); err != nil {
			return 0, nil, fmt.Errorf("%w %q: %v", ErrNoFont, name, err)
		}
	}
	if f == nil {
		return 0, nil, fmt.Errorf("%w %q: no default font", ErrNoFont, name)
	}
	d.fonts = append(d.fonts, f)
	return FontID(len(d.fonts)), &grid.Metrics{
		Width:   f.StringWidth("0"),
		Height:  f.Height,
		Descent: fontDescent(f),
		CharMin: 0,
		CharMax: 0xffff,
	}, nil
}

// colour returns a replicated one pixel image of fg.
func (d *devdrawDisplay) colour(fg Color) (*drawImage, error) {
	if i, ok := d.colours[fg]; ok {
		return i, nil
	}
	i, err := d.display.AllocImage(image.Rect(0, 0, 1, 1), d.display.ScreenImage.Pix, true, drawColor(uint32(fg)<<8|0xff))
	if err != nil {
		return nil, err
	}
	d.colours[fg] = i
	return i, nil
}

func (d *devdrawDisplay) FillRectangle(s Surface, c Context, r image.Rectangle) {
	sr, ok := d.rect(s)
	ctx, cok := d.contexts[c]
	if !ok || !cok {
		return
	}
	src, err := d.colour(ctx.fg)
	if err != nil {
		return
	}
	d.display.ScreenImage.Draw(r.Add(sr.Min).Intersect(sr), src, nil, image.ZP)
}

func (d *devdrawDisplay) TextDraw(s Surface, c Context, pt image.Point, text []uint16) {
	sr, ok := d.rect(s)
	ctx, cok := d.contexts[c]
	if !ok || !cok || ctx.font == nil {
		return
	}
	src, err := d.colour(ctx.fg)
	if err != nil {
		return
	}
	b := make([]byte, 0, len(text)*utf8.UTFMax)
	for _, v := range text {
		b = utf8.AppendRune(b, rune(v))
	}
	// devdraw positions strings by their top-left corner.
	ascent := ctx.font.Height - fontDescent(ctx.font)
	top := pt.Add(sr.Min).Sub(image.Pt(0, ascent))
	d.display.ScreenImage.Bytes(top, src, image.ZP, ctx.font, b)
}

func (d *devdrawDisplay) NextEvent() (Event, error) {
	for {
		if len(d.pending) > 0 {
			ev := d.pending[0]
			d.pending = d.pending[1:]
			return ev, nil
		}
		select {
		case <-d.done:
			return nil, io.EOF
		case <-d.mousectl.Resize:
			if err := d.display.Attach(refNone); err != nil {
				return nil, fmt.Errorf("can't reattach to window: %w", err)
			}
			for i := range d.surfaces {
				d.pending = append(d.pending, Redraw{Surface: Surface(i + 1)})
			}
		case m := <-d.mousectl.C:
			return d.mouseEvent(m), nil
		case r := <-d.kbdctl.C:
			if r == keyDelete {
				return nil, io.EOF
			}
		}
	}
}

// mouseEvent turns a devdraw mouse sample into a press, release or motion
// by comparing its buttons with the previous sample.
func (d *devdrawDisplay) mouseEvent(m drawMouse) Event {
	prev := d.buttons
	d.buttons = m.Buttons

	var s Surface
	pt := m.Point
	for i, r := range d.surfaces {
		if m.Point.In(r) {
			s = Surface(i + 1)
			pt = m.Point.Sub(r.Min)
			break
		}
	}

	switch {
	case m.Buttons&^prev != 0:
		return PointerPress{Surface: s, Point: pt, Button: lowestButton(m.Buttons &^ prev)}
	case prev&^m.Buttons != 0:
		return PointerRelease{Surface: s, Point: pt, Button: lowestButton(prev &^ m.Buttons)}
	}
	return PointerMotion{Surface: s, Point: pt}
}

// lowestButton returns the 1-based number of the lowest set bit.
func lowestButton(mask int) int {
	for b := 1; mask != 0; b++ {
		if mask&1 != 0 {
			return b
		}
		mask >>= 1
	}
	return 0
}

func (d *devdrawDisplay) Flush() error {
	return d.display.Flush()
}

func (d *devdrawDisplay) Close() error {
	select {
	case <-d.done:
	default:
		close(d.done)
	}
	return nil
}
