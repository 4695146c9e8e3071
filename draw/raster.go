package draw

import (
	"fmt"
	"image"
	"image/png"
	"io"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/rjkroege/asskey/grid"
)

// RasterDisplay implements Display in memory. Each surface is an RGBA
// image and glyphs come from the 7x13 basic font whatever name is asked
// for. Events are scripted with Post; once they run out the event stream
// ends.
type RasterDisplay struct {
	surfaces []*image.RGBA // indexed by Surface-1
	contexts map[Context]*rasterContext
	nextctx  Context
	face     *basicfont.Face
	events   []Event
}

type rasterContext struct {
	fg   Color
	face font.Face
}

var _ = Display((*RasterDisplay)(nil))

// NewRaster returns an empty RasterDisplay that will deliver events.
func NewRaster(events ...Event) *RasterDisplay {
	return &RasterDisplay{
		contexts: make(map[Context]*rasterContext),
		face:     basicfont.Face7x13,
		events:   events,
	}
}

// Post appends ev to the scripted events.
func (d *RasterDisplay) Post(ev Event) {
	d.events = append(d.events, ev)
}

// Image returns the pixels of s, or nil if there is no such surface.
func (d *RasterDisplay) Image(s Surface) *image.RGBA {
	if s == 0 || int(s) > len(d.surfaces) {
		return nil
	}
	return d.surfaces[s-1]
}

// WritePNG encodes surface s to w.
func (d *RasterDisplay) WritePNG(s Surface, w io.Writer) error {
	img := d.Image(s)
	if img == nil {
		return fmt.Errorf("no surface %d", s)
	}
	return png.Encode(w, img)
}

func (d *RasterDisplay) NewWindow(label string, size image.Point) (Surface, error) {
	img := image.NewRGBA(image.Rectangle{Max: size})
	xdraw.Draw(img, img.Bounds(), image.Black, image.Point{}, xdraw.Src)
	d.surfaces = append(d.surfaces, img)
	return Surface(len(d.surfaces)), nil
}

// ResizeSurface replaces the pixels of s, keeping what overlaps.
func (d *RasterDisplay) ResizeSurface(s Surface, size image.Point) {
	old := d.Image(s)
	if old == nil {
		return
	}
	img := image.NewRGBA(image.Rectangle{Max: size})
	xdraw.Draw(img, img.Bounds(), image.Black, image.Point{}, xdraw.Src)
	xdraw.Draw(img, old.Bounds(), old, image.Point{}, xdraw.Src)
	d.surfaces[s-1] = img
}

func (d *RasterDisplay) CreateContext(s Surface, fg Color) (Context, error) {
	if d.Image(s) == nil {
		return 0, fmt.Errorf("no surface %d", s)
	}
	d.nextctx++
	d.contexts[d.nextctx] = &rasterContext{fg: fg, face: d.face}
	return d.nextctx, nil
}

func (d *RasterDisplay) FreeContext(c Context) { delete(d.contexts, c) }

func (d *RasterDisplay) SetContextColor(c Context, fg Color) {
	if ctx, ok := d.contexts[c]; ok {
		ctx.fg = fg
	}
}

// SetContextFont does nothing: there is only the basic font.
func (d *RasterDisplay) SetContextFont(c Context, f FontID) {}

func (d *RasterDisplay) OpenFont(name string) (FontID, *grid.Metrics, error) {
	f := d.face
	last := f.Ranges[len(f.Ranges)-1]
	return 1, &grid.Metrics{
		Width:   f.Advance,
		Height:  f.Height,
		Descent: f.Descent,
		CharMin: uint16(f.Ranges[0].Low),
		CharMax: uint16(last.High - 1),
	}, nil
}

func (d *RasterDisplay) FillRectangle(s Surface, c Context, r image.Rectangle) {
	img := d.Image(s)
	ctx, ok := d.contexts[c]
	if img == nil || !ok {
		return
	}
	xdraw.Draw(img, r.Intersect(img.Bounds()), image.NewUniform(ctx.fg), image.Point{}, xdraw.Src)
}

func (d *RasterDisplay) TextDraw(s Surface, c Context, pt image.Point, text []uint16) {
	img := d.Image(s)
	ctx, ok := d.contexts[c]
	if img == nil || !ok {
		return
	}
	dr := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(ctx.fg),
		Face: ctx.face,
		Dot:  fixed.P(pt.X, pt.Y),
	}
	for _, v := range text {
		dr.DrawString(string(rune(v)))
	}
}

func (d *RasterDisplay) NextEvent() (Event, error) {
	if len(d.events) == 0 {
		return nil, io.EOF
	}
	ev := d.events[0]
	d.events = d.events[1:]
	return ev, nil
}

func (d *RasterDisplay) Flush() error { return nil }

// Close drops any events not yet delivered.
func (d *RasterDisplay) Close() error {
	d.events = nil
	return nil
}
