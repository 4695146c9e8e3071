// Package drawtest contains a draw.Display that records what is drawn so
// that tests can compare the requests made against an expected list.
package drawtest

import (
	"fmt"
	"image"
	"io"
	"strings"
	"sync"

	"github.com/rjkroege/asskey/draw"
	"github.com/rjkroege/asskey/grid"
)

// Gohu is the geometry of the default 11 pixel gohufont.
var Gohu = grid.Metrics{Width: 6, Height: 11, Descent: 2, CharMin: 0, CharMax: 0xffff}

var _ = draw.Display((*Display)(nil))

// Display implements draw.Display. Every request becomes a line in
// DrawOps. Fills and text positions are also given in cells, as
// [col,row], when they fall on the grid described by the font metrics.
type Display struct {
	mu      sync.Mutex
	drawops []string

	metrics  grid.Metrics
	failfont bool

	windows  []string // indexed by Surface-1
	contexts map[draw.Context]draw.Color

	events []scripted
	closed bool
}

type scripted struct {
	ev  draw.Event
	err error
}

// NewDisplay returns a mock display whose fonts all have metrics m and
// which delivers events before ending its event stream.
func NewDisplay(m grid.Metrics, events ...draw.Event) *Display {
	d := &Display{
		metrics:  m,
		contexts: make(map[draw.Context]draw.Color),
	}
	for _, ev := range events {
		d.Post(ev)
	}
	return d
}

// FailFonts makes every later OpenFont fail.
func (d *Display) FailFonts() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failfont = true
}

// Post appends ev to the scripted events.
func (d *Display) Post(ev draw.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, scripted{ev: ev})
}

// PostError makes NextEvent fail with err once the events posted before
// it have been delivered.
func (d *Display) PostError(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, scripted{err: err})
}

// DrawOps returns the recorded requests.
func (d *Display) DrawOps() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.drawops...)
}

// Clear forgets the recorded requests.
func (d *Display) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.drawops = nil
}

// Closed reports whether Close has been called.
func (d *Display) Closed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

func (d *Display) record(format string, args ...interface{}) {
	d.drawops = append(d.drawops, fmt.Sprintf(format, args...))
}

func (d *Display) NewWindow(label string, size image.Point) (draw.Surface, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.windows = append(d.windows, label)
	s := draw.Surface(len(d.windows))
	d.record("%s <- newwindow %q size %v", d.name(s), label, size)
	return s, nil
}

// name returns the label of s for use in ops.
func (d *Display) name(s draw.Surface) string {
	if s == 0 || int(s) > len(d.windows) {
		return fmt.Sprintf("surface(%d)", s)
	}
	return d.windows[s-1]
}

func (d *Display) ResizeSurface(s draw.Surface, size image.Point) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("%s <- resize %v", d.name(s), size)
}

func (d *Display) CreateContext(s draw.Surface, fg draw.Color) (draw.Context, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if s == 0 || int(s) > len(d.windows) {
		return 0, fmt.Errorf("no surface %d", s)
	}
	// Freed contexts are reused so repeated draws record the same ops.
	c := draw.Context(1)
	for ; ; c++ {
		if _, ok := d.contexts[c]; !ok {
			break
		}
	}
	d.contexts[c] = fg
	d.record("newgc %d on %s fg %v", c, d.name(s), fg)
	return c, nil
}

func (d *Display) FreeContext(c draw.Context) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.contexts, c)
	d.record("freegc %d", c)
}

func (d *Display) SetContextColor(c draw.Context, fg draw.Color) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.contexts[c]; ok {
		d.contexts[c] = fg
	}
	d.record("color %d %v", c, fg)
}

func (d *Display) SetContextFont(c draw.Context, f draw.FontID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("font %d %d", c, f)
}

// OpenFont returns a copy of the display's metrics, or nil metrics and an
// error wrapping draw.ErrNoFont after FailFonts.
func (d *Display) OpenFont(name string) (draw.FontID, *grid.Metrics, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("openfont %q", name)
	if d.failfont {
		return 0, nil, fmt.Errorf("%w %q", draw.ErrNoFont, name)
	}
	m := d.metrics
	return 1, &m, nil
}

func (d *Display) FillRectangle(s draw.Surface, c draw.Context, r image.Rectangle) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("%s <- fill %v %s with %d %v", d.name(s), r, d.rectochars(r), c, d.contexts[c])
}

func (d *Display) TextDraw(s draw.Surface, c draw.Context, pt image.Point, text []uint16) {
	d.mu.Lock()
	defer d.mu.Unlock()
	var sb strings.Builder
	for _, v := range text {
		sb.WriteRune(rune(v))
	}
	d.record("%s <- text %q atpoint: %v %s with %d %v", d.name(s), sb.String(), pt, d.baselinechars(pt), c, d.contexts[c])
}

// NextEvent delivers the scripted events in order and then io.EOF.
func (d *Display) NextEvent() (draw.Event, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed || len(d.events) == 0 {
		return nil, io.EOF
	}
	e := d.events[0]
	d.events = d.events[1:]
	return e.ev, e.err
}

func (d *Display) Flush() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.record("flush")
	return nil
}

func (d *Display) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
	d.record("close")
	return nil
}

// rectochars returns the cell a fill rectangle covers where that's
// possible.
func (d *Display) rectochars(r image.Rectangle) string {
	m := d.metrics
	if m.Width == 0 || m.Height == 0 || r.Dx() != m.Width || r.Dy() != m.Height ||
		r.Min.X%m.Width != 0 || r.Min.Y%m.Height != 0 {
		return "[-,-]"
	}
	return fmt.Sprintf("[%d,%d]", r.Min.X/m.Width, r.Min.Y/m.Height)
}

// baselinechars returns the cell whose glyph baseline is pt where that's
// possible.
func (d *Display) baselinechars(pt image.Point) string {
	m := d.metrics
	var sb strings.Builder
	sb.WriteRune('[')
	if m.Width != 0 && pt.X%m.Width == 0 {
		fmt.Fprintf(&sb, "%d", pt.X/m.Width)
	} else {
		sb.WriteRune('-')
	}
	sb.WriteRune(',')
	if lh := m.Height - m.Descent; lh > 0 && pt.Y%lh == 0 {
		fmt.Fprintf(&sb, "%d", pt.Y/lh-1)
	} else {
		sb.WriteRune('-')
	}
	sb.WriteRune(']')
	return sb.String()
}
