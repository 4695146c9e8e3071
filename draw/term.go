package draw

import (
	"fmt"
	"image"
	"io"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/rjkroege/asskey/grid"
)

// termMetrics describes a terminal: one pixel is one character cell and
// the baseline is the bottom of the cell.
var termMetrics = grid.Metrics{Width: 1, Height: 1, Descent: 0, CharMin: 0, CharMax: 0xffff}

const termButtons = tcell.Button1 | tcell.Button2 | tcell.Button3

// termDisplay implements Display on a terminal through tcell. Surfaces are
// laid out left to right in creation order.
type termDisplay struct {
	screen tcell.Screen

	surfaces []image.Rectangle // indexed by Surface-1
	contexts map[Context]Color
	nextctx  Context

	buttons tcell.ButtonMask
	pending []Event
	fini    sync.Once
}

var _ = Display((*termDisplay)(nil))

// OpenTerm takes over the controlling terminal.
func OpenTerm() (Display, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("failed to create screen: %w", err)
	}
	if err := s.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize screen: %w", err)
	}
	s.EnableMouse()
	return newTermDisplay(s), nil
}

// newTermDisplay wraps an initialised screen.
func newTermDisplay(s tcell.Screen) *termDisplay {
	return &termDisplay{
		screen:   s,
		contexts: make(map[Context]Color),
	}
}

func (d *termDisplay) NewWindow(label string, size image.Point) (Surface, error) {
	x := 0
	if n := len(d.surfaces); n > 0 {
		x = d.surfaces[n-1].Max.X
	}
	d.surfaces = append(d.surfaces, image.Rect(x, 0, x+size.X, size.Y))
	s := Surface(len(d.surfaces))
	d.pending = append(d.pending, Redraw{Surface: s})
	return s, nil
}

func (d *termDisplay) rect(s Surface) (image.Rectangle, bool) {
	if s == 0 || int(s) > len(d.surfaces) {
		return image.Rectangle{}, false
	}
	return d.surfaces[s-1], true
}

func (d *termDisplay) ResizeSurface(s Surface, size image.Point) {
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

func (d *termDisplay) CreateContext(s Surface, fg Color) (Context, error) {
	if _, ok := d.rect(s); !ok {
		return 0, fmt.Errorf("no surface %d", s)
	}
	d.nextctx++
	d.contexts[d.nextctx] = fg
	return d.nextctx, nil
}

func (d *termDisplay) FreeContext(c Context) { delete(d.contexts, c) }

func (d *termDisplay) SetContextColor(c Context, fg Color) {
	if _, ok := d.contexts[c]; ok {
		d.contexts[c] = fg
	}
}

// SetContextFont does nothing: a terminal has one font.
func (d *termDisplay) SetContextFont(c Context, f FontID) {}

func (d *termDisplay) OpenFont(name string) (FontID, *grid.Metrics, error) {
	m := termMetrics
	return 1, &m, nil
}

func tcellColor(c Color) tcell.Color {
	return tcell.NewHexColor(int32(c & 0xffffff))
}

func (d *termDisplay) FillRectangle(s Surface, c Context, r image.Rectangle) {
	sr, ok := d.rect(s)
	fg, cok := d.contexts[c]
	if !ok || !cok {
		return
	}
	style := tcell.StyleDefault.Background(tcellColor(fg))
	r = r.Add(sr.Min).Intersect(sr)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			d.screen.SetContent(x, y, ' ', nil, style)
		}
	}
}

// TextDraw writes one rune per cell on the row above the baseline,
// keeping each cell's background. Runes that need two terminal columns
// become U+FFFD.
func (d *termDisplay) TextDraw(s Surface, c Context, pt image.Point, text []uint16) {
	sr, ok := d.rect(s)
	fg, cok := d.contexts[c]
	if !ok || !cok {
		return
	}
	p := pt.Add(sr.Min).Sub(image.Pt(0, termMetrics.Height-termMetrics.Descent))
	for _, v := range text {
		if p.In(sr) {
			r := rune(v)
			if runewidth.RuneWidth(r) != 1 {
				r = 0xfffd
			}
			_, _, style, _ := d.screen.GetContent(p.X, p.Y)
			d.screen.SetContent(p.X, p.Y, r, nil, style.Foreground(tcellColor(fg)))
		}
		p.X++
	}
}

func (d *termDisplay) NextEvent() (Event, error) {
	for {
		if len(d.pending) > 0 {
			ev := d.pending[0]
			d.pending = d.pending[1:]
			return ev, nil
		}
		ev := d.screen.PollEvent()
		if ev == nil {
			return nil, io.EOF
		}
		switch e := ev.(type) {
		case *tcell.EventResize:
			d.screen.Sync()
			for i := range d.surfaces {
				d.pending = append(d.pending, Redraw{Surface: Surface(i + 1)})
			}
		case *tcell.EventMouse:
			return d.mouseEvent(e), nil
		case *tcell.EventKey:
			if e.Key() == tcell.KeyEscape || e.Key() == tcell.KeyCtrlC {
				return nil, io.EOF
			}
			return Unknown{Detail: fmt.Sprintf("key %s", e.Name())}, nil
		default:
			return Unknown{Detail: fmt.Sprintf("%T", ev)}, nil
		}
	}
}

func (d *termDisplay) mouseEvent(e *tcell.EventMouse) Event {
	x, y := e.Position()
	p := image.Pt(x, y)
	buttons := e.Buttons() & termButtons
	prev := d.buttons
	d.buttons = buttons

	var s Surface
	for i, r := range d.surfaces {
		if p.In(r) {
			s = Surface(i + 1)
			p = p.Sub(r.Min)
			break
		}
	}

	switch {
	case buttons&^prev != 0:
		return PointerPress{Surface: s, Point: p, Button: lowestButton(int(buttons &^ prev))}
	case prev&^buttons != 0:
		return PointerRelease{Surface: s, Point: p, Button: lowestButton(int(prev &^ buttons))}
	}
	return PointerMotion{Surface: s, Point: p}
}

func (d *termDisplay) Flush() error {
	d.screen.Show()
	return nil
}

func (d *termDisplay) Close() error {
	d.fini.Do(d.screen.Fini)
	return nil
}
