// Package render draws characters into the cells of a text grid and lays
// strings out across a grid, wrapping at the last column.
package render

import (
	"errors"
	"fmt"

	"github.com/rjkroege/asskey/codepoint"
	"github.com/rjkroege/asskey/draw"
	"github.com/rjkroege/asskey/grid"
)

var (
	// ErrNoFont is returned by New when no font metrics are available.
	ErrNoFont = errors.New("no font metrics")

	// ErrOffGrid is returned for a cell outside its surface's grid.
	ErrOffGrid = errors.New("cell outside grid")
)

// Renderer draws into the surfaces of a display. Each surface has its own
// grid, set by Resize. Glyphs are drawn with a single shared text context
// whose font is the one the metrics describe.
type Renderer struct {
	display draw.Display
	metrics grid.Metrics
	gc      draw.Context
	grids   map[draw.Surface]grid.Grid
}

// New returns a Renderer drawing text through gc with a font of metrics m.
func New(d draw.Display, m *grid.Metrics, gc draw.Context) (*Renderer, error) {
	if m == nil {
		return nil, ErrNoFont
	}
	return &Renderer{
		display: d,
		metrics: *m,
		gc:      gc,
		grids:   make(map[draw.Surface]grid.Grid),
	}, nil
}

// Metrics returns the cell geometry of the font r draws with.
func (r *Renderer) Metrics() grid.Metrics { return r.metrics }

// Grid returns the grid of s. It is empty until s is resized.
func (r *Renderer) Grid(s draw.Surface) grid.Grid { return r.grids[s] }

// Resize sets the grid of s and resizes the surface to hold it.
func (r *Renderer) Resize(s draw.Surface, g grid.Grid) {
	r.grids[s] = g
	r.display.ResizeSurface(s, r.metrics.PixelSize(g))
}

// FillCell fills cell (col, row) of s with c. The drawing context used
// for the fill is released once the fill has been submitted.
func (r *Renderer) FillCell(col, row int, s draw.Surface, c draw.Color) error {
	if !r.grids[s].Contains(col, row) {
		return fmt.Errorf("fill %d,%d of %v grid: %w", col, row, r.grids[s], ErrOffGrid)
	}
	gc, err := r.display.CreateContext(s, c)
	if err != nil {
		return fmt.Errorf("can't allocate fill context: %w", err)
	}
	defer r.display.FreeContext(gc)
	r.display.FillRectangle(s, gc, r.metrics.CellRect(col, row))
	return nil
}

// DrawGlyph draws v in cell (col, row) of s in colour c.
func (r *Renderer) DrawGlyph(col, row int, s draw.Surface, v uint16, c draw.Color) {
	r.display.SetContextColor(r.gc, c)
	r.glyph(col, row, s, v)
}

// glyph draws v at cell (col, row), or the replacement character when
// the font has no glyph for v.
func (r *Renderer) glyph(col, row int, s draw.Surface, v uint16) {
	if !r.metrics.HasGlyph(v) {
		v = codepoint.Replacement
	}
	r.display.TextDraw(s, r.gc, r.metrics.Baseline(col, row), []uint16{v})
}

// Cursor is the cell the next character of a string is drawn in.
type Cursor struct {
	Col, Row int
}

// Puts draws text in colour c starting at cell (col, row) of s. It
// reports whether the text ran past the last usable row.
func (r *Renderer) Puts(col, row int, s draw.Surface, text string, c draw.Color) bool {
	_, overflow := r.Write(Cursor{col, row}, s, text, c)
	return overflow
}

// Write is Puts that also returns where the cursor stopped. Text moves
// to the start of the next row on reaching the last column; the last
// column and last row of the grid are never drawn in. Once the cursor
// reaches the last row Write stops and reports overflow, even if every
// character has been drawn.
func (r *Renderer) Write(cur Cursor, s draw.Surface, text string, c draw.Color) (Cursor, bool) {
	layout := r.grids[s].Layout()
	cur.Col = max(cur.Col, 0)
	cur.Row = max(cur.Row, 0)

	r.display.SetContextColor(r.gc, c)
	p := []byte(text)
	for len(p) > 0 {
		if cur.Col >= layout.Columns {
			cur.Col = 0
			cur.Row++
		}
		if cur.Row >= layout.Rows {
			return cur, true
		}

		cp := codepoint.Decode(p)
		r.glyph(cur.Col, cur.Row, s, cp.Value)
		p = p[min(cp.Len, len(p)):]

		cur.Col++
		if cur.Col >= layout.Columns {
			cur.Col = 0
			cur.Row++
		}
		if cur.Row >= layout.Rows {
			return cur, true
		}
	}
	return cur, false
}
