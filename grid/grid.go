// Package grid maps the logical cells of a fixed-size text grid onto
// pixels using the metrics of a monospaced font.
package grid

import (
	"fmt"
	"image"
)

// Metrics records the pixel geometry of a loaded monospaced font. It is
// filled in once by whatever loads the font and is read-only afterwards.
type Metrics struct {
	Width   int // advance of every glyph
	Height  int // ascent + descent
	Descent int

	// CharMin and CharMax bound the character indices the font can draw.
	CharMin uint16
	CharMax uint16
}

func (m Metrics) String() string {
	return fmt.Sprintf("%dx%d descent %d chars [%#04x,%#04x]", m.Width, m.Height, m.Descent, m.CharMin, m.CharMax)
}

// FillPoint returns the top-left pixel of cell (col, row) for background
// fills. Fill rows are Height pixels apart.
func (m Metrics) FillPoint(col, row int) image.Point {
	return image.Pt(col*m.Width, row*m.Height)
}

// GlyphPoint returns the pixel for cell (col, row) as used for glyph
// placement. Glyph rows are Height-Descent pixels apart so they differ
// from FillPoint by exactly row*Descent.
func (m Metrics) GlyphPoint(col, row int) image.Point {
	return image.Pt(col*m.Width, row*(m.Height-m.Descent))
}

// Baseline returns the point handed to a text primitive to draw a glyph in
// cell (col, row). Text primitives position by baseline, which for glyph
// row r is the glyph placement of row r+1.
func (m Metrics) Baseline(col, row int) image.Point {
	return m.GlyphPoint(col, row+1)
}

// CellRect returns the fill rectangle of cell (col, row).
func (m Metrics) CellRect(col, row int) image.Rectangle {
	p := m.FillPoint(col, row)
	return image.Rectangle{p, p.Add(image.Pt(m.Width, m.Height))}
}

// GlyphRect returns the box the glyph of cell (col, row) occupies: Height
// pixels from its placement point. Glyph boxes of adjacent rows overlap
// by Descent.
func (m Metrics) GlyphRect(col, row int) image.Rectangle {
	p := m.GlyphPoint(col, row)
	return image.Rectangle{p, p.Add(image.Pt(m.Width, m.Height))}
}

// PointToGlyphCell returns the cell whose glyph placement holds p, the
// inverse of GlyphPoint.
func (m Metrics) PointToGlyphCell(p image.Point) (col, row int) {
	return floordiv(p.X, m.Width), floordiv(p.Y, m.Height-m.Descent)
}

// PointToCell returns the cell whose fill rectangle holds p. Points left of
// or above the origin map to negative cells.
func (m Metrics) PointToCell(p image.Point) (col, row int) {
	return floordiv(p.X, m.Width), floordiv(p.Y, m.Height)
}

// PixelSize returns the pixel size of a surface holding g.
func (m Metrics) PixelSize(g Grid) image.Point {
	return image.Pt(m.Width*g.Columns, m.Height*g.Rows)
}

// HasGlyph reports whether the font can draw v.
func (m Metrics) HasGlyph(v uint16) bool {
	return v >= m.CharMin && v <= m.CharMax
}

func floordiv(a, b int) int {
	if b == 0 {
		return 0
	}
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

// Grid is the size of a text grid in cells.
type Grid struct {
	Columns int
	Rows    int
}

func (g Grid) String() string {
	return fmt.Sprintf("%dx%d", g.Columns, g.Rows)
}

// Contains reports whether (col, row) lies in [0, Columns) x [0, Rows).
func (g Grid) Contains(col, row int) bool {
	return col >= 0 && col < g.Columns && row >= 0 && row < g.Rows
}

// Layout returns the area text layout may write to. The last column and
// the last row are kept as a border.
func (g Grid) Layout() Grid {
	return Grid{Columns: max(g.Columns-1, 0), Rows: max(g.Rows-1, 0)}
}
