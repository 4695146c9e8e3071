package main

import (
	"image"

	"github.com/rjkroege/asskey/codepoint"
	"github.com/rjkroege/asskey/config"
	"github.com/rjkroege/asskey/draw"
)

// brush is what a press on the canvas draws.
type brush struct {
	color draw.Color
	glyph uint16
}

// glyphs decodes the palette's glyph string the same way the layout of
// the glyph row does.
func glyphs(s string) []uint16 {
	var g []uint16
	for p := []byte(s); len(p) > 0; {
		cp := codepoint.Decode(p)
		g = append(g, cp.Value)
		p = p[min(cp.Len, len(p)):]
	}
	return g
}

// drawPalette draws the palette's swatches, one per row, and the glyph
// row below them.
func (a *app) drawPalette() error {
	for i, c := range a.cfg.Swatches {
		if err := a.r.FillCell(0, config.SwatchRow+i, a.palette, draw.Color(c)); err != nil {
			return err
		}
	}
	a.r.Puts(0, a.cfg.GlyphRow(), a.palette, a.cfg.Glyphs, draw.Color(a.cfg.Palette.Color))
	return nil
}

// palettePress changes the brush according to the palette cell under p:
// a glyph selects itself and a swatch row selects its colour. Glyphs are
// hit where they are drawn and swatches on the fill pitch. The glyph pitch
// is shorter, so the first glyph row can cover the last swatch; a drawn
// glyph wins there.
func (a *app) palettePress(p image.Point) {
	m := a.r.Metrics()
	layout := a.r.Grid(a.palette).Layout()

	if col, row := m.PointToGlyphCell(p); layout.Contains(col, row) && row >= a.cfg.GlyphRow() {
		if i := (row-a.cfg.GlyphRow())*layout.Columns + col; i < len(a.glyphs) {
			a.brush.glyph = a.glyphs[i]
			a.debugf("brush glyph %q", rune(a.brush.glyph))
			return
		}
	}

	col, row := m.PointToCell(p)
	if !layout.Contains(col, row) {
		return
	}
	if i := row - config.SwatchRow; i >= 0 && i < len(a.cfg.Swatches) {
		a.brush.color = draw.Color(a.cfg.Swatches[i])
		a.debugf("brush colour %v", a.brush.color)
	}
}

// canvasPress draws the brush in the canvas cell whose glyph lies under p.
// The cell must lie where layout may write.
func (a *app) canvasPress(p image.Point) error {
	m := a.r.Metrics()
	col, row := m.PointToGlyphCell(p)
	if !a.r.Grid(a.canvas).Layout().Contains(col, row) {
		return nil
	}
	a.r.DrawGlyph(col, row, a.canvas, a.brush.glyph, a.brush.color)
	return a.display.Flush()
}
