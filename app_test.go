package main

import (
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rjkroege/asskey/config"
	"github.com/rjkroege/asskey/draw"
	"github.com/rjkroege/asskey/drawtest"
)

func smallConfig() *config.Config {
	cfg := config.Default()
	cfg.Canvas.Text = "ab"
	cfg.Palette.Text = "p"
	cfg.Swatches = []config.Color{0xff0000}
	cfg.Glyphs = "#*"
	return cfg
}

func newTestApp(t *testing.T, cfg *config.Config, events ...draw.Event) (*drawtest.Display, *app) {
	t.Helper()
	d := drawtest.NewDisplay(drawtest.Gohu, events...)
	a, err := newApp(d, cfg, log.New(io.Discard, "", 0), true)
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	return d, a
}

// cellPoint returns a pixel inside cell (col, row).
func cellPoint(col, row int) image.Point {
	return drawtest.Gohu.FillPoint(col, row).Add(image.Pt(1, 1))
}

// glyphPoint returns a pixel inside the glyph drawn for cell (col, row).
func glyphPoint(col, row int) image.Point {
	return drawtest.Gohu.GlyphRect(col, row).Min.Add(image.Pt(1, 1))
}

func TestStartup(t *testing.T) {
	d, a := newTestApp(t, config.Default())
	want := []string{
		`asskey <- newwindow "asskey" size (150,150)`,
		`palette <- newwindow "palette" size (100,500)`,
		"newgc 1 on asskey fg #ff00ff",
		`openfont "-*-gohufont-medium-*-*-*-11-*-*-*-*-*-*-1"`,
		"font 1 1",
		"asskey <- resize (480,264)",
		"palette <- resize (120,440)",
		"flush",
	}
	if diff := cmp.Diff(want, d.DrawOps()); diff != "" {
		t.Errorf("startup ops mismatch (-want +got):\n%s", diff)
	}
	if a.brush != (brush{color: 0xffff00, glyph: '#'}) {
		t.Errorf("initial brush %+v", a.brush)
	}
}

func TestStartupWithoutFont(t *testing.T) {
	d := drawtest.NewDisplay(drawtest.Gohu)
	d.FailFonts()
	_, err := newApp(d, config.Default(), log.New(io.Discard, "", 0), false)
	if !errors.Is(err, draw.ErrNoFont) {
		t.Fatalf("newApp error %v; want draw.ErrNoFont", err)
	}
	for _, op := range d.DrawOps() {
		if op == "asskey <- resize (480,264)" {
			t.Errorf("resized the canvas without a font")
		}
	}
}

func TestRedraw(t *testing.T) {
	d, a := newTestApp(t, smallConfig())
	d.Clear()
	if err := a.dispatch(draw.Redraw{Surface: a.canvas}); err != nil {
		t.Fatalf("redraw: %v", err)
	}
	want := []string{
		"color 1 #ffff00",
		`asskey <- text "a" atpoint: (0,9) [0,0] with 1 #ffff00`,
		`asskey <- text "b" atpoint: (6,9) [1,0] with 1 #ffff00`,
		"color 1 #ffffff",
		`palette <- text "p" atpoint: (0,9) [0,0] with 1 #ffffff`,
		"newgc 2 on palette fg #ff0000",
		"palette <- fill (0,22)-(6,33) [0,2] with 2 #ff0000",
		"freegc 2",
		"color 1 #ffffff",
		`palette <- text "#" atpoint: (0,45) [0,4] with 1 #ffffff`,
		`palette <- text "*" atpoint: (6,45) [1,4] with 1 #ffffff`,
		"flush",
	}
	if diff := cmp.Diff(want, d.DrawOps()); diff != "" {
		t.Errorf("redraw ops mismatch (-want +got):\n%s", diff)
	}
}

func TestRedrawIdempotent(t *testing.T) {
	d, a := newTestApp(t, config.Default())
	redraw := func() []string {
		d.Clear()
		if err := a.redraw(); err != nil {
			t.Fatalf("redraw: %v", err)
		}
		return d.DrawOps()
	}
	first := redraw()
	if diff := cmp.Diff(first, redraw()); diff != "" {
		t.Errorf("second redraw differs (-first +second):\n%s", diff)
	}
}

func TestLoop(t *testing.T) {
	d, a := newTestApp(t, smallConfig(),
		draw.Redraw{Surface: 1},
		draw.PointerRelease{Surface: 1, Point: image.Pt(3, 3), Button: 1},
		draw.PointerMotion{Surface: 2, Point: image.Pt(5, 5)},
		draw.Unknown{Code: 33},
		draw.Redraw{Surface: 2},
	)
	d.Clear()
	if err := a.loop(); err != nil {
		t.Fatalf("loop: %v", err)
	}
	if !d.Closed() {
		t.Errorf("display not closed at end of events")
	}

	ops := d.DrawOps()
	if got, want := ops[len(ops)-1], "close"; got != want {
		t.Fatalf("last op %q; want %q", got, want)
	}
	ops = ops[:len(ops)-1]
	half := len(ops) / 2
	if diff := cmp.Diff(ops[:half], ops[half:]); diff != "" {
		t.Errorf("release, motion or unknown made requests (-first redraw +rest):\n%s", diff)
	}
}

func TestLoopError(t *testing.T) {
	boom := errors.New("connection reset")
	d, a := newTestApp(t, smallConfig(), draw.Redraw{Surface: 1})
	d.PostError(boom)
	if err := a.loop(); !errors.Is(err, boom) {
		t.Errorf("loop error %v; want %v", err, boom)
	}
}

func TestPalettePress(t *testing.T) {
	tests := []struct {
		name string
		at   image.Point
		want brush
	}{
		{"swatch", cellPoint(3, 2), brush{color: 0xff0000, glyph: '#'}},
		{"first glyph", glyphPoint(0, 4), brush{color: 0xffff00, glyph: '#'}},
		{"second glyph", glyphPoint(1, 4), brush{color: 0xffff00, glyph: '*'}},
		{"past the glyphs", glyphPoint(2, 4), brush{color: 0xffff00, glyph: '#'}},
		{"lower half of second glyph", glyphPoint(1, 4).Add(image.Pt(0, 7)), brush{color: 0xffff00, glyph: '*'}},
		{"blank row", cellPoint(0, 3), brush{color: 0xffff00, glyph: '#'}},
		{"title", cellPoint(0, 0), brush{color: 0xffff00, glyph: '#'}},
		{"border column", cellPoint(19, 2), brush{color: 0xffff00, glyph: '#'}},
		{"outside", image.Pt(-3, 25), brush{color: 0xffff00, glyph: '#'}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, a := newTestApp(t, smallConfig())
			d.Clear()
			if err := a.dispatch(draw.PointerPress{Surface: a.palette, Point: tt.at, Button: 1}); err != nil {
				t.Fatalf("dispatch: %v", err)
			}
			if a.brush != tt.want {
				t.Errorf("brush %+v; want %+v", a.brush, tt.want)
			}
			if ops := d.DrawOps(); len(ops) != 0 {
				t.Errorf("palette press drew %q", ops)
			}
		})
	}
}

func TestPaletteDefaultLayout(t *testing.T) {
	cfg := config.Default()
	_, a := newTestApp(t, cfg)
	last := config.SwatchRow + len(cfg.Swatches) - 1

	a.palettePress(glyphPoint(1, cfg.GlyphRow()))
	if got, want := rune(a.brush.glyph), '*'; got != want {
		t.Errorf("first glyph row, column 1 selects %q; want %q", got, want)
	}
	a.palettePress(cellPoint(15, last))
	if got, want := a.brush.color, draw.Color(cfg.Swatches[len(cfg.Swatches)-1]); got != want {
		t.Errorf("last swatch row selects %v; want %v", got, want)
	}
}

func TestPaletteGlyphsWrap(t *testing.T) {
	cfg := smallConfig()
	cfg.Glyphs = "abcdefghijklmnopqrstuvwxyz"
	_, a := newTestApp(t, cfg)
	a.palettePress(glyphPoint(1, 5))
	if got, want := rune(a.brush.glyph), 'u'; got != want {
		t.Errorf("second glyph row, column 1 selects %q; want %q", got, want)
	}
}

func TestCanvasPress(t *testing.T) {
	d, a := newTestApp(t, smallConfig())
	a.palettePress(cellPoint(0, 2))
	a.palettePress(glyphPoint(1, 4))
	d.Clear()

	if err := a.dispatch(draw.PointerPress{Surface: a.canvas, Point: glyphPoint(10, 5), Button: 1}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	want := []string{
		"color 1 #ff0000",
		`asskey <- text "*" atpoint: (60,54) [10,5] with 1 #ff0000`,
		"flush",
	}
	if diff := cmp.Diff(want, d.DrawOps()); diff != "" {
		t.Errorf("canvas press ops mismatch (-want +got):\n%s", diff)
	}
}

func TestCanvasPressLandsUnderPointer(t *testing.T) {
	m := drawtest.Gohu
	for _, row := range []int{0, 5, 20, 21, 22} {
		for _, dy := range []int{0, m.Height - m.Descent - 1} {
			d, a := newTestApp(t, smallConfig())
			a.palettePress(cellPoint(0, 2))
			d.Clear()

			at := m.GlyphRect(3, row).Min.Add(image.Pt(2, dy))
			if err := a.dispatch(draw.PointerPress{Surface: a.canvas, Point: at, Button: 1}); err != nil {
				t.Fatalf("dispatch: %v", err)
			}
			want := []string{
				"color 1 #ff0000",
				fmt.Sprintf(`asskey <- text "#" atpoint: %v [3,%d] with 1 #ff0000`, m.Baseline(3, row), row),
				"flush",
			}
			if diff := cmp.Diff(want, d.DrawOps()); diff != "" {
				t.Errorf("press at %v ops mismatch (-want +got):\n%s", at, diff)
			}
			if r := m.GlyphRect(3, row); !at.In(r) {
				t.Errorf("press at %v is outside the glyph box %v of row %d", at, r, row)
			}
		}
	}
}

func TestCanvasPressOutsideLayout(t *testing.T) {
	for _, at := range []image.Point{cellPoint(79, 0), cellPoint(0, 23), image.Pt(-1, -1), cellPoint(100, 100)} {
		d, a := newTestApp(t, smallConfig())
		d.Clear()
		if err := a.dispatch(draw.PointerPress{Surface: a.canvas, Point: at, Button: 1}); err != nil {
			t.Fatalf("dispatch: %v", err)
		}
		if ops := d.DrawOps(); len(ops) != 0 {
			t.Errorf("press at %v drew %q", at, ops)
		}
	}
}

func TestGlyphs(t *testing.T) {
	want := []uint16{'#', 0xe9, 0x20ac, 0xfffd}
	if diff := cmp.Diff(want, glyphs("#é€\U0001f600")); diff != "" {
		t.Errorf("glyphs mismatch (-want +got):\n%s", diff)
	}
}
