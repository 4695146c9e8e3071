package main

import (
	"errors"
	"fmt"
	"image"
	"io"
	"log"

	"github.com/rjkroege/asskey/config"
	"github.com/rjkroege/asskey/draw"
	"github.com/rjkroege/asskey/grid"
	"github.com/rjkroege/asskey/render"
)

// Initial window sizes. Both windows are resized to their grids once the
// font is known.
var (
	canvasSize  = image.Pt(150, 150)
	paletteSize = image.Pt(100, 500)
)

// app is the state shared by the event handlers.
type app struct {
	display draw.Display
	r       *render.Renderer
	cfg     *config.Config
	log     *log.Logger
	debug   bool

	canvas  draw.Surface
	palette draw.Surface

	glyphs []uint16
	brush  brush
}

// newApp creates the canvas and palette windows on d, loads the font and
// sizes both windows to their grids.
func newApp(d draw.Display, cfg *config.Config, logger *log.Logger, debug bool) (*app, error) {
	a := &app{
		display: d,
		cfg:     cfg,
		log:     logger,
		debug:   debug,
		glyphs:  glyphs(cfg.Glyphs),
	}
	if len(a.glyphs) == 0 {
		return nil, errors.New("no palette glyphs")
	}
	a.brush = brush{color: draw.Color(cfg.Canvas.Color), glyph: a.glyphs[0]}

	var err error
	if a.canvas, err = d.NewWindow("asskey", canvasSize); err != nil {
		return nil, fmt.Errorf("can't create canvas: %w", err)
	}
	if a.palette, err = d.NewWindow("palette", paletteSize); err != nil {
		return nil, fmt.Errorf("can't create palette: %w", err)
	}

	gc, err := d.CreateContext(a.canvas, draw.Color(cfg.TextColor))
	if err != nil {
		return nil, fmt.Errorf("can't create text context: %w", err)
	}
	font, m, err := d.OpenFont(cfg.Font)
	if err != nil {
		return nil, err
	}
	d.SetContextFont(gc, font)
	a.debugf("font %q: %v", cfg.Font, m)

	if a.r, err = render.New(d, m, gc); err != nil {
		return nil, err
	}
	a.r.Resize(a.canvas, grid.Grid{Columns: cfg.Canvas.Columns, Rows: cfg.Canvas.Rows})
	a.r.Resize(a.palette, grid.Grid{Columns: cfg.Palette.Columns, Rows: cfg.Palette.Rows})
	if err := d.Flush(); err != nil {
		return nil, fmt.Errorf("can't flush display: %w", err)
	}
	return a, nil
}

func (a *app) debugf(format string, args ...interface{}) {
	if a.debug {
		a.log.Printf(format, args...)
	}
}

// loop handles events until the event stream ends, then closes the
// display.
func (a *app) loop() error {
	for {
		ev, err := a.display.NextEvent()
		if err == io.EOF {
			a.debugf("end of events")
			if err := a.display.Close(); err != nil {
				a.debugf("close: %v", err)
			}
			return nil
		}
		if err != nil {
			return fmt.Errorf("can't read event: %w", err)
		}
		if err := a.dispatch(ev); err != nil {
			return err
		}
	}
}

func (a *app) dispatch(ev draw.Event) error {
	a.debugf("%v", ev)
	switch e := ev.(type) {
	case draw.Redraw:
		return a.redraw()
	case draw.PointerPress:
		switch e.Surface {
		case a.canvas:
			return a.canvasPress(e.Point)
		case a.palette:
			a.palettePress(e.Point)
		}
	case draw.PointerRelease:
	case draw.PointerMotion:
	case draw.Unknown:
	default:
		panic(fmt.Sprintf("unhandled event %T", ev))
	}
	return nil
}

// redraw draws the content of both windows. The same requests are made
// every time.
func (a *app) redraw() error {
	a.r.Puts(0, 0, a.canvas, a.cfg.Canvas.Text, draw.Color(a.cfg.Canvas.Color))
	a.r.Puts(0, 0, a.palette, a.cfg.Palette.Text, draw.Color(a.cfg.Palette.Color))
	if err := a.drawPalette(); err != nil {
		return err
	}
	return a.display.Flush()
}
