package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/alecthomas/kong"

	"github.com/rjkroege/asskey/config"
	"github.com/rjkroege/asskey/draw"
)

// Globals are the flags shared by every command.
type Globals struct {
	Config  string `type:"path" help:"Configuration file (default $XDG_CONFIG_HOME/asskey/config.yaml)."`
	Backend string `enum:"x11,devdraw,term" default:"x11" help:"Window system: x11, devdraw or term."`
	Font    string `help:"Font name, overriding the configuration."`
	Debug   bool   `help:"Log every event."`
}

type cli struct {
	Globals

	Run      runCmd      `cmd:"" default:"1" help:"Open the canvas and palette windows."`
	Snapshot snapshotCmd `cmd:"" help:"Draw both windows once in memory and save them as PNG."`
}

// load returns the configuration with the flags applied.
func (g *Globals) load() (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}
	if g.Font != "" {
		cfg.Font = g.Font
	}
	return cfg, nil
}

func (g *Globals) open() (draw.Display, error) {
	switch g.Backend {
	case "devdraw":
		return draw.OpenDevdraw("", "asskey")
	case "term":
		return draw.OpenTerm()
	}
	return draw.OpenX11("")
}

type runCmd struct{}

func (c *runCmd) Run(g *Globals, logger *log.Logger) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	d, err := g.open()
	if err != nil {
		return err
	}

	a, err := newApp(d, cfg, logger, g.Debug)
	if err != nil {
		d.Close()
		return err
	}

	signal.Ignore(ignoreSignals...)
	csignal := make(chan os.Signal, 1)
	signal.Notify(csignal, hangupSignals...)
	go func() {
		s := <-csignal
		a.debugf("%v: closing display", s)
		d.Close()
	}()

	return a.loop()
}

type snapshotCmd struct {
	Out string `type:"path" default:"." help:"Directory to write canvas.png and palette.png to."`
}

func (c *snapshotCmd) Run(g *Globals, logger *log.Logger) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	d := draw.NewRaster()
	a, err := newApp(d, cfg, logger, g.Debug)
	if err != nil {
		return err
	}
	d.Post(draw.Redraw{Surface: a.canvas})
	if err := a.loop(); err != nil {
		return err
	}

	for name, s := range map[string]draw.Surface{"canvas.png": a.canvas, "palette.png": a.palette} {
		if err := writePNG(d, s, filepath.Join(c.Out, name)); err != nil {
			return err
		}
	}
	return nil
}

func writePNG(d *draw.RasterDisplay, s draw.Surface, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := d.WritePNG(s, f); err != nil {
		f.Close()
		return fmt.Errorf("can't encode %s: %w", path, err)
	}
	return f.Close()
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("asskey: ")

	var flags cli
	parser := kong.Must(&flags,
		kong.Name("asskey"),
		kong.Description("Draw text into a grid of character cells."),
		kong.UsageOnError(),
	)
	ctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	if err := ctx.Run(&flags.Globals, log.Default()); err != nil {
		log.Fatalf("%v", err)
	}
}
