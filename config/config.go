// Package config holds the startup parameters of asskey. They are read
// from $XDG_CONFIG_HOME/asskey/config.yaml when it exists; anything the
// file leaves out keeps its default.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/rjkroege/asskey/draw"
)

// ErrBadColor reports a colour that is not written as #rgb or #rrggbb.
var ErrBadColor = errors.New("bad colour")

// Path is the location of the configuration file relative to the XDG
// configuration directories.
var Path = filepath.Join("asskey", "config.yaml")

type Config struct {
	Font string `yaml:"font"`

	// TextColor is the colour the shared text context starts with.
	TextColor Color `yaml:"textcolor"`

	Canvas  Window `yaml:"canvas"`
	Palette Window `yaml:"palette"`

	// Swatches are the colours offered by the palette, one per row.
	Swatches []Color `yaml:"swatches"`
	// Glyphs are the characters offered by the palette, on the row
	// after the swatches.
	Glyphs string `yaml:"glyphs"`
}

// Window describes a window's grid and the line of text drawn at its
// top-left cell.
type Window struct {
	Columns int    `yaml:"columns"`
	Rows    int    `yaml:"rows"`
	Text    string `yaml:"text"`
	Color   Color  `yaml:"color"`
}

// Default returns the configuration used when there is no file.
func Default() *Config {
	return &Config{
		Font:      "-*-gohufont-medium-*-*-*-11-*-*-*-*-*-*-1",
		TextColor: 0xff00ff,
		Canvas: Window{
			Columns: 80,
			Rows:    24,
			Text:    "test",
			Color:   0xffff00,
		},
		Palette: Window{
			Columns: 20,
			Rows:    40,
			Text:    "palette",
			Color:   0xffffff,
		},
		Swatches: []Color{
			0xff0000, 0x00ff00, 0x0000ff, 0xffff00,
			0xff00ff, 0x00ffff, 0xffffff, 0x808080,
		},
		Glyphs: "#*+@%&=~o.",
	}
}

// Load reads the configuration at path. An empty path searches the XDG
// configuration directories and quietly falls back to Default when no
// file is found there.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := xdg.SearchConfigFile(Path)
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	c, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes a YAML configuration over the defaults.
func Parse(b []byte) (*Config, error) {
	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks that the windows are big enough to lay text out in and
// that the palette has room for its swatches and glyphs.
func (c *Config) Validate() error {
	if c.Font == "" {
		return errors.New("no font")
	}
	for _, w := range []struct {
		name string
		Window
	}{{"canvas", c.Canvas}, {"palette", c.Palette}} {
		if w.Columns < 2 || w.Rows < 2 {
			return fmt.Errorf("%s grid %dx%d is smaller than 2x2", w.name, w.Columns, w.Rows)
		}
	}
	if c.Glyphs == "" {
		return errors.New("no palette glyphs")
	}
	if c.GlyphRow() >= c.Palette.Rows-1 {
		return fmt.Errorf("%d swatches and a glyph row need a palette of at least %d rows", len(c.Swatches), c.GlyphRow()+2)
	}
	return nil
}

// SwatchRow is the palette row of the first swatch.
const SwatchRow = 2

// GlyphRow returns the palette row holding the glyphs.
func (c *Config) GlyphRow() int {
	return SwatchRow + len(c.Swatches) + 1
}

// Color is a colour written as #rrggbb or #rgb.
type Color draw.Color

// ParseColor parses a colour written as #rrggbb or #rgb.
func ParseColor(s string) (draw.Color, error) {
	if len(s) != len("#rgb") && len(s) != len("#rrggbb") {
		return 0, fmt.Errorf("%w %q", ErrBadColor, s)
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return 0, fmt.Errorf("%w %q", ErrBadColor, s)
	}
	r, g, b := c.RGB255()
	return draw.Color(r)<<16 | draw.Color(g)<<8 | draw.Color(b), nil
}

func (c *Color) UnmarshalYAML(n *yaml.Node) error {
	v, err := ParseColor(n.Value)
	if err != nil {
		return fmt.Errorf("line %d: %w", n.Line, err)
	}
	*c = Color(v)
	return nil
}

func (c Color) String() string { return draw.Color(c).String() }
