//go:build duitdraw || windows
// +build duitdraw windows

package draw

import (
	draw "github.com/ktye/duitdraw"
)

const refNone = draw.Refnone

type (
	drawDisplay     = draw.Display
	drawFont        = draw.Font
	drawImage       = draw.Image
	drawColor       = draw.Color
	drawKeyboardctl = draw.Keyboardctl
	drawMousectl    = draw.Mousectl
	drawMouse       = draw.Mouse
)

var initDisplay = draw.Init

// fontDescent is zero: duitdraw fonts report a height but no ascent.
func fontDescent(f *drawFont) int {
	return 0
}

func defaultFont(d *drawDisplay) *drawFont {
	return d.DefaultFont
}
