//go:build !duitdraw && !windows
// +build !duitdraw,!windows

package draw

import (
	draw "9fans.net/go/draw"
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

// fontDescent returns the distance from baseline to the bottom of f.
func fontDescent(f *drawFont) int {
	return f.Height - f.Ascent
}

func defaultFont(d *drawDisplay) *drawFont {
	return d.DefaultFont
}
