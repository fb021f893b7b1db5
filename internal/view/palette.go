package view

import (
	"math"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
)

var (
	progressFrom = mustHex("#2a7ab0")
	progressTo   = mustHex("#e0a030")
	white        = colorful.Color{R: 1, G: 1, B: 1}
)

// mustHex parses a hex color via colorful.Hex, panicking on error.
func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Styles used by the drawing functions.
var (
	StyleText      = tcell.StyleDefault
	StyleDim       = tcell.StyleDefault.Dim(true)
	StyleCurrent   = tcell.StyleDefault.Bold(true)
	StyleHandle    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	StyleSelecting = tcell.StyleDefault.Reverse(true)
	StyleStatus    = tcell.StyleDefault.Reverse(true)
	StyleError     = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	StylePlayhead  = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
)

// ProgressColor returns the gradient color for a progress fraction.
// Fractions outside [0, 1] are clamped.
func ProgressColor(p float64) tcell.Color {
	if math.IsNaN(p) {
		p = 0
	}
	p = math.Max(0, math.Min(1, p))
	return toTcell(progressFrom.BlendLab(progressTo, p))
}

// RegionColor returns a color for the i-th region. Neighbouring regions
// get well separated hues; a highlighted region is lighter and the
// active one fully saturated.
func RegionColor(i int, active, highlighted bool) tcell.Color {
	hue := math.Mod(float64(i)*137.508, 360)
	sat := 0.45
	if active {
		sat = 0.85
	}
	c := colorful.Hsv(hue, sat, 0.75)
	if highlighted {
		c = c.BlendLab(white, 0.35)
	}
	return toTcell(c)
}

func toTcell(c colorful.Color) tcell.Color {
	r, g, b := c.Clamped().RGB255()
	return tcell.NewRGBColor(int32(r), int32(g), int32(b))
}
