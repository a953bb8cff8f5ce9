package graphics

import (
	"image/color"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// None disables a fill or stroke.
const None = "none"

var namedColors = map[string]string{
	"black":  "#000000",
	"white":  "#ffffff",
	"red":    "#ff0000",
	"green":  "#008000",
	"blue":   "#0000ff",
	"yellow": "#ffff00",
	"orange": "#ffa500",
	"purple": "#800080",
	"gray":   "#808080",
	"grey":   "#808080",
	"silver": "#c0c0c0",
	"navy":   "#000080",
	"teal":   "#008080",
}

func parse(s string) (colorful.Color, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == None {
		return colorful.Color{}, false
	}
	if hex, ok := namedColors[s]; ok {
		s = hex
	}
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, false
	}
	return c, true
}

// ParseColor converts a named or hex color. ok is false for "none", empty
// and malformed values.
func ParseColor(s string) (color.RGBA, bool) {
	c, ok := parse(s)
	if !ok {
		return color.RGBA{}, false
	}
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, true
}

// Normalize returns the canonical #rrggbb form, or s unchanged when it does
// not parse.
func Normalize(s string) string {
	c, ok := parse(s)
	if !ok {
		return s
	}
	return c.Clamped().Hex()
}

// Lighten blends s toward white.
func Lighten(s string) string { return Blend(s, "#ffffff", 0.3) }

// Darken blends s toward black.
func Darken(s string) string { return Blend(s, "#000000", 0.2) }

// Blend interpolates from a to b in Lab space. Unparseable inputs return a.
func Blend(a, b string, t float64) string {
	ca, ok := parse(a)
	if !ok {
		return a
	}
	cb, ok := parse(b)
	if !ok {
		return a
	}
	return ca.BlendLab(cb, t).Clamped().Hex()
}
