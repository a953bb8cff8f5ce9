package graphics

import (
	"image"
	"image/color"
	"math"
	"strings"
)

// HatchType names a hatch pattern.
type HatchType string

const (
	BackwardDiagonal HatchType = "backwarddiagonal"
	ForwardDiagonal  HatchType = "forwarddiagonal"
	Horizontal       HatchType = "horizontal"
	Vertical         HatchType = "vertical"
	Cross            HatchType = "cross"
	DiagonalCross    HatchType = "diagonalcross"
	Grid             HatchType = "grid"
	DiagonalBrick    HatchType = "diagonalbrick"
	Percent50        HatchType = "percent50"
)

// HatchTypes lists every known pattern in palette order.
var HatchTypes = []HatchType{
	BackwardDiagonal, ForwardDiagonal, Horizontal, Vertical,
	Cross, DiagonalCross, Grid, DiagonalBrick, Percent50,
}

// ParseHatchType matches a pattern name case-insensitively.
func ParseHatchType(s string) (HatchType, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, t := range HatchTypes {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// HatchFill is a pattern overlay.
type HatchFill struct {
	Type      HatchType
	Color     string
	Thickness float64
	Size      float64
}

// NewHatchFill returns a pattern with default color and metrics.
func NewHatchFill(t HatchType) HatchFill {
	return HatchFill{Type: t, Color: "#000000", Thickness: 1, Size: 10}
}

// IsZero reports whether no pattern is set.
func (h HatchFill) IsZero() bool { return h.Type == "" }

// Serialize returns the config form.
func (h HatchFill) Serialize() map[string]any {
	return map[string]any{
		"type":      string(h.Type),
		"color":     h.Color,
		"thickness": h.Thickness,
		"size":      h.Size,
	}
}

// hatchImage is an unbounded periodic image used as a rasterizer source.
type hatchImage struct {
	h  HatchFill
	on color.RGBA
}

func newHatchImage(h HatchFill) *hatchImage {
	c, ok := ParseColor(h.Color)
	if !ok {
		c = color.RGBA{A: 0xff}
	}
	if h.Size <= 0 {
		h.Size = 10
	}
	if h.Thickness <= 0 {
		h.Thickness = 1
	}
	return &hatchImage{h: h, on: c}
}

func (p *hatchImage) ColorModel() color.Model { return color.RGBAModel }

func (p *hatchImage) Bounds() image.Rectangle {
	return image.Rect(-1<<20, -1<<20, 1<<20, 1<<20)
}

func (p *hatchImage) At(x, y int) color.Color {
	if p.covers(float64(x), float64(y)) {
		return p.on
	}
	return color.RGBA{}
}

func (p *hatchImage) covers(x, y float64) bool {
	size, th := p.h.Size, p.h.Thickness
	mod := func(v float64) float64 {
		m := math.Mod(v, size)
		if m < 0 {
			m += size
		}
		return m
	}
	switch p.h.Type {
	case BackwardDiagonal:
		return mod(x+y) < th
	case ForwardDiagonal:
		return mod(x-y) < th
	case Horizontal:
		return mod(y) < th
	case Vertical:
		return mod(x) < th
	case Cross, Grid:
		return mod(x) < th || mod(y) < th
	case DiagonalCross:
		return mod(x+y) < th || mod(x-y) < th
	case DiagonalBrick:
		row := math.Floor(y / size)
		if mod(y) < th {
			return true
		}
		shift := 0.0
		if int(row)%2 != 0 {
			shift = size / 2
		}
		return mod(x+shift-mod(y)) < th
	case Percent50:
		return (int(math.Floor(x))+int(math.Floor(y)))%2 == 0
	}
	return false
}
