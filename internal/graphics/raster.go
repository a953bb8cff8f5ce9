package graphics

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// Rasterize paints the visible tree under root onto a new RGBA image.
func Rasterize(root *Layer, width, height int, background string) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	if bg, ok := ParseColor(background); ok {
		draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	}
	walk(root, func(e Element) {
		switch t := e.(type) {
		case *Path:
			paintPath(img, t)
		case *Text:
			paintText(img, t)
		}
	})
	return img
}

// RasterizePNG rasterizes root and encodes the result as PNG.
func RasterizePNG(w io.Writer, root *Layer, width, height int, background string) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("rasterize: invalid size %dx%d", width, height)
	}
	if err := png.Encode(w, Rasterize(root, width, height, background)); err != nil {
		return fmt.Errorf("rasterize: encode png: %w", err)
	}
	return nil
}

// walk visits visible elements depth-first in z order.
func walk(l *Layer, fn func(Element)) {
	if l == nil || !l.Visible() {
		return
	}
	for _, c := range l.Children() {
		if !c.Visible() {
			continue
		}
		if sub, ok := c.(*Layer); ok {
			walk(sub, fn)
			continue
		}
		fn(c)
	}
}

func paintPath(img *image.RGBA, p *Path) {
	if p.Empty() {
		return
	}
	b := img.Bounds()
	if c, ok := ParseColor(p.fill); ok {
		r := vector.NewRasterizer(b.Dx(), b.Dy())
		traceFill(r, p.segs)
		r.Draw(img, b, image.NewUniform(c), image.Point{})
	}
	if !p.hatch.IsZero() {
		r := vector.NewRasterizer(b.Dx(), b.Dy())
		traceFill(r, p.segs)
		r.Draw(img, b, newHatchImage(p.hatch), image.Point{})
	}
	if c, ok := ParseColor(p.stroke); ok && p.strokeWidth > 0 {
		r := vector.NewRasterizer(b.Dx(), b.Dy())
		traceStroke(r, p.segs, p.strokeWidth)
		r.Draw(img, b, image.NewUniform(c), image.Point{})
	}
}

func traceFill(r *vector.Rasterizer, segs []Segment) {
	open := false
	for _, s := range segs {
		switch s.Op {
		case SegMove:
			if open {
				r.ClosePath()
			}
			r.MoveTo(float32(s.X), float32(s.Y))
			open = true
		case SegLine:
			r.LineTo(float32(s.X), float32(s.Y))
		case SegClose:
			if open {
				r.ClosePath()
				open = false
			}
		}
	}
	if open {
		r.ClosePath()
	}
}

// traceStroke adds one quad per segment. Zero-length segments become a
// square dot so that single points stay visible.
func traceStroke(r *vector.Rasterizer, segs []Segment, width float64) {
	half := width / 2
	quad := func(x0, y0, x1, y1 float64) {
		dx, dy := x1-x0, y1-y0
		l := math.Hypot(dx, dy)
		if l == 0 {
			r.MoveTo(float32(x0-half), float32(y0-half))
			r.LineTo(float32(x0+half), float32(y0-half))
			r.LineTo(float32(x0+half), float32(y0+half))
			r.LineTo(float32(x0-half), float32(y0+half))
			r.ClosePath()
			return
		}
		nx, ny := -dy/l*half, dx/l*half
		r.MoveTo(float32(x0+nx), float32(y0+ny))
		r.LineTo(float32(x1+nx), float32(y1+ny))
		r.LineTo(float32(x1-nx), float32(y1-ny))
		r.LineTo(float32(x0-nx), float32(y0-ny))
		r.ClosePath()
	}
	var startX, startY, curX, curY float64
	for _, s := range segs {
		switch s.Op {
		case SegMove:
			startX, startY, curX, curY = s.X, s.Y, s.X, s.Y
		case SegLine:
			quad(curX, curY, s.X, s.Y)
			curX, curY = s.X, s.Y
		case SegClose:
			quad(curX, curY, startX, startY)
			curX, curY = startX, startY
		}
	}
}

func paintText(img *image.RGBA, t *Text) {
	c, ok := ParseColor(t.Color)
	if !ok {
		c = color.RGBA{A: 0xff}
	}
	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
	}
	w := d.MeasureString(t.Content)
	d.Dot = fixed.Point26_6{
		X: fixed.I(int(t.X)) - w/2,
		Y: fixed.I(int(t.Y) + 4),
	}
	d.DrawString(t.Content)
}
