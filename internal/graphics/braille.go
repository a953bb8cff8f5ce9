package graphics

import (
	"math"
	"sort"
)

// Braille rasterizes a scene onto terminal cells, each cell holding a 2x4
// grid of braille dots. Scene coordinates are dot coordinates, so a scene
// drawn into PixelBounds fills the whole grid.
type Braille struct {
	w, h  int
	mask  [][]uint8
	color [][]string
	owner [][]*Tag
	glyph [][]rune
}

// NewBraille allocates a w x h cell grid.
func NewBraille(w, h int) *Braille {
	b := &Braille{w: max(w, 1), h: max(h, 1)}
	b.Reset()
	return b
}

// Reset clears every cell.
func (b *Braille) Reset() {
	b.mask = make([][]uint8, b.h)
	b.color = make([][]string, b.h)
	b.owner = make([][]*Tag, b.h)
	b.glyph = make([][]rune, b.h)
	for i := 0; i < b.h; i++ {
		b.mask[i] = make([]uint8, b.w)
		b.color[i] = make([]string, b.w)
		b.owner[i] = make([]*Tag, b.w)
		b.glyph[i] = make([]rune, b.w)
	}
}

// Size returns the grid size in cells.
func (b *Braille) Size() (int, int) { return b.w, b.h }

// PixelBounds is the scene rectangle covered by the grid.
func (b *Braille) PixelBounds() Rect {
	return Rect{Width: float64(b.w * 2), Height: float64(b.h * 4)}
}

var dotBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

func (b *Braille) setPixel(mx, my int, col string, tag *Tag) {
	if mx < 0 || my < 0 {
		return
	}
	cx, cy := mx/2, my/4
	if cx >= b.w || cy >= b.h {
		return
	}
	b.mask[cy][cx] |= dotBits[mx%2][my%4]
	if col != "" {
		b.color[cy][cx] = col
	}
	if tag != nil {
		b.owner[cy][cx] = tag
	}
}

// line draws with Bresenham on the dot grid.
func (b *Braille) line(x0, y0, x1, y1 int, col string, tag *Tag) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		b.setPixel(x0, y0, col, tag)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// Render draws the visible tree under root. Later elements overwrite the
// color and owner of earlier ones.
func (b *Braille) Render(root *Layer) {
	walk(root, func(e Element) {
		switch t := e.(type) {
		case *Path:
			b.renderPath(t)
		case *Text:
			b.renderText(t)
		}
	})
}

func (b *Braille) renderPath(p *Path) {
	rings := p.rings()
	if len(rings) == 0 {
		return
	}
	if _, ok := ParseColor(p.fill); ok {
		b.scanFill(rings, p.fill, p.tag)
	}
	stroke := p.stroke
	if _, ok := ParseColor(stroke); !ok {
		if _, fillOK := ParseColor(p.fill); !fillOK {
			return
		}
		stroke = p.fill
	}
	for _, r := range rings {
		for i := 0; i+1 < len(r.pts); i++ {
			a, c := r.pts[i], r.pts[i+1]
			b.line(a[0], a[1], c[0], c[1], stroke, p.tag)
		}
		if len(r.pts) == 1 {
			b.setPixel(r.pts[0][0], r.pts[0][1], stroke, p.tag)
		}
	}
}

// scanFill fills with the even-odd rule across every ring so holes stay open.
func (b *Braille) scanFill(rings []ring, col string, tag *Tag) {
	hMic := b.h * 4
	for y := 0; y < hMic; y++ {
		var xs []int
		for _, r := range rings {
			pts := r.pts
			n := len(pts)
			if n < 3 {
				continue
			}
			for i := 0; i < n; i++ {
				a, c := pts[i], pts[(i+1)%n]
				if a[1] == c[1] {
					continue
				}
				if (y >= a[1] && y < c[1]) || (y >= c[1] && y < a[1]) {
					t := float64(y-a[1]) / float64(c[1]-a[1])
					xs = append(xs, int(float64(a[0])+t*float64(c[0]-a[0])))
				}
			}
		}
		sort.Ints(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			for x := max(0, xs[i]); x <= xs[i+1]; x++ {
				b.setPixel(x, y, col, tag)
			}
		}
	}
}

func (b *Braille) renderText(t *Text) {
	runes := []rune(t.Content)
	cy := int(t.Y) / 4
	cx := int(t.X)/2 - len(runes)/2
	if cy < 0 || cy >= b.h {
		return
	}
	for i, r := range runes {
		x := cx + i
		if x < 0 || x >= b.w {
			continue
		}
		b.glyph[cy][x] = r
		b.color[cy][x] = t.Color
	}
}

// Owner returns the tag of the element last drawn into the cell.
func (b *Braille) Owner(cx, cy int) *Tag {
	if cx < 0 || cy < 0 || cx >= b.w || cy >= b.h {
		return nil
	}
	return b.owner[cy][cx]
}

// Lines returns one string per row. paint, when set, wraps each non-blank
// cell with its color.
func (b *Braille) Lines(paint func(s, color string) string) []string {
	out := make([]string, b.h)
	for y := 0; y < b.h; y++ {
		var row []rune
		var styled string
		for x := 0; x < b.w; x++ {
			r := ' '
			switch {
			case b.glyph[y][x] != 0:
				r = b.glyph[y][x]
			case b.mask[y][x] != 0:
				r = rune(0x2800 + int(b.mask[y][x]))
			}
			if paint != nil && r != ' ' && b.color[y][x] != "" {
				styled += string(row) + paint(string(r), b.color[y][x])
				row = row[:0]
				continue
			}
			row = append(row, r)
		}
		out[y] = styled + string(row)
	}
	return out
}

type ring struct {
	pts [][2]int
}

// rings splits the outline into closed dot-space rings. Open subpaths are
// returned as-is and only ever stroked.
func (p *Path) rings() []ring {
	var out []ring
	var cur ring
	flush := func() {
		if len(cur.pts) > 0 {
			out = append(out, cur)
		}
		cur = ring{}
	}
	pt := func(x, y float64) [2]int { return [2]int{int(math.Round(x)), int(math.Round(y))} }
	for _, s := range p.segs {
		switch s.Op {
		case SegMove:
			flush()
			cur.pts = append(cur.pts, pt(s.X, s.Y))
		case SegLine:
			cur.pts = append(cur.pts, pt(s.X, s.Y))
		case SegClose:
			if len(cur.pts) > 0 {
				cur.pts = append(cur.pts, cur.pts[0])
			}
			flush()
		}
	}
	flush()
	return out
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
