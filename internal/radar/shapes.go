package radar

import (
	"math"

	"geochart/internal/graphics"
	"geochart/internal/palette"
)

type point struct{ x, y float64 }

// Line is a closed polyline through the value points.
type Line struct {
	Base

	path    *graphics.Path
	points  [][]point
	hovered bool
}

// NewLine returns a line series over rows accepted by data.FromAny.
func NewLine(rows any) *Line {
	s := &Line{}
	s.init(s)
	if rows != nil {
		s.SetData(rows)
	}
	return s
}

func (s *Line) Type() string           { return "line" }
func (s *Line) SupportsStacking() bool { return true }
func (s *Line) LegendIconType() string { return "line" }

func (s *Line) StartShape() {
	if s.path == nil {
		s.path = graphics.NewPath()
		s.path.SetParent(s.root)
		s.MakeHoverable(s.path, true)
	}
	s.path.Clear()
	s.points = nil
}

func (s *Line) DrawFirstPoint() bool {
	x, y, ok := s.ValuePointCoords()
	if !ok {
		return false
	}
	s.points = append(s.points, []point{{x, y}})
	s.recordPoint(x, y)
	return true
}

func (s *Line) DrawSubsequentPoint() bool {
	x, y, ok := s.ValuePointCoords()
	if !ok {
		return false
	}
	last := len(s.points) - 1
	s.points[last] = append(s.points[last], point{x, y})
	s.recordPoint(x, y)
	return true
}

// closedRing reports whether a single run covers every category.
func (b *Base) closedRing(runs [][]point) bool {
	if len(runs) != 1 {
		return false
	}
	if o, ok := b.xScale.(interface{ Count() int }); ok {
		return len(runs[0]) == o.Count() && len(runs[0]) > 2
	}
	return false
}

func (s *Line) FinalizeShape() {
	if s.path == nil {
		return
	}
	s.path.Clear()
	closed := s.closedRing(s.points)
	for _, run := range s.points {
		for i, p := range run {
			if i == 0 {
				s.path.MoveTo(p.x, p.y)
			} else {
				s.path.LineTo(p.x, p.y)
			}
		}
		if len(run) == 1 {
			s.path.LineTo(run[0].x, run[0].y)
		}
	}
	if closed {
		s.path.Close()
	}
	s.applyStyle()
}

func (s *Line) applyStyle() {
	s.path.SetFill(graphics.None)
	s.path.SetStroke(s.FinalStroke(false, s.hovered), s.StrokeWidth())
}

func (s *Line) HoverSeries() {
	s.SetHoverStatus(-1)
	s.hovered = true
	if s.path != nil {
		s.applyStyle()
	}
}

// HoverPoint hovers the whole line; a continuous shape has no per-point
// highlight.
func (s *Line) HoverPoint(int) { s.HoverSeries() }

func (s *Line) Unhover() {
	s.SetHoverStatus(math.NaN())
	s.hovered = false
	if s.path != nil {
		s.applyStyle()
	}
}

// Area fills the band between the value points and the zero points.
type Area struct {
	Base

	path    *graphics.Path
	values  [][]point
	zeros   [][]point
	hovered bool
}

func NewArea(rows any) *Area {
	s := &Area{}
	s.init(s)
	if rows != nil {
		s.SetData(rows)
	}
	return s
}

func (s *Area) Type() string           { return "area" }
func (s *Area) SupportsStacking() bool { return true }
func (s *Area) LegendIconType() string { return "area" }

func (s *Area) StartShape() {
	if s.path == nil {
		s.path = graphics.NewPath()
		s.path.SetParent(s.root)
		s.MakeHoverable(s.path, true)
	}
	s.path.Clear()
	s.values, s.zeros = nil, nil
}

func (s *Area) add(first bool) bool {
	x, y, ok := s.ValuePointCoords()
	if !ok {
		return false
	}
	zx, zy, ok := s.ZeroPointCoords()
	if !ok {
		zx, zy = s.cx, s.cy
	}
	if first || len(s.values) == 0 {
		s.values = append(s.values, nil)
		s.zeros = append(s.zeros, nil)
	}
	last := len(s.values) - 1
	s.values[last] = append(s.values[last], point{x, y})
	s.zeros[last] = append(s.zeros[last], point{zx, zy})
	s.recordPoint(x, y)
	return true
}

func (s *Area) DrawFirstPoint() bool      { return s.add(true) }
func (s *Area) DrawSubsequentPoint() bool { return s.add(false) }

func ring(p *graphics.Path, pts []point) {
	for i, pt := range pts {
		if i == 0 {
			p.MoveTo(pt.x, pt.y)
		} else {
			p.LineTo(pt.x, pt.y)
		}
	}
	p.Close()
}

func reversed(pts []point) []point {
	out := make([]point, len(pts))
	for i, p := range pts {
		out[len(pts)-1-i] = p
	}
	return out
}

// FinalizeShape closes the band. A run over every category becomes an outer
// ring with the zero ring as a hole; partial runs become separate polygons.
func (s *Area) FinalizeShape() {
	if s.path == nil {
		return
	}
	s.path.Clear()
	if s.closedRing(s.values) {
		ring(s.path, s.values[0])
		ring(s.path, reversed(s.zeros[0]))
	} else {
		for i, run := range s.values {
			ring(s.path, append(append([]point(nil), run...), reversed(s.zeros[i])...))
		}
	}
	s.applyStyle()
}

func (s *Area) applyStyle() {
	s.ApplyStyle(s.path, false, s.hovered)
}

func (s *Area) HoverSeries() {
	s.SetHoverStatus(-1)
	s.hovered = true
	if s.path != nil {
		s.applyStyle()
	}
}

func (s *Area) HoverPoint(int) { s.HoverSeries() }

func (s *Area) Unhover() {
	s.SetHoverStatus(math.NaN())
	s.hovered = false
	if s.path != nil {
		s.applyStyle()
	}
}

// Marker size in pixels.
const (
	MarkerSize      = 6.0
	HoverMarkerSize = 9.0
)

// Marker draws one marker per point, each tagged with its row index.
type Marker struct {
	Base

	markers map[int]*graphics.Path
	centers map[int]point
	hovered int
}

func NewMarker(rows any) *Marker {
	s := &Marker{hovered: -1}
	s.init(s)
	if rows != nil {
		s.SetData(rows)
	}
	return s
}

func (s *Marker) Type() string           { return "marker" }
func (s *Marker) SupportsStacking() bool { return false }
func (s *Marker) LegendIconType() string { return string(s.markerType()) }

func (s *Marker) markerType() palette.MarkerType {
	if t := s.AutoMarkerType(); t != "" {
		return t
	}
	return "square"
}

func (s *Marker) StartShape() {
	for _, p := range s.markers {
		p.Remove()
	}
	s.markers = map[int]*graphics.Path{}
	s.centers = map[int]point{}
	s.hovered = -1
}

func (s *Marker) DrawFirstPoint() bool { return s.DrawSubsequentPoint() }

func (s *Marker) DrawSubsequentPoint() bool {
	x, y, ok := s.ValuePointCoords()
	if !ok {
		return false
	}
	i := s.Iterator().Index()
	p := graphics.NewPath()
	p.SetParent(s.root)
	s.MakeHoverable(p, false)
	s.markers[i] = p
	s.centers[i] = point{x, y}
	s.recordPoint(x, y)
	s.paint(i, false)
	return true
}

func (s *Marker) FinalizeShape() {}

// paint outlines marker i and applies its style for the given state.
func (s *Marker) paint(i int, hover bool) {
	p, ok := s.markers[i]
	if !ok {
		return
	}
	size := MarkerSize
	if hover {
		size = HoverMarkerSize
	}
	c := s.centers[i]
	p.Clear()
	MarkerOutline(p, s.markerType(), c.x, c.y, size)
	if s.Iterator().Select(i) {
		s.ApplyStyle(p, true, hover)
	}
}

// MarkerOutline draws a marker of type t centered at (x, y).
func MarkerOutline(p *graphics.Path, t palette.MarkerType, x, y, size float64) {
	h := size / 2
	var pts []point
	switch t {
	case "circle":
		for k := 0; k < 8; k++ {
			a := float64(k) * math.Pi / 4
			pts = append(pts, point{x + h*math.Cos(a), y + h*math.Sin(a)})
		}
	case "diamond":
		pts = []point{{x, y - h}, {x + h, y}, {x, y + h}, {x - h, y}}
	case "triangleup":
		pts = []point{{x, y - h}, {x + h, y + h}, {x - h, y + h}}
	case "triangledown":
		pts = []point{{x - h, y - h}, {x + h, y - h}, {x, y + h}}
	default:
		pts = []point{{x - h, y - h}, {x + h, y - h}, {x + h, y + h}, {x - h, y + h}}
	}
	ring(p, pts)
}

func (s *Marker) HoverPoint(i int) {
	if s.hovered == i {
		return
	}
	if s.hovered >= 0 {
		s.paint(s.hovered, false)
	}
	s.hovered = i
	s.SetHoverStatus(float64(i))
	s.paint(i, true)
}

func (s *Marker) HoverSeries() {
	s.SetHoverStatus(-1)
	for i := range s.markers {
		s.paint(i, true)
	}
	s.hovered = -1
}

func (s *Marker) Unhover() {
	for i := range s.markers {
		s.paint(i, false)
	}
	s.hovered = -1
	s.SetHoverStatus(math.NaN())
}

// Marker returns the drawn marker of row i.
func (s *Marker) Marker(i int) *graphics.Path { return s.markers[i] }
