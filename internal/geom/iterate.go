package geom

// Op tells a visitor how a coordinate continues the current shape.
type Op int

const (
	// MoveTo starts a new ring or path.
	MoveTo Op = iota
	// LineTo continues the current ring or path.
	LineTo
	// PointTo is a standalone point. Drawing visitors render it as a
	// moveTo/lineTo pair on the same position.
	PointTo
)

// VisitFunc receives every coordinate of a geometry in drawing order.
type VisitFunc func(x, y float64, op Op)

// Iterate walks n. Polygons yield the outer ring and then every hole, lines
// yield every path, points yield each coordinate and collections recurse at
// any depth.
func Iterate(n *Node, fn VisitFunc) {
	if n == nil {
		return
	}
	switch n.Kind {
	case KindPoint:
		for _, c := range n.Coordinates {
			fn(c[0], c[1], PointTo)
		}
	case KindLine:
		for _, p := range n.Paths {
			visitRing(p, fn)
		}
	case KindPolygon:
		for _, poly := range n.Polygons {
			visitRing(poly.Outer, fn)
			for _, h := range poly.Holes {
				visitRing(h, fn)
			}
		}
	case KindCollection:
		for _, g := range n.Geometries {
			Iterate(g, fn)
		}
	}
}

func visitRing(ring [][2]float64, fn VisitFunc) {
	for i, c := range ring {
		op := LineTo
		if i == 0 {
			op = MoveTo
		}
		fn(c[0], c[1], op)
	}
}
