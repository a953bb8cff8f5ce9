package maps

import (
	"fmt"

	"geochart/internal/geom"
	"geochart/internal/graphics"
	"geochart/internal/scale"
)

// Region is one top-level geo node and the path it is drawn into. Nested
// collections share the path of their top-level node.
type Region struct {
	Node   *geom.Node
	Path   *graphics.Path
	handle Handle
}

// ID returns the node id.
func (r *Region) ID() string { return r.Node.ID }

// matches reports whether id names the region either by node id or by the
// idField property.
func (r *Region) matches(idField string, id any) bool {
	if id == nil {
		return false
	}
	s := fmt.Sprint(id)
	if r.Node.ID != "" && r.Node.ID == s {
		return true
	}
	if v := r.Node.Prop(idField); v != nil {
		return fmt.Sprint(v) == s
	}
	return false
}

// trace projects the node into p. Polygon rings are closed; points become
// zero-length segments.
func trace(p *graphics.Path, n *geom.Node, s *scale.Geo) {
	for _, leaf := range n.Leaves() {
		polygon := leaf.Kind == geom.KindPolygon
		open := false
		geom.Iterate(leaf, func(x, y float64, op geom.Op) {
			px, py := s.TransformXY(x, y)
			switch op {
			case geom.MoveTo:
				if open && polygon {
					p.Close()
				}
				p.MoveTo(px, py)
				open = true
			case geom.LineTo:
				p.LineTo(px, py)
			case geom.PointTo:
				p.MoveTo(px, py).LineTo(px, py)
			}
		})
		if open && polygon {
			p.Close()
		}
	}
}
