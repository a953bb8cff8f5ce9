package geom

import "errors"

// ErrNoGeometry is returned when an input holds no usable coordinates.
var ErrNoGeometry = errors.New("no geometries found")

// Kind discriminates Node.
type Kind int

const (
	KindPoint Kind = iota
	KindLine
	KindPolygon
	KindCollection
)

func (k Kind) String() string {
	switch k {
	case KindPoint:
		return "point"
	case KindLine:
		return "line"
	case KindPolygon:
		return "polygon"
	case KindCollection:
		return "collection"
	}
	return "unknown"
}

// Polygon is an outer ring with optional holes.
type Polygon struct {
	Outer [][2]float64
	Holes [][][2]float64
}

// Node is one geometry of a map. Only the field matching Kind is used:
// Coordinates for points, Paths for lines, Polygons for polygons and
// Geometries for collections.
type Node struct {
	Kind        Kind
	ID          string
	Properties  map[string]any
	Coordinates [][2]float64
	Paths       [][][2]float64
	Polygons    []Polygon
	Geometries  []*Node
}

// Prop returns a property value, or nil.
func (n *Node) Prop(key string) any {
	if n.Properties == nil {
		return nil
	}
	return n.Properties[key]
}

// Leaves returns the drawable nodes under n. Collections are flattened at any
// depth.
func (n *Node) Leaves() []*Node {
	if n == nil {
		return nil
	}
	if n.Kind != KindCollection {
		return []*Node{n}
	}
	var out []*Node
	for _, g := range n.Geometries {
		out = append(out, g.Leaves()...)
	}
	return out
}

// Empty reports whether the node has no coordinates at all.
func (n *Node) Empty() bool {
	empty := true
	Iterate(n, func(float64, float64, Op) { empty = false })
	return empty
}
