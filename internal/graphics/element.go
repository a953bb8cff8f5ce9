package graphics

import (
	"math"
	"slices"
	"sort"
)

// Tag links a drawn element back to the series point that produced it.
type Tag struct {
	Series any
	Index  int
	Global bool
}

// EventType names a pointer event.
type EventType string

const (
	MouseOver  EventType = "mouseover"
	MouseMove  EventType = "mousemove"
	MouseOut   EventType = "mouseout"
	MouseClick EventType = "click"
	DblClick   EventType = "dblclick"
)

// Event is a pointer event delivered to element listeners.
type Event struct {
	Type   EventType
	Target Element
	X, Y   float64
}

// Handler receives pointer events.
type Handler func(Event)

// Element is anything that can live in a Layer.
type Element interface {
	Parent() *Layer
	SetParent(*Layer)
	Visible() bool
	ZIndex() float64
}

type node struct {
	parent  *Layer
	hidden  bool
	zIndex  float64
	tag     *Tag
	handles map[EventType][]Handler
}

func (n *node) Parent() *Layer      { return n.parent }
func (n *node) Visible() bool       { return !n.hidden }
func (n *node) ZIndex() float64     { return n.zIndex }
func (n *node) Tag() *Tag           { return n.tag }
func (n *node) SetTag(t *Tag)       { n.tag = t }
func (n *node) SetVisible(v bool)   { n.hidden = !v }
func (n *node) SetZIndex(z float64) { n.zIndex = z }

// Listen attaches a handler for ev.
func (n *node) Listen(ev EventType, h Handler) {
	if n.handles == nil {
		n.handles = make(map[EventType][]Handler)
	}
	n.handles[ev] = append(n.handles[ev], h)
}

// RemoveAllListeners detaches every handler.
func (n *node) RemoveAllListeners() { n.handles = nil }

// HasListeners reports whether any handler is attached.
func (n *node) HasListeners() bool { return len(n.handles) > 0 }

func (n *node) dispatch(ev Event) {
	for _, h := range n.handles[ev.Type] {
		h(ev)
	}
}

func attach(e Element, n *node, l *Layer) {
	if n.parent == l {
		return
	}
	if n.parent != nil {
		n.parent.remove(e)
	}
	n.parent = l
	if l != nil {
		l.children = append(l.children, e)
	}
}

// Layer groups elements.
type Layer struct {
	node
	children []Element
}

// NewLayer returns an empty visible layer.
func NewLayer() *Layer { return &Layer{} }

// SetParent moves the layer under l; nil detaches it.
func (l *Layer) SetParent(p *Layer) { attach(l, &l.node, p) }

// Remove detaches the layer from its parent.
func (l *Layer) Remove() { l.SetParent(nil) }

func (l *Layer) remove(e Element) {
	if i := slices.Index(l.children, e); i >= 0 {
		l.children = slices.Delete(l.children, i, i+1)
	}
}

// Children returns the children sorted by z-index, keeping insertion order
// for equal values.
func (l *Layer) Children() []Element {
	out := append([]Element(nil), l.children...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ZIndex() < out[j].ZIndex() })
	return out
}

// NumChildren returns the number of direct children.
func (l *Layer) NumChildren() int { return len(l.children) }

// RemoveChildren detaches every child.
func (l *Layer) RemoveChildren() {
	for _, c := range append([]Element(nil), l.children...) {
		c.SetParent(nil)
	}
}

// Dispatch delivers ev to the element and then to its ancestors.
func Dispatch(e Element, ev Event) {
	ev.Target = e
	switch t := e.(type) {
	case *Path:
		t.dispatch(ev)
	case *Layer:
		t.dispatch(ev)
	case *Text:
		t.dispatch(ev)
	}
	for p := e.Parent(); p != nil; p = p.Parent() {
		p.dispatch(ev)
	}
}

// SegOp is a path command.
type SegOp uint8

const (
	SegMove SegOp = iota
	SegLine
	SegClose
)

// Segment is one path command.
type Segment struct {
	Op   SegOp
	X, Y float64
}

// Path is a fillable, strokable vector outline.
type Path struct {
	node
	segs        []Segment
	fill        string
	stroke      string
	strokeWidth float64
	hatch       HatchFill
}

// NewPath returns an empty path with no fill and a 1px black stroke.
func NewPath() *Path {
	return &Path{fill: None, stroke: "#000000", strokeWidth: 1}
}

func (p *Path) SetParent(l *Layer) { attach(p, &p.node, l) }

// Remove detaches the path from its parent.
func (p *Path) Remove() { p.SetParent(nil) }

func (p *Path) MoveTo(x, y float64) *Path {
	p.segs = append(p.segs, Segment{Op: SegMove, X: x, Y: y})
	return p
}

func (p *Path) LineTo(x, y float64) *Path {
	if len(p.segs) == 0 {
		return p.MoveTo(x, y)
	}
	p.segs = append(p.segs, Segment{Op: SegLine, X: x, Y: y})
	return p
}

func (p *Path) Close() *Path {
	p.segs = append(p.segs, Segment{Op: SegClose})
	return p
}

// Clear drops the outline but keeps style, parent and listeners.
func (p *Path) Clear() *Path {
	p.segs = p.segs[:0]
	return p
}

// Segments returns the recorded commands.
func (p *Path) Segments() []Segment { return p.segs }

// Empty reports whether the path has no commands.
func (p *Path) Empty() bool { return len(p.segs) == 0 }

func (p *Path) Fill() string             { return p.fill }
func (p *Path) SetFill(c string)         { p.fill = c }
func (p *Path) Stroke() string           { return p.stroke }
func (p *Path) StrokeWidth() float64     { return p.strokeWidth }
func (p *Path) HatchFill() HatchFill     { return p.hatch }
func (p *Path) SetHatchFill(h HatchFill) { p.hatch = h }

// SetStroke sets stroke color and width.
func (p *Path) SetStroke(c string, width float64) {
	p.stroke = c
	p.strokeWidth = width
}

// Bounds returns the bounding box of the outline.
func (p *Path) Bounds() Rect {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, s := range p.segs {
		if s.Op == SegClose {
			continue
		}
		minX, maxX = math.Min(minX, s.X), math.Max(maxX, s.X)
		minY, maxY = math.Min(minY, s.Y), math.Max(maxY, s.Y)
	}
	if math.IsInf(minX, 1) {
		return Rect{}
	}
	return Rect{Left: minX, Top: minY, Width: maxX - minX, Height: maxY - minY}
}

// Text is a positioned label.
type Text struct {
	node
	X, Y    float64
	Content string
	Color   string
}

// NewText returns a black label at (x, y).
func NewText(x, y float64, content string) *Text {
	return &Text{X: x, Y: y, Content: content, Color: "#000000"}
}

func (t *Text) SetParent(l *Layer) { attach(t, &t.node, l) }

// Remove detaches the label from its parent.
func (t *Text) Remove() { t.SetParent(nil) }
