package geom

import "math"

// Extent accumulates a bounding box. Extend is only meaningful between
// Start and Finish.
type Extent struct {
	MinX, MinY float64
	MaxX, MaxY float64

	open bool
}

// Start resets the accumulator.
func (e *Extent) Start() {
	e.MinX, e.MinY = math.Inf(1), math.Inf(1)
	e.MaxX, e.MaxY = math.Inf(-1), math.Inf(-1)
	e.open = true
}

// ExtendX widens the horizontal range.
func (e *Extent) ExtendX(x float64) {
	if math.IsNaN(x) {
		return
	}
	e.MinX = math.Min(e.MinX, x)
	e.MaxX = math.Max(e.MaxX, x)
}

// ExtendY widens the vertical range.
func (e *Extent) ExtendY(y float64) {
	if math.IsNaN(y) {
		return
	}
	e.MinY = math.Min(e.MinY, y)
	e.MaxY = math.Max(e.MaxY, y)
}

// Extend widens both ranges.
func (e *Extent) Extend(x, y float64) {
	e.ExtendX(x)
	e.ExtendY(y)
}

// Finish closes the accumulation. An extent that saw no points collapses to
// the zero rectangle.
func (e *Extent) Finish() {
	e.open = false
	if math.IsInf(e.MinX, 1) {
		e.MinX, e.MaxX = 0, 0
	}
	if math.IsInf(e.MinY, 1) {
		e.MinY, e.MaxY = 0, 0
	}
}

// Accumulating reports whether Start was called without Finish.
func (e *Extent) Accumulating() bool { return e.open }

// Empty reports whether the extent has no area.
func (e Extent) Empty() bool { return !(e.MaxX > e.MinX && e.MaxY > e.MinY) }

func (e Extent) Width() float64  { return e.MaxX - e.MinX }
func (e Extent) Height() float64 { return e.MaxY - e.MinY }

// Contains reports whether (x, y) lies inside the extent.
func (e Extent) Contains(x, y float64) bool {
	return x >= e.MinX && x <= e.MaxX && y >= e.MinY && y <= e.MaxY
}

// Of returns the extent of every coordinate under the given nodes.
func Of(nodes ...*Node) Extent {
	var e Extent
	e.Start()
	for _, n := range nodes {
		Iterate(n, func(x, y float64, _ Op) { e.Extend(x, y) })
	}
	e.Finish()
	return e
}
