// Package radar draws series on a polar coordinate system.
package radar

import (
	"math"

	"geochart/internal/data"
	"geochart/internal/graphics"
	"geochart/internal/scale"
	"geochart/internal/series"
	"geochart/internal/signal"
)

// Shape is implemented by every radar series type.
type Shape interface {
	series.Highlighter
	Type() string
	DrawFirstPoint() bool
	DrawSubsequentPoint() bool
	FinalizeShape()
	SupportsStacking() bool
	LegendIconType() string
}

// Series is a radar series of any shape.
type Series interface {
	Shape
	radarBase() *Base
}

// shapeStarter is implemented by shapes that reset state per pass.
type shapeStarter interface {
	StartShape()
}

const labelsZIndex = 10

// Base is the per-pass drawing state machine shared by every shape.
type Base struct {
	series.Core

	shape Shape

	xScale, yScale scale.Scale
	xID, yID       signal.ListenerID
	startAngle     float64
	bounds         graphics.Rect
	container      *graphics.Layer

	root   *graphics.Layer
	labels *graphics.Layer

	firstPointDrawn bool
	radius          float64
	cx, cy          float64
	zeroY           float64

	rowByX map[any]int
}

func (b *Base) init(self Series) {
	b.shape = self
	b.Core.Init(self, self)
}

func (b *Base) radarBase() *Base { return b }

// Layer returns the root layer, nil before the first pass.
func (b *Base) Layer() *graphics.Layer { return b.root }

func (b *Base) XScale() scale.Scale { return b.xScale }
func (b *Base) YScale() scale.Scale { return b.yScale }

func (b *Base) setScale(cur *scale.Scale, id *signal.ListenerID, s scale.Scale) {
	if *cur == s {
		return
	}
	if *cur != nil {
		(*cur).Unlisten(*id)
	}
	*cur = s
	if s != nil {
		*id = b.Forward(s, series.ScaleRule)
	}
	b.Invalidate(signal.Appearance, signal.NeedsRecalculation|signal.NeedsRedraw)
}

// Dispose drops the scale subscriptions and every listener.
func (b *Base) Dispose() {
	if b.xScale != nil {
		b.xScale.Unlisten(b.xID)
	}
	if b.yScale != nil {
		b.yScale.Unlisten(b.yID)
	}
	b.Core.Dispose()
}

// SetXScale binds the category scale.
func (b *Base) SetXScale(s scale.Scale) { b.setScale(&b.xScale, &b.xID, s) }

// SetYScale binds the value scale.
func (b *Base) SetYScale(s scale.Scale) { b.setScale(&b.yScale, &b.yID, s) }

func (b *Base) StartAngle() float64 { return b.startAngle }

// SetStartAngle normalizes v to [0,360); NaN means 0.
func (b *Base) SetStartAngle(v float64) {
	v = normalizeAngle(v)
	if v == b.startAngle {
		return
	}
	b.startAngle = v
	b.Invalidate(signal.Bounds, signal.NeedsRedraw)
}

func normalizeAngle(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	v = math.Mod(v, 360)
	if v < 0 {
		v += 360
	}
	return v
}

func (b *Base) Bounds() graphics.Rect { return b.bounds }

// SetBounds sets the pixel rectangle of the plot.
func (b *Base) SetBounds(r graphics.Rect) {
	if r == b.bounds {
		return
	}
	b.bounds = r
	b.Invalidate(signal.Bounds, signal.BoundsChanged)
}

// SetContainer sets the layer the series draws into.
func (b *Base) SetContainer(l *graphics.Layer) {
	if l == b.container {
		return
	}
	b.container = l
	b.Invalidate(signal.Container, signal.NeedsRedraw)
}

// Center returns the polar origin and radius of the last pass.
func (b *Base) Center() (cx, cy, radius float64) { return b.cx, b.cy, b.radius }

// ZeroY is the y pixel of the zero value on the start axis.
func (b *Base) ZeroY() float64 { return b.zeroY }

func (b *Base) mustScales() {
	if b.xScale == nil || b.yScale == nil {
		panic("radar: series drawn without x and y scales")
	}
}

func (b *Base) stacker() scale.Stacking {
	st, _ := b.yScale.(scale.Stacking)
	return st
}

func (b *Base) stacked() bool {
	st := b.stacker()
	return st != nil && st.StackMode() != scale.StackNone
}

func clamp01(v float64) float64 { return math.Min(math.Max(v, 0), 1) }

func (b *Base) polar(xRatio, yRatio float64) (float64, float64) {
	angle := (b.startAngle - 90 + 360*xRatio) * math.Pi / 180
	r := b.radius * yRatio
	return b.cx + r*math.Cos(angle), b.cy + r*math.Sin(angle)
}

// ValuePointCoords projects the current row. A row missing x or value is a
// failure unless stacking is active and supported, where it feeds a gap to
// the stack and yields a radius-0 placeholder.
func (b *Base) ValuePointCoords() (float64, float64, bool) {
	if !b.Enabled() {
		return 0, 0, false
	}
	b.mustScales()
	it := b.Iterator()
	xv, yv := it.Get("x"), it.Get("value")
	supports := b.shape.SupportsStacking()
	st := b.stacker()

	if xv == nil || yv == nil {
		if !b.stacked() || !supports {
			return 0, 0, false
		}
		st.ApplyStacking(xv, b.Index(), math.NaN())
		return b.cx, b.cy, true
	}

	y := math.NaN()
	switch {
	case supports && st != nil:
		f, ok := data.Number(yv)
		if !ok {
			f = math.NaN()
		}
		y = st.ApplyStacking(xv, b.Index(), f)
	case !b.yScale.IsMissing(yv):
		y, _ = data.Number(yv)
	}
	if b.xScale.IsMissing(xv) {
		return 0, 0, false
	}
	px, py := b.polar(b.xScale.Transform(xv, 0), b.yScale.Transform(y, 0.5))
	if math.IsNaN(px) || math.IsNaN(py) {
		return 0, 0, false
	}
	return px, py, true
}

// ZeroPointCoords projects the baseline under the current row: the previous
// stacked total when stacked, zero otherwise.
func (b *Base) ZeroPointCoords() (float64, float64, bool) {
	if !b.Enabled() {
		return 0, 0, false
	}
	b.mustScales()
	it := b.Iterator()
	xv, yv := it.Get("x"), it.Get("value")
	supports := b.shape.SupportsStacking()
	stacked := b.stacked()

	if xv == nil || yv == nil {
		if !stacked || !supports {
			return 0, 0, false
		}
		return b.cx, b.cy, true
	}

	var ratio float64
	if stacked {
		y := math.NaN()
		switch {
		case supports:
			f, ok := data.Number(yv)
			if !ok {
				f = 1
			}
			y = b.stacker().PrevValue(xv, b.Index(), f)
		case !b.yScale.IsMissing(yv):
			y, _ = data.Number(yv)
		}
		ratio = clamp01(b.yScale.Transform(y, 0.5))
	} else {
		ratio = b.yScale.Transform(0, 0)
		if math.IsNaN(ratio) {
			ratio = 0
		}
		ratio = clamp01(ratio)
	}
	if b.xScale.IsMissing(xv) {
		return 0, 0, false
	}
	px, py := b.polar(b.xScale.Transform(xv, 0), ratio)
	if math.IsNaN(px) || math.IsNaN(py) {
		return 0, 0, false
	}
	return px, py, true
}

// StartDrawing begins a pass.
func (b *Base) StartDrawing() {
	b.mustScales()
	b.firstPointDrawn = false

	if b.root == nil {
		b.root = graphics.NewLayer()
		b.labels = graphics.NewLayer()
		b.labels.SetZIndex(labelsZIndex)
		b.labels.SetParent(b.root)
	}
	if b.HasInvalidationState(signal.Bounds) {
		r := b.bounds
		b.radius = math.Min(r.Width, r.Height) / 2
		b.cx = math.Round(r.Left + r.Width/2)
		b.cy = math.Round(r.Top + r.Height/2)
	}

	ratio := b.yScale.Transform(0, 0)
	if math.IsNaN(ratio) {
		ratio = 0
	}
	ratio = clamp01(ratio)
	b.zeroY = b.cy + b.radius*ratio*math.Sin(2*math.Pi*ratio)

	b.labels.RemoveChildren()
	if s, ok := b.shape.(shapeStarter); ok {
		s.StartShape()
	}
}

// DrawPoint draws the current row.
func (b *Base) DrawPoint() {
	if !b.Enabled() {
		return
	}
	if b.firstPointDrawn {
		b.firstPointDrawn = b.shape.DrawSubsequentPoint()
	} else {
		b.firstPointDrawn = b.shape.DrawFirstPoint()
	}
	if b.firstPointDrawn {
		b.drawLabel(false)
	}
}

// DrawMissing keeps a series aligned when it has no row for category.
func (b *Base) DrawMissing(category any) {
	b.firstPointDrawn = false
	if b.stacked() && b.shape.SupportsStacking() {
		b.stacker().ApplyStacking(category, b.Index(), math.NaN())
	}
}

// FinalizeDrawing ends a pass, attaching the root to the container when the
// series is enabled and detaching it otherwise.
func (b *Base) FinalizeDrawing() {
	b.shape.FinalizeShape()
	if b.HasInvalidationState(signal.Container) {
		if b.Enabled() {
			b.root.SetParent(b.container)
		} else {
			b.root.Remove()
		}
	}
	b.MarkConsistent(signal.AllState)
}

// labelEnabled resolves point label, point hover label, hover labels and
// labels in that order.
func (b *Base) labelEnabled(hovered bool) bool {
	pv, pok := pointFlag(b.Iterator().Get("label"))
	if hovered {
		if v, ok := pointFlag(b.Iterator().Get("hoverLabel")); ok {
			return v
		}
		if v, ok := b.HoverLabels().Enabled(); ok {
			return v
		}
	}
	if pok {
		return pv
	}
	v, _ := b.Labels().Enabled()
	return v
}

func pointFlag(v any) (bool, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return false, false
	}
	e, ok := m["enabled"].(bool)
	return e, ok
}

func (b *Base) drawLabel(hovered bool) {
	if !b.labelEnabled(hovered) {
		return
	}
	it := b.Iterator()
	x, okX := it.Meta("x").(float64)
	y, okY := it.Meta("y").(float64)
	if !okX || !okY {
		return
	}
	settings := b.Labels()
	if hovered {
		settings = b.HoverLabels()
	}
	name, _ := b.Name()
	t := graphics.NewText(x, y, settings.Text(it.Index(), it.Row(), name))
	if c := settings.FontColor(); c != "" {
		t.Color = c
	} else if c := b.Labels().FontColor(); c != "" {
		t.Color = c
	}
	t.SetParent(b.labels)
}

// recordPoint stores pixel coordinates on the current row for labels.
func (b *Base) recordPoint(x, y float64) {
	it := b.Iterator()
	it.SetMeta("x", x)
	it.SetMeta("y", y)
}

// Serialize adds the series type to the shared config.
func (b *Base) Serialize() map[string]any {
	return b.Core.Serialize(b.shape.Type())
}

// LegendItemData uses the shape's icon.
func (b *Base) LegendItemData() series.LegendItem {
	return b.Core.LegendItemData(b.shape.LegendIconType())
}
