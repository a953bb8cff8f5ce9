package scale

import (
	"math"

	"geochart/internal/data"
	"geochart/internal/geom"
	"geochart/internal/graphics"
	"geochart/internal/signal"
)

// Geo projects raw geometry coordinates into a pixel rectangle. The data
// extent is accumulated with StartAutoCalc, ExtendDataRangeX/Y and
// FinishAutoCalc before any transform is answered.
type Geo struct {
	signal.Dispatcher

	extent geom.Extent
	last   geom.Extent
	bounds graphics.Rect
	zoom   float64
	offX   float64
	offY   float64
}

func NewGeo() *Geo {
	s := &Geo{zoom: 1}
	s.Dispatcher = newDispatcher(s)
	return s
}

func (s *Geo) Type() string { return "geo" }

// Extent returns the accumulated data extent.
func (s *Geo) Extent() geom.Extent { return s.extent }

func (s *Geo) StartAutoCalc() {
	s.last = s.extent
	s.extent.Start()
}

func (s *Geo) ExtendDataRangeX(x float64) { s.extent.ExtendX(x) }

func (s *Geo) ExtendDataRangeY(y float64) { s.extent.ExtendY(y) }

func (s *Geo) FinishAutoCalc() bool {
	s.extent.Finish()
	prev := s.last
	return prev.MinX != s.extent.MinX || prev.MaxX != s.extent.MaxX ||
		prev.MinY != s.extent.MinY || prev.MaxY != s.extent.MaxY
}

// Bounds returns the pixel rectangle the extent is fit into.
func (s *Geo) Bounds() graphics.Rect { return s.bounds }

// SetBounds sets the target rectangle. The map calls this from its draw
// routine, so no signal is emitted.
func (s *Geo) SetBounds(r graphics.Rect) { s.bounds = r }

func (s *Geo) Zoom() float64 { return s.zoom }

// SetZoom multiplies the fitted scale factor. Values <= 0 are ignored.
func (s *Geo) SetZoom(z float64) {
	if z <= 0 || math.IsNaN(z) || z == s.zoom {
		return
	}
	s.zoom = z
	s.DispatchSignal(signal.NeedsReapplication, false)
}

func (s *Geo) Offset() (float64, float64) { return s.offX, s.offY }

// SetOffset pans the projection by a pixel delta.
func (s *Geo) SetOffset(dx, dy float64) {
	if dx == s.offX && dy == s.offY {
		return
	}
	s.offX, s.offY = dx, dy
	s.DispatchSignal(signal.NeedsReapplication, false)
}

// factor is the pixels-per-unit ratio keeping the aspect of the extent.
func (s *Geo) factor() float64 {
	w, h := s.extent.Width(), s.extent.Height()
	var k float64
	switch {
	case w > 0 && h > 0:
		k = math.Min(s.bounds.Width/w, s.bounds.Height/h)
	case w > 0:
		k = s.bounds.Width / w
	case h > 0:
		k = s.bounds.Height / h
	default:
		k = 1
	}
	return k * s.zoom
}

// TransformXY maps a coordinate to pixels. The extent is centered in the
// bounds and y grows downward.
func (s *Geo) TransformXY(x, y float64) (float64, float64) {
	k := s.factor()
	e := s.extent
	left := s.bounds.Left + (s.bounds.Width-e.Width()*k)/2 + s.offX
	top := s.bounds.Top + (s.bounds.Height-e.Height()*k)/2 + s.offY
	return left + (x-e.MinX)*k, top + (e.MaxY-y)*k
}

// InverseTransform maps a pixel back to a coordinate.
func (s *Geo) InverseTransform(px, py float64) (float64, float64) {
	k := s.factor()
	e := s.extent
	left := s.bounds.Left + (s.bounds.Width-e.Width()*k)/2 + s.offX
	top := s.bounds.Top + (s.bounds.Height-e.Height()*k)/2 + s.offY
	return e.MinX + (px-left)/k, e.MaxY - (py-top)/k
}

func (s *Geo) IsMissing(v any) bool { return isMissing(v) }

// Transform returns the x ratio of v within the extent.
func (s *Geo) Transform(v any, _ float64) float64 {
	f, ok := data.Number(v)
	if !ok {
		return math.NaN()
	}
	if s.extent.Width() == 0 {
		return 0.5
	}
	return (f - s.extent.MinX) / s.extent.Width()
}

func (s *Geo) Serialize() map[string]any {
	return map[string]any{
		"type":    s.Type(),
		"zoom":    s.zoom,
		"offsetX": s.offX,
		"offsetY": s.offY,
	}
}

func (s *Geo) Setup(cfg map[string]any) {
	s.Suspend()
	defer s.Resume(true)
	if v, ok := cfg["zoom"]; ok {
		s.SetZoom(num(v, 1))
	}
	_, hasX := cfg["offsetX"]
	_, hasY := cfg["offsetY"]
	if hasX || hasY {
		s.SetOffset(num(cfg["offsetX"], s.offX), num(cfg["offsetY"], s.offY))
	}
}
