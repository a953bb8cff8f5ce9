package maps

import (
	"math"
	"slices"

	"geochart/internal/graphics"
	"geochart/internal/scale"
	"geochart/internal/series"
	"geochart/internal/signal"
)

// Series is a map series.
type Series interface {
	series.Highlighter
	Base() *series.Core
	Type() string
	Calculate()
	Draw()
	ColorScale() scale.Color
	SetColorScale(scale.Color)
	BoundRegions() []*Region
	SelectPoint(i int)
	UnselectAll()
	Selected() []int
	Serialize() map[string]any
	Setup(cfg map[string]any)
	Dispose()
}

var seriesTypes = map[string]func(*Map) Series{
	"choropleth": func(m *Map) Series { return newChoropleth(m) },
}

// ColorScaleRule repaints the series when its color scale changes.
func ColorScaleRule(sig signal.Signal) (signal.State, signal.Signal) {
	if sig == signal.NoSignal {
		return signal.NoState, signal.NoSignal
	}
	return signal.Appearance, signal.NeedsRedraw | signal.NeedUpdateColorRange
}

// Choropleth colors regions by the value of the row bound to them.
type Choropleth struct {
	series.Core

	owner      *Map
	colorScale scale.Color
	csID       signal.ListenerID

	bound    map[int]*Region
	order    []int
	hovered  int
	all      bool
	selected map[int]bool
}

func newChoropleth(m *Map) *Choropleth {
	s := &Choropleth{owner: m, hovered: -1, selected: map[int]bool{}}
	s.Init(s, s)
	return s
}

func (s *Choropleth) Base() *series.Core { return &s.Core }
func (s *Choropleth) Type() string       { return "choropleth" }

func (s *Choropleth) ColorScale() scale.Color { return s.colorScale }

// SetColorScale binds the scale coloring regions; nil falls back to the
// series fill.
func (s *Choropleth) SetColorScale(cs scale.Color) {
	if cs == s.colorScale {
		return
	}
	if s.colorScale != nil {
		s.colorScale.Unlisten(s.csID)
	}
	s.colorScale = cs
	if cs != nil {
		s.csID = s.Forward(cs, ColorScaleRule)
	}
	s.Invalidate(signal.Appearance|signal.SeriesData,
		signal.NeedsRecalculation|signal.NeedsRedraw|signal.NeedUpdateColorRange)
}

// Dispose releases the color scale subscription along with the series'
// own listeners.
func (s *Choropleth) Dispose() {
	if s.colorScale != nil {
		s.colorScale.Unlisten(s.csID)
	}
	s.Core.Dispose()
}

// Calculate binds rows to regions and feeds values to the color scale.
func (s *Choropleth) Calculate() {
	s.bound = map[int]*Region{}
	s.order = s.order[:0]
	idField := s.owner.IDField()
	var values []any
	it := s.ResetIterator()
	for it.Advance() {
		id := it.Get(idField)
		for _, r := range s.owner.regions {
			if r.matches(idField, id) {
				s.bound[it.Index()] = r
				s.order = append(s.order, it.Index())
				it.SetMeta("regionNode", r.Node)
				break
			}
		}
		values = append(values, it.Get("value"))
	}
	if s.colorScale != nil {
		s.colorScale.StartAutoCalc()
		s.colorScale.ExtendDataRange(values...)
		s.colorScale.FinishAutoCalc()
	}
	s.CalculateStatistics()
	s.MarkConsistent(signal.SeriesData)
}

// BoundRegions returns the regions bound to rows, in row order.
func (s *Choropleth) BoundRegions() []*Region {
	out := make([]*Region, 0, len(s.order))
	for _, i := range s.order {
		out = append(out, s.bound[i])
	}
	return out
}

// RowOf returns the row bound to r, or -1.
func (s *Choropleth) RowOf(r *Region) int {
	for _, i := range s.order {
		if s.bound[i] == r {
			return i
		}
	}
	return -1
}

// Draw paints every bound region and tags it with its row.
func (s *Choropleth) Draw() {
	if s.Enabled() {
		for _, i := range s.order {
			r := s.bound[i]
			if r.Path == nil || !s.Iterator().Select(i) {
				continue
			}
			r.Path.RemoveAllListeners()
			r.Path.SetVisible(true)
			s.MakeHoverable(r.Path, false)
			s.paint(i)
		}
		s.drawLabels()
	}
	s.MarkConsistent(signal.AllState)
}

func (s *Choropleth) drawLabels() {
	for _, i := range s.order {
		r := s.bound[i]
		if r.Path == nil || !s.Iterator().Select(i) {
			continue
		}
		hovered := s.isHovered(i)
		settings := s.Labels()
		if hovered {
			if v, ok := s.HoverLabels().Enabled(); ok {
				if !v {
					continue
				}
				settings = s.HoverLabels()
			}
		}
		if v, _ := settings.Enabled(); !v {
			continue
		}
		b := r.Path.Bounds()
		name, _ := s.Name()
		t := graphics.NewText(b.Left+b.Width/2, b.Top+b.Height/2, settings.Text(i, s.Iterator().Row(), name))
		if c := settings.FontColor(); c != "" {
			t.Color = c
		}
		t.SetParent(s.owner.labels)
	}
}

// regionColor is the color scale color of the current row, or the series
// color without a scale or for values outside it.
func (s *Choropleth) regionColor() string {
	if s.colorScale != nil {
		if c := s.colorScale.ValueToColor(s.Iterator().Get("value")); c != "" {
			return c
		}
	}
	return s.Color()
}

func (s *Choropleth) isHovered(i int) bool {
	return s.all || s.hovered == i || s.selected[i]
}

func (s *Choropleth) paint(i int) {
	r, ok := s.bound[i]
	if !ok || r.Path == nil || !s.Iterator().Select(i) {
		return
	}
	s.ApplyStyleFrom(r.Path, s.regionColor(), true, s.isHovered(i))
}

func (s *Choropleth) repaint() {
	for _, i := range s.order {
		s.paint(i)
	}
}

func (s *Choropleth) HoverPoint(i int) {
	if s.hovered == i && !s.all {
		return
	}
	prev := s.hovered
	s.hovered, s.all = i, false
	s.SetHoverStatus(float64(i))
	s.paint(prev)
	s.paint(i)
}

func (s *Choropleth) HoverSeries() {
	s.hovered, s.all = -1, true
	s.SetHoverStatus(-1)
	s.repaint()
}

// HoverPoints highlights several rows at once.
func (s *Choropleth) HoverPoints(rows []int) {
	s.hovered, s.all = -1, false
	s.SetHoverStatus(-1)
	s.repaint()
	for _, i := range rows {
		r, ok := s.bound[i]
		if ok && r.Path != nil && s.Iterator().Select(i) {
			s.ApplyStyleFrom(r.Path, s.regionColor(), true, true)
		}
	}
}

func (s *Choropleth) Unhover() {
	s.hovered, s.all = -1, false
	s.SetHoverStatus(math.NaN())
	s.repaint()
}

// SelectPoint toggles the selection of row i. Selected rows keep their hover
// style.
func (s *Choropleth) SelectPoint(i int) {
	if _, ok := s.bound[i]; !ok {
		return
	}
	if s.selected[i] {
		delete(s.selected, i)
	} else {
		s.selected[i] = true
	}
	s.paint(i)
}

func (s *Choropleth) UnselectAll() {
	prev := s.Selected()
	clear(s.selected)
	for _, i := range prev {
		s.paint(i)
	}
}

// Selected returns the selected rows in ascending order.
func (s *Choropleth) Selected() []int {
	out := make([]int, 0, len(s.selected))
	for i := range s.selected {
		out = append(out, i)
	}
	slices.Sort(out)
	return out
}

// RowsInRange returns the rows whose value falls in range ri of an ordinal
// color scale.
func (s *Choropleth) RowsInRange(ri int) []int {
	oc, ok := s.colorScale.(*scale.OrdinalColor)
	if !ok {
		return nil
	}
	var out []int
	it := s.ResetIterator()
	for it.Advance() {
		if oc.RangeIndex(it.Get("value")) == ri {
			out = append(out, it.Index())
		}
	}
	return out
}

func (s *Choropleth) Serialize() map[string]any { return s.Core.Serialize(s.Type()) }

func (s *Choropleth) Setup(cfg map[string]any) { s.Core.Setup(cfg) }
