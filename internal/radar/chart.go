package radar

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"geochart/internal/data"
	"geochart/internal/graphics"
	"geochart/internal/logging"
	"geochart/internal/palette"
	"geochart/internal/scale"
	"geochart/internal/series"
	"geochart/internal/signal"
)

var seriesTypes = map[string]func() Series{
	"line":   func() Series { return NewLine(nil) },
	"area":   func() Series { return NewArea(nil) },
	"marker": func() Series { return NewMarker(nil) },
}

// SeriesRule maps series signals to chart states.
func SeriesRule(sig signal.Signal) (signal.State, signal.Signal) {
	var st signal.State
	if sig&(signal.NeedsRecalculation|signal.DataChanged) != 0 {
		st |= signal.SeriesData
	}
	if sig&signal.NeedsRedraw != 0 {
		st |= signal.Appearance
	}
	if sig&signal.NeedUpdateLegend != 0 {
		st |= signal.ChartLegend
	}
	if st == 0 {
		return signal.NoState, signal.NoSignal
	}
	return st, signal.NeedsRedraw
}

// autoStyles are the palette states re-pushed to series on the next draw.
const autoStyles = signal.MapPalette | signal.MapMarkerPalette | signal.MapHatchFillPalette

func paletteRule(state signal.State) signal.Rule {
	return func(sig signal.Signal) (signal.State, signal.Signal) {
		if sig.Has(signal.NeedsReapplication) {
			return state | signal.Appearance | signal.ChartLegend, signal.NeedsRedraw | signal.NeedUpdateLegend
		}
		return signal.NoState, signal.NoSignal
	}
}

var (
	PaletteRule          = paletteRule(signal.MapPalette)
	MarkerPaletteRule    = paletteRule(signal.MapMarkerPalette)
	HatchFillPaletteRule = paletteRule(signal.MapHatchFillPalette)
)

const axisColor = "#b0b0b0"

// Chart owns radar series, the shared category and value scales and the
// palettes handing out auto styles.
type Chart struct {
	signal.Dispatcher

	uid        string
	series     []Series
	xScale     *scale.Ordinal
	yScale     *scale.Linear
	palette    *palette.Distinct
	markers    *palette.Markers
	hatches    *palette.HatchFills
	startAngle float64
	bounds     graphics.Rect

	root *graphics.Layer
	axes *graphics.Layer
}

// NewChart returns an empty radar chart.
func NewChart() *Chart {
	c := &Chart{
		uid:     uuid.NewString(),
		xScale:  scale.NewOrdinal(),
		yScale:  scale.NewLinear(),
		palette: palette.NewDistinct(),
		markers: palette.NewMarkers(),
		hatches: palette.NewHatchFills(),
		root:    graphics.NewLayer(),
		axes:    graphics.NewLayer(),
	}
	c.Init(c, signal.Bounds|signal.Appearance|signal.SeriesData|signal.ChartLegend|autoStyles,
		signal.NeedsRedraw|signal.BoundsChanged|signal.NeedUpdateLegend)
	c.axes.SetParent(c.root)
	c.Forward(c.palette, PaletteRule)
	c.Forward(c.markers, MarkerPaletteRule)
	c.Forward(c.hatches, HatchFillPaletteRule)
	c.Invalidate(signal.AllState, signal.NoSignal)
	return c
}

func (c *Chart) UID() string                       { return c.uid }
func (c *Chart) Layer() *graphics.Layer            { return c.root }
func (c *Chart) XScale() *scale.Ordinal            { return c.xScale }
func (c *Chart) YScale() *scale.Linear             { return c.yScale }
func (c *Chart) Palette() *palette.Distinct        { return c.palette }
func (c *Chart) MarkerPalette() *palette.Markers   { return c.markers }
func (c *Chart) HatchPalette() *palette.HatchFills { return c.hatches }

func (c *Chart) SeriesCount() int { return len(c.series) }

// GetSeries returns series i or nil.
func (c *Chart) GetSeries(i int) Series {
	if i < 0 || i >= len(c.series) {
		return nil
	}
	return c.series[i]
}

// SetStartAngle rotates every series.
func (c *Chart) SetStartAngle(v float64) {
	c.startAngle = normalizeAngle(v)
	for _, s := range c.series {
		s.radarBase().SetStartAngle(c.startAngle)
	}
	c.Invalidate(signal.Bounds, signal.NeedsRedraw)
}

func (c *Chart) StartAngle() float64 { return c.startAngle }

// AddSeries creates a series by case-insensitive type name. Unknown types
// are reported and yield nil without touching the series list.
func (c *Chart) AddSeries(typ string, rows any) Series {
	ctor, ok := seriesTypes[strings.ToLower(typ)]
	if !ok {
		logging.Error(logging.NoFeatureInModule, zap.String("feature", "radar series "+typ))
		return nil
	}
	s := ctor()
	b := s.radarBase()
	i := len(c.series)
	b.SetIndex(i)
	b.SetAutoColor(c.palette.ColorAt(i))
	b.SetAutoMarkerType(c.markers.MarkerAt(i))
	b.SetAutoHatchFill(c.hatches.HatchFillAt(i))
	b.SetXScale(c.xScale)
	b.SetYScale(c.yScale)
	b.SetStartAngle(c.startAngle)
	b.SetContainer(c.root)
	if rows != nil {
		b.SetData(rows)
	}
	c.Forward(b, SeriesRule)
	c.series = append(c.series, s)
	c.Invalidate(signal.SeriesData|signal.ChartLegend, signal.NeedsRedraw|signal.NeedUpdateLegend)
	return s
}

func (c *Chart) Line(rows any) *Line     { return c.AddSeries("line", rows).(*Line) }
func (c *Chart) Area(rows any) *Area     { return c.AddSeries("area", rows).(*Area) }
func (c *Chart) Marker(rows any) *Marker { return c.AddSeries("marker", rows).(*Marker) }

// RemoveSeries disposes series i and reindexes the rest.
func (c *Chart) RemoveSeries(i int) {
	if i < 0 || i >= len(c.series) {
		return
	}
	b := c.series[i].radarBase()
	if b.root != nil {
		b.root.Remove()
	}
	b.Dispose()
	c.series = append(c.series[:i], c.series[i+1:]...)
	for k, s := range c.series {
		s.radarBase().SetIndex(k)
	}
	c.Invalidate(signal.SeriesData|signal.ChartLegend|autoStyles, signal.NeedsRedraw|signal.NeedUpdateLegend)
}

// Calculate collects the categories and the value range. Stacked series
// contribute their running totals.
func (c *Chart) Calculate() {
	c.xScale.StartAutoCalc()
	for _, s := range c.series {
		b := s.radarBase()
		b.rowByX = map[any]int{}
		it := b.ResetIterator()
		for it.Advance() {
			x := it.Get("x")
			if x == nil {
				continue
			}
			c.xScale.ExtendDataRange(x)
			if _, seen := b.rowByX[data.Key(x)]; !seen {
				b.rowByX[data.Key(x)] = it.Index()
			}
		}
	}
	c.xScale.FinishAutoCalc()

	c.yScale.StartAutoCalc()
	c.yScale.ResetStacks()
	stacked := c.yScale.StackMode() != scale.StackNone
	for _, cat := range c.xScale.Values() {
		for _, s := range c.series {
			b := s.radarBase()
			if !b.Enabled() {
				continue
			}
			i, ok := b.rowByX[cat]
			if !ok || !b.Iterator().Select(i) {
				continue
			}
			v, ok := data.Number(b.Iterator().Get("value"))
			if !ok {
				continue
			}
			if stacked && s.SupportsStacking() {
				v = c.yScale.ApplyStacking(cat, b.Index(), v)
			}
			c.yScale.ExtendDataRange(v)
		}
	}
	c.yScale.ExtendDataRange(0)
	c.yScale.FinishAutoCalc()
	c.yScale.ResetStacks()

	for _, s := range c.series {
		s.radarBase().CalculateStatistics()
	}
}

// Draw renders every series into bounds. Signals raised while drawing are
// dropped; the states they mark are left for the next pass.
func (c *Chart) Draw(bounds graphics.Rect) {
	c.Suspend()
	defer c.Resume(false)

	if bounds != c.bounds {
		c.bounds = bounds
		c.Invalidate(signal.Bounds, signal.NoSignal)
	}
	if c.HasInvalidationState(autoStyles) {
		for i, s := range c.series {
			b := s.radarBase()
			if c.HasInvalidationState(signal.MapPalette) {
				b.SetAutoColor(c.palette.ColorAt(i))
			}
			if c.HasInvalidationState(signal.MapMarkerPalette) {
				b.SetAutoMarkerType(c.markers.MarkerAt(i))
			}
			if c.HasInvalidationState(signal.MapHatchFillPalette) {
				b.SetAutoHatchFill(c.hatches.HatchFillAt(i))
			}
			b.Invalidate(signal.Appearance, signal.NoSignal)
		}
		c.MarkConsistent(autoStyles)
	}
	if c.HasInvalidationState(signal.SeriesData) {
		c.Calculate()
		c.MarkConsistent(signal.SeriesData)
	}
	plot := c.plotBounds()

	c.yScale.ResetStacks()
	for _, s := range c.series {
		b := s.radarBase()
		b.SetBounds(plot)
		b.StartDrawing()
	}
	for _, cat := range c.xScale.Values() {
		for _, s := range c.series {
			b := s.radarBase()
			i, ok := b.rowByX[cat]
			if ok && b.Iterator().Select(i) {
				b.DrawPoint()
			} else {
				b.DrawMissing(cat)
			}
		}
	}
	for _, s := range c.series {
		s.radarBase().FinalizeDrawing()
	}
	c.drawAxes(plot)
	c.MarkConsistent(signal.AllState)
}

// plotBounds leaves room for category labels.
func (c *Chart) plotBounds() graphics.Rect {
	return c.bounds.Inset(math.Min(c.bounds.Width, c.bounds.Height) * 0.08)
}

func (c *Chart) drawAxes(plot graphics.Rect) {
	c.axes.RemoveChildren()
	c.axes.SetZIndex(-1)
	cats := c.xScale.Values()
	if len(cats) == 0 {
		return
	}
	r := math.Min(plot.Width, plot.Height) / 2
	cx := math.Round(plot.Left + plot.Width/2)
	cy := math.Round(plot.Top + plot.Height/2)
	outline := graphics.NewPath()
	spokes := graphics.NewPath()
	for i, cat := range cats {
		a := (c.startAngle - 90 + 360*c.xScale.Transform(cat, 0)) * math.Pi / 180
		x, y := cx+r*math.Cos(a), cy+r*math.Sin(a)
		if i == 0 {
			outline.MoveTo(x, y)
		} else {
			outline.LineTo(x, y)
		}
		spokes.MoveTo(cx, cy).LineTo(x, y)
		lx, ly := cx+(r+10)*math.Cos(a), cy+(r+10)*math.Sin(a)
		label := graphics.NewText(lx, ly, fmt.Sprint(cat))
		label.Color = "#606060"
		label.SetParent(c.axes)
	}
	outline.Close()
	for _, p := range []*graphics.Path{outline, spokes} {
		p.SetStroke(axisColor, 1)
		p.SetParent(c.axes)
	}
}

// LegendItems returns one entry per series.
func (c *Chart) LegendItems() []series.LegendItem {
	out := make([]series.LegendItem, 0, len(c.series))
	for _, s := range c.series {
		out = append(out, s.radarBase().LegendItemData())
	}
	return out
}

// Serialize returns the chart config tree.
func (c *Chart) Serialize() map[string]any {
	list := make([]any, 0, len(c.series))
	for _, s := range c.series {
		list = append(list, s.radarBase().Serialize())
	}
	return map[string]any{"chart": map[string]any{
		"type":             "radar",
		"id":               c.uid,
		"startAngle":       c.startAngle,
		"palette":          c.palette.Serialize(),
		"markerPalette":    c.markers.Serialize(),
		"hatchFillPalette": c.hatches.Serialize(),
		"xScale":           c.xScale.Serialize(),
		"yScale":           c.yScale.Serialize(),
		"series":           list,
	}}
}

// Setup applies a config tree, either wrapped in "chart" or bare.
func (c *Chart) Setup(cfg map[string]any) {
	if inner, ok := cfg["chart"].(map[string]any); ok {
		cfg = inner
	}
	c.Suspend()
	defer c.Resume(true)

	if v, ok := cfg["id"].(string); ok && v != "" {
		c.uid = v
	}
	if v, ok := data.Number(cfg["startAngle"]); ok {
		c.SetStartAngle(v)
	}
	if v, ok := cfg["palette"]; ok {
		c.palette.Setup(v)
	}
	if v, ok := cfg["markerPalette"]; ok {
		c.markers.Setup(v)
	}
	if v, ok := cfg["hatchFillPalette"]; ok {
		c.hatches.Setup(v)
	}
	if v, ok := cfg["xScale"].(map[string]any); ok {
		c.xScale.Setup(v)
	}
	if v, ok := cfg["yScale"].(map[string]any); ok {
		c.yScale.Setup(v)
	}
	list, _ := cfg["series"].([]any)
	for _, el := range list {
		sc, ok := el.(map[string]any)
		if !ok {
			continue
		}
		typ, _ := sc["seriesType"].(string)
		s := c.AddSeries(typ, nil)
		if s == nil {
			continue
		}
		s.radarBase().Setup(sc)
	}
}
