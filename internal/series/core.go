// Package series holds the state shared by every chart series: data
// binding, style resolution, hover events, statistics and serialization.
package series

import (
	"fmt"
	"math"

	"github.com/google/uuid"

	"geochart/internal/data"
	"geochart/internal/graphics"
	"geochart/internal/palette"
	"geochart/internal/signal"
)

// DefaultHatchType is the source hatch of function styles when the chart
// assigned none.
const DefaultHatchType = graphics.DiagonalBrick

// Defaults applied when a style is unset.
var (
	DefaultFill      = ColorFn(func(ctx StyleContext) string { return ctx.SourceColor })
	DefaultHoverFill = ColorFn(func(ctx StyleContext) string { return graphics.Lighten(ctx.SourceColor) })
	DefaultStroke    = ColorFn(func(ctx StyleContext) string { return graphics.Darken(ctx.SourceColor) })
)

// Highlighter is implemented by concrete series shapes.
type Highlighter interface {
	HoverPoint(index int)
	HoverSeries()
	Unhover()
}

// States and signals every series supports.
const (
	SupportedStates = signal.Bounds | signal.Appearance | signal.Container | signal.ZIndex |
		signal.SeriesData | signal.SeriesHatchFill | signal.SeriesLabels
	SupportedSignals = signal.NeedsRedraw | signal.NeedsRecalculation | signal.DataChanged |
		signal.BoundsChanged | signal.EnabledStateChanged | signal.NeedUpdateLegend |
		signal.NeedUpdateColorRange
)

// Core is embedded by concrete series.
type Core struct {
	signal.Dispatcher

	self      any
	highlight Highlighter
	disposed  bool

	uid   string
	index int
	name  string
	named bool
	meta  map[string]any

	view   *data.View
	viewID signal.ListenerID
	it     *data.Iterator

	color      string
	autoColor  string
	autoMarker palette.MarkerType
	autoHatch  graphics.HatchFill

	fill, hoverFill     ColorStyle
	stroke, hoverStroke ColorStyle
	strokeWidth         float64
	hatch, hoverHatch   HatchStyle

	labels, hoverLabels *LabelSettings
	tooltip             *TooltipSettings
	legendItem          *LegendItemSettings

	enabled     bool
	hoverStatus float64
	stats       map[string]float64
	handlers    []func(*PointEvent)
}

// Init prepares the core. self is the concrete series recorded in element
// tags and events; h renders hover states.
func (c *Core) Init(self any, h Highlighter) {
	c.Dispatcher.Init(self, SupportedStates, SupportedSignals)
	c.self = self
	c.highlight = h
	c.uid = uuid.NewString()
	c.enabled = true
	c.hoverStatus = math.NaN()
	c.strokeWidth = 1
	c.stats = map[string]float64{}

	c.labels = NewLabelSettings()
	c.Forward(c.labels, LabelsRule)
	c.hoverLabels = NewLabelSettings()
	c.tooltip = NewTooltipSettings()
	c.legendItem = NewLegendItemSettings()
	c.legendItem.Listen(func(e signal.Event) {
		_, sig := LegendItemRule(e.Signal)
		c.DispatchSignal(sig, e.Has(signal.BoundsChanged))
	})
	c.SetData(nil)
}

func (c *Core) mustLive() {
	if c.disposed {
		panic("series: use of disposed series")
	}
}

// Dispose detaches the series from its data and listeners.
func (c *Core) Dispose() {
	if c.view != nil {
		c.view.Unlisten(c.viewID)
	}
	c.UnlistenAll()
	c.handlers = nil
	c.disposed = true
}

func (c *Core) Disposed() bool { return c.disposed }

// Self returns the concrete series.
func (c *Core) Self() any { return c.self }

func (c *Core) UID() string { return c.uid }

func (c *Core) Index() int { return c.index }

// SetIndex is called by the owning chart.
func (c *Core) SetIndex(i int) { c.index = i }

// Name returns the series name and whether one was set.
func (c *Core) Name() (string, bool) { return c.name, c.named }

func (c *Core) SetName(n string) {
	c.name, c.named = n, true
	c.DispatchSignal(signal.NeedUpdateLegend, false)
}

// DisplayName is the name, or "Series: N".
func (c *Core) DisplayName() string {
	if c.named {
		return c.name
	}
	return fmt.Sprintf("Series: %d", c.index)
}

func (c *Core) Meta(key string) any { return c.meta[key] }

func (c *Core) SetMeta(key string, v any) {
	if c.meta == nil {
		c.meta = map[string]any{}
	}
	c.meta[key] = v
}

// Data returns the bound view.
func (c *Core) Data() *data.View { return c.view }

// SetData binds rows accepted by data.FromAny.
func (c *Core) SetData(v any) {
	c.mustLive()
	if c.view != nil {
		c.view.Unlisten(c.viewID)
	}
	if v == nil {
		c.view = data.NewView()
	} else {
		c.view = data.FromAny(v)
	}
	c.viewID = c.Forward(c.view, DataRule)
	c.it = nil
	c.Invalidate(signal.Appearance|signal.SeriesData, signal.NeedsRecalculation|signal.NeedsRedraw)
}

// Iterator returns the current cursor, creating one if needed.
func (c *Core) Iterator() *data.Iterator {
	if c.it == nil {
		return c.ResetIterator()
	}
	return c.it
}

// ResetIterator replaces the cursor with a fresh one.
func (c *Core) ResetIterator() *data.Iterator {
	c.it = c.view.Iterator()
	return c.it
}

func (c *Core) Enabled() bool { return c.enabled }

// SetEnabled shows or hides the series.
func (c *Core) SetEnabled(v bool) {
	if v == c.enabled {
		return
	}
	c.enabled = v
	c.Invalidate(signal.Container,
		signal.NeedsRedraw|signal.EnabledStateChanged|signal.NeedUpdateLegend)
}

// Color is the explicit color, the chart-assigned color, or blue.
func (c *Core) Color() string {
	switch {
	case c.color != "":
		return c.color
	case c.autoColor != "":
		return c.autoColor
	}
	return "blue"
}

func (c *Core) SetColor(col string) {
	if col == c.color {
		return
	}
	c.color = col
	c.Invalidate(signal.Appearance, signal.NeedsRedraw|signal.NeedUpdateLegend)
}

func (c *Core) SetAutoColor(col string)                { c.autoColor = col }
func (c *Core) SetAutoMarkerType(m palette.MarkerType) { c.autoMarker = m }
func (c *Core) AutoMarkerType() palette.MarkerType     { return c.autoMarker }
func (c *Core) SetAutoHatchFill(h graphics.HatchFill)  { c.autoHatch = h }

func (c *Core) Fill() ColorStyle        { return c.fill }
func (c *Core) HoverFill() ColorStyle   { return c.hoverFill }
func (c *Core) Stroke() ColorStyle      { return c.stroke }
func (c *Core) HoverStroke() ColorStyle { return c.hoverStroke }
func (c *Core) HatchFill() HatchStyle   { return c.hatch }
func (c *Core) HoverHatch() HatchStyle  { return c.hoverHatch }
func (c *Core) StrokeWidth() float64    { return c.strokeWidth }

func (c *Core) SetFill(s ColorStyle) {
	c.fill = s
	c.Invalidate(signal.Appearance, signal.NeedsRedraw|signal.NeedUpdateLegend)
}

// SetHoverFill only affects the next hover.
func (c *Core) SetHoverFill(s ColorStyle) { c.hoverFill = s }

func (c *Core) SetStroke(s ColorStyle) {
	c.stroke = s
	c.Invalidate(signal.Appearance, signal.NeedsRedraw|signal.NeedUpdateLegend)
}

func (c *Core) SetStrokeWidth(w float64) {
	if w == c.strokeWidth || w < 0 {
		return
	}
	c.strokeWidth = w
	c.Invalidate(signal.Appearance, signal.NeedsRedraw)
}

func (c *Core) SetHoverStroke(s ColorStyle) { c.hoverStroke = s }

func (c *Core) SetHatchFill(s HatchStyle) {
	c.hatch = s
	c.Invalidate(signal.SeriesHatchFill, signal.NeedsRedraw|signal.NeedUpdateLegend)
}

func (c *Core) SetHoverHatchFill(s HatchStyle) { c.hoverHatch = s }

func (c *Core) Labels() *LabelSettings          { return c.labels }
func (c *Core) HoverLabels() *LabelSettings     { return c.hoverLabels }
func (c *Core) Tooltip() *TooltipSettings       { return c.tooltip }
func (c *Core) LegendItem() *LegendItemSettings { return c.legendItem }

// HoverStatus is NaN when nothing is hovered, -1 for the whole series and a
// point index otherwise.
func (c *Core) HoverStatus() float64 { return c.hoverStatus }

func (c *Core) SetHoverStatus(s float64) { c.hoverStatus = s }

// Statistics returns a value computed by CalculateStatistics.
func (c *Core) Statistics(key string) float64 {
	if v, ok := c.stats[key]; ok {
		return v
	}
	return math.NaN()
}

// CalculateStatistics summarizes the value field of enabled series.
func (c *Core) CalculateStatistics() {
	maxV, minV, sum, count := math.Inf(-1), math.Inf(1), 0.0, 0
	it := c.ResetIterator()
	for it.Advance() {
		if c.enabled {
			if y, ok := data.Number(it.Get("value")); ok {
				maxV = math.Max(maxV, y)
				minV = math.Min(minV, y)
				sum += y
			}
		}
		count++
	}
	c.stats["seriesMax"] = maxV
	c.stats["seriesMin"] = minV
	c.stats["seriesSum"] = sum
	c.stats["seriesAverage"] = sum / float64(count)
	c.stats["seriesPointsCount"] = float64(count)
}
