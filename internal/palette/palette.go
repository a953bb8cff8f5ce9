// Package palette provides the round-robin style sources a chart draws
// automatic series colors, markers and hatch fills from.
package palette

import (
	"strings"

	"geochart/internal/graphics"
	"geochart/internal/signal"
)

// DefaultColors is the distinct palette used when none is configured.
var DefaultColors = []string{
	"#64b5f6", "#1976d2", "#ef6c00", "#ffd54f", "#455a64",
	"#96a6a6", "#dd2c00", "#00838f", "#00bfa5", "#ffa000",
}

func newDispatcher(target any) signal.Dispatcher {
	var d signal.Dispatcher
	d.Init(target, signal.NoState, signal.NeedsReapplication)
	return d
}

// Distinct cycles through a fixed color list.
type Distinct struct {
	signal.Dispatcher
	items []string
}

// NewDistinct returns a palette over items, or DefaultColors when empty.
func NewDistinct(items ...string) *Distinct {
	p := &Distinct{}
	p.Dispatcher = newDispatcher(p)
	p.items = pick(items, DefaultColors)
	return p
}

func pick(items, fallback []string) []string {
	if len(items) == 0 {
		return append([]string(nil), fallback...)
	}
	return append([]string(nil), items...)
}

// Items returns the configured colors.
func (p *Distinct) Items() []string { return p.items }

// SetItems replaces the colors.
func (p *Distinct) SetItems(items ...string) {
	p.items = pick(items, DefaultColors)
	p.DispatchSignal(signal.NeedsReapplication, false)
}

// ColorAt returns the color for series index i.
func (p *Distinct) ColorAt(i int) string {
	if len(p.items) == 0 || i < 0 {
		return ""
	}
	return p.items[i%len(p.items)]
}

func (p *Distinct) Serialize() map[string]any {
	return map[string]any{"type": "distinct", "items": toAny(p.items)}
}

func (p *Distinct) Setup(cfg any) {
	if items := stringsOf(cfg); items != nil {
		p.SetItems(items...)
	}
}

// Range interpolates Count colors between the configured stops.
type Range struct {
	signal.Dispatcher
	stops []string
	count int
}

// NewRange returns a range palette over stops.
func NewRange(count int, stops ...string) *Range {
	p := &Range{count: count}
	p.Dispatcher = newDispatcher(p)
	p.stops = pick(stops, []string{"#e3f2fd", "#0d47a1"})
	return p
}

// SetCount changes the number of generated colors.
func (p *Range) SetCount(n int) {
	if n == p.count {
		return
	}
	p.count = n
	p.DispatchSignal(signal.NeedsReapplication, false)
}

// ColorAt returns color i of Count evenly spaced colors.
func (p *Range) ColorAt(i int) string {
	if len(p.stops) == 0 || i < 0 {
		return ""
	}
	n := max(p.count, 1)
	return Interpolate(p.stops, float64(i%n)/float64(max(n-1, 1)))
}

func (p *Range) Serialize() map[string]any {
	return map[string]any{"type": "range", "items": toAny(p.stops), "count": p.count}
}

// Interpolate returns the color at ratio t in [0,1] along stops.
func Interpolate(stops []string, t float64) string {
	switch len(stops) {
	case 0:
		return ""
	case 1:
		return graphics.Normalize(stops[0])
	}
	t = min(max(t, 0), 1)
	seg := t * float64(len(stops)-1)
	i := int(seg)
	if i >= len(stops)-1 {
		return graphics.Normalize(stops[len(stops)-1])
	}
	return graphics.Blend(stops[i], stops[i+1], seg-float64(i))
}

// MarkerType names a marker shape.
type MarkerType string

// DefaultMarkers is the marker palette order.
var DefaultMarkers = []MarkerType{"circle", "square", "diamond", "triangleup", "triangledown", "cross", "star5"}

// Markers cycles through marker shapes.
type Markers struct {
	signal.Dispatcher
	items []MarkerType
}

func NewMarkers(items ...MarkerType) *Markers {
	p := &Markers{items: items}
	p.Dispatcher = newDispatcher(p)
	if len(p.items) == 0 {
		p.items = append([]MarkerType(nil), DefaultMarkers...)
	}
	return p
}

func (p *Markers) MarkerAt(i int) MarkerType {
	if len(p.items) == 0 || i < 0 {
		return ""
	}
	return p.items[i%len(p.items)]
}

func (p *Markers) SetItems(items ...MarkerType) {
	p.items = append([]MarkerType(nil), items...)
	if len(p.items) == 0 {
		p.items = append([]MarkerType(nil), DefaultMarkers...)
	}
	p.DispatchSignal(signal.NeedsReapplication, false)
}

func (p *Markers) Serialize() map[string]any {
	items := make([]any, len(p.items))
	for i, m := range p.items {
		items[i] = string(m)
	}
	return map[string]any{"items": items}
}

func (p *Markers) Setup(cfg any) {
	names := stringsOf(cfg)
	if names == nil {
		return
	}
	items := make([]MarkerType, len(names))
	for i, n := range names {
		items[i] = MarkerType(strings.ToLower(n))
	}
	p.SetItems(items...)
}

// HatchFills cycles through hatch patterns.
type HatchFills struct {
	signal.Dispatcher
	items []graphics.HatchType
}

func NewHatchFills(items ...graphics.HatchType) *HatchFills {
	p := &HatchFills{items: items}
	p.Dispatcher = newDispatcher(p)
	if len(p.items) == 0 {
		p.items = append([]graphics.HatchType(nil), graphics.HatchTypes...)
	}
	return p
}

// HatchFillAt returns the pattern for series index i.
func (p *HatchFills) HatchFillAt(i int) graphics.HatchFill {
	if len(p.items) == 0 || i < 0 {
		return graphics.HatchFill{}
	}
	return graphics.NewHatchFill(p.items[i%len(p.items)])
}

func (p *HatchFills) SetItems(items ...graphics.HatchType) {
	p.items = append([]graphics.HatchType(nil), items...)
	if len(p.items) == 0 {
		p.items = append([]graphics.HatchType(nil), graphics.HatchTypes...)
	}
	p.DispatchSignal(signal.NeedsReapplication, false)
}

func (p *HatchFills) Serialize() map[string]any {
	items := make([]any, len(p.items))
	for i, h := range p.items {
		items[i] = string(h)
	}
	return map[string]any{"items": items}
}

func (p *HatchFills) Setup(cfg any) {
	names := stringsOf(cfg)
	if names == nil {
		return
	}
	var items []graphics.HatchType
	for _, n := range names {
		if h, ok := graphics.ParseHatchType(n); ok {
			items = append(items, h)
		}
	}
	p.SetItems(items...)
}

func toAny(s []string) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}

// stringsOf accepts a list or an object with an "items" list.
func stringsOf(cfg any) []string {
	if m, ok := cfg.(map[string]any); ok {
		cfg = m["items"]
	}
	switch t := cfg.(type) {
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, v := range t {
			if s, ok := v.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
