package maps

import (
	"geochart/internal/graphics"
	"geochart/internal/signal"
)

// UnboundRegions styles regions no enabled series binds a row to.
type UnboundRegions struct {
	signal.Dispatcher

	enabled bool
	fill    string
	stroke  string
}

func NewUnboundRegions() *UnboundRegions {
	u := &UnboundRegions{enabled: true, fill: "#f7f7f7", stroke: "#e0e0e0"}
	u.Init(u, signal.NoState, signal.NeedsRedraw)
	return u
}

func (u *UnboundRegions) Enabled() bool  { return u.enabled }
func (u *UnboundRegions) Fill() string   { return u.fill }
func (u *UnboundRegions) Stroke() string { return u.stroke }

func (u *UnboundRegions) SetEnabled(v bool) {
	if v != u.enabled {
		u.enabled = v
		u.DispatchSignal(signal.NeedsRedraw, false)
	}
}

func (u *UnboundRegions) SetFill(c string) {
	if c != u.fill {
		u.fill = c
		u.DispatchSignal(signal.NeedsRedraw, false)
	}
}

func (u *UnboundRegions) SetStroke(c string) {
	if c != u.stroke {
		u.stroke = c
		u.DispatchSignal(signal.NeedsRedraw, false)
	}
}

// apply styles p, hiding it when disabled.
func (u *UnboundRegions) apply(p *graphics.Path) {
	p.SetVisible(u.enabled)
	p.SetFill(u.fill)
	p.SetStroke(u.stroke, 1)
	p.SetHatchFill(graphics.HatchFill{})
}

func (u *UnboundRegions) Serialize() map[string]any {
	return map[string]any{"enabled": u.enabled, "fill": u.fill, "stroke": u.stroke}
}

// Setup accepts a bool toggling the regions or an object of settings.
func (u *UnboundRegions) Setup(cfg any) {
	u.Suspend()
	defer u.Resume(true)
	switch t := cfg.(type) {
	case bool:
		u.SetEnabled(t)
	case map[string]any:
		if v, ok := t["enabled"].(bool); ok {
			u.SetEnabled(v)
		}
		if v, ok := t["fill"].(string); ok {
			u.SetFill(v)
		}
		if v, ok := t["stroke"].(string); ok {
			u.SetStroke(v)
		}
	}
}
