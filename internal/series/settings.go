package series

import (
	"fmt"
	"strings"

	"geochart/internal/data"
	"geochart/internal/signal"
)

// LabelSettings controls point labels. Enabled is nil when not set, so
// hover labels can fall back to normal labels.
type LabelSettings struct {
	signal.Dispatcher

	enabled   *bool
	position  string
	format    string
	fontColor string
}

func NewLabelSettings() *LabelSettings {
	l := &LabelSettings{}
	l.Init(l, signal.NoState, signal.NeedsRedraw|signal.BoundsChanged)
	return l
}

// Enabled returns the flag and whether it was set.
func (l *LabelSettings) Enabled() (bool, bool) {
	if l.enabled == nil {
		return false, false
	}
	return *l.enabled, true
}

func (l *LabelSettings) SetEnabled(v bool) {
	if l.enabled != nil && *l.enabled == v {
		return
	}
	l.enabled = &v
	l.DispatchSignal(signal.NeedsRedraw, false)
}

func (l *LabelSettings) Position() string { return l.position }

func (l *LabelSettings) SetPosition(p string) {
	if p == l.position {
		return
	}
	l.position = p
	l.DispatchSignal(signal.NeedsRedraw, false)
}

// Format returns the text template. Tokens {x}, {value}, {index}, {name}
// and {seriesName} are replaced per point.
func (l *LabelSettings) Format() string {
	if l.format == "" {
		return "{value}"
	}
	return l.format
}

func (l *LabelSettings) SetFormat(f string) {
	if f == l.format {
		return
	}
	l.format = f
	l.DispatchSignal(signal.NeedsRedraw, false)
}

func (l *LabelSettings) FontColor() string { return l.fontColor }

func (l *LabelSettings) SetFontColor(c string) {
	if c == l.fontColor {
		return
	}
	l.fontColor = c
	l.DispatchSignal(signal.NeedsRedraw, false)
}

// Text formats the label of one row.
func (l *LabelSettings) Text(index int, row data.Row, seriesName string) string {
	r := strings.NewReplacer(
		"{x}", fmt.Sprint(row["x"]),
		"{value}", fmtValue(row["value"]),
		"{index}", fmt.Sprint(index),
		"{name}", fmt.Sprint(row["name"]),
		"{seriesName}", seriesName,
	)
	return r.Replace(l.Format())
}

func fmtValue(v any) string {
	if f, ok := data.Number(v); ok {
		return fmt.Sprintf("%g", f)
	}
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

func (l *LabelSettings) Serialize() map[string]any {
	out := map[string]any{}
	if l.enabled != nil {
		out["enabled"] = *l.enabled
	}
	if l.position != "" {
		out["position"] = l.position
	}
	if l.format != "" {
		out["format"] = l.format
	}
	if l.fontColor != "" {
		out["fontColor"] = l.fontColor
	}
	return out
}

// Setup accepts a bool (enabled) or a settings map.
func (l *LabelSettings) Setup(cfg any) {
	l.Suspend()
	defer l.Resume(true)
	switch t := cfg.(type) {
	case bool:
		l.SetEnabled(t)
	case map[string]any:
		if v, ok := t["enabled"].(bool); ok {
			l.SetEnabled(v)
		}
		if v, ok := t["position"].(string); ok {
			l.SetPosition(v)
		}
		if v, ok := t["format"].(string); ok {
			l.SetFormat(v)
		}
		if v, ok := t["fontColor"].(string); ok {
			l.SetFontColor(v)
		}
	}
}

// TooltipSettings controls the point tooltip text.
type TooltipSettings struct {
	signal.Dispatcher

	enabled bool
	title   string
	format  string
}

func NewTooltipSettings() *TooltipSettings {
	t := &TooltipSettings{enabled: true}
	t.Init(t, signal.NoState, signal.NeedsRedraw)
	return t
}

func (t *TooltipSettings) Enabled() bool { return t.enabled }

func (t *TooltipSettings) SetEnabled(v bool) {
	if v == t.enabled {
		return
	}
	t.enabled = v
	t.DispatchSignal(signal.NeedsRedraw, false)
}

func (t *TooltipSettings) SetTitle(s string) {
	t.title = s
	t.DispatchSignal(signal.NeedsRedraw, false)
}

func (t *TooltipSettings) SetFormat(s string) {
	t.format = s
	t.DispatchSignal(signal.NeedsRedraw, false)
}

// Content returns the title and body for one row.
func (t *TooltipSettings) Content(index int, row data.Row, seriesName string) (string, string) {
	title := t.title
	if title == "" {
		title = seriesName
	}
	format := t.format
	if format == "" {
		format = "{name}: {value}"
		if _, ok := row["name"]; !ok {
			format = "{x}: {value}"
		}
	}
	body := (&LabelSettings{format: format}).Text(index, row, seriesName)
	return title, body
}

func (t *TooltipSettings) Serialize() map[string]any {
	out := map[string]any{"enabled": t.enabled}
	if t.title != "" {
		out["title"] = t.title
	}
	if t.format != "" {
		out["format"] = t.format
	}
	return out
}

func (t *TooltipSettings) Setup(cfg any) {
	t.Suspend()
	defer t.Resume(true)
	switch v := cfg.(type) {
	case bool:
		t.SetEnabled(v)
	case map[string]any:
		if b, ok := v["enabled"].(bool); ok {
			t.SetEnabled(b)
		}
		if s, ok := v["title"].(string); ok {
			t.SetTitle(s)
		}
		if s, ok := v["format"].(string); ok {
			t.SetFormat(s)
		}
	}
}

// LegendItemSettings overrides how a series appears in the legend.
type LegendItemSettings struct {
	signal.Dispatcher

	text       string
	iconType   string
	iconFill   string
	iconStroke string
}

func NewLegendItemSettings() *LegendItemSettings {
	l := &LegendItemSettings{}
	l.Init(l, signal.NoState, signal.NeedUpdateLegend|signal.BoundsChanged)
	return l
}

func (l *LegendItemSettings) Text() string { return l.text }

// SetText changes the item text; legend layout changes with it.
func (l *LegendItemSettings) SetText(s string) {
	if s == l.text {
		return
	}
	l.text = s
	l.DispatchSignal(signal.NeedUpdateLegend|signal.BoundsChanged, false)
}

func (l *LegendItemSettings) SetIconType(s string) {
	l.iconType = s
	l.DispatchSignal(signal.NeedUpdateLegend, false)
}

func (l *LegendItemSettings) SetIconFill(s string) {
	l.iconFill = s
	l.DispatchSignal(signal.NeedUpdateLegend, false)
}

func (l *LegendItemSettings) SetIconStroke(s string) {
	l.iconStroke = s
	l.DispatchSignal(signal.NeedUpdateLegend, false)
}

func (l *LegendItemSettings) Serialize() map[string]any {
	out := map[string]any{}
	for k, v := range map[string]string{
		"text":       l.text,
		"iconType":   l.iconType,
		"iconFill":   l.iconFill,
		"iconStroke": l.iconStroke,
	} {
		if v != "" {
			out[k] = v
		}
	}
	return out
}

func (l *LegendItemSettings) Setup(cfg any) {
	m, ok := cfg.(map[string]any)
	if !ok {
		return
	}
	l.Suspend()
	defer l.Resume(true)
	if v, ok := m["text"].(string); ok {
		l.SetText(v)
	}
	if v, ok := m["iconType"].(string); ok {
		l.SetIconType(v)
	}
	if v, ok := m["iconFill"].(string); ok {
		l.SetIconFill(v)
	}
	if v, ok := m["iconStroke"].(string); ok {
		l.SetIconStroke(v)
	}
}
