package series

import (
	"geochart/internal/data"
	"geochart/internal/graphics"
)

func (c *Core) context(source string, sourceHatch graphics.HatchFill) StyleContext {
	ctx := StyleContext{Index: -1, SourceColor: source, SourceHatchFill: sourceHatch}
	if c.it != nil && c.it.Index() >= 0 {
		ctx.Index = c.it.Index()
		ctx.Row = c.it.Row()
	}
	return ctx
}

func (c *Core) pointValue(field string) any {
	if c.it == nil {
		return nil
	}
	return c.it.Get(field)
}

func (c *Core) pointColor(field string) (ColorStyle, bool) {
	return colorStyleOf(c.pointValue(field))
}

// resolveColor evaluates style. A function receives the resolution of the
// next style in chain as its source color, or base at the end.
func (c *Core) resolveColor(base string, style ColorStyle, chain ...ColorStyle) string {
	if !style.IsFunc() {
		return style.Value
	}
	source := base
	if len(chain) > 0 {
		source = c.resolveColor(base, chain[0], chain[1:]...)
	}
	return style.Func(c.context(source, graphics.HatchFill{}))
}

// finalColor walks point hover, point normal, series hover, series normal.
func (c *Core) finalColor(base, field, hoverField string, normal, hover ColorStyle, usePoint, hovered bool) string {
	if usePoint {
		if s, ok := c.pointColor(field); ok {
			normal = s
		}
	}
	if !hovered {
		return c.resolveColor(base, normal)
	}
	h := hover
	if usePoint {
		if s, ok := c.pointColor(hoverField); ok {
			h = s
		}
	}
	if !h.IsSet() {
		return c.resolveColor(base, normal)
	}
	return c.resolveColor(base, h, normal)
}

// FinalFill is the fill of the current row.
func (c *Core) FinalFill(usePoint, hover bool) string {
	return c.FillFrom(c.Color(), usePoint, hover)
}

// FillFrom is FinalFill with base as the source color of function styles
// instead of the series color.
func (c *Core) FillFrom(base string, usePoint, hover bool) string {
	normal, hoverFill := c.fill, c.hoverFill
	if !normal.IsSet() {
		normal = DefaultFill
	}
	if !hoverFill.IsSet() {
		hoverFill = DefaultHoverFill
	}
	return c.finalColor(base, "fill", "hoverFill", normal, hoverFill, usePoint, hover)
}

// FinalStroke is the stroke color of the current row. A per-point
// hoverStroke is used only when the row defines one.
func (c *Core) FinalStroke(usePoint, hover bool) string {
	return c.StrokeFrom(c.Color(), usePoint, hover)
}

// StrokeFrom is FinalStroke with base as the source color.
func (c *Core) StrokeFrom(base string, usePoint, hover bool) string {
	normal := c.stroke
	if !normal.IsSet() {
		normal = DefaultStroke
	}
	return c.finalColor(base, "stroke", "hoverStroke", normal, c.hoverStroke, usePoint, hover)
}

// sourceHatch is the chart-assigned hatch or the default pattern.
func (c *Core) sourceHatch() graphics.HatchFill {
	if !c.autoHatch.IsZero() {
		return c.autoHatch
	}
	return graphics.NewHatchFill(DefaultHatchType)
}

func (c *Core) normalizeHatch(s HatchStyle) graphics.HatchFill {
	switch s.mode {
	case hatchFunc:
		return s.fn(c.context(c.Color(), c.sourceHatch()))
	case hatchAuto:
		return c.autoHatch
	case hatchValue:
		return s.value
	}
	return graphics.HatchFill{}
}

// FinalHatchFill is the hatch fill of the current row; the zero value means
// none.
func (c *Core) FinalHatchFill(usePoint, hover bool) graphics.HatchFill {
	normal := c.hatch
	if usePoint {
		if s, ok := hatchStyleOf(c.pointValue("hatchFill")); ok {
			normal = s
		}
	}
	if !hover {
		return c.normalizeHatch(normal)
	}
	if usePoint {
		if s, ok := hatchStyleOf(c.pointValue("hoverHatchFill")); ok {
			return c.normalizeHatch(s)
		}
	}
	if c.hoverHatch.IsSet() {
		return c.normalizeHatch(c.hoverHatch)
	}
	return c.normalizeHatch(normal)
}

// ApplyStyle paints p with the final styles of the current row.
func (c *Core) ApplyStyle(p *graphics.Path, usePoint, hover bool) {
	c.ApplyStyleFrom(p, c.Color(), usePoint, hover)
}

// ApplyStyleFrom paints p resolving function styles against base.
func (c *Core) ApplyStyleFrom(p *graphics.Path, base string, usePoint, hover bool) {
	p.SetFill(c.FillFrom(base, usePoint, hover))
	p.SetStroke(c.StrokeFrom(base, usePoint, hover), c.strokeWidth)
	p.SetHatchFill(c.FinalHatchFill(usePoint, hover))
}

// LegendItem describes one legend entry.
type LegendItem struct {
	Index         int
	Text          string
	IconType      string
	IconFill      string
	IconStroke    string
	IconHatchFill graphics.HatchFill
	Disabled      bool
	SourceUID     string
	Meta          map[string]any
}

// LegendItemData builds the legend entry of the series. iconType is the
// shape's default icon.
func (c *Core) LegendItemData(iconType string) LegendItem {
	saved := c.it
	c.it = nil
	defer func() { c.it = saved }()

	item := LegendItem{
		Index:         c.index,
		Text:          c.DisplayName(),
		IconType:      iconType,
		IconFill:      c.FinalFill(false, false),
		IconStroke:    c.FinalStroke(false, false),
		IconHatchFill: c.FinalHatchFill(false, false),
		Disabled:      !c.enabled,
		SourceUID:     c.uid,
		Meta:          c.meta,
	}
	l := c.legendItem
	if l.text != "" {
		item.Text = l.text
	}
	if l.iconType != "" {
		item.IconType = l.iconType
	}
	if l.iconFill != "" {
		item.IconFill = l.iconFill
	}
	if l.iconStroke != "" {
		item.IconStroke = l.iconStroke
	}
	return item
}

// rowAt is a small helper for labels and tooltips.
func (c *Core) rowAt(i int) data.Row {
	if c.view == nil {
		return nil
	}
	return c.view.Row(i)
}
