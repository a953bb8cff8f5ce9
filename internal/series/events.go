package series

import (
	"geochart/internal/graphics"
)

// PointEventType names a series-level pointer event.
type PointEventType string

const (
	PointMouseOver PointEventType = "pointmouseover"
	PointMouseOut  PointEventType = "pointmouseout"
	PointClick     PointEventType = "pointclick"
	PointDblClick  PointEventType = "pointdblclick"
)

// PointEvent is dispatched before a series reacts to the pointer. Index is
// -1 when the element stands for the whole series.
type PointEvent struct {
	Type      PointEventType
	Series    any
	Index     int
	Original  graphics.Event
	prevented bool
}

// PreventDefault cancels the series' own reaction.
func (e *PointEvent) PreventDefault() { e.prevented = true }

func (e *PointEvent) DefaultPrevented() bool { return e.prevented }

// OnPointEvent registers fn for every point event.
func (c *Core) OnPointEvent(fn func(*PointEvent)) { c.handlers = append(c.handlers, fn) }

// dispatchPoint returns false when a handler cancelled the event.
func (c *Core) dispatchPoint(typ PointEventType, tag *graphics.Tag, ev graphics.Event) bool {
	pe := &PointEvent{Type: typ, Series: c.self, Index: -1, Original: ev}
	if tag != nil && !tag.Global {
		pe.Index = tag.Index
	}
	for _, h := range c.handlers {
		h(pe)
	}
	return !pe.prevented
}

// HandlePointerOver resolves the tag and highlights the point or series.
func (c *Core) HandlePointerOver(tag *graphics.Tag, ev graphics.Event) {
	if !c.dispatchPoint(PointMouseOver, tag, ev) || c.highlight == nil {
		return
	}
	switch {
	case tag == nil:
		c.highlight.Unhover()
	case tag.Global:
		c.highlight.HoverSeries()
	case tag.Index >= 0:
		c.highlight.HoverPoint(tag.Index)
	default:
		c.highlight.Unhover()
	}
}

// HandlePointerOut removes the highlight.
func (c *Core) HandlePointerOut(tag *graphics.Tag, ev graphics.Event) {
	if c.dispatchPoint(PointMouseOut, tag, ev) && c.highlight != nil {
		c.highlight.Unhover()
	}
}

func (c *Core) HandleClick(tag *graphics.Tag, ev graphics.Event) {
	c.dispatchPoint(PointClick, tag, ev)
}

func (c *Core) HandleDoubleClick(tag *graphics.Tag, ev graphics.Event) {
	c.dispatchPoint(PointDblClick, tag, ev)
}

// tagOf returns the tag of a tagged element.
func tagOf(e graphics.Element) *graphics.Tag {
	if t, ok := e.(interface{ Tag() *graphics.Tag }); ok {
		return t.Tag()
	}
	return nil
}

// MakeHoverable tags p with the current row index, or as series-wide when
// global is set, and routes its pointer events to the series.
func (c *Core) MakeHoverable(p *graphics.Path, global bool) {
	tag := &graphics.Tag{Series: c.self, Index: -1, Global: global}
	if !global {
		tag.Index = c.Iterator().Index()
	}
	p.SetTag(tag)
	p.Listen(graphics.MouseOver, func(ev graphics.Event) { c.HandlePointerOver(tagOf(ev.Target), ev) })
	p.Listen(graphics.MouseMove, func(ev graphics.Event) {
		if t := tagOf(ev.Target); t != nil && !t.Global && t.Index >= 0 && c.highlight != nil {
			if c.dispatchPoint(PointMouseOver, t, ev) {
				c.highlight.HoverPoint(t.Index)
			}
		}
	})
	p.Listen(graphics.MouseOut, func(ev graphics.Event) { c.HandlePointerOut(tagOf(ev.Target), ev) })
	p.Listen(graphics.MouseClick, func(ev graphics.Event) { c.HandleClick(tagOf(ev.Target), ev) })
	p.Listen(graphics.DblClick, func(ev graphics.Event) { c.HandleDoubleClick(tagOf(ev.Target), ev) })
}

// TooltipContent returns the tooltip title and body for point i.
func (c *Core) TooltipContent(i int) (string, string, bool) {
	row := c.rowAt(i)
	if row == nil || !c.tooltip.Enabled() {
		return "", "", false
	}
	title, body := c.tooltip.Content(i, row, c.DisplayName())
	return title, body, true
}
