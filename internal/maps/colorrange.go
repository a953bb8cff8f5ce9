package maps

import (
	"fmt"
	"math"

	"geochart/internal/data"
	"geochart/internal/graphics"
	"geochart/internal/scale"
	"geochart/internal/signal"
)

// Orientation places the color range strip.
type Orientation string

const (
	Bottom Orientation = "bottom"
	Top    Orientation = "top"
)

const linearSteps = 32

// ColorRange draws the color scale of its target series as a strip along
// the top or bottom of the map, with a marker at the hovered value.
type ColorRange struct {
	signal.Dispatcher

	enabled       bool
	orientation   Orientation
	length        float64
	colorLineSize float64
	padding       float64
	markerEnabled bool

	target Series
	strip  graphics.Rect
	layer  *graphics.Layer
	marker *graphics.Path
}

func NewColorRange() *ColorRange {
	c := &ColorRange{
		orientation:   Bottom,
		length:        0.5,
		colorLineSize: 10,
		padding:       10,
		markerEnabled: true,
		layer:         graphics.NewLayer(),
		marker:        graphics.NewPath(),
	}
	c.Init(c, signal.NoState, signal.NeedsRedraw|signal.BoundsChanged)
	c.layer.SetZIndex(20)
	return c
}

func (c *ColorRange) Enabled() bool            { return c.enabled }
func (c *ColorRange) Orientation() Orientation { return c.orientation }
func (c *ColorRange) Length() float64          { return c.length }
func (c *ColorRange) ColorLineSize() float64   { return c.colorLineSize }
func (c *ColorRange) Padding() float64         { return c.padding }
func (c *ColorRange) Target() Series           { return c.target }
func (c *ColorRange) Layer() *graphics.Layer   { return c.layer }
func (c *ColorRange) Marker() *graphics.Path   { return c.marker }

func (c *ColorRange) changed() { c.DispatchSignal(signal.NeedsRedraw|signal.BoundsChanged, false) }

func (c *ColorRange) SetEnabled(v bool) {
	if v != c.enabled {
		c.enabled = v
		c.changed()
	}
}

// SetOrientation accepts bottom or top; anything else is ignored.
func (c *ColorRange) SetOrientation(o Orientation) {
	if (o == Bottom || o == Top) && o != c.orientation {
		c.orientation = o
		c.changed()
	}
}

// SetLength sets the strip length as a ratio of the map width.
func (c *ColorRange) SetLength(v float64) {
	v = math.Min(math.Max(v, 0), 1)
	if v != c.length {
		c.length = v
		c.changed()
	}
}

func (c *ColorRange) SetColorLineSize(v float64) {
	if v >= 0 && v != c.colorLineSize {
		c.colorLineSize = v
		c.changed()
	}
}

func (c *ColorRange) SetPadding(v float64) {
	if v >= 0 && v != c.padding {
		c.padding = v
		c.changed()
	}
}

func (c *ColorRange) SetMarkerEnabled(v bool) {
	if v != c.markerEnabled {
		c.markerEnabled = v
		c.DispatchSignal(signal.NeedsRedraw, false)
	}
}

// SetTarget picks the series whose color scale is drawn.
func (c *ColorRange) SetTarget(s Series) {
	if s != c.target {
		c.target = s
		c.DispatchSignal(signal.NeedsRedraw, false)
	}
}

func (c *ColorRange) scale() scale.Color {
	if c.target == nil {
		return nil
	}
	return c.target.ColorScale()
}

func (c *ColorRange) active() bool { return c.enabled && c.scale() != nil }

// ReserveBounds cuts the strip off bounds and returns what is left for the
// map.
func (c *ColorRange) ReserveBounds(b graphics.Rect) graphics.Rect {
	if !c.active() {
		c.strip = graphics.Rect{}
		return b
	}
	h := c.colorLineSize + 2*c.padding
	if h > b.Height {
		h = b.Height
	}
	w := b.Width * c.length
	c.strip = graphics.Rect{Left: b.Left + (b.Width-w)/2, Width: w, Height: c.colorLineSize}
	rest := b
	rest.Height -= h
	if c.orientation == Top {
		c.strip.Top = b.Top + c.padding
		rest.Top += h
	} else {
		c.strip.Top = b.Bottom() - h + c.padding
	}
	return rest
}

// Strip returns the rectangle of the color line.
func (c *ColorRange) Strip() graphics.Rect { return c.strip }

func box(p *graphics.Path, r graphics.Rect) {
	p.MoveTo(r.Left, r.Top).LineTo(r.Right(), r.Top).LineTo(r.Right(), r.Bottom()).LineTo(r.Left, r.Bottom()).Close()
}

// Draw renders the strip under parent.
func (c *ColorRange) Draw(parent *graphics.Layer) {
	c.layer.SetParent(parent)
	c.layer.RemoveChildren()
	c.marker.SetVisible(false)
	if !c.active() || c.strip.Empty() {
		return
	}
	switch cs := c.scale().(type) {
	case *scale.OrdinalColor:
		ranges := cs.ProcessedRanges()
		if len(ranges) == 0 {
			break
		}
		w := c.strip.Width / float64(len(ranges))
		for i, r := range ranges {
			cell := graphics.Rect{Left: c.strip.Left + float64(i)*w, Top: c.strip.Top, Width: w, Height: c.strip.Height}
			c.cell(cell, r.Color)
			c.label(cell.Left+w/2, r.Name)
		}
	default:
		lo, hi := math.NaN(), math.NaN()
		if lc, ok := cs.(*scale.LinearColor); ok {
			lo, hi = lc.Range()
		}
		w := c.strip.Width / linearSteps
		for i := 0; i < linearSteps; i++ {
			t := (float64(i) + 0.5) / linearSteps
			cell := graphics.Rect{Left: c.strip.Left + float64(i)*w, Top: c.strip.Top, Width: w, Height: c.strip.Height}
			c.cell(cell, cs.ValueToColor(lo+t*(hi-lo)))
		}
		if !math.IsNaN(lo) {
			c.label(c.strip.Left, fmt.Sprintf("%g", lo))
			c.label(c.strip.Right(), fmt.Sprintf("%g", hi))
		}
	}
	c.marker.SetParent(c.layer)
}

func (c *ColorRange) cell(r graphics.Rect, color string) {
	p := graphics.NewPath()
	box(p, r)
	p.SetFill(color)
	p.SetStroke(graphics.None, 0)
	p.SetParent(c.layer)
}

func (c *ColorRange) label(x float64, s string) {
	y := c.strip.Bottom() + c.padding/2
	if c.orientation == Top {
		y = c.strip.Top - c.padding/2
	}
	t := graphics.NewText(x, y, s)
	t.Color = "#404040"
	t.SetParent(c.layer)
}

// ShowMarker points at value on the strip. Values the scale cannot place
// hide the marker.
func (c *ColorRange) ShowMarker(value any) {
	if !c.active() || !c.markerEnabled || c.strip.Empty() {
		c.HideMarker()
		return
	}
	var ratio float64
	switch cs := c.scale().(type) {
	case *scale.OrdinalColor:
		ratio = cs.Transform(value, 0.5)
	default:
		ratio = cs.Transform(value, 0)
	}
	if math.IsNaN(ratio) {
		c.HideMarker()
		return
	}
	x := c.strip.Left + math.Min(math.Max(ratio, 0), 1)*c.strip.Width
	const h = 5.0
	c.marker.Clear()
	if c.orientation == Top {
		y := c.strip.Bottom()
		c.marker.MoveTo(x, y).LineTo(x+h, y+h).LineTo(x-h, y+h).Close()
	} else {
		y := c.strip.Top
		c.marker.MoveTo(x, y).LineTo(x+h, y-h).LineTo(x-h, y-h).Close()
	}
	c.marker.SetFill("#404040")
	c.marker.SetStroke(graphics.None, 0)
	c.marker.SetVisible(true)
}

func (c *ColorRange) HideMarker() { c.marker.SetVisible(false) }

// MarkerVisible reports whether the marker is shown.
func (c *ColorRange) MarkerVisible() bool { return c.marker.Visible() }

func (c *ColorRange) Serialize() map[string]any {
	return map[string]any{
		"enabled":       c.enabled,
		"orientation":   string(c.orientation),
		"length":        c.length,
		"colorLineSize": c.colorLineSize,
		"padding":       c.padding,
		"marker":        map[string]any{"enabled": c.markerEnabled},
	}
}

// Setup accepts a bool toggling the range or an object of settings.
func (c *ColorRange) Setup(cfg any) {
	c.Suspend()
	defer c.Resume(true)
	switch t := cfg.(type) {
	case bool:
		c.SetEnabled(t)
	case map[string]any:
		if v, ok := t["enabled"].(bool); ok {
			c.SetEnabled(v)
		}
		if v, ok := t["orientation"].(string); ok {
			c.SetOrientation(Orientation(v))
		}
		if v, ok := data.Number(t["length"]); ok {
			c.SetLength(v)
		}
		if v, ok := data.Number(t["colorLineSize"]); ok {
			c.SetColorLineSize(v)
		}
		if v, ok := data.Number(t["padding"]); ok {
			c.SetPadding(v)
		}
		switch m := t["marker"].(type) {
		case bool:
			c.SetMarkerEnabled(m)
		case map[string]any:
			if v, ok := m["enabled"].(bool); ok {
				c.SetMarkerEnabled(v)
			}
		}
	}
}
