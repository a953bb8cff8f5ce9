package series

import (
	"go.uber.org/zap"

	"geochart/internal/data"
	"geochart/internal/logging"
)

func (c *Core) serializeColor(out map[string]any, key string, s ColorStyle) {
	switch {
	case s.IsFunc():
		logging.Warn(logging.CantSerializeFunction, zap.String("setting", "Series "+key))
	case s.Value != "":
		out[key] = s.Value
	}
}

func (c *Core) serializeHatch(out map[string]any, key string, s HatchStyle) {
	switch s.mode {
	case hatchFunc:
		logging.Warn(logging.CantSerializeFunction, zap.String("setting", "Series "+key))
	case hatchAuto:
		out[key] = true
	case hatchOff:
		out[key] = false
	case hatchValue:
		out[key] = s.value.Serialize()
	}
}

// Serialize returns the plain config tree of the series. Function-valued
// styles are reported and left out.
func (c *Core) Serialize(seriesType string) map[string]any {
	out := map[string]any{
		"seriesType":  seriesType,
		"id":          c.uid,
		"data":        c.view.Serialize(),
		"labels":      c.labels.Serialize(),
		"hoverLabels": c.hoverLabels.Serialize(),
		"tooltip":     c.tooltip.Serialize(),
		"legendItem":  c.legendItem.Serialize(),
		"enabled":     c.enabled,
	}
	if c.color != "" {
		out["color"] = c.color
	}
	if c.named {
		out["name"] = c.name
	}
	if len(c.meta) > 0 {
		out["meta"] = c.meta
	}
	if c.strokeWidth != 1 {
		out["strokeWidth"] = c.strokeWidth
	}
	c.serializeColor(out, "fill", c.fill)
	c.serializeColor(out, "hoverFill", c.hoverFill)
	c.serializeColor(out, "stroke", c.stroke)
	c.serializeColor(out, "hoverStroke", c.hoverStroke)
	c.serializeHatch(out, "hatchFill", c.hatch)
	c.serializeHatch(out, "hoverHatchFill", c.hoverHatch)
	return out
}

// Setup applies a config tree. Signals raised while applying it are
// dispatched once at the end.
func (c *Core) Setup(cfg map[string]any) {
	c.mustLive()
	c.Suspend()
	defer c.Resume(true)

	if v, ok := cfg["id"].(string); ok && v != "" {
		c.uid = v
	}
	for key, set := range map[string]func(ColorStyle){
		"fill":        c.SetFill,
		"hoverFill":   c.SetHoverFill,
		"stroke":      c.SetStroke,
		"hoverStroke": c.SetHoverStroke,
	} {
		v, ok := cfg[key]
		if !ok {
			continue
		}
		if s, ok := colorStyleOf(v); ok {
			set(s)
		} else {
			logging.Warn(logging.SetupInvalid, zap.String("setting", key), zap.Any("value", v))
		}
	}
	if v, ok := cfg["hatchFill"]; ok {
		if s, ok := hatchStyleOf(v); ok {
			c.SetHatchFill(s)
		}
	}
	if v, ok := cfg["hoverHatchFill"]; ok {
		if s, ok := hatchStyleOf(v); ok {
			c.SetHoverHatchFill(s)
		}
	}
	if v, ok := cfg["strokeWidth"]; ok {
		if w, ok := data.Number(v); ok {
			c.SetStrokeWidth(w)
		} else {
			logging.Warn(logging.SetupInvalid, zap.String("setting", "strokeWidth"), zap.Any("value", v))
		}
	}
	if v, ok := cfg["color"].(string); ok {
		c.SetColor(v)
	}
	if v, ok := cfg["name"].(string); ok {
		c.SetName(v)
	}
	if m, ok := cfg["meta"].(map[string]any); ok {
		for k, v := range m {
			c.SetMeta(k, v)
		}
	}
	if v, ok := cfg["data"]; ok {
		c.SetData(v)
	}
	if v, ok := cfg["labels"]; ok {
		c.labels.Setup(v)
	}
	if v, ok := cfg["hoverLabels"]; ok {
		c.hoverLabels.Setup(v)
	}
	if v, ok := cfg["tooltip"]; ok {
		c.tooltip.Setup(v)
	}
	if v, ok := cfg["legendItem"]; ok {
		c.legendItem.Setup(v)
	}
	if v, ok := cfg["enabled"].(bool); ok {
		c.SetEnabled(v)
	}
}
