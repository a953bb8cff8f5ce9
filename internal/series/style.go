package series

import (
	"strings"

	"geochart/internal/data"
	"geochart/internal/graphics"
)

// StyleContext is passed to function-valued styles. SourceColor and
// SourceHatchFill hold the resolved lower-priority value.
type StyleContext struct {
	Index           int
	SourceColor     string
	SourceHatchFill graphics.HatchFill
	Row             data.Row
}

// ColorFunc derives a color from its context.
type ColorFunc func(StyleContext) string

// HatchFunc derives a hatch fill from its context.
type HatchFunc func(StyleContext) graphics.HatchFill

// ColorStyle is a literal color, a function, or unset.
type ColorStyle struct {
	Value string
	Func  ColorFunc
}

// Color returns a literal color style.
func Color(c string) ColorStyle { return ColorStyle{Value: c} }

// ColorFn returns a function-valued color style.
func ColorFn(f ColorFunc) ColorStyle { return ColorStyle{Func: f} }

func (s ColorStyle) IsSet() bool  { return s.Func != nil || s.Value != "" }
func (s ColorStyle) IsFunc() bool { return s.Func != nil }

// colorStyleOf reads a per-point color. Values of any other type are ignored.
func colorStyleOf(v any) (ColorStyle, bool) {
	switch t := v.(type) {
	case string:
		if t == "" {
			return ColorStyle{}, false
		}
		return Color(t), true
	case ColorStyle:
		return t, t.IsSet()
	case ColorFunc:
		return ColorFn(t), t != nil
	case func(StyleContext) string:
		return ColorFn(t), t != nil
	}
	return ColorStyle{}, false
}

type hatchMode uint8

const (
	hatchUnset hatchMode = iota
	hatchOff
	hatchAuto
	hatchValue
	hatchFunc
)

// HatchStyle is a hatch fill setting. The zero value is unset.
type HatchStyle struct {
	mode  hatchMode
	value graphics.HatchFill
	fn    HatchFunc
}

// Hatch returns a literal hatch style.
func Hatch(h graphics.HatchFill) HatchStyle { return HatchStyle{mode: hatchValue, value: h} }

// HatchFn returns a function-valued hatch style.
func HatchFn(f HatchFunc) HatchStyle { return HatchStyle{mode: hatchFunc, fn: f} }

// HatchEnabled returns the auto hatch when on is true and no hatch otherwise.
func HatchEnabled(on bool) HatchStyle {
	if on {
		return HatchStyle{mode: hatchAuto}
	}
	return HatchStyle{mode: hatchOff}
}

func (s HatchStyle) IsSet() bool  { return s.mode != hatchUnset }
func (s HatchStyle) IsFunc() bool { return s.mode == hatchFunc }

// Value returns the literal hatch fill, if any.
func (s HatchStyle) Value() (graphics.HatchFill, bool) {
	return s.value, s.mode == hatchValue
}

// hatchStyleOf reads a per-point or config hatch value: a bool, a type name,
// a map with type/color/thickness/size, a HatchFill or a function.
func hatchStyleOf(v any) (HatchStyle, bool) {
	switch t := v.(type) {
	case bool:
		return HatchEnabled(t), true
	case string:
		if strings.EqualFold(t, graphics.None) {
			return HatchEnabled(false), true
		}
		typ, ok := graphics.ParseHatchType(t)
		if !ok {
			return HatchStyle{}, false
		}
		return Hatch(graphics.NewHatchFill(typ)), true
	case map[string]any:
		name, _ := t["type"].(string)
		typ, ok := graphics.ParseHatchType(name)
		if !ok {
			return HatchStyle{}, false
		}
		h := graphics.NewHatchFill(typ)
		if c, ok := t["color"].(string); ok {
			h.Color = c
		}
		if f, ok := data.Number(t["thickness"]); ok {
			h.Thickness = f
		}
		if f, ok := data.Number(t["size"]); ok {
			h.Size = f
		}
		return Hatch(h), true
	case graphics.HatchFill:
		return Hatch(t), !t.IsZero()
	case HatchStyle:
		return t, t.IsSet()
	case HatchFunc:
		return HatchFn(t), t != nil
	case func(StyleContext) graphics.HatchFill:
		return HatchFn(t), t != nil
	}
	return HatchStyle{}, false
}
