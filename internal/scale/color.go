package scale

import (
	"fmt"
	"math"

	"geochart/internal/data"
	"geochart/internal/palette"
	"geochart/internal/signal"
)

// DefaultColorStops are the end colors of a linear color scale.
var DefaultColorStops = []string{"#fff9c4", "#ff9800", "#b71c1c"}

// Color is a scale resolving values to colors.
type Color interface {
	Scale
	AutoCalc
	ValueToColor(v any) string
}

// LinearColor blends its colors across the value range.
type LinearColor struct {
	signal.Dispatcher

	colors []string
	linear *Linear
}

func NewLinearColor(colors ...string) *LinearColor {
	s := &LinearColor{linear: NewLinear()}
	s.Dispatcher = newDispatcher(s)
	s.setColors(colors)
	return s
}

func (s *LinearColor) setColors(colors []string) {
	if len(colors) == 0 {
		colors = DefaultColorStops
	}
	s.colors = append([]string(nil), colors...)
}

func (s *LinearColor) Type() string { return "linearcolor" }

func (s *LinearColor) Colors() []string { return s.colors }

func (s *LinearColor) SetColors(colors ...string) {
	s.setColors(colors)
	s.DispatchSignal(signal.NeedsReapplication, false)
}

// Range returns the effective value range.
func (s *LinearColor) Range() (float64, float64) { return s.linear.Range() }

func (s *LinearColor) SetMinimum(v float64) {
	s.linear.SetMinimum(v)
	s.DispatchSignal(signal.NeedsRecalculation, false)
}

func (s *LinearColor) SetMaximum(v float64) {
	s.linear.SetMaximum(v)
	s.DispatchSignal(signal.NeedsRecalculation, false)
}

func (s *LinearColor) StartAutoCalc()                { s.linear.StartAutoCalc() }
func (s *LinearColor) ExtendDataRange(values ...any) { s.linear.ExtendDataRange(values...) }
func (s *LinearColor) FinishAutoCalc() bool          { return s.linear.FinishAutoCalc() }

func (s *LinearColor) IsMissing(v any) bool { return isMissing(v) }

func (s *LinearColor) Transform(v any, bias float64) float64 {
	return s.linear.Transform(v, bias)
}

// ValueToColor returns "" for missing values.
func (s *LinearColor) ValueToColor(v any) string {
	r := s.Transform(v, 0)
	if math.IsNaN(r) {
		return ""
	}
	return palette.Interpolate(s.colors, clamp01(r))
}

func (s *LinearColor) Serialize() map[string]any {
	out := map[string]any{
		"type":   s.Type(),
		"colors": stringsToAny(s.colors),
	}
	if !math.IsNaN(s.linear.min) {
		out["minimum"] = s.linear.min
	}
	if !math.IsNaN(s.linear.max) {
		out["maximum"] = s.linear.max
	}
	return out
}

func (s *LinearColor) Setup(cfg map[string]any) {
	s.Suspend()
	defer s.Resume(true)
	if v := anyToStrings(cfg["colors"]); v != nil {
		s.SetColors(v...)
	}
	if v, ok := cfg["minimum"]; ok {
		s.SetMinimum(num(v, math.NaN()))
	}
	if v, ok := cfg["maximum"]; ok {
		s.SetMaximum(num(v, math.NaN()))
	}
}

// Range is one bucket of an ordinal color scale. From and To are inclusive
// and NaN when open; Equal, when set, matches a single value.
type Range struct {
	From  float64
	To    float64
	Equal any
	Name  string
	Color string
}

// Contains reports whether v falls into the range.
func (r Range) Contains(v any) bool {
	if r.Equal != nil {
		return data.Key(v) == data.Key(r.Equal)
	}
	f, ok := data.Number(v)
	if !ok {
		return false
	}
	return (math.IsNaN(r.From) || f >= r.From) && (math.IsNaN(r.To) || f <= r.To)
}

func (r Range) label() string {
	switch {
	case r.Name != "":
		return r.Name
	case r.Equal != nil:
		return fmt.Sprintf("Equal to %v", r.Equal)
	case math.IsNaN(r.From) && math.IsNaN(r.To):
		return "All"
	case math.IsNaN(r.From):
		return fmt.Sprintf("Less than %g", r.To)
	case math.IsNaN(r.To):
		return fmt.Sprintf("More than %g", r.From)
	}
	return fmt.Sprintf("%g - %g", r.From, r.To)
}

// OrdinalColor assigns colors by range membership.
type OrdinalColor struct {
	signal.Dispatcher

	ranges []Range
	colors []string
}

func NewOrdinalColor(ranges ...Range) *OrdinalColor {
	s := &OrdinalColor{ranges: ranges}
	s.Dispatcher = newDispatcher(s)
	return s
}

func (s *OrdinalColor) Type() string { return "ordinalcolor" }

func (s *OrdinalColor) Ranges() []Range { return s.ranges }

func (s *OrdinalColor) SetRanges(ranges ...Range) {
	s.ranges = ranges
	s.DispatchSignal(signal.NeedsReapplication, false)
}

// SetColors sets the colors used by ranges without their own color. Missing
// entries are filled from a range palette.
func (s *OrdinalColor) SetColors(colors ...string) {
	s.colors = colors
	s.DispatchSignal(signal.NeedsReapplication, false)
}

func (s *OrdinalColor) StartAutoCalc()            {}
func (s *OrdinalColor) ExtendDataRange(...any)    {}
func (s *OrdinalColor) FinishAutoCalc() bool { return false }
func (s *OrdinalColor) IsMissing(v any) bool { return s.RangeIndex(v) < 0 }

// RangeIndex returns the first range containing v, or -1.
func (s *OrdinalColor) RangeIndex(v any) int {
	if v == nil {
		return -1
	}
	for i, r := range s.ranges {
		if r.Contains(v) {
			return i
		}
	}
	return -1
}

// RangeByValue returns the processed range containing v.
func (s *OrdinalColor) RangeByValue(v any) (Range, bool) {
	i := s.RangeIndex(v)
	if i < 0 {
		return Range{}, false
	}
	return s.ProcessedRanges()[i], true
}

// Transform returns (rangeIndex + bias) / rangeCount.
func (s *OrdinalColor) Transform(v any, bias float64) float64 {
	i := s.RangeIndex(v)
	if i < 0 {
		return math.NaN()
	}
	return (float64(i) + bias) / float64(len(s.ranges))
}

// ProcessedRanges returns the ranges with names and colors filled in.
func (s *OrdinalColor) ProcessedRanges() []Range {
	out := make([]Range, len(s.ranges))
	fallback := palette.NewRange(len(s.ranges), DefaultColorStops...)
	for i, r := range s.ranges {
		if r.Color == "" {
			if i < len(s.colors) && s.colors[i] != "" {
				r.Color = s.colors[i]
			} else {
				r.Color = fallback.ColorAt(i)
			}
		}
		r.Name = r.label()
		out[i] = r
	}
	return out
}

func (s *OrdinalColor) ValueToColor(v any) string {
	r, ok := s.RangeByValue(v)
	if !ok {
		return ""
	}
	return r.Color
}

func (s *OrdinalColor) Serialize() map[string]any {
	ranges := make([]any, 0, len(s.ranges))
	for _, r := range s.ranges {
		m := map[string]any{}
		if !math.IsNaN(r.From) {
			m["from"] = r.From
		}
		if !math.IsNaN(r.To) {
			m["to"] = r.To
		}
		if r.Equal != nil {
			m["equal"] = r.Equal
		}
		if r.Name != "" {
			m["name"] = r.Name
		}
		if r.Color != "" {
			m["color"] = r.Color
		}
		ranges = append(ranges, m)
	}
	out := map[string]any{"type": s.Type(), "ranges": ranges}
	if len(s.colors) > 0 {
		out["colors"] = stringsToAny(s.colors)
	}
	return out
}

func (s *OrdinalColor) Setup(cfg map[string]any) {
	s.Suspend()
	defer s.Resume(true)
	if v := anyToStrings(cfg["colors"]); v != nil {
		s.SetColors(v...)
	}
	list, ok := cfg["ranges"].([]any)
	if !ok {
		return
	}
	ranges := make([]Range, 0, len(list))
	for _, el := range list {
		m, ok := el.(map[string]any)
		if !ok {
			continue
		}
		r := Range{From: num(m["from"], math.NaN()), To: num(m["to"], math.NaN()), Equal: m["equal"]}
		r.Name, _ = m["name"].(string)
		r.Color, _ = m["color"].(string)
		ranges = append(ranges, r)
	}
	s.SetRanges(ranges...)
}

func stringsToAny(s []string) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}

func anyToStrings(v any) []string {
	switch t := v.(type) {
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, el := range t {
			if s, ok := el.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
