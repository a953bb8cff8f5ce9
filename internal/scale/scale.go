// Package scale maps domain values to ratios and projected coordinates.
package scale

import (
	"math"
	"strings"

	"geochart/internal/data"
	"geochart/internal/signal"
)

// Scale maps a domain value to a ratio, nominally in [0,1].
type Scale interface {
	signal.Emitter
	Type() string
	Transform(v any, bias float64) float64
	IsMissing(v any) bool
	Serialize() map[string]any
}

// StackMode selects how stacked series accumulate.
type StackMode string

const (
	StackNone  StackMode = "none"
	StackValue StackMode = "value"
)

// ParseStackMode is case-insensitive; unknown names mean StackNone.
func ParseStackMode(s string) StackMode {
	if strings.EqualFold(s, string(StackValue)) {
		return StackValue
	}
	return StackNone
}

// Stacking is implemented by scales that can accumulate series values per
// category. Accumulation is keyed by (category, series) so feeding the same
// row twice gives the same result.
type Stacking interface {
	StackMode() StackMode
	ApplyStacking(category any, series int, v float64) float64
	PrevValue(category any, series int, v float64) float64
	ResetStacks()
}

// AutoCalc is implemented by scales whose range comes from data.
type AutoCalc interface {
	StartAutoCalc()
	ExtendDataRange(values ...any)
	FinishAutoCalc() bool
}

func newDispatcher(target any) signal.Dispatcher {
	var d signal.Dispatcher
	d.Init(target, signal.NoState, signal.NeedsRecalculation|signal.NeedsReapplication)
	return d
}

func isMissing(v any) bool {
	_, ok := data.Number(v)
	return !ok
}

func clamp01(v float64) float64 { return math.Min(math.Max(v, 0), 1) }

// New creates a scale by type name: "linear", "ordinal", "geo",
// "linearcolor" or "ordinalcolor". Unknown names return nil.
func New(typ string) Scale {
	switch strings.ToLower(typ) {
	case "linear":
		return NewLinear()
	case "ordinal":
		return NewOrdinal()
	case "geo":
		return NewGeo()
	case "linearcolor":
		return NewLinearColor()
	case "ordinalcolor":
		return NewOrdinalColor()
	}
	return nil
}

func num(v any, def float64) float64 {
	if f, ok := data.Number(v); ok {
		return f
	}
	return def
}
