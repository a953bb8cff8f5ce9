package scale

import (
	"math"
	"sort"

	"geochart/internal/data"
	"geochart/internal/signal"
)

// Linear is a continuous scale with an auto-calculated range and optional
// value stacking.
type Linear struct {
	signal.Dispatcher

	dataMin, dataMax float64
	min, max         float64
	inverted         bool
	stackMode        StackMode
	stacks           map[any]*stack
}

type stack struct {
	vals map[int]float64
}

// NewLinear returns an unstacked scale over [0,1].
func NewLinear() *Linear {
	s := &Linear{
		dataMin:   0,
		dataMax:   1,
		min:       math.NaN(),
		max:       math.NaN(),
		stackMode: StackNone,
	}
	s.Dispatcher = newDispatcher(s)
	return s
}

func (s *Linear) Type() string { return "linear" }

// Range returns the effective minimum and maximum.
func (s *Linear) Range() (float64, float64) {
	lo, hi := s.dataMin, s.dataMax
	if !math.IsNaN(s.min) {
		lo = s.min
	}
	if !math.IsNaN(s.max) {
		hi = s.max
	}
	return lo, hi
}

// SetMinimum fixes the minimum; NaN restores auto.
func (s *Linear) SetMinimum(v float64) {
	if v == s.min || (math.IsNaN(v) && math.IsNaN(s.min)) {
		return
	}
	s.min = v
	s.DispatchSignal(signal.NeedsRecalculation, false)
}

// SetMaximum fixes the maximum; NaN restores auto.
func (s *Linear) SetMaximum(v float64) {
	if v == s.max || (math.IsNaN(v) && math.IsNaN(s.max)) {
		return
	}
	s.max = v
	s.DispatchSignal(signal.NeedsRecalculation, false)
}

// SetInverted flips the output ratio.
func (s *Linear) SetInverted(v bool) {
	if v == s.inverted {
		return
	}
	s.inverted = v
	s.DispatchSignal(signal.NeedsReapplication, false)
}

// StartAutoCalc begins a new data range.
func (s *Linear) StartAutoCalc() {
	s.dataMin, s.dataMax = math.Inf(1), math.Inf(-1)
}

// ExtendDataRange widens the data range with every numeric value.
func (s *Linear) ExtendDataRange(values ...any) {
	for _, v := range values {
		if f, ok := data.Number(v); ok {
			s.dataMin = math.Min(s.dataMin, f)
			s.dataMax = math.Max(s.dataMax, f)
		}
	}
}

// FinishAutoCalc closes the range and reports whether it changed. An empty
// range becomes [0,1]; a single value is widened by 0.5 either side.
func (s *Linear) FinishAutoCalc() bool {
	if math.IsInf(s.dataMin, 1) {
		s.dataMin, s.dataMax = 0, 1
	} else if s.dataMin == s.dataMax {
		s.dataMin -= 0.5
		s.dataMax += 0.5
	}
	return true
}

func (s *Linear) IsMissing(v any) bool { return isMissing(v) }

// Transform returns (v-min)/(max-min). bias does not apply to continuous
// scales. Missing values give NaN.
func (s *Linear) Transform(v any, _ float64) float64 {
	f, ok := data.Number(v)
	if !ok {
		return math.NaN()
	}
	lo, hi := s.Range()
	if hi == lo {
		return 0.5
	}
	r := (f - lo) / (hi - lo)
	if s.inverted {
		r = 1 - r
	}
	return r
}

// Inverse maps a ratio back to a value.
func (s *Linear) Inverse(r float64) float64 {
	if s.inverted {
		r = 1 - r
	}
	lo, hi := s.Range()
	return lo + r*(hi-lo)
}

func (s *Linear) StackMode() StackMode { return s.stackMode }

// SetStackMode switches stacking; the range has to be recalculated.
func (s *Linear) SetStackMode(m StackMode) {
	if m == "" {
		m = StackNone
	}
	if m == s.stackMode {
		return
	}
	s.stackMode = m
	s.ResetStacks()
	s.DispatchSignal(signal.NeedsRecalculation, false)
}

// ResetStacks forgets every accumulated value.
func (s *Linear) ResetStacks() { s.stacks = nil }

func (s *Linear) stackFor(category any) *stack {
	key := data.Key(category)
	if s.stacks == nil {
		s.stacks = make(map[any]*stack)
	}
	st, ok := s.stacks[key]
	if !ok {
		st = &stack{vals: make(map[int]float64)}
		s.stacks[key] = st
	}
	return st
}

// PrevValue sums the contributions of lower-indexed series on the same side
// of zero as v. A NaN v counts as positive.
func (s *Linear) PrevValue(category any, series int, v float64) float64 {
	if s.stackMode == StackNone {
		return 0
	}
	st := s.stackFor(category)
	negative := v < 0
	idx := make([]int, 0, len(st.vals))
	for i := range st.vals {
		if i < series {
			idx = append(idx, i)
		}
	}
	sort.Ints(idx)
	sum := 0.0
	for _, i := range idx {
		c := st.vals[i]
		if math.IsNaN(c) || (c < 0) != negative {
			continue
		}
		sum += c
	}
	return sum
}

// ApplyStacking records v as the contribution of series to category and
// returns the stacked value. A NaN contribution is recorded as a gap and
// stays NaN.
func (s *Linear) ApplyStacking(category any, series int, v float64) float64 {
	if s.stackMode == StackNone {
		return v
	}
	s.stackFor(category).vals[series] = v
	if math.IsNaN(v) {
		return math.NaN()
	}
	return s.PrevValue(category, series, v) + v
}

func (s *Linear) Serialize() map[string]any {
	out := map[string]any{
		"type":      s.Type(),
		"inverted":  s.inverted,
		"stackMode": string(s.stackMode),
	}
	if !math.IsNaN(s.min) {
		out["minimum"] = s.min
	}
	if !math.IsNaN(s.max) {
		out["maximum"] = s.max
	}
	return out
}

func (s *Linear) Setup(cfg map[string]any) {
	s.Suspend()
	defer s.Resume(true)
	if v, ok := cfg["minimum"]; ok {
		s.SetMinimum(num(v, math.NaN()))
	}
	if v, ok := cfg["maximum"]; ok {
		s.SetMaximum(num(v, math.NaN()))
	}
	if v, ok := cfg["inverted"].(bool); ok {
		s.SetInverted(v)
	}
	if v, ok := cfg["stackMode"].(string); ok {
		s.SetStackMode(ParseStackMode(v))
	}
}
