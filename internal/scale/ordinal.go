package scale

import (
	"math"

	"geochart/internal/data"
	"geochart/internal/signal"
)

// Ordinal maps categories to evenly spaced ratios.
type Ordinal struct {
	signal.Dispatcher

	values   []any
	index    map[any]int
	explicit bool
}

func NewOrdinal() *Ordinal {
	s := &Ordinal{index: map[any]int{}}
	s.Dispatcher = newDispatcher(s)
	return s
}

func (s *Ordinal) Type() string { return "ordinal" }

// Values returns the categories in order.
func (s *Ordinal) Values() []any { return s.values }

// Count returns the number of categories.
func (s *Ordinal) Count() int { return len(s.values) }

// SetValues fixes the categories. nil restores auto collection.
func (s *Ordinal) SetValues(values ...any) {
	s.explicit = len(values) > 0
	s.reset()
	s.add(values...)
	s.DispatchSignal(signal.NeedsReapplication, false)
}

func (s *Ordinal) reset() {
	s.values = nil
	s.index = map[any]int{}
}

func (s *Ordinal) add(values ...any) {
	for _, v := range values {
		if v == nil {
			continue
		}
		k := data.Key(v)
		if _, ok := s.index[k]; ok {
			continue
		}
		s.index[k] = len(s.values)
		s.values = append(s.values, k)
	}
}

func (s *Ordinal) StartAutoCalc() {
	if !s.explicit {
		s.reset()
	}
}

func (s *Ordinal) ExtendDataRange(values ...any) {
	if !s.explicit {
		s.add(values...)
	}
}

func (s *Ordinal) FinishAutoCalc() bool { return true }

// IndexOf returns the position of a category, or -1.
func (s *Ordinal) IndexOf(v any) int {
	if v == nil {
		return -1
	}
	if i, ok := s.index[data.Key(v)]; ok {
		return i
	}
	return -1
}

func (s *Ordinal) IsMissing(v any) bool { return s.IndexOf(v) < 0 }

// Transform returns (index+bias)/count, NaN for unknown categories.
func (s *Ordinal) Transform(v any, bias float64) float64 {
	i := s.IndexOf(v)
	if i < 0 || len(s.values) == 0 {
		return math.NaN()
	}
	return (float64(i) + bias) / float64(len(s.values))
}

func (s *Ordinal) Serialize() map[string]any {
	out := map[string]any{"type": s.Type()}
	if s.explicit {
		out["values"] = append([]any(nil), s.values...)
	}
	return out
}

func (s *Ordinal) Setup(cfg map[string]any) {
	if v, ok := cfg["values"].([]any); ok {
		s.SetValues(v...)
	}
}
