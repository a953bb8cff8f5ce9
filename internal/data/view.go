// Package data provides the tabular view and iterator series read their
// rows from.
package data

import (
	"encoding/json"
	"maps"
	"math"
	"strconv"
	"strings"

	"geochart/internal/signal"
)

// Row is one record of a view.
type Row map[string]any

// View is an ordered set of rows. It signals DataChanged and
// NeedsRecalculation whenever its rows are replaced.
type View struct {
	signal.Dispatcher
	rows []Row
	meta []map[string]any
}

// NewView returns a view over rows.
func NewView(rows ...Row) *View {
	v := &View{}
	v.Init(v, signal.NoState, signal.DataChanged|signal.NeedsRecalculation)
	v.rows = rows
	v.meta = make([]map[string]any, len(rows))
	return v
}

// FromAny builds a view from loosely typed input. Numbers become
// {x: index, value: n}, two-element arrays become {x, value} and objects are
// copied as-is.
func FromAny(v any) *View {
	var rows []Row
	switch t := v.(type) {
	case *View:
		return t
	case []Row:
		for _, r := range t {
			rows = append(rows, maps.Clone(r))
		}
	case []map[string]any:
		for _, r := range t {
			rows = append(rows, Row(maps.Clone(r)))
		}
	case []float64:
		for i, f := range t {
			rows = append(rows, Row{"x": float64(i), "value": f})
		}
	case []any:
		for i, el := range t {
			rows = append(rows, normalizeRow(i, el))
		}
	}
	return NewView(rows...)
}

func normalizeRow(i int, el any) Row {
	switch t := el.(type) {
	case map[string]any:
		return Row(maps.Clone(t))
	case Row:
		return maps.Clone(t)
	case []any:
		switch len(t) {
		case 0:
		case 1:
			return Row{"x": float64(i), "value": t[0]}
		default:
			return Row{"x": t[0], "value": t[1]}
		}
	case nil:
	default:
		return Row{"x": float64(i), "value": t}
	}
	return Row{"x": float64(i)}
}

// SetRows replaces the rows and drops all row metadata.
func (v *View) SetRows(rows ...Row) {
	v.rows = rows
	v.meta = make([]map[string]any, len(rows))
	v.DispatchSignal(signal.DataChanged|signal.NeedsRecalculation, false)
}

// Rows returns the rows in order.
func (v *View) Rows() []Row { return v.rows }

// RowsCount returns the number of rows.
func (v *View) RowsCount() int { return len(v.rows) }

// Row returns row i, or nil when out of range.
func (v *View) Row(i int) Row {
	if i < 0 || i >= len(v.rows) {
		return nil
	}
	return v.rows[i]
}

// Iterator returns a cursor positioned before the first row.
func (v *View) Iterator() *Iterator { return &Iterator{view: v, idx: -1} }

// Serialize returns the rows as plain objects.
func (v *View) Serialize() []any {
	out := make([]any, 0, len(v.rows))
	for _, r := range v.rows {
		out = append(out, map[string]any(maps.Clone(r)))
	}
	return out
}

// Iterator walks the rows of a view.
type Iterator struct {
	view *View
	idx  int
}

// Advance moves to the next row and reports whether one exists.
func (it *Iterator) Advance() bool {
	if it.idx+1 >= len(it.view.rows) {
		it.idx = len(it.view.rows)
		return false
	}
	it.idx++
	return true
}

// Reset moves the cursor before the first row.
func (it *Iterator) Reset() *Iterator {
	it.idx = -1
	return it
}

// Select moves the cursor to row i.
func (it *Iterator) Select(i int) bool {
	if i < 0 || i >= len(it.view.rows) {
		return false
	}
	it.idx = i
	return true
}

// Index returns the current row index, -1 before the first Advance.
func (it *Iterator) Index() int { return it.idx }

// RowsCount returns the number of rows of the view.
func (it *Iterator) RowsCount() int { return len(it.view.rows) }

func (it *Iterator) valid() bool { return it.idx >= 0 && it.idx < len(it.view.rows) }

// Get returns a field of the current row, nil when absent.
func (it *Iterator) Get(field string) any {
	if !it.valid() {
		return nil
	}
	return it.view.rows[it.idx][field]
}

// Row returns the current row.
func (it *Iterator) Row() Row {
	if !it.valid() {
		return nil
	}
	return it.view.rows[it.idx]
}

// Meta returns metadata stored on the current row.
func (it *Iterator) Meta(key string) any {
	if !it.valid() {
		return nil
	}
	return it.view.meta[it.idx][key]
}

// SetMeta stores metadata on the current row.
func (it *Iterator) SetMeta(key string, value any) {
	if !it.valid() {
		return
	}
	if it.view.meta[it.idx] == nil {
		it.view.meta[it.idx] = make(map[string]any)
	}
	it.view.meta[it.idx][key] = value
}

// Number converts numeric-looking values. Strings are parsed; everything
// else is not a number.
func Number(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, !math.IsNaN(t)
	case float32:
		return float64(t), !math.IsNaN(float64(t))
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case int32:
		return float64(t), true
	case uint:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil && !math.IsNaN(f)
	}
	return math.NaN(), false
}

// Key normalizes a category value so that 1, int64(1) and 1.0 compare equal.
func Key(v any) any {
	switch v.(type) {
	case int, int32, int64, uint, float32, json.Number:
		if f, ok := Number(v); ok {
			return f
		}
	}
	return v
}
