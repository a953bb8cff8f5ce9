package data

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"geochart/internal/signal"
)

func TestFromAny_Shapes(t *testing.T) {
	v := FromAny([]any{
		3.0,
		[]any{"b", 4.0},
		map[string]any{"x": "c", "value": 5.0, "fill": "red"},
		nil,
		[]any{7.0},
	})
	require.Equal(t, 5, v.RowsCount())
	assert.Equal(t, Row{"x": 0.0, "value": 3.0}, v.Row(0))
	assert.Equal(t, Row{"x": "b", "value": 4.0}, v.Row(1))
	assert.Equal(t, "red", v.Row(2)["fill"])
	assert.Equal(t, Row{"x": 3.0}, v.Row(3))
	assert.Equal(t, Row{"x": 4.0, "value": 7.0}, v.Row(4))
	assert.Nil(t, v.Row(9))

	assert.Equal(t, 2, FromAny([]float64{1, 2}).RowsCount())
	same := NewView()
	assert.Same(t, same, FromAny(same))
}

func TestIterator_Walk(t *testing.T) {
	v := NewView(Row{"value": 1.0}, Row{"value": 2.0})
	it := v.Iterator()
	assert.Equal(t, -1, it.Index())
	assert.Nil(t, it.Get("value"))

	var got []any
	for it.Advance() {
		got = append(got, it.Get("value"))
	}
	assert.Equal(t, []any{1.0, 2.0}, got)
	assert.False(t, it.Advance())

	it.Reset()
	require.True(t, it.Advance())
	assert.Equal(t, 0, it.Index())
	assert.True(t, it.Select(1))
	assert.Equal(t, 2.0, it.Get("value"))
	assert.False(t, it.Select(5))
	assert.Nil(t, it.Get("missing"))
}

func TestIterator_MetaSurvivesReset(t *testing.T) {
	v := NewView(Row{"value": 1.0}, Row{"value": 2.0})
	it := v.Iterator()
	it.Select(1)
	it.SetMeta("missing", true)

	other := v.Iterator()
	other.Select(1)
	assert.Equal(t, true, other.Meta("missing"))
	other.Select(0)
	assert.Nil(t, other.Meta("missing"))

	v.SetRows(Row{"value": 3.0}, Row{"value": 4.0})
	other.Select(1)
	assert.Nil(t, other.Meta("missing"))
}

func TestView_SetRowsSignals(t *testing.T) {
	v := NewView()
	var got signal.Signal
	v.Listen(func(ev signal.Event) { got = ev.Signal })
	v.SetRows(Row{"value": 1.0})
	assert.Equal(t, signal.DataChanged|signal.NeedsRecalculation, got)
}

func TestView_SerializeCopies(t *testing.T) {
	v := NewView(Row{"value": 1.0})
	out := v.Serialize()
	out[0].(map[string]any)["value"] = 9.0
	assert.Equal(t, 1.0, v.Row(0)["value"])
}

func TestNumber(t *testing.T) {
	tests := []struct {
		in   any
		want float64
		ok   bool
	}{
		{1.5, 1.5, true},
		{3, 3, true},
		{int64(4), 4, true},
		{" 2.5 ", 2.5, true},
		{"abc", 0, false},
		{nil, 0, false},
		{math.NaN(), 0, false},
		{true, 0, false},
	}
	for _, tt := range tests {
		got, ok := Number(tt.in)
		assert.Equal(t, tt.ok, ok, "%v", tt.in)
		if tt.ok {
			assert.Equal(t, tt.want, got)
		}
	}
	assert.Equal(t, Key(1.0), Key(1))
	assert.Equal(t, "a", Key("a"))
}

func TestLoadXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"x", "value", "name"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{"north", 12, "N"}))
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{"south", 7.5}))
	path := filepath.Join(t.TempDir(), "rows.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	v, err := LoadXLSX(path, "")
	require.NoError(t, err)
	require.Equal(t, 2, v.RowsCount())
	assert.Equal(t, Row{"x": "north", "value": 12.0, "name": "N"}, v.Row(0))
	assert.Equal(t, Row{"x": "south", "value": 7.5}, v.Row(1))

	_, err = LoadXLSX(filepath.Join(t.TempDir(), "missing.xlsx"), "")
	assert.Error(t, err)
}
