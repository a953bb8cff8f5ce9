package scale

import (
	"math"
	"strings"
	"testing"

	"geochart/internal/graphics"
	"geochart/internal/signal"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinearAutoCalc(t *testing.T) {
	s := NewLinear()
	s.StartAutoCalc()
	s.ExtendDataRange(2, "x", nil, 10.0, "6")
	s.FinishAutoCalc()

	lo, hi := s.Range()
	assert.Equal(t, 2.0, lo)
	assert.Equal(t, 10.0, hi)
	assert.InDelta(t, 0.5, s.Transform(6, 0), 1e-9)
	assert.True(t, math.IsNaN(s.Transform(nil, 0)))

	s.StartAutoCalc()
	s.FinishAutoCalc()
	lo, hi = s.Range()
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 1.0, hi)
}

func TestLinearMissing(t *testing.T) {
	s := NewLinear()
	for _, v := range []any{nil, math.NaN(), "abc", struct{}{}} {
		assert.True(t, s.IsMissing(v), "%v", v)
	}
	assert.False(t, s.IsMissing(0))
	assert.False(t, s.IsMissing("3.5"))
}

func TestLinearSignals(t *testing.T) {
	s := NewLinear()
	var got []signal.Signal
	s.Listen(func(e signal.Event) { got = append(got, e.Signal) })

	s.SetMinimum(0)
	s.SetMinimum(0)
	s.SetInverted(true)
	s.SetStackMode(StackValue)

	assert.Equal(t, []signal.Signal{
		signal.NeedsRecalculation,
		signal.NeedsReapplication,
		signal.NeedsRecalculation,
	}, got)
}

func TestLinearInverted(t *testing.T) {
	s := NewLinear()
	s.SetMinimum(0)
	s.SetMaximum(10)
	s.SetInverted(true)
	assert.InDelta(t, 0.8, s.Transform(2, 0), 1e-9)
	assert.InDelta(t, 2, s.Inverse(0.8), 1e-9)
}

func TestStacking(t *testing.T) {
	s := NewLinear()
	s.SetStackMode(StackValue)

	assert.Equal(t, 3.0, s.ApplyStacking("a", 0, 3))
	assert.Equal(t, 5.0, s.ApplyStacking("a", 1, 2))
	assert.Equal(t, -1.0, s.ApplyStacking("a", 2, -1))
	assert.Equal(t, 9.0, s.ApplyStacking("a", 3, 4))

	t.Run("idempotent", func(t *testing.T) {
		assert.Equal(t, 5.0, s.ApplyStacking("a", 1, 2))
		assert.Equal(t, 5.0, s.ApplyStacking("a", 1, 2))
		assert.Equal(t, 9.0, s.ApplyStacking("a", 3, 4))
	})

	t.Run("gap", func(t *testing.T) {
		assert.True(t, math.IsNaN(s.ApplyStacking("a", 1, math.NaN())))
		assert.Equal(t, 7.0, s.ApplyStacking("a", 3, 4))
		assert.Equal(t, 3.0, s.PrevValue("a", 3, 1))
	})

	t.Run("categories are separate", func(t *testing.T) {
		assert.Equal(t, 1.0, s.ApplyStacking(2, 0, 1))
		assert.Equal(t, 1.0, s.PrevValue(2.0, 1, 1))
		assert.Equal(t, 0.0, s.PrevValue("b", 1, 1))
	})

	s.ResetStacks()
	assert.Equal(t, 0.0, s.PrevValue("a", 3, 1))

	s.SetStackMode(StackNone)
	assert.Equal(t, 4.0, s.ApplyStacking("a", 3, 4))
}

func TestOrdinal(t *testing.T) {
	s := NewOrdinal()
	s.StartAutoCalc()
	s.ExtendDataRange("a", "b", "a", nil, "c", "d")
	s.FinishAutoCalc()

	require.Equal(t, 4, s.Count())
	assert.Equal(t, 0.0, s.Transform("a", 0))
	assert.Equal(t, 0.25, s.Transform("b", 0))
	assert.Equal(t, 0.375, s.Transform("b", 0.5))
	assert.True(t, s.IsMissing("z"))
	assert.True(t, math.IsNaN(s.Transform("z", 0)))

	s.SetValues("x", "y")
	s.StartAutoCalc()
	s.ExtendDataRange("a")
	assert.Equal(t, []any{"x", "y"}, s.Values())
	assert.Equal(t, map[string]any{"type": "ordinal", "values": []any{"x", "y"}}, s.Serialize())
}

func TestGeoProjection(t *testing.T) {
	s := NewGeo()
	s.StartAutoCalc()
	for _, p := range [][2]float64{{0, 0}, {4, 0}, {4, 2}, {0, 2}} {
		s.ExtendDataRangeX(p[0])
		s.ExtendDataRangeY(p[1])
	}
	assert.True(t, s.FinishAutoCalc())
	s.SetBounds(graphics.Rect{Left: 10, Top: 0, Width: 100, Height: 100})

	x, y := s.TransformXY(0, 2)
	assert.InDelta(t, 10, x, 1e-9)
	assert.InDelta(t, 25, y, 1e-9)

	x, y = s.TransformXY(4, 0)
	assert.InDelta(t, 110, x, 1e-9)
	assert.InDelta(t, 75, y, 1e-9)

	gx, gy := s.InverseTransform(60, 50)
	assert.InDelta(t, 2, gx, 1e-9)
	assert.InDelta(t, 1, gy, 1e-9)

	assert.InDelta(t, 0.25, s.Transform(1, 0), 1e-9)
}

func TestGeoZoomSignals(t *testing.T) {
	s := NewGeo()
	n := 0
	s.Listen(func(e signal.Event) {
		assert.True(t, e.Has(signal.NeedsReapplication))
		n++
	})
	s.SetBounds(graphics.Rect{Width: 10, Height: 10})
	s.SetZoom(2)
	s.SetZoom(-1)
	s.SetOffset(3, 4)
	s.Setup(map[string]any{"zoom": 3.0, "offsetX": 1.0})
	assert.Equal(t, 3, n)
	assert.Equal(t, 3.0, s.Zoom())
	dx, dy := s.Offset()
	assert.Equal(t, 1.0, dx)
	assert.Equal(t, 4.0, dy)
}

func TestLinearColor(t *testing.T) {
	s := NewLinearColor("#000000", "#ffffff")
	s.StartAutoCalc()
	s.ExtendDataRange(0, 10)
	s.FinishAutoCalc()

	assert.Equal(t, "#000000", s.ValueToColor(0))
	assert.Equal(t, "#ffffff", s.ValueToColor(10))
	assert.Equal(t, "#ffffff", s.ValueToColor(20))
	assert.Equal(t, "", s.ValueToColor(nil))
}

func TestOrdinalColor(t *testing.T) {
	nan := math.NaN()
	s := NewOrdinalColor(
		Range{From: nan, To: 10, Color: "#111111"},
		Range{From: 10, To: 20},
		Range{Equal: "x", Name: "Ex"},
	)

	assert.Equal(t, "#111111", s.ValueToColor(5))
	assert.Equal(t, 0, s.RangeIndex(10))
	assert.Equal(t, 1, s.RangeIndex(15))
	assert.Equal(t, 2, s.RangeIndex("x"))
	assert.Equal(t, -1, s.RangeIndex(25))
	assert.Equal(t, "", s.ValueToColor(25))

	ranges := s.ProcessedRanges()
	require.Len(t, ranges, 3)
	assert.Equal(t, "Less than 10", ranges[0].Name)
	assert.Equal(t, "10 - 20", ranges[1].Name)
	assert.Equal(t, "Ex", ranges[2].Name)
	for _, r := range ranges {
		assert.NotEmpty(t, r.Color)
	}

	restored := NewOrdinalColor()
	restored.Setup(s.Serialize())
	got := restored.ProcessedRanges()
	require.Len(t, got, len(ranges))
	for i := range ranges {
		assert.Equal(t, ranges[i].Name, got[i].Name)
		assert.Equal(t, ranges[i].Color, got[i].Color)
	}
}

func TestNew(t *testing.T) {
	for _, typ := range []string{"linear", "Ordinal", "GEO", "linearColor", "ordinalcolor"} {
		s := New(typ)
		require.NotNil(t, s, typ)
		assert.True(t, strings.EqualFold(typ, s.Type()))
	}
	assert.Nil(t, New("log"))
}
