package radar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"geochart/internal/graphics"
	"geochart/internal/logging"
	"geochart/internal/palette"
	"geochart/internal/scale"
	"geochart/internal/signal"
)

// A 100x100 chart plots into {8,8,84,84}: center (50,50), radius 42.
var square = graphics.Rect{Width: 100, Height: 100}

func pairs(kv ...any) []any {
	out := make([]any, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		out = append(out, []any{kv[i], kv[i+1]})
	}
	return out
}

type xy struct{ X, Y float64 }

func vertices(p *graphics.Path) []xy {
	var out []xy
	for _, s := range p.Segments() {
		if s.Op != graphics.SegClose {
			out = append(out, xy{s.X, s.Y})
		}
	}
	return out
}

func assertPoints(t *testing.T, want, got []xy) {
	t.Helper()
	require.Len(t, got, len(want))
	for i := range want {
		assert.InDelta(t, want[i].X, got[i].X, 1e-9, "x of point %d", i)
		assert.InDelta(t, want[i].Y, got[i].Y, 1e-9, "y of point %d", i)
	}
}

func TestLine_AngleMapping(t *testing.T) {
	c := NewChart()
	l := c.Line(pairs("a", 10, "b", 10, "c", 10, "d", 10))
	c.Draw(square)

	cx, cy, r := l.Center()
	assert.Equal(t, 50.0, cx)
	assert.Equal(t, 50.0, cy)
	assert.Equal(t, 42.0, r)

	assertPoints(t, []xy{{50, 8}, {92, 50}, {50, 92}, {8, 50}}, vertices(l.path))
	segs := l.path.Segments()
	assert.Equal(t, graphics.SegClose, segs[len(segs)-1].Op, "a full run closes the ring")
	assert.Equal(t, graphics.None, l.path.Fill())

	c.SetStartAngle(90)
	c.Draw(square)
	assertPoints(t, []xy{{92, 50}, {50, 92}, {8, 50}, {50, 8}}, vertices(l.path))
}

func TestStartAngle_Normalized(t *testing.T) {
	c := NewChart()
	c.SetStartAngle(-90)
	assert.Equal(t, 270.0, c.StartAngle())
	l := c.Line(nil)
	assert.Equal(t, 270.0, l.StartAngle())
}

func TestStacking_Idempotent(t *testing.T) {
	c := NewChart()
	c.YScale().SetStackMode(scale.StackValue)
	c.Line(pairs("a", 1, "b", 1, "c", 1))
	top := c.Line(pairs("a", 2, "b", 2, "c", 2))

	c.Draw(square)
	first := vertices(top.path)
	_, hi := c.YScale().Range()
	assert.Equal(t, 3.0, hi, "extent covers stacked totals")

	c.Invalidate(signal.Appearance, signal.NoSignal)
	c.Draw(square)
	assertPoints(t, first, vertices(top.path))
	assert.InDelta(t, 8.0, first[0].Y, 1e-9, "top series reaches the outer ring")
}

func TestDrawMissing_SplitsRuns(t *testing.T) {
	c := NewChart()
	c.YScale().SetStackMode(scale.StackValue)
	c.Line(pairs("a", 1, "b", 1, "c", 1))
	sparse := c.Line(pairs("a", 1, "c", 1))
	c.Draw(square)

	ops := make([]graphics.SegOp, 0)
	for _, s := range sparse.path.Segments() {
		ops = append(ops, s.Op)
	}
	assert.Equal(t, []graphics.SegOp{graphics.SegMove, graphics.SegLine, graphics.SegMove, graphics.SegLine}, ops)
}

func TestMissingValue_StackedPlaceholder(t *testing.T) {
	c := NewChart()
	c.YScale().SetStackMode(scale.StackValue)
	l := c.Line([]any{
		map[string]any{"x": "a", "value": 5},
		map[string]any{"x": "b"},
		map[string]any{"x": "c", "value": 5},
		map[string]any{"x": "d", "value": 5},
	})
	c.Draw(square)

	pts := vertices(l.path)
	require.Len(t, pts, 4)
	assert.Equal(t, xy{50, 50}, pts[1])
}

func TestMarker_HoverPoint(t *testing.T) {
	c := NewChart()
	m := c.Marker(pairs("a", 1, "b", 2, "c", 3))
	c.Draw(square)

	require.NotNil(t, m.Marker(1))
	assert.InDelta(t, MarkerSize, m.Marker(1).Bounds().Width, 1e-9)
	assert.False(t, m.SupportsStacking())

	graphics.Dispatch(m.Marker(1), graphics.Event{Type: graphics.MouseOver})
	assert.Equal(t, 1.0, m.HoverStatus())
	assert.InDelta(t, HoverMarkerSize, m.Marker(1).Bounds().Width, 1e-9)
	assert.InDelta(t, MarkerSize, m.Marker(0).Bounds().Width, 1e-9)

	graphics.Dispatch(m.Marker(1), graphics.Event{Type: graphics.MouseOut})
	assert.InDelta(t, MarkerSize, m.Marker(1).Bounds().Width, 1e-9)
}

func TestLabels_Drawn(t *testing.T) {
	c := NewChart()
	l := c.Line(pairs("a", 1, "b", 2, "c", 3))
	l.Labels().SetEnabled(true)
	c.Draw(square)

	require.Equal(t, 3, l.labels.NumChildren())
	txt, ok := l.labels.Children()[1].(*graphics.Text)
	require.True(t, ok)
	assert.Equal(t, "2", txt.Content)
}

func TestDisabledSeries_Detached(t *testing.T) {
	c := NewChart()
	l := c.Line(pairs("a", 1, "b", 2, "c", 3))
	c.Draw(square)
	require.Same(t, c.Layer(), l.Layer().Parent())

	l.SetEnabled(false)
	c.Draw(square)
	assert.Nil(t, l.Layer().Parent())
}

func TestAddSeries_UnknownType(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logging.Set(zap.New(core))
	t.Cleanup(func() { logging.Set(nil) })

	c := NewChart()
	assert.Nil(t, c.AddSeries("pie", nil))
	assert.Equal(t, 0, c.SeriesCount())
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, string(logging.NoFeatureInModule), logs.All()[0].Message)

	assert.NotNil(t, c.AddSeries("AREA", nil), "type names are case-insensitive")
}

func TestDrawWithoutScalesPanics(t *testing.T) {
	l := NewLine(pairs("a", 1))
	assert.PanicsWithValue(t, "radar: series drawn without x and y scales", func() { l.StartDrawing() })
}

func TestRemoveSeries_Reindexes(t *testing.T) {
	c := NewChart()
	c.Line(nil)
	a := c.Area(nil)
	c.RemoveSeries(0)
	require.Equal(t, 1, c.SeriesCount())
	assert.Equal(t, 0, a.Index())
	assert.Same(t, a, c.GetSeries(0))
	assert.Nil(t, c.GetSeries(1))
}

func TestPaletteChange_RepushesAutoStyles(t *testing.T) {
	c := NewChart()
	l := c.Line(pairs("a", 1, "b", 2, "c", 3))
	c.Draw(square)
	require.Equal(t, c.Palette().ColorAt(0), l.Color())
	before := l.path.Stroke()

	c.Palette().SetItems("#ff0000")
	c.MarkerPalette().SetItems("star5")
	assert.True(t, c.HasInvalidationState(signal.MapPalette|signal.MapMarkerPalette))
	c.Draw(square)

	assert.Equal(t, "#ff0000", l.Color())
	assert.Equal(t, palette.MarkerType("star5"), l.AutoMarkerType())
	assert.NotEqual(t, before, l.path.Stroke())
	assert.False(t, c.HasInvalidationState(signal.MapPalette|signal.MapMarkerPalette))
}

func TestRemoveSeries_ReleasesScales(t *testing.T) {
	c := NewChart()
	x, y := c.XScale().ListenerCount(), c.YScale().ListenerCount()
	for i := 0; i < 5; i++ {
		c.Line(pairs("a", 1))
		c.RemoveSeries(0)
	}
	assert.Equal(t, x, c.XScale().ListenerCount())
	assert.Equal(t, y, c.YScale().ListenerCount())
}

func TestContainer_AttachedOnFinalize(t *testing.T) {
	c := NewChart()
	l := c.Line(pairs("a", 1, "b", 2))
	c.Calculate()
	l.SetBounds(square)

	l.StartDrawing()
	assert.Nil(t, l.Layer().Parent())
	assert.True(t, l.HasInvalidationState(signal.Container))

	l.FinalizeDrawing()
	assert.Same(t, c.Layer(), l.Layer().Parent())
	assert.False(t, l.HasInvalidationState(signal.Container))
}

func TestSerializeSetup(t *testing.T) {
	c := NewChart()
	c.SetStartAngle(45)
	c.Line(pairs("a", 1, "b", 2))
	c.Marker(pairs("a", 3))

	cfg := c.Serialize()
	inner := cfg["chart"].(map[string]any)
	assert.Equal(t, "radar", inner["type"])
	require.Len(t, inner["series"], 2)

	d := NewChart()
	d.Setup(cfg)
	assert.Equal(t, c.UID(), d.UID())
	assert.Equal(t, 45.0, d.StartAngle())
	require.Equal(t, 2, d.SeriesCount())
	assert.Equal(t, "line", d.GetSeries(0).Type())
	assert.Equal(t, "marker", d.GetSeries(1).Type())
	assert.Equal(t, 2, d.GetSeries(0).radarBase().Data().RowsCount())
}

func TestSeriesRule(t *testing.T) {
	tests := []struct {
		in    signal.Signal
		state signal.State
		sig   signal.Signal
	}{
		{signal.NeedsRecalculation | signal.DataChanged, signal.SeriesData, signal.NeedsRedraw},
		{signal.NeedsRedraw, signal.Appearance, signal.NeedsRedraw},
		{signal.NeedUpdateLegend, signal.ChartLegend, signal.NeedsRedraw},
		{signal.BoundsChanged, signal.NoState, signal.NoSignal},
	}
	for _, tt := range tests {
		t.Run(tt.in.String(), func(t *testing.T) {
			st, sig := SeriesRule(tt.in)
			assert.Equal(t, tt.state, st)
			assert.Equal(t, tt.sig, sig)
		})
	}
}
