package maps

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"geochart/internal/graphics"
	"geochart/internal/logging"
	"geochart/internal/scale"
	"geochart/internal/series"
	"geochart/internal/signal"
)

// Two unit-height squares side by side: extent 0..4 x 0..2.
const twoSquares = `{"type":"FeatureCollection","features":[
  {"type":"Feature","id":"a","properties":{"name":"Alpha"},
   "geometry":{"type":"Polygon","coordinates":[[[0,0],[2,0],[2,2],[0,2],[0,0]]]}},
  {"type":"Feature","id":"b","properties":{"name":"Beta"},
   "geometry":{"type":"Polygon","coordinates":[[[2,0],[4,0],[4,2],[2,2],[2,0]]]}}
]}`

var square = graphics.Rect{Width: 100, Height: 100}

func observe(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	logging.Set(zap.New(core))
	t.Cleanup(func() { logging.Set(nil) })
	return logs
}

func rows(rs ...map[string]any) []any {
	out := make([]any, len(rs))
	for i, r := range rs {
		out[i] = r
	}
	return out
}

func newMap(t *testing.T) (*Map, *Choropleth, *scale.LinearColor) {
	t.Helper()
	m := New()
	m.SetGeoData(twoSquares)
	s := m.Choropleth(rows(map[string]any{"id": "a", "value": 1}))
	cs := scale.NewLinearColor()
	s.SetColorScale(cs)
	m.Draw(square)
	require.Len(t, m.Regions(), 2)
	return m, s, cs
}

func TestPool_Reuse(t *testing.T) {
	p := NewPool()
	parent := graphics.NewLayer()
	var hs []Handle
	for i := 0; i < 3; i++ {
		hs = append(hs, p.Acquire(parent))
	}
	first := p.Path(hs[0])
	first.MoveTo(1, 1)
	first.SetTag(&graphics.Tag{Index: 3})
	first.Listen(graphics.MouseOver, func(graphics.Event) {})

	p.ReleaseAll()
	assert.Equal(t, 0, p.Active())
	assert.Equal(t, 3, p.Free())
	assert.True(t, first.Empty())
	assert.Nil(t, first.Tag())
	assert.False(t, first.HasListeners())
	assert.Nil(t, first.Parent())
	assert.Equal(t, 0, parent.NumChildren())

	p.Acquire(parent)
	p.Acquire(parent)
	assert.Equal(t, 3, p.Allocated())
	assert.Equal(t, 2, p.Reused())
	assert.Equal(t, 2, p.Active())
	assert.Equal(t, 1, p.Free())
	assert.Nil(t, p.Path(-1))
}

func TestCreateSeriesByType_Unknown(t *testing.T) {
	logs := observe(t)
	m := New()
	m.Choropleth(nil)

	assert.Nil(t, m.CreateSeriesByType("bubble", nil))
	assert.Equal(t, 1, m.SeriesCount())
	require.Equal(t, 1, logs.FilterMessage(string(logging.NoFeatureInModule)).Len())

	assert.NotNil(t, m.CreateSeriesByType("CHOROPLETH", nil))
	assert.NotNil(t, m.CreateSeriesByType("", nil), "empty type uses the default")
	assert.Equal(t, 3, m.SeriesCount())
}

func TestDraw_BindsRegions(t *testing.T) {
	m, s, cs := newMap(t)
	a, b := m.Regions()[0], m.Regions()[1]

	assert.True(t, m.IsConsistent())
	assert.Equal(t, cs.ValueToColor(1), a.Path.Fill())
	require.NotNil(t, a.Path.Tag())
	assert.Equal(t, 0, a.Path.Tag().Index)
	assert.Same(t, s, a.Path.Tag().Series)

	assert.Equal(t, "#f7f7f7", b.Path.Fill())
	assert.Nil(t, b.Path.Tag())

	// extent 4x2 fit into 100x100: 25px per unit, centered vertically
	assert.Equal(t, graphics.Rect{Left: 0, Top: 25, Width: 50, Height: 50}, a.Path.Bounds())
	assert.Equal(t, 2, m.Pool().Allocated())
	assert.Equal(t, 2, m.Pool().Active())
	assert.Equal(t, []*Region{a}, s.BoundRegions())
}

func TestDraw_ReusesPathsOnResize(t *testing.T) {
	m, _, _ := newMap(t)
	m.Draw(graphics.Rect{Width: 200, Height: 100})
	assert.Equal(t, 2, m.Pool().Allocated())
	assert.Equal(t, 2, m.Pool().Reused())
	assert.Equal(t, graphics.Rect{Left: 0, Top: 0, Width: 100, Height: 100}, m.Regions()[0].Path.Bounds())
}

func TestDraw_IDFieldProperty(t *testing.T) {
	m := New()
	m.SetGeoData(twoSquares)
	m.SetIDField("name")
	s := m.Choropleth(rows(map[string]any{"name": "Beta", "value": 3}))
	m.Draw(square)
	require.Len(t, s.BoundRegions(), 1)
	assert.Equal(t, "b", s.BoundRegions()[0].ID())
}

func TestHover_MovesColorRangeMarker(t *testing.T) {
	m := New()
	m.SetGeoData(twoSquares)
	m.ColorRange().SetEnabled(true)
	s := m.Choropleth(rows(map[string]any{"id": "a", "value": 1}))
	cs := scale.NewLinearColor()
	s.SetColorScale(cs)
	m.Draw(square)

	a := m.Regions()[0]
	normal := a.Path.Fill()
	assert.Less(t, m.scale.Bounds().Height, square.Height, "strip reserved")

	m.HandleMouseOverAndMove(a.Path.Tag())
	assert.Equal(t, 0.0, s.HoverStatus())
	assert.Equal(t, graphics.Lighten(normal), a.Path.Fill())
	assert.True(t, m.ColorRange().MarkerVisible())

	m.HandleMouseOut(a.Path.Tag())
	assert.True(t, math.IsNaN(s.HoverStatus()))
	assert.Equal(t, normal, a.Path.Fill())
	assert.False(t, m.ColorRange().MarkerVisible())
}

func TestPathListeners_RoutePointEvents(t *testing.T) {
	m, s, _ := newMap(t)
	var got []series.PointEventType
	s.OnPointEvent(func(e *series.PointEvent) {
		got = append(got, e.Type)
		assert.Equal(t, 0, e.Index)
	})
	a := m.Regions()[0]
	graphics.Dispatch(a.Path, graphics.Event{Type: graphics.MouseOver})
	graphics.Dispatch(a.Path, graphics.Event{Type: graphics.MouseClick})
	graphics.Dispatch(a.Path, graphics.Event{Type: graphics.MouseOut})
	assert.Equal(t, []series.PointEventType{series.PointMouseOver, series.PointClick, series.PointMouseOut}, got)
}

func TestClick_SelectsAndClears(t *testing.T) {
	m, s, _ := newMap(t)
	a := m.Regions()[0]
	m.HandleMouseClick(a.Path.Tag())
	assert.Equal(t, []int{0}, s.Selected())
	assert.Same(t, a, m.RegionAt(a.Path.Tag()))

	m.HandleMouseClick(nil)
	assert.Empty(t, s.Selected())
}

func TestPropagation(t *testing.T) {
	m, s, _ := newMap(t)
	var events []signal.Event
	m.Listen(func(e signal.Event) { events = append(events, e) })

	s.SetColor("#123456")
	require.NotEmpty(t, events)
	assert.True(t, events[len(events)-1].Has(signal.NeedsRedraw))
	assert.True(t, m.HasInvalidationState(signal.MapSeries))

	m.Draw(square)
	m.Scale().SetZoom(2)
	assert.True(t, m.HasInvalidationState(signal.Bounds))
	assert.True(t, m.HasInvalidationState(signal.MapScale))

	m.Draw(square)
	m.UnboundRegions().Setup(false)
	assert.True(t, m.HasInvalidationState(signal.Appearance))
	m.Draw(square)
	assert.False(t, m.Regions()[1].Path.Visible())
}

func TestDisabledSeries_RegionsBecomeUnbound(t *testing.T) {
	m, s, _ := newMap(t)
	s.SetEnabled(false)
	m.Draw(square)
	assert.Equal(t, "#f7f7f7", m.Regions()[0].Path.Fill())
	assert.Nil(t, m.Regions()[0].Path.Tag())
}

func TestLegend_Categories(t *testing.T) {
	m := New()
	m.SetGeoData(twoSquares)
	s := m.Choropleth(rows(
		map[string]any{"id": "a", "value": 1},
		map[string]any{"id": "b", "value": 9},
	))
	s.SetColorScale(scale.NewOrdinalColor(
		scale.Range{From: math.NaN(), To: 5},
		scale.Range{From: 5, To: math.NaN()},
	))
	m.Draw(square)

	items := m.LegendItems(LegendCategories)
	require.Len(t, items, 2)
	assert.Equal(t, "Less than 5", items[0].Text)
	assert.Equal(t, "More than 5", items[1].Text)
	assert.Equal(t, s.UID(), items[1].SourceUID)

	m.LegendItemOver(items[1])
	assert.Equal(t, graphics.Lighten(items[1].IconFill), m.Regions()[1].Path.Fill())
	m.LegendItemOut(items[1])
	assert.Equal(t, items[1].IconFill, m.Regions()[1].Path.Fill())

	m.LegendItemClick(items[0])
	assert.Equal(t, []int{0}, s.Selected())

	perSeries := m.LegendItems(LegendDefault)
	require.Len(t, perSeries, 1)
	m.LegendItemClick(perSeries[0])
	assert.False(t, s.Enabled())
	assert.True(t, m.LegendItems(LegendDefault)[0].Disabled)
}

func TestSerializeSetup_SharesColorScales(t *testing.T) {
	m := New()
	cs := scale.NewOrdinalColor(scale.Range{From: 0, To: 10, Color: "#ff0000"})
	m.Choropleth(rows(map[string]any{"id": "a", "value": 1})).SetColorScale(cs)
	m.Choropleth(rows(map[string]any{"id": "b", "value": 2})).SetColorScale(cs)
	m.Choropleth(nil)
	m.Scale().SetZoom(1.5)

	cfg := m.Serialize()["map"].(map[string]any)
	assert.Len(t, cfg["colorScales"], 1)
	list := cfg["series"].([]any)
	require.Len(t, list, 3)
	assert.Equal(t, 0, list[0].(map[string]any)["colorScale"])
	assert.Equal(t, 0, list[1].(map[string]any)["colorScale"])
	assert.NotContains(t, list[2].(map[string]any), "colorScale")

	d := New()
	d.Setup(m.Serialize())
	require.Equal(t, 3, d.SeriesCount())
	assert.Equal(t, m.UID(), d.UID())
	assert.Equal(t, 1.5, d.Scale().Zoom())
	first := d.GetSeries(0).ColorScale()
	require.IsType(t, &scale.OrdinalColor{}, first)
	assert.Same(t, first, d.GetSeries(1).ColorScale())
	assert.Nil(t, d.GetSeries(2).ColorScale())
}

func TestInvalidGeoData(t *testing.T) {
	logs := observe(t)
	m := New()
	m.SetGeoData("not geometry at all")
	m.Choropleth(rows(map[string]any{"id": "a", "value": 1}))
	m.Draw(square)

	assert.Empty(t, m.Regions())
	assert.Equal(t, 1, logs.FilterMessage(string(logging.GeoDataInvalid)).Len())
	assert.False(t, m.HasInvalidationState(signal.MapGeoData))
}

func TestRemoveSeries(t *testing.T) {
	m, _, _ := newMap(t)
	second := m.Choropleth(nil)
	m.RemoveSeries(0)
	require.Equal(t, 1, m.SeriesCount())
	assert.Equal(t, 0, second.Index())
	assert.Nil(t, m.ColorRange().Target())

	m.Draw(square)
	assert.Equal(t, "#f7f7f7", m.Regions()[0].Path.Fill())
	assert.Equal(t, m.Palette().ColorAt(0), second.Color())
}

func TestRemoveSeries_ReleasesColorScale(t *testing.T) {
	m, _, cs := newMap(t)
	require.Equal(t, 1, cs.ListenerCount())
	m.RemoveSeries(0)
	assert.Equal(t, 0, cs.ListenerCount())

	// a removed series no longer reacts to the scale
	m.Draw(square)
	cs.SetColors("#000000", "#ffffff")
	assert.False(t, m.HasInvalidationState(signal.Appearance))
}

func TestLabels(t *testing.T) {
	m := New()
	m.SetGeoData(twoSquares)
	s := m.Choropleth(rows(map[string]any{"id": "b", "value": 7}))
	s.Labels().SetEnabled(true)
	m.Draw(square)

	require.Equal(t, 1, m.labels.NumChildren())
	txt := m.labels.Children()[0].(*graphics.Text)
	assert.Equal(t, "7", txt.Content)
	assert.Equal(t, 75.0, txt.X)
	assert.Equal(t, 50.0, txt.Y)
}

func TestRules(t *testing.T) {
	tests := []struct {
		name  string
		rule  signal.Rule
		in    signal.Signal
		state signal.State
		sig   signal.Signal
	}{
		{"series redraw", SeriesRule, signal.NeedsRedraw, signal.MapSeries | signal.Appearance, signal.NeedsRedraw},
		{"series data", SeriesRule, signal.DataChanged, signal.MapSeries | signal.ChartLegend | autoStyles, signal.NeedsRedraw},
		{"series legend bounds", SeriesRule, signal.NeedUpdateLegend | signal.BoundsChanged, signal.ChartLegend | signal.Bounds, signal.NeedsRedraw},
		{"series color range", SeriesRule, signal.NeedUpdateColorRange, signal.MapColorRange, signal.NeedsRedraw},
		{"series ignored", SeriesRule, signal.EnabledStateChanged, signal.NoState, signal.NoSignal},
		{"geo scale", GeoScaleRule, signal.NeedsReapplication, signal.MapScale | signal.Bounds, signal.NeedsRedraw},
		{"palette", PaletteRule, signal.NeedsReapplication, signal.MapPalette | signal.MapSeries | signal.ChartLegend, signal.NeedsRedraw | signal.NeedUpdateLegend},
		{"color range bounds", ColorRangeRule, signal.BoundsChanged, signal.Bounds | signal.MapColorRange, signal.NeedsRedraw},
		{"unbound", UnboundRule, signal.NeedsRedraw, signal.Appearance, signal.NeedsRedraw},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, sig := tt.rule(tt.in)
			assert.Equal(t, tt.state, st)
			assert.Equal(t, tt.sig, sig)
		})
	}
}
