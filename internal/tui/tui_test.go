package tui

import (
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"geochart/internal/data"
	"geochart/internal/graphics"
	"geochart/internal/maps"
	"geochart/internal/radar"
)

const twoSquares = `{"type":"FeatureCollection","features":[
  {"type":"Feature","id":"a","properties":{"name":"Alpha"},
   "geometry":{"type":"Polygon","coordinates":[[[0,0],[2,0],[2,2],[0,2],[0,0]]]}},
  {"type":"Feature","id":"b","properties":{"name":"Beta"},
   "geometry":{"type":"Polygon","coordinates":[[[2,0],[4,0],[4,2],[2,2],[2,0]]]}}
]}`

func writeGeo(t *testing.T) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "squares.geojson")
	require.NoError(t, os.WriteFile(p, []byte(twoSquares), 0644))
	return p
}

func key(s string) tea.KeyMsg {
	switch s {
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

// loaded returns a sized viewer over the two squares with region a bound.
func loaded(t *testing.T) Model {
	t.Helper()
	geo := maps.New()
	geo.Choropleth([]any{map[string]any{"id": "a", "value": 1.0}})
	m := NewWithPath(geo, writeGeo(t))
	t.Cleanup(func() { _ = m.Close() })
	m = send(t, m, tea.WindowSizeMsg{Width: 60, Height: 23})
	require.NotEmpty(t, m.View())
	return m
}

// taggedCell finds a canvas cell owned by a series point.
func taggedCell(t *testing.T, m Model) (int, int, *graphics.Tag) {
	t.Helper()
	lay := m.layout()
	for cy := 0; cy < lay.mapH; cy++ {
		for cx := 0; cx < lay.mapW; cx++ {
			if tag := m.cv.owner(cx, cy); tag != nil {
				return cx, cy, tag
			}
		}
	}
	t.Fatal("no tagged cell")
	return 0, 0, nil
}

func TestWatcher_ReportsWrite(t *testing.T) {
	defer goleak.VerifyNone(t)

	p := writeGeo(t)
	w, err := NewWatcher()
	require.NoError(t, err)
	defer w.Close()
	require.NoError(t, w.Watch(p))

	got := make(chan tea.Msg, 1)
	go func() { got <- w.Next()() }()
	require.NoError(t, os.WriteFile(p, []byte(twoSquares), 0644))

	select {
	case msg := <-got:
		abs, _ := filepath.Abs(p)
		assert.Equal(t, fileChangedMsg{path: abs}, msg)
	case <-time.After(5 * time.Second):
		w.Close()
		<-got
		t.Fatal("no change reported")
	}
}

func TestWatcher_CloseEndsNext(t *testing.T) {
	defer goleak.VerifyNone(t)

	w, err := NewWatcher()
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.Nil(t, w.Next()())
	assert.NoError(t, w.Close())
}

func TestModel_LoadPathWatches(t *testing.T) {
	m := loaded(t)
	require.NotNil(t, m.watcher)
	assert.Equal(t, "squares.geojson", filepath.Base(m.watcher.Path()))
	assert.Len(t, m.geo.Regions(), 2)
	assert.Contains(t, m.status, "features=2")
}

func TestModel_LoadPathError(t *testing.T) {
	m := New(nil)
	m.loadPath(filepath.Join(t.TempDir(), "missing.geojson"))
	assert.Contains(t, m.status, "load error")
	assert.Nil(t, m.watcher)
}

func TestModel_RedrawsOnlyWhenSignalled(t *testing.T) {
	m := loaded(t)
	assert.Equal(t, 1, m.cv.draws)

	m.View()
	assert.Equal(t, 1, m.cv.draws)

	m = send(t, m, key("+"))
	assert.InDelta(t, 1.2, m.geo.Scale().Zoom(), 1e-9)
	assert.True(t, m.cv.dirty)
	m.View()
	assert.Equal(t, 2, m.cv.draws)
}

func TestModel_PanMovesScale(t *testing.T) {
	m := loaded(t)
	m = send(t, m, key("left"))
	x, y := m.geo.Scale().Offset()
	assert.Equal(t, float64(panStep), x)
	assert.Equal(t, 0.0, y)

	m = send(t, m, key("0"))
	x, _ = m.geo.Scale().Offset()
	assert.Equal(t, 0.0, x)
}

func TestModel_HoverAndInspect(t *testing.T) {
	m := loaded(t)
	cx, cy, tag := taggedCell(t, m)
	lay := m.layout()

	m = send(t, m, tea.MouseMsg{X: cx + lay.mapX, Y: cy + lay.mapY, Action: tea.MouseActionMotion})
	require.NotNil(t, m.hoverTag)
	assert.True(t, sameTag(tag, m.hoverTag))
	assert.True(t, m.hoverHasGeo)

	m = send(t, m, key("i"))
	assert.Contains(t, m.inspectPopup, "id: a")
	assert.Contains(t, m.inspectPopup, "name: Alpha")

	// leaving the canvas drops the highlight
	m = send(t, m, tea.MouseMsg{X: 0, Y: 0, Action: tea.MouseActionMotion})
	assert.Nil(t, m.hoverTag)
}

func TestModel_ClickSelects(t *testing.T) {
	m := loaded(t)
	cx, cy, _ := taggedCell(t, m)
	lay := m.layout()

	m = send(t, m, tea.MouseMsg{X: cx + lay.mapX, Y: cy + lay.mapY, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
	s := m.geo.GetSeries(0)
	assert.Equal(t, []int{0}, s.Selected())
	assert.Equal(t, "toggled selection: a", m.status)
}

func TestModel_LegendKeyTogglesSeries(t *testing.T) {
	m := loaded(t)
	s := m.geo.GetSeries(0).Base()
	require.True(t, s.Enabled())
	m = send(t, m, key("1"))
	assert.False(t, s.Enabled())
}

func TestModel_LegendHover(t *testing.T) {
	m := loaded(t)
	lay := m.layout()
	s := m.geo.GetSeries(0).Base()

	// first legend row sits under the top border at the right edge
	m = send(t, m, tea.MouseMsg{X: lay.mapX + lay.mapW - 3, Y: lay.mapY + 1, Action: tea.MouseActionMotion})
	assert.Equal(t, 0, m.legendHover)
	assert.Equal(t, -1.0, s.HoverStatus())

	m = send(t, m, tea.MouseMsg{X: lay.mapX + lay.mapW - 3, Y: lay.mapY + lay.mapH - 1, Action: tea.MouseActionMotion})
	assert.Equal(t, -1, m.legendHover)
	assert.True(t, math.IsNaN(s.HoverStatus()))
}

func TestModel_AttrsTable(t *testing.T) {
	m := loaded(t)
	m = send(t, m, key("a"))
	require.True(t, m.showAttrs)
	cols := m.tbl.Columns()
	require.Len(t, cols, 3)
	assert.Equal(t, "id", cols[1].Title)
	assert.Equal(t, "value", cols[2].Title)
	assert.Len(t, m.tbl.Rows(), 1)
}

func TestModel_Radar(t *testing.T) {
	c := radar.NewChart()
	c.Line([]any{[]any{"a", 1.0}, []any{"b", 2.0}, []any{"c", 3.0}})
	m := NewRadar(c)
	m = send(t, m, tea.WindowSizeMsg{Width: 60, Height: 23})
	require.NotEmpty(t, m.View())
	assert.Equal(t, 1, m.cv.draws)

	m = send(t, m, key("right"))
	assert.Equal(t, float64(angleStep), c.StartAngle())
	m.View()
	assert.Equal(t, 2, m.cv.draws)
}

func TestBuildAttributes(t *testing.T) {
	v := data.NewView(
		data.Row{"id": "a", "value": 1.0},
		data.Row{"id": "b", "flag": true},
	)
	cols, rows := buildAttributes(v)
	assert.Equal(t, []string{"flag", "id", "value"}, cols)
	assert.Equal(t, [][]string{{"", "a", "1"}, {"true", "b", ""}}, rows)
}

func TestLayout_Cell(t *testing.T) {
	m := New(nil)
	m.width, m.height = 80, 24
	m.showSidebar = true
	lay := m.layout()
	assert.Equal(t, sidebarWidth+1, lay.mapX)
	assert.Equal(t, 80-sidebarWidth-1, lay.mapW)

	_, _, ok := lay.cell(0, 5)
	assert.False(t, ok)
	cx, cy, ok := lay.cell(lay.mapX+2, lay.mapY+3)
	assert.True(t, ok)
	assert.Equal(t, 2, cx)
	assert.Equal(t, 3, cy)
}
