package palette

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"geochart/internal/graphics"
	"geochart/internal/signal"
)

func TestDistinct_RoundRobin(t *testing.T) {
	p := NewDistinct("#111111", "#222222")
	assert.Equal(t, "#111111", p.ColorAt(0))
	assert.Equal(t, "#222222", p.ColorAt(1))
	assert.Equal(t, "#111111", p.ColorAt(2))
	assert.Equal(t, "", p.ColorAt(-1))
	assert.Equal(t, DefaultColors, NewDistinct().Items())
}

func TestDistinct_SetupSignalsReapplication(t *testing.T) {
	p := NewDistinct()
	var got signal.Signal
	p.Listen(func(ev signal.Event) { got |= ev.Signal })
	p.Setup(map[string]any{"items": []any{"#abcdef", 3}})
	assert.Equal(t, signal.NeedsReapplication, got)
	assert.Equal(t, []string{"#abcdef"}, p.Items())
	assert.Equal(t, map[string]any{"type": "distinct", "items": []any{"#abcdef"}}, p.Serialize())

	got = 0
	p.Setup(42)
	assert.Zero(t, got)
}

func TestRange_Interpolates(t *testing.T) {
	p := NewRange(3, "#000000", "#ffffff")
	assert.Equal(t, "#000000", p.ColorAt(0))
	assert.Equal(t, "#ffffff", p.ColorAt(2))
	mid := p.ColorAt(1)
	assert.NotEqual(t, "#000000", mid)
	assert.NotEqual(t, "#ffffff", mid)
	assert.Equal(t, "#000000", p.ColorAt(3))

	assert.Equal(t, "", Interpolate(nil, 0.5))
	assert.Equal(t, "#ff0000", Interpolate([]string{"red"}, 0.5))
	assert.Equal(t, "#ffffff", Interpolate([]string{"#000000", "#ffffff"}, 2))
}

func TestMarkersAndHatches(t *testing.T) {
	m := NewMarkers()
	assert.Equal(t, MarkerType("circle"), m.MarkerAt(0))
	assert.Equal(t, MarkerType("circle"), m.MarkerAt(len(DefaultMarkers)))
	m.Setup([]any{"Square"})
	assert.Equal(t, MarkerType("square"), m.MarkerAt(5))

	h := NewHatchFills()
	assert.Equal(t, graphics.BackwardDiagonal, h.HatchFillAt(0).Type)
	h.Setup([]any{"grid", "nonsense"})
	assert.Equal(t, graphics.Grid, h.HatchFillAt(3).Type)
	assert.Equal(t, map[string]any{"items": []any{"grid"}}, h.Serialize())
}
