package tui

import (
	"github.com/charmbracelet/lipgloss"

	"geochart/internal/graphics"
)

// canvas caches the braille grid between frames. The chart is only drawn
// again when it signalled NeedsRedraw or the grid was resized; the scene is
// rasterized every frame so hover styling shows up at once.
type canvas struct {
	br     *graphics.Braille
	dirty  bool
	bounds graphics.Rect
	draws  int
	styles map[string]lipgloss.Style
}

func (c *canvas) render(ch chart, w, h int) []string {
	if c.br == nil {
		c.br = graphics.NewBraille(w, h)
	} else if bw, bh := c.br.Size(); bw != w || bh != h {
		c.br = graphics.NewBraille(w, h)
	}
	b := c.br.PixelBounds()
	if c.dirty || b != c.bounds {
		ch.Draw(b)
		c.bounds = b
		c.dirty = false
		c.draws++
	}
	c.br.Reset()
	c.br.Render(ch.Layer())
	return c.br.Lines(c.paint)
}

func (c *canvas) paint(s, color string) string {
	if c.styles == nil {
		c.styles = make(map[string]lipgloss.Style)
	}
	st, ok := c.styles[color]
	if !ok {
		st = lipgloss.NewStyle().Foreground(lipgloss.Color(color))
		c.styles[color] = st
	}
	return st.Render(s)
}

// owner returns the tag drawn into a cell of the last frame.
func (c *canvas) owner(cx, cy int) *graphics.Tag {
	if c.br == nil {
		return nil
	}
	return c.br.Owner(cx, cy)
}
