package tui

import (
	"geochart/internal/graphics"
)

const (
	sidebarWidth = 28
	headerHeight = 1
	footerHeight = 2
)

// layout is the screen geometry shared by View and mouse handling.
type layout struct {
	contentW, contentH int
	mapX, mapY         int
	mapW, mapH         int
}

func (m Model) layout() layout {
	side := 0
	if m.showSidebar {
		side = sidebarWidth
	}
	lay := layout{
		contentW: max(10, m.width),
		contentH: max(4, m.height-headerHeight-footerHeight),
		mapY:     headerHeight,
	}
	lay.mapW = max(10, lay.contentW-side-1)
	lay.mapH = lay.contentH
	if m.showSidebar {
		lay.mapX = side + 1
	}
	return lay
}

// cell converts a screen position to a map cell.
func (l layout) cell(x, y int) (int, int, bool) {
	cx, cy := x-l.mapX, y-l.mapY
	return cx, cy, cx >= 0 && cx < l.mapW && cy >= 0 && cy < l.mapH
}

// cellToGeo converts a map cell back to data coordinates through the geo
// scale. The dot at the cell center is used.
func (m Model) cellToGeo(cx, cy int) (float64, float64, bool) {
	s := m.geo.Scale()
	if s.Extent().Empty() || s.Bounds().Empty() {
		return 0, 0, false
	}
	x, y := s.InverseTransform(float64(cx*2)+1, float64(cy*4)+2)
	return x, y, true
}

// sameTag compares tags by what they point at.
func sameTag(a, b *graphics.Tag) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Series == b.Series && a.Index == b.Index && a.Global == b.Global
}
