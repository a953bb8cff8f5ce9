package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const legendWidth = 26

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	lay := m.layout()

	// Header
	title := " geochart ─ terminal map viewer "
	if m.radar != nil {
		title = " geochart ─ radar "
	}
	header := lipgloss.NewStyle().Width(lay.contentW).Render(titleStyle.Render(title))

	// Sidebar
	var sidebar string
	if m.showSidebar {
		m.l.SetSize(sidebarWidth-2, lay.contentH-2)
		sidebar = lipgloss.NewStyle().Width(sidebarWidth).Render(m.l.View())
	}

	var mapView string
	switch {
	case m.showAttrs:
		colW := 0
		for _, c := range m.tbl.Columns() {
			colW += c.Width + 3
		}
		if colW == 0 {
			colW = min(60, lay.contentW-6)
		}
		maxW := min(lay.mapW, max(32, colW))
		m.tbl.SetWidth(maxW - 4)
		m.tbl.SetHeight(min(lay.mapH-2, 20))
		box := boxStyle.Width(maxW).Render(m.tbl.View())
		mapView = lipgloss.Place(lay.mapW, lay.mapH, lipgloss.Center, lipgloss.Center, box)
	case m.pasteMode:
		m.ta.SetWidth(lay.mapW)
		m.ta.SetHeight(min(lay.mapH, 12))
		mapView = lipgloss.NewStyle().Width(lay.mapW).Height(lay.mapH).Render(m.ta.View())
	default:
		lines := m.cv.render(m.chart(), lay.mapW, lay.mapH)
		mapView = lipgloss.NewStyle().Width(lay.mapW).Height(lay.mapH).Render(strings.Join(lines, "\n"))
		if m.showLegend {
			mapView = m.withLegend(mapView, lay)
		}
	}

	// Inspect popup, left of the body
	popup := ""
	if m.inspectPopup != "" && !m.showAttrs {
		box := boxStyle.MaxWidth(max(20, min(48, lay.contentW/2))).Render(m.inspectPopup)
		popup = lipgloss.Place(lay.contentW, lay.contentH, lipgloss.Left, lipgloss.Center, box)
	}

	body := mapView
	if m.showSidebar {
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", mapView)
	}

	// Footer: status, help and pointer coordinates
	status := dimStyle.Render(" " + m.status + " ")
	coords := ""
	if m.hoverHasGeo {
		coords = dimStyle.Render(fmt.Sprintf("  x=%.5f y=%.5f  ", m.hoverLon, m.hoverLat))
	}
	left := lipgloss.JoinHorizontal(lipgloss.Bottom, status, m.renderHelp())
	spacerW := max(0, lay.contentW-lipgloss.Width(left)-lipgloss.Width(coords))
	right := lipgloss.Place(spacerW+lipgloss.Width(coords), 1, lipgloss.Right, lipgloss.Center, coords)
	footer := lipgloss.NewStyle().Width(lay.contentW).Render(lipgloss.JoinHorizontal(lipgloss.Bottom, left, right))

	ui := lipgloss.JoinVertical(lipgloss.Left, header, popup, body, footer)
	return appStyle.Width(lay.contentW).Height(m.height).Render(ui)
}

// legendBox renders the legend overlay, or "" when there is nothing to show
// or no room for it.
func (m Model) legendBox(lay layout) string {
	items := m.legendItems()
	if len(items) == 0 || lay.mapW < legendWidth*2 {
		return ""
	}
	rows := make([]string, 0, len(items))
	for i, it := range items {
		text := fmt.Sprintf("%d %s %s", i+1, swatch(it.IconFill), it.Text)
		switch {
		case it.Disabled:
			text = dimStyle.Render(text)
		case i == m.legendHover,
			m.hoverTag != nil && m.hoverTag.Global && it.Index == m.hoveredIndex():
			text = hoverStyle.Render(text)
		}
		rows = append(rows, text)
	}
	return legendStyle.Width(legendWidth - 2).Render(strings.Join(rows, "\n"))
}

// withLegend places the legend box over the right edge of the canvas.
func (m Model) withLegend(canvas string, lay layout) string {
	box := m.legendBox(lay)
	if box == "" {
		return canvas
	}
	lines := strings.Split(canvas, "\n")
	boxLines := strings.Split(box, "\n")
	for i, bl := range boxLines {
		if i >= len(lines) {
			break
		}
		keep := lay.mapW - lipgloss.Width(bl)
		lines[i] = truncate(lines[i], keep) + bl
	}
	return strings.Join(lines, "\n")
}

// legendAt returns the legend item under map cell (cx, cy), or -1.
func (m Model) legendAt(lay layout, cx, cy int) int {
	if !m.showLegend || m.showAttrs || m.pasteMode {
		return -1
	}
	box := m.legendBox(lay)
	if box == "" || cx < lay.mapW-lipgloss.Width(box) {
		return -1
	}
	i := cy - legendStyle.GetBorderTopSize() - legendStyle.GetPaddingTop()
	if i < 0 || i >= len(m.legendItems()) {
		return -1
	}
	return i
}

// hoveredIndex returns the series index of the hovered tag, or -1.
func (m Model) hoveredIndex() int {
	if s, ok := m.hoverTag.Series.(interface{ Index() int }); ok {
		return s.Index()
	}
	return -1
}

// truncate cuts a styled line to n cells.
func truncate(s string, n int) string {
	if lipgloss.Width(s) <= n {
		return s + strings.Repeat(" ", n-lipgloss.Width(s))
	}
	return lipgloss.NewStyle().MaxWidth(n).Render(s)
}

func (m Model) renderHelp() string {
	if !m.helpVisible {
		return ""
	}
	keys := []string{
		"↑↓←→ pan",
		"+/- zoom",
		"1-9 legend",
		"Tab files",
		"p paste",
		"a rows",
		"i inspect",
		"l legend",
		"q quit",
	}
	if m.radar != nil {
		keys = []string{"←→ rotate", "1-9 toggle", "a rows", "l legend", "q quit"}
	}
	return dimStyle.Render("  " + strings.Join(keys, "  "))
}
