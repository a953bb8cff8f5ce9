package tui

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"geochart/internal/geom"
	"geochart/internal/graphics"
	"geochart/internal/maps"
	"geochart/internal/series"
)

const (
	panStep   = 8
	zoomStep  = 1.2
	angleStep = 15
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.showSidebar {
			m.l.SetSize(sidebarWidth-2, m.layout().contentH-2)
		}
	case fileChangedMsg:
		m.reload(msg.path)
		return m, m.watcher.Next()
	case tea.KeyMsg:
		// a filtering list owns the keyboard
		if m.showSidebar && m.l.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		}
		if m.pasteMode {
			return m.updatePaste(msg)
		}
		if cmd, handled := m.handleKey(msg.String()); handled {
			return m, cmd
		}
	case tea.MouseMsg:
		m.handleMouse(msg)
	}
	// Pass messages to list when visible
	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updatePaste(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.pasteMode = false
		m.ta.Blur()
		return m, nil
	case "enter":
		w := strings.TrimSpace(m.ta.Value())
		if w == "" {
			m.status = "paste: empty"
			return m, nil
		}
		n, err := geom.ParseWKT(w)
		if err != nil {
			m.status = "wkt error: " + err.Error()
			return m, nil
		}
		if m.radar != nil {
			m.radar = nil
			m.attach(m.geo)
		}
		m.selPath = ""
		m.hoverTag = nil
		m.geo.SetGeoData([]*geom.Node{n})
		m.resetView()
		m.status = "rendered WKT: " + n.Kind.String()
		m.pasteMode = false
		m.ta.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.ta, cmd = m.ta.Update(msg)
	return m, cmd
}

// handleKey runs a global key binding and reports whether key was one.
func (m *Model) handleKey(key string) (tea.Cmd, bool) {
	switch key {
	case "ctrl+c", "q":
		return tea.Quit, true
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		i, _ := strconv.Atoi(key)
		m.clickLegend(i - 1)
	case "+", "=":
		if m.radar == nil && m.zoom < 64 {
			m.zoom *= zoomStep
			m.geo.Scale().SetZoom(m.zoom)
			m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
		}
	case "-", "_":
		if m.radar == nil && m.zoom > 0.05 {
			m.zoom /= zoomStep
			m.geo.Scale().SetZoom(m.zoom)
			m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
		}
	case "0":
		if m.radar == nil {
			m.resetView()
			m.status = "view reset"
		}
	case "up", "down", "left", "right":
		m.pan(key)
	case "tab":
		m.showSidebar = !m.showSidebar
		if m.showSidebar {
			m.refreshDir()
			m.l.SetSize(sidebarWidth-2, m.layout().contentH-2)
		}
	case "p":
		m.pasteMode = true
		m.ta.SetValue("")
		m.status = "paste mode"
		return m.ta.Focus(), true
	case "h":
		m.helpVisible = !m.helpVisible
	case "l":
		m.showLegend = !m.showLegend
	case "c":
		if m.legendMode == maps.LegendDefault {
			m.legendMode = maps.LegendCategories
			m.status = "legend: categories"
		} else {
			m.legendMode = maps.LegendDefault
			m.status = "legend: series"
		}
	case "a":
		m.showAttrs = !m.showAttrs
		if m.showAttrs {
			m.refreshAttrs()
		}
	case "i":
		if s := m.inspect(); s != "" {
			m.inspectPopup = s
			m.status = "inspect popup"
		} else {
			m.inspectPopup = "no region under the pointer"
			m.status = m.inspectPopup
		}
	case "esc":
		m.inspectPopup = ""
	case "enter":
		if !m.showSidebar {
			return nil, false
		}
		if it, ok := m.l.SelectedItem().(fileItem); ok {
			return m.loadPath(it.path), true
		}
	default:
		return nil, false
	}
	return nil, true
}

// pan moves the map, or rotates a radar chart with left and right.
func (m *Model) pan(key string) {
	if m.radar != nil {
		switch key {
		case "left":
			m.radar.SetStartAngle(m.radar.StartAngle() - angleStep)
		case "right":
			m.radar.SetStartAngle(m.radar.StartAngle() + angleStep)
		}
		m.status = fmt.Sprintf("start angle: %g", m.radar.StartAngle())
		return
	}
	switch key {
	case "up":
		m.offsetY += panStep
	case "down":
		m.offsetY -= panStep
	case "left":
		m.offsetX += panStep
	case "right":
		m.offsetX -= panStep
	}
	m.geo.Scale().SetOffset(m.offsetX, m.offsetY)
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	lay := m.layout()
	cx, cy, inside := lay.cell(msg.X, msg.Y)
	li := -1
	if inside {
		li = m.legendAt(lay, cx, cy)
	}
	m.hoverLegend(li)
	if li >= 0 {
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			m.clickLegend(li)
		}
		return
	}
	var tag *graphics.Tag
	if inside {
		tag = m.cv.owner(cx, cy)
	}
	m.hoverHasGeo = false
	if inside && m.radar == nil {
		m.hoverLon, m.hoverLat, m.hoverHasGeo = m.cellToGeo(cx, cy)
	}
	if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && inside {
		m.click(tag)
		return
	}
	m.hover(tag)
}

// hover moves the highlight to what tag points at.
func (m *Model) hover(tag *graphics.Tag) {
	if sameTag(tag, m.hoverTag) {
		return
	}
	prev := m.hoverTag
	m.hoverTag = tag
	if m.radar != nil {
		if h := highlighter(prev); h != nil {
			h.Unhover()
		}
		if h := highlighter(tag); h != nil {
			if tag.Global {
				h.HoverSeries()
			} else {
				h.HoverPoint(tag.Index)
			}
		}
		return
	}
	if tag == nil {
		m.geo.HandleMouseOut(prev)
		return
	}
	m.geo.HandleMouseOverAndMove(tag)
	if m.showAttrs {
		m.refreshAttrs()
	}
}

func highlighter(tag *graphics.Tag) series.Highlighter {
	if tag == nil {
		return nil
	}
	h, _ := tag.Series.(series.Highlighter)
	return h
}

func (m *Model) click(tag *graphics.Tag) {
	if m.radar != nil {
		return
	}
	m.geo.HandleMouseClick(tag)
	if r := m.geo.RegionAt(tag); r != nil {
		m.status = "toggled selection: " + r.ID()
	} else {
		m.status = "selection cleared"
	}
}

func (m Model) legendItems() []series.LegendItem {
	if m.radar != nil {
		return m.radar.LegendItems()
	}
	return m.geo.LegendItems(m.legendMode)
}

// hoverLegend moves the legend highlight to item i; -1 clears it.
func (m *Model) hoverLegend(i int) {
	if i == m.legendHover {
		return
	}
	items := m.legendItems()
	if m.radar == nil && m.legendHover >= 0 && m.legendHover < len(items) {
		m.geo.LegendItemOut(items[m.legendHover])
	}
	m.legendHover = i
	if i < 0 || i >= len(items) {
		return
	}
	if m.radar == nil {
		m.hover(nil)
		m.geo.LegendItemOver(items[i])
	}
}

// clickLegend acts on legend item i like a legend click.
func (m *Model) clickLegend(i int) {
	items := m.legendItems()
	if i < 0 || i >= len(items) {
		return
	}
	item := items[i]
	if m.radar == nil {
		m.geo.LegendItemClick(item)
		m.status = "legend: " + item.Text
		return
	}
	type toggler interface {
		Enabled() bool
		SetEnabled(bool)
	}
	if t, ok := m.radar.GetSeries(item.Index).(toggler); ok {
		t.SetEnabled(!t.Enabled())
		m.status = fmt.Sprintf("%s enabled: %v", item.Text, t.Enabled())
	}
}

// inspect describes the region under the pointer.
func (m Model) inspect() string {
	if m.radar != nil || m.hoverTag == nil {
		return ""
	}
	r := m.geo.RegionAt(m.hoverTag)
	if r == nil {
		return ""
	}
	lines := []string{
		"id: " + r.ID(),
		"kind: " + r.Node.Kind.String(),
	}
	keys := make([]string, 0, len(r.Node.Properties))
	for k := range r.Node.Properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s: %s", k, formatCell(r.Node.Properties[k])))
	}
	if s, ok := m.hoverTag.Series.(maps.Series); ok {
		if title, body, ok := s.Base().TooltipContent(m.hoverTag.Index); ok {
			lines = append(lines, "", title, body)
		}
	}
	if m.hoverHasGeo {
		lines = append(lines, fmt.Sprintf("pointer: x=%.5f y=%.5f", m.hoverLon, m.hoverLat))
	}
	return strings.Join(lines, "\n")
}
