package tui

import (
	"os"

	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	textarea "github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"geochart/internal/graphics"
	"geochart/internal/maps"
	"geochart/internal/radar"
	"geochart/internal/signal"
)

// chart is what the viewer draws.
type chart interface {
	signal.Emitter
	Layer() *graphics.Layer
	Draw(bounds graphics.Rect)
}

type Model struct {
	width  int
	height int

	showSidebar bool
	helpVisible bool
	showLegend  bool

	status string

	// File explorer
	cwd     string
	l       list.Model
	items   []list.Item
	selPath string

	// Charts; radar wins when set
	geo   *maps.Map
	radar *radar.Chart
	cv    *canvas

	// geo scale view
	zoom    float64
	offsetX float64
	offsetY float64

	legendMode  maps.LegendMode
	legendHover int

	// paste mode
	pasteMode bool
	ta        textarea.Model

	// inspect popup
	inspectPopup string

	// hover state
	hoverTag    *graphics.Tag
	hoverHasGeo bool
	hoverLon    float64
	hoverLat    float64

	// series data table
	showAttrs bool
	tbl       table.Model

	watcher *Watcher
}

// New returns a viewer for geo. A nil map starts empty.
func New(geo *maps.Map) Model {
	if geo == nil {
		geo = maps.New()
	}
	m := Model{
		helpVisible: true,
		showLegend:  true,
		legendHover: -1,
		zoom:        geo.Scale().Zoom(),
		status:      "geochart ready",
		geo:         geo,
	}
	m.offsetX, m.offsetY = geo.Scale().Offset()
	m.attach(geo)
	m.cwd, _ = os.Getwd()
	// list setup
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	m.l = list.New(nil, d, 0, 0)
	m.l.Title = "Files"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)
	// textarea setup
	m.ta = textarea.New()
	m.ta.Placeholder = "Paste WKT here (POINT, LINESTRING, POLYGON, MULTI*, GEOMETRYCOLLECTION). Press Enter to render; Esc to cancel."
	m.ta.CharLimit = 0
	m.ta.SetWidth(50)
	m.ta.SetHeight(6)
	// table columns are inferred per series
	m.tbl = table.New(table.WithFocused(true))
	m.tbl.SetHeight(12)
	m.refreshDir()
	return m
}

// NewRadar returns a viewer for a radar chart.
func NewRadar(c *radar.Chart) Model {
	m := New(nil)
	m.radar = c
	m.attach(c)
	m.status = "radar ready"
	return m
}

// NewWithPath preloads a geo file at launch and watches it for changes.
func NewWithPath(geo *maps.Map, path string) Model {
	m := New(geo)
	m.loadPath(path)
	return m
}

// attach makes c the drawn chart. Its NeedsRedraw signals mark the canvas
// stale.
func (m *Model) attach(c chart) {
	cv := &canvas{dirty: true}
	c.Listen(func(ev signal.Event) {
		if ev.Has(signal.NeedsRedraw) {
			cv.dirty = true
		}
	})
	m.cv = cv
}

func (m Model) chart() chart {
	if m.radar != nil {
		return m.radar
	}
	return m.geo
}

func (m Model) Init() tea.Cmd {
	if m.watcher != nil {
		return m.watcher.Next()
	}
	return nil
}

// Close stops the file watcher.
func (m Model) Close() error {
	if m.watcher == nil {
		return nil
	}
	return m.watcher.Close()
}
