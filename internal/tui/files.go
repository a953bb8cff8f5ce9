package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"geochart/internal/geom"
)

type fileItem struct {
	title, desc string
	path        string
}

func (f fileItem) Title() string       { return f.title }
func (f fileItem) Description() string { return f.desc }
func (f fileItem) FilterValue() string { return f.title }

func (m *Model) refreshDir() {
	entries, err := os.ReadDir(m.cwd)
	if err != nil {
		m.status = "read dir error: " + err.Error()
		return
	}
	var items []list.Item
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !geom.Supported(name) {
			continue
		}
		items = append(items, fileItem{title: name, desc: strings.ToLower(filepath.Ext(name)), path: filepath.Join(m.cwd, name)})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].(fileItem).Title() < items[j].(fileItem).Title() })
	m.items = items
	m.l.SetItems(items)
	if len(items) == 0 {
		m.status = "no supported files in current directory"
	}
}

// loadPath hands a geo file to the map and starts watching it. The returned
// command waits for the first change when the watcher was just created.
func (m *Model) loadPath(p string) tea.Cmd {
	nodes, err := geom.Load(p)
	if err != nil {
		m.status = "load error: " + err.Error()
		return nil
	}
	m.selPath = p
	if m.radar != nil {
		m.radar = nil
		m.attach(m.geo)
	}
	m.geo.SetGeoData(nodes)
	m.resetView()
	m.hoverTag = nil
	m.status = fmt.Sprintf("loaded: %s  features=%d", filepath.Base(p), len(nodes))

	var cmd tea.Cmd
	if m.watcher == nil {
		w, err := NewWatcher()
		if err != nil {
			m.status += "  (watch: " + err.Error() + ")"
		} else {
			m.watcher = w
			cmd = w.Next()
		}
	}
	if m.watcher != nil {
		if err := m.watcher.Watch(p); err != nil {
			m.status += "  (watch: " + err.Error() + ")"
		}
	}
	if m.showAttrs {
		m.refreshAttrs()
	}
	return cmd
}

// reload re-reads the watched file after a write.
func (m *Model) reload(p string) {
	nodes, err := geom.Load(p)
	if err != nil {
		m.status = "reload error: " + err.Error()
		return
	}
	m.geo.SetGeoData(nodes)
	m.hoverTag = nil
	m.status = "reloaded: " + filepath.Base(p)
}

func (m *Model) resetView() {
	m.zoom = 1
	m.offsetX, m.offsetY = 0, 0
	m.geo.Scale().SetZoom(m.zoom)
	m.geo.Scale().SetOffset(0, 0)
}
