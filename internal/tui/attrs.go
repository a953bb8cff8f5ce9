package tui

import (
	"encoding/json"
	"fmt"
	"sort"

	table "github.com/charmbracelet/bubbles/table"

	"geochart/internal/data"
)

// rowSource is any series with rows, map and radar alike.
type rowSource interface {
	Data() *data.View
	DisplayName() string
}

// attrSource returns the hovered series, else the first one.
func (m *Model) attrSource() rowSource {
	if m.hoverTag != nil {
		if rs, ok := m.hoverTag.Series.(rowSource); ok {
			return rs
		}
	}
	var first any
	switch {
	case m.radar != nil && m.radar.SeriesCount() > 0:
		first = m.radar.GetSeries(0)
	case m.radar == nil && m.geo.SeriesCount() > 0:
		first = m.geo.GetSeries(0)
	}
	rs, _ := first.(rowSource)
	return rs
}

// refreshAttrs rebuilds the table from the rows of the current series.
func (m *Model) refreshAttrs() {
	rs := m.attrSource()
	if rs == nil {
		m.showAttrs = false
		m.status = "no series data"
		return
	}
	cols, rows := buildAttributes(rs.Data())
	// an empty table panics on render
	if len(cols) == 0 || len(rows) == 0 {
		m.showAttrs = false
		m.status = "no rows in " + rs.DisplayName()
		return
	}
	tcols := make([]table.Column, 0, len(cols)+1)
	tcols = append(tcols, table.Column{Title: "#", Width: 4})
	maxColW := 24
	for _, c := range cols {
		tcols = append(tcols, table.Column{Title: c, Width: min(len(c)+2, maxColW)})
	}
	trows := make([]table.Row, 0, len(rows))
	for i, r := range rows {
		row := make([]string, 0, len(r)+1)
		row = append(row, fmt.Sprintf("%d", i))
		row = append(row, r...)
		trows = append(trows, table.Row(row))
	}
	// clear rows first so columns and rows never mismatch
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(tcols)
	m.tbl.SetRows(trows)
	if m.hoverTag != nil && m.hoverTag.Index >= 0 && m.hoverTag.Index < len(trows) {
		m.tbl.SetCursor(m.hoverTag.Index)
	}
	m.status = "rows: " + rs.DisplayName()
}

// buildAttributes returns the union of row fields, sorted, and one cell per
// field and row.
func buildAttributes(v *data.View) ([]string, [][]string) {
	if v == nil {
		return nil, nil
	}
	seen := map[string]bool{}
	var cols []string
	for _, r := range v.Rows() {
		for k := range r {
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}
	sort.Strings(cols)
	rows := make([][]string, 0, v.RowsCount())
	for _, r := range v.Rows() {
		vals := make([]string, 0, len(cols))
		for _, k := range cols {
			vals = append(vals, formatCell(r[k]))
		}
		rows = append(rows, vals)
	}
	return cols, rows
}

func formatCell(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return fmt.Sprintf("%g", t)
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		bs, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(bs)
	}
}
