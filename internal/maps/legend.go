package maps

import (
	"geochart/internal/scale"
	"geochart/internal/series"
)

// LegendMode selects what legend items describe.
type LegendMode int

const (
	// LegendDefault lists one item per series.
	LegendDefault LegendMode = iota
	// LegendCategories lists one item per range of the first ordinal color
	// scale.
	LegendCategories
)

const rangeIndexKey = "rangeIndex"

// LegendItems returns the legend entries for mode. Categories mode falls back
// to per-series items when no series uses an ordinal color scale.
func (m *Map) LegendItems(mode LegendMode) []series.LegendItem {
	if mode == LegendCategories {
		if s, oc := m.categorySource(); s != nil {
			ranges := oc.ProcessedRanges()
			out := make([]series.LegendItem, 0, len(ranges))
			for i, r := range ranges {
				out = append(out, series.LegendItem{
					Index:      i,
					Text:       r.Name,
					IconType:   "square",
					IconFill:   r.Color,
					IconStroke: r.Color,
					Disabled:   !s.Base().Enabled(),
					SourceUID:  s.Base().UID(),
					Meta:       map[string]any{rangeIndexKey: i},
				})
			}
			return out
		}
	}
	out := make([]series.LegendItem, 0, len(m.series))
	for _, s := range m.series {
		out = append(out, s.Base().LegendItemData("square"))
	}
	return out
}

func (m *Map) categorySource() (*Choropleth, *scale.OrdinalColor) {
	for _, s := range m.series {
		c, ok := s.(*Choropleth)
		if !ok {
			continue
		}
		if oc, ok := c.ColorScale().(*scale.OrdinalColor); ok {
			return c, oc
		}
	}
	return nil, nil
}

func (m *Map) legendTarget(item series.LegendItem) (*Choropleth, int) {
	s, _ := m.SeriesByUID(item.SourceUID).(*Choropleth)
	ri, ok := item.Meta[rangeIndexKey].(int)
	if !ok {
		ri = -1
	}
	return s, ri
}

// LegendItemClick toggles the series of a default item, or the selection of
// every row in the range of a category item.
func (m *Map) LegendItemClick(item series.LegendItem) {
	s, ri := m.legendTarget(item)
	if s == nil {
		return
	}
	if ri < 0 {
		s.SetEnabled(!s.Enabled())
		return
	}
	for _, i := range s.RowsInRange(ri) {
		s.SelectPoint(i)
	}
}

// LegendItemOver highlights the series or the rows of the range.
func (m *Map) LegendItemOver(item series.LegendItem) {
	s, ri := m.legendTarget(item)
	if s == nil {
		return
	}
	if ri < 0 {
		s.HoverSeries()
		return
	}
	s.HoverPoints(s.RowsInRange(ri))
	m.colorRange.HideMarker()
}

// LegendItemOut removes the highlight.
func (m *Map) LegendItemOut(item series.LegendItem) {
	if s, _ := m.legendTarget(item); s != nil {
		s.Unhover()
	}
}
