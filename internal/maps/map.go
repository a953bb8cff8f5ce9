// Package maps draws geo data and the choropleth series bound to it.
package maps

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"geochart/internal/geom"
	"geochart/internal/graphics"
	"geochart/internal/logging"
	"geochart/internal/palette"
	"geochart/internal/scale"
	"geochart/internal/signal"
)

// DefaultIDField is the row field matched against region ids.
const DefaultIDField = "id"

const (
	supportedStates = signal.Bounds | signal.Appearance | signal.MapSeries | signal.MapScale |
		signal.MapGeoData | signal.MapPalette | signal.MapMarkerPalette |
		signal.MapHatchFillPalette | signal.MapColorRange | signal.ChartLegend
	supportedSignals = signal.NeedsRedraw | signal.BoundsChanged | signal.NeedUpdateLegend
)

// Map owns geo data, the regions drawn from it and the series coloring
// them.
type Map struct {
	signal.Dispatcher

	uid         string
	defaultType string
	series      []Series
	hovered     Series

	geoData any
	idField string
	nodes   []*geom.Node
	regions []*Region
	pool    *Pool

	palette    *palette.Distinct
	markers    *palette.Markers
	hatches    *palette.HatchFills
	colorRange *ColorRange
	unbound    *UnboundRegions
	scale      *scale.Geo

	bounds graphics.Rect
	root   *graphics.Layer
	layer  *graphics.Layer
	labels *graphics.Layer
}

// New returns an empty map.
func New() *Map {
	m := &Map{
		uid:         uuid.NewString(),
		defaultType: "choropleth",
		idField:     DefaultIDField,
		pool:        NewPool(),
		palette:     palette.NewDistinct(),
		markers:     palette.NewMarkers(),
		hatches:     palette.NewHatchFills(),
		colorRange:  NewColorRange(),
		unbound:     NewUnboundRegions(),
		scale:       scale.NewGeo(),
		root:        graphics.NewLayer(),
		layer:       graphics.NewLayer(),
		labels:      graphics.NewLayer(),
	}
	m.Init(m, supportedStates, supportedSignals)
	m.layer.SetParent(m.root)
	m.labels.SetZIndex(10)
	m.labels.SetParent(m.root)

	m.Forward(m.scale, GeoScaleRule)
	m.Forward(m.palette, PaletteRule)
	m.Forward(m.markers, MarkerPaletteRule)
	m.Forward(m.hatches, HatchFillPaletteRule)
	m.Forward(m.colorRange, ColorRangeRule)
	m.Forward(m.unbound, UnboundRule)
	m.Invalidate(signal.AllState, signal.NoSignal)
	return m
}

func (m *Map) UID() string                       { return m.uid }
func (m *Map) Layer() *graphics.Layer            { return m.root }
func (m *Map) Scale() *scale.Geo                 { return m.scale }
func (m *Map) Palette() *palette.Distinct        { return m.palette }
func (m *Map) MarkerPalette() *palette.Markers   { return m.markers }
func (m *Map) HatchPalette() *palette.HatchFills { return m.hatches }
func (m *Map) ColorRange() *ColorRange           { return m.colorRange }
func (m *Map) UnboundRegions() *UnboundRegions   { return m.unbound }
func (m *Map) Regions() []*Region                { return m.regions }
func (m *Map) Pool() *Pool                       { return m.pool }

func (m *Map) IDField() string { return m.idField }

// SetIDField changes the row field matched against region ids.
func (m *Map) SetIDField(f string) {
	if f == "" {
		f = DefaultIDField
	}
	if f == m.idField {
		return
	}
	m.idField = f
	m.invalidateSeriesData()
	m.Invalidate(signal.MapSeries|signal.Appearance|signal.MapColorRange, signal.NeedsRedraw)
}

// SetGeoData replaces the geo data: GeoJSON or WKT text as string or bytes,
// or already parsed nodes. Parsing is deferred to the next draw.
func (m *Map) SetGeoData(v any) {
	m.geoData = v
	m.Invalidate(signal.MapScale|signal.MapGeoData|signal.MapSeries|signal.MapColorRange|
		signal.MapHatchFillPalette|signal.Appearance, signal.NeedsRedraw)
}

// GeoData returns what SetGeoData received.
func (m *Map) GeoData() any { return m.geoData }

func parseGeoData(v any) ([]*geom.Node, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case []*geom.Node:
		return t, nil
	case *geom.Node:
		return []*geom.Node{t}, nil
	case []byte:
		return parseGeoText(string(t))
	case string:
		return parseGeoText(t)
	}
	return nil, fmt.Errorf("maps: unsupported geo data %T", v)
}

func parseGeoText(s string) ([]*geom.Node, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "{") {
		return geom.ParseGeoJSON([]byte(s))
	}
	n, err := geom.ParseWKT(s)
	if err != nil {
		return nil, err
	}
	return []*geom.Node{n}, nil
}

// ProcessGeoData parses the pending geo data into regions. Invalid data
// leaves the map empty and is reported on the warning channel.
func (m *Map) ProcessGeoData() error {
	m.Clear()
	m.regions = nil
	nodes, err := parseGeoData(m.geoData)
	if err != nil {
		logging.Warn(logging.GeoDataInvalid, zap.Error(err))
		nodes = nil
	}
	m.nodes = nodes
	for _, n := range nodes {
		m.regions = append(m.regions, &Region{Node: n, handle: -1})
	}
	m.invalidateSeriesData()
	m.Invalidate(signal.Bounds|signal.MapScale, signal.NoSignal)
	m.MarkConsistent(signal.MapGeoData)
	if err != nil {
		return fmt.Errorf("process geo data: %w", err)
	}
	return nil
}

func (m *Map) invalidateSeriesData() {
	for _, s := range m.series {
		s.Base().Invalidate(signal.SeriesData, signal.NoSignal)
	}
}

// Clear returns every region path to the pool.
func (m *Map) Clear() {
	m.pool.ReleaseAll()
	for _, r := range m.regions {
		r.Path, r.handle = nil, -1
	}
	m.labels.RemoveChildren()
}

// Calculate brings geo data, the projection extent and series bindings up
// to date. Each step runs only when stale.
func (m *Map) Calculate() {
	if m.HasInvalidationState(signal.MapGeoData) {
		_ = m.ProcessGeoData()
	}
	if m.HasInvalidationState(signal.MapScale) {
		m.scale.StartAutoCalc()
		for _, n := range m.nodes {
			geom.Iterate(n, func(x, y float64, _ geom.Op) {
				m.scale.ExtendDataRangeX(x)
				m.scale.ExtendDataRangeY(y)
			})
		}
		m.scale.FinishAutoCalc()
		m.MarkConsistent(signal.MapScale)
		m.Invalidate(signal.Bounds, signal.NoSignal)
	}
	for _, s := range m.series {
		if s.Base().HasInvalidationState(signal.SeriesData) {
			s.Calculate()
			m.Invalidate(signal.MapSeries|signal.Appearance|signal.MapColorRange, signal.NoSignal)
		}
	}
}

// CreateSeriesByType adds a series by case-insensitive type name. Unknown
// types are reported and yield nil without touching the series list.
func (m *Map) CreateSeriesByType(typ string, rows any) Series {
	if typ == "" {
		typ = m.defaultType
	}
	ctor, ok := seriesTypes[strings.ToLower(typ)]
	if !ok {
		logging.Error(logging.NoFeatureInModule, zap.String("feature", "map series "+typ))
		return nil
	}
	s := ctor(m)
	c := s.Base()
	i := len(m.series)
	c.SetIndex(i)
	c.SetAutoColor(m.palette.ColorAt(i))
	c.SetAutoMarkerType(m.markers.MarkerAt(i))
	c.SetAutoHatchFill(m.hatches.HatchFillAt(i))
	if rows != nil {
		c.SetData(rows)
	}
	m.Forward(c, SeriesRule)
	m.series = append(m.series, s)
	m.Invalidate(signal.MapSeries|signal.ChartLegend|signal.Appearance|signal.MapColorRange,
		signal.NeedsRedraw|signal.NeedUpdateLegend)
	return s
}

// Choropleth adds a choropleth series.
func (m *Map) Choropleth(rows any) *Choropleth {
	return m.CreateSeriesByType("choropleth", rows).(*Choropleth)
}

func (m *Map) SeriesCount() int { return len(m.series) }

// GetSeries returns series i or nil.
func (m *Map) GetSeries(i int) Series {
	if i < 0 || i >= len(m.series) {
		return nil
	}
	return m.series[i]
}

// SeriesByUID finds a series by its id.
func (m *Map) SeriesByUID(uid string) Series {
	for _, s := range m.series {
		if s.Base().UID() == uid {
			return s
		}
	}
	return nil
}

// RemoveSeries disposes series i and reindexes the rest.
func (m *Map) RemoveSeries(i int) {
	if i < 0 || i >= len(m.series) {
		return
	}
	s := m.series[i]
	for _, r := range s.BoundRegions() {
		if r.Path != nil {
			r.Path.RemoveAllListeners()
			r.Path.SetTag(nil)
		}
	}
	if m.hovered == s {
		m.hovered = nil
	}
	if m.colorRange.Target() == s {
		m.colorRange.SetTarget(nil)
	}
	s.Dispose()
	m.series = append(m.series[:i], m.series[i+1:]...)
	for k, rest := range m.series {
		rest.Base().SetIndex(k)
	}
	m.Invalidate(autoStyles|signal.MapSeries|signal.ChartLegend|signal.Appearance|signal.MapColorRange,
		signal.NeedsRedraw|signal.NeedUpdateLegend)
}

// colorRangeTarget is the first series with a color scale.
func (m *Map) colorRangeTarget() Series {
	for _, s := range m.series {
		if s.ColorScale() != nil {
			return s
		}
	}
	return nil
}

// DrawContent brings every stale part of the map up to date inside bounds.
func (m *Map) DrawContent(bounds graphics.Rect) {
	if bounds != m.bounds {
		m.bounds = bounds
		m.Invalidate(signal.Bounds, signal.NoSignal)
	}
	if m.HasInvalidationState(signal.MapPalette) {
		for i, s := range m.series {
			s.Base().SetAutoColor(m.palette.ColorAt(i))
		}
		m.MarkConsistent(signal.MapPalette)
		m.Invalidate(signal.MapSeries, signal.NoSignal)
	}
	if m.HasInvalidationState(signal.MapMarkerPalette) {
		for i, s := range m.series {
			s.Base().SetAutoMarkerType(m.markers.MarkerAt(i))
		}
		m.MarkConsistent(signal.MapMarkerPalette)
	}
	if m.HasInvalidationState(signal.MapHatchFillPalette) {
		for i, s := range m.series {
			s.Base().SetAutoHatchFill(m.hatches.HatchFillAt(i))
		}
		m.MarkConsistent(signal.MapHatchFillPalette)
		m.Invalidate(signal.MapSeries, signal.NoSignal)
	}
	m.colorRange.SetTarget(m.colorRangeTarget())

	m.Calculate()

	if m.HasInvalidationState(signal.Bounds) {
		plot := m.colorRange.ReserveBounds(m.bounds)
		m.scale.SetBounds(plot)
		m.Clear()
		for _, r := range m.regions {
			r.handle = m.pool.Acquire(m.layer)
			r.Path = m.pool.Path(r.handle)
			trace(r.Path, r.Node, m.scale)
		}
		m.invalidateSeriesData()
		m.Calculate()
		m.MarkConsistent(signal.Bounds)
		m.Invalidate(signal.Appearance|signal.MapSeries|signal.MapColorRange, signal.NoSignal)
	}
	if m.HasInvalidationState(signal.Appearance) {
		bound := map[*Region]bool{}
		for _, s := range m.series {
			if !s.Base().Enabled() {
				continue
			}
			for _, r := range s.BoundRegions() {
				bound[r] = true
			}
		}
		for _, r := range m.regions {
			if r.Path != nil && !bound[r] {
				r.Path.RemoveAllListeners()
				r.Path.SetTag(nil)
				m.unbound.apply(r.Path)
			}
		}
		m.MarkConsistent(signal.Appearance)
		m.Invalidate(signal.MapSeries, signal.NoSignal)
	}
	if m.HasInvalidationState(signal.MapSeries) {
		m.labels.RemoveChildren()
		for _, s := range m.series {
			s.Draw()
		}
		m.MarkConsistent(signal.MapSeries)
	}
	if m.HasInvalidationState(signal.MapColorRange) {
		m.colorRange.Draw(m.root)
		m.MarkConsistent(signal.MapColorRange)
	}
	m.MarkConsistent(signal.ChartLegend)
}

// Draw renders the map into bounds. Signals raised while drawing are
// dropped.
func (m *Map) Draw(bounds graphics.Rect) {
	m.Suspend()
	defer m.Resume(false)
	m.DrawContent(bounds)
}

// Bounds returns the bounds of the last draw.
func (m *Map) Bounds() graphics.Rect { return m.bounds }

// seriesOf resolves a tag to one of the map's series and a row index.
func (m *Map) seriesOf(tag *graphics.Tag) (Series, int) {
	if tag == nil {
		return nil, -1
	}
	s, ok := tag.Series.(Series)
	if !ok {
		return nil, -1
	}
	for _, own := range m.series {
		if own == s {
			if tag.Global {
				return s, -1
			}
			return s, tag.Index
		}
	}
	return nil, -1
}

// HandleMouseOverAndMove highlights what tag points at and moves the color
// range marker to its value.
func (m *Map) HandleMouseOverAndMove(tag *graphics.Tag) {
	s, i := m.seriesOf(tag)
	ev := graphics.Event{Type: graphics.MouseOver}
	if m.hovered != nil && m.hovered != s {
		m.hovered.Base().HandlePointerOut(nil, graphics.Event{Type: graphics.MouseOut})
	}
	m.hovered = s
	if s == nil {
		m.colorRange.HideMarker()
		return
	}
	s.Base().HandlePointerOver(tag, ev)
	if i >= 0 && s == m.colorRange.Target() {
		if row := s.Base().Data().Row(i); row != nil {
			m.colorRange.ShowMarker(row["value"])
			return
		}
	}
	m.colorRange.HideMarker()
}

// HandleMouseOut drops any highlight.
func (m *Map) HandleMouseOut(tag *graphics.Tag) {
	s, _ := m.seriesOf(tag)
	if s == nil {
		s = m.hovered
	}
	if s != nil {
		s.Base().HandlePointerOut(tag, graphics.Event{Type: graphics.MouseOut})
	}
	m.hovered = nil
	m.colorRange.HideMarker()
}

// HandleMouseClick toggles the selection of the clicked row. A click that
// hits no series clears every selection.
func (m *Map) HandleMouseClick(tag *graphics.Tag) {
	s, i := m.seriesOf(tag)
	if s == nil || i < 0 {
		for _, each := range m.series {
			each.UnselectAll()
		}
		return
	}
	s.Base().HandleClick(tag, graphics.Event{Type: graphics.MouseClick})
	s.SelectPoint(i)
}

// RegionAt returns the region bound to the row tag points at, or nil.
func (m *Map) RegionAt(tag *graphics.Tag) *Region {
	s, i := m.seriesOf(tag)
	c, ok := s.(*Choropleth)
	if !ok || i < 0 {
		return nil
	}
	return c.bound[i]
}
