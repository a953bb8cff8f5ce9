package config

import (
	"fmt"
	"strings"

	"geochart/internal/data"
)

// rows returns the inline rows or the rows of the configured sheet.
func (s SeriesConfig) rows() ([]any, error) {
	if s.DataFile != "" {
		v, err := data.LoadXLSX(s.DataFile, s.Sheet)
		if err != nil {
			return nil, fmt.Errorf("series data %s: %w", s.DataFile, err)
		}
		return v.Serialize(), nil
	}
	out := make([]any, 0, len(s.Data))
	for _, r := range s.Data {
		out = append(out, r)
	}
	return out, nil
}

// tree returns the series setup keys shared by both chart types.
func (s SeriesConfig) tree(defaultType string) (map[string]any, error) {
	rows, err := s.rows()
	if err != nil {
		return nil, err
	}
	typ := s.Type
	if typ == "" {
		typ = defaultType
	}
	out := map[string]any{"seriesType": strings.ToLower(typ), "data": rows}
	if s.Name != "" {
		out["name"] = s.Name
	}
	if s.Color != "" {
		out["color"] = s.Color
	}
	if s.Fill != "" {
		out["fill"] = s.Fill
	}
	if s.Stroke != "" {
		out["stroke"] = s.Stroke
	}
	if s.Labels {
		out["labels"] = true
	}
	return out, nil
}

func (c *ColorScaleConfig) tree() map[string]any {
	out := map[string]any{"type": "linearcolor"}
	if strings.EqualFold(c.Type, "ordinal") {
		out["type"] = "ordinalcolor"
	}
	if len(c.Colors) > 0 {
		colors := make([]any, len(c.Colors))
		for i, col := range c.Colors {
			colors[i] = col
		}
		out["colors"] = colors
	}
	if len(c.Ranges) > 0 {
		ranges := make([]any, 0, len(c.Ranges))
		for _, r := range c.Ranges {
			m := map[string]any{}
			if r.From != nil {
				m["from"] = *r.From
			}
			if r.To != nil {
				m["to"] = *r.To
			}
			if r.Equal != nil {
				m["equal"] = r.Equal
			}
			if r.Name != "" {
				m["name"] = r.Name
			}
			if r.Color != "" {
				m["color"] = r.Color
			}
			ranges = append(ranges, m)
		}
		out["ranges"] = ranges
	}
	return out
}

// MapSetup returns the tree consumed by maps.Map.Setup. Geo data is loaded
// by the caller.
func (c *Config) MapSetup() (map[string]any, error) {
	m := c.Map
	series := make([]any, 0, len(m.Series))
	scales := make([]any, 0)
	for i, s := range m.Series {
		t, err := s.tree("choropleth")
		if err != nil {
			return nil, fmt.Errorf("map series %d: %w", i, err)
		}
		if s.ColorScale != nil {
			t["colorScale"] = len(scales)
			scales = append(scales, s.ColorScale.tree())
		}
		series = append(series, t)
	}
	tree := map[string]any{
		"idField": m.IDField,
		"geoScale": map[string]any{
			"zoom": m.Zoom,
		},
		"unboundRegions": map[string]any{
			"enabled": m.UnboundRegions.Enabled,
			"fill":    m.UnboundRegions.Fill,
			"stroke":  m.UnboundRegions.Stroke,
		},
		"colorRange": map[string]any{
			"enabled":     m.ColorRange.Enabled,
			"orientation": m.ColorRange.Orientation,
			"length":      m.ColorRange.Length,
		},
		"series":      series,
		"colorScales": scales,
	}
	if len(m.Palette) > 0 {
		tree["palette"] = toAny(m.Palette)
	}
	return map[string]any{"map": tree}, nil
}

// RadarSetup returns the tree consumed by radar.Chart.Setup.
func (c *Config) RadarSetup() (map[string]any, error) {
	r := c.Radar
	series := make([]any, 0, len(r.Series))
	for i, s := range r.Series {
		t, err := s.tree("line")
		if err != nil {
			return nil, fmt.Errorf("radar series %d: %w", i, err)
		}
		series = append(series, t)
	}
	xScale := map[string]any{"type": "ordinal"}
	if len(r.Categories) > 0 {
		xScale["values"] = toAny(r.Categories)
	}
	stack := strings.ToLower(r.StackMode)
	if stack == "" {
		stack = "none"
	}
	return map[string]any{"chart": map[string]any{
		"startAngle": r.StartAngle,
		"xScale":     xScale,
		"yScale":     map[string]any{"type": "linear", "stackMode": stack},
		"series":     series,
	}}, nil
}

func toAny(s []string) []any {
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = v
	}
	return out
}
