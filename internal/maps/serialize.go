package maps

import (
	"strings"

	"go.uber.org/zap"

	"geochart/internal/data"
	"geochart/internal/logging"
	"geochart/internal/scale"
)

// Serialize returns the map config tree. Color scales shared by several
// series are written once and referenced by index.
func (m *Map) Serialize() map[string]any {
	var scales []scale.Color
	list := make([]any, 0, len(m.series))
	for _, s := range m.series {
		cfg := s.Serialize()
		if cs := s.ColorScale(); cs != nil {
			idx := -1
			for i, known := range scales {
				if known == cs {
					idx = i
					break
				}
			}
			if idx < 0 {
				idx = len(scales)
				scales = append(scales, cs)
			}
			cfg["colorScale"] = idx
		}
		list = append(list, cfg)
	}
	scaleCfg := make([]any, 0, len(scales))
	for _, cs := range scales {
		scaleCfg = append(scaleCfg, cs.Serialize())
	}
	return map[string]any{"map": map[string]any{
		"type":             "map",
		"id":               m.uid,
		"idField":          m.idField,
		"palette":          m.palette.Serialize(),
		"markerPalette":    m.markers.Serialize(),
		"hatchFillPalette": m.hatches.Serialize(),
		"unboundRegions":   m.unbound.Serialize(),
		"colorRange":       m.colorRange.Serialize(),
		"geoScale":         m.scale.Serialize(),
		"series":           list,
		"colorScales":      scaleCfg,
	}}
}

// newColorScale builds a color scale from its config; linear is the
// default type.
func newColorScale(cfg map[string]any) scale.Color {
	typ, _ := cfg["type"].(string)
	switch strings.ToLower(typ) {
	case "ordinalcolor":
		s := scale.NewOrdinalColor()
		s.Setup(cfg)
		return s
	case "", "linearcolor":
		s := scale.NewLinearColor()
		s.Setup(cfg)
		return s
	}
	logging.Warn(logging.SetupInvalid, zap.String("setting", "colorScale"), zap.String("type", typ))
	return nil
}

// Setup applies a config tree, either wrapped in "map" or bare. Series are
// appended to the existing ones.
func (m *Map) Setup(cfg map[string]any) {
	if inner, ok := cfg["map"].(map[string]any); ok {
		cfg = inner
	}
	m.Suspend()
	defer m.Resume(true)

	if v, ok := cfg["id"].(string); ok && v != "" {
		m.uid = v
	}
	if v, ok := cfg["idField"].(string); ok {
		m.SetIDField(v)
	}
	if v, ok := cfg["geoData"]; ok {
		m.SetGeoData(v)
	}
	if v, ok := cfg["palette"]; ok {
		m.palette.Setup(v)
	}
	if v, ok := cfg["markerPalette"]; ok {
		m.markers.Setup(v)
	}
	if v, ok := cfg["hatchFillPalette"]; ok {
		m.hatches.Setup(v)
	}
	if v, ok := cfg["unboundRegions"]; ok {
		m.unbound.Setup(v)
	}
	if v, ok := cfg["colorRange"]; ok {
		m.colorRange.Setup(v)
	}
	if v, ok := cfg["geoScale"].(map[string]any); ok {
		m.scale.Setup(v)
	}

	var scales []scale.Color
	if list, ok := cfg["colorScales"].([]any); ok {
		for _, el := range list {
			sc, _ := el.(map[string]any)
			scales = append(scales, newColorScale(sc))
		}
	}
	list, _ := cfg["series"].([]any)
	for _, el := range list {
		sc, ok := el.(map[string]any)
		if !ok {
			continue
		}
		typ, _ := sc["seriesType"].(string)
		s := m.CreateSeriesByType(typ, nil)
		if s == nil {
			continue
		}
		s.Setup(sc)
		if f, ok := data.Number(sc["colorScale"]); ok {
			if i := int(f); i >= 0 && i < len(scales) && scales[i] != nil {
				s.SetColorScale(scales[i])
			}
		}
	}
}
