package geom

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

// LoadGeoJSON reads a GeoJSON file into map nodes.
func LoadGeoJSON(path string) ([]*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseGeoJSON(data)
}

// ParseGeoJSON converts a FeatureCollection, Feature or bare geometry into
// one node per feature. Multi geometries stay a single node; a
// GeometryCollection becomes a collection node.
func ParseGeoJSON(data []byte) ([]*Node, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("geojson: %w", err)
	}
	parsePoint := func(v any) (pt [2]float64, ok bool) {
		if a, ok := v.([]any); ok && len(a) >= 2 {
			lon, lok := a[0].(float64)
			lat, aok := a[1].(float64)
			if lok && aok {
				return [2]float64{lon, lat}, true
			}
		}
		return [2]float64{}, false
	}
	parseArrayPoints := func(v any) (pts [][2]float64, ok bool) {
		arr, ok := v.([]any)
		if !ok {
			return nil, false
		}
		for _, el := range arr {
			if pt, ok := parsePoint(el); ok {
				pts = append(pts, pt)
			}
		}
		return pts, true
	}
	parseLines := func(v any) (m [][][2]float64, ok bool) {
		arr, ok := v.([]any)
		if !ok {
			return nil, false
		}
		for _, el := range arr {
			if ls, ok := parseArrayPoints(el); ok && len(ls) > 0 {
				m = append(m, ls)
			}
		}
		return m, true
	}
	parsePolygon := func(v any) (poly Polygon, ok bool) {
		rings, ok := parseLines(v)
		if !ok || len(rings) == 0 {
			return Polygon{}, false
		}
		return Polygon{Outer: rings[0], Holes: rings[1:]}, true
	}
	parseMultiPolygon := func(v any) (mp []Polygon, ok bool) {
		arr, ok := v.([]any)
		if !ok {
			return nil, false
		}
		for _, el := range arr {
			if poly, ok := parsePolygon(el); ok {
				mp = append(mp, poly)
			}
		}
		return mp, true
	}
	var walkGeom func(g map[string]any) *Node
	walkGeom = func(g map[string]any) *Node {
		gt, _ := g["type"].(string)
		switch gt {
		case "Point":
			if pt, ok := parsePoint(g["coordinates"]); ok {
				return &Node{Kind: KindPoint, Coordinates: [][2]float64{pt}}
			}
		case "MultiPoint":
			if pts, ok := parseArrayPoints(g["coordinates"]); ok && len(pts) > 0 {
				return &Node{Kind: KindPoint, Coordinates: pts}
			}
		case "LineString":
			if ls, ok := parseArrayPoints(g["coordinates"]); ok && len(ls) > 0 {
				return &Node{Kind: KindLine, Paths: [][][2]float64{ls}}
			}
		case "MultiLineString":
			if mls, ok := parseLines(g["coordinates"]); ok && len(mls) > 0 {
				return &Node{Kind: KindLine, Paths: mls}
			}
		case "Polygon":
			if poly, ok := parsePolygon(g["coordinates"]); ok {
				return &Node{Kind: KindPolygon, Polygons: []Polygon{poly}}
			}
		case "MultiPolygon":
			if mp, ok := parseMultiPolygon(g["coordinates"]); ok && len(mp) > 0 {
				return &Node{Kind: KindPolygon, Polygons: mp}
			}
		case "GeometryCollection":
			gs, _ := g["geometries"].([]any)
			c := &Node{Kind: KindCollection}
			for _, el := range gs {
				if gm, ok := el.(map[string]any); ok {
					if child := walkGeom(gm); child != nil {
						c.Geometries = append(c.Geometries, child)
					}
				}
			}
			if len(c.Geometries) > 0 {
				return c
			}
		}
		return nil
	}
	walkFeature := func(fm map[string]any) *Node {
		g, ok := fm["geometry"].(map[string]any)
		if !ok {
			return nil
		}
		n := walkGeom(g)
		if n == nil {
			return nil
		}
		n.Properties, _ = fm["properties"].(map[string]any)
		n.ID = featureID(fm)
		return n
	}

	var nodes []*Node
	t, _ := raw["type"].(string)
	switch t {
	case "Feature":
		if n := walkFeature(raw); n != nil {
			nodes = append(nodes, n)
		}
	case "FeatureCollection":
		if fs, ok := raw["features"].([]any); ok {
			for _, f := range fs {
				if fm, ok := f.(map[string]any); ok {
					if n := walkFeature(fm); n != nil {
						nodes = append(nodes, n)
					}
				}
			}
		}
	default:
		if n := walkGeom(raw); n != nil {
			nodes = append(nodes, n)
		}
	}
	if len(nodes) == 0 {
		return nil, ErrNoGeometry
	}
	return nodes, nil
}

// featureID prefers the feature id and falls back to common property keys.
func featureID(fm map[string]any) string {
	if s := idString(fm["id"]); s != "" {
		return s
	}
	props, _ := fm["properties"].(map[string]any)
	for _, k := range []string{"id", "iso_a2", "ISO_A2", "code", "name"} {
		if s := idString(props[k]); s != "" {
			return s
		}
	}
	return ""
}

func idString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	}
	return ""
}
