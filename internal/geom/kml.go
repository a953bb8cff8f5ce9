package geom

import (
	"encoding/xml"
	"errors"
	"os"
	"strconv"
	"strings"
)

type kmlCoords struct {
	Coordinates string `xml:"coordinates"`
}

type kmlBoundary struct {
	Ring kmlCoords `xml:"LinearRing"`
}

type kmlPolygon struct {
	Outer kmlBoundary   `xml:"outerBoundaryIs"`
	Inner []kmlBoundary `xml:"innerBoundaryIs"`
}

type kmlPlacemark struct {
	ID         string      `xml:"id,attr"`
	Name       string      `xml:"name"`
	Point      *kmlCoords  `xml:"Point"`
	LineString *kmlCoords  `xml:"LineString"`
	Polygon    *kmlPolygon `xml:"Polygon"`
}

// LoadKML reads Placemarks (Point, LineString, Polygon) from a KML file.
// KML coordinates are "lon,lat[,alt]"; altitude is ignored.
func LoadKML(path string) ([]*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseKML(data)
}

// ParseKML is LoadKML on an in-memory document.
func ParseKML(data []byte) ([]*Node, error) {
	var doc struct {
		Placemarks []kmlPlacemark `xml:"Document>Placemark"`
		Flat       []kmlPlacemark `xml:"Placemark"`
	}
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	var nodes []*Node
	for _, pm := range append(doc.Placemarks, doc.Flat...) {
		var n *Node
		switch {
		case pm.Point != nil:
			if pts := parseKMLCoords(pm.Point.Coordinates); len(pts) > 0 {
				n = &Node{Kind: KindPoint, Coordinates: pts}
			}
		case pm.LineString != nil:
			if pts := parseKMLCoords(pm.LineString.Coordinates); len(pts) > 0 {
				n = &Node{Kind: KindLine, Paths: [][][2]float64{pts}}
			}
		case pm.Polygon != nil:
			outer := parseKMLCoords(pm.Polygon.Outer.Ring.Coordinates)
			if len(outer) == 0 {
				continue
			}
			poly := Polygon{Outer: outer}
			for _, in := range pm.Polygon.Inner {
				if h := parseKMLCoords(in.Ring.Coordinates); len(h) > 0 {
					poly.Holes = append(poly.Holes, h)
				}
			}
			n = &Node{Kind: KindPolygon, Polygons: []Polygon{poly}}
		}
		if n == nil {
			continue
		}
		n.ID = pm.ID
		if n.ID == "" {
			n.ID = pm.Name
		}
		n.Properties = map[string]any{"name": pm.Name}
		nodes = append(nodes, n)
	}
	if len(nodes) == 0 {
		return nil, errors.New("kml: no placemarks found")
	}
	return nodes, nil
}

// parseKMLCoords splits whitespace separated "lon,lat[,alt]" tuples.
func parseKMLCoords(s string) [][2]float64 {
	var out [][2]float64
	for _, tuple := range strings.Fields(s) {
		vals := strings.Split(tuple, ",")
		if len(vals) < 2 {
			continue
		}
		lon, err1 := strconv.ParseFloat(strings.TrimSpace(vals[0]), 64)
		lat, err2 := strconv.ParseFloat(strings.TrimSpace(vals[1]), 64)
		if err1 != nil || err2 != nil {
			continue
		}
		out = append(out, [2]float64{lon, lat})
	}
	return out
}
