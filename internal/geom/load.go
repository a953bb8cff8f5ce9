package geom

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Extensions lists the file types Load understands.
var Extensions = []string{".geojson", ".json", ".wkt", ".csv", ".kml"}

// Supported reports whether Load can read path.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Load reads a geometry file, choosing the parser by extension.
func Load(path string) ([]*Node, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".geojson", ".json":
		return LoadGeoJSON(path)
	case ".csv":
		return LoadCSV(path)
	case ".kml":
		return LoadKML(path)
	case ".wkt":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		n, err := ParseWKT(string(data))
		if err != nil {
			return nil, err
		}
		return []*Node{n}, nil
	}
	return nil, fmt.Errorf("unsupported file: %s", ext)
}
