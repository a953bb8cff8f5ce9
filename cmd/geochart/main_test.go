package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geochart/internal/config"
	"geochart/internal/logging"
)

const squares = `{"type":"FeatureCollection","features":[
  {"type":"Feature","id":"a","properties":{"name":"Alpha"},
   "geometry":{"type":"Polygon","coordinates":[[[0,0],[2,0],[2,2],[0,2],[0,0]]]}},
  {"type":"Feature","id":"b","properties":{"name":"Beta"},
   "geometry":{"type":"Polygon","coordinates":[[[2,0],[4,0],[4,2],[2,2],[2,0]]]}}
]}`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "squares.geojson"), []byte(squares), 0644))
	p := filepath.Join(dir, "geochart.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0644))
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return p
}

const mapConfig = `chart:
  type: map
  width: 120
  height: 80
map:
  geo_data: squares.geojson
  series:
    - name: population
      data:
        - {id: a, value: 3}
        - {id: b, value: 9}
      color_scale:
        type: linear
        colors: ["#ffffff", "#0000ff"]
`

func execute(t *testing.T, args ...string) string {
	t.Helper()
	t.Cleanup(func() { logging.Set(nil) })
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestDump_Map(t *testing.T) {
	p := writeConfig(t, mapConfig)
	out := execute(t, "dump", "--config", p)

	var tree map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &tree))
	m, ok := tree["map"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "map", m["type"])
	assert.Equal(t, "id", m["idField"])
	series, _ := m["series"].([]any)
	require.Len(t, series, 1)
	scales, _ := m["colorScales"].([]any)
	assert.Len(t, scales, 1)
}

func TestRender_WritesPNG(t *testing.T) {
	p := writeConfig(t, mapConfig)
	png := filepath.Join(filepath.Dir(p), "out.png")
	execute(t, "render", "--config", p, "--out", png)

	b, err := os.ReadFile(png)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG"), b[:4])
}

func TestDump_Radar(t *testing.T) {
	p := writeConfig(t, `chart:
  type: radar
radar:
  start_angle: 45
  stack_mode: value
  categories: [speed, power, range]
  series:
    - type: area
      data:
        - {x: speed, value: 1}
        - {x: power, value: 2}
`)
	out := execute(t, "dump", "--config", p)

	var tree map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &tree))
	c, ok := tree["chart"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "radar", c["type"])
	assert.Equal(t, 45.0, c["startAngle"])
	series, _ := c["series"].([]any)
	require.Len(t, series, 1)
}

func TestBuildMap_MissingGeoData(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Map.GeoData = filepath.Join(t.TempDir(), "nope.geojson")
	_, err := buildMap(cfg)
	assert.ErrorContains(t, err, "failed to load geo data")
}

func TestViewerModel_RadarConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Chart.Type = config.ChartRadar
	m, err := viewerModel(cfg, nil)
	require.NoError(t, err)
	assert.NoError(t, m.Close())
}

func TestLoadConfig_Invalid(t *testing.T) {
	p := writeConfig(t, "chart:\n  type: pie\n")
	configPath = p
	_, err := loadConfig()
	assert.ErrorIs(t, err, config.ErrUnknownChart)
}
