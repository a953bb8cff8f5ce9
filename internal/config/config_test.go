package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Errorf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_ParseError(t *testing.T) {
	p := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(p, []byte("chart: [unclosed"), 0644))
	_, err := Load(p)
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("GEOCHART_GEODATA", "/tmp/world.geojson")
	t.Setenv("GEOCHART_WIDTH", "1024")
	t.Setenv("GEOCHART_HEIGHT", "not-a-number")

	cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "/tmp/world.geojson", cfg.Map.GeoData)
	assert.Equal(t, 1024, cfg.Chart.Width)
	assert.Equal(t, 600, cfg.Chart.Height)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Chart.Type = ChartRadar
	cfg.Radar.Categories = []string{"a", "b"}
	cfg.Radar.Series = []SeriesConfig{{Type: "area", Name: "s1"}}

	p := filepath.Join(t.TempDir(), "nested", "geochart.yaml")
	require.NoError(t, cfg.Save(p))
	got, err := Load(p)
	require.NoError(t, err)
	if diff := cmp.Diff(cfg, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"radar", func(c *Config) { c.Chart.Type = "Radar" }, ""},
		{"unknown chart", func(c *Config) { c.Chart.Type = "pie" }, "unknown chart type"},
		{"zero width", func(c *Config) { c.Chart.Width = 0 }, "invalid chart size"},
		{"orientation", func(c *Config) { c.Map.ColorRange.Orientation = "left" }, "orientation"},
		{"stack mode", func(c *Config) { c.Radar.StackMode = "percent" }, "invalid stack mode"},
		{"color scale", func(c *Config) {
			c.Map.Series = []SeriesConfig{{ColorScale: &ColorScaleConfig{Type: "log"}}}
		}, "invalid color scale type"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
	cfg := DefaultConfig()
	cfg.Chart.Type = "pie"
	assert.ErrorIs(t, cfg.Validate(), ErrUnknownChart)
}

func f64(v float64) *float64 { return &v }

func TestMapSetup(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Map.Palette = []string{"#ff0000"}
	cfg.Map.Series = []SeriesConfig{
		{Name: "plain", Data: []map[string]any{{"id": "a", "value": 1}}},
		{
			Type:   "Choropleth",
			Labels: true,
			ColorScale: &ColorScaleConfig{
				Type: "ordinal",
				Ranges: []RangeConfig{
					{To: f64(5), Name: "low", Color: "#00ff00"},
					{From: f64(5), Name: "high"},
				},
			},
		},
	}

	tree, err := cfg.MapSetup()
	require.NoError(t, err)
	want := map[string]any{"map": map[string]any{
		"idField":  "id",
		"geoScale": map[string]any{"zoom": 1.0},
		"unboundRegions": map[string]any{
			"enabled": true,
			"fill":    "#f7f7f7",
			"stroke":  "#e0e0e0",
		},
		"colorRange": map[string]any{
			"enabled":     false,
			"orientation": "bottom",
			"length":      0.5,
		},
		"palette": []any{"#ff0000"},
		"series": []any{
			map[string]any{
				"seriesType": "choropleth",
				"name":       "plain",
				"data":       []any{map[string]any{"id": "a", "value": 1}},
			},
			map[string]any{
				"seriesType": "choropleth",
				"labels":     true,
				"data":       []any{},
				"colorScale": 0,
			},
		},
		"colorScales": []any{
			map[string]any{
				"type": "ordinalcolor",
				"ranges": []any{
					map[string]any{"to": 5.0, "name": "low", "color": "#00ff00"},
					map[string]any{"from": 5.0, "name": "high"},
				},
			},
		},
	}}
	if diff := cmp.Diff(want, tree); diff != "" {
		t.Errorf("MapSetup mismatch (-want +got):\n%s", diff)
	}
}

func TestRadarSetup(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Radar.StartAngle = 90
	cfg.Radar.Categories = []string{"x", "y"}
	cfg.Radar.Series = []SeriesConfig{{Color: "#123456"}}

	tree, err := cfg.RadarSetup()
	require.NoError(t, err)
	want := map[string]any{"chart": map[string]any{
		"startAngle": 90.0,
		"xScale":     map[string]any{"type": "ordinal", "values": []any{"x", "y"}},
		"yScale":     map[string]any{"type": "linear", "stackMode": "none"},
		"series": []any{
			map[string]any{"seriesType": "line", "color": "#123456", "data": []any{}},
		},
	}}
	if diff := cmp.Diff(want, tree); diff != "" {
		t.Errorf("RadarSetup mismatch (-want +got):\n%s", diff)
	}
}

func TestSeriesRows_FromSheet(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"id", "value"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"a", 4}))
	p := filepath.Join(t.TempDir(), "rows.xlsx")
	require.NoError(t, f.SaveAs(p))

	rows, err := SeriesConfig{DataFile: p, Sheet: "Sheet1"}.rows()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, map[string]any{"id": "a", "value": 4.0}, rows[0])

	_, err = SeriesConfig{DataFile: filepath.Join(t.TempDir(), "none.xlsx")}.rows()
	assert.ErrorContains(t, err, "series data")
}
