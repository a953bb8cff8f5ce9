// Package config loads the geochart YAML configuration and turns it into the
// setup trees consumed by maps.Map and radar.Chart.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnknownChart is returned for a chart type other than map or radar.
var ErrUnknownChart = errors.New("unknown chart type")

// Chart types.
const (
	ChartMap   = "map"
	ChartRadar = "radar"
)

// Config holds all geochart configuration.
type Config struct {
	Chart ChartConfig `yaml:"chart"`
	Map   MapConfig   `yaml:"map"`
	Radar RadarConfig `yaml:"radar"`
}

// ChartConfig selects and sizes the chart.
type ChartConfig struct {
	Type       string `yaml:"type"` // map, radar
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Background string `yaml:"background"`
}

// MapConfig configures a map chart.
type MapConfig struct {
	GeoData        string           `yaml:"geo_data"`
	IDField        string           `yaml:"id_field"`
	Palette        []string         `yaml:"palette,omitempty"`
	Zoom           float64          `yaml:"zoom"`
	UnboundRegions UnboundConfig    `yaml:"unbound_regions"`
	ColorRange     ColorRangeConfig `yaml:"color_range"`
	Series         []SeriesConfig   `yaml:"series"`
}

// UnboundConfig styles regions without data.
type UnboundConfig struct {
	Enabled bool   `yaml:"enabled"`
	Fill    string `yaml:"fill"`
	Stroke  string `yaml:"stroke"`
}

// ColorRangeConfig configures the color range strip.
type ColorRangeConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Orientation string  `yaml:"orientation"` // bottom, top
	Length      float64 `yaml:"length"`
}

// RadarConfig configures a radar chart.
type RadarConfig struct {
	StartAngle float64        `yaml:"start_angle"`
	StackMode  string         `yaml:"stack_mode"` // none, value
	Categories []string       `yaml:"categories,omitempty"`
	Series     []SeriesConfig `yaml:"series"`
}

// SeriesConfig is one series of either chart. Rows come inline or from an
// xlsx sheet.
type SeriesConfig struct {
	Type       string            `yaml:"type"`
	Name       string            `yaml:"name,omitempty"`
	Color      string            `yaml:"color,omitempty"`
	Fill       string            `yaml:"fill,omitempty"`
	Stroke     string            `yaml:"stroke,omitempty"`
	Labels     bool              `yaml:"labels,omitempty"`
	DataFile   string            `yaml:"data_file,omitempty"`
	Sheet      string            `yaml:"sheet,omitempty"`
	Data       []map[string]any  `yaml:"data,omitempty"`
	ColorScale *ColorScaleConfig `yaml:"color_scale,omitempty"`
}

// ColorScaleConfig configures the color scale of a map series.
type ColorScaleConfig struct {
	Type   string        `yaml:"type"` // linear, ordinal
	Colors []string      `yaml:"colors,omitempty"`
	Ranges []RangeConfig `yaml:"ranges,omitempty"`
}

// RangeConfig is one ordinal color range. Missing bounds are open.
type RangeConfig struct {
	From  *float64 `yaml:"from,omitempty"`
	To    *float64 `yaml:"to,omitempty"`
	Equal any      `yaml:"equal,omitempty"`
	Name  string   `yaml:"name,omitempty"`
	Color string   `yaml:"color,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Chart: ChartConfig{
			Type:       ChartMap,
			Width:      800,
			Height:     600,
			Background: "#ffffff",
		},
		Map: MapConfig{
			IDField: "id",
			Zoom:    1,
			UnboundRegions: UnboundConfig{
				Enabled: true,
				Fill:    "#f7f7f7",
				Stroke:  "#e0e0e0",
			},
			ColorRange: ColorRangeConfig{
				Orientation: "bottom",
				Length:      0.5,
			},
		},
		Radar: RadarConfig{
			StackMode: "none",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration as YAML, creating the directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if p := os.Getenv("GEOCHART_GEODATA"); p != "" {
		c.Map.GeoData = p
	}
	if v, err := strconv.Atoi(os.Getenv("GEOCHART_WIDTH")); err == nil {
		c.Chart.Width = v
	}
	if v, err := strconv.Atoi(os.Getenv("GEOCHART_HEIGHT")); err == nil {
		c.Chart.Height = v
	}
}

// Validate checks the chart type, the size and every series.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Chart.Type) {
	case ChartMap, ChartRadar:
	default:
		return fmt.Errorf("chart type %q: %w", c.Chart.Type, ErrUnknownChart)
	}
	if c.Chart.Width <= 0 || c.Chart.Height <= 0 {
		return fmt.Errorf("invalid chart size %dx%d", c.Chart.Width, c.Chart.Height)
	}
	switch strings.ToLower(c.Map.ColorRange.Orientation) {
	case "", "bottom", "top":
	default:
		return fmt.Errorf("invalid color range orientation: %s", c.Map.ColorRange.Orientation)
	}
	switch strings.ToLower(c.Radar.StackMode) {
	case "", "none", "value":
	default:
		return fmt.Errorf("invalid stack mode: %s (valid: none, value)", c.Radar.StackMode)
	}
	for i, s := range append(append([]SeriesConfig(nil), c.Map.Series...), c.Radar.Series...) {
		if s.ColorScale == nil {
			continue
		}
		switch strings.ToLower(s.ColorScale.Type) {
		case "", "linear", "ordinal":
		default:
			return fmt.Errorf("series %d: invalid color scale type: %s", i, s.ColorScale.Type)
		}
	}
	return nil
}

// IsRadar reports whether the configured chart is a radar chart.
func (c *Config) IsRadar() bool { return strings.EqualFold(c.Chart.Type, ChartRadar) }
