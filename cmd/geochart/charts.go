package main

import (
	"fmt"

	"geochart/internal/config"
	"geochart/internal/geom"
	"geochart/internal/graphics"
	"geochart/internal/maps"
	"geochart/internal/radar"
)

// chart is what render and dump need from either chart type.
type chart interface {
	Draw(bounds graphics.Rect)
	Layer() *graphics.Layer
	Serialize() map[string]any
}

func buildChart(cfg *config.Config) (chart, error) {
	if cfg.IsRadar() {
		return buildRadar(cfg)
	}
	return buildMap(cfg)
}

// buildMap applies the map section and loads its geo file.
func buildMap(cfg *config.Config) (*maps.Map, error) {
	tree, err := cfg.MapSetup()
	if err != nil {
		return nil, err
	}
	m := maps.New()
	m.Setup(tree)
	if cfg.Map.GeoData != "" {
		nodes, err := geom.Load(cfg.Map.GeoData)
		if err != nil {
			return nil, fmt.Errorf("failed to load geo data: %w", err)
		}
		m.SetGeoData(nodes)
	}
	return m, nil
}

func buildRadar(cfg *config.Config) (*radar.Chart, error) {
	tree, err := cfg.RadarSetup()
	if err != nil {
		return nil, err
	}
	c := radar.NewChart()
	c.Setup(tree)
	return c, nil
}
