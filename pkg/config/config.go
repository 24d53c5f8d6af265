// Package config loads the quiz configuration from config.yaml, falling
// back to config.yaml.example when no local config exists.
package config

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Config holds all runtime settings.
type Config struct {
	Quiz struct {
		DataFile     string `yaml:"data_file"`
		CanvasWidth  int    `yaml:"canvas_width"`
		CanvasHeight int    `yaml:"canvas_height"`
		Seed         int64  `yaml:"seed"`
	} `yaml:"quiz"`
	PostGIS struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Database string `yaml:"database"`
	} `yaml:"postgis"`
}

// Default returns the configuration used when no file overrides it.
func Default() Config {
	var cfg Config
	cfg.Quiz.DataFile = "data/africa.geojson"
	cfg.Quiz.CanvasWidth = 800
	cfg.Quiz.CanvasHeight = 600
	cfg.PostGIS.Host = "localhost"
	cfg.PostGIS.Port = 5432
	cfg.PostGIS.User = "postgres"
	cfg.PostGIS.Database = "geodb"
	return cfg
}

// Load reads the configuration file at path. A missing file is not an
// error: defaults are returned, optionally overlaid with the .example
// file next to it.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		data, err = os.ReadFile(path + ".example")
		if err != nil {
			return cfg, nil
		}
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, eris.Wrapf(err, "config: parse %s", path)
	}
	return cfg, nil
}
