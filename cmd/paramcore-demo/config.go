package main

import (
	"os"

	"gopkg.in/yaml.v3"
)

// sessionConfig is the on-disk shape of the demo's YAML config file: the
// initial gain-kernel parameter values and a human-readable session name
// that, with a timestamp, forms the prefix of every log line. Logs go to
// stderr; no log file is written.
type sessionConfig struct {
	SessionName string  `yaml:"session_name"`
	GainDB      float32 `yaml:"gain_db"`
	Bypass      bool    `yaml:"bypass"`
	Curve       string  `yaml:"curve"` // "linear" | "soft_clip" | "hard_clip"
}

func defaultSessionConfig() sessionConfig {
	return sessionConfig{
		SessionName: "paramcore-demo",
		GainDB:      0,
		Bypass:      false,
		Curve:       "linear",
	}
}

func loadSessionConfig(path string) (sessionConfig, error) {
	cfg := defaultSessionConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return sessionConfig{}, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return sessionConfig{}, err
	}

	return cfg, nil
}

func (c sessionConfig) curveIndex() float32 {
	switch c.Curve {
	case "soft_clip":
		return 1
	case "hard_clip":
		return 2
	default:
		return 0
	}
}

func (c sessionConfig) bypassValue() float32 {
	if c.Bypass {
		return 1
	}
	return 0
}
