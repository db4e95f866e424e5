// Package config loads the session configuration that drives a drimon
// run: which record classes to request at startup and where to write
// decoded/raw output.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Session describes one monitoring session's startup requests and
// output destinations.
type Session struct {
	Displayed struct {
		IntervalSeconds uint16 `yaml:"interval_seconds"`
		RequestExt      bool   `yaml:"request_ext"`
	} `yaml:"displayed"`

	Trend60s struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"trend_60s"`

	Waveforms struct {
		Types []string `yaml:"types"`
	} `yaml:"waveforms"`

	Output struct {
		RawFrameLog string `yaml:"raw_frame_log"`
		CSVPath     string `yaml:"csv_path"`
		JSONPath    string `yaml:"json_path"`
	} `yaml:"output"`
}

// Load reads and parses a session config file.
func Load(path string) (*Session, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var s Session
	if err := yaml.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return &s, nil
}
