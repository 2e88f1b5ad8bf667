package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"aquaguard.ai/internal/sim/river"
)

type Tuning struct {
	ProtocolVersion string `yaml:"protocol_version"`

	StoryDays   int `yaml:"story_days"`
	MaxSessions int `yaml:"max_sessions"`
	HistoryTail int `yaml:"history_tail"`

	Coefficients river.Coefficients `yaml:"coefficients"`
}

// Defaults returns the shipped configuration: a 365-day story and the
// calibrated engine coefficients.
func Defaults() Tuning {
	return Tuning{
		ProtocolVersion: "1.0",
		StoryDays:       365,
		MaxSessions:     256,
		HistoryTail:     30,
		Coefficients:    river.DefaultCoefficients(),
	}
}

// Load reads tuning.yaml over Defaults, so a partial file overrides only
// the keys it names.
func Load(path string) (Tuning, error) {
	t := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}
