// Package config provides YAML-based engine configuration loading. A
// config file is flattened into the engine's consume-once option set;
// the engine itself never reads files.
package config

import (
	"fmt"

	"github.com/vovakirdan/pixelgym/internal/engine"
)

// EnvConfig is the YAML surface for one engine instance. Generic fields
// map onto the engine's shared options; Options carries title-specific
// tunables through untouched.
type EnvConfig struct {
	Env string `yaml:"env"`

	DistributionMode string `yaml:"distribution_mode"`
	NumLevels        int    `yaml:"num_levels"`
	StartLevel       int    `yaml:"start_level"`
	RandSeed         int    `yaml:"rand_seed"`

	UseSequentialLevels bool `yaml:"use_sequential_levels"`
	CenterAgent         bool `yaml:"center_agent"`
	UseBackgrounds      bool `yaml:"use_backgrounds"`
	UseGeneratedAssets  bool `yaml:"use_generated_assets"`
	UseMonochromeAssets bool `yaml:"use_monochrome_assets"`
	RestrictThemes      bool `yaml:"restrict_themes"`
	PaintVelInfo        bool `yaml:"paint_vel_info"`

	// Options holds title-specific tunables keyed by option name,
	// e.g. fruitbot_num_walls: 5.
	Options map[string]any `yaml:"options"`
}

// OptionSet flattens the config into the engine's option map. Every
// entry must be consumed during engine construction or construction
// aborts.
func (c *EnvConfig) OptionSet() (*engine.OptionSet, error) {
	mode, err := engine.ParseDistributionMode(c.DistributionMode)
	if err != nil {
		return nil, err
	}

	vals := map[string]any{
		"distribution_mode":     int32(mode),
		"num_levels":            int32(c.NumLevels),
		"start_level":           int32(c.StartLevel),
		"rand_seed":             int32(c.RandSeed),
		"use_sequential_levels": c.UseSequentialLevels,
		"center_agent":          c.CenterAgent,
		"use_backgrounds":       c.UseBackgrounds,
		"use_generated_assets":  c.UseGeneratedAssets,
		"use_monochrome_assets": c.UseMonochromeAssets,
		"restrict_themes":       c.RestrictThemes,
		"paint_vel_info":        c.PaintVelInfo,
	}
	for name, v := range c.Options {
		if _, dup := vals[name]; dup {
			return nil, fmt.Errorf("config: option %q duplicates a generic field", name)
		}
		vals[name] = v
	}
	return engine.NewOptionSet(vals), nil
}
