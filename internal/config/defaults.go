package config

import (
	_ "embed"
)

//go:embed defaults/fruitbot.yaml
var defaultFruitbotYAML []byte

//go:embed defaults/maze.yaml
var defaultMazeYAML []byte

// embeddedDefault returns the built-in config for a title, if any.
// Titles without one fall back to the zero EnvConfig, which maps to the
// engine's own defaults.
func embeddedDefault(env string) ([]byte, bool) {
	switch env {
	case "fruitbot":
		return defaultFruitbotYAML, true
	case "maze":
		return defaultMazeYAML, true
	default:
		return nil, false
	}
}
