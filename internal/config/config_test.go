package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/pixelgym/internal/engine"
)

func TestLoadCustomPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	body := `env: fruitbot
distribution_mode: hard
num_levels: 500
start_level: 100
rand_seed: 7
use_sequential_levels: true
options:
  fruitbot_num_walls: 3
  fruitbot_force_no_walls: false
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("fruitbot", path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.DistributionMode != "hard" {
		t.Errorf("DistributionMode = %q, want %q", cfg.DistributionMode, "hard")
	}
	if cfg.NumLevels != 500 || cfg.StartLevel != 100 || cfg.RandSeed != 7 {
		t.Errorf("level range = (%d, %d, %d), want (500, 100, 7)", cfg.NumLevels, cfg.StartLevel, cfg.RandSeed)
	}
	if !cfg.UseSequentialLevels {
		t.Error("UseSequentialLevels not parsed")
	}
	if len(cfg.Options) != 2 {
		t.Errorf("Options = %v, want 2 entries", cfg.Options)
	}
}

func TestLoadMissingCustomPathFails(t *testing.T) {
	_, err := Load("fruitbot", filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("expected error for a missing explicit config path")
	}
}

func TestLoadEmbeddedDefault(t *testing.T) {
	// No custom path and no config files on disk: the embedded default
	// applies.
	cfg, err := Load("fruitbot", "")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Env != "fruitbot" {
		t.Errorf("Env = %q, want %q", cfg.Env, "fruitbot")
	}
	if !cfg.UseBackgrounds {
		t.Error("UseBackgrounds should default to true")
	}
}

func TestLoadUnknownTitleFallsBackToZeroConfig(t *testing.T) {
	cfg, err := Load("nosuchgame", "")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Env != "nosuchgame" {
		t.Errorf("Env = %q, want %q", cfg.Env, "nosuchgame")
	}
	if cfg.NumLevels != 0 || cfg.DistributionMode != "" {
		t.Error("unknown title should keep the zero config")
	}
}

func TestOptionSetFlattening(t *testing.T) {
	cfg := EnvConfig{
		Env:                 "maze",
		DistributionMode:    "memory",
		NumLevels:           200,
		StartLevel:          50,
		RandSeed:            9,
		UseSequentialLevels: true,
		UseBackgrounds:      true,
		Options:             map[string]any{"extra_knob": 4},
	}

	set, err := cfg.OptionSet()
	if err != nil {
		t.Fatalf("OptionSet() failed: %v", err)
	}

	var mode, numLevels, startLevel, randSeed, knob int32
	var sequential, backgrounds, centerAgent bool
	set.ConsumeInt("distribution_mode", &mode)
	set.ConsumeInt("num_levels", &numLevels)
	set.ConsumeInt("start_level", &startLevel)
	set.ConsumeInt("rand_seed", &randSeed)
	set.ConsumeInt("extra_knob", &knob)
	set.ConsumeBool("use_sequential_levels", &sequential)
	set.ConsumeBool("use_backgrounds", &backgrounds)
	set.ConsumeBool("center_agent", &centerAgent)
	set.ConsumeBool("use_generated_assets", new(bool))
	set.ConsumeBool("use_monochrome_assets", new(bool))
	set.ConsumeBool("restrict_themes", new(bool))
	set.ConsumeBool("paint_vel_info", new(bool))
	set.EnsureEmpty()

	if engine.DistributionMode(mode) != engine.MemoryMode {
		t.Errorf("distribution_mode = %d, want memory", mode)
	}
	if numLevels != 200 || startLevel != 50 || randSeed != 9 || knob != 4 {
		t.Errorf("flattened ints = (%d, %d, %d, %d)", numLevels, startLevel, randSeed, knob)
	}
	if !sequential || !backgrounds || centerAgent {
		t.Errorf("flattened bools = (%v, %v, %v)", sequential, backgrounds, centerAgent)
	}
}

func TestOptionSetRejectsDuplicateKey(t *testing.T) {
	cfg := EnvConfig{
		Env:     "maze",
		Options: map[string]any{"num_levels": 10},
	}
	_, err := cfg.OptionSet()
	if err == nil || !strings.Contains(err.Error(), "duplicates") {
		t.Fatalf("expected duplicate-key error, got %v", err)
	}
}

func TestOptionSetRejectsBadMode(t *testing.T) {
	cfg := EnvConfig{Env: "maze", DistributionMode: "brutal"}
	if _, err := cfg.OptionSet(); err == nil {
		t.Fatal("expected error for unknown distribution mode")
	}
}
