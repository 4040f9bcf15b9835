package engine

import (
	"fmt"
	"sort"
)

// DistributionMode selects the difficulty/variant tier a title generates
// levels for. Non-Easy modes are only legal for specific titles.
type DistributionMode int32

const (
	EasyMode DistributionMode = iota
	HardMode
	ExtremeMode
	MemoryMode
)

// String returns the mode name used in configs and CLI flags.
func (m DistributionMode) String() string {
	switch m {
	case EasyMode:
		return "easy"
	case HardMode:
		return "hard"
	case ExtremeMode:
		return "extreme"
	case MemoryMode:
		return "memory"
	default:
		return fmt.Sprintf("DistributionMode(%d)", int32(m))
	}
}

// ParseDistributionMode maps a mode name to its enum value.
func ParseDistributionMode(s string) (DistributionMode, error) {
	switch s {
	case "easy", "":
		return EasyMode, nil
	case "hard":
		return HardMode, nil
	case "extreme":
		return ExtremeMode, nil
	case "memory":
		return MemoryMode, nil
	default:
		return EasyMode, fmt.Errorf("engine: unknown distribution mode %q", s)
	}
}

// Titles allowed to run each restricted mode. Easy and Hard are legal
// for every title.
var (
	extremeModeTitles = map[string]bool{
		"chaser":    true,
		"dodgeball": true,
		"leaper":    true,
		"starpilot": true,
	}
	memoryModeTitles = map[string]bool{
		"caveflyer": true,
		"dodgeball": true,
		"heist":     true,
		"jumper":    true,
		"maze":      true,
		"miner":     true,
	}
)

// validateDistributionMode aborts on an illegal title/mode combination.
// A bad combination means a misconfigured training job, so it is never
// surfaced as a recoverable error.
func validateDistributionMode(name string, mode DistributionMode) {
	switch mode {
	case EasyMode, HardMode:
		// legal for every title
	case ExtremeMode:
		if !extremeModeTitles[name] {
			fatalf("title %q does not support extreme mode", name)
		}
	case MemoryMode:
		if !memoryModeTitles[name] {
			fatalf("title %q does not support memory mode", name)
		}
	default:
		fatalf("invalid distribution mode %d", mode)
	}
}

// Options holds the generic per-instance configuration shared by all
// titles. Immutable after construction.
type Options struct {
	PaintVelInfo        bool
	UseGeneratedAssets  bool
	UseMonochromeAssets bool
	RestrictThemes      bool
	UseBackgrounds      bool
	CenterAgent         bool
	DebugMode           int32
	DistributionMode    DistributionMode
	UseSequentialLevels bool

	UseEasyJump bool
	PlainAssets int32
	PhysicsMode int32
}

// OptionSet is a consume-once mapping from option name to typed value.
// Every recognized option is consumed exactly once during construction;
// anything left over afterwards is a fatal configuration error.
type OptionSet struct {
	vals map[string]any
}

// NewOptionSet wraps a name/value map. Values must be bool or a Go
// integer type (stored as int32).
func NewOptionSet(vals map[string]any) *OptionSet {
	set := &OptionSet{vals: make(map[string]any, len(vals))}
	for name, v := range vals {
		switch tv := v.(type) {
		case bool:
			set.vals[name] = tv
		case int:
			set.vals[name] = int32(tv)
		case int32:
			set.vals[name] = tv
		case int64:
			set.vals[name] = int32(tv)
		default:
			fatalf("option %q has unsupported type %T", name, v)
		}
	}
	return set
}

// ConsumeBool assigns the named option into dst and removes it from the
// set. Absent options leave dst unchanged.
func (o *OptionSet) ConsumeBool(name string, dst *bool) {
	v, ok := o.vals[name]
	if !ok {
		return
	}
	b, ok := v.(bool)
	if !ok {
		fatalf("option %q must be a bool, got %T", name, v)
	}
	*dst = b
	delete(o.vals, name)
}

// ConsumeInt assigns the named option into dst and removes it from the
// set. Absent options leave dst unchanged.
func (o *OptionSet) ConsumeInt(name string, dst *int32) {
	v, ok := o.vals[name]
	if !ok {
		return
	}
	i, ok := v.(int32)
	if !ok {
		fatalf("option %q must be an integer, got %T", name, v)
	}
	*dst = i
	delete(o.vals, name)
}

// EnsureEmpty aborts if any option was never consumed. An unconsumed
// option is a misspelled or misplaced key in the training config.
func (o *OptionSet) EnsureEmpty() {
	if len(o.vals) == 0 {
		return
	}
	names := make([]string, 0, len(o.vals))
	for name := range o.vals {
		names = append(names, name)
	}
	sort.Strings(names)
	fatalf("unconsumed options: %v", names)
}

// parseOptions consumes the generic options shared by every title.
func (e *Engine) parseOptions(opts *OptionSet) {
	opts.ConsumeBool("use_easy_jump", &e.Options.UseEasyJump)
	opts.ConsumeBool("paint_vel_info", &e.Options.PaintVelInfo)
	opts.ConsumeBool("use_generated_assets", &e.Options.UseGeneratedAssets)
	opts.ConsumeBool("use_monochrome_assets", &e.Options.UseMonochromeAssets)
	opts.ConsumeBool("restrict_themes", &e.Options.RestrictThemes)
	opts.ConsumeBool("use_backgrounds", &e.Options.UseBackgrounds)
	opts.ConsumeBool("center_agent", &e.Options.CenterAgent)
	opts.ConsumeBool("use_sequential_levels", &e.Options.UseSequentialLevels)

	distMode := int32(EasyMode)
	opts.ConsumeInt("distribution_mode", &distMode)
	e.Options.DistributionMode = DistributionMode(distMode)
	validateDistributionMode(e.Name, e.Options.DistributionMode)

	opts.ConsumeInt("plain_assets", &e.Options.PlainAssets)
	opts.ConsumeInt("physics_mode", &e.Options.PhysicsMode)
	opts.ConsumeInt("debug_mode", &e.Options.DebugMode)
	opts.ConsumeInt("game_type", &e.GameType)

	var randSeed, startLevel, numLevels int32
	opts.ConsumeInt("rand_seed", &randSeed)
	opts.ConsumeInt("start_level", &startLevel)
	opts.ConsumeInt("num_levels", &numLevels)

	e.LevelSeedRand.Seed(randSeed)
	e.LevelSeedLow = startLevel
	if numLevels > 0 {
		e.LevelSeedHigh = startLevel + numLevels
	} else {
		e.LevelSeedHigh = int32(^uint32(0) >> 1)
	}
}
