// Package engine implements the deterministic episode lifecycle shared
// by every title: seeded level selection, the reset/step/observe state
// machine, per-step bookkeeping, and the versioned binary snapshot.
//
// An Engine instance is strictly single-threaded. All randomness flows
// through its two streams (one for level-seed selection, one for
// everything inside a level), so two instances with the same
// configuration and action sequence behave identically byte for byte.
package engine

import (
	"github.com/vovakirdan/pixelgym/internal/render"
	"github.com/vovakirdan/pixelgym/internal/rng"
)

// DefaultTimeout is the step budget before an episode is cut off.
const DefaultTimeout int32 = 1000

// NoAction is the sentinel action meaning "no action supplied"; the
// engine substitutes the default action and forces a terminal step.
const NoAction int32 = -1

// rewardDisplayTicks is how long a non-zero reward stays latched for
// display after the step that produced it.
const rewardDisplayTicks int32 = 10

// sequentialSeedIncrement advances the level seed deterministically
// when sequential levels complete a level.
const sequentialSeedIncrement int32 = 997

// StepOutcome is the transient per-step result. It is cleared to its
// baseline before every plugin step call; the plugin may only add to
// Reward, never reset it.
type StepOutcome struct {
	Reward        float32
	Done          bool
	LevelComplete bool
	AgentX        float32
	AgentY        float32
	CollisionX    float32
	CollisionY    float32
	CollisionType int32
}

// Engine owns all episode state for one instance of one title.
type Engine struct {
	Name    string
	Options Options
	World   *World

	GridStep     bool
	LevelSeedLow int32
	// LevelSeedHigh is exclusive: fresh seeds are drawn from
	// [LevelSeedLow, LevelSeedHigh).
	LevelSeedHigh int32
	GameType      int32
	GameN         int32

	// LevelSeedRand draws level seeds; Rand drives everything inside a
	// level. Keeping them separate means level-seed reproducibility
	// does not depend on how much randomness a level consumes.
	LevelSeedRand *rng.Stream
	Rand          *rng.Stream

	StepData StepOutcome
	Action   int32
	Timeout  int32

	CurrentLevelSeed  int32
	PrevLevelSeed     int32
	EpisodesRemaining int32
	EpisodeDone       bool

	LastRewardTimer int32
	LastReward      float32
	DefaultAction   int32

	FixedAssetSeed int32

	CurTime          int32
	IsWaitingForStep bool

	// TotalReward accumulates within an episode; it is display-only
	// state and deliberately absent from snapshots.
	TotalReward float32
	ResetCount  int32

	rules    Rules
	renderer render.Renderer
	resW     int
	resH     int
	// renderBuf is the owned BGRA staging frame; observation buffers
	// themselves are always borrowed from the caller.
	renderBuf []byte
}

// New builds an engine for the named title, consuming opts wholesale.
// Unsupported mode/title combinations and unconsumed options abort.
// renderer may be nil for info-only use; then frames are not produced.
func New(name string, rules Rules, opts *OptionSet, renderer render.Renderer, resW, resH int) *Engine {
	e := &Engine{
		Name:          name,
		World:         NewWorld(),
		LevelSeedRand: &rng.Stream{},
		Rand:          &rng.Stream{},
		Timeout:       DefaultTimeout,
		LastReward:    -1,
		rules:         rules,
		renderer:      renderer,
		resW:          resW,
		resH:          resH,
	}
	e.StepData.Done = true

	if opts == nil {
		opts = NewOptionSet(nil)
	}
	e.parseOptions(opts)
	if consumer, ok := rules.(OptionConsumer); ok {
		consumer.ConsumeOptions(opts)
	}
	opts.EnsureEmpty()

	if renderer != nil {
		e.renderBuf = make([]byte, resW*resH*4)
	}
	return e
}

// FitAspectRatio adjusts an entity's horizontal extent to the sprite
// aspect ratio the title reports for it. A zero ratio keeps the
// entity's own extents.
func (e *Engine) FitAspectRatio(ent *Entity) {
	if ratio := e.rules.TileAspectRatio(ent); ratio > 0 {
		ent.RX = ent.RY * ratio
	}
}

// Rules returns the title plugin driving this engine.
func (e *Engine) Rules() Rules {
	return e.rules
}

// Resolution returns the observation frame dimensions.
func (e *Engine) Resolution() (w, h int) {
	return e.resW, e.resH
}

// Reset starts the next episode: selects the level seed, reseeds the
// in-level stream, and rebuilds the world through the plugin.
// EpisodesRemaining and CurrentLevelSeed change only here, never
// mid-step.
func (e *Engine) Reset() {
	e.ResetCount++

	if e.EpisodesRemaining == 0 {
		if e.Options.UseSequentialLevels && e.StepData.LevelComplete {
			e.CurrentLevelSeed += sequentialSeedIncrement
		} else {
			e.CurrentLevelSeed = e.LevelSeedRand.RandInt(e.LevelSeedLow, e.LevelSeedHigh)
		}
		e.EpisodesRemaining = 1
	}

	// All in-level randomness becomes a pure function of the seed.
	e.Rand.Seed(e.CurrentLevelSeed)
	e.rules.ResetWorld(e)

	e.CurTime = 0
	e.TotalReward = 0
	e.EpisodesRemaining--
	e.Action = e.DefaultAction
	e.IsWaitingForStep = true
}

// Step advances the episode by one action and writes the resulting
// observation. Passing NoAction substitutes the default action and
// forces the step to be terminal.
//
// When the step terminates the episode, Reset runs before Step returns,
// so CurrentLevelSeed and the episode counters already describe the
// next episode. With sequential levels, a level-complete termination is
// reported as not-done even though the engine has reset internally; a
// run of sequential levels looks like one continuous episode.
func (e *Engine) Step(action int32, obs *Observation) {
	e.Action = action
	e.CurTime++
	e.IsWaitingForStep = false

	willForceReset := false
	if e.Action == NoAction {
		e.Action = e.DefaultAction
		willForceReset = true
	}

	if e.LastRewardTimer > 0 {
		e.LastRewardTimer--
	}

	e.StepData = StepOutcome{CollisionX: -1, CollisionY: -1}
	e.rules.AdvanceStep(e)

	e.StepData.Done = e.StepData.Done || willForceReset || e.CurTime >= e.Timeout
	e.TotalReward += e.StepData.Reward

	if e.StepData.Reward != 0 {
		e.LastRewardTimer = rewardDisplayTicks
		e.LastReward = e.StepData.Reward
	}

	e.PrevLevelSeed = e.CurrentLevelSeed

	if e.StepData.Done {
		e.Reset()
	}

	if e.Options.UseSequentialLevels && e.StepData.LevelComplete {
		e.StepData.Done = false
	}

	e.EpisodeDone = e.StepData.Done
	e.IsWaitingForStep = true

	e.Observe(obs)
}
