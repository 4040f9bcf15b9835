package engine

import "github.com/vovakirdan/pixelgym/internal/wire"

// Rules is the contract a title implements. The engine calls into the
// rules, never the reverse: all shared bookkeeping (reward totals,
// timers, done computation, seeds) stays inside the engine, and the
// rules only contribute to the current StepOutcome.
type Rules interface {
	// ResetWorld populates the world for a new level. It must be a
	// pure function of the engine's already-reseeded general-purpose
	// random stream.
	ResetWorld(e *Engine)

	// AdvanceStep consumes the current action and mutates entities,
	// typically by delegating to World.Advance first. It may add to
	// StepData.Reward and set Done/LevelComplete.
	AdvanceStep(e *Engine)

	// OnAgentCollision handles the agent overlapping an entity.
	OnAgentCollision(e *Engine, obj *Entity)

	// OnEntityCollision handles two non-agent entities overlapping.
	// Only called for sources with CollidesWithEntities set.
	OnEntityCollision(e *Engine, src, target *Entity)

	// TileAspectRatio returns the sprite width/height ratio for an
	// entity type, or 0 to keep the entity's own extents.
	TileAspectRatio(obj *Entity) float32

	// SerializeExtra appends title-specific state after the engine's
	// own snapshot fields. DeserializeExtra must read the same fields
	// in the same order.
	SerializeExtra(w *wire.Writer)
	DeserializeExtra(r *wire.Reader)
}

// OptionConsumer is implemented by titles with construction-time
// tunables. ConsumeOptions runs after the generic options are parsed
// and before the unconsumed-option check.
type OptionConsumer interface {
	ConsumeOptions(opts *OptionSet)
}
