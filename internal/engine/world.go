package engine

import (
	"github.com/vovakirdan/pixelgym/internal/rng"
	"github.com/vovakirdan/pixelgym/internal/wire"
)

// World is the shared entity/physics substrate titles build on. It is
// owned by the engine and repopulated by the plugin's ResetWorld hook;
// the engine serializes it as part of every snapshot.
type World struct {
	Width, Height float32

	Agent    *Entity
	Entities []*Entity

	// Agent movement tuning, set once by the title at reset.
	MixRate  float32
	MaxSpeed float32

	// Per-step action decoding written by the title before Advance.
	ActionVX      float32
	ActionVY      float32
	SpecialAction int32

	// View parameters consumed by the renderer when center_agent is on.
	ViewCenterX float32
	ViewCenterY float32
	Visibility  float32

	BackgroundTheme int32
}

// NewWorld returns an empty world with neutral movement tuning.
func NewWorld() *World {
	return &World{
		MixRate:  1,
		MaxSpeed: 1,
		Agent:    &Entity{Type: PlayerType, RX: 0.5, RY: 0.5},
	}
}

// Init clears all entities and re-centers the agent for a new level.
func (w *World) Init(width, height float32) {
	w.Width = width
	w.Height = height
	w.Entities = w.Entities[:0]
	w.Agent = &Entity{
		Type: PlayerType,
		X:    width / 2,
		Y:    height / 2,
		RX:   0.5,
		RY:   0.5,
	}
	w.ActionVX = 0
	w.ActionVY = 0
	w.SpecialAction = 0
	w.ViewCenterX = width / 2
	w.ViewCenterY = height / 2
	w.Visibility = width
	if height > width {
		w.Visibility = height
	}
}

// DecodeAction splits a raw action into a movement index in [0, 9) and
// a special action (0 when none).
func (w *World) DecodeAction(action int32) (move, special int32) {
	if action < 0 {
		return 0, 0
	}
	move = action % 9
	if action >= 9 {
		special = action - 8
	}
	return move, special
}

// AddEntity adds a square entity with half-extent r.
func (w *World) AddEntity(x, y, vx, vy, r float32, typ int32) *Entity {
	return w.AddEntityRxy(x, y, vx, vy, r, r, typ)
}

// AddEntityRxy adds an entity with independent half-extents.
func (w *World) AddEntityRxy(x, y, vx, vy, rx, ry float32, typ int32) *Entity {
	ent := &Entity{X: x, Y: y, VX: vx, VY: vy, RX: rx, RY: ry, Type: typ}
	w.Entities = append(w.Entities, ent)
	return ent
}

// SpawnEntities places n entities of the given type at random positions
// inside the rect (x0, y0, width, height), avoiding the agent. Placement
// draws from the supplied stream so generation stays seed-deterministic.
func (w *World) SpawnEntities(n int, r float32, typ int32, x0, y0, width, height float32, rand *rng.Stream) {
	for i := 0; i < n; i++ {
		var ent *Entity
		for attempt := 0; attempt < 100; attempt++ {
			x := x0 + r + rand.Rand01()*(width-2*r)
			y := y0 + r + rand.Rand01()*(height-2*r)
			candidate := &Entity{X: x, Y: y, RX: r, RY: r, Type: typ}
			if !candidate.Overlaps(w.Agent) {
				ent = candidate
				break
			}
		}
		if ent == nil {
			continue
		}
		w.Entities = append(w.Entities, ent)
	}
}

// Advance runs one substrate tick: agent movement, entity motion and
// expiry, collision dispatch, and the erase sweep. Titles call it from
// their AdvanceStep hook before layering their own rules on top.
func (w *World) Advance(e *Engine) {
	agent := w.Agent

	// Velocity mixing toward the action direction.
	targetVX := w.ActionVX * w.MaxSpeed
	targetVY := w.ActionVY * w.MaxSpeed
	agent.VX += w.MixRate * (targetVX - agent.VX)
	agent.VY += w.MixRate * (targetVY - agent.VY)

	agent.X += agent.VX
	agent.Y += agent.VY
	w.clampAgent()

	for _, ent := range w.Entities {
		ent.X += ent.VX
		ent.Y += ent.VY
		if ent.ExpireTime > 0 {
			ent.ExpireTime--
			if ent.ExpireTime == 0 {
				ent.WillErase = true
			}
		}
	}

	// Agent collisions first, then entity/entity for projectiles.
	for _, ent := range w.Entities {
		if ent.WillErase {
			continue
		}
		if agent.Overlaps(ent) {
			e.rules.OnAgentCollision(e, ent)
		}
	}
	for _, src := range w.Entities {
		if src.WillErase || !src.CollidesWithEntities {
			continue
		}
		for _, target := range w.Entities {
			if target == src || target.WillErase {
				continue
			}
			if src.Overlaps(target) {
				e.rules.OnEntityCollision(e, src, target)
			}
		}
	}

	w.SweepErased()

	if w.Width > 0 {
		e.StepData.AgentX = agent.X / w.Width
	}
	if w.Height > 0 {
		e.StepData.AgentY = agent.Y / w.Height
	}
}

// SweepErased removes entities flagged for deletion.
func (w *World) SweepErased() {
	kept := w.Entities[:0]
	for _, ent := range w.Entities {
		if !ent.WillErase {
			kept = append(kept, ent)
		}
	}
	w.Entities = kept
}

func (w *World) clampAgent() {
	a := w.Agent
	if a.X < a.RX {
		a.X = a.RX
		a.VX = 0
	}
	if a.X > w.Width-a.RX {
		a.X = w.Width - a.RX
		a.VX = 0
	}
	if a.Y < a.RY {
		a.Y = a.RY
		a.VY = 0
	}
	if a.Y > w.Height-a.RY {
		a.Y = w.Height - a.RY
		a.VY = 0
	}
}

func (w *World) serialize(b *wire.Writer) {
	b.WriteFloat(w.Width)
	b.WriteFloat(w.Height)
	b.WriteFloat(w.MixRate)
	b.WriteFloat(w.MaxSpeed)
	b.WriteFloat(w.ActionVX)
	b.WriteFloat(w.ActionVY)
	b.WriteInt(w.SpecialAction)
	b.WriteInt(w.BackgroundTheme)
	w.Agent.serialize(b)
	b.WriteInt(int32(len(w.Entities)))
	for _, ent := range w.Entities {
		ent.serialize(b)
	}
}

func (w *World) deserialize(b *wire.Reader) {
	w.Width = b.ReadFloat()
	w.Height = b.ReadFloat()
	w.MixRate = b.ReadFloat()
	w.MaxSpeed = b.ReadFloat()
	w.ActionVX = b.ReadFloat()
	w.ActionVY = b.ReadFloat()
	w.SpecialAction = b.ReadInt()
	w.BackgroundTheme = b.ReadInt()
	w.Agent = &Entity{}
	w.Agent.deserialize(b)
	n := b.ReadInt()
	w.Entities = make([]*Entity, n)
	for i := range w.Entities {
		w.Entities[i] = &Entity{}
		w.Entities[i].deserialize(b)
	}
}
