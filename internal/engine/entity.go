package engine

import "github.com/vovakirdan/pixelgym/internal/wire"

// PlayerType is the entity type tag reserved for the agent.
const PlayerType int32 = 0

// Entity is a world object: the agent, an obstacle, a pickup or a
// projectile. Positions and half-extents are in world units.
type Entity struct {
	X, Y   float32
	VX, VY float32
	RX, RY float32

	Type       int32
	ImageTheme int32

	// ExpireTime counts down each step once positive; the entity is
	// erased when it reaches zero.
	ExpireTime int32

	WillErase            bool
	CollidesWithEntities bool
}

// Overlaps reports whether two entity bounding boxes intersect.
func (e *Entity) Overlaps(other *Entity) bool {
	if e == other {
		return false
	}
	dx := e.X - other.X
	if dx < 0 {
		dx = -dx
	}
	dy := e.Y - other.Y
	if dy < 0 {
		dy = -dy
	}
	return dx < e.RX+other.RX && dy < e.RY+other.RY
}

func (e *Entity) serialize(w *wire.Writer) {
	w.WriteFloat(e.X)
	w.WriteFloat(e.Y)
	w.WriteFloat(e.VX)
	w.WriteFloat(e.VY)
	w.WriteFloat(e.RX)
	w.WriteFloat(e.RY)
	w.WriteInt(e.Type)
	w.WriteInt(e.ImageTheme)
	w.WriteInt(e.ExpireTime)
	w.WriteBool(e.WillErase)
	w.WriteBool(e.CollidesWithEntities)
}

func (e *Entity) deserialize(r *wire.Reader) {
	e.X = r.ReadFloat()
	e.Y = r.ReadFloat()
	e.VX = r.ReadFloat()
	e.VY = r.ReadFloat()
	e.RX = r.ReadFloat()
	e.RY = r.ReadFloat()
	e.Type = r.ReadInt()
	e.ImageTheme = r.ReadInt()
	e.ExpireTime = r.ReadInt()
	e.WillErase = r.ReadBool()
	e.CollidesWithEntities = r.ReadBool()
}
