// Package maze implements a grid maze title: the agent walks one cell
// per step toward a goal. It is one of the titles allowed to run in
// memory mode, where the maze grows large enough that solving it
// requires remembering explored corridors.
package maze

import (
	"github.com/vovakirdan/pixelgym/internal/engine"
	"github.com/vovakirdan/pixelgym/internal/registry"
	"github.com/vovakirdan/pixelgym/internal/wire"
)

const Name = "maze"

// Entity type tags.
const (
	WallObj int32 = 1
	GoalObj int32 = 12
)

const completionBonus float32 = 10

// Maze side length per distribution mode. Sizes are odd so corridors
// and walls alternate cleanly.
const (
	easySize   = 9
	hardSize   = 15
	memorySize = 25
)

// Game implements engine.Rules for the maze title.
type Game struct {
	size  int32
	walls []bool // size*size, true = wall cell
}

func init() {
	registry.Register(Name, "walk a procedurally carved maze to the goal", func() engine.Rules {
		return New()
	})
}

// New returns maze rules.
func New() *Game {
	return &Game{}
}

func (g *Game) wallAt(cx, cy int32) bool {
	if cx < 0 || cy < 0 || cx >= g.size || cy >= g.size {
		return true
	}
	return g.walls[cy*g.size+cx]
}

// carve runs an iterative randomized depth-first search over odd cells,
// knocking out the wall between each visited pair. The result is a
// perfect maze: exactly one path between any two cells.
func (g *Game) carve(e *engine.Engine) {
	n := g.size
	g.walls = make([]bool, n*n)
	for i := range g.walls {
		g.walls[i] = true
	}

	type cell struct{ x, y int32 }
	open := func(c cell) { g.walls[c.y*n+c.x] = false }

	start := cell{1, 1}
	open(start)
	stack := []cell{start}

	dirs := [4]cell{{2, 0}, {-2, 0}, {0, 2}, {0, -2}}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]

		var candidates []cell
		for _, d := range dirs {
			next := cell{cur.x + d.x, cur.y + d.y}
			if next.x > 0 && next.y > 0 && next.x < n && next.y < n && g.wallAt(next.x, next.y) {
				candidates = append(candidates, next)
			}
		}
		if len(candidates) == 0 {
			stack = stack[:len(stack)-1]
			continue
		}

		next := candidates[e.Rand.RandN(len(candidates))]
		open(cell{(cur.x + next.x) / 2, (cur.y + next.y) / 2})
		open(next)
		stack = append(stack, next)
	}
}

// ResetWorld carves a maze for the current seed and places the agent at
// one corner and the goal at the opposite one.
func (g *Game) ResetWorld(e *engine.Engine) {
	switch e.Options.DistributionMode {
	case engine.MemoryMode:
		g.size = memorySize
	case engine.HardMode:
		g.size = hardSize
	default:
		g.size = easySize
	}

	w := e.World
	w.Init(float32(g.size), float32(g.size))
	// Cell-wise movement: the substrate only dispatches collisions.
	w.MixRate = 0
	w.MaxSpeed = 0
	w.BackgroundTheme = int32(e.Rand.RandN(4))
	e.GridStep = true

	g.carve(e)

	for cy := int32(0); cy < g.size; cy++ {
		for cx := int32(0); cx < g.size; cx++ {
			if g.walls[cy*g.size+cx] {
				w.AddEntityRxy(float32(cx)+0.5, float32(cy)+0.5, 0, 0, 0.5, 0.5, WallObj)
			}
		}
	}

	w.Agent.X = 1.5
	w.Agent.Y = 1.5
	w.Agent.RX = 0.4
	w.Agent.RY = 0.4

	goal := w.AddEntityRxy(float32(g.size)-1.5, float32(g.size)-1.5, 0, 0, 0.4, 0.4, GoalObj)
	goal.ImageTheme = int32(e.Rand.RandN(2))
}

// AdvanceStep moves the agent one open cell in the action's direction,
// then runs the substrate for collision dispatch.
func (g *Game) AdvanceStep(e *engine.Engine) {
	w := e.World
	move, _ := w.DecodeAction(e.Action)
	dx := move/3 - 1
	dy := move%3 - 1
	// Cardinal moves only; horizontal wins on diagonals.
	if dx != 0 {
		dy = 0
	}

	cx := int32(w.Agent.X)
	cy := int32(w.Agent.Y)
	if (dx != 0 || dy != 0) && !g.wallAt(cx+dx, cy+dy) {
		w.Agent.X = float32(cx+dx) + 0.5
		w.Agent.Y = float32(cy+dy) + 0.5
	}

	w.Advance(e)
}

// OnAgentCollision completes the level when the agent reaches the goal.
func (g *Game) OnAgentCollision(e *engine.Engine, obj *engine.Entity) {
	if obj.Type != GoalObj {
		return
	}
	w := e.World
	e.StepData.CollisionX = obj.X / w.Width
	e.StepData.CollisionY = obj.Y / w.Height
	e.StepData.CollisionType = obj.Type

	e.StepData.Reward += completionBonus
	e.StepData.Done = true
	e.StepData.LevelComplete = true
}

// OnEntityCollision is unused: the maze has no moving entities.
func (g *Game) OnEntityCollision(e *engine.Engine, src, target *engine.Entity) {}

// TileAspectRatio keeps all maze tiles square.
func (g *Game) TileAspectRatio(obj *engine.Entity) float32 {
	if obj.Type == WallObj {
		return 1
	}
	return 0
}

func (g *Game) SerializeExtra(w *wire.Writer) {
	w.WriteInt(g.size)
	for _, wall := range g.walls {
		w.WriteBool(wall)
	}
}

func (g *Game) DeserializeExtra(r *wire.Reader) {
	g.size = r.ReadInt()
	g.walls = make([]bool, g.size*g.size)
	for i := range g.walls {
		g.walls[i] = r.ReadBool()
	}
}
