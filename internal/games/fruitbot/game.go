// Package fruitbot implements the fruit-collecting reference title: the
// agent scrolls up a corridor, gathers fruit, avoids junk food and wall
// rows, and finishes at the present row. Key-bullets open locked doors.
package fruitbot

import (
	"math"

	"github.com/vovakirdan/pixelgym/internal/engine"
	"github.com/vovakirdan/pixelgym/internal/registry"
	"github.com/vovakirdan/pixelgym/internal/wire"
)

const Name = "fruitbot"

// Entity type tags.
const (
	Barrier         int32 = 1
	OutOfBoundsWall int32 = 2
	PlayerBullet    int32 = 3
	BadObj          int32 = 4
	GoodObj         int32 = 7
	LockedDoor      int32 = 10
	Lock            int32 = 11
	Present         int32 = 12
)

// KeyDuration is both the bullet lifetime and the fire cooldown.
const KeyDuration int32 = 8

const doorAspectRatio float32 = 3.25

const presentThemes = 3

// Reward shaping and layout tunables, consumed from the option set at
// construction. Negative layout values mean "use the mode default".
type tunables struct {
	rewardCompletion float32
	rewardPositive   float32
	rewardNegative   float32
	rewardWallHit    float32
	rewardStep       float32

	numWalls       int32
	numGoodMin     int32
	numGoodRange   int32
	numBadMin      int32
	numBadRange    int32
	wallGapPct     int32
	doorProbPct    int32
	foodDiversity  int32
	layoutMode     int32
	goodLineXPct   int32
	badLineXPct    int32
	linePaddingPct int32
	forceNoWalls   bool
}

// Game implements engine.Rules for the fruitbot title.
type Game struct {
	opts tunables

	minDim       float32
	bulletVScale float32
	lastFireTime int32
}

func init() {
	registry.Register(Name, "collect fruit, avoid junk food, reach the presents", func() engine.Rules {
		return New()
	})
}

// New returns fruitbot rules with the reference defaults.
func New() *Game {
	return &Game{
		opts: tunables{
			rewardCompletion: 10,
			rewardPositive:   1,
			rewardNegative:   -2,

			numWalls:       -1,
			numGoodMin:     10,
			numGoodRange:   10,
			numBadMin:      5,
			numBadRange:    10,
			wallGapPct:     -1,
			doorProbPct:    -1,
			foodDiversity:  6,
			goodLineXPct:   30,
			badLineXPct:    70,
			linePaddingPct: 10,
		},
		minDim:       5,
		bulletVScale: 0.5,
	}
}

// ConsumeOptions reads the fruitbot tunables. Rewards arrive as
// integers multiplied by 100 so option maps stay integer-typed.
func (g *Game) ConsumeOptions(opts *engine.OptionSet) {
	consumeRewardX100 := func(name string, dst *float32) {
		var v int32
		opts.ConsumeInt(name, &v)
		if v != 0 {
			*dst = float32(v) / 100
		}
	}
	consumeRewardX100("fruitbot_reward_completion_x100", &g.opts.rewardCompletion)
	consumeRewardX100("fruitbot_reward_positive_x100", &g.opts.rewardPositive)
	consumeRewardX100("fruitbot_reward_negative_x100", &g.opts.rewardNegative)
	consumeRewardX100("fruitbot_reward_wall_hit_x100", &g.opts.rewardWallHit)
	consumeRewardX100("fruitbot_reward_step_x100", &g.opts.rewardStep)

	opts.ConsumeInt("fruitbot_num_walls", &g.opts.numWalls)
	opts.ConsumeInt("fruitbot_num_good_min", &g.opts.numGoodMin)
	opts.ConsumeInt("fruitbot_num_good_range", &g.opts.numGoodRange)
	opts.ConsumeInt("fruitbot_num_bad_min", &g.opts.numBadMin)
	opts.ConsumeInt("fruitbot_num_bad_range", &g.opts.numBadRange)
	opts.ConsumeInt("fruitbot_wall_gap_pct", &g.opts.wallGapPct)
	opts.ConsumeInt("fruitbot_door_prob_pct", &g.opts.doorProbPct)
	opts.ConsumeInt("food_diversity", &g.opts.foodDiversity)
	opts.ConsumeInt("fruitbot_layout_mode", &g.opts.layoutMode)
	opts.ConsumeInt("fruitbot_good_line_x_pct", &g.opts.goodLineXPct)
	opts.ConsumeInt("fruitbot_bad_line_x_pct", &g.opts.badLineXPct)
	opts.ConsumeInt("fruitbot_line_padding_pct", &g.opts.linePaddingPct)
	opts.ConsumeBool("fruitbot_force_no_walls", &g.opts.forceNoWalls)
}

// addWalls places one wall row at height ry with a random gap covering
// at least minPct of the width, optionally blocked by a locked door and
// its lock.
func (g *Game) addWalls(e *engine.Engine, ry float32, useDoor bool, minPct float32) {
	w := e.World
	rw := w.Width
	const wallRY = 0.3
	const lockRX = 0.25
	const lockRY = 0.45

	pct := minPct + 0.2*e.Rand.Rand01()

	if useDoor {
		pct += 0.1
		lockPctW := 2 * lockRX / rw
		doorPctW := (wallRY * 2 * doorAspectRatio) / rw
		numDoors := float32(math.Ceil(float64((pct - 2*lockPctW) / doorPctW)))
		pct = 2*lockPctW + doorPctW*numDoors
	}

	gapW := pct * rw
	w1 := e.Rand.Rand01() * (rw - gapW)
	w2 := rw - w1 - gapW

	w.AddEntityRxy(w1/2, ry, 0, 0, w1/2, wallRY, Barrier)
	w.AddEntityRxy(rw-w2/2, ry, 0, 0, w2/2, wallRY, Barrier)

	if useDoor {
		isOnRight := float32(e.Rand.RandN(2))
		lockX := w1 + lockRX + isOnRight*(gapW-2*lockRX)
		doorX := w1 + gapW/2 - (isOnRight*2-1)*lockRX

		w.AddEntityRxy(doorX, ry, 0, 0, gapW/2-lockRX, wallRY, LockedDoor)
		w.AddEntityRxy(lockX, ry-lockRY+wallRY, 0, 0, lockRX, lockRY, Lock)
	}
}

// spawnLineEntities places count entities of one type in a vertical
// line at a fixed horizontal percentage of the corridor.
func (g *Game) spawnLineEntities(e *engine.Engine, count int32, xPct, typ, paddingPct, groupSize int32) {
	if count <= 0 {
		return
	}
	w := e.World

	x := clampF(float32(xPct)/100, 0.05, 0.95) * w.Width
	pad := clampF(float32(paddingPct)/100, 0, 0.45) * w.Height
	yStart := pad + 0.5
	yEnd := w.Height - pad - 0.5
	span := yEnd - yStart
	if span < 0.1 {
		span = 0.1
	}

	for i := int32(0); i < count; i++ {
		t := float32(0.5)
		if count > 1 {
			t = float32(i) / float32(count-1)
		}
		ent := w.AddEntityRxy(x, yStart+t*span, 0, 0, 0.5, 0.5, typ)
		ent.ImageTheme = int32(e.Rand.RandN(int(groupSize)))
		e.FitAspectRatio(ent)
	}
}

// ResetWorld builds a new corridor from the engine's reseeded stream.
func (g *Game) ResetWorld(e *engine.Engine) {
	w := e.World

	width := float32(15)
	if e.Options.DistributionMode == engine.EasyMode {
		width = 10
	}
	height := float32(20)

	w.Init(width, height)
	w.MixRate = 0.5
	w.MaxSpeed = 0.85
	w.BackgroundTheme = int32(e.Rand.RandN(4))

	g.lastFireTime = 0

	minSep := int32(4)
	numWalls := int32(10)
	objectGroupSize := int32(6)
	bufH := int32(4)
	doorProb := float32(0.125)
	minPct := float32(0.4)
	forceNoWalls := g.opts.forceNoWalls

	if e.Options.DistributionMode == engine.EasyMode {
		numWalls = 5
		objectGroupSize = g.opts.foodDiversity
		doorProb = 0
		minPct = 0.3
	}

	if g.opts.numWalls >= 0 {
		numWalls = g.opts.numWalls
	}
	if g.opts.wallGapPct >= 0 {
		minPct = float32(g.opts.wallGapPct) / 100
	}
	if g.opts.doorProbPct >= 0 {
		doorProb = float32(g.opts.doorProbPct) / 100
	}

	// Clamp the gap to avoid degenerate geometry at 100%.
	minPct = clampF(minPct, 0.05, 0.95)
	if g.opts.wallGapPct >= 100 {
		forceNoWalls = true
	}
	if numWalls <= 0 {
		forceNoWalls = true
	}

	if !forceNoWalls {
		budget := int(height) - int(minSep*numWalls) - int(bufH)
		if budget < 1 {
			budget = 1
		}
		currH := int32(0)
		for _, part := range e.Rand.Partition(budget, int(numWalls)) {
			dy := minSep + int32(part)
			currH += dy

			useDoor := dy > 5 && e.Rand.Rand01() < doorProb
			g.addWalls(e, float32(currH), useDoor, minPct)
		}
	}

	w.Agent.Y = w.Agent.RY

	numGood := g.opts.numGoodMin
	if g.opts.numGoodRange > 0 {
		numGood += int32(e.Rand.RandN(int(g.opts.numGoodRange)))
	}
	numBad := g.opts.numBadMin
	if g.opts.numBadRange > 0 {
		numBad += int32(e.Rand.RandN(int(g.opts.numBadRange)))
	}

	for i := 0; i < int(width); i++ {
		present := w.AddEntityRxy(float32(i)+0.5, height-0.5, 0, 0, 0.5, 0.5, Present)
		present.ImageTheme = int32(e.Rand.RandN(presentThemes))
	}

	if g.opts.layoutMode == 1 {
		g.spawnLineEntities(e, numGood, g.opts.goodLineXPct, GoodObj, g.opts.linePaddingPct, objectGroupSize)
		g.spawnLineEntities(e, numBad, g.opts.badLineXPct, BadObj, g.opts.linePaddingPct, objectGroupSize)
	} else {
		if numGood > 0 {
			w.SpawnEntities(int(numGood), 0.5, GoodObj, 0, 0, width, height, e.Rand)
		}
		if numBad > 0 {
			w.SpawnEntities(int(numBad), 0.5, BadObj, 0, 0, width, height, e.Rand)
		}
		for _, ent := range w.Entities {
			if ent.Type == GoodObj || ent.Type == BadObj {
				ent.ImageTheme = int32(e.Rand.RandN(int(objectGroupSize)))
				e.FitAspectRatio(ent)
			}
		}
	}

	g.updateView(e)
}

// AdvanceStep decodes the action into horizontal motion with constant
// upward scroll, runs the substrate, then handles step shaping and the
// key-bullet special action.
func (g *Game) AdvanceStep(e *engine.Engine) {
	w := e.World

	move, special := w.DecodeAction(e.Action)
	w.ActionVX = float32(move/3) - 1
	w.ActionVY = 0.2
	w.SpecialAction = special

	w.Advance(e)
	g.updateView(e)

	if g.opts.rewardStep != 0 {
		e.StepData.Reward += g.opts.rewardStep
	}

	if w.SpecialAction == 1 && e.CurTime-g.lastFireTime >= KeyDuration {
		bullet := w.AddEntity(w.Agent.X, w.Agent.Y, 0, g.bulletVScale, 0.25, PlayerBullet)
		bullet.ExpireTime = KeyDuration
		bullet.CollidesWithEntities = true
		g.lastFireTime = e.CurTime
	}
}

// OnAgentCollision records the collision in normalized coordinates and
// applies the reward table. Barriers and closed doors end the episode;
// the present row completes the level.
func (g *Game) OnAgentCollision(e *engine.Engine, obj *engine.Entity) {
	w := e.World
	e.StepData.CollisionX = obj.X / w.Width
	e.StepData.CollisionY = obj.Y / w.Height
	e.StepData.CollisionType = obj.Type

	switch obj.Type {
	case Barrier, LockedDoor:
		e.StepData.Reward += g.opts.rewardWallHit
		e.StepData.Done = true
	case BadObj:
		e.StepData.Reward += g.opts.rewardNegative
		obj.WillErase = true
	case GoodObj:
		e.StepData.Reward += g.opts.rewardPositive
		obj.WillErase = true
	case Present:
		e.StepData.Reward += g.opts.rewardCompletion
		e.StepData.Done = true
		e.StepData.LevelComplete = true
	}
}

// OnEntityCollision erases bullets on barriers and opens locked doors:
// a bullet hitting a lock erases the lock, the bullet, and the door row
// at the lock's height.
func (g *Game) OnEntityCollision(e *engine.Engine, src, target *engine.Entity) {
	if src.Type != PlayerBullet {
		return
	}
	switch target.Type {
	case Barrier:
		src.WillErase = true
	case Lock:
		src.WillErase = true
		target.WillErase = true
		for _, ent := range e.World.Entities {
			if ent.Type == LockedDoor && absF(ent.Y-target.Y) < 1 {
				ent.WillErase = true
				break
			}
		}
	}
}

// TileAspectRatio stretches doors to their fence sprite proportions.
func (g *Game) TileAspectRatio(obj *engine.Entity) float32 {
	switch obj.Type {
	case Barrier:
		return 1
	case LockedDoor:
		return doorAspectRatio
	default:
		return 0
	}
}

func (g *Game) SerializeExtra(w *wire.Writer) {
	w.WriteFloat(g.minDim)
	w.WriteFloat(g.bulletVScale)
	w.WriteInt(g.lastFireTime)
}

func (g *Game) DeserializeExtra(r *wire.Reader) {
	g.minDim = r.ReadFloat()
	g.bulletVScale = r.ReadFloat()
	g.lastFireTime = r.ReadInt()
}

// updateView keeps the camera locked to the corridor with the agent in
// the lower quarter, matching the scrolling view.
func (g *Game) updateView(e *engine.Engine) {
	w := e.World
	w.ViewCenterX = w.Width / 2
	w.ViewCenterY = w.Agent.Y + w.Width/2 - 2*w.Agent.RY
	w.Visibility = w.Width
}

func clampF(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func absF(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
