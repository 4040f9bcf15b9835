package engine

import "github.com/vovakirdan/pixelgym/internal/wire"

// SerializeVersion must match exactly on deserialize. Bump it whenever
// the snapshot field set or order changes; new fields are appended,
// never inserted.
const SerializeVersion int32 = 1

// Serialize writes the complete engine state as a fixed-order primitive
// stream: version, title, options, seed-range integers, both random
// streams, the step outcome, episode counters and timers, the world
// substrate, and finally the title's own extra state.
//
// Excluded by design: the render staging buffer (rebuilt by Observe)
// and all borrowed buffer references (meaningless in another process).
func (e *Engine) Serialize(b *wire.Writer) {
	b.WriteInt(SerializeVersion)

	b.WriteString(e.Name)

	b.WriteBool(e.Options.PaintVelInfo)
	b.WriteBool(e.Options.UseGeneratedAssets)
	b.WriteBool(e.Options.UseMonochromeAssets)
	b.WriteBool(e.Options.RestrictThemes)
	b.WriteBool(e.Options.UseBackgrounds)
	b.WriteBool(e.Options.CenterAgent)
	b.WriteInt(e.Options.DebugMode)
	b.WriteInt(int32(e.Options.DistributionMode))
	b.WriteBool(e.Options.UseSequentialLevels)

	b.WriteBool(e.Options.UseEasyJump)
	b.WriteInt(e.Options.PlainAssets)
	b.WriteInt(e.Options.PhysicsMode)

	b.WriteBool(e.GridStep)
	b.WriteInt(e.LevelSeedLow)
	b.WriteInt(e.LevelSeedHigh)
	b.WriteInt(e.GameType)
	b.WriteInt(e.GameN)

	e.LevelSeedRand.Serialize(b)
	e.Rand.Serialize(b)

	b.WriteFloat(e.StepData.Reward)
	b.WriteBool(e.StepData.Done)
	b.WriteBool(e.StepData.LevelComplete)
	b.WriteFloat(e.StepData.AgentX)
	b.WriteFloat(e.StepData.AgentY)
	b.WriteFloat(e.StepData.CollisionX)
	b.WriteFloat(e.StepData.CollisionY)
	b.WriteInt(e.StepData.CollisionType)

	b.WriteInt(e.Action)
	b.WriteInt(e.Timeout)

	b.WriteInt(e.CurrentLevelSeed)
	b.WriteInt(e.PrevLevelSeed)
	b.WriteInt(e.EpisodesRemaining)
	b.WriteBool(e.EpisodeDone)

	b.WriteInt(e.LastRewardTimer)
	b.WriteFloat(e.LastReward)
	b.WriteInt(e.DefaultAction)

	b.WriteInt(e.FixedAssetSeed)

	b.WriteInt(e.CurTime)
	b.WriteBool(e.IsWaitingForStep)

	e.World.serialize(b)
	e.rules.SerializeExtra(b)
}

// Deserialize restores state written by Serialize. Version and title
// mismatches abort: a snapshot is only valid for the exact engine build
// and title that produced it.
func (e *Engine) Deserialize(b *wire.Reader) {
	if v := b.ReadInt(); v != SerializeVersion {
		fatalf("snapshot version mismatch: have %d, want %d", v, SerializeVersion)
	}
	if name := b.ReadString(); name != e.Name {
		fatalf("snapshot title mismatch: have %q, want %q", name, e.Name)
	}

	e.Options.PaintVelInfo = b.ReadBool()
	e.Options.UseGeneratedAssets = b.ReadBool()
	e.Options.UseMonochromeAssets = b.ReadBool()
	e.Options.RestrictThemes = b.ReadBool()
	e.Options.UseBackgrounds = b.ReadBool()
	e.Options.CenterAgent = b.ReadBool()
	e.Options.DebugMode = b.ReadInt()
	e.Options.DistributionMode = DistributionMode(b.ReadInt())
	e.Options.UseSequentialLevels = b.ReadBool()

	e.Options.UseEasyJump = b.ReadBool()
	e.Options.PlainAssets = b.ReadInt()
	e.Options.PhysicsMode = b.ReadInt()

	e.GridStep = b.ReadBool()
	e.LevelSeedLow = b.ReadInt()
	e.LevelSeedHigh = b.ReadInt()
	e.GameType = b.ReadInt()
	e.GameN = b.ReadInt()

	e.LevelSeedRand.Deserialize(b)
	e.Rand.Deserialize(b)

	e.StepData.Reward = b.ReadFloat()
	e.StepData.Done = b.ReadBool()
	e.StepData.LevelComplete = b.ReadBool()
	e.StepData.AgentX = b.ReadFloat()
	e.StepData.AgentY = b.ReadFloat()
	e.StepData.CollisionX = b.ReadFloat()
	e.StepData.CollisionY = b.ReadFloat()
	e.StepData.CollisionType = b.ReadInt()

	e.Action = b.ReadInt()
	e.Timeout = b.ReadInt()

	e.CurrentLevelSeed = b.ReadInt()
	e.PrevLevelSeed = b.ReadInt()
	e.EpisodesRemaining = b.ReadInt()
	e.EpisodeDone = b.ReadBool()

	e.LastRewardTimer = b.ReadInt()
	e.LastReward = b.ReadFloat()
	e.DefaultAction = b.ReadInt()

	e.FixedAssetSeed = b.ReadInt()

	e.CurTime = b.ReadInt()
	e.IsWaitingForStep = b.ReadBool()

	e.World.deserialize(b)
	e.rules.DeserializeExtra(b)
}

// Snapshot is a convenience wrapper returning the encoded state.
func (e *Engine) Snapshot() []byte {
	w := wire.NewWriter()
	e.Serialize(w)
	return w.Bytes()
}

// Restore is a convenience wrapper decoding a Snapshot buffer.
func (e *Engine) Restore(data []byte) {
	e.Deserialize(wire.NewReader(data))
}
