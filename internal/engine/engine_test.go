package engine

import (
	"bytes"
	"strings"
	"testing"

	"github.com/vovakirdan/pixelgym/internal/render"
	"github.com/vovakirdan/pixelgym/internal/wire"
)

// stubRules is a minimal title used to exercise the lifecycle without
// real game logic.
type stubRules struct {
	rewardPerStep  float32
	doneAfter      int32
	completeOnDone bool
	resets         int
}

func (s *stubRules) ResetWorld(e *Engine) {
	e.World.Init(10, 10)
	e.World.BackgroundTheme = int32(e.Rand.RandN(4))
	// Consume seed-dependent randomness so determinism failures show up.
	e.World.AddEntity(e.Rand.Rand01()*9+0.5, e.Rand.Rand01()*9+0.5, 0, 0, 0.5, 7)
	s.resets++
}

func (s *stubRules) AdvanceStep(e *Engine) {
	w := e.World
	move, _ := w.DecodeAction(e.Action)
	w.ActionVX = float32(move/3) - 1
	w.ActionVY = float32(move%3) - 1
	w.Advance(e)

	e.StepData.Reward += s.rewardPerStep
	if s.doneAfter > 0 && e.CurTime >= s.doneAfter {
		e.StepData.Done = true
		e.StepData.LevelComplete = s.completeOnDone
	}
}

func (s *stubRules) OnAgentCollision(e *Engine, obj *Entity)           {}
func (s *stubRules) OnEntityCollision(e *Engine, src, target *Entity)  {}
func (s *stubRules) TileAspectRatio(obj *Entity) float32               { return 0 }
func (s *stubRules) SerializeExtra(w *wire.Writer)                     { w.WriteInt(7) }
func (s *stubRules) DeserializeExtra(r *wire.Reader) {
	if v := r.ReadInt(); v != 7 {
		panic("stub extra marker mismatch")
	}
}

const testRes = 16

func testOptions(extra map[string]any) map[string]any {
	vals := map[string]any{
		"rand_seed":   int32(1234),
		"num_levels":  int32(100),
		"start_level": int32(0),
	}
	for k, v := range extra {
		vals[k] = v
	}
	return vals
}

func newTestEngine(rules Rules, extra map[string]any) *Engine {
	return New("stub", rules, NewOptionSet(testOptions(extra)), render.NewFlat(), testRes, testRes)
}

type testBuffers struct {
	rgb    []byte
	info   []byte
	reward float32
	first  byte
}

func newTestBuffers() *testBuffers {
	return &testBuffers{
		rgb:  make([]byte, testRes*testRes*3),
		info: make([]byte, 25),
	}
}

func (b *testBuffers) observation() *Observation {
	return &Observation{
		RGB:  b.rgb,
		Info: b.info,
		Offsets: map[string]int{
			InfoPrevLevelSeed:     0,
			InfoPrevLevelComplete: 4,
			InfoLevelSeed:         5,
			InfoAgentX:            9,
			InfoCollisionX:        13,
			InfoCollisionY:        17,
			InfoCollisionType:     21,
		},
		Reward: &b.reward,
		First:  &b.first,
	}
}

func TestDeterminism(t *testing.T) {
	// Two engines with identical configuration and actions must produce
	// byte-identical observations at every step.
	e1 := newTestEngine(&stubRules{rewardPerStep: 0.5, doneAfter: 17}, nil)
	e2 := newTestEngine(&stubRules{rewardPerStep: 0.5, doneAfter: 17}, nil)
	e1.Reset()
	e2.Reset()

	b1 := newTestBuffers()
	b2 := newTestBuffers()

	actions := []int32{4, 4, 1, 7, 3, 5, 0, 8, 4, 2}
	for i := 0; i < 60; i++ {
		a := actions[i%len(actions)]
		e1.Step(a, b1.observation())
		e2.Step(a, b2.observation())

		if !bytes.Equal(b1.rgb, b2.rgb) {
			t.Fatalf("frame mismatch at step %d", i)
		}
		if !bytes.Equal(b1.info, b2.info) {
			t.Fatalf("info mismatch at step %d", i)
		}
		if b1.reward != b2.reward {
			t.Fatalf("reward mismatch at step %d: %v vs %v", i, b1.reward, b2.reward)
		}
		if b1.first != b2.first {
			t.Fatalf("done mismatch at step %d", i)
		}
	}
}

func TestTimeoutEnforcement(t *testing.T) {
	e := newTestEngine(&stubRules{}, nil)
	e.Timeout = 25
	e.Reset()

	b := newTestBuffers()
	for i := int32(1); i < 25; i++ {
		e.Step(4, b.observation())
		if b.first != 0 {
			t.Fatalf("done before timeout at step %d", i)
		}
	}
	e.Step(4, b.observation())
	if b.first != 1 {
		t.Error("step at timeout did not force done")
	}
	if e.CurTime != 0 {
		t.Errorf("expected reset after timeout, CurTime = %d", e.CurTime)
	}
}

func TestForcedActionSentinel(t *testing.T) {
	e := newTestEngine(&stubRules{}, nil)
	e.Reset()

	b := newTestBuffers()
	e.Step(NoAction, b.observation())
	if b.first != 1 {
		t.Error("sentinel action did not force done")
	}
}

func TestRewardAccumulation(t *testing.T) {
	e := newTestEngine(&stubRules{rewardPerStep: 1.0, doneAfter: 3}, nil)
	e.Reset()

	b := newTestBuffers()
	e.Step(4, b.observation())
	if e.TotalReward != 1.0 {
		t.Errorf("TotalReward after step 1 = %v, want 1.0", e.TotalReward)
	}
	e.Step(4, b.observation())
	if e.TotalReward != 2.0 {
		t.Errorf("TotalReward after step 2 = %v, want 2.0", e.TotalReward)
	}

	// Third step terminates; reward still reaches 3.0 before the
	// internal reset clears the accumulator.
	e.Step(4, b.observation())
	if b.first != 1 {
		t.Fatal("expected episode end on step 3")
	}
	if b.reward != 1.0 {
		t.Errorf("step reward = %v, want 1.0", b.reward)
	}
	if e.TotalReward != 0 {
		t.Errorf("TotalReward after reset = %v, want 0", e.TotalReward)
	}
	if e.LastReward != 1.0 || e.LastRewardTimer != 10 {
		t.Errorf("last reward latch = (%v, %d), want (1.0, 10)", e.LastReward, e.LastRewardTimer)
	}
}

func TestSequentialSeedIncrement(t *testing.T) {
	rules := &stubRules{doneAfter: 2, completeOnDone: true}
	e := newTestEngine(rules, map[string]any{"use_sequential_levels": true})
	e.Reset()
	seed := e.CurrentLevelSeed

	b := newTestBuffers()
	e.Step(4, b.observation())
	e.Step(4, b.observation())

	if e.CurrentLevelSeed != seed+997 {
		t.Errorf("sequential seed = %d, want %d", e.CurrentLevelSeed, seed+997)
	}
	if e.PrevLevelSeed != seed {
		t.Errorf("prev seed = %d, want %d", e.PrevLevelSeed, seed)
	}
	// The reset is hidden: the consumer sees one continuous episode.
	if b.first != 0 {
		t.Error("sequential level completion leaked an episode boundary")
	}
	if b.info[4] != 1 {
		t.Error("prev_level_complete flag not set")
	}
	if rules.resets != 2 {
		t.Errorf("resets = %d, want 2 (initial + hidden)", rules.resets)
	}
}

func TestNonSequentialCompletionIsVisible(t *testing.T) {
	e := newTestEngine(&stubRules{doneAfter: 2, completeOnDone: true}, nil)
	e.Reset()

	b := newTestBuffers()
	e.Step(4, b.observation())
	e.Step(4, b.observation())
	if b.first != 1 {
		t.Error("level completion should be a visible episode boundary without sequential levels")
	}
}

func TestSerializeRoundTrip(t *testing.T) {
	e1 := newTestEngine(&stubRules{rewardPerStep: 0.25, doneAfter: 13}, nil)
	e1.Reset()

	b := newTestBuffers()
	for i := 0; i < 29; i++ {
		e1.Step(int32(i%9), b.observation())
	}

	snap := e1.Snapshot()

	e2 := newTestEngine(&stubRules{rewardPerStep: 0.25, doneAfter: 13}, nil)
	e2.Restore(snap)

	b1 := newTestBuffers()
	b2 := newTestBuffers()
	for i := 0; i < 40; i++ {
		a := int32((i * 5) % 9)
		e1.Step(a, b1.observation())
		e2.Step(a, b2.observation())

		if !bytes.Equal(b1.rgb, b2.rgb) {
			t.Fatalf("post-restore frame mismatch at step %d", i)
		}
		if !bytes.Equal(b1.info, b2.info) {
			t.Fatalf("post-restore info mismatch at step %d", i)
		}
		if b1.reward != b2.reward || b1.first != b2.first {
			t.Fatalf("post-restore outcome mismatch at step %d", i)
		}
	}
}

func TestSnapshotVersionMismatch(t *testing.T) {
	e := newTestEngine(&stubRules{}, nil)
	e.Reset()
	snap := e.Snapshot()
	snap[0]++ // corrupt the version field

	defer expectPanic(t, "version mismatch")
	e.Restore(snap)
}

func TestSnapshotTitleMismatch(t *testing.T) {
	e := newTestEngine(&stubRules{}, nil)
	e.Reset()
	snap := e.Snapshot()

	other := New("other", &stubRules{}, NewOptionSet(testOptions(nil)), render.NewFlat(), testRes, testRes)
	defer expectPanic(t, "title mismatch")
	other.Restore(snap)
}

func TestDistributionModeGate(t *testing.T) {
	defer expectPanic(t, "extreme mode")
	newTestEngine(&stubRules{}, map[string]any{"distribution_mode": int32(ExtremeMode)})
}

func TestInvalidDistributionMode(t *testing.T) {
	defer expectPanic(t, "invalid distribution mode")
	newTestEngine(&stubRules{}, map[string]any{"distribution_mode": int32(99)})
}

func TestUnconsumedOptionAborts(t *testing.T) {
	defer expectPanic(t, "unconsumed options")
	newTestEngine(&stubRules{}, map[string]any{"bogus_option": int32(1)})
}

func TestUnknownInfoFieldAborts(t *testing.T) {
	e := newTestEngine(&stubRules{}, nil)
	e.Reset()

	obs := &Observation{
		Info:    make([]byte, 32),
		Offsets: map[string]int{InfoPrevLevelSeed: 0}, // missing the rest
	}
	defer expectPanic(t, "no registered offset")
	e.Observe(obs)
}

func expectPanic(t *testing.T, substr string) {
	t.Helper()
	r := recover()
	if r == nil {
		t.Fatalf("expected panic containing %q", substr)
	}
	msg, ok := r.(string)
	if !ok || !strings.Contains(msg, substr) {
		t.Fatalf("panic = %v, want message containing %q", r, substr)
	}
}
