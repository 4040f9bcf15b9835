package maze

import (
	"testing"

	"github.com/vovakirdan/pixelgym/internal/engine"
	"github.com/vovakirdan/pixelgym/internal/wire"
)

func newTestEngine(t *testing.T, extra map[string]any) *engine.Engine {
	t.Helper()
	vals := map[string]any{
		"rand_seed":  int32(777),
		"num_levels": int32(100),
	}
	for k, v := range extra {
		vals[k] = v
	}
	return engine.New(Name, New(), engine.NewOptionSet(vals), nil, 64, 64)
}

// Actions for the four cardinal moves.
const (
	moveLeft  int32 = 1
	moveDown  int32 = 3
	moveUp    int32 = 5
	moveRight int32 = 7
)

func TestCarveDeterminism(t *testing.T) {
	e1 := newTestEngine(t, nil)
	e2 := newTestEngine(t, nil)
	e1.Reset()
	e2.Reset()

	g1 := e1.Rules().(*Game)
	g2 := e2.Rules().(*Game)
	if g1.size != g2.size {
		t.Fatalf("sizes differ: %d vs %d", g1.size, g2.size)
	}
	for i := range g1.walls {
		if g1.walls[i] != g2.walls[i] {
			t.Fatalf("wall grid diverged at cell %d", i)
		}
	}
}

func TestSizesByMode(t *testing.T) {
	cases := []struct {
		mode engine.DistributionMode
		size float32
	}{
		{engine.EasyMode, easySize},
		{engine.HardMode, hardSize},
		{engine.MemoryMode, memorySize},
	}
	for _, tc := range cases {
		e := newTestEngine(t, map[string]any{"distribution_mode": int32(tc.mode)})
		e.Reset()
		if e.World.Width != tc.size {
			t.Errorf("mode %v: width = %v, want %v", tc.mode, e.World.Width, tc.size)
		}
	}
}

func TestMazeIsPerfect(t *testing.T) {
	e := newTestEngine(t, nil)
	e.Reset()
	g := e.Rules().(*Game)
	n := g.size

	// Border must be solid.
	for i := int32(0); i < n; i++ {
		if !g.wallAt(i, 0) || !g.wallAt(i, n-1) || !g.wallAt(0, i) || !g.wallAt(n-1, i) {
			t.Fatal("maze border has a hole")
		}
	}

	// Every open cell must be reachable from the start, including the
	// goal corner.
	open := 0
	for _, wall := range g.walls {
		if !wall {
			open++
		}
	}

	type cell struct{ x, y int32 }
	seen := map[cell]bool{{1, 1}: true}
	queue := []cell{{1, 1}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, d := range [4]cell{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
			next := cell{cur.x + d.x, cur.y + d.y}
			if !g.wallAt(next.x, next.y) && !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}

	if len(seen) != open {
		t.Errorf("reachable cells = %d, open cells = %d", len(seen), open)
	}
	if !seen[cell{n - 2, n - 2}] {
		t.Error("goal corner unreachable from start")
	}
}

func TestMovementRespectsWalls(t *testing.T) {
	e := newTestEngine(t, nil)
	e.Reset()
	g := e.Rules().(*Game)

	moves := []struct {
		action int32
		dx, dy int32
	}{
		{moveRight, 1, 0},
		{moveLeft, -1, 0},
		{moveUp, 0, 1},
		{moveDown, 0, -1},
	}
	for _, m := range moves {
		cx, cy := int32(e.World.Agent.X), int32(e.World.Agent.Y)
		blocked := g.wallAt(cx+m.dx, cy+m.dy)
		e.Step(m.action, nil)
		nx, ny := int32(e.World.Agent.X), int32(e.World.Agent.Y)
		if blocked && (nx != cx || ny != cy) {
			t.Fatalf("action %d moved through a wall into (%d, %d)", m.action, nx, ny)
		}
		if !blocked && (nx != cx+m.dx || ny != cy+m.dy) {
			t.Fatalf("action %d did not enter open cell (%d, %d)", m.action, cx+m.dx, cy+m.dy)
		}
	}
}

func TestReachingGoalCompletesLevel(t *testing.T) {
	e := newTestEngine(t, nil)
	e.Reset()
	g := e.Rules().(*Game)
	n := g.size

	// BFS with parent pointers to recover the unique path to the goal.
	type cell struct{ x, y int32 }
	start := cell{1, 1}
	goal := cell{n - 2, n - 2}
	parent := map[cell]cell{start: start}
	queue := []cell{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == goal {
			break
		}
		for _, d := range [4]cell{{1, 0}, {-1, 0}, {0, 1}, {0, -1}} {
			next := cell{cur.x + d.x, cur.y + d.y}
			if _, ok := parent[next]; !ok && !g.wallAt(next.x, next.y) {
				parent[next] = cur
				queue = append(queue, next)
			}
		}
	}
	if _, ok := parent[goal]; !ok {
		t.Fatal("no path to goal")
	}
	var path []cell
	for c := goal; c != start; c = parent[c] {
		path = append(path, c)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}

	var reward float32
	var first byte
	obs := &engine.Observation{Reward: &reward, First: &first}

	prev := start
	for i, c := range path {
		var action int32
		switch {
		case c.x > prev.x:
			action = moveRight
		case c.x < prev.x:
			action = moveLeft
		case c.y > prev.y:
			action = moveUp
		default:
			action = moveDown
		}
		e.Step(action, obs)
		prev = c

		if i < len(path)-1 && first != 0 {
			t.Fatalf("episode ended early at path step %d", i)
		}
	}

	if first != 1 {
		t.Fatal("reaching the goal did not end the episode")
	}
	if reward != completionBonus {
		t.Errorf("completion reward = %v, want %v", reward, completionBonus)
	}
}

func TestSerializeExtraRoundTrip(t *testing.T) {
	e := newTestEngine(t, nil)
	e.Reset()
	g := e.Rules().(*Game)

	w := wire.NewWriter()
	g.SerializeExtra(w)

	restored := New()
	restored.DeserializeExtra(wire.NewReader(w.Bytes()))

	if restored.size != g.size {
		t.Fatalf("size = %d, want %d", restored.size, g.size)
	}
	for i := range g.walls {
		if restored.walls[i] != g.walls[i] {
			t.Fatalf("wall grid diverged at cell %d", i)
		}
	}
}
