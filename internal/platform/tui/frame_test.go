package tui

import (
	"strings"
	"testing"
)

func TestRenderFrameLayout(t *testing.T) {
	w, h := 4, 4
	rgb := make([]byte, w*h*3)
	for i := 0; i < len(rgb); i += 3 {
		rgb[i] = 0xFF // solid red
	}

	out := RenderFrame(rgb, w, h)

	// Two pixel rows per terminal line.
	lines := strings.Split(out, "\n")
	if len(lines) != h/2 {
		t.Fatalf("rendered %d lines, want %d", len(lines), h/2)
	}
	for i, line := range lines {
		if n := strings.Count(line, halfBlock); n != w {
			t.Errorf("line %d has %d cells, want %d", i, n, w)
		}
	}
}

func TestRenderFrameOddHeight(t *testing.T) {
	w, h := 2, 3
	rgb := make([]byte, w*h*3)

	out := RenderFrame(rgb, w, h)

	// The odd final pixel row still renders as its own line.
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("rendered %d lines, want 2", len(lines))
	}
}

func TestKeyMapperActionGrid(t *testing.T) {
	// Moves decode as dx = move/3 - 1, dy = move%3 - 1.
	if actionLeft/3-1 != -1 || actionLeft%3-1 != 0 {
		t.Error("left action does not decode to dx=-1, dy=0")
	}
	if actionRight/3-1 != 1 || actionRight%3-1 != 0 {
		t.Error("right action does not decode to dx=1, dy=0")
	}
	if actionUp/3-1 != 0 || actionUp%3-1 != 1 {
		t.Error("up action does not decode to dx=0, dy=1")
	}
	if actionDown/3-1 != 0 || actionDown%3-1 != -1 {
		t.Error("down action does not decode to dx=0, dy=-1")
	}
}
