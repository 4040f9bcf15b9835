package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	episodes := []struct {
		env       string
		seed      int32
		steps     int32
		reward    float64
		completed bool
	}{
		{"fruitbot", 42, 120, 14.5, true},
		{"fruitbot", 43, 30, -2.0, false},
		{"fruitbot", 44, 200, 22.0, true},
		{"maze", 42, 80, 10.0, true},
	}
	for _, ep := range episodes {
		if _, err := store.SaveEpisode(ep.env, ep.seed, ep.steps, ep.reward, ep.completed); err != nil {
			t.Fatalf("SaveEpisode() failed: %v", err)
		}
	}

	top, err := store.TopEpisodes("fruitbot", 10)
	if err != nil {
		t.Fatalf("TopEpisodes() failed: %v", err)
	}

	if len(top) != 3 {
		t.Errorf("Expected 3 episodes, got %d", len(top))
	}

	// Should be sorted by reward descending
	if top[0].TotalReward != 22.0 {
		t.Errorf("Expected highest reward 22.0, got %v", top[0].TotalReward)
	}
	if top[0].LevelSeed != 44 {
		t.Errorf("Expected seed 44 on top entry, got %d", top[0].LevelSeed)
	}
	if !top[0].Completed {
		t.Error("Expected top episode to be completed")
	}
	if top[2].TotalReward != -2.0 {
		t.Errorf("Expected lowest reward -2.0, got %v", top[2].TotalReward)
	}

	mazeEps, err := store.RecentEpisodes("maze", 10)
	if err != nil {
		t.Fatalf("RecentEpisodes() failed: %v", err)
	}
	if len(mazeEps) != 1 {
		t.Errorf("Expected 1 maze episode, got %d", len(mazeEps))
	}
	if mazeEps[0].Steps != 80 {
		t.Errorf("Expected 80 steps, got %d", mazeEps[0].Steps)
	}
}

func TestStoreHomeExpansionError(t *testing.T) {
	// A path in a temp dir should never require home expansion.
	tmpDir := t.TempDir()
	store, err := Open(filepath.Join(tmpDir, "nested", "dir", "test.db"))
	if err != nil {
		t.Fatalf("Open() with nested dirs failed: %v", err)
	}
	store.Close()
}
