package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}

	if err := store.Close(); err != nil {
		t.Errorf("Close() failed: %v", err)
	}

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveRun(t *testing.T) {
	store := openTestStore(t)

	id, err := store.SaveRun(Run{Mode: "speed", Pulls: 42, Duration: 30, Player: "alice"})
	if err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}
	if id == "" {
		t.Error("SaveRun() returned empty id")
	}

	runs, err := store.TopRuns("speed", 10)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("Expected 1 run, got %d", len(runs))
	}

	r := runs[0]
	if r.ID != id {
		t.Errorf("ID = %q, expected %q", r.ID, id)
	}
	if r.Pulls != 42 || r.Duration != 30 || r.Player != "alice" {
		t.Errorf("Run = %+v, expected pulls 42, duration 30, player alice", r)
	}
	if r.CreatedAt.IsZero() {
		t.Error("CreatedAt should be set")
	}
}

func TestStoreSaveRunUniqueIDs(t *testing.T) {
	store := openTestStore(t)

	first, err := store.SaveRun(Run{Mode: "zen", Pulls: 1})
	if err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}
	second, err := store.SaveRun(Run{Mode: "zen", Pulls: 1})
	if err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}
	if first == second {
		t.Errorf("SaveRun() returned duplicate id %q", first)
	}
}

func TestStoreTopRunsOrdering(t *testing.T) {
	store := openTestStore(t)

	for _, pulls := range []int{12, 50, 7, 33, 50} {
		if _, err := store.SaveRun(Run{Mode: "speed", Pulls: pulls, Duration: 30}); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}
	// Other modes must not leak in.
	store.SaveRun(Run{Mode: "zen", Pulls: 999})

	runs, err := store.TopRuns("speed", 3)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}

	expected := []int{50, 50, 33}
	if len(runs) != len(expected) {
		t.Fatalf("Expected %d runs, got %d", len(expected), len(runs))
	}
	for i, r := range runs {
		if r.Pulls != expected[i] {
			t.Errorf("runs[%d].Pulls = %d, expected %d", i, r.Pulls, expected[i])
		}
	}
}

func TestStoreTopRunsDefaultLimit(t *testing.T) {
	store := openTestStore(t)

	for i := 0; i < 15; i++ {
		store.SaveRun(Run{Mode: "zen", Pulls: i})
	}

	runs, err := store.TopRuns("zen", 0)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(runs) != 10 {
		t.Errorf("Expected default limit of 10, got %d", len(runs))
	}
}

func TestStoreBestPulls(t *testing.T) {
	store := openTestStore(t)

	best, err := store.BestPulls("speed")
	if err != nil {
		t.Fatalf("BestPulls() failed: %v", err)
	}
	if best != 0 {
		t.Errorf("Expected 0 for empty mode, got %d", best)
	}

	store.SaveRun(Run{Mode: "speed", Pulls: 10})
	store.SaveRun(Run{Mode: "speed", Pulls: 30})
	store.SaveRun(Run{Mode: "speed", Pulls: 20})

	best, err = store.BestPulls("speed")
	if err != nil {
		t.Fatalf("BestPulls() failed: %v", err)
	}
	if best != 30 {
		t.Errorf("BestPulls() = %d, expected 30", best)
	}
}

func TestStoreStats(t *testing.T) {
	store := openTestStore(t)

	stats, err := store.Stats("zen")
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.RunsCount != 0 || !stats.LastPlayed.IsZero() {
		t.Errorf("Stats() on empty mode = %+v", stats)
	}

	store.SaveRun(Run{Mode: "zen", Pulls: 10})
	store.SaveRun(Run{Mode: "zen", Pulls: 20})
	store.SaveRun(Run{Mode: "zen", Pulls: 30})

	stats, err = store.Stats("zen")
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.RunsCount != 3 {
		t.Errorf("RunsCount = %d, expected 3", stats.RunsCount)
	}
	if stats.BestPulls != 30 {
		t.Errorf("BestPulls = %d, expected 30", stats.BestPulls)
	}
	if stats.AvgPulls != 20 {
		t.Errorf("AvgPulls = %v, expected 20", stats.AvgPulls)
	}
	if stats.TotalPulls != 60 {
		t.Errorf("TotalPulls = %d, expected 60", stats.TotalPulls)
	}
	if stats.LastPlayed.IsZero() {
		t.Error("LastPlayed should be set")
	}
}

func TestStoreClearRuns(t *testing.T) {
	store := openTestStore(t)

	store.SaveRun(Run{Mode: "speed", Pulls: 10})
	store.SaveRun(Run{Mode: "speed", Pulls: 20})
	store.SaveRun(Run{Mode: "zen", Pulls: 30})

	if err := store.ClearRuns("speed"); err != nil {
		t.Fatalf("ClearRuns() failed: %v", err)
	}

	speed, _ := store.TopRuns("speed", 10)
	if len(speed) != 0 {
		t.Errorf("Expected 0 speed runs after clear, got %d", len(speed))
	}

	zen, _ := store.TopRuns("zen", 10)
	if len(zen) != 1 {
		t.Errorf("Zen runs should not be affected by clearing speed")
	}
}

func TestStoreNestedPath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}
