package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
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

func steps(rewards ...float64) []StepRecord {
	out := make([]StepRecord, len(rewards))
	for i, r := range rewards {
		out[i] = StepRecord{Step: i + 1, Reward: r, Rules: []string{"heading_ok", "steering_ok"}}
	}
	return out
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveRun(t *testing.T) {
	store := openTestStore(t)

	recs := steps(10, 20, 30)
	recs[2].Degraded = true
	recs[2].Rules = []string{"invalid_snapshot"}

	id, err := store.SaveRun(RunRecord{TrackID: "box", Source: "lap.jsonl"}, recs)
	if err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("SaveRun() returned non-UUID id %q: %v", id, err)
	}

	run, err := store.GetRun(id)
	if err != nil {
		t.Fatalf("GetRun() failed: %v", err)
	}
	if run == nil {
		t.Fatal("GetRun() returned nil for saved run")
	}
	if run.Steps != 3 || run.TotalReward != 60 || run.MeanReward != 20 || run.Degraded != 1 {
		t.Errorf("unexpected aggregates: %+v", *run)
	}
	if run.TrackID != "box" || run.Source != "lap.jsonl" {
		t.Errorf("unexpected metadata: %+v", *run)
	}
	if run.CreatedAt.IsZero() {
		t.Error("CreatedAt was not set")
	}
}

func TestStoreSaveRunKeepsExplicitID(t *testing.T) {
	store := openTestStore(t)

	id, err := store.SaveRun(RunRecord{ID: "fixed", TrackID: "box"}, nil)
	if err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}
	if id != "fixed" {
		t.Errorf("id = %q, expected %q", id, "fixed")
	}

	// Duplicate IDs are rejected and leave nothing behind
	if _, err := store.SaveRun(RunRecord{ID: "fixed", TrackID: "box"}, steps(1)); err == nil {
		t.Error("expected error for duplicate run ID")
	}
	got, err := store.RunSteps("fixed")
	if err != nil {
		t.Fatalf("RunSteps() failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected rolled back steps, got %d", len(got))
	}
}

func TestStoreRunSteps(t *testing.T) {
	store := openTestStore(t)

	recs := steps(1.5, 2.5)
	recs[1].Fatal = true
	recs[1].Rules = []string{"fatal_state"}

	id, err := store.SaveRun(RunRecord{TrackID: "oval"}, recs)
	if err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}

	got, err := store.RunSteps(id)
	if err != nil {
		t.Fatalf("RunSteps() failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Expected 2 steps, got %d", len(got))
	}
	if got[0].Step != 1 || got[0].Reward != 1.5 || len(got[0].Rules) != 2 || got[0].Rules[1] != "steering_ok" {
		t.Errorf("unexpected first step: %+v", got[0])
	}
	if !got[1].Fatal || got[1].Degraded || got[1].Rules[0] != "fatal_state" {
		t.Errorf("unexpected second step: %+v", got[1])
	}
}

func TestStoreTopRuns(t *testing.T) {
	store := openTestStore(t)

	for _, r := range []float64{100, 300, 200, 500, 400} {
		if _, err := store.SaveRun(RunRecord{TrackID: "box"}, steps(r)); err != nil {
			t.Fatalf("SaveRun() failed: %v", err)
		}
	}
	if _, err := store.SaveRun(RunRecord{TrackID: "oval"}, steps(1000)); err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}

	runs, err := store.TopRuns("box", 3)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("Expected 3 runs with limit, got %d", len(runs))
	}
	if runs[0].MeanReward != 500 || runs[1].MeanReward != 400 || runs[2].MeanReward != 300 {
		t.Errorf("Runs not in expected order: %v", runs)
	}

	all, err := store.TopRuns("", 0)
	if err != nil {
		t.Fatalf("TopRuns() failed: %v", err)
	}
	if len(all) != 6 {
		t.Errorf("Expected 6 runs across tracks, got %d", len(all))
	}
	if all[0].TrackID != "oval" {
		t.Errorf("Expected oval run first, got %q", all[0].TrackID)
	}
}

func TestStoreGetRunMissing(t *testing.T) {
	store := openTestStore(t)

	run, err := store.GetRun("nope")
	if err != nil {
		t.Fatalf("GetRun() failed: %v", err)
	}
	if run != nil {
		t.Errorf("Expected nil for missing run, got %+v", *run)
	}
}

func TestStoreClearRuns(t *testing.T) {
	store := openTestStore(t)

	boxID, _ := store.SaveRun(RunRecord{TrackID: "box"}, steps(1, 2))
	store.SaveRun(RunRecord{TrackID: "oval"}, steps(3))

	if err := store.ClearRuns("box"); err != nil {
		t.Fatalf("ClearRuns() failed: %v", err)
	}

	boxRuns, _ := store.TopRuns("box", 10)
	if len(boxRuns) != 0 {
		t.Errorf("Expected 0 box runs after clear, got %d", len(boxRuns))
	}
	boxSteps, _ := store.RunSteps(boxID)
	if len(boxSteps) != 0 {
		t.Errorf("Expected 0 box steps after clear, got %d", len(boxSteps))
	}

	ovalRuns, _ := store.TopRuns("oval", 10)
	if len(ovalRuns) != 1 {
		t.Errorf("Oval runs should not be affected by clearing box")
	}
}

func TestStoreGetTrackStats(t *testing.T) {
	store := openTestStore(t)

	stats, err := store.GetTrackStats("box")
	if err != nil {
		t.Fatalf("GetTrackStats() failed: %v", err)
	}
	if stats.Runs != 0 || !stats.LastRun.IsZero() {
		t.Errorf("Expected empty stats, got %+v", *stats)
	}

	store.SaveRun(RunRecord{TrackID: "box"}, steps(10, 30))
	store.SaveRun(RunRecord{TrackID: "box"}, steps(40))

	stats, err = store.GetTrackStats("box")
	if err != nil {
		t.Fatalf("GetTrackStats() failed: %v", err)
	}
	if stats.Runs != 2 {
		t.Errorf("Runs = %d, expected 2", stats.Runs)
	}
	if stats.BestMean != 40 {
		t.Errorf("BestMean = %v, expected 40", stats.BestMean)
	}
	if stats.AvgMean != 30 {
		t.Errorf("AvgMean = %v, expected 30", stats.AvgMean)
	}
	if stats.TotalSteps != 3 {
		t.Errorf("TotalSteps = %d, expected 3", stats.TotalSteps)
	}
	if stats.LastRun.IsZero() {
		t.Error("LastRun was not set")
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

func TestStoreReopenKeepsRuns(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	id, err := store.SaveRun(RunRecord{TrackID: "box"}, steps(1, 2))
	if err != nil {
		t.Fatalf("SaveRun() failed: %v", err)
	}
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("second Open() failed: %v", err)
	}
	defer store.Close()

	version, dirty, err := store.SchemaVersion()
	if err != nil {
		t.Fatalf("SchemaVersion() failed: %v", err)
	}
	if version != 1 || dirty {
		t.Errorf("SchemaVersion() = %d, %v, want 1, false", version, dirty)
	}

	run, err := store.GetRun(id)
	if err != nil {
		t.Fatalf("GetRun() failed: %v", err)
	}
	if run == nil || run.Steps != 2 {
		t.Errorf("GetRun() after reopen = %+v, want 2 steps", run)
	}
}
