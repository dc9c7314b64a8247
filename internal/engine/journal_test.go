package engine

import (
	"path/filepath"
	"testing"
	"time"
)

func TestRunRecordSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	fixed := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	summary := Summarize([]StepResult{
		{StepName: "core-packages", Outcome: OutcomeSucceeded},
		{StepName: "colorizer", Outcome: OutcomeFailedOptional, Detail: "no package"},
	})

	record := NewRunRecord(TestClock{FixedTime: fixed}, summary)
	if record.ID == "" {
		t.Fatal("run record has empty ID")
	}
	if !record.Timestamp.Equal(fixed) {
		t.Errorf("timestamp = %v, want fixed clock time", record.Timestamp)
	}

	if err := record.Save(dir); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err := LoadRunRecord(filepath.Join(dir, "run-"+record.ID+".json"))
	if err != nil {
		t.Fatalf("LoadRunRecord() error: %v", err)
	}

	if loaded.ID != record.ID {
		t.Errorf("loaded ID = %s, want %s", loaded.ID, record.ID)
	}
	if len(loaded.Summary.Results) != 2 {
		t.Errorf("loaded %d results, want 2", len(loaded.Summary.Results))
	}
	if loaded.Summary.Optional != 1 {
		t.Errorf("loaded optional count = %d, want 1", loaded.Summary.Optional)
	}

	// No stray temp file left behind
	if _, err := LoadRunRecord(filepath.Join(dir, "run-"+record.ID+".json.tmp")); err == nil {
		t.Error("temporary journal file still present after save")
	}
}
