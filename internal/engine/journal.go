package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// RunRecord is the persisted journal of one provisioning run.
type RunRecord struct {
	Version   int       `json:"version"` // schema version for future evolution
	ID        string    `json:"id"`      // UUID for unique identification
	Timestamp time.Time `json:"timestamp"`
	Summary   Summary   `json:"summary"`
}

// NewRunRecord builds a journal entry for a completed run.
func NewRunRecord(clock Clock, summary Summary) *RunRecord {
	if clock == nil {
		clock = RealClock{}
	}
	return &RunRecord{
		Version:   1,
		ID:        uuid.New().String(),
		Timestamp: clock.Now().UTC(),
		Summary:   summary,
	}
}

// Save writes the run record to dir atomically.
// Uses write-then-rename pattern for atomicity.
func (r *RunRecord) Save(dir string) error {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create journal directory: %w", err)
	}

	filename := fmt.Sprintf("run-%s.json", r.ID)
	finalPath := filepath.Join(dir, filename)
	tmpPath := finalPath + ".tmp"

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal run record: %w", err)
	}

	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("write temporary run record: %w", err)
	}

	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename run record: %w", err)
	}

	// Sync directory for durability
	df, err := os.Open(dir)
	if err == nil {
		if syncErr := df.Sync(); syncErr != nil {
			df.Close()
			return fmt.Errorf("sync journal directory: %w", syncErr)
		}
		df.Close()
	}

	return nil
}

// LoadRunRecord reads a run record from disk.
func LoadRunRecord(path string) (*RunRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read run record: %w", err)
	}

	var record RunRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("unmarshal run record: %w", err)
	}

	return &record, nil
}
