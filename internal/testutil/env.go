// Package testutil provides utilities for testing dotup in isolation.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// SetupTestEnv points every path dotup resolves at a per-test temp
// directory so tests never touch:
// - the real home directory or its rc files
// - actual installed tools under ~/.local
// - another test's state or journal
//
// Cleanup is handled by t.TempDir(), so callers don't need to.
func SetupTestEnv(t *testing.T) string {
	t.Helper()

	tmpDir := t.TempDir()

	t.Setenv("HOME", filepath.Join(tmpDir, "home"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmpDir, "home/.config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(tmpDir, "home/.local/state"))

	t.Setenv("DOTUP_STATE_DIR", filepath.Join(tmpDir, "state"))
	t.Setenv("DOTUP_PAYLOAD_DIR", filepath.Join(tmpDir, "payloads"))
	t.Setenv("DOTUP_INSTALL_DIR", filepath.Join(tmpDir, "install"))

	dirs := []string{
		filepath.Join(tmpDir, "home"),
		filepath.Join(tmpDir, "home/.config"),
		filepath.Join(tmpDir, "home/.local/state"),
		filepath.Join(tmpDir, "state"),
		filepath.Join(tmpDir, "payloads"),
		filepath.Join(tmpDir, "install"),
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			t.Fatalf("failed to create test directory %s: %v", dir, err)
		}
	}

	return tmpDir
}
