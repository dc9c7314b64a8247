package main

import (
	"fmt"
	"os"
	"path/filepath"
)

// Path resolution honors env overrides first (test isolation, packaging),
// then the XDG conventions, then plain HOME fallbacks.

func homeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return home, nil
}

// stateDir holds the run lock and the journal.
func stateDir() (string, error) {
	if dir := os.Getenv("DOTUP_STATE_DIR"); dir != "" {
		return dir, nil
	}
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "dotup"), nil
	}
	home, err := homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "state", "dotup"), nil
}

// configDir is where the manifest and deployed nvim config live.
func configDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return xdg, nil
	}
	home, err := homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config"), nil
}

// payloadDir holds the static config payloads shipped alongside the
// binary.
func payloadDir() (string, error) {
	if dir := os.Getenv("DOTUP_PAYLOAD_DIR"); dir != "" {
		return dir, nil
	}
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate executable: %w", err)
	}
	return filepath.Join(filepath.Dir(exe), "payloads"), nil
}

// installDir is the root fetched artifacts are installed under.
func installDir() (string, error) {
	if dir := os.Getenv("DOTUP_INSTALL_DIR"); dir != "" {
		return dir, nil
	}
	home, err := homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", "dotup"), nil
}

// binDir is where command symlinks for fetched binaries land.
func binDir() (string, error) {
	home, err := homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "bin"), nil
}

// defaultManifestPath is consulted when --manifest is not given. A
// missing file there is fine; the built-in defaults apply.
func defaultManifestPath() (string, error) {
	cfg, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "dotup", "dotup.lua"), nil
}
