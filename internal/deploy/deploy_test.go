package deploy

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDeployCopiesVerbatimWithoutSubstitutions(t *testing.T) {
	dir := t.TempDir()
	payload := filepath.Join(dir, "zshrc")
	dest := filepath.Join(dir, "home", ".zshrc")

	content := "export EDITOR=nvim\nalias ls='eza'\n"
	if err := os.WriteFile(payload, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	if err := Deploy(payload, dest, nil); err != nil {
		t.Fatalf("Deploy() error: %v", err)
	}

	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != content {
		t.Errorf("destination = %q, want verbatim copy", got)
	}
}

func TestDeploySubstitutionPreservesOccurrenceCount(t *testing.T) {
	dir := t.TempDir()
	payload := filepath.Join(dir, "zshrc")
	dest := filepath.Join(dir, ".zshrc")

	content := "fastfetch\nalias sysinfo='fastfetch --compact'\n# fastfetch on login\n"
	if err := os.WriteFile(payload, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	sourceCount := strings.Count(content, "fastfetch")

	if err := Deploy(payload, dest, map[string]string{"fastfetch": "neofetch"}); err != nil {
		t.Fatalf("Deploy() error: %v", err)
	}

	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}

	if strings.Count(string(got), "fastfetch") != 0 {
		t.Errorf("destination still contains the source token:\n%s", got)
	}
	if n := strings.Count(string(got), "neofetch"); n != sourceCount {
		t.Errorf("destination has %d occurrences of replacement, want %d", n, sourceCount)
	}

	// Source payload is never mutated
	src, err := os.ReadFile(payload)
	if err != nil {
		t.Fatal(err)
	}
	if string(src) != content {
		t.Error("source payload was mutated by deployment")
	}
}

func TestDeployMissingPayload(t *testing.T) {
	dir := t.TempDir()

	err := Deploy(filepath.Join(dir, "not-shipped"), filepath.Join(dir, "dest"), nil)

	var deployErr *DeployError
	if !errors.As(err, &deployErr) {
		t.Fatalf("error = %v (%T), want *DeployError", err, err)
	}
	if !deployErr.Missing {
		t.Error("Missing = false for an absent payload")
	}
}

func TestDeployBacksUpExistingDestination(t *testing.T) {
	dir := t.TempDir()
	payload := filepath.Join(dir, "p10k")
	dest := filepath.Join(dir, ".p10k.zsh")

	if err := os.WriteFile(payload, []byte("new theme"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dest, []byte("old theme"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := Deploy(payload, dest, nil); err != nil {
		t.Fatalf("Deploy() error: %v", err)
	}

	backup, err := os.ReadFile(dest + BackupSuffix)
	if err != nil {
		t.Fatalf("backup missing: %v", err)
	}
	if string(backup) != "old theme" {
		t.Errorf("backup = %q, want the prior destination content", backup)
	}
}

func TestDeployCreatesDestinationTree(t *testing.T) {
	dir := t.TempDir()
	payload := filepath.Join(dir, "keymaps.lua")
	dest := filepath.Join(dir, ".config", "nvim", "lua", "config", "keymaps.lua")

	if err := os.WriteFile(payload, []byte("-- keymaps"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := Deploy(payload, dest, nil); err != nil {
		t.Fatalf("Deploy() error: %v", err)
	}

	if _, err := os.Stat(dest); err != nil {
		t.Errorf("destination not created: %v", err)
	}
}
