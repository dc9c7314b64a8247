// Package deploy copies static configuration payloads into place.
//
// A deployment copies a shipped payload file to a destination, optionally
// rewriting templated tokens in the destination copy; the source payload is
// never mutated. Writes are atomic (temp file plus rename) and an existing
// destination is backed up before being replaced.
package deploy

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// BackupSuffix is appended to the destination path for pre-replace backups.
const BackupSuffix = ".dotup-backup"

// DeployError describes a failed deployment. Missing distinguishes "the
// static asset was not shipped alongside the installer" from a transient
// I/O failure; a missing payload means the tool cannot produce a working
// environment and is treated as fatal by the caller.
type DeployError struct {
	Payload string
	Dest    string
	Missing bool
	Cause   error
}

func (e *DeployError) Error() string {
	if e.Missing {
		return fmt.Sprintf("deploy %s: payload not shipped with installer", e.Payload)
	}
	return fmt.Sprintf("deploy %s to %s: %v", e.Payload, e.Dest, e.Cause)
}

func (e *DeployError) Unwrap() error {
	return e.Cause
}

// Deploy copies payloadPath to destPath, applying whole-file token
// substitutions to the destination copy only. An existing destination is
// backed up to destPath+BackupSuffix first.
func Deploy(payloadPath, destPath string, substitutions map[string]string) error {
	content, err := os.ReadFile(payloadPath)
	if err != nil {
		if os.IsNotExist(err) {
			return &DeployError{Payload: payloadPath, Dest: destPath, Missing: true, Cause: err}
		}
		return &DeployError{Payload: payloadPath, Dest: destPath, Cause: err}
	}

	text := string(content)
	for token, value := range substitutions {
		text = strings.ReplaceAll(text, token, value)
	}

	if err := backupExisting(destPath); err != nil {
		return &DeployError{Payload: payloadPath, Dest: destPath, Cause: err}
	}

	if err := writeAtomic(destPath, []byte(text), 0644); err != nil {
		return &DeployError{Payload: payloadPath, Dest: destPath, Cause: err}
	}

	return nil
}

// backupExisting copies an existing regular file aside before replacement.
func backupExisting(destPath string) error {
	info, err := os.Stat(destPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("stat destination: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("destination %s is not a regular file", destPath)
	}

	content, err := os.ReadFile(destPath)
	if err != nil {
		return fmt.Errorf("read destination for backup: %w", err)
	}

	if err := os.WriteFile(destPath+BackupSuffix, content, 0644); err != nil {
		return fmt.Errorf("write backup: %w", err)
	}

	return nil
}

// writeAtomic writes data to path via a temp file in the same directory
// followed by an atomic rename.
func writeAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create destination dir: %w", err)
	}

	tmpFile, err := os.CreateTemp(dir, ".dotup-tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return fmt.Errorf("sync temp file: %w", err)
	}

	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}
