package deploy

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// DefaultShellsFile is the system login-shell registry.
const DefaultShellsFile = "/etc/shells"

// IsShellRegistered reports whether shellPath appears in the registry.
// A missing registry file reports false without error.
func IsShellRegistered(shellsFile, shellPath string) (bool, error) {
	file, err := os.Open(shellsFile)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("open %s: %w", shellsFile, err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) == shellPath {
			return true, nil
		}
	}

	if err := scanner.Err(); err != nil {
		return false, fmt.Errorf("read %s: %w", shellsFile, err)
	}

	return false, nil
}

// RegisterShell appends shellPath to the login-shell registry if absent.
// The append is non-destructive: existing lines are preserved verbatim.
// Registering an already-present shell is a no-op.
func RegisterShell(shellsFile, shellPath string) error {
	registered, err := IsShellRegistered(shellsFile, shellPath)
	if err != nil {
		return err
	}
	if registered {
		return nil
	}

	var existing []byte
	if content, err := os.ReadFile(shellsFile); err == nil {
		existing = content
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("read %s: %w", shellsFile, err)
	}

	var b strings.Builder
	b.Write(existing)
	if len(existing) > 0 && !strings.HasSuffix(string(existing), "\n") {
		b.WriteString("\n")
	}
	b.WriteString(shellPath)
	b.WriteString("\n")

	if err := writeAtomic(shellsFile, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("update %s: %w", shellsFile, err)
	}

	return nil
}
