package deploy

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRegisterShellAppendsOnce(t *testing.T) {
	dir := t.TempDir()
	shellsFile := filepath.Join(dir, "shells")

	existing := "# /etc/shells\n/bin/sh\n/bin/bash\n"
	if err := os.WriteFile(shellsFile, []byte(existing), 0644); err != nil {
		t.Fatal(err)
	}

	if err := RegisterShell(shellsFile, "/usr/bin/zsh"); err != nil {
		t.Fatalf("RegisterShell() error: %v", err)
	}

	content, err := os.ReadFile(shellsFile)
	if err != nil {
		t.Fatal(err)
	}

	// Existing lines preserved verbatim, new line appended
	if !strings.HasPrefix(string(content), existing) {
		t.Errorf("existing lines disturbed:\n%s", content)
	}
	if strings.Count(string(content), "/usr/bin/zsh\n") != 1 {
		t.Errorf("zsh not appended exactly once:\n%s", content)
	}

	// Second registration is a no-op
	if err := RegisterShell(shellsFile, "/usr/bin/zsh"); err != nil {
		t.Fatalf("second RegisterShell() error: %v", err)
	}
	again, _ := os.ReadFile(shellsFile)
	if string(again) != string(content) {
		t.Error("re-registration modified the file")
	}
}

func TestRegisterShellHandlesMissingTrailingNewline(t *testing.T) {
	dir := t.TempDir()
	shellsFile := filepath.Join(dir, "shells")

	if err := os.WriteFile(shellsFile, []byte("/bin/sh"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := RegisterShell(shellsFile, "/usr/bin/zsh"); err != nil {
		t.Fatalf("RegisterShell() error: %v", err)
	}

	content, _ := os.ReadFile(shellsFile)
	if string(content) != "/bin/sh\n/usr/bin/zsh\n" {
		t.Errorf("content = %q", content)
	}
}

func TestIsShellRegisteredMissingFile(t *testing.T) {
	registered, err := IsShellRegistered(filepath.Join(t.TempDir(), "absent"), "/usr/bin/zsh")
	if err != nil {
		t.Fatalf("IsShellRegistered() error: %v", err)
	}
	if registered {
		t.Error("registered = true for a missing registry")
	}
}
