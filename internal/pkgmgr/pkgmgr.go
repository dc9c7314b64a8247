// Package pkgmgr drives the system package manager.
//
// It owns the per-manager command tables (repository sync and
// non-interactive install argv) and executes them through a Runner
// interface so provisioning steps are testable without touching a real
// package manager. Commands run with a bounded timeout; the original
// behavior imposed none.
package pkgmgr

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/dotup-sh/dotup/internal/probe"
)

// DefaultCommandTimeout bounds a single package manager invocation.
// Repository syncs and large installs are slow; ten minutes is generous.
const DefaultCommandTimeout = 10 * time.Minute

// Runner executes a command. Tests substitute a fake.
type Runner interface {
	Run(ctx context.Context, argv []string) error
}

// ExecRunner runs commands via os/exec with a bounded timeout.
type ExecRunner struct {
	Timeout time.Duration
}

// Run executes argv, waiting at most the configured timeout.
func (r *ExecRunner) Run(ctx context.Context, argv []string) error {
	if len(argv) == 0 {
		return fmt.Errorf("empty command")
	}

	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultCommandTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", argv[0], err, strings.TrimSpace(string(output)))
	}
	return nil
}

// SyncArgv returns the repository sync command for a manager.
func SyncArgv(mgr probe.PackageManager) ([]string, error) {
	switch mgr {
	case probe.ManagerApt:
		return []string{"apt-get", "update"}, nil
	case probe.ManagerDnf:
		return []string{"dnf", "makecache"}, nil
	case probe.ManagerYum:
		return []string{"yum", "makecache"}, nil
	case probe.ManagerPacman:
		return []string{"pacman", "-Sy", "--noconfirm"}, nil
	case probe.ManagerZypper:
		return []string{"zypper", "refresh"}, nil
	default:
		return nil, fmt.Errorf("no sync command for package manager %q", mgr)
	}
}

// InstallArgv returns the non-interactive install command for a manager
// and package list.
func InstallArgv(mgr probe.PackageManager, packages []string) ([]string, error) {
	if len(packages) == 0 {
		return nil, fmt.Errorf("no packages specified")
	}

	switch mgr {
	case probe.ManagerApt:
		return append([]string{"apt-get", "install", "-y"}, packages...), nil
	case probe.ManagerDnf:
		return append([]string{"dnf", "install", "-y"}, packages...), nil
	case probe.ManagerYum:
		return append([]string{"yum", "install", "-y"}, packages...), nil
	case probe.ManagerPacman:
		return append([]string{"pacman", "-S", "--noconfirm", "--needed"}, packages...), nil
	case probe.ManagerZypper:
		return append([]string{"zypper", "--non-interactive", "install"}, packages...), nil
	default:
		return nil, fmt.Errorf("no install command for package manager %q", mgr)
	}
}

// Installer runs sync and install operations for one detected manager.
type Installer struct {
	mgr    probe.PackageManager
	runner Runner

	// sudo prefixes commands when the process is not root.
	sudo bool
}

// NewInstaller creates an installer for the detected manager. When the
// probed capabilities lack root, commands are prefixed with sudo.
func NewInstaller(caps *probe.HostCapabilities, runner Runner) (*Installer, error) {
	if !caps.PackageManager.IsKnown() {
		return nil, fmt.Errorf("no supported package manager detected")
	}
	if runner == nil {
		runner = &ExecRunner{}
	}

	return &Installer{
		mgr:    caps.PackageManager,
		runner: runner,
		sudo:   !caps.IsRoot,
	}, nil
}

// Sync refreshes the package repositories.
func (i *Installer) Sync(ctx context.Context) error {
	argv, err := SyncArgv(i.mgr)
	if err != nil {
		return err
	}
	if err := i.runner.Run(ctx, i.wrap(argv)); err != nil {
		return fmt.Errorf("repository sync: %w", err)
	}
	return nil
}

// Install installs packages required for a usable environment. Failure is
// a PackageInstallError; callers treat it as fatal.
func (i *Installer) Install(ctx context.Context, packages ...string) error {
	argv, err := InstallArgv(i.mgr, packages)
	if err != nil {
		return err
	}
	if err := i.runner.Run(ctx, i.wrap(argv)); err != nil {
		return &PackageInstallError{Packages: packages, Cause: err}
	}
	return nil
}

// InstallOptional installs nice-to-have packages. Failure is an
// OptionalInstallError; callers log it and continue.
func (i *Installer) InstallOptional(ctx context.Context, packages ...string) error {
	if err := i.Install(ctx, packages...); err != nil {
		return &OptionalInstallError{Packages: packages, Cause: err}
	}
	return nil
}

// wrap prefixes sudo when running unprivileged.
func (i *Installer) wrap(argv []string) []string {
	if i.sudo {
		return append([]string{"sudo"}, argv...)
	}
	return argv
}
