// Package probe detects host capabilities for dotup's provisioning engine.
//
// It identifies the system package manager, effective privileges, CPU
// architecture, available disk space, and Linux distribution details. The
// snapshot it produces is computed once at startup and consulted by every
// later provisioning step. The package uses gopsutil for distribution and
// disk detection and degrades gracefully when either is unavailable.
package probe

import "context"

// PackageManager identifies the system package manager.
type PackageManager string

const (
	ManagerApt    PackageManager = "apt"
	ManagerDnf    PackageManager = "dnf"
	ManagerYum    PackageManager = "yum"
	ManagerPacman PackageManager = "pacman"
	ManagerZypper PackageManager = "zypper"
	ManagerNone   PackageManager = "none"
)

// String returns the string representation of the package manager.
func (m PackageManager) String() string {
	return string(m)
}

// IsKnown returns true if a supported package manager was detected.
func (m PackageManager) IsKnown() bool {
	return m != ManagerNone && m != ""
}

// DetectionOrder is the fixed priority order for package manager detection.
// The first manager whose binary is found on PATH wins, even if several
// coexist (e.g. a Debian host with a manually installed pacman).
var DetectionOrder = []PackageManager{
	ManagerApt,
	ManagerDnf,
	ManagerYum,
	ManagerPacman,
	ManagerZypper,
}

// Arch is a normalized CPU architecture name.
type Arch string

const (
	ArchX8664 Arch = "x86_64"
	ArchArm64 Arch = "arm64"
)

// String returns the string representation of the architecture.
func (a Arch) String() string {
	return string(a)
}

// Linux distribution family constants.
// These represent canonical family names for grouping related distributions.
const (
	FamilyDebian  = "debian"  // Debian, Ubuntu, Linux Mint
	FamilyRHEL    = "rhel"    // RHEL, CentOS, Rocky Linux, AlmaLinux
	FamilyFedora  = "fedora"  // Fedora
	FamilySUSE    = "suse"    // openSUSE, SLES
	FamilyArch    = "arch"    // Arch Linux, Manjaro
	FamilyAlpine  = "alpine"  // Alpine Linux
	FamilyUnknown = "unknown" // Unrecognized distributions
)

// HostCapabilities is an immutable snapshot of what the host offers.
// It is created once by a Prober and never mutated afterwards.
type HostCapabilities struct {
	PackageManager PackageManager
	IsRoot         bool
	Arch           Arch
	ArchRaw        string // original machine string (e.g. "aarch64")

	// AvailableDiskGB is the free space on the probed mount, floor-divided
	// from kilobytes to whole gigabytes. Only meaningful when DiskKnown.
	AvailableDiskGB int
	DiskKnown       bool

	// Linux distribution identity. Empty when detection failed or the
	// host is not Linux.
	Distro        string // distro ID (e.g. "ubuntu", "arch")
	DistroFamily  string // canonical family (e.g. "debian", "arch")
	DistroVersion string // distro version (e.g. "22.04")

	// Warnings collects non-fatal findings from the probe, such as an
	// unknown architecture defaulting to x86_64.
	Warnings []string
}

// IsDebianFamily returns true if the distribution is Debian-based.
func (c *HostCapabilities) IsDebianFamily() bool {
	return c.DistroFamily == FamilyDebian
}

// IsArchFamily returns true if the distribution is Arch-based.
func (c *HostCapabilities) IsArchFamily() bool {
	return c.DistroFamily == FamilyArch
}

// HasDiskAtLeast reports whether the host is known to have at least gb
// gigabytes available. Unknown disk state reports false.
func (c *HostCapabilities) HasDiskAtLeast(gb int) bool {
	return c.DiskKnown && c.AvailableDiskGB >= gb
}

// Prober is the interface for host capability detection.
type Prober interface {
	Probe(ctx context.Context) (*HostCapabilities, error)
}

// ProbeError indicates that process or filesystem state could not be
// queried at all. It is always fatal; partial detection failures degrade
// gracefully instead.
type ProbeError struct {
	Op    string
	Cause error
}

func (e *ProbeError) Error() string {
	return "probe " + e.Op + ": " + e.Cause.Error()
}

func (e *ProbeError) Unwrap() error {
	return e.Cause
}
