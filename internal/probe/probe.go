package probe

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/shirou/gopsutil/v4/host"
)

// LookPathFunc resolves a binary name to a path, exec.LookPath-shaped.
// Tests substitute this to simulate hosts with different managers present.
type LookPathFunc func(name string) (string, error)

// RealProber implements Prober against the actual host.
type RealProber struct {
	lookPath LookPathFunc
	euid     func() int
	diskRoot string
}

// Option configures a RealProber.
type Option func(*RealProber)

// WithLookPath overrides binary lookup (testing).
func WithLookPath(fn LookPathFunc) Option {
	return func(p *RealProber) { p.lookPath = fn }
}

// WithEUID overrides the effective UID source (testing).
func WithEUID(fn func() int) Option {
	return func(p *RealProber) { p.euid = fn }
}

// WithDiskRoot overrides the mount point probed for free space.
func WithDiskRoot(path string) Option {
	return func(p *RealProber) { p.diskRoot = path }
}

// NewProber creates a prober for the real host.
func NewProber(opts ...Option) *RealProber {
	p := &RealProber{
		lookPath: exec.LookPath,
		euid:     os.Geteuid,
		diskRoot: "/",
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Probe detects host capabilities. It fails with ProbeError only when the
// filesystem cannot be queried at all; individual detection failures
// (no distro info, unreadable disk stats) degrade gracefully.
func (p *RealProber) Probe(ctx context.Context) (*HostCapabilities, error) {
	if _, err := os.Stat(p.diskRoot); err != nil {
		return nil, &ProbeError{Op: "stat filesystem root", Cause: err}
	}

	caps := &HostCapabilities{
		PackageManager: p.detectPackageManager(),
		IsRoot:         p.euid() == 0,
		ArchRaw:        runtime.GOARCH,
	}

	arch, warning := normalizeArch(runtime.GOARCH)
	caps.Arch = arch
	if warning != "" {
		caps.Warnings = append(caps.Warnings, warning)
	}

	p.detectDistro(ctx, caps)
	p.detectDisk(ctx, caps)

	return caps, nil
}

// detectPackageManager walks DetectionOrder and returns the first manager
// whose binary is on PATH. Only one branch is ever taken; the order is the
// documented priority, not an accident.
func (p *RealProber) detectPackageManager() PackageManager {
	for _, mgr := range DetectionOrder {
		if _, err := p.lookPath(managerBinary(mgr)); err == nil {
			return mgr
		}
	}
	return ManagerNone
}

// managerBinary returns the binary name probed for a package manager.
func managerBinary(mgr PackageManager) string {
	if mgr == ManagerApt {
		// Probing apt-get rather than apt: apt-get exists on every
		// Debian-family release, apt only on newer ones.
		return "apt-get"
	}
	return mgr.String()
}

// detectDistro fills in Linux distribution identity using gopsutil.
// Detection failure leaves the fields empty; context cancellation is
// propagated as a hard failure by the caller on the next use.
func (p *RealProber) detectDistro(ctx context.Context, caps *HostCapabilities) {
	if runtime.GOOS != "linux" {
		return
	}

	platform, family, version, err := host.PlatformInformationWithContext(ctx)
	if err != nil {
		// Graceful fallback: package manager detection already pins the
		// behavior that matters for provisioning.
		return
	}

	caps.Distro = normalizeIdent(platform)
	caps.DistroFamily = mapFamily(family)
	caps.DistroVersion = normalizeIdent(version)
}

// normalizeArch maps raw machine strings to the supported architecture set.
// Unknown values default to x86_64 with a warning; this is a deliberate
// policy choice so that unrecognized machines still get a usable plan.
func normalizeArch(raw string) (Arch, string) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "amd64", "x86_64":
		return ArchX8664, ""
	case "arm64", "aarch64":
		return ArchArm64, ""
	default:
		return ArchX8664, fmt.Sprintf("unknown architecture %q, assuming x86_64", raw)
	}
}

// familyMap maps distribution names to their canonical family names.
var familyMap = map[string]string{
	"debian":   FamilyDebian,
	"ubuntu":   FamilyDebian,
	"rhel":     FamilyRHEL,
	"centos":   FamilyRHEL,
	"rocky":    FamilyRHEL,
	"fedora":   FamilyFedora,
	"suse":     FamilySUSE,
	"opensuse": FamilySUSE,
	"arch":     FamilyArch,
	"manjaro":  FamilyArch,
	"alpine":   FamilyAlpine,
}

// normalizeIdent lowercases and trims distro identifiers for consistency.
func normalizeIdent(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// mapFamily maps a raw family string to a canonical family name.
func mapFamily(family string) string {
	if canonical, ok := familyMap[normalizeIdent(family)]; ok {
		return canonical
	}
	return FamilyUnknown
}
