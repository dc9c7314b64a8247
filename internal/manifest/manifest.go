// Package manifest loads dotup's declarative provisioning plan.
//
// The plan is a sandboxed Lua file (dotup.lua) that selects package names,
// the system-info tool preference order, optional features, and artifact
// pins. A read-only host table describing the probed capabilities is
// injected before user code runs, so plans can branch on distro family or
// architecture declaratively. When no manifest exists, built-in defaults
// reproduce the stock plan.
package manifest

import (
	"fmt"
	"strings"
)

// Limits guarding against runaway manifests.
const (
	MaxPackageCount = 200
	MaxPackageLen   = 100
)

// Meta describes the manifest.
type Meta struct {
	Name        string
	Description string
}

// Features toggles the optional provisioning steps.
type Features struct {
	Colorizer bool
	Fzf       bool
	Zoxide    bool
	LazyVim   bool
}

// Neovim pins the editor artifact.
type Neovim struct {
	// Pin is a release tag; empty means resolve the latest release.
	Pin string
	// MinMB is the minimum accepted tarball size in MiB.
	MinMB int
}

// Manifest is the complete provisioning plan.
type Manifest struct {
	Meta Meta

	// CorePackages are installed with the fatal install step.
	CorePackages []string

	// SysInfoTools is the preference-ordered fallback chain for the
	// system-info tool; the first installable one wins.
	SysInfoTools []string

	// SysInfoToken is the placeholder in config payloads replaced with
	// the winning system-info tool name.
	SysInfoToken string

	// ColorizerPackage names the optional output colorizer.
	ColorizerPackage string

	Features Features
	Neovim   Neovim

	// MinDiskGB gates the run: hosts with less known free space fail
	// the required disk step.
	MinDiskGB int
}

// Default returns the built-in plan used when no manifest file exists.
func Default() *Manifest {
	return &Manifest{
		Meta: Meta{
			Name:        "dotup defaults",
			Description: "stock zsh + neovim environment",
		},
		CorePackages:     []string{"zsh", "git", "curl"},
		SysInfoTools:     []string{"fastfetch", "neofetch"},
		SysInfoToken:     "fastfetch",
		ColorizerPackage: "grc",
		Features: Features{
			Colorizer: true,
			Fzf:       true,
			Zoxide:    true,
			LazyVim:   true,
		},
		Neovim:    Neovim{MinMB: 1},
		MinDiskGB: 2,
	}
}

// Validate performs basic validation on a Manifest.
func (m *Manifest) Validate() error {
	if len(m.CorePackages) == 0 {
		return &ValidationError{Field: "packages.core", Message: "at least one core package is required"}
	}
	if len(m.CorePackages) > MaxPackageCount {
		return &ValidationError{
			Field:   "packages.core",
			Message: fmt.Sprintf("too many packages (%d), maximum is %d", len(m.CorePackages), MaxPackageCount),
		}
	}

	for _, pkg := range append(append([]string{}, m.CorePackages...), m.SysInfoTools...) {
		if err := validatePackageName(pkg); err != nil {
			return err
		}
	}

	if len(m.SysInfoTools) == 0 {
		return &ValidationError{Field: "sysinfo", Message: "at least one system-info tool is required"}
	}
	if m.SysInfoToken == "" {
		return &ValidationError{Field: "sysinfo_token", Message: "substitution token cannot be empty"}
	}
	if m.MinDiskGB < 0 {
		return &ValidationError{Field: "min_disk_gb", Message: "cannot be negative"}
	}
	if m.Neovim.MinMB < 0 {
		return &ValidationError{Field: "neovim.min_mb", Message: "cannot be negative"}
	}

	return nil
}

// validatePackageName rejects names that could smuggle shell metacharacters
// into a package manager invocation.
func validatePackageName(pkg string) error {
	if pkg == "" {
		return &ValidationError{Field: "packages", Message: "empty package name"}
	}
	if len(pkg) > MaxPackageLen {
		return &ValidationError{Field: "packages", Message: fmt.Sprintf("package name too long: %q", pkg)}
	}
	if strings.ContainsAny(pkg, " \t\n;|&$`<>(){}") {
		return &ValidationError{Field: "packages", Message: fmt.Sprintf("invalid characters in package name: %q", pkg)}
	}
	return nil
}

// ValidationError describes a manifest field that failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("manifest validation: %s: %s", e.Field, e.Message)
}
