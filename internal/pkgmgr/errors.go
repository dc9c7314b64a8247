package pkgmgr

import (
	"fmt"
	"strings"
)

// PackageInstallError indicates a core package set failed to install.
// The environment is unusable without it, so callers treat this as fatal.
type PackageInstallError struct {
	Packages []string
	Cause    error
}

func (e *PackageInstallError) Error() string {
	return fmt.Sprintf("install %s: %v", strings.Join(e.Packages, " "), e.Cause)
}

func (e *PackageInstallError) Unwrap() error {
	return e.Cause
}

// OptionalInstallError indicates a nice-to-have package failed to install.
// Callers log it and continue; it never changes the process exit code.
type OptionalInstallError struct {
	Packages []string
	Cause    error
}

func (e *OptionalInstallError) Error() string {
	return fmt.Sprintf("optional install %s: %v", strings.Join(e.Packages, " "), e.Cause)
}

func (e *OptionalInstallError) Unwrap() error {
	return e.Cause
}
