// Package engine runs ordered, idempotent provisioning steps and reports
// their outcomes.
//
// Steps are defined statically by the caller, each with a precondition over
// host capabilities, an apply action, and a post-apply verification. The
// executor runs them strictly in order, halting on the first fatal failure
// and continuing past optional ones. A final Summary aggregates the ordered
// results into an exit status plus remediation hints.
package engine

import (
	"context"

	"github.com/dotup-sh/dotup/internal/probe"
)

// Step is one named, idempotent provisioning action.
type Step struct {
	// Name uniquely identifies the step within a run.
	Name string

	// Required marks the step fatal: a failure halts the whole run.
	// Optional steps log a warning and the run continues.
	Required bool

	// Precondition decides whether the step applies to this host. A false
	// result records Skipped with the returned reason. A nil Precondition
	// always applies.
	Precondition func(caps *probe.HostCapabilities) (bool, string)

	// Apply performs the step's action. Nil Apply is valid for pure-check
	// steps whose Precondition does the gating.
	Apply func(ctx context.Context) error

	// Verify checks that Apply took effect. A false result is treated
	// identically to an Apply failure. Nil Verify means Apply's error
	// return is trusted.
	Verify func() (bool, string)

	// Alternatives, when non-empty, replaces Apply/Verify with an ordered
	// fallback chain: each alternative is tried in order and the first
	// whose apply and verify both succeed wins. The step fails only when
	// every alternative fails.
	Alternatives []Alternative

	// Remedy is a manual-remediation hint surfaced in the report when the
	// step fails.
	Remedy string
}

// Alternative is one entry in a step's fallback chain.
type Alternative struct {
	// Name identifies the alternative (e.g. the tool it installs).
	Name string

	Apply  func(ctx context.Context) error
	Verify func() (bool, string)
}
