package main

import (
	"context"
	"fmt"

	"github.com/dotup-sh/dotup/internal/probe"
	"github.com/dotup-sh/dotup/internal/steps"
)

// runPlan handles the `dotup plan` subcommand: it probes the host, loads
// the manifest, and prints what an install run would do without applying
// anything.
func runPlan(args []string) (int, error) {
	opts, err := parseInstallFlags(args)
	if err != nil {
		return 1, err
	}
	if opts.showHelp {
		fmt.Println("Usage: dotup plan [options]")
		fmt.Println()
		fmt.Println("Shows the ordered install steps and which would run or be skipped")
		fmt.Println("on this host. Nothing is applied.")
		fmt.Println()
		fmt.Println("Options:")
		fmt.Println("  --manifest <path>   Manifest file (default: $XDG_CONFIG_HOME/dotup/dotup.lua)")
		return 0, nil
	}

	ctx := context.Background()

	caps, err := probe.NewProber().Probe(ctx)
	if err != nil {
		return 1, fmt.Errorf("probe host: %w", err)
	}

	m, err := loadManifest(opts.manifestPath, caps)
	if err != nil {
		return 1, err
	}

	deps, err := buildDeps(caps, m)
	if err != nil {
		return 1, err
	}

	plan, err := steps.BuildInstallPlan(deps)
	if err != nil {
		return 1, err
	}

	fmt.Printf("Plan for %s (%s, %s):\n\n", m.Meta.Name, caps.Distro, caps.Arch)

	for i, step := range plan {
		kind := "optional"
		if step.Required {
			kind = "required"
		}

		status := "would run"
		if step.Precondition != nil {
			if ok, reason := step.Precondition(caps); !ok {
				status = "skip: " + reason
			}
		}

		fmt.Printf("%2d. %-16s %-9s %s\n", i+1, step.Name, kind, status)
	}

	return 0, nil
}
