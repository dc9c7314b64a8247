package main

import (
	"context"
	"fmt"

	"github.com/dotup-sh/dotup/internal/probe"
)

// runProbe handles the `dotup probe` subcommand: it prints the detected
// host capabilities every later step would consult.
func runProbe(args []string) (int, error) {
	for _, arg := range args {
		if arg == "--help" || arg == "-h" {
			fmt.Println("Usage: dotup probe")
			fmt.Println()
			fmt.Println("Detects and prints host capabilities: package manager, privileges,")
			fmt.Println("architecture, free disk, and distribution identity.")
			return 0, nil
		}
	}

	caps, err := probe.NewProber().Probe(context.Background())
	if err != nil {
		return 1, fmt.Errorf("probe host: %w", err)
	}

	fmt.Printf("package manager : %s\n", caps.PackageManager)
	fmt.Printf("root            : %t\n", caps.IsRoot)
	fmt.Printf("architecture    : %s (raw %q)\n", caps.Arch, caps.ArchRaw)

	if caps.DiskKnown {
		fmt.Printf("free disk       : %d GB\n", caps.AvailableDiskGB)
	} else {
		fmt.Printf("free disk       : unknown\n")
	}

	if caps.Distro != "" {
		fmt.Printf("distro          : %s %s (%s family)\n", caps.Distro, caps.DistroVersion, caps.DistroFamily)
	} else {
		fmt.Printf("distro          : unknown\n")
	}

	for _, warning := range caps.Warnings {
		fmt.Printf("warning         : %s\n", warning)
	}

	return 0, nil
}
