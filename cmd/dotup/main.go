package main

import (
	"fmt"
	"io"
	"os"
)

// Version will be set at build time via -ldflags
var Version = "v0.1.0"

func main() {
	os.Exit(dispatch(os.Args[1:]))
}

// dispatch routes the subcommand and returns the process exit code.
func dispatch(args []string) int {
	if len(args) == 0 {
		printUsage(os.Stdout)
		return 0
	}

	switch args[0] {
	case "--version":
		fmt.Printf("dotup %s\n", Version)
		fmt.Println("Declarative environment provisioning")
		return 0
	case "help", "--help", "-h":
		printUsage(os.Stdout)
		return 0
	case "install":
		code, err := runInstall(args[1:])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return code
	case "plan":
		code, err := runPlan(args[1:])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return code
	case "probe":
		code, err := runProbe(args[1:])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return code
	default:
		// A typo must not look like a successful no-op to scripts
		fmt.Fprintf(os.Stderr, "Error: unknown command: %s\n\n", args[0])
		printUsage(os.Stderr)
		return 1
	}
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "dotup - declarative environment provisioning")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Probes the host, then installs shell, editor, and tooling from a")
	fmt.Fprintln(w, "declarative manifest. Every step is idempotent: re-running converges.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  dotup --version            Show version information")
	fmt.Fprintln(w, "  dotup probe                Show detected host capabilities")
	fmt.Fprintln(w, "  dotup plan [options]       Show what install would do, without doing it")
	fmt.Fprintln(w, "  dotup install [options]    Provision the environment")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	fmt.Fprintln(w, "  --manifest <path>          Manifest file (default: $XDG_CONFIG_HOME/dotup/dotup.lua)")
	fmt.Fprintln(w, "  --verbose, -v              Log every step decision to stderr")
}
