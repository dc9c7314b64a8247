package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dotup-sh/dotup/internal/engine"
	"github.com/dotup-sh/dotup/internal/fetch"
	"github.com/dotup-sh/dotup/internal/gitops"
	"github.com/dotup-sh/dotup/internal/lockfile"
	"github.com/dotup-sh/dotup/internal/manifest"
	"github.com/dotup-sh/dotup/internal/pkgmgr"
	"github.com/dotup-sh/dotup/internal/probe"
	"github.com/dotup-sh/dotup/internal/steps"
)

// installOptions holds parsed `dotup install` flags.
type installOptions struct {
	manifestPath string
	verbose      bool
	showHelp     bool
}

func parseInstallFlags(args []string) (installOptions, error) {
	var opts installOptions

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--help", "-h":
			opts.showHelp = true
		case "--verbose", "-v":
			opts.verbose = true
		case "--manifest":
			if i+1 >= len(args) {
				return opts, fmt.Errorf("--manifest requires a path")
			}
			i++
			opts.manifestPath = args[i]
		default:
			return opts, fmt.Errorf("unknown flag: %s", args[i])
		}
	}

	return opts, nil
}

// runInstall handles the `dotup install` subcommand.
// Returns the process exit code: 0 on success (optional failures
// included), 1 when any fatal step failed.
func runInstall(args []string) (int, error) {
	opts, err := parseInstallFlags(args)
	if err != nil {
		return 1, err
	}
	if opts.showHelp {
		printInstallHelp()
		return 0, nil
	}

	state, err := stateDir()
	if err != nil {
		return 1, err
	}

	// One run at a time per host
	lock, err := lockfile.Acquire(state)
	if err != nil {
		return 1, err
	}
	defer lock.Release()

	ctx := context.Background()
	logger := &engine.WriterLogger{W: os.Stderr, Verbose: opts.verbose}

	caps, err := probe.NewProber().Probe(ctx)
	if err != nil {
		return 1, fmt.Errorf("probe host: %w", err)
	}
	for _, warning := range caps.Warnings {
		logger.Warn(warning)
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

	results := engine.NewExecutor(logger).Run(ctx, caps, plan)
	summary := engine.Summarize(results)

	fmt.Print(summary.Format())

	record := engine.NewRunRecord(nil, summary)
	if err := record.Save(filepath.Join(state, "journal")); err != nil {
		// The run itself already happened; a journal failure is a warning
		logger.Warn("could not persist run journal", "error", err)
	}

	return int(summary.ExitStatus()), nil
}

// loadManifest parses the manifest at path, or the default location when
// path is empty. A missing manifest yields the built-in defaults.
func loadManifest(path string, caps *probe.HostCapabilities) (*manifest.Manifest, error) {
	if path == "" {
		var err error
		path, err = defaultManifestPath()
		if err != nil {
			return nil, err
		}
	}

	m, err := manifest.NewParser(caps).ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("load manifest %s: %w", path, err)
	}
	return m, nil
}

// buildDeps wires the real implementations into the step catalog.
func buildDeps(caps *probe.HostCapabilities, m *manifest.Manifest) (steps.Deps, error) {
	var deps steps.Deps

	home, err := homeDir()
	if err != nil {
		return deps, err
	}
	cfg, err := configDir()
	if err != nil {
		return deps, err
	}
	payloads, err := payloadDir()
	if err != nil {
		return deps, err
	}
	install, err := installDir()
	if err != nil {
		return deps, err
	}
	bin, err := binDir()
	if err != nil {
		return deps, err
	}

	fetcher, err := fetch.NewFetcher(fetch.Config{
		InstallRoot: filepath.Join(install, "tools"),
		KeyringPath: os.Getenv("DOTUP_KEYRING"),
	})
	if err != nil {
		return deps, err
	}

	deps = steps.Deps{
		Caps:       caps,
		Manifest:   m,
		Fetcher:    fetcher,
		Resolver:   fetch.NewReleaseResolver(nil),
		Cloner:     gitops.NewClient(),
		HomeDir:    home,
		ConfigDir:  cfg,
		PayloadDir: payloads,
		BinDir:     bin,
	}

	// No supported package manager leaves Installer nil; the package
	// steps report the condition themselves.
	if caps.PackageManager.IsKnown() {
		installer, err := pkgmgr.NewInstaller(caps, nil)
		if err != nil {
			return deps, err
		}
		deps.Installer = installer
	}

	return deps, nil
}

func printInstallHelp() {
	fmt.Println("Usage: dotup install [options]")
	fmt.Println()
	fmt.Println("Provisions the environment: package manager sync, core packages,")
	fmt.Println("system-info tool, neovim release, optional extras, and config files.")
	fmt.Println("Steps are idempotent; re-running converges instead of duplicating.")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --manifest <path>   Manifest file (default: $XDG_CONFIG_HOME/dotup/dotup.lua)")
	fmt.Println("  --verbose, -v       Log every step decision to stderr")
	fmt.Println("  --help, -h          Show this help")
}
