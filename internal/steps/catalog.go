// Package steps builds the ordered provisioning plan for an install run.
//
// The catalog turns a manifest plus probed host capabilities into the
// []engine.Step the executor runs: a disk gate, package manager work,
// artifact fetches, repository clones, and config deployments. Every step
// is idempotent so a re-run converges instead of duplicating work.
package steps

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/dotup-sh/dotup/internal/deploy"
	"github.com/dotup-sh/dotup/internal/engine"
	"github.com/dotup-sh/dotup/internal/fetch"
	"github.com/dotup-sh/dotup/internal/gitops"
	"github.com/dotup-sh/dotup/internal/manifest"
	"github.com/dotup-sh/dotup/internal/pkgmgr"
	"github.com/dotup-sh/dotup/internal/probe"
)

// Upstream repositories cloned for optional features.
const (
	fzfRepoURL     = "https://github.com/junegunn/fzf.git"
	lazyVimRepoURL = "https://github.com/LazyVim/starter.git"
)

// Deps carries everything the catalog wires into step closures. Tests
// substitute fakes for the interfaces and fakeable fields.
type Deps struct {
	Caps     *probe.HostCapabilities
	Manifest *manifest.Manifest

	// Installer drives the system package manager. Nil when no supported
	// manager was detected; package steps then fail with a clear error.
	Installer *pkgmgr.Installer

	// Fetcher and Resolver handle the neovim release artifact.
	Fetcher  *fetch.Fetcher
	Resolver *fetch.ReleaseResolver

	// Cloner handles fzf and LazyVim starter checkouts.
	Cloner gitops.Cloner

	// LookPath resolves a binary on PATH. Nil uses exec.LookPath.
	LookPath func(string) (string, error)

	HomeDir    string // user home, rc files land here
	ConfigDir  string // usually $HOME/.config
	PayloadDir string // shipped config payloads
	BinDir     string // command symlinks, usually $HOME/.local/bin
	ShellsFile string // login-shell registry, empty means /etc/shells
}

// catalog holds state shared between step closures during one run.
type catalog struct {
	deps Deps

	// sysInfoWinner is the system-info tool that actually got installed;
	// the config deployment substitutes it for the manifest token. It
	// starts as the first preference so the substitution is well-defined
	// even when the optional install step fails.
	sysInfoWinner string
}

// BuildInstallPlan returns the ordered steps for a full install run.
func BuildInstallPlan(deps Deps) ([]engine.Step, error) {
	if deps.Caps == nil || deps.Manifest == nil {
		return nil, errors.New("capabilities and manifest are required")
	}
	if deps.LookPath == nil {
		deps.LookPath = exec.LookPath
	}
	if deps.ShellsFile == "" {
		deps.ShellsFile = deploy.DefaultShellsFile
	}

	c := &catalog{deps: deps}
	if tools := deps.Manifest.SysInfoTools; len(tools) > 0 {
		c.sysInfoWinner = tools[0]
	}

	return []engine.Step{
		c.diskSpaceStep(),
		c.repoSyncStep(),
		c.corePackagesStep(),
		c.sysInfoStep(),
		c.colorizerStep(),
		c.neovimStep(),
		c.fzfStep(),
		c.zoxideStep(),
		c.lazyVimStep(),
		c.deployConfigsStep(),
		c.registerShellStep(),
	}, nil
}

// diskSpaceStep gates the run on free disk space. Hosts whose free space
// could not be determined skip the gate rather than failing it.
func (c *catalog) diskSpaceStep() engine.Step {
	minGB := c.deps.Manifest.MinDiskGB

	return engine.Step{
		Name:     "disk-space",
		Required: true,
		Precondition: func(caps *probe.HostCapabilities) (bool, string) {
			if !caps.DiskKnown {
				return false, "free disk space unknown, gate not applied"
			}
			return true, ""
		},
		Apply: func(ctx context.Context) error {
			if !c.deps.Caps.HasDiskAtLeast(minGB) {
				return fmt.Errorf("%d GB free, need at least %d GB",
					c.deps.Caps.AvailableDiskGB, minGB)
			}
			return nil
		},
		Remedy: fmt.Sprintf("free up disk space until at least %d GB is available", minGB),
	}
}

func (c *catalog) repoSyncStep() engine.Step {
	return engine.Step{
		Name:     "repo-sync",
		Required: true,
		Apply: func(ctx context.Context) error {
			if c.deps.Installer == nil {
				return errors.New("no supported package manager detected")
			}
			return c.deps.Installer.Sync(ctx)
		},
		Remedy: "refresh the package repositories manually and re-run",
	}
}

func (c *catalog) corePackagesStep() engine.Step {
	packages := c.deps.Manifest.CorePackages

	return engine.Step{
		Name:     "core-packages",
		Required: true,
		Apply: func(ctx context.Context) error {
			if c.deps.Installer == nil {
				return errors.New("no supported package manager detected")
			}
			return c.deps.Installer.Install(ctx, packages...)
		},
		Remedy: fmt.Sprintf("install %v with your package manager and re-run", packages),
	}
}

// sysInfoStep tries each system-info tool in preference order; the first
// one that installs and resolves on PATH becomes the substitution target
// for the deployed rc files.
func (c *catalog) sysInfoStep() engine.Step {
	alternatives := make([]engine.Alternative, 0, len(c.deps.Manifest.SysInfoTools))
	for _, tool := range c.deps.Manifest.SysInfoTools {
		tool := tool
		alternatives = append(alternatives, engine.Alternative{
			Name: tool,
			Apply: func(ctx context.Context) error {
				if c.deps.Installer == nil {
					return errors.New("no supported package manager detected")
				}
				return c.deps.Installer.InstallOptional(ctx, tool)
			},
			Verify: func() (bool, string) {
				if _, err := c.deps.LookPath(tool); err != nil {
					return false, fmt.Sprintf("%s not on PATH after install", tool)
				}
				c.sysInfoWinner = tool
				return true, ""
			},
		})
	}

	return engine.Step{
		Name:         "sysinfo-tool",
		Required:     false,
		Alternatives: alternatives,
		Remedy:       "install fastfetch or neofetch manually",
	}
}

func (c *catalog) colorizerStep() engine.Step {
	pkg := c.deps.Manifest.ColorizerPackage

	return engine.Step{
		Name:     "colorizer",
		Required: false,
		Precondition: func(caps *probe.HostCapabilities) (bool, string) {
			if !c.deps.Manifest.Features.Colorizer {
				return false, "disabled in manifest"
			}
			return true, ""
		},
		Apply: func(ctx context.Context) error {
			if c.deps.Installer == nil {
				return errors.New("no supported package manager detected")
			}
			return c.deps.Installer.InstallOptional(ctx, pkg)
		},
	}
}

// neovimStep fetches the official release tarball for the probed
// architecture and links it into the user's bin directory.
func (c *catalog) neovimStep() engine.Step {
	commandPath := filepath.Join(c.deps.BinDir, "nvim")

	return engine.Step{
		Name:     "neovim",
		Required: true,
		Apply: func(ctx context.Context) error {
			if c.deps.Fetcher == nil || c.deps.Resolver == nil {
				return errors.New("artifact fetcher not configured")
			}

			asset := fmt.Sprintf("nvim-linux-%s.tar.gz", c.deps.Caps.Arch)

			var url string
			if pin := c.deps.Manifest.Neovim.Pin; pin != "" {
				url = c.deps.Resolver.AssetURL("neovim", "neovim", pin, asset)
			} else {
				url, _ = c.deps.Resolver.ResolveAssetURL(ctx, "neovim", "neovim", asset)
			}

			artifact := fetch.RemoteArtifact{
				Name:             "nvim",
				URL:              url,
				ExpectedMinBytes: int64(c.deps.Manifest.Neovim.MinMB) << 20,
				ArchiveFormat:    fetch.FormatGzip,
			}

			_, err := c.deps.Fetcher.Fetch(ctx, artifact, commandPath)
			return err
		},
		Verify: func() (bool, string) {
			if _, err := os.Stat(commandPath); err != nil {
				return false, fmt.Sprintf("nvim not linked at %s", commandPath)
			}
			return true, ""
		},
		Remedy: "download neovim from https://github.com/neovim/neovim/releases and place nvim on PATH",
	}
}

func (c *catalog) fzfStep() engine.Step {
	dest := filepath.Join(c.deps.HomeDir, ".fzf")

	return engine.Step{
		Name:     "fzf",
		Required: false,
		Precondition: func(caps *probe.HostCapabilities) (bool, string) {
			if !c.deps.Manifest.Features.Fzf {
				return false, "disabled in manifest"
			}
			return true, ""
		},
		Apply: func(ctx context.Context) error {
			if c.deps.Cloner == nil {
				return errors.New("git cloner not configured")
			}
			_, err := c.deps.Cloner.EnsureCloned(ctx, fzfRepoURL, dest)
			return err
		},
	}
}

func (c *catalog) zoxideStep() engine.Step {
	return engine.Step{
		Name:     "zoxide",
		Required: false,
		Precondition: func(caps *probe.HostCapabilities) (bool, string) {
			if !c.deps.Manifest.Features.Zoxide {
				return false, "disabled in manifest"
			}
			return true, ""
		},
		Apply: func(ctx context.Context) error {
			if c.deps.Installer == nil {
				return errors.New("no supported package manager detected")
			}
			return c.deps.Installer.InstallOptional(ctx, "zoxide")
		},
	}
}

// lazyVimStep clones the LazyVim starter unless the user already has a
// neovim configuration, which is never overwritten.
func (c *catalog) lazyVimStep() engine.Step {
	dest := filepath.Join(c.deps.ConfigDir, "nvim")

	return engine.Step{
		Name:     "lazyvim",
		Required: false,
		Precondition: func(caps *probe.HostCapabilities) (bool, string) {
			if !c.deps.Manifest.Features.LazyVim {
				return false, "disabled in manifest"
			}
			if entries, err := os.ReadDir(dest); err == nil && len(entries) > 0 {
				if _, gitErr := os.Stat(filepath.Join(dest, ".git")); gitErr != nil {
					return false, "existing nvim config left untouched"
				}
			}
			return true, ""
		},
		Apply: func(ctx context.Context) error {
			if c.deps.Cloner == nil {
				return errors.New("git cloner not configured")
			}
			_, err := c.deps.Cloner.EnsureCloned(ctx, lazyVimRepoURL, dest)
			return err
		},
	}
}

// deployConfigsStep copies the shipped rc payloads into the home
// directory, substituting the manifest's system-info token with whichever
// tool the sysinfo step actually installed.
func (c *catalog) deployConfigsStep() engine.Step {
	zshrcDest := filepath.Join(c.deps.HomeDir, ".zshrc")

	return engine.Step{
		Name:     "deploy-configs",
		Required: true,
		Apply: func(ctx context.Context) error {
			subs := map[string]string{
				c.deps.Manifest.SysInfoToken: c.sysInfoWinner,
			}

			deployments := []struct {
				payload string
				dest    string
				subs    map[string]string
			}{
				{"zshrc", zshrcDest, subs},
				{"p10k.zsh", filepath.Join(c.deps.HomeDir, ".p10k.zsh"), nil},
				{"keymaps.lua", filepath.Join(c.deps.ConfigDir, "nvim", "lua", "config", "keymaps.lua"), nil},
			}

			for _, d := range deployments {
				payloadPath := filepath.Join(c.deps.PayloadDir, d.payload)
				if err := deploy.Deploy(payloadPath, d.dest, d.subs); err != nil {
					return err
				}
			}
			return nil
		},
		Verify: func() (bool, string) {
			if _, err := os.Stat(zshrcDest); err != nil {
				return false, ".zshrc missing after deploy"
			}
			return true, ""
		},
		Remedy: "restore the payload files shipped alongside dotup and re-run",
	}
}

// registerShellStep adds zsh to the login-shell registry. Editing
// /etc/shells needs root, so unprivileged runs skip it.
func (c *catalog) registerShellStep() engine.Step {
	shellsFile := c.deps.ShellsFile

	return engine.Step{
		Name:     "register-shell",
		Required: false,
		Precondition: func(caps *probe.HostCapabilities) (bool, string) {
			if !caps.IsRoot {
				return false, "requires root to edit " + shellsFile
			}
			return true, ""
		},
		Apply: func(ctx context.Context) error {
			zshPath, err := c.deps.LookPath("zsh")
			if err != nil {
				return fmt.Errorf("zsh not on PATH: %w", err)
			}
			return deploy.RegisterShell(shellsFile, zshPath)
		},
	}
}
