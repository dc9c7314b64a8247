package fetch

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
)

// Fetcher downloads artifacts and installs them under a single root.
type Fetcher struct {
	downloader  *downloader
	installRoot string
	keyringPath string
}

// Config holds configuration for a Fetcher.
type Config struct {
	// InstallRoot is the directory artifacts are installed under, one
	// subdirectory per artifact name.
	InstallRoot string

	// KeyringPath is an armored GPG keyring used to verify artifacts that
	// carry a SignatureURL. Empty disables signature verification.
	KeyringPath string

	// Client overrides the HTTP client (testing). Nil uses a bounded
	// default.
	Client *http.Client
}

// NewFetcher creates a fetcher.
func NewFetcher(config Config) (*Fetcher, error) {
	if config.InstallRoot == "" {
		return nil, fmt.Errorf("InstallRoot is required")
	}

	return &Fetcher{
		downloader:  newDownloader(config.Client),
		installRoot: config.InstallRoot,
		keyringPath: config.KeyringPath,
	}, nil
}

// InstalledPath returns where an artifact's tree lives under the root.
func (f *Fetcher) InstalledPath(name string) string {
	return filepath.Join(f.installRoot, name)
}

// Fetch downloads, validates, and installs an artifact, then points the
// command symlink at the installed binary. All intermediate work happens in
// a scoped temporary directory that is removed on every exit path. On any
// error the install root and the command path keep their pre-call state.
func (f *Fetcher) Fetch(ctx context.Context, artifact RemoteArtifact, commandPath string) (string, error) {
	if artifact.Name == "" || artifact.URL == "" {
		return "", &DownloadError{URL: artifact.URL, Reason: "artifact name and URL are required"}
	}

	if err := os.MkdirAll(f.installRoot, 0755); err != nil {
		return "", &InstallError{Dest: f.installRoot, Cause: err}
	}

	// Staging lives under the install root so the final rename never
	// crosses filesystems (the system temp dir is often tmpfs while the
	// install root is disk-backed; rename would fail with EXDEV).
	tmpDir, err := os.MkdirTemp(f.installRoot, ".fetch-*")
	if err != nil {
		return "", &DownloadError{URL: artifact.URL, Reason: "create temp dir", Cause: err}
	}
	defer os.RemoveAll(tmpDir)

	archivePath := filepath.Join(tmpDir, "artifact")
	if err := f.downloader.downloadToFile(ctx, artifact.URL, archivePath); err != nil {
		return "", &DownloadError{URL: artifact.URL, Reason: "fetch", Cause: err}
	}

	if err := f.validate(ctx, artifact, archivePath, tmpDir); err != nil {
		return "", err
	}

	stageDir := filepath.Join(tmpDir, "payload")
	binaryRel, err := stagePayload(artifact, archivePath, stageDir)
	if err != nil {
		return "", err
	}

	installedDir, prior, err := f.installStage(artifact.Name, stageDir)
	if err != nil {
		return "", err
	}

	binaryPath := filepath.Join(installedDir, binaryRel)
	if err := setExecutable(binaryPath); err != nil {
		f.restorePrior(artifact.Name, prior)
		return "", &InstallError{Dest: binaryPath, Cause: err}
	}

	if commandPath != "" {
		if err := replaceSymlink(binaryPath, commandPath); err != nil {
			f.restorePrior(artifact.Name, prior)
			return "", &InstallError{Dest: commandPath, Cause: err}
		}
	}

	if prior != "" {
		os.RemoveAll(prior)
	}

	return binaryPath, nil
}

// validate rejects undersized payloads, non-gzip archives claiming to be
// gzip, and payloads whose detached signature does not verify.
func (f *Fetcher) validate(ctx context.Context, artifact RemoteArtifact, archivePath, tmpDir string) error {
	info, err := os.Stat(archivePath)
	if err != nil {
		return &DownloadError{URL: artifact.URL, Reason: "stat download", Cause: err}
	}

	if artifact.ExpectedMinBytes > 0 && info.Size() < artifact.ExpectedMinBytes {
		return &DownloadError{
			URL: artifact.URL,
			Reason: fmt.Sprintf("payload too small (%d bytes, expected at least %d); likely an error page",
				info.Size(), artifact.ExpectedMinBytes),
		}
	}

	if artifact.ArchiveFormat == FormatGzip && !hasGzipMagic(archivePath) {
		// Second opinion via content sniffing before rejecting
		if !sniffsAsGzip(archivePath) {
			return &DownloadError{URL: artifact.URL, Reason: "payload is not gzip (bad magic bytes)"}
		}
	}

	if artifact.SignatureURL != "" && f.keyringPath != "" {
		sigPath := filepath.Join(tmpDir, "artifact.sig")
		if err := f.downloader.downloadToFile(ctx, artifact.SignatureURL, sigPath); err != nil {
			return &DownloadError{URL: artifact.SignatureURL, Reason: "fetch signature", Cause: err}
		}
		if err := verifySignature(archivePath, sigPath, f.keyringPath); err != nil {
			return &DownloadError{URL: artifact.URL, Reason: "signature verification failed", Cause: err}
		}
	}

	return nil
}

// sniffsAsGzip falls back to content-type detection on the leading bytes.
func sniffsAsGzip(path string) bool {
	file, err := os.Open(path)
	if err != nil {
		return false
	}
	defer file.Close()

	head := make([]byte, 512)
	n, err := file.Read(head)
	if err != nil && err != io.EOF {
		return false
	}

	return http.DetectContentType(head[:n]) == "application/x-gzip"
}

// stagePayload unpacks (or places) the payload into stageDir and returns
// the relative path of the executable inside it.
func stagePayload(artifact RemoteArtifact, archivePath, stageDir string) (string, error) {
	if artifact.ArchiveFormat == FormatGzip {
		if err := extractTarGz(archivePath, stageDir); err != nil {
			return "", &ExtractError{Archive: artifact.URL, Cause: err}
		}

		if artifact.BinaryPath != "" {
			if _, err := os.Stat(filepath.Join(stageDir, artifact.BinaryPath)); err != nil {
				return "", &ExtractError{Archive: artifact.URL,
					Cause: fmt.Errorf("binary %s not found in archive: %w", artifact.BinaryPath, err)}
			}
			return artifact.BinaryPath, nil
		}

		rel, err := findBinary(stageDir, artifact.Name)
		if err != nil {
			return "", &ExtractError{Archive: artifact.URL, Cause: err}
		}
		return rel, nil
	}

	// Raw file: stage it under its own directory for a uniform install shape.
	if err := os.MkdirAll(stageDir, 0755); err != nil {
		return "", &ExtractError{Archive: artifact.URL, Cause: err}
	}
	if err := os.Rename(archivePath, filepath.Join(stageDir, artifact.Name)); err != nil {
		return "", &ExtractError{Archive: artifact.URL, Cause: err}
	}
	return artifact.Name, nil
}

// findBinary locates a regular file named name inside root and returns its
// path relative to root.
func findBinary(root, name string) (string, error) {
	var found string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() && d.Name() == name {
			found = path
			return fs.SkipAll
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("search archive: %w", err)
	}
	if found == "" {
		return "", fmt.Errorf("binary %s not found in archive", name)
	}

	return filepath.Rel(root, found)
}

// installStage atomically replaces any prior install of name with the
// staged payload. A failed swap restores the previous install. On success
// the prior install is returned at its .old path so the caller can still
// roll back until the whole fetch has committed; prior is empty when there
// was no previous install.
func (f *Fetcher) installStage(name, stageDir string) (installedDir, prior string, err error) {
	target := filepath.Join(f.installRoot, name)
	old := target + ".old"

	// Clear any leftover from an interrupted previous run
	if err := os.RemoveAll(old); err != nil {
		return "", "", &InstallError{Dest: target, Cause: err}
	}

	hadPrior := false
	if _, err := os.Stat(target); err == nil {
		hadPrior = true
		if err := os.Rename(target, old); err != nil {
			return "", "", &InstallError{Dest: target, Cause: err}
		}
	}

	if err := os.Rename(stageDir, target); err != nil {
		if hadPrior {
			os.Rename(old, target) // best effort restore
		}
		return "", "", &InstallError{Dest: target, Cause: err}
	}

	if hadPrior {
		prior = old
	}
	return target, prior, nil
}

// restorePrior undoes a completed swap after a late failure so the install
// root returns to its pre-call state. Best effort: the payload is removed
// and, when a previous install was set aside, it is moved back.
func (f *Fetcher) restorePrior(name, prior string) {
	target := filepath.Join(f.installRoot, name)
	os.RemoveAll(target)
	if prior != "" {
		os.Rename(prior, target)
	}
}

// replaceSymlink atomically points linkPath at targetPath.
func replaceSymlink(targetPath, linkPath string) error {
	if err := os.MkdirAll(filepath.Dir(linkPath), 0755); err != nil {
		return fmt.Errorf("create symlink dir: %w", err)
	}

	tmpLink := linkPath + ".new"
	if err := os.Remove(tmpLink); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear stale symlink: %w", err)
	}

	if err := os.Symlink(targetPath, tmpLink); err != nil {
		return fmt.Errorf("create symlink: %w", err)
	}

	if err := os.Rename(tmpLink, linkPath); err != nil {
		os.Remove(tmpLink)
		return fmt.Errorf("swap symlink: %w", err)
	}

	return nil
}
