// Package fetch downloads, validates, and installs remote binary artifacts.
//
// A fetch runs entirely inside a scoped temporary directory that is removed
// on every exit path, success or failure. Payloads are validated by minimum
// size and, for gzip archives, by magic bytes before extraction; optionally
// a detached GPG signature is checked against a local keyring. Only after
// validation does the payload move atomically into the install root, so a
// failed fetch never leaves a partial install visible at the canonical
// command path.
package fetch

// ArchiveFormat describes how an artifact is packaged.
type ArchiveFormat string

const (
	// FormatGzip is a gzip-compressed tarball; the payload is extracted.
	FormatGzip ArchiveFormat = "gzip"
	// FormatNone is a raw file installed as-is.
	FormatNone ArchiveFormat = "none"
)

// MinTarballBytes is the default minimum size accepted for a binary
// tarball. Anything smaller is almost certainly an HTML error page.
const MinTarballBytes = 1 << 20 // 1 MiB

// RemoteArtifact describes one downloadable artifact. It is used
// transiently by a fetch and never persisted.
type RemoteArtifact struct {
	// Name labels the artifact; it becomes the directory name under the
	// install root and the default symlink name.
	Name string

	URL              string
	ExpectedMinBytes int64
	ArchiveFormat    ArchiveFormat

	// BinaryPath is the relative path of the executable inside the
	// extracted tree (gzip) or empty for raw files.
	BinaryPath string

	// SignatureURL, when set together with a fetcher keyring, enables
	// detached GPG signature verification of the downloaded payload.
	SignatureURL string
}
