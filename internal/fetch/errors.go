package fetch

import "fmt"

// DownloadError indicates the artifact could not be retrieved or failed
// validation (HTTP failure, undersized payload, wrong magic bytes, bad
// signature). The destination is untouched.
type DownloadError struct {
	URL    string
	Reason string
	Cause  error
}

func (e *DownloadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("download %s: %s: %v", e.URL, e.Reason, e.Cause)
	}
	return fmt.Sprintf("download %s: %s", e.URL, e.Reason)
}

func (e *DownloadError) Unwrap() error {
	return e.Cause
}

// ExtractError indicates the downloaded archive could not be unpacked.
// The destination is untouched.
type ExtractError struct {
	Archive string
	Cause   error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("extract %s: %v", e.Archive, e.Cause)
}

func (e *ExtractError) Unwrap() error {
	return e.Cause
}

// InstallError indicates the validated payload could not be moved into
// place or the command symlink could not be updated. The canonical command
// path keeps its pre-call state.
type InstallError struct {
	Dest  string
	Cause error
}

func (e *InstallError) Error() string {
	return fmt.Sprintf("install to %s: %v", e.Dest, e.Cause)
}

func (e *InstallError) Unwrap() error {
	return e.Cause
}
