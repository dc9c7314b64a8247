package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ReleaseResolver discovers the newest release tag of a GitHub project and
// constructs versioned download URLs. When the API call fails or is
// rate-limited, callers fall back to the conventional "latest" redirect URL
// (FallbackAssetURL), which needs no tag at all.
type ReleaseResolver struct {
	client *http.Client

	// APIBase and DownloadBase are overridable for tests.
	APIBase      string
	DownloadBase string
}

// NewReleaseResolver creates a resolver using the given client, or a
// default bounded client when nil.
func NewReleaseResolver(client *http.Client) *ReleaseResolver {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	return &ReleaseResolver{
		client:       client,
		APIBase:      "https://api.github.com",
		DownloadBase: "https://github.com",
	}
}

// LatestTag queries the releases API for a repository's newest tag.
func (r *ReleaseResolver) LatestTag(ctx context.Context, owner, repo string) (string, error) {
	url := fmt.Sprintf("%s/repos/%s/%s/releases/latest", r.APIBase, owner, repo)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", DefaultUserAgent)
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("query releases API: %w", err)
	}
	defer resp.Body.Close()

	// 403 with a ratelimit header and plain 429 both mean rate-limited;
	// either way the caller should use the fallback URL.
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("releases API status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read API response: %w", err)
	}

	var release struct {
		TagName string `json:"tag_name"`
	}
	if err := json.Unmarshal(body, &release); err != nil {
		return "", fmt.Errorf("decode API response: %w", err)
	}

	tag := strings.TrimSpace(release.TagName)
	if tag == "" {
		return "", fmt.Errorf("releases API returned empty tag")
	}

	return tag, nil
}

// AssetURL builds the download URL for a named asset of a tagged release.
func (r *ReleaseResolver) AssetURL(owner, repo, tag, asset string) string {
	return fmt.Sprintf("%s/%s/%s/releases/download/%s/%s", r.DownloadBase, owner, repo, tag, asset)
}

// FallbackAssetURL builds the tag-free "latest" redirect URL used when the
// releases API is unavailable.
func (r *ReleaseResolver) FallbackAssetURL(owner, repo, asset string) string {
	return fmt.Sprintf("%s/%s/%s/releases/latest/download/%s", r.DownloadBase, owner, repo, asset)
}

// ResolveAssetURL returns the versioned asset URL when the API answers, or
// the fallback redirect URL otherwise. The returned tag is empty in the
// fallback case.
func (r *ReleaseResolver) ResolveAssetURL(ctx context.Context, owner, repo, asset string) (url, tag string) {
	tag, err := r.LatestTag(ctx, owner, repo)
	if err != nil {
		return r.FallbackAssetURL(owner, repo, asset), ""
	}
	return r.AssetURL(owner, repo, tag, asset), tag
}
