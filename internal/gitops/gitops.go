// Package gitops provides an interface-based wrapper for the Git
// operations dotup needs: shallow-cloning plugin and starter
// repositories idempotently.
package gitops

import (
	"context"
	"errors"
	"fmt"
	"os"

	gogit "github.com/go-git/go-git/v5"
)

var (
	ErrNotARepo    = errors.New("destination exists but is not a git repository")
	ErrInvalidRepo = errors.New("invalid git repository")
)

// Cloner is the interface for repository cloning.
// Following Go best practices: accept interfaces, return structs.
type Cloner interface {
	// EnsureCloned clones url into dest unless a valid repository is
	// already there. Returns true when a fresh clone was made.
	EnsureCloned(ctx context.Context, url, dest string) (bool, error)
}

// Client implements Cloner using go-git.
type Client struct {
	depth int
}

// Option configures a Client.
type Option func(*Client)

// WithDepth sets the clone depth. Zero means a full clone.
func WithDepth(depth int) Option {
	return func(c *Client) {
		c.depth = depth
	}
}

// NewClient creates a cloning client. Clones are shallow (depth 1)
// unless overridden.
func NewClient(opts ...Option) *Client {
	c := &Client{depth: 1}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// EnsureCloned clones url into dest when nothing valid is there yet.
// An existing repository at dest is left untouched; an existing
// directory that is not a repository is an error rather than something
// to overwrite.
func (c *Client) EnsureCloned(ctx context.Context, url, dest string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("context cancelled: %w", err)
	}

	exists, err := c.isRepo(dest)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	if info, statErr := os.Stat(dest); statErr == nil && info.IsDir() {
		entries, readErr := os.ReadDir(dest)
		if readErr != nil {
			return false, fmt.Errorf("inspect destination: %w", readErr)
		}
		if len(entries) > 0 {
			return false, fmt.Errorf("%w: %s", ErrNotARepo, dest)
		}
	}

	_, err = gogit.PlainCloneContext(ctx, dest, false, &gogit.CloneOptions{
		URL:   url,
		Depth: c.depth,
	})
	if err != nil {
		// A partial clone must not look like a repository next run
		os.RemoveAll(dest)
		return false, fmt.Errorf("clone %s: %w", url, err)
	}

	return true, nil
}

// isRepo checks if the path is a valid git repository.
// Returns (true, nil) if valid, (false, nil) if not exists, (false, err) if corrupted.
func (c *Client) isRepo(path string) (bool, error) {
	_, err := gogit.PlainOpen(path)
	if err == gogit.ErrRepositoryNotExists {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: %s", ErrInvalidRepo, err.Error())
	}
	return true, nil
}
