package gitops

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// seedRepo creates a local repository with one commit to clone from.
func seedRepo(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("init source repo: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, "init.lua"), []byte("-- starter\n"), 0644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatalf("worktree: %v", err)
	}
	if _, err := worktree.Add("init.lua"); err != nil {
		t.Fatalf("stage: %v", err)
	}
	_, err = worktree.Commit("initial", &gogit.CommitOptions{
		Author: &object.Signature{
			Name:  "test",
			Email: "test@example.com",
			When:  time.Now(),
		},
	})
	if err != nil {
		t.Fatalf("commit: %v", err)
	}

	return dir
}

func TestEnsureCloned(t *testing.T) {
	t.Run("clones into empty destination", func(t *testing.T) {
		src := seedRepo(t)
		dest := filepath.Join(t.TempDir(), "plugin")

		cloned, err := NewClient(WithDepth(0)).EnsureCloned(context.Background(), src, dest)
		if err != nil {
			t.Fatalf("EnsureCloned failed: %v", err)
		}
		if !cloned {
			t.Error("expected a fresh clone")
		}

		if _, err := os.Stat(filepath.Join(dest, "init.lua")); err != nil {
			t.Errorf("cloned file missing: %v", err)
		}
	})

	t.Run("existing repository is left alone", func(t *testing.T) {
		src := seedRepo(t)
		dest := filepath.Join(t.TempDir(), "plugin")
		client := NewClient(WithDepth(0))

		if _, err := client.EnsureCloned(context.Background(), src, dest); err != nil {
			t.Fatalf("first EnsureCloned failed: %v", err)
		}

		// Local modification must survive a re-run
		marker := filepath.Join(dest, "local.txt")
		if err := os.WriteFile(marker, []byte("keep"), 0644); err != nil {
			t.Fatalf("write marker: %v", err)
		}

		cloned, err := client.EnsureCloned(context.Background(), src, dest)
		if err != nil {
			t.Fatalf("second EnsureCloned failed: %v", err)
		}
		if cloned {
			t.Error("expected no-op for existing repository")
		}
		if _, err := os.Stat(marker); err != nil {
			t.Errorf("local file lost: %v", err)
		}
	})

	t.Run("refuses non-repository directory with content", func(t *testing.T) {
		src := seedRepo(t)
		dest := t.TempDir()
		if err := os.WriteFile(filepath.Join(dest, "precious.txt"), []byte("x"), 0644); err != nil {
			t.Fatalf("write file: %v", err)
		}

		_, err := NewClient(WithDepth(0)).EnsureCloned(context.Background(), src, dest)
		if !errors.Is(err, ErrNotARepo) {
			t.Errorf("expected ErrNotARepo, got %v", err)
		}
	})

	t.Run("respects context cancellation", func(t *testing.T) {
		src := seedRepo(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := NewClient().EnsureCloned(ctx, src, filepath.Join(t.TempDir(), "plugin"))
		if err == nil {
			t.Error("expected error for cancelled context")
		}
	})
}
