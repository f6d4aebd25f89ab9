package source

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Resolver materializes remote repositories in a local cache directory.
type Resolver struct {
	git      *GitClient
	cacheDir string
	logger   *slog.Logger
}

// NewResolver creates a Resolver that clones into cacheDir.
func NewResolver(git *GitClient, cacheDir string, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{git: git, cacheDir: cacheDir, logger: logger}
}

// Resolve returns the local directory holding the latest revision of url.
// A missing clone is created; an existing one is fetched and hard-reset.
func (r *Resolver) Resolve(ctx context.Context, url string) (string, error) {
	id, err := RepoID(url)
	if err != nil {
		return "", fmt.Errorf("%w: %s", err, url)
	}
	dir := filepath.Join(r.cacheDir, id)

	if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
		r.logger.Info("Updating repository", "url", url, "dir", dir)
		if err := r.git.Fetch(ctx, dir); err != nil {
			return "", err
		}
		if err := r.git.Reset(ctx, dir); err != nil {
			return "", err
		}
	} else {
		if err := os.MkdirAll(r.cacheDir, 0755); err != nil {
			return "", fmt.Errorf("failed to create cache directory: %w", err)
		}
		r.logger.Info("Cloning repository", "url", url, "dir", dir)
		if err := r.git.Clone(ctx, url, dir); err != nil {
			return "", err
		}
	}

	if commit, err := r.git.HeadCommit(ctx, dir); err == nil {
		r.logger.Debug("Repository ready", "dir", dir, "commit", commit)
	}
	return dir, nil
}

// TrackedFiles returns the files git considers part of the work tree at root,
// or nil when root is not a work tree or git is unavailable.
func (r *Resolver) TrackedFiles(ctx context.Context, root string) []string {
	if !r.git.IsWorkTree(ctx, root) {
		return nil
	}
	files, err := r.git.ListFiles(ctx, root)
	if err != nil {
		r.logger.Warn("Falling back to .gitignore", "root", root, "error", err)
		return nil
	}
	return files
}
