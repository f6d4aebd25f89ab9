// Package source resolves the tree to analyze: a local directory or a shallow
// clone of a remote git repository.
package source

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// CommandExecutor abstracts command execution for testing.
type CommandExecutor interface {
	// Run executes a command and returns its standard output.
	Run(ctx context.Context, dir string, name string, args ...string) ([]byte, error)
}

// DefaultExecutor executes commands using os/exec.
type DefaultExecutor struct{}

// Run executes a command and returns its standard output.
func (e *DefaultExecutor) Run(ctx context.Context, dir string, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if dir != "" {
		cmd.Dir = dir
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return nil, fmt.Errorf("%w: %s", err, strings.TrimSpace(stderr.String()))
		}
		return nil, err
	}

	return stdout.Bytes(), nil
}

// GitClient executes git commands.
type GitClient struct {
	executor CommandExecutor
}

// NewGitClient creates a new GitClient with the default command executor.
func NewGitClient() *GitClient {
	return &GitClient{executor: &DefaultExecutor{}}
}

// NewGitClientWithExecutor creates a GitClient with a custom executor.
func NewGitClientWithExecutor(executor CommandExecutor) *GitClient {
	return &GitClient{executor: executor}
}

// Clone performs a shallow single-branch clone of the repository.
func (g *GitClient) Clone(ctx context.Context, url, destDir string) error {
	_, err := g.executor.Run(ctx, "", "git", "clone",
		"--depth", "1",
		"--single-branch",
		url,
		destDir,
	)
	if err != nil {
		return fmt.Errorf("git clone failed: %w", err)
	}
	return nil
}

// Fetch fetches the latest changes from the remote, keeping the clone shallow.
func (g *GitClient) Fetch(ctx context.Context, repoDir string) error {
	if _, err := g.executor.Run(ctx, repoDir, "git", "fetch", "--depth", "1"); err != nil {
		return fmt.Errorf("git fetch failed: %w", err)
	}
	return nil
}

// Reset performs a hard reset to origin/HEAD.
func (g *GitClient) Reset(ctx context.Context, repoDir string) error {
	if _, err := g.executor.Run(ctx, repoDir, "git", "reset", "--hard", "origin/HEAD"); err != nil {
		return fmt.Errorf("git reset failed: %w", err)
	}
	return nil
}

// HeadCommit returns the current HEAD commit SHA.
func (g *GitClient) HeadCommit(ctx context.Context, repoDir string) (string, error) {
	output, err := g.executor.Run(ctx, repoDir, "git", "rev-parse", "HEAD")
	if err != nil {
		return "", fmt.Errorf("git rev-parse failed: %w", err)
	}
	return strings.TrimSpace(string(output)), nil
}

// IsWorkTree checks if dir is inside a git work tree.
func (g *GitClient) IsWorkTree(ctx context.Context, dir string) bool {
	output, err := g.executor.Run(ctx, dir, "git", "rev-parse", "--is-inside-work-tree")
	return err == nil && strings.TrimSpace(string(output)) == "true"
}

// ListFiles returns tracked and untracked, non-ignored files relative to
// repoDir.
func (g *GitClient) ListFiles(ctx context.Context, repoDir string) ([]string, error) {
	output, err := g.executor.Run(ctx, repoDir, "git", "ls-files",
		"--cached",
		"--others",
		"--exclude-standard",
	)
	if err != nil {
		return nil, fmt.Errorf("git ls-files failed: %w", err)
	}

	var files []string
	for _, line := range strings.Split(string(output), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			files = append(files, line)
		}
	}
	return files, nil
}
