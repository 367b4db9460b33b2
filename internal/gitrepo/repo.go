// SPDX-License-Identifier: AGPL-3.0-or-later

/*
GitPrivacy - GitPrivacy is a read-only auditing tool that scans Git commit history for personal data exposure and evaluates the findings against a fixed set of GDPR-derived compliance rules.

Copyright (C) 2026  Avery Lindqvist

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

// Package gitrepo provides read-only access to a local Git repository by
// shelling out to the git binary. It exposes branch listing, a bounded
// commit-history walker, and first-parent diff extraction.
package gitrepo

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Repository is a handle on an opened repository. The handle is read-only
// for its whole lifetime; it is safe for concurrent use because every
// operation spawns its own git subprocess.
type Repository struct {
	path string
	log  *zap.Logger
}

// Open validates that path is a readable Git repository and returns a
// handle on it. An unusable path yields a *RepositoryError.
func Open(path string, logger *zap.Logger) (*Repository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, &RepositoryError{Path: path, Err: err}
	}
	if !info.IsDir() {
		return nil, &RepositoryError{Path: path, Err: fmt.Errorf("not a directory")}
	}

	cmd := exec.Command("git", "rev-parse", "--git-dir")
	cmd.Dir = path
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, &RepositoryError{
			Path: path,
			Err:  fmt.Errorf("git rev-parse: %s", strings.TrimSpace(string(out))),
		}
	}

	logger.Debug("opened repository", zap.String("path", path))
	return &Repository{path: path, log: logger}, nil
}

// Path returns the repository path as given to Open.
func (r *Repository) Path() string { return r.path }

// git runs a git subcommand in the repository and returns its stdout.
func (r *Repository) git(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.path

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

// Branch is a named traversal root: a branch name plus its tip commit hash.
type Branch struct {
	Name string
	Tip  string
}

// Branches lists the repository's local branches.
func (r *Repository) Branches(ctx context.Context) ([]Branch, error) {
	out, err := r.git(ctx, "for-each-ref", "refs/heads", "--format=%(refname:short)\x1f%(objectname)")
	if err != nil {
		return nil, fmt.Errorf("listing branches: %w", err)
	}

	var branches []Branch
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "\x1f", 2)
		if len(parts) != 2 {
			continue
		}
		branches = append(branches, Branch{Name: parts[0], Tip: parts[1]})
	}
	return branches, nil
}

// Info is a coarse repository overview, advisory output only.
type Info struct {
	Path         string   `json:"path"`
	HeadCommit   string   `json:"head_commit,omitempty"`
	ActiveBranch string   `json:"active_branch,omitempty"`
	Remotes      []string `json:"remotes,omitempty"`
	TotalTags    int      `json:"total_tags"`
	IsDirty      bool     `json:"is_dirty"`
}

// Info collects basic repository metadata. Every field is best-effort: an
// empty repository has no HEAD, a detached one has no active branch.
func (r *Repository) Info(ctx context.Context) (Info, error) {
	info := Info{Path: r.path}

	if out, err := r.git(ctx, "rev-parse", "HEAD"); err == nil {
		info.HeadCommit = strings.TrimSpace(string(out))
	}
	if out, err := r.git(ctx, "symbolic-ref", "--short", "-q", "HEAD"); err == nil {
		info.ActiveBranch = strings.TrimSpace(string(out))
	}
	if out, err := r.git(ctx, "remote"); err == nil {
		for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
			if line != "" {
				info.Remotes = append(info.Remotes, line)
			}
		}
	}
	if out, err := r.git(ctx, "tag", "--list"); err == nil {
		for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
			if line != "" {
				info.TotalTags++
			}
		}
	}
	out, err := r.git(ctx, "status", "--porcelain")
	if err != nil {
		return info, fmt.Errorf("checking worktree status: %w", err)
	}
	info.IsDirty = len(bytes.TrimSpace(out)) > 0

	return info, nil
}

// Identity is a commit author or committer.
type Identity struct {
	Name  string    `json:"name"`
	Email string    `json:"email"`
	When  time.Time `json:"timestamp"`
}

// String renders the identity in the canonical "Name <email>" form used
// by the aggregated author and committer sets.
func (id Identity) String() string {
	return fmt.Sprintf("%s <%s>", id.Name, id.Email)
}
