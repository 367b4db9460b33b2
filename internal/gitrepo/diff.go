package gitrepo

import (
	"context"
	"fmt"
)

// DiffFirstParent returns the unified diff of a commit against its first
// parent. Merge commits are diffed against the first parent only; the
// other parents are deliberately ignored. A root commit has nothing to
// diff against and yields nil output with no error.
//
// Failures here are expected to be treated as soft by callers: a binary
// or otherwise undiffable commit must not abort a scan.
func (r *Repository) DiffFirstParent(ctx context.Context, commit Commit) ([]byte, error) {
	if len(commit.Parents) == 0 {
		return nil, nil
	}
	out, err := r.git(ctx, "diff", "--no-color", "--no-ext-diff", "--unified=3",
		commit.Parents[0], commit.Hash)
	if err != nil {
		return nil, fmt.Errorf("diffing %s against first parent: %w", commit.ShortHash, err)
	}
	return out, nil
}
