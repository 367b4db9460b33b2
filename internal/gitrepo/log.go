package gitrepo

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultCommitLimit is the hard cap on commits examined per scan. It
// bounds memory and runtime on pathological histories; a scan that hits
// the cap is reported as truncated.
const DefaultCommitLimit = 10000

// Commit is one commit record as read from the repository. It is
// immutable once parsed; callers fold it into aggregates and drop it.
type Commit struct {
	Hash         string
	ShortHash    string
	Author       Identity
	Committer    Identity
	Message      string
	Parents      []string
	FilesChanged int
	Insertions   int
	Deletions    int
}

// WalkResult summarizes a finished history walk.
type WalkResult struct {
	Count     int
	Truncated bool
}

// Record and field separators for the git log pretty format. ASCII
// control characters that cannot appear in hashes, names, or emails.
const (
	recordSep = "\x1e"
	fieldSep  = "\x1f"
)

const prettyFormat = "--pretty=format:" +
	recordSep +
	"%H" + fieldSep + "%h" + fieldSep +
	"%an" + fieldSep + "%ae" + fieldSep + "%at" + fieldSep +
	"%cn" + fieldSep + "%ce" + fieldSep + "%ct" + fieldSep +
	"%P" + fieldSep + "%B" + fieldSep

// WalkHistory streams the commit ancestry reachable from every local
// branch tip, reverse-chronological (git date-order), to fn. At most
// limit commits are yielded (DefaultCommitLimit when limit <= 0); if the
// history is longer, the walk stops early and the result is marked
// truncated. The walk is restartable by calling WalkHistory again; it is
// not resumable mid-stream.
//
// Cancellation is cooperative: the context is checked between commits and
// the underlying git process is killed on cancel. An error returned by fn
// aborts the walk and is returned unchanged.
func (r *Repository) WalkHistory(ctx context.Context, limit int, fn func(Commit) error) (WalkResult, error) {
	if limit <= 0 {
		limit = DefaultCommitLimit
	}

	cctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Ask for one commit past the cap so truncation is detected without
	// guessing from an exact-length history.
	cmd := exec.CommandContext(cctx, "git",
		"log", "--branches", "--date-order", "--numstat",
		fmt.Sprintf("--max-count=%d", limit+1),
		prettyFormat)
	cmd.Dir = r.path

	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return WalkResult{}, fmt.Errorf("git log: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return WalkResult{}, fmt.Errorf("git log: %w", err)
	}

	var res WalkResult
	stopped := false

	scanner := bufio.NewScanner(stdout)
	scanner.Buffer(make([]byte, 64*1024), 64*1024*1024)
	scanner.Split(splitRecords)

	var walkErr error
	for scanner.Scan() {
		rec := scanner.Text()
		if strings.TrimSpace(rec) == "" {
			continue
		}
		commit, err := parseCommitRecord(rec)
		if err != nil {
			r.log.Debug("skipping unparsable commit record", zap.Error(err))
			continue
		}
		if res.Count == limit {
			res.Truncated = true
			stopped = true
			break
		}
		res.Count++
		if err := fn(commit); err != nil {
			walkErr = err
			stopped = true
			break
		}
		if err := cctx.Err(); err != nil {
			walkErr = err
			stopped = true
			break
		}
	}
	if err := scanner.Err(); err != nil && walkErr == nil && !stopped {
		walkErr = fmt.Errorf("reading git log output: %w", err)
	}

	if stopped {
		cancel()
	}
	waitErr := cmd.Wait()
	if walkErr != nil {
		return res, walkErr
	}
	if waitErr != nil && !stopped {
		msg := strings.TrimSpace(stderr.String())
		// A repository with no commits is a valid, empty walk.
		if res.Count == 0 && (strings.Contains(msg, "does not have any commits") ||
			strings.Contains(msg, "bad default revision")) {
			return res, nil
		}
		return res, fmt.Errorf("git log: %w: %s", waitErr, msg)
	}
	return res, nil
}

// CommitAt reads the single commit a ref points at.
func (r *Repository) CommitAt(ctx context.Context, ref string) (Commit, error) {
	out, err := r.git(ctx, "log", "-1", "--numstat", prettyFormat, ref)
	if err != nil {
		return Commit{}, fmt.Errorf("reading commit %s: %w", ref, err)
	}
	rec := strings.TrimPrefix(string(out), recordSep)
	commit, err := parseCommitRecord(rec)
	if err != nil {
		return Commit{}, fmt.Errorf("reading commit %s: %w", ref, err)
	}
	return commit, nil
}

// splitRecords is a bufio.SplitFunc that tokenizes on the record
// separator emitted by prettyFormat.
func splitRecords(data []byte, atEOF bool) (int, []byte, error) {
	if i := bytes.IndexByte(data, recordSep[0]); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		if len(data) > 0 {
			return len(data), data, nil
		}
		return 0, nil, nil
	}
	return 0, nil, nil
}

func parseCommitRecord(rec string) (Commit, error) {
	fields := strings.Split(rec, fieldSep)
	if len(fields) < 10 {
		return Commit{}, fmt.Errorf("malformed commit record: %d fields", len(fields))
	}

	authorAt, err := strconv.ParseInt(fields[4], 10, 64)
	if err != nil {
		return Commit{}, fmt.Errorf("malformed author timestamp %q", fields[4])
	}
	committerAt, err := strconv.ParseInt(fields[7], 10, 64)
	if err != nil {
		return Commit{}, fmt.Errorf("malformed committer timestamp %q", fields[7])
	}

	commit := Commit{
		Hash:      fields[0],
		ShortHash: fields[1],
		Author:    Identity{Name: fields[2], Email: fields[3], When: time.Unix(authorAt, 0).UTC()},
		Committer: Identity{Name: fields[5], Email: fields[6], When: time.Unix(committerAt, 0).UTC()},
		Message:   strings.TrimSpace(fields[9]),
		Parents:   strings.Fields(fields[8]),
	}

	if len(fields) > 10 {
		commit.FilesChanged, commit.Insertions, commit.Deletions = parseNumstat(fields[10])
	}
	return commit, nil
}

// parseNumstat sums the --numstat block trailing a commit record. Binary
// files report "-" counts and contribute zero lines.
func parseNumstat(block string) (files, insertions, deletions int) {
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.SplitN(line, "\t", 3)
		if len(parts) != 3 {
			continue
		}
		files++
		if n, err := strconv.Atoi(parts[0]); err == nil {
			insertions += n
		}
		if n, err := strconv.Atoi(parts[1]); err == nil {
			deletions += n
		}
	}
	return files, insertions, deletions
}
