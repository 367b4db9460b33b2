// SPDX-License-Identifier: AGPL-3.0-or-later

/*
GitPrivacy - GitPrivacy is a read-only auditing tool that scans Git commit history for personal data exposure and evaluates the findings against a fixed set of GDPR-derived compliance rules.

Copyright (C) 2026  Avery Lindqvist

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

// Package inspect extracts per-commit personal-data findings: identity
// strings from the metadata, pattern matches from the message, and
// optionally pattern matches from the first-parent diff.
package inspect

import (
	"context"
	"strings"

	"github.com/sourcegraph/go-diff/diff"
	"go.uber.org/zap"

	"github.com/averline/gitprivacy/internal/gitrepo"
	"github.com/averline/gitprivacy/internal/pii"
)

// SourceMessage tags findings that came from the commit message rather
// than a changed file.
const SourceMessage = "message"

// DefaultMaxDiffFiles caps how many changed files are inspected per
// commit, bounding cost on very large commits.
const DefaultMaxDiffFiles = 10

// Finding is one pattern match with its origin: SourceMessage or the
// path of the changed file whose diff produced it.
type Finding struct {
	Detector string
	Match    string
	Source   string
}

// CommitFindings is everything the aggregator needs from one commit.
// The full commit record is not retained beyond this.
type CommitFindings struct {
	Hash      string
	Author    gitrepo.Identity
	Committer gitrepo.Identity

	// Emails holds email-detector matches from message and diff; they
	// feed the repository-wide email set.
	Emails []string

	// PII holds matches from all other detectors, diff findings first,
	// then message findings, each in text order.
	PII []Finding

	// DiffFailed records a soft diff failure: the diff could not be
	// produced or parsed, and only message findings are present.
	DiffFailed bool
}

// Options configures an Inspector.
type Options struct {
	// IncludeDiff enables inspection of the first-parent diff.
	IncludeDiff bool
	// MaxDiffFiles caps inspected files per commit (DefaultMaxDiffFiles
	// when <= 0).
	MaxDiffFiles int
	// Detectors restricts the detector set; empty means all.
	Detectors []string
}

// Inspector inspects commits one at a time. Safe for concurrent use:
// inspection shares no mutable state across commits.
type Inspector struct {
	repo         *gitrepo.Repository
	matcher      *pii.Matcher
	includeDiff  bool
	maxDiffFiles int
	log          *zap.Logger
}

// New creates an Inspector over an opened repository.
func New(repo *gitrepo.Repository, logger *zap.Logger, opts Options) *Inspector {
	if logger == nil {
		logger = zap.NewNop()
	}
	maxFiles := opts.MaxDiffFiles
	if maxFiles <= 0 {
		maxFiles = DefaultMaxDiffFiles
	}
	return &Inspector{
		repo:         repo,
		matcher:      pii.NewMatcher(opts.Detectors...),
		includeDiff:  opts.IncludeDiff,
		maxDiffFiles: maxFiles,
		log:          logger,
	}
}

// Inspect runs the pattern matchers over one commit. It never fails:
// diff-level problems are swallowed, flagged on the result, and logged
// for diagnostics, so a corrupt or binary commit cannot abort a scan.
func (i *Inspector) Inspect(ctx context.Context, commit gitrepo.Commit) CommitFindings {
	findings := CommitFindings{
		Hash:      commit.Hash,
		Author:    commit.Author,
		Committer: commit.Committer,
	}

	if i.includeDiff && len(commit.Parents) > 0 {
		emails, matches, err := i.inspectDiff(ctx, commit)
		if err != nil {
			findings.DiffFailed = true
			i.log.Debug("diff inspection failed",
				zap.String("commit", commit.ShortHash),
				zap.Error(err))
		} else {
			findings.Emails = append(findings.Emails, emails...)
			findings.PII = append(findings.PII, matches...)
		}
	}

	msgEmails, msgPII := i.matchText(commit.Message, SourceMessage)
	findings.Emails = append(findings.Emails, msgEmails...)
	findings.PII = append(findings.PII, msgPII...)

	return findings
}

// inspectDiff diffs the commit against its first parent and matches the
// changed text of up to maxDiffFiles files.
func (i *Inspector) inspectDiff(ctx context.Context, commit gitrepo.Commit) ([]string, []Finding, error) {
	raw, err := i.repo.DiffFirstParent(ctx, commit)
	if err != nil {
		return nil, nil, err
	}
	if len(raw) == 0 {
		return nil, nil, nil
	}

	fileDiffs, err := diff.ParseMultiFileDiff(raw)
	if err != nil {
		return nil, nil, err
	}
	if len(fileDiffs) > i.maxDiffFiles {
		fileDiffs = fileDiffs[:i.maxDiffFiles]
	}

	var emails []string
	var matches []Finding
	for _, fd := range fileDiffs {
		var body strings.Builder
		for _, hunk := range fd.Hunks {
			body.Write(hunk.Body)
		}
		fileEmails, filePII := i.matchText(body.String(), diffPath(fd))
		emails = append(emails, fileEmails...)
		matches = append(matches, filePII...)
	}
	return emails, matches, nil
}

// matchText splits matcher output into the email stream and the tagged
// potential-PII stream.
func (i *Inspector) matchText(text, source string) ([]string, []Finding) {
	var emails []string
	var matches []Finding
	for _, f := range i.matcher.Match(text) {
		if f.Detector == pii.DetectorEmail {
			emails = append(emails, f.Match)
			continue
		}
		matches = append(matches, Finding{Detector: f.Detector, Match: f.Match, Source: source})
	}
	return emails, matches
}

// diffPath picks the post-image path of a file diff, falling back to the
// pre-image for deletions.
func diffPath(fd *diff.FileDiff) string {
	name := fd.NewName
	if name == "" || name == "/dev/null" {
		name = fd.OrigName
	}
	name = strings.TrimPrefix(name, "b/")
	name = strings.TrimPrefix(name, "a/")
	return name
}
