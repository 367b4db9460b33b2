package scan

import (
	"fmt"
	"sort"
	"time"

	"github.com/averline/gitprivacy/internal/inspect"
)

// Aggregator folds per-commit findings into repository-wide accumulators.
// The fold is strict and order-sensitive for list-valued accumulators:
// callers must fold in traversal order to keep PotentialPII
// deterministic. Set-valued accumulators are order-insensitive.
//
// The aggregator owns its state; it is not safe for concurrent folds.
// Parallel pipelines merge results back into traversal order first.
type Aggregator struct {
	emails     map[string]struct{}
	authors    map[string]struct{}
	committers map[string]struct{}
	pii        []string

	hashSample []string
	count      int
	diffErrors int
	oldest     time.Time
	newest     time.Time
}

// hashSampleSize bounds the hash-permanence sample.
const hashSampleSize = 100

// NewAggregator returns an empty accumulator state.
func NewAggregator() *Aggregator {
	return &Aggregator{
		emails:     make(map[string]struct{}),
		authors:    make(map[string]struct{}),
		committers: make(map[string]struct{}),
	}
}

// Fold absorbs one commit's findings. The commit record itself is not
// retained; only derived data survives.
func (a *Aggregator) Fold(f inspect.CommitFindings) {
	a.count++

	a.authors[f.Author.String()] = struct{}{}
	a.committers[f.Committer.String()] = struct{}{}
	for _, email := range f.Emails {
		a.emails[email] = struct{}{}
	}

	// Diff findings come tagged with a file path, message findings with
	// the message tag; the inspector already ordered diff before message.
	for _, p := range f.PII {
		a.pii = append(a.pii, formatFinding(p))
	}

	if f.DiffFailed {
		a.diffErrors++
	}

	if len(a.hashSample) < hashSampleSize {
		a.hashSample = append(a.hashSample, f.Hash)
	}

	when := f.Author.When
	if a.oldest.IsZero() || when.Before(a.oldest) {
		a.oldest = when
	}
	if a.newest.IsZero() || when.After(a.newest) {
		a.newest = when
	}
}

// Count returns the number of commits folded so far.
func (a *Aggregator) Count() int { return a.count }

// Snapshot materializes the accumulated state into a Result, running the
// derived passes (retention, hash permanence, cross-border detection)
// exactly once. Sets are emitted sorted so output is deterministic
// regardless of fold parallelism upstream.
func (a *Aggregator) Snapshot() Result {
	res := Result{
		TotalCommits: a.count,
		DiffErrors:   a.diffErrors,
		Emails:       sortedKeys(a.emails),
		Authors:      sortedKeys(a.authors),
		Committers:   sortedKeys(a.committers),
		PotentialPII: append([]string(nil), a.pii...),
	}
	res.Retention = a.retention()
	res.HashAnalysis = AnalyzeHashPermanence(a.hashSample, a.count)
	res.CrossBorder = DetectCrossBorder(res.Emails, a.count)
	return res
}

func (a *Aggregator) retention() RetentionSummary {
	if a.count == 0 {
		return RetentionSummary{Justification: "No commit history to retain"}
	}
	return RetentionSummary{
		FirstCommit:     a.oldest,
		LastCommit:      a.newest,
		RetentionDays:   int(a.newest.Sub(a.oldest).Hours() / 24),
		TotalCommits:    a.count,
		ErasurePossible: false,
		Justification:   "No explicit data retention policy identified",
	}
}

// formatFinding renders one tagged potential-PII entry.
func formatFinding(p inspect.Finding) string {
	if p.Source == inspect.SourceMessage {
		return fmt.Sprintf("%s: %s", p.Detector, p.Match)
	}
	return fmt.Sprintf("%s in %s: %s", p.Detector, p.Source, p.Match)
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
