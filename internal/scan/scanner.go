package scan

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/averline/gitprivacy/internal/gitrepo"
	"github.com/averline/gitprivacy/internal/inspect"
)

// Options configures a scan run.
type Options struct {
	// CommitLimit caps the walked history (gitrepo.DefaultCommitLimit
	// when <= 0).
	CommitLimit int
	// IncludeDiff enables first-parent diff inspection per commit.
	IncludeDiff bool
	// MaxDiffFiles caps inspected files per commit.
	MaxDiffFiles int
	// Workers sets the inspection worker count. 1 (the default) keeps
	// the whole scan on the walker goroutine's ordering; higher values
	// parallelize diff inspection, with findings merged back in
	// traversal order so output stays deterministic.
	Workers int
	// Detectors restricts the pattern-matcher set; empty means all.
	Detectors []string
}

// Scanner wires the history walker through the commit inspector into the
// aggregator.
type Scanner struct {
	repo      *gitrepo.Repository
	inspector *inspect.Inspector
	opts      Options
	log       *zap.Logger
}

// New creates a Scanner over an opened repository.
func New(repo *gitrepo.Repository, logger *zap.Logger, opts Options) *Scanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	inspector := inspect.New(repo, logger, inspect.Options{
		IncludeDiff:  opts.IncludeDiff,
		MaxDiffFiles: opts.MaxDiffFiles,
		Detectors:    opts.Detectors,
	})
	return &Scanner{repo: repo, inspector: inspector, opts: opts, log: logger}
}

// Run performs the full scan. Commit records stream from the walker to
// the inspection workers and are folded in traversal order; they are not
// retained after folding. Cancellation is cooperative between commits.
func (s *Scanner) Run(ctx context.Context) (*Result, error) {
	started := time.Now().UTC()

	branches, err := s.repo.Branches(ctx)
	if err != nil {
		return nil, fmt.Errorf("scanning branches: %w", err)
	}

	agg := NewAggregator()
	walkRes, err := s.foldHistory(ctx, agg)
	if err != nil {
		return nil, err
	}

	result := agg.Snapshot()
	result.ScanID = uuid.NewString()
	result.RepositoryPath = s.repo.Path()
	result.ScanTimestamp = started
	result.Truncated = walkRes.Truncated
	result.TotalBranches = len(branches)
	result.Branches = s.summarizeBranches(ctx, branches)

	s.log.Info("scan complete",
		zap.String("repository", s.repo.Path()),
		zap.Int("commits", result.TotalCommits),
		zap.Int("branches", result.TotalBranches),
		zap.Bool("truncated", result.Truncated),
		zap.Int("diff_errors", result.DiffErrors))

	return &result, nil
}

type indexedCommit struct {
	idx    int
	commit gitrepo.Commit
}

type indexedFindings struct {
	idx      int
	findings inspect.CommitFindings
}

// foldHistory runs the walker and the inspection workers, folding the
// findings into agg strictly in traversal order.
func (s *Scanner) foldHistory(ctx context.Context, agg *Aggregator) (gitrepo.WalkResult, error) {
	g, gctx := errgroup.WithContext(ctx)

	jobs := make(chan indexedCommit, s.opts.Workers)
	results := make(chan indexedFindings, s.opts.Workers)

	var walkRes gitrepo.WalkResult
	g.Go(func() error {
		defer close(jobs)
		idx := 0
		res, err := s.repo.WalkHistory(gctx, s.opts.CommitLimit, func(c gitrepo.Commit) error {
			select {
			case jobs <- indexedCommit{idx: idx, commit: c}:
				idx++
				return nil
			case <-gctx.Done():
				return gctx.Err()
			}
		})
		walkRes = res
		return err
	})

	var workers sync.WaitGroup
	for i := 0; i < s.opts.Workers; i++ {
		workers.Add(1)
		g.Go(func() error {
			defer workers.Done()
			for job := range jobs {
				findings := s.inspector.Inspect(gctx, job.commit)
				select {
				case results <- indexedFindings{idx: job.idx, findings: findings}:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		})
	}
	go func() {
		workers.Wait()
		close(results)
	}()

	// Reorder out-of-order worker output back into traversal order
	// before folding; pending is bounded by the in-flight window.
	pending := make(map[int]inspect.CommitFindings, s.opts.Workers)
	next := 0
	for r := range results {
		pending[r.idx] = r.findings
		for {
			findings, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			agg.Fold(findings)
			next++
		}
	}

	if err := g.Wait(); err != nil {
		return walkRes, fmt.Errorf("walking history: %w", err)
	}
	return walkRes, nil
}

// summarizeBranches inspects each branch tip for exposure. Tip lookups
// are best-effort: a branch whose tip cannot be read is still listed.
func (s *Scanner) summarizeBranches(ctx context.Context, branches []gitrepo.Branch) []BranchSummary {
	summaries := make([]BranchSummary, 0, len(branches))
	for _, b := range branches {
		summary := BranchSummary{Name: b.Name, TipHash: b.Tip}

		commit, err := s.repo.CommitAt(ctx, b.Tip)
		if err != nil {
			s.log.Debug("branch tip unreadable",
				zap.String("branch", b.Name),
				zap.Error(err))
			summaries = append(summaries, summary)
			continue
		}

		summary.TipAuthor = commit.Author.String()
		summary.TipCommitter = commit.Committer.String()
		summary.TipWhen = commit.Committer.When
		summary.TipMessage = commit.Message

		findings := s.inspector.Inspect(ctx, commit)
		summary.TipEmails = findings.Emails
		for _, p := range findings.PII {
			summary.TipPII = append(summary.TipPII, formatFinding(p))
		}
		summaries = append(summaries, summary)
	}
	return summaries
}
