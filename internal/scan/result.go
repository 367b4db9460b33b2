// SPDX-License-Identifier: AGPL-3.0-or-later

/*
GitPrivacy - GitPrivacy is a read-only auditing tool that scans Git commit history for personal data exposure and evaluates the findings against a fixed set of GDPR-derived compliance rules.

Copyright (C) 2026  Avery Lindqvist

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

// Package scan runs the full repository scan: it drives the history
// walker through the commit inspector, folds the per-commit findings
// into repository-wide aggregates, and derives the secondary retention,
// hash-permanence, and cross-border signals.
package scan

import "time"

// Result is the sole durable output of the scanning phase. It is
// immutable after construction and is the only input the compliance
// engine reads.
type Result struct {
	ScanID         string    `json:"scan_id"`
	RepositoryPath string    `json:"repository_path"`
	ScanTimestamp  time.Time `json:"scan_timestamp"`

	TotalCommits  int  `json:"total_commits"`
	TotalBranches int  `json:"total_branches"`
	Truncated     bool `json:"truncated"`

	// DiffErrors counts commits whose diff could not be inspected. Soft
	// failures only; the commits themselves are still counted.
	DiffErrors int `json:"diff_errors"`

	// Deduplicated, sorted sets of personal data.
	Emails     []string `json:"emails"`
	Authors    []string `json:"authors"`
	Committers []string `json:"committers"`

	// PotentialPII preserves scan order: per commit, diff findings
	// before message findings.
	PotentialPII []string `json:"potential_pii"`

	Branches     []BranchSummary        `json:"branch_analysis"`
	Retention    RetentionSummary       `json:"data_retention"`
	HashAnalysis HashPermanence         `json:"hash_analysis"`
	CrossBorder  []CrossBorderIndicator `json:"cross_border_indicators"`
}

// HasPersonalData reports whether the scan surfaced any personal data.
func (r *Result) HasPersonalData() bool {
	return len(r.Emails) > 0 || len(r.Authors) > 0 || len(r.PotentialPII) > 0
}

// BranchSummary describes one branch tip and its personal-data exposure.
type BranchSummary struct {
	Name         string    `json:"name"`
	TipHash      string    `json:"tip_hash"`
	TipAuthor    string    `json:"tip_author"`
	TipCommitter string    `json:"tip_committer"`
	TipWhen      time.Time `json:"tip_timestamp"`
	TipMessage   string    `json:"tip_message"`
	TipEmails    []string  `json:"tip_emails,omitempty"`
	TipPII       []string  `json:"tip_potential_pii,omitempty"`
}

// RetentionSummary is the retention-span derivation over the walked
// history. ErasurePossible is false by policy: distributed history
// cannot be centrally erased.
type RetentionSummary struct {
	FirstCommit     time.Time `json:"first_commit_date"`
	LastCommit      time.Time `json:"last_commit_date"`
	RetentionDays   int       `json:"retention_period_days"`
	TotalCommits    int       `json:"total_commits"`
	ErasurePossible bool      `json:"data_erasure_possible"`
	Justification   string    `json:"retention_justification"`
}

// HashPermanence is advisory metadata about content-addressed commit
// identifiers. It samples hashes and reports a crude entropy figure plus
// fixed architectural caveats; it is not a cryptographic audit.
type HashPermanence struct {
	TotalHashes       int      `json:"total_hashes"`
	HashAlgorithm     string   `json:"hash_algorithm"`
	SampleHashes      []string `json:"sample_hashes,omitempty"`
	HashEntropy       float64  `json:"hash_entropy"`
	PermanenceIssues  []string `json:"permanence_issues"`
	ErasureImpossible bool     `json:"erasure_impossible"`
}

// CrossBorderIndicator flags one cross-border data-transfer signal.
type CrossBorderIndicator struct {
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Countries   []string `json:"countries,omitempty"`
	Implication string   `json:"gdpr_implication"`
	LegalBasis  string   `json:"legal_basis,omitempty"`
}
