// SPDX-License-Identifier: AGPL-3.0-or-later

/*
GitPrivacy - GitPrivacy is a read-only auditing tool that scans Git commit history for personal data exposure and evaluates the findings against a fixed set of GDPR-derived compliance rules.

Copyright (C) 2026  Avery Lindqvist

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

// Package compliance evaluates an aggregated scan result against the
// fixed article rule table and produces the compliance report. The
// engine is a pure function of the scan result: it performs no I/O and
// never mutates its input.
package compliance

import (
	"fmt"
	"time"
)

// Severity tags a single violation.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Violation is one typed rule violation.
type Violation struct {
	Type        string   `json:"type"`
	Description string   `json:"description"`
	Article     string   `json:"article"`
	Severity    Severity `json:"severity"`
}

// ArticleResult is the verdict for one evaluated article.
type ArticleResult struct {
	Article         int             `json:"article"`
	Title           string          `json:"title,omitempty"`
	Supported       bool            `json:"supported"`
	Compliant       bool            `json:"compliant"`
	Violations      []Violation     `json:"violations"`
	Recommendations []string        `json:"recommendations"`
	SeverityScore   int             `json:"severity_score"`
	Details         map[string]bool `json:"details,omitempty"`
}

// Report is the combined verdict across all evaluated articles.
type Report struct {
	AnalysisTimestamp time.Time       `json:"analysis_timestamp"`
	ArticlesChecked   []int           `json:"articles_checked"`
	OverallCompliant  bool            `json:"overall_compliant"`
	ArticleResults    []ArticleResult `json:"article_results"`
	Violations        []Violation     `json:"violations"`
	Recommendations   []string        `json:"recommendations"`
	SeverityScore     int             `json:"severity_score"`
	SeverityLevel     Level           `json:"severity_level"`

	// ForkImpact is attached by the caller when fork analysis ran; it is
	// narrative context and never changes any per-article flag.
	ForkImpact *ForkImpact `json:"fork_impact,omitempty"`
}

// UnsupportedArticleError reports a requested article that is not in the
// fixed rule table. The batch evaluation recovers from it by emitting a
// stub result; it is exported for callers who evaluate single articles.
type UnsupportedArticleError struct {
	Article int
}

func (e *UnsupportedArticleError) Error() string {
	return fmt.Sprintf("article %d is not in the compliance rule table", e.Article)
}
