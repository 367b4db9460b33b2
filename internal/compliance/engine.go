// SPDX-License-Identifier: AGPL-3.0-or-later

/*
GitPrivacy - GitPrivacy is a read-only auditing tool that scans Git commit history for personal data exposure and evaluates the findings against a fixed set of GDPR-derived compliance rules.

Copyright (C) 2026  Avery Lindqvist

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

package compliance

import (
	"time"

	"go.uber.org/zap"

	"github.com/averline/gitprivacy/internal/scan"
)

// Engine evaluates scan results against the loaded rule table.
type Engine struct {
	rules *RuleSet
	log   *zap.Logger
}

// NewEngine loads the embedded rule table.
func NewEngine(logger *zap.Logger) (*Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	rules, err := LoadRules()
	if err != nil {
		return nil, err
	}
	return &Engine{rules: rules, log: logger}, nil
}

// SupportedArticles lists the articles the rule table covers.
func (e *Engine) SupportedArticles() []int {
	return e.rules.SupportedArticles()
}

// ArticleRule exposes the static rule entry for one article.
func (e *Engine) ArticleRule(n int) (ArticleRule, bool) {
	return e.rules.Article(n)
}

// Evaluate checks the scan result against the requested articles (the
// whole table when articles is empty) and merges the per-article
// verdicts into a single report. A requested article outside the table
// yields a non-compliant stub rather than an error, so one bad number
// never voids the rest of the evaluation.
func (e *Engine) Evaluate(res *scan.Result, articles []int) *Report {
	if len(articles) == 0 {
		articles = e.rules.SupportedArticles()
	}

	report := &Report{
		AnalysisTimestamp: time.Now().UTC(),
		ArticlesChecked:   append([]int(nil), articles...),
		OverallCompliant:  true,
		Violations:        []Violation{},
		Recommendations:   []string{},
	}

	seenRec := make(map[string]struct{})
	for _, n := range articles {
		result, err := e.EvaluateArticle(res, n)
		if err != nil {
			e.log.Warn("unsupported article requested", zap.Int("article", n))
			result = unsupportedStub(n)
		}
		report.ArticleResults = append(report.ArticleResults, result)

		if !result.Compliant {
			report.OverallCompliant = false
			report.Violations = append(report.Violations, result.Violations...)
			report.SeverityScore += result.SeverityScore
		}
		for _, rec := range result.Recommendations {
			if _, dup := seenRec[rec]; dup {
				continue
			}
			seenRec[rec] = struct{}{}
			report.Recommendations = append(report.Recommendations, rec)
		}
	}
	report.SeverityLevel = LevelForScore(report.SeverityScore)

	e.log.Info("compliance evaluation complete",
		zap.Ints("articles", articles),
		zap.Bool("compliant", report.OverallCompliant),
		zap.Int("severity_score", report.SeverityScore),
		zap.String("severity_level", string(report.SeverityLevel)))

	return report
}

// EvaluateArticle checks one article. It returns *UnsupportedArticleError
// for article numbers outside the rule table.
func (e *Engine) EvaluateArticle(res *scan.Result, n int) (ArticleResult, error) {
	rule, ok := e.rules.Article(n)
	if !ok {
		return ArticleResult{}, &UnsupportedArticleError{Article: n}
	}

	switch n {
	case 6:
		return e.checkLawfulBasis(res, rule), nil
	case 13:
		return e.checkDirectCollectionNotice(rule), nil
	case 14:
		return e.checkIndirectCollectionNotice(res, rule), nil
	case 17:
		return e.checkErasure(rule), nil
	case 20:
		return e.checkPortability(rule), nil
	default:
		// A table entry without a check function is a rule-table bug.
		return ArticleResult{}, &UnsupportedArticleError{Article: n}
	}
}

// checkLawfulBasis covers Article 6. The consent-mechanism violation is
// unconditional; the lawful-basis violation applies only when the scan
// actually surfaced personal data.
func (e *Engine) checkLawfulBasis(res *scan.Result, rule ArticleRule) ArticleResult {
	hasData := res.HasPersonalData()

	var violations []Violation
	var recommendations []string
	score := 0

	if hasData {
		violations = append(violations, rule.violation("missing_lawful_basis"))
		score += rule.violationScore("missing_lawful_basis")
		recommendations = rule.recommendationGroup("personal_data")
	}
	violations = append(violations, rule.violation("no_consent_mechanism"))
	score += rule.violationScore("no_consent_mechanism")

	return ArticleResult{
		Article:         rule.Article,
		Title:           rule.Title,
		Supported:       true,
		Compliant:       len(violations) == 0,
		Violations:      violations,
		Recommendations: recommendations,
		SeverityScore:   score,
		Details: map[string]bool{
			"personal_data_detected":    hasData,
			"lawful_basis_documented":   false,
			"consent_mechanism_present": false,
		},
	}
}

// checkDirectCollectionNotice covers Article 13. Commit metadata is
// collected directly from contributors and no repository carries the
// required notices, so the verdict is fixed.
func (e *Engine) checkDirectCollectionNotice(rule ArticleRule) ArticleResult {
	return ArticleResult{
		Article:         rule.Article,
		Title:           rule.Title,
		Supported:       true,
		Compliant:       false,
		Violations:      rule.allViolations(),
		Recommendations: rule.recommendationGroup("base"),
		SeverityScore:   rule.Score,
		Details: map[string]bool{
			"privacy_notice_present":      false,
			"processing_purposes_clear":   false,
			"retention_period_specified":  false,
			"rights_information_provided": false,
		},
	}
}

// checkIndirectCollectionNotice covers Article 14. Its violations apply
// only when cross-border indicators show data flowing past the original
// contributors; the recommendations apply regardless.
func (e *Engine) checkIndirectCollectionNotice(res *scan.Result, rule ArticleRule) ArticleResult {
	crossBorder := len(res.CrossBorder) > 0

	var violations []Violation
	score := 0
	if crossBorder {
		violations = rule.allViolations()
		score = rule.Score
	}

	return ArticleResult{
		Article:         rule.Article,
		Title:           rule.Title,
		Supported:       true,
		Compliant:       len(violations) == 0,
		Violations:      violations,
		Recommendations: rule.recommendationGroup("base"),
		SeverityScore:   score,
		Details: map[string]bool{
			"fork_data_collection_detected":  crossBorder,
			"source_information_provided":    false,
			"notification_mechanism_present": false,
		},
	}
}

// checkErasure covers Article 17. Distributed history cannot be erased,
// so the article is non-compliant for every repository.
func (e *Engine) checkErasure(rule ArticleRule) ArticleResult {
	return ArticleResult{
		Article:         rule.Article,
		Title:           rule.Title,
		Supported:       true,
		Compliant:       false,
		Violations:      rule.allViolations(),
		Recommendations: rule.recommendationGroup("base"),
		SeverityScore:   rule.Score,
		Details: map[string]bool{
			"erasure_technically_possible":      false,
			"hash_permanence_issue":             true,
			"fork_propagation_prevents_erasure": true,
			"alternative_mechanisms_available":  false,
		},
	}
}

// checkPortability covers Article 20. Git is structured and machine
// readable but not a commonly used interchange format, so portability
// is graded as limited.
func (e *Engine) checkPortability(rule ArticleRule) ArticleResult {
	return ArticleResult{
		Article:         rule.Article,
		Title:           rule.Title,
		Supported:       true,
		Compliant:       false,
		Violations:      rule.allViolations(),
		Recommendations: rule.recommendationGroup("base"),
		SeverityScore:   rule.Score,
		Details: map[string]bool{
			"structured_format_available": true,
			"machine_readable":            true,
			"commonly_used_format":        false,
			"transmission_capability":     true,
		},
	}
}

func unsupportedStub(n int) ArticleResult {
	return ArticleResult{
		Article:   n,
		Supported: false,
		Compliant: false,
		Violations: []Violation{{
			Type:        "unsupported_article",
			Description: (&UnsupportedArticleError{Article: n}).Error(),
			Severity:    SeverityLow,
		}},
		Recommendations: []string{},
	}
}
