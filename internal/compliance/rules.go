// SPDX-License-Identifier: AGPL-3.0-or-later

/*
GitPrivacy - GitPrivacy is a read-only auditing tool that scans Git commit history for personal data exposure and evaluates the findings against a fixed set of GDPR-derived compliance rules.

Copyright (C) 2026  Avery Lindqvist

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

package compliance

import (
	_ "embed"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var rulesYAML []byte

// ViolationSpec is one violation template from the rule table. Score is
// only set where the article sums per-violation scores; articles with a
// flat score carry it on the rule instead.
type ViolationSpec struct {
	ID          string   `yaml:"id"`
	Description string   `yaml:"description"`
	Ref         string   `yaml:"ref"`
	Severity    Severity `yaml:"severity"`
	Score       int      `yaml:"score"`
}

// ArticleRule is the static rule entry for one article.
type ArticleRule struct {
	Article     int      `yaml:"article"`
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Criteria    []string `yaml:"criteria"`

	// Score is the flat non-compliance score for articles that do not
	// accumulate per violation.
	Score int `yaml:"score"`

	Violations      []ViolationSpec     `yaml:"violations"`
	Recommendations map[string][]string `yaml:"recommendations"`
}

// violation instantiates the template with the given id. The table is
// closed, so a missing id is a programming error.
func (r ArticleRule) violation(id string) Violation {
	for _, spec := range r.Violations {
		if spec.ID == id {
			return Violation{
				Type:        spec.ID,
				Description: spec.Description,
				Article:     spec.Ref,
				Severity:    spec.Severity,
			}
		}
	}
	panic(fmt.Sprintf("compliance: article %d has no violation %q", r.Article, id))
}

func (r ArticleRule) violationScore(id string) int {
	for _, spec := range r.Violations {
		if spec.ID == id {
			return spec.Score
		}
	}
	return 0
}

func (r ArticleRule) allViolations() []Violation {
	out := make([]Violation, 0, len(r.Violations))
	for _, spec := range r.Violations {
		out = append(out, r.violation(spec.ID))
	}
	return out
}

func (r ArticleRule) recommendationGroup(name string) []string {
	return append([]string(nil), r.Recommendations[name]...)
}

// RuleSet is the loaded, immutable article table.
type RuleSet struct {
	byArticle map[int]ArticleRule
	order     []int
}

// LoadRules parses the embedded rule table.
func LoadRules() (*RuleSet, error) {
	var doc struct {
		Articles []ArticleRule `yaml:"articles"`
	}
	if err := yaml.Unmarshal(rulesYAML, &doc); err != nil {
		return nil, fmt.Errorf("parsing rule table: %w", err)
	}
	if len(doc.Articles) == 0 {
		return nil, fmt.Errorf("rule table is empty")
	}

	rs := &RuleSet{byArticle: make(map[int]ArticleRule, len(doc.Articles))}
	for _, rule := range doc.Articles {
		if _, dup := rs.byArticle[rule.Article]; dup {
			return nil, fmt.Errorf("duplicate rule for article %d", rule.Article)
		}
		rs.byArticle[rule.Article] = rule
		rs.order = append(rs.order, rule.Article)
	}
	sort.Ints(rs.order)
	return rs, nil
}

// Article returns the rule for one article number.
func (rs *RuleSet) Article(n int) (ArticleRule, bool) {
	rule, ok := rs.byArticle[n]
	return rule, ok
}

// SupportedArticles lists the article numbers in ascending order.
func (rs *RuleSet) SupportedArticles() []int {
	return append([]int(nil), rs.order...)
}
