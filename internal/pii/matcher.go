// SPDX-License-Identifier: AGPL-3.0-or-later

/*
GitPrivacy - GitPrivacy is a read-only auditing tool that scans Git commit history for personal data exposure and evaluates the findings against a fixed set of GDPR-derived compliance rules.

Copyright (C) 2026  Avery Lindqvist

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

// Package pii implements the stateless pattern matchers used to detect
// personally identifiable information in free-form text.
package pii

import (
	"regexp"
	"strings"
)

// Detector names. These are part of the output contract: aggregated
// findings are tagged with the detector that produced them.
const (
	DetectorEmail      = "email"
	DetectorPhone      = "phone"
	DetectorCreditCard = "credit_card"
	DetectorSSN        = "ssn"
	DetectorIPAddress  = "ip_address"
)

// Finding is a single pattern match.
type Finding struct {
	Detector string
	Match    string
}

type detector struct {
	name string
	re   *regexp.Regexp
}

// The detector table is fixed. The regular expressions are deliberately
// broad: this is an exposure scan, not a validator, and the compliance
// verdict depends on over-reporting rather than under-reporting.
var detectors = []detector{
	{DetectorEmail, regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)},
	{DetectorPhone, regexp.MustCompile(`(?:\+\d{1,3}[-.\s]?)?\(?\d{1,4}\)?[-.\s]?\d{1,4}[-.\s]?\d{1,9}`)},
	{DetectorCreditCard, regexp.MustCompile(`\b\d{4}[-\s]?\d{4}[-\s]?\d{4}[-\s]?\d{4}\b`)},
	{DetectorSSN, regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)},
	{DetectorIPAddress, regexp.MustCompile(`\b\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}\b`)},
}

// DetectorNames returns the names of all known detectors, in table order.
func DetectorNames() []string {
	names := make([]string, 0, len(detectors))
	for _, d := range detectors {
		names = append(names, d.name)
	}
	return names
}

// Matcher runs a fixed subset of detectors over text. The zero value is
// not usable; construct with NewMatcher.
type Matcher struct {
	detectors []detector
}

// NewMatcher builds a matcher for the named detectors. With no names it
// enables the full detector table. Unknown names are ignored so a caller
// restricting detectors cannot accidentally widen the set.
func NewMatcher(names ...string) *Matcher {
	if len(names) == 0 {
		return &Matcher{detectors: detectors}
	}
	enabled := make(map[string]bool, len(names))
	for _, n := range names {
		enabled[n] = true
	}
	var subset []detector
	for _, d := range detectors {
		if enabled[d.name] {
			subset = append(subset, d)
		}
	}
	return &Matcher{detectors: subset}
}

// Match runs every enabled detector over text and returns all matches.
// Detectors are independent; a match from one never suppresses another.
// Matches within one detector preserve text order. Empty or non-matching
// input yields an empty result, never an error.
//
// Invalid UTF-8 is degraded to a best-effort decoding before matching,
// mirroring how diff content with unknown encodings is handled upstream.
func (m *Matcher) Match(text string) []Finding {
	if text == "" {
		return nil
	}
	if !strings.Contains(text, "\x00") {
		text = strings.ToValidUTF8(text, "")
	} else {
		text = strings.ToValidUTF8(strings.ReplaceAll(text, "\x00", ""), "")
	}

	var findings []Finding
	for _, d := range m.detectors {
		for _, match := range d.re.FindAllString(text, -1) {
			findings = append(findings, Finding{Detector: d.name, Match: match})
		}
	}
	return findings
}

// MatchDetector runs a single named detector. It returns nil when the
// detector is unknown or not enabled on this matcher.
func (m *Matcher) MatchDetector(name, text string) []string {
	for _, d := range m.detectors {
		if d.name != name {
			continue
		}
		return d.re.FindAllString(strings.ToValidUTF8(text, ""), -1)
	}
	return nil
}
