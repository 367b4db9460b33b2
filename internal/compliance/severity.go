// SPDX-License-Identifier: AGPL-3.0-or-later

/*
GitPrivacy - GitPrivacy is a read-only auditing tool that scans Git commit history for personal data exposure and evaluates the findings against a fixed set of GDPR-derived compliance rules.

Copyright (C) 2026  Avery Lindqvist

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

package compliance

// Level grades the accumulated severity score of a report.
type Level string

const (
	LevelMinimal  Level = "minimal"
	LevelLow      Level = "low"
	LevelMedium   Level = "medium"
	LevelHigh     Level = "high"
	LevelCritical Level = "critical"
)

// LevelForScore maps an accumulated score onto a level. The thresholds
// are fixed policy, not tunable.
func LevelForScore(score int) Level {
	switch {
	case score >= 20:
		return LevelCritical
	case score >= 15:
		return LevelHigh
	case score >= 10:
		return LevelMedium
	case score >= 5:
		return LevelLow
	default:
		return LevelMinimal
	}
}
