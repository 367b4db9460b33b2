// SPDX-License-Identifier: AGPL-3.0-or-later

/*
GitPrivacy - GitPrivacy is a read-only auditing tool that scans Git commit history for personal data exposure and evaluates the findings against a fixed set of GDPR-derived compliance rules.

Copyright (C) 2026  Avery Lindqvist

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/averline/gitprivacy/internal/compliance"
	"github.com/averline/gitprivacy/internal/scan"
)

const summaryViolationCap = 3

var (
	headerColor   = color.New(color.Bold)
	okColor       = color.New(color.FgGreen)
	failColor     = color.New(color.FgRed)
	severityColor = map[compliance.Level]*color.Color{
		compliance.LevelMinimal:  color.New(color.FgGreen),
		compliance.LevelLow:      color.New(color.FgGreen),
		compliance.LevelMedium:   color.New(color.FgYellow),
		compliance.LevelHigh:     color.New(color.FgRed),
		compliance.LevelCritical: color.New(color.FgRed, color.Bold),
	}
)

// renderSummary writes the human-readable scan summary.
func renderSummary(w io.Writer, result *scan.Result, report *compliance.Report) {
	fmt.Fprintln(w, headerColor.Sprint("GDPR Compliance Scan Results"))
	fmt.Fprintln(w, strings.Repeat("=", 50))

	fmt.Fprintf(w, "Repository:       %s\n", result.RepositoryPath)
	fmt.Fprintf(w, "Commits analyzed: %d", result.TotalCommits)
	if result.Truncated {
		fmt.Fprint(w, " (truncated)")
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Branches:         %d\n", result.TotalBranches)
	fmt.Fprintf(w, "Email addresses:  %d\n", len(result.Emails))
	fmt.Fprintf(w, "Author names:     %d\n", len(result.Authors))
	fmt.Fprintf(w, "Potential PII:    %d\n", len(result.PotentialPII))
	if result.DiffErrors > 0 {
		fmt.Fprintf(w, "Diff errors:      %d\n", result.DiffErrors)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, headerColor.Sprint("Article results"))
	for _, ar := range report.ArticleResults {
		status := okColor.Sprint("COMPLIANT")
		if !ar.Compliant {
			status = failColor.Sprint("NON-COMPLIANT")
		}
		fmt.Fprintf(w, "  Article %-3d %s", ar.Article, status)
		if !ar.Supported {
			fmt.Fprint(w, " (unsupported)")
		} else if ar.SeverityScore > 0 {
			fmt.Fprintf(w, " (score %d)", ar.SeverityScore)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w)
	if len(report.Violations) > 0 {
		fmt.Fprintf(w, "Violations found: %d\n", len(report.Violations))
		for i, v := range report.Violations {
			if i == summaryViolationCap {
				fmt.Fprintf(w, "  ... and %d more\n", len(report.Violations)-summaryViolationCap)
				break
			}
			fmt.Fprintf(w, "  [%s] %s: %s\n", v.Severity, v.Type, v.Description)
		}
	} else {
		fmt.Fprintln(w, okColor.Sprint("No violations detected"))
	}

	level := severityColor[report.SeverityLevel].Sprint(string(report.SeverityLevel))
	fmt.Fprintf(w, "Overall severity: %s (score %d)\n", level, report.SeverityScore)

	if report.ForkImpact != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, headerColor.Sprint("Fork impact"))
		fmt.Fprintf(w, "  Total forks:           %d\n", report.ForkImpact.TotalForks)
		fmt.Fprintf(w, "  Countries:             %d\n", len(report.ForkImpact.Countries))
		fmt.Fprintf(w, "  Multiplication factor: %dx\n", report.ForkImpact.MultiplicationFactor)
		fmt.Fprintf(w, "  Erasure impossible:    %t\n", report.ForkImpact.ErasureImpossible)
	}
}
