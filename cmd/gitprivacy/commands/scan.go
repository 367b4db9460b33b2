// SPDX-License-Identifier: AGPL-3.0-or-later

/*
GitPrivacy - GitPrivacy is a read-only auditing tool that scans Git commit history for personal data exposure and evaluates the findings against a fixed set of GDPR-derived compliance rules.

Copyright (C) 2026  Avery Lindqvist

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/averline/gitprivacy/cmd/gitprivacy/internal/clierr"
	"github.com/averline/gitprivacy/internal/compliance"
	"github.com/averline/gitprivacy/internal/gitrepo"
	"github.com/averline/gitprivacy/internal/logging"
	"github.com/averline/gitprivacy/internal/scan"
)

// reportEnvelope is the combined JSON output of a scan run.
type reportEnvelope struct {
	ScanResult       *scan.Result       `json:"scan_result"`
	ComplianceReport *compliance.Report `json:"compliance_report"`
}

func NewScanCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan [repository-path]",
		Short: "Scan a Git repository for GDPR compliance violations",
		Long: `Scan walks the repository's commit history, collects personal data
exposure (author identities, emails, pattern-matched PII in messages and
diffs), and evaluates the findings against the supported GDPR articles.

The repository is never modified; all Git access is read-only.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) == 1 {
				path = args[0]
			}
			absPath, err := filepath.Abs(path)
			if err != nil {
				return clierr.New(1, fmt.Sprintf("scan: resolving path %q: %v", path, err))
			}

			verbose, _ := cmd.Flags().GetBool("verbose")
			logger, err := logging.New(verbose)
			if err != nil {
				return clierr.New(1, fmt.Sprintf("scan: building logger: %v", err))
			}
			defer func() { _ = logger.Sync() }()

			articlesFlag, _ := cmd.Flags().GetString("articles")
			articles, err := parseArticles(articlesFlag)
			if err != nil {
				return clierr.Wrap(1, "scan", err)
			}

			format, _ := cmd.Flags().GetString("format")
			if format != "json" && format != "text" {
				return clierr.Newf(1, "scan: unknown format %q (want json or text)", format)
			}

			repo, err := gitrepo.Open(absPath, logger)
			if err != nil {
				var repoErr *gitrepo.RepositoryError
				if errors.As(err, &repoErr) {
					return clierr.Wrap(2, "scan", err)
				}
				return clierr.Wrap(1, "scan", err)
			}

			limit, _ := cmd.Flags().GetInt("limit")
			skipDiff, _ := cmd.Flags().GetBool("skip-diff")
			workers, _ := cmd.Flags().GetInt("workers")
			maxDiffFiles, _ := cmd.Flags().GetInt("max-diff-files")

			scanner := scan.New(repo, logger, scan.Options{
				CommitLimit:  limit,
				IncludeDiff:  !skipDiff,
				MaxDiffFiles: maxDiffFiles,
				Workers:      workers,
			})
			result, err := scanner.Run(cmd.Context())
			if err != nil {
				return clierr.Wrap(1, "scan", err)
			}

			engine, err := compliance.NewEngine(logger)
			if err != nil {
				return clierr.Wrap(1, "scan", err)
			}
			report := engine.Evaluate(result, articles)

			includeForks, _ := cmd.Flags().GetBool("include-forks")
			if includeForks {
				estimator := compliance.EstimatorFor(absPath)
				impact, err := estimator.Estimate(cmd.Context(), absPath, compliance.DefaultForkDepth)
				if err != nil {
					// Fork analysis is advisory; its failure never fails
					// the scan.
					logger.Warn("fork analysis unavailable", zap.Error(err))
				} else {
					report.ForkImpact = impact
				}
			}

			envelope := &reportEnvelope{ScanResult: result, ComplianceReport: report}

			output, _ := cmd.Flags().GetString("output")
			if output != "" {
				data, err := json.MarshalIndent(envelope, "", "  ")
				if err != nil {
					return clierr.Wrap(1, "scan: encoding report", err)
				}
				if err := os.WriteFile(output, append(data, '\n'), 0o600); err != nil {
					return clierr.New(1, fmt.Sprintf("scan: write report %q: %v", output, err))
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Report saved to: %s\n", output)
			}

			switch format {
			case "json":
				if output != "" {
					return nil
				}
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(envelope); err != nil {
					return clierr.Wrap(1, "scan: encoding report", err)
				}
			case "text":
				renderSummary(cmd.OutOrStdout(), result, report)
			}
			return nil
		},
	}

	cmd.Flags().StringP("output", "o", "", "write the full JSON report to this file")
	cmd.Flags().String("format", "text", "stdout format: text or json")
	cmd.Flags().String("articles", "", "comma-separated GDPR articles to check (e.g. '6,17,20'); default all")
	cmd.Flags().Bool("include-forks", false, "include fork propagation analysis")
	cmd.Flags().Int("limit", 0, "maximum commits to walk (default 10000)")
	cmd.Flags().Bool("skip-diff", false, "skip diff content inspection (metadata only)")
	cmd.Flags().Int("workers", 1, "parallel diff inspection workers")
	cmd.Flags().Int("max-diff-files", 0, "maximum files inspected per commit diff (default 10)")

	return cmd
}

// parseArticles parses the --articles flag. Empty means all supported.
func parseArticles(s string) ([]int, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var articles []int
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid article list %q: use comma-separated integers", s)
		}
		articles = append(articles, n)
	}
	return articles, nil
}
