// SPDX-License-Identifier: AGPL-3.0-or-later

/*
GitPrivacy - GitPrivacy is a read-only auditing tool that scans Git commit history for personal data exposure and evaluates the findings against a fixed set of GDPR-derived compliance rules.

Copyright (C) 2026  Avery Lindqvist

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

package commands

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/averline/gitprivacy/cmd/gitprivacy/internal/clierr"
	"github.com/averline/gitprivacy/internal/compliance"
	"github.com/averline/gitprivacy/internal/gitrepo"
	"github.com/averline/gitprivacy/internal/logging"
	"github.com/averline/gitprivacy/internal/scan"
)

// NewCheckCommand returns the quick per-article compliance check. It
// scans commit metadata only (no diffs), so it is fast enough for
// interactive use and CI hooks.
func NewCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [repository-path]",
		Short: "Quick compliance check for specific GDPR articles",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) == 1 {
				path = args[0]
			}
			absPath, err := filepath.Abs(path)
			if err != nil {
				return clierr.New(1, fmt.Sprintf("check: resolving path %q: %v", path, err))
			}

			verbose, _ := cmd.Flags().GetBool("verbose")
			logger, err := logging.New(verbose)
			if err != nil {
				return clierr.New(1, fmt.Sprintf("check: building logger: %v", err))
			}
			defer func() { _ = logger.Sync() }()

			repo, err := gitrepo.Open(absPath, logger)
			if err != nil {
				var repoErr *gitrepo.RepositoryError
				if errors.As(err, &repoErr) {
					return clierr.Wrap(2, "check", err)
				}
				return clierr.Wrap(1, "check", err)
			}

			result, err := scan.New(repo, logger, scan.Options{}).Run(cmd.Context())
			if err != nil {
				return clierr.Wrap(1, "check", err)
			}

			engine, err := compliance.NewEngine(logger)
			if err != nil {
				return clierr.Wrap(1, "check", err)
			}

			articles := engine.SupportedArticles()
			if article, _ := cmd.Flags().GetInt("article"); article != 0 {
				articles = []int{article}
			}

			for _, n := range articles {
				ar, err := engine.EvaluateArticle(result, n)
				if err != nil {
					return clierr.Wrap(1, "check", err)
				}

				status := okColor.Sprint("COMPLIANT")
				if !ar.Compliant {
					status = failColor.Sprint("NON-COMPLIANT")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Article %d: %s\n", ar.Article, status)
				for _, v := range ar.Violations {
					fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", v.Description)
				}
			}
			return nil
		},
	}

	cmd.Flags().Int("article", 0, "single GDPR article to check (6, 13, 14, 17 or 20)")

	return cmd
}
