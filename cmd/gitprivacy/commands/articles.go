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

	"github.com/spf13/cobra"

	"github.com/averline/gitprivacy/cmd/gitprivacy/internal/clierr"
	"github.com/averline/gitprivacy/internal/compliance"
)

// NewArticlesCommand returns the command listing the supported GDPR
// articles and their evaluation criteria.
func NewArticlesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "articles",
		Short: "List the GDPR articles the rule table covers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, err := compliance.LoadRules()
			if err != nil {
				return clierr.Wrap(1, "articles", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Supported GDPR articles:")
			fmt.Fprintln(out)
			for _, n := range rules.SupportedArticles() {
				rule, _ := rules.Article(n)
				fmt.Fprintf(out, "  %2d  %s\n", rule.Article, rule.Title)
				for _, c := range rule.Criteria {
					fmt.Fprintf(out, "      - %s\n", c)
				}
			}
			return nil
		},
	}
}
