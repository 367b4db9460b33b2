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
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/averline/gitprivacy/cmd/gitprivacy/internal/clierr"
	"github.com/averline/gitprivacy/internal/compliance"
)

// NewForksCommand returns the standalone fork-impact analysis command.
func NewForksCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forks <repository>",
		Short: "Estimate fork propagation impact for a repository",
		Long: `Forks estimates how far personal data in the repository's history has
propagated through forks. Forge-hosted URLs use the forge estimator;
local paths report the architectural baseline.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repository := args[0]
			depth, _ := cmd.Flags().GetInt("depth")

			estimator := compliance.EstimatorFor(repository)
			impact, err := estimator.Estimate(cmd.Context(), repository, depth)
			if err != nil {
				return clierr.Wrap(1, "forks", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Fork analysis for %s\n", repository)
			fmt.Fprintf(out, "  Total forks:           %d\n", impact.TotalForks)
			fmt.Fprintf(out, "  Countries:             %d\n", len(impact.Countries))
			fmt.Fprintf(out, "  Multiplication factor: %dx\n", impact.MultiplicationFactor)
			fmt.Fprintf(out, "  Erasure impossible:    %t\n", impact.ErasureImpossible)

			output, _ := cmd.Flags().GetString("output")
			if output != "" {
				data, err := json.MarshalIndent(impact, "", "  ")
				if err != nil {
					return clierr.Wrap(1, "forks: encoding analysis", err)
				}
				if err := os.WriteFile(output, append(data, '\n'), 0o600); err != nil {
					return clierr.New(1, fmt.Sprintf("forks: write analysis %q: %v", output, err))
				}
				fmt.Fprintf(out, "Fork analysis saved to: %s\n", output)
			}
			return nil
		},
	}

	cmd.Flags().StringP("output", "o", "", "write the fork analysis JSON to this file")
	cmd.Flags().Int("depth", compliance.DefaultForkDepth, "maximum depth for fork analysis")

	return cmd
}
