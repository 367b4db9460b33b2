// SPDX-License-Identifier: AGPL-3.0-or-later

/*
GitPrivacy - GitPrivacy is a read-only auditing tool that scans Git commit history for personal data exposure and evaluates the findings against a fixed set of GDPR-derived compliance rules.

Copyright (C) 2026  Avery Lindqvist

This program is free software licensed under the terms of the GNU AGPL v3 or later.

See https://www.gnu.org/licenses/ for license details.

*/

// Package commands contains the Cobra commands for the GitPrivacy CLI.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd constructs the GitPrivacy root Cobra command.
func NewRootCmd() *cobra.Command {
	version := os.Getenv("GITPRIVACY_VERSION")
	if version == "" {
		version = "0.0.0-dev"
	}

	cmd := &cobra.Command{
		Use:           "gitprivacy",
		Short:         "GitPrivacy - GDPR compliance scanner for Git repositories",
		Long:          "GitPrivacy scans Git history for personal data exposure and evaluates the findings against GDPR articles 6, 13, 14, 17 and 20.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	cmd.PersistentFlags().BoolP("verbose", "v", false, "enable verbose output")

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number of GitPrivacy",
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "GitPrivacy version %s\n", version)
		},
	})

	cmd.AddCommand(NewScanCommand())
	cmd.AddCommand(NewCheckCommand())
	cmd.AddCommand(NewForksCommand())
	cmd.AddCommand(NewArticlesCommand())

	return cmd
}
