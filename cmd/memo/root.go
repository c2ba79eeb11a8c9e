// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Memo Contributors

package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the memo CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "memo",
		Short: "memo - account signup and login service",
		Long: `memo registers users and issues session tokens.

Signup stores an argon2id password hash in PostgreSQL. Login verifies the
password and returns a signed token in an Authorization cookie.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (YAML)")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}
