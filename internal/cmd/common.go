// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/mia-platform/pkgsync/internal/config"
)

var (
	errMissingLockfile = errors.New("no lockfile path provided")

	// configLoader returns the sync configuration.
	// It can be overridden for testing purposes.
	configLoader = config.LoadFromEnv
)

// handleError will do custom print error handling based on the type of error received.
// It returns the original error so that the command exits with a non zero code.
func handleError(cmd *cobra.Command, err error) error {
	switch {
	case errors.Is(err, errMissingLockfile):
		cmd.PrintErrln(err)
		_ = cmd.Usage() // do not check error as we cannot do much about it
		return err
	default:
		cmd.PrintErrln(err)
		return err
	}
}
