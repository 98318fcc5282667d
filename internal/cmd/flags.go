// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/mia-platform/pkgsync/internal/lockfile"
)

const (
	lockfileFlagName  = "lockfile"
	lockfileFlagShort = "l"
	lockfileFlagUsage = "Path to the npm lockfile whose dependencies are synced"

	includeDevFlagName   = "include-dev"
	includeDevFlagUsage  = "If set, devDependencies of the root package are synced too"
	defaultIncludeDev    = false
	localOutputFlagName  = "local-output"
	localOutputFlagUsage = "If set, writes the entities to stdout instead of sending them to the catalog"
	defaultLocalOutput   = false
)

// flags collects the CLI options of the sync command.
type flags struct {
	lockfilePath string
	includeDev   bool
	localOutput  bool
}

// addFlags registers the CLI flags on cmd.
func (f *flags) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(
		&f.lockfilePath,
		lockfileFlagName,
		lockfileFlagShort,
		lockfile.DefaultFileName,
		lockfileFlagUsage)

	cmd.Flags().BoolVar(&f.includeDev, includeDevFlagName, defaultIncludeDev, includeDevFlagUsage)
	cmd.Flags().BoolVar(&f.localOutput, localOutputFlagName, defaultLocalOutput, localOutputFlagUsage)
}

// toOptions builds an options instance from the parsed flags and the environment.
func (f *flags) toOptions(cmd *cobra.Command) (*options, error) {
	config, err := configLoader()
	if err != nil {
		return nil, err
	}

	return &options{
		config:       config,
		lockfilePath: strings.TrimSpace(f.lockfilePath),
		includeDev:   f.includeDev,
		localOutput:  f.localOutput,
		output:       cmd.OutOrStdout(),
	}, nil
}
