// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"
)

const (
	syncCmdUsage = "sync"
	syncCmdShort = "sync the dependencies of an npm lockfile into the Port catalog"
	syncCmdLong  = `Sync the dependencies of an npm lockfile into the Port catalog.
	Every direct dependency of the project is upserted as a Package entity, then
	the DeploymentConfig entity of the microservice runtime is updated to relate
	exactly to those packages.

	The command is configured with these environment variables:
	- PORT_CLIENT_ID, PORT_CLIENT_SECRET: credentials used to obtain an access token
	- MICROSERVICE_NAME, RUNTIME: select the DeploymentConfig named MICROSERVICE_NAME-RUNTIME
	- PORT_API_URL: base url of the Port API (default https://api.getport.io/v1)
	- PORT_PACKAGES_RELATION: relation of the DeploymentConfig listing its packages (default package)

	Progress is logged as JSON lines on standard error, tagged with the runId of
	the sync. Standard output is used only by --local-output, which prints the
	entities that would be upserted.`

	syncCmdExample = `# Sync the lockfile in the current directory
	pkgsync sync

	# Preview the entities of another lockfile, including devDependencies
	pkgsync sync --lockfile app/package-lock.json --include-dev --local-output`
)

// SyncCmd returns the Cobra command that syncs a lockfile into the catalog.
func SyncCmd() *cobra.Command {
	flags := &flags{}

	cmd := &cobra.Command{
		Use:     syncCmdUsage,
		Short:   heredoc.Doc(syncCmdShort),
		Long:    heredoc.Doc(syncCmdLong),
		Example: heredoc.Doc(syncCmdExample),

		SilenceErrors: true,
		SilenceUsage:  true,

		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.NoArgs(cmd, args); err != nil {
				return handleError(cmd, err)
			}

			return nil
		},
		ValidArgsFunction: cobra.NoFileCompletions,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := flags.toOptions(cmd)
			if err != nil {
				return handleError(cmd, err)
			}

			if err := opts.validate(); err != nil {
				return handleError(cmd, err)
			}

			if err := opts.execute(cmd.Context()); err != nil {
				return handleError(cmd, err)
			}

			return nil
		},
	}

	flags.addFlags(cmd)
	return cmd
}
