// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package cmd

import (
	"context"
	"io"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/mia-platform/pkgsync/internal/config"
	"github.com/mia-platform/pkgsync/internal/destination"
	"github.com/mia-platform/pkgsync/internal/destination/writer"
	"github.com/mia-platform/pkgsync/internal/logger"
	"github.com/mia-platform/pkgsync/internal/pipeline"
	"github.com/mia-platform/pkgsync/internal/port"
)

// options configures a single sync run.
type options struct {
	config       *config.Config
	lockfilePath string
	includeDev   bool
	localOutput  bool
	output       io.Writer
}

// validate checks the configured values and reports invalid setups.
func (o *options) validate() error {
	if o.lockfilePath == "" {
		return errMissingLockfile
	}

	o.lockfilePath = filepath.Clean(o.lockfilePath)
	return nil
}

// execute runs the sync pipeline configured by the options.
func (o *options) execute(ctx context.Context) error {
	runID := uuid.NewString()
	log := logger.FromContext(ctx).With("runId", runID)
	ctx = logger.WithContext(ctx, log)

	client := port.NewClient(o.config, port.WithRequestID(runID))
	log.Info("starting sync",
		"lockfile", o.lockfilePath,
		"microservice", o.config.MicroserviceName,
		"runtime", o.config.Runtime,
		"localOutput", o.localOutput,
	)

	report, err := pipeline.New(o.pipelineOptions(), client, o.connector(client)).Sync(ctx)
	if err != nil {
		return err
	}

	if len(report.FailedPackages) > 0 {
		log.Warn("some packages were not reported", "failedPackages", report.FailedPackages)
	}

	log.Info("sync completed", "deploymentConfig", report.DeploymentConfig, "packages", len(report.Packages))
	return nil
}

// connector reads from the Port catalog and writes either to it or, with local
// output enabled, to the command output.
func (o *options) connector(client *port.Client) pipeline.Connector {
	return func(token string) (pipeline.Catalog, destination.Sender) {
		catalog := client.Catalog(token)
		if o.localOutput {
			return catalog, writer.NewDestination(o.output)
		}

		return catalog, catalog
	}
}

func (o *options) pipelineOptions() pipeline.Options {
	return pipeline.Options{
		LockfilePath:              o.lockfilePath,
		IncludeDev:                o.includeDev,
		MicroserviceName:          o.config.MicroserviceName,
		Runtime:                   o.config.Runtime,
		PackageBlueprint:          o.config.PackageBlueprint,
		DeploymentConfigBlueprint: o.config.DeploymentConfigBlueprint,
		PackagesRelation:          o.config.PackagesRelation,
	}
}
