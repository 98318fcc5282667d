// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package pipeline

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mia-platform/pkgsync/internal/destination"
	"github.com/mia-platform/pkgsync/internal/entity"
	"github.com/mia-platform/pkgsync/internal/lockfile"
	"github.com/mia-platform/pkgsync/internal/logger"
)

const (
	loggerName = "pkgsync:pipeline"
)

// Authenticator obtains the bearer token used for the whole sync.
type Authenticator interface {
	AccessToken(ctx context.Context) (string, error)
}

// Catalog reads entities from the catalog.
type Catalog interface {
	GetEntity(ctx context.Context, blueprint, identifier string) (*entity.Entity, int, error)
}

// Connector returns the catalog and the destination to use with token.
type Connector func(token string) (Catalog, destination.Sender)

// Options holds what a sync needs to know about the project and the catalog model.
type Options struct {
	LockfilePath string
	IncludeDev   bool

	MicroserviceName string
	Runtime          string

	PackageBlueprint          string
	DeploymentConfigBlueprint string
	PackagesRelation          string
}

// Report summarizes a completed sync.
type Report struct {
	DeploymentConfig string
	Packages         []string
	FailedPackages   []string
}

type Pipeline struct {
	options       Options
	authenticator Authenticator
	connect       Connector
}

func New(options Options, authenticator Authenticator, connect Connector) *Pipeline {
	return &Pipeline{
		options:       options,
		authenticator: authenticator,
		connect:       connect,
	}
}

// Sync upserts a Package entity for every root dependency of the lockfile and
// then replaces the packages relation of the deployment config with them.
// Package upserts are best effort: a failure is logged and the sync continues.
// Dependencies whose names collapse to an identifier already reported are skipped.
// Entities already written are not rolled back if a later step fails.
func (p *Pipeline) Sync(ctx context.Context) (*Report, error) {
	log := logger.FromContext(ctx).WithName(loggerName)

	log.Debug("requesting access token")
	token, err := p.authenticator.AccessToken(ctx)
	if err != nil {
		return nil, err
	}

	log.Debug("loading lockfile", "path", p.options.LockfilePath)
	lock, err := lockfile.Load(p.options.LockfilePath)
	if err != nil {
		return nil, err
	}

	dependencies, err := lock.Dependencies(p.options.IncludeDev)
	if err != nil {
		return nil, err
	}

	catalog, sender := p.connect(token)
	deploymentConfig, found, err := p.loadDeploymentConfig(ctx, catalog)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, &deploymentConfigNotFoundError{
			Blueprint:  p.options.DeploymentConfigBlueprint,
			Identifier: p.deploymentConfigIdentifier(),
			StatusCode: deploymentConfig.statusCode,
		}
	}

	report := &Report{
		DeploymentConfig: deploymentConfig.entity.Identifier,
		Packages:         make([]string, 0, len(dependencies)),
		FailedPackages:   make([]string, 0),
	}

	reported := make(map[string]string, len(dependencies))
	for _, dependency := range dependencies {
		pkg := entity.NewPackage(p.options.PackageBlueprint, dependency.Name, dependency.Version)
		if previous, ok := reported[pkg.Identifier]; ok {
			log.Warn("skipping package with an identifier already reported",
				"identifier", pkg.Identifier,
				"name", dependency.Name,
				"reportedName", previous,
			)
			continue
		}
		reported[pkg.Identifier] = dependency.Name

		status, err := sender.UpsertEntity(ctx, p.options.PackageBlueprint, pkg)
		if err != nil {
			log.Error("error reporting package", "identifier", pkg.Identifier, "status", status, "error", err)
			report.FailedPackages = append(report.FailedPackages, pkg.Identifier)
		} else {
			log.Info("package reported", "identifier", pkg.Identifier, "title", pkg.Title, "status", status)
		}

		deploymentConfig.entity.AppendRelation(p.options.PackagesRelation, pkg.Identifier)
		report.Packages = append(report.Packages, pkg.Identifier)
	}

	status, err := sender.UpsertEntity(ctx, p.options.DeploymentConfigBlueprint, deploymentConfig.entity)
	if err != nil {
		return report, fmt.Errorf("reporting deployment config %s: %w", deploymentConfig.entity.Identifier, err)
	}

	log.Info("deployment config reported",
		"identifier", deploymentConfig.entity.Identifier,
		"status", status,
		"packages", len(report.Packages),
		"failedPackages", len(report.FailedPackages),
	)
	return report, nil
}

// fetchedEntity is the outcome of a catalog read.
type fetchedEntity struct {
	entity     *entity.Entity
	statusCode int
}

// loadDeploymentConfig fetches the deployment config of the configured
// microservice and runtime. The found result is false when the catalog does not
// answer with 200 or 201; otherwise the entity is normalized and its packages
// relation emptied, ready to be filled again.
func (p *Pipeline) loadDeploymentConfig(ctx context.Context, catalog Catalog) (fetchedEntity, bool, error) {
	log := logger.FromContext(ctx).WithName(loggerName)
	identifier := p.deploymentConfigIdentifier()

	log.Debug("loading deployment config", "blueprint", p.options.DeploymentConfigBlueprint, "identifier", identifier)
	deploymentConfig, status, err := catalog.GetEntity(ctx, p.options.DeploymentConfigBlueprint, identifier)
	if err != nil {
		return fetchedEntity{statusCode: status}, false, err
	}

	if (status != http.StatusOK && status != http.StatusCreated) || deploymentConfig == nil {
		log.Error("deployment config not found", "identifier", identifier, "status", status)
		return fetchedEntity{statusCode: status}, false, nil
	}

	deploymentConfig.Normalize()
	deploymentConfig.ResetRelation(p.options.PackagesRelation)

	return fetchedEntity{entity: deploymentConfig, statusCode: status}, true, nil
}

func (p *Pipeline) deploymentConfigIdentifier() string {
	return entity.DeploymentConfigIdentifier(p.options.MicroserviceName, p.options.Runtime)
}
