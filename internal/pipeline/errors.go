// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package pipeline

import (
	"errors"
	"fmt"
)

var (
	ErrDeploymentConfigNotFound = errors.New("deployment config not found in catalog")
)

// deploymentConfigNotFoundError signals that the deployment config to update does not exist.
type deploymentConfigNotFoundError struct {
	Blueprint  string
	Identifier string
	StatusCode int
}

func (e *deploymentConfigNotFoundError) Error() string {
	return fmt.Sprintf("%s: %s/%s (status %d)", ErrDeploymentConfigNotFound, e.Blueprint, e.Identifier, e.StatusCode)
}

func (e *deploymentConfigNotFoundError) Unwrap() error {
	return ErrDeploymentConfigNotFound
}
