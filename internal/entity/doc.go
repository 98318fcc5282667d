// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package entity models the catalog entities written by a sync run: one Package
// entity for every resolved dependency and the DeploymentConfig entity that
// relates a microservice runtime to those packages.
package entity
