// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package pipeline provides the sync pipeline that mirrors the dependencies of a
// lockfile into the catalog.
// A pipeline is composed of an authenticator, a catalog to read the deployment
// configuration from and a destination for the upserted entities.
package pipeline
