// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package port implements the client of the Port catalog REST API.
// A Client exchanges the configured credentials for an access token; the
// Catalog returned for that token reads and upserts blueprint entities.
package port
