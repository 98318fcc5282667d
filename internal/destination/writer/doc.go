// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package writer implements a destination that writes the upserted entities to the
// given io.Writer instance.
// It is useful to preview what a sync run would send to the catalog.
package writer
