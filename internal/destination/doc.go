// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package destination defines where the entities produced by a sync run are upserted.
// The catalog client is the production destination; the writer destination prints
// the same entities locally.
package destination
