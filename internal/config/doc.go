// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package config reads the sync settings from the process environment.
// The resulting Config is passed explicitly to every component that needs it.
package config
