// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package info holds application version information.
package info

var (
	// AppName is the name of the application.
	AppName = "pkgsync"
	// Version is dynamically set by the ci or overridden by the Makefile.
	Version = "DEV"
	// BuildDate is dynamically set at build time by the cli or overridden in the Makefile.
	BuildDate = "" // YYYY-MM-DD
)

// UserAgent returns the User-Agent header value sent to remote services.
func UserAgent() string {
	return AppName + "/" + Version
}
