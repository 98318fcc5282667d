// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package entity

import (
	"strings"
)

var (
	nameReplacer = strings.NewReplacer(
		".", "_",
		"/", "",
		"@", "",
	)
	versionReplacer = strings.NewReplacer(
		".", "_",
		"^", "",
	)
)

// FormatIdentifier converts a package name and version into the catalog
// identifier and the human readable title of its Package entity.
// The identifier never contains '.', '/', '@' or '^', and the same name and
// version always produce the same identifier. The scope separator is dropped,
// so distinct scoped names such as @ab/c and @a/bc share an identifier.
func FormatIdentifier(name, version string) (string, string) {
	identifier := nameReplacer.Replace(name) + "-" + versionReplacer.Replace(version)
	title := name + "_" + version

	return identifier, title
}

// DeploymentConfigIdentifier returns the identifier of the DeploymentConfig
// entity of microservice running on runtime.
func DeploymentConfigIdentifier(microservice, runtime string) string {
	return microservice + "-" + runtime
}
