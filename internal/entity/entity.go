// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package entity

import (
	"slices"
	"strings"

	packageurl "github.com/package-url/packageurl-go"
)

const (
	versionProperty = "version"
	purlProperty    = "purl"

	npmPurlType = "npm"
)

// Entity is a catalog entity as exchanged with the Port API.
type Entity struct {
	Identifier string         `json:"identifier"`
	Title      string         `json:"title,omitempty"`
	Blueprint  string         `json:"blueprint,omitempty"`
	Icon       string         `json:"icon,omitempty"`
	Team       any            `json:"team,omitempty"`
	Properties map[string]any `json:"properties"`
	Relations  map[string]any `json:"relations"`
}

// NewPackage returns the entity describing version of the npm package name
// under blueprint.
func NewPackage(blueprint, name, version string) *Entity {
	identifier, title := FormatIdentifier(name, version)
	return &Entity{
		Identifier: identifier,
		Title:      title,
		Blueprint:  blueprint,
		Properties: map[string]any{
			versionProperty: version,
			purlProperty:    npmPackageURL(name, version),
		},
		Relations: map[string]any{},
	}
}

// Version returns the version property of the entity, if any.
func (e *Entity) Version() string {
	version, _ := e.Properties[versionProperty].(string)
	return version
}

// Normalize fills the fields the catalog can omit in its responses.
func (e *Entity) Normalize() {
	if e.Title == "" {
		e.Title = e.Identifier
	}

	if e.Properties == nil {
		e.Properties = map[string]any{}
	}

	if e.Relations == nil {
		e.Relations = map[string]any{}
	}
}

// ResetRelation replaces the relation named key with an empty list.
func (e *Entity) ResetRelation(key string) {
	if e.Relations == nil {
		e.Relations = map[string]any{}
	}

	e.Relations[key] = []string{}
}

// AppendRelation adds identifier to the relation named key. An identifier
// already present is not added again.
func (e *Entity) AppendRelation(key, identifier string) {
	if e.Relations == nil {
		e.Relations = map[string]any{}
	}

	related := e.RelationIdentifiers(key)
	if slices.Contains(related, identifier) {
		return
	}

	e.Relations[key] = append(related, identifier)
}

// RelationIdentifiers returns the identifiers held by the relation named key.
// A single valued relation is returned as a one element list.
func (e *Entity) RelationIdentifiers(key string) []string {
	switch value := e.Relations[key].(type) {
	case []string:
		return value
	case []any:
		identifiers := make([]string, 0, len(value))
		for _, item := range value {
			if identifier, ok := item.(string); ok {
				identifiers = append(identifiers, identifier)
			}
		}
		return identifiers
	case string:
		return []string{value}
	default:
		return []string{}
	}
}

// npmPackageURL builds the package url of an npm package, splitting the
// scope of scoped packages into the purl namespace.
func npmPackageURL(name, version string) string {
	namespace := ""
	if strings.HasPrefix(name, "@") {
		if scope, pkgName, found := strings.Cut(name, "/"); found {
			namespace = scope
			name = pkgName
		}
	}

	return packageurl.NewPackageURL(npmPurlType, namespace, name, version, nil, "").ToString()
}
