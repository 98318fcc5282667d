// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

// Package lockfile reads the resolved dependencies of a project from its npm
// lockfile (package-lock.json, lockfileVersion 2 and 3).
package lockfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
)

const (
	rootPackageKey    = ""
	nodeModulesPrefix = "node_modules/"

	// DefaultFileName is the lockfile name written by npm.
	DefaultFileName = "package-lock.json"
)

var (
	ErrParsing              = errors.New("error parsing lockfile")
	ErrMissingRootPackage   = errors.New("lockfile has no root package entry")
	ErrUnresolvedDependency = errors.New("dependency has no resolved version in lockfile")
)

// Lockfile is the subset of an npm lockfile needed to resolve the direct
// dependencies of the root package.
type Lockfile struct {
	Name            string             `json:"name"`
	Version         string             `json:"version"`
	LockfileVersion int                `json:"lockfileVersion"`
	Packages        map[string]Package `json:"packages"`
}

// Package is an entry of the lockfile packages map.
type Package struct {
	Version         string         `json:"version"`
	Dependencies    map[string]any `json:"dependencies,omitempty"`
	DevDependencies map[string]any `json:"devDependencies,omitempty"`
	Dev             bool           `json:"dev,omitempty"`
}

// Dependency is a direct dependency of the root package with its resolved version.
type Dependency struct {
	Name    string
	Version string
	Dev     bool
}

// Load reads and parses the lockfile at path.
func Load(path string) (*Lockfile, error) {
	cleanedPath := filepath.Clean(path)
	file, err := os.Open(cleanedPath)
	if err != nil {
		return nil, fmt.Errorf("lockfile %q: %w", cleanedPath, unwrappedError(err))
	}
	defer file.Close()

	lockfile, err := decode(file)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrParsing, cleanedPath, err)
	}

	return lockfile, nil
}

// Parse decodes a lockfile from reader.
func Parse(reader io.Reader) (*Lockfile, error) {
	lockfile, err := decode(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParsing, err)
	}

	return lockfile, nil
}

func decode(reader io.Reader) (*Lockfile, error) {
	lockfile := new(Lockfile)
	if err := json.NewDecoder(reader).Decode(lockfile); err != nil {
		return nil, err
	}

	return lockfile, nil
}

// Dependencies returns the direct dependencies of the root package sorted by
// name. Development dependencies are included only if includeDev is true.
// Every returned dependency has a resolved version, otherwise an error wrapping
// ErrUnresolvedDependency is returned.
func (l *Lockfile) Dependencies(includeDev bool) ([]Dependency, error) {
	root, ok := l.Packages[rootPackageKey]
	if !ok {
		return nil, ErrMissingRootPackage
	}

	names := make(map[string]bool, len(root.Dependencies)+len(root.DevDependencies))
	for name := range root.Dependencies {
		names[name] = false
	}

	if includeDev {
		for name := range root.DevDependencies {
			if _, found := names[name]; !found {
				names[name] = true
			}
		}
	}

	dependencies := make([]Dependency, 0, len(names))
	for _, name := range slices.Sorted(maps.Keys(names)) {
		version, err := l.ResolvedVersion(name)
		if err != nil {
			return nil, err
		}

		dependencies = append(dependencies, Dependency{
			Name:    name,
			Version: version,
			Dev:     names[name],
		})
	}

	return dependencies, nil
}

// ResolvedVersion returns the version installed for the top level package name.
func (l *Lockfile) ResolvedVersion(name string) (string, error) {
	pkg, ok := l.Packages[nodeModulesPrefix+name]
	if !ok || pkg.Version == "" {
		return "", fmt.Errorf("%w: %s", ErrUnresolvedDependency, name)
	}

	return pkg.Version, nil
}

// unwrappedError returns the unwrapped error if available, otherwise it returns the original error.
func unwrappedError(err error) error {
	if unwrapped := errors.Unwrap(err); unwrapped != nil {
		return unwrapped
	}

	return err
}
