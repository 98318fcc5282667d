// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	// DefaultAPIURL is the base URL of the public Port API.
	DefaultAPIURL = "https://api.getport.io/v1"
)

var (
	ErrParsingConfig = errors.New("error parsing configuration from environment variables")

	errInvalidAPIURL  = errors.New("invalid PORT_API_URL")
	errInvalidTimeout = errors.New("PORT_HTTP_TIMEOUT must be a positive duration")
	errEmptyBlueprint = errors.New("blueprint names cannot be empty")
)

// Config holds the environment-driven sync settings.
type Config struct {
	ClientID         string `env:"PORT_CLIENT_ID,required,notEmpty"`
	ClientSecret     string `env:"PORT_CLIENT_SECRET,required,notEmpty"`
	Runtime          string `env:"RUNTIME,required,notEmpty"`
	MicroserviceName string `env:"MICROSERVICE_NAME,required,notEmpty"`

	APIURL                    string        `env:"PORT_API_URL" envDefault:"https://api.getport.io/v1"`
	PackageBlueprint          string        `env:"PORT_PACKAGE_BLUEPRINT" envDefault:"Package"`
	DeploymentConfigBlueprint string        `env:"PORT_DEPLOYMENT_CONFIG_BLUEPRINT" envDefault:"DeploymentConfig"`
	PackagesRelation          string        `env:"PORT_PACKAGES_RELATION" envDefault:"package"`
	HTTPTimeout               time.Duration `env:"PORT_HTTP_TIMEOUT" envDefault:"30s"`
}

// LoadFromEnv parses and validates a Config from the current environment.
func LoadFromEnv() (*Config, error) {
	config, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParsingConfig, firstError(err))
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c *Config) validate() error {
	apiURL, err := url.Parse(c.APIURL)
	if err != nil {
		return fmt.Errorf("%w: %w", errInvalidAPIURL, err)
	}

	if apiURL.Scheme == "" || apiURL.Host == "" {
		return fmt.Errorf("%w: %q is not an absolute URL", errInvalidAPIURL, c.APIURL)
	}
	c.APIURL = strings.TrimSuffix(c.APIURL, "/")

	if c.HTTPTimeout <= 0 {
		return errInvalidTimeout
	}

	if c.PackageBlueprint == "" || c.DeploymentConfigBlueprint == "" || c.PackagesRelation == "" {
		return errEmptyBlueprint
	}

	return nil
}

// firstError unwraps an env.AggregateError to the first error it holds.
func firstError(err error) error {
	var parseErr env.AggregateError
	if errors.As(err, &parseErr) && len(parseErr.Errors) > 0 {
		return parseErr.Errors[0]
	}

	return err
}
