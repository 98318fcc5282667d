// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnvs(t *testing.T) {
	t.Helper()

	t.Setenv("PORT_CLIENT_ID", "client-id")
	t.Setenv("PORT_CLIENT_SECRET", "client-secret")
	t.Setenv("RUNTIME", "node")
	t.Setenv("MICROSERVICE_NAME", "billing")
}

func TestLoadFromEnv(t *testing.T) {
	t.Run("without envs", func(t *testing.T) {
		config, err := LoadFromEnv()
		assert.ErrorIs(t, err, ErrParsingConfig)
		assert.ErrorIs(t, err, env.VarIsNotSetError{Key: "PORT_CLIENT_ID"})
		assert.Nil(t, config)
	})

	t.Run("with empty required env", func(t *testing.T) {
		setRequiredEnvs(t)
		t.Setenv("RUNTIME", "")

		config, err := LoadFromEnv()
		assert.ErrorIs(t, err, ErrParsingConfig)
		assert.ErrorContains(t, err, "RUNTIME")
		assert.Nil(t, config)
	})

	t.Run("with required envs only", func(t *testing.T) {
		setRequiredEnvs(t)

		config, err := LoadFromEnv()
		require.NoError(t, err)
		assert.Equal(t, &Config{
			ClientID:                  "client-id",
			ClientSecret:              "client-secret",
			Runtime:                   "node",
			MicroserviceName:          "billing",
			APIURL:                    DefaultAPIURL,
			PackageBlueprint:          "Package",
			DeploymentConfigBlueprint: "DeploymentConfig",
			PackagesRelation:          "package",
			HTTPTimeout:               30 * time.Second,
		}, config)
	})

	t.Run("with all envs", func(t *testing.T) {
		setRequiredEnvs(t)
		t.Setenv("PORT_API_URL", "http://localhost:8080/v1/")
		t.Setenv("PORT_PACKAGE_BLUEPRINT", "npmPackage")
		t.Setenv("PORT_DEPLOYMENT_CONFIG_BLUEPRINT", "deployment")
		t.Setenv("PORT_PACKAGES_RELATION", "dependencies")
		t.Setenv("PORT_HTTP_TIMEOUT", "5s")

		config, err := LoadFromEnv()
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:8080/v1", config.APIURL)
		assert.Equal(t, "npmPackage", config.PackageBlueprint)
		assert.Equal(t, "deployment", config.DeploymentConfigBlueprint)
		assert.Equal(t, "dependencies", config.PackagesRelation)
		assert.Equal(t, 5*time.Second, config.HTTPTimeout)
	})

	t.Run("with unparsable api url", func(t *testing.T) {
		setRequiredEnvs(t)
		t.Setenv("PORT_API_URL", "://invalid-url")

		config, err := LoadFromEnv()
		assert.ErrorIs(t, err, errInvalidAPIURL)
		assert.Nil(t, config)
	})

	t.Run("with relative api url", func(t *testing.T) {
		setRequiredEnvs(t)
		t.Setenv("PORT_API_URL", "api.getport.io/v1")

		config, err := LoadFromEnv()
		assert.ErrorIs(t, err, errInvalidAPIURL)
		assert.Nil(t, config)
	})

	t.Run("with invalid timeout", func(t *testing.T) {
		setRequiredEnvs(t)
		t.Setenv("PORT_HTTP_TIMEOUT", "-1s")

		config, err := LoadFromEnv()
		assert.ErrorIs(t, err, errInvalidTimeout)
		assert.Nil(t, config)
	})

	t.Run("with unparsable timeout", func(t *testing.T) {
		setRequiredEnvs(t)
		t.Setenv("PORT_HTTP_TIMEOUT", "forever")

		config, err := LoadFromEnv()
		assert.ErrorIs(t, err, ErrParsingConfig)
		assert.Nil(t, config)
	})
}
