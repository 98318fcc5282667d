// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package port

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mia-platform/pkgsync/internal/config"
	"github.com/mia-platform/pkgsync/internal/info"
	"github.com/mia-platform/pkgsync/internal/port/fake"
)

func testConfig(apiURL string) *config.Config {
	return &config.Config{
		ClientID:     fake.ClientID,
		ClientSecret: fake.ClientSecret,
		APIURL:       apiURL,
		HTTPTimeout:  time.Second,
	}
}

func TestAccessToken(t *testing.T) {
	t.Parallel()

	testCases := map[string]struct {
		handler        http.HandlerFunc
		expectedToken  string
		expectErr      bool
		expectedError  error
		expectedStatus int
	}{
		"token returned": {
			handler: func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, accessTokenPath, r.URL.Path)
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
				assert.Equal(t, info.AppName+"/"+info.Version, r.Header.Get("User-Agent"))

				body := make(map[string]any)
				assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.Equal(t, map[string]any{"clientId": fake.ClientID, "clientSecret": fake.ClientSecret}, body)

				_ = json.NewEncoder(w).Encode(map[string]any{"accessToken": "generated-token"})
			},
			expectedToken: "generated-token",
		},
		"invalid credentials": {
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]any{"message": "invalid credentials"})
			},
			expectErr:      true,
			expectedError:  errUnauthorized,
			expectedStatus: http.StatusUnauthorized,
		},
		"forbidden without message": {
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "forbidden", http.StatusForbidden)
			},
			expectErr:      true,
			expectedError:  &PortError{StatusCode: http.StatusForbidden, err: errUnauthorized},
			expectedStatus: http.StatusForbidden,
		},
		"server error": {
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "bad gateway", http.StatusBadGateway)
			},
			expectErr:      true,
			expectedError:  &PortError{StatusCode: http.StatusBadGateway, err: errUnexpected},
			expectedStatus: http.StatusBadGateway,
		},
		"response without token": {
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_ = json.NewEncoder(w).Encode(map[string]any{"ok": true})
			},
			expectErr:     true,
			expectedError: errMissingAccessToken,
		},
		"response is not json": {
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte("not json"))
			},
			expectErr: true,
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(tc.handler)
			defer server.Close()

			ctx, cancel := context.WithTimeout(t.Context(), time.Second)
			defer cancel()

			token, err := NewClient(testConfig(server.URL)).AccessToken(ctx)
			if tc.expectErr {
				var portErr *PortError
				require.ErrorAs(t, err, &portErr)
				assert.Equal(t, tc.expectedStatus, portErr.StatusCode)
				if tc.expectedError != nil {
					assert.ErrorIs(t, err, tc.expectedError)
				}
				assert.Empty(t, token)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.expectedToken, token)
		})
	}
}

func TestAccessTokenContextCancelled(t *testing.T) {
	t.Parallel()

	server := fake.NewServer(t)
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	token, err := NewClient(testConfig(server.URL)).AccessToken(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, token)
}

func TestAccessTokenUnreachable(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	serverURL := server.URL
	server.Close()

	token, err := NewClient(testConfig(serverURL)).AccessToken(t.Context())
	var portErr *PortError
	require.ErrorAs(t, err, &portErr)
	assert.Zero(t, portErr.StatusCode)
	assert.Empty(t, token)
}

func TestRequestID(t *testing.T) {
	t.Parallel()

	server := fake.NewServer(t)
	client := NewClient(testConfig(server.URL), WithRequestID("run-1234"))

	token, err := client.AccessToken(t.Context())
	require.NoError(t, err)

	_, _, err = client.Catalog(token).GetEntity(t.Context(), "Package", "lodash-4_17_21")
	require.NoError(t, err)

	requests := server.Requests()
	require.Len(t, requests, 2)
	for _, request := range requests {
		assert.Equal(t, "run-1234", request.RequestID)
	}
}

func TestWithTransport(t *testing.T) {
	t.Parallel()

	server := fake.NewServer(t)
	client := NewClient(testConfig(server.URL), WithTransport(http.DefaultTransport))

	token, err := client.AccessToken(t.Context())
	require.NoError(t, err)
	assert.Equal(t, fake.AccessToken, token)
}
