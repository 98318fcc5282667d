// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package port

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/dnscache"

	"github.com/mia-platform/pkgsync/internal/config"
	"github.com/mia-platform/pkgsync/internal/info"
)

const (
	accessTokenPath = "/auth/access_token"
)

// Client talks with the Port API on behalf of the configured client credentials.
type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	timeout      time.Duration

	transport http.RoundTripper
}

// Option customizes a Client.
type Option func(*Client)

// WithTransport replaces the round tripper used for every request.
func WithTransport(transport http.RoundTripper) Option {
	return func(c *Client) {
		c.transport = transport
	}
}

// WithRequestID sends requestID in the x-request-id header of every request.
func WithRequestID(requestID string) Option {
	return func(c *Client) {
		c.transport = &requestIDTransport{
			requestID: requestID,
			base:      c.transport,
		}
	}
}

// NewClient returns a Client for the API and credentials held by cfg.
func NewClient(cfg *config.Config, opts ...Option) *Client {
	client := &Client{
		baseURL:      cfg.APIURL,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		timeout:      cfg.HTTPTimeout,
		transport:    newTransport(&dnscache.Resolver{}),
	}

	for _, opt := range opts {
		opt(client)
	}

	return client
}

type accessTokenRequest struct {
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
}

type accessTokenResponse struct {
	AccessToken string `json:"accessToken"`
	ExpiresIn   int    `json:"expiresIn,omitempty"`
	TokenType   string `json:"tokenType,omitempty"`
}

// AccessToken exchanges the client credentials for a bearer token.
// Every call performs a new exchange.
func (c *Client) AccessToken(ctx context.Context) (string, error) {
	body, err := json.Marshal(accessTokenRequest{
		ClientID:     c.clientID,
		ClientSecret: c.clientSecret,
	})
	if err != nil {
		return "", handleError(err)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+accessTokenPath, bytes.NewReader(body))
	if err != nil {
		return "", handleError(err)
	}

	setCommonHeaders(request)
	request.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient(c.transport).Do(request)
	if err != nil {
		return "", handleError(err)
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return "", responseError(resp)
	}

	var tokenResponse accessTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResponse); err != nil {
		return "", handleError(err)
	}

	if tokenResponse.AccessToken == "" {
		return "", handleError(errMissingAccessToken)
	}

	return tokenResponse.AccessToken, nil
}

// Catalog returns the entity API of Port authenticated with token.
func (c *Client) Catalog(token string) *Catalog {
	return &Catalog{
		baseURL: c.baseURL,
		client:  c.httpClient(newBearerTransport(c.transport, token)),
	}
}

func (c *Client) httpClient(transport http.RoundTripper) *http.Client {
	return &http.Client{
		Timeout:   c.timeout,
		Transport: transport,
	}
}

// setCommonHeaders sets the headers sent with every Port API request.
func setCommonHeaders(request *http.Request) {
	request.Header.Set("User-Agent", info.UserAgent())
	request.Header.Set("Accept", "application/json")
}
