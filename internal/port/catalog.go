// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package port

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/mia-platform/pkgsync/internal/destination"
	"github.com/mia-platform/pkgsync/internal/entity"
)

var _ destination.Sender = &Catalog{}

// Catalog reads and writes blueprint entities with an already obtained token.
type Catalog struct {
	baseURL string
	client  *http.Client
}

type entityResponse struct {
	OK     bool           `json:"ok"`
	Entity *entity.Entity `json:"entity"`
}

// UpsertEntity implements destination.Sender. The entity is created, or replaced
// when an entity with the same identifier already exists in blueprint.
// The status code is returned even when the API reports a failure.
func (c *Catalog) UpsertEntity(ctx context.Context, blueprint string, data *entity.Entity) (int, error) {
	body, err := json.Marshal(data)
	if err != nil {
		return 0, handleError(err)
	}

	requestURL := c.entitiesURL(blueprint) + "?upsert=true"
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, requestURL, bytes.NewReader(body))
	if err != nil {
		return 0, handleError(err)
	}

	setCommonHeaders(request)
	request.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(request)
	if err != nil {
		return 0, handleError(err)
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return resp.StatusCode, responseError(resp)
	}

	// drain the body so the connection can be reused by the next call
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

// GetEntity retrieves the entity identified by identifier in blueprint.
// A nil entity with a nil error is returned when the API answers with a status
// other than 200 or 201; the status code lets the caller tell the cases apart.
func (c *Catalog) GetEntity(ctx context.Context, blueprint, identifier string) (*entity.Entity, int, error) {
	requestURL := c.entitiesURL(blueprint) + "/" + url.PathEscape(identifier)
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, 0, handleError(err)
	}

	setCommonHeaders(request)

	resp, err := c.client.Do(request)
	if err != nil {
		return nil, 0, handleError(err)
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, resp.StatusCode, nil
	}

	var body entityResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, resp.StatusCode, handleError(err)
	}

	if body.Entity == nil {
		return nil, resp.StatusCode, handleError(errMissingEntity)
	}

	return body.Entity, resp.StatusCode, nil
}

func (c *Catalog) entitiesURL(blueprint string) string {
	return c.baseURL + "/blueprints/" + url.PathEscape(blueprint) + "/entities"
}
