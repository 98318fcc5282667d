// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package pipeline

import (
	"context"
	"net/http"
	"testing"

	"github.com/mia-platform/pkgsync/internal/entity"
)

type fakeAuthenticator struct {
	token string
	err   error
	calls int
}

func (f *fakeAuthenticator) AccessToken(context.Context) (string, error) {
	f.calls++
	return f.token, f.err
}

type fakeCatalog struct {
	tb testing.TB

	entities map[string]*entity.Entity
	status   int
	err      error
}

func newFakeCatalog(tb testing.TB, entities ...*entity.Entity) *fakeCatalog {
	tb.Helper()

	catalog := &fakeCatalog{
		tb:       tb,
		entities: make(map[string]*entity.Entity),
	}
	for _, e := range entities {
		catalog.entities[e.Identifier] = e
	}

	return catalog
}

func (f *fakeCatalog) GetEntity(_ context.Context, _, identifier string) (*entity.Entity, int, error) {
	f.tb.Helper()
	if f.err != nil {
		return nil, 0, f.err
	}

	if f.status != 0 {
		return nil, f.status, nil
	}

	found, ok := f.entities[identifier]
	if !ok {
		return nil, http.StatusNotFound, nil
	}

	return found, http.StatusOK, nil
}
