// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package fake

import (
	"context"
	"net/http"
	"testing"

	"github.com/mia-platform/pkgsync/internal/destination"
	"github.com/mia-platform/pkgsync/internal/entity"
)

var _ destination.Sender = &FakeDestination{}

// UpsertedEntity records a call to UpsertEntity.
type UpsertedEntity struct {
	Blueprint string
	Entity    entity.Entity
}

// FakeDestination stores the upserted entities in memory, keyed by identifier.
type FakeDestination struct {
	tb testing.TB

	// Errors makes UpsertEntity fail for the mapped identifiers.
	Errors map[string]error

	Upserted []UpsertedEntity
	Stored   map[string]entity.Entity
}

func NewFakeDestination(tb testing.TB) *FakeDestination {
	tb.Helper()
	return &FakeDestination{
		tb:     tb,
		Errors: make(map[string]error),
		Stored: make(map[string]entity.Entity),
	}
}

func (f *FakeDestination) UpsertEntity(_ context.Context, blueprint string, data *entity.Entity) (int, error) {
	f.tb.Helper()
	if err := f.Errors[data.Identifier]; err != nil {
		return http.StatusInternalServerError, err
	}

	status := http.StatusOK
	if _, found := f.Stored[blueprint+"/"+data.Identifier]; !found {
		status = http.StatusCreated
	}

	f.Upserted = append(f.Upserted, UpsertedEntity{Blueprint: blueprint, Entity: *data})
	f.Stored[blueprint+"/"+data.Identifier] = *data
	return status, nil
}
