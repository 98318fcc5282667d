// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package destination

import (
	"context"

	"github.com/mia-platform/pkgsync/internal/entity"
)

// Sender upserts entities under a blueprint, keyed by their identifier.
// It returns the status code reported by the destination; a non nil error means
// the entity has not been stored.
type Sender interface {
	UpsertEntity(ctx context.Context, blueprint string, entity *entity.Entity) (int, error)
}
