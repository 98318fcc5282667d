// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package writer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/mia-platform/pkgsync/internal/destination"
	"github.com/mia-platform/pkgsync/internal/entity"
)

var _ destination.Sender = &writerDestination{}

type writerDestination struct {
	writer io.Writer

	lock sync.Mutex
}

func NewDestination(w io.Writer) destination.Sender {
	return &writerDestination{
		writer: w,
	}
}

// UpsertEntity implements destination.Sender. It always reports http.StatusOK.
func (d *writerDestination) UpsertEntity(_ context.Context, blueprint string, data *entity.Entity) (int, error) {
	builder := new(strings.Builder)

	builder.WriteString("Upsert entity:\n")
	builder.WriteString("\tBlueprint: " + blueprint + "\n")
	builder.WriteString("\tIdentifier: " + data.Identifier + "\n")
	builder.WriteString("\tEntity: ")

	encoder := json.NewEncoder(builder)
	encoder.SetIndent("\t", "\t")
	if err := encoder.Encode(data); err != nil {
		return 0, err
	}
	builder.WriteString("\n")

	d.lock.Lock()
	defer d.lock.Unlock()
	if _, err := fmt.Fprint(d.writer, builder.String()); err != nil {
		return 0, err
	}

	return http.StatusOK, nil
}
