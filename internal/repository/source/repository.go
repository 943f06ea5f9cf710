// Package source reads and writes the per-category catalog tables.
package source

import (
	"context"
	"errors"

	"storefront/internal/catalog"
)

// ErrUnknownTable is returned for a table outside the configured allow-list.
var ErrUnknownTable = errors.New("unknown catalog table")

// Repository is the catalog source. Rows come back as loosely typed maps
// since every table carries its own columns.
type Repository interface {
	ListProducts(ctx context.Context, sourceTable string, offset, limit int) ([]catalog.RawRecord, error)
	Get(ctx context.Context, sourceTable, id string) (catalog.RawRecord, error)
	Upsert(ctx context.Context, sourceTable string, row catalog.RawRecord) error
}
