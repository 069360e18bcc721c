package options

import (
	"context"

	"github.com/fekuna/omnipos-pricing-service/internal/model"
)

type Repository interface {
	Initialize(ctx context.Context) error

	// Get returns storeerr.NotFound when the location has no options row.
	Get(ctx context.Context, locationID uint64) (*model.InventoryOptions, error)
	// Set upserts the options row and replaces the print forms in one transaction.
	Set(ctx context.Context, locationID uint64, opts *model.InventoryOptions) error
	Delete(ctx context.Context, locationID uint64) error
}
