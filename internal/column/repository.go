package column

import (
	"context"

	"github.com/fekuna/omnipos-pricing-service/internal/model"
)

type Repository interface {
	Initialize(ctx context.Context) error

	Insert(ctx context.Context, c *model.ColumnDescriptor) error
	GetAll(ctx context.Context, locationID uint64) ([]model.ColumnDescriptor, error)
	// Update matches by name and location and changes at most one row.
	Update(ctx context.Context, c *model.ColumnDescriptor) error
	// Delete removes at most one row; deleting a missing descriptor succeeds.
	Delete(ctx context.Context, locationID uint64, name string) error
}
