package options

import (
	"context"

	"github.com/fekuna/omnipos-pricing-service/internal/model"
)

type UseCase interface {
	GetOptions(ctx context.Context, locationID uint64) (*model.InventoryOptions, error)
	SetOptions(ctx context.Context, locationID uint64, opts *model.InventoryOptions) error
	DeleteOptions(ctx context.Context, locationID uint64) error
}
