package column

import (
	"context"

	"github.com/fekuna/omnipos-pricing-service/internal/column/dto"
	"github.com/fekuna/omnipos-pricing-service/internal/model"
	"github.com/fekuna/omnipos-pricing-service/internal/query"
)

type UseCase interface {
	InsertColumn(ctx context.Context, input *dto.ColumnInput) (*model.ColumnDescriptor, error)
	ListColumns(ctx context.Context, locationID uint64) ([]model.ColumnDescriptor, error)
	UpdateColumn(ctx context.Context, input *dto.ColumnInput) (*model.ColumnDescriptor, error)
	DeleteColumn(ctx context.Context, locationID uint64, name string) error
	// Invalidate drops cached descriptors, e.g. after the location is deleted.
	Invalidate(ctx context.Context, locationID uint64)
}

// TableInspector reports the physical columns of a tenant table.
type TableInspector interface {
	Columns(ctx context.Context, locationID uint64) (query.Columns, error)
}
