package location

import (
	"context"

	"github.com/fekuna/omnipos-pricing-service/internal/model"
)

type Repository interface {
	Initialize(ctx context.Context) error

	List(ctx context.Context) ([]model.Location, error)
	Get(ctx context.Context, id uint64) (*model.Location, error)
	// Create inserts the registry row and creates its tenant table.
	Create(ctx context.Context, loc *model.Location, schema []model.ColumnSpec) (uint64, error)
	Update(ctx context.Context, loc *model.Location) error
	// Delete drops the tenant table and removes the registry row, column
	// descriptors, options and print options as one unit.
	Delete(ctx context.Context, id uint64) error

	TableExists(ctx context.Context, name string) (bool, error)
	RenameTable(ctx context.Context, from, to string) error
	DropTable(ctx context.Context, id uint64) error
}
