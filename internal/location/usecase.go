package location

import (
	"context"

	"github.com/fekuna/omnipos-pricing-service/internal/location/dto"
	"github.com/fekuna/omnipos-pricing-service/internal/model"
)

type UseCase interface {
	ListLocations(ctx context.Context) ([]model.Location, error)
	GetLocation(ctx context.Context, id uint64) (*model.Location, error)
	GetLocationDetail(ctx context.Context, id uint64) (*dto.LocationDetail, error)
	CreateLocation(ctx context.Context, input *dto.CreateLocationInput) (*model.Location, error)
	UpdateLocation(ctx context.Context, input *dto.UpdateLocationInput) (*model.Location, error)
	DeleteLocation(ctx context.Context, id uint64) error

	RenameTable(ctx context.Context, from, to string) error
	DropTable(ctx context.Context, id uint64) error
	// MigrateTableNames renames tables still named by a location's token to
	// the location's numeric id and returns how many were renamed.
	MigrateTableNames(ctx context.Context) (int, error)
}
