package usecase

import (
	"context"
	"strings"

	"github.com/fekuna/omnipos-pricing-service/internal/column"
	"github.com/fekuna/omnipos-pricing-service/internal/inventory"
	"github.com/fekuna/omnipos-pricing-service/internal/location"
	"github.com/fekuna/omnipos-pricing-service/internal/location/dto"
	"github.com/fekuna/omnipos-pricing-service/internal/model"
	"github.com/fekuna/omnipos-pricing-service/internal/options"
	"github.com/fekuna/omnipos-pricing-service/internal/query"
	"github.com/fekuna/omnipos-pricing-service/internal/storeerr"
	"github.com/fekuna/omnipos-pricing-service/pkg/hashid"
	"github.com/fekuna/omnipos-pricing-service/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type locationUseCase struct {
	repo    location.Repository
	columns column.UseCase
	options options.UseCase
	records inventory.UseCase
	codec   *hashid.Codec
	logger  logger.ZapLogger
}

func NewLocationUseCase(
	repo location.Repository,
	columns column.UseCase,
	opts options.UseCase,
	records inventory.UseCase,
	codec *hashid.Codec,
	log logger.ZapLogger,
) location.UseCase {
	return &locationUseCase{
		repo:    repo,
		columns: columns,
		options: opts,
		records: records,
		codec:   codec,
		logger:  log,
	}
}

func (uc *locationUseCase) ListLocations(ctx context.Context) ([]model.Location, error) {
	locations, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if locations == nil {
		locations = []model.Location{}
	}
	return locations, nil
}

func (uc *locationUseCase) GetLocation(ctx context.Context, id uint64) (*model.Location, error) {
	return uc.repo.Get(ctx, id)
}

func (uc *locationUseCase) GetLocationDetail(ctx context.Context, id uint64) (*dto.LocationDetail, error) {
	detail := &dto.LocationDetail{}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		loc, err := uc.repo.Get(gctx, id)
		detail.Location = loc
		return err
	})
	g.Go(func() error {
		columns, err := uc.columns.ListColumns(gctx, id)
		detail.Columns = columns
		return err
	})
	g.Go(func() error {
		opts, err := uc.options.GetOptions(gctx, id)
		if storeerr.NotFound.Has(err) {
			return nil
		}
		detail.Options = opts
		return err
	})
	g.Go(func() error {
		n, err := uc.records.CountRecords(gctx, id)
		detail.Records = n
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return detail, nil
}

func (uc *locationUseCase) CreateLocation(ctx context.Context, input *dto.CreateLocationInput) (*model.Location, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, storeerr.Validation.New("location name is required")
	}

	id, err := uc.repo.Create(ctx, &model.Location{
		Name:     input.Name,
		Location: input.Location,
		PO:       input.PO,
		Image:    input.Image,
	}, input.Columns)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("location created", zap.Uint64("location_id", id), zap.Int("columns", len(input.Columns)))
	return uc.repo.Get(ctx, id)
}

func (uc *locationUseCase) UpdateLocation(ctx context.Context, input *dto.UpdateLocationInput) (*model.Location, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, storeerr.Validation.New("location name is required")
	}

	err := uc.repo.Update(ctx, &model.Location{
		ID:       input.ID,
		Name:     input.Name,
		Location: input.Location,
		PO:       input.PO,
		Image:    input.Image,
	})
	if err != nil {
		return nil, err
	}
	return uc.repo.Get(ctx, input.ID)
}

func (uc *locationUseCase) DeleteLocation(ctx context.Context, id uint64) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}
	uc.columns.Invalidate(ctx, id)
	uc.logger.Info("location deleted", zap.Uint64("location_id", id))
	return nil
}

func (uc *locationUseCase) RenameTable(ctx context.Context, from, to string) error {
	return uc.repo.RenameTable(ctx, from, to)
}

func (uc *locationUseCase) DropTable(ctx context.Context, id uint64) error {
	if err := uc.repo.DropTable(ctx, id); err != nil {
		return err
	}
	uc.columns.Invalidate(ctx, id)
	return nil
}

func (uc *locationUseCase) MigrateTableNames(ctx context.Context) (int, error) {
	locations, err := uc.repo.List(ctx)
	if err != nil {
		return 0, err
	}

	renamed := 0
	for _, loc := range locations {
		token, err := uc.codec.EncodeSingle(loc.ID)
		if err != nil {
			return renamed, err
		}
		target := query.TableName(loc.ID)

		legacy, err := uc.repo.TableExists(ctx, token)
		if err != nil {
			return renamed, err
		}
		if !legacy {
			continue
		}

		current, err := uc.repo.TableExists(ctx, target)
		if err != nil {
			return renamed, err
		}
		if current {
			uc.logger.Warn("both legacy and numeric tables exist, skipping",
				zap.Uint64("location_id", loc.ID), zap.String("legacy", token))
			continue
		}

		if err := uc.repo.RenameTable(ctx, token, target); err != nil {
			return renamed, err
		}
		renamed++
		uc.logger.Info("table renamed", zap.String("from", token), zap.String("to", target))
	}
	return renamed, nil
}
