package usecase

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/fekuna/omnipos-pricing-service/internal/column"
	"github.com/fekuna/omnipos-pricing-service/internal/column/dto"
	"github.com/fekuna/omnipos-pricing-service/internal/model"
	"github.com/fekuna/omnipos-pricing-service/internal/storeerr"
	"github.com/fekuna/omnipos-pricing-service/pkg/cache"
	"github.com/fekuna/omnipos-pricing-service/pkg/logger"
	"go.uber.org/zap"
)

type columnUseCase struct {
	repo     column.Repository
	tables   column.TableInspector
	cache    *cache.RedisClient
	cacheTTL time.Duration
	logger   logger.ZapLogger
}

// NewColumnUseCase wires the descriptor store. cache may be nil.
func NewColumnUseCase(repo column.Repository, tables column.TableInspector, cache *cache.RedisClient, cacheTTL time.Duration, log logger.ZapLogger) column.UseCase {
	return &columnUseCase{
		repo:     repo,
		tables:   tables,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   log,
	}
}

func cacheKey(locationID uint64) string {
	return "columns:" + strconv.FormatUint(locationID, 10)
}

func (uc *columnUseCase) InsertColumn(ctx context.Context, input *dto.ColumnInput) (*model.ColumnDescriptor, error) {
	if err := uc.validate(ctx, input); err != nil {
		return nil, err
	}

	c := descriptor(input)
	if err := uc.repo.Insert(ctx, c); err != nil {
		return nil, err
	}

	uc.Invalidate(ctx, input.LocationID)
	return c, nil
}

func (uc *columnUseCase) ListColumns(ctx context.Context, locationID uint64) ([]model.ColumnDescriptor, error) {
	key := cacheKey(locationID)
	if uc.cache != nil {
		var cached []model.ColumnDescriptor
		ok, err := uc.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			uc.logger.Warn("column cache read failed", zap.String("key", key), zap.Error(err))
		} else if ok {
			for i := range cached {
				cached[i].LocationID = locationID
			}
			return cached, nil
		}
	}

	columns, err := uc.repo.GetAll(ctx, locationID)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if err := uc.cache.SetJSON(ctx, key, columns, uc.cacheTTL); err != nil {
			uc.logger.Warn("column cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return columns, nil
}

func (uc *columnUseCase) UpdateColumn(ctx context.Context, input *dto.ColumnInput) (*model.ColumnDescriptor, error) {
	if err := uc.validate(ctx, input); err != nil {
		return nil, err
	}

	c := descriptor(input)
	if err := uc.repo.Update(ctx, c); err != nil {
		return nil, err
	}

	uc.Invalidate(ctx, input.LocationID)
	return c, nil
}

func (uc *columnUseCase) DeleteColumn(ctx context.Context, locationID uint64, name string) error {
	if err := uc.repo.Delete(ctx, locationID, name); err != nil {
		return err
	}
	uc.Invalidate(ctx, locationID)
	return nil
}

func (uc *columnUseCase) Invalidate(ctx context.Context, locationID uint64) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Delete(ctx, cacheKey(locationID)); err != nil {
		uc.logger.Warn("column cache invalidation failed", zap.Uint64("location_id", locationID), zap.Error(err))
	}
}

// validate requires the descriptor to name a physical column of the
// location's table.
func (uc *columnUseCase) validate(ctx context.Context, input *dto.ColumnInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return storeerr.Validation.New("column name is required")
	}
	known, err := uc.tables.Columns(ctx, input.LocationID)
	if err != nil {
		return err
	}
	if !known.Has(input.Name) {
		return storeerr.Validation.New("location %d has no column %q", input.LocationID, input.Name)
	}
	return nil
}

func descriptor(input *dto.ColumnInput) *model.ColumnDescriptor {
	return &model.ColumnDescriptor{
		Name:        input.Name,
		DisplayName: input.DisplayName,
		Visible:     input.Visible,
		Attributes:  input.Attributes,
		LocationID:  input.LocationID,
	}
}
