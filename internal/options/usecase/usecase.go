package usecase

import (
	"context"

	"github.com/fekuna/omnipos-pricing-service/internal/model"
	"github.com/fekuna/omnipos-pricing-service/internal/options"
	"github.com/fekuna/omnipos-pricing-service/internal/storeerr"
	"github.com/fekuna/omnipos-pricing-service/pkg/logger"
	"go.uber.org/zap"
)

type optionsUseCase struct {
	repo   options.Repository
	logger logger.ZapLogger
}

func NewOptionsUseCase(repo options.Repository, log logger.ZapLogger) options.UseCase {
	return &optionsUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *optionsUseCase) GetOptions(ctx context.Context, locationID uint64) (*model.InventoryOptions, error) {
	return uc.repo.Get(ctx, locationID)
}

func (uc *optionsUseCase) SetOptions(ctx context.Context, locationID uint64, opts *model.InventoryOptions) error {
	for i, f := range opts.PrintForms {
		if f.PercentOffRetail != nil && *f.PercentOffRetail > 100 {
			return storeerr.Validation.New("print form %d: percent off retail must be at most 100", i)
		}
	}

	if err := uc.repo.Set(ctx, locationID, opts); err != nil {
		return err
	}
	uc.logger.Debug("options saved", zap.Uint64("location_id", locationID), zap.Int("print_forms", len(opts.PrintForms)))
	return nil
}

func (uc *optionsUseCase) DeleteOptions(ctx context.Context, locationID uint64) error {
	return uc.repo.Delete(ctx, locationID)
}
