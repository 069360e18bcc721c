package usecase

import (
	"context"
	"testing"

	"github.com/fekuna/omnipos-pricing-service/internal/model"
	"github.com/fekuna/omnipos-pricing-service/internal/options/repository"
	"github.com/fekuna/omnipos-pricing-service/internal/storeerr"
	"github.com/fekuna/omnipos-pricing-service/pkg/database/databasetest"
	"github.com/fekuna/omnipos-pricing-service/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestOptionsUseCase(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewSQLRepository(databasetest.NewSQLite(t))
	require.NoError(t, repo.Initialize(ctx))
	uc := NewOptionsUseCase(repo, logger.FromZap(zaptest.NewLogger(t)))

	tooMuch := uint8(150)
	err := uc.SetOptions(ctx, 42, &model.InventoryOptions{
		PrintForms: []model.PrintForm{{PercentOffRetail: &tooMuch}},
	})
	require.Error(t, err)
	assert.True(t, storeerr.Validation.Has(err))

	_, err = uc.GetOptions(ctx, 42)
	assert.True(t, storeerr.NotFound.Has(err))

	require.NoError(t, uc.SetOptions(ctx, 42, &model.InventoryOptions{ShowColorDropdown: true}))
	got, err := uc.GetOptions(ctx, 42)
	require.NoError(t, err)
	assert.True(t, got.ShowColorDropdown)

	require.NoError(t, uc.DeleteOptions(ctx, 42))
	_, err = uc.GetOptions(ctx, 42)
	assert.True(t, storeerr.NotFound.Has(err))
}
