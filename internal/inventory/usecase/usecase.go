package usecase

import (
	"context"
	"strings"

	"github.com/fekuna/omnipos-pricing-service/internal/column"
	"github.com/fekuna/omnipos-pricing-service/internal/document"
	"github.com/fekuna/omnipos-pricing-service/internal/inventory"
	"github.com/fekuna/omnipos-pricing-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-pricing-service/internal/storeerr"
	"github.com/fekuna/omnipos-pricing-service/pkg/logger"
	"go.uber.org/zap"
)

type inventoryUseCase struct {
	repo    inventory.Repository
	columns column.UseCase
	logger  logger.ZapLogger
}

func NewInventoryUseCase(repo inventory.Repository, columns column.UseCase, log logger.ZapLogger) inventory.UseCase {
	return &inventoryUseCase{
		repo:    repo,
		columns: columns,
		logger:  log,
	}
}

func (uc *inventoryUseCase) ListInventory(ctx context.Context, input *dto.ListInput) (*dto.ListResult, error) {
	docs, total, err := uc.repo.List(ctx, input.LocationID, input.Request)
	if err != nil {
		return nil, err
	}

	if input.VisibleOnly {
		hidden, err := uc.hiddenColumns(ctx, input.LocationID)
		if err != nil {
			return nil, err
		}
		for _, doc := range docs {
			for name := range hidden {
				doc.Delete(name)
			}
		}
	}

	if docs == nil {
		docs = []*document.Document{}
	}
	return &dto.ListResult{Data: docs, Total: total}, nil
}

// hiddenColumns returns the columns whose descriptor is marked invisible.
// Columns without a descriptor stay visible.
func (uc *inventoryUseCase) hiddenColumns(ctx context.Context, locationID uint64) (map[string]struct{}, error) {
	descriptors, err := uc.columns.ListColumns(ctx, locationID)
	if err != nil {
		return nil, err
	}

	hidden := make(map[string]struct{})
	for _, d := range descriptors {
		if !d.Visible && d.Name != "id" {
			hidden[d.Name] = struct{}{}
		}
	}
	return hidden, nil
}

func (uc *inventoryUseCase) CountRecords(ctx context.Context, locationID uint64) (uint64, error) {
	return uc.repo.Count(ctx, locationID)
}

func (uc *inventoryUseCase) AddRecord(ctx context.Context, locationID uint64, doc *document.Document) (uint64, error) {
	if doc == nil {
		return 0, storeerr.Validation.New("record must be a JSON object")
	}
	id, err := uc.repo.Add(ctx, locationID, doc)
	if err != nil {
		return 0, err
	}
	uc.logger.Debug("record added", zap.Uint64("location_id", locationID), zap.Uint64("record_id", id))
	return id, nil
}

func (uc *inventoryUseCase) AddRecords(ctx context.Context, locationID uint64, docs []*document.Document) ([]uint64, error) {
	if len(docs) == 0 {
		return []uint64{}, nil
	}
	for i, doc := range docs {
		if doc == nil {
			return nil, storeerr.Validation.New("record %d must be a JSON object", i)
		}
	}

	ids, err := uc.repo.AddBatch(ctx, locationID, docs)
	if err != nil {
		return nil, err
	}
	uc.logger.Info("records imported", zap.Uint64("location_id", locationID), zap.Int("count", len(ids)))
	return ids, nil
}

func (uc *inventoryUseCase) GetRecord(ctx context.Context, locationID, recordID uint64) (*document.Document, error) {
	return uc.repo.Get(ctx, locationID, recordID)
}

func (uc *inventoryUseCase) UpdateRecord(ctx context.Context, locationID, recordID uint64, doc *document.Document) error {
	return uc.repo.Update(ctx, locationID, recordID, doc)
}

func (uc *inventoryUseCase) DeleteRecord(ctx context.Context, locationID, recordID uint64) (int64, error) {
	n, err := uc.repo.Delete(ctx, locationID, recordID)
	if err != nil {
		return 0, err
	}
	if n > 1 {
		// the id column is the primary key, so this means a broken table
		uc.logger.Warn("delete removed more than one record",
			zap.Uint64("location_id", locationID),
			zap.Uint64("record_id", recordID),
			zap.Int64("rows", n),
		)
	}
	return n, nil
}

func (uc *inventoryUseCase) ExportCSV(ctx context.Context, locationID uint64) (string, error) {
	var b strings.Builder
	if err := uc.repo.Export(ctx, locationID, &b); err != nil {
		return "", err
	}
	return b.String(), nil
}
