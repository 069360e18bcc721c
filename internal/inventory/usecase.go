package inventory

import (
	"context"

	"github.com/fekuna/omnipos-pricing-service/internal/document"
	"github.com/fekuna/omnipos-pricing-service/internal/inventory/dto"
)

type UseCase interface {
	ListInventory(ctx context.Context, input *dto.ListInput) (*dto.ListResult, error)
	CountRecords(ctx context.Context, locationID uint64) (uint64, error)
	AddRecord(ctx context.Context, locationID uint64, doc *document.Document) (uint64, error)
	AddRecords(ctx context.Context, locationID uint64, docs []*document.Document) ([]uint64, error)
	GetRecord(ctx context.Context, locationID, recordID uint64) (*document.Document, error)
	UpdateRecord(ctx context.Context, locationID, recordID uint64, doc *document.Document) error
	DeleteRecord(ctx context.Context, locationID, recordID uint64) (int64, error)
	ExportCSV(ctx context.Context, locationID uint64) (string, error)
}
