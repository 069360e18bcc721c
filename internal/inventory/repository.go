package inventory

import (
	"context"
	"io"

	"github.com/fekuna/omnipos-pricing-service/internal/document"
	"github.com/fekuna/omnipos-pricing-service/internal/query"
)

// Repository reads and writes the records of tenant tables. An unknown
// location table is reported as storeerr.NotFound.
type Repository interface {
	// Columns returns the physical column set of the location's table.
	Columns(ctx context.Context, locationID uint64) (query.Columns, error)

	// List returns one page and the total row count of the filtered set;
	// total is nil when the page is empty.
	List(ctx context.Context, locationID uint64, req query.Request) ([]*document.Document, *uint64, error)
	Count(ctx context.Context, locationID uint64) (uint64, error)

	// Record CRUD by numeric id
	Add(ctx context.Context, locationID uint64, doc *document.Document) (uint64, error)
	AddBatch(ctx context.Context, locationID uint64, docs []*document.Document) ([]uint64, error)
	Get(ctx context.Context, locationID, recordID uint64) (*document.Document, error)
	Update(ctx context.Context, locationID, recordID uint64, doc *document.Document) error
	Delete(ctx context.Context, locationID, recordID uint64) (int64, error)

	// Export writes every row as CSV with a header taken from the first row.
	Export(ctx context.Context, locationID uint64, w io.Writer) error
}
