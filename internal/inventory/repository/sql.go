package repository

import (
	"context"
	"encoding/csv"
	"io"

	"github.com/fekuna/omnipos-pricing-service/internal/document"
	"github.com/fekuna/omnipos-pricing-service/internal/query"
	"github.com/fekuna/omnipos-pricing-service/internal/storeerr"
	"github.com/fekuna/omnipos-pricing-service/pkg/database"
	"github.com/jmoiron/sqlx"
)

type SQLRepository struct {
	DB       *sqlx.DB
	dialect  database.Dialect
	compiler *query.Compiler
}

func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	dialect := database.DialectOf(db)
	return &SQLRepository{
		DB:       db,
		dialect:  dialect,
		compiler: query.NewCompiler(dialect),
	}
}

func (r *SQLRepository) requireTable(ctx context.Context, locationID uint64) error {
	ok, err := r.dialect.TableExists(ctx, r.DB, query.TableName(locationID))
	if err != nil {
		return storeerr.Wrap(err)
	}
	if !ok {
		return storeerr.NotFound.New("location %d has no inventory table", locationID)
	}
	return nil
}

func (r *SQLRepository) Columns(ctx context.Context, locationID uint64) (query.Columns, error) {
	if err := r.requireTable(ctx, locationID); err != nil {
		return nil, err
	}

	stmt := r.compiler.Probe(locationID)
	rows, err := r.DB.QueryContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, storeerr.Wrap(err)
	}
	defer rows.Close()

	names, err := rows.Columns()
	if err != nil {
		return nil, storeerr.Wrap(err)
	}
	return query.NewColumns(names), nil
}

func (r *SQLRepository) List(ctx context.Context, locationID uint64, req query.Request) ([]*document.Document, *uint64, error) {
	known, err := r.Columns(ctx, locationID)
	if err != nil {
		return nil, nil, err
	}

	stmt, err := r.compiler.Select(locationID, req, known)
	if err != nil {
		return nil, nil, err
	}

	docs, err := r.queryDocuments(ctx, r.DB, stmt)
	if err != nil {
		return nil, nil, err
	}

	var total *uint64
	for i, doc := range docs {
		if i == 0 {
			if v, ok := doc.Get(query.TotalColumn); ok {
				if n, ok := v.Int(); ok && n >= 0 {
					count := uint64(n)
					total = &count
				}
			}
		}
		doc.Delete(query.TotalColumn)
	}
	return docs, total, nil
}

func (r *SQLRepository) Count(ctx context.Context, locationID uint64) (uint64, error) {
	if err := r.requireTable(ctx, locationID); err != nil {
		return 0, err
	}

	var count uint64
	stmt := r.compiler.Count(locationID)
	if err := r.DB.GetContext(ctx, &count, stmt.SQL, stmt.Args...); err != nil {
		return 0, storeerr.Wrap(err)
	}
	return count, nil
}

func (r *SQLRepository) Add(ctx context.Context, locationID uint64, doc *document.Document) (uint64, error) {
	if doc == nil {
		return 0, storeerr.Validation.New("record must be a JSON object")
	}
	known, err := r.Columns(ctx, locationID)
	if err != nil {
		return 0, err
	}
	return r.insert(ctx, r.DB, locationID, doc, known)
}

// AddBatch inserts all documents in one transaction; on any failure none
// of them is kept.
func (r *SQLRepository) AddBatch(ctx context.Context, locationID uint64, docs []*document.Document) ([]uint64, error) {
	if err := checkDocuments(docs); err != nil {
		return nil, err
	}
	known, err := r.Columns(ctx, locationID)
	if err != nil {
		return nil, err
	}

	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, storeerr.Wrap(err)
	}
	defer tx.Rollback()

	ids := make([]uint64, 0, len(docs))
	for _, doc := range docs {
		id, err := r.insert(ctx, tx, locationID, doc, known)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, storeerr.Wrap(err)
	}
	return ids, nil
}

// checkDocuments rejects null entries, which JSON arrays of records may carry.
func checkDocuments(docs []*document.Document) error {
	for i, doc := range docs {
		if doc == nil {
			return storeerr.Validation.New("record %d must be a JSON object", i)
		}
	}
	return nil
}

func (r *SQLRepository) insert(ctx context.Context, ext sqlx.ExtContext, locationID uint64, doc *document.Document, known query.Columns) (uint64, error) {
	fields := doc.Clone()
	fields.Delete("id")
	columns, values := document.Flatten(fields)

	stmt, err := r.compiler.Insert(locationID, columns, values, known)
	if err != nil {
		return 0, err
	}

	if r.dialect.Returning() {
		var id uint64
		if err := sqlx.GetContext(ctx, ext, &id, stmt.SQL, stmt.Args...); err != nil {
			return 0, storeerr.Wrap(err)
		}
		return id, nil
	}

	res, err := ext.ExecContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return 0, storeerr.Wrap(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, storeerr.Wrap(err)
	}
	return uint64(id), nil
}

// Get returns nil without error when the record does not exist.
func (r *SQLRepository) Get(ctx context.Context, locationID, recordID uint64) (*document.Document, error) {
	if err := r.requireTable(ctx, locationID); err != nil {
		return nil, err
	}

	docs, err := r.queryDocuments(ctx, r.DB, r.compiler.Get(locationID, recordID))
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, nil
	}
	return docs[0], nil
}

func (r *SQLRepository) Update(ctx context.Context, locationID, recordID uint64, doc *document.Document) error {
	known, err := r.Columns(ctx, locationID)
	if err != nil {
		return err
	}

	fields := doc.Clone()
	fields.Delete("id")
	columns, values := document.Flatten(fields)

	stmt, err := r.compiler.Update(locationID, recordID, columns, values, known)
	if err != nil {
		return err
	}

	res, err := r.DB.ExecContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return storeerr.Wrap(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storeerr.Wrap(err)
	}
	if n == 0 {
		return storeerr.NotFound.New("record %d of location %d", recordID, locationID)
	}
	return nil
}

// Delete reports the number of rows removed; a missing record is not an error.
func (r *SQLRepository) Delete(ctx context.Context, locationID, recordID uint64) (int64, error) {
	if err := r.requireTable(ctx, locationID); err != nil {
		return 0, err
	}

	stmt := r.compiler.Delete(locationID, recordID)
	res, err := r.DB.ExecContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return 0, storeerr.Wrap(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storeerr.Wrap(err)
	}
	return n, nil
}

func (r *SQLRepository) Export(ctx context.Context, locationID uint64, w io.Writer) error {
	if err := r.requireTable(ctx, locationID); err != nil {
		return err
	}

	stmt := r.compiler.All(locationID)
	rows, err := r.DB.QueryContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return storeerr.Wrap(err)
	}
	defer rows.Close()

	p, err := document.NewProjector(rows)
	if err != nil {
		return storeerr.Wrap(err)
	}

	writer := csv.NewWriter(w)
	header := false
	for rows.Next() {
		doc, err := p.Project(rows)
		if err != nil {
			return storeerr.Wrap(err)
		}

		if !header {
			if err := writer.Write(doc.Keys()); err != nil {
				return storeerr.Wrap(err)
			}
			header = true
		}

		record := make([]string, 0, doc.Len())
		doc.Range(func(_ string, v document.Value) bool {
			record = append(record, v.Text())
			return true
		})
		if err := writer.Write(record); err != nil {
			return storeerr.Wrap(err)
		}
	}
	if err := rows.Err(); err != nil {
		return storeerr.Wrap(err)
	}

	writer.Flush()
	return storeerr.Wrap(writer.Error())
}

func (r *SQLRepository) queryDocuments(ctx context.Context, q sqlx.QueryerContext, stmt query.Statement) ([]*document.Document, error) {
	rows, err := q.QueryContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, storeerr.Wrap(err)
	}
	defer rows.Close()

	docs, err := document.ProjectAll(rows)
	if err != nil {
		return nil, storeerr.Wrap(err)
	}
	return docs, nil
}
