package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	columnrepo "github.com/fekuna/omnipos-pricing-service/internal/column/repository"
	"github.com/fekuna/omnipos-pricing-service/internal/model"
	optionsrepo "github.com/fekuna/omnipos-pricing-service/internal/options/repository"
	"github.com/fekuna/omnipos-pricing-service/internal/query"
	"github.com/fekuna/omnipos-pricing-service/internal/storeerr"
	"github.com/fekuna/omnipos-pricing-service/pkg/database"
	"github.com/jmoiron/sqlx"
)

var invalidColumnChars = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// CleanColumnName maps an uploaded header to a safe physical column name.
func CleanColumnName(name string) string {
	return invalidColumnChars.ReplaceAllString(strings.TrimSpace(name), "_")
}

type SQLRepository struct {
	DB      *sqlx.DB
	dialect database.Dialect
}

func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{DB: db, dialect: database.DialectOf(db)}
}

func (r *SQLRepository) Initialize(ctx context.Context) error {
	query := `
        CREATE TABLE IF NOT EXISTS locations (
            ` + r.dialect.AutoIncrementKey() + `,
            name         TEXT NOT NULL,
            location     TEXT NOT NULL,
            po           TEXT NOT NULL,
            image        TEXT NOT NULL,
            created_date TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
        )
    `
	_, err := r.DB.ExecContext(ctx, query)
	return storeerr.Wrap(err)
}

func (r *SQLRepository) List(ctx context.Context) ([]model.Location, error) {
	var locations []model.Location
	query := `SELECT id, name, location, po, image, created_date FROM locations ORDER BY id`
	if err := r.DB.SelectContext(ctx, &locations, query); err != nil {
		return nil, storeerr.Wrap(err)
	}
	return locations, nil
}

func (r *SQLRepository) Get(ctx context.Context, id uint64) (*model.Location, error) {
	var loc model.Location
	query := r.DB.Rebind(`SELECT id, name, location, po, image, created_date FROM locations WHERE id = ?`)
	if err := r.DB.GetContext(ctx, &loc, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storeerr.NotFound.New("location %d", id)
		}
		return nil, storeerr.Wrap(err)
	}
	return &loc, nil
}

func (r *SQLRepository) Create(ctx context.Context, loc *model.Location, schema []model.ColumnSpec) (uint64, error) {
	columns, err := r.columnDefinitions(schema)
	if err != nil {
		return 0, err
	}

	if !r.dialect.TransactionalDDL() {
		return r.createCompensated(ctx, loc, columns)
	}

	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return 0, storeerr.Wrap(err)
	}
	defer tx.Rollback()

	id, err := r.insertLocation(ctx, tx, loc)
	if err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx, r.createTable(id, columns)); err != nil {
		return 0, storeerr.Wrap(fmt.Errorf("failed to create table %d: %w", id, err))
	}

	if err := tx.Commit(); err != nil {
		return 0, storeerr.Wrap(err)
	}
	return id, nil
}

// createCompensated is used when CREATE TABLE commits implicitly: the row is
// removed again if the table cannot be created.
func (r *SQLRepository) createCompensated(ctx context.Context, loc *model.Location, columns string) (uint64, error) {
	id, err := r.insertLocation(ctx, r.DB, loc)
	if err != nil {
		return 0, err
	}

	if _, err := r.DB.ExecContext(ctx, r.createTable(id, columns)); err != nil {
		_, cleanupErr := r.DB.ExecContext(context.WithoutCancel(ctx), r.DB.Rebind(`DELETE FROM locations WHERE id = ?`), id)
		return 0, storeerr.Wrap(errors.Join(fmt.Errorf("failed to create table %d: %w", id, err), cleanupErr))
	}
	return id, nil
}

func (r *SQLRepository) insertLocation(ctx context.Context, ext sqlx.ExtContext, loc *model.Location) (uint64, error) {
	query := `INSERT INTO locations (name, location, po, image) VALUES (?, ?, ?, ?)`
	args := []any{loc.Name, loc.Location, loc.PO, loc.Image}

	if r.dialect.Returning() {
		var id uint64
		if err := sqlx.GetContext(ctx, ext, &id, ext.Rebind(query+" RETURNING id"), args...); err != nil {
			return 0, storeerr.Wrap(fmt.Errorf("failed to insert location: %w", err))
		}
		return id, nil
	}

	res, err := ext.ExecContext(ctx, ext.Rebind(query), args...)
	if err != nil {
		return 0, storeerr.Wrap(fmt.Errorf("failed to insert location: %w", err))
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, storeerr.Wrap(err)
	}
	return uint64(id), nil
}

func (r *SQLRepository) createTable(id uint64, columns string) string {
	return "CREATE TABLE " + r.dialect.Quote(query.TableName(id)) + " (" + columns + ")"
}

// columnDefinitions renders the column list of a tenant table. The id key
// is always added and never taken from the schema.
func (r *SQLRepository) columnDefinitions(schema []model.ColumnSpec) (string, error) {
	definitions := []string{r.dialect.AutoIncrementKey()}
	seen := map[string]bool{"id": true}

	for _, spec := range schema {
		name := CleanColumnName(spec.Name)
		if name == "" {
			return "", storeerr.Validation.New("empty column name")
		}
		if strings.EqualFold(name, "id") {
			continue
		}
		if seen[strings.ToLower(name)] {
			return "", storeerr.Validation.New("duplicate column %q", name)
		}
		seen[strings.ToLower(name)] = true

		switch spec.Kind {
		case model.ColumnText, model.ColumnInteger, model.ColumnFloat, model.ColumnBoolean, model.ColumnDateTime:
		case "":
			spec.Kind = model.ColumnText
		default:
			return "", storeerr.Validation.New("column %q has unknown kind %q", name, spec.Kind)
		}

		definitions = append(definitions, r.dialect.Quote(name)+" "+r.dialect.ColumnType(string(spec.Kind))+" NULL")
	}

	return strings.Join(definitions, ", "), nil
}

func (r *SQLRepository) Update(ctx context.Context, loc *model.Location) error {
	query := r.DB.Rebind(`UPDATE locations SET name = ?, location = ?, po = ?, image = ? WHERE id = ?`)
	res, err := r.DB.ExecContext(ctx, query, loc.Name, loc.Location, loc.PO, loc.Image, loc.ID)
	if err != nil {
		return storeerr.Wrap(fmt.Errorf("failed to update location: %w", err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storeerr.Wrap(err)
	}
	if n == 0 {
		return storeerr.NotFound.New("location %d", loc.ID)
	}
	return nil
}

func (r *SQLRepository) Delete(ctx context.Context, id uint64) error {
	var rows int
	if err := r.DB.GetContext(ctx, &rows, r.DB.Rebind(`SELECT COUNT(*) FROM locations WHERE id = ?`), id); err != nil {
		return storeerr.Wrap(err)
	}
	table, err := r.TableExists(ctx, query.TableName(id))
	if err != nil {
		return err
	}
	if rows == 0 && !table {
		return storeerr.NotFound.New("location %d", id)
	}

	drop := "DROP TABLE IF EXISTS " + r.dialect.Quote(query.TableName(id))

	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return storeerr.Wrap(err)
	}
	defer tx.Rollback()

	// MySQL commits implicitly on DROP TABLE, so there the table goes last,
	// after the metadata is committed.
	if r.dialect.TransactionalDDL() {
		if _, err := tx.ExecContext(ctx, drop); err != nil {
			return storeerr.Wrap(fmt.Errorf("failed to drop table %d: %w", id, err))
		}
	}

	if err := columnrepo.DeleteAll(ctx, tx, id); err != nil {
		return storeerr.Wrap(fmt.Errorf("failed to delete columns: %w", err))
	}
	if err := optionsrepo.DeleteAll(ctx, tx, id); err != nil {
		return storeerr.Wrap(err)
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM locations WHERE id = ?`), id); err != nil {
		return storeerr.Wrap(fmt.Errorf("failed to delete location: %w", err))
	}

	if err := tx.Commit(); err != nil {
		return storeerr.Wrap(err)
	}

	if !r.dialect.TransactionalDDL() {
		if _, err := r.DB.ExecContext(ctx, drop); err != nil {
			return storeerr.Wrap(fmt.Errorf("failed to drop table %d: %w", id, err))
		}
	}
	return nil
}

func (r *SQLRepository) TableExists(ctx context.Context, name string) (bool, error) {
	ok, err := r.dialect.TableExists(ctx, r.DB, name)
	return ok, storeerr.Wrap(err)
}

// RenameTable moves a tenant table to a numeric name that is not taken yet.
func (r *SQLRepository) RenameTable(ctx context.Context, from, to string) error {
	if _, err := strconv.ParseUint(to, 10, 64); err != nil {
		return storeerr.Validation.New("table name %q is not a location id", to)
	}

	ok, err := r.TableExists(ctx, from)
	if err != nil {
		return err
	}
	if !ok {
		return storeerr.NotFound.New("table %q", from)
	}

	taken, err := r.TableExists(ctx, to)
	if err != nil {
		return err
	}
	if taken {
		return storeerr.Validation.New("table %q already exists", to)
	}

	if _, err := r.DB.ExecContext(ctx, r.dialect.Rename(from, to)); err != nil {
		return storeerr.Wrap(fmt.Errorf("failed to rename table %q: %w", from, err))
	}
	return nil
}

func (r *SQLRepository) DropTable(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx, "DROP TABLE IF EXISTS "+r.dialect.Quote(query.TableName(id)))
	return storeerr.Wrap(err)
}
