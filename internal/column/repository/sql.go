package repository

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/fekuna/omnipos-pricing-service/internal/model"
	"github.com/fekuna/omnipos-pricing-service/internal/storeerr"
	"github.com/fekuna/omnipos-pricing-service/pkg/database"
	"github.com/jmoiron/sqlx"
)

const table = "inventory_columns"

type SQLRepository struct {
	DB      *sqlx.DB
	dialect database.Dialect
}

func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{DB: db, dialect: database.DialectOf(db)}
}

type columnRow struct {
	ID          uint64  `db:"id"`
	Name        string  `db:"name"`
	DisplayName *string `db:"display_name"`
	Visible     bool    `db:"visible"`
	Attributes  *string `db:"attributes"`
	LocationID  uint64  `db:"database_id"`
}

func (r *SQLRepository) Initialize(ctx context.Context) error {
	query := `
        CREATE TABLE IF NOT EXISTS inventory_columns (
            ` + r.dialect.AutoIncrementKey() + `,
            name         VARCHAR(255) NOT NULL,
            display_name VARCHAR(255) NULL DEFAULT NULL,
            visible      BOOLEAN NOT NULL DEFAULT TRUE,
            attributes   TEXT NULL DEFAULT NULL,
            database_id  BIGINT NOT NULL,
            UNIQUE (name, database_id)
        )
    `
	_, err := r.DB.ExecContext(ctx, query)
	return storeerr.Wrap(err)
}

func (r *SQLRepository) Insert(ctx context.Context, c *model.ColumnDescriptor) error {
	query := r.DB.Rebind(`
        INSERT INTO inventory_columns (name, display_name, visible, attributes, database_id)
        VALUES (?, ?, ?, ?, ?)
    `)
	attrs, err := encodeAttributes(c.Attributes)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query, c.Name, c.DisplayName, c.Visible, attrs, c.LocationID)
	if database.IsUniqueViolation(err) {
		return storeerr.Validation.New("column %q already has a descriptor", c.Name)
	}
	return storeerr.Wrap(err)
}

func (r *SQLRepository) GetAll(ctx context.Context, locationID uint64) ([]model.ColumnDescriptor, error) {
	var rows []columnRow
	query := r.DB.Rebind(`SELECT * FROM inventory_columns WHERE database_id = ? ORDER BY id`)
	if err := r.DB.SelectContext(ctx, &rows, query, locationID); err != nil {
		return nil, storeerr.Wrap(err)
	}

	columns := make([]model.ColumnDescriptor, 0, len(rows))
	for _, row := range rows {
		columns = append(columns, model.ColumnDescriptor{
			Name:        row.Name,
			DisplayName: row.DisplayName,
			Visible:     row.Visible,
			Attributes:  decodeAttributes(row.Attributes),
			LocationID:  row.LocationID,
		})
	}
	return columns, nil
}

func (r *SQLRepository) Update(ctx context.Context, c *model.ColumnDescriptor) error {
	attrs, err := encodeAttributes(c.Attributes)
	if err != nil {
		return err
	}

	query := r.DB.Rebind("UPDATE " + table + " SET display_name = ?, visible = ?, attributes = ? " +
		r.dialect.LimitOne(table, "name = ? AND database_id = ?"))
	res, err := r.DB.ExecContext(ctx, query, c.DisplayName, c.Visible, attrs, c.Name, c.LocationID)
	if err != nil {
		return storeerr.Wrap(err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return storeerr.Wrap(err)
	}
	if n == 0 {
		return storeerr.NotFound.New("column %q of location %d", c.Name, c.LocationID)
	}
	return nil
}

func (r *SQLRepository) Delete(ctx context.Context, locationID uint64, name string) error {
	query := r.DB.Rebind("DELETE FROM " + table + " " + r.dialect.LimitOne(table, "name = ? AND database_id = ?"))
	_, err := r.DB.ExecContext(ctx, query, name, locationID)
	return storeerr.Wrap(err)
}

// DeleteAll removes every descriptor of a location inside tx.
func DeleteAll(ctx context.Context, tx *sqlx.Tx, locationID uint64) error {
	_, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM inventory_columns WHERE database_id = ?`), locationID)
	return err
}

// encodeAttributes stores attributes as a JSON array so values may contain commas.
func encodeAttributes(attrs []string) (*string, error) {
	if len(attrs) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(attrs)
	if err != nil {
		return nil, storeerr.Validation.Wrap(err)
	}
	s := string(data)
	return &s, nil
}

// decodeAttributes also reads the legacy comma-joined format.
func decodeAttributes(raw *string) []string {
	if raw == nil || *raw == "" {
		return nil
	}
	if strings.HasPrefix(*raw, "[") {
		var attrs []string
		if err := json.Unmarshal([]byte(*raw), &attrs); err == nil {
			return attrs
		}
	}
	return strings.Split(*raw, ",")
}
