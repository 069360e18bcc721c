package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fekuna/omnipos-pricing-service/internal/model"
	"github.com/fekuna/omnipos-pricing-service/internal/storeerr"
	"github.com/fekuna/omnipos-pricing-service/pkg/database"
	"github.com/jmoiron/sqlx"
)

type SQLRepository struct {
	DB      *sqlx.DB
	dialect database.Dialect
}

func NewSQLRepository(db *sqlx.DB) *SQLRepository {
	return &SQLRepository{DB: db, dialect: database.DialectOf(db)}
}

type optionsRow struct {
	InventoryingEnabled    bool `db:"inventorying_enabled"`
	AddIfMissing           bool `db:"inventorying_add_if_missing"`
	RemoveIfZero           bool `db:"inventorying_remove_if_zero"`
	AllowAdditions         bool `db:"inventorying_allow_additions"`
	ShowYearInput          bool `db:"show_year_input"`
	ShowColorDropdown      bool `db:"show_color_dropdown"`
	ShowDepartmentDropdown bool `db:"show_department_dropdown"`
}

func (r *SQLRepository) Initialize(ctx context.Context) error {
	queries := []string{`
        CREATE TABLE IF NOT EXISTS inventory_options (
            ` + r.dialect.AutoIncrementKey() + `,
            inventorying_enabled         BOOLEAN NOT NULL DEFAULT FALSE,
            inventorying_add_if_missing  BOOLEAN NOT NULL DEFAULT FALSE,
            inventorying_remove_if_zero  BOOLEAN NOT NULL DEFAULT FALSE,
            inventorying_allow_additions BOOLEAN NOT NULL DEFAULT FALSE,
            show_year_input              BOOLEAN NOT NULL DEFAULT FALSE,
            show_color_dropdown          BOOLEAN NOT NULL DEFAULT FALSE,
            show_department_dropdown     BOOLEAN NOT NULL DEFAULT FALSE,
            database_id                  BIGINT NOT NULL
        )`, `
        CREATE TABLE IF NOT EXISTS inventory_print_options (
            ` + r.dialect.AutoIncrementKey() + `,
            hint               VARCHAR(255) NULL DEFAULT NULL,
            label              VARCHAR(128) NULL DEFAULT NULL,
            year               INTEGER NULL DEFAULT NULL,
            department         VARCHAR(128) NULL DEFAULT NULL,
            color              VARCHAR(128) NULL DEFAULT NULL,
            size               VARCHAR(20) NULL DEFAULT '1x0.75',
            show_retail        BOOLEAN NOT NULL DEFAULT FALSE,
            show_price_label   BOOLEAN NOT NULL DEFAULT FALSE,
            percent_off_retail INTEGER NULL DEFAULT NULL,
            database_id        BIGINT NOT NULL
        )`,
	}

	for _, query := range queries {
		if _, err := r.DB.ExecContext(ctx, query); err != nil {
			return storeerr.Wrap(err)
		}
	}
	return nil
}

func (r *SQLRepository) Get(ctx context.Context, locationID uint64) (*model.InventoryOptions, error) {
	var row optionsRow
	query := r.DB.Rebind(`
        SELECT inventorying_enabled, inventorying_add_if_missing, inventorying_remove_if_zero,
               inventorying_allow_additions, show_year_input, show_color_dropdown, show_department_dropdown
        FROM inventory_options WHERE database_id = ?
    `)
	if err := r.DB.GetContext(ctx, &row, query, locationID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storeerr.NotFound.New("options of location %d", locationID)
		}
		return nil, storeerr.Wrap(err)
	}

	forms, err := r.printForms(ctx, r.DB, locationID)
	if err != nil {
		return nil, err
	}

	opts := &model.InventoryOptions{
		PrintForms:             forms,
		ShowYearInput:          row.ShowYearInput,
		ShowColorDropdown:      row.ShowColorDropdown,
		ShowDepartmentDropdown: row.ShowDepartmentDropdown,
	}
	if row.InventoryingEnabled {
		opts.Inventorying = &model.Inventorying{
			AddIfMissing:   row.AddIfMissing,
			RemoveIfZero:   row.RemoveIfZero,
			AllowAdditions: row.AllowAdditions,
		}
	}
	return opts, nil
}

func (r *SQLRepository) printForms(ctx context.Context, q sqlx.QueryerContext, locationID uint64) ([]model.PrintForm, error) {
	var forms []model.PrintForm
	query := sqlx.Rebind(sqlx.BindType(r.dialect.Name()), `
        SELECT id, hint, label, year, department, color, size, show_retail, show_price_label, percent_off_retail
        FROM inventory_print_options WHERE database_id = ? ORDER BY id
    `)
	if err := sqlx.SelectContext(ctx, q, &forms, query, locationID); err != nil {
		return nil, storeerr.Wrap(err)
	}
	return forms, nil
}

func (r *SQLRepository) Set(ctx context.Context, locationID uint64, opts *model.InventoryOptions) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return storeerr.Wrap(err)
	}
	defer tx.Rollback()

	if err := r.upsertOptions(ctx, tx, locationID, opts); err != nil {
		return err
	}
	if err := r.replacePrintForms(ctx, tx, locationID, opts.PrintForms); err != nil {
		return err
	}

	return storeerr.Wrap(tx.Commit())
}

func (r *SQLRepository) upsertOptions(ctx context.Context, tx *sqlx.Tx, locationID uint64, opts *model.InventoryOptions) error {
	inv := opts.Inventorying
	enabled := inv != nil
	if inv == nil {
		inv = &model.Inventorying{}
	}
	args := []any{
		enabled, inv.AddIfMissing, inv.RemoveIfZero, inv.AllowAdditions,
		opts.ShowYearInput, opts.ShowColorDropdown, opts.ShowDepartmentDropdown,
		locationID,
	}

	res, err := tx.ExecContext(ctx, tx.Rebind(`
        UPDATE inventory_options SET
            inventorying_enabled = ?, inventorying_add_if_missing = ?, inventorying_remove_if_zero = ?,
            inventorying_allow_additions = ?, show_year_input = ?, show_color_dropdown = ?,
            show_department_dropdown = ?
        WHERE database_id = ?
    `), args...)
	if err != nil {
		return storeerr.Wrap(fmt.Errorf("failed to update options: %w", err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storeerr.Wrap(err)
	}
	if n > 0 {
		return nil
	}

	_, err = tx.ExecContext(ctx, tx.Rebind(`
        INSERT INTO inventory_options (
            inventorying_enabled, inventorying_add_if_missing, inventorying_remove_if_zero,
            inventorying_allow_additions, show_year_input, show_color_dropdown,
            show_department_dropdown, database_id
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `), args...)
	if err != nil {
		return storeerr.Wrap(fmt.Errorf("failed to insert options: %w", err))
	}
	return nil
}

// replacePrintForms deletes forms that are no longer listed, updates the
// ones carrying an id and inserts the rest. An id that does not belong to
// the location is NotFound.
func (r *SQLRepository) replacePrintForms(ctx context.Context, tx *sqlx.Tx, locationID uint64, forms []model.PrintForm) error {
	var existing []uint64
	if err := tx.SelectContext(ctx, &existing,
		tx.Rebind(`SELECT id FROM inventory_print_options WHERE database_id = ?`), locationID); err != nil {
		return storeerr.Wrap(err)
	}

	used := make(map[uint64]bool, len(forms))
	for _, f := range forms {
		if f.ID != nil {
			used[*f.ID] = true
		}
	}

	known := make(map[uint64]bool, len(existing))
	for _, id := range existing {
		known[id] = true
		if used[id] {
			continue
		}
		if _, err := tx.ExecContext(ctx,
			tx.Rebind(`DELETE FROM inventory_print_options WHERE id = ? AND database_id = ?`), id, locationID); err != nil {
			return storeerr.Wrap(fmt.Errorf("failed to delete print form %d: %w", id, err))
		}
	}

	for _, f := range forms {
		if f.ID == nil {
			if err := insertPrintForm(ctx, tx, locationID, f); err != nil {
				return err
			}
			continue
		}
		if !known[*f.ID] {
			return storeerr.NotFound.New("print form %d of location %d", *f.ID, locationID)
		}
		if err := updatePrintForm(ctx, tx, locationID, f); err != nil {
			return err
		}
	}
	return nil
}

func insertPrintForm(ctx context.Context, tx *sqlx.Tx, locationID uint64, f model.PrintForm) error {
	query := tx.Rebind(`
        INSERT INTO inventory_print_options (
            hint, label, year, department, color, size, show_retail, show_price_label, percent_off_retail, database_id
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `)
	_, err := tx.ExecContext(ctx, query,
		f.Hint, f.Label, f.Year, f.Department, f.Color, f.Size, f.ShowRetail, f.ShowPriceLabel, f.PercentOffRetail, locationID)
	if err != nil {
		return storeerr.Wrap(fmt.Errorf("failed to insert print form: %w", err))
	}
	return nil
}

func updatePrintForm(ctx context.Context, tx *sqlx.Tx, locationID uint64, f model.PrintForm) error {
	query := tx.Rebind(`
        UPDATE inventory_print_options SET
            hint = ?, label = ?, year = ?, department = ?, color = ?, size = ?,
            show_retail = ?, show_price_label = ?, percent_off_retail = ?
        WHERE id = ? AND database_id = ?
    `)
	_, err := tx.ExecContext(ctx, query,
		f.Hint, f.Label, f.Year, f.Department, f.Color, f.Size, f.ShowRetail, f.ShowPriceLabel, f.PercentOffRetail,
		*f.ID, locationID)
	if err != nil {
		return storeerr.Wrap(fmt.Errorf("failed to update print form %d: %w", *f.ID, err))
	}
	return nil
}

func (r *SQLRepository) Delete(ctx context.Context, locationID uint64) error {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return storeerr.Wrap(err)
	}
	defer tx.Rollback()

	if err := DeleteAll(ctx, tx, locationID); err != nil {
		return storeerr.Wrap(err)
	}
	return storeerr.Wrap(tx.Commit())
}

// DeleteAll removes the options and print forms of a location inside tx.
func DeleteAll(ctx context.Context, tx *sqlx.Tx, locationID uint64) error {
	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM inventory_print_options WHERE database_id = ?`), locationID); err != nil {
		return fmt.Errorf("failed to delete print options: %w", err)
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM inventory_options WHERE database_id = ?`), locationID); err != nil {
		return fmt.Errorf("failed to delete options: %w", err)
	}
	return nil
}
