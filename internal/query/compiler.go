// Package query compiles listing requests and single-row operations against
// a tenant table into parameterized statements.
//
// Values are always bound. Identifiers cannot be bound, so the table name is
// formatted from the numeric location id and every column name must be in
// the table's known column set before it is quoted into the statement.
package query

import (
	"math"
	"strconv"
	"strings"

	"github.com/fekuna/omnipos-pricing-service/internal/storeerr"
	"github.com/fekuna/omnipos-pricing-service/pkg/database"
	"github.com/jmoiron/sqlx"
)

// TotalColumn is the synthetic window count added to every listing row.
const TotalColumn = "total_records"

// Statement is compiled SQL with its bind arguments, already rebound to the
// dialect's placeholder style.
type Statement struct {
	SQL  string
	Args []any
}

// Compiler builds statements for one dialect.
type Compiler struct {
	dialect database.Dialect
	bind    int
}

// NewCompiler returns a compiler emitting the placeholder style of dialect.
func NewCompiler(dialect database.Dialect) *Compiler {
	return &Compiler{
		dialect: dialect,
		bind:    sqlx.BindType(dialect.Name()),
	}
}

// TableName is the physical table name of a location.
func TableName(locationID uint64) string {
	return strconv.FormatUint(locationID, 10)
}

func (c *Compiler) table(locationID uint64) string {
	return c.dialect.Quote(TableName(locationID))
}

func (c *Compiler) stmt(sql string, args ...any) Statement {
	return Statement{SQL: sqlx.Rebind(c.bind, sql), Args: args}
}

// Select builds the page query. A match on any listed search column
// qualifies a row.
func (c *Compiler) Select(locationID uint64, req Request, known Columns) (Statement, error) {
	var sb strings.Builder
	args := []any{}

	sb.WriteString("SELECT *, COUNT(*) OVER () AS " + TotalColumn + " FROM " + c.table(locationID))

	if req.Query != nil && req.QueryColumns != nil {
		columns, err := splitColumns(*req.QueryColumns)
		if err != nil {
			return Statement{}, err
		}

		conditions := []string{}
		for _, col := range columns {
			if !known.Has(col) {
				return Statement{}, storeerr.Validation.New("unknown search column %q", col)
			}
			conditions = append(conditions, c.dialect.Like(c.dialect.Quote(col)))
			args = append(args, "%"+*req.Query+"%")
		}

		if len(conditions) > 0 {
			sb.WriteString(" WHERE ")
			sb.WriteString(strings.Join(conditions, " OR "))
		}
	}

	paged := req.Limit != nil || req.Offset != nil
	if req.SortBy != nil && strings.TrimSpace(*req.SortBy) != "" {
		col := strings.TrimSpace(*req.SortBy)
		if !known.Has(col) {
			return Statement{}, storeerr.Validation.New("unknown sort column %q", col)
		}
		order, err := sortOrder(req.SortOrder)
		if err != nil {
			return Statement{}, err
		}
		sb.WriteString(" ORDER BY " + c.dialect.Quote(col) + " " + order)
		if paged && col != "id" {
			sb.WriteString(", " + c.dialect.Quote("id") + " ASC")
		}
	} else if paged {
		// pages must not overlap between requests
		sb.WriteString(" ORDER BY " + c.dialect.Quote("id") + " ASC")
	}

	if req.Limit != nil {
		limit, err := bound("limit", *req.Limit)
		if err != nil {
			return Statement{}, err
		}
		sb.WriteString(" LIMIT ?")
		args = append(args, limit)
	}

	if req.Offset != nil {
		offset, err := bound("offset", *req.Offset)
		if err != nil {
			return Statement{}, err
		}
		if req.Limit == nil && c.dialect.NoLimit() != "" {
			sb.WriteString(" " + c.dialect.NoLimit())
		}
		sb.WriteString(" OFFSET ?")
		args = append(args, offset)
	}

	return c.stmt(sb.String(), args...), nil
}

// Count counts every row of the tenant table.
func (c *Compiler) Count(locationID uint64) Statement {
	return c.stmt("SELECT COUNT(*) FROM " + c.table(locationID))
}

// Probe selects no rows; its result columns are the table's column set.
func (c *Compiler) Probe(locationID uint64) Statement {
	return c.stmt("SELECT * FROM " + c.table(locationID) + " WHERE 1 = 0")
}

// All selects every row in primary key order, for exports.
func (c *Compiler) All(locationID uint64) Statement {
	return c.stmt("SELECT * FROM " + c.table(locationID) + " ORDER BY id")
}

// Get selects one record by id.
func (c *Compiler) Get(locationID, recordID uint64) Statement {
	return c.stmt("SELECT * FROM "+c.table(locationID)+" WHERE id = ?", recordID)
}

// Delete removes one record by id.
func (c *Compiler) Delete(locationID, recordID uint64) Statement {
	return c.stmt("DELETE FROM "+c.table(locationID)+" WHERE id = ?", recordID)
}

// Insert builds a single-row insert. With no columns the row takes its
// defaults. On dialects with RETURNING the statement yields the new id.
func (c *Compiler) Insert(locationID uint64, columns []string, values []any, known Columns) (Statement, error) {
	if err := checkColumns(columns, values, known); err != nil {
		return Statement{}, err
	}

	var sql string
	if len(columns) == 0 {
		sql = c.dialect.EmptyInsert(c.table(locationID))
	} else {
		quoted := make([]string, len(columns))
		for i, col := range columns {
			quoted[i] = c.dialect.Quote(col)
		}
		sql = "INSERT INTO " + c.table(locationID) +
			" (" + strings.Join(quoted, ", ") + ")" +
			" VALUES (" + placeholders(len(columns)) + ")"
	}
	if c.dialect.Returning() {
		sql += " RETURNING id"
	}

	return c.stmt(sql, values...), nil
}

// Update sets the given columns on one record.
func (c *Compiler) Update(locationID, recordID uint64, columns []string, values []any, known Columns) (Statement, error) {
	if len(columns) == 0 {
		return Statement{}, storeerr.Validation.New("no fields to update")
	}
	if err := checkColumns(columns, values, known); err != nil {
		return Statement{}, err
	}

	assignments := make([]string, len(columns))
	for i, col := range columns {
		assignments[i] = c.dialect.Quote(col) + " = ?"
	}

	args := append(append([]any{}, values...), recordID)
	return c.stmt("UPDATE "+c.table(locationID)+" SET "+strings.Join(assignments, ", ")+" WHERE id = ?", args...), nil
}

func checkColumns(columns []string, values []any, known Columns) error {
	if len(columns) != len(values) {
		return storeerr.Validation.New("%d columns but %d values", len(columns), len(values))
	}
	for _, col := range columns {
		if !known.Has(col) {
			return storeerr.Validation.New("unknown column %q", col)
		}
	}
	return nil
}

func splitColumns(csv string) ([]string, error) {
	parts := strings.Split(csv, ",")
	columns := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			return nil, storeerr.Validation.New("empty column name in query_columns %q", csv)
		}
		columns = append(columns, p)
	}
	return columns, nil
}

func sortOrder(order *string) (string, error) {
	if order == nil || strings.TrimSpace(*order) == "" {
		return "ASC", nil
	}
	switch strings.ToUpper(strings.TrimSpace(*order)) {
	case "ASC":
		return "ASC", nil
	case "DESC":
		return "DESC", nil
	default:
		return "", storeerr.Validation.New("sort_order must be ASC or DESC, got %q", *order)
	}
}

func bound(name string, v uint64) (int64, error) {
	if v > math.MaxInt64 {
		return 0, storeerr.Validation.New("%s %d is out of range", name, v)
	}
	return int64(v), nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
