package database

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// Dialect hides the SQL differences between the supported servers. All
// methods that take identifiers expect them to be validated by the caller;
// quoting only protects the statement shape.
type Dialect interface {
	Name() string
	// Quote returns ident as a quoted identifier.
	Quote(ident string) string
	// Like returns a LIKE predicate for an already quoted column.
	Like(column string) string
	// AutoIncrementKey returns the DDL of the implicit id primary key.
	AutoIncrementKey() string
	// ColumnType maps a portable column kind to its DDL type.
	ColumnType(kind string) string
	// LimitOne restricts an UPDATE/DELETE on table with the given WHERE clause
	// to a single row and returns the statement suffix starting at WHERE.
	LimitOne(table, where string) string
	// NoLimit is the LIMIT clause used when only OFFSET was requested.
	NoLimit() string
	// Rename returns the statement that renames table from to to.
	Rename(from, to string) string
	// EmptyInsert returns an INSERT that stores a row of defaults.
	EmptyInsert(table string) string
	// Returning reports whether inserts fetch their id with RETURNING.
	Returning() bool
	// TransactionalDDL reports whether CREATE/DROP take part in a transaction.
	TransactionalDDL() bool
	// TableExists probes the catalog for table.
	TableExists(ctx context.Context, q sqlx.QueryerContext, table string) (bool, error)
}

// DialectOf returns the dialect for the pool's driver.
func DialectOf(db interface{ DriverName() string }) Dialect {
	return DialectFor(db.DriverName())
}

// DialectFor returns the dialect for a driver name. Unknown drivers get the
// MySQL dialect, which is what production runs.
func DialectFor(driver string) Dialect {
	switch driver {
	case DriverPostgres:
		return postgresDialect{}
	case DriverSQLite:
		return sqliteDialect{}
	default:
		return mysqlDialect{}
	}
}

func quoteWith(ident string, q string) string {
	return q + strings.ReplaceAll(ident, q, q+q) + q
}

func limitOneSubquery(table, where string) string {
	return "WHERE id IN (SELECT id FROM " + table + " WHERE " + where + " LIMIT 1)"
}

type mysqlDialect struct{}

func (mysqlDialect) Name() string              { return DriverMySQL }
func (mysqlDialect) Quote(ident string) string { return quoteWith(ident, "`") }
func (mysqlDialect) Like(column string) string { return column + " LIKE ?" }
func (mysqlDialect) AutoIncrementKey() string {
	return "id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY"
}

// ColumnType stores booleans as text: BOOLEAN is TINYINT on MySQL and strict
// mode rejects the "true"/"false" values documents bind.
func (mysqlDialect) ColumnType(kind string) string {
	switch kind {
	case "integer":
		return "BIGINT"
	case "float":
		return "DOUBLE"
	case "datetime":
		return "DATETIME"
	default:
		return "TEXT"
	}
}
func (mysqlDialect) LimitOne(_, where string) string { return "WHERE " + where + " LIMIT 1" }
func (mysqlDialect) NoLimit() string                 { return "LIMIT 18446744073709551615" }
func (d mysqlDialect) Rename(from, to string) string {
	return "RENAME TABLE " + d.Quote(from) + " TO " + d.Quote(to)
}
func (mysqlDialect) EmptyInsert(table string) string { return "INSERT INTO " + table + " () VALUES ()" }
func (mysqlDialect) Returning() bool                 { return false }
func (mysqlDialect) TransactionalDDL() bool          { return false }
func (mysqlDialect) TableExists(ctx context.Context, q sqlx.QueryerContext, table string) (bool, error) {
	var n int
	err := sqlx.GetContext(ctx, q, &n,
		`SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = DATABASE() AND table_name = ?`, table)
	return n > 0, err
}

type postgresDialect struct{}

func (postgresDialect) Name() string              { return DriverPostgres }
func (postgresDialect) Quote(ident string) string { return quoteWith(ident, `"`) }
func (postgresDialect) Like(column string) string { return "CAST(" + column + " AS TEXT) LIKE ?" }
func (postgresDialect) AutoIncrementKey() string  { return "id BIGSERIAL PRIMARY KEY" }
func (postgresDialect) ColumnType(kind string) string {
	switch kind {
	case "integer":
		return "BIGINT"
	case "float":
		return "DOUBLE PRECISION"
	case "boolean":
		return "BOOLEAN"
	case "datetime":
		return "TIMESTAMP"
	default:
		return "TEXT"
	}
}
func (postgresDialect) LimitOne(table, where string) string { return limitOneSubquery(table, where) }
func (postgresDialect) NoLimit() string                     { return "" }
func (d postgresDialect) Rename(from, to string) string {
	return "ALTER TABLE " + d.Quote(from) + " RENAME TO " + d.Quote(to)
}
func (postgresDialect) EmptyInsert(table string) string {
	return "INSERT INTO " + table + " DEFAULT VALUES"
}
func (postgresDialect) Returning() bool        { return true }
func (postgresDialect) TransactionalDDL() bool { return true }
func (postgresDialect) TableExists(ctx context.Context, q sqlx.QueryerContext, table string) (bool, error) {
	var n int
	err := sqlx.GetContext(ctx, q, &n,
		`SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = current_schema() AND table_name = $1`, table)
	return n > 0, err
}

type sqliteDialect struct{}

func (sqliteDialect) Name() string              { return DriverSQLite }
func (sqliteDialect) Quote(ident string) string { return quoteWith(ident, `"`) }
func (sqliteDialect) Like(column string) string { return column + " LIKE ?" }
func (sqliteDialect) AutoIncrementKey() string  { return "id INTEGER PRIMARY KEY AUTOINCREMENT" }
func (sqliteDialect) ColumnType(kind string) string {
	switch kind {
	case "integer":
		return "INTEGER"
	case "float":
		return "REAL"
	case "boolean":
		return "BOOLEAN"
	case "datetime":
		return "DATETIME"
	default:
		return "TEXT"
	}
}
func (sqliteDialect) LimitOne(table, where string) string { return limitOneSubquery(table, where) }
func (sqliteDialect) NoLimit() string                     { return "LIMIT -1" }
func (d sqliteDialect) Rename(from, to string) string {
	return "ALTER TABLE " + d.Quote(from) + " RENAME TO " + d.Quote(to)
}
func (sqliteDialect) EmptyInsert(table string) string {
	return "INSERT INTO " + table + " DEFAULT VALUES"
}
func (sqliteDialect) Returning() bool        { return false }
func (sqliteDialect) TransactionalDDL() bool { return true }
func (sqliteDialect) TableExists(ctx context.Context, q sqlx.QueryerContext, table string) (bool, error) {
	var n int
	err := sqlx.GetContext(ctx, q, &n,
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table)
	return n > 0, err
}
