// Package databasetest provides throwaway databases for repository tests.
package databasetest

import (
	"testing"

	"github.com/fekuna/omnipos-pricing-service/pkg/database"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

// NewSQLite returns an empty in-memory database closed when the test ends.
func NewSQLite(t testing.TB) *sqlx.DB {
	t.Helper()

	db, err := database.NewDB(&database.Config{
		Driver:     database.DriverSQLite,
		SQLitePath: ":memory:",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return db
}

// Exec runs setup statements and fails the test on the first error.
func Exec(t testing.TB, db *sqlx.DB, statements ...string) {
	t.Helper()
	for _, stmt := range statements {
		_, err := db.Exec(stmt)
		require.NoError(t, err, stmt)
	}
}
