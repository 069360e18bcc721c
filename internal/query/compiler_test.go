package query_test

import (
	"testing"

	"github.com/fekuna/omnipos-pricing-service/internal/query"
	"github.com/fekuna/omnipos-pricing-service/internal/storeerr"
	"github.com/fekuna/omnipos-pricing-service/pkg/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

var known = query.NewColumns([]string{"id", "name", "sku", "qty"})

func TestCompiler_Select(t *testing.T) {
	tests := []struct {
		name     string
		driver   string
		req      query.Request
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "unfiltered",
			driver:   database.DriverMySQL,
			req:      query.Request{},
			wantSQL:  "SELECT *, COUNT(*) OVER () AS total_records FROM `42`",
			wantArgs: []any{},
		},
		{
			name:   "search is a disjunction",
			driver: database.DriverMySQL,
			req: query.Request{
				Query:        ptr("abc"),
				QueryColumns: ptr("name, sku"),
			},
			wantSQL:  "SELECT *, COUNT(*) OVER () AS total_records FROM `42` WHERE `name` LIKE ? OR `sku` LIKE ?",
			wantArgs: []any{"%abc%", "%abc%"},
		},
		{
			name:     "query without columns is ignored",
			driver:   database.DriverMySQL,
			req:      query.Request{Query: ptr("abc")},
			wantSQL:  "SELECT *, COUNT(*) OVER () AS total_records FROM `42`",
			wantArgs: []any{},
		},
		{
			name:   "sort and page",
			driver: database.DriverMySQL,
			req: query.Request{
				SortBy:    ptr("qty"),
				SortOrder: ptr("desc"),
				Limit:     ptr(uint64(10)),
				Offset:    ptr(uint64(20)),
			},
			wantSQL:  "SELECT *, COUNT(*) OVER () AS total_records FROM `42` ORDER BY `qty` DESC, `id` ASC LIMIT ? OFFSET ?",
			wantArgs: []any{int64(10), int64(20)},
		},
		{
			name:     "paging without sort orders by id",
			driver:   database.DriverMySQL,
			req:      query.Request{Limit: ptr(uint64(10))},
			wantSQL:  "SELECT *, COUNT(*) OVER () AS total_records FROM `42` ORDER BY `id` ASC LIMIT ?",
			wantArgs: []any{int64(10)},
		},
		{
			name:     "paging by id needs no tiebreaker",
			driver:   database.DriverSQLite,
			req:      query.Request{SortBy: ptr("id"), SortOrder: ptr("DESC"), Limit: ptr(uint64(3))},
			wantSQL:  `SELECT *, COUNT(*) OVER () AS total_records FROM "42" ORDER BY "id" DESC LIMIT ?`,
			wantArgs: []any{int64(3)},
		},
		{
			name:     "sort defaults to ascending",
			driver:   database.DriverSQLite,
			req:      query.Request{SortBy: ptr("name")},
			wantSQL:  `SELECT *, COUNT(*) OVER () AS total_records FROM "42" ORDER BY "name" ASC`,
			wantArgs: []any{},
		},
		{
			name:     "offset without limit on sqlite",
			driver:   database.DriverSQLite,
			req:      query.Request{Offset: ptr(uint64(5))},
			wantSQL:  `SELECT *, COUNT(*) OVER () AS total_records FROM "42" ORDER BY "id" ASC LIMIT -1 OFFSET ?`,
			wantArgs: []any{int64(5)},
		},
		{
			name:   "postgres placeholders and casts",
			driver: database.DriverPostgres,
			req: query.Request{
				Query:        ptr("abc"),
				QueryColumns: ptr("qty"),
				Limit:        ptr(uint64(1)),
				Offset:       ptr(uint64(2)),
			},
			wantSQL:  `SELECT *, COUNT(*) OVER () AS total_records FROM "42" WHERE CAST("qty" AS TEXT) LIKE $1 ORDER BY "id" ASC LIMIT $2 OFFSET $3`,
			wantArgs: []any{"%abc%", int64(1), int64(2)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := query.NewCompiler(database.DialectFor(tt.driver))
			stmt, err := c.Select(42, tt.req, known)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, stmt.SQL)
			assert.Equal(t, tt.wantArgs, stmt.Args)
		})
	}
}

func TestCompiler_SelectRejects(t *testing.T) {
	tests := []struct {
		name string
		req  query.Request
	}{
		{name: "sort injection", req: query.Request{SortBy: ptr("qty; DROP TABLE locations")}},
		{name: "unknown sort column", req: query.Request{SortBy: ptr("price")}},
		{name: "bad sort order", req: query.Request{SortBy: ptr("qty"), SortOrder: ptr("sideways")}},
		{name: "unknown search column", req: query.Request{Query: ptr("x"), QueryColumns: ptr("name,`1`=`1")}},
		{name: "empty search column", req: query.Request{Query: ptr("x"), QueryColumns: ptr("name,,sku")}},
		{name: "limit out of range", req: query.Request{Limit: ptr(uint64(1 << 63))}},
	}

	c := query.NewCompiler(database.DialectFor(database.DriverMySQL))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Select(42, tt.req, known)
			require.Error(t, err)
			assert.True(t, storeerr.Validation.Has(err), err)
		})
	}
}

func TestCompiler_Insert(t *testing.T) {
	mysql := query.NewCompiler(database.DialectFor(database.DriverMySQL))
	stmt, err := mysql.Insert(42, []string{"sku", "qty"}, []any{"A1", "5"}, known)
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO `42` (`sku`, `qty`) VALUES (?, ?)", stmt.SQL)
	assert.Equal(t, []any{"A1", "5"}, stmt.Args)

	stmt, err = mysql.Insert(42, nil, nil, known)
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO `42` () VALUES ()", stmt.SQL)

	pg := query.NewCompiler(database.DialectFor(database.DriverPostgres))
	stmt, err = pg.Insert(42, []string{"sku"}, []any{"A1"}, known)
	require.NoError(t, err)
	assert.Equal(t, `INSERT INTO "42" ("sku") VALUES ($1) RETURNING id`, stmt.SQL)

	_, err = mysql.Insert(42, []string{"price"}, []any{"1"}, known)
	assert.True(t, storeerr.Validation.Has(err))
}

func TestCompiler_Update(t *testing.T) {
	c := query.NewCompiler(database.DialectFor(database.DriverSQLite))

	stmt, err := c.Update(42, 7, []string{"qty", "name"}, []any{"3", "bolt"}, known)
	require.NoError(t, err)
	assert.Equal(t, `UPDATE "42" SET "qty" = ?, "name" = ? WHERE id = ?`, stmt.SQL)
	assert.Equal(t, []any{"3", "bolt", uint64(7)}, stmt.Args)

	_, err = c.Update(42, 7, nil, nil, known)
	assert.True(t, storeerr.Validation.Has(err))

	_, err = c.Update(42, 7, []string{"qty"}, []any{"1", "2"}, known)
	assert.True(t, storeerr.Validation.Has(err))
}

func TestCompiler_SingleRow(t *testing.T) {
	c := query.NewCompiler(database.DialectFor(database.DriverMySQL))

	assert.Equal(t, "SELECT COUNT(*) FROM `42`", c.Count(42).SQL)
	assert.Equal(t, "SELECT * FROM `42` WHERE 1 = 0", c.Probe(42).SQL)
	assert.Equal(t, "SELECT * FROM `42` ORDER BY id", c.All(42).SQL)

	get := c.Get(42, 1)
	assert.Equal(t, "SELECT * FROM `42` WHERE id = ?", get.SQL)
	assert.Equal(t, []any{uint64(1)}, get.Args)

	del := c.Delete(42, 1)
	assert.Equal(t, "DELETE FROM `42` WHERE id = ?", del.SQL)
}
