package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/fekuna/omnipos-pricing-service/internal/document"
	"github.com/fekuna/omnipos-pricing-service/internal/query"
	"github.com/fekuna/omnipos-pricing-service/internal/storeerr"
	"github.com/fekuna/omnipos-pricing-service/pkg/database/databasetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

const createTable = `CREATE TABLE "42" (
	id   INTEGER PRIMARY KEY AUTOINCREMENT,
	sku  TEXT,
	name TEXT,
	qty  INTEGER
)`

func newRepo(t *testing.T) *SQLRepository {
	t.Helper()
	db := databasetest.NewSQLite(t)
	databasetest.Exec(t, db, createTable)
	return NewSQLRepository(db)
}

func record(sku, name string, qty int64) *document.Document {
	doc := document.New()
	doc.Set("sku", document.String(sku))
	doc.Set("name", document.String(name))
	doc.Set("qty", document.Int(qty))
	return doc
}

func seed(t *testing.T, repo *SQLRepository, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		_, err := repo.Add(context.Background(), 42, record(fmt.Sprintf("S%02d", i), "item", int64(i)))
		require.NoError(t, err)
	}
}

func ids(t *testing.T, docs []*document.Document) []int64 {
	t.Helper()
	out := make([]int64, 0, len(docs))
	for _, doc := range docs {
		v, ok := doc.Get("id")
		require.True(t, ok)
		id, ok := v.Int()
		require.True(t, ok)
		out = append(out, id)
	}
	return out
}

func TestSQLRepository_ListPagination(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	seed(t, repo, 25)

	docs, total, err := repo.List(ctx, 42, query.Request{
		SortBy: ptr("id"),
		Limit:  ptr(uint64(10)),
		Offset: ptr(uint64(10)),
	})
	require.NoError(t, err)
	require.NotNil(t, total)
	assert.Equal(t, uint64(25), *total)
	assert.Equal(t, []int64{11, 12, 13, 14, 15, 16, 17, 18, 19, 20}, ids(t, docs))

	for _, doc := range docs {
		_, ok := doc.Get(query.TotalColumn)
		assert.False(t, ok)
	}
}

func TestSQLRepository_ListOffsetOnly(t *testing.T) {
	repo := newRepo(t)
	seed(t, repo, 5)

	docs, total, err := repo.List(context.Background(), 42, query.Request{
		SortBy:    ptr("id"),
		SortOrder: ptr("desc"),
		Offset:    ptr(uint64(3)),
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(5), *total)
	assert.Equal(t, []int64{2, 1}, ids(t, docs))
}

func TestSQLRepository_ListPastTheEnd(t *testing.T) {
	repo := newRepo(t)
	seed(t, repo, 3)

	docs, total, err := repo.List(context.Background(), 42, query.Request{Offset: ptr(uint64(100)), Limit: ptr(uint64(5))})
	require.NoError(t, err)
	assert.Empty(t, docs)
	assert.Nil(t, total)
}

func TestSQLRepository_ListSearch(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	for _, doc := range []*document.Document{
		record("A1", "bolt", 1),
		record("B2", "A1 washer", 2),
		record("C3", "nut", 3),
	} {
		_, err := repo.Add(ctx, 42, doc)
		require.NoError(t, err)
	}

	docs, total, err := repo.List(ctx, 42, query.Request{
		Query:        ptr("A1"),
		QueryColumns: ptr("sku,name"),
		SortBy:       ptr("id"),
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(2), *total)
	assert.Equal(t, []int64{1, 2}, ids(t, docs))

	docs, _, err = repo.List(ctx, 42, query.Request{Query: ptr("A1"), QueryColumns: ptr("sku")})
	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids(t, docs))
}

func TestSQLRepository_ListRejectsUnknownColumns(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	seed(t, repo, 2)

	tests := []struct {
		name string
		req  query.Request
	}{
		{"sort injection", query.Request{SortBy: ptr(`id; DROP TABLE "42"; --`)}},
		{"unknown sort column", query.Request{SortBy: ptr("price")}},
		{"unknown search column", query.Request{Query: ptr("x"), QueryColumns: ptr("sku,price")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := repo.List(ctx, 42, tt.req)
			require.Error(t, err)
			assert.True(t, storeerr.Validation.Has(err))
		})
	}

	count, err := repo.Count(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), count)
}

func TestSQLRepository_UnknownLocation(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	_, _, err := repo.List(ctx, 7, query.Request{})
	assert.True(t, storeerr.NotFound.Has(err))

	_, err = repo.Count(ctx, 7)
	assert.True(t, storeerr.NotFound.Has(err))

	_, err = repo.Add(ctx, 7, record("A1", "x", 1))
	assert.True(t, storeerr.NotFound.Has(err))

	_, err = repo.Get(ctx, 7, 1)
	assert.True(t, storeerr.NotFound.Has(err))

	_, err = repo.Delete(ctx, 7, 1)
	assert.True(t, storeerr.NotFound.Has(err))

	err = repo.Export(ctx, 7, &bytes.Buffer{})
	assert.True(t, storeerr.NotFound.Has(err))
}

func TestSQLRepository_RecordLifecycle(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	doc := document.New()
	doc.Set("sku", document.String("A1"))
	doc.Set("qty", document.Int(5))

	id, err := repo.Add(ctx, 42, doc)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), id)

	got, err := repo.Get(ctx, 42, id)
	require.NoError(t, err)
	require.NotNil(t, got)
	sku, _ := got.Get("sku")
	assert.Equal(t, "A1", sku.Text())
	qty, _ := got.Get("qty")
	n, ok := qty.Int()
	assert.True(t, ok)
	assert.Equal(t, int64(5), n)
	name, _ := got.Get("name")
	assert.True(t, name.IsNull())

	docs, total, err := repo.List(ctx, 42, query.Request{Limit: ptr(uint64(1))})
	require.NoError(t, err)
	assert.Len(t, docs, 1)
	assert.Equal(t, uint64(1), *total)

	// a client supplied id is ignored
	patch := document.New()
	patch.Set("id", document.Int(99))
	patch.Set("qty", document.Int(7))
	require.NoError(t, repo.Update(ctx, 42, id, patch))

	got, err = repo.Get(ctx, 42, id)
	require.NoError(t, err)
	qty, _ = got.Get("qty")
	n, _ = qty.Int()
	assert.Equal(t, int64(7), n)

	missing, err := repo.Get(ctx, 42, 99)
	require.NoError(t, err)
	assert.Nil(t, missing)

	err = repo.Update(ctx, 42, 99, patch)
	assert.True(t, storeerr.NotFound.Has(err))

	deleted, err := repo.Delete(ctx, 42, id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	deleted, err = repo.Delete(ctx, 42, id)
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted)
}

func TestSQLRepository_AddNullAndEmpty(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	doc := document.New()
	doc.Set("sku", document.Null())
	id, err := repo.Add(ctx, 42, doc)
	require.NoError(t, err)

	empty, err := repo.Add(ctx, 42, document.New())
	require.NoError(t, err)
	assert.Equal(t, id+1, empty)

	got, err := repo.Get(ctx, 42, id)
	require.NoError(t, err)
	sku, _ := got.Get("sku")
	assert.True(t, sku.IsNull())
}

func TestSQLRepository_AddRejectsUnknownColumn(t *testing.T) {
	repo := newRepo(t)

	doc := document.New()
	doc.Set(`sku" TEXT); DROP TABLE "42`, document.String("x"))
	_, err := repo.Add(context.Background(), 42, doc)
	require.Error(t, err)
	assert.True(t, storeerr.Validation.Has(err))
}

func TestSQLRepository_AddBatch(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	got, err := repo.AddBatch(ctx, 42, []*document.Document{record("A1", "a", 1), record("B2", "b", 2)})
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 2}, got)

	bad := document.New()
	bad.Set("price", document.Float(1.5))
	_, err = repo.AddBatch(ctx, 42, []*document.Document{record("C3", "c", 3), bad})
	require.Error(t, err)
	assert.True(t, storeerr.Validation.Has(err))

	count, err := repo.Count(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), count)
}

func TestSQLRepository_AddRejectsNullRecord(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	var docs []*document.Document
	require.NoError(t, json.Unmarshal([]byte(`[{"sku":"A1"}, null]`), &docs))
	require.Len(t, docs, 2)
	require.Nil(t, docs[1])

	_, err := repo.AddBatch(ctx, 42, docs)
	require.Error(t, err)
	assert.True(t, storeerr.Validation.Has(err))

	_, err = repo.Add(ctx, 42, nil)
	require.Error(t, err)
	assert.True(t, storeerr.Validation.Has(err))

	count, err := repo.Count(ctx, 42)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSQLRepository_Export(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)

	var empty bytes.Buffer
	require.NoError(t, repo.Export(ctx, 42, &empty))
	assert.Equal(t, "", empty.String())

	_, err := repo.Add(ctx, 42, record("A1", "bolt, hex", 5))
	require.NoError(t, err)
	doc := document.New()
	doc.Set("sku", document.String("B2"))
	_, err = repo.Add(ctx, 42, doc)
	require.NoError(t, err)

	var out bytes.Buffer
	require.NoError(t, repo.Export(ctx, 42, &out))
	assert.Equal(t, "id,sku,name,qty\n1,A1,\"bolt, hex\",5\n2,B2,,\n", out.String())
}
