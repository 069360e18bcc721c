package httpapi_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	columnhandler "github.com/fekuna/omnipos-pricing-service/internal/column/handler"
	columnrepo "github.com/fekuna/omnipos-pricing-service/internal/column/repository"
	columnuc "github.com/fekuna/omnipos-pricing-service/internal/column/usecase"
	"github.com/fekuna/omnipos-pricing-service/internal/httpapi"
	invhandler "github.com/fekuna/omnipos-pricing-service/internal/inventory/handler"
	invrepo "github.com/fekuna/omnipos-pricing-service/internal/inventory/repository"
	invuc "github.com/fekuna/omnipos-pricing-service/internal/inventory/usecase"
	lochandler "github.com/fekuna/omnipos-pricing-service/internal/location/handler"
	locrepo "github.com/fekuna/omnipos-pricing-service/internal/location/repository"
	locuc "github.com/fekuna/omnipos-pricing-service/internal/location/usecase"
	"github.com/fekuna/omnipos-pricing-service/internal/metrics"
	opthandler "github.com/fekuna/omnipos-pricing-service/internal/options/handler"
	optrepo "github.com/fekuna/omnipos-pricing-service/internal/options/repository"
	optuc "github.com/fekuna/omnipos-pricing-service/internal/options/usecase"
	"github.com/fekuna/omnipos-pricing-service/pkg/database/databasetest"
	"github.com/fekuna/omnipos-pricing-service/pkg/hashid"
	"github.com/fekuna/omnipos-pricing-service/pkg/logger"
	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type server struct {
	router *mux.Router
	db     *sqlx.DB
	codec  *hashid.Codec
}

func newServer(t *testing.T) server {
	t.Helper()
	ctx := context.Background()
	log := logger.FromZap(zaptest.NewLogger(t))

	db := databasetest.NewSQLite(t)
	codec, err := hashid.New(hashid.Config{Salt: "router-test"})
	require.NoError(t, err)

	locations := locrepo.NewSQLRepository(db)
	columns := columnrepo.NewSQLRepository(db)
	opts := optrepo.NewSQLRepository(db)
	records := invrepo.NewSQLRepository(db)
	require.NoError(t, locations.Initialize(ctx))
	require.NoError(t, columns.Initialize(ctx))
	require.NoError(t, opts.Initialize(ctx))

	columnUC := columnuc.NewColumnUseCase(columns, records, nil, 0, log)
	inventoryUC := invuc.NewInventoryUseCase(records, columnUC, log)
	optionsUC := optuc.NewOptionsUseCase(opts, log)
	locationUC := locuc.NewLocationUseCase(locations, columnUC, optionsUC, inventoryUC, codec, log)

	router := httpapi.NewRouter(log, metrics.New(), 0,
		lochandler.NewLocationHandler(locationUC, codec, log),
		invhandler.NewInventoryHandler(inventoryUC, codec, log),
		columnhandler.NewColumnHandler(columnUC, codec, log),
		opthandler.NewOptionsHandler(optionsUC, codec, log),
	)
	return server{router: router, db: db, codec: codec}
}

func (s server) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rr := httptest.NewRecorder()
	s.router.ServeHTTP(rr, req)
	return rr
}

func TestRouter_RecordScenario(t *testing.T) {
	s := newServer(t)
	databasetest.Exec(t, s.db, `CREATE TABLE "42" (id INTEGER PRIMARY KEY AUTOINCREMENT, sku TEXT, qty INTEGER)`)

	token, err := s.codec.EncodeSingle(42)
	require.NoError(t, err)
	base := "/api/inventory/" + token

	rr := s.do(t, http.MethodPost, base, `{"sku":"A1","qty":5}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.JSONEq(t, `{"id":1}`, rr.Body.String())

	rr = s.do(t, http.MethodGet, base+"/1", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"id":1,"sku":"A1","qty":5}`, rr.Body.String())

	rr = s.do(t, http.MethodGet, base+"?limit=1", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"data":[{"id":1,"sku":"A1","qty":5}],"total":1}`, rr.Body.String())

	rr = s.do(t, http.MethodGet, base+"/count", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"count":1}`, rr.Body.String())

	rr = s.do(t, http.MethodPatch, base+"/1", `{"qty":6}`)
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = s.do(t, http.MethodGet, base+"/export", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "id,sku,qty\n1,A1,6\n", rr.Body.String())
	assert.Contains(t, rr.Header().Get("Content-Type"), "text/csv")

	rr = s.do(t, http.MethodDelete, base+"/1", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"deleted":1}`, rr.Body.String())

	rr = s.do(t, http.MethodDelete, base+"/1", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"deleted":0}`, rr.Body.String())

	rr = s.do(t, http.MethodGet, base+"/1", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRouter_ErrorMapping(t *testing.T) {
	s := newServer(t)
	databasetest.Exec(t, s.db, `CREATE TABLE "42" (id INTEGER PRIMARY KEY AUTOINCREMENT, sku TEXT)`)

	token, err := s.codec.EncodeSingle(42)
	require.NoError(t, err)
	unknown, err := s.codec.EncodeSingle(7)
	require.NoError(t, err)
	pair, err := s.codec.Encode(1, 2)
	require.NoError(t, err)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"malformed token", http.MethodGet, "/api/inventory/not-a-real-token", "", http.StatusBadRequest},
		{"wrong arity", http.MethodGet, "/api/inventory/" + pair, "", http.StatusBadRequest},
		{"unknown location", http.MethodGet, "/api/inventory/" + unknown, "", http.StatusNotFound},
		{"sort injection", http.MethodGet, "/api/inventory/" + token + "?sort_by=id%3BDROP", "", http.StatusBadRequest},
		{"bad limit", http.MethodGet, "/api/inventory/" + token + "?limit=-1", "", http.StatusBadRequest},
		{"unknown column", http.MethodPost, "/api/inventory/" + token, `{"price":1}`, http.StatusBadRequest},
		{"null batch record", http.MethodPost, "/api/inventory/" + token + "/batch", `[{"sku":"A1"},null]`, http.StatusBadRequest},
		{"nested value", http.MethodPost, "/api/inventory/" + token, `{"sku":{"a":1}}`, http.StatusBadRequest},
		{"update missing record", http.MethodPatch, "/api/inventory/" + token + "/9", `{"sku":"x"}`, http.StatusNotFound},
		{"no options yet", http.MethodGet, "/api/inventory/" + token + "/options", "", http.StatusNotFound},
		{"no route", http.MethodGet, "/nowhere", "", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := s.do(t, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.want, rr.Code, rr.Body.String())

			var body httpapi.ErrorResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestRouter_LocationLifecycle(t *testing.T) {
	s := newServer(t)

	rr := s.do(t, http.MethodPost, "/api/locations",
		`{"name":"Warehouse","location":"Main St","po":"PO-1","image":"a.png","columns":[{"name":"SKU Code"},{"name":"qty","kind":"integer"}]}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var created struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, "Warehouse", created.Name)

	id, err := s.codec.DecodeSingle(created.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), id)

	base := "/api/inventory/" + created.ID
	rr = s.do(t, http.MethodPost, base+"/batch", `[{"SKU_Code":"A1","qty":1},{"SKU_Code":"B2","qty":2}]`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.JSONEq(t, `{"ids":[1,2]}`, rr.Body.String())

	rr = s.do(t, http.MethodPost, base+"/columns", `{"name":"qty","display_name":"Quantity","visible":false}`)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = s.do(t, http.MethodGet, base+"?visible_only=true&sort_by=id&sort_order=desc", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"data":[{"id":2,"SKU_Code":"B2"},{"id":1,"SKU_Code":"A1"}],"total":2}`, rr.Body.String())

	rr = s.do(t, http.MethodPut, base+"/options", `{"show_year_input":true,"print_form":[{"label":"Sale","show-retail":true}]}`)
	require.Equal(t, http.StatusNoContent, rr.Code, rr.Body.String())

	rr = s.do(t, http.MethodGet, "/api/locations/"+created.ID, "")
	require.Equal(t, http.StatusOK, rr.Code)
	var detail struct {
		ID      string `json:"id"`
		Records uint64 `json:"records"`
		Columns []struct {
			Name string `json:"name"`
		} `json:"columns"`
		Options struct {
			ShowYearInput bool `json:"show_year_input"`
			PrintForm     []struct {
				Label      string `json:"label"`
				ShowRetail bool   `json:"show-retail"`
			} `json:"print_form"`
		} `json:"options"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &detail))
	assert.Equal(t, created.ID, detail.ID)
	assert.Equal(t, uint64(2), detail.Records)
	require.Len(t, detail.Columns, 1)
	assert.True(t, detail.Options.ShowYearInput)
	require.Len(t, detail.Options.PrintForm, 1)
	assert.True(t, detail.Options.PrintForm[0].ShowRetail)

	rr = s.do(t, http.MethodPut, "/api/locations/"+created.ID, `{"name":"Depot"}`)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = s.do(t, http.MethodGet, "/api/locations", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"name":"Depot"`)
	assert.Contains(t, rr.Body.String(), `"id":"`+created.ID+`"`)

	rr = s.do(t, http.MethodDelete, "/api/locations/"+created.ID, "")
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = s.do(t, http.MethodGet, base+"/count", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = s.do(t, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `route="/api/locations/{location}"`)
}
