// Package httpapi holds the pieces shared by the HTTP handlers: response
// writing, error to status mapping, path and query parsing and middleware.
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/fekuna/omnipos-pricing-service/internal/query"
	"github.com/fekuna/omnipos-pricing-service/internal/storeerr"
	"github.com/fekuna/omnipos-pricing-service/pkg/hashid"
	"github.com/fekuna/omnipos-pricing-service/pkg/logger"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const RequestIDHeader = "X-Request-ID"

type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusOf maps an error kind to its HTTP status.
func StatusOf(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case hashid.ErrDecode.Has(err), storeerr.Validation.Has(err):
		return http.StatusBadRequest
	case storeerr.NotFound.Has(err):
		return http.StatusNotFound
	case storeerr.IsCanceled(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

type Responder struct {
	logger logger.ZapLogger
}

func NewResponder(log logger.ZapLogger) *Responder {
	return &Responder{logger: log}
}

func (s *Responder) JSON(w http.ResponseWriter, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		s.logger.Error("failed to encode response", zap.Error(err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// Error writes err with the status of its kind. Storage faults are logged
// and reported without driver detail.
func (s *Responder) Error(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusOf(err)
	message := err.Error()

	fields := []zap.Field{
		zap.String("request_id", w.Header().Get(RequestIDHeader)),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", fields...)
		message = http.StatusText(status)
	} else {
		s.logger.Debug("request rejected", fields...)
	}

	s.JSON(w, status, ErrorResponse{Error: message})
}

// LocationID decodes the {location} path variable.
func LocationID(r *http.Request, codec *hashid.Codec) (uint64, error) {
	return codec.DecodeSingle(mux.Vars(r)["location"])
}

// RecordID parses the numeric {record} path variable.
func RecordID(r *http.Request) (uint64, error) {
	id, err := strconv.ParseUint(mux.Vars(r)["record"], 10, 64)
	if err != nil {
		return 0, storeerr.Validation.New("invalid record id %q", mux.Vars(r)["record"])
	}
	return id, nil
}

// DecodeBody reads a JSON body into v.
func DecodeBody(r *http.Request, v any) error {
	if r.Body == nil {
		return storeerr.Validation.New("request body is required")
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return storeerr.Validation.Wrap(err)
	}
	return nil
}

// ParseListQuery reads the listing parameters of a request's query string.
// Absent parameters stay nil.
func ParseListQuery(values url.Values) (query.Request, bool, error) {
	var req query.Request

	str := func(key string) *string {
		if !values.Has(key) {
			return nil
		}
		v := values.Get(key)
		return &v
	}
	num := func(key string) (*uint64, error) {
		if !values.Has(key) {
			return nil, nil
		}
		n, err := strconv.ParseUint(values.Get(key), 10, 64)
		if err != nil {
			return nil, storeerr.Validation.New("invalid %s %q", key, values.Get(key))
		}
		return &n, nil
	}

	req.Query = str("query")
	req.QueryColumns = str("query_columns")
	req.SortBy = str("sort_by")
	req.SortOrder = str("sort_order")

	var err error
	if req.Limit, err = num("limit"); err != nil {
		return req, false, err
	}
	if req.Offset, err = num("offset"); err != nil {
		return req, false, err
	}

	visibleOnly := false
	if values.Has("visible_only") {
		visibleOnly, err = strconv.ParseBool(values.Get("visible_only"))
		if err != nil {
			return req, false, storeerr.Validation.New("invalid visible_only %q", values.Get("visible_only"))
		}
	}
	return req, visibleOnly, nil
}

// RequestID tags each request with an id, reusing the caller's when given.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

// Timeout bounds the context of every request.
func Timeout(d time.Duration) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if d <= 0 {
				next.ServeHTTP(w, r)
				return
			}
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// NotFound answers unmatched routes with the JSON error shape.
func (s *Responder) NotFound() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.Error(w, r, storeerr.NotFound.New("no route for %s %s", r.Method, r.URL.Path))
	})
}
