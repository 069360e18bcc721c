package httpapi

import (
	"net/http"
	"time"

	"github.com/fekuna/omnipos-pricing-service/internal/metrics"
	"github.com/fekuna/omnipos-pricing-service/pkg/logger"
	"github.com/gorilla/mux"
)

// Registrar mounts a handler's routes.
type Registrar interface {
	Register(r *mux.Router)
}

// NewRouter mounts every registrar under /api next to the health and
// metrics endpoints.
func NewRouter(log logger.ZapLogger, m *metrics.Metrics, timeout time.Duration, registrars ...Registrar) *mux.Router {
	router := mux.NewRouter()
	router.Use(RequestID, m.Middleware, Timeout(timeout))

	router.Handle("/metrics", m.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	for _, reg := range registrars {
		reg.Register(api)
	}

	router.NotFoundHandler = NewResponder(log).NotFound()
	return router
}
