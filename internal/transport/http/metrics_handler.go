package http

import (
	"net/http"

	apierrors "github.com/andrejarenkow/contagem-lote-foco/internal/errors"
)

// MetricsHandler serves the Prometheus exposition
type MetricsHandler struct {
	exposition   http.Handler
	errorHandler *apierrors.ErrorHandler
}

// NewMetricsHandler wraps the registry handler. A nil handler means metrics
// are disabled and the endpoint answers 503.
func NewMetricsHandler(exposition http.Handler, errorHandler *apierrors.ErrorHandler) *MetricsHandler {
	return &MetricsHandler{exposition: exposition, errorHandler: errorHandler}
}

// ServeHTTP handles GET /metrics
func (h *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.exposition == nil {
		h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
			http.StatusServiceUnavailable,
			"SERVICE_UNAVAILABLE",
			"Metrics are disabled",
			"set LOTE_TELEMETRY_METRICS_ENABLED=true to expose them",
		))
		return
	}
	h.exposition.ServeHTTP(w, r)
}
