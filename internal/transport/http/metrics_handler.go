package http

import (
	"net/http"

	apierrors "complaintreport/internal/errors"
)

// MetricsHandler serves the Prometheus exposition when a metric exporter
// is configured.
type MetricsHandler struct {
	exposition   http.Handler
	errorHandler *apierrors.ErrorHandler
}

// NewMetricsHandler creates a new metrics handler. exposition may be nil
// when metrics are disabled.
func NewMetricsHandler(exposition http.Handler, errorHandler *apierrors.ErrorHandler) *MetricsHandler {
	return &MetricsHandler{exposition: exposition, errorHandler: errorHandler}
}

// ServeHTTP handles GET /metrics
func (h *MetricsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.exposition == nil {
		h.errorHandler.NotFound(w, r)
		return
	}
	h.exposition.ServeHTTP(w, r)
}
