package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"complaintreport/internal/config"
	apierrors "complaintreport/internal/errors"
	"complaintreport/internal/services"
	"complaintreport/internal/shared/testutil"
)

func newHealthRouter(t *testing.T, reference services.ReferenceChecker) chi.Router {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	handler := NewHealthHandler(services.NewHealthService("1.0.0-test", reference, logger), logger)

	r := chi.NewRouter()
	r.Mount("/api/health", handler.Routes())
	r.Get("/api/version", handler.Version)
	return r
}

func TestHealthHandler(t *testing.T) {
	router := newHealthRouter(t, nil)

	tests := []struct {
		path           string
		expectedStatus string
	}{
		{path: "/api/health", expectedStatus: "ok"},
		{path: "/api/health/live", expectedStatus: "alive"},
		{path: "/api/health/ready", expectedStatus: "ready"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			require.Equal(t, http.StatusOK, rec.Code)
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.expectedStatus, body["status"])
			assert.Equal(t, "1.0.0-test", body["version"])
		})
	}
}

func TestHealthHandler_NotReady(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	svc := services.NewReportService(config.PathsConfig{
		ReferenceFile: filepath.Join(t.TempDir(), "MOP LIST.xlsx"),
	}, logger)
	router := newHealthRouter(t, svc)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health/ready", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"not_ready"`)
}

func TestHealthHandler_Version(t *testing.T) {
	router := newHealthRouter(t, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/version", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "1.0.0-test", body["version"])
	assert.Equal(t, "v1", body["api_version"])
}

func TestPageHandler_ServeIndex(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)

	t.Run("uploads required", func(t *testing.T) {
		rec := httptest.NewRecorder()
		NewPageHandler("1.0.0", false, logger).ServeIndex(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
		body := rec.Body.String()
		assert.Contains(t, body, "<title>Complaint Report by Branch</title>")
		assert.Contains(t, body, `name="complaints"`)
		assert.Contains(t, body, `name="mop"`)
		assert.Regexp(t, `var referenceConfigured =\s*false\s*;`, body)
		assert.NotContains(t, body, "stored MOP list")
		assert.Contains(t, body, "v1.0.0")
	})

	t.Run("reference configured", func(t *testing.T) {
		rec := httptest.NewRecorder()
		NewPageHandler("1.0.0", true, logger).ServeIndex(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		body := rec.Body.String()
		assert.Regexp(t, `var referenceConfigured =\s*true\s*;`, body)
		assert.Contains(t, body, "stored MOP list")
	})
}

func TestMetricsHandler(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	errorHandler := apierrors.NewErrorHandler(logger, false)

	t.Run("disabled", func(t *testing.T) {
		rec := httptest.NewRecorder()
		NewMetricsHandler(nil, errorHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("exposition", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "test_total", Help: "test counter"})
		reg.MustRegister(counter)
		counter.Inc()

		rec := httptest.NewRecorder()
		handler := NewMetricsHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{}), errorHandler)
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, strings.Contains(rec.Body.String(), "test_total 1"))
	})
}
