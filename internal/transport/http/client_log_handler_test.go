package http

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	apierrors "complaintreport/internal/errors"
	"complaintreport/internal/shared/testutil"
)

func TestClientLogHandler_Handle(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		expectedStatus int
		expectedLevel  slog.Level
		expectedMsg    string
	}{
		{
			name:           "error entry",
			body:           `{"level":"error","message":"export failed","source":"report_page","data":{"error":"boom"}}`,
			expectedStatus: http.StatusOK,
			expectedLevel:  slog.LevelError,
			expectedMsg:    "export failed",
		},
		{
			name:           "unknown level logs at info",
			body:           `{"level":"fatal","message":"odd level"}`,
			expectedStatus: http.StatusOK,
			expectedLevel:  slog.LevelInfo,
			expectedMsg:    "odd level",
		},
		{
			name:           "warn entry",
			body:           `{"level":"warn","message":"slow upload"}`,
			expectedStatus: http.StatusOK,
			expectedLevel:  slog.LevelWarn,
			expectedMsg:    "slow upload",
		},
		{
			name:           "invalid json",
			body:           `{"level":`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "empty message",
			body:           `{"level":"info"}`,
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, logs := testutil.NewTestLogger(t)
			handler := NewClientLogHandler(logger, apierrors.NewErrorHandler(logger, false))

			req := httptest.NewRequest(http.MethodPost, "/api/client-log", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			handler.Handle(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedStatus != http.StatusOK {
				return
			}

			var resp map[string]interface{}
			assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, true, resp["success"])
			testutil.AssertLogContains(t, logs, tt.expectedLevel, tt.expectedMsg)
		})
	}
}

func TestClientLogHandler_BodyLimit(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	handler := NewClientLogHandler(logger, apierrors.NewErrorHandler(logger, false))

	body := `{"level":"info","message":"` + string(bytes.Repeat([]byte("a"), maxClientLogBytes)) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/client-log", strings.NewReader(body))
	rec := httptest.NewRecorder()
	handler.Handle(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
