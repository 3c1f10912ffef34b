package errors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"complaintreport/internal/infrastructure"
	"complaintreport/internal/shared/testutil"
)

func TestErrorToProblem(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, false)
	req := httptest.NewRequest(http.MethodPost, "/api/report", nil)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
		wantCode   interface{}
	}{
		{name: "missing upload", err: ErrMissingUpload, wantStatus: http.StatusBadRequest, wantType: TypeMissingUpload, wantCode: "MISSING_UPLOAD"},
		{name: "invalid spreadsheet", err: InvalidSpreadsheetError("mop", errors.New("zip: not a valid zip file")), wantStatus: http.StatusBadRequest, wantType: TypeInvalidSpreadsheet, wantCode: "INVALID_SPREADSHEET"},
		{name: "validation", err: ErrValidation("format", "bad"), wantStatus: http.StatusBadRequest, wantType: TypeValidation, wantCode: "VALIDATION_FAILED"},
		{name: "no data", err: ErrNoData, wantStatus: http.StatusNotFound, wantType: TypeNoData, wantCode: "NO_DATA"},
		{name: "too large", err: ErrPayloadTooLarge, wantStatus: http.StatusRequestEntityTooLarge, wantType: TypePayloadTooLarge, wantCode: "PAYLOAD_TOO_LARGE"},
		{name: "rate limit", err: ErrRateLimitExceeded, wantStatus: http.StatusTooManyRequests, wantType: TypeRateLimit, wantCode: "RATE_LIMIT_EXCEEDED"},
		{name: "reference missing", err: ReferenceFileMissingError("/data/MOP LIST.xlsx"), wantStatus: http.StatusInternalServerError, wantType: TypeReferenceMissing, wantCode: "REFERENCE_FILE_MISSING"},
		{name: "wrapped api error", err: fmt.Errorf("run: %w", ErrNoData), wantStatus: http.StatusNotFound, wantType: TypeNoData, wantCode: "NO_DATA"},
		{name: "parsing app error", err: NewParsingError("failed to read workbook", errors.New("bad zip")), wantStatus: http.StatusBadRequest, wantType: TypeInvalidSpreadsheet, wantCode: "PARSING"},
		{name: "validation app error", err: NewAppError(ErrTypeValidation, "brand is invalid", nil), wantStatus: http.StatusBadRequest, wantType: TypeValidation, wantCode: "VALIDATION"},
		{name: "not found app error", err: NewAppError(ErrTypeNotFound, "sheet not found", nil), wantStatus: http.StatusNotFound, wantType: TypeNotFound, wantCode: "NOT_FOUND"},
		{name: "export app error", err: NewExportError("failed to write workbook", errors.New("disk")), wantStatus: http.StatusInternalServerError, wantType: TypeExportFailed, wantCode: "EXPORT"},
		{name: "config app error", err: NewConfigError("failed to open reference file", errors.New("denied")), wantStatus: http.StatusInternalServerError, wantType: TypeInternal, wantCode: "CONFIG"},
		{name: "deadline", err: fmt.Errorf("load: %w", context.DeadlineExceeded), wantStatus: http.StatusGatewayTimeout, wantType: TypeTimeout},
		{name: "unknown", err: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantType: TypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			problem := h.ErrorToProblem(tt.err, req)

			assert.Equal(t, tt.wantStatus, problem.Status)
			assert.Equal(t, tt.wantType, problem.Type)
			assert.Equal(t, "/api/report", problem.Instance)
			if tt.wantCode == nil {
				assert.NotContains(t, problem.Extensions, "error_code")
				return
			}
			assert.Equal(t, tt.wantCode, problem.Extensions["error_code"])
		})
	}
}

func TestErrorToProblem_Details(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, false)
	req := httptest.NewRequest(http.MethodPost, "/api/report", nil)

	problem := h.ErrorToProblem(InvalidSpreadsheetError("mop", errors.New("missing column MOP")), req)
	assert.Equal(t, "Error reading files: missing column MOP", problem.Detail)
	assert.Equal(t, map[string]interface{}{"field": "mop"}, problem.Extensions["details"])

	appErr := NewParsingError("failed to read workbook", nil).WithContext("source", "complaints")
	problem = h.ErrorToProblem(appErr, req)
	assert.Equal(t, map[string]interface{}{"source": "complaints"}, problem.Extensions["details"])
}

func TestHandleError(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, false)

	req := httptest.NewRequest(http.MethodPost, "/api/report/export", nil)
	req = req.WithContext(infrastructure.WithTraceID(req.Context(), "trace-42"))
	rec := httptest.NewRecorder()

	h.HandleError(rec, req, ErrNoData)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, ContentTypeProblem, rec.Header().Get("Content-Type"))
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, TypeNoData, body["type"])
	assert.Equal(t, "NO_DATA", body["error_code"])
	assert.Equal(t, "trace-42", body["trace_id"])
	assert.Equal(t, "No data available for the selected brand.", body["detail"])
	assert.NotContains(t, body, "stack")

	testutil.AssertLogContains(t, logs, slog.LevelError, "request failed")
	testutil.AssertLogAttr(t, logs, "path", "/api/report/export")
}

func TestHandleError_Nil(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, false)

	rec := httptest.NewRecorder()
	h.HandleError(rec, httptest.NewRequest(http.MethodGet, "/", nil), nil)

	assert.Equal(t, 0, logs.Count())
	assert.Empty(t, rec.Body.String())
}

func TestHandleError_IncludeStack(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, true)

	rec := httptest.NewRecorder()
	h.HandleError(rec, httptest.NewRequest(http.MethodGet, "/", nil), errors.New("boom"))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["stack"])
}

func TestHandlePanic(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, false)

	rec := httptest.NewRecorder()
	h.HandlePanic(rec, httptest.NewRequest(http.MethodPost, "/api/report", nil), "kaboom")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, ContentTypeProblem, rec.Header().Get("Content-Type"))
	assert.NotContains(t, rec.Body.String(), "kaboom")
	testutil.AssertLogContains(t, logs, slog.LevelError, "panic recovered")
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, false)

	rec := httptest.NewRecorder()
	h.NotFound(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, ContentTypeProblem, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), TypeNotFound)

	rec = httptest.NewRecorder()
	h.MethodNotAllowed(rec, httptest.NewRequest(http.MethodDelete, "/api/report", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, ContentTypeProblem, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "Method DELETE is not allowed")
}

func TestAppError(t *testing.T) {
	cause := errors.New("zip: not a valid zip file")
	err := fmt.Errorf("load: %w", NewParsingError("failed to read complaints", cause))

	assert.True(t, IsType(err, ErrTypeParsing))
	assert.False(t, IsType(err, ErrTypeExport))
	assert.False(t, IsType(cause, ErrTypeParsing))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "load: [PARSING] failed to read complaints: zip: not a valid zip file", err.Error())
	assert.Equal(t, "[CONFIG] no path", NewConfigError("no path", nil).Error())
}

func TestProblemDetailsMarshal(t *testing.T) {
	problem := NewProblemDetails(http.StatusBadRequest, TypeValidation, "Bad Request", "", "").
		WithExtension("error_code", "VALIDATION_FAILED").
		WithExtension("status", 999)

	data, err := json.Marshal(problem)
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, float64(http.StatusBadRequest), body["status"], "standard members win over extensions")
	assert.Equal(t, "VALIDATION_FAILED", body["error_code"])
	assert.NotContains(t, body, "detail")
	assert.NotContains(t, body, "instance")
}
