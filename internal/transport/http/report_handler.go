package http

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"complaintreport/internal/dataprocessing"
	apierrors "complaintreport/internal/errors"
	"complaintreport/internal/exporter"
	"complaintreport/internal/services"
	api "complaintreport/pkg/contracts/api/v1"
	"complaintreport/pkg/contracts/domain"
)

// multipartMemory is how much of an upload is held in memory before
// spilling to temporary files.
const multipartMemory = 8 << 20

// ReportHandler handles report HTTP requests with RFC 7807 compliance
type ReportHandler struct {
	service        ReportServiceInterface
	validator      StructValidator
	logger         *slog.Logger
	errorHandler   *apierrors.ErrorHandler
	maxUploadBytes int64
}

// NewReportHandler creates a new report handler. validator may be nil.
func NewReportHandler(service ReportServiceInterface, validator StructValidator, maxUploadBytes int64, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ReportHandler {
	return &ReportHandler{
		service:        service,
		validator:      validator,
		logger:         logger.With(slog.String("component", "report_handler")),
		errorHandler:   errorHandler,
		maxUploadBytes: maxUploadBytes,
	}
}

// Routes returns the report routes
func (h *ReportHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.With(render.SetContentType(render.ContentTypeJSON)).Post("/", h.RunReport)
	r.Post("/export", h.ExportReport)

	return r
}

// upload is a parsed report form. Files are nil when not supplied.
type upload struct {
	request    api.ReportRequest
	complaints multipart.File
	priceList  multipart.File
}

func (u *upload) input() services.ReportInput {
	in := services.ReportInput{Brand: u.request.Brand}
	if u.complaints != nil {
		in.Complaints = u.complaints
	}
	if u.priceList != nil {
		in.PriceList = u.priceList
	}
	return in
}

func (u *upload) close() {
	if u.complaints != nil {
		u.complaints.Close()
	}
	if u.priceList != nil {
		u.priceList.Close()
	}
}

// RunReport handles POST /api/report
func (h *ReportHandler) RunReport(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	up, err := h.parseUpload(w, r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	defer up.close()

	h.logger.InfoContext(r.Context(), "running report",
		slog.String("request_id", reqID),
		slog.String("brand", up.request.Brand),
		slog.Bool("mop_uploaded", up.priceList != nil),
	)

	result, err := h.service.Run(r.Context(), up.input())
	if err != nil {
		h.errorHandler.HandleError(w, r, h.mapServiceError(err))
		return
	}

	render.JSON(w, r, newReportResponse(result))
}

// ExportReport handles POST /api/report/export
func (h *ReportHandler) ExportReport(w http.ResponseWriter, r *http.Request) {
	reqID := middleware.GetReqID(r.Context())

	up, err := h.parseUpload(w, r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	defer up.close()

	format := services.ExportFormat(up.request.Format)
	if format == "" {
		format = services.FormatXLSX
	}

	h.logger.InfoContext(r.Context(), "exporting report",
		slog.String("request_id", reqID),
		slog.String("brand", up.request.Brand),
		slog.String("format", string(format)),
	)

	out, err := h.service.Export(r.Context(), up.input(), format)
	if err != nil {
		h.errorHandler.HandleError(w, r, h.mapServiceError(err))
		return
	}

	w.Header().Set("Content-Type", out.ContentType)
	w.Header().Set("Content-Disposition", contentDisposition(out.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(out.Data.Len()))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, out.Data); err != nil {
		h.logger.WarnContext(r.Context(), "failed to write export",
			slog.String("request_id", reqID),
			slog.String("error", err.Error()),
		)
	}
}

// parseUpload reads the multipart form within the configured size limit
// and validates its text fields.
func (h *ReportHandler) parseUpload(w http.ResponseWriter, r *http.Request) (*upload, error) {
	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, apierrors.NewWithDetails(http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE",
				apierrors.ErrPayloadTooLarge.Message, map[string]interface{}{"max_bytes": tooLarge.Limit})
		}
		if errors.Is(err, http.ErrNotMultipart) {
			return nil, apierrors.ErrMissingUpload
		}
		return nil, apierrors.InvalidRequestWithError(err)
	}

	up := &upload{
		request: api.ReportRequest{
			Brand:  strings.TrimSpace(r.FormValue(api.FormFieldBrand)),
			Format: strings.ToLower(strings.TrimSpace(r.FormValue(api.FormFieldFormat))),
		},
	}

	if h.validator != nil {
		if err := h.validator.ValidateStruct(&up.request); err != nil {
			return nil, err
		}
	}

	var err error
	if up.complaints, err = formFile(r, api.FormFieldComplaints); err != nil {
		return nil, err
	}
	if up.priceList, err = formFile(r, api.FormFieldPriceList); err != nil {
		up.close()
		return nil, err
	}
	return up, nil
}

func formFile(r *http.Request, field string) (multipart.File, error) {
	f, _, err := r.FormFile(field)
	switch {
	case errors.Is(err, http.ErrMissingFile):
		return nil, nil
	case err != nil:
		return nil, apierrors.InvalidSpreadsheetError(field, err)
	}
	return f, nil
}

// mapServiceError translates service failures into API errors.
func (h *ReportHandler) mapServiceError(err error) error {
	var missing *services.MissingUploadError
	if errors.As(err, &missing) {
		return apierrors.NewWithDetails(http.StatusBadRequest, "MISSING_UPLOAD",
			apierrors.ErrMissingUpload.Message, map[string]interface{}{"field": missing.Field})
	}

	var refErr *services.ReferenceFileError
	if errors.As(err, &refErr) {
		return apierrors.ReferenceFileMissingError(refErr.Path)
	}

	if errors.Is(err, services.ErrNoData) {
		return apierrors.ErrNoData
	}

	if errors.Is(err, services.ErrUnsupportedFormat) {
		return apierrors.ErrValidation(api.FormFieldFormat, err.Error())
	}

	var appErr *apierrors.AppError
	if errors.As(err, &appErr) && appErr.Type == apierrors.ErrTypeParsing {
		field := api.FormFieldComplaints
		if appErr.Context["source"] == dataprocessing.SourcePriceList {
			field = api.FormFieldPriceList
		}
		detail := appErr.Message
		if appErr.Cause != nil {
			detail = fmt.Sprintf("%s: %v", appErr.Message, appErr.Cause)
		}
		return apierrors.InvalidSpreadsheetError(field, errors.New(detail))
	}

	return err
}

func newReportResponse(result *services.ReportResult) api.ReportResponse {
	stats := api.ReportStats(result.Stats)
	data := api.ReportData{
		Brand:  result.Brand,
		Brands: result.Brands,
		Stats:  &stats,
	}

	if result.NoData {
		return api.ReportResponse{
			Status:  api.StatusNoData,
			Message: apierrors.ErrNoData.Message,
			Data:    data,
		}
	}

	data.Columns = domain.ReportHeaders()
	data.Rows = exporter.DisplayRows(result.Report.Rows)
	return api.ReportResponse{Status: api.StatusSuccess, Data: data}
}

// contentDisposition builds an attachment header with an ASCII fallback
// name and the RFC 5987 encoded original.
func contentDisposition(filename string) string {
	fallback := strings.Map(func(r rune) rune {
		if r < 0x20 || r > 0x7e || r == '"' || r == '\\' || r == '/' {
			return '_'
		}
		return r
	}, filename)

	if fallback == filename {
		return fmt.Sprintf(`attachment; filename="%s"`, filename)
	}
	return fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`, fallback, url.PathEscape(filename))
}
