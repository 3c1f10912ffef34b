package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"complaintreport/internal/config"
	"complaintreport/internal/dataprocessing"
	apperrors "complaintreport/internal/errors"
	"complaintreport/internal/exporter"
	"complaintreport/internal/infrastructure"
	"complaintreport/pkg/contracts/domain"
)

// Upload field names, shared with the HTTP form and CLI messages.
const (
	FieldComplaints = "complaints"
	FieldPriceList  = "mop"
)

// Run outcomes recorded in metrics and logs.
const (
	OutcomeSuccess = "success"
	OutcomeNoData  = "no_data"
	OutcomeError   = "error"
)

// ExportFormat selects the serialization of an exported report.
type ExportFormat string

const (
	FormatXLSX ExportFormat = "xlsx"
	FormatCSV  ExportFormat = "csv"
)

// ReportInput is one pipeline run request. PriceList may be nil when a
// reference file is configured.
type ReportInput struct {
	Complaints io.Reader
	PriceList  io.Reader
	Brand      string
}

// RunStats describes how the input rows flowed through the pipeline.
type RunStats struct {
	ComplaintRows  int      `json:"complaint_rows"`
	PriceRows      int      `json:"price_rows"`
	JoinedRows     int      `json:"joined_rows"`
	DroppedRows    int      `json:"dropped_rows"`
	UnmatchedItems int      `json:"unmatched_items"`
	DuplicateItems []string `json:"duplicate_items,omitempty"`
}

// ReportResult is the outcome of a run. Report is nil when NoData is set.
type ReportResult struct {
	Brand  string               `json:"brand"`
	Brands []string             `json:"brands"`
	Report *domain.BranchReport `json:"report,omitempty"`
	NoData bool                 `json:"no_data"`
	Stats  RunStats             `json:"stats"`
}

// ExportResult is a serialized report ready to be offered for download.
type ExportResult struct {
	Brand       string
	Filename    string
	ContentType string
	Data        *bytes.Buffer
}

// ReportService runs the complaint report pipeline.
type ReportService struct {
	referenceFile string
	logger        *slog.Logger
	tracer        trace.Tracer
	metrics       *infrastructure.BusinessMetrics
}

// ReportServiceOption customizes a ReportService
type ReportServiceOption func(*ReportService)

// WithTracer sets the tracer used for pipeline spans.
func WithTracer(tracer trace.Tracer) ReportServiceOption {
	return func(s *ReportService) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithMetrics sets the instruments that record runs.
func WithMetrics(metrics *infrastructure.BusinessMetrics) ReportServiceOption {
	return func(s *ReportService) {
		s.metrics = metrics
	}
}

// NewReportService creates a report service. paths.ReferenceFile, when set,
// is read whenever a run has no uploaded price list.
func NewReportService(paths config.PathsConfig, logger *slog.Logger, opts ...ReportServiceOption) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}

	s := &ReportService{
		referenceFile: strings.TrimSpace(paths.ReferenceFile),
		logger:        infrastructure.WithComponent(logger, "report_service"),
		tracer:        noop.NewTracerProvider().Tracer(""),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.logger.Info("ReportService initialized",
		slog.Bool("reference_file_configured", s.referenceFile != ""),
		slog.String("reference_file", s.referenceFile))
	return s
}

// Run loads both workbooks, builds the brand options and summarizes the
// selected brand. An empty result is not an error: NoData is set and the
// brand options are still returned.
func (s *ReportService) Run(ctx context.Context, in ReportInput) (*ReportResult, error) {
	ctx, span := s.tracer.Start(ctx, "report.run")
	defer span.End()

	start := time.Now()
	brand := normalizeBrand(in.Brand)
	span.SetAttributes(attribute.String("report.brand", brand))

	result, err := s.run(ctx, in, brand)

	outcome := OutcomeSuccess
	switch {
	case err != nil:
		outcome = OutcomeError
		infrastructure.RecordError(ctx, err)
	case result.NoData:
		outcome = OutcomeNoData
	}
	infrastructure.RecordReportRun(ctx, s.metrics, brand, outcome, time.Since(start))

	if err != nil {
		s.logger.WarnContext(ctx, "report run failed",
			slog.String("brand", brand),
			slog.String("error", err.Error()),
			slog.Duration("duration", time.Since(start)))
		return nil, err
	}

	s.logger.InfoContext(ctx, "report run completed",
		slog.String("brand", brand),
		slog.String("outcome", outcome),
		slog.Int("complaint_rows", result.Stats.ComplaintRows),
		slog.Int("price_rows", result.Stats.PriceRows),
		slog.Int("dropped_rows", result.Stats.DroppedRows),
		slog.Duration("duration", time.Since(start)))
	return result, nil
}

func (s *ReportService) run(ctx context.Context, in ReportInput, brand string) (*ReportResult, error) {
	if in.Complaints == nil {
		return nil, &MissingUploadError{Field: FieldComplaints}
	}

	priceList, closePriceList, err := s.priceListSource(ctx, in.PriceList)
	if err != nil {
		return nil, err
	}
	defer closePriceList()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	complaints, prices, err := s.load(ctx, in.Complaints, priceList)
	if err != nil {
		return nil, err
	}

	_, span := s.tracer.Start(ctx, "report.prepare")
	prepared := dataprocessing.Prepare(complaints, prices)
	span.SetAttributes(
		attribute.Int("report.joined_rows", prepared.JoinedRows),
		attribute.Int("report.clean_rows", len(prepared.Rows)),
	)
	span.End()

	if len(prepared.DuplicateItems) > 0 {
		s.logger.WarnContext(ctx, "MOP list has duplicate item codes; matching complaints are counted once per entry",
			slog.Int("duplicate_count", len(prepared.DuplicateItems)),
			slog.Any("item_codes", firstN(prepared.DuplicateItems, 10)))
	}

	result := &ReportResult{
		Brand:  brand,
		Brands: prepared.Brands,
		Stats: RunStats{
			ComplaintRows:  len(complaints),
			PriceRows:      len(prices),
			JoinedRows:     prepared.JoinedRows,
			DroppedRows:    prepared.DroppedRows,
			UnmatchedItems: prepared.UnmatchedItems,
			DuplicateItems: prepared.DuplicateItems,
		},
	}

	_, span = s.tracer.Start(ctx, "report.aggregate")
	report, err := prepared.Summarize(brand)
	span.End()

	switch {
	case errors.Is(err, dataprocessing.ErrNoData):
		result.NoData = true
		return result, nil
	case err != nil:
		return nil, err
	}

	result.Report = report
	return result, nil
}

func (s *ReportService) load(ctx context.Context, complaintsSrc, priceSrc io.Reader) ([]domain.Complaint, []domain.PriceEntry, error) {
	ctx, span := s.tracer.Start(ctx, "report.load")
	defer span.End()

	complaints, err := dataprocessing.LoadComplaints(complaintsSrc)
	if err != nil {
		return nil, nil, err
	}

	prices, err := dataprocessing.LoadPriceList(priceSrc)
	if err != nil {
		return nil, nil, err
	}

	if s.metrics != nil {
		s.metrics.ReportRowsLoaded.Add(ctx, int64(len(complaints)), metric.WithAttributes(attribute.String("source", FieldComplaints)))
		s.metrics.ReportRowsLoaded.Add(ctx, int64(len(prices)), metric.WithAttributes(attribute.String("source", FieldPriceList)))
	}
	span.SetAttributes(
		attribute.Int("report.complaint_rows", len(complaints)),
		attribute.Int("report.price_rows", len(prices)),
	)
	return complaints, prices, nil
}

// priceListSource returns the uploaded price list or opens the configured
// reference file.
func (s *ReportService) priceListSource(ctx context.Context, uploaded io.Reader) (io.Reader, func(), error) {
	if uploaded != nil {
		return uploaded, func() {}, nil
	}
	if s.referenceFile == "" {
		return nil, nil, &MissingUploadError{Field: FieldPriceList}
	}

	f, err := os.Open(s.referenceFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil, &ReferenceFileError{Path: s.referenceFile, Err: err}
		}
		return nil, nil, apperrors.NewConfigError("failed to open reference file", err).
			WithContext("path", s.referenceFile)
	}

	s.logger.DebugContext(ctx, "using reference MOP list", slog.String("path", s.referenceFile))
	return f, func() { f.Close() }, nil
}

// Export runs the pipeline and serializes the report. An empty result is
// returned as ErrNoData so that no file is offered.
func (s *ReportService) Export(ctx context.Context, in ReportInput, format ExportFormat) (*ExportResult, error) {
	if format == "" {
		format = FormatXLSX
	}
	if format != FormatXLSX && format != FormatCSV {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	result, err := s.Run(ctx, in)
	if err != nil {
		return nil, err
	}
	if result.NoData {
		return nil, ErrNoData
	}

	return s.Serialize(ctx, result.Report, format)
}

// Serialize renders an already computed report in the given format.
func (s *ReportService) Serialize(ctx context.Context, report *domain.BranchReport, format ExportFormat) (*ExportResult, error) {
	ctx, span := s.tracer.Start(ctx, "report.export")
	defer span.End()

	out := &ExportResult{Brand: report.Brand}
	switch format {
	case FormatCSV:
		var buf bytes.Buffer
		if err := exporter.WriteCSV(&buf, report, exporter.WriteOptions{BOMPrefix: true}); err != nil {
			infrastructure.RecordError(ctx, err)
			return nil, apperrors.NewExportError("failed to write csv report", err)
		}
		out.Data = &buf
		out.Filename = exporter.CSVFilename(report.Brand)
		out.ContentType = exporter.CSVContentType
	default:
		buf, err := exporter.WriteWorkbook(report)
		if err != nil {
			infrastructure.RecordError(ctx, err)
			return nil, apperrors.NewExportError("failed to write workbook", err)
		}
		out.Data = buf
		out.Filename = exporter.ReportFilename(report.Brand)
		out.ContentType = exporter.XLSXContentType
	}

	if s.metrics != nil {
		s.metrics.ReportExportBytes.Record(ctx, int64(out.Data.Len()),
			metric.WithAttributes(attribute.String("format", string(format))))
	}
	span.SetAttributes(attribute.Int("report.export_bytes", out.Data.Len()))

	s.logger.InfoContext(ctx, "report exported",
		slog.String("brand", report.Brand),
		slog.String("format", string(format)),
		slog.String("filename", out.Filename),
		slog.Int("bytes", out.Data.Len()))
	return out, nil
}

// HasReferenceFile reports whether runs may omit the price list upload.
func (s *ReportService) HasReferenceFile() bool {
	return s.referenceFile != ""
}

// CheckReferenceFile returns an error when a reference file is configured
// but cannot be found.
func (s *ReportService) CheckReferenceFile() error {
	if s.referenceFile == "" {
		return nil
	}
	if _, err := os.Stat(s.referenceFile); err != nil {
		return &ReferenceFileError{Path: s.referenceFile, Err: err}
	}
	return nil
}

func normalizeBrand(brand string) string {
	brand = strings.TrimSpace(brand)
	if dataprocessing.IsAllBrands(brand) {
		return domain.AllBrands
	}
	return brand
}

func firstN(values []string, n int) []string {
	if len(values) > n {
		return values[:n]
	}
	return values
}
