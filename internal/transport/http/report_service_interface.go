package http

import (
	"context"

	"complaintreport/internal/services"
)

// ReportServiceInterface defines the report operations used by ReportHandler
type ReportServiceInterface interface {
	Run(ctx context.Context, in services.ReportInput) (*services.ReportResult, error)
	Export(ctx context.Context, in services.ReportInput, format services.ExportFormat) (*services.ExportResult, error)
}

// StructValidator validates decoded request structs
type StructValidator interface {
	ValidateStruct(v interface{}) error
}
