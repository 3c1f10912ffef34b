// Package api contains API contract definitions for the complaint report service.
// Version v1 represents the current stable API version.
package api

import (
	"complaintreport/pkg/contracts/domain"
)

// Multipart form fields of the report endpoints.
const (
	FormFieldComplaints = "complaints"
	FormFieldPriceList  = "mop"
	FormFieldBrand      = "brand"
	FormFieldFormat     = "format"
)

// Response status values.
const (
	StatusSuccess = "success"
	StatusNoData  = "no_data"
)

// ReportRequest holds the non-file fields of a report or export upload.
type ReportRequest struct {
	Brand  string `json:"brand" form:"brand" validate:"omitempty,max=200,brand"`
	Format string `json:"format" form:"format" validate:"omitempty,oneof=xlsx csv"`
}

// ReportData is the branch summary table rendered for display.
type ReportData struct {
	Brand   string              `json:"brand"`
	Brands  []string            `json:"brands"`
	Columns []string            `json:"columns,omitempty"`
	Rows    []domain.DisplayRow `json:"rows,omitempty"`
	Stats   *ReportStats        `json:"stats,omitempty"`
}

// ReportStats describes how the uploaded rows flowed through the pipeline.
type ReportStats struct {
	ComplaintRows  int      `json:"complaint_rows"`
	PriceRows      int      `json:"price_rows"`
	JoinedRows     int      `json:"joined_rows"`
	DroppedRows    int      `json:"dropped_rows"`
	UnmatchedItems int      `json:"unmatched_items"`
	DuplicateItems []string `json:"duplicate_items,omitempty"`
}

// ReportResponse is the body of a successful or empty report run.
type ReportResponse struct {
	Status  string     `json:"status"`
	Message string     `json:"message,omitempty"`
	Data    ReportData `json:"data"`
}

// VersionResponse is the body of the version endpoint.
type VersionResponse struct {
	Version    string `json:"version"`
	APIVersion string `json:"api_version"`
	BuildTime  string `json:"build_time"`
	GitCommit  string `json:"git_commit"`
	GoVersion  string `json:"go_version"`
}
