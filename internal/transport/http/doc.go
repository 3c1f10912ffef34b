// Package http implements the HTTP request handlers of the complaint report
// web service. Handlers stay thin: they parse the multipart upload, call the
// report service and translate its errors into RFC 7807 problems through
// the central errors.ErrorHandler.
//
// # Endpoints
//
//	GET  /                    report page (embedded template)
//	POST /api/report          run the report, JSON summary table
//	POST /api/report/export   run the report, xlsx or csv attachment
//	POST /api/client-log      errors reported by the page
//	GET  /api/health[/live|/ready], /api/version
//	GET  /metrics             Prometheus exposition
//
// # Error mapping
//
//	missing upload             400 MISSING_UPLOAD
//	unreadable workbook        400 INVALID_SPREADSHEET
//	no data (export only)      404 NO_DATA
//	missing reference file     500 REFERENCE_FILE_MISSING
//	upload too large           413 PAYLOAD_TOO_LARGE
//
// # Testing
//
// Handlers are tested with httptest against a testify mock of
// ReportServiceInterface, and end to end against the real services with
// in-memory workbooks.
package http
