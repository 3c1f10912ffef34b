// Package services implements the business logic layer of the complaint
// report application. Handlers and the CLI call into services; services own
// logging, tracing and metrics around the data processing pipeline.
//
// # Services
//
//   - ReportService runs the pipeline for one pair of workbooks and exports
//     the result as xlsx or CSV.
//   - HealthService backs the health, readiness and version endpoints.
//
// # Errors
//
// Run and Export return:
//
//	*MissingUploadError     a workbook was not supplied (errors.Is ErrMissingUpload)
//	*ReferenceFileError     the configured MOP list is absent (errors.Is ErrReferenceFileMissing)
//	*errors.AppError        PARSING, a workbook could not be read
//	ErrNoData               Export only; Run reports it through ReportResult.NoData
package services
