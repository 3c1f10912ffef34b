// Package config provides configuration loading for the complaint report
// service and CLI.
//
// # Configuration Sources
//
// Values are resolved in order of increasing precedence:
//
//  1. Default values (see Default)
//  2. A YAML file: $REPORT_CONFIG_FILE, ./config.yaml or ./configs/config.yaml
//  3. Environment variables, after a ./.env file has been loaded into the
//     environment
//
// # Environment Variables
//
// All variables use the REPORT_ prefix followed by the section name:
//
//	REPORT_SERVER_PORT=8080
//	REPORT_SERVER_MAX_UPLOAD_BYTES=33554432
//	REPORT_LOGGING_LEVEL=debug
//	REPORT_PATHS_REFERENCE_FILE=/srv/data/MOP LIST.xlsx
//	REPORT_TELEMETRY_TRACE_EXPORTER=stdout
//
// # Fixed reference file
//
// When Paths.ReferenceFile is set the MOP price list may be omitted from an
// upload; it is then read from that location on every run.
package config
