// Package app wires the complaint report service together and manages its
// lifecycle.
//
// NewApplication takes a loaded configuration and a logger and builds, in
// order:
//
//	1. OpenTelemetry providers and the business metrics
//	2. The report and health services
//	3. The chi router with middleware and handlers
//	4. The HTTP server
//
// Run starts the server and blocks until SIGINT or SIGTERM, then shuts the
// server and the telemetry providers down within the configured shutdown
// timeout. The package never calls os.Exit; errors are returned to main.
package app
