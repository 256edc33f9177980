// Package services implements the business logic layer between the HTTP and
// CLI hosts and the report engine in dataprocessing.
//
// ReportService wraps the Processor with tracing spans, report metrics,
// upload decoding and export. HealthService answers liveness, readiness and
// version checks.
//
// Services take a *slog.Logger and tag it with their component name. They
// return domain errors unchanged so the HTTP error handler can map them to
// problem details.
package services
