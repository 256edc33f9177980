// Package http implements the HTTP handlers of the report service.
//
// Handlers stay thin: they decode and validate the request, call a service
// and render the result. Every failure goes through the shared ErrorHandler
// so clients always receive RFC 7807 problem details.
//
// Routes mounted under /api:
//
//	POST /reports/sales    sales report from pasted text
//	POST /reports/timing   release timing report
//	POST /reports          sales and timing together, optionally joined
//	POST /reports/upload   sales report from a multipart file upload
//	POST /reports/export   sales report as a CSV or XLSX attachment
//	GET  /health, /health/live, /health/ready, /version
//
// Amounts in JSON responses are rounded to two decimals.
package http
