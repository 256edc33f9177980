// Package app wires the lot report server together: configuration, logging,
// OpenTelemetry, the report and health services, the chi router and the HTTP
// server lifecycle.
//
// # Initialization Flow
//
//	1. Load configuration (defaults, YAML file, LOTE_* environment)
//	2. Initialize logging and observability
//	3. Build the report processor and services
//	4. Set up middleware and HTTP handlers
//	5. Serve until the context is cancelled
//
// # Usage
//
//	a, err := app.NewApplication("")
//	if err != nil {
//	    return err
//	}
//	return a.Run(ctx)
//
// # Graceful Shutdown
//
// Run returns once the context is cancelled and the server has drained
// active requests, flushed telemetry and closed the log file. The package
// never calls os.Exit.
package app
