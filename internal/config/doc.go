// Package config provides centralized configuration management for the
// report service and CLI. It loads configuration from multiple sources,
// validates it, and exposes a typed Config to the rest of the application.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Environment variables (highest priority)
//	2. config.yaml (working directory, configs/, or next to the binary)
//	3. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern LOTE_<SECTION>_<FIELD>:
//
//	LOTE_SERVER_PORT=8080
//	LOTE_LOGGING_LEVEL=debug
//	LOTE_REPORT_LOT_OFFSET_PREFIX=LENS
//	LOTE_REPORT_TIMEZONE_OFFSET=3h
//	LOTE_REPORT_STRICT=true
//	LOTE_CONFIG_FILE=/etc/lote/config.yaml
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// For tests, Default returns a configuration that needs no environment.
package config
