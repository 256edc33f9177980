package config

import (
	"time"

	"github.com/andrejarenkow/contagem-lote-foco/pkg/contracts"
)

// Application constants
const (
	// Application Info
	AppName    = "contagem-lote-foco"
	AppVersion = contracts.Version

	// EnvPrefix namespaces every environment variable, e.g. LOTE_SERVER_PORT.
	EnvPrefix = "LOTE"

	// Config file name searched for at startup
	ConfigFileName = "config.yaml"

	// Report defaults
	DefaultLotOffsetPrefix = "LENS"
	DefaultTimezoneOffset  = 3 * time.Hour
	DefaultLocale          = "pt-BR"
	DefaultMaxInputBytes   = 5 << 20 // 5 MiB

	// Rate Limiting
	DefaultRateLimit = 100 // requests per second
	DefaultBurstSize = 50

	// Network Timeouts
	DefaultRequestTimeout = 60 * time.Second

	// File Paths
	DefaultLogsDir = "logs"
	DefaultLogFile = "logs/app.log"
)
