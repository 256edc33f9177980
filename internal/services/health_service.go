package services

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/andrejarenkow/contagem-lote-foco/internal/dataprocessing"
	"github.com/andrejarenkow/contagem-lote-foco/internal/infrastructure"
)

// Health status values
const (
	StatusOK       = "ok"
	StatusAlive    = "alive"
	StatusReady    = "ready"
	StatusNotReady = "not_ready"
)

// CheckFunc reports whether a dependency is usable
type CheckFunc func(ctx context.Context) error

// HealthService provides health check functionality
type HealthService struct {
	version   string
	repoURL   string
	buildTime string
	buildID   string
	startTime time.Time
	logger    *slog.Logger

	mu     sync.RWMutex
	checks map[string]CheckFunc
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                   `json:"status"`
	Timestamp time.Time                `json:"timestamp"`
	Version   string                   `json:"version"`
	Runtime   map[string]interface{}   `json:"runtime,omitempty"`
	Services  map[string]ServiceHealth `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// BuildInfo carries values stamped at link time
type BuildInfo struct {
	Version   string
	RepoURL   string
	BuildTime string
	BuildID   string
}

// NewHealthService creates a health service
func NewHealthService(info BuildInfo, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}

	logger = infrastructure.WithComponent(logger, "health_service")
	logger.Debug("HealthService initialized",
		slog.String("version", info.Version),
		slog.String("build_id", info.BuildID))

	return &HealthService{
		version:   info.Version,
		repoURL:   info.RepoURL,
		buildTime: info.BuildTime,
		buildID:   info.BuildID,
		startTime: time.Now(),
		logger:    logger,
		checks:    make(map[string]CheckFunc),
	}
}

// RegisterCheck adds a named readiness check
func (hs *HealthService) RegisterCheck(name string, check CheckFunc) {
	hs.mu.Lock()
	defer hs.mu.Unlock()
	hs.checks[name] = check
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    StatusOK,
		Timestamp: time.Now(),
		Version:   hs.version,
	}
}

// ReadinessCheck runs every registered check
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	hs.mu.RLock()
	names := make([]string, 0, len(hs.checks))
	checks := make(map[string]CheckFunc, len(hs.checks))
	for name, check := range hs.checks {
		names = append(names, name)
		checks[name] = check
	}
	hs.mu.RUnlock()
	sort.Strings(names)

	status := HealthStatus{
		Status:    StatusReady,
		Timestamp: time.Now(),
		Version:   hs.version,
		Services:  make(map[string]ServiceHealth, len(names)),
	}

	for _, name := range names {
		if err := checks[name](ctx); err != nil {
			status.Status = StatusNotReady
			status.Services[name] = ServiceHealth{Status: StatusNotReady, Message: err.Error()}
			hs.logger.WarnContext(ctx, "readiness check failed",
				slog.String("check", name),
				slog.String("error", err.Error()))
			continue
		}
		status.Services[name] = ServiceHealth{Status: StatusReady}
	}

	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    StatusAlive,
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

// Version returns version information
func (hs *HealthService) Version() map[string]interface{} {
	result := map[string]interface{}{
		"version":    hs.version,
		"go_version": runtime.Version(),
		"os":         runtime.GOOS,
		"arch":       runtime.GOARCH,
		"uptime":     time.Since(hs.startTime).Seconds(),
		"start_time": hs.startTime.Format(time.RFC3339),
	}
	if hs.repoURL != "" {
		result["repo_url"] = hs.repoURL
	}
	if hs.buildTime != "" {
		result["build_time"] = hs.buildTime
	}
	if hs.buildID != "" {
		result["build_id"] = hs.buildID
	}
	return result
}

// ProcessorCheck builds a one-line report to prove the engine answers
func ProcessorCheck(p *dataprocessing.Processor) CheckFunc {
	return func(ctx context.Context) error {
		if p == nil {
			return fmt.Errorf("report processor not initialized")
		}
		event := "HC"
		prefix := p.Prefix("", event)
		text := fmt.Sprintf("1 Check 10 Pixels %s0000", prefix)
		report, err := p.BuildSales(ctx, dataprocessing.SalesRequest{Text: text, EventCode: event})
		if err != nil {
			return fmt.Errorf("self-check report failed: %w", err)
		}
		if len(report.Records) != 1 {
			return fmt.Errorf("self-check report returned %d records, want 1", len(report.Records))
		}
		return nil
	}
}
