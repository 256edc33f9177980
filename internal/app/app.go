package app

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"golang.org/x/sync/errgroup"

	"github.com/andrejarenkow/contagem-lote-foco/internal/config"
	"github.com/andrejarenkow/contagem-lote-foco/internal/dataprocessing"
	apierrors "github.com/andrejarenkow/contagem-lote-foco/internal/errors"
	"github.com/andrejarenkow/contagem-lote-foco/internal/exporter"
	"github.com/andrejarenkow/contagem-lote-foco/internal/infrastructure"
	customMiddleware "github.com/andrejarenkow/contagem-lote-foco/internal/middleware"
	"github.com/andrejarenkow/contagem-lote-foco/internal/services"
	handlers "github.com/andrejarenkow/contagem-lote-foco/internal/transport/http"
	"github.com/andrejarenkow/contagem-lote-foco/pkg/contracts"
)

const (
	RepoURL = "https://github.com/andrejarenkow/contagem-lote-foco"
	AppName = "Contagem de Lotes Foco"
)

var (
	// Version of the running build
	Version = contracts.Version
	// BuildTime comes from the linker, or the start time for dev builds
	BuildTime = buildTime()
	// BuildID identifies this build
	BuildID = generateBuildID()
)

func buildTime() string {
	if contracts.BuildTime != "unknown" {
		return contracts.BuildTime
	}
	return time.Now().Format(time.RFC3339)
}

func generateBuildID() string {
	h := sha256.New()
	h.Write([]byte(Version))
	h.Write([]byte(contracts.GitCommit))
	h.Write([]byte(BuildTime))
	return fmt.Sprintf("%x", h.Sum(nil))[:12]
}

// Application represents the main application container
type Application struct {
	Config        *config.Config
	Router        *chi.Mux
	Server        *http.Server
	Logger        *slog.Logger
	Services      *ServiceContainer
	OTelProviders *infrastructure.OTelProviders

	errorHandler *apierrors.ErrorHandler
	otel         *customMiddleware.OTelMiddleware
}

// ServiceContainer holds all application services
type ServiceContainer struct {
	Processor *dataprocessing.Processor
	Reports   *services.ReportService
	Health    *services.HealthService
}

// NewApplication loads configuration from configPath (or the usual
// locations when empty), initializes the global logger and builds the
// application.
func NewApplication(configPath string) (*Application, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, apierrors.NewConfigError("failed to load configuration", err)
	}

	if err := cfg.EnsureLogDir(); err != nil {
		return nil, err
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return New(cfg, logger)
}

// New wires every component from an already loaded configuration.
func New(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if cfg == nil {
		return nil, errors.New("configuration is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("Application starting",
		slog.String("name", AppName),
		slog.String("version", Version),
		slog.String("build_id", BuildID))

	providers, err := infrastructure.InitializeOTel(infrastructure.NewOTelConfig(cfg.Telemetry), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	otelMiddleware, err := customMiddleware.NewOTelMiddleware(providers)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenTelemetry middleware: %w", err)
	}

	a := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: providers,
		errorHandler:  apierrors.NewErrorHandler(logger, cfg.Logging.Development),
		otel:          otelMiddleware,
	}

	a.initializeServices()
	a.setupRouter()
	a.createServer()

	return a, nil
}

// ProcessorOptions maps the report section of the configuration
func ProcessorOptions(cfg config.ReportConfig) dataprocessing.Options {
	return dataprocessing.Options{
		OffsetPrefix:        cfg.LotOffsetPrefix,
		DefaultPhotographer: cfg.DefaultPhotographer,
		TimezoneOffset:      cfg.TimezoneOffset,
		Strict:              cfg.Strict,
	}
}

func (a *Application) initializeServices() {
	processor := dataprocessing.NewProcessor(a.Logger, ProcessorOptions(a.Config.Report))

	reports := services.NewReportService(processor, exporter.NewExporter(a.Logger), a.Logger,
		services.WithTracer(a.OTelProviders.Tracer),
		services.WithMetrics(a.otel.Metrics()),
		services.WithInputLimits(a.Config.Report.InputCharset, a.Config.Report.MaxInputBytes),
	)

	health := services.NewHealthService(services.BuildInfo{
		Version:   Version,
		RepoURL:   RepoURL,
		BuildTime: BuildTime,
		BuildID:   BuildID,
	}, a.Logger)
	health.RegisterCheck("processor", services.ProcessorCheck(processor))

	a.Services = &ServiceContainer{
		Processor: processor,
		Reports:   reports,
		Health:    health,
	}
}

// setupRouter configures the HTTP router with all routes.
// Middleware order: RequestID → RealIP → OTel → Logger → Recoverer → headers → CORS → rate limit → Timeout
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(a.otel.Handler)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(apierrors.RecoveryMiddleware(a.errorHandler))
	r.Use(customMiddleware.SecurityHeaders)

	if a.Config.Security.EnableCORS {
		r.Use(customMiddleware.CORS(a.getCORSConfig()))
	}

	r.NotFound(a.errorHandler.NotFound)
	r.MethodNotAllowed(a.errorHandler.MethodNotAllowed)

	// Scrapes stay outside the rate limit and request timeout
	r.Handle("/metrics", handlers.NewMetricsHandler(a.OTelProviders.PrometheusHTTP, a.errorHandler))

	r.Group(func(r chi.Router) {
		if a.Config.Security.RateLimit.Enabled {
			r.Use(customMiddleware.NewRateLimiter(
				a.Config.Security.RateLimit.RPS,
				a.Config.Security.RateLimit.Burst,
				a.Logger,
				a.errorHandler,
			).Handler)
		}
		r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.Logger, a.errorHandler))

		a.setupAPIRoutes(r)
	})

	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router) {
	validator := customMiddleware.NewValidator(a.Logger, a.errorHandler, a.Config.Report.MaxInputBytes)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))

		handlers.NewHealthHandler(a.Services.Health, a.Logger).Routes(r)

		reportHandler := handlers.NewReportHandler(a.Services.Reports, validator, a.errorHandler, a.Logger)
		r.Mount("/reports", reportHandler.Routes())
	})
}

func (a *Application) getCORSConfig() customMiddleware.CORSConfig {
	config := customMiddleware.CORSConfig{
		AllowedOrigins: a.Config.Security.AllowedOrigins,
		Logger:         a.Logger,
	}
	a.Logger.Info("CORS configured", slog.Any("allowed_origins", config.AllowedOrigins))
	return config
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           a.Config.Server.Address(),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (a *Application) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.Server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", a.Server.Addr, err)
	}
	return a.Serve(ctx, ln)
}

// Serve is Run on an existing listener
func (a *Application) Serve(ctx context.Context, ln net.Listener) error {
	a.Logger.InfoContext(ctx, "Server listening",
		slog.String("address", ln.Addr().String()),
		slog.String("level", a.Config.Logging.Level))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := a.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		return a.Stop(context.WithoutCancel(ctx))
	})

	return g.Wait()
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "Shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	var errs []error
	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("server shutdown error: %w", err))
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "Error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "Application shutdown complete")
	if err := infrastructure.CloseLogFile(); err != nil {
		errs = append(errs, fmt.Errorf("close log file: %w", err))
	}
	return errors.Join(errs...)
}
