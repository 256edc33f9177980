package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/andrejarenkow/contagem-lote-foco/internal/dataprocessing"
	apierrors "github.com/andrejarenkow/contagem-lote-foco/internal/errors"
	"github.com/andrejarenkow/contagem-lote-foco/internal/exporter"
	"github.com/andrejarenkow/contagem-lote-foco/internal/infrastructure"
	"github.com/andrejarenkow/contagem-lote-foco/pkg/contracts/domain"
)

// CombinedRequest asks for a sales report, a timing report, or both.
// With Join set, the timing report keeps only the orders of the sales report.
type CombinedRequest struct {
	Sales  *dataprocessing.SalesRequest
	Timing *dataprocessing.TimingRequest
	Join   bool
}

// CombinedReport holds the reports built for a CombinedRequest
type CombinedReport struct {
	Sales  *domain.SalesReport  `json:"sales,omitempty"`
	Timing *domain.TimingReport `json:"timing,omitempty"`
}

// ReportService builds reports with tracing and metrics around the processor
type ReportService struct {
	processor     *dataprocessing.Processor
	exporter      *exporter.Exporter
	tracer        trace.Tracer
	metrics       *infrastructure.BusinessMetrics
	logger        *slog.Logger
	charset       string
	maxInputBytes int64
}

// ReportServiceOption configures a ReportService
type ReportServiceOption func(*ReportService)

// WithTracer sets the tracer used for report spans
func WithTracer(tracer trace.Tracer) ReportServiceOption {
	return func(s *ReportService) {
		if tracer != nil {
			s.tracer = tracer
		}
	}
}

// WithMetrics sets the instruments that record report outcomes
func WithMetrics(metrics *infrastructure.BusinessMetrics) ReportServiceOption {
	return func(s *ReportService) {
		s.metrics = metrics
	}
}

// WithInputLimits sets the upload charset and size limit. A limit <= 0 disables it.
func WithInputLimits(charset string, maxInputBytes int64) ReportServiceOption {
	return func(s *ReportService) {
		s.charset = charset
		s.maxInputBytes = maxInputBytes
	}
}

// NewReportService creates a report service
func NewReportService(processor *dataprocessing.Processor, exp *exporter.Exporter, logger *slog.Logger, opts ...ReportServiceOption) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	if exp == nil {
		exp = exporter.NewExporter(logger)
	}

	s := &ReportService{
		processor: processor,
		exporter:  exp,
		tracer:    otel.Tracer(infrastructure.MeterName),
		logger:    infrastructure.WithComponent(logger, "report_service"),
		charset:   dataprocessing.CharsetAuto,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Processor returns the underlying report engine
func (s *ReportService) Processor() *dataprocessing.Processor {
	return s.processor
}

// Sales builds a sales report inside a report.sales span
func (s *ReportService) Sales(ctx context.Context, req dataprocessing.SalesRequest) (*domain.SalesReport, error) {
	ctx, span := s.tracer.Start(infrastructure.EnsureTraceID(ctx), "report.sales", trace.WithAttributes(
		attribute.String("report.event_code", req.EventCode),
		attribute.String("report.photographer_code", req.PhotographerCode),
		attribute.Int("report.input_bytes", len(req.Text)),
	))
	defer span.End()

	start := time.Now()
	report, err := s.processor.BuildSales(ctx, req)

	outcome := infrastructure.ReportOutcome{
		Kind:       "sales",
		Duration:   time.Since(start),
		InputBytes: len(req.Text),
		Err:        err,
	}
	if report != nil {
		outcome.LinesMatched = report.Totals.LinesMatched
		outcome.MalformedCodes = countAdvisories(report.Advisories, domain.AdvisoryMalformedCode)
		span.SetAttributes(
			attribute.String("report.prefix", report.Prefix),
			attribute.Int("report.records", len(report.Records)),
			attribute.Int("report.lots", len(report.Lots)),
		)
	}
	infrastructure.RecordReportMetrics(ctx, s.metrics, outcome)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.WarnContext(ctx, "sales report failed",
			slog.String("event_code", req.EventCode),
			slog.String("error", err.Error()))
		return nil, err
	}

	s.logger.InfoContext(ctx, "sales report built",
		slog.String("prefix", report.Prefix),
		slog.Int("records", len(report.Records)),
		slog.Int("lots", len(report.Lots)),
		slog.Int("advisories", len(report.Advisories)),
		slog.Duration("duration", outcome.Duration))
	return report, nil
}

// Timing builds a timing report inside a report.timing span
func (s *ReportService) Timing(ctx context.Context, req dataprocessing.TimingRequest) (*domain.TimingReport, error) {
	ctx, span := s.tracer.Start(infrastructure.EnsureTraceID(ctx), "report.timing", trace.WithAttributes(
		attribute.Int("report.input_bytes", len(req.Text)),
		attribute.Bool("report.has_reference", req.Reference != nil),
		attribute.Bool("report.restricted", req.RestrictTo != nil),
	))
	defer span.End()

	start := time.Now()
	report, err := s.processor.BuildTiming(ctx, req)

	outcome := infrastructure.ReportOutcome{
		Kind:       "timing",
		Duration:   time.Since(start),
		InputBytes: len(req.Text),
		Err:        err,
	}
	if report != nil {
		outcome.TimestampsSkipped = report.Skipped
		span.SetAttributes(
			attribute.Int("report.orders", len(report.Orders)),
			attribute.Int("report.before_release", report.BeforeRelease),
		)
	}
	infrastructure.RecordReportMetrics(ctx, s.metrics, outcome)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		s.logger.WarnContext(ctx, "timing report failed", slog.String("error", err.Error()))
		return nil, err
	}

	s.logger.InfoContext(ctx, "timing report built",
		slog.Int("orders", len(report.Orders)),
		slog.Int("bucketed", report.Bucketed),
		slog.Int("skipped", report.Skipped),
		slog.Duration("duration", outcome.Duration))
	return report, nil
}

// Combined builds the requested reports. With Join set and no explicit
// restriction, timing is restricted to the orders of the sales report.
func (s *ReportService) Combined(ctx context.Context, req CombinedRequest) (*CombinedReport, error) {
	if req.Sales == nil && req.Timing == nil {
		return nil, apierrors.NewAppValidationError("request needs a sales or timing section", ErrNothingRequested)
	}

	out := &CombinedReport{}
	if req.Sales != nil {
		sales, err := s.Sales(ctx, *req.Sales)
		if err != nil {
			return nil, err
		}
		out.Sales = sales
	}

	if req.Timing != nil {
		timingReq := *req.Timing
		if req.Join && out.Sales != nil && timingReq.RestrictTo == nil {
			timingReq.RestrictTo = out.Sales.OrderNumbers()
		}
		timing, err := s.Timing(ctx, timingReq)
		if err != nil {
			return nil, err
		}
		out.Timing = timing
	}

	return out, nil
}

// DecodeUpload converts uploaded bytes to text using the configured charset.
// The advisory is non-nil when the input was not UTF-8.
func (s *ReportService) DecodeUpload(ctx context.Context, data []byte) (string, *domain.Advisory, error) {
	if len(data) == 0 {
		return "", nil, apierrors.NewInputError("upload is empty", ErrEmptyInput)
	}
	if s.maxInputBytes > 0 && int64(len(data)) > s.maxInputBytes {
		return "", nil, fmt.Errorf("upload of %d bytes: %w", len(data), &http.MaxBytesError{Limit: s.maxInputBytes})
	}

	text, used, err := dataprocessing.DecodeInput(data, s.charset)
	if err != nil {
		return "", nil, apierrors.NewInputError("cannot decode upload", err)
	}

	s.logger.DebugContext(ctx, "upload decoded",
		slog.String("charset", used),
		slog.Int("bytes", len(data)))

	if used == dataprocessing.CharsetUTF8 {
		return text, nil, nil
	}
	return text, &domain.Advisory{
		Code:    domain.AdvisoryInputDecoded,
		Message: fmt.Sprintf("input was decoded as %s", used),
		Value:   used,
	}, nil
}

// UploadSales decodes an uploaded export and builds its sales report
func (s *ReportService) UploadSales(ctx context.Context, data []byte, req dataprocessing.SalesRequest) (*domain.SalesReport, error) {
	text, advisory, err := s.DecodeUpload(ctx, data)
	if err != nil {
		return nil, err
	}

	req.Text = text
	report, err := s.Sales(ctx, req)
	if err != nil {
		return nil, err
	}
	if advisory != nil {
		report.Advisories = append([]domain.Advisory{*advisory}, report.Advisories...)
	}
	return report, nil
}

// ExportSales writes the sales report in the given format
func (s *ReportService) ExportSales(ctx context.Context, w io.Writer, format exporter.Format, report *domain.SalesReport) error {
	_, span := s.tracer.Start(ctx, "report.export", trace.WithAttributes(
		attribute.String("export.format", string(format)),
	))
	defer span.End()

	if err := s.exporter.Sales(w, format, report); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return apierrors.NewExportError(fmt.Sprintf("%s export failed", format), err)
	}
	return nil
}

// ExportTiming writes the timing report in the given format
func (s *ReportService) ExportTiming(ctx context.Context, w io.Writer, format exporter.Format, report *domain.TimingReport) error {
	_, span := s.tracer.Start(ctx, "report.export", trace.WithAttributes(
		attribute.String("export.format", string(format)),
	))
	defer span.End()

	if err := s.exporter.Timing(w, format, report); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return apierrors.NewExportError(fmt.Sprintf("%s export failed", format), err)
	}
	return nil
}

func countAdvisories(advisories []domain.Advisory, code string) int {
	n := 0
	for _, a := range advisories {
		if a.Code == code {
			n++
		}
	}
	return n
}
