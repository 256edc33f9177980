package http

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "github.com/andrejarenkow/contagem-lote-foco/internal/errors"
	"github.com/andrejarenkow/contagem-lote-foco/internal/exporter"
	"github.com/andrejarenkow/contagem-lote-foco/internal/infrastructure"
	"github.com/andrejarenkow/contagem-lote-foco/internal/middleware"
	"github.com/andrejarenkow/contagem-lote-foco/internal/validation"
	"github.com/andrejarenkow/contagem-lote-foco/pkg/contracts/domain"
)

// multipartMemory is how much of an upload is buffered in memory before
// spilling to a temporary file
const multipartMemory = 8 << 20

// ReportHandler serves the report endpoints
type ReportHandler struct {
	service      ReportServiceInterface
	validator    *middleware.Validator
	files        *validation.FileValidator
	errorHandler *apierrors.ErrorHandler
	logger       *slog.Logger
}

// CombinedResponse is the body returned by the combined endpoint
type CombinedResponse struct {
	Sales  *domain.SalesReport  `json:"sales,omitempty"`
	Timing *domain.TimingReport `json:"timing,omitempty"`
}

// NewReportHandler creates a report handler
func NewReportHandler(service ReportServiceInterface, validator *middleware.Validator, errorHandler *apierrors.ErrorHandler, logger *slog.Logger) *ReportHandler {
	if logger == nil {
		logger = slog.Default()
	}
	logger = infrastructure.WithComponent(logger, "report_handler")
	return &ReportHandler{
		service:      service,
		validator:    validator,
		files:        validation.NewFileValidator(logger, validator.MaxBodySize()),
		errorHandler: errorHandler,
		logger:       logger,
	}
}

// Routes returns the report routes
func (h *ReportHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(h.validator.LimitBody)

	r.Group(func(r chi.Router) {
		r.Use(middleware.ContentTypeValidator(h.errorHandler, "application/json"))
		r.Post("/", h.Combined)
		r.Post("/sales", h.Sales)
		r.Post("/timing", h.Timing)
		r.Post("/export", h.Export)
	})

	r.With(middleware.ContentTypeValidator(h.errorHandler, "multipart/form-data")).
		Post("/upload", h.Upload)

	return r
}

// Sales handles POST /api/reports/sales
func (h *ReportHandler) Sales(w http.ResponseWriter, r *http.Request) {
	var body SalesRequestBody
	if err := h.validator.DecodeJSON(r, &body); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	report, err := h.service.Sales(r.Context(), body.ToRequest())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, exporter.SalesView(report))
}

// Timing handles POST /api/reports/timing
func (h *ReportHandler) Timing(w http.ResponseWriter, r *http.Request) {
	var body TimingRequestBody
	if err := h.validator.DecodeJSON(r, &body); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	req, err := body.ToRequest()
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	report, err := h.service.Timing(r.Context(), req)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, exporter.TimingView(report))
}

// Combined handles POST /api/reports
func (h *ReportHandler) Combined(w http.ResponseWriter, r *http.Request) {
	var body CombinedRequestBody
	if err := h.validator.DecodeJSON(r, &body); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	req, err := body.ToRequest()
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	out, err := h.service.Combined(r.Context(), req)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, CombinedResponse{
		Sales:  exporter.SalesView(out.Sales),
		Timing: exporter.TimingView(out.Timing),
	})
}

// Upload handles POST /api/reports/upload.
// The form carries the export in "file" next to the sales fields; an optional
// "format" field asks for a CSV or XLSX attachment instead of JSON.
func (h *ReportHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		h.errorHandler.HandleError(w, r, uploadError(err))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	body, err := salesBodyFromForm(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	if err := h.validator.ValidateStruct(&body); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	format, err := requestedFormat(body.Format, exporter.FormatJSON)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("file", "file is required"))
		return
	}
	defer file.Close()

	if err := h.files.ValidateName(header.Filename); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("file", err.Error()))
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		h.errorHandler.HandleError(w, r, uploadError(err))
		return
	}

	logger := infrastructure.LoggerWithContext(r.Context(), h.logger)
	logger.DebugContext(r.Context(), "upload received",
		slog.String("filename", header.Filename),
		slog.Int64("size", header.Size))

	report, err := h.service.UploadSales(r.Context(), data, body.ToRequest())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	if format == exporter.FormatJSON {
		render.JSON(w, r, exporter.SalesView(report))
		return
	}
	h.writeAttachment(w, r, format, body.EventCode, report)
}

// Export handles POST /api/reports/export?format=csv|xlsx.
// The query parameter wins over a "format" in the body.
func (h *ReportHandler) Export(w http.ResponseWriter, r *http.Request) {
	var body SalesRequestBody
	if err := h.validator.DecodeJSON(r, &body); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	requested := r.URL.Query().Get("format")
	if strings.TrimSpace(requested) == "" {
		requested = body.Format
	}
	format, err := requestedFormat(requested, exporter.FormatCSV)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	report, err := h.service.Sales(r.Context(), body.ToRequest())
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	h.writeAttachment(w, r, format, body.EventCode, report)
}

// writeAttachment renders into a buffer first so a failed export still
// produces a problem response
func (h *ReportHandler) writeAttachment(w http.ResponseWriter, r *http.Request, format exporter.Format, eventCode string, report *domain.SalesReport) {
	var buf bytes.Buffer
	if err := h.service.ExportSales(r.Context(), &buf, format, report); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	filename := format.Filename("lotes-" + sanitizeFilename(eventCode))
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		logger := infrastructure.LoggerWithContext(r.Context(), h.logger)
		logger.WarnContext(r.Context(), "failed to write export",
			slog.String("format", string(format)),
			slog.String("error", err.Error()))
	}
}

func requestedFormat(value string, fallback exporter.Format) (exporter.Format, error) {
	if strings.TrimSpace(value) == "" {
		return fallback, nil
	}
	format, err := exporter.ParseFormat(value)
	if err != nil {
		return "", apierrors.UnsupportedFormat(value)
	}
	return format, nil
}

func salesBodyFromForm(r *http.Request) (SalesRequestBody, error) {
	body := SalesRequestBody{
		PhotographerCode: r.FormValue("photographer_code"),
		EventCode:        r.FormValue("event_code"),
		Format:           r.FormValue("format"),
	}

	if v := strings.TrimSpace(r.FormValue("total_value")); v != "" {
		// Accept the decimal comma of pt-BR spreadsheets
		total, err := strconv.ParseFloat(strings.Replace(v, ",", ".", 1), 64)
		if err != nil {
			return body, apierrors.ErrValidation("total_value", "total_value must be a number")
		}
		body.TotalValue = &total
	}

	if v := strings.TrimSpace(r.FormValue("strict")); v != "" {
		strict, err := strconv.ParseBool(v)
		if err != nil {
			return body, apierrors.ErrValidation("strict", "strict must be true or false")
		}
		body.Strict = &strict
	}

	return body, nil
}

// uploadError keeps size violations recognizable and reports the rest as bad input
func uploadError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return maxErr
	}
	return apierrors.InvalidRequestWithError(err)
}

func sanitizeFilename(name string) string {
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	if name == "" {
		return "report"
	}
	return name
}
