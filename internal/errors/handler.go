package errors

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime"
	"runtime/debug"

	"github.com/go-chi/render"

	"github.com/andrejarenkow/contagem-lote-foco/internal/dataprocessing"
	"github.com/andrejarenkow/contagem-lote-foco/internal/infrastructure"
)

// Common error types following RFC 7807
const (
	TypeValidation       = "/errors/validation"
	TypeNotFound         = "/errors/not-found"
	TypeMethodNotAllowed = "/errors/method-not-allowed"
	TypeRateLimit        = "/errors/rate-limit"
	TypeInternal         = "/errors/internal"
	TypeServiceDown      = "/errors/service-unavailable"
	TypeTimeout          = "/errors/timeout"
	TypePayloadTooLarge  = "/errors/payload-too-large"
	TypeUnsupportedMedia = "/errors/unsupported-media-type"
)

// Report error types
const (
	TypeMalformedCode    = "/errors/report/malformed-code"
	TypeMissingEvent     = "/errors/report/missing-event-code"
	TypeInvalidTotal     = "/errors/report/invalid-total-value"
	TypeInvalidReference = "/errors/report/invalid-reference"
	TypeInputDecoding    = "/errors/report/input-decoding"
	TypeExportFailed     = "/errors/report/export-failed"
)

// MalformedCodeDetail describes one rejected product code
type MalformedCodeDetail struct {
	Code   string `json:"code"`
	Line   int    `json:"line"`
	Offset int    `json:"offset"`
}

// ErrorHandler provides centralized error handling
type ErrorHandler struct {
	logger       *slog.Logger
	includeStack bool
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *slog.Logger, includeStack bool) *ErrorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ErrorHandler{
		logger:       infrastructure.WithComponent(logger, "error_handler"),
		includeStack: includeStack,
	}
}

// HandleError converts any error to RFC 7807 format and responds
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	traceID := infrastructure.GetTraceID(r.Context())
	problem := h.ErrorToProblem(err, r)

	level := slog.LevelWarn
	if problem.Status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	h.logger.Log(r.Context(), level, "request failed",
		slog.String("error", err.Error()),
		slog.Int("status", problem.Status),
		slog.String("type", problem.Type),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	if traceID != "" {
		problem.WithExtension("trace_id", traceID)
	}
	if h.includeStack && problem.Status >= http.StatusInternalServerError {
		problem.WithExtension("stack", getStackTrace())
	}

	render.Render(w, r, problem)
}

// ErrorToProblem converts an error to RFC 7807 Problem Details
func (h *ErrorHandler) ErrorToProblem(err error, r *http.Request) *ProblemDetails {
	instance := r.URL.Path

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return NewProblemDetails(
			http.StatusGatewayTimeout,
			TypeTimeout,
			"Request Timeout",
			"The request took too long to process and was cancelled",
			instance,
		)
	}

	var problem *ProblemDetails
	if errors.As(err, &problem) {
		return problem
	}

	var batchErr *dataprocessing.MalformedBatchError
	if errors.As(err, &batchErr) {
		details := make([]MalformedCodeDetail, 0, len(batchErr.Errors))
		for _, e := range batchErr.Errors {
			details = append(details, MalformedCodeDetail{Code: e.Code, Line: e.Line, Offset: e.Offset})
		}
		return NewProblemDetails(
			http.StatusUnprocessableEntity,
			TypeMalformedCode,
			"Malformed Product Codes",
			fmt.Sprintf("%d product code(s) are too short to carry a lot label", len(details)),
			instance,
		).WithExtension("malformed_codes", details)
	}

	if errors.Is(err, dataprocessing.ErrMissingEventCode) {
		return NewProblemDetails(
			http.StatusBadRequest,
			TypeMissingEvent,
			"Missing Event Code",
			"An event code is required to select the sales records",
			instance,
		)
	}

	if errors.Is(err, dataprocessing.ErrInvalidTotalValue) {
		return NewProblemDetails(
			http.StatusBadRequest,
			TypeInvalidTotal,
			"Invalid Total Value",
			"The total value must be a finite number greater than or equal to zero",
			instance,
		)
	}

	if errors.Is(err, dataprocessing.ErrInvalidReference) {
		return NewProblemDetails(
			http.StatusBadRequest,
			TypeInvalidReference,
			"Invalid Reference Time",
			err.Error(),
			instance,
		).WithExtension("accepted_formats", []string{
			dataprocessing.ReferenceTimeLayout,
			dataprocessing.OrderTimeLayout,
			"RFC3339",
		})
	}

	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return NewProblemDetails(
			http.StatusRequestEntityTooLarge,
			TypePayloadTooLarge,
			"Payload Too Large",
			fmt.Sprintf("The request body exceeds the maximum of %d bytes", maxBytesErr.Limit),
			instance,
		)
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return h.apiErrorToProblem(apiErr, r)
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return h.appErrorToProblem(appErr, r)
	}

	return NewProblemDetails(
		http.StatusInternalServerError,
		TypeInternal,
		"Internal Server Error",
		"An unexpected error occurred while processing your request",
		instance,
	)
}

// apiErrorToProblem converts APIError to ProblemDetails
func (h *ErrorHandler) apiErrorToProblem(apiErr *APIError, r *http.Request) *ProblemDetails {
	problemType := TypeInternal
	switch apiErr.ErrorCode {
	case "VALIDATION_FAILED", "INVALID_REQUEST", "INVALID_JSON", "MISSING_PARAMETER", "INVALID_PARAMETER", "UNSUPPORTED_FORMAT":
		problemType = TypeValidation
	case "NOT_FOUND":
		problemType = TypeNotFound
	case "METHOD_NOT_ALLOWED":
		problemType = TypeMethodNotAllowed
	case "PAYLOAD_TOO_LARGE":
		problemType = TypePayloadTooLarge
	case "UNSUPPORTED_MEDIA_TYPE":
		problemType = TypeUnsupportedMedia
	case "RATE_LIMIT_EXCEEDED":
		problemType = TypeRateLimit
	case "SERVICE_UNAVAILABLE":
		problemType = TypeServiceDown
	case "EXPORT_FAILED":
		problemType = TypeExportFailed
	}

	problem := NewProblemDetails(
		apiErr.StatusCode,
		problemType,
		http.StatusText(apiErr.StatusCode),
		apiErr.Message,
		r.URL.Path,
	).WithExtension("error_code", apiErr.ErrorCode)

	if apiErr.Details != nil {
		problem.WithExtension("details", apiErr.Details)
	}

	return problem
}

// appErrorToProblem maps AppError types to HTTP problems
func (h *ErrorHandler) appErrorToProblem(appErr *AppError, r *http.Request) *ProblemDetails {
	status, problemType, title := http.StatusInternalServerError, TypeInternal, "Internal Server Error"

	switch appErr.Type {
	case ErrTypeValidation:
		status, problemType, title = http.StatusBadRequest, TypeValidation, "Validation Failed"
	case ErrTypeInput:
		status, problemType, title = http.StatusBadRequest, TypeInputDecoding, "Unreadable Input"
	case ErrTypeExport:
		problemType, title = TypeExportFailed, "Export Failed"
	}

	detail := appErr.Message
	if status < http.StatusInternalServerError && appErr.Cause != nil {
		detail = appErr.Message + ": " + appErr.Cause.Error()
	}

	problem := NewProblemDetails(status, problemType, title, detail, r.URL.Path)
	for k, v := range appErr.Context {
		problem.WithExtension(k, v)
	}
	return problem
}

// HandlePanic recovers from panics and returns RFC 7807 error
func (h *ErrorHandler) HandlePanic(w http.ResponseWriter, r *http.Request, recovered interface{}) {
	traceID := infrastructure.GetTraceID(r.Context())

	h.logger.ErrorContext(r.Context(), "panic recovered",
		slog.Any("panic", recovered),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
		slog.String("stack", string(debug.Stack())),
	)

	problem := NewProblemDetails(
		http.StatusInternalServerError,
		TypeInternal,
		"Internal Server Error",
		"An unexpected error occurred",
		r.URL.Path,
	).WithExtension("trace_id", traceID)

	if h.includeStack {
		problem.WithExtension("panic", PanicRecovery{
			Message: fmt.Sprintf("%v", recovered),
			Stack:   getStackTrace(),
		})
	}

	render.Render(w, r, problem)
}

// NotFound returns a standard 404 error
func (h *ErrorHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	problem := NewProblemDetails(
		http.StatusNotFound,
		TypeNotFound,
		"Not Found",
		"The requested resource was not found",
		r.URL.Path,
	).WithExtension("trace_id", infrastructure.GetTraceID(r.Context()))

	render.Render(w, r, problem)
}

// MethodNotAllowed returns a standard 405 error
func (h *ErrorHandler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	problem := NewProblemDetails(
		http.StatusMethodNotAllowed,
		TypeMethodNotAllowed,
		"Method Not Allowed",
		fmt.Sprintf("Method %s is not allowed for this endpoint", r.Method),
		r.URL.Path,
	).WithExtension("trace_id", infrastructure.GetTraceID(r.Context()))

	render.Render(w, r, problem)
}

// getStackTrace returns the current stack trace
func getStackTrace() string {
	buf := make([]byte, 1024*8)
	n := runtime.Stack(buf, false)
	return string(buf[:n])
}
