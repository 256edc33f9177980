package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/andrejarenkow/contagem-lote-foco/internal/dataprocessing"
	apierrors "github.com/andrejarenkow/contagem-lote-foco/internal/errors"
	"github.com/andrejarenkow/contagem-lote-foco/internal/infrastructure"
)

// Validator decodes and validates request payloads using struct tags
type Validator struct {
	validate     *validator.Validate
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	maxBodySize  int64
}

// NewValidator creates a validator that rejects bodies larger than maxBodySize
func NewValidator(logger *slog.Logger, errorHandler *apierrors.ErrorHandler, maxBodySize int64) *Validator {
	v := validator.New()

	_ = v.RegisterValidation("eventcode", isEventCode)
	_ = v.RegisterValidation("reftime", isReferenceTime)
	_ = v.RegisterValidation("exportformat", isExportFormat)

	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		if name == "-" {
			return ""
		}
		return name
	})

	if logger == nil {
		logger = slog.Default()
	}

	return &Validator{
		validate:     v,
		logger:       infrastructure.WithComponent(logger, "validation"),
		errorHandler: errorHandler,
		maxBodySize:  maxBodySize,
	}
}

// MaxBodySize returns the configured request body limit
func (m *Validator) MaxBodySize() int64 {
	return m.maxBodySize
}

// LimitBody caps the request body for every non-GET request
func (m *Validator) LimitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}

		if m.maxBodySize > 0 && r.ContentLength > m.maxBodySize {
			m.errorHandler.HandleError(w, r, &http.MaxBytesError{Limit: m.maxBodySize})
			return
		}
		if m.maxBodySize > 0 && r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, m.maxBodySize)
		}

		next.ServeHTTP(w, r)
	})
}

// DecodeJSON reads the request body into dst and validates it
func (m *Validator) DecodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return maxBytesErr
		}
		if errors.Is(err, io.EOF) {
			return apierrors.New(http.StatusBadRequest, "INVALID_JSON", "Request body is empty")
		}
		m.logger.DebugContext(r.Context(), "invalid JSON body",
			slog.String("error", err.Error()),
			slog.String("request_id", GetRequestID(r.Context())),
		)
		return apierrors.NewWithDetails(http.StatusBadRequest, "INVALID_JSON", "Request body contains invalid JSON", err.Error())
	}
	return m.ValidateStruct(dst)
}

// ValidateStruct validates a struct and returns validation errors
func (m *Validator) ValidateStruct(v interface{}) error {
	err := m.validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apierrors.InvalidRequestWithError(err)
	}

	validationErrors := make([]apierrors.ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		validationErrors = append(validationErrors, apierrors.ValidationError{
			Field:   fe.Field(),
			Message: formatValidationError(fe),
		})
	}
	return apierrors.NewValidationErrors(validationErrors)
}

// ContentTypeValidator ensures requests have proper content type
func ContentTypeValidator(errorHandler *apierrors.ErrorHandler, contentTypes ...string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			contentType := r.Header.Get("Content-Type")
			for _, allowed := range contentTypes {
				if strings.HasPrefix(contentType, allowed) {
					next.ServeHTTP(w, r)
					return
				}
			}

			errorHandler.HandleError(w, r, apierrors.NewWithDetails(
				http.StatusUnsupportedMediaType,
				"UNSUPPORTED_MEDIA_TYPE",
				"Unsupported content type",
				map[string]interface{}{
					"content_type": contentType,
					"allowed":      contentTypes,
				},
			))
		})
	}
}

func formatValidationError(err validator.FieldError) string {
	field := err.Field()
	param := err.Param()

	switch err.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, strings.ReplaceAll(param, " ", ", "))
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, param)
	case "eventcode":
		return fmt.Sprintf("%s must not be blank or contain whitespace", field)
	case "reftime":
		return fmt.Sprintf("%s must be a date like %s", field, dataprocessing.ReferenceTimeLayout)
	case "exportformat":
		return fmt.Sprintf("%s must be one of: json, csv, xlsx", field)
	default:
		return fmt.Sprintf("%s failed %s validation", field, err.Tag())
	}
}

// isEventCode accepts a non-blank code without inner whitespace
func isEventCode(fl validator.FieldLevel) bool {
	code := strings.TrimSpace(fl.Field().String())
	return code != "" && !strings.ContainsAny(code, " \t\r\n")
}

// isReferenceTime accepts an empty value or any layout ParseReference understands
func isReferenceTime(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if strings.TrimSpace(value) == "" {
		return true
	}
	_, err := dataprocessing.ParseReference(value)
	return err == nil
}

func isExportFormat(fl validator.FieldLevel) bool {
	switch strings.ToLower(strings.TrimSpace(fl.Field().String())) {
	case "", "json", "csv", "xlsx":
		return true
	}
	return false
}
