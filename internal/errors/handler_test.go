package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrejarenkow/contagem-lote-foco/internal/dataprocessing"
	"github.com/andrejarenkow/contagem-lote-foco/internal/infrastructure"
	"github.com/andrejarenkow/contagem-lote-foco/internal/shared/testutil"
)

func decodeProblem(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestErrorHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
		check      func(*testing.T, map[string]any)
	}{
		{
			name: "malformed batch",
			err: &dataprocessing.MalformedBatchError{Errors: []*dataprocessing.MalformedCodeError{
				{Code: "LENSEV1", Offset: 7, Line: 2},
			}},
			wantStatus: http.StatusUnprocessableEntity,
			wantType:   TypeMalformedCode,
			check: func(t *testing.T, body map[string]any) {
				codes, ok := body["malformed_codes"].([]any)
				require.True(t, ok)
				require.Len(t, codes, 1)
				first := codes[0].(map[string]any)
				assert.Equal(t, "LENSEV1", first["code"])
				assert.Equal(t, 2.0, first["line"])
			},
		},
		{
			name:       "missing event code",
			err:        fmt.Errorf("build sales: %w", dataprocessing.ErrMissingEventCode),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeMissingEvent,
		},
		{
			name:       "invalid total value",
			err:        fmt.Errorf("build sales: %w", dataprocessing.ErrInvalidTotalValue),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeInvalidTotal,
		},
		{
			name: "invalid reference",
			err: func() error {
				_, err := dataprocessing.ParseReference("ontem")
				return err
			}(),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeInvalidReference,
			check: func(t *testing.T, body map[string]any) {
				assert.Contains(t, body, "accepted_formats")
			},
		},
		{
			name:       "body too large",
			err:        &http.MaxBytesError{Limit: 10},
			wantStatus: http.StatusRequestEntityTooLarge,
			wantType:   TypePayloadTooLarge,
		},
		{
			name:       "deadline exceeded",
			err:        context.DeadlineExceeded,
			wantStatus: http.StatusGatewayTimeout,
			wantType:   TypeTimeout,
		},
		{
			name:       "api validation error",
			err:        ErrValidation("event_code", "required"),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeValidation,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "VALIDATION_FAILED", body["error_code"])
				details := body["details"].(map[string]any)
				assert.Equal(t, "event_code", details["field"])
			},
		},
		{
			name:       "unsupported format",
			err:        UnsupportedFormat("pdf"),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeValidation,
		},
		{
			name:       "input app error",
			err:        NewInputError("cannot decode upload", fmt.Errorf("bad charset")),
			wantStatus: http.StatusBadRequest,
			wantType:   TypeInputDecoding,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, "cannot decode upload: bad charset", body["detail"])
			},
		},
		{
			name:       "export app error hides cause",
			err:        NewExportError("xlsx write failed", fmt.Errorf("disk secret")),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeExportFailed,
			check: func(t *testing.T, body map[string]any) {
				assert.NotContains(t, body["detail"], "disk secret")
			},
		},
		{
			name:       "unknown error",
			err:        fmt.Errorf("something odd"),
			wantStatus: http.StatusInternalServerError,
			wantType:   TypeInternal,
			check: func(t *testing.T, body map[string]any) {
				assert.NotContains(t, body["detail"], "something odd")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, _ := testutil.NewTestLogger(t)
			handler := NewErrorHandler(logger, false)

			req := httptest.NewRequest(http.MethodPost, "/api/reports/sales", nil)
			req = req.WithContext(infrastructure.WithTraceID(req.Context(), "trace-1"))
			rec := httptest.NewRecorder()

			handler.HandleError(rec, req, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeProblem(t, rec)
			assert.Equal(t, tt.wantType, body["type"])
			assert.Equal(t, float64(tt.wantStatus), body["status"])
			assert.Equal(t, "/api/reports/sales", body["instance"])
			assert.Equal(t, "trace-1", body["trace_id"])
			if tt.check != nil {
				tt.check(t, body)
			}
		})
	}
}

func TestErrorHandler_HandleErrorNil(t *testing.T) {
	handler := NewErrorHandler(nil, false)
	rec := httptest.NewRecorder()
	handler.HandleError(rec, httptest.NewRequest(http.MethodGet, "/", nil), nil)
	assert.Equal(t, 0, rec.Body.Len())
}

func TestErrorHandler_LogsServerErrorsAtErrorLevel(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, true)

	rec := httptest.NewRecorder()
	handler.HandleError(rec, httptest.NewRequest(http.MethodGet, "/x", nil), fmt.Errorf("boom"))

	assert.True(t, logs.ContainsAttr("status", 500))
	assert.True(t, logs.ContainsAttr("component", "error_handler"))
	assert.Contains(t, decodeProblem(t, rec), "stack")
}

func TestRecoveryMiddleware(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	handler := NewErrorHandler(logger, false)

	panicky := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("kaboom")
	})

	rec := httptest.NewRecorder()
	RecoveryMiddleware(handler)(panicky).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeProblem(t, rec)
	assert.Equal(t, TypeInternal, body["type"])
	assert.NotContains(t, body, "panic")
	assert.True(t, logs.ContainsMessage("panic recovered"))
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	handler := NewErrorHandler(nil, false)

	rec := httptest.NewRecorder()
	handler.NotFound(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, TypeNotFound, decodeProblem(t, rec)["type"])

	rec = httptest.NewRecorder()
	handler.MethodNotAllowed(rec, httptest.NewRequest(http.MethodDelete, "/api/reports/sales", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.True(t, strings.Contains(decodeProblem(t, rec)["detail"].(string), "DELETE"))
}

func TestProblemDetailsMarshalJSON(t *testing.T) {
	pd := NewProblemDetails(http.StatusBadRequest, TypeValidation, "Bad", "detail", "/x").
		WithExtension("status", 999).
		WithExtension("field", "event_code")

	data, err := json.Marshal(pd)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, 400.0, body["status"])
	assert.Equal(t, "event_code", body["field"])
	assert.Equal(t, "Bad: detail", pd.Error())
}

func TestAppError(t *testing.T) {
	cause := fmt.Errorf("root")
	err := NewInputError("bad line", cause).WithContext("line", 3)

	assert.Equal(t, "[INPUT] bad line: root", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, 3, err.Context["line"])
	assert.Equal(t, "[CONFIG] load config: missing", NewConfigError("load config", fmt.Errorf("missing")).Error())
}
