package middleware

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrejarenkow/contagem-lote-foco/internal/infrastructure"
)

func TestOTelMiddleware(t *testing.T) {
	providers, err := infrastructure.InitializeOTel(&infrastructure.OTelConfig{
		ServiceName:   "test",
		Environment:   "test",
		TraceExporter: "none",
		EnableMetrics: true,
		EnableTracing: true,
		SampleRatio:   1,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(func() { _ = providers.Shutdown(context.Background()) })

	otelMW, err := NewOTelMiddleware(providers)
	require.NoError(t, err)
	require.NotNil(t, otelMW.Metrics())

	var traceID string

	r := chi.NewRouter()
	r.Use(otelMW.Handler)
	r.Get("/api/reports/{kind}", func(w http.ResponseWriter, r *http.Request) {
		traceID = infrastructure.GetTraceID(r.Context())
		w.WriteHeader(http.StatusAccepted)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/reports/sales", nil))
	require.Equal(t, http.StatusAccepted, rec.Code)

	assert.Len(t, traceID, 32)

	scrape := httptest.NewRecorder()
	providers.PrometheusHTTP.ServeHTTP(scrape, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body := scrape.Body.String()
	assert.Contains(t, body, "http_requests_total")
	assert.Contains(t, body, `route="/api/reports/{kind}"`)
	assert.Contains(t, body, `status_code="202"`)
}
