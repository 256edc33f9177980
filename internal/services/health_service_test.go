package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrejarenkow/contagem-lote-foco/internal/dataprocessing"
	"github.com/andrejarenkow/contagem-lote-foco/internal/shared/testutil"
)

func TestHealthService(t *testing.T) {
	logger, logs := testutil.NewTestLogger(t)
	hs := NewHealthService(BuildInfo{Version: "1.2.3", BuildID: "abc"}, logger)
	ctx := context.Background()

	assert.Equal(t, StatusOK, hs.HealthCheck(ctx).Status)

	live := hs.LivenessCheck(ctx)
	assert.Equal(t, StatusAlive, live.Status)
	assert.Contains(t, live.Runtime, "goroutines")

	version := hs.Version()
	assert.Equal(t, "1.2.3", version["version"])
	assert.Equal(t, "abc", version["build_id"])
	assert.NotContains(t, version, "build_time")

	t.Run("ready with processor", func(t *testing.T) {
		hs.RegisterCheck("processor", ProcessorCheck(dataprocessing.NewProcessor(logger, dataprocessing.DefaultOptions())))
		ready := hs.ReadinessCheck(ctx)
		assert.Equal(t, StatusReady, ready.Status)
		assert.Equal(t, StatusReady, ready.Services["processor"].Status)
	})

	t.Run("failing check", func(t *testing.T) {
		hs.RegisterCheck("telemetry", func(context.Context) error { return errors.New("exporter down") })
		ready := hs.ReadinessCheck(ctx)
		assert.Equal(t, StatusNotReady, ready.Status)
		require.Contains(t, ready.Services, "telemetry")
		assert.Equal(t, "exporter down", ready.Services["telemetry"].Message)
		assert.True(t, logs.ContainsMessage("readiness check failed"))
	})
}

func TestProcessorCheckNil(t *testing.T) {
	assert.Error(t, ProcessorCheck(nil)(context.Background()))
}
