package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name        string
		level       string
		format      string
		enabled     zapcore.Level
		disabled    zapcore.Level
		expectError bool
	}{
		{name: "warn console", level: "warn", format: "console", enabled: zapcore.WarnLevel, disabled: zapcore.InfoLevel},
		{name: "debug json", level: "debug", format: "json", enabled: zapcore.DebugLevel, disabled: zapcore.DebugLevel - 1},
		{name: "upper case level", level: "ERROR", format: "json", enabled: zapcore.ErrorLevel, disabled: zapcore.WarnLevel},
		{name: "bad level", level: "verbose", format: "json", expectError: true},
		{name: "bad format", level: "info", format: "xml", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.level, tt.format)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, logger.Core().Enabled(tt.enabled))
			assert.False(t, logger.Core().Enabled(tt.disabled))
		})
	}
}

func TestInitTracing(t *testing.T) {
	t.Cleanup(func() { otel.SetTracerProvider(noop.NewTracerProvider()) })

	var buf bytes.Buffer
	shutdown, err := InitTracing(&buf, "test")
	require.NoError(t, err)

	_, span := otel.Tracer("scout-test").Start(context.Background(), "diagnose_batch")
	span.End()

	require.NoError(t, shutdown(context.Background()))
	assert.Contains(t, buf.String(), `"Name": "diagnose_batch"`)
	assert.Contains(t, buf.String(), "service.version")
}
