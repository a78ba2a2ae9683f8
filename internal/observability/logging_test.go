package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCorrelationIDRoundTrip(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, ExtractCorrelationID(ctx))

	ctx = WithCorrelationID(ctx, "req-123")
	assert.Equal(t, "req-123", ExtractCorrelationID(ctx))
}

func TestRepoLoggerCarriesCorrelationID(t *testing.T) {
	var buf bytes.Buffer
	prev := GlobalLogger
	GlobalLogger = &Logger{Logger: slog.New(slog.NewJSONHandler(&buf, nil))}
	defer func() { GlobalLogger = prev }()

	ctx := WithCorrelationID(context.Background(), "req-456")
	NewRepoLogger("widgets").LogMutation(ctx, "create", map[string]interface{}{"widget_id": "w1"})

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "widgets", line["table"])
	assert.Equal(t, "create", line["operation"])
	assert.Equal(t, "req-456", line["correlation_id"])
	assert.Equal(t, "w1", line["widget_id"])
}

func TestRepoLoggerErrorIncludesOperation(t *testing.T) {
	var buf bytes.Buffer
	prev := GlobalLogger
	GlobalLogger = &Logger{Logger: slog.New(slog.NewJSONHandler(&buf, nil))}
	defer func() { GlobalLogger = prev }()

	NewRepoLogger("widgets").LogError(context.Background(), assert.AnError, "delete")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "ERROR", line["level"])
	assert.Equal(t, "delete", line["operation"])
	assert.Equal(t, assert.AnError.Error(), line["error"])
}
