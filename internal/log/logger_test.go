package log

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigure_WritesJSONWithServiceAndComponent(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "debug", Output: &buf, Service: "gamma-test"})
	t.Cleanup(func() { Configure(Config{Level: "disabled", Output: &bytes.Buffer{}}) })

	l := WithComponent("service")
	l.Info().Msg("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "gamma-test", entry[FieldService])
	assert.Equal(t, "service", entry[FieldComponent])
	assert.Equal(t, "hello", entry["message"])
}

func TestConfigure_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "error", Output: &buf})
	t.Cleanup(func() { Configure(Config{Level: "disabled", Output: &bytes.Buffer{}}) })

	l := Base()
	l.Info().Msg("dropped")
	assert.Empty(t, buf.String())

	l.Error().Msg("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestWithContext_AddsCorrelationFields(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "debug", Output: &buf})
	t.Cleanup(func() { Configure(Config{Level: "disabled", Output: &bytes.Buffer{}}) })

	ctx := ContextWithSessionID(context.Background(), "sess-1")
	ctx = ContextWithJobID(ctx, "gen-1")
	l := WithContext(ctx, Base())
	l.Debug().Msg("poll")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "sess-1", entry[FieldSessionID])
	assert.Equal(t, "gen-1", entry[FieldJobID])
}

func TestContextHelpers_HandleMissingValues(t *testing.T) {
	assert.Empty(t, SessionIDFromContext(context.Background()))
	assert.Empty(t, JobIDFromContext(nil)) //nolint:staticcheck // nil context is part of the contract
}
