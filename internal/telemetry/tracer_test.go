package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider_DisabledInstallsNoop(t *testing.T) {
	p, err := NewProvider(context.Background(), Config{ServiceName: "gamma-cli"})
	require.NoError(t, err)
	assert.NoError(t, p.Shutdown(context.Background()))

	_, span := Tracer("test").Start(context.Background(), "noop")
	defer span.End()
	assert.False(t, span.SpanContext().IsValid())
}

func TestNewProvider_RejectsUnknownExporter(t *testing.T) {
	_, err := NewProvider(context.Background(), Config{ExporterType: "zipkin"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported exporter type")
}

func TestHTTPAttributes(t *testing.T) {
	attrs := HTTPAttributes("GET", "/generations/{id}", 200)
	require.Len(t, attrs, 3)
	assert.Equal(t, "GET", attrs[0].Value.AsString())
	assert.Equal(t, int64(200), attrs[2].Value.AsInt64())
}

func TestShutdown_NilProvider(t *testing.T) {
	var p *Provider
	assert.NoError(t, p.Shutdown(context.Background()))
}
