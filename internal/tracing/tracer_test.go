package tracing

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

func TestNewProvider_DisabledReturnsNoop(t *testing.T) {
	provider, err := NewProvider(Config{Enabled: false})
	require.NoError(t, err)
	require.False(t, provider.Enabled())
	require.NotNil(t, provider.Tracer())
	require.NoError(t, provider.Shutdown(context.Background()))

	// The no-op tracer must be usable without a provider.
	_, span := provider.Tracer().Start(context.Background(), "lookup")
	span.End()
}

func TestNewProvider_UnsupportedExporter(t *testing.T) {
	_, err := NewProvider(Config{Enabled: true, Exporter: "jaeger"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "unsupported exporter")
}

func TestNewProvider_FileExporterRequiresPath(t *testing.T) {
	_, err := NewProvider(Config{Enabled: true, Exporter: "file"})
	require.Error(t, err)
	require.Contains(t, err.Error(), "file_path")
}

func TestFileExporter_WritesJSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "traces", "traces.jsonl")

	provider, err := NewProvider(Config{
		Enabled:    true,
		Exporter:   "file",
		FilePath:   path,
		SampleRate: 1.0,
	})
	require.NoError(t, err)

	ctx := context.Background()
	_, span := provider.Tracer().Start(ctx, "registry.lookup",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("cnpj.code", "11222333000181")),
	)
	span.AddEvent("rate_limited", trace.WithAttributes(attribute.Int("attempt", 1)))
	span.End()

	require.NoError(t, provider.Shutdown(ctx))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var record SpanRecord
	require.NoError(t, json.Unmarshal(data, &record))
	require.Equal(t, "registry.lookup", record.Name)
	require.Equal(t, "CLIENT", record.Kind)
	require.Equal(t, "11222333000181", record.Attributes["cnpj.code"])
	require.Len(t, record.Events, 1)
	require.Equal(t, "rate_limited", record.Events[0].Name)
}
