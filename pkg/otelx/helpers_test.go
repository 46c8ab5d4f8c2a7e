package otelx

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

func newTestSpan(t *testing.T) (trace.Span, *tracetest.InMemoryExporter) {
	t.Helper()

	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	_, span := provider.Tracer("test").Start(context.TODO(), "test")
	return span, exporter
}

type testStringer struct{ val string }

func (ts testStringer) String() string {
	return ts.val
}

func TestSetSpanAttrs(t *testing.T) {
	t.Run("Nil span", func(t *testing.T) {
		SetSpanAttrs(nil, map[string]any{"key": "value"})
	})

	t.Run("Nil attrs", func(t *testing.T) {
		span, exporter := newTestSpan(t)

		SetSpanAttrs(span, nil)
		span.End()

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Empty(t, spans[0].Attributes)
	})

	t.Run("Empty attrs", func(t *testing.T) {
		span, exporter := newTestSpan(t)

		SetSpanAttrs(span, map[string]any{})
		span.End()

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Empty(t, spans[0].Attributes)
	})

	t.Run("Basic types", func(t *testing.T) {
		span, exporter := newTestSpan(t)

		SetSpanAttrs(span, map[string]any{
			"user.id":    "user-1",
			"user.email": "us****@example.com",
			"bool":       true,
			"int":        42,
		})
		span.End()

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)

		expected := []attribute.KeyValue{
			attribute.String("user.id", "user-1"),
			attribute.String("user.email", "us****@example.com"),
			attribute.Bool("bool", true),
			attribute.Int("int", 42),
		}
		for _, attr := range expected {
			assert.Contains(t, spans[0].Attributes, attr)
		}
	})

	t.Run("Pointer values", func(t *testing.T) {
		span, exporter := newTestSpan(t)

		val := "from-pointer"
		SetSpanAttrs(span, map[string]any{
			"ptr":    &val,
			"nilPtr": (*string)(nil),
		})
		span.End()

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Contains(t, spans[0].Attributes, attribute.String("ptr", "from-pointer"))
		assert.Contains(t, spans[0].Attributes, attribute.String("nilPtr", "<nil>"))
	})

	t.Run("UUID", func(t *testing.T) {
		span, exporter := newTestSpan(t)

		id := uuid.New()
		SetSpanAttrs(span, map[string]any{"event.id": id})
		span.End()

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Contains(t, spans[0].Attributes, attribute.String("event.id", id.String()))
	})

	t.Run("Stringer interface", func(t *testing.T) {
		span, exporter := newTestSpan(t)

		SetSpanAttrs(span, map[string]any{"stringer": testStringer{val: "custom"}})
		span.End()

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Contains(t, spans[0].Attributes, attribute.String("stringer", "custom"))
	})

	t.Run("Unsupported type", func(t *testing.T) {
		span, exporter := newTestSpan(t)

		SetSpanAttrs(span, map[string]any{
			"supported":   "value",
			"unsupported": make(chan int),
		})
		span.End()

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Contains(t, spans[0].Attributes, attribute.String("supported", "value"))
		assert.Contains(t, spans[0].Attributes, attribute.String("unsupported", "<unsupported type: chan int>"))
	})
}

func TestRecordSpanError(t *testing.T) {
	t.Run("Nil span", func(t *testing.T) {
		RecordSpanError(nil, errors.New("boom"), "desc")
	})

	t.Run("Nil error leaves span untouched", func(t *testing.T) {
		span, exporter := newTestSpan(t)

		RecordSpanError(span, nil, "desc")
		span.End()

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Unset, spans[0].Status.Code)
		assert.Empty(t, spans[0].Events)
	})

	t.Run("Records error with description", func(t *testing.T) {
		span, exporter := newTestSpan(t)

		RecordSpanError(span, errors.New("connection refused"), "failed to store verification record")
		span.End()

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Equal(t, codes.Error, spans[0].Status.Code)
		assert.Equal(t, "failed to store verification record", spans[0].Status.Description)
		require.Len(t, spans[0].Events, 1)
	})

	t.Run("Empty description falls back to error message", func(t *testing.T) {
		span, exporter := newTestSpan(t)

		RecordSpanError(span, errors.New("connection refused"), "")
		span.End()

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Equal(t, "connection refused", spans[0].Status.Description)
	})
}

type staticExtractor struct{ ctx context.Context }

func (s staticExtractor) Extract() context.Context {
	return s.ctx
}

func TestContextFromExtractor(t *testing.T) {
	t.Run("Nil extractor", func(t *testing.T) {
		assert.Equal(t, context.Background(), ContextFromExtractor(nil))
	})

	t.Run("Passes through the extracted context", func(t *testing.T) {
		exporter := tracetest.NewInMemoryExporter()
		provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
		ctx, span := provider.Tracer("test").Start(context.Background(), "origin")
		defer span.End()

		got := ContextFromExtractor(staticExtractor{ctx: ctx})
		assert.Equal(t, span.SpanContext(), trace.SpanContextFromContext(got))
	})
}
