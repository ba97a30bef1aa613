package otel

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/stacklok/instsrc/internal/errs"
)

func newRecorder(t *testing.T) (*tracetest.InMemoryExporter, trace.Tracer) {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return exporter, tp.Tracer("instsrc-test")
}

func attrValue(attrs []attribute.KeyValue, key attribute.Key) (attribute.Value, bool) {
	for _, kv := range attrs {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestStartSpan(t *testing.T) {
	t.Parallel()

	t.Run("nil tracer keeps the parent span", func(t *testing.T) {
		t.Parallel()
		_, tracer := newRecorder(t)
		parentCtx, parent := tracer.Start(context.Background(), "Manager.scan")
		defer parent.End()

		ctx, span := StartSpan(parentCtx, nil, "Manager.create")
		assert.Equal(t, parentCtx, ctx)
		assert.Equal(t, parent.SpanContext(), span.SpanContext())
	})

	t.Run("tracer records attributes", func(t *testing.T) {
		t.Parallel()
		exporter, tracer := newRecorder(t)

		_, span := StartSpan(context.Background(), tracer, "Manager.set_enabled",
			trace.WithAttributes(AttrSourceID.Int(4), AttrSourceURL.String("dir:///media")))
		span.End()

		spans := exporter.GetSpans()
		require.Len(t, spans, 1)
		assert.Equal(t, "Manager.set_enabled", spans[0].Name)
		id, ok := attrValue(spans[0].Attributes, AttrSourceID)
		require.True(t, ok)
		assert.Equal(t, int64(4), id.AsInt64())
	})
}

func TestRecordError(t *testing.T) {
	t.Parallel()

	partial := &errs.PartialError{Op: "open products"}
	partial.Add("/CD1", errs.Scan("dir:///media/CD1", nil))
	partial.Add("/CD2", errs.Scan("dir:///media/CD2", nil))

	tests := []struct {
		name       string
		err        error
		wantStatus codes.Code
		wantKind   string
		wantFailed int64
	}{
		{name: "nil error", err: nil, wantStatus: codes.Unset},
		{name: "unknown source", err: errs.NotFoundf("source %d", 9), wantStatus: codes.Error, wantKind: errs.KindNotFound},
		{name: "unreadable media", err: errs.Scan("dir:///gone", errors.New("no such file")), wantStatus: codes.Error, wantKind: errs.KindScan},
		{name: "partial scan", err: fmt.Errorf("scan: %w", partial), wantStatus: codes.Unset, wantKind: errs.KindPartial, wantFailed: 2},
		{name: "unknown filter", err: fmt.Errorf("%w: %q", errs.ErrUnknownFilter, "bogus"), wantStatus: codes.Unset, wantKind: errs.KindUnknownFilter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			exporter, tracer := newRecorder(t)

			_, span := tracer.Start(context.Background(), "Manager.op")
			RecordError(span, tt.err)
			span.End()

			spans := exporter.GetSpans()
			require.Len(t, spans, 1)
			got := spans[0]
			assert.Equal(t, tt.wantStatus, got.Status.Code)

			kind, ok := attrValue(got.Attributes, AttrErrorKind)
			if tt.wantKind == "" {
				assert.False(t, ok)
				assert.Empty(t, got.Events)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.wantKind, kind.AsString())
			require.NotEmpty(t, got.Events)
			assert.Equal(t, "exception", got.Events[0].Name)
			if tt.wantStatus == codes.Error {
				assert.Equal(t, "operation failed", got.Status.Description)
			}

			failed, ok := attrValue(got.Attributes, AttrFailedItems)
			if tt.wantFailed > 0 {
				require.True(t, ok)
				assert.Equal(t, tt.wantFailed, failed.AsInt64())
			} else {
				assert.False(t, ok)
			}
		})
	}

	assert.NotPanics(t, func() { RecordError(nil, errors.New("boom")) })
}
