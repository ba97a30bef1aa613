// Package otel provides span helpers and the attribute keys used to trace
// source manager operations.
package otel

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/stacklok/instsrc/internal/errs"
)

// Attribute keys shared by manager spans and HTTP server spans
const (
	AttrTargetRoot     = attribute.Key("target.root")
	AttrSourceID       = attribute.Key("source.id")
	AttrSourceURL      = attribute.Key("source.url")
	AttrProductDir     = attribute.Key("source.product_dir")
	AttrResolvableKind = attribute.Key("resolvable.kind")
	AttrResolvableName = attribute.Key("resolvable.name")
	AttrStatusFilter   = attribute.Key("query.status")
	AttrCategory       = attribute.Key("query.category")
	AttrResultCount    = attribute.Key("result.count")
	AttrErrorKind      = attribute.Key("error.kind")
	AttrFailedItems    = attribute.Key("error.failed_items")
)

// StartSpan starts a span on tracer, or returns the span already in ctx
// when tracer is nil.
func StartSpan(
	ctx context.Context,
	tracer trace.Tracer,
	name string,
	opts ...trace.SpanStartOption,
) (context.Context, trace.Span) {
	if tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return tracer.Start(ctx, name, opts...)
}

// RecordError records err on span together with its error kind.
//
// Partial batch failures and unknown status filters come back next to a
// usable result, so they leave the span status unset. Every other error marks
// the span failed with a generic description; the details stay in the event.
func RecordError(span trace.Span, err error) {
	if err == nil || span == nil {
		return
	}

	kind := errs.Kind(err)
	span.RecordError(err)
	span.SetAttributes(AttrErrorKind.String(kind))

	switch kind {
	case errs.KindPartial:
		span.SetAttributes(AttrFailedItems.Int(failedItems(err)))
	case errs.KindUnknownFilter:
	default:
		span.SetStatus(codes.Error, "operation failed")
	}
}

func failedItems(err error) int {
	var partial *errs.PartialError
	if !errors.As(err, &partial) {
		return 0
	}
	return len(partial.Failures)
}
