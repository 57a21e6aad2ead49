package telemetry

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"storefront/internal/core/port"
)

const tracerName = "storefront"

// OTELProbe implements port.Telemetry using OpenTelemetry, optionally
// feeding business events into the Prometheus counters.
type OTELProbe struct {
	logger  *slog.Logger
	metrics *AppMetrics
}

func NewOTELProbe(logger *slog.Logger, metrics *AppMetrics) port.Telemetry {
	if logger == nil {
		logger = slog.Default()
	}

	return &OTELProbe{
		logger:  logger,
		metrics: metrics,
	}
}

// OTelSpan adapts trace.Span to port.Span.
type OTelSpan struct {
	span trace.Span
}

func (s *OTelSpan) End() {
	s.span.End()
}

func (s *OTelSpan) SetAttributes(attrs map[string]interface{}) {
	s.span.SetAttributes(toAttributes(attrs)...)
}

func (s *OTelSpan) SetStatus(code string, message string) {
	var statusCode codes.Code

	switch code {
	case "ok":
		statusCode = codes.Ok
	case "error":
		statusCode = codes.Error
	default:
		statusCode = codes.Unset
	}

	s.span.SetStatus(statusCode, message)
}

func (s *OTelSpan) RecordError(err error) {
	s.span.RecordError(err)
}

func toAttributes(attrs map[string]interface{}) []attribute.KeyValue {
	kv := make([]attribute.KeyValue, 0, len(attrs))

	for key, value := range attrs {
		switch v := value.(type) {
		case string:
			kv = append(kv, attribute.String(key, v))
		case int:
			kv = append(kv, attribute.Int(key, v))
		case int64:
			kv = append(kv, attribute.Int64(key, v))
		case float64:
			kv = append(kv, attribute.Float64(key, v))
		case bool:
			kv = append(kv, attribute.Bool(key, v))
		default:
			kv = append(kv, attribute.String(key, fmt.Sprintf("%v", v)))
		}
	}

	return kv
}

func (p *OTELProbe) StartRepositorySpan(ctx context.Context, operation string, entity string, attrs map[string]interface{}) (context.Context, port.Span) {
	spanName := fmt.Sprintf("repository.%s.%s", entity, operation)

	standardAttrs := []attribute.KeyValue{
		attribute.String("repository.entity", entity),
		attribute.String("repository.operation", operation),
		attribute.String("component", "repository"),
	}
	standardAttrs = append(standardAttrs, toAttributes(attrs)...)

	ctx, span := otel.Tracer(tracerName).Start(ctx, spanName, trace.WithAttributes(standardAttrs...))
	return ctx, &OTelSpan{span: span}
}

func (p *OTELProbe) StartServiceSpan(ctx context.Context, service string, operation string, attrs map[string]interface{}) (context.Context, port.Span) {
	spanName := fmt.Sprintf("service.%s.%s", service, operation)

	standardAttrs := []attribute.KeyValue{
		attribute.String("service.name", service),
		attribute.String("service.operation", operation),
		attribute.String("component", "service"),
	}
	standardAttrs = append(standardAttrs, toAttributes(attrs)...)

	ctx, span := otel.Tracer(tracerName).Start(ctx, spanName, trace.WithAttributes(standardAttrs...))
	return ctx, &OTelSpan{span: span}
}

func (p *OTELProbe) RecordRepositoryOperation(ctx context.Context, operation string, entity string, duration time.Duration, err error) {
	span := trace.SpanFromContext(ctx)

	span.SetAttributes(
		attribute.String("operation", operation),
		attribute.String("entity", entity),
		attribute.Int64("duration_ns", duration.Nanoseconds()),
		attribute.Bool("has_error", err != nil),
	)

	if p.metrics != nil {
		p.metrics.RecordDatabaseOperation(ctx, operation, entity)
	}

	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
		p.logger.ErrorContext(ctx, "Repository operation failed",
			"operation", operation,
			"entity", entity,
			"duration_ns", duration.Nanoseconds(),
			"error", err)
		return
	}

	span.SetStatus(codes.Ok, "")
}

func (p *OTELProbe) RecordBusinessEvent(ctx context.Context, event string, entity string, entityID string, metadata map[string]interface{}) {
	attrs := map[string]interface{}{
		"event":     event,
		"entity":    entity,
		"entity_id": entityID,
	}

	for key, value := range metadata {
		attrs[key] = value
	}

	_, span := p.StartRepositorySpan(ctx, "event."+event, entity, attrs)
	span.End()

	if p.metrics != nil {
		p.metrics.RecordBusinessEvent(ctx, entity, event)
	}

	p.logger.InfoContext(ctx, "Business event recorded",
		"event", event,
		"entity", entity,
		"entity_id", entityID)
}

func (p *OTELProbe) RecordError(ctx context.Context, operation string, err error, metadata map[string]interface{}) {
	p.logger.ErrorContext(ctx, "Operation error recorded",
		"operation", operation,
		"error", err,
		"metadata", metadata)
}
