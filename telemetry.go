package protomap

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Metric and span names recorded when a tracer or meter is configured.
const (
	MetricConversions = "protomap.conversions"
	MetricSkippedKeys = "protomap.skipped_keys"

	attrMessage   = "protomap.message"
	attrDirection = "direction"
)

// telemetry holds the optional OpenTelemetry instruments of one call.
// A nil *telemetry records nothing.
type telemetry struct {
	tracer      trace.Tracer
	conversions metric.Int64Counter
	skipped     metric.Int64Counter

	span      trace.Span
	direction string
}

// newTelemetry creates the instruments for tracer and meter. It returns nil
// when both are nil.
func newTelemetry(direction string, tracer trace.Tracer, meter metric.Meter) (*telemetry, error) {
	if tracer == nil && meter == nil {
		return nil, nil
	}

	t := &telemetry{tracer: tracer, direction: direction}
	if meter == nil {
		return t, nil
	}

	var err error
	t.conversions, err = meter.Int64Counter(
		MetricConversions,
		metric.WithDescription("Number of top-level conversions performed"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create conversions counter: %w", err)
	}

	t.skipped, err = meter.Int64Counter(
		MetricSkippedKeys,
		metric.WithDescription("Number of unknown keys skipped in non-strict mode"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create skipped keys counter: %w", err)
	}

	return t, nil
}

func (t *telemetry) start(spanName, message string) {
	if t == nil || t.tracer == nil {
		return
	}
	_, t.span = t.tracer.Start(context.Background(), spanName,
		trace.WithAttributes(attribute.String(attrMessage, message)))
}

func (t *telemetry) skip(n int64) {
	if t == nil || t.skipped == nil {
		return
	}
	t.skipped.Add(context.Background(), n,
		metric.WithAttributes(attribute.String(attrDirection, t.direction)))
}

func (t *telemetry) end(err error) {
	if t == nil {
		return
	}

	if t.conversions != nil {
		t.conversions.Add(context.Background(), 1, metric.WithAttributes(
			attribute.String(attrDirection, t.direction),
			attribute.Bool("error", err != nil),
		))
	}

	if t.span == nil {
		return
	}
	if err != nil {
		t.span.RecordError(err)
		t.span.SetStatus(codes.Error, err.Error())
	} else {
		t.span.SetStatus(codes.Ok, "")
	}
	t.span.End()
}
