package telemetry

import (
	"context"

	"github.com/BaSui01/workforce/workforce"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/BaSui01/workforce"

// Instruments traces host ticks and counts them through OTel.
type Instruments struct {
	tracer trace.Tracer
	ticks  metric.Int64Counter
	dead   metric.Int64Counter
}

// NewInstruments builds tick instruments on the given providers. Nil
// providers fall back to the global ones installed by Init.
func NewInstruments(tp trace.TracerProvider, mp metric.MeterProvider) (*Instruments, error) {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	meter := mp.Meter(instrumentationName)

	ticks, err := meter.Int64Counter("workforce.ticks",
		metric.WithDescription("Host ticks processed"),
	)
	if err != nil {
		return nil, err
	}
	dead, err := meter.Int64Counter("workforce.tasks.dead",
		metric.WithDescription("Tasks reaped by sweeps"),
	)
	if err != nil {
		return nil, err
	}

	return &Instruments{
		tracer: tp.Tracer(instrumentationName),
		ticks:  ticks,
		dead:   dead,
	}, nil
}

// StartTick opens the span covering one host tick.
func (i *Instruments) StartTick(ctx context.Context, tick uint64) (context.Context, trace.Span) {
	return i.tracer.Start(ctx, "workforce.tick",
		trace.WithAttributes(attribute.Int64("workforce.tick", int64(tick))),
	)
}

// EndTick records the sweep outcome on span and ends it.
func (i *Instruments) EndTick(ctx context.Context, span trace.Span, report workforce.SweepReport, err error) {
	span.SetAttributes(
		attribute.Int("workforce.sweep.ran", report.Ran),
		attribute.Int("workforce.sweep.dead", report.Dead),
		attribute.Int("workforce.sweep.released", report.Released),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()

	i.ticks.Add(ctx, 1)
	if report.Dead > 0 {
		i.dead.Add(ctx, int64(report.Dead))
	}
}
