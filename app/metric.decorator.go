package app

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

func NewMeteredRequest[Req any, Res any](meterProvider metric.MeterProvider, req Request[Req, Res]) Request[Req, Res] {
	return metered(meterProvider, kindRequest, req)
}

func NewMeteredCommand[C any](meterProvider metric.MeterProvider, cmd Command[C]) Command[C] {
	return lower[C](metered[C, struct{}](meterProvider, kindCommand, lift[C](cmd)))
}

func NewMeteredQuery[Q any, Res any](meterProvider metric.MeterProvider, query Query[Q, Res]) Query[Q, Res] {
	return metered[Q, Res](meterProvider, kindQuery, query)
}

func NewMeteredJob[J any](meterProvider metric.MeterProvider, job Job[J]) Job[J] {
	return lower[J](metered[J, struct{}](meterProvider, kindJob, lift[J](job)))
}

func metered[Req any, Res any](meterProvider metric.MeterProvider, k kind, base Request[Req, Res]) RequestFunc[Req, Res] {
	meter := meterProvider.Meter(instrumentationName)

	counter, _ := meter.Int64Counter("usecases", metric.WithDescription("number of executed use cases"))
	duration, _ := meter.Float64Histogram("usecases_duration_seconds",
		metric.WithDescription("duration of executed use cases"),
		metric.WithUnit("s"),
	)

	return func(ctx context.Context, req Req) (Res, error) {
		start := time.Now()

		res, err := base.H(ctx, req)

		status := "success"
		if err != nil {
			status = "failure"
		}

		opt := metric.WithAttributes(
			attribute.String("command", commandName(req)),
			attribute.String("kind", string(k)),
			attribute.String("status", status),
		)

		counter.Add(ctx, 1, opt)
		duration.Record(ctx, time.Since(start).Seconds(), opt)

		return res, err //nolint:wrapcheck // decorate but not change anything
	}
}
