package app

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "hrsuite.application"

func NewTracedRequest[Req any, Res any](traceProvider trace.TracerProvider, req Request[Req, Res]) Request[Req, Res] {
	return traced(traceProvider, kindRequest, req)
}

func NewTracedCommand[C any](traceProvider trace.TracerProvider, cmd Command[C]) Command[C] {
	return lower[C](traced[C, struct{}](traceProvider, kindCommand, lift[C](cmd)))
}

func NewTracedQuery[Q any, Res any](traceProvider trace.TracerProvider, query Query[Q, Res]) Query[Q, Res] {
	return traced[Q, Res](traceProvider, kindQuery, query)
}

func NewTracedJob[J any](traceProvider trace.TracerProvider, job Job[J]) Job[J] {
	return lower[J](traced[J, struct{}](traceProvider, kindJob, lift[J](job)))
}

func traced[Req any, Res any](traceProvider trace.TracerProvider, k kind, base Request[Req, Res]) RequestFunc[Req, Res] {
	tracer := traceProvider.Tracer(instrumentationName)

	return func(ctx context.Context, req Req) (Res, error) {
		cmdName := commandName(req)

		newCtx, span := tracer.Start(ctx, cmdName,
			trace.WithAttributes(
				attribute.String("command", cmdName),
				attribute.String("kind", string(k)),
			),
		)
		defer span.End()

		res, err := base.H(newCtx, req)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
		}

		return res, err //nolint:wrapcheck // decorate but not change anything
	}
}
