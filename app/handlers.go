// Package app provides the handler types of the application layer and
// decorators adding logging, tracing, metrics, validation and transactions to them.
package app

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/go-arrower/hrsuite/alog"
)

// Request can produce side effects and return data.
type Request[Req any, Res any] interface {
	H(ctx context.Context, req Req) (Res, error)
}

// Command produces side effects, e.g. mutate state.
type Command[C any] interface {
	H(ctx context.Context, cmd C) error
}

// Query does not produce side effects and returns data.
type Query[Q any, Res any] interface {
	H(ctx context.Context, query Q) (Res, error)
}

// Job produces side effects and is started by the system, not by a user.
type Job[J any] interface {
	H(ctx context.Context, job J) error
}

// RequestFunc allows the use of ordinary functions as Request or Query.
type RequestFunc[Req any, Res any] func(ctx context.Context, req Req) (Res, error)

func (f RequestFunc[Req, Res]) H(ctx context.Context, req Req) (Res, error) { //nolint:ireturn // valid use of generics
	return f(ctx, req)
}

// CommandFunc allows the use of ordinary functions as Command or Job.
type CommandFunc[C any] func(ctx context.Context, cmd C) error

func (f CommandFunc[C]) H(ctx context.Context, cmd C) error {
	return f(ctx, cmd)
}

// kind names the handler type in log messages and telemetry.
type kind string

const (
	kindRequest kind = "request"
	kindCommand kind = "command"
	kindQuery   kind = "query"
	kindJob     kind = "job"
)

// All decorators are implemented once, for Request.
// Commands and jobs are lifted into a Request without a result and lowered back afterwards.
func lift[C any](cmd Command[C]) Request[C, struct{}] {
	return RequestFunc[C, struct{}](func(ctx context.Context, c C) (struct{}, error) {
		return struct{}{}, cmd.H(ctx, c)
	})
}

func lower[C any](req Request[C, struct{}]) CommandFunc[C] {
	return func(ctx context.Context, c C) error {
		_, err := req.H(ctx, c)

		return err //nolint:wrapcheck // decorate but not change anything
	}
}

// NewInstrumentedRequest is a convenience helper for easy dependency setup.
// The order of dependencies represents the order of calling.
func NewInstrumentedRequest[Req any, Res any](
	traceProvider trace.TracerProvider,
	meterProvider metric.MeterProvider,
	logger alog.Logger,
	validate *validator.Validate,
	req Request[Req, Res],
) Request[Req, Res] {
	return instrumented(traceProvider, meterProvider, logger, validate, kindRequest, req)
}

// NewInstrumentedCommand is a convenience helper for easy dependency setup.
// The order of dependencies represents the order of calling.
func NewInstrumentedCommand[C any](
	traceProvider trace.TracerProvider,
	meterProvider metric.MeterProvider,
	logger alog.Logger,
	validate *validator.Validate,
	cmd Command[C],
) Command[C] {
	return lower[C](instrumented[C, struct{}](traceProvider, meterProvider, logger, validate, kindCommand, lift[C](cmd)))
}

// NewInstrumentedQuery is a convenience helper for easy dependency setup.
// The order of dependencies represents the order of calling.
func NewInstrumentedQuery[Q any, Res any](
	traceProvider trace.TracerProvider,
	meterProvider metric.MeterProvider,
	logger alog.Logger,
	validate *validator.Validate,
	query Query[Q, Res],
) Query[Q, Res] {
	return instrumented[Q, Res](traceProvider, meterProvider, logger, validate, kindQuery, query)
}

// NewInstrumentedJob is a convenience helper for easy dependency setup.
// The order of dependencies represents the order of calling.
func NewInstrumentedJob[J any](
	traceProvider trace.TracerProvider,
	meterProvider metric.MeterProvider,
	logger alog.Logger,
	validate *validator.Validate,
	job Job[J],
) Job[J] {
	return lower[J](instrumented[J, struct{}](traceProvider, meterProvider, logger, validate, kindJob, lift[J](job)))
}

func instrumented[Req any, Res any](
	traceProvider trace.TracerProvider,
	meterProvider metric.MeterProvider,
	logger alog.Logger,
	validate *validator.Validate,
	k kind,
	req Request[Req, Res],
) RequestFunc[Req, Res] {
	return traced[Req, Res](traceProvider, k,
		metered[Req, Res](meterProvider, k,
			logged[Req, Res](logger, k,
				validated(validate, req),
			),
		),
	)
}

// commandName extracts a printable name from cmd in the format of: context.package.structName.
//
// The use case function can not be used, as it is anonymous / a closure returned by the use case constructor.
// Accessing the function name with runtime.Caller(4) will always lead to ".func1".
func commandName(cmd any) string {
	pkgPath := reflect.TypeOf(cmd).PkgPath()

	// example: github.com/go-arrower/hrsuite/contexts/attendance/internal/application
	// take string after /contexts/ and then take string before /internal/
	pkg0 := strings.Split(pkgPath, "/contexts/")

	hasContext := len(pkg0) == 2 //nolint:mnd
	if hasContext {
		pkg1 := strings.Split(pkg0[1], "/internal/")
		if len(pkg1) == 2 { //nolint:mnd
			return fmt.Sprintf("%s.%T", pkg1[0], cmd)
		}
	}

	// fallback: if the function is not called from a proper Context => packageName.structName
	return fmt.Sprintf("%T", cmd)
}
