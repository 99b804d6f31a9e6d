package alog

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// LoggerOpt allows to initialise a logger with custom options.
type LoggerOpt func(logger *handler)

// WithHandler adds a slog.Handler to be logged to.
// You can set as many as you want.
func WithHandler(h slog.Handler) LoggerOpt {
	return func(l *handler) {
		l.handlers = append(l.handlers, h)
	}
}

// WithLevel initialises the logger with a starting level.
// To change the level at runtime use: Unwrap(logger).SetLevel(LevelInfo).
func WithLevel(level slog.Level) LoggerOpt {
	return func(l *handler) {
		*l.level = level
	}
}

// New returns a production ready logger.
//
// If no options are given it creates a default handler, logging JSON to Stderr.
// Otherwise, use WithHandler to set your own handlers.
func New(opts ...LoggerOpt) *slog.Logger {
	return slog.New(newHandler(opts...))
}

// NewDevelopment returns a logger for local development, logging human-readable text at LevelDebug.
func NewDevelopment() *slog.Logger {
	return New(
		WithLevel(LevelDebug),
		WithHandler(slog.NewTextHandler(os.Stderr, getDebugHandlerOptions())),
	)
}

func newHandler(opts ...LoggerOpt) *handler {
	level := slog.LevelInfo

	h := &handler{
		handlers: []slog.Handler{},
		level:    &level,
	}

	for _, opt := range opts {
		opt(h)
	}

	if len(h.handlers) == 0 {
		h.handlers = []slog.Handler{slog.NewJSONHandler(os.Stderr, getDefaultHandlerOptions())}
	}

	return h
}

// handler fans a record out to all handlers and correlates it with the active span.
// The level of the individual handlers is ignored, level is the level for all of them.
type handler struct {
	level    *slog.Level
	handlers []slog.Handler
}

var _ slog.Handler = (*handler)(nil)

func (h *handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= *h.level
}

func (h *handler) Handle(ctx context.Context, record slog.Record) error {
	span := trace.SpanFromContext(ctx)

	sCtx := span.SpanContext()
	if sCtx.HasTraceID() {
		record.AddAttrs(slog.String("traceID", sCtx.TraceID().String()))
	}

	if sCtx.HasSpanID() {
		record.AddAttrs(slog.String("spanID", sCtx.SpanID().String()))
	}

	if attrs, ok := FromContext(ctx); ok {
		record.AddAttrs(attrs...)
	}

	addRecordToSpan(span, record)

	var err error

	for _, h := range h.handlers {
		err = errors.Join(err, h.Handle(ctx, record))
	}

	return err
}

func (h *handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))

	for i, hh := range h.handlers {
		handlers[i] = hh.WithAttrs(attrs)
	}

	return &handler{level: h.level, handlers: handlers}
}

func (h *handler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))

	for i, hh := range h.handlers {
		handlers[i] = hh.WithGroup(name)
	}

	return &handler{level: h.level, handlers: handlers}
}

// SetLevel changes the level for all handlers, including the ones derived via any WithX method.
func (h *handler) SetLevel(level slog.Level) {
	*h.level = level
}

func (h *handler) Level() slog.Level {
	return *h.level
}

func addRecordToSpan(span trace.Span, record slog.Record) {
	if !span.IsRecording() {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("log.severity", record.Level.String()),
		attribute.String("log.message", record.Message),
	}

	record.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, attribute.String(a.Key, a.Value.String()))

		return true
	})

	span.AddEvent("log", trace.WithAttributes(attrs...))

	if record.Level >= slog.LevelError {
		span.SetStatus(codes.Error, record.Message)
	}
}

// LevelController offers control over the level of a logger at run time.
type LevelController interface {
	SetLevel(level slog.Level)
	Level() slog.Level
}

// Unwrap returns the LevelController of logger.
// In case logger was not created by this package, it returns nil.
func Unwrap(logger Logger) LevelController { //nolint:ireturn // interface required to return a TestLogger and handler
	if l, ok := logger.(*TestLogger); ok {
		return l
	}

	sl, ok := logger.(*slog.Logger)
	if !ok {
		return nil
	}

	if h, ok := sl.Handler().(*handler); ok {
		return h
	}

	return nil
}

func getDefaultHandlerOptions() *slog.HandlerOptions {
	return &slog.HandlerOptions{
		AddSource:   true,
		Level:       slog.Level(-100), // filtering is done by handler
		ReplaceAttr: MapLogLevelsToName,
	}
}

// getDebugHandlerOptions is to keep the log output more readable, by removing not essential keys.
func getDebugHandlerOptions() *slog.HandlerOptions {
	opt := getDefaultHandlerOptions()
	opt.AddSource = false

	return opt
}
