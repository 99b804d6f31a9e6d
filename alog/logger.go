// Package alog is the structured logger of hrsuite, built on log/slog.
//
// Every record is correlated with the active OpenTelemetry span, so logs and traces can be looked at together.
package alog

import (
	"context"
	"log/slog"

	"github.com/go-arrower/hrsuite/ctx"
)

// Logger interface is a subset of slog.Logger, with the aim to:
//  1. encourage the use of the methods offering context.Context, so that tracing information can be correlated.
//  2. encourage the use of the levels `DEBUG` and `INFO` over others, but without preventing them.
type Logger interface {
	Log(ctx context.Context, level slog.Level, msg string, args ...any)
	LogAttrs(ctx context.Context, level slog.Level, msg string, attrs ...slog.Attr)
	DebugContext(ctx context.Context, msg string, args ...any)
	InfoContext(ctx context.Context, msg string, args ...any)
	With(args ...any) *slog.Logger
	WithGroup(name string) *slog.Logger
}

const (
	// LevelInfo is used to see what is going on inside the framework code, e.g. server start up.
	LevelInfo = slog.Level(-8)

	// LevelDebug is used by framework developers, if you really want to know what is going on.
	LevelDebug = slog.Level(-12)
)

// MapLogLevelsToName replaces the default name of a custom log level with a speaking name.
func MapLogLevelsToName(_ []string, attr slog.Attr) slog.Attr {
	if attr.Key == slog.LevelKey {
		level, _ := attr.Value.Any().(slog.Level)

		levelLabel, exists := getLevelNames()[level]
		if !exists {
			levelLabel = level.String()
		}

		attr.Value = slog.StringValue(levelLabel)
	}

	return attr
}

func getLevelNames() map[slog.Leveler]string {
	return map[slog.Leveler]string{
		LevelInfo:  "HRSUITE:INFO",
		LevelDebug: "HRSUITE:DEBUG",
	}
}

const ctxAttr ctx.CTXKey = "alog.attr"

// AddAttr adds attr to ctx. All records logged with the returned context carry attr,
// e.g. a request id set by a middleware.
func AddAttr(c context.Context, attr slog.Attr) context.Context {
	attrs, _ := FromContext(c)

	return context.WithValue(c, ctxAttr, append(attrs, attr))
}

// FromContext returns all attributes added with AddAttr.
func FromContext(c context.Context) ([]slog.Attr, bool) {
	attrs, ok := c.Value(ctxAttr).([]slog.Attr)
	if !ok {
		return nil, false
	}

	return append([]slog.Attr{}, attrs...), true
}
