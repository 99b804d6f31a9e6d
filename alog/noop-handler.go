package alog

import (
	"context"
	"log/slog"
)

// NewNoop returns a logger that drops every record.
// Use it where a component takes an optional logger, e.g. the offline check of the cli.
func NewNoop() *slog.Logger {
	return slog.New(discardHandler{})
}

// discardHandler is never enabled, so slog does not even build the records.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (h discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return h }
func (h discardHandler) WithGroup(string) slog.Handler            { return h }
