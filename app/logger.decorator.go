package app

import (
	"context"
	"log/slog"

	"github.com/go-arrower/hrsuite/alog"
)

func NewLoggedRequest[Req any, Res any](logger alog.Logger, req Request[Req, Res]) Request[Req, Res] {
	return logged(logger, kindRequest, req)
}

func NewLoggedCommand[C any](logger alog.Logger, cmd Command[C]) Command[C] {
	return lower[C](logged[C, struct{}](logger, kindCommand, lift[C](cmd)))
}

func NewLoggedQuery[Q any, Res any](logger alog.Logger, query Query[Q, Res]) Query[Q, Res] {
	return logged[Q, Res](logger, kindQuery, query)
}

func NewLoggedJob[J any](logger alog.Logger, job Job[J]) Job[J] {
	return lower[J](logged[J, struct{}](logger, kindJob, lift[J](job)))
}

func logged[Req any, Res any](logger alog.Logger, k kind, base Request[Req, Res]) RequestFunc[Req, Res] {
	return func(ctx context.Context, req Req) (Res, error) {
		cmdName := commandName(req)

		logger.DebugContext(ctx, "executing "+string(k),
			slog.String("command", cmdName),
		)

		res, err := base.H(ctx, req)
		if err != nil {
			logger.DebugContext(ctx, "failed to execute "+string(k),
				slog.String("command", cmdName),
				slog.String("error", err.Error()),
			)

			return res, err //nolint:wrapcheck // decorate but not change anything
		}

		logger.DebugContext(ctx, string(k)+" executed successfully",
			slog.String("command", cmdName),
		)

		return res, nil
	}
}
