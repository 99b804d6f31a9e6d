package app

import (
	"context"
	"errors"
)

//
// This file contains convenience helpers you can use to easier test
// your calling code relying on this use case pattern.
//

var ErrUseCaseFailed = errors.New("usecase failed")

// TestRequestHandler turns fn into a Request, e.g. to assert on the context a decorator passes on.
func TestRequestHandler[Req any, Res any](fn func(ctx context.Context, req Req) (Res, error)) Request[Req, Res] {
	return RequestFunc[Req, Res](fn)
}

func TestSuccessRequestHandler[Req any, Res any]() Request[Req, Res] {
	return RequestFunc[Req, Res](func(context.Context, Req) (Res, error) {
		return *new(Res), nil
	})
}

func TestFailureRequestHandler[Req any, Res any]() Request[Req, Res] {
	return RequestFunc[Req, Res](func(context.Context, Req) (Res, error) {
		return *new(Res), ErrUseCaseFailed
	})
}

func TestSuccessCommandHandler[C any]() Command[C] {
	return CommandFunc[C](func(context.Context, C) error { return nil })
}

func TestFailureCommandHandler[C any]() Command[C] {
	return CommandFunc[C](func(context.Context, C) error { return ErrUseCaseFailed })
}
