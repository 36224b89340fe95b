package xcontext

import (
	"context"

	"github.com/changemaker-lab/backend/internal/model"
	"github.com/changemaker-lab/backend/pkg/authenticator"
)

func WithTokenEngine(ctx context.Context, engine authenticator.TokenEngine[model.AccessToken]) context.Context {
	return context.WithValue(ctx, tokenEngineKey{}, engine)
}

func TokenEngine(ctx context.Context) authenticator.TokenEngine[model.AccessToken] {
	engine, ok := ctx.Value(tokenEngineKey{}).(authenticator.TokenEngine[model.AccessToken])
	if !ok {
		panic("token engine is not setup in context")
	}

	return engine
}
