package service

import (
	"context"

	"shop-service/internal/models"
)

type ctxKey string

const (
	ctxActorKey   ctxKey = "actor"
	ctxSessionKey ctxKey = "sessionID"
)

// Actor is the authenticated admin identity supplied by the transport
// layer. Identity is always passed explicitly through context, never
// held in package state.
type Actor struct {
	Name string
	Role models.Role
}

func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, ctxActorKey, a)
}

func ActorFromContext(ctx context.Context) (Actor, bool) {
	v, ok := ctx.Value(ctxActorKey).(Actor)
	return v, ok
}

// WithSessionID attaches the opaque storefront session identifier that
// keys the visitor's cart.
func WithSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxSessionKey, id)
}

func SessionIDFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ctxSessionKey).(string)
	return v, v != "" && ok
}

func requireActor(ctx context.Context) (Actor, error) {
	a, ok := ActorFromContext(ctx)
	if !ok {
		return Actor{}, ErrUnauthorized
	}
	return a, nil
}

func requireRole(ctx context.Context, roles ...models.Role) (Actor, error) {
	a, err := requireActor(ctx)
	if err != nil {
		return Actor{}, err
	}
	for _, r := range roles {
		if a.Role == r {
			return a, nil
		}
	}
	return Actor{}, ErrPermissionDenied
}
