package ctxkeys

import (
	"context"

	"github.com/talentloop/talentloop/internal/model"
)

// contextKey is a type for context keys to avoid collisions
type contextKey string

const (
	ActorKey contextKey = "actor"
)

// Actor returns the authenticated actor, or nil when the request is
// unauthenticated. Engine calls always receive the actor explicitly; the
// context carries it only from middleware to handler.
func Actor(ctx context.Context) *model.Actor {
	actor, _ := ctx.Value(ActorKey).(*model.Actor)
	return actor
}

func WithActor(ctx context.Context, actor *model.Actor) context.Context {
	return context.WithValue(ctx, ActorKey, actor)
}
