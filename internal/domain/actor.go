package domain

import (
	"context"
	"errors"
)

// Actor identifies who performed a status change: the sender themselves,
// an admin, or the system (payment worker, webhooks).
type Actor struct {
	ID   string
	Role Role
}

// SystemActor attributes changes made by background workers and webhooks.
var SystemActor = Actor{ID: "system", Role: RoleSystem}

type Role string

const (
	RoleUser   Role = "user"
	RoleAdmin  Role = "admin"
	RoleSystem Role = "system"
)

// CanDispute reports whether the role may move a transaction to disputed.
// Disputes are a compliance action, not a user one.
func (r Role) CanDispute() bool {
	return r == RoleAdmin || r == RoleSystem
}

// Authentication errors
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

type actorContextKey struct{}

// WithActor stores the authenticated actor on the context.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

// ActorFromContext returns the actor set by the auth middleware, if any.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(Actor)
	return actor, ok
}

// ActorOrSystem returns the context actor, defaulting to the system actor
// for unauthenticated paths such as workers.
func ActorOrSystem(ctx context.Context) Actor {
	if actor, ok := ActorFromContext(ctx); ok {
		return actor
	}
	return SystemActor
}
