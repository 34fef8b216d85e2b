package domain

import "context"

// ServicePort defines the service contract for auth
type ServicePort interface {
	Register(ctx context.Context, in RegisterInput) (User, error)
	Login(ctx context.Context, in LoginInput) (Token, error)

	// Authorize verifies a raw bearer token and resolves it to an active user.
	// Any failure (bad signature, expiry, unknown subject, inactive account)
	// surfaces as the same unauthorized error
	Authorize(ctx context.Context, raw string) (User, error)

	// UserByID resolves an already-authenticated user id
	UserByID(ctx context.Context, id string) (User, error)
}
