package account

import (
	"context"

	"quizzing/internal/domain"
)

// Store is the persistence boundary for the directory: the full user
// collection and the current-user reference, read once at startup and written
// on every change. Implementations live under internal/infra.
type Store interface {
	LoadUsers(ctx context.Context) ([]domain.User, error)
	SaveUsers(ctx context.Context, users []domain.User) error
	// LoadCurrentUserID returns "" when no user is signed in.
	LoadCurrentUserID(ctx context.Context) (string, error)
	// SaveCurrentUserID with "" clears the reference.
	SaveCurrentUserID(ctx context.Context, id string) error
}
