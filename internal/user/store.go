package user

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when no user matches the lookup.
	ErrNotFound = errors.New("user not found")
	// ErrEmailExists is returned when a create collides with the unique
	// email index.
	ErrEmailExists = errors.New("email already registered")
)

// Store is the credential store: the persistent record of user identity,
// hashed credential, role, avatar and reset-token state. Consistency relies
// on the backing store's own guarantees (unique index on email); Store
// implementations hold no in-process mutable state.
type Store interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context) ([]*User, error)

	UpdatePassword(ctx context.Context, id, passwordHash string) error
	UpdateFullName(ctx context.Context, id, fullName string) error
	UpdateAvatar(ctx context.Context, id string, avatar Avatar) error

	// SetResetToken records the hash of an outstanding reset token and its
	// expiry. A second request for the same user overwrites the first.
	SetResetToken(ctx context.Context, id, tokenHash string, expiry time.Time) error
	// ClearResetToken removes any pending reset state.
	ClearResetToken(ctx context.Context, id string) error
	// GetByResetToken resolves the user whose stored token hash matches and
	// whose expiry is still in the future; ErrNotFound otherwise.
	GetByResetToken(ctx context.Context, tokenHash string) (*User, error)
	// CompleteReset sets the new password hash and clears the reset state in
	// a single statement, making the token single-use.
	CompleteReset(ctx context.Context, id, passwordHash string) error
}
