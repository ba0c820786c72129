package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned by repositories when no user matches.
var ErrNotFound = errors.New("user not found")

// ErrDuplicateEmail is returned when an insert or update hits the unique
// constraint on users.email. Callers pre-check the address, but two
// concurrent writes can both pass that check; the constraint is the
// authority.
var ErrDuplicateEmail = errors.New("email already in use")

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	List(ctx context.Context, limit, offset int) ([]*User, int, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id uuid.UUID) error
}
