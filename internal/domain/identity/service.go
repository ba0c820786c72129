package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/hms/hms/internal/platform/auth"
	"github.com/hms/hms/internal/platform/httperr"
)

// DependencyChecker reports whether a user is referenced by patient records,
// visits, or appointments. It lives outside this package to avoid coupling
// identity to the clinical domains; wiring happens in main.
type DependencyChecker interface {
	HasDependents(ctx context.Context, userID uuid.UUID) (bool, error)
}

type Service struct {
	repo       Repository
	deps       DependencyChecker
	bcryptCost int
}

func NewService(repo Repository, deps DependencyChecker, bcryptCost int) *Service {
	return &Service{repo: repo, deps: deps, bcryptCost: bcryptCost}
}

// CreateInput carries a new user account. Password arrives in plain text and
// is hashed before storage.
type CreateInput struct {
	Name     string
	Email    string
	Password string
	Role     auth.Role
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*User, error) {
	if _, err := s.repo.GetByEmail(ctx, in.Email); err == nil {
		return nil, httperr.Conflict("User already exists")
	} else if !errors.Is(err, ErrNotFound) {
		return nil, httperr.Internal(err)
	}

	digest, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, httperr.Internal(err)
	}

	u := &User{
		Name:           in.Name,
		Email:          in.Email,
		PasswordDigest: digest,
		Role:           in.Role,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		// The pre-check above races with concurrent signups; the unique
		// constraint settles it.
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, httperr.Conflict("User already exists")
		}
		return nil, httperr.Internal(err)
	}
	return u, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, httperr.NotFound("User not found")
		}
		return nil, httperr.Internal(err)
	}
	return u, nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*User, int, error) {
	users, total, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, httperr.Internal(err)
	}
	return users, total, nil
}

// UpdateInput carries the mutable account fields. Nil means "leave as is".
type UpdateInput struct {
	Name  *string
	Email *string
	Role  *auth.Role
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Email != nil && *in.Email != u.Email {
		if _, err := s.repo.GetByEmail(ctx, *in.Email); err == nil {
			return nil, httperr.Conflict("User already exists")
		} else if !errors.Is(err, ErrNotFound) {
			return nil, httperr.Internal(err)
		}
		u.Email = *in.Email
	}
	if in.Name != nil {
		u.Name = *in.Name
	}
	if in.Role != nil && *in.Role != u.Role {
		// A user referenced by clinical data keeps their role: changing it
		// would silently invalidate those references.
		busy, err := s.deps.HasDependents(ctx, id)
		if err != nil {
			return nil, httperr.Internal(err)
		}
		if busy {
			return nil, httperr.Conflict("Cannot change role of a user with linked records")
		}
		u.Role = *in.Role
	}

	if err := s.repo.Update(ctx, u); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, httperr.NotFound("User not found")
		}
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, httperr.Conflict("User already exists")
		}
		return nil, httperr.Internal(err)
	}
	return u, nil
}

func (s *Service) Delete(ctx context.Context, actor auth.Actor, id uuid.UUID) error {
	if actor.ID == id {
		return httperr.Conflict("You cannot delete your own account")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return httperr.NotFound("User not found")
		}
		return httperr.Internal(err)
	}
	return nil
}

// Login verifies credentials and returns the user. The same error is
// returned for unknown emails and wrong passwords.
func (s *Service) Login(ctx context.Context, email, password string) (*User, error) {
	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, httperr.Conflict("Invalid credentials")
		}
		return nil, httperr.Internal(err)
	}
	if !auth.CheckPassword(u.PasswordDigest, password) {
		return nil, httperr.Conflict("Invalid credentials")
	}
	return u, nil
}
