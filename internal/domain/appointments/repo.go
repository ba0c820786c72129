package appointments

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned by repositories when no appointment matches.
var ErrNotFound = errors.New("appointment not found")

// Filter narrows appointment queries. Zero-value fields are ignored.
type Filter struct {
	PatientID uuid.UUID
	DoctorID  uuid.UUID
}

type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Detail, error)
	List(ctx context.Context, f Filter, limit, offset int) ([]*Detail, int, error)
	Update(ctx context.Context, a *Appointment) error
	Delete(ctx context.Context, id uuid.UUID) error
	ExistsForUser(ctx context.Context, userID uuid.UUID) (bool, error)
}
