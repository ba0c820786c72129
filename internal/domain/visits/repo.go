package visits

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned by repositories when no visit matches.
var ErrNotFound = errors.New("visit not found")

// Filter narrows visit queries. Zero-value fields are ignored, so the same
// repository method serves the admin view and the ownership-scoped views.
type Filter struct {
	PatientID uuid.UUID
	DoctorID  uuid.UUID
}

type Repository interface {
	Create(ctx context.Context, v *MedicalVisit) error
	List(ctx context.Context, f Filter, limit, offset int) ([]*Detail, int, error)
	ExistsForUser(ctx context.Context, userID uuid.UUID) (bool, error)
}
