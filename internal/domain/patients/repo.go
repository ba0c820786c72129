package patients

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrNotFound is returned by repositories when no record matches.
var ErrNotFound = errors.New("patient record not found")

type Repository interface {
	Create(ctx context.Context, rec *PatientRecord) error
	GetByPatientID(ctx context.Context, patientID uuid.UUID) (*Detail, error)
	List(ctx context.Context, limit, offset int) ([]*Detail, int, error)
	Update(ctx context.Context, rec *PatientRecord) error
	ExistsForUser(ctx context.Context, userID uuid.UUID) (bool, error)
}
