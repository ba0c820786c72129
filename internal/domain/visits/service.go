package visits

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/hms/hms/internal/domain/identity"
	"github.com/hms/hms/internal/platform/auth"
	"github.com/hms/hms/internal/platform/httperr"
)

// UserDirectory resolves user references when validating a visit's patient.
type UserDirectory interface {
	GetByID(ctx context.Context, id uuid.UUID) (*identity.User, error)
}

type Service struct {
	repo  Repository
	users UserDirectory
}

func NewService(repo Repository, users UserDirectory) *Service {
	return &Service{repo: repo, users: users}
}

type CreateInput struct {
	PatientID    uuid.UUID
	Diagnosis    string
	Prescription string
	Notes        string
	VisitDate    time.Time
}

// Create records a visit. The doctor id is always the acting doctor; clients
// cannot record visits on another doctor's behalf.
func (s *Service) Create(ctx context.Context, actor auth.Actor, in CreateInput) (*Detail, error) {
	if err := auth.Authorize(actor, auth.ResourceMedicalVisit, auth.ActionCreate, auth.Owners{DoctorID: actor.ID}); err != nil {
		return nil, err
	}

	patient, err := s.users.GetByID(ctx, in.PatientID)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return nil, httperr.Conflict("Invalid patient")
		}
		return nil, httperr.Internal(err)
	}
	if patient.Role != auth.RolePatient {
		return nil, httperr.Conflict("Invalid patient")
	}

	v := &MedicalVisit{
		PatientID:    in.PatientID,
		DoctorID:     actor.ID,
		Diagnosis:    in.Diagnosis,
		Prescription: in.Prescription,
		Notes:        in.Notes,
		VisitDate:    in.VisitDate,
	}
	if err := s.repo.Create(ctx, v); err != nil {
		return nil, httperr.Internal(err)
	}

	return &Detail{MedicalVisit: *v, PatientName: patient.Name, DoctorName: actor.Name}, nil
}

// List returns visits scoped by the actor's grant: admins see everything,
// doctors only the visits they recorded.
func (s *Service) List(ctx context.Context, actor auth.Actor, limit, offset int) ([]*Detail, int, error) {
	var f Filter
	switch auth.Decide(actor.Role, auth.ResourceMedicalVisit, auth.ActionList) {
	case auth.GrantAll:
	case auth.GrantOwn:
		f.DoctorID = actor.ID
	default:
		return nil, 0, httperr.Forbidden("")
	}

	visits, total, err := s.repo.List(ctx, f, limit, offset)
	if err != nil {
		return nil, 0, httperr.Internal(err)
	}
	return visits, total, nil
}

// ListForPatient returns one patient's visit history. Patients may only ask
// for their own id, and the check precedes any lookup; doctors get the
// subset of that history they recorded themselves.
func (s *Service) ListForPatient(ctx context.Context, actor auth.Actor, patientID uuid.UUID, limit, offset int) ([]*Detail, int, error) {
	f := Filter{PatientID: patientID}
	switch auth.Decide(actor.Role, auth.ResourceMedicalVisit, auth.ActionRead) {
	case auth.GrantAll:
	case auth.GrantOwn:
		switch actor.Role {
		case auth.RoleDoctor:
			f.DoctorID = actor.ID
		default:
			if err := auth.Authorize(actor, auth.ResourceMedicalVisit, auth.ActionRead, auth.Owners{PatientID: patientID}); err != nil {
				return nil, 0, err
			}
		}
	default:
		return nil, 0, httperr.Forbidden("")
	}

	visits, total, err := s.repo.List(ctx, f, limit, offset)
	if err != nil {
		return nil, 0, httperr.Internal(err)
	}
	return visits, total, nil
}
