package appointments

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/hms/hms/internal/domain/identity"
	"github.com/hms/hms/internal/platform/auth"
	"github.com/hms/hms/internal/platform/httperr"
)

// UserDirectory resolves user references when validating an appointment's
// participants.
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
	PatientID       uuid.UUID
	DoctorID        uuid.UUID
	AppointmentDate time.Time
}

// Create books an appointment. Staff may book for any patient; a patient may
// only book for themselves.
func (s *Service) Create(ctx context.Context, actor auth.Actor, in CreateInput) (*Detail, error) {
	switch auth.Decide(actor.Role, auth.ResourceAppointment, auth.ActionCreate) {
	case auth.GrantAll:
	case auth.GrantOwn:
		if actor.ID != in.PatientID {
			return nil, httperr.Forbidden("You can only create appointments for yourself")
		}
	default:
		return nil, httperr.Forbidden("")
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

	doctor, err := s.users.GetByID(ctx, in.DoctorID)
	if err != nil {
		if errors.Is(err, identity.ErrNotFound) {
			return nil, httperr.Conflict("Invalid doctor")
		}
		return nil, httperr.Internal(err)
	}
	if doctor.Role != auth.RoleDoctor {
		return nil, httperr.Conflict("Invalid doctor")
	}

	a := &Appointment{
		PatientID:       in.PatientID,
		DoctorID:        in.DoctorID,
		AppointmentDate: in.AppointmentDate,
		Status:          StatusScheduled,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, httperr.Internal(err)
	}

	return &Detail{Appointment: *a, PatientName: patient.Name, DoctorName: doctor.Name}, nil
}

// List returns appointments scoped by the actor's grant: staff see
// everything, doctors and patients only their own.
func (s *Service) List(ctx context.Context, actor auth.Actor, limit, offset int) ([]*Detail, int, error) {
	var f Filter
	switch auth.Decide(actor.Role, auth.ResourceAppointment, auth.ActionList) {
	case auth.GrantAll:
	case auth.GrantOwn:
		if actor.Role == auth.RoleDoctor {
			f.DoctorID = actor.ID
		} else {
			f.PatientID = actor.ID
		}
	default:
		return nil, 0, httperr.Forbidden("")
	}

	appts, total, err := s.repo.List(ctx, f, limit, offset)
	if err != nil {
		return nil, 0, httperr.Internal(err)
	}
	return appts, total, nil
}

// Get returns one appointment, provided the actor may see it.
func (s *Service) Get(ctx context.Context, actor auth.Actor, id uuid.UUID) (*Detail, error) {
	a, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	owners := auth.Owners{PatientID: a.PatientID, DoctorID: a.DoctorID}
	if err := auth.Authorize(actor, auth.ResourceAppointment, auth.ActionRead, owners); err != nil {
		return nil, err
	}
	return a, nil
}

// Update moves an appointment through its lifecycle. The status is the only
// mutable field; any of the three values may be set at any time, and setting
// the current status again succeeds. Staff may touch any appointment, a
// doctor only their own; patients cancel by deleting, not by updating.
func (s *Service) Update(ctx context.Context, actor auth.Actor, id uuid.UUID, status Status) (*Detail, error) {
	a, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	owners := auth.Owners{PatientID: a.PatientID, DoctorID: a.DoctorID}
	if err := auth.Authorize(actor, auth.ResourceAppointment, auth.ActionUpdate, owners); err != nil {
		return nil, err
	}

	if !status.Valid() {
		return nil, httperr.Conflict("Invalid status")
	}
	a.Status = status

	if err := s.repo.Update(ctx, &a.Appointment); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, httperr.NotFound("Appointment not found")
		}
		return nil, httperr.Internal(err)
	}
	return a, nil
}

// Delete removes an appointment outright. Staff may remove any, a patient
// only their own booking.
func (s *Service) Delete(ctx context.Context, actor auth.Actor, id uuid.UUID) error {
	a, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	owners := auth.Owners{PatientID: a.PatientID, DoctorID: a.DoctorID}
	if err := auth.Authorize(actor, auth.ResourceAppointment, auth.ActionDelete, owners); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return httperr.NotFound("Appointment not found")
		}
		return httperr.Internal(err)
	}
	return nil
}

func (s *Service) get(ctx context.Context, id uuid.UUID) (*Detail, error) {
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, httperr.NotFound("Appointment not found")
		}
		return nil, httperr.Internal(err)
	}
	return a, nil
}
