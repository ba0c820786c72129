package patients

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/hms/hms/internal/domain/identity"
	"github.com/hms/hms/internal/platform/auth"
	"github.com/hms/hms/internal/platform/db"
	"github.com/hms/hms/internal/platform/httperr"
)

// UserDirectory is the slice of the identity repository onboarding needs.
type UserDirectory interface {
	Create(ctx context.Context, u *identity.User) error
	GetByEmail(ctx context.Context, email string) (*identity.User, error)
}

type Service struct {
	repo       Repository
	users      UserDirectory
	tx         db.TxRunner
	bcryptCost int
}

func NewService(repo Repository, users UserDirectory, tx db.TxRunner, bcryptCost int) *Service {
	return &Service{repo: repo, users: users, tx: tx, bcryptCost: bcryptCost}
}

// OnboardInput registers a patient: a login account plus a clinical record.
type OnboardInput struct {
	Name           string
	Email          string
	Password       string
	Age            int
	Gender         string
	BloodGroup     string
	ContactNumber  string
	Address        string
	MedicalHistory []string
	Allergies      []string
}

// Onboard creates the patient account and its record in one transaction, so
// a failure on either side leaves nothing behind. Both halves are returned
// separately: the account for the login envelope, the record for the chart.
func (s *Service) Onboard(ctx context.Context, in OnboardInput) (*identity.User, *PatientRecord, error) {
	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, nil, httperr.Conflict("User already exists")
	} else if !errors.Is(err, identity.ErrNotFound) {
		return nil, nil, httperr.Internal(err)
	}

	digest, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, nil, httperr.Internal(err)
	}

	user := &identity.User{
		Name:           in.Name,
		Email:          in.Email,
		PasswordDigest: digest,
		Role:           auth.RolePatient,
	}
	rec := &PatientRecord{
		Age:            in.Age,
		Gender:         in.Gender,
		BloodGroup:     in.BloodGroup,
		ContactNumber:  in.ContactNumber,
		Address:        in.Address,
		MedicalHistory: in.MedicalHistory,
		Allergies:      in.Allergies,
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.users.Create(ctx, user); err != nil {
			return err
		}
		rec.PatientID = user.ID
		return s.repo.Create(ctx, rec)
	})
	if err != nil {
		if errors.Is(err, identity.ErrDuplicateEmail) {
			return nil, nil, httperr.Conflict("User already exists")
		}
		return nil, nil, httperr.Internal(err)
	}

	return user, rec, nil
}

// Get returns the record for the given patient user id. Ownership is checked
// before the lookup: a patient probing a foreign id gets 403 whether or not
// that record exists.
func (s *Service) Get(ctx context.Context, actor auth.Actor, patientID uuid.UUID) (*Detail, error) {
	if err := auth.Authorize(actor, auth.ResourcePatientRecord, auth.ActionRead, auth.Owners{PatientID: patientID}); err != nil {
		return nil, err
	}

	d, err := s.repo.GetByPatientID(ctx, patientID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, httperr.NotFound("Patient record not found")
		}
		return nil, httperr.Internal(err)
	}
	return d, nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Detail, int, error) {
	records, total, err := s.repo.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, httperr.Internal(err)
	}
	return records, total, nil
}

// UpdateInput carries the mutable record fields, nil meaning "leave as is".
// Medical history and allergies are deliberately absent: they grow through
// recorded visits, not through front-desk edits.
type UpdateInput struct {
	Age           *int
	Gender        *string
	BloodGroup    *string
	ContactNumber *string
	Address       *string
}

func (s *Service) Update(ctx context.Context, patientID uuid.UUID, in UpdateInput) (*Detail, error) {
	d, err := s.repo.GetByPatientID(ctx, patientID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, httperr.NotFound("Patient record not found")
		}
		return nil, httperr.Internal(err)
	}

	rec := d.PatientRecord
	if in.Age != nil {
		rec.Age = *in.Age
	}
	if in.Gender != nil {
		rec.Gender = *in.Gender
	}
	if in.BloodGroup != nil {
		rec.BloodGroup = *in.BloodGroup
	}
	if in.ContactNumber != nil {
		rec.ContactNumber = *in.ContactNumber
	}
	if in.Address != nil {
		rec.Address = *in.Address
	}

	if err := s.repo.Update(ctx, &rec); err != nil {
		return nil, httperr.Internal(err)
	}

	d.PatientRecord = rec
	return d, nil
}
