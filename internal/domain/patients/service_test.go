package patients

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"

	"github.com/hms/hms/internal/domain/identity"
	"github.com/hms/hms/internal/platform/auth"
	"github.com/hms/hms/internal/platform/httperr"
)

type mockRepo struct {
	records map[uuid.UUID]*PatientRecord // keyed by patient user id
	names   map[uuid.UUID]string
	emails  map[uuid.UUID]string
	err     error
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		records: make(map[uuid.UUID]*PatientRecord),
		names:   make(map[uuid.UUID]string),
		emails:  make(map[uuid.UUID]string),
	}
}

func (m *mockRepo) detail(rec *PatientRecord) *Detail {
	return &Detail{
		PatientRecord: *rec,
		PatientName:   m.names[rec.PatientID],
		PatientEmail:  m.emails[rec.PatientID],
	}
}

func (m *mockRepo) Create(_ context.Context, rec *PatientRecord) error {
	if m.err != nil {
		return m.err
	}
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	cp := *rec
	m.records[rec.PatientID] = &cp
	return nil
}

func (m *mockRepo) GetByPatientID(_ context.Context, patientID uuid.UUID) (*Detail, error) {
	if m.err != nil {
		return nil, m.err
	}
	rec, ok := m.records[patientID]
	if !ok {
		return nil, ErrNotFound
	}
	return m.detail(rec), nil
}

func (m *mockRepo) List(_ context.Context, limit, offset int) ([]*Detail, int, error) {
	if m.err != nil {
		return nil, 0, m.err
	}
	var out []*Detail
	for _, rec := range m.records {
		out = append(out, m.detail(rec))
	}
	total := len(out)
	if offset > len(out) {
		return nil, total, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, total, nil
}

func (m *mockRepo) Update(_ context.Context, rec *PatientRecord) error {
	if m.err != nil {
		return m.err
	}
	existing, ok := m.records[rec.PatientID]
	if !ok || existing.ID != rec.ID {
		return ErrNotFound
	}
	cp := *rec
	m.records[rec.PatientID] = &cp
	return nil
}

func (m *mockRepo) ExistsForUser(_ context.Context, userID uuid.UUID) (bool, error) {
	_, ok := m.records[userID]
	return ok, m.err
}

type mockUsers struct {
	byEmail   map[string]*identity.User
	createErr error
	created   []*identity.User
}

func newMockUsers() *mockUsers {
	return &mockUsers{byEmail: make(map[string]*identity.User)}
}

func (m *mockUsers) Create(_ context.Context, u *identity.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	m.byEmail[u.Email] = u
	m.created = append(m.created, u)
	return nil
}

func (m *mockUsers) GetByEmail(_ context.Context, email string) (*identity.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return nil, identity.ErrNotFound
	}
	return u, nil
}

// mockTx records whether a transaction ran and simply invokes fn.
type mockTx struct {
	calls int
}

func (m *mockTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	return fn(ctx)
}

func newTestService(repo *mockRepo, users *mockUsers, tx *mockTx) *Service {
	return NewService(repo, users, tx, 4)
}

func validOnboard() OnboardInput {
	return OnboardInput{
		Name:          "Pat Doe",
		Email:         "pat@hospital.test",
		Password:      "secret123",
		Age:           34,
		Gender:        GenderFemale,
		BloodGroup:    "O+",
		ContactNumber: "555-0100",
		Address:       "12 Main St",
	}
}

func wantStatus(t *testing.T, err error, status int) *httperr.Error {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with status %d, got nil", status)
	}
	var he *httperr.Error
	if !errors.As(err, &he) {
		t.Fatalf("expected *httperr.Error, got %T: %v", err, err)
	}
	if he.Status != status {
		t.Fatalf("status = %d, want %d (message %q)", he.Status, status, he.Message)
	}
	return he
}

func TestOnboard(t *testing.T) {
	repo := newMockRepo()
	users := newMockUsers()
	tx := &mockTx{}
	svc := newTestService(repo, users, tx)

	user, rec, err := svc.Onboard(context.Background(), validOnboard())
	if err != nil {
		t.Fatalf("Onboard: %v", err)
	}

	if tx.calls != 1 {
		t.Errorf("tx calls = %d, want 1", tx.calls)
	}
	if len(users.created) != 1 {
		t.Fatalf("created %d users, want 1", len(users.created))
	}
	u := users.created[0]
	if u.Role != auth.RolePatient {
		t.Errorf("onboarded account role = %s, want patient", u.Role)
	}
	if !auth.CheckPassword(u.PasswordDigest, "secret123") {
		t.Error("password digest does not verify")
	}
	if rec.PatientID != u.ID {
		t.Errorf("record patient_id = %s, want %s", rec.PatientID, u.ID)
	}
	if user.Name != "Pat Doe" || user.Email != "pat@hospital.test" {
		t.Errorf("user = %+v", user)
	}
}

func TestOnboardDuplicateEmail(t *testing.T) {
	repo := newMockRepo()
	users := newMockUsers()
	users.byEmail["pat@hospital.test"] = &identity.User{ID: uuid.New(), Email: "pat@hospital.test"}
	svc := newTestService(repo, users, &mockTx{})

	_, _, err := svc.Onboard(context.Background(), validOnboard())
	he := wantStatus(t, err, http.StatusBadRequest)
	if he.Message != "User already exists" {
		t.Errorf("message = %q", he.Message)
	}
	if len(repo.records) != 0 {
		t.Error("record created despite duplicate email")
	}
}

func TestOnboardRollsBackUserOnRecordFailure(t *testing.T) {
	repo := newMockRepo()
	repo.err = errors.New("insert failed")
	users := newMockUsers()
	svc := newTestService(repo, users, &mockTx{})

	_, _, err := svc.Onboard(context.Background(), validOnboard())
	wantStatus(t, err, http.StatusInternalServerError)
}

func TestGetOwnRecord(t *testing.T) {
	repo := newMockRepo()
	patientID := uuid.New()
	repo.records[patientID] = &PatientRecord{ID: uuid.New(), PatientID: patientID, Age: 30, Gender: GenderMale, BloodGroup: "A+"}
	repo.names[patientID] = "Pat"
	repo.emails[patientID] = "pat@hospital.test"
	svc := newTestService(repo, newMockUsers(), &mockTx{})

	actor := auth.Actor{ID: patientID, Role: auth.RolePatient}
	d, err := svc.Get(context.Background(), actor, patientID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if d.PatientName != "Pat" {
		t.Errorf("detail = %+v", d)
	}
}

func TestGetForeignRecordForbiddenRegardlessOfExistence(t *testing.T) {
	repo := newMockRepo()
	existing := uuid.New()
	repo.records[existing] = &PatientRecord{ID: uuid.New(), PatientID: existing}
	svc := newTestService(repo, newMockUsers(), &mockTx{})

	actor := auth.Actor{ID: uuid.New(), Role: auth.RolePatient}

	// Existing foreign record: 403, not 404.
	_, err := svc.Get(context.Background(), actor, existing)
	wantStatus(t, err, http.StatusForbidden)

	// Nonexistent foreign record: identical 403, so existence cannot be probed.
	_, err = svc.Get(context.Background(), actor, uuid.New())
	wantStatus(t, err, http.StatusForbidden)
}

func TestGetStaffRoles(t *testing.T) {
	repo := newMockRepo()
	patientID := uuid.New()
	repo.records[patientID] = &PatientRecord{ID: uuid.New(), PatientID: patientID}
	svc := newTestService(repo, newMockUsers(), &mockTx{})

	for _, role := range []auth.Role{auth.RoleAdmin, auth.RoleDoctor, auth.RoleReceptionist} {
		actor := auth.Actor{ID: uuid.New(), Role: role}
		if _, err := svc.Get(context.Background(), actor, patientID); err != nil {
			t.Errorf("%s: %v", role, err)
		}
	}
}

func TestGetNotFoundForStaff(t *testing.T) {
	svc := newTestService(newMockRepo(), newMockUsers(), &mockTx{})
	actor := auth.Actor{ID: uuid.New(), Role: auth.RoleAdmin}
	_, err := svc.Get(context.Background(), actor, uuid.New())
	wantStatus(t, err, http.StatusNotFound)
}

func TestUpdateRecord(t *testing.T) {
	repo := newMockRepo()
	patientID := uuid.New()
	repo.records[patientID] = &PatientRecord{
		ID: uuid.New(), PatientID: patientID,
		Age: 30, Gender: GenderMale, BloodGroup: "A+",
		ContactNumber: "555-0100", Address: "12 Main St",
		MedicalHistory: []string{"asthma"},
	}
	svc := newTestService(repo, newMockUsers(), &mockTx{})

	newAge := 31
	newContact := "555-0199"
	d, err := svc.Update(context.Background(), patientID, UpdateInput{Age: &newAge, ContactNumber: &newContact})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	if d.Age != 31 {
		t.Errorf("age = %d, want 31", d.Age)
	}
	if d.ContactNumber != "555-0199" {
		t.Errorf("contact = %q", d.ContactNumber)
	}
	// Untouched fields survive a partial update, medical history included.
	if d.Gender != GenderMale || d.BloodGroup != "A+" || len(d.MedicalHistory) != 1 {
		t.Errorf("untouched fields changed: %+v", d.PatientRecord)
	}
}

func TestUpdateRecordNotFound(t *testing.T) {
	svc := newTestService(newMockRepo(), newMockUsers(), &mockTx{})
	age := 40
	_, err := svc.Update(context.Background(), uuid.New(), UpdateInput{Age: &age})
	wantStatus(t, err, http.StatusNotFound)
}

func TestListRecords(t *testing.T) {
	repo := newMockRepo()
	for i := 0; i < 3; i++ {
		pid := uuid.New()
		repo.records[pid] = &PatientRecord{ID: uuid.New(), PatientID: pid}
	}
	svc := newTestService(repo, newMockUsers(), &mockTx{})

	records, total, err := svc.List(context.Background(), 2, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 3 || len(records) != 2 {
		t.Errorf("got %d/%d, want 2 of 3", len(records), total)
	}
}

func TestRecordSurvivesDeletedAccount(t *testing.T) {
	// Removing a user account does not remove their patient record. Staff
	// still read it, with blank name and email where the account was.
	repo := newMockRepo()
	patientID := uuid.New()
	repo.records[patientID] = &PatientRecord{ID: uuid.New(), PatientID: patientID, Age: 30, Gender: GenderFemale, BloodGroup: "B+"}
	svc := newTestService(repo, newMockUsers(), &mockTx{})

	admin := auth.Actor{ID: uuid.New(), Role: auth.RoleAdmin}
	d, err := svc.Get(context.Background(), admin, patientID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if d.PatientName != "" || d.PatientEmail != "" {
		t.Errorf("want blank name and email for removed account, got %+v", d)
	}

	list, total, err := svc.List(context.Background(), 20, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 || len(list) != 1 {
		t.Fatalf("total = %d, len = %d, want the orphaned record listed", total, len(list))
	}
}
