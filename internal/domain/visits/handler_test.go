package visits

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/hms/hms/internal/platform/auth"
	"github.com/hms/hms/internal/platform/httperr"
)

func newTestHandler(repo *mockRepo, users *mockUsers) *Handler {
	return NewHandler(NewService(repo, users))
}

func doRequest(h echo.HandlerFunc, method, path, body string, actor auth.Actor, patientID string) (*httptest.ResponseRecorder, error) {
	e := echo.New()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	req = req.WithContext(auth.WithActor(req.Context(), actor))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if patientID != "" {
		c.SetParamNames("patientId")
		c.SetParamValues(patientID)
	}
	return rec, h(c)
}

func wantHandlerStatus(t *testing.T, err error, status int) *httperr.Error {
	t.Helper()
	he, ok := err.(*httperr.Error)
	if !ok {
		t.Fatalf("expected *httperr.Error, got %T: %v", err, err)
	}
	if he.Status != status {
		t.Fatalf("status = %d, want %d (message %q)", he.Status, status, he.Message)
	}
	return he
}

func TestHandlerCreate(t *testing.T) {
	repo := newMockRepo()
	users := newMockUsers()
	patient := users.add("pat", auth.RolePatient)
	doctor := users.add("adams", auth.RoleDoctor)
	h := newTestHandler(repo, users)

	actor := auth.Actor{ID: doctor.ID, Role: auth.RoleDoctor, Name: doctor.Name}
	body := `{"patientId":"` + patient.ID.String() + `","diagnosis":"Bronchitis","prescription":"Amoxicillin"}`
	rec, err := doRequest(h.Create, http.MethodPost, "/api/visits", body, actor, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}

	var got Detail
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if got.DoctorID != doctor.ID {
		t.Errorf("doctor_id = %s, want %s", got.DoctorID, doctor.ID)
	}
	if got.PatientName != "pat" || got.DoctorName != "adams" {
		t.Errorf("names = %q / %q", got.PatientName, got.DoctorName)
	}
}

func TestHandlerCreateValidation(t *testing.T) {
	users := newMockUsers()
	doctor := users.add("adams", auth.RoleDoctor)
	h := newTestHandler(newMockRepo(), users)
	actor := auth.Actor{ID: doctor.ID, Role: auth.RoleDoctor}

	_, err := doRequest(h.Create, http.MethodPost, "/api/visits", `{"diagnosis":"x"}`, actor, "")
	he := wantHandlerStatus(t, err, http.StatusBadRequest)

	params := make(map[string]bool)
	for _, fe := range he.Fields {
		params[fe.Param] = true
	}
	if !params["patientId"] || !params["prescription"] {
		t.Errorf("missing field errors, got %v", he.Fields)
	}
}

func TestHandlerCreateBadPatientID(t *testing.T) {
	users := newMockUsers()
	doctor := users.add("adams", auth.RoleDoctor)
	h := newTestHandler(newMockRepo(), users)
	actor := auth.Actor{ID: doctor.ID, Role: auth.RoleDoctor}

	_, err := doRequest(h.Create, http.MethodPost, "/api/visits",
		`{"patientId":"not-a-uuid","diagnosis":"x","prescription":"y"}`, actor, "")
	wantHandlerStatus(t, err, http.StatusBadRequest)
}

func TestHandlerList(t *testing.T) {
	repo := newMockRepo()
	users := newMockUsers()
	pat := users.add("pat", auth.RolePatient)
	dr := users.add("adams", auth.RoleDoctor)
	seedVisit(repo, pat.ID, dr.ID)
	seedVisit(repo, pat.ID, dr.ID)
	h := newTestHandler(repo, users)

	admin := auth.Actor{ID: uuid.New(), Role: auth.RoleAdmin}
	rec, err := doRequest(h.List, http.MethodGet, "/api/visits?limit=1", "", admin, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var envelope struct {
		Data    []Detail `json:"data"`
		Total   int      `json:"total"`
		HasMore bool     `json:"has_more"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if envelope.Total != 2 || len(envelope.Data) != 1 || !envelope.HasMore {
		t.Errorf("envelope = %+v", envelope)
	}
}

func TestHandlerListForPatient(t *testing.T) {
	repo := newMockRepo()
	users := newMockUsers()
	pat := users.add("pat", auth.RolePatient)
	dr := users.add("adams", auth.RoleDoctor)
	seedVisit(repo, pat.ID, dr.ID)
	h := newTestHandler(repo, users)

	self := auth.Actor{ID: pat.ID, Role: auth.RolePatient}
	rec, err := doRequest(h.ListForPatient, http.MethodGet, "/api/visits/"+pat.ID.String(), "", self, pat.ID.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	intruder := auth.Actor{ID: uuid.New(), Role: auth.RolePatient}
	_, err = doRequest(h.ListForPatient, http.MethodGet, "/api/visits/"+pat.ID.String(), "", intruder, pat.ID.String())
	wantHandlerStatus(t, err, http.StatusForbidden)
}

func TestHandlerListForPatientBadID(t *testing.T) {
	h := newTestHandler(newMockRepo(), newMockUsers())
	admin := auth.Actor{ID: uuid.New(), Role: auth.RoleAdmin}

	_, err := doRequest(h.ListForPatient, http.MethodGet, "/api/visits/nope", "", admin, "nope")
	wantHandlerStatus(t, err, http.StatusBadRequest)
}
