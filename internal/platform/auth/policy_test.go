package auth

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
)

// decisionTable pins the complete role/resource/action matrix. Any change to
// Decide must be reflected here deliberately.
var decisionTable = map[Role]map[Resource]map[Action]Grant{
	RoleAdmin: {
		ResourceUser: {
			ActionCreate: GrantAll, ActionList: GrantAll, ActionRead: GrantAll,
			ActionUpdate: GrantAll, ActionDelete: GrantAll,
		},
		ResourcePatientRecord: {
			ActionCreate: GrantAll, ActionList: GrantAll, ActionRead: GrantAll,
			ActionUpdate: GrantAll, ActionDelete: GrantNone,
		},
		ResourceMedicalVisit: {
			ActionCreate: GrantNone, ActionList: GrantAll, ActionRead: GrantAll,
			ActionUpdate: GrantNone, ActionDelete: GrantNone,
		},
		ResourceAppointment: {
			ActionCreate: GrantAll, ActionList: GrantAll, ActionRead: GrantAll,
			ActionUpdate: GrantAll, ActionDelete: GrantAll,
		},
	},
	RoleDoctor: {
		ResourceUser: {
			ActionCreate: GrantNone, ActionList: GrantNone, ActionRead: GrantNone,
			ActionUpdate: GrantNone, ActionDelete: GrantNone,
		},
		ResourcePatientRecord: {
			ActionCreate: GrantNone, ActionList: GrantAll, ActionRead: GrantAll,
			ActionUpdate: GrantNone, ActionDelete: GrantNone,
		},
		ResourceMedicalVisit: {
			ActionCreate: GrantOwn, ActionList: GrantOwn, ActionRead: GrantOwn,
			ActionUpdate: GrantNone, ActionDelete: GrantNone,
		},
		ResourceAppointment: {
			ActionCreate: GrantNone, ActionList: GrantOwn, ActionRead: GrantOwn,
			ActionUpdate: GrantOwn, ActionDelete: GrantNone,
		},
	},
	RoleReceptionist: {
		ResourceUser: {
			ActionCreate: GrantNone, ActionList: GrantNone, ActionRead: GrantNone,
			ActionUpdate: GrantNone, ActionDelete: GrantNone,
		},
		ResourcePatientRecord: {
			ActionCreate: GrantAll, ActionList: GrantAll, ActionRead: GrantAll,
			ActionUpdate: GrantAll, ActionDelete: GrantNone,
		},
		ResourceMedicalVisit: {
			ActionCreate: GrantNone, ActionList: GrantNone, ActionRead: GrantNone,
			ActionUpdate: GrantNone, ActionDelete: GrantNone,
		},
		ResourceAppointment: {
			ActionCreate: GrantAll, ActionList: GrantAll, ActionRead: GrantAll,
			ActionUpdate: GrantAll, ActionDelete: GrantAll,
		},
	},
	RolePatient: {
		ResourceUser: {
			ActionCreate: GrantNone, ActionList: GrantNone, ActionRead: GrantNone,
			ActionUpdate: GrantNone, ActionDelete: GrantNone,
		},
		ResourcePatientRecord: {
			ActionCreate: GrantNone, ActionList: GrantNone, ActionRead: GrantOwn,
			ActionUpdate: GrantNone, ActionDelete: GrantNone,
		},
		ResourceMedicalVisit: {
			ActionCreate: GrantNone, ActionList: GrantNone, ActionRead: GrantOwn,
			ActionUpdate: GrantNone, ActionDelete: GrantNone,
		},
		ResourceAppointment: {
			ActionCreate: GrantOwn, ActionList: GrantOwn, ActionRead: GrantOwn,
			ActionUpdate: GrantNone, ActionDelete: GrantOwn,
		},
	},
}

func TestDecideCoversFullMatrix(t *testing.T) {
	resources := []Resource{ResourceUser, ResourcePatientRecord, ResourceMedicalVisit, ResourceAppointment}
	actions := []Action{ActionCreate, ActionList, ActionRead, ActionUpdate, ActionDelete}

	for _, role := range Roles() {
		for _, res := range resources {
			for _, act := range actions {
				want := decisionTable[role][res][act]
				got := Decide(role, res, act)
				if got != want {
					t.Errorf("Decide(%s, %s, %s) = %s, want %s", role, res, act, got, want)
				}
			}
		}
	}
}

func TestDecideUnknownRole(t *testing.T) {
	if got := Decide(Role("superuser"), ResourceUser, ActionRead); got != GrantNone {
		t.Errorf("unknown role got %s, want none", got)
	}
}

func TestParseRole(t *testing.T) {
	for _, role := range Roles() {
		if got, ok := ParseRole(string(role)); !ok || got != role {
			t.Errorf("ParseRole(%q) = %v, %v", role, got, ok)
		}
	}
	if _, ok := ParseRole("root"); ok {
		t.Error("ParseRole accepted an unknown role")
	}
	if _, ok := ParseRole(""); ok {
		t.Error("ParseRole accepted the empty string")
	}
}

func TestActorOwns(t *testing.T) {
	patientID := uuid.New()
	doctorID := uuid.New()
	owners := Owners{PatientID: patientID, DoctorID: doctorID}

	tests := []struct {
		actor Actor
		want  bool
	}{
		{Actor{ID: patientID, Role: RolePatient}, true},
		{Actor{ID: doctorID, Role: RolePatient}, false},
		{Actor{ID: doctorID, Role: RoleDoctor}, true},
		{Actor{ID: patientID, Role: RoleDoctor}, false},
		{Actor{ID: patientID, Role: RoleAdmin}, false},
		{Actor{ID: patientID, Role: RoleReceptionist}, false},
	}
	for i, tt := range tests {
		if got := tt.actor.Owns(owners); got != tt.want {
			t.Errorf("case %d: Owns = %v, want %v", i, got, tt.want)
		}
	}

	// A nil owning reference never matches, even for a nil actor id.
	nilActor := Actor{Role: RolePatient}
	if nilActor.Owns(Owners{}) {
		t.Error("nil patient reference must not match a nil actor id")
	}
}

func TestAuthorize(t *testing.T) {
	patientID := uuid.New()
	other := uuid.New()

	// GrantAll passes regardless of ownership.
	admin := Actor{ID: uuid.New(), Role: RoleAdmin}
	if err := Authorize(admin, ResourceAppointment, ActionDelete, Owners{}); err != nil {
		t.Errorf("admin delete appointment: %v", err)
	}

	// GrantOwn passes only for the owner.
	patient := Actor{ID: patientID, Role: RolePatient}
	if err := Authorize(patient, ResourcePatientRecord, ActionRead, Owners{PatientID: patientID}); err != nil {
		t.Errorf("patient reading own record: %v", err)
	}
	if err := Authorize(patient, ResourcePatientRecord, ActionRead, Owners{PatientID: other}); err == nil {
		t.Error("patient reading a foreign record must be denied")
	}

	// GrantNone always fails.
	if err := Authorize(patient, ResourceUser, ActionList, Owners{}); err == nil {
		t.Error("patient listing users must be denied")
	}
}

func TestGrantString(t *testing.T) {
	for _, tt := range []struct {
		g    Grant
		want string
	}{{GrantNone, "none"}, {GrantOwn, "own"}, {GrantAll, "all"}} {
		if got := fmt.Sprint(tt.g); got != tt.want {
			t.Errorf("Grant(%d).String() = %q, want %q", tt.g, got, tt.want)
		}
	}
}
