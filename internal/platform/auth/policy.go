package auth

import (
	"github.com/google/uuid"
)

// Role is the closed set of user roles. Parsing rejects anything outside it
// so authorization decisions never see an unknown role.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleDoctor       Role = "doctor"
	RoleReceptionist Role = "receptionist"
	RolePatient      Role = "patient"
)

// Roles lists every valid role, in display order.
func Roles() []Role {
	return []Role{RoleAdmin, RoleDoctor, RoleReceptionist, RolePatient}
}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleDoctor, RoleReceptionist, RolePatient:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// ParseRole converts a raw string into a Role.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.Valid()
}

// Resource identifies a protected record type.
type Resource string

const (
	ResourceUser          Resource = "user"
	ResourcePatientRecord Resource = "patient_record"
	ResourceMedicalVisit  Resource = "medical_visit"
	ResourceAppointment   Resource = "appointment"
)

// Action identifies an operation on a resource.
type Action string

const (
	ActionCreate Action = "create"
	ActionList   Action = "list"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Grant is the outcome of a policy decision.
//
//	GrantNone: the role may not perform the action at all.
//	GrantOwn:  the role may perform the action only on records it owns
//	           (patients own records referencing them as the patient,
//	           doctors own records referencing them as the doctor).
//	GrantAll:  the role may perform the action on any record.
type Grant int

const (
	GrantNone Grant = iota
	GrantOwn
	GrantAll
)

func (g Grant) String() string {
	switch g {
	case GrantOwn:
		return "own"
	case GrantAll:
		return "all"
	}
	return "none"
}

// Decide is the single source of truth for the role/resource/action matrix.
// It is a pure function: callers resolve ownership separately via Authorize.
func Decide(role Role, resource Resource, action Action) Grant {
	switch resource {
	case ResourceUser:
		// User accounts are managed exclusively by administrators.
		if role == RoleAdmin {
			return GrantAll
		}
		return GrantNone

	case ResourcePatientRecord:
		switch action {
		case ActionCreate, ActionUpdate:
			if role == RoleAdmin || role == RoleReceptionist {
				return GrantAll
			}
			return GrantNone
		case ActionList:
			if role == RoleAdmin || role == RoleDoctor || role == RoleReceptionist {
				return GrantAll
			}
			return GrantNone
		case ActionRead:
			switch role {
			case RoleAdmin, RoleDoctor, RoleReceptionist:
				return GrantAll
			case RolePatient:
				return GrantOwn
			}
			return GrantNone
		case ActionDelete:
			// Records outlive their subjects; nobody deletes them.
			return GrantNone
		}
		return GrantNone

	case ResourceMedicalVisit:
		switch action {
		case ActionCreate:
			// Only the treating doctor records a visit, not even admins.
			if role == RoleDoctor {
				return GrantOwn
			}
			return GrantNone
		case ActionList:
			switch role {
			case RoleAdmin:
				return GrantAll
			case RoleDoctor:
				return GrantOwn
			}
			return GrantNone
		case ActionRead:
			switch role {
			case RoleAdmin:
				return GrantAll
			case RoleDoctor, RolePatient:
				return GrantOwn
			}
			return GrantNone
		case ActionUpdate, ActionDelete:
			// Visits are immutable once recorded.
			return GrantNone
		}
		return GrantNone

	case ResourceAppointment:
		switch action {
		case ActionCreate:
			switch role {
			case RoleAdmin, RoleReceptionist:
				return GrantAll
			case RolePatient:
				return GrantOwn
			}
			return GrantNone
		case ActionList, ActionRead:
			switch role {
			case RoleAdmin, RoleReceptionist:
				return GrantAll
			case RoleDoctor, RolePatient:
				return GrantOwn
			}
			return GrantNone
		case ActionUpdate:
			switch role {
			case RoleAdmin, RoleReceptionist:
				return GrantAll
			case RoleDoctor:
				return GrantOwn
			}
			return GrantNone
		case ActionDelete:
			switch role {
			case RoleAdmin, RoleReceptionist:
				return GrantAll
			case RolePatient:
				return GrantOwn
			}
			return GrantNone
		}
		return GrantNone
	}

	return GrantNone
}

// Owners carries the owning references of a record for GrantOwn resolution.
// A patient actor owns a record whose PatientID matches their user id; a
// doctor actor owns one whose DoctorID matches.
type Owners struct {
	PatientID uuid.UUID
	DoctorID  uuid.UUID
}

// Owns reports whether the actor is an owner of a record with the given
// owning references.
func (a Actor) Owns(o Owners) bool {
	switch a.Role {
	case RolePatient:
		return o.PatientID != uuid.Nil && o.PatientID == a.ID
	case RoleDoctor:
		return o.DoctorID != uuid.Nil && o.DoctorID == a.ID
	}
	return false
}
