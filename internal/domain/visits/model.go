package visits

import (
	"time"

	"github.com/google/uuid"
)

// MedicalVisit maps to the medical_visits table. Visits are append-only:
// once recorded they are never updated or deleted.
type MedicalVisit struct {
	ID           uuid.UUID `db:"id" json:"id"`
	PatientID    uuid.UUID `db:"patient_id" json:"patient_id"`
	DoctorID     uuid.UUID `db:"doctor_id" json:"doctor_id"`
	Diagnosis    string    `db:"diagnosis" json:"diagnosis"`
	Prescription string    `db:"prescription" json:"prescription"`
	Notes        string    `db:"notes" json:"notes"`
	VisitDate    time.Time `db:"visit_date" json:"visit_date"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Detail is a visit joined with the names of both parties.
type Detail struct {
	MedicalVisit
	PatientName string `db:"patient_name" json:"patient_name"`
	DoctorName  string `db:"doctor_name" json:"doctor_name"`
}
