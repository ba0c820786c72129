package patients

import (
	"time"

	"github.com/google/uuid"
)

// Genders accepted on a patient record.
const (
	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderOther  = "Other"
)

// PatientRecord maps to the patient_records table. It holds the clinical
// profile of a user with the patient role; the account itself lives in the
// users table and is referenced by PatientID.
type PatientRecord struct {
	ID             uuid.UUID `db:"id" json:"id"`
	PatientID      uuid.UUID `db:"patient_id" json:"patient_id"`
	Age            int       `db:"age" json:"age"`
	Gender         string    `db:"gender" json:"gender"`
	BloodGroup     string    `db:"blood_group" json:"blood_group"`
	ContactNumber  string    `db:"contact_number" json:"contact_number"`
	Address        string    `db:"address" json:"address"`
	MedicalHistory []string  `db:"medical_history" json:"medical_history"`
	Allergies      []string  `db:"allergies" json:"allergies"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// Detail is a record joined with its owner's account details, the expanded
// form list and read endpoints return.
type Detail struct {
	PatientRecord
	PatientName  string `db:"patient_name" json:"patient_name"`
	PatientEmail string `db:"patient_email" json:"patient_email"`
}
