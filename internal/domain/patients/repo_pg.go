package patients

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hms/hms/internal/platform/db"
)

type querier interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

func (r *repoPG) conn(ctx context.Context) querier {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const detailCols = `pr.id, pr.patient_id, pr.age, pr.gender, pr.blood_group, pr.contact_number,
	pr.address, pr.medical_history, pr.allergies, pr.created_at, pr.updated_at,
	COALESCE(u.name, ''), COALESCE(u.email, '')`

func scanDetail(row pgx.Row) (*Detail, error) {
	var d Detail
	err := row.Scan(
		&d.ID, &d.PatientID, &d.Age, &d.Gender, &d.BloodGroup, &d.ContactNumber,
		&d.Address, &d.MedicalHistory, &d.Allergies, &d.CreatedAt, &d.UpdatedAt,
		&d.PatientName, &d.PatientEmail,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

func (r *repoPG) Create(ctx context.Context, rec *PatientRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.MedicalHistory == nil {
		rec.MedicalHistory = []string{}
	}
	if rec.Allergies == nil {
		rec.Allergies = []string{}
	}
	now := time.Now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO patient_records (
			id, patient_id, age, gender, blood_group, contact_number,
			address, medical_history, allergies, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		rec.ID, rec.PatientID, rec.Age, rec.Gender, rec.BloodGroup, rec.ContactNumber,
		rec.Address, rec.MedicalHistory, rec.Allergies, rec.CreatedAt, rec.UpdatedAt,
	)
	return err
}

func (r *repoPG) GetByPatientID(ctx context.Context, patientID uuid.UUID) (*Detail, error) {
	return scanDetail(r.conn(ctx).QueryRow(ctx, `
		SELECT `+detailCols+`
		FROM patient_records pr
		LEFT JOIN users u ON u.id = pr.patient_id
		WHERE pr.patient_id = $1`, patientID))
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Detail, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM patient_records`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+detailCols+`
		FROM patient_records pr
		LEFT JOIN users u ON u.id = pr.patient_id
		ORDER BY pr.created_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var records []*Detail
	for rows.Next() {
		var d Detail
		if err := rows.Scan(
			&d.ID, &d.PatientID, &d.Age, &d.Gender, &d.BloodGroup, &d.ContactNumber,
			&d.Address, &d.MedicalHistory, &d.Allergies, &d.CreatedAt, &d.UpdatedAt,
			&d.PatientName, &d.PatientEmail,
		); err != nil {
			return nil, 0, err
		}
		records = append(records, &d)
	}
	return records, total, rows.Err()
}

func (r *repoPG) Update(ctx context.Context, rec *PatientRecord) error {
	rec.UpdatedAt = time.Now().UTC()

	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE patient_records
		SET age = $2, gender = $3, blood_group = $4, contact_number = $5,
		    address = $6, medical_history = $7, allergies = $8, updated_at = $9
		WHERE id = $1`,
		rec.ID, rec.Age, rec.Gender, rec.BloodGroup, rec.ContactNumber,
		rec.Address, rec.MedicalHistory, rec.Allergies, rec.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) ExistsForUser(ctx context.Context, userID uuid.UUID) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM patient_records WHERE patient_id = $1)`, userID).Scan(&exists)
	return exists, err
}
