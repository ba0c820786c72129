package visits

import (
	"context"
	"fmt"
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

func (r *repoPG) Create(ctx context.Context, v *MedicalVisit) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	now := time.Now().UTC()
	if v.VisitDate.IsZero() {
		v.VisitDate = now
	}
	v.CreatedAt = now
	v.UpdatedAt = now

	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO medical_visits (
			id, patient_id, doctor_id, diagnosis, prescription, notes,
			visit_date, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		v.ID, v.PatientID, v.DoctorID, v.Diagnosis, v.Prescription, v.Notes,
		v.VisitDate, v.CreatedAt, v.UpdatedAt,
	)
	return err
}

func (r *repoPG) List(ctx context.Context, f Filter, limit, offset int) ([]*Detail, int, error) {
	where := "WHERE 1=1"
	args := []interface{}{}
	argN := 1

	if f.PatientID != uuid.Nil {
		where += fmt.Sprintf(" AND mv.patient_id = $%d", argN)
		args = append(args, f.PatientID)
		argN++
	}
	if f.DoctorID != uuid.Nil {
		where += fmt.Sprintf(" AND mv.doctor_id = $%d", argN)
		args = append(args, f.DoctorID)
		argN++
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM medical_visits mv ` + where
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT mv.id, mv.patient_id, mv.doctor_id, mv.diagnosis, mv.prescription, mv.notes,
		       mv.visit_date, mv.created_at, mv.updated_at,
		       COALESCE(p.name, ''), COALESCE(d.name, '')
		FROM medical_visits mv
		LEFT JOIN users p ON p.id = mv.patient_id
		LEFT JOIN users d ON d.id = mv.doctor_id
		%s
		ORDER BY mv.visit_date DESC
		LIMIT $%d OFFSET $%d`, where, argN, argN+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var visits []*Detail
	for rows.Next() {
		var d Detail
		if err := rows.Scan(
			&d.ID, &d.PatientID, &d.DoctorID, &d.Diagnosis, &d.Prescription, &d.Notes,
			&d.VisitDate, &d.CreatedAt, &d.UpdatedAt,
			&d.PatientName, &d.DoctorName,
		); err != nil {
			return nil, 0, err
		}
		visits = append(visits, &d)
	}
	return visits, total, rows.Err()
}

func (r *repoPG) ExistsForUser(ctx context.Context, userID uuid.UUID) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM medical_visits WHERE patient_id = $1 OR doctor_id = $1)`,
		userID).Scan(&exists)
	return exists, err
}
