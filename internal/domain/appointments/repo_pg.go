package appointments

import (
	"context"
	"errors"
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

// Left joins: user deletion does not cascade, so an appointment must stay
// readable after either participant's account is removed.
const detailQuery = `
	SELECT a.id, a.patient_id, a.doctor_id, a.appointment_date, a.status,
	       a.created_at, a.updated_at,
	       COALESCE(p.name, ''), COALESCE(d.name, '')
	FROM appointments a
	LEFT JOIN users p ON p.id = a.patient_id
	LEFT JOIN users d ON d.id = a.doctor_id`

func scanDetail(row pgx.Row) (*Detail, error) {
	var d Detail
	err := row.Scan(
		&d.ID, &d.PatientID, &d.DoctorID, &d.AppointmentDate, &d.Status,
		&d.CreatedAt, &d.UpdatedAt,
		&d.PatientName, &d.DoctorName,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Status == "" {
		a.Status = StatusScheduled
	}
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now

	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO appointments (
			id, patient_id, doctor_id, appointment_date, status,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, a.PatientID, a.DoctorID, a.AppointmentDate, a.Status,
		a.CreatedAt, a.UpdatedAt,
	)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Detail, error) {
	row := r.conn(ctx).QueryRow(ctx, detailQuery+` WHERE a.id = $1`, id)
	return scanDetail(row)
}

func (r *repoPG) List(ctx context.Context, f Filter, limit, offset int) ([]*Detail, int, error) {
	where := "WHERE 1=1"
	args := []interface{}{}
	argN := 1

	if f.PatientID != uuid.Nil {
		where += fmt.Sprintf(" AND a.patient_id = $%d", argN)
		args = append(args, f.PatientID)
		argN++
	}
	if f.DoctorID != uuid.Nil {
		where += fmt.Sprintf(" AND a.doctor_id = $%d", argN)
		args = append(args, f.DoctorID)
		argN++
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM appointments a ` + where
	if err := r.conn(ctx).QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`%s
		%s
		ORDER BY a.appointment_date ASC
		LIMIT $%d OFFSET $%d`, detailQuery, where, argN, argN+1)
	args = append(args, limit, offset)

	rows, err := r.conn(ctx).Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var appts []*Detail
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, 0, err
		}
		appts = append(appts, d)
	}
	return appts, total, rows.Err()
}

func (r *repoPG) Update(ctx context.Context, a *Appointment) error {
	a.UpdatedAt = time.Now().UTC()
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE appointments
		SET appointment_date = $2, status = $3, updated_at = $4
		WHERE id = $1`,
		a.ID, a.AppointmentDate, a.Status, a.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
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
		`SELECT EXISTS (SELECT 1 FROM appointments WHERE patient_id = $1 OR doctor_id = $1)`,
		userID).Scan(&exists)
	return exists, err
}
