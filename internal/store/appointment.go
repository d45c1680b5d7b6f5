package store

import (
	"context"

	"github.com/jackc/pgx/v5"

	"booking-api/internal/model"
)

const apptCols = `id, user_id, title, slot_date, slot_time, duration, status, notes, created_at, updated_at`

func scanAppointment(row pgx.Row, a *model.Appointment) error {
	return row.Scan(&a.ID, &a.UserID, &a.Title, &a.Date, &a.Time,
		&a.Duration, &a.Status, &a.Notes, &a.CreatedAt, &a.UpdatedAt)
}

func (s *Store) CreateAppointment(ctx context.Context, a *model.Appointment) error {
	err := s.pool.QueryRow(ctx,
		`INSERT INTO appointments (id, user_id, title, slot_date, slot_time, duration, status, notes)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		 RETURNING created_at, updated_at`,
		a.ID, a.UserID, a.Title, a.Date, a.Time, a.Duration, a.Status, a.Notes,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	// partial unique index caught a race
	return translate(err)
}

func (s *Store) ListAppointments(ctx context.Context, userID string) ([]model.Appointment, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+apptCols+` FROM appointments
		 WHERE user_id = $1
		 ORDER BY slot_date, slot_time`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Appointment{}
	for rows.Next() {
		var a model.Appointment
		if err := scanAppointment(rows, &a); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// GetAppointment only finds rows owned by userID.
func (s *Store) GetAppointment(ctx context.Context, id, userID string) (*model.Appointment, error) {
	a := &model.Appointment{}
	err := scanAppointment(s.pool.QueryRow(ctx,
		`SELECT `+apptCols+` FROM appointments WHERE id = $1 AND user_id = $2`, id, userID,
	), a)
	if err != nil {
		return nil, translate(err)
	}
	return a, nil
}

func (s *Store) UpdateAppointment(ctx context.Context, a *model.Appointment) error {
	err := s.pool.QueryRow(ctx,
		`UPDATE appointments
		 SET title=$1, slot_date=$2, slot_time=$3, duration=$4, status=$5, notes=$6, updated_at=NOW()
		 WHERE id=$7 AND user_id=$8
		 RETURNING updated_at`,
		a.Title, a.Date, a.Time, a.Duration, a.Status, a.Notes, a.ID, a.UserID,
	).Scan(&a.UpdatedAt)
	return translate(err)
}

func (s *Store) DeleteAppointment(ctx context.Context, id, userID string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM appointments WHERE id=$1 AND user_id=$2`, id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// BookedTimes lists the slot times held by active appointments on date, across all users.
func (s *Store) BookedTimes(ctx context.Context, date string) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT slot_time FROM appointments
		 WHERE slot_date = $1 AND status <> 'cancelled'`, date,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// HasConflict reports whether an active appointment other than excludeID holds (date, time).
func (s *Store) HasConflict(ctx context.Context, date, slotTime, excludeID string) (bool, error) {
	q := `SELECT EXISTS(
		SELECT 1 FROM appointments
		WHERE slot_date = $1
		  AND slot_time = $2
		  AND status <> 'cancelled'`

	args := []any{date, slotTime}

	if excludeID != "" {
		q += ` AND id <> $3`
		args = append(args, excludeID)
	}
	q += `)`

	var exists bool
	err := s.pool.QueryRow(ctx, q, args...).Scan(&exists)
	return exists, err
}
