package gormstore

import (
	"context"
	"time"

	"booking-api/internal/model"
	"booking-api/internal/store"
)

type appointmentRow struct {
	ID        string `gorm:"primaryKey"`
	UserID    string `gorm:"not null;index:idx_appointments_user,priority:1"`
	Title     string `gorm:"not null"`
	Date      string `gorm:"column:slot_date;not null;index:idx_appointments_user,priority:2"`
	Time      string `gorm:"column:slot_time;not null"`
	Duration  int    `gorm:"not null"`
	Status    string `gorm:"not null"`
	Notes     string `gorm:"not null;default:''"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (appointmentRow) TableName() string { return "appointments" }

func fromAppointment(a *model.Appointment) appointmentRow {
	return appointmentRow{
		ID:       a.ID,
		UserID:   a.UserID,
		Title:    a.Title,
		Date:     a.Date,
		Time:     a.Time,
		Duration: a.Duration,
		Status:   string(a.Status),
		Notes:    a.Notes,
	}
}

func (r *appointmentRow) toModel() model.Appointment {
	return model.Appointment{
		ID:        r.ID,
		UserID:    r.UserID,
		Title:     r.Title,
		Date:      r.Date,
		Time:      r.Time,
		Duration:  r.Duration,
		Status:    model.Status(r.Status),
		Notes:     r.Notes,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func (s *Store) CreateAppointment(ctx context.Context, a *model.Appointment) error {
	row := fromAppointment(a)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return translate(err)
	}
	a.CreatedAt, a.UpdatedAt = row.CreatedAt, row.UpdatedAt
	return nil
}

func (s *Store) ListAppointments(ctx context.Context, userID string) ([]model.Appointment, error) {
	var rows []appointmentRow
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("slot_date, slot_time").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]model.Appointment, len(rows))
	for i := range rows {
		out[i] = rows[i].toModel()
	}
	return out, nil
}

func (s *Store) GetAppointment(ctx context.Context, id, userID string) (*model.Appointment, error) {
	var row appointmentRow
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&row).Error
	if err != nil {
		return nil, translate(err)
	}
	a := row.toModel()
	return &a, nil
}

func (s *Store) UpdateAppointment(ctx context.Context, a *model.Appointment) error {
	row := fromAppointment(a)
	row.UpdatedAt = time.Now()
	res := s.db.WithContext(ctx).
		Model(&appointmentRow{}).
		Where("id = ? AND user_id = ?", a.ID, a.UserID).
		Select("title", "slot_date", "slot_time", "duration", "status", "notes", "updated_at").
		Updates(&row)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	a.UpdatedAt = row.UpdatedAt
	return nil
}

func (s *Store) DeleteAppointment(ctx context.Context, id, userID string) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&appointmentRow{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) BookedTimes(ctx context.Context, date string) ([]string, error) {
	var out []string
	err := s.db.WithContext(ctx).
		Model(&appointmentRow{}).
		Where("slot_date = ? AND status <> ?", date, model.StatusCancelled).
		Pluck("slot_time", &out).Error
	return out, err
}

func (s *Store) HasConflict(ctx context.Context, date, slotTime, excludeID string) (bool, error) {
	q := s.db.WithContext(ctx).
		Model(&appointmentRow{}).
		Where("slot_date = ? AND slot_time = ? AND status <> ?", date, slotTime, model.StatusCancelled)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var n int64
	err := q.Count(&n).Error
	return n > 0, err
}
