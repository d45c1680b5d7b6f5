package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"booking-api/internal/model"
	"booking-api/internal/store"
)

const DefaultDuration = 30

type CreateInput struct {
	Title    string `json:"title" validate:"required,max=200"`
	Date     string `json:"date" validate:"required,datetime=2006-01-02"`
	Time     string `json:"time" validate:"required,datetime=15:04,slot"`
	Duration *int   `json:"duration" validate:"omitempty,min=15,max=180"`
	Notes    string `json:"notes"`
}

// UpdateInput carries only the fields the client sent.
type UpdateInput struct {
	Title    *string `json:"title"`
	Date     *string `json:"date"`
	Time     *string `json:"time"`
	Duration *int    `json:"duration"`
	Status   *string `json:"status"`
	Notes    *string `json:"notes"`
}

type AppointmentService struct {
	store Appointments
	log   logrus.FieldLogger
}

func NewAppointmentService(st Appointments, log logrus.FieldLogger) *AppointmentService {
	return &AppointmentService{store: st, log: log}
}

func (s *AppointmentService) List(ctx context.Context, userID string) ([]model.Appointment, error) {
	apts, err := s.store.ListAppointments(ctx, userID)
	if err != nil {
		s.log.WithError(err).WithField("user_id", userID).Error("list appointments")
		return nil, ErrInternal
	}
	if apts == nil {
		apts = []model.Appointment{}
	}
	return apts, nil
}

// Get reports appointments owned by someone else as not found.
func (s *AppointmentService) Get(ctx context.Context, userID, id string) (*model.Appointment, error) {
	a, err := s.store.GetAppointment(ctx, id, userID)
	if err != nil {
		return nil, s.lookupErr(err, userID, id)
	}
	return a, nil
}

func (s *AppointmentService) Create(ctx context.Context, userID string, in CreateInput) (*model.Appointment, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Duration != nil && *in.Duration == 0 {
		in.Duration = nil
	}
	if err := checkStruct(in); err != nil {
		return nil, err
	}

	duration := DefaultDuration
	if in.Duration != nil {
		duration = *in.Duration
	}

	logCtx := s.log.WithFields(logrus.Fields{"user_id": userID, "date": in.Date, "time": in.Time})

	taken, err := s.store.HasConflict(ctx, in.Date, in.Time, "")
	if err != nil {
		logCtx.WithError(err).Error("create appointment: conflict check")
		return nil, ErrInternal
	}
	if taken {
		logCtx.Warn("create appointment rejected: slot already booked")
		return nil, ErrSlotTaken
	}

	a := &model.Appointment{
		ID:       uuid.New().String(),
		UserID:   userID,
		Title:    in.Title,
		Date:     in.Date,
		Time:     in.Time,
		Duration: duration,
		Status:   model.StatusPending,
		Notes:    in.Notes,
	}
	if err := s.store.CreateAppointment(ctx, a); err != nil {
		// unique index caught a concurrent booking
		if errors.Is(err, store.ErrDuplicate) {
			logCtx.Warn("create appointment rejected: slot booked concurrently")
			return nil, ErrSlotTaken
		}
		logCtx.WithError(err).Error("create appointment")
		return nil, ErrInternal
	}

	logCtx.WithField("appointment_id", a.ID).Info("appointment created")
	return a, nil
}

// Update merges the provided fields into the caller's appointment. When the
// result holds a slot it did not hold before, the slot is re-checked.
func (s *AppointmentService) Update(ctx context.Context, userID, id string, in UpdateInput) (*model.Appointment, error) {
	a, err := s.store.GetAppointment(ctx, id, userID)
	if err != nil {
		return nil, s.lookupErr(err, userID, id)
	}
	wasActive, prevDate, prevTime := a.Status.Active(), a.Date, a.Time

	var vs []Violation
	check := func(v *Violation) {
		if v != nil {
			vs = append(vs, *v)
		}
	}
	if in.Title != nil {
		t := strings.TrimSpace(*in.Title)
		check(checkVar("title", t, "required,max=200"))
		a.Title = t
	}
	if in.Date != nil {
		check(checkVar("date", *in.Date, "required,datetime=2006-01-02"))
		a.Date = *in.Date
	}
	if in.Time != nil {
		check(checkVar("time", *in.Time, "required,datetime=15:04,slot"))
		a.Time = *in.Time
	}
	if in.Duration != nil {
		check(checkVar("duration", *in.Duration, "min=15,max=180"))
		a.Duration = *in.Duration
	}
	if in.Status != nil {
		st := strings.ToLower(strings.TrimSpace(*in.Status))
		check(checkVar("status", st, "required,oneof=pending confirmed cancelled"))
		a.Status = model.Status(st)
	}
	if in.Notes != nil {
		a.Notes = *in.Notes
	}
	if len(vs) > 0 {
		return nil, invalid(vs...)
	}

	logCtx := s.log.WithFields(logrus.Fields{"user_id": userID, "appointment_id": id})

	claimsSlot := a.Status.Active() && (!wasActive || a.Date != prevDate || a.Time != prevTime)
	if claimsSlot {
		taken, err := s.store.HasConflict(ctx, a.Date, a.Time, a.ID)
		if err != nil {
			logCtx.WithError(err).Error("update appointment: conflict check")
			return nil, ErrInternal
		}
		if taken {
			logCtx.WithFields(logrus.Fields{"date": a.Date, "time": a.Time}).
				Warn("update appointment rejected: slot already booked")
			return nil, ErrSlotTaken
		}
	}

	if err := s.store.UpdateAppointment(ctx, a); err != nil {
		switch {
		case errors.Is(err, store.ErrDuplicate):
			logCtx.Warn("update appointment rejected: slot booked concurrently")
			return nil, ErrSlotTaken
		case errors.Is(err, store.ErrNotFound):
			return nil, ErrNotFound
		}
		logCtx.WithError(err).Error("update appointment")
		return nil, ErrInternal
	}

	logCtx.WithField("status", a.Status).Info("appointment updated")
	return a, nil
}

func (s *AppointmentService) Delete(ctx context.Context, userID, id string) error {
	if err := s.store.DeleteAppointment(ctx, id, userID); err != nil {
		return s.lookupErr(err, userID, id)
	}
	s.log.WithFields(logrus.Fields{"user_id": userID, "appointment_id": id}).Info("appointment deleted")
	return nil
}

func (s *AppointmentService) lookupErr(err error, userID, id string) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrNotFound
	}
	s.log.WithError(err).WithFields(logrus.Fields{"user_id": userID, "appointment_id": id}).
		Error("appointment lookup failed")
	return ErrInternal
}
