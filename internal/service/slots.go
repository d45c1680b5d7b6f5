package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"booking-api/internal/slot"
)

type SlotService struct {
	store Appointments
	log   logrus.FieldLogger
}

func NewSlotService(st Appointments, log logrus.FieldLogger) *SlotService {
	return &SlotService{store: st, log: log}
}

// Available lists the grid times on date that no active appointment holds.
// Past dates are answered like any other.
func (s *SlotService) Available(ctx context.Context, date string) ([]string, error) {
	if v := checkVar("date", date, "required,datetime=2006-01-02"); v != nil {
		return nil, invalid(*v)
	}
	taken, err := s.store.BookedTimes(ctx, date)
	if err != nil {
		s.log.WithError(err).WithField("date", date).Error("available slots")
		return nil, ErrInternal
	}
	return slot.Available(taken), nil
}
