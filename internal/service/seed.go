package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"booking-api/internal/auth"
	"booking-api/internal/model"
	"booking-api/internal/store"
)

type demoUser struct {
	email, password, name string
	role                  model.Role
	appointments          []model.Appointment
}

var demoUsers = []demoUser{
	{email: "admin@demo.com", password: "admin123", name: "Admin", role: model.RoleAdmin},
	{email: "user@demo.com", password: "user123", name: "Demo User", role: model.RoleUser,
		appointments: []model.Appointment{
			{Title: "Dental checkup", Date: "2024-02-15", Time: "10:00", Duration: 30, Status: model.StatusConfirmed},
			{Title: "Haircut", Date: "2024-02-16", Time: "14:30", Duration: 45, Status: model.StatusPending},
			{Title: "Eye exam", Date: "2024-02-20", Time: "09:00", Duration: 60, Status: model.StatusConfirmed},
		}},
}

// SeedDemo creates the demo accounts and their appointments. Accounts that
// already exist are left untouched, so it is safe to run on every start.
func SeedDemo(ctx context.Context, st Store, log logrus.FieldLogger) error {
	for _, d := range demoUsers {
		_, err := st.UserByEmail(ctx, d.email)
		if err == nil {
			continue
		}
		if !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("seed: lookup %s: %w", d.email, err)
		}

		hash, err := auth.HashPassword(d.password)
		if err != nil {
			return fmt.Errorf("seed: hash: %w", err)
		}
		u := &model.User{
			ID:           uuid.New().String(),
			Email:        d.email,
			PasswordHash: hash,
			Name:         d.name,
			Role:         d.role,
		}
		if err := st.CreateUser(ctx, u); err != nil {
			return fmt.Errorf("seed: create %s: %w", d.email, err)
		}

		for _, tmpl := range d.appointments {
			a := tmpl
			a.ID = uuid.New().String()
			a.UserID = u.ID
			if err := st.CreateAppointment(ctx, &a); err != nil {
				// someone else already holds the slot; the demo can live without it
				if errors.Is(err, store.ErrDuplicate) {
					log.WithFields(logrus.Fields{"date": a.Date, "time": a.Time}).Warn("seed: slot taken, skipping")
					continue
				}
				return fmt.Errorf("seed: appointment %s %s: %w", a.Date, a.Time, err)
			}
		}
		log.WithFields(logrus.Fields{"email": d.email, "role": d.role}).Info("seeded demo user")
	}
	return nil
}
