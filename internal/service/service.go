// Package service holds the booking business rules: authentication,
// appointment ownership, and slot conflict avoidance.
//
// Every failure returned to callers is a gRPC status error whose code
// identifies the failure kind (see errors.go); store and driver errors are
// logged here and never leak past this package.
package service

import (
	"context"

	"booking-api/internal/model"
)

type Users interface {
	CreateUser(ctx context.Context, u *model.User) error
	UserByEmail(ctx context.Context, email string) (*model.User, error)
	UserByID(ctx context.Context, id string) (*model.User, error)
}

type Appointments interface {
	CreateAppointment(ctx context.Context, a *model.Appointment) error
	ListAppointments(ctx context.Context, userID string) ([]model.Appointment, error)
	GetAppointment(ctx context.Context, id, userID string) (*model.Appointment, error)
	UpdateAppointment(ctx context.Context, a *model.Appointment) error
	DeleteAppointment(ctx context.Context, id, userID string) error
	BookedTimes(ctx context.Context, date string) ([]string, error)
	HasConflict(ctx context.Context, date, slotTime, excludeID string) (bool, error)
}

// Store is satisfied by both store.Store (pgx) and gormstore.Store.
type Store interface {
	Users
	Appointments
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
}
