package service_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"booking-api/internal/model"
	"booking-api/internal/store/gormstore"
)

var ctx = context.Background()

// newStore returns a migrated, private in-memory SQLite store.
func newStore(t *testing.T) *gormstore.Store {
	t.Helper()
	log, _ := test.NewNullLogger()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	st, err := gormstore.Open(gormstore.DriverSQLite, dsn, log)
	require.NoError(t, err)
	require.NoError(t, st.Migrate(ctx))
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func nullLogger() (*logrus.Logger, *test.Hook) {
	return test.NewNullLogger()
}

// newUser inserts a user directly, skipping bcrypt.
func newUser(t *testing.T, st *gormstore.Store) string {
	t.Helper()
	u := &model.User{
		ID:           uuid.NewString(),
		Email:        fmt.Sprintf("test-%s@test.com", uuid.NewString()[:8]),
		PasswordHash: "unused",
		Name:         "Test User",
		Role:         model.RoleUser,
	}
	require.NoError(t, st.CreateUser(ctx, u))
	return u.ID
}

// book inserts an appointment directly, bypassing service checks.
func book(t *testing.T, st *gormstore.Store, userID, date, at string, s model.Status) *model.Appointment {
	t.Helper()
	a := &model.Appointment{
		ID:       uuid.NewString(),
		UserID:   userID,
		Title:    "existing",
		Date:     date,
		Time:     at,
		Duration: 30,
		Status:   s,
	}
	require.NoError(t, st.CreateAppointment(ctx, a))
	return a
}

func requireCode(t *testing.T, err error, want codes.Code) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, want, status.Code(err), "error: %v", err)
}

func intp(i int) *int       { return &i }
func strp(s string) *string { return &s }
