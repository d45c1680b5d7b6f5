// Package storetest is a behavioural suite shared by every store backend.
package storetest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booking-api/internal/model"
	"booking-api/internal/store"
)

type Store interface {
	CreateUser(ctx context.Context, u *model.User) error
	UserByEmail(ctx context.Context, email string) (*model.User, error)
	UserByID(ctx context.Context, id string) (*model.User, error)
	CreateAppointment(ctx context.Context, a *model.Appointment) error
	ListAppointments(ctx context.Context, userID string) ([]model.Appointment, error)
	GetAppointment(ctx context.Context, id, userID string) (*model.Appointment, error)
	UpdateAppointment(ctx context.Context, a *model.Appointment) error
	DeleteAppointment(ctx context.Context, id, userID string) error
	BookedTimes(ctx context.Context, date string) ([]string, error)
	HasConflict(ctx context.Context, date, slotTime, excludeID string) (bool, error)
	Ping(ctx context.Context) error
}

// Run exercises st. Dates are randomised per call so a shared database
// can be reused between runs.
func Run(t *testing.T, newStore func(t *testing.T) Store) {
	t.Run("Users", func(t *testing.T) { testUsers(t, newStore(t)) })
	t.Run("AppointmentCRUD", func(t *testing.T) { testAppointmentCRUD(t, newStore(t)) })
	t.Run("Ownership", func(t *testing.T) { testOwnership(t, newStore(t)) })
	t.Run("ActiveSlotUnique", func(t *testing.T) { testActiveSlotUnique(t, newStore(t)) })
	t.Run("ConcurrentInsert", func(t *testing.T) { testConcurrentInsert(t, newStore(t)) })
}

var ctx = context.Background()

func newUser(t *testing.T, st Store) *model.User {
	t.Helper()
	u := &model.User{
		ID:           uuid.NewString(),
		Email:        fmt.Sprintf("store-%s@test.com", uuid.NewString()[:8]),
		PasswordHash: "hash",
		Name:         "Store User",
		Role:         model.RoleUser,
	}
	require.NoError(t, st.CreateUser(ctx, u))
	return u
}

func newAppointment(userID, date, at string) *model.Appointment {
	return &model.Appointment{
		ID:       uuid.NewString(),
		UserID:   userID,
		Title:    "appt " + at,
		Date:     date,
		Time:     at,
		Duration: 30,
		Status:   model.StatusPending,
	}
}

// randomDate picks a far-future day unlikely to collide across runs.
func randomDate() string {
	id := uuid.New()
	return fmt.Sprintf("%04d-%02d-%02d", 3000+int(id[0])%900, 1+int(id[1])%12, 1+int(id[2])%28)
}

func testUsers(t *testing.T, st Store) {
	require.NoError(t, st.Ping(ctx))

	u := newUser(t, st)
	assert.False(t, u.CreatedAt.IsZero())

	byEmail, err := st.UserByEmail(ctx, u.Email)
	require.NoError(t, err)
	assert.Equal(t, u.ID, byEmail.ID)
	assert.Equal(t, u.PasswordHash, byEmail.PasswordHash)
	assert.Equal(t, model.RoleUser, byEmail.Role)

	byID, err := st.UserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.Email, byID.Email)

	_, err = st.UserByEmail(ctx, "missing-"+u.Email)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = st.UserByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, store.ErrNotFound)

	dup := *u
	dup.ID = uuid.NewString()
	assert.ErrorIs(t, st.CreateUser(ctx, &dup), store.ErrDuplicate)
}

func testAppointmentCRUD(t *testing.T, st Store) {
	u := newUser(t, st)
	date := randomDate()

	late := newAppointment(u.ID, date, "16:30")
	early := newAppointment(u.ID, date, "09:00")
	early.Notes = "first"
	require.NoError(t, st.CreateAppointment(ctx, late))
	require.NoError(t, st.CreateAppointment(ctx, early))
	assert.False(t, early.CreatedAt.IsZero())

	list, err := st.ListAppointments(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, early.ID, list[0].ID)
	assert.Equal(t, late.ID, list[1].ID)

	got, err := st.GetAppointment(ctx, early.ID, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", got.Notes)
	assert.Equal(t, model.StatusPending, got.Status)

	got.Status = model.StatusConfirmed
	got.Duration = 60
	require.NoError(t, st.UpdateAppointment(ctx, got))
	again, err := st.GetAppointment(ctx, early.ID, u.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, again.Status)
	assert.Equal(t, 60, again.Duration)
	assert.Equal(t, "first", again.Notes)

	times, err := st.BookedTimes(ctx, date)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"09:00", "16:30"}, times)

	require.NoError(t, st.DeleteAppointment(ctx, late.ID, u.ID))
	assert.ErrorIs(t, st.DeleteAppointment(ctx, late.ID, u.ID), store.ErrNotFound)
	_, err = st.GetAppointment(ctx, late.ID, u.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	missing := newAppointment(u.ID, date, "10:00")
	assert.ErrorIs(t, st.UpdateAppointment(ctx, missing), store.ErrNotFound)

	none, err := st.ListAppointments(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.Empty(t, none)
}

func testOwnership(t *testing.T, st Store) {
	owner, other := newUser(t, st), newUser(t, st)
	a := newAppointment(owner.ID, randomDate(), "10:00")
	require.NoError(t, st.CreateAppointment(ctx, a))

	_, err := st.GetAppointment(ctx, a.ID, other.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	hijack := *a
	hijack.UserID = other.ID
	hijack.Title = "hijacked"
	assert.ErrorIs(t, st.UpdateAppointment(ctx, &hijack), store.ErrNotFound)
	assert.ErrorIs(t, st.DeleteAppointment(ctx, a.ID, other.ID), store.ErrNotFound)

	got, err := st.GetAppointment(ctx, a.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, a.Title, got.Title)
}

func testActiveSlotUnique(t *testing.T, st Store) {
	u1, u2 := newUser(t, st), newUser(t, st)
	date := randomDate()

	first := newAppointment(u1.ID, date, "11:00")
	require.NoError(t, st.CreateAppointment(ctx, first))

	taken, err := st.HasConflict(ctx, date, "11:00", "")
	require.NoError(t, err)
	assert.True(t, taken)
	taken, err = st.HasConflict(ctx, date, "11:00", first.ID)
	require.NoError(t, err)
	assert.False(t, taken, "an appointment never conflicts with itself")

	second := newAppointment(u2.ID, date, "11:00")
	assert.ErrorIs(t, st.CreateAppointment(ctx, second), store.ErrDuplicate)

	first.Status = model.StatusCancelled
	require.NoError(t, st.UpdateAppointment(ctx, first))

	taken, err = st.HasConflict(ctx, date, "11:00", "")
	require.NoError(t, err)
	assert.False(t, taken)
	times, err := st.BookedTimes(ctx, date)
	require.NoError(t, err)
	assert.Empty(t, times)

	require.NoError(t, st.CreateAppointment(ctx, second))

	// reactivating the cancelled one now collides
	first.Status = model.StatusPending
	assert.ErrorIs(t, st.UpdateAppointment(ctx, first), store.ErrDuplicate)
}

func testConcurrentInsert(t *testing.T, st Store) {
	const n = 6
	date := randomDate()
	users := make([]*model.User, n)
	for i := range users {
		users[i] = newUser(t, st)
	}

	errs := make([]error, n)
	var wg sync.WaitGroup
	for i, u := range users {
		wg.Add(1)
		go func(i int, uid string) {
			defer wg.Done()
			errs[i] = st.CreateAppointment(ctx, newAppointment(uid, date, "14:00"))
		}(i, u.ID)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.True(t, errors.Is(err, store.ErrDuplicate), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, ok)
}
