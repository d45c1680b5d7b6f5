package gormstore

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booking-api/internal/store/storetest"
)

func openSQLite(t *testing.T) *Store {
	t.Helper()
	log, _ := test.NewNullLogger()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	st, err := Open(DriverSQLite, dsn, log)
	require.NoError(t, err)
	require.NoError(t, st.Migrate(context.Background()))
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestSQLite(t *testing.T) {
	storetest.Run(t, func(t *testing.T) storetest.Store { return openSQLite(t) })
}

func TestPostgres(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	log, _ := test.NewNullLogger()
	st, err := Open(DriverPostgres, dsn, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.Migrate(context.Background()))

	storetest.Run(t, func(t *testing.T) storetest.Store { return st })
}

func TestMigrateIsIdempotent(t *testing.T) {
	st := openSQLite(t)
	require.NoError(t, st.Migrate(context.Background()))
	require.NoError(t, st.Migrate(context.Background()))
}

func TestOpenUnknownDriver(t *testing.T) {
	log, _ := test.NewNullLogger()
	_, err := Open("mysql", "", log)
	assert.Error(t, err)
}
