package store_test

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/require"

	"booking-api/internal/store"
	"booking-api/internal/store/storetest"
)

func setup(t *testing.T) *store.Store {
	t.Helper()
	_ = godotenv.Load("../../.env")
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set")
	}
	pool, err := pgxpool.New(context.Background(), dbURL)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	st := store.New(pool)
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func TestStore(t *testing.T) {
	st := setup(t)
	storetest.Run(t, func(t *testing.T) storetest.Store { return st })
}

func TestMigrateIsIdempotent(t *testing.T) {
	st := setup(t)
	require.NoError(t, st.Migrate(context.Background()))
}
