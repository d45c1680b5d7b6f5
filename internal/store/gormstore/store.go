// Package gormstore is the GORM-backed store, usable with SQLite or PostgreSQL.
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"booking-api/internal/store"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "gorm-postgres"
)

type Store struct {
	db *gorm.DB
}

// Open connects with the named driver and returns an unmigrated store.
func Open(driver, dsn string, log logrus.FieldLogger) (*Store, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("gormstore: unknown driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger: logger.New(log, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("gormstore: open %s: %w", driver, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("gormstore: underlying sql.DB: %w", err)
	}
	if driver == DriverSQLite {
		// single writer; also keeps an in-memory database alive
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(50)
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetConnMaxLifetime(30 * time.Minute)
	}
	return &Store{db: db}, nil
}

// Migrate creates the tables and the active-slot uniqueness index.
func (s *Store) Migrate(ctx context.Context) error {
	db := s.db.WithContext(ctx)
	if err := db.AutoMigrate(&userRow{}, &appointmentRow{}); err != nil {
		return fmt.Errorf("gormstore: automigrate: %w", err)
	}
	// partial index: gorm tags can't express it portably
	err := db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_appointments_active_slot
		ON appointments (slot_date, slot_time) WHERE status <> 'cancelled'`).Error
	if err != nil {
		return fmt.Errorf("gormstore: active slot index: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return store.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errors.Join(store.ErrDuplicate, err)
	}
	return err
}
