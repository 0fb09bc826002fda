package db

import (
	"context"
	"testing"

	"yarn_inventory/config"

	"gorm.io/gorm"
)

// NewTestDB opens a fresh in-memory SQLite database with the table created.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := Open(context.Background(), config.DBConfig{
		Driver:       config.DriverSQLite,
		Name:         ":memory:",
		MaxOpenConns: 1, // every extra connection would see its own empty :memory: database
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}

	if sqlDB, err := conn.DB(); err == nil {
		sqlDB.SetConnMaxIdleTime(0)
	}

	if err := Migrate(conn); err != nil {
		Close(conn)
		t.Fatalf("creating test database schema: %v", err)
	}

	t.Cleanup(func() { Close(conn) })

	return conn
}
