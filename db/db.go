package db

import (
	"context"
	"fmt"
	"time"

	"yarn_inventory/config"
	"yarn_inventory/models"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// DSN builds the driver-specific connection string for cfg.
func DSN(cfg config.DBConfig) string {
	switch cfg.Driver {
	case config.DriverPostgres:
		return fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			cfg.Host, cfg.User, cfg.Password, cfg.Name, cfg.Port,
		)
	case config.DriverSQLite:
		if cfg.Name == ":memory:" {
			return cfg.Name
		}
		return cfg.Name + ".sqlite3?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	default:
		return fmt.Sprintf(
			"%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
			cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.Name,
		)
	}
}

func dialector(cfg config.DBConfig) gorm.Dialector {
	dsn := DSN(cfg)
	switch cfg.Driver {
	case config.DriverPostgres:
		return postgres.Open(dsn)
	case config.DriverSQLite:
		return sqlite.Open(dsn)
	default:
		return mysql.Open(dsn)
	}
}

// Open connects to the record store, sizes the pool and checks connectivity.
// Callers wait for a free connection when all MaxOpenConns are in use.
func Open(ctx context.Context, cfg config.DBConfig) (*gorm.DB, error) {
	conn, err := gorm.Open(dialector(cfg), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", cfg.Driver, err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxIdleTime(2 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("pinging %s database: %w", cfg.Driver, err)
	}

	return conn, nil
}

// Migrate creates the yarn_inventory table and its indexes if missing.
func Migrate(conn *gorm.DB) error {
	if err := conn.AutoMigrate(&models.Yarn{}); err != nil {
		return fmt.Errorf("migrating %s: %w", models.YarnTable, err)
	}
	return nil
}

// Ping reports whether a pooled connection can reach the database.
func Ping(ctx context.Context, conn *gorm.DB) error {
	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases every pooled connection.
func Close(conn *gorm.DB) error {
	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
