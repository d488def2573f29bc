package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/emzola/bookshelf/config"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"
)

// Supported values for config.Database.Driver.
const (
	DriverPQ  = "postgres"
	DriverPGX = "pgx"
)

// OpenDB creates a PostgreSQL database connection pool and verifies it can be reached.
// The test environment connects to the test database.
func OpenDB(cfg config.Config) (*sql.DB, error) {
	driver := cfg.Database.Driver
	switch driver {
	case "":
		driver = DriverPQ
	case DriverPQ, DriverPGX:
	default:
		return nil, fmt.Errorf("postgres: unsupported driver %q", driver)
	}
	dsn := cfg.DatabaseDSN()
	if dsn == "" {
		return nil, fmt.Errorf("postgres: no DSN configured for env %q", cfg.Server.Env)
	}
	duration, err := time.ParseDuration(cfg.Database.MaxIdleTime)
	if err != nil {
		return nil, fmt.Errorf("postgres: max idle time: %w", err)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxIdleTime(duration)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err = db.PingContext(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}
