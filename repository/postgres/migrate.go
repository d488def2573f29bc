package postgres

import (
	"database/sql"
	"embed"
	"fmt"
	"strings"

	"github.com/emzola/bookshelf/internal/jsonlog"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const migrationsDir = "migrations"

// Migrate applies every pending schema migration.
func Migrate(db *sql.DB, logger *jsonlog.Logger) error {
	if err := prepare(logger); err != nil {
		return err
	}
	if err := goose.Up(db, migrationsDir); err != nil {
		return fmt.Errorf("postgres: migrate up: %w", err)
	}
	return nil
}

func prepare(logger *jsonlog.Logger) error {
	goose.SetBaseFS(migrationsFS)
	goose.SetLogger(gooseLogger{logger})
	return goose.SetDialect("postgres")
}

// gooseLogger routes goose output through jsonlog.
type gooseLogger struct {
	logger *jsonlog.Logger
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.logger.PrintDebug(strings.TrimSpace(fmt.Sprintf(format, v...)), map[string]string{"component": "migrate"})
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.PrintFatal(fmt.Errorf(format, v...), map[string]string{"component": "migrate"})
}
