// Package database opens the relational store and keeps its schema in place.
package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"stockcontrol/internal/database/migrations"
	"stockcontrol/internal/models"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config selects the dialect and the connection string.
type Config struct {
	Driver string
	DSN    string
}

// Open connects to the configured store. Unique violations are translated
// to gorm.ErrDuplicatedKey so repositories can report them uniformly.
func Open(cfg Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "", DriverSQLite:
		dialector = sqlite.Open(cfg.DSN)
	case DriverPostgres:
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, models.NewStorageError("open", fmt.Errorf("unsupported driver %q", cfg.Driver))
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(zerologWriter{}, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, models.NewStorageError("open", err)
	}
	return db, nil
}

// EnsureSchema creates every table that is missing. Running it against an
// up-to-date database is a no-op.
func EnsureSchema(ctx context.Context, db *gorm.DB, driver string) error {
	sqlDB, err := db.DB()
	if err != nil {
		return models.NewStorageError("ensure schema", err)
	}

	dir, dialect := DriverSQLite, "sqlite3"
	if driver == DriverPostgres {
		dir, dialect = DriverPostgres, "postgres"
	}

	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(gooseLogger{})
	if err := goose.SetDialect(dialect); err != nil {
		return models.NewStorageError("ensure schema", err)
	}
	if err := goose.UpContext(ctx, sqlDB, dir); err != nil {
		return models.NewStorageError("ensure schema", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return models.NewStorageError("close", err)
	}
	if err := sqlDB.Close(); err != nil {
		return models.NewStorageError("close", err)
	}
	return nil
}

type zerologWriter struct{}

func (zerologWriter) Printf(format string, args ...interface{}) {
	log.Warn().Str("component", "gorm").Msgf(format, args...)
}

type gooseLogger struct{}

func (gooseLogger) Printf(format string, v ...interface{}) {
	log.Debug().Str("component", "goose").Msg(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (gooseLogger) Fatalf(format string, v ...interface{}) {
	log.Fatal().Str("component", "goose").Msgf(format, v...)
}
