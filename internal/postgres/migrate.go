package postgres

import (
	"context"
	"embed"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	ierr "github.com/tutorbook/tutorbook/internal/errors"
	"github.com/tutorbook/tutorbook/internal/logger"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// MigrationsTable records the applied schema version
const MigrationsTable = "schema_migrations"

// migrateLogger forwards migrate's progress lines to zap
type migrateLogger struct {
	logger *logger.Logger
}

func (l migrateLogger) Printf(format string, v ...interface{}) {
	l.logger.Debugf(strings.TrimSuffix(format, "\n"), v...)
}

func (l migrateLogger) Verbose() bool {
	return false
}

// Migrate applies every embedded up migration that is newer than the
// recorded schema version. Concurrent runs are serialized by migrate's
// advisory lock. Cancelling ctx stops after the migration in flight.
func (db *DB) Migrate(ctx context.Context) error {
	src, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return ierr.WithError(err).
			WithMessage("failed to read embedded migrations").
			Mark(ierr.ErrSystem)
	}

	// a dedicated connection keeps the pool open when migrate closes its driver
	conn, err := db.DB.DB.Conn(ctx)
	if err != nil {
		return ierr.WithError(err).
			WithMessage("failed to acquire migration connection").
			Mark(ierr.ErrDatabase)
	}
	driver, err := migratepg.WithConnection(ctx, conn, &migratepg.Config{MigrationsTable: MigrationsTable})
	if err != nil {
		_ = conn.Close()
		return ierr.WithError(err).
			WithMessage("failed to prepare migration driver").
			Mark(ierr.ErrDatabase)
	}

	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		_ = driver.Close()
		return ierr.WithError(err).Mark(ierr.ErrDatabase)
	}
	m.Log = migrateLogger{logger: db.logger}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			db.logger.Warnw("failed to close migrator", "source_error", srcErr, "database_error", dbErr)
		}
	}()

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			m.GracefulStop <- true
		case <-stop:
		}
	}()

	if err := m.Up(); err != nil && !ierr.Is(err, migrate.ErrNoChange) {
		return ierr.WithError(err).
			WithMessage("failed to apply migrations").
			Mark(ierr.ErrDatabase)
	}

	version, dirty, err := m.Version()
	if err != nil && !ierr.Is(err, migrate.ErrNilVersion) {
		return ierr.WithError(err).Mark(ierr.ErrDatabase)
	}
	if dirty {
		return ierr.NewErrorf("schema version %d is dirty", version).
			WithHint("A previous migration failed halfway and needs manual repair").
			Mark(ierr.ErrDatabase)
	}
	db.logger.Infow("database schema migrated", "version", version)
	return nil
}
