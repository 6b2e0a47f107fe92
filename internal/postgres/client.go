package postgres

import (
	"context"

	"github.com/tutorbook/tutorbook/internal/config"
	"github.com/tutorbook/tutorbook/internal/logger"
	"github.com/tutorbook/tutorbook/internal/sentry"
	"go.uber.org/fx"
)

// IClient defines the interface for postgres client operations
type IClient interface {
	// WithTx wraps the given function in a transaction
	WithTx(ctx context.Context, fn func(context.Context) error) error
}

// Module provides the database and the transaction client to the application
func Module() fx.Option {
	return fx.Options(
		fx.Provide(
			NewDB,
			NewClient,
		),
		fx.Invoke(registerLifecycle),
	)
}

// NewClient returns the transaction client, instrumented when sentry is enabled
func NewClient(db *DB, cfg *config.Configuration, sentryService *sentry.Service, logger *logger.Logger) IClient {
	if cfg.Sentry.Enabled {
		return NewSentryClient(db, sentryService, logger)
	}
	return db
}

func registerLifecycle(lc fx.Lifecycle, db *DB) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			db.Close()
			return nil
		},
	})
}
