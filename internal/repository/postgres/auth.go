package postgres

import (
	"context"

	"github.com/tutorbook/tutorbook/internal/domain/auth"
	ierr "github.com/tutorbook/tutorbook/internal/errors"
	"github.com/tutorbook/tutorbook/internal/logger"
	"github.com/tutorbook/tutorbook/internal/postgres"
	"github.com/tutorbook/tutorbook/internal/types"
)

type authRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewAuthRepository(db *postgres.DB, logger *logger.Logger) auth.Repository {
	return &authRepository{db: db, logger: logger}
}

func (r *authRepository) CreateAuth(ctx context.Context, a *auth.Auth) error {
	if !r.ValidateProvider(a.Provider) {
		return ierr.NewError("invalid provider").
			WithHintf("Credentials for provider %s are not managed here", a.Provider).
			Mark(ierr.ErrValidation)
	}

	query := `INSERT INTO auths (tutor_id, provider, token, status, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.GetQuerier(ctx).ExecContext(ctx, query, a.TutorID, a.Provider, a.Token, a.Status, a.CreatedAt, a.UpdatedAt)
	return postgres.WrapError(err, "credential")
}

func (r *authRepository) GetAuthByTutorID(ctx context.Context, tutorID string) (*auth.Auth, error) {
	query := `SELECT tutor_id, provider, token, status, created_at, updated_at FROM auths WHERE tutor_id = $1 AND status = $2`
	var a auth.Auth
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &a, query, tutorID, types.StatusPublished); err != nil {
		return nil, postgres.WrapError(err, "credential")
	}
	return &a, nil
}

func (r *authRepository) UpdateAuth(ctx context.Context, a *auth.Auth) error {
	if !r.ValidateProvider(a.Provider) {
		return ierr.NewError("invalid provider").
			WithHintf("Credentials for provider %s are not managed here", a.Provider).
			Mark(ierr.ErrValidation)
	}

	query := `UPDATE auths SET provider = $1, token = $2, status = $3, updated_at = $4 WHERE tutor_id = $5`
	result, err := r.db.GetQuerier(ctx).ExecContext(ctx, query, a.Provider, a.Token, a.Status, a.UpdatedAt, a.TutorID)
	if err != nil {
		return postgres.WrapError(err, "credential")
	}
	return requireAffected(result, "credential")
}

// ValidateProvider only accepts providers whose credentials this service stores
func (r *authRepository) ValidateProvider(provider types.AuthProvider) bool {
	return provider == types.AuthProviderEmail
}
