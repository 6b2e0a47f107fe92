package postgres

import (
	"context"

	"github.com/tutorbook/tutorbook/internal/domain/tutor"
	"github.com/tutorbook/tutorbook/internal/logger"
	"github.com/tutorbook/tutorbook/internal/postgres"
	"github.com/tutorbook/tutorbook/internal/types"
)

type tutorRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewTutorRepository(db *postgres.DB, logger *logger.Logger) tutor.Repository {
	return &tutorRepository{db: db, logger: logger}
}

const tutorColumns = `id, email, name, provider, status, created_at, updated_at`

func (r *tutorRepository) Create(ctx context.Context, t *tutor.Tutor) error {
	query := `
	INSERT INTO tutors (id, email, name, provider, status, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.GetQuerier(ctx).ExecContext(
		ctx, query,
		t.ID,
		t.Email,
		t.Name,
		t.Provider,
		t.Status,
		t.CreatedAt,
		t.UpdatedAt,
	)
	if err != nil {
		return postgres.WrapError(err, "tutor")
	}
	r.logger.Debugw("created tutor", "tutor_id", t.ID)
	return nil
}

func (r *tutorRepository) GetByID(ctx context.Context, id string) (*tutor.Tutor, error) {
	query := `SELECT ` + tutorColumns + ` FROM tutors WHERE id = $1 AND status = $2`

	var t tutor.Tutor
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &t, query, id, types.StatusPublished); err != nil {
		return nil, postgres.WrapError(err, "tutor")
	}
	return &t, nil
}

// GetByEmail is only used by signup and login, before a tutor is in the context
func (r *tutorRepository) GetByEmail(ctx context.Context, email string) (*tutor.Tutor, error) {
	query := `SELECT ` + tutorColumns + ` FROM tutors WHERE email = $1 AND status = $2`

	var t tutor.Tutor
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &t, query, tutor.NormalizeEmail(email), types.StatusPublished); err != nil {
		return nil, postgres.WrapError(err, "tutor")
	}
	return &t, nil
}
