package tutor

import "context"

type Repository interface {
	Create(ctx context.Context, tutor *Tutor) error
	GetByID(ctx context.Context, id string) (*Tutor, error)
	GetByEmail(ctx context.Context, email string) (*Tutor, error)
}
