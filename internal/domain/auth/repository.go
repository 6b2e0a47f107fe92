package auth

import "context"

type Repository interface {
	CreateAuth(ctx context.Context, auth *Auth) error
	GetAuthByTutorID(ctx context.Context, tutorID string) (*Auth, error)
	UpdateAuth(ctx context.Context, auth *Auth) error
}
