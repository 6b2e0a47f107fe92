package auth

import (
	"context"

	"github.com/tutorbook/tutorbook/internal/config"
	"github.com/tutorbook/tutorbook/internal/domain/auth"
	"github.com/tutorbook/tutorbook/internal/types"
)

type AuthRequest struct {
	TutorID  string
	Email    string
	Password string
}

type AuthResponse struct {
	ProviderToken string
	AuthToken     string
	TutorID       string
}

type Provider interface {
	GetProvider() types.AuthProvider
	SignUp(ctx context.Context, req AuthRequest) (*AuthResponse, error)
	Login(ctx context.Context, req AuthRequest, tutorAuthInfo *auth.Auth) (*AuthResponse, error)
	ValidateToken(ctx context.Context, token string) (*auth.Claims, error)
}

// NewProvider returns the credential provider. Social logins are handled
// upstream and arrive as tutors with their own provider, only email
// credentials are issued here.
func NewProvider(cfg *config.Configuration) Provider {
	return NewEmailAuth(cfg)
}
