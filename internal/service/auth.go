package service

import (
	"context"

	"github.com/tutorbook/tutorbook/internal/api/dto"
	authProvider "github.com/tutorbook/tutorbook/internal/auth"
	"github.com/tutorbook/tutorbook/internal/domain/auth"
	"github.com/tutorbook/tutorbook/internal/domain/tutor"
	ierr "github.com/tutorbook/tutorbook/internal/errors"
	"github.com/tutorbook/tutorbook/internal/types"
)

type AuthService interface {
	SignUp(ctx context.Context, req *dto.SignUpRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	Me(ctx context.Context) (*dto.TutorResponse, error)
}

type authService struct {
	ServiceParams
	authProvider authProvider.Provider
}

func NewAuthService(params ServiceParams) AuthService {
	return &authService{
		ServiceParams: params,
		authProvider:  authProvider.NewProvider(params.Config),
	}
}

// SignUp creates a new tutor and returns an auth token
func (s *authService) SignUp(ctx context.Context, req *dto.SignUpRequest) (*dto.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.TutorRepo.GetByEmail(ctx, req.Email)
	if err != nil && !ierr.IsNotFound(err) {
		return nil, err
	}
	if existing != nil {
		return nil, ierr.NewError("tutor already exists").
			WithHint("An account with this email already exists").
			WithReportableDetails(map[string]interface{}{
				"email": req.Email,
			}).
			Mark(ierr.ErrAlreadyExists)
	}

	t := tutor.NewTutor(req.Email, req.Name, s.authProvider.GetProvider())

	authResponse, err := s.authProvider.SignUp(ctx, authProvider.AuthRequest{
		TutorID:  t.ID,
		Email:    t.Email,
		Password: req.Password,
	})
	if err != nil {
		return nil, err
	}

	err = s.DB.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.TutorRepo.Create(txCtx, t); err != nil {
			return err
		}

		if s.authProvider.GetProvider() == types.AuthProviderEmail {
			credential := auth.NewAuth(t.ID, s.authProvider.GetProvider(), authResponse.ProviderToken)
			if err := s.AuthRepo.CreateAuth(txCtx, credential); err != nil {
				return ierr.WithError(err).
					WithHint("Failed to create authentication record").
					Mark(ierr.ErrDatabase)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("tutor signed up", "tutor_id", t.ID)
	return &dto.AuthResponse{
		Token:   authResponse.AuthToken,
		TutorID: t.ID,
	}, nil
}

// Login authenticates a tutor and returns an auth token. Unknown emails and
// wrong passwords fail the same way.
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	invalidCredentials := ierr.NewError("invalid credentials").
		WithHint("Invalid email or password").
		Mark(ierr.ErrUnauthorized)

	t, err := s.TutorRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if ierr.IsNotFound(err) {
			return nil, invalidCredentials
		}
		return nil, err
	}

	credential, err := s.AuthRepo.GetAuthByTutorID(ctx, t.ID)
	if err != nil {
		if ierr.IsNotFound(err) {
			return nil, invalidCredentials
		}
		return nil, err
	}

	authResponse, err := s.authProvider.Login(ctx, authProvider.AuthRequest{
		TutorID:  t.ID,
		Email:    t.Email,
		Password: req.Password,
	}, credential)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		Token:   authResponse.AuthToken,
		TutorID: t.ID,
	}, nil
}

func (s *authService) Me(ctx context.Context) (*dto.TutorResponse, error) {
	t, err := s.TutorRepo.GetByID(ctx, types.GetTutorID(ctx))
	if err != nil {
		return nil, err
	}
	return &dto.TutorResponse{Tutor: t}, nil
}
