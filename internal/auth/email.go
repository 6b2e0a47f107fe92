package auth

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/golang-jwt/jwt/v4"
	"github.com/tutorbook/tutorbook/internal/config"
	"github.com/tutorbook/tutorbook/internal/domain/auth"
	ierr "github.com/tutorbook/tutorbook/internal/errors"
	"github.com/tutorbook/tutorbook/internal/types"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultTokenTTL   = 30 * 24 * time.Hour
	minPasswordLength = 8
)

type emailAuth struct {
	AuthConfig config.AuthConfig
}

func NewEmailAuth(cfg *config.Configuration) *emailAuth {
	return &emailAuth{
		AuthConfig: cfg.Auth,
	}
}

func (e *emailAuth) GetProvider() types.AuthProvider {
	return types.AuthProviderEmail
}

func (e *emailAuth) SignUp(ctx context.Context, req AuthRequest) (*AuthResponse, error) {
	if err := ValidatePassword(req.Password); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to hash password").
			Mark(ierr.ErrSystem)
	}

	tutorID := req.TutorID
	if tutorID == "" {
		tutorID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TUTOR)
	}

	authToken, err := e.generateToken(tutorID)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to generate token").
			Mark(ierr.ErrSystem)
	}

	return &AuthResponse{
		ProviderToken: string(hashedPassword),
		AuthToken:     authToken,
		TutorID:       tutorID,
	}, nil
}

func (e *emailAuth) Login(ctx context.Context, req AuthRequest, tutorAuthInfo *auth.Auth) (*AuthResponse, error) {
	if err := bcrypt.CompareHashAndPassword([]byte(tutorAuthInfo.Token), []byte(req.Password)); err != nil {
		return nil, ierr.NewError("invalid password").
			WithHint("Invalid email or password").
			Mark(ierr.ErrUnauthorized)
	}

	authToken, err := e.generateToken(tutorAuthInfo.TutorID)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to generate token").
			Mark(ierr.ErrSystem)
	}

	return &AuthResponse{
		ProviderToken: tutorAuthInfo.Token,
		AuthToken:     authToken,
		TutorID:       tutorAuthInfo.TutorID,
	}, nil
}

func (e *emailAuth) ValidateToken(ctx context.Context, token string) (*auth.Claims, error) {
	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ierr.NewError("unexpected signing method").
				WithHint(fmt.Sprintf("unexpected signing method: %v", token.Header["alg"])).
				Mark(ierr.ErrUnauthorized)
		}
		return []byte(e.AuthConfig.Secret), nil
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Token parse error").
			Mark(ierr.ErrUnauthorized)
	}

	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	if !ok || !parsedToken.Valid {
		return nil, ierr.NewError("invalid token claims").
			WithHint("Invalid token claims").
			Mark(ierr.ErrUnauthorized)
	}

	tutorID, ok := claims["tutor_id"].(string)
	if !ok || tutorID == "" {
		return nil, ierr.NewError("token missing tutor ID").
			WithHint("Token missing tutor ID").
			Mark(ierr.ErrUnauthorized)
	}

	return &auth.Claims{TutorID: tutorID}, nil
}

func (e *emailAuth) generateToken(tutorID string) (string, error) {
	ttl := e.AuthConfig.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	now := time.Now()

	claims := jwt.MapClaims{
		"tutor_id": tutorID,
		"exp":      now.Add(ttl).Unix(),
		"iat":      now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(e.AuthConfig.Secret))
}

// ValidatePassword enforces at least 8 characters with one upper case
// letter and one special character
func ValidatePassword(password string) error {
	details := map[string]any{}
	if len([]rune(password)) < minPasswordLength {
		details["length"] = fmt.Sprintf("at least %d characters", minPasswordLength)
	}
	if !strings.ContainsFunc(password, unicode.IsUpper) {
		details["upper_case"] = "at least one upper case letter"
	}
	if !strings.ContainsFunc(password, isSpecial) {
		details["special"] = "at least one special character"
	}
	if len(details) > 0 {
		return ierr.NewError("password does not meet the policy").
			WithHint("Password must have at least 8 characters, an upper case letter and a special character").
			WithReportableDetails(details).
			Mark(ierr.ErrValidation)
	}
	return nil
}

func isSpecial(r rune) bool {
	return !unicode.IsLetter(r) && !unicode.IsDigit(r) && !unicode.IsSpace(r)
}
