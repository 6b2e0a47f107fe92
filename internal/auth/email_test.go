package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tutorbook/tutorbook/internal/config"
	"github.com/tutorbook/tutorbook/internal/domain/auth"
	ierr "github.com/tutorbook/tutorbook/internal/errors"
)

func testConfig() *config.Configuration {
	cfg := config.GetDefaultConfig()
	cfg.Auth.Secret = "test-secret"
	cfg.Auth.TokenTTL = time.Hour
	return cfg
}

func TestEmailAuthSignUpAndLogin(t *testing.T) {
	ctx := context.Background()
	provider := NewProvider(testConfig())

	signup, err := provider.SignUp(ctx, AuthRequest{Email: "anna@example.com", Password: "Sicher!123"})
	require.NoError(t, err)
	assert.NotEmpty(t, signup.TutorID)
	assert.NotEqual(t, "Sicher!123", signup.ProviderToken)

	claims, err := provider.ValidateToken(ctx, signup.AuthToken)
	require.NoError(t, err)
	assert.Equal(t, signup.TutorID, claims.TutorID)

	stored := auth.NewAuth(signup.TutorID, provider.GetProvider(), signup.ProviderToken)

	login, err := provider.Login(ctx, AuthRequest{Email: "anna@example.com", Password: "Sicher!123"}, stored)
	require.NoError(t, err)
	assert.Equal(t, signup.TutorID, login.TutorID)

	_, err = provider.Login(ctx, AuthRequest{Email: "anna@example.com", Password: "falsch"}, stored)
	assert.True(t, ierr.IsUnauthorized(err))
}

func TestValidateTokenRejectsForeignSecret(t *testing.T) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"tutor_id": "tut_1",
		"exp":      time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("other-secret"))
	require.NoError(t, err)

	_, err = NewProvider(testConfig()).ValidateToken(context.Background(), signed)
	assert.True(t, ierr.IsUnauthorized(err))
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		valid    bool
	}{
		{name: "valid", password: "Sicher!123", valid: true},
		{name: "too short", password: "S!a1", valid: false},
		{name: "no upper case", password: "sicher!123", valid: false},
		{name: "no special character", password: "Sicher1234", valid: false},
		{name: "empty", password: "", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePassword(tt.password)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			assert.True(t, ierr.IsValidation(err))
		})
	}
}
