package auth

import (
	"time"

	"github.com/tutorbook/tutorbook/internal/types"
)

// Auth holds the credential of a tutor for one provider
type Auth struct {
	TutorID   string             `db:"tutor_id" json:"tutor_id"`
	Provider  types.AuthProvider `db:"provider" json:"provider"`
	Token     string             `db:"token" json:"-"` // ex HashedPassword, etc
	Status    types.Status       `db:"status" json:"status"`
	CreatedAt time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt time.Time          `db:"updated_at" json:"updated_at"`
}

type Claims struct {
	TutorID string
}

func NewAuth(tutorID string, provider types.AuthProvider, token string) *Auth {
	now := time.Now().UTC()
	return &Auth{
		TutorID:   tutorID,
		Provider:  provider,
		Token:     token,
		Status:    types.StatusPublished,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
