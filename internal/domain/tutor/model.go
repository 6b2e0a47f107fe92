package tutor

import (
	"strings"
	"time"

	"github.com/tutorbook/tutorbook/internal/types"
)

// Tutor is the business owning account. Everything else in the system is
// scoped to a tutor.
type Tutor struct {
	ID        string             `db:"id" json:"id"`
	Email     string             `db:"email" json:"email"`
	Name      string             `db:"name" json:"name"`
	Provider  types.AuthProvider `db:"provider" json:"provider"`
	Status    types.Status       `db:"status" json:"status"`
	CreatedAt time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt time.Time          `db:"updated_at" json:"updated_at"`
}

func NewTutor(email, name string, provider types.AuthProvider) *Tutor {
	now := time.Now().UTC()
	return &Tutor{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TUTOR),
		Email:     NormalizeEmail(email),
		Name:      strings.TrimSpace(name),
		Provider:  provider,
		Status:    types.StatusPublished,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// NormalizeEmail is the form emails are stored and looked up in
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
