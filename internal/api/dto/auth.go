package dto

import (
	"strings"

	"github.com/tutorbook/tutorbook/internal/domain/tutor"
	"github.com/tutorbook/tutorbook/internal/validator"
)

type SignUpRequest struct {
	Email    string `json:"email" binding:"required" validate:"required,email"`
	Name     string `json:"name" binding:"required" validate:"required,max=255"`
	Password string `json:"password" binding:"required" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required" validate:"required,email"`
	Password string `json:"password" binding:"required" validate:"required"`
}

type AuthResponse struct {
	Token   string `json:"token"`
	TutorID string `json:"tutor_id"`
}

type TutorResponse struct {
	*tutor.Tutor
}

// Validate normalizes the email before checking its format, so padded or
// mixed case input is matched against the stored address
func (r *SignUpRequest) Validate() error {
	r.Email = tutor.NormalizeEmail(r.Email)
	r.Name = strings.TrimSpace(r.Name)
	return validator.ValidateRequest(r)
}

func (r *LoginRequest) Validate() error {
	r.Email = tutor.NormalizeEmail(r.Email)
	return validator.ValidateRequest(r)
}
