package dto

import (
	ierr "github.com/tutorbook/tutorbook/internal/errors"
)

// validationError reports a single offending request field
func validationError(field, message string) error {
	return ierr.NewError(message).
		WithHint(message).
		WithReportableDetails(map[string]any{field: message}).
		Mark(ierr.ErrValidation)
}
