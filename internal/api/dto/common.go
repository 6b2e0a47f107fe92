package dto

import (
	"strings"

	"github.com/tutorbook/tutorbook/internal/domain/invoice"
)

// SuccessResponse represents a generic success response
type SuccessResponse struct {
	Message string `json:"message"`
}

// Address is the postal address block of a request
type Address struct {
	Street  string `json:"street" validate:"omitempty,max=255"`
	Zip     string `json:"zip" validate:"omitempty,max=20"`
	City    string `json:"city" validate:"omitempty,max=100"`
	Country string `json:"country" validate:"omitempty,max=100"`
}

func (a *Address) ToDomain() invoice.Address {
	if a == nil {
		return invoice.Address{}
	}
	return invoice.Address{
		Street:  strings.TrimSpace(a.Street),
		Zip:     strings.TrimSpace(a.Zip),
		City:    strings.TrimSpace(a.City),
		Country: strings.TrimSpace(a.Country),
	}
}
