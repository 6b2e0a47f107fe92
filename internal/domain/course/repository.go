package course

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/tutorbook/tutorbook/internal/types"
)

// Repository defines the interface for course registration data access
type Repository interface {
	Create(ctx context.Context, registration *Registration) error
	Get(ctx context.Context, id string) (*Registration, error)
	List(ctx context.Context, filter *types.CourseFilter) ([]*Registration, error)
	Count(ctx context.Context, filter *types.CourseFilter) (int, error)
	Update(ctx context.Context, registration *Registration) error
	Delete(ctx context.Context, id string) error
	// SumFees adds up total_fee of the registrations matching the filter,
	// pagination is ignored
	SumFees(ctx context.Context, filter *types.CourseFilter) (decimal.Decimal, error)
}
