package student

import (
	"context"

	"github.com/tutorbook/tutorbook/internal/types"
)

// Repository defines the interface for student data access
type Repository interface {
	Create(ctx context.Context, student *Student) error
	Get(ctx context.Context, id string) (*Student, error)
	List(ctx context.Context, filter *types.StudentFilter) ([]*Student, error)
	Count(ctx context.Context, filter *types.StudentFilter) (int, error)
	Update(ctx context.Context, student *Student) error
	Delete(ctx context.Context, id string) error
}
