package lesson

import (
	"context"

	"github.com/tutorbook/tutorbook/internal/types"
)

// Repository defines the interface for lesson data access
type Repository interface {
	Create(ctx context.Context, lesson *Lesson) error
	Get(ctx context.Context, id string) (*Lesson, error)
	List(ctx context.Context, filter *types.LessonFilter) ([]*Lesson, error)
	Count(ctx context.Context, filter *types.LessonFilter) (int, error)
	Update(ctx context.Context, lesson *Lesson) error
	Delete(ctx context.Context, id string) error
}
