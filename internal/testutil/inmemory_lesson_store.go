package testutil

import (
	"context"
	"time"

	"github.com/samber/lo"
	"github.com/tutorbook/tutorbook/internal/domain/lesson"
	"github.com/tutorbook/tutorbook/internal/types"
)

// InMemoryLessonStore implements lesson.Repository
type InMemoryLessonStore struct {
	*InMemoryStore[*lesson.Lesson]
}

func NewInMemoryLessonStore() *InMemoryLessonStore {
	return &InMemoryLessonStore{
		InMemoryStore: NewInMemoryStore[*lesson.Lesson](),
	}
}

func copyLesson(l *lesson.Lesson) *lesson.Lesson {
	if l == nil {
		return nil
	}
	c := *l
	c.CourseRegistrationID = copyPtr(l.CourseRegistrationID)
	return &c
}

func (s *InMemoryLessonStore) Create(ctx context.Context, l *lesson.Lesson) error {
	return s.InMemoryStore.Create(ctx, l.ID, copyLesson(l))
}

func (s *InMemoryLessonStore) Get(ctx context.Context, id string) (*lesson.Lesson, error) {
	l, err := s.InMemoryStore.Get(ctx, id)
	if err != nil || !CheckTutorFilter(ctx, l.BaseModel) {
		return nil, notFound("lesson")
	}
	return copyLesson(l), nil
}

func (s *InMemoryLessonStore) List(ctx context.Context, filter *types.LessonFilter) ([]*lesson.Lesson, error) {
	items, err := s.InMemoryStore.List(ctx, filter, lessonFilterFn, lessonSortFn(filter))
	if err != nil {
		return nil, err
	}
	return lo.Map(items, func(l *lesson.Lesson, _ int) *lesson.Lesson {
		return copyLesson(l)
	}), nil
}

func (s *InMemoryLessonStore) Count(ctx context.Context, filter *types.LessonFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, lessonFilterFn)
}

func (s *InMemoryLessonStore) Update(ctx context.Context, l *lesson.Lesson) error {
	if _, err := s.Get(ctx, l.ID); err != nil {
		return err
	}
	return s.InMemoryStore.Update(ctx, l.ID, copyLesson(l))
}

func (s *InMemoryLessonStore) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.InMemoryStore.Mutate(ctx, id, copyLesson, func(l *lesson.Lesson) error {
		l.Status = types.StatusDeleted
		l.UpdatedAt = time.Now().UTC()
		return nil
	})
}

func lessonFilterFn(ctx context.Context, l *lesson.Lesson, filter interface{}) bool {
	if !CheckTutorFilter(ctx, l.BaseModel) {
		return false
	}
	f, ok := filter.(*types.LessonFilter)
	if !ok || f == nil {
		return true
	}
	if f.StudentID != "" && l.StudentID != f.StudentID {
		return false
	}
	if f.StartDate != nil && l.Date.Before(*f.StartDate) {
		return false
	}
	if f.EndDate != nil && f.EndDate.Before(l.Date) {
		return false
	}
	return true
}

// lessonSortFn honours the date and start_time sorts the service uses
func lessonSortFn(filter *types.LessonFilter) SortFunc[*lesson.Lesson] {
	sort := filter.SortColumn(types.LessonSortColumns...)
	asc := filter.GetOrder() == types.OrderAsc
	return func(i, j *lesson.Lesson) bool {
		var less, equal bool
		switch sort {
		case "start_time":
			less, equal = i.StartTime.Before(j.StartTime), i.StartTime == j.StartTime
		case "date":
			if i.Date.Equal(j.Date.Time) {
				less, equal = i.StartTime.Before(j.StartTime), i.StartTime == j.StartTime
			} else {
				less = i.Date.Before(j.Date)
			}
		default:
			less, equal = i.CreatedAt.Before(j.CreatedAt), i.CreatedAt.Equal(j.CreatedAt)
		}
		if equal {
			return false
		}
		return less == asc
	}
}
