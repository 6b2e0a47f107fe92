package testutil

import (
	"context"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/tutorbook/tutorbook/internal/domain/course"
	"github.com/tutorbook/tutorbook/internal/types"
)

// InMemoryCourseStore implements course.Repository
type InMemoryCourseStore struct {
	*InMemoryStore[*course.Registration]
}

func NewInMemoryCourseStore() *InMemoryCourseStore {
	return &InMemoryCourseStore{
		InMemoryStore: NewInMemoryStore[*course.Registration](),
	}
}

func copyCourse(r *course.Registration) *course.Registration {
	if r == nil {
		return nil
	}
	c := *r
	c.EndDate = copyPtr(r.EndDate)
	return &c
}

func (s *InMemoryCourseStore) Create(ctx context.Context, r *course.Registration) error {
	return s.InMemoryStore.Create(ctx, r.ID, copyCourse(r))
}

func (s *InMemoryCourseStore) Get(ctx context.Context, id string) (*course.Registration, error) {
	r, err := s.InMemoryStore.Get(ctx, id)
	if err != nil || !CheckTutorFilter(ctx, r.BaseModel) {
		return nil, notFound("course registration")
	}
	return copyCourse(r), nil
}

func (s *InMemoryCourseStore) List(ctx context.Context, filter *types.CourseFilter) ([]*course.Registration, error) {
	items, err := s.InMemoryStore.List(ctx, filter, courseFilterFn, func(i, j *course.Registration) bool {
		return i.CreatedAt.After(j.CreatedAt)
	})
	if err != nil {
		return nil, err
	}
	return lo.Map(items, func(r *course.Registration, _ int) *course.Registration {
		return copyCourse(r)
	}), nil
}

func (s *InMemoryCourseStore) Count(ctx context.Context, filter *types.CourseFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, courseFilterFn)
}

func (s *InMemoryCourseStore) Update(ctx context.Context, r *course.Registration) error {
	if _, err := s.Get(ctx, r.ID); err != nil {
		return err
	}
	return s.InMemoryStore.Update(ctx, r.ID, copyCourse(r))
}

func (s *InMemoryCourseStore) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.InMemoryStore.Mutate(ctx, id, copyCourse, func(r *course.Registration) error {
		r.Status = types.StatusDeleted
		r.UpdatedAt = time.Now().UTC()
		return nil
	})
}

func (s *InMemoryCourseStore) SumFees(ctx context.Context, filter *types.CourseFilter) (decimal.Decimal, error) {
	unlimited := *filter
	unlimited.QueryFilter = types.NewNoLimitQueryFilter()
	items, err := s.InMemoryStore.List(ctx, &unlimited, courseFilterFn, nil)
	if err != nil {
		return decimal.Zero, err
	}
	return lo.Reduce(items, func(sum decimal.Decimal, r *course.Registration, _ int) decimal.Decimal {
		return sum.Add(r.TotalFee)
	}, decimal.Zero), nil
}

func courseFilterFn(ctx context.Context, r *course.Registration, filter interface{}) bool {
	if !CheckTutorFilter(ctx, r.BaseModel) {
		return false
	}
	f, ok := filter.(*types.CourseFilter)
	if !ok || f == nil {
		return true
	}
	if f.StudentID != "" && r.StudentID != f.StudentID {
		return false
	}
	if f.CourseStatus != "" && r.CourseStatus != f.CourseStatus {
		return false
	}
	if f.IsPaid != nil && r.IsPaid != *f.IsPaid {
		return false
	}
	if f.StartDateFrom != nil && r.StartDate.Before(*f.StartDateFrom) {
		return false
	}
	if f.StartDateTo != nil && f.StartDateTo.Before(r.StartDate) {
		return false
	}
	return true
}
