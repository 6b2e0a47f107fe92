package testutil

import (
	"context"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/tutorbook/tutorbook/internal/domain/student"
	"github.com/tutorbook/tutorbook/internal/types"
)

// InMemoryStudentStore implements student.Repository
type InMemoryStudentStore struct {
	*InMemoryStore[*student.Student]
}

func NewInMemoryStudentStore() *InMemoryStudentStore {
	return &InMemoryStudentStore{
		InMemoryStore: NewInMemoryStore[*student.Student](),
	}
}

func copyStudent(s *student.Student) *student.Student {
	if s == nil {
		return nil
	}
	c := *s
	c.Age = copyPtr(s.Age)
	return &c
}

func (s *InMemoryStudentStore) Create(ctx context.Context, st *student.Student) error {
	return s.InMemoryStore.CreateUnique(ctx, st.ID, copyStudent(st), func(existing *student.Student) bool {
		return existing.TutorID == st.TutorID && existing.CustomerNumber == st.CustomerNumber
	})
}

func (s *InMemoryStudentStore) Get(ctx context.Context, id string) (*student.Student, error) {
	st, err := s.InMemoryStore.Get(ctx, id)
	if err != nil || !CheckTutorFilter(ctx, st.BaseModel) {
		return nil, notFound("student")
	}
	return copyStudent(st), nil
}

func (s *InMemoryStudentStore) List(ctx context.Context, filter *types.StudentFilter) ([]*student.Student, error) {
	items, err := s.InMemoryStore.List(ctx, filter, studentFilterFn, studentSortFn)
	if err != nil {
		return nil, err
	}
	return lo.Map(items, func(st *student.Student, _ int) *student.Student {
		return copyStudent(st)
	}), nil
}

func (s *InMemoryStudentStore) Count(ctx context.Context, filter *types.StudentFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, studentFilterFn)
}

func (s *InMemoryStudentStore) Update(ctx context.Context, st *student.Student) error {
	if _, err := s.Get(ctx, st.ID); err != nil {
		return err
	}
	return s.InMemoryStore.Update(ctx, st.ID, copyStudent(st))
}

func (s *InMemoryStudentStore) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	return s.InMemoryStore.Mutate(ctx, id, copyStudent, func(st *student.Student) error {
		st.Status = types.StatusDeleted
		st.UpdatedAt = time.Now().UTC()
		return nil
	})
}

func studentFilterFn(ctx context.Context, st *student.Student, filter interface{}) bool {
	if !CheckTutorFilter(ctx, st.BaseModel) {
		return false
	}
	f, ok := filter.(*types.StudentFilter)
	if !ok || f == nil {
		return true
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(st.Name), strings.ToLower(f.Search)) {
		return false
	}
	if f.StudentStatus != "" && st.StudentStatus != f.StudentStatus {
		return false
	}
	return true
}

func studentSortFn(i, j *student.Student) bool {
	return i.CreatedAt.After(j.CreatedAt)
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
