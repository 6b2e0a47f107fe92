package testutil

import (
	"context"

	"github.com/tutorbook/tutorbook/internal/domain/tutor"
)

// InMemoryTutorStore implements tutor.Repository
type InMemoryTutorStore struct {
	*InMemoryStore[*tutor.Tutor]
}

func NewInMemoryTutorStore() *InMemoryTutorStore {
	return &InMemoryTutorStore{
		InMemoryStore: NewInMemoryStore[*tutor.Tutor](),
	}
}

func copyTutor(t *tutor.Tutor) *tutor.Tutor {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func (s *InMemoryTutorStore) Create(ctx context.Context, t *tutor.Tutor) error {
	return s.InMemoryStore.CreateUnique(ctx, t.ID, copyTutor(t), func(existing *tutor.Tutor) bool {
		return existing.Email == t.Email
	})
}

func (s *InMemoryTutorStore) GetByID(ctx context.Context, id string) (*tutor.Tutor, error) {
	t, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, notFound("tutor")
	}
	return copyTutor(t), nil
}

func (s *InMemoryTutorStore) GetByEmail(ctx context.Context, email string) (*tutor.Tutor, error) {
	normalized := tutor.NormalizeEmail(email)
	items, err := s.InMemoryStore.List(ctx, nil, func(_ context.Context, t *tutor.Tutor, _ interface{}) bool {
		return t.Email == normalized
	}, nil)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, notFound("tutor")
	}
	return copyTutor(items[0]), nil
}
