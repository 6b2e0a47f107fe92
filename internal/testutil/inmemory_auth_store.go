package testutil

import (
	"context"

	"github.com/tutorbook/tutorbook/internal/domain/auth"
)

// InMemoryAuthStore implements auth.Repository, keyed by tutor
type InMemoryAuthStore struct {
	*InMemoryStore[*auth.Auth]
}

func NewInMemoryAuthStore() *InMemoryAuthStore {
	return &InMemoryAuthStore{
		InMemoryStore: NewInMemoryStore[*auth.Auth](),
	}
}

func copyAuth(a *auth.Auth) *auth.Auth {
	c := *a
	return &c
}

func (s *InMemoryAuthStore) CreateAuth(ctx context.Context, a *auth.Auth) error {
	return s.InMemoryStore.Create(ctx, a.TutorID, copyAuth(a))
}

func (s *InMemoryAuthStore) GetAuthByTutorID(ctx context.Context, tutorID string) (*auth.Auth, error) {
	a, err := s.InMemoryStore.Get(ctx, tutorID)
	if err != nil {
		return nil, notFound("auth")
	}
	return copyAuth(a), nil
}

func (s *InMemoryAuthStore) UpdateAuth(ctx context.Context, a *auth.Auth) error {
	return s.InMemoryStore.Update(ctx, a.TutorID, copyAuth(a))
}
