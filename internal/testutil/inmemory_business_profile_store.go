package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/lib/pq"
	"github.com/tutorbook/tutorbook/internal/domain/businessprofile"
	ierr "github.com/tutorbook/tutorbook/internal/errors"
	"github.com/tutorbook/tutorbook/internal/postgres"
)

// InMemoryBusinessProfileStore implements businessprofile.Repository keyed
// by tutor. GetForUpdate takes a per tutor lock that is held until the
// surrounding mock transaction ends, like SELECT ... FOR UPDATE.
type InMemoryBusinessProfileStore struct {
	*InMemoryStore[*businessprofile.BusinessProfile]

	LockTimeout time.Duration

	mu         sync.Mutex
	rowLocks   map[string]chan struct{}
	lockFaults int
	lockCalls  int
}

func NewInMemoryBusinessProfileStore() *InMemoryBusinessProfileStore {
	return &InMemoryBusinessProfileStore{
		InMemoryStore: NewInMemoryStore[*businessprofile.BusinessProfile](),
		LockTimeout:   5 * time.Second,
		rowLocks:      make(map[string]chan struct{}),
	}
}

func copyBusinessProfile(p *businessprofile.BusinessProfile) *businessprofile.BusinessProfile {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

// FailNextLocks makes the next n GetForUpdate calls fail with a lock timeout
func (s *InMemoryBusinessProfileStore) FailNextLocks(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lockFaults = n
}

// LockCalls is the number of GetForUpdate calls so far
func (s *InMemoryBusinessProfileStore) LockCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lockCalls
}

func (s *InMemoryBusinessProfileStore) rowLock(tutorID string) (chan struct{}, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lockCalls++
	if s.lockFaults > 0 {
		s.lockFaults--
		return nil, true
	}
	lock, ok := s.rowLocks[tutorID]
	if !ok {
		lock = make(chan struct{}, 1)
		s.rowLocks[tutorID] = lock
	}
	return lock, false
}

func lockTimeoutError() error {
	return postgres.WrapError(&pq.Error{
		Code:    "55P03",
		Message: "canceling statement due to lock timeout",
	}, "business profile")
}

func (s *InMemoryBusinessProfileStore) GetByTutorID(ctx context.Context, tutorID string) (*businessprofile.BusinessProfile, error) {
	p, err := s.InMemoryStore.Get(ctx, tutorID)
	if err != nil {
		return nil, notFound("business profile")
	}
	return copyBusinessProfile(p), nil
}

func (s *InMemoryBusinessProfileStore) GetForUpdate(ctx context.Context, tutorID string) (*businessprofile.BusinessProfile, error) {
	tx := TxFromContext(ctx)
	if tx == nil {
		return nil, ierr.NewError("row lock outside transaction").
			WithHint("GetForUpdate must run inside a transaction").
			Mark(ierr.ErrSystem)
	}

	key := "business_profile:" + tutorID
	if !tx.holds(key) {
		lock, fault := s.rowLock(tutorID)
		if fault {
			return nil, lockTimeoutError()
		}

		timer := time.NewTimer(s.LockTimeout)
		defer timer.Stop()
		select {
		case lock <- struct{}{}:
			tx.keep(key, func() { <-lock })
		case <-timer.C:
			return nil, lockTimeoutError()
		case <-ctx.Done():
			return nil, ierr.WithError(ctx.Err()).
				WithHint("request cancelled").
				Mark(ierr.ErrUnavailable)
		}
	}

	return s.GetByTutorID(ctx, tutorID)
}

func (s *InMemoryBusinessProfileStore) Upsert(ctx context.Context, p *businessprofile.BusinessProfile) error {
	if _, err := s.InMemoryStore.Get(ctx, p.TutorID); err != nil {
		return s.InMemoryStore.Create(ctx, p.TutorID, copyBusinessProfile(p))
	}
	return s.InMemoryStore.Mutate(ctx, p.TutorID, copyBusinessProfile, func(existing *businessprofile.BusinessProfile) error {
		id, createdAt := existing.ID, existing.CreatedAt
		*existing = *p
		existing.ID, existing.CreatedAt = id, createdAt
		return nil
	})
}

func (s *InMemoryBusinessProfileStore) AdvanceInvoiceCounter(ctx context.Context, tutorID string) (int64, error) {
	var next int64
	err := s.InMemoryStore.Mutate(ctx, tutorID, copyBusinessProfile, func(p *businessprofile.BusinessProfile) error {
		p.NextInvoiceNumber++
		p.UpdatedAt = time.Now().UTC()
		next = p.NextInvoiceNumber
		return nil
	})
	if err != nil {
		return 0, notFound("business profile")
	}
	return next, nil
}
