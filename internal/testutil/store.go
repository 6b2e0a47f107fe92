package testutil

import (
	"context"
	"sort"
	"sync"

	ierr "github.com/tutorbook/tutorbook/internal/errors"
	"github.com/tutorbook/tutorbook/internal/types"
)

// FilterFunc is a generic filter function type
type FilterFunc[T any] func(ctx context.Context, item T, filter interface{}) bool

// SortFunc is a generic sort function type
type SortFunc[T any] func(i, j T) bool

// InMemoryStore implements a generic in-memory store. Writes made inside a
// MockPostgresClient transaction are undone when it rolls back.
type InMemoryStore[T any] struct {
	mu    sync.RWMutex
	items map[string]T
}

// NewInMemoryStore creates a new InMemoryStore
func NewInMemoryStore[T any]() *InMemoryStore[T] {
	return &InMemoryStore[T]{
		items: make(map[string]T),
	}
}

// Create adds a new item to the store
func (s *InMemoryStore[T]) Create(ctx context.Context, id string, item T) error {
	return s.CreateUnique(ctx, id, item, nil)
}

// CreateUnique adds item unless an existing item conflicts with it,
// the check and the insert are atomic
func (s *InMemoryStore[T]) CreateUnique(ctx context.Context, id string, item T, conflicts func(existing T) bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[id]; exists {
		return ierr.NewError("item already exists").
			WithHint("item already exists").
			Mark(ierr.ErrAlreadyExists)
	}
	if conflicts != nil {
		for _, existing := range s.items {
			if conflicts(existing) {
				return ierr.NewError("unique constraint violated").
					WithHint("item already exists").
					Mark(ierr.ErrAlreadyExists)
			}
		}
	}

	s.items[id] = item
	recordUndo(ctx, func() { s.remove(id) })
	return nil
}

// Get retrieves an item by ID
func (s *InMemoryStore[T]) Get(ctx context.Context, id string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if item, exists := s.items[id]; exists {
		return item, nil
	}

	var zero T
	return zero, ierr.NewError("item not found").
		WithHint("item not found").
		Mark(ierr.ErrNotFound)
}

// List retrieves items based on filter
func (s *InMemoryStore[T]) List(ctx context.Context, filter interface{}, filterFn FilterFunc[T], sortFn SortFunc[T]) ([]T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []T
	for _, item := range s.items {
		if filterFn == nil || filterFn(ctx, item, filter) {
			result = append(result, item)
		}
	}

	if sortFn != nil {
		sort.SliceStable(result, func(i, j int) bool {
			return sortFn(result[i], result[j])
		})
	}

	// Apply pagination if filter implements BaseFilter
	if f, ok := filter.(types.BaseFilter); ok && !f.IsUnlimited() {
		start := f.GetOffset()
		if start >= len(result) {
			return []T{}, nil
		}

		end := start + f.GetLimit()
		if end > len(result) {
			end = len(result)
		}
		return result[start:end], nil
	}

	return result, nil
}

// Count returns the total number of items matching the filter
func (s *InMemoryStore[T]) Count(ctx context.Context, filter interface{}, filterFn FilterFunc[T]) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, item := range s.items {
		if filterFn == nil || filterFn(ctx, item, filter) {
			count++
		}
	}

	return count, nil
}

// Update updates an existing item
func (s *InMemoryStore[T]) Update(ctx context.Context, id string, item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous, exists := s.items[id]
	if !exists {
		return ierr.NewError("item not found").
			WithHint("item not found").
			Mark(ierr.ErrNotFound)
	}

	s.items[id] = item
	recordUndo(ctx, func() { s.put(id, previous) })
	return nil
}

// Mutate applies fn to the stored item under the store lock
func (s *InMemoryStore[T]) Mutate(ctx context.Context, id string, clone func(T) T, fn func(T) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous, exists := s.items[id]
	if !exists {
		return ierr.NewError("item not found").
			WithHint("item not found").
			Mark(ierr.ErrNotFound)
	}

	next := clone(previous)
	if err := fn(next); err != nil {
		return err
	}
	s.items[id] = next
	recordUndo(ctx, func() { s.put(id, previous) })
	return nil
}

// Delete removes an item from the store
func (s *InMemoryStore[T]) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous, exists := s.items[id]
	if !exists {
		return ierr.NewError("item not found").
			WithHint("item not found").
			Mark(ierr.ErrNotFound)
	}

	delete(s.items, id)
	recordUndo(ctx, func() { s.put(id, previous) })
	return nil
}

// Clear removes all items from the store
func (s *InMemoryStore[T]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[string]T)
}

// Len is the number of stored items regardless of owner
func (s *InMemoryStore[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

func (s *InMemoryStore[T]) put(id string, item T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[id] = item
}

func (s *InMemoryStore[T]) remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
}

// CheckTutorFilter reports whether a record is visible to the tutor of ctx
func CheckTutorFilter(ctx context.Context, base types.BaseModel) bool {
	return base.TutorID == types.GetTutorID(ctx) && base.Status == types.StatusPublished
}

func notFound(entity string) error {
	return ierr.NewErrorf("%s not found", entity).
		WithHintf("%s not found", entity).
		Mark(ierr.ErrNotFound)
}
