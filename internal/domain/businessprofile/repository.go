package businessprofile

import "context"

// Repository defines the interface for business profile data access
type Repository interface {
	// GetByTutorID is a plain read and must never be used to allocate numbers
	GetByTutorID(ctx context.Context, tutorID string) (*BusinessProfile, error)
	// GetForUpdate reads the profile holding an exclusive row lock until the
	// surrounding transaction ends. It must run inside a transaction.
	GetForUpdate(ctx context.Context, tutorID string) (*BusinessProfile, error)
	// Upsert creates or replaces the profile of the tutor
	Upsert(ctx context.Context, profile *BusinessProfile) error
	// AdvanceInvoiceCounter increments next_invoice_number by one and
	// returns the new value
	AdvanceInvoiceCounter(ctx context.Context, tutorID string) (int64, error)
}
