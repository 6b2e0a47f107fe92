package invoice

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/tutorbook/tutorbook/internal/types"
)

// Repository defines the interface for invoice data access.
// Every method is scoped to the tutor in the context.
type Repository interface {
	// Create inserts the header together with its items and adjustments
	Create(ctx context.Context, inv *Invoice) error
	// Get returns the invoice with its lines ordered by position
	Get(ctx context.Context, id string) (*Invoice, error)
	List(ctx context.Context, filter *types.InvoiceFilter) ([]*Invoice, error)
	Count(ctx context.Context, filter *types.InvoiceFilter) (int, error)
	// Update persists header metadata, flags and totals. Number, code and
	// sender snapshot are never written.
	Update(ctx context.Context, inv *Invoice) error
	// ReplaceLines deletes every item and adjustment of the invoice and
	// inserts the given ones.
	ReplaceLines(ctx context.Context, inv *Invoice) error
	// SumOpenAmount is the total amount of all unpaid invoices
	SumOpenAmount(ctx context.Context) (decimal.Decimal, error)
}
