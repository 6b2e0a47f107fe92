package testutil

import (
	"context"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/tutorbook/tutorbook/internal/domain/invoice"
	"github.com/tutorbook/tutorbook/internal/types"
)

// InMemoryInvoiceStore implements invoice.Repository
type InMemoryInvoiceStore struct {
	*InMemoryStore[*invoice.Invoice]
}

func NewInMemoryInvoiceStore() *InMemoryInvoiceStore {
	return &InMemoryInvoiceStore{
		InMemoryStore: NewInMemoryStore[*invoice.Invoice](),
	}
}

// Create enforces the per tutor uniqueness of number and code
func (s *InMemoryInvoiceStore) Create(ctx context.Context, inv *invoice.Invoice) error {
	return s.InMemoryStore.CreateUnique(ctx, inv.ID, inv.Copy(), func(existing *invoice.Invoice) bool {
		return existing.TutorID == inv.TutorID &&
			(existing.InvoiceNumber == inv.InvoiceNumber || existing.FullInvoiceCode == inv.FullInvoiceCode)
	})
}

func (s *InMemoryInvoiceStore) Get(ctx context.Context, id string) (*invoice.Invoice, error) {
	inv, err := s.InMemoryStore.Get(ctx, id)
	if err != nil || !CheckTutorFilter(ctx, inv.BaseModel) {
		return nil, notFound("invoice")
	}
	return inv.Copy(), nil
}

func (s *InMemoryInvoiceStore) List(ctx context.Context, filter *types.InvoiceFilter) ([]*invoice.Invoice, error) {
	items, err := s.InMemoryStore.List(ctx, filter, invoiceFilterFn, invoiceSortFn)
	if err != nil {
		return nil, err
	}
	return lo.Map(items, func(inv *invoice.Invoice, _ int) *invoice.Invoice {
		return inv.Copy()
	}), nil
}

func (s *InMemoryInvoiceStore) Count(ctx context.Context, filter *types.InvoiceFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, invoiceFilterFn)
}

// Update writes the same header columns as the SQL update, lines go
// through ReplaceLines
func (s *InMemoryInvoiceStore) Update(ctx context.Context, inv *invoice.Invoice) error {
	if _, err := s.Get(ctx, inv.ID); err != nil {
		return err
	}
	inv.UpdatedAt = time.Now().UTC()
	next := inv.Copy()
	return s.InMemoryStore.Mutate(ctx, inv.ID, (*invoice.Invoice).Copy, func(stored *invoice.Invoice) error {
		stored.StudentID = next.StudentID
		stored.CourseRegistrationID = next.CourseRegistrationID
		stored.IssueDate = next.IssueDate
		stored.DeliveryDateStart = next.DeliveryDateStart
		stored.DeliveryDateEnd = next.DeliveryDateEnd
		stored.DueDate = next.DueDate
		stored.Subject = next.Subject
		stored.HeaderText = next.HeaderText
		stored.FooterText = next.FooterText
		stored.RecipientName = next.RecipientName
		stored.RecipientAddress = next.RecipientAddress
		stored.Subtotal = next.Subtotal
		stored.VATAmount = next.VATAmount
		stored.TotalAdjustmentAmount = next.TotalAdjustmentAmount
		stored.TotalAmount = next.TotalAmount
		stored.IsPaid = next.IsPaid
		stored.IsSent = next.IsSent
		stored.IsSmallBusiness = next.IsSmallBusiness
		stored.UpdatedAt = next.UpdatedAt
		return nil
	})
}

func (s *InMemoryInvoiceStore) ReplaceLines(ctx context.Context, inv *invoice.Invoice) error {
	if _, err := s.Get(ctx, inv.ID); err != nil {
		return err
	}
	lines := inv.Copy()
	return s.InMemoryStore.Mutate(ctx, inv.ID, (*invoice.Invoice).Copy, func(stored *invoice.Invoice) error {
		stored.Items = lines.Items
		stored.Adjustments = lines.Adjustments
		return nil
	})
}

func (s *InMemoryInvoiceStore) SumOpenAmount(ctx context.Context) (decimal.Decimal, error) {
	filter := types.NewNoLimitInvoiceFilter()
	filter.IsPaid = lo.ToPtr(false)
	items, err := s.InMemoryStore.List(ctx, filter, invoiceFilterFn, nil)
	if err != nil {
		return decimal.Zero, err
	}
	return lo.Reduce(items, func(sum decimal.Decimal, inv *invoice.Invoice, _ int) decimal.Decimal {
		return sum.Add(inv.TotalAmount)
	}, decimal.Zero), nil
}

func invoiceFilterFn(ctx context.Context, inv *invoice.Invoice, filter interface{}) bool {
	if !CheckTutorFilter(ctx, inv.BaseModel) {
		return false
	}
	f, ok := filter.(*types.InvoiceFilter)
	if !ok || f == nil {
		return true
	}
	if f.StudentID != "" && lo.FromPtr(inv.StudentID) != f.StudentID {
		return false
	}
	if f.IsPaid != nil && inv.IsPaid != *f.IsPaid {
		return false
	}
	if f.IsSent != nil && inv.IsSent != *f.IsSent {
		return false
	}
	return true
}

// invoiceSortFn lists the newest first, the number breaks ties within a burst
func invoiceSortFn(i, j *invoice.Invoice) bool {
	if !i.CreatedAt.Equal(j.CreatedAt) {
		return i.CreatedAt.After(j.CreatedAt)
	}
	return i.InvoiceNumber > j.InvoiceNumber
}
