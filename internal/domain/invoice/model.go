package invoice

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/tutorbook/tutorbook/internal/types"
)

// Invoice represents the invoice header. Financial fields are derived by the
// Calculator and never edited directly. InvoiceNumber, FullInvoiceCode and
// SenderData are fixed at issuance.
type Invoice struct {
	ID                   string  `db:"id" json:"id"`
	StudentID            *string `db:"student_id" json:"student_id,omitempty"`
	CourseRegistrationID *string `db:"course_registration_id" json:"course_registration_id,omitempty"`

	InvoiceNumber   int64  `db:"invoice_number" json:"invoice_number"`
	FullInvoiceCode string `db:"full_invoice_code" json:"full_invoice_code"`

	IssueDate         types.Date  `db:"issue_date" json:"issue_date"`
	DeliveryDateStart *types.Date `db:"delivery_date_start" json:"delivery_date_start,omitempty"`
	DeliveryDateEnd   *types.Date `db:"delivery_date_end" json:"delivery_date_end,omitempty"`
	DueDate           *types.Date `db:"due_date" json:"due_date,omitempty"`

	Subject    string `db:"subject" json:"subject"`
	HeaderText string `db:"header_text" json:"header_text"`
	FooterText string `db:"footer_text" json:"footer_text"`

	RecipientName    string     `db:"recipient_name" json:"recipient_name"`
	RecipientAddress Address    `db:"recipient_address" json:"recipient_address"`
	SenderData       SenderData `db:"sender_data" json:"sender_data"`

	Subtotal              decimal.Decimal `db:"subtotal" json:"subtotal"`
	VATAmount             decimal.Decimal `db:"vat_amount" json:"vat_amount"`
	TotalAdjustmentAmount decimal.Decimal `db:"total_adjustment_amount" json:"total_adjustment_amount"`
	TotalAmount           decimal.Decimal `db:"total_amount" json:"total_amount"`

	IsPaid          bool `db:"is_paid" json:"is_paid"`
	IsSent          bool `db:"is_sent" json:"is_sent"`
	IsSmallBusiness bool `db:"is_small_business" json:"is_small_business"`

	Items       []*InvoiceItem       `db:"-" json:"items"`
	Adjustments []*InvoiceAdjustment `db:"-" json:"adjustments"`

	types.BaseModel
}

// ApplyTotals copies computed totals onto the header
func (i *Invoice) ApplyTotals(t Totals) {
	i.Subtotal = t.Subtotal
	i.VATAmount = t.VATAmount
	i.TotalAdjustmentAmount = t.TotalAdjustmentAmount
	i.TotalAmount = t.TotalAmount
}

// Totals returns the persisted totals of the header
func (i *Invoice) Totals() Totals {
	return Totals{
		Subtotal:              i.Subtotal,
		VATAmount:             i.VATAmount,
		TotalAdjustmentAmount: i.TotalAdjustmentAmount,
		TotalAmount:           i.TotalAmount,
	}
}

// SetLines replaces the owned collections and binds them to this invoice.
// Positions follow the given order and start at 1.
func (i *Invoice) SetLines(items []*InvoiceItem, adjustments []*InvoiceAdjustment) {
	for idx, item := range items {
		item.InvoiceID = i.ID
		item.Position = idx + 1
	}
	for idx, adj := range adjustments {
		adj.InvoiceID = i.ID
		adj.Position = idx + 1
	}
	i.Items = items
	i.Adjustments = adjustments
}

// Copy returns a deep copy of the invoice including its lines
func (i *Invoice) Copy() *Invoice {
	if i == nil {
		return nil
	}
	c := *i
	c.StudentID = copyPtr(i.StudentID)
	c.CourseRegistrationID = copyPtr(i.CourseRegistrationID)
	c.DeliveryDateStart = copyPtr(i.DeliveryDateStart)
	c.DeliveryDateEnd = copyPtr(i.DeliveryDateEnd)
	c.DueDate = copyPtr(i.DueDate)
	c.Items = lo.Map(i.Items, func(item *InvoiceItem, _ int) *InvoiceItem {
		cp := *item
		return &cp
	})
	c.Adjustments = lo.Map(i.Adjustments, func(adj *InvoiceAdjustment, _ int) *InvoiceAdjustment {
		cp := *adj
		return &cp
	})
	return &c
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
