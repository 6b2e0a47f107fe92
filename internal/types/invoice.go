package types

import (
	ierr "github.com/tutorbook/tutorbook/internal/errors"
	"github.com/samber/lo"
)

// ItemUnit is the unit of measure of an invoice line item
type ItemUnit string

const (
	ItemUnitPiece    ItemUnit = "PIECE"
	ItemUnitHour     ItemUnit = "HOUR"
	ItemUnitDay      ItemUnit = "DAY"
	ItemUnitFlatRate ItemUnit = "FLAT_RATE"
)

func (u ItemUnit) String() string {
	return string(u)
}

func (u ItemUnit) Validate() error {
	allowed := []ItemUnit{
		ItemUnitPiece,
		ItemUnitHour,
		ItemUnitDay,
		ItemUnitFlatRate,
	}
	if !lo.Contains(allowed, u) {
		return ierr.NewError("invalid item unit").
			WithHint("Please provide a valid item unit").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// DiscountUnit says whether a value is a percentage or an absolute amount
type DiscountUnit string

const (
	DiscountUnitPercent  DiscountUnit = "PERCENT"
	DiscountUnitCurrency DiscountUnit = "CURRENCY"
)

func (u DiscountUnit) String() string {
	return string(u)
}

func (u DiscountUnit) Validate() error {
	allowed := []DiscountUnit{
		DiscountUnitPercent,
		DiscountUnitCurrency,
	}
	if !lo.Contains(allowed, u) {
		return ierr.NewError("invalid discount unit").
			WithHint("Please provide a valid discount unit").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// AdjustmentType is the direction of an invoice level adjustment
type AdjustmentType string

const (
	AdjustmentTypeDiscount  AdjustmentType = "DISCOUNT"
	AdjustmentTypeSurcharge AdjustmentType = "SURCHARGE"
)

func (t AdjustmentType) String() string {
	return string(t)
}

func (t AdjustmentType) Validate() error {
	allowed := []AdjustmentType{
		AdjustmentTypeDiscount,
		AdjustmentTypeSurcharge,
	}
	if !lo.Contains(allowed, t) {
		return ierr.NewError("invalid adjustment type").
			WithHint("Please provide a valid adjustment type").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// PriceInputType tells the UI whether prices are entered net or gross.
// Stored prices are always net.
type PriceInputType string

const (
	PriceInputTypeNetto  PriceInputType = "NETTO"
	PriceInputTypeBrutto PriceInputType = "BRUTTO"
)

func (p PriceInputType) Validate() error {
	allowed := []PriceInputType{
		PriceInputTypeNetto,
		PriceInputTypeBrutto,
	}
	if !lo.Contains(allowed, p) {
		return ierr.NewError("invalid price input type").
			WithHint("Please provide a valid price input type").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// InvoiceFilter represents filters for invoice queries
type InvoiceFilter struct {
	*QueryFilter
	StudentID string `form:"student_id" json:"student_id,omitempty"`
	IsPaid    *bool  `form:"is_paid" json:"is_paid,omitempty"`
	IsSent    *bool  `form:"is_sent" json:"is_sent,omitempty"`
}

func NewInvoiceFilter() *InvoiceFilter {
	return &InvoiceFilter{
		QueryFilter: NewDefaultQueryFilter(),
	}
}

func NewNoLimitInvoiceFilter() *InvoiceFilter {
	return &InvoiceFilter{
		QueryFilter: NewNoLimitQueryFilter(),
	}
}

func (f *InvoiceFilter) Validate() error {
	if f == nil {
		return nil
	}
	return f.QueryFilter.Validate()
}

// InvoiceSortColumns are the columns invoices may be ordered by
var InvoiceSortColumns = []string{"created_at", "issue_date", "invoice_number", "total_amount", "due_date"}
