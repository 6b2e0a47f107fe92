package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/tutorbook/tutorbook/internal/domain/invoice"
	ierr "github.com/tutorbook/tutorbook/internal/errors"
	"github.com/tutorbook/tutorbook/internal/types"
	"github.com/tutorbook/tutorbook/internal/validator"
)

// InvoiceItemRequest is an item draft. VATRate falls back to the rate of
// the invoice regime when omitted, total_price is always derived.
type InvoiceItemRequest struct {
	Description   string             `json:"description" validate:"omitempty,max=1000"`
	Quantity      Number             `json:"quantity" swaggertype:"string"`
	Unit          types.ItemUnit     `json:"unit" validate:"required"`
	UnitPrice     Number             `json:"unit_price" swaggertype:"string"`
	DiscountValue Number             `json:"discount_value" swaggertype:"string"`
	DiscountUnit  types.DiscountUnit `json:"discount_unit"`
	VATRate       Number             `json:"vat_rate" swaggertype:"string"`
}

// InvoiceAdjustmentRequest is an adjustment draft, amount is always derived
type InvoiceAdjustmentRequest struct {
	Label string               `json:"label" validate:"omitempty,max=255"`
	Type  types.AdjustmentType `json:"type" validate:"required"`
	Value Number               `json:"value" swaggertype:"string"`
	Unit  types.DiscountUnit   `json:"unit" validate:"required"`
}

// InvoiceContent is what a tutor may write on an invoice, shared by create,
// edit and preview
type InvoiceContent struct {
	StudentID            *string     `json:"student_id"`
	CourseRegistrationID *string     `json:"course_registration_id"`
	IssueDate            *types.Date `json:"issue_date"`
	DeliveryDateStart    *types.Date `json:"delivery_date_start"`
	DeliveryDateEnd      *types.Date `json:"delivery_date_end"`
	DueDate              *types.Date `json:"due_date"`
	Subject              string      `json:"subject" validate:"omitempty,max=255"`
	HeaderText           string      `json:"header_text"`
	FooterText           string      `json:"footer_text"`
	RecipientName        string      `json:"recipient_name" validate:"omitempty,max=255"`
	RecipientAddress     *Address    `json:"recipient_address"`

	Items       []InvoiceItemRequest       `json:"items" validate:"dive"`
	Adjustments []InvoiceAdjustmentRequest `json:"adjustments" validate:"dive"`
}

func (r *InvoiceContent) validateNumbers() error {
	fields := numberFields{}
	for i, item := range r.Items {
		path := func(field string) string { return fmt.Sprintf("items[%d].%s", i, field) }
		fields.check(path("quantity"), item.Quantity)
		fields.check(path("unit_price"), item.UnitPrice)
		fields.check(path("discount_value"), item.DiscountValue)
		fields.check(path("vat_rate"), item.VATRate)
	}
	for i, adj := range r.Adjustments {
		fields.check(fmt.Sprintf("adjustments[%d].value", i), adj.Value)
	}
	return fields.err()
}

func (r *InvoiceContent) validate() error {
	if err := r.validateNumbers(); err != nil {
		return err
	}
	return r.validateDates()
}

func (r *InvoiceContent) validateDates() error {
	if r.DeliveryDateStart != nil && r.DeliveryDateEnd != nil && r.DeliveryDateEnd.Before(*r.DeliveryDateStart) {
		return validationError("delivery_date_end", "delivery_date_end must not be before delivery_date_start")
	}
	if r.IssueDate != nil && r.DueDate != nil && r.DueDate.Before(*r.IssueDate) {
		return validationError("due_date", "due_date must not be before issue_date")
	}
	return nil
}

// ApplyTo writes header metadata and lines onto inv. Dates default to
// today and today plus dueDays. The lines replace the existing ones.
// Numbers are expected to be checked by Validate already.
func (r *InvoiceContent) ApplyTo(inv *invoice.Invoice, today types.Date, dueDays int, defaultVATRate decimal.Decimal) {
	inv.StudentID = r.StudentID
	inv.CourseRegistrationID = r.CourseRegistrationID
	inv.IssueDate = lo.FromPtrOr(r.IssueDate, today)
	if r.DueDate != nil {
		inv.DueDate = r.DueDate
	} else {
		inv.DueDate = lo.ToPtr(inv.IssueDate.AddDays(dueDays))
	}
	inv.DeliveryDateStart = r.DeliveryDateStart
	inv.DeliveryDateEnd = r.DeliveryDateEnd
	inv.Subject = r.Subject
	inv.HeaderText = r.HeaderText
	inv.FooterText = r.FooterText
	inv.RecipientName = strings.TrimSpace(r.RecipientName)
	inv.RecipientAddress = r.RecipientAddress.ToDomain()

	now := time.Now().UTC()
	items := lo.Map(r.Items, func(item InvoiceItemRequest, _ int) *invoice.InvoiceItem {
		return &invoice.InvoiceItem{
			ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE_ITEM),
			Description:   item.Description,
			Quantity:      item.Quantity.OrDefault(decimal.Zero),
			Unit:          item.Unit,
			UnitPrice:     item.UnitPrice.OrDefault(decimal.Zero),
			DiscountValue: item.DiscountValue.OrDefault(decimal.Zero),
			DiscountUnit:  lo.Ternary(item.DiscountUnit == "", types.DiscountUnitPercent, item.DiscountUnit),
			VATRate:       item.VATRate.OrDefault(defaultVATRate),
			CreatedAt:     now,
		}
	})
	adjustments := lo.Map(r.Adjustments, func(adj InvoiceAdjustmentRequest, _ int) *invoice.InvoiceAdjustment {
		return &invoice.InvoiceAdjustment{
			ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_INVOICE_ADJUSTMENT),
			Label:     adj.Label,
			Type:      adj.Type,
			Value:     adj.Value.OrDefault(decimal.Zero),
			Unit:      adj.Unit,
			CreatedAt: now,
		}
	})
	inv.SetLines(items, adjustments)
}

type CreateInvoiceRequest struct {
	InvoiceContent
	// IsSmallBusiness overrides the regime of the business profile
	IsSmallBusiness *bool `json:"is_small_business"`
	IsPaid          bool  `json:"is_paid"`
	IsSent          bool  `json:"is_sent"`
}

func (r *CreateInvoiceRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	return r.validate()
}

// UpdateInvoiceRequest replaces metadata and lines of an issued invoice.
// Number, code and sender snapshot are fixed at issuance and are rejected
// when present.
type UpdateInvoiceRequest struct {
	InvoiceContent
	IsSmallBusiness *bool `json:"is_small_business"`

	InvoiceNumber   json.RawMessage `json:"invoice_number,omitempty"`
	FullInvoiceCode json.RawMessage `json:"full_invoice_code,omitempty"`
	SenderData      json.RawMessage `json:"sender_data,omitempty"`
}

func (r *UpdateInvoiceRequest) Validate() error {
	immutable := map[string]json.RawMessage{
		"invoice_number":    r.InvoiceNumber,
		"full_invoice_code": r.FullInvoiceCode,
		"sender_data":       r.SenderData,
	}
	details := make(map[string]any)
	for field, raw := range immutable {
		if isPresent(raw) {
			details[field] = "field cannot be changed after the invoice was issued"
		}
	}
	if len(details) > 0 {
		return ierr.NewError("immutable invoice fields in update").
			WithHint("Invoice number, invoice code and sender data cannot be changed").
			WithReportableDetails(details).
			Mark(ierr.ErrInvalidOperation)
	}

	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	return r.validate()
}

func isPresent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// UpdateInvoiceStatusRequest toggles the paid and sent flags
type UpdateInvoiceStatusRequest struct {
	IsPaid *bool `json:"is_paid"`
	IsSent *bool `json:"is_sent"`
}

func (r *UpdateInvoiceStatusRequest) Validate() error {
	if r.IsPaid == nil && r.IsSent == nil {
		return ierr.NewError("no status given").
			WithHint("Provide is_paid or is_sent").
			Mark(ierr.ErrValidation)
	}
	return nil
}

type InvoiceResponse struct {
	*invoice.Invoice
}

type ListInvoicesResponse = types.ListResponse[*InvoiceResponse]

// InvoicePdfURLResponse is returned instead of the document when a
// download link is requested
type InvoicePdfURLResponse struct {
	URL string `json:"url"`
}
