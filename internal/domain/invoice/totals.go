package invoice

import (
	"fmt"

	"github.com/shopspring/decimal"
	ierr "github.com/tutorbook/tutorbook/internal/errors"
	"github.com/tutorbook/tutorbook/internal/types"
)

// MoneyPlaces is the precision totals are persisted with
const MoneyPlaces = 2

// InputPlaces is the precision quantities, prices and adjustment values are
// accepted and stored with
const InputPlaces = 4

// RatePlaces is the precision of VAT rates
const RatePlaces = 2

var hundred = decimal.NewFromInt(100)

// Totals are the derived financial fields of an invoice header
type Totals struct {
	Subtotal              decimal.Decimal `json:"subtotal"`
	VATAmount             decimal.Decimal `json:"vat_amount"`
	TotalAdjustmentAmount decimal.Decimal `json:"total_adjustment_amount"`
	TotalAmount           decimal.Decimal `json:"total_amount"`
}

// Equal compares totals by value
func (t Totals) Equal(o Totals) bool {
	return t.Subtotal.Equal(o.Subtotal) &&
		t.VATAmount.Equal(o.VATAmount) &&
		t.TotalAdjustmentAmount.Equal(o.TotalAdjustmentAmount) &&
		t.TotalAmount.Equal(o.TotalAmount)
}

// Calculator derives invoice totals from items and adjustments.
//
// Items are priced first and summed into the item subtotal and item VAT,
// which fixes the effective item VAT rate. Percent adjustments are taken of
// the item subtotal. Discounts then reduce VAT at the effective rate and
// surcharges add VAT at the surcharge rate (zero for small-business
// invoices). Both rates are fixed before the first adjustment, so
// reordering adjustments leaves the totals unchanged.
type Calculator struct {
	surchargeVATRate decimal.Decimal
}

func NewCalculator(surchargeVATRate decimal.Decimal) *Calculator {
	return &Calculator{surchargeVATRate: surchargeVATRate}
}

// SurchargeVATRate is the VAT rate in percent applied to surcharges of a
// standard regime invoice
func (c *Calculator) SurchargeVATRate() decimal.Decimal {
	return c.surchargeVATRate
}

// VATRateFor is the rate the invoice regime allows
func (c *Calculator) VATRateFor(isSmallBusiness bool) decimal.Decimal {
	if isSmallBusiness {
		return decimal.Zero
	}
	return c.surchargeVATRate
}

// Recalculate validates the invoice lines, writes the derived item and
// adjustment amounts and the header totals onto inv and returns the totals.
// Nothing on inv is touched when validation fails.
func (c *Calculator) Recalculate(inv *Invoice) (Totals, error) {
	if err := c.Validate(inv); err != nil {
		return Totals{}, err
	}

	for _, item := range inv.Items {
		normalizeItem(item, inv.IsSmallBusiness)
	}

	itemSubtotal := decimal.Zero
	itemVAT := decimal.Zero
	for _, item := range inv.Items {
		itemTotal := itemTotal(item)
		item.TotalPrice = itemTotal.Round(MoneyPlaces)
		itemSubtotal = itemSubtotal.Add(itemTotal)
		itemVAT = itemVAT.Add(itemTotal.Mul(item.VATRate).Div(hundred))
	}

	// zero subtotal invoices carry no VAT to redistribute
	effectiveRate := decimal.Zero
	if !itemSubtotal.IsZero() {
		effectiveRate = itemVAT.Div(itemSubtotal)
	}
	surchargeRate := c.VATRateFor(inv.IsSmallBusiness).Div(hundred)

	impact := decimal.Zero
	vatImpact := decimal.Zero
	for _, adj := range inv.Adjustments {
		amount := adj.Value
		if adj.Unit == types.DiscountUnitPercent {
			amount = itemSubtotal.Mul(adj.Value).Div(hundred)
		}
		adj.Amount = amount.Round(MoneyPlaces)

		switch adj.Type {
		case types.AdjustmentTypeDiscount:
			impact = impact.Sub(amount)
			vatImpact = vatImpact.Sub(amount.Mul(effectiveRate))
		case types.AdjustmentTypeSurcharge:
			impact = impact.Add(amount)
			vatImpact = vatImpact.Add(amount.Mul(surchargeRate))
		}
	}

	subtotal := decimal.Max(decimal.Zero, itemSubtotal.Add(impact)).Round(MoneyPlaces)
	vat := decimal.Max(decimal.Zero, itemVAT.Add(vatImpact)).Round(MoneyPlaces)
	totals := Totals{
		Subtotal:              subtotal,
		VATAmount:             vat,
		TotalAdjustmentAmount: impact.Round(MoneyPlaces),
		TotalAmount:           subtotal.Add(vat),
	}
	inv.ApplyTotals(totals)
	return totals, nil
}

// Validate checks every item and adjustment and reports all offending fields
// at once, keyed by their position in the request.
func (c *Calculator) Validate(inv *Invoice) error {
	details := make(map[string]any)

	for i, item := range inv.Items {
		if item == nil {
			details[fmt.Sprintf("items[%d]", i)] = "item is required"
			continue
		}
		path := func(field string) string { return fmt.Sprintf("items[%d].%s", i, field) }
		if item.Unit.Validate() != nil {
			details[path("unit")] = "unit must be one of PIECE, HOUR, DAY, FLAT_RATE"
		}
		if item.Quantity.IsNegative() {
			details[path("quantity")] = "quantity must not be negative"
		} else if tooPrecise(item.Quantity, InputPlaces) {
			details[path("quantity")] = precisionMessage("quantity", InputPlaces)
		}
		if item.UnitPrice.IsNegative() {
			details[path("unit_price")] = "unit_price must not be negative"
		} else if tooPrecise(item.UnitPrice, InputPlaces) {
			details[path("unit_price")] = precisionMessage("unit_price", InputPlaces)
		}
		// small-business invoices zero the rate regardless of input
		if !inv.IsSmallBusiness {
			if !inRange(item.VATRate, decimal.Zero, hundred) {
				details[path("vat_rate")] = "vat_rate must be between 0 and 100"
			} else if tooPrecise(item.VATRate, RatePlaces) {
				details[path("vat_rate")] = precisionMessage("vat_rate", RatePlaces)
			}
		}
		if item.DiscountUnit.Validate() != nil {
			details[path("discount_unit")] = "discount_unit must be PERCENT or CURRENCY"
		} else if msg := discountProblem(item.DiscountValue, item.DiscountUnit); msg != "" {
			details[path("discount_value")] = msg
		} else if tooPrecise(item.DiscountValue, InputPlaces) {
			details[path("discount_value")] = precisionMessage("discount_value", InputPlaces)
		}
	}

	for i, adj := range inv.Adjustments {
		if adj == nil {
			details[fmt.Sprintf("adjustments[%d]", i)] = "adjustment is required"
			continue
		}
		path := func(field string) string { return fmt.Sprintf("adjustments[%d].%s", i, field) }
		if adj.Type.Validate() != nil {
			details[path("type")] = "type must be DISCOUNT or SURCHARGE"
		}
		if adj.Unit.Validate() != nil {
			details[path("unit")] = "unit must be PERCENT or CURRENCY"
			continue
		}
		if adj.Value.IsNegative() {
			details[path("value")] = "value must not be negative"
		} else if adj.Type == types.AdjustmentTypeDiscount && adj.Unit == types.DiscountUnitPercent && adj.Value.GreaterThan(hundred) {
			details[path("value")] = "percent discount must not exceed 100"
		} else if tooPrecise(adj.Value, InputPlaces) {
			details[path("value")] = precisionMessage("value", InputPlaces)
		}
	}

	if len(details) > 0 {
		return ierr.NewError("invalid invoice lines").
			WithHint("One or more invoice items or adjustments are invalid").
			WithReportableDetails(details).
			Mark(ierr.ErrValidation)
	}
	return nil
}

func normalizeItem(item *InvoiceItem, isSmallBusiness bool) {
	if isSmallBusiness {
		item.VATRate = decimal.Zero
	}
	if item.Unit == types.ItemUnitFlatRate {
		item.Quantity = decimal.NewFromInt(1)
	}
}

func itemTotal(item *InvoiceItem) decimal.Decimal {
	base := item.UnitPrice.Mul(item.Quantity)
	discounted := base
	switch item.DiscountUnit {
	case types.DiscountUnitPercent:
		discounted = base.Mul(decimal.NewFromInt(1).Sub(item.DiscountValue.Div(hundred)))
	case types.DiscountUnitCurrency:
		discounted = base.Sub(item.DiscountValue)
	}
	return decimal.Max(decimal.Zero, discounted)
}

func discountProblem(value decimal.Decimal, unit types.DiscountUnit) string {
	if value.IsNegative() {
		return "discount_value must not be negative"
	}
	if unit == types.DiscountUnitPercent && value.GreaterThan(hundred) {
		return "percent discount must not exceed 100"
	}
	return ""
}

// tooPrecise reports values the NUMERIC columns would round on write
func tooPrecise(v decimal.Decimal, places int32) bool {
	return !v.Equal(v.Truncate(places))
}

func precisionMessage(field string, places int32) string {
	return fmt.Sprintf("%s must not have more than %d decimal places", field, places)
}

func inRange(v, min, max decimal.Decimal) bool {
	return v.GreaterThanOrEqual(min) && v.LessThanOrEqual(max)
}
