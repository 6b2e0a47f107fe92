package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tutorbook/tutorbook/internal/domain/invoice"
	ierr "github.com/tutorbook/tutorbook/internal/errors"
	"github.com/tutorbook/tutorbook/internal/types"
)

func TestUpdateInvoiceRequestRejectsImmutableFields(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"invoice number", `{"invoice_number": 1005}`, "invoice_number"},
		{"invoice code", `{"full_invoice_code": "RE-10052601"}`, "full_invoice_code"},
		{"sender data", `{"sender_data": {"company_name": "Other"}}`, "sender_data"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req UpdateInvoiceRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))

			err := req.Validate()
			require.Error(t, err)
			assert.True(t, ierr.IsInvalidOperation(err))
		})
	}
}

func TestUpdateInvoiceRequestAllowsNullImmutableFields(t *testing.T) {
	var req UpdateInvoiceRequest
	require.NoError(t, json.Unmarshal([]byte(`{"invoice_number": null, "subject": "Januar"}`), &req))
	assert.NoError(t, req.Validate())
}

func TestCreateInvoiceRequestRejectsUnknownUnitPath(t *testing.T) {
	req := CreateInvoiceRequest{InvoiceContent: InvoiceContent{
		Items: []InvoiceItemRequest{{Description: "Mathe"}},
	}}

	err := req.Validate()
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))
	assert.Contains(t, ierr.ReportableDetails(err), "items[0].unit")
}

func TestCreateInvoiceRequestDeliveryRange(t *testing.T) {
	start := types.NewDate(2026, time.January, 10)
	end := types.NewDate(2026, time.January, 1)
	req := CreateInvoiceRequest{InvoiceContent: InvoiceContent{
		DeliveryDateStart: &start,
		DeliveryDateEnd:   &end,
	}}

	err := req.Validate()
	assert.True(t, ierr.IsValidation(err))
}

func TestInvoiceContentApplyToDefaults(t *testing.T) {
	today := types.NewDate(2026, time.January, 18)
	req := InvoiceContent{
		RecipientName: "  Anna Schmidt ",
		Items: []InvoiceItemRequest{
			{Description: "Mathe", Quantity: "2", Unit: types.ItemUnitHour, UnitPrice: "50"},
			{Description: "Material", Quantity: "1", Unit: types.ItemUnitPiece, UnitPrice: "5", VATRate: "0"},
		},
		Adjustments: []InvoiceAdjustmentRequest{
			{Label: "Rabatt", Type: types.AdjustmentTypeDiscount, Value: "10", Unit: types.DiscountUnitPercent},
		},
	}

	inv := &invoice.Invoice{ID: "inv_1"}
	req.ApplyTo(inv, today, 14, decimal.NewFromInt(19))

	assert.Equal(t, today, inv.IssueDate)
	require.NotNil(t, inv.DueDate)
	assert.Equal(t, types.NewDate(2026, time.February, 1), *inv.DueDate)
	assert.Equal(t, "Anna Schmidt", inv.RecipientName)

	require.Len(t, inv.Items, 2)
	assert.Equal(t, "inv_1", inv.Items[0].InvoiceID)
	assert.Equal(t, 2, inv.Items[1].Position)
	assert.Equal(t, types.DiscountUnitPercent, inv.Items[0].DiscountUnit)
	assert.True(t, inv.Items[0].VATRate.Equal(decimal.NewFromInt(19)))
	assert.True(t, inv.Items[1].VATRate.IsZero())

	require.Len(t, inv.Adjustments, 1)
	assert.Equal(t, 1, inv.Adjustments[0].Position)
	assert.True(t, inv.Items[0].Quantity.Equal(decimal.NewFromInt(2)))
	assert.True(t, inv.Adjustments[0].Value.Equal(decimal.NewFromInt(10)))
}

func TestCreateInvoiceRequestReportsMalformedNumbersPerLine(t *testing.T) {
	body := `{
		"items": [
			{"description": "Mathe", "quantity": 2, "unit": "HOUR", "unit_price": "50.00"},
			{"description": "Physik", "quantity": "abc", "unit": "HOUR", "unit_price": 40, "vat_rate": true}
		],
		"adjustments": [{"type": "DISCOUNT", "value": "zehn", "unit": "PERCENT"}]
	}`
	var req CreateInvoiceRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req), "malformed numbers must not fail binding")

	err := req.Validate()
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))

	details := ierr.ReportableDetails(err)
	assert.Equal(t, `"abc" is not a number`, details["items[1].quantity"])
	assert.Contains(t, details, "items[1].vat_rate")
	assert.Contains(t, details, "adjustments[0].value")
	assert.NotContains(t, details, "items[0].quantity")
	assert.NotContains(t, details, "items[1].unit_price")
}

func TestNumberAcceptsNumbersAndStrings(t *testing.T) {
	var item InvoiceItemRequest
	require.NoError(t, json.Unmarshal([]byte(`{"quantity": 1.5, "unit_price": " 39.90 ", "vat_rate": null}`), &item))

	qty, err := item.Quantity.Decimal()
	require.NoError(t, err)
	assert.True(t, qty.Equal(decimal.RequireFromString("1.5")))
	assert.True(t, item.UnitPrice.OrDefault(decimal.Zero).Equal(decimal.RequireFromString("39.90")))
	assert.False(t, item.VATRate.IsSet())
	assert.True(t, item.VATRate.OrDefault(decimal.NewFromInt(19)).Equal(decimal.NewFromInt(19)))
}
