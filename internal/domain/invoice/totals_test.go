package invoice

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	ierr "github.com/tutorbook/tutorbook/internal/errors"
	"github.com/tutorbook/tutorbook/internal/types"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func item(qty, price, vat string, unit types.ItemUnit) *InvoiceItem {
	return &InvoiceItem{
		Quantity:     d(qty),
		UnitPrice:    d(price),
		VATRate:      d(vat),
		Unit:         unit,
		DiscountUnit: types.DiscountUnitPercent,
	}
}

func discounted(it *InvoiceItem, value string, unit types.DiscountUnit) *InvoiceItem {
	it.DiscountValue = d(value)
	it.DiscountUnit = unit
	return it
}

func adjustment(typ types.AdjustmentType, value string, unit types.DiscountUnit) *InvoiceAdjustment {
	return &InvoiceAdjustment{Type: typ, Value: d(value), Unit: unit}
}

func totals(subtotal, vat, adjustment, total string) Totals {
	return Totals{
		Subtotal:              d(subtotal),
		VATAmount:             d(vat),
		TotalAdjustmentAmount: d(adjustment),
		TotalAmount:           d(total),
	}
}

func TestCalculator_Recalculate(t *testing.T) {
	tests := []struct {
		name            string
		isSmallBusiness bool
		items           []*InvoiceItem
		adjustments     []*InvoiceAdjustment
		want            Totals
		wantItemTotals  []string
		wantAdjAmounts  []string
	}{
		{
			name:           "single item standard regime",
			items:          []*InvoiceItem{item("2", "50.00", "19", types.ItemUnitHour)},
			want:           totals("100.00", "19.00", "0", "119.00"),
			wantItemTotals: []string{"100.00"},
		},
		{
			name:           "percent discount reduces vat proportionally",
			items:          []*InvoiceItem{item("2", "50.00", "19", types.ItemUnitHour)},
			adjustments:    []*InvoiceAdjustment{adjustment(types.AdjustmentTypeDiscount, "10", types.DiscountUnitPercent)},
			want:           totals("90.00", "17.10", "-10.00", "107.10"),
			wantItemTotals: []string{"100.00"},
			wantAdjAmounts: []string{"10.00"},
		},
		{
			name:           "currency surcharge carries surcharge vat",
			items:          []*InvoiceItem{item("2", "50.00", "19", types.ItemUnitHour)},
			adjustments:    []*InvoiceAdjustment{adjustment(types.AdjustmentTypeSurcharge, "20", types.DiscountUnitCurrency)},
			want:           totals("120.00", "22.80", "20.00", "142.80"),
			wantAdjAmounts: []string{"20.00"},
		},
		{
			name:           "percent surcharge",
			items:          []*InvoiceItem{item("1", "100", "19", types.ItemUnitPiece)},
			adjustments:    []*InvoiceAdjustment{adjustment(types.AdjustmentTypeSurcharge, "10", types.DiscountUnitPercent)},
			want:           totals("110.00", "20.90", "10.00", "130.90"),
			wantAdjAmounts: []string{"10.00"},
		},
		{
			name:            "small business zeroes item and surcharge vat",
			isSmallBusiness: true,
			items:           []*InvoiceItem{item("2", "50.00", "19", types.ItemUnitHour)},
			adjustments:     []*InvoiceAdjustment{adjustment(types.AdjustmentTypeSurcharge, "10", types.DiscountUnitCurrency)},
			want:            totals("110.00", "0", "10.00", "110.00"),
		},
		{
			name:           "flat rate forces quantity one",
			items:          []*InvoiceItem{item("5", "200", "19", types.ItemUnitFlatRate)},
			want:           totals("200.00", "38.00", "0", "238.00"),
			wantItemTotals: []string{"200.00"},
		},
		{
			name: "item discounts and clamp at zero",
			items: []*InvoiceItem{
				discounted(item("4", "25", "19", types.ItemUnitHour), "25", types.DiscountUnitPercent),
				discounted(item("1", "100", "19", types.ItemUnitPiece), "150", types.DiscountUnitCurrency),
			},
			want:           totals("75.00", "14.25", "0", "89.25"),
			wantItemTotals: []string{"75.00", "0.00"},
		},
		{
			name:           "discount on zero subtotal keeps vat at zero",
			items:          []*InvoiceItem{item("1", "0", "19", types.ItemUnitPiece)},
			adjustments:    []*InvoiceAdjustment{adjustment(types.AdjustmentTypeDiscount, "10", types.DiscountUnitCurrency)},
			want:           totals("0", "0", "-10.00", "0"),
			wantAdjAmounts: []string{"10.00"},
		},
		{
			name: "mixed rates use the effective rate for discounts",
			items: []*InvoiceItem{
				item("1", "100", "19", types.ItemUnitPiece),
				item("1", "100", "7", types.ItemUnitPiece),
			},
			adjustments: []*InvoiceAdjustment{adjustment(types.AdjustmentTypeDiscount, "50", types.DiscountUnitCurrency)},
			want:        totals("150.00", "19.50", "-50.00", "169.50"),
		},
		{
			name:           "rounding happens at persistence only",
			items:          []*InvoiceItem{item("3", "3.333", "19", types.ItemUnitHour)},
			want:           totals("10.00", "1.90", "0", "11.90"),
			wantItemTotals: []string{"10.00"},
		},
		{
			name:  "no lines",
			want:  totals("0", "0", "0", "0"),
			items: []*InvoiceItem{},
		},
	}

	calc := NewCalculator(d("19"))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := &Invoice{IsSmallBusiness: tt.isSmallBusiness}
			inv.SetLines(tt.items, tt.adjustments)

			got, err := calc.Recalculate(inv)
			require.NoError(t, err)

			assert.True(t, tt.want.Equal(got), "want %+v, got %+v", tt.want, got)
			assert.True(t, got.Equal(inv.Totals()), "totals must be written onto the header")
			assert.True(t, got.TotalAmount.Equal(got.Subtotal.Add(got.VATAmount)))

			for i, want := range tt.wantItemTotals {
				assert.True(t, d(want).Equal(inv.Items[i].TotalPrice), "item %d: want %s, got %s", i, want, inv.Items[i].TotalPrice)
			}
			for i, want := range tt.wantAdjAmounts {
				assert.True(t, d(want).Equal(inv.Adjustments[i].Amount), "adjustment %d: want %s, got %s", i, want, inv.Adjustments[i].Amount)
			}
			if tt.isSmallBusiness {
				for _, it := range inv.Items {
					assert.True(t, it.VATRate.IsZero())
				}
			}
		})
	}
}

func TestCalculator_AdjustmentOrderDoesNotMatter(t *testing.T) {
	calc := NewCalculator(d("19"))
	build := func(adjs ...*InvoiceAdjustment) *Invoice {
		inv := &Invoice{}
		inv.SetLines([]*InvoiceItem{
			item("3", "45.50", "19", types.ItemUnitHour),
			item("1", "12.99", "7", types.ItemUnitPiece),
		}, adjs)
		return inv
	}

	forward, err := calc.Recalculate(build(
		adjustment(types.AdjustmentTypeDiscount, "10", types.DiscountUnitPercent),
		adjustment(types.AdjustmentTypeSurcharge, "15", types.DiscountUnitCurrency),
		adjustment(types.AdjustmentTypeDiscount, "5", types.DiscountUnitCurrency),
	))
	require.NoError(t, err)

	backward, err := calc.Recalculate(build(
		adjustment(types.AdjustmentTypeDiscount, "5", types.DiscountUnitCurrency),
		adjustment(types.AdjustmentTypeSurcharge, "15", types.DiscountUnitCurrency),
		adjustment(types.AdjustmentTypeDiscount, "10", types.DiscountUnitPercent),
	))
	require.NoError(t, err)

	assert.True(t, forward.Equal(backward), "forward %+v, backward %+v", forward, backward)
	// 149.49 items at an effective rate of 26.8443/149.49, 19.949 discounted, 15 surcharged at 19%
	assert.True(t, totals("144.54", "26.11", "-4.95", "170.65").Equal(forward), "got %+v", forward)
}

func TestCalculator_SurchargeBeforeDiscountKeepsDiscountRate(t *testing.T) {
	calc := NewCalculator(d("19"))
	inv := &Invoice{}
	inv.SetLines(
		[]*InvoiceItem{item("1", "100", "7", types.ItemUnitPiece)},
		[]*InvoiceAdjustment{
			adjustment(types.AdjustmentTypeSurcharge, "100", types.DiscountUnitCurrency),
			adjustment(types.AdjustmentTypeDiscount, "50", types.DiscountUnitCurrency),
		},
	)

	got, err := calc.Recalculate(inv)
	require.NoError(t, err)
	// 7 + 19 - 50*0.07, the surcharge does not lift the discount rate
	assert.True(t, totals("150.00", "22.50", "50.00", "172.50").Equal(got), "got %+v", got)
}

func TestCalculator_RecalculateIsIdempotent(t *testing.T) {
	calc := NewCalculator(d("19"))
	inv := &Invoice{}
	inv.SetLines(
		[]*InvoiceItem{discounted(item("2.5", "39.90", "19", types.ItemUnitHour), "3", types.DiscountUnitCurrency)},
		[]*InvoiceAdjustment{adjustment(types.AdjustmentTypeDiscount, "7.5", types.DiscountUnitPercent)},
	)

	first, err := calc.Recalculate(inv)
	require.NoError(t, err)
	itemTotal := inv.Items[0].TotalPrice
	adjAmount := inv.Adjustments[0].Amount

	second, err := calc.Recalculate(inv)
	require.NoError(t, err)

	assert.True(t, first.Equal(second))
	assert.True(t, itemTotal.Equal(inv.Items[0].TotalPrice))
	assert.True(t, adjAmount.Equal(inv.Adjustments[0].Amount))
}

func TestCalculator_ItemsWithoutDiscountsMatchGrossSum(t *testing.T) {
	calc := NewCalculator(d("19"))
	inv := &Invoice{}
	inv.SetLines([]*InvoiceItem{
		item("2", "50", "19", types.ItemUnitHour),
		item("1", "30", "7", types.ItemUnitPiece),
		item("4", "12.50", "0", types.ItemUnitDay),
	}, nil)

	got, err := calc.Recalculate(inv)
	require.NoError(t, err)

	// 100*1.19 + 30*1.07 + 50
	assert.True(t, d("201.10").Equal(got.TotalAmount), "got %s", got.TotalAmount)
}

func TestCalculator_ValidationReportsEveryOffendingField(t *testing.T) {
	calc := NewCalculator(d("19"))
	inv := &Invoice{}
	inv.SetLines(
		[]*InvoiceItem{
			item("1", "10", "19", types.ItemUnitHour),
			item("-1", "10", "19", types.ItemUnitHour),
			discounted(item("1", "-5", "120", types.ItemUnit("BOX")), "101", types.DiscountUnitPercent),
		},
		[]*InvoiceAdjustment{
			adjustment(types.AdjustmentTypeDiscount, "150", types.DiscountUnitPercent),
			adjustment(types.AdjustmentType("BONUS"), "1", types.DiscountUnit("EUR")),
		},
	)

	_, err := calc.Recalculate(inv)
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))

	details := ierr.ReportableDetails(err)
	for _, key := range []string{
		"items[1].quantity",
		"items[2].unit",
		"items[2].unit_price",
		"items[2].vat_rate",
		"items[2].discount_value",
		"adjustments[0].value",
		"adjustments[1].type",
		"adjustments[1].unit",
	} {
		assert.Contains(t, details, key)
	}
	assert.NotContains(t, details, "items[0].quantity")

	// nothing is written when validation fails
	assert.True(t, inv.Items[0].TotalPrice.IsZero())
	assert.True(t, inv.Subtotal.IsZero())
}

func TestCalculator_RejectsValuesTheColumnsWouldRound(t *testing.T) {
	calc := NewCalculator(d("19"))
	inv := &Invoice{}
	inv.SetLines(
		[]*InvoiceItem{
			item("2.5550", "0.125", "19", types.ItemUnitHour),
			discounted(item("2.55555", "0.123456", "19.125", types.ItemUnitHour), "1.00001", types.DiscountUnitCurrency),
		},
		[]*InvoiceAdjustment{adjustment(types.AdjustmentTypeSurcharge, "0.99999", types.DiscountUnitCurrency)},
	)

	_, err := calc.Recalculate(inv)
	require.Error(t, err)
	assert.True(t, ierr.IsValidation(err))

	details := ierr.ReportableDetails(err)
	for _, key := range []string{
		"items[1].quantity",
		"items[1].unit_price",
		"items[1].vat_rate",
		"items[1].discount_value",
		"adjustments[0].value",
	} {
		assert.Contains(t, details, key)
	}
	// trailing zeros are not extra precision
	assert.NotContains(t, details, "items[0].quantity")
	assert.NotContains(t, details, "items[0].unit_price")
}

func TestCalculator_SmallBusinessIgnoresSuppliedRate(t *testing.T) {
	calc := NewCalculator(d("19"))
	inv := &Invoice{IsSmallBusiness: true}
	inv.SetLines([]*InvoiceItem{item("1", "80", "250", types.ItemUnitPiece)}, nil)

	got, err := calc.Recalculate(inv)
	require.NoError(t, err)
	assert.True(t, got.VATAmount.IsZero())
	assert.True(t, inv.Items[0].VATRate.IsZero())
}

func TestCalculator_VATRateFor(t *testing.T) {
	calc := NewCalculator(d("19"))
	assert.True(t, calc.VATRateFor(true).IsZero())
	assert.True(t, d("19").Equal(calc.VATRateFor(false)))
	assert.True(t, d("19").Equal(calc.SurchargeVATRate()))
}
