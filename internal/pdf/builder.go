package pdf

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/tutorbook/tutorbook/internal/domain/invoice"
	"github.com/tutorbook/tutorbook/internal/types"
)

const (
	displayDateLayout = "02.01.2006"
	currencySymbol    = "€"

	// SmallBusinessNotice is printed on invoices issued under the small
	// business regulation
	SmallBusinessNotice = "Gemäß § 19 UStG wird keine Umsatzsteuer berechnet."
)

var unitLabels = map[types.ItemUnit]string{
	types.ItemUnitPiece:    "Stück",
	types.ItemUnitHour:     "Std.",
	types.ItemUnitDay:      "Tag",
	types.ItemUnitFlatRate: "Pauschal",
}

// BuildInvoiceData turns a persisted invoice into the template model. The
// sender block always comes from the snapshot on the invoice.
func BuildInvoiceData(inv *invoice.Invoice) *InvoiceData {
	data := &InvoiceData{
		ID:              inv.ID,
		InvoiceCode:     inv.FullInvoiceCode,
		IssueDate:       FormatDate(inv.IssueDate),
		Subject:         inv.Subject,
		HeaderText:      inv.HeaderText,
		FooterText:      inv.FooterText,
		IsPaid:          inv.IsPaid,
		IsSmallBusiness: inv.IsSmallBusiness,
		Sender:          senderInfo(inv.SenderData),
		Recipient: RecipientInfo{
			Name:         inv.RecipientName,
			AddressLines: addressLines(inv.RecipientAddress),
		},
		Subtotal:        FormatMoney(inv.Subtotal),
		VATAmount:       FormatMoney(inv.VATAmount),
		TotalAdjustment: FormatMoney(inv.TotalAdjustmentAmount),
		Total:           FormatMoney(inv.TotalAmount),
	}
	if inv.DueDate != nil {
		data.DueDate = FormatDate(*inv.DueDate)
	}
	data.DeliveryPeriod = deliveryPeriod(inv.DeliveryDateStart, inv.DeliveryDateEnd)
	if inv.IsSmallBusiness {
		data.TaxNotice = SmallBusinessNotice
	}

	itemsTotal := decimal.Zero
	data.Items = lo.Map(inv.Items, func(item *invoice.InvoiceItem, i int) ItemRow {
		itemsTotal = itemsTotal.Add(item.TotalPrice)
		return ItemRow{
			Position:    i + 1,
			Description: item.Description,
			Quantity:    FormatNumber(item.Quantity),
			Unit:        UnitLabel(item.Unit),
			UnitPrice:   FormatMoney(item.UnitPrice),
			Discount:    formatDiscount(item.DiscountValue, item.DiscountUnit),
			VATRate:     FormatPercent(item.VATRate),
			Total:       FormatMoney(item.TotalPrice),
		}
	})
	data.ItemsTotal = FormatMoney(itemsTotal)

	data.Adjustments = lo.Map(inv.Adjustments, func(adj *invoice.InvoiceAdjustment, _ int) AdjustmentRow {
		amount := adj.Amount
		if adj.Type == types.AdjustmentTypeDiscount {
			amount = amount.Neg()
		}
		value := FormatMoney(adj.Value)
		if adj.Unit == types.DiscountUnitPercent {
			value = FormatPercent(adj.Value)
		}
		return AdjustmentRow{
			Label:  adj.Label,
			Value:  value,
			Amount: FormatMoney(amount),
		}
	})

	return data
}

// UnitLabel is the German label of a unit, unknown units print as is
func UnitLabel(u types.ItemUnit) string {
	if label, ok := unitLabels[u]; ok {
		return label
	}
	return string(u)
}

func FormatDate(d types.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.Format(displayDateLayout)
}

// FormatMoney renders an amount the German way, 1234.5 becomes "1.234,50 €"
func FormatMoney(d decimal.Decimal) string {
	return germanNumber(d.StringFixed(invoice.MoneyPlaces)) + " " + currencySymbol
}

// FormatNumber renders a quantity without trailing zeros, 1.50 becomes "1,5"
func FormatNumber(d decimal.Decimal) string {
	return germanNumber(d.String())
}

// FormatPercent renders a rate like "19 %" or "7,5 %"
func FormatPercent(d decimal.Decimal) string {
	return FormatNumber(d) + " %"
}

func formatDiscount(value decimal.Decimal, unit types.DiscountUnit) string {
	if value.IsZero() {
		return ""
	}
	if unit == types.DiscountUnitPercent {
		return FormatPercent(value)
	}
	return FormatMoney(value)
}

// germanNumber swaps a plain decimal string to German separators
func germanNumber(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, fracPart, hasFrac := strings.Cut(s, ".")

	var grouped strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(r)
	}

	if !hasFrac {
		return sign + grouped.String()
	}
	return sign + grouped.String() + "," + fracPart
}

func deliveryPeriod(start, end *types.Date) string {
	switch {
	case start != nil && end != nil && !start.Equal(end.Time):
		return fmt.Sprintf("%s - %s", FormatDate(*start), FormatDate(*end))
	case start != nil:
		return FormatDate(*start)
	case end != nil:
		return FormatDate(*end)
	}
	return ""
}

func senderInfo(s invoice.SenderData) SenderInfo {
	return SenderInfo{
		CompanyName:   s.CompanyName,
		ManagerName:   s.ManagerName,
		AddressLines:  addressLines(s.Address),
		Phone:         s.Phone,
		Email:         s.Email,
		Website:       s.Website,
		TaxNumber:     s.TaxNumber,
		VATID:         s.VATID,
		BankName:      s.BankName,
		AccountHolder: s.AccountHolder,
		IBAN:          s.IBAN,
		BIC:           s.BIC,
		LogoURL:       s.LogoURL,
	}
}

func addressLines(a invoice.Address) []string {
	cityLine := strings.TrimSpace(a.Zip + " " + a.City)
	return lo.Filter([]string{a.Street, cityLine, a.Country}, func(line string, _ int) bool {
		return line != ""
	})
}
