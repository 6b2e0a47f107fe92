package invoice

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tutorbook/tutorbook/internal/types"
)

// InvoiceItem is a line of an invoice. TotalPrice is derived.
type InvoiceItem struct {
	ID            string             `db:"id" json:"id"`
	InvoiceID     string             `db:"invoice_id" json:"invoice_id"`
	Position      int                `db:"position" json:"position"`
	Description   string             `db:"description" json:"description"`
	Quantity      decimal.Decimal    `db:"quantity" json:"quantity"`
	Unit          types.ItemUnit     `db:"unit" json:"unit"`
	UnitPrice     decimal.Decimal    `db:"unit_price" json:"unit_price"`
	DiscountValue decimal.Decimal    `db:"discount_value" json:"discount_value"`
	DiscountUnit  types.DiscountUnit `db:"discount_unit" json:"discount_unit"`
	VATRate       decimal.Decimal    `db:"vat_rate" json:"vat_rate"`
	TotalPrice    decimal.Decimal    `db:"total_price" json:"total_price"`
	CreatedAt     time.Time          `db:"created_at" json:"created_at"`
}

// InvoiceAdjustment is an invoice level discount or surcharge. Amount is derived.
type InvoiceAdjustment struct {
	ID        string               `db:"id" json:"id"`
	InvoiceID string               `db:"invoice_id" json:"invoice_id"`
	Position  int                  `db:"position" json:"position"`
	Label     string               `db:"label" json:"label"`
	Type      types.AdjustmentType `db:"type" json:"type"`
	Value     decimal.Decimal      `db:"value" json:"value"`
	Unit      types.DiscountUnit   `db:"unit" json:"unit"`
	Amount    decimal.Decimal      `db:"amount" json:"amount"`
	CreatedAt time.Time            `db:"created_at" json:"created_at"`
}
