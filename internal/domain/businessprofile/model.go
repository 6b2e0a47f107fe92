package businessprofile

import (
	"fmt"
	"time"

	"github.com/tutorbook/tutorbook/internal/types"
)

const (
	DefaultCountry           = "Deutschland"
	DefaultNextInvoiceNumber = int64(1000)
)

// BusinessProfile is the tutor's invoicing identity. NextInvoiceNumber is
// the counter the invoice sequencer reads and advances under a row lock.
type BusinessProfile struct {
	ID       string `db:"id" json:"id"`
	TutorID  string `db:"tutor_id" json:"tutor_id"`
	LogoURL  string `db:"logo_url" json:"logo_url"`
	Website  string `db:"website" json:"website"`
	Phone    string `db:"phone" json:"phone"`
	Email    string `db:"email" json:"email"`
	Street   string `db:"street" json:"street"`
	Postcode string `db:"postcode" json:"postcode"`
	City     string `db:"city" json:"city"`
	Country  string `db:"country" json:"country"`

	CompanyName string `db:"company_name" json:"company_name"`
	ManagerName string `db:"manager_name" json:"manager_name"`

	TaxNumber       string               `db:"tax_number" json:"tax_number"`
	VATID           string               `db:"vat_id" json:"vat_id"`
	IsSmallBusiness bool                 `db:"is_small_business" json:"is_small_business"`
	PriceInputType  types.PriceInputType `db:"price_input_type" json:"price_input_type"`

	BankName      string `db:"bank_name" json:"bank_name"`
	AccountHolder string `db:"account_holder" json:"account_holder"`
	IBAN          string `db:"iban" json:"iban"`
	BIC           string `db:"bic" json:"bic"`

	DefaultIntroText  string `db:"default_intro_text" json:"default_intro_text"`
	NextInvoiceNumber int64  `db:"next_invoice_number" json:"next_invoice_number"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

func NewBusinessProfile(tutorID string, nextInvoiceNumber int64) *BusinessProfile {
	now := time.Now().UTC()
	if nextInvoiceNumber < 1 {
		nextInvoiceNumber = DefaultNextInvoiceNumber
	}
	return &BusinessProfile{
		ID:                types.GenerateUUIDWithPrefix(types.UUID_PREFIX_BUSINESS_PROFILE),
		TutorID:           tutorID,
		Country:           DefaultCountry,
		PriceInputType:    types.PriceInputTypeNetto,
		NextInvoiceNumber: nextInvoiceNumber,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
}

// FormatInvoiceCode renders the display code of an invoice number issued at t,
// prefix + number + two digit year + two digit month, e.g. RE-10012602.
func FormatInvoiceCode(prefix string, number int64, t time.Time) string {
	return fmt.Sprintf("%s%d%02d%02d", prefix, number, t.Year()%100, int(t.Month()))
}
