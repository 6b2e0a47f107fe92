package dto

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tutorbook/tutorbook/internal/domain/businessprofile"
	"github.com/tutorbook/tutorbook/internal/types"
	"github.com/tutorbook/tutorbook/internal/validator"
)

// UpsertBusinessProfileRequest replaces the whole profile. NextInvoiceNumber
// is only changed when given.
type UpsertBusinessProfileRequest struct {
	CompanyName       string               `json:"company_name" validate:"required,max=255"`
	ManagerName       string               `json:"manager_name" validate:"omitempty,max=255"`
	Street            string               `json:"street" validate:"omitempty,max=255"`
	Postcode          string               `json:"postcode" validate:"omitempty,max=20"`
	City              string               `json:"city" validate:"omitempty,max=100"`
	Country           string               `json:"country" validate:"omitempty,max=100"`
	Phone             string               `json:"phone" validate:"omitempty,max=50"`
	Email             string               `json:"email" validate:"omitempty,email"`
	Website           string               `json:"website" validate:"omitempty,max=255"`
	TaxNumber         string               `json:"tax_number" validate:"omitempty,max=50"`
	VATID             string               `json:"vat_id" validate:"omitempty,max=50"`
	IsSmallBusiness   bool                 `json:"is_small_business"`
	PriceInputType    types.PriceInputType `json:"price_input_type"`
	BankName          string               `json:"bank_name" validate:"omitempty,max=255"`
	AccountHolder     string               `json:"account_holder" validate:"omitempty,max=255"`
	IBAN              string               `json:"iban" validate:"omitempty,max=34"`
	BIC               string               `json:"bic" validate:"omitempty,max=11"`
	LogoURL           string               `json:"logo_url" validate:"omitempty,url"`
	DefaultIntroText  string               `json:"default_intro_text"`
	NextInvoiceNumber *int64               `json:"next_invoice_number" validate:"omitempty,min=1"`
}

func (r *UpsertBusinessProfileRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.PriceInputType != "" {
		return r.PriceInputType.Validate()
	}
	return nil
}

// Apply writes the request onto p, an existing profile or a fresh one
func (r *UpsertBusinessProfileRequest) Apply(p *businessprofile.BusinessProfile) {
	p.CompanyName = r.CompanyName
	p.ManagerName = r.ManagerName
	p.Street = r.Street
	p.Postcode = r.Postcode
	p.City = r.City
	if r.Country != "" {
		p.Country = r.Country
	}
	p.Phone = r.Phone
	p.Email = r.Email
	p.Website = r.Website
	p.TaxNumber = r.TaxNumber
	p.VATID = r.VATID
	p.IsSmallBusiness = r.IsSmallBusiness
	if r.PriceInputType != "" {
		p.PriceInputType = r.PriceInputType
	}
	p.BankName = r.BankName
	p.AccountHolder = r.AccountHolder
	p.IBAN = r.IBAN
	p.BIC = r.BIC
	p.LogoURL = r.LogoURL
	p.DefaultIntroText = r.DefaultIntroText
	if r.NextInvoiceNumber != nil {
		p.NextInvoiceNumber = *r.NextInvoiceNumber
	}
	p.UpdatedAt = time.Now().UTC()
}

type BusinessProfileResponse struct {
	*businessprofile.BusinessProfile
}

type TaxConfig struct {
	IsSmallBusiness bool            `json:"is_small_business"`
	VATRate         decimal.Decimal `json:"vat_rate"`
}

// NextInvoiceNumberResponse previews the number the next invoice would get.
// Nothing is reserved.
type NextInvoiceNumberResponse struct {
	NextNumber             int64     `json:"next_number"`
	FullInvoiceCodePreview string    `json:"full_invoice_code_preview"`
	TaxConfig              TaxConfig `json:"tax_config"`
}
