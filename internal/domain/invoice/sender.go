package invoice

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/tutorbook/tutorbook/internal/domain/businessprofile"
)

// Address is a postal address stored as JSONB
type Address struct {
	Street  string `json:"street"`
	Zip     string `json:"zip"`
	City    string `json:"city"`
	Country string `json:"country"`
}

func (a Address) IsEmpty() bool {
	return a == Address{}
}

func (a Address) Value() (driver.Value, error) {
	return jsonValue(a)
}

func (a *Address) Scan(src interface{}) error {
	return scanJSON(src, a)
}

// SenderData is the point in time copy of the tutor's business profile taken
// when the invoice number is allocated. It is a value, later profile edits
// never reach it.
type SenderData struct {
	CompanyName     string  `json:"company_name"`
	ManagerName     string  `json:"manager_name"`
	Address         Address `json:"address"`
	Phone           string  `json:"phone"`
	Email           string  `json:"email"`
	Website         string  `json:"website"`
	TaxNumber       string  `json:"tax_number"`
	VATID           string  `json:"vat_id"`
	IsSmallBusiness bool    `json:"is_small_business"`
	BankName        string  `json:"bank_name"`
	AccountHolder   string  `json:"account_holder"`
	IBAN            string  `json:"iban"`
	BIC             string  `json:"bic"`
	LogoURL         string  `json:"logo_url"`
}

// NewSenderData snapshots the profile
func NewSenderData(p *businessprofile.BusinessProfile) SenderData {
	return SenderData{
		CompanyName: p.CompanyName,
		ManagerName: p.ManagerName,
		Address: Address{
			Street:  p.Street,
			Zip:     p.Postcode,
			City:    p.City,
			Country: p.Country,
		},
		Phone:           p.Phone,
		Email:           p.Email,
		Website:         p.Website,
		TaxNumber:       p.TaxNumber,
		VATID:           p.VATID,
		IsSmallBusiness: p.IsSmallBusiness,
		BankName:        p.BankName,
		AccountHolder:   p.AccountHolder,
		IBAN:            p.IBAN,
		BIC:             p.BIC,
		LogoURL:         p.LogoURL,
	}
}

func (s SenderData) Value() (driver.Value, error) {
	return jsonValue(s)
}

func (s *SenderData) Scan(src interface{}) error {
	return scanJSON(src, s)
}

// jsonValue returns a string, lib/pq would send []byte as bytea
func jsonValue(v interface{}) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func scanJSON(src interface{}, dest interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("cannot scan %T into %T", src, dest)
	}
}
