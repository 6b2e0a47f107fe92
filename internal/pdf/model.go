package pdf

// InvoiceData is the document model handed to the invoice template.
// Every value is preformatted for display, the template never computes.
type InvoiceData struct {
	ID              string `json:"id"`
	InvoiceCode     string `json:"invoice_code"`
	IssueDate       string `json:"issue_date"`
	DueDate         string `json:"due_date,omitempty"`
	DeliveryPeriod  string `json:"delivery_period,omitempty"`
	Subject         string `json:"subject,omitempty"`
	HeaderText      string `json:"header_text,omitempty"`
	FooterText      string `json:"footer_text,omitempty"`
	IsPaid          bool   `json:"is_paid"`
	IsSmallBusiness bool   `json:"is_small_business"`
	TaxNotice       string `json:"tax_notice,omitempty"`

	Sender    SenderInfo    `json:"sender"`
	Recipient RecipientInfo `json:"recipient"`

	Items       []ItemRow       `json:"items"`
	Adjustments []AdjustmentRow `json:"adjustments"`

	ItemsTotal      string `json:"items_total"`
	Subtotal        string `json:"subtotal"`
	VATAmount       string `json:"vat_amount"`
	TotalAdjustment string `json:"total_adjustment"`
	Total           string `json:"total"`
}

// SenderInfo is the issuing business as it was when the invoice was numbered
type SenderInfo struct {
	CompanyName   string   `json:"company_name"`
	ManagerName   string   `json:"manager_name,omitempty"`
	AddressLines  []string `json:"address_lines"`
	Phone         string   `json:"phone,omitempty"`
	Email         string   `json:"email,omitempty"`
	Website       string   `json:"website,omitempty"`
	TaxNumber     string   `json:"tax_number,omitempty"`
	VATID         string   `json:"vat_id,omitempty"`
	BankName      string   `json:"bank_name,omitempty"`
	AccountHolder string   `json:"account_holder,omitempty"`
	IBAN          string   `json:"iban,omitempty"`
	BIC           string   `json:"bic,omitempty"`
	LogoURL       string   `json:"logo_url,omitempty"`
}

type RecipientInfo struct {
	Name         string   `json:"name"`
	AddressLines []string `json:"address_lines"`
}

// ItemRow is one row of the item table
type ItemRow struct {
	Position    int    `json:"position"`
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	Unit        string `json:"unit"`
	UnitPrice   string `json:"unit_price"`
	Discount    string `json:"discount,omitempty"`
	VATRate     string `json:"vat_rate"`
	Total       string `json:"total"`
}

// AdjustmentRow is one invoice level discount or surcharge, Amount is signed
type AdjustmentRow struct {
	Label  string `json:"label"`
	Value  string `json:"value"`
	Amount string `json:"amount"`
}
