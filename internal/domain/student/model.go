package student

import (
	"github.com/tutorbook/tutorbook/internal/types"
)

// Student is a customer of the tutor
type Student struct {
	ID             string `db:"id" json:"id"`
	CustomerNumber string `db:"customer_number" json:"customer_number"`

	Name           string              `db:"name" json:"name"`
	Gender         types.Gender        `db:"gender" json:"gender"`
	Age            *int                `db:"age" json:"age,omitempty"`
	CurrentLevel   string              `db:"current_level" json:"current_level"`
	TargetLevel    string              `db:"target_level" json:"target_level"`
	TargetExamMode types.ExamMode      `db:"target_exam_mode" json:"target_exam_mode"`
	Memo           string              `db:"memo" json:"memo"`
	StudentStatus  types.StudentStatus `db:"student_status" json:"student_status"`

	// Billing block, used as invoice recipient when an invoice does not name one
	BillingName     string `db:"billing_name" json:"billing_name"`
	BillingStreet   string `db:"billing_street" json:"billing_street"`
	BillingPostcode string `db:"billing_postcode" json:"billing_postcode"`
	BillingCity     string `db:"billing_city" json:"billing_city"`
	BillingCountry  string `db:"billing_country" json:"billing_country"`

	types.BaseModel
}

// RecipientName is the name invoices are addressed to
func (s *Student) RecipientName() string {
	if s.BillingName != "" {
		return s.BillingName
	}
	return s.Name
}
