package course

import (
	"github.com/shopspring/decimal"
	"github.com/tutorbook/tutorbook/internal/types"
)

// Registration is a student's booking of a course of lessons
type Registration struct {
	ID           string             `db:"id" json:"id"`
	StudentID    string             `db:"student_id" json:"student_id"`
	CourseStatus types.CourseStatus `db:"course_status" json:"course_status"`
	StartDate    types.Date         `db:"start_date" json:"start_date"`
	EndDate      *types.Date        `db:"end_date" json:"end_date,omitempty"`
	HourlyRate   decimal.Decimal    `db:"hourly_rate" json:"hourly_rate"`
	TotalHours   decimal.Decimal    `db:"total_hours" json:"total_hours"`
	TotalFee     decimal.Decimal    `db:"total_fee" json:"total_fee"`
	IsPaid       bool               `db:"is_paid" json:"is_paid"`

	types.BaseModel
}

// CalculateTotalFee derives the fee from rate and hours
func (r *Registration) CalculateTotalFee() decimal.Decimal {
	r.TotalFee = r.HourlyRate.Mul(r.TotalHours).Round(2)
	return r.TotalFee
}
