package dto

import "github.com/shopspring/decimal"

// DashboardStatsResponse summarizes the current calendar month
type DashboardStatsResponse struct {
	Month              string          `json:"month"`
	EstimatedRevenue   decimal.Decimal `json:"estimated_revenue"`
	CurrentRevenue     decimal.Decimal `json:"current_revenue"`
	ActiveStudents     int             `json:"active_students"`
	MonthlyLessonCount int             `json:"monthly_lesson_count"`
	OpenInvoiceAmount  decimal.Decimal `json:"open_invoice_amount"`
}
