package dto

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tutorbook/tutorbook/internal/domain/course"
	"github.com/tutorbook/tutorbook/internal/types"
	"github.com/tutorbook/tutorbook/internal/validator"
)

type CreateCourseRequest struct {
	StudentID    string             `json:"student_id" validate:"required"`
	CourseStatus types.CourseStatus `json:"course_status"`
	StartDate    *types.Date        `json:"start_date" validate:"required"`
	EndDate      *types.Date        `json:"end_date"`
	HourlyRate   decimal.Decimal    `json:"hourly_rate"`
	TotalHours   decimal.Decimal    `json:"total_hours"`
	IsPaid       bool               `json:"is_paid"`
}

func (r *CreateCourseRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.CourseStatus != "" {
		if err := r.CourseStatus.Validate(); err != nil {
			return err
		}
	}
	return validateCourseFields(r.StartDate, r.EndDate, r.HourlyRate, r.TotalHours)
}

func (r *CreateCourseRequest) ToRegistration(ctx context.Context) *course.Registration {
	reg := &course.Registration{
		ID:           types.GenerateUUIDWithPrefix(types.UUID_PREFIX_COURSE),
		StudentID:    r.StudentID,
		CourseStatus: r.CourseStatus,
		StartDate:    *r.StartDate,
		EndDate:      r.EndDate,
		HourlyRate:   r.HourlyRate,
		TotalHours:   r.TotalHours,
		IsPaid:       r.IsPaid,
		BaseModel:    types.GetDefaultBaseModel(ctx),
	}
	if reg.CourseStatus == "" {
		reg.CourseStatus = types.CourseStatusActive
	}
	reg.CalculateTotalFee()
	return reg
}

type UpdateCourseRequest struct {
	CourseStatus *types.CourseStatus `json:"course_status"`
	StartDate    *types.Date         `json:"start_date"`
	EndDate      *types.Date         `json:"end_date"`
	HourlyRate   *decimal.Decimal    `json:"hourly_rate"`
	TotalHours   *decimal.Decimal    `json:"total_hours"`
	IsPaid       *bool               `json:"is_paid"`
}

func (r *UpdateCourseRequest) Validate() error {
	if r.CourseStatus != nil {
		return r.CourseStatus.Validate()
	}
	return nil
}

// Apply sets the given fields, re-derives the fee and checks the result
func (r *UpdateCourseRequest) Apply(reg *course.Registration) error {
	if r.CourseStatus != nil {
		reg.CourseStatus = *r.CourseStatus
	}
	if r.StartDate != nil {
		reg.StartDate = *r.StartDate
	}
	if r.EndDate != nil {
		reg.EndDate = r.EndDate
	}
	if r.HourlyRate != nil {
		reg.HourlyRate = *r.HourlyRate
	}
	if r.TotalHours != nil {
		reg.TotalHours = *r.TotalHours
	}
	if r.IsPaid != nil {
		reg.IsPaid = *r.IsPaid
	}
	if err := validateCourseFields(&reg.StartDate, reg.EndDate, reg.HourlyRate, reg.TotalHours); err != nil {
		return err
	}
	reg.CalculateTotalFee()
	reg.UpdatedAt = time.Now().UTC()
	return nil
}

func validateCourseFields(start, end *types.Date, rate, hours decimal.Decimal) error {
	if start == nil || start.IsZero() {
		return validationError("start_date", "start_date is required")
	}
	if end != nil && !end.IsZero() && end.Before(*start) {
		return validationError("end_date", "end_date must not be before start_date")
	}
	if rate.IsNegative() {
		return validationError("hourly_rate", "hourly_rate must not be negative")
	}
	if hours.IsNegative() {
		return validationError("total_hours", "total_hours must not be negative")
	}
	return nil
}

type CourseResponse struct {
	*course.Registration
}

type ListCoursesResponse = types.ListResponse[*CourseResponse]
