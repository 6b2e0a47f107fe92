package types

import (
	ierr "github.com/tutorbook/tutorbook/internal/errors"
	"github.com/samber/lo"
)

type Gender string

const (
	GenderMale   Gender = "M"
	GenderFemale Gender = "F"
)

func (g Gender) Validate() error {
	if g == "" {
		return nil
	}
	allowed := []Gender{GenderMale, GenderFemale}
	if !lo.Contains(allowed, g) {
		return ierr.NewError("invalid gender").
			WithHint("Please provide a valid gender").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ExamMode is the part of a language exam a student prepares for
type ExamMode string

const (
	ExamModeFull    ExamMode = "FULL"
	ExamModeWritten ExamMode = "WRITTEN"
	ExamModeOral    ExamMode = "ORAL"
)

func (m ExamMode) Validate() error {
	allowed := []ExamMode{ExamModeFull, ExamModeWritten, ExamModeOral}
	if !lo.Contains(allowed, m) {
		return ierr.NewError("invalid exam mode").
			WithHint("Please provide a valid exam mode").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// StudentStatus is whether a student is currently taught
type StudentStatus string

const (
	StudentStatusActive   StudentStatus = "ACTIVE"
	StudentStatusInactive StudentStatus = "INACTIVE"
)

func (s StudentStatus) Validate() error {
	allowed := []StudentStatus{StudentStatusActive, StudentStatusInactive}
	if !lo.Contains(allowed, s) {
		return ierr.NewError("invalid student status").
			WithHint("Please provide a valid student status").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// StudentFilter represents filters for student queries
type StudentFilter struct {
	*QueryFilter
	Search        string        `form:"search" json:"search,omitempty"`
	StudentStatus StudentStatus `form:"student_status" json:"student_status,omitempty"`
}

func NewStudentFilter() *StudentFilter {
	return &StudentFilter{QueryFilter: NewDefaultQueryFilter()}
}

func (f *StudentFilter) Validate() error {
	if f == nil {
		return nil
	}
	if f.StudentStatus != "" {
		if err := f.StudentStatus.Validate(); err != nil {
			return err
		}
	}
	return f.QueryFilter.Validate()
}

var StudentSortColumns = []string{"created_at", "name", "customer_number"}
