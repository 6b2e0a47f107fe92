package types

import (
	ierr "github.com/tutorbook/tutorbook/internal/errors"
	"github.com/samber/lo"
)

type CourseStatus string

const (
	CourseStatusActive   CourseStatus = "ACTIVE"
	CourseStatusPaused   CourseStatus = "PAUSED"
	CourseStatusFinished CourseStatus = "FINISHED"
)

func (s CourseStatus) Validate() error {
	allowed := []CourseStatus{CourseStatusActive, CourseStatusPaused, CourseStatusFinished}
	if !lo.Contains(allowed, s) {
		return ierr.NewError("invalid course status").
			WithHint("Please provide a valid course status").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// CourseFilter represents filters for course registration queries
type CourseFilter struct {
	*QueryFilter
	StudentID    string       `form:"student_id" json:"student_id,omitempty"`
	CourseStatus CourseStatus `form:"course_status" json:"course_status,omitempty"`
	IsPaid       *bool        `form:"is_paid" json:"is_paid,omitempty"`
	// StartDateFrom and StartDateTo bound start_date inclusively
	StartDateFrom *Date `form:"-" json:"start_date_from,omitempty"`
	StartDateTo   *Date `form:"-" json:"start_date_to,omitempty"`
}

func NewCourseFilter() *CourseFilter {
	return &CourseFilter{QueryFilter: NewDefaultQueryFilter()}
}

func (f *CourseFilter) Validate() error {
	if f == nil {
		return nil
	}
	if f.CourseStatus != "" {
		if err := f.CourseStatus.Validate(); err != nil {
			return err
		}
	}
	return f.QueryFilter.Validate()
}

var CourseSortColumns = []string{"created_at", "start_date", "end_date", "total_fee"}
