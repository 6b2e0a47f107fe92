package types

import (
	ierr "github.com/tutorbook/tutorbook/internal/errors"
	"github.com/samber/lo"
)

type LessonStatus string

const (
	LessonStatusScheduled LessonStatus = "SCHEDULED"
	LessonStatusCompleted LessonStatus = "COMPLETED"
	LessonStatusCancelled LessonStatus = "CANCELLED"
	LessonStatusNoShow    LessonStatus = "NOSHOW"
)

func (s LessonStatus) Validate() error {
	allowed := []LessonStatus{
		LessonStatusScheduled,
		LessonStatusCompleted,
		LessonStatusCancelled,
		LessonStatusNoShow,
	}
	if !lo.Contains(allowed, s) {
		return ierr.NewError("invalid lesson status").
			WithHint("Please provide a valid lesson status").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// LessonFilter represents filters for lesson queries.
// StartDate and EndDate bound the lesson date inclusively.
type LessonFilter struct {
	*QueryFilter
	StudentID string `form:"student_id" json:"student_id,omitempty"`
	StartDate *Date  `form:"-" json:"start_date,omitempty"`
	EndDate   *Date  `form:"-" json:"end_date,omitempty"`
}

func NewLessonFilter() *LessonFilter {
	return &LessonFilter{QueryFilter: NewDefaultQueryFilter()}
}

func (f *LessonFilter) Validate() error {
	if f == nil {
		return nil
	}
	if f.StartDate != nil && f.EndDate != nil && f.EndDate.Before(*f.StartDate) {
		return ierr.NewError("invalid date range").
			WithHint("end_date must not be before start_date").
			Mark(ierr.ErrValidation)
	}
	return f.QueryFilter.Validate()
}

var LessonSortColumns = []string{"created_at", "date", "start_time"}
