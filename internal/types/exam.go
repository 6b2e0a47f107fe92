package types

import (
	"github.com/samber/lo"
	ierr "github.com/tutorbook/tutorbook/internal/errors"
)

// ExamResultStatus is the outcome of an official certification exam
type ExamResultStatus string

const (
	ExamResultStatusPassed  ExamResultStatus = "PASSED"
	ExamResultStatusFailed  ExamResultStatus = "FAILED"
	ExamResultStatusWaiting ExamResultStatus = "WAITING"
)

func (s ExamResultStatus) Validate() error {
	allowed := []ExamResultStatus{ExamResultStatusPassed, ExamResultStatusFailed, ExamResultStatusWaiting}
	if !lo.Contains(allowed, s) {
		return ierr.NewError("invalid exam result status").
			WithHint("Please provide a valid exam result status").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ExamRecordFilter represents filters for mock exam record queries.
// ExamDateFrom and ExamDateTo bound the exam date inclusively.
type ExamRecordFilter struct {
	*QueryFilter
	StudentID      string `form:"student_id" json:"student_id,omitempty"`
	ExamStandardID string `form:"exam_standard_id" json:"exam_standard_id,omitempty"`
	ExamDateFrom   *Date  `form:"-" json:"exam_date_from,omitempty"`
	ExamDateTo     *Date  `form:"-" json:"exam_date_to,omitempty"`
}

func NewExamRecordFilter() *ExamRecordFilter {
	return &ExamRecordFilter{QueryFilter: NewDefaultQueryFilter()}
}

func (f *ExamRecordFilter) Validate() error {
	if f == nil {
		return nil
	}
	if f.ExamDateFrom != nil && f.ExamDateTo != nil && f.ExamDateTo.Before(*f.ExamDateFrom) {
		return ierr.NewError("invalid date range").
			WithHint("exam_date_to must not be before exam_date_from").
			Mark(ierr.ErrValidation)
	}
	return f.QueryFilter.Validate()
}

var ExamRecordSortColumns = []string{"created_at", "exam_date", "total_score"}

// OfficialExamResultFilter represents filters for official exam result queries
type OfficialExamResultFilter struct {
	*QueryFilter
	StudentID    string           `form:"student_id" json:"student_id,omitempty"`
	ResultStatus ExamResultStatus `form:"result_status" json:"result_status,omitempty"`
}

// NewOfficialExamResultFilter lists the latest exams first
func NewOfficialExamResultFilter() *OfficialExamResultFilter {
	filter := NewDefaultQueryFilter()
	filter.Sort = lo.ToPtr("exam_date")
	return &OfficialExamResultFilter{QueryFilter: filter}
}

func (f *OfficialExamResultFilter) Validate() error {
	if f == nil {
		return nil
	}
	if f.ResultStatus != "" {
		if err := f.ResultStatus.Validate(); err != nil {
			return err
		}
	}
	return f.QueryFilter.Validate()
}

var OfficialExamResultSortColumns = []string{"exam_date", "created_at"}
