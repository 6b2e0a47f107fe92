package exam

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tutorbook/tutorbook/internal/types"
)

// Standard is an exam of the shared catalog, e.g. telc Deutsch B1
type Standard struct {
	ID         string    `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	Level      string    `db:"level" json:"level"`
	TotalScore int       `db:"total_score" json:"total_score"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// Record is a mock exam a student sat. The score is entered by the tutor.
type Record struct {
	ID             string          `db:"id" json:"id"`
	StudentID      string          `db:"student_id" json:"student_id"`
	ExamStandardID string          `db:"exam_standard_id" json:"exam_standard_id"`
	ExamDate       types.Date      `db:"exam_date" json:"exam_date"`
	ExamMode       types.ExamMode  `db:"exam_mode" json:"exam_mode"`
	TotalScore     decimal.Decimal `db:"total_score" json:"total_score"`
	Grade          string          `db:"grade" json:"grade"`

	Attachments []*Attachment `db:"-" json:"attachments"`

	types.BaseModel
}

// Attachment is a scanned exam paper stored in object storage under its ID
type Attachment struct {
	ID           string `db:"id" json:"id"`
	ExamRecordID string `db:"exam_record_id" json:"exam_record_id"`
	OriginalName string `db:"original_name" json:"original_name"`
	ContentType  string `db:"content_type" json:"content_type"`
	SizeBytes    int64  `db:"size_bytes" json:"size_bytes"`

	types.BaseModel
}

// OfficialResult is the outcome of a certification exam. The exam is
// either a catalog standard or named by hand.
type OfficialResult struct {
	ID             string                 `db:"id" json:"id"`
	StudentID      string                 `db:"student_id" json:"student_id"`
	ExamStandardID *string                `db:"exam_standard_id" json:"exam_standard_id,omitempty"`
	ExamNameManual string                 `db:"exam_name_manual" json:"exam_name_manual"`
	ExamDate       types.Date             `db:"exam_date" json:"exam_date"`
	ResultStatus   types.ExamResultStatus `db:"result_status" json:"result_status"`
	// score and grade are free text as printed on the certificate
	TotalScore string `db:"total_score" json:"total_score"`
	Grade      string `db:"grade" json:"grade"`
	Memo       string `db:"memo" json:"memo"`

	types.BaseModel
}

// ExamName is the display name, the catalog name wins over the manual one
func (r *OfficialResult) ExamName(standard *Standard) string {
	if standard != nil {
		return standard.Name
	}
	return r.ExamNameManual
}

// Copy returns a deep copy of the record including its attachments
func (r *Record) Copy() *Record {
	if r == nil {
		return nil
	}
	c := *r
	if r.Attachments != nil {
		c.Attachments = make([]*Attachment, len(r.Attachments))
		for i, a := range r.Attachments {
			ac := *a
			c.Attachments[i] = &ac
		}
	}
	return &c
}
