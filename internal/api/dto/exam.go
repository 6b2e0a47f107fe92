package dto

import (
	"context"
	"strings"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/tutorbook/tutorbook/internal/domain/exam"
	ierr "github.com/tutorbook/tutorbook/internal/errors"
	"github.com/tutorbook/tutorbook/internal/types"
	"github.com/tutorbook/tutorbook/internal/validator"
)

// ScorePlaces is the precision of mock exam scores
const ScorePlaces = 2

type CreateExamRecordRequest struct {
	StudentID      string         `json:"student_id" validate:"required"`
	ExamStandardID string         `json:"exam_standard_id" validate:"required"`
	ExamDate       *types.Date    `json:"exam_date" validate:"required"`
	ExamMode       types.ExamMode `json:"exam_mode"`
	TotalScore     Number         `json:"total_score" swaggertype:"string"`
	Grade          string         `json:"grade" validate:"omitempty,max=50"`
}

func (r *CreateExamRecordRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.ExamMode != "" {
		if err := r.ExamMode.Validate(); err != nil {
			return err
		}
	}
	_, err := parseScore(r.TotalScore)
	return err
}

func (r *CreateExamRecordRequest) ToExamRecord(ctx context.Context) *exam.Record {
	score, _ := parseScore(r.TotalScore)
	rec := &exam.Record{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_EXAM_RECORD),
		StudentID:      r.StudentID,
		ExamStandardID: r.ExamStandardID,
		ExamDate:       *r.ExamDate,
		ExamMode:       r.ExamMode,
		TotalScore:     score,
		Grade:          strings.TrimSpace(r.Grade),
		Attachments:    []*exam.Attachment{},
		BaseModel:      types.GetDefaultBaseModel(ctx),
	}
	if rec.ExamMode == "" {
		rec.ExamMode = types.ExamModeFull
	}
	return rec
}

type UpdateExamRecordRequest struct {
	ExamStandardID *string         `json:"exam_standard_id"`
	ExamDate       *types.Date     `json:"exam_date"`
	ExamMode       *types.ExamMode `json:"exam_mode"`
	TotalScore     Number          `json:"total_score" swaggertype:"string"`
	Grade          *string         `json:"grade" validate:"omitempty,max=50"`
}

func (r *UpdateExamRecordRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.ExamStandardID != nil && strings.TrimSpace(*r.ExamStandardID) == "" {
		return validationError("exam_standard_id", "exam_standard_id must not be empty")
	}
	if r.ExamMode != nil {
		if err := r.ExamMode.Validate(); err != nil {
			return err
		}
	}
	_, err := parseScore(r.TotalScore)
	return err
}

// Apply sets the given fields on rec, the student never changes
func (r *UpdateExamRecordRequest) Apply(rec *exam.Record) {
	if r.ExamStandardID != nil {
		rec.ExamStandardID = *r.ExamStandardID
	}
	if r.ExamDate != nil {
		rec.ExamDate = *r.ExamDate
	}
	if r.ExamMode != nil {
		rec.ExamMode = *r.ExamMode
	}
	if r.TotalScore.IsSet() {
		rec.TotalScore, _ = parseScore(r.TotalScore)
	}
	if r.Grade != nil {
		rec.Grade = strings.TrimSpace(*r.Grade)
	}
}

// parseScore reads a non-negative score with at most two decimal places,
// an unset score is zero
func parseScore(n Number) (decimal.Decimal, error) {
	score, err := n.Decimal()
	if err != nil {
		return decimal.Zero, validationError("total_score", "total_score is not a number")
	}
	if score.IsNegative() {
		return decimal.Zero, validationError("total_score", "total_score must not be negative")
	}
	if !score.Equal(score.Truncate(ScorePlaces)) {
		return decimal.Zero, validationError("total_score", "total_score must not have more than 2 decimal places")
	}
	return score, nil
}

// ValidateScoreWithin rejects scores above the maximum of the exam standard
func ValidateScoreWithin(score decimal.Decimal, standard *exam.Standard) error {
	limit := decimal.NewFromInt(int64(standard.TotalScore))
	if score.GreaterThan(limit) {
		return ierr.NewErrorf("total_score %s exceeds the maximum of %s", score, standard.Name).
			WithHintf("total_score must be between 0 and %d", standard.TotalScore).
			WithReportableDetails(map[string]any{
				"total_score": score.String(),
				"max_score":   standard.TotalScore,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

type ExamRecordResponse struct {
	*exam.Record
	ExamStandard *exam.Standard `json:"exam_standard,omitempty"`
}

type ListExamRecordsResponse = types.ListResponse[*ExamRecordResponse]

type ExamAttachmentResponse struct {
	*exam.Attachment
}

type ExamAttachmentURLResponse struct {
	URL string `json:"url"`
}

type ListExamStandardsResponse struct {
	Items []*exam.Standard `json:"items"`
}

// UploadExamAttachmentRequest carries one uploaded exam paper
type UploadExamAttachmentRequest struct {
	OriginalName string
	ContentType  string
	Data         []byte
}

func (r *UploadExamAttachmentRequest) Validate(maxBytes int64, allowedTypes []string) error {
	if strings.TrimSpace(r.OriginalName) == "" {
		return validationError("file", "file name is required")
	}
	if len(r.Data) == 0 {
		return validationError("file", "file must not be empty")
	}
	if maxBytes > 0 && int64(len(r.Data)) > maxBytes {
		return ierr.NewErrorf("file of %d bytes exceeds the limit of %d", len(r.Data), maxBytes).
			WithHintf("Exam papers must not be larger than %d MB", maxBytes>>20).
			WithReportableDetails(map[string]any{"file": "file is too large"}).
			Mark(ierr.ErrValidation)
	}
	if len(allowedTypes) > 0 && !lo.ContainsBy(allowedTypes, func(t string) bool { return strings.EqualFold(t, r.ContentType) }) {
		return ierr.NewErrorf("content type %q is not allowed", r.ContentType).
			WithHint("Please upload a PDF or an image").
			WithReportableDetails(map[string]any{
				"file":    "unsupported content type",
				"allowed": allowedTypes,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

func (r *UploadExamAttachmentRequest) ToAttachment(ctx context.Context, recordID string) *exam.Attachment {
	return &exam.Attachment{
		ID:           types.GenerateUUIDWithPrefix(types.UUID_PREFIX_EXAM_ATTACHMENT),
		ExamRecordID: recordID,
		OriginalName: strings.TrimSpace(r.OriginalName),
		ContentType:  strings.ToLower(r.ContentType),
		SizeBytes:    int64(len(r.Data)),
		BaseModel:    types.GetDefaultBaseModel(ctx),
	}
}

type CreateOfficialExamResultRequest struct {
	StudentID      string                 `json:"student_id" validate:"required"`
	ExamStandardID *string                `json:"exam_standard_id"`
	ExamNameManual string                 `json:"exam_name_manual" validate:"omitempty,max=200"`
	ExamDate       *types.Date            `json:"exam_date" validate:"required"`
	ResultStatus   types.ExamResultStatus `json:"result_status"`
	TotalScore     string                 `json:"total_score" validate:"omitempty,max=50"`
	Grade          string                 `json:"grade" validate:"omitempty,max=50"`
	Memo           string                 `json:"memo"`
}

func (r *CreateOfficialExamResultRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.ExamStandardID != nil && strings.TrimSpace(*r.ExamStandardID) == "" {
		r.ExamStandardID = nil
	}
	if r.ExamStandardID == nil && strings.TrimSpace(r.ExamNameManual) == "" {
		return validationError("exam_name_manual", "either exam_standard_id or exam_name_manual is required")
	}
	if r.ResultStatus != "" {
		return r.ResultStatus.Validate()
	}
	return nil
}

func (r *CreateOfficialExamResultRequest) ToOfficialResult(ctx context.Context) *exam.OfficialResult {
	res := &exam.OfficialResult{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_OFFICIAL_RESULT),
		StudentID:      r.StudentID,
		ExamStandardID: r.ExamStandardID,
		ExamNameManual: strings.TrimSpace(r.ExamNameManual),
		ExamDate:       *r.ExamDate,
		ResultStatus:   r.ResultStatus,
		TotalScore:     strings.TrimSpace(r.TotalScore),
		Grade:          strings.TrimSpace(r.Grade),
		Memo:           r.Memo,
		BaseModel:      types.GetDefaultBaseModel(ctx),
	}
	if res.ResultStatus == "" {
		res.ResultStatus = types.ExamResultStatusWaiting
	}
	return res
}

// UpdateOfficialExamResultRequest sets the given fields. An empty
// exam_standard_id unlinks the catalog exam.
type UpdateOfficialExamResultRequest struct {
	ExamStandardID *string                 `json:"exam_standard_id"`
	ExamNameManual *string                 `json:"exam_name_manual" validate:"omitempty,max=200"`
	ExamDate       *types.Date             `json:"exam_date"`
	ResultStatus   *types.ExamResultStatus `json:"result_status"`
	TotalScore     *string                 `json:"total_score" validate:"omitempty,max=50"`
	Grade          *string                 `json:"grade" validate:"omitempty,max=50"`
	Memo           *string                 `json:"memo"`
}

func (r *UpdateOfficialExamResultRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.ResultStatus != nil {
		return r.ResultStatus.Validate()
	}
	return nil
}

// Apply sets the given fields on res and reports whether the exam is still named
func (r *UpdateOfficialExamResultRequest) Apply(res *exam.OfficialResult) error {
	if r.ExamStandardID != nil {
		if id := strings.TrimSpace(*r.ExamStandardID); id != "" {
			res.ExamStandardID = &id
		} else {
			res.ExamStandardID = nil
		}
	}
	if r.ExamNameManual != nil {
		res.ExamNameManual = strings.TrimSpace(*r.ExamNameManual)
	}
	if r.ExamDate != nil {
		res.ExamDate = *r.ExamDate
	}
	if r.ResultStatus != nil {
		res.ResultStatus = *r.ResultStatus
	}
	if r.TotalScore != nil {
		res.TotalScore = strings.TrimSpace(*r.TotalScore)
	}
	if r.Grade != nil {
		res.Grade = strings.TrimSpace(*r.Grade)
	}
	if r.Memo != nil {
		res.Memo = *r.Memo
	}
	if res.ExamStandardID == nil && res.ExamNameManual == "" {
		return validationError("exam_name_manual", "either exam_standard_id or exam_name_manual is required")
	}
	return nil
}

type OfficialExamResultResponse struct {
	*exam.OfficialResult
	ExamName string `json:"exam_name"`
}

type ListOfficialExamResultsResponse = types.ListResponse[*OfficialExamResultResponse]
