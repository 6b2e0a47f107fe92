package service

import (
	"context"

	"github.com/samber/lo"
	"github.com/sourcegraph/conc/pool"
	"github.com/tutorbook/tutorbook/internal/api/dto"
	"github.com/tutorbook/tutorbook/internal/domain/exam"
	ierr "github.com/tutorbook/tutorbook/internal/errors"
	"github.com/tutorbook/tutorbook/internal/s3"
	"github.com/tutorbook/tutorbook/internal/types"
)

// objectCleanupConcurrency bounds parallel deletes of attachment objects
const objectCleanupConcurrency = 4

type ExamRecordService interface {
	ListExamStandards(ctx context.Context) (*dto.ListExamStandardsResponse, error)
	CreateExamRecord(ctx context.Context, req dto.CreateExamRecordRequest) (*dto.ExamRecordResponse, error)
	GetExamRecord(ctx context.Context, id string) (*dto.ExamRecordResponse, error)
	ListExamRecords(ctx context.Context, filter *types.ExamRecordFilter) (*dto.ListExamRecordsResponse, error)
	UpdateExamRecord(ctx context.Context, id string, req dto.UpdateExamRecordRequest) (*dto.ExamRecordResponse, error)
	// DeleteExamRecord removes the record with its attachments. Stored
	// objects are removed best effort after the rows are gone.
	DeleteExamRecord(ctx context.Context, id string) error

	UploadExamAttachment(ctx context.Context, recordID string, req dto.UploadExamAttachmentRequest) (*dto.ExamAttachmentResponse, error)
	GetExamAttachmentURL(ctx context.Context, id string) (*dto.ExamAttachmentURLResponse, error)
	DeleteExamAttachment(ctx context.Context, id string) error
}

type examRecordService struct {
	ServiceParams
}

func NewExamRecordService(params ServiceParams) ExamRecordService {
	return &examRecordService{
		ServiceParams: params,
	}
}

func (s *examRecordService) ListExamStandards(ctx context.Context) (*dto.ListExamStandardsResponse, error) {
	standards, err := s.ExamStandardRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.ListExamStandardsResponse{Items: standards}, nil
}

// checkReferences resolves the student and the standard, the score must fit the standard
func (s *examRecordService) checkReferences(ctx context.Context, rec *exam.Record) (*exam.Standard, error) {
	if _, err := s.StudentRepo.Get(ctx, rec.StudentID); err != nil {
		return nil, err
	}
	standard, err := s.ExamStandardRepo.Get(ctx, rec.ExamStandardID)
	if err != nil {
		if ierr.IsNotFound(err) {
			return nil, unknownStandard(rec.ExamStandardID)
		}
		return nil, err
	}
	if err := dto.ValidateScoreWithin(rec.TotalScore, standard); err != nil {
		return nil, err
	}
	return standard, nil
}

// unknownStandard is a client error, the catalog is fixed
func unknownStandard(id string) error {
	return ierr.NewErrorf("exam standard %s not found", id).
		WithHint("Unknown exam standard").
		WithReportableDetails(map[string]any{"exam_standard_id": "unknown exam standard"}).
		Mark(ierr.ErrValidation)
}

func (s *examRecordService) CreateExamRecord(ctx context.Context, req dto.CreateExamRecordRequest) (*dto.ExamRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	rec := req.ToExamRecord(ctx)
	standard, err := s.checkReferences(ctx, rec)
	if err != nil {
		return nil, err
	}
	if err := s.ExamRecordRepo.Create(ctx, rec); err != nil {
		return nil, err
	}
	return &dto.ExamRecordResponse{Record: rec, ExamStandard: standard}, nil
}

func (s *examRecordService) GetExamRecord(ctx context.Context, id string) (*dto.ExamRecordResponse, error) {
	rec, err := s.ExamRecordRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, rec, nil)
}

// toResponse attaches the standard, looked up unless standards already has it
func (s *examRecordService) toResponse(ctx context.Context, rec *exam.Record, standards map[string]*exam.Standard) (*dto.ExamRecordResponse, error) {
	if st, ok := standards[rec.ExamStandardID]; ok {
		return &dto.ExamRecordResponse{Record: rec, ExamStandard: st}, nil
	}
	st, err := s.ExamStandardRepo.Get(ctx, rec.ExamStandardID)
	if err != nil && !ierr.IsNotFound(err) {
		return nil, err
	}
	return &dto.ExamRecordResponse{Record: rec, ExamStandard: st}, nil
}

func (s *examRecordService) ListExamRecords(ctx context.Context, filter *types.ExamRecordFilter) (*dto.ListExamRecordsResponse, error) {
	if filter == nil {
		filter = types.NewExamRecordFilter()
	}
	if filter.QueryFilter == nil {
		filter.QueryFilter = types.NewDefaultQueryFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	records, err := s.ExamRecordRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	count, err := s.ExamRecordRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	standards, err := s.ExamStandardRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := lo.KeyBy(standards, func(st *exam.Standard) string { return st.ID })

	items := make([]*dto.ExamRecordResponse, 0, len(records))
	for _, rec := range records {
		resp, err := s.toResponse(ctx, rec, byID)
		if err != nil {
			return nil, err
		}
		items = append(items, resp)
	}
	return &dto.ListExamRecordsResponse{
		Items:      items,
		Pagination: types.NewPaginationResponse(count, filter.GetLimit(), filter.GetOffset()),
	}, nil
}

func (s *examRecordService) UpdateExamRecord(ctx context.Context, id string, req dto.UpdateExamRecordRequest) (*dto.ExamRecordResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	rec, err := s.ExamRecordRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	req.Apply(rec)
	standard, err := s.checkReferences(ctx, rec)
	if err != nil {
		return nil, err
	}
	if err := s.ExamRecordRepo.Update(ctx, rec); err != nil {
		return nil, err
	}
	return &dto.ExamRecordResponse{Record: rec, ExamStandard: standard}, nil
}

func (s *examRecordService) DeleteExamRecord(ctx context.Context, id string) error {
	rec, err := s.ExamRecordRepo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.ExamRecordRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.Logger.Infow("deleted exam record", "tutor_id", rec.TutorID, "exam_record_id", id,
		"attachments", len(rec.Attachments))

	if s.S3 == nil || len(rec.Attachments) == 0 {
		return nil
	}
	p := pool.New().WithContext(ctx).WithMaxGoroutines(objectCleanupConcurrency)
	for _, a := range rec.Attachments {
		p.Go(func(ctx context.Context) error {
			if err := s.S3.DeleteDocument(ctx, a.TutorID, a.ID, s3.DocumentTypeExamAttachment); err != nil {
				s.Logger.Warnw("failed to delete exam paper object", "exam_attachment_id", a.ID, "error", err)
			}
			return nil
		})
	}
	return p.Wait()
}

func (s *examRecordService) requireStorage() error {
	if s.S3 == nil {
		return ierr.NewError("exam paper storage disabled").
			WithHint("Exam papers cannot be stored, object storage is not configured").
			Mark(ierr.ErrInvalidOperation)
	}
	return nil
}

func (s *examRecordService) UploadExamAttachment(ctx context.Context, recordID string, req dto.UploadExamAttachmentRequest) (*dto.ExamAttachmentResponse, error) {
	if err := s.requireStorage(); err != nil {
		return nil, err
	}
	if err := req.Validate(s.Config.Exam.MaxAttachmentBytes, s.Config.Exam.AllowedAttachmentTypes); err != nil {
		return nil, err
	}
	if _, err := s.ExamRecordRepo.Get(ctx, recordID); err != nil {
		return nil, err
	}

	a := req.ToAttachment(ctx, recordID)
	// the row is rolled back when the upload fails
	err := s.DB.WithTx(ctx, func(txCtx context.Context) error {
		if err := s.ExamRecordRepo.CreateAttachment(txCtx, a); err != nil {
			return err
		}
		return s.S3.UploadDocument(txCtx, s3.NewExamAttachment(a.TutorID, a.ID, a.ContentType, req.Data))
	})
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("stored exam paper", "tutor_id", a.TutorID, "exam_record_id", recordID,
		"exam_attachment_id", a.ID, "bytes", a.SizeBytes)
	return &dto.ExamAttachmentResponse{Attachment: a}, nil
}

func (s *examRecordService) GetExamAttachmentURL(ctx context.Context, id string) (*dto.ExamAttachmentURLResponse, error) {
	if err := s.requireStorage(); err != nil {
		return nil, err
	}
	a, err := s.ExamRecordRepo.GetAttachment(ctx, id)
	if err != nil {
		return nil, err
	}
	url, err := s.S3.GetPresignedUrl(ctx, a.TutorID, a.ID, s3.DocumentTypeExamAttachment)
	if err != nil {
		return nil, err
	}
	return &dto.ExamAttachmentURLResponse{URL: url}, nil
}

func (s *examRecordService) DeleteExamAttachment(ctx context.Context, id string) error {
	a, err := s.ExamRecordRepo.GetAttachment(ctx, id)
	if err != nil {
		return err
	}
	if err := s.ExamRecordRepo.DeleteAttachment(ctx, id); err != nil {
		return err
	}
	if s.S3 != nil {
		if err := s.S3.DeleteDocument(ctx, a.TutorID, a.ID, s3.DocumentTypeExamAttachment); err != nil {
			s.Logger.Warnw("failed to delete exam paper object", "exam_attachment_id", a.ID, "error", err)
		}
	}
	return nil
}

type OfficialExamResultService interface {
	CreateOfficialExamResult(ctx context.Context, req dto.CreateOfficialExamResultRequest) (*dto.OfficialExamResultResponse, error)
	GetOfficialExamResult(ctx context.Context, id string) (*dto.OfficialExamResultResponse, error)
	ListOfficialExamResults(ctx context.Context, filter *types.OfficialExamResultFilter) (*dto.ListOfficialExamResultsResponse, error)
	UpdateOfficialExamResult(ctx context.Context, id string, req dto.UpdateOfficialExamResultRequest) (*dto.OfficialExamResultResponse, error)
	DeleteOfficialExamResult(ctx context.Context, id string) error
}

type officialExamResultService struct {
	ServiceParams
}

func NewOfficialExamResultService(params ServiceParams) OfficialExamResultService {
	return &officialExamResultService{
		ServiceParams: params,
	}
}

// resolveStandard returns the linked standard, nil for manually named exams
func (s *officialExamResultService) resolveStandard(ctx context.Context, res *exam.OfficialResult) (*exam.Standard, error) {
	if res.ExamStandardID == nil {
		return nil, nil
	}
	standard, err := s.ExamStandardRepo.Get(ctx, *res.ExamStandardID)
	if err != nil {
		if ierr.IsNotFound(err) {
			return nil, unknownStandard(*res.ExamStandardID)
		}
		return nil, err
	}
	return standard, nil
}

func toOfficialResultResponse(res *exam.OfficialResult, standard *exam.Standard) *dto.OfficialExamResultResponse {
	return &dto.OfficialExamResultResponse{OfficialResult: res, ExamName: res.ExamName(standard)}
}

func (s *officialExamResultService) CreateOfficialExamResult(ctx context.Context, req dto.CreateOfficialExamResultRequest) (*dto.OfficialExamResultResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.StudentRepo.Get(ctx, req.StudentID); err != nil {
		return nil, err
	}

	res := req.ToOfficialResult(ctx)
	standard, err := s.resolveStandard(ctx, res)
	if err != nil {
		return nil, err
	}
	if err := s.OfficialResultRepo.Create(ctx, res); err != nil {
		return nil, err
	}
	return toOfficialResultResponse(res, standard), nil
}

func (s *officialExamResultService) GetOfficialExamResult(ctx context.Context, id string) (*dto.OfficialExamResultResponse, error) {
	res, err := s.OfficialResultRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	standard, err := s.resolveStandard(ctx, res)
	if err != nil && !ierr.IsValidation(err) {
		return nil, err
	}
	return toOfficialResultResponse(res, standard), nil
}

func (s *officialExamResultService) ListOfficialExamResults(ctx context.Context, filter *types.OfficialExamResultFilter) (*dto.ListOfficialExamResultsResponse, error) {
	if filter == nil {
		filter = types.NewOfficialExamResultFilter()
	}
	if filter.QueryFilter == nil {
		filter.QueryFilter = types.NewDefaultQueryFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	results, err := s.OfficialResultRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	count, err := s.OfficialResultRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	standards, err := s.ExamStandardRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := lo.KeyBy(standards, func(st *exam.Standard) string { return st.ID })

	return &dto.ListOfficialExamResultsResponse{
		Items: lo.Map(results, func(res *exam.OfficialResult, _ int) *dto.OfficialExamResultResponse {
			return toOfficialResultResponse(res, byID[lo.FromPtr(res.ExamStandardID)])
		}),
		Pagination: types.NewPaginationResponse(count, filter.GetLimit(), filter.GetOffset()),
	}, nil
}

func (s *officialExamResultService) UpdateOfficialExamResult(ctx context.Context, id string, req dto.UpdateOfficialExamResultRequest) (*dto.OfficialExamResultResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	res, err := s.OfficialResultRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := req.Apply(res); err != nil {
		return nil, err
	}
	standard, err := s.resolveStandard(ctx, res)
	if err != nil {
		return nil, err
	}
	if err := s.OfficialResultRepo.Update(ctx, res); err != nil {
		return nil, err
	}
	return toOfficialResultResponse(res, standard), nil
}

func (s *officialExamResultService) DeleteOfficialExamResult(ctx context.Context, id string) error {
	if err := s.OfficialResultRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.Logger.Infow("deleted official exam result", "tutor_id", types.GetTutorID(ctx), "official_exam_result_id", id)
	return nil
}
