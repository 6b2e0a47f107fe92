package postgres

import (
	"context"
	"time"

	"github.com/lib/pq"
	"github.com/samber/lo"
	"github.com/tutorbook/tutorbook/internal/domain/exam"
	"github.com/tutorbook/tutorbook/internal/logger"
	"github.com/tutorbook/tutorbook/internal/postgres"
	"github.com/tutorbook/tutorbook/internal/types"
)

type examStandardRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewExamStandardRepository(db *postgres.DB, logger *logger.Logger) exam.StandardRepository {
	return &examStandardRepository{db: db, logger: logger}
}

const examStandardColumns = `id, name, level, total_score, created_at, updated_at`

func (r *examStandardRepository) Get(ctx context.Context, id string) (*exam.Standard, error) {
	var st exam.Standard
	query := `SELECT ` + examStandardColumns + ` FROM exam_standards WHERE id = $1`
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &st, query, id); err != nil {
		return nil, postgres.WrapError(err, "exam standard")
	}
	return &st, nil
}

func (r *examStandardRepository) List(ctx context.Context) ([]*exam.Standard, error) {
	standards := make([]*exam.Standard, 0)
	query := `SELECT ` + examStandardColumns + ` FROM exam_standards ORDER BY level, name`
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &standards, query); err != nil {
		return nil, postgres.WrapError(err, "exam standard")
	}
	return standards, nil
}

type examRecordRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewExamRecordRepository(db *postgres.DB, logger *logger.Logger) exam.RecordRepository {
	return &examRecordRepository{db: db, logger: logger}
}

const examRecordColumns = `id, tutor_id, student_id, exam_standard_id, exam_date, exam_mode,
	total_score, grade, status, created_at, updated_at`

const examAttachmentColumns = `id, tutor_id, exam_record_id, original_name, content_type,
	size_bytes, status, created_at, updated_at`

func (r *examRecordRepository) Create(ctx context.Context, rec *exam.Record) error {
	query := `
	INSERT INTO exam_records (` + examRecordColumns + `)
	VALUES (
		:id, :tutor_id, :student_id, :exam_standard_id, :exam_date, :exam_mode,
		:total_score, :grade, :status, :created_at, :updated_at
	)`

	if _, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, rec); err != nil {
		return postgres.WrapError(err, "exam record")
	}
	r.logger.Debugw("created exam record", "exam_record_id", rec.ID, "student_id", rec.StudentID)
	return nil
}

func (r *examRecordRepository) Get(ctx context.Context, id string) (*exam.Record, error) {
	query := `SELECT ` + examRecordColumns + ` FROM exam_records WHERE id = $1 AND tutor_id = $2 AND status = $3`

	var rec exam.Record
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &rec, query, id, types.GetTutorID(ctx), types.StatusPublished); err != nil {
		return nil, postgres.WrapError(err, "exam record")
	}
	if err := r.loadAttachments(ctx, []*exam.Record{&rec}); err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *examRecordRepository) List(ctx context.Context, filter *types.ExamRecordFilter) ([]*exam.Record, error) {
	if filter == nil {
		filter = types.NewExamRecordFilter()
	}
	conds := r.conditions(ctx, filter)
	query := `SELECT ` + examRecordColumns + ` FROM exam_records` + conds.where() +
		conds.page(filter.QueryFilter, "", types.ExamRecordSortColumns...)

	records := make([]*exam.Record, 0)
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &records, query, conds.args...); err != nil {
		return nil, postgres.WrapError(err, "exam record")
	}
	if err := r.loadAttachments(ctx, records); err != nil {
		return nil, err
	}
	return records, nil
}

// loadAttachments fetches the attachments of all records in one query
func (r *examRecordRepository) loadAttachments(ctx context.Context, records []*exam.Record) error {
	if len(records) == 0 {
		return nil
	}
	ids := lo.Map(records, func(rec *exam.Record, _ int) string { return rec.ID })

	query := `SELECT ` + examAttachmentColumns + ` FROM exam_attachments
	WHERE exam_record_id = ANY($1) AND tutor_id = $2 AND status = $3
	ORDER BY created_at, id`

	attachments := make([]*exam.Attachment, 0)
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &attachments, query,
		pq.Array(ids), types.GetTutorID(ctx), types.StatusPublished); err != nil {
		return postgres.WrapError(err, "exam attachment")
	}

	byRecord := lo.GroupBy(attachments, func(a *exam.Attachment) string { return a.ExamRecordID })
	for _, rec := range records {
		rec.Attachments = lo.Ternary(byRecord[rec.ID] != nil, byRecord[rec.ID], []*exam.Attachment{})
	}
	return nil
}

func (r *examRecordRepository) Count(ctx context.Context, filter *types.ExamRecordFilter) (int, error) {
	if filter == nil {
		filter = types.NewExamRecordFilter()
	}
	conds := r.conditions(ctx, filter)

	var count int
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &count, `SELECT COUNT(*) FROM exam_records`+conds.where(), conds.args...); err != nil {
		return 0, postgres.WrapError(err, "exam record")
	}
	return count, nil
}

func (r *examRecordRepository) conditions(ctx context.Context, filter *types.ExamRecordFilter) *conditions {
	conds := tutorScoped(types.GetTutorID(ctx), "").
		add("status = ?", types.StatusPublished)
	if filter.StudentID != "" {
		conds.add("student_id = ?", filter.StudentID)
	}
	if filter.ExamStandardID != "" {
		conds.add("exam_standard_id = ?", filter.ExamStandardID)
	}
	if filter.ExamDateFrom != nil {
		conds.add("exam_date >= ?", *filter.ExamDateFrom)
	}
	if filter.ExamDateTo != nil {
		conds.add("exam_date <= ?", *filter.ExamDateTo)
	}
	return conds
}

func (r *examRecordRepository) Update(ctx context.Context, rec *exam.Record) error {
	rec.UpdatedAt = time.Now().UTC()

	// the student of a record never changes
	query := `
	UPDATE exam_records SET
		exam_standard_id = :exam_standard_id,
		exam_date = :exam_date,
		exam_mode = :exam_mode,
		total_score = :total_score,
		grade = :grade,
		updated_at = :updated_at
	WHERE id = :id AND tutor_id = :tutor_id AND status = 'published'`

	result, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, rec)
	if err != nil {
		return postgres.WrapError(err, "exam record")
	}
	return requireAffected(result, "exam record")
}

func (r *examRecordRepository) Delete(ctx context.Context, id string) error {
	now := time.Now().UTC()
	tutorID := types.GetTutorID(ctx)
	q := r.db.GetQuerier(ctx)

	result, err := q.ExecContext(ctx,
		`UPDATE exam_records SET status = $1, updated_at = $2 WHERE id = $3 AND tutor_id = $4 AND status = $5`,
		types.StatusDeleted, now, id, tutorID, types.StatusPublished)
	if err != nil {
		return postgres.WrapError(err, "exam record")
	}
	if err := requireAffected(result, "exam record"); err != nil {
		return err
	}

	if _, err := q.ExecContext(ctx,
		`UPDATE exam_attachments SET status = $1, updated_at = $2 WHERE exam_record_id = $3 AND tutor_id = $4 AND status = $5`,
		types.StatusDeleted, now, id, tutorID, types.StatusPublished); err != nil {
		return postgres.WrapError(err, "exam attachment")
	}
	return nil
}

func (r *examRecordRepository) CreateAttachment(ctx context.Context, a *exam.Attachment) error {
	query := `
	INSERT INTO exam_attachments (` + examAttachmentColumns + `)
	VALUES (
		:id, :tutor_id, :exam_record_id, :original_name, :content_type,
		:size_bytes, :status, :created_at, :updated_at
	)`

	if _, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, a); err != nil {
		return postgres.WrapError(err, "exam attachment")
	}
	return nil
}

func (r *examRecordRepository) GetAttachment(ctx context.Context, id string) (*exam.Attachment, error) {
	query := `SELECT ` + examAttachmentColumns + ` FROM exam_attachments WHERE id = $1 AND tutor_id = $2 AND status = $3`

	var a exam.Attachment
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &a, query, id, types.GetTutorID(ctx), types.StatusPublished); err != nil {
		return nil, postgres.WrapError(err, "exam attachment")
	}
	return &a, nil
}

func (r *examRecordRepository) DeleteAttachment(ctx context.Context, id string) error {
	query := `UPDATE exam_attachments SET status = $1, updated_at = $2 WHERE id = $3 AND tutor_id = $4 AND status = $5`

	result, err := r.db.GetQuerier(ctx).ExecContext(ctx, query,
		types.StatusDeleted, time.Now().UTC(), id, types.GetTutorID(ctx), types.StatusPublished)
	if err != nil {
		return postgres.WrapError(err, "exam attachment")
	}
	return requireAffected(result, "exam attachment")
}

type officialExamResultRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewOfficialExamResultRepository(db *postgres.DB, logger *logger.Logger) exam.OfficialResultRepository {
	return &officialExamResultRepository{db: db, logger: logger}
}

const officialResultColumns = `id, tutor_id, student_id, exam_standard_id, exam_name_manual, exam_date,
	result_status, total_score, grade, memo, status, created_at, updated_at`

func (r *officialExamResultRepository) Create(ctx context.Context, res *exam.OfficialResult) error {
	query := `
	INSERT INTO official_exam_results (` + officialResultColumns + `)
	VALUES (
		:id, :tutor_id, :student_id, :exam_standard_id, :exam_name_manual, :exam_date,
		:result_status, :total_score, :grade, :memo, :status, :created_at, :updated_at
	)`

	if _, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, res); err != nil {
		return postgres.WrapError(err, "official exam result")
	}
	return nil
}

func (r *officialExamResultRepository) Get(ctx context.Context, id string) (*exam.OfficialResult, error) {
	query := `SELECT ` + officialResultColumns + ` FROM official_exam_results WHERE id = $1 AND tutor_id = $2 AND status = $3`

	var res exam.OfficialResult
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &res, query, id, types.GetTutorID(ctx), types.StatusPublished); err != nil {
		return nil, postgres.WrapError(err, "official exam result")
	}
	return &res, nil
}

func (r *officialExamResultRepository) List(ctx context.Context, filter *types.OfficialExamResultFilter) ([]*exam.OfficialResult, error) {
	if filter == nil {
		filter = types.NewOfficialExamResultFilter()
	}
	conds := r.conditions(ctx, filter)
	query := `SELECT ` + officialResultColumns + ` FROM official_exam_results` + conds.where() +
		conds.page(filter.QueryFilter, "", types.OfficialExamResultSortColumns...)

	results := make([]*exam.OfficialResult, 0)
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &results, query, conds.args...); err != nil {
		return nil, postgres.WrapError(err, "official exam result")
	}
	return results, nil
}

func (r *officialExamResultRepository) Count(ctx context.Context, filter *types.OfficialExamResultFilter) (int, error) {
	if filter == nil {
		filter = types.NewOfficialExamResultFilter()
	}
	conds := r.conditions(ctx, filter)

	var count int
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &count, `SELECT COUNT(*) FROM official_exam_results`+conds.where(), conds.args...); err != nil {
		return 0, postgres.WrapError(err, "official exam result")
	}
	return count, nil
}

func (r *officialExamResultRepository) conditions(ctx context.Context, filter *types.OfficialExamResultFilter) *conditions {
	conds := tutorScoped(types.GetTutorID(ctx), "").
		add("status = ?", types.StatusPublished)
	if filter.StudentID != "" {
		conds.add("student_id = ?", filter.StudentID)
	}
	if filter.ResultStatus != "" {
		conds.add("result_status = ?", filter.ResultStatus)
	}
	return conds
}

func (r *officialExamResultRepository) Update(ctx context.Context, res *exam.OfficialResult) error {
	res.UpdatedAt = time.Now().UTC()

	query := `
	UPDATE official_exam_results SET
		exam_standard_id = :exam_standard_id,
		exam_name_manual = :exam_name_manual,
		exam_date = :exam_date,
		result_status = :result_status,
		total_score = :total_score,
		grade = :grade,
		memo = :memo,
		updated_at = :updated_at
	WHERE id = :id AND tutor_id = :tutor_id AND status = 'published'`

	result, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, res)
	if err != nil {
		return postgres.WrapError(err, "official exam result")
	}
	return requireAffected(result, "official exam result")
}

func (r *officialExamResultRepository) Delete(ctx context.Context, id string) error {
	query := `UPDATE official_exam_results SET status = $1, updated_at = $2 WHERE id = $3 AND tutor_id = $4 AND status = $5`

	result, err := r.db.GetQuerier(ctx).ExecContext(ctx, query,
		types.StatusDeleted, time.Now().UTC(), id, types.GetTutorID(ctx), types.StatusPublished)
	if err != nil {
		return postgres.WrapError(err, "official exam result")
	}
	return requireAffected(result, "official exam result")
}
