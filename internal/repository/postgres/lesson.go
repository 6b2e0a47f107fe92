package postgres

import (
	"context"
	"time"

	"github.com/tutorbook/tutorbook/internal/domain/lesson"
	"github.com/tutorbook/tutorbook/internal/logger"
	"github.com/tutorbook/tutorbook/internal/postgres"
	"github.com/tutorbook/tutorbook/internal/types"
)

type lessonRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewLessonRepository(db *postgres.DB, logger *logger.Logger) lesson.Repository {
	return &lessonRepository{db: db, logger: logger}
}

const lessonColumns = `id, tutor_id, student_id, course_registration_id, date, start_time, end_time,
	topic, memo, lesson_status, status, created_at, updated_at`

func (r *lessonRepository) Create(ctx context.Context, l *lesson.Lesson) error {
	query := `
	INSERT INTO lessons (` + lessonColumns + `)
	VALUES (
		:id, :tutor_id, :student_id, :course_registration_id, :date, :start_time, :end_time,
		:topic, :memo, :lesson_status, :status, :created_at, :updated_at
	)`

	if _, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, l); err != nil {
		return postgres.WrapError(err, "lesson")
	}
	r.logger.Debugw("created lesson", "lesson_id", l.ID, "student_id", l.StudentID)
	return nil
}

func (r *lessonRepository) Get(ctx context.Context, id string) (*lesson.Lesson, error) {
	query := `SELECT ` + lessonColumns + ` FROM lessons WHERE id = $1 AND tutor_id = $2 AND status = $3`

	var l lesson.Lesson
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &l, query, id, types.GetTutorID(ctx), types.StatusPublished); err != nil {
		return nil, postgres.WrapError(err, "lesson")
	}
	return &l, nil
}

func (r *lessonRepository) List(ctx context.Context, filter *types.LessonFilter) ([]*lesson.Lesson, error) {
	if filter == nil {
		filter = types.NewLessonFilter()
	}
	conds := r.conditions(ctx, filter)
	query := `SELECT ` + lessonColumns + ` FROM lessons` + conds.where() +
		conds.page(filter.QueryFilter, "", types.LessonSortColumns...)

	lessons := make([]*lesson.Lesson, 0)
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &lessons, query, conds.args...); err != nil {
		return nil, postgres.WrapError(err, "lesson")
	}
	return lessons, nil
}

func (r *lessonRepository) Count(ctx context.Context, filter *types.LessonFilter) (int, error) {
	if filter == nil {
		filter = types.NewLessonFilter()
	}
	conds := r.conditions(ctx, filter)

	var count int
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &count, `SELECT COUNT(*) FROM lessons`+conds.where(), conds.args...); err != nil {
		return 0, postgres.WrapError(err, "lesson")
	}
	return count, nil
}

func (r *lessonRepository) conditions(ctx context.Context, filter *types.LessonFilter) *conditions {
	conds := tutorScoped(types.GetTutorID(ctx), "").
		add("status = ?", types.StatusPublished)
	if filter.StudentID != "" {
		conds.add("student_id = ?", filter.StudentID)
	}
	if filter.StartDate != nil {
		conds.add("date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		conds.add("date <= ?", *filter.EndDate)
	}
	return conds
}

func (r *lessonRepository) Update(ctx context.Context, l *lesson.Lesson) error {
	l.UpdatedAt = time.Now().UTC()

	query := `
	UPDATE lessons SET
		student_id = :student_id,
		course_registration_id = :course_registration_id,
		date = :date,
		start_time = :start_time,
		end_time = :end_time,
		topic = :topic,
		memo = :memo,
		lesson_status = :lesson_status,
		updated_at = :updated_at
	WHERE id = :id AND tutor_id = :tutor_id AND status = 'published'`

	result, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, l)
	if err != nil {
		return postgres.WrapError(err, "lesson")
	}
	return requireAffected(result, "lesson")
}

func (r *lessonRepository) Delete(ctx context.Context, id string) error {
	query := `UPDATE lessons SET status = $1, updated_at = $2 WHERE id = $3 AND tutor_id = $4 AND status = $5`

	result, err := r.db.GetQuerier(ctx).ExecContext(ctx, query,
		types.StatusDeleted, time.Now().UTC(), id, types.GetTutorID(ctx), types.StatusPublished)
	if err != nil {
		return postgres.WrapError(err, "lesson")
	}
	return requireAffected(result, "lesson")
}
