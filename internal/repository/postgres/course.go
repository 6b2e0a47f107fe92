package postgres

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tutorbook/tutorbook/internal/domain/course"
	"github.com/tutorbook/tutorbook/internal/logger"
	"github.com/tutorbook/tutorbook/internal/postgres"
	"github.com/tutorbook/tutorbook/internal/types"
)

type courseRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewCourseRepository(db *postgres.DB, logger *logger.Logger) course.Repository {
	return &courseRepository{db: db, logger: logger}
}

const courseColumns = `id, tutor_id, student_id, course_status, start_date, end_date, hourly_rate,
	total_hours, total_fee, is_paid, status, created_at, updated_at`

func (r *courseRepository) Create(ctx context.Context, c *course.Registration) error {
	query := `
	INSERT INTO course_registrations (` + courseColumns + `)
	VALUES (
		:id, :tutor_id, :student_id, :course_status, :start_date, :end_date, :hourly_rate,
		:total_hours, :total_fee, :is_paid, :status, :created_at, :updated_at
	)`

	if _, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, c); err != nil {
		return postgres.WrapError(err, "course registration")
	}
	r.logger.Debugw("created course registration", "course_id", c.ID, "student_id", c.StudentID)
	return nil
}

func (r *courseRepository) Get(ctx context.Context, id string) (*course.Registration, error) {
	query := `SELECT ` + courseColumns + ` FROM course_registrations WHERE id = $1 AND tutor_id = $2 AND status = $3`

	var c course.Registration
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &c, query, id, types.GetTutorID(ctx), types.StatusPublished); err != nil {
		return nil, postgres.WrapError(err, "course registration")
	}
	return &c, nil
}

func (r *courseRepository) List(ctx context.Context, filter *types.CourseFilter) ([]*course.Registration, error) {
	if filter == nil {
		filter = types.NewCourseFilter()
	}
	conds := r.conditions(ctx, filter)
	query := `SELECT ` + courseColumns + ` FROM course_registrations` + conds.where() +
		conds.page(filter.QueryFilter, "", types.CourseSortColumns...)

	registrations := make([]*course.Registration, 0)
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &registrations, query, conds.args...); err != nil {
		return nil, postgres.WrapError(err, "course registration")
	}
	return registrations, nil
}

func (r *courseRepository) Count(ctx context.Context, filter *types.CourseFilter) (int, error) {
	if filter == nil {
		filter = types.NewCourseFilter()
	}
	conds := r.conditions(ctx, filter)

	var count int
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &count, `SELECT COUNT(*) FROM course_registrations`+conds.where(), conds.args...); err != nil {
		return 0, postgres.WrapError(err, "course registration")
	}
	return count, nil
}

func (r *courseRepository) SumFees(ctx context.Context, filter *types.CourseFilter) (decimal.Decimal, error) {
	if filter == nil {
		filter = types.NewCourseFilter()
	}
	conds := r.conditions(ctx, filter)

	var sum decimal.Decimal
	query := `SELECT COALESCE(SUM(total_fee), 0) FROM course_registrations` + conds.where()
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &sum, query, conds.args...); err != nil {
		return decimal.Zero, postgres.WrapError(err, "course registration")
	}
	return sum, nil
}

func (r *courseRepository) conditions(ctx context.Context, filter *types.CourseFilter) *conditions {
	conds := tutorScoped(types.GetTutorID(ctx), "").
		add("status = ?", types.StatusPublished)
	if filter.StudentID != "" {
		conds.add("student_id = ?", filter.StudentID)
	}
	if filter.CourseStatus != "" {
		conds.add("course_status = ?", filter.CourseStatus)
	}
	if filter.IsPaid != nil {
		conds.add("is_paid = ?", *filter.IsPaid)
	}
	if filter.StartDateFrom != nil {
		conds.add("start_date >= ?", *filter.StartDateFrom)
	}
	if filter.StartDateTo != nil {
		conds.add("start_date <= ?", *filter.StartDateTo)
	}
	return conds
}

func (r *courseRepository) Update(ctx context.Context, c *course.Registration) error {
	c.UpdatedAt = time.Now().UTC()

	query := `
	UPDATE course_registrations SET
		student_id = :student_id,
		course_status = :course_status,
		start_date = :start_date,
		end_date = :end_date,
		hourly_rate = :hourly_rate,
		total_hours = :total_hours,
		total_fee = :total_fee,
		is_paid = :is_paid,
		updated_at = :updated_at
	WHERE id = :id AND tutor_id = :tutor_id AND status = 'published'`

	result, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, c)
	if err != nil {
		return postgres.WrapError(err, "course registration")
	}
	return requireAffected(result, "course registration")
}

func (r *courseRepository) Delete(ctx context.Context, id string) error {
	query := `UPDATE course_registrations SET status = $1, updated_at = $2 WHERE id = $3 AND tutor_id = $4 AND status = $5`

	result, err := r.db.GetQuerier(ctx).ExecContext(ctx, query,
		types.StatusDeleted, time.Now().UTC(), id, types.GetTutorID(ctx), types.StatusPublished)
	if err != nil {
		return postgres.WrapError(err, "course registration")
	}
	return requireAffected(result, "course registration")
}
