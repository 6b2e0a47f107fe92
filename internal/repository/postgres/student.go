package postgres

import (
	"context"
	"time"

	"github.com/tutorbook/tutorbook/internal/domain/student"
	"github.com/tutorbook/tutorbook/internal/logger"
	"github.com/tutorbook/tutorbook/internal/postgres"
	"github.com/tutorbook/tutorbook/internal/types"
)

type studentRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewStudentRepository(db *postgres.DB, logger *logger.Logger) student.Repository {
	return &studentRepository{db: db, logger: logger}
}

const studentColumns = `id, tutor_id, customer_number, name, gender, age, current_level, target_level,
	target_exam_mode, memo, student_status, billing_name, billing_street, billing_postcode,
	billing_city, billing_country, status, created_at, updated_at`

func (r *studentRepository) Create(ctx context.Context, s *student.Student) error {
	query := `
	INSERT INTO students (` + studentColumns + `)
	VALUES (
		:id, :tutor_id, :customer_number, :name, :gender, :age, :current_level, :target_level,
		:target_exam_mode, :memo, :student_status, :billing_name, :billing_street, :billing_postcode,
		:billing_city, :billing_country, :status, :created_at, :updated_at
	)`

	if _, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, s); err != nil {
		return postgres.WrapError(err, "student")
	}
	r.logger.Debugw("created student", "student_id", s.ID, "tutor_id", s.TutorID)
	return nil
}

func (r *studentRepository) Get(ctx context.Context, id string) (*student.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = $1 AND tutor_id = $2 AND status = $3`

	var s student.Student
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &s, query, id, types.GetTutorID(ctx), types.StatusPublished); err != nil {
		return nil, postgres.WrapError(err, "student")
	}
	return &s, nil
}

func (r *studentRepository) List(ctx context.Context, filter *types.StudentFilter) ([]*student.Student, error) {
	if filter == nil {
		filter = types.NewStudentFilter()
	}
	conds := r.conditions(ctx, filter)
	query := `SELECT ` + studentColumns + ` FROM students` + conds.where() +
		conds.page(filter.QueryFilter, "", types.StudentSortColumns...)

	students := make([]*student.Student, 0)
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &students, query, conds.args...); err != nil {
		return nil, postgres.WrapError(err, "student")
	}
	return students, nil
}

func (r *studentRepository) Count(ctx context.Context, filter *types.StudentFilter) (int, error) {
	if filter == nil {
		filter = types.NewStudentFilter()
	}
	conds := r.conditions(ctx, filter)

	var count int
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &count, `SELECT COUNT(*) FROM students`+conds.where(), conds.args...); err != nil {
		return 0, postgres.WrapError(err, "student")
	}
	return count, nil
}

func (r *studentRepository) conditions(ctx context.Context, filter *types.StudentFilter) *conditions {
	conds := tutorScoped(types.GetTutorID(ctx), "").
		add("status = ?", types.StatusPublished)
	if filter.Search != "" {
		conds.add("name ILIKE ?", "%"+filter.Search+"%")
	}
	if filter.StudentStatus != "" {
		conds.add("student_status = ?", filter.StudentStatus)
	}
	return conds
}

func (r *studentRepository) Update(ctx context.Context, s *student.Student) error {
	s.UpdatedAt = time.Now().UTC()

	query := `
	UPDATE students SET
		name = :name,
		gender = :gender,
		age = :age,
		current_level = :current_level,
		target_level = :target_level,
		target_exam_mode = :target_exam_mode,
		memo = :memo,
		student_status = :student_status,
		billing_name = :billing_name,
		billing_street = :billing_street,
		billing_postcode = :billing_postcode,
		billing_city = :billing_city,
		billing_country = :billing_country,
		updated_at = :updated_at
	WHERE id = :id AND tutor_id = :tutor_id AND status = 'published'`

	result, err := r.db.GetQuerier(ctx).NamedExecContext(ctx, query, s)
	if err != nil {
		return postgres.WrapError(err, "student")
	}
	return requireAffected(result, "student")
}

func (r *studentRepository) Delete(ctx context.Context, id string) error {
	query := `UPDATE students SET status = $1, updated_at = $2 WHERE id = $3 AND tutor_id = $4 AND status = $5`

	result, err := r.db.GetQuerier(ctx).ExecContext(ctx, query,
		types.StatusDeleted, time.Now().UTC(), id, types.GetTutorID(ctx), types.StatusPublished)
	if err != nil {
		return postgres.WrapError(err, "student")
	}
	return requireAffected(result, "student")
}
