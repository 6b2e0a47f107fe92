package postgres

import (
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/tutorbook/tutorbook/internal/domain/exam"
	ierr "github.com/tutorbook/tutorbook/internal/errors"
	"github.com/tutorbook/tutorbook/internal/logger"
	"github.com/tutorbook/tutorbook/internal/types"
)

var examRecordRowColumns = []string{
	"id", "tutor_id", "student_id", "exam_standard_id", "exam_date", "exam_mode",
	"total_score", "grade", "status", "created_at", "updated_at",
}

var examAttachmentRowColumns = []string{
	"id", "tutor_id", "exam_record_id", "original_name", "content_type",
	"size_bytes", "status", "created_at", "updated_at",
}

func (s *RepositorySuite) TestListExamRecordsLoadsAttachmentsInOneQuery() {
	repo := NewExamRecordRepository(s.db, logger.NewNopLogger())
	now := time.Now().UTC()
	examDate := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	s.mock.ExpectQuery(`(?s)SELECT .+ FROM exam_records WHERE tutor_id = \$1 AND status = \$2 AND student_id = \$3 ORDER BY`).
		WithArgs("tut_1", types.StatusPublished, "stu_1").
		WillReturnRows(sqlmock.NewRows(examRecordRowColumns).
			AddRow("exr_1", "tut_1", "stu_1", "exs_telc_b1", examDate, "FULL", "245.50", "", "published", now, now).
			AddRow("exr_2", "tut_1", "stu_1", "exs_telc_b2", examDate, "ORAL", "80", "", "published", now, now))
	s.mock.ExpectQuery(`(?s)SELECT .+ FROM exam_attachments\s+WHERE exam_record_id = ANY\(\$1\) AND tutor_id = \$2 AND status = \$3`).
		WithArgs(pq.Array([]string{"exr_1", "exr_2"}), "tut_1", types.StatusPublished).
		WillReturnRows(sqlmock.NewRows(examAttachmentRowColumns).
			AddRow("exa_1", "tut_1", "exr_1", "lesen.pdf", "application/pdf", int64(1024), "published", now, now))

	filter := &types.ExamRecordFilter{QueryFilter: types.NewNoLimitQueryFilter(), StudentID: "stu_1"}
	records, err := repo.List(s.ctx, filter)
	s.Require().NoError(err)
	s.Require().Len(records, 2)
	s.Require().Len(records[0].Attachments, 1)
	s.Equal("lesen.pdf", records[0].Attachments[0].OriginalName)
	s.NotNil(records[1].Attachments)
	s.Empty(records[1].Attachments)
	s.Equal("245.5", records[0].TotalScore.String())
}

func (s *RepositorySuite) TestDeleteExamRecordSoftDeletesAttachments() {
	repo := NewExamRecordRepository(s.db, logger.NewNopLogger())

	s.mock.ExpectExec(`UPDATE exam_records SET status = \$1, updated_at = \$2 WHERE id = \$3 AND tutor_id = \$4 AND status = \$5`).
		WithArgs(types.StatusDeleted, sqlmock.AnyArg(), "exr_1", "tut_1", types.StatusPublished).
		WillReturnResult(sqlmock.NewResult(0, 1))
	s.mock.ExpectExec(`UPDATE exam_attachments SET status = \$1, updated_at = \$2 WHERE exam_record_id = \$3 AND tutor_id = \$4 AND status = \$5`).
		WithArgs(types.StatusDeleted, sqlmock.AnyArg(), "exr_1", "tut_1", types.StatusPublished).
		WillReturnResult(sqlmock.NewResult(0, 2))

	s.Require().NoError(repo.Delete(s.ctx, "exr_1"))
}

func (s *RepositorySuite) TestDeleteMissingExamRecordIsNotFound() {
	repo := NewExamRecordRepository(s.db, logger.NewNopLogger())

	s.mock.ExpectExec(`UPDATE exam_records SET status`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(s.ctx, "exr_missing")
	s.True(ierr.IsNotFound(err))
}

func (s *RepositorySuite) TestCreateOfficialResultWithoutStandardSendsNull() {
	repo := NewOfficialExamResultRepository(s.db, logger.NewNopLogger())

	s.mock.ExpectExec(`(?s)INSERT INTO official_exam_results`).
		WithArgs("exo_1", "tut_1", "stu_1", nil, "TestDaF", sqlmock.AnyArg(),
			types.ExamResultStatusWaiting, "", "", "", types.StatusPublished, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	now := time.Now().UTC()
	err := repo.Create(s.ctx, &exam.OfficialResult{
		ID:             "exo_1",
		StudentID:      "stu_1",
		ExamNameManual: "TestDaF",
		ExamDate:       types.NewDate(2026, 6, 20),
		ResultStatus:   types.ExamResultStatusWaiting,
		BaseModel: types.BaseModel{
			TutorID:   "tut_1",
			Status:    types.StatusPublished,
			CreatedAt: now,
			UpdatedAt: now,
		},
	})
	s.Require().NoError(err)
}

func (s *RepositorySuite) TestListExamStandardsOrdersByLevel() {
	repo := NewExamStandardRepository(s.db, logger.NewNopLogger())
	now := time.Now().UTC()

	s.mock.ExpectQuery(`SELECT .+ FROM exam_standards ORDER BY level, name`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "level", "total_score", "created_at", "updated_at"}).
			AddRow("exs_telc_b1", "telc Deutsch B1", "B1", 300, now, now))

	standards, err := repo.List(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(standards, 1)
	s.Equal(300, standards[0].TotalScore)
}
