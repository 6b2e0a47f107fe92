package repository

import (
	"github.com/tutorbook/tutorbook/internal/config"
	"github.com/tutorbook/tutorbook/internal/domain/auth"
	"github.com/tutorbook/tutorbook/internal/domain/businessprofile"
	"github.com/tutorbook/tutorbook/internal/domain/course"
	"github.com/tutorbook/tutorbook/internal/domain/exam"
	"github.com/tutorbook/tutorbook/internal/domain/invoice"
	"github.com/tutorbook/tutorbook/internal/domain/lesson"
	"github.com/tutorbook/tutorbook/internal/domain/student"
	"github.com/tutorbook/tutorbook/internal/domain/tutor"
	"github.com/tutorbook/tutorbook/internal/logger"
	"github.com/tutorbook/tutorbook/internal/postgres"
	postgresRepo "github.com/tutorbook/tutorbook/internal/repository/postgres"
)

func NewTutorRepository(db *postgres.DB, logger *logger.Logger) tutor.Repository {
	return postgresRepo.NewTutorRepository(db, logger)
}

func NewAuthRepository(db *postgres.DB, logger *logger.Logger) auth.Repository {
	return postgresRepo.NewAuthRepository(db, logger)
}

func NewBusinessProfileRepository(db *postgres.DB, logger *logger.Logger, cfg *config.Configuration) businessprofile.Repository {
	return postgresRepo.NewBusinessProfileRepository(db, logger, cfg)
}

func NewStudentRepository(db *postgres.DB, logger *logger.Logger) student.Repository {
	return postgresRepo.NewStudentRepository(db, logger)
}

func NewCourseRepository(db *postgres.DB, logger *logger.Logger) course.Repository {
	return postgresRepo.NewCourseRepository(db, logger)
}

func NewLessonRepository(db *postgres.DB, logger *logger.Logger) lesson.Repository {
	return postgresRepo.NewLessonRepository(db, logger)
}

func NewInvoiceRepository(db *postgres.DB, logger *logger.Logger) invoice.Repository {
	return postgresRepo.NewInvoiceRepository(db, logger)
}

func NewExamStandardRepository(db *postgres.DB, logger *logger.Logger) exam.StandardRepository {
	return postgresRepo.NewExamStandardRepository(db, logger)
}

func NewExamRecordRepository(db *postgres.DB, logger *logger.Logger) exam.RecordRepository {
	return postgresRepo.NewExamRecordRepository(db, logger)
}

func NewOfficialExamResultRepository(db *postgres.DB, logger *logger.Logger) exam.OfficialResultRepository {
	return postgresRepo.NewOfficialExamResultRepository(db, logger)
}
