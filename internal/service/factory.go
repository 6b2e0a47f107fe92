package service

import (
	"github.com/shopspring/decimal"
	"github.com/tutorbook/tutorbook/internal/cache"
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
	"github.com/tutorbook/tutorbook/internal/pdf"
	"github.com/tutorbook/tutorbook/internal/postgres"
	"github.com/tutorbook/tutorbook/internal/s3"
	"github.com/tutorbook/tutorbook/internal/sentry"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger       *logger.Logger
	Config       *config.Configuration
	DB           postgres.IClient
	Cache        cache.Cache
	PDFGenerator pdf.Generator
	// S3 is nil when archival is disabled
	S3     s3.Service
	Sentry *sentry.Service

	// Repositories
	TutorRepo           tutor.Repository
	AuthRepo            auth.Repository
	BusinessProfileRepo businessprofile.Repository
	StudentRepo         student.Repository
	CourseRepo          course.Repository
	LessonRepo          lesson.Repository
	InvoiceRepo         invoice.Repository
	ExamStandardRepo    exam.StandardRepository
	ExamRecordRepo      exam.RecordRepository
	OfficialResultRepo  exam.OfficialResultRepository
}

// Common service params
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	db postgres.IClient,
	cache cache.Cache,
	pdfGenerator pdf.Generator,
	s3Service s3.Service,
	sentryService *sentry.Service,
	tutorRepo tutor.Repository,
	authRepo auth.Repository,
	businessProfileRepo businessprofile.Repository,
	studentRepo student.Repository,
	courseRepo course.Repository,
	lessonRepo lesson.Repository,
	invoiceRepo invoice.Repository,
	examStandardRepo exam.StandardRepository,
	examRecordRepo exam.RecordRepository,
	officialResultRepo exam.OfficialResultRepository,
) ServiceParams {
	return ServiceParams{
		Logger:              logger,
		Config:              config,
		DB:                  db,
		Cache:               cache,
		PDFGenerator:        pdfGenerator,
		S3:                  s3Service,
		Sentry:              sentryService,
		TutorRepo:           tutorRepo,
		AuthRepo:            authRepo,
		BusinessProfileRepo: businessProfileRepo,
		StudentRepo:         studentRepo,
		CourseRepo:          courseRepo,
		LessonRepo:          lessonRepo,
		InvoiceRepo:         invoiceRepo,
		ExamStandardRepo:    examStandardRepo,
		ExamRecordRepo:      examRecordRepo,
		OfficialResultRepo:  officialResultRepo,
	}
}

// newCalculator builds the totals engine from the configured surcharge rate
func newCalculator(cfg *config.Configuration) *invoice.Calculator {
	return invoice.NewCalculator(decimal.NewFromFloat(cfg.Invoice.SurchargeVATRate))
}
