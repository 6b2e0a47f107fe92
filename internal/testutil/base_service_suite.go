package testutil

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"
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
	"github.com/tutorbook/tutorbook/internal/types"
	"github.com/tutorbook/tutorbook/internal/validator"
)

// Stores holds all the repository interfaces for testing
type Stores struct {
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

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx          context.Context
	stores       Stores
	db           *MockPostgresClient
	cache        cache.Cache
	logger       *logger.Logger
	config       *config.Configuration
	now          time.Time
	pdfGenerator *MockPDFGenerator
	s3           *MockS3Service
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	validator.NewValidator()

	cfg := config.GetDefaultConfig()
	cfg.Logging.Level = types.LogLevelInfo
	// keep lock retries fast
	cfg.Invoice.LockRetryInitialInterval = time.Millisecond
	cfg.Invoice.LockRetryMaxElapsedTime = time.Second
	s.config = cfg

	var err error
	s.logger, err = logger.NewLogger(cfg)
	if err != nil {
		s.T().Fatalf("failed to create logger: %v", err)
	}
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.ctx = SetupContext()
	s.setupStores()
	s.now = time.Now().UTC()
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.clearStores()
}

func (s *BaseServiceTestSuite) setupStores() {
	s.stores = Stores{
		TutorRepo:           NewInMemoryTutorStore(),
		AuthRepo:            NewInMemoryAuthStore(),
		BusinessProfileRepo: NewInMemoryBusinessProfileStore(),
		StudentRepo:         NewInMemoryStudentStore(),
		CourseRepo:          NewInMemoryCourseStore(),
		LessonRepo:          NewInMemoryLessonStore(),
		InvoiceRepo:         NewInMemoryInvoiceStore(),
		ExamStandardRepo:    NewInMemoryExamStandardStore(),
		ExamRecordRepo:      NewInMemoryExamRecordStore(),
		OfficialResultRepo:  NewInMemoryOfficialExamResultStore(),
	}

	s.db = NewMockPostgresClient(s.logger)
	s.cache = cache.NewInMemoryCache(s.config, s.logger)
	s.pdfGenerator = NewMockPDFGenerator()
	s.s3 = NewMockS3Service()
}

func (s *BaseServiceTestSuite) clearStores() {
	s.stores.TutorRepo.(*InMemoryTutorStore).Clear()
	s.stores.AuthRepo.(*InMemoryAuthStore).Clear()
	s.stores.BusinessProfileRepo.(*InMemoryBusinessProfileStore).Clear()
	s.stores.StudentRepo.(*InMemoryStudentStore).Clear()
	s.stores.CourseRepo.(*InMemoryCourseStore).Clear()
	s.stores.LessonRepo.(*InMemoryLessonStore).Clear()
	s.stores.InvoiceRepo.(*InMemoryInvoiceStore).Clear()
	s.stores.ExamRecordRepo.(*InMemoryExamRecordStore).Clear()
	s.stores.OfficialResultRepo.(*InMemoryOfficialExamResultStore).Clear()
	s.cache.Flush(context.Background())
}

func (s *BaseServiceTestSuite) ClearStores() {
	s.clearStores()
}

// GetContext returns the test context, authenticated as DefaultTestTutorID
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// GetStores returns all test repositories
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// GetDB returns the test database client
func (s *BaseServiceTestSuite) GetDB() *MockPostgresClient {
	return s.db
}

func (s *BaseServiceTestSuite) GetCache() cache.Cache {
	return s.cache
}

// GetPDFGenerator returns the mock PDF generator, expectations are set per test
func (s *BaseServiceTestSuite) GetPDFGenerator() *MockPDFGenerator {
	return s.pdfGenerator
}

func (s *BaseServiceTestSuite) GetS3() *MockS3Service {
	return s.s3
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetNow returns the current test time
func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now.UTC()
}

// GetUUID returns a new UUID string
func (s *BaseServiceTestSuite) GetUUID() string {
	return types.GenerateUUID()
}

// CreateBusinessProfile stores a complete profile for the tutor of ctx
func (s *BaseServiceTestSuite) CreateBusinessProfile(ctx context.Context, nextNumber int64, isSmallBusiness bool) *businessprofile.BusinessProfile {
	p := businessprofile.NewBusinessProfile(types.GetTutorID(ctx), nextNumber)
	p.CompanyName = "Lernstudio Berger"
	p.ManagerName = "Anna Berger"
	p.Street = "Hauptstraße 1"
	p.Postcode = "10115"
	p.City = "Berlin"
	p.Email = "kontakt@lernstudio.example"
	p.TaxNumber = "12/345/67890"
	p.IsSmallBusiness = isSmallBusiness
	p.BankName = "Berliner Bank"
	p.AccountHolder = "Anna Berger"
	p.IBAN = "DE89370400440532013000"
	p.BIC = "COBADEFFXXX"
	s.Require().NoError(s.stores.BusinessProfileRepo.Upsert(ctx, p))
	return p
}
