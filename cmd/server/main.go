package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tutorbook/tutorbook/internal/api"
	v1 "github.com/tutorbook/tutorbook/internal/api/v1"
	"github.com/tutorbook/tutorbook/internal/cache"
	"github.com/tutorbook/tutorbook/internal/config"
	"github.com/tutorbook/tutorbook/internal/logger"
	"github.com/tutorbook/tutorbook/internal/pdf"
	"github.com/tutorbook/tutorbook/internal/postgres"
	"github.com/tutorbook/tutorbook/internal/repository"
	"github.com/tutorbook/tutorbook/internal/s3"
	"github.com/tutorbook/tutorbook/internal/sentry"
	"github.com/tutorbook/tutorbook/internal/service"
	"github.com/tutorbook/tutorbook/internal/types"
	"github.com/tutorbook/tutorbook/internal/typst"
	"github.com/tutorbook/tutorbook/internal/validator"
	"go.uber.org/fx"
)

// invoice dates and the dashboard month are calendar days in UTC
func init() {
	time.Local = time.UTC
}

func main() {
	var opts []fx.Option

	opts = append(opts,
		fx.Provide(
			validator.NewValidator,

			config.NewConfig,

			logger.NewLogger,

			cache.NewInMemoryCache,

			typst.NewCompilerFromConfig,
			pdf.NewGenerator,

			s3.NewService,

			repository.NewTutorRepository,
			repository.NewAuthRepository,
			repository.NewBusinessProfileRepository,
			repository.NewStudentRepository,
			repository.NewCourseRepository,
			repository.NewLessonRepository,
			repository.NewInvoiceRepository,
			repository.NewExamStandardRepository,
			repository.NewExamRecordRepository,
			repository.NewOfficialExamResultRepository,
		),
		sentry.Module(),
		postgres.Module(),
	)

	opts = append(opts,
		fx.Provide(
			service.NewServiceParams,

			service.NewInvoiceSequencer,

			service.NewAuthService,
			service.NewBusinessProfileService,
			service.NewStudentService,
			service.NewCourseService,
			service.NewLessonService,
			service.NewInvoiceService,
			service.NewDashboardService,
			service.NewExamRecordService,
			service.NewOfficialExamResultService,
		),
	)

	opts = append(opts,
		fx.Provide(
			provideHandlers,
			provideRouter,
		),
		fx.Invoke(
			startServer,
		),
	)

	app := fx.New(opts...)
	app.Run()
}

func provideHandlers(
	logger *logger.Logger,
	cfg *config.Configuration,
	db *postgres.DB,
	authService service.AuthService,
	businessProfileService service.BusinessProfileService,
	studentService service.StudentService,
	courseService service.CourseService,
	lessonService service.LessonService,
	invoiceService service.InvoiceService,
	dashboardService service.DashboardService,
	examRecordService service.ExamRecordService,
	officialResultService service.OfficialExamResultService,
) api.Handlers {
	return api.Handlers{
		Health:          v1.NewHealthHandler(db, logger),
		Auth:            v1.NewAuthHandler(authService, logger),
		BusinessProfile: v1.NewBusinessProfileHandler(businessProfileService, logger),
		Student:         v1.NewStudentHandler(studentService, logger),
		Course:          v1.NewCourseHandler(courseService, logger),
		Lesson:          v1.NewLessonHandler(lessonService, logger),
		Invoice:         v1.NewInvoiceHandler(invoiceService, logger),
		Dashboard:       v1.NewDashboardHandler(dashboardService, logger),
		ExamRecord:      v1.NewExamRecordHandler(examRecordService, cfg, logger),
		OfficialResult:  v1.NewOfficialExamResultHandler(officialResultService, logger),
	}
}

func provideRouter(handlers api.Handlers, cfg *config.Configuration, logger *logger.Logger) *gin.Engine {
	return api.NewRouter(handlers, cfg, logger)
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	db *postgres.DB,
	log *logger.Logger,
) {
	mode := cfg.Deployment.Mode
	if mode == "" {
		mode = types.ModeLocal
	}

	switch mode {
	case types.ModeLocal:
		// local runs bring their own schema, deployed ones use cmd/migrate
		runMigrations(lc, db, log)
		startAPIServer(lc, r, cfg, log)
	case types.ModeAPI:
		startAPIServer(lc, r, cfg, log)
	default:
		log.Fatalf("Unknown deployment mode: %s", mode)
	}
}

func runMigrations(lc fx.Lifecycle, db *postgres.DB, log *logger.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("Applying database migrations...")
			return db.Migrate(ctx)
		},
	})
}

func startAPIServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info("Registering API server start hook")
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("Starting API server...", "address", cfg.Server.Address)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return srv.Shutdown(ctx)
		},
	})
}
