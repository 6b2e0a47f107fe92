package api

import (
	"github.com/gin-gonic/gin"
	v1 "github.com/tutorbook/tutorbook/internal/api/v1"
	"github.com/tutorbook/tutorbook/internal/config"
	"github.com/tutorbook/tutorbook/internal/logger"
	"github.com/tutorbook/tutorbook/internal/rest/middleware"
	"github.com/tutorbook/tutorbook/internal/types"
)

type Handlers struct {
	Health          *v1.HealthHandler
	Auth            *v1.AuthHandler
	BusinessProfile *v1.BusinessProfileHandler
	Student         *v1.StudentHandler
	Course          *v1.CourseHandler
	Lesson          *v1.LessonHandler
	Invoice         *v1.InvoiceHandler
	Dashboard       *v1.DashboardHandler
	ExamRecord      *v1.ExamRecordHandler
	OfficialResult  *v1.OfficialExamResultHandler
}

func NewRouter(handlers Handlers, cfg *config.Configuration, logger *logger.Logger) *gin.Engine {
	if cfg.Deployment.Mode != types.ModeLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.SentryMiddleware(cfg),
		middleware.RequestIDMiddleware,
		middleware.CORSMiddleware,
		middleware.ErrorHandler(logger),
	)

	router.GET("/health", handlers.Health.Health)

	public := router.Group("/v1")
	{
		auth := public.Group("/auth")
		auth.POST("/signup", handlers.Auth.SignUp)
		auth.POST("/login", handlers.Auth.Login)
	}

	private := router.Group("/v1")
	private.Use(middleware.AuthenticateMiddleware(cfg, logger))
	registerV1Routes(private, handlers)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers) {
	router.GET("/auth/me", handlers.Auth.Me)

	profile := router.Group("/business-profile")
	{
		profile.GET("", handlers.BusinessProfile.GetBusinessProfile)
		profile.PUT("", handlers.BusinessProfile.UpsertBusinessProfile)
	}

	students := router.Group("/students")
	{
		students.POST("", handlers.Student.CreateStudent)
		students.GET("", handlers.Student.ListStudents)
		students.GET("/:id", handlers.Student.GetStudent)
		students.PUT("/:id", handlers.Student.UpdateStudent)
		students.DELETE("/:id", handlers.Student.DeleteStudent)
	}

	courses := router.Group("/courses")
	{
		courses.POST("", handlers.Course.CreateCourse)
		courses.GET("", handlers.Course.ListCourses)
		courses.GET("/:id", handlers.Course.GetCourse)
		courses.PUT("/:id", handlers.Course.UpdateCourse)
		courses.DELETE("/:id", handlers.Course.DeleteCourse)
	}

	lessons := router.Group("/lessons")
	{
		lessons.POST("", handlers.Lesson.CreateLesson)
		lessons.GET("", handlers.Lesson.ListLessons)
		lessons.GET("/today", handlers.Lesson.ListTodayLessons)
		lessons.GET("/:id", handlers.Lesson.GetLesson)
		lessons.PUT("/:id", handlers.Lesson.UpdateLesson)
		lessons.DELETE("/:id", handlers.Lesson.DeleteLesson)
	}

	invoices := router.Group("/invoices")
	{
		invoices.POST("", handlers.Invoice.CreateInvoice)
		invoices.GET("", handlers.Invoice.ListInvoices)
		invoices.GET("/next-number", handlers.BusinessProfile.GetNextInvoiceNumber)
		invoices.POST("/preview", handlers.Invoice.PreviewInvoice)
		invoices.GET("/:id", handlers.Invoice.GetInvoice)
		invoices.PUT("/:id", handlers.Invoice.UpdateInvoice)
		invoices.PATCH("/:id/status", handlers.Invoice.UpdateInvoiceStatus)
		invoices.GET("/:id/pdf", handlers.Invoice.GetInvoicePDF)
	}

	router.GET("/exam-standards", handlers.ExamRecord.ListExamStandards)

	examRecords := router.Group("/exam-records")
	{
		examRecords.POST("", handlers.ExamRecord.CreateExamRecord)
		examRecords.GET("", handlers.ExamRecord.ListExamRecords)
		examRecords.GET("/:id", handlers.ExamRecord.GetExamRecord)
		examRecords.PUT("/:id", handlers.ExamRecord.UpdateExamRecord)
		examRecords.DELETE("/:id", handlers.ExamRecord.DeleteExamRecord)
		examRecords.POST("/:id/attachments", handlers.ExamRecord.UploadExamAttachment)
	}

	examAttachments := router.Group("/exam-attachments")
	{
		examAttachments.GET("/:id/url", handlers.ExamRecord.GetExamAttachmentURL)
		examAttachments.DELETE("/:id", handlers.ExamRecord.DeleteExamAttachment)
	}

	officialResults := router.Group("/official-exam-results")
	{
		officialResults.POST("", handlers.OfficialResult.CreateOfficialExamResult)
		officialResults.GET("", handlers.OfficialResult.ListOfficialExamResults)
		officialResults.GET("/:id", handlers.OfficialResult.GetOfficialExamResult)
		officialResults.PUT("/:id", handlers.OfficialResult.UpdateOfficialExamResult)
		officialResults.DELETE("/:id", handlers.OfficialResult.DeleteOfficialExamResult)
	}

	router.GET("/dashboard/stats", handlers.Dashboard.GetStats)
}
