package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/mddrc-dev/training-service/internal/models"
	"github.com/mddrc-dev/training-service/internal/repositories"
	"github.com/mddrc-dev/training-service/internal/services"
	"github.com/mddrc-dev/training-service/internal/utils"
	"github.com/mddrc-dev/training-service/internal/validator"
)

type HandlerManager struct {
	authHandler       *AuthHandler
	userHandler       *UserHandler
	catalogHandler    *CatalogHandler
	sessionHandler    *SessionHandler
	accessHandler     *AccessHandler
	testHandler       *TestHandler
	checklistHandler  *ChecklistHandler
	feedbackHandler   *FeedbackHandler
	attendanceHandler *AttendanceHandler
	reportHandler     *ReportHandler
	exportHandler     *ExportHandler
	authMiddleware    *JWTAuthMiddleware
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	validator *validator.Validator,
	logger utils.Logger,
	jwtManager *utils.JWTManager,
	userRepo repositories.UserRepository,
) *HandlerManager {
	authMiddleware := NewJWTAuthMiddleware(jwtManager, userRepo, logger)

	return &HandlerManager{
		authHandler:       NewAuthHandler(serviceManager.Auth(), validator, logger),
		userHandler:       NewUserHandler(serviceManager.User(), validator, logger),
		catalogHandler:    NewCatalogHandler(serviceManager.Catalog(), validator, logger),
		sessionHandler:    NewSessionHandler(serviceManager.Session(), validator, logger),
		accessHandler:     NewAccessHandler(serviceManager.Access(), validator, logger),
		testHandler:       NewTestHandler(serviceManager.Test(), validator, logger),
		checklistHandler:  NewChecklistHandler(serviceManager.Checklist(), validator, logger),
		feedbackHandler:   NewFeedbackHandler(serviceManager.Feedback(), validator, logger),
		attendanceHandler: NewAttendanceHandler(serviceManager.Attendance(), validator, logger),
		reportHandler:     NewReportHandler(serviceManager.Report(), validator, logger),
		exportHandler:     NewExportHandler(serviceManager.Export(), logger),
		authMiddleware:    authMiddleware,
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	// Public auth endpoints
	public := router.Group("/api/v1/auth")
	{
		public.POST("/login", hm.authHandler.Login)
		public.POST("/forgot-password", hm.authHandler.ForgotPassword)
		public.POST("/reset-password", hm.authHandler.ResetPassword)
	}

	// API v1 routes with authentication
	v1 := router.Group("/api/v1")
	v1.Use(hm.authMiddleware.AuthMiddleware())
	{
		// Authenticated auth routes
		auth := v1.Group("/auth")
		{
			auth.POST("/register", hm.authHandler.Register)
			auth.GET("/me", hm.authHandler.GetProfile)
		}

		// User routes
		users := v1.Group("/users")
		{
			users.GET("", hm.userHandler.ListUsers)
			users.GET("/:id", hm.userHandler.GetUser)
			users.PUT("/:id", hm.userHandler.UpdateUser)
			users.DELETE("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.userHandler.DeleteUser)
		}

		// Company routes - catalogue writes are admin only
		companies := v1.Group("/companies")
		{
			companies.POST("", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.catalogHandler.CreateCompany)
			companies.PUT("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.catalogHandler.UpdateCompany)
			companies.DELETE("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.catalogHandler.DeleteCompany)
			companies.GET("", hm.catalogHandler.ListCompanies)
		}

		// Program routes
		programs := v1.Group("/programs")
		{
			programs.POST("", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.catalogHandler.CreateProgram)
			programs.PUT("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.catalogHandler.UpdateProgram)
			programs.DELETE("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.catalogHandler.DeleteProgram)
			programs.GET("", hm.catalogHandler.ListPrograms)
			programs.GET("/:id", hm.catalogHandler.GetProgram)
		}

		// Test definition routes - admin only
		tests := v1.Group("/tests")
		{
			tests.POST("", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.testHandler.CreateTest)
			tests.DELETE("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.testHandler.DeleteTest)
			tests.POST("/submit", hm.testHandler.SubmitTest)
		}

		// Checklist template routes - admin only
		checklistTemplates := v1.Group("/checklist-templates")
		checklistTemplates.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin))
		{
			checklistTemplates.POST("", hm.checklistHandler.CreateTemplate)
			checklistTemplates.PUT("/:id", hm.checklistHandler.UpdateTemplate)
			checklistTemplates.DELETE("/:id", hm.checklistHandler.DeleteTemplate)
		}

		// Feedback template routes - admin only
		feedbackTemplates := v1.Group("/feedback-templates")
		feedbackTemplates.Use(hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin))
		{
			feedbackTemplates.POST("", hm.feedbackHandler.CreateTemplate)
			feedbackTemplates.DELETE("/:id", hm.feedbackHandler.DeleteTemplate)
		}

		// Checklist submission routes
		checklists := v1.Group("/checklists")
		{
			checklists.POST("", hm.checklistHandler.SubmitChecklist)
			checklists.POST("/trainer", hm.checklistHandler.SubmitTrainerChecklist)
			checklists.POST("/:id/verify", hm.checklistHandler.VerifyChecklist)
		}

		// Vehicle details
		v1.POST("/vehicle-details", hm.checklistHandler.SubmitVehicleDetails)

		// Feedback submission
		v1.POST("/feedback", hm.feedbackHandler.SubmitFeedback)

		// Attendance clock routes
		attendance := v1.Group("/attendance")
		{
			attendance.POST("/clock-in", hm.attendanceHandler.ClockIn)
			attendance.POST("/clock-out", hm.attendanceHandler.ClockOut)
		}

		// Session routes
		sessions := v1.Group("/sessions")
		{
			sessions.POST("", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.sessionHandler.CreateSession)
			sessions.GET("", hm.sessionHandler.ListSessions)
			sessions.GET("/:id", hm.sessionHandler.GetSession)
			sessions.PUT("/:id", hm.sessionHandler.UpdateSession)
			sessions.DELETE("/:id", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.sessionHandler.DeleteSession)
			sessions.POST("/:id/toggle-status", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.sessionHandler.ToggleSessionStatus)

			sessions.GET("/:id/participants", hm.sessionHandler.GetParticipants)
			sessions.GET("/:id/assigned-participants", hm.sessionHandler.GetAssignedParticipants)
			sessions.GET("/:id/status", hm.sessionHandler.GetStatus)
			sessions.GET("/:id/results", hm.sessionHandler.GetResultsSummary)
			sessions.GET("/:id/results/export", hm.exportHandler.ExportResults)
			sessions.POST("/:id/chief-comments", hm.sessionHandler.SubmitChiefComments)

			// Feature gates
			sessions.GET("/:id/my-access", hm.accessHandler.GetMyAccess)
			sessions.GET("/:id/access", hm.accessHandler.ListAccess)
			sessions.PUT("/:id/access/:participant_id", hm.accessHandler.UpdateGate)
			sessions.POST("/:id/access/bulk", hm.accessHandler.BulkToggleGate)
			sessions.POST("/:id/access/release", hm.accessHandler.ReleaseGate)

			// Tests
			sessions.GET("/:id/tests/:type", hm.testHandler.GetTestForParticipant)
			sessions.GET("/:id/participants/:participant_id/results", hm.testHandler.GetResults)

			// Checklists
			sessions.GET("/:id/checklist-template", hm.checklistHandler.GetTemplateForSession)
			sessions.GET("/:id/checklists", hm.checklistHandler.ListChecklists)
			sessions.GET("/:id/participants/:participant_id/vehicle-details", hm.checklistHandler.GetVehicleDetails)

			// Feedback
			sessions.GET("/:id/feedback-template", hm.feedbackHandler.GetTemplateForSession)
			sessions.GET("/:id/feedback", hm.feedbackHandler.ListFeedback)

			// Attendance
			sessions.GET("/:id/attendance", hm.attendanceHandler.GetSessionAttendance)
			sessions.GET("/:id/my-attendance", hm.attendanceHandler.GetMyAttendance)

			// Certificates
			sessions.POST("/:id/certificates", hm.accessHandler.UploadCertificate)
			sessions.GET("/:id/participants/:participant_id/eligibility", hm.accessHandler.CheckEligibility)
			sessions.GET("/:id/participants/:participant_id/certificate", hm.accessHandler.DownloadCertificate)

			// Reports
			sessions.GET("/:id/report", hm.reportHandler.GetReport)
		}

		// Sessions scoped to the caller
		v1.GET("/my-sessions", hm.sessionHandler.ListMySessions)

		// Certificate repository - admin only
		v1.GET("/certificates", hm.authMiddleware.RequireRoleMiddleware(models.RoleAdmin), hm.accessHandler.ListCertificates)

		// Training reports
		reports := v1.Group("/reports")
		{
			reports.POST("", hm.reportHandler.SaveReport)
			reports.GET("", hm.reportHandler.ListReports)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "training-service",
		})
	})
}
