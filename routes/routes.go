package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"maintenance-api/controllers"
	"maintenance-api/middleware"
	"maintenance-api/services"
)

// Dependencies carries the wired services the routes hand to their
// controllers.
type Dependencies struct {
	DB          *gorm.DB
	Sessions    *services.SessionManager
	Submissions *services.SubmissionService
	Tracking    *services.TrackingService
	Status      *services.StatusService
	UploadRoot  string
}

func SetupRoutes(router *gin.Engine, deps Dependencies) {
	auth := controllers.NewAuthController(deps.DB)
	wizard := controllers.NewWizardController(deps.Sessions, deps.Submissions)
	maintenance := controllers.NewMaintenanceController(deps.Submissions, deps.Tracking)
	admin := controllers.NewAdminController(deps.DB, deps.Tracking, deps.Status)
	reference := controllers.NewReferenceController(deps.DB)
	notifications := controllers.NewNotificationController(deps.DB)

	// Uploaded attachment binaries
	router.Static("/files", deps.UploadRoot)

	// API v1 group
	v1 := router.Group("/api/v1")
	{
		// Public routes
		public := v1.Group("")
		{
			public.POST("/login", auth.Login)

			// Health check
			public.GET("/health", func(c *gin.Context) {
				c.JSON(200, gin.H{
					"status":  "ok",
					"message": "Maintenance API is running",
				})
			})

			// Reference data for the request forms
			public.GET("/branches", reference.GetBranches)
			public.GET("/services", reference.GetServiceTypes)

			// Quick request form (one-shot submission)
			public.POST("/requests/quick", maintenance.SubmitQuick)

			// Request tracking by identifier
			public.GET("/requests/:id", maintenance.Track)

			// Multi-step request wizard
			wizardRoutes := public.Group("/wizard")
			{
				wizardRoutes.POST("", wizard.Start)
				wizardRoutes.GET("/:token", wizard.Show)
				wizardRoutes.PUT("/:token", wizard.UpdateDraft)
				wizardRoutes.POST("/:token/attachments", wizard.AddAttachments)
				wizardRoutes.DELETE("/:token/attachments/:index", wizard.RemoveAttachment)
				wizardRoutes.POST("/:token/next", wizard.Next)
				wizardRoutes.POST("/:token/prev", wizard.Prev)
				wizardRoutes.DELETE("/:token", wizard.Abandon)
			}
		}

		// Protected routes (require authentication)
		protected := v1.Group("")
		protected.Use(middleware.AuthMiddleware(deps.DB))
		{
			protected.GET("/profile", auth.GetProfile)

			protected.GET("/notifications", notifications.List)
			protected.PUT("/notifications/:id/read", notifications.MarkRead)

			// Request administration (admin only)
			adminRoutes := protected.Group("")
			adminRoutes.Use(middleware.RequireAdmin())
			{
				adminRoutes.GET("/requests", admin.ListRequests)
				adminRoutes.PUT("/requests/:id/status", admin.ChangeStatus)
				adminRoutes.GET("/dashboard/stats", admin.DashboardStats)
			}
		}
	}
}
