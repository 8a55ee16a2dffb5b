package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"maintenance-api/config"
	"maintenance-api/middleware"
	"maintenance-api/models"
	"maintenance-api/routes"
	"maintenance-api/services"
	"maintenance-api/storage"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	logFile, _ := config.InitLogging()
	if logFile != nil {
		defer logFile.Close()
	}

	db, err := config.ConnectDB()
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Store{},
		&models.MaintenanceService{},
		&models.MaintenanceRequest{},
		&models.Attachment{},
		&models.RequestStatusLog{},
		&models.Notification{},
		&models.User{},
	); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	// Set Gin mode
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	uploadPath := os.Getenv("UPLOAD_PATH")
	if uploadPath == "" {
		uploadPath = "./uploads"
	}
	baseURL := os.Getenv("PUBLIC_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	blobs, err := storage.NewLocalStore(uploadPath, baseURL+"/files")
	if err != nil {
		log.Fatal("Failed to prepare upload storage:", err)
	}

	mailer := config.NewMailerFromEnv()
	submissions := services.NewSubmissionService(db, blobs, mailer, config.AdminRecipients())
	tracking := services.NewTrackingService(db)
	status := services.NewStatusService(db)
	sessions := services.NewSessionManager(2 * time.Hour)

	// Sweep abandoned wizard drafts; they only ever live in memory.
	sweeper := cron.New()
	if _, err := sweeper.AddFunc("@every 15m", func() {
		if removed := sessions.SweepExpired(); removed > 0 {
			log.Printf("Swept %d expired wizard sessions", removed)
		}
	}); err != nil {
		log.Fatal("Failed to schedule session sweep:", err)
	}
	sweeper.Start()
	defer sweeper.Stop()

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// Security headers
	router.Use(func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	})

	router.Use(middleware.CORSMiddleware())

	routes.SetupRoutes(router, routes.Dependencies{
		DB:          db,
		Sessions:    sessions,
		Submissions: submissions,
		Tracking:    tracking,
		Status:      status,
		UploadRoot:  blobs.Root(),
	})

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
