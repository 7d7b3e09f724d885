package main

import (
	"log"

	"posbackend/internal/config"
	"posbackend/internal/database"
	"posbackend/internal/handler"
	"posbackend/internal/mailer"
	"posbackend/internal/middleware"
	"posbackend/internal/repository"
	"posbackend/internal/service"
	"posbackend/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Account Provisioning API
// @version         1.0
// @description     Multi-tenant inventory backend: accounts, role profiles and OTP password recovery.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	db, err := database.NewConnection(cfg.DSN())
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	// Set up WebSocket Hub for the admin audit stream
	wsHub := websocket.NewHub()
	go wsHub.Run()

	mail := mailer.New(mailer.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
		FromName: cfg.MailFromName,
	})

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewRefreshTokenRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	billerRepo := repository.NewBillerRepository(db)
	warehouseRepo := repository.NewWarehouseRepository(db)
	challengeRepo := repository.NewChallengeRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	auditService := service.NewAuditService(auditRepo, wsHub)
	accountService := service.NewAccountService(userRepo, tokenRepo, auditService, []byte(cfg.JWTSecret))
	profileService := service.NewProfileService(
		userRepo, supplierRepo, customerRepo, billerRepo, warehouseRepo,
		txManager, auditService, cfg.SupplierCodePrefix, cfg.BillerCodePrefix,
	)
	resetService := service.NewPasswordResetService(userRepo, challengeRepo, mail, auditService)
	warehouseService := service.NewWarehouseService(warehouseRepo, auditService)

	// Initialize Handlers
	accountHandler := handler.NewAccountHandler(accountService, resetService)
	supplierHandler := handler.NewSupplierHandler(profileService)
	customerHandler := handler.NewCustomerHandler(profileService)
	billerHandler := handler.NewBillerHandler(profileService)
	warehouseHandler := handler.NewWarehouseHandler(warehouseService)
	auditHandler := handler.NewAuditHandler(auditService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint (admin audit stream)
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	accountHandler.RegisterRoutes(router.Group(""))
	supplierHandler.RegisterRoutes(router.Group(""))
	customerHandler.RegisterRoutes(router.Group(""))
	billerHandler.RegisterRoutes(router.Group(""))
	warehouseHandler.RegisterRoutes(router.Group(""))
	auditHandler.RegisterRoutes(router.Group(""))

	log.Printf("Server listening on :%s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
