package main

import (
	"context"
	"log"

	_ "invoicing/api/swagger" // swagger docs
	"invoicing/internal/config"
	"invoicing/internal/database"
	"invoicing/internal/handler"
	"invoicing/internal/middleware"
	"invoicing/internal/repository"
	"invoicing/internal/service"
	"invoicing/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Invoicing API
// @version         1.0
// @description     Tax invoicing backend: buyers, products, invoices with status tracking, monthly reports and PDF rendering.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	db, err := database.NewConnection(cfg.DSN)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	secret := []byte(cfg.JWTSecret)

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	buyerRepo := repository.NewBuyerRepository(db)
	productRepo := repository.NewProductRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	statusLogRepo := repository.NewStatusLogRepository(db)

	authService := service.NewAuthService(userRepo, secret)
	buyerService := service.NewBuyerService(buyerRepo)
	productService := service.NewProductService(productRepo)
	invoiceService := service.NewInvoiceService(invoiceRepo, buyerRepo, statusLogRepo, txManager, cfg.Seller, wsHub)
	reportService := service.NewReportService(db)

	// Seed the operator account on first run
	if err := authService.SeedOperator(context.Background(), cfg.OperatorUsername, cfg.OperatorPassword); err != nil {
		log.Fatalf("Failed to seed operator account: %v", err)
	}

	// Initialize Handlers
	authHandler := handler.NewAuthHandler(authService)
	buyerHandler := handler.NewBuyerHandler(buyerService)
	productHandler := handler.NewProductHandler(productService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	reportHandler := handler.NewReportHandler(reportService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173"} // Frontend URL
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

	// WebSocket endpoint for live invoice status updates
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, secret)
	})

	// Register API Routes; everything except login sits behind the auth guard
	authHandler.RegisterRoutes(router.Group(""))

	protected := router.Group("", middleware.RequireAuth(secret))
	buyerHandler.RegisterRoutes(protected)
	productHandler.RegisterRoutes(protected)
	invoiceHandler.RegisterRoutes(protected)
	reportHandler.RegisterRoutes(protected)

	log.Printf("Server listening on :%s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
