package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"covid_tracker/internal/config"
	"covid_tracker/internal/fetcher"
	"covid_tracker/internal/handler"
	"covid_tracker/internal/middleware"
	"covid_tracker/internal/oauth"
	"covid_tracker/internal/repository"
	"covid_tracker/internal/service"
	"covid_tracker/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found or error loading, relying on environment variables")
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	// --- Configuration ---
	dbCfg, err := config.LoadDBConfig()
	if err != nil {
		logger.Fatal("Failed to load DB config", zap.Error(err))
	}
	appCfg, err := config.LoadAppConfig()
	if err != nil {
		logger.Fatal("Failed to load app config", zap.Error(err))
	}

	// --- Database Connection ---
	dbPool, err := config.ConnectDB(dbCfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer dbPool.Close()

	// --- Auto Migration ---
	if err := config.AutoMigrate(dbPool); err != nil {
		logger.Fatal("Failed to auto-migrate database", zap.Error(err))
	}

	// --- Initialize Utilities ---
	jwtUtil := utils.NewJWTUtil(appCfg.JWTSecret, appCfg.JWTExpHours)
	cacheTTL := time.Duration(appCfg.CacheTTLSeconds) * time.Second
	listCache := gocache.New(cacheTTL, 2*cacheTTL)

	// --- Initialize Repositories ---
	userRepo := repository.NewUserRepository(dbPool)
	statRepo := repository.NewStatRepository(dbPool)

	// --- Initialize Services ---
	authService := service.NewAuthService(userRepo, jwtUtil, appCfg.InitialAdminUsername, logger)
	statService := service.NewStatService(statRepo, listCache, logger)
	summaryClient := fetcher.NewClient(appCfg.CovidAPIURL, 15*time.Second, logger)
	ingestService := service.NewIngestService(summaryClient, statRepo, listCache, logger)

	// --- OAuth Providers ---
	providers := oauth.NewRegistry(
		oauth.NewGoogleProvider(appCfg.GoogleClientID, appCfg.GoogleClientSecret,
			appCfg.RedirectBaseURL+"/login/callback/google"),
		oauth.NewLinkedInProvider(appCfg.LinkedInClientID, appCfg.LinkedInClientSecret,
			appCfg.RedirectBaseURL+"/authorize/linkedin"),
	)

	// --- Initialize Handlers ---
	authHandler := handler.NewAuthHandler(authService, providers, appCfg.FrontendURL, logger)
	statHandler := handler.NewStatHandler(statService, ingestService, logger)

	// --- Setup Gin Router ---
	// gin.SetMode(gin.ReleaseMode) // Uncomment for production
	router := gin.Default()

	// Simple CORS middleware (allow all for development)
	// For production, configure specific origins, methods, headers
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	router.Use(middleware.RateLimitMiddleware(appCfg.RateLimitRPS, appCfg.RateLimitBurst))

	// --- Initialize Middlewares ---
	jwtAuthMW := middleware.JWTAuthMiddleware(jwtUtil)
	adminRoleMW := middleware.AdminMiddleware()

	// --- Register Routes ---
	// Routes live at the root: deployed clients call /auth/login and
	// /covid directly, without an /api prefix.
	rootGroup := router.Group("")
	authHandler.RegisterAuthRoutes(rootGroup)
	statHandler.RegisterStatRoutes(rootGroup, jwtAuthMW, adminRoleMW)

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		if err := dbPool.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "db": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "healthy"})
	})

	// --- Start Server ---
	srv := &http.Server{
		Addr:    ":" + appCfg.ServerPort,
		Handler: router,
	}

	go func() {
		logger.Info("Server starting", zap.String("port", appCfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}
