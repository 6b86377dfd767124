package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"legalease-backend/internal/config"
	"legalease-backend/internal/logger"
	"legalease-backend/internal/telemetry"
	"legalease-backend/middleware"
	"legalease-backend/routes"
	"legalease-backend/services"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger.InitLogger(cfg)

	// Tracing is opt-in; without a collector the exporter just fails
	if cfg.TracingEnabled {
		shutdown, err := telemetry.InitTracer(cfg.ServiceName, cfg.OTLPEndpoint)
		if err != nil {
			logger.Warn("Failed to initialize tracer, continuing without tracing", "error", err)
		} else {
			defer shutdown()
		}
	}

	metrics, err := telemetry.InitMetrics()
	if err != nil {
		logger.Warn("Failed to initialize metrics", "error", err)
	}

	// Connect to MongoDB
	mongoClient, err := config.ConnectMongoDB(cfg)
	if err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		mongoClient.Disconnect(ctx)
	}()

	// Redis backs the glossary cache; the service works without it
	rdb, err := config.NewRedisClient(cfg)
	if err != nil {
		logger.Warn("Redis unavailable, glossary cache disabled", "error", err)
		rdb = nil
	}

	// Build the pipeline
	store := services.NewMongoAnalysisStore(mongoClient, cfg.DBName, metrics)
	sectionizer := services.NewSectionizerService(cfg.ChunkSize)

	backend, err := services.NewBackendFromConfig(cfg)
	if err != nil {
		log.Fatal("Failed to configure summarization backend:", err)
	}

	pipeline := services.NewPipelineService(
		services.NewExtractorService(),
		services.NewLanguageDetector(),
		services.GetTranslationService(cfg),
		sectionizer,
		services.NewSummarizationService(backend, sectionizer),
		services.NewJargonExtractor(),
		services.NewGlossaryService(cfg.DictionaryAPIURL, rdb, cfg.GlossaryCacheTTL),
		store,
		metrics,
	)

	// Background reaper for runs that died mid-pipeline
	reaper := services.NewReaperService(store, cfg.StaleAfterMinutes, cfg.ReaperIntervalMins)
	if err := reaper.Start(); err != nil {
		logger.Error("Failed to start stale analysis reaper", "error", err)
	}
	defer reaper.Stop()

	// Initialize Gin router
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(otelgin.Middleware(cfg.ServiceName))
	router.Use(middleware.MetricsMiddleware(metrics))

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"}
	corsConfig.AllowCredentials = true
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now()})
	})

	// Setup routes
	authMiddleware := middleware.NewAuthMiddleware(cfg)
	routes.SetupUploadRoutes(router, routes.NewUploadHandler(pipeline, cfg), authMiddleware)
	routes.SetupHistoryRoutes(router, routes.NewHistoryHandler(store, services.NewExportService()), authMiddleware)

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	logger.Info("Server exited")
}
