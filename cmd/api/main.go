package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"io.winapps.explorerdiary/internal/db"
	firebaseutil "io.winapps.explorerdiary/internal/firebase"
	"io.winapps.explorerdiary/internal/handlers"
	"io.winapps.explorerdiary/internal/imghost"
	"io.winapps.explorerdiary/internal/jobs"
	"io.winapps.explorerdiary/internal/logging"
	"io.winapps.explorerdiary/internal/middleware"
	"io.winapps.explorerdiary/internal/store"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	logger := logging.New()
	defer logger.Sync()

	// Initialize Firebase (auth service, and Firestore when selected)
	firebaseApp, err := firebaseutil.InitFirebase()
	if err != nil {
		logger.Fatalf("Failed to initialize Firebase: %v", err)
	}

	// Initialize Redis
	redisClient, err := db.InitRedis()
	if err != nil {
		logger.Fatalf("Failed to initialize Redis: %v", err)
	}
	defer redisClient.Close()

	// Pick the entry store backend: Firestore (default) or Postgres
	var entryStore store.EntryStore
	switch backend := os.Getenv("STORE_BACKEND"); backend {
	case "", "firestore":
		fsClient, err := firebaseutil.GetFirestoreClient(firebaseApp)
		if err != nil {
			logger.Fatalf("Failed to initialize Firestore: %v", err)
		}
		defer fsClient.Close()
		entryStore = store.NewFirestoreStore(fsClient)
	case "postgres":
		pool, err := db.InitPostgres()
		if err != nil {
			logger.Fatalf("Failed to initialize PostgreSQL: %v", err)
		}
		defer pool.Close()
		entryStore = store.NewPostgresStore(pool)
	default:
		logger.Fatalf("Unknown STORE_BACKEND %q", backend)
	}
	entryStore = store.NewCachedStore(entryStore, redisClient, logger)

	// Image host client
	images := imghost.NewClient(os.Getenv("IMGBB_API_KEY"))

	// Initialize Gin router
	router := gin.New()
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.RequestLoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// Add CORS middleware for the web client
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Initialize handlers
	entryHandler := handlers.NewEntryHandler(entryStore, images, redisClient, logger)

	// Define routes
	v1 := router.Group("/api/v1")
	{
		entries := v1.Group("/entries")
		entries.Use(middleware.AuthMiddleware(firebaseApp, redisClient))
		{
			entries.POST("/create-entry", entryHandler.CreateEntry)
			entries.POST("/list-entries", entryHandler.ListEntries)
			entries.POST("/get-entry", entryHandler.GetEntry)
			entries.POST("/delete-entry", entryHandler.DeleteEntry)
			entries.POST("/map-view", entryHandler.MapView)
			entries.POST("/stats", entryHandler.Stats)
			entries.POST("/export-data", entryHandler.ExportData)
			entries.POST("/export-progress", entryHandler.GetExportProgress)
			entries.GET("/export-download/:jobId", entryHandler.DownloadExport)
		}
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Hourly cleanup of expired export files
	cleanup := jobs.StartExportCleanup(handlers.ExportDir(), handlers.ExportJobTTL, logger)
	defer cleanup.Stop()

	port := os.Getenv("PORT")
	if port == "" {
		port = "9091"
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s...", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	// Give a 5 second timeout for graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Info("Server exited")
}
