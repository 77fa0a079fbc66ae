package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"roundtracker/backend/internal/auth"
	"roundtracker/backend/internal/catalog"
	"roundtracker/backend/internal/config"
	"roundtracker/backend/internal/database"
	"roundtracker/backend/internal/handler"
	"roundtracker/backend/internal/hub"
	"roundtracker/backend/internal/mysterybox"

	"github.com/gin-gonic/gin"

	// Swagger imports
	_ "roundtracker/backend/docs" // Registers the Swagger document for gin-swagger

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func init() {
	config.LoadConfig()
}

// @title           RoundTracker API
// @version         1.0
// @description     Progression, leaderboards and mystery box lobbies for round-based zombies runs.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apiKey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.AppConfig
	gin.SetMode(cfg.GinMode)

	// Connect to the database
	database.Connect(cfg.DatabaseURL)

	file, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}
	cat, err := catalog.Sync(context.Background(), database.DB, file)
	if err != nil {
		log.Fatalf("Failed to sync catalog: %v", err)
	}
	log.Printf("Catalog synced: %d maps, %d achievements", len(cat.Maps()), len(cat.Achievements()))

	events := hub.New()
	h := handler.New(database.DB, cat, events)

	sched, err := mysterybox.StartTokenRefill(database.DB, cfg.TokenRefillInterval)
	if err != nil {
		log.Fatalf("Failed to start token refill: %v", err)
	}

	router := gin.Default()
	router.Use(auth.RequestID())

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})

	handler.RegisterRoutes(router, h)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}
	go func() {
		fmt.Printf("Server is running on :%s\n", cfg.Port)
		fmt.Printf("Swagger UI is available at http://localhost:%s/swagger/index.html\n", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	if err := sched.Shutdown(); err != nil {
		log.Printf("Scheduler shutdown: %v", err)
	}
	// Open event streams only end when their lobby closes or the client leaves.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}
