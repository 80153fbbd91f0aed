package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ASHISH26940/ai-video-studio-api/pkg/config"
	"github.com/ASHISH26940/ai-video-studio-api/pkg/db"
	"github.com/ASHISH26940/ai-video-studio-api/pkg/db/queries"
	"github.com/ASHISH26940/ai-video-studio-api/pkg/generation"
	"github.com/ASHISH26940/ai-video-studio-api/pkg/handlers"
	"github.com/ASHISH26940/ai-video-studio-api/pkg/llm"
	"github.com/ASHISH26940/ai-video-studio-api/pkg/metrics"
	"github.com/ASHISH26940/ai-video-studio-api/pkg/middleware"
	"github.com/ASHISH26940/ai-video-studio-api/pkg/services"
	cors "github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

func main() {
	log.SetOutput(gin.DefaultWriter)
	log.SetFormatter(&log.JSONFormatter{})
	log.Info("Starting AI Video Studio API...")

	cfg := config.LoadConfig()
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	} else {
		log.Warnf("Unknown LOG_LEVEL %q, using info", cfg.LogLevel)
		log.SetLevel(log.InfoLevel)
	}

	if err := db.InitDB(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.CloseDB()

	if err := prepareDatabase(cfg); err != nil {
		log.Fatalf("Failed to prepare database: %v", err)
	}

	llmClient, err := llm.NewGeminiService(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
	if err != nil {
		log.Fatalf("Failed to initialize LLM client: %v", err)
	}
	defer llmClient.Close()

	dispatcher := generation.NewDispatcher(queries.VideoStatusStore{}, llmClient, generation.Options{
		Workers:   cfg.GenerationWorkers,
		QueueSize: cfg.GenerationQueueSize,
	})
	dispatcher.Start()

	sessions := services.NewSessionService(cfg.JwtSecret)
	apiHandlers := handlers.NewHandlers(sessions, dispatcher)

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	stopCleanup := make(chan struct{})
	limiter.StartCleanup(10*time.Minute, stopCleanup)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(cors.New(corsConfig(cfg.CORSOrigins)))
	router.Use(middleware.SessionMiddleware(sessions))

	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	handlers.RegisterRoutes(router, apiHandlers, limiter.Handler())

	srv := &http.Server{
		Addr:              cfg.Host + ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("Server listening on %s:%s", cfg.Host, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}
	close(stopCleanup)

	if err := dispatcher.Shutdown(ctx); err != nil {
		log.Errorf("Generation dispatcher did not drain cleanly: %v", err)
	}

	log.Info("Server exited gracefully.")
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	return c
}

// prepareDatabase applies the schema when enabled and fails videos whose
// generation tasks died with a previous process.
func prepareDatabase(cfg *config.Config) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if cfg.AutoMigrate {
		if err := db.EnsureSchema(ctx); err != nil {
			return err
		}
	}
	_, err := queries.FailAbandonedVideos(ctx)
	return err
}
