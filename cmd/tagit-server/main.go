package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/tagit-app/tagit-go/internal/api"
	"github.com/tagit-app/tagit-go/internal/config"
	"github.com/tagit-app/tagit-go/internal/dispatch"
	"github.com/tagit-app/tagit-go/internal/escalation"
	"github.com/tagit-app/tagit-go/internal/logging"
	"github.com/tagit-app/tagit-go/internal/notify"
	"github.com/tagit-app/tagit-go/internal/repository"
	"github.com/tagit-app/tagit-go/internal/retention"
	"github.com/tagit-app/tagit-go/internal/submission"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(cfg.Logging.Level)

	slog.Info("Server starting", "host", cfg.Server.Host, "port", cfg.Server.Port)

	db, err := repository.NewSQLiteDB(cfg.DB.Path)
	if err != nil {
		logging.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Broadcaster for dashboard event streams
	broadcaster := notify.NewBroadcaster()

	// Optional eviction of old resolved reports
	var sweeper *retention.Sweeper
	if cfg.Retention.Enabled {
		sweeper = retention.NewSweeper(db, cfg.Retention.MaxAge, cfg.Retention.SweepInterval)
		sweeper.Start(ctx)
	}

	// Per-report escalation timers
	scheduler := escalation.NewScheduler(db, broadcaster, cfg.Escalation.Duration)

	// Submission pipeline routes through the mock dispatch endpoint
	dispatcher := dispatch.NewClient(cfg.DispatchURL(), cfg.Dispatch.Timeout, cfg.Dispatch.Attempts)
	submissions := submission.NewService(db, dispatcher, scheduler, broadcaster)

	// Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false, // Set to false when using wildcard origins
	}))
	router.Use(api.RateLimitMiddleware(cfg.RateLimit.RPS))

	handler := api.NewHandler(db, db, submissions, broadcaster, cfg.Dispatch.Latency)
	handler.RegisterRoutes(router)

	registerStaticRoutes(router, cfg.Static.Dir)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down...")

	cancel()
	if sweeper != nil {
		sweeper.Stop()
	}
	scheduler.Stop()
	broadcaster.Close() // Close all event streams gracefully

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
}

// registerStaticRoutes serves the dashboard HTML entry points when a
// static directory is configured.
func registerStaticRoutes(router *gin.Engine, dir string) {
	if dir == "" {
		return
	}

	router.StaticFile("/", filepath.Join(dir, "index.html"))
	for _, page := range []string{"index.html", "tag.html", "login.html", "dashboard.html", "authority-dashboard.html"} {
		router.StaticFile("/"+page, filepath.Join(dir, page))
	}
	router.Static("/assets", filepath.Join(dir, "assets"))
}
