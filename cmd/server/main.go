package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"church-backend/internal/auth"
	"church-backend/internal/cache"
	"church-backend/internal/config"
	"church-backend/internal/database"
	"church-backend/internal/db"
	"church-backend/internal/handlers"
	"church-backend/internal/health"
	apphttp "church-backend/internal/http"
	"church-backend/internal/middleware"
	"church-backend/internal/repositories"
	"church-backend/internal/services"
	"church-backend/internal/whatsapp"
	"church-backend/internal/ws"
)

func main() {
	cfg := config.Load()

	pool := db.Connect(cfg)
	defer pool.Close()

	migrator := database.NewMigrator(pool)
	if err := migrator.RunMigrations(context.Background()); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	if err := cache.Init(); err != nil {
		log.Printf("[Cache] Redis unavailable, serving without cache: %v", err)
	}

	// Repositories
	visitorRepo := repositories.NewVisitorRepository(pool)
	userRepo := repositories.NewUserRepository(pool)
	devotionalRepo := repositories.NewDevotionalRepository(pool)
	liveStreamRepo := repositories.NewLiveStreamRepository(pool)
	auditLogRepo := repositories.NewAuditLogRepository(pool)

	// Services
	jwtManager := auth.NewJWTManager(cfg)
	totpService := services.NewTOTPService(userRepo)
	userService := services.NewUserService(userRepo, jwtManager, totpService)

	hub := ws.NewHub()

	visitorService := services.NewVisitorService(visitorRepo)
	visitorService.Events = hub
	if cfg.WhatsApp.APIKey != "" && cfg.WhatsApp.PhoneNumberID != "" {
		visitorService.Messenger = whatsapp.NewSender(cfg.WhatsApp.APIKey, cfg.WhatsApp.PhoneNumberID)
		log.Println("[WhatsApp] Follow-up messaging enabled")
	}

	reportService := services.NewReportService(visitorRepo)
	backupService := services.NewBackupService(cfg, reportService)
	if backupService.Enabled() {
		log.Println("[Backup] Bucket uploads enabled")
	}

	collector := services.NewMetricsCollector()
	collector.Start()
	defer collector.Stop()

	// Handlers
	authHandler := handlers.NewAuthHandler(userService)
	userHandler := handlers.NewUserHandler(userService)
	totpHandler := handlers.NewTOTPHandler(totpService, userService)
	visitorHandler := handlers.NewVisitorHandler(visitorService)
	devotionalHandler := handlers.NewDevotionalHandler(devotionalRepo)
	liveStreamHandler := handlers.NewLiveStreamHandler(liveStreamRepo, hub)
	reportHandler := handlers.NewReportHandler(reportService, visitorService)
	backupHandler := handlers.NewBackupHandler(backupService)
	auditLogHandler := handlers.NewAuditLogHandler(auditLogRepo)
	healthHandler := handlers.NewHealthHandler(health.NewHealthChecker(pool))

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, userRepo)
	auditMiddleware := middleware.NewAuditLoggingMiddleware(auditLogRepo)
	defer auditMiddleware.Close()

	router := apphttp.NewRouter(
		authHandler,
		userHandler,
		totpHandler,
		visitorHandler,
		devotionalHandler,
		liveStreamHandler,
		reportHandler,
		backupHandler,
		auditLogHandler,
		healthHandler,
		hub,
		authMiddleware,
	)

	handler := middleware.PanicRecovery(
		middleware.NewCORS(cfg)(
			middleware.MetricsMiddleware(
				auditMiddleware.Handler(router),
			),
		),
	)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Server running on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Forced shutdown: %v", err)
	}
	log.Println("Server stopped")
}
