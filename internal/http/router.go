package http

import (
	"church-backend/internal/handlers"
	"church-backend/internal/middleware"
	"church-backend/internal/ws"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	totpHandler *handlers.TOTPHandler,
	visitorHandler *handlers.VisitorHandler,
	devotionalHandler *handlers.DevotionalHandler,
	liveStreamHandler *handlers.LiveStreamHandler,
	reportHandler *handlers.ReportHandler,
	backupHandler *handlers.BackupHandler,
	auditLogHandler *handlers.AuditLogHandler,
	healthHandler *handlers.HealthHandler,
	hub *ws.Hub,
	authMiddleware *middleware.AuthMiddleware,
) *mux.Router {
	r := mux.NewRouter()

	// Public routes
	r.HandleFunc("/health", healthHandler.Health).Methods("GET")
	r.HandleFunc("/ready", healthHandler.Ready).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	r.HandleFunc("/ws", hub.HandleWebSocket)

	r.HandleFunc("/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Public content for the church site
	r.HandleFunc("/api/public/devotionals/today", devotionalHandler.GetToday).Methods("GET")
	r.HandleFunc("/api/public/streams/upcoming", liveStreamHandler.ListUpcoming).Methods("GET")

	// Authenticated profile routes
	meAPI := r.PathPrefix("/api/me").Subrouter()
	meAPI.Use(authMiddleware.Authenticate)
	meAPI.HandleFunc("", authHandler.Me).Methods("GET")
	meAPI.HandleFunc("/totp/setup", totpHandler.Setup).Methods("POST")
	meAPI.HandleFunc("/totp/verify", totpHandler.Verify).Methods("POST")
	meAPI.HandleFunc("/totp/disable", totpHandler.Disable).Methods("POST")

	// Visitors
	visitorsAPI := r.PathPrefix("/api/visitors").Subrouter()
	visitorsAPI.Use(authMiddleware.Authenticate)
	visitorsAPI.HandleFunc("", visitorHandler.ListVisitors).Methods("GET")
	visitorsAPI.HandleFunc("", visitorHandler.CreateVisitor).Methods("POST")
	visitorsAPI.HandleFunc("/stats", visitorHandler.GetStats).Methods("GET")
	visitorsAPI.HandleFunc("/{id}", visitorHandler.GetVisitor).Methods("GET")
	visitorsAPI.HandleFunc("/{id}", visitorHandler.UpdateVisitor).Methods("PUT")
	visitorsAPI.HandleFunc("/{id}", visitorHandler.DeleteVisitor).Methods("DELETE")
	visitorsAPI.HandleFunc("/{id}/contact-attempts", visitorHandler.AddContactAttempt).Methods("POST")
	visitorsAPI.HandleFunc("/{id}/visits", visitorHandler.RecordVisit).Methods("POST")
	visitorsAPI.HandleFunc("/{id}/visits", visitorHandler.VisitHistory).Methods("GET")
	visitorsAPI.HandleFunc("/{id}/convert", visitorHandler.ConvertToMember).Methods("POST")
	visitorsAPI.HandleFunc("/{id}/follow-up", visitorHandler.SendFollowUp).Methods("POST")

	// Devotionals
	devotionalsAPI := r.PathPrefix("/api/devotionals").Subrouter()
	devotionalsAPI.Use(authMiddleware.Authenticate)
	devotionalsAPI.HandleFunc("", devotionalHandler.ListDevotionals).Methods("GET")
	devotionalsAPI.HandleFunc("", devotionalHandler.CreateDevotional).Methods("POST")
	devotionalsAPI.HandleFunc("/{id}", devotionalHandler.GetDevotional).Methods("GET")
	devotionalsAPI.HandleFunc("/{id}", devotionalHandler.UpdateDevotional).Methods("PUT")
	devotionalsAPI.HandleFunc("/{id}", devotionalHandler.DeleteDevotional).Methods("DELETE")

	// Live streams
	streamsAPI := r.PathPrefix("/api/streams").Subrouter()
	streamsAPI.Use(authMiddleware.Authenticate)
	streamsAPI.HandleFunc("", liveStreamHandler.ListStreams).Methods("GET")
	streamsAPI.HandleFunc("", liveStreamHandler.CreateStream).Methods("POST")
	streamsAPI.HandleFunc("/{id}", liveStreamHandler.GetStream).Methods("GET")
	streamsAPI.HandleFunc("/{id}", liveStreamHandler.DeleteStream).Methods("DELETE")
	streamsAPI.HandleFunc("/{id}/status", liveStreamHandler.SetStatus).Methods("PATCH")

	// Reports
	reportsAPI := r.PathPrefix("/api/reports").Subrouter()
	reportsAPI.Use(authMiddleware.Authenticate)
	reportsAPI.HandleFunc("/visitors/csv", reportHandler.VisitorsCSV).Methods("GET")
	reportsAPI.HandleFunc("/visitors/summary", reportHandler.MonthlySummaryPDF).Methods("GET")
	reportsAPI.HandleFunc("/visitors/{id}", reportHandler.VisitorPDF).Methods("GET")

	// Admin-only routes
	usersAPI := r.PathPrefix("/api/users").Subrouter()
	usersAPI.Use(authMiddleware.Authenticate)
	usersAPI.Use(authMiddleware.RequireAdmin)
	usersAPI.HandleFunc("", userHandler.ListUsers).Methods("GET")
	usersAPI.HandleFunc("", userHandler.CreateUser).Methods("POST")
	usersAPI.HandleFunc("/{id}", userHandler.GetUser).Methods("GET")
	usersAPI.HandleFunc("/{id}", userHandler.UpdateUser).Methods("PUT")
	usersAPI.HandleFunc("/{id}", userHandler.DeleteUser).Methods("DELETE")

	adminAPI := r.PathPrefix("/api/admin").Subrouter()
	adminAPI.Use(authMiddleware.Authenticate)
	adminAPI.Use(authMiddleware.RequireAdmin)
	adminAPI.HandleFunc("/audit-logs", auditLogHandler.ListLogs).Methods("GET")
	adminAPI.HandleFunc("/backup", backupHandler.TriggerBackup).Methods("POST")

	return r
}
