package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"church-backend/internal/models"
	"church-backend/internal/repositories"
)

// AuditLoggingMiddleware records mutating API calls for the admin activity trail
type AuditLoggingMiddleware struct {
	repo    *repositories.AuditLogRepository
	logChan chan *models.AuditLog
}

// NewAuditLoggingMiddleware creates the middleware and starts its async writer
func NewAuditLoggingMiddleware(repo *repositories.AuditLogRepository) *AuditLoggingMiddleware {
	m := &AuditLoggingMiddleware{
		repo:    repo,
		logChan: make(chan *models.AuditLog, 1000),
	}

	go m.asyncWriter()

	return m
}

// asyncWriter persists entries off the request path
func (m *AuditLoggingMiddleware) asyncWriter() {
	for entry := range m.logChan {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		// Audit logging must never affect the request itself, but a
		// silent failure would leave gaps in the trail
		if err := m.repo.Insert(ctx, entry); err != nil {
			log.Printf("[Audit] Failed to persist entry %s %s: %v", entry.Method, entry.Path, err)
		}
		cancel()
	}
}

// Handler returns the middleware handler
func (m *AuditLoggingMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Only mutating calls go to the trail
		if !isMutating(r.Method) || shouldSkipAudit(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()

		wrapped := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start)

		var userID *int
		if id := UserID(r.Context()); id != 0 {
			userID = &id
		}

		entry := &models.AuditLog{
			UserID:     userID,
			Method:     r.Method,
			Path:       sanitizePath(r.URL.Path),
			StatusCode: wrapped.statusCode,
			DurationMs: duration.Milliseconds(),
			IPAddress:  getClientIP(r),
		}

		select {
		case m.logChan <- entry:
		default:
			log.Printf("[Audit] Log buffer full, dropping entry for %s", r.URL.Path)
		}
	})
}

func isMutating(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	}
	return false
}

func shouldSkipAudit(path string) bool {
	skipPaths := []string{
		"/health",
		"/metrics",
		"/auth/login",
		"/favicon.ico",
	}

	for _, skip := range skipPaths {
		if strings.HasPrefix(path, skip) {
			return true
		}
	}

	return false
}

// maxAuditPathLen matches the audit_logs.path column width
const maxAuditPathLen = 500

// sanitizePath removes query strings and truncates very long paths
func sanitizePath(path string) string {
	if idx := strings.Index(path, "?"); idx != -1 {
		path = path[:idx]
	}

	if len(path) > maxAuditPathLen {
		path = path[:maxAuditPathLen]
	}

	return path
}

// getClientIP extracts the client IP from the request
func getClientIP(r *http.Request) string {
	xff := r.Header.Get("X-Forwarded-For")
	if xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}

	return ip
}

// Close stops the async writer
func (m *AuditLoggingMiddleware) Close() {
	close(m.logChan)
}
