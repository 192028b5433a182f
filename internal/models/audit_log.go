package models

import "time"

// AuditLog records one mutating API call for the admin activity trail
type AuditLog struct {
	ID         int       `json:"id"`
	UserID     *int      `json:"user_id,omitempty"`
	Method     string    `json:"method"`
	Path       string    `json:"path"`
	StatusCode int       `json:"status_code"`
	DurationMs int64     `json:"duration_ms"`
	IPAddress  string    `json:"ip_address"`
	CreatedAt  time.Time `json:"created_at"`
}
