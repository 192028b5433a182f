package repositories

import (
	"context"

	"church-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type AuditLogRepository struct {
	DB *pgxpool.Pool
}

func NewAuditLogRepository(db *pgxpool.Pool) *AuditLogRepository {
	return &AuditLogRepository{DB: db}
}

// Insert records one mutating API call
func (r *AuditLogRepository) Insert(ctx context.Context, l *models.AuditLog) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO audit_logs(user_id, method, path, status_code, duration_ms, ip_address)
         VALUES($1, $2, $3, $4, $5, $6)
         RETURNING id, created_at`,
		l.UserID, l.Method, l.Path, l.StatusCode, l.DurationMs, l.IPAddress,
	).Scan(&l.ID, &l.CreatedAt)
}

// ListRecent returns the newest entries, most recent first
func (r *AuditLogRepository) ListRecent(ctx context.Context, limit int) ([]*models.AuditLog, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := r.DB.Query(ctx,
		`SELECT id, user_id, method, path, status_code, duration_ms, ip_address, created_at
         FROM audit_logs ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []*models.AuditLog
	for rows.Next() {
		var l models.AuditLog
		err := rows.Scan(&l.ID, &l.UserID, &l.Method, &l.Path, &l.StatusCode,
			&l.DurationMs, &l.IPAddress, &l.CreatedAt)
		if err != nil {
			return nil, err
		}
		logs = append(logs, &l)
	}
	return logs, rows.Err()
}
