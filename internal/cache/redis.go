package cache

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"church-backend/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	VisitorStatsKey = "visitors:stats"
	StatsTTL        = 60 * time.Second
)

var client *redis.Client

// Init initializes the Redis connection. A failed connection leaves the
// client nil and every helper degrades to a no-op, so the API keeps serving
// from the database.
func Init() error {
	// K8s sets REDIS_SERVICE_HOST and REDIS_SERVICE_PORT for services
	host := os.Getenv("REDIS_SERVICE_HOST")
	if host == "" {
		host = "redis" // fallback to service name
	}
	port := os.Getenv("REDIS_SERVICE_PORT")
	if port == "" {
		port = "6379"
	}

	client = redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		client = nil
		return err
	}
	return nil
}

// GetClient returns the Redis client
func GetClient() *redis.Client {
	return client
}

// Ping reports whether Redis is connected and responding
func Ping(ctx context.Context) bool {
	if client == nil {
		return false
	}
	return client.Ping(ctx).Err() == nil
}

// GetVisitorStats returns cached stats, or (nil, false) on miss or when
// Redis is unavailable
func GetVisitorStats(ctx context.Context) (*models.VisitorStats, bool) {
	if client == nil {
		return nil, false
	}
	raw, err := client.Get(ctx, VisitorStatsKey).Bytes()
	if err != nil {
		return nil, false
	}
	var stats models.VisitorStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		return nil, false
	}
	return &stats, true
}

// SetVisitorStats caches stats for StatsTTL
func SetVisitorStats(ctx context.Context, stats *models.VisitorStats) {
	if client == nil {
		return
	}
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	client.Set(ctx, VisitorStatsKey, raw, StatsTTL)
}

// InvalidateVisitorStats drops the cached stats after a mutation
func InvalidateVisitorStats(ctx context.Context) {
	if client == nil {
		return
	}
	client.Del(ctx, VisitorStatsKey)
}
