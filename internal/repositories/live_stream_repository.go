package repositories

import (
	"context"
	"time"

	"church-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type LiveStreamRepository struct {
	DB *pgxpool.Pool
}

func NewLiveStreamRepository(db *pgxpool.Pool) *LiveStreamRepository {
	return &LiveStreamRepository{DB: db}
}

func (r *LiveStreamRepository) Create(ctx context.Context, s *models.LiveStream) error {
	if s.Status == "" {
		s.Status = models.StreamScheduled
	}
	return r.DB.QueryRow(ctx,
		`INSERT INTO live_streams(title, description, url, scheduled_at, status, created_by)
         VALUES($1, $2, $3, $4, $5, $6)
         RETURNING id, created_at, updated_at`,
		s.Title, s.Description, s.URL, s.ScheduledAt, s.Status, s.CreatedBy,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

func (r *LiveStreamRepository) Get(ctx context.Context, id int) (*models.LiveStream, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, title, description, url, scheduled_at, status, created_by, created_at, updated_at
         FROM live_streams WHERE id=$1`, id)

	var s models.LiveStream
	err := row.Scan(&s.ID, &s.Title, &s.Description, &s.URL, &s.ScheduledAt,
		&s.Status, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt)
	return &s, err
}

func (r *LiveStreamRepository) List(ctx context.Context) ([]*models.LiveStream, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, title, description, url, scheduled_at, status, created_by, created_at, updated_at
         FROM live_streams ORDER BY scheduled_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var streams []*models.LiveStream
	for rows.Next() {
		var s models.LiveStream
		err := rows.Scan(&s.ID, &s.Title, &s.Description, &s.URL, &s.ScheduledAt,
			&s.Status, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt)
		if err != nil {
			return nil, err
		}
		streams = append(streams, &s)
	}
	return streams, rows.Err()
}

// ListUpcoming returns streams scheduled in the [from, to) window plus any
// currently live ones, soonest first
func (r *LiveStreamRepository) ListUpcoming(ctx context.Context, from, to time.Time) ([]*models.LiveStream, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, title, description, url, scheduled_at, status, created_by, created_at, updated_at
         FROM live_streams
         WHERE status = 'live' OR (status = 'scheduled' AND scheduled_at >= $1 AND scheduled_at < $2)
         ORDER BY scheduled_at ASC`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var streams []*models.LiveStream
	for rows.Next() {
		var s models.LiveStream
		err := rows.Scan(&s.ID, &s.Title, &s.Description, &s.URL, &s.ScheduledAt,
			&s.Status, &s.CreatedBy, &s.CreatedAt, &s.UpdatedAt)
		if err != nil {
			return nil, err
		}
		streams = append(streams, &s)
	}
	return streams, rows.Err()
}

func (r *LiveStreamRepository) SetStatus(ctx context.Context, id int, status models.StreamStatus) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE live_streams SET status=$1, updated_at=NOW() WHERE id=$2`, status, id)
	return err
}

func (r *LiveStreamRepository) Delete(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM live_streams WHERE id=$1`, id)
	return err
}
