package repositories

import (
	"context"
	"errors"
	"time"

	"church-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DevotionalRepository struct {
	DB *pgxpool.Pool
}

func NewDevotionalRepository(db *pgxpool.Pool) *DevotionalRepository {
	return &DevotionalRepository{DB: db}
}

func (r *DevotionalRepository) Create(ctx context.Context, d *models.Devotional) error {
	return r.DB.QueryRow(ctx,
		`INSERT INTO devotionals(title, verse, content, author, publish_date, created_by)
         VALUES($1, $2, $3, $4, $5, $6)
         RETURNING id, created_at, updated_at`,
		d.Title, d.Verse, d.Content, d.Author, d.PublishDate, d.CreatedBy,
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
}

func (r *DevotionalRepository) Get(ctx context.Context, id int) (*models.Devotional, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, title, verse, content, author, publish_date, created_by, created_at, updated_at
         FROM devotionals WHERE id=$1`, id)

	var d models.Devotional
	err := row.Scan(&d.ID, &d.Title, &d.Verse, &d.Content, &d.Author,
		&d.PublishDate, &d.CreatedBy, &d.CreatedAt, &d.UpdatedAt)
	return &d, err
}

// GetForDate returns the devotional published on the given day, or nil
func (r *DevotionalRepository) GetForDate(ctx context.Context, dayStart, dayEnd time.Time) (*models.Devotional, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT id, title, verse, content, author, publish_date, created_by, created_at, updated_at
         FROM devotionals WHERE publish_date >= $1 AND publish_date < $2
         ORDER BY publish_date DESC LIMIT 1`, dayStart, dayEnd)

	var d models.Devotional
	err := row.Scan(&d.ID, &d.Title, &d.Verse, &d.Content, &d.Author,
		&d.PublishDate, &d.CreatedBy, &d.CreatedAt, &d.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DevotionalRepository) List(ctx context.Context) ([]*models.Devotional, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, title, verse, content, author, publish_date, created_by, created_at, updated_at
         FROM devotionals ORDER BY publish_date DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var devotionals []*models.Devotional
	for rows.Next() {
		var d models.Devotional
		err := rows.Scan(&d.ID, &d.Title, &d.Verse, &d.Content, &d.Author,
			&d.PublishDate, &d.CreatedBy, &d.CreatedAt, &d.UpdatedAt)
		if err != nil {
			return nil, err
		}
		devotionals = append(devotionals, &d)
	}
	return devotionals, rows.Err()
}

func (r *DevotionalRepository) Update(ctx context.Context, d *models.Devotional) error {
	_, err := r.DB.Exec(ctx,
		`UPDATE devotionals SET title=$1, verse=$2, content=$3, author=$4, publish_date=$5, updated_at=NOW()
         WHERE id=$6`,
		d.Title, d.Verse, d.Content, d.Author, d.PublishDate, d.ID)
	return err
}

func (r *DevotionalRepository) Delete(ctx context.Context, id int) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM devotionals WHERE id=$1`, id)
	return err
}
