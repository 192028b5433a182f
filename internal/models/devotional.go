package models

import "time"

// Devotional is a daily reading published on the church home page
type Devotional struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Verse       string    `json:"verse"`
	Content     string    `json:"content"`
	Author      string    `json:"author"`
	PublishDate time.Time `json:"publish_date"`
	CreatedBy   int       `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateDevotionalRequest represents the request body for creating a devotional
type CreateDevotionalRequest struct {
	Title       string    `json:"title"`
	Verse       string    `json:"verse"`
	Content     string    `json:"content"`
	Author      string    `json:"author"`
	PublishDate time.Time `json:"publish_date"`
}
