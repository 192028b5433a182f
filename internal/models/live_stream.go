package models

import "time"

// StreamStatus is the broadcast state of a scheduled stream
type StreamStatus string

const (
	StreamScheduled StreamStatus = "scheduled"
	StreamLive      StreamStatus = "live"
	StreamFinished  StreamStatus = "finished"
)

func (s StreamStatus) Valid() bool {
	return s == StreamScheduled || s == StreamLive || s == StreamFinished
}

// LiveStream is a scheduled or running service transmission
type LiveStream struct {
	ID          int          `json:"id"`
	Title       string       `json:"title"`
	Description *string      `json:"description,omitempty"`
	URL         string       `json:"url"`
	ScheduledAt time.Time    `json:"scheduled_at"`
	Status      StreamStatus `json:"status"`
	CreatedBy   int          `json:"created_by"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// CreateLiveStreamRequest represents the request body for scheduling a stream
type CreateLiveStreamRequest struct {
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	URL         string    `json:"url"`
	ScheduledAt time.Time `json:"scheduled_at"`
}
