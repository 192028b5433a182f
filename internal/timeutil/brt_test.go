package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStartOfDay(t *testing.T) {
	ts := time.Date(2026, 3, 15, 22, 45, 12, 0, BRT)
	got := StartOfDay(ts)

	assert.Equal(t, 2026, got.Year())
	assert.Equal(t, time.March, got.Month())
	assert.Equal(t, 15, got.Day())
	assert.Equal(t, 0, got.Hour())
	assert.Equal(t, 0, got.Minute())
}

func TestStartOfMonth(t *testing.T) {
	ts := time.Date(2026, 3, 15, 22, 45, 12, 0, BRT)
	got := StartOfMonth(ts)

	assert.Equal(t, 1, got.Day())
	assert.Equal(t, time.March, got.Month())
	assert.Equal(t, 0, got.Hour())
}

func TestDaysSince(t *testing.T) {
	now := time.Date(2026, 3, 31, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 30, DaysSince(now.AddDate(0, 0, -30), now))
	assert.Equal(t, 0, DaysSince(now.Add(-2*time.Hour), now))
}

func TestAgeAt(t *testing.T) {
	now := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

	// birthday already passed this year
	assert.Equal(t, 36, AgeAt(time.Date(1990, 3, 1, 0, 0, 0, 0, time.UTC), now))
	// birthday is today
	assert.Equal(t, 36, AgeAt(time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC), now))
	// birthday still ahead this year
	assert.Equal(t, 35, AgeAt(time.Date(1990, 6, 16, 0, 0, 0, 0, time.UTC), now))
	assert.Equal(t, 35, AgeAt(time.Date(1990, 12, 25, 0, 0, 0, 0, time.UTC), now))
}
