package services

import (
	"testing"
	"time"

	"church-backend/internal/models"

	"github.com/stretchr/testify/assert"
)

func activeVisitor() *models.Visitor {
	return &models.Visitor{
		ID:             1,
		Name:           "Maria Santos",
		Status:         models.VisitorActive,
		FollowUpStatus: models.FollowUpPending,
		FirstVisitDate: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
		TotalVisits:    1,
	}
}

func TestNeedsFollowUp(t *testing.T) {
	tests := []struct {
		name     string
		status   models.VisitorStatus
		followUp models.FollowUpStatus
		want     bool
	}{
		{"active pending", models.VisitorActive, models.FollowUpPending, true},
		{"active in progress", models.VisitorActive, models.FollowUpInProgress, true},
		{"active completed", models.VisitorActive, models.FollowUpCompleted, false},
		{"active no response", models.VisitorActive, models.FollowUpNoResponse, false},
		{"converted pending", models.VisitorConverted, models.FollowUpPending, false},
		{"inactive in progress", models.VisitorInactive, models.FollowUpInProgress, false},
		{"no contact pending", models.VisitorNoContact, models.FollowUpPending, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := activeVisitor()
			v.Status = tt.status
			v.FollowUpStatus = tt.followUp
			assert.Equal(t, tt.want, NeedsFollowUp(v))
		})
	}
}

func TestIsEligibleForConversion(t *testing.T) {
	v := activeVisitor()
	v.TotalVisits = 3
	v.FollowUpStatus = models.FollowUpCompleted
	assert.True(t, IsEligibleForConversion(v, DefaultMinVisitsForConversion))

	// boundary: exactly minVisits counts
	v.TotalVisits = DefaultMinVisitsForConversion
	assert.True(t, IsEligibleForConversion(v, DefaultMinVisitsForConversion))

	v.TotalVisits = 2
	assert.False(t, IsEligibleForConversion(v, DefaultMinVisitsForConversion))

	v.TotalVisits = 5
	v.FollowUpStatus = models.FollowUpInProgress
	assert.False(t, IsEligibleForConversion(v, DefaultMinVisitsForConversion))

	v.FollowUpStatus = models.FollowUpCompleted
	v.IsMember = true
	assert.False(t, IsEligibleForConversion(v, DefaultMinVisitsForConversion))

	v.IsMember = false
	v.Status = models.VisitorInactive
	assert.False(t, IsEligibleForConversion(v, DefaultMinVisitsForConversion))
}

func TestIsAtRisk(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	v := activeVisitor()
	lastVisit := now.AddDate(0, 0, -40)
	v.LastVisitDate = &lastVisit
	assert.True(t, IsAtRisk(v, DefaultAtRiskDays, now))

	recent := now.AddDate(0, 0, -5)
	v.LastVisitDate = &recent
	assert.False(t, IsAtRisk(v, DefaultAtRiskDays, now))

	// without a last visit the first visit date is the reference
	v.LastVisitDate = nil
	v.FirstVisitDate = now.AddDate(0, 0, -45)
	assert.True(t, IsAtRisk(v, DefaultAtRiskDays, now))

	v.FirstVisitDate = now.AddDate(0, 0, -10)
	assert.False(t, IsAtRisk(v, DefaultAtRiskDays, now))

	// inactive visitors are never flagged
	v.Status = models.VisitorInactive
	v.FirstVisitDate = now.AddDate(0, 0, -100)
	assert.False(t, IsAtRisk(v, DefaultAtRiskDays, now))
}

func TestHasRecentContact(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	v := activeVisitor()
	assert.False(t, HasRecentContact(v, DefaultRecentContactDays, now))

	v.ContactAttempts = []*models.ContactAttempt{
		{ID: 1, Date: now.AddDate(0, 0, -20)},
	}
	assert.False(t, HasRecentContact(v, DefaultRecentContactDays, now))

	v.ContactAttempts = append(v.ContactAttempts, &models.ContactAttempt{ID: 2, Date: now.AddDate(0, 0, -3)})
	assert.True(t, HasRecentContact(v, DefaultRecentContactDays, now))
}

func TestLastContactAttempt(t *testing.T) {
	v := activeVisitor()
	assert.Nil(t, LastContactAttempt(v))

	d1 := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	d2 := time.Date(2026, 2, 10, 10, 0, 0, 0, time.UTC)
	next := time.Date(2026, 2, 20, 10, 0, 0, 0, time.UTC)
	v.ContactAttempts = []*models.ContactAttempt{
		{ID: 2, Date: d2, NextContactDate: &next},
		{ID: 1, Date: d1},
	}

	last := LastContactAttempt(v)
	assert.Equal(t, 2, last.ID)
	assert.Equal(t, &next, NextScheduledContact(v))
}

func TestContactSuccessRate(t *testing.T) {
	v := activeVisitor()
	assert.Equal(t, 0.0, ContactSuccessRate(v))

	v.ContactAttempts = []*models.ContactAttempt{
		{ID: 1, Successful: true},
		{ID: 2, Successful: false},
		{ID: 3, Successful: true},
		{ID: 4, Successful: true},
	}
	assert.Equal(t, 75.0, ContactSuccessRate(v))
}

func TestAge(t *testing.T) {
	now := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

	v := activeVisitor()
	assert.Nil(t, Age(v, now))

	birth := time.Date(1990, 6, 16, 0, 0, 0, 0, time.UTC)
	v.BirthDate = &birth
	age := Age(v, now)
	assert.NotNil(t, age)
	assert.Equal(t, 35, *age) // birthday tomorrow

	birth = time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC)
	v.BirthDate = &birth
	assert.Equal(t, 36, *Age(v, now))
}
