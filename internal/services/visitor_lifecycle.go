package services

import (
	"time"

	"church-backend/internal/models"
	"church-backend/internal/timeutil"
)

// Follow-up workflow defaults
const (
	DefaultMinVisitsForConversion = 3
	DefaultAtRiskDays             = 30
	DefaultRecentContactDays      = 7
)

// The functions below are the follow-up workflow rules. They are pure: they
// read a visitor value and never touch the store.

// NeedsFollowUp reports whether the outreach team still owes this visitor a
// contact. Converted and inactive visitors are out of the workflow entirely.
func NeedsFollowUp(v *models.Visitor) bool {
	if v.Status == models.VisitorConverted || v.Status == models.VisitorInactive {
		return false
	}
	return v.FollowUpStatus == models.FollowUpPending || v.FollowUpStatus == models.FollowUpInProgress
}

// IsEligibleForConversion reports whether a visitor can be promoted to
// member: not yet a member, active, at least minVisits visits (the boundary
// counts) and a completed follow-up.
func IsEligibleForConversion(v *models.Visitor, minVisits int) bool {
	if v.IsMember {
		return false
	}
	if v.Status != models.VisitorActive {
		return false
	}
	if v.TotalVisits < minVisits {
		return false
	}
	return v.FollowUpStatus == models.FollowUpCompleted
}

// IsAtRisk reports whether an active visitor has stayed away longer than
// thresholdDays. Visitors without a recorded last visit are measured from
// their first visit.
func IsAtRisk(v *models.Visitor, thresholdDays int, now time.Time) bool {
	if v.Status != models.VisitorActive {
		return false
	}
	ref := v.FirstVisitDate
	if v.LastVisitDate != nil {
		ref = *v.LastVisitDate
	}
	return timeutil.DaysSince(ref, now) > thresholdDays
}

// HasRecentContact reports whether any attempt was made within the last
// withinDays days
func HasRecentContact(v *models.Visitor, withinDays int, now time.Time) bool {
	cutoff := now.AddDate(0, 0, -withinDays)
	for _, a := range v.ContactAttempts {
		if !a.Date.Before(cutoff) {
			return true
		}
	}
	return false
}

// LastContactAttempt returns the most recent attempt by date, or nil
func LastContactAttempt(v *models.Visitor) *models.ContactAttempt {
	var last *models.ContactAttempt
	for _, a := range v.ContactAttempts {
		if last == nil || a.Date.After(last.Date) {
			last = a
		}
	}
	return last
}

// ContactSuccessRate returns the percentage of successful attempts, 0 when
// none were made
func ContactSuccessRate(v *models.Visitor) float64 {
	if len(v.ContactAttempts) == 0 {
		return 0
	}
	successful := 0
	for _, a := range v.ContactAttempts {
		if a.Successful {
			successful++
		}
	}
	return 100 * float64(successful) / float64(len(v.ContactAttempts))
}

// NextScheduledContact returns the next-contact date of the most recent
// attempt, or nil when nothing is scheduled
func NextScheduledContact(v *models.Visitor) *time.Time {
	last := LastContactAttempt(v)
	if last == nil {
		return nil
	}
	return last.NextContactDate
}

// Age returns the visitor's age in whole years, or nil without a birth date
func Age(v *models.Visitor, now time.Time) *int {
	if v.BirthDate == nil {
		return nil
	}
	years := timeutil.AgeAt(*v.BirthDate, now)
	return &years
}
