package models

import "time"

// ContactType classifies why a visitor was contacted
type ContactType string

const (
	ContactWelcome       ContactType = "welcome"
	ContactFollowUp      ContactType = "follow_up"
	ContactInvitation    ContactType = "invitation"
	ContactPrayerRequest ContactType = "prayer_request"
	ContactOther         ContactType = "other"
)

func (t ContactType) Valid() bool {
	switch t {
	case ContactWelcome, ContactFollowUp, ContactInvitation, ContactPrayerRequest, ContactOther:
		return true
	}
	return false
}

// ContactMethod is the channel used for an outreach attempt
type ContactMethod string

const (
	MethodPhone    ContactMethod = "phone"
	MethodEmail    ContactMethod = "email"
	MethodWhatsApp ContactMethod = "whatsapp"
	MethodInPerson ContactMethod = "in_person"
	MethodLetter   ContactMethod = "letter"
)

func (m ContactMethod) Valid() bool {
	switch m {
	case MethodPhone, MethodEmail, MethodWhatsApp, MethodInPerson, MethodLetter:
		return true
	}
	return false
}

// ContactAttempt is one logged outreach interaction. Attempts are append-only:
// the service layer never removes or rewrites them.
type ContactAttempt struct {
	ID              int           `json:"id"`
	VisitorID       int           `json:"visitor_id"`
	Date            time.Time     `json:"date"`
	Type            ContactType   `json:"type"`
	Method          ContactMethod `json:"method"`
	Notes           string        `json:"notes"`
	Successful      bool          `json:"successful"`
	NextContactDate *time.Time    `json:"next_contact_date,omitempty"`
	ContactedBy     int           `json:"contacted_by"`
	CreatedAt       time.Time     `json:"created_at"`
}

// AddContactAttemptRequest represents the request body for logging an attempt.
// The attempt id is assigned by the store, never by the caller.
type AddContactAttemptRequest struct {
	Date            time.Time     `json:"date"`
	Type            ContactType   `json:"type"`
	Method          ContactMethod `json:"method"`
	Notes           string        `json:"notes"`
	Successful      bool          `json:"successful"`
	NextContactDate *time.Time    `json:"next_contact_date"`
}
