package models

import "time"

// ServiceType identifies which service or event a visit belongs to
type ServiceType string

const (
	ServiceSundayMorning ServiceType = "sunday_morning"
	ServiceSundayEvening ServiceType = "sunday_evening"
	ServiceWednesday     ServiceType = "wednesday"
	ServiceFriday        ServiceType = "friday"
	ServiceSpecialEvent  ServiceType = "special_event"
	ServiceOther         ServiceType = "other"
)

func (s ServiceType) Valid() bool {
	switch s {
	case ServiceSundayMorning, ServiceSundayEvening, ServiceWednesday,
		ServiceFriday, ServiceSpecialEvent, ServiceOther:
		return true
	}
	return false
}

// VisitRecord is one attendance event, distinct from the visitor's
// aggregate total_visits counter
type VisitRecord struct {
	ID           int         `json:"id"`
	VisitorID    int         `json:"visitor_id"`
	VisitDate    time.Time   `json:"visit_date"`
	Service      ServiceType `json:"service"`
	RegisteredBy int         `json:"registered_by"`
	Notes        *string     `json:"notes,omitempty"`
	BroughtBy    *string     `json:"brought_by,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
}

// RecordVisitRequest represents the request body for registering an attendance
type RecordVisitRequest struct {
	VisitorID int         `json:"visitor_id"`
	VisitDate time.Time   `json:"visit_date"`
	Service   ServiceType `json:"service"`
	Notes     *string     `json:"notes"`
	BroughtBy *string     `json:"brought_by"`
}
