package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"church-backend/internal/cache"
	"church-backend/internal/metrics"
	"church-backend/internal/models"
	"church-backend/internal/timeutil"
)

// VisitorStore is the persistence surface the service needs; satisfied by
// repositories.VisitorRepository
type VisitorStore interface {
	Create(ctx context.Context, req *models.CreateVisitorRequest, createdBy int) (*models.Visitor, error)
	Get(ctx context.Context, id int) (*models.Visitor, error)
	List(ctx context.Context, f models.VisitorFilters, pageSize int, cursor string) (*models.VisitorPage, error)
	Update(ctx context.Context, id int, req *models.UpdateVisitorRequest) error
	Delete(ctx context.Context, id int) error
	AddContactAttempt(ctx context.Context, visitorID int, req *models.AddContactAttemptRequest, contactedBy int) (*models.ContactAttempt, error)
	RecordVisit(ctx context.Context, req *models.RecordVisitRequest, registeredBy int) (*models.VisitRecord, error)
	VisitHistory(ctx context.Context, visitorID int) ([]*models.VisitRecord, error)
	ConvertToMember(ctx context.Context, visitorID int, memberID string, convertedAt time.Time) error
	Stats(ctx context.Context, monthStart time.Time) (*models.VisitorStats, error)
}

// FollowUpMessenger sends an outreach message to a visitor's phone
type FollowUpMessenger interface {
	SendFollowUp(ctx context.Context, phone, visitorName, message string) error
}

// EventBroadcaster pushes domain events to connected dashboard clients
type EventBroadcaster interface {
	Broadcast(event string, payload interface{})
}

type VisitorService struct {
	Repo      VisitorStore
	Messenger FollowUpMessenger // optional
	Events    EventBroadcaster  // optional
}

func NewVisitorService(repo VisitorStore) *VisitorService {
	return &VisitorService{Repo: repo}
}

func (s *VisitorService) CreateVisitor(ctx context.Context, req *models.CreateVisitorRequest, createdBy int) (*models.Visitor, error) {
	if req.Name == "" {
		return nil, errors.New("name is required")
	}
	if req.FirstVisitDate.IsZero() {
		return nil, errors.New("first visit date is required")
	}
	if req.Gender != nil && !req.Gender.Valid() {
		return nil, fmt.Errorf("invalid gender: %s", *req.Gender)
	}
	if req.MaritalStatus != nil && !req.MaritalStatus.Valid() {
		return nil, fmt.Errorf("invalid marital status: %s", *req.MaritalStatus)
	}

	v, err := s.Repo.Create(ctx, req, createdBy)
	if err != nil {
		return nil, err
	}

	cache.InvalidateVisitorStats(ctx)
	metrics.VisitorsCreated.Inc()
	return v, nil
}

// GetVisitor returns (nil, nil) for an unknown id, never an error
func (s *VisitorService) GetVisitor(ctx context.Context, id int) (*models.Visitor, error) {
	return s.Repo.Get(ctx, id)
}

func (s *VisitorService) ListVisitors(ctx context.Context, f models.VisitorFilters, pageSize int, cursor string) (*models.VisitorPage, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, fmt.Errorf("invalid status filter: %s", f.Status)
	}
	if f.FollowUpStatus != "" && !f.FollowUpStatus.Valid() {
		return nil, fmt.Errorf("invalid follow-up status filter: %s", f.FollowUpStatus)
	}
	return s.Repo.List(ctx, f, pageSize, cursor)
}

func (s *VisitorService) UpdateVisitor(ctx context.Context, id int, req *models.UpdateVisitorRequest) error {
	if req.Status != nil && !req.Status.Valid() {
		return fmt.Errorf("invalid status: %s", *req.Status)
	}
	if req.FollowUpStatus != nil && !req.FollowUpStatus.Valid() {
		return fmt.Errorf("invalid follow-up status: %s", *req.FollowUpStatus)
	}
	if req.Gender != nil && !req.Gender.Valid() {
		return fmt.Errorf("invalid gender: %s", *req.Gender)
	}
	if req.MaritalStatus != nil && !req.MaritalStatus.Valid() {
		return fmt.Errorf("invalid marital status: %s", *req.MaritalStatus)
	}

	// status=converted implies membership and a completed follow-up
	if req.Status != nil && *req.Status == models.VisitorConverted {
		isMember := true
		completed := models.FollowUpCompleted
		req.IsMember = &isMember
		req.FollowUpStatus = &completed
	}

	if err := s.Repo.Update(ctx, id, req); err != nil {
		return err
	}
	cache.InvalidateVisitorStats(ctx)
	return nil
}

func (s *VisitorService) DeleteVisitor(ctx context.Context, id int) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	cache.InvalidateVisitorStats(ctx)
	return nil
}

func (s *VisitorService) AddContactAttempt(ctx context.Context, visitorID int, req *models.AddContactAttemptRequest, contactedBy int) (*models.ContactAttempt, error) {
	if req.Notes == "" {
		return nil, errors.New("notes are required")
	}
	if !req.Type.Valid() {
		return nil, fmt.Errorf("invalid contact type: %s", req.Type)
	}
	if !req.Method.Valid() {
		return nil, fmt.Errorf("invalid contact method: %s", req.Method)
	}
	if req.Date.IsZero() {
		req.Date = timeutil.Now()
	}

	a, err := s.Repo.AddContactAttempt(ctx, visitorID, req, contactedBy)
	if err != nil {
		return nil, err
	}

	cache.InvalidateVisitorStats(ctx)
	metrics.ContactAttemptsTotal.WithLabelValues(string(req.Method), strconv.FormatBool(req.Successful)).Inc()
	return a, nil
}

func (s *VisitorService) RecordVisit(ctx context.Context, req *models.RecordVisitRequest, registeredBy int) (*models.VisitRecord, error) {
	if req.VisitorID == 0 {
		return nil, errors.New("visitor id is required")
	}
	if req.VisitDate.IsZero() {
		return nil, errors.New("visit date is required")
	}
	if !req.Service.Valid() {
		return nil, fmt.Errorf("invalid service type: %s", req.Service)
	}

	rec, err := s.Repo.RecordVisit(ctx, req, registeredBy)
	if err != nil {
		return nil, err
	}

	cache.InvalidateVisitorStats(ctx)
	metrics.VisitsRecorded.Inc()
	return rec, nil
}

// VisitHistory returns attendance newest-first
func (s *VisitorService) VisitHistory(ctx context.Context, visitorID int) ([]*models.VisitRecord, error) {
	return s.Repo.VisitHistory(ctx, visitorID)
}

func (s *VisitorService) ConvertToMember(ctx context.Context, visitorID int, memberID string) error {
	if memberID == "" {
		return errors.New("member id is required")
	}

	if err := s.Repo.ConvertToMember(ctx, visitorID, memberID, timeutil.Now()); err != nil {
		return err
	}

	cache.InvalidateVisitorStats(ctx)
	metrics.VisitorsConverted.Inc()

	if s.Events != nil {
		s.Events.Broadcast("visitor_converted", map[string]interface{}{
			"visitor_id": visitorID,
			"member_id":  memberID,
		})
	}
	return nil
}

// GetStats serves the dashboard aggregates, cached in Redis for a short TTL
// and recomputed from the database on a miss
func (s *VisitorService) GetStats(ctx context.Context) (*models.VisitorStats, error) {
	if stats, ok := cache.GetVisitorStats(ctx); ok {
		return stats, nil
	}

	stats, err := s.Repo.Stats(ctx, timeutil.StartOfMonth(timeutil.Now()))
	if err != nil {
		return nil, err
	}

	cache.SetVisitorStats(ctx, stats)
	return stats, nil
}

// SendFollowUpMessage delivers a WhatsApp follow-up and logs it as a contact
// attempt. The attempt is recorded only after the provider accepted the send.
func (s *VisitorService) SendFollowUpMessage(ctx context.Context, visitorID int, message string, contactedBy int) (*models.ContactAttempt, error) {
	if s.Messenger == nil {
		return nil, errors.New("whatsapp messaging is not configured")
	}
	if message == "" {
		return nil, errors.New("message is required")
	}

	v, err := s.Repo.Get(ctx, visitorID)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, fmt.Errorf("visitor %d not found", visitorID)
	}
	if v.Phone == nil || *v.Phone == "" {
		return nil, errors.New("visitor has no phone number")
	}

	if err := s.Messenger.SendFollowUp(ctx, *v.Phone, v.Name, message); err != nil {
		return nil, fmt.Errorf("whatsapp send failed: %w", err)
	}

	return s.AddContactAttempt(ctx, visitorID, &models.AddContactAttemptRequest{
		Date:       timeutil.Now(),
		Type:       models.ContactFollowUp,
		Method:     models.MethodWhatsApp,
		Notes:      message,
		Successful: true,
	}, contactedBy)
}
