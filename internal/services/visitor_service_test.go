package services

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"church-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errNotFound = errors.New("visitor not found")

// stubVisitorStore is an in-memory VisitorStore with the same state rules as
// the real repository
type stubVisitorStore struct {
	visitors map[int]*models.Visitor
	nextID   int
}

func newStubStore() *stubVisitorStore {
	return &stubVisitorStore{visitors: make(map[int]*models.Visitor), nextID: 1}
}

func (s *stubVisitorStore) Create(ctx context.Context, req *models.CreateVisitorRequest, createdBy int) (*models.Visitor, error) {
	v := &models.Visitor{
		ID:             s.nextID,
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		FirstVisitDate: req.FirstVisitDate,
		TotalVisits:    1,
		Status:         models.VisitorActive,
		FollowUpStatus: models.FollowUpPending,
		AssignedTo:     req.AssignedTo,
		CreatedBy:      createdBy,
		CreatedAt:      time.Now(),
	}
	s.visitors[v.ID] = v
	s.nextID++
	return v, nil
}

func (s *stubVisitorStore) Get(ctx context.Context, id int) (*models.Visitor, error) {
	return s.visitors[id], nil
}

func (s *stubVisitorStore) List(ctx context.Context, f models.VisitorFilters, pageSize int, cursor string) (*models.VisitorPage, error) {
	page := &models.VisitorPage{}
	for _, v := range s.visitors {
		if f.Status != "" && v.Status != f.Status {
			continue
		}
		page.Visitors = append(page.Visitors, v)
	}
	return page, nil
}

func (s *stubVisitorStore) Update(ctx context.Context, id int, req *models.UpdateVisitorRequest) error {
	v, ok := s.visitors[id]
	if !ok {
		return fmt.Errorf("visitor %d: %w", id, errNotFound)
	}
	if req.Status != nil {
		v.Status = *req.Status
	}
	if req.FollowUpStatus != nil {
		v.FollowUpStatus = *req.FollowUpStatus
	}
	if req.IsMember != nil {
		v.IsMember = *req.IsMember
	}
	if req.MemberID != nil {
		v.MemberID = req.MemberID
	}
	if req.ConvertedToMemberAt != nil {
		v.ConvertedToMemberAt = req.ConvertedToMemberAt
	}
	return nil
}

func (s *stubVisitorStore) Delete(ctx context.Context, id int) error {
	if _, ok := s.visitors[id]; !ok {
		return fmt.Errorf("visitor %d: %w", id, errNotFound)
	}
	delete(s.visitors, id)
	return nil
}

func (s *stubVisitorStore) AddContactAttempt(ctx context.Context, visitorID int, req *models.AddContactAttemptRequest, contactedBy int) (*models.ContactAttempt, error) {
	v, ok := s.visitors[visitorID]
	if !ok {
		return nil, fmt.Errorf("visitor %d: %w", visitorID, errNotFound)
	}
	a := &models.ContactAttempt{
		ID:          len(v.ContactAttempts) + 1,
		VisitorID:   visitorID,
		Date:        req.Date,
		Type:        req.Type,
		Method:      req.Method,
		Notes:       req.Notes,
		Successful:  req.Successful,
		ContactedBy: contactedBy,
	}
	v.ContactAttempts = append(v.ContactAttempts, a)
	if req.Successful {
		v.FollowUpStatus = models.FollowUpCompleted
	} else {
		v.FollowUpStatus = models.FollowUpInProgress
	}
	return a, nil
}

func (s *stubVisitorStore) RecordVisit(ctx context.Context, req *models.RecordVisitRequest, registeredBy int) (*models.VisitRecord, error) {
	v, ok := s.visitors[req.VisitorID]
	if !ok {
		return nil, fmt.Errorf("visitor %d: %w", req.VisitorID, errNotFound)
	}
	v.TotalVisits++
	v.LastVisitDate = &req.VisitDate
	return &models.VisitRecord{
		VisitorID:    req.VisitorID,
		VisitDate:    req.VisitDate,
		Service:      req.Service,
		RegisteredBy: registeredBy,
	}, nil
}

func (s *stubVisitorStore) VisitHistory(ctx context.Context, visitorID int) ([]*models.VisitRecord, error) {
	return nil, nil
}

func (s *stubVisitorStore) ConvertToMember(ctx context.Context, visitorID int, memberID string, convertedAt time.Time) error {
	isMember := true
	converted := models.VisitorConverted
	completed := models.FollowUpCompleted
	return s.Update(ctx, visitorID, &models.UpdateVisitorRequest{
		IsMember:            &isMember,
		MemberID:            &memberID,
		ConvertedToMemberAt: &convertedAt,
		Status:              &converted,
		FollowUpStatus:      &completed,
	})
}

func (s *stubVisitorStore) Stats(ctx context.Context, monthStart time.Time) (*models.VisitorStats, error) {
	stats := &models.VisitorStats{}
	for _, v := range s.visitors {
		stats.TotalVisitors++
		if v.Status == models.VisitorActive {
			stats.ActiveVisitors++
		}
		if v.IsMember {
			stats.ConvertedToMembers++
		}
	}
	return stats, nil
}

type stubMessenger struct {
	sent []string
	fail bool
}

func (m *stubMessenger) SendFollowUp(ctx context.Context, phone, visitorName, message string) error {
	if m.fail {
		return errors.New("provider rejected the message")
	}
	m.sent = append(m.sent, message)
	return nil
}

func newTestService() (*VisitorService, *stubVisitorStore) {
	store := newStubStore()
	return NewVisitorService(store), store
}

func TestCreateVisitorDefaults(t *testing.T) {
	svc, _ := newTestService()

	v, err := svc.CreateVisitor(context.Background(), &models.CreateVisitorRequest{
		Name:           "Maria Santos",
		FirstVisitDate: time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC),
	}, 7)
	require.NoError(t, err)

	assert.Equal(t, 1, v.TotalVisits)
	assert.Equal(t, models.VisitorActive, v.Status)
	assert.Equal(t, models.FollowUpPending, v.FollowUpStatus)
	assert.Equal(t, 7, v.CreatedBy)
	assert.False(t, v.IsMember)
}

func TestCreateVisitorValidation(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateVisitor(context.Background(), &models.CreateVisitorRequest{
		FirstVisitDate: time.Now(),
	}, 1)
	assert.EqualError(t, err, "name is required")

	_, err = svc.CreateVisitor(context.Background(), &models.CreateVisitorRequest{
		Name: "Maria",
	}, 1)
	assert.EqualError(t, err, "first visit date is required")

	bad := models.Gender("unknown")
	_, err = svc.CreateVisitor(context.Background(), &models.CreateVisitorRequest{
		Name:           "Maria",
		FirstVisitDate: time.Now(),
		Gender:         &bad,
	}, 1)
	assert.Error(t, err)
}

func TestAddContactAttemptStatusDerivation(t *testing.T) {
	svc, store := newTestService()
	v, err := svc.CreateVisitor(context.Background(), &models.CreateVisitorRequest{
		Name:           "Maria Santos",
		FirstVisitDate: time.Now(),
	}, 1)
	require.NoError(t, err)

	// unsuccessful attempt moves follow-up to in_progress
	_, err = svc.AddContactAttempt(context.Background(), v.ID, &models.AddContactAttemptRequest{
		Type:       models.ContactWelcome,
		Method:     models.MethodPhone,
		Notes:      "no answer",
		Successful: false,
	}, 1)
	require.NoError(t, err)
	assert.Equal(t, models.FollowUpInProgress, store.visitors[v.ID].FollowUpStatus)

	// successful attempt completes it
	_, err = svc.AddContactAttempt(context.Background(), v.ID, &models.AddContactAttemptRequest{
		Type:       models.ContactFollowUp,
		Method:     models.MethodWhatsApp,
		Notes:      "spoke with her, coming Sunday",
		Successful: true,
	}, 1)
	require.NoError(t, err)
	assert.Equal(t, models.FollowUpCompleted, store.visitors[v.ID].FollowUpStatus)
	assert.Len(t, store.visitors[v.ID].ContactAttempts, 2)
}

func TestAddContactAttemptValidation(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.AddContactAttempt(context.Background(), 1, &models.AddContactAttemptRequest{
		Type:   models.ContactWelcome,
		Method: models.MethodPhone,
	}, 1)
	assert.EqualError(t, err, "notes are required")

	_, err = svc.AddContactAttempt(context.Background(), 1, &models.AddContactAttemptRequest{
		Type:   models.ContactType("nudge"),
		Method: models.MethodPhone,
		Notes:  "x",
	}, 1)
	assert.Error(t, err)
}

func TestAddContactAttemptUnknownVisitor(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.AddContactAttempt(context.Background(), 99, &models.AddContactAttemptRequest{
		Type:       models.ContactWelcome,
		Method:     models.MethodPhone,
		Notes:      "hello",
		Successful: true,
	}, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "visitor 99")
}

func TestUpdateConvertedForcesMembership(t *testing.T) {
	svc, store := newTestService()
	v, err := svc.CreateVisitor(context.Background(), &models.CreateVisitorRequest{
		Name:           "Maria Santos",
		FirstVisitDate: time.Now(),
	}, 1)
	require.NoError(t, err)

	converted := models.VisitorConverted
	err = svc.UpdateVisitor(context.Background(), v.ID, &models.UpdateVisitorRequest{Status: &converted})
	require.NoError(t, err)

	got := store.visitors[v.ID]
	assert.True(t, got.IsMember)
	assert.Equal(t, models.FollowUpCompleted, got.FollowUpStatus)
	assert.Equal(t, models.VisitorConverted, got.Status)
}

func TestRecordVisitValidation(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.RecordVisit(context.Background(), &models.RecordVisitRequest{
		VisitDate: time.Now(),
		Service:   models.ServiceSundayMorning,
	}, 1)
	assert.EqualError(t, err, "visitor id is required")

	_, err = svc.RecordVisit(context.Background(), &models.RecordVisitRequest{
		VisitorID: 1,
		VisitDate: time.Now(),
		Service:   models.ServiceType("saturday"),
	}, 1)
	assert.Error(t, err)
}

func TestSendFollowUpMessage(t *testing.T) {
	svc, store := newTestService()
	messenger := &stubMessenger{}
	svc.Messenger = messenger

	phone := "11 98765-4321"
	v, err := svc.CreateVisitor(context.Background(), &models.CreateVisitorRequest{
		Name:           "Maria Santos",
		Phone:          &phone,
		FirstVisitDate: time.Now(),
	}, 1)
	require.NoError(t, err)

	attempt, err := svc.SendFollowUpMessage(context.Background(), v.ID, "Sentimos sua falta!", 1)
	require.NoError(t, err)

	assert.Equal(t, models.MethodWhatsApp, attempt.Method)
	assert.True(t, attempt.Successful)
	assert.Len(t, messenger.sent, 1)
	assert.Equal(t, models.FollowUpCompleted, store.visitors[v.ID].FollowUpStatus)
}

func TestSendFollowUpMessageProviderFailure(t *testing.T) {
	svc, store := newTestService()
	svc.Messenger = &stubMessenger{fail: true}

	phone := "11987654321"
	v, err := svc.CreateVisitor(context.Background(), &models.CreateVisitorRequest{
		Name:           "Maria Santos",
		Phone:          &phone,
		FirstVisitDate: time.Now(),
	}, 1)
	require.NoError(t, err)

	_, err = svc.SendFollowUpMessage(context.Background(), v.ID, "oi", 1)
	require.Error(t, err)

	// no attempt is logged when the provider rejects the send
	assert.Empty(t, store.visitors[v.ID].ContactAttempts)
}

func TestSendFollowUpMessageWithoutPhone(t *testing.T) {
	svc, _ := newTestService()
	svc.Messenger = &stubMessenger{}

	v, err := svc.CreateVisitor(context.Background(), &models.CreateVisitorRequest{
		Name:           "Maria Santos",
		FirstVisitDate: time.Now(),
	}, 1)
	require.NoError(t, err)

	_, err = svc.SendFollowUpMessage(context.Background(), v.ID, "oi", 1)
	assert.EqualError(t, err, "visitor has no phone number")
}

// Full lifecycle: first visit, a failed and a successful contact, two more
// visits, then conversion
func TestVisitorLifecycleScenario(t *testing.T) {
	svc, store := newTestService()
	ctx := context.Background()

	firstVisit := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	v, err := svc.CreateVisitor(ctx, &models.CreateVisitorRequest{
		Name:           "Maria Santos",
		FirstVisitDate: firstVisit,
	}, 3)
	require.NoError(t, err)
	assert.True(t, NeedsFollowUp(store.visitors[v.ID]))
	assert.False(t, IsEligibleForConversion(store.visitors[v.ID], DefaultMinVisitsForConversion))

	_, err = svc.AddContactAttempt(ctx, v.ID, &models.AddContactAttemptRequest{
		Date: firstVisit.AddDate(0, 0, 2), Type: models.ContactWelcome,
		Method: models.MethodPhone, Notes: "no answer", Successful: false,
	}, 3)
	require.NoError(t, err)
	assert.True(t, NeedsFollowUp(store.visitors[v.ID]))

	_, err = svc.AddContactAttempt(ctx, v.ID, &models.AddContactAttemptRequest{
		Date: firstVisit.AddDate(0, 0, 3), Type: models.ContactFollowUp,
		Method: models.MethodWhatsApp, Notes: "coming back Sunday", Successful: true,
	}, 3)
	require.NoError(t, err)
	assert.False(t, NeedsFollowUp(store.visitors[v.ID]))

	for i := 1; i <= 2; i++ {
		_, err = svc.RecordVisit(ctx, &models.RecordVisitRequest{
			VisitorID: v.ID,
			VisitDate: firstVisit.AddDate(0, 0, 7*i),
			Service:   models.ServiceSundayMorning,
		}, 3)
		require.NoError(t, err)
	}

	got := store.visitors[v.ID]
	assert.Equal(t, 3, got.TotalVisits)
	assert.True(t, IsEligibleForConversion(got, DefaultMinVisitsForConversion))

	err = svc.ConvertToMember(ctx, v.ID, "M-2026-0042")
	require.NoError(t, err)

	got = store.visitors[v.ID]
	assert.True(t, got.IsMember)
	assert.Equal(t, "M-2026-0042", *got.MemberID)
	assert.Equal(t, models.VisitorConverted, got.Status)
	assert.NotNil(t, got.ConvertedToMemberAt)
	assert.False(t, NeedsFollowUp(got))
	assert.False(t, IsEligibleForConversion(got, DefaultMinVisitsForConversion))
}

func TestGetStats(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.CreateVisitor(ctx, &models.CreateVisitorRequest{
			Name:           fmt.Sprintf("Visitor %d", i),
			FirstVisitDate: time.Now(),
		}, 1)
		require.NoError(t, err)
	}
	require.NoError(t, svc.ConvertToMember(ctx, 1, "M-1"))

	stats, err := svc.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalVisitors)
	assert.Equal(t, 1, stats.ConvertedToMembers)
	assert.Equal(t, 2, stats.ActiveVisitors)
}

func TestListVisitorsFilterValidation(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.ListVisitors(context.Background(), models.VisitorFilters{
		Status: models.VisitorStatus("ghost"),
	}, 0, "")
	assert.Error(t, err)

	_, err = svc.ListVisitors(context.Background(), models.VisitorFilters{
		FollowUpStatus: models.FollowUpStatus("later"),
	}, 0, "")
	assert.Error(t, err)
}
