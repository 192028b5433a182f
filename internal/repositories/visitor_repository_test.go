package repositories

import (
	"testing"
	"time"

	"church-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(v string) *string {
	return &v
}

func TestCursorRoundTrip(t *testing.T) {
	createdAt := time.Date(2026, 2, 14, 18, 30, 45, 123456000, time.UTC)

	cursor := encodeCursor(createdAt, 42)
	assert.NotEmpty(t, cursor)

	gotTime, gotID, err := decodeCursor(cursor)
	require.NoError(t, err)
	assert.Equal(t, 42, gotID)
	assert.True(t, gotTime.Equal(createdAt))
}

func TestDecodeCursorRejectsGarbage(t *testing.T) {
	_, _, err := decodeCursor("not base64!!!")
	assert.Error(t, err)

	// valid base64 but wrong payload shape
	_, _, err = decodeCursor("aGVsbG8")
	assert.Error(t, err)
}

func TestBuildListQueryNoFilters(t *testing.T) {
	query, args, err := buildListQuery(models.VisitorFilters{}, 20, "")
	require.NoError(t, err)

	assert.NotContains(t, query, "WHERE")
	assert.Contains(t, query, "ORDER BY created_at DESC, id DESC")
	// overfetch by one for hasMore detection
	require.Len(t, args, 1)
	assert.Equal(t, 21, args[0])
}

func TestBuildListQueryAllFilters(t *testing.T) {
	assignedTo := 5
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)
	f := models.VisitorFilters{
		Status:         models.VisitorActive,
		FollowUpStatus: models.FollowUpPending,
		AssignedTo:     &assignedTo,
		DateStart:      &start,
		DateEnd:        &end,
		Search:         "maria",
	}

	query, args, err := buildListQuery(f, 10, "")
	require.NoError(t, err)

	assert.Contains(t, query, "status = $1")
	assert.Contains(t, query, "follow_up_status = $2")
	assert.Contains(t, query, "assigned_to = $3")
	assert.Contains(t, query, "first_visit_date >= $4")
	assert.Contains(t, query, "first_visit_date <= $5")
	assert.Contains(t, query, "name ILIKE $6")
	assert.Contains(t, query, "COALESCE(email, '') ILIKE $6")
	assert.Contains(t, query, "LIMIT $7")

	require.Len(t, args, 7)
	assert.Equal(t, "%maria%", args[5])
	assert.Equal(t, 11, args[6])
}

func TestBuildListQueryWithCursor(t *testing.T) {
	createdAt := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	cursor := encodeCursor(createdAt, 100)

	query, args, err := buildListQuery(models.VisitorFilters{}, 20, cursor)
	require.NoError(t, err)

	assert.Contains(t, query, "(created_at, id) < ($1, $2)")
	require.Len(t, args, 3)
	assert.Equal(t, 100, args[1])
}

func TestBuildListQueryInvalidCursor(t *testing.T) {
	_, _, err := buildListQuery(models.VisitorFilters{}, 20, "@@@")
	assert.Error(t, err)
}

func TestNewVisitorFromRequestDefaults(t *testing.T) {
	req := &models.CreateVisitorRequest{
		Name:           "Maria Santos",
		Phone:          strPtr("11987654321"),
		FirstVisitDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}

	v := newVisitorFromRequest(req, 7)

	assert.Equal(t, 1, v.TotalVisits)
	assert.Equal(t, models.VisitorActive, v.Status)
	assert.Equal(t, models.FollowUpPending, v.FollowUpStatus)
	assert.Equal(t, 7, v.CreatedBy)
	// a nil slice would reach postgres as NULL and violate the NOT NULL
	// constraint on interests; it must default to an empty array
	require.NotNil(t, v.Interests)
	assert.Equal(t, []string{}, v.Interests)
	assert.NotNil(t, v.ContactAttempts)
}

func TestNewVisitorFromRequestKeepsInterests(t *testing.T) {
	req := &models.CreateVisitorRequest{
		Name:           "João Pereira",
		Phone:          strPtr("11912345678"),
		FirstVisitDate: time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC),
		Interests:      []string{"youth group", "choir"},
	}

	v := newVisitorFromRequest(req, 3)

	assert.Equal(t, []string{"youth group", "choir"}, v.Interests)
}

func TestBuildVisitorPageTrimsOverfetch(t *testing.T) {
	base := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	visitors := make([]*models.Visitor, 21)
	for i := range visitors {
		visitors[i] = &models.Visitor{
			ID:        200 - i,
			CreatedAt: base.Add(-time.Duration(i) * time.Minute),
		}
	}

	page := buildVisitorPage(visitors, 20)

	require.Len(t, page.Visitors, 20)
	assert.True(t, page.HasMore)
	// cursor points at the last returned row, not the overfetched one
	last := page.Visitors[19]
	assert.Equal(t, encodeCursor(last.CreatedAt, last.ID), page.NextCursor)
}

func TestBuildVisitorPageLastPage(t *testing.T) {
	base := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	visitors := []*models.Visitor{
		{ID: 2, CreatedAt: base},
		{ID: 1, CreatedAt: base.Add(-time.Minute)},
	}

	page := buildVisitorPage(visitors, 20)

	assert.Len(t, page.Visitors, 2)
	assert.False(t, page.HasMore)
	assert.Empty(t, page.NextCursor)
}

func TestBuildVisitorPageEmpty(t *testing.T) {
	page := buildVisitorPage(nil, 20)

	assert.Empty(t, page.Visitors)
	assert.False(t, page.HasMore)
	assert.Empty(t, page.NextCursor)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 33.33, round2(100.0/3.0))
	assert.Equal(t, 66.67, round2(200.0/3.0))
	assert.Equal(t, 50.0, round2(50.0))
	assert.Equal(t, 0.0, round2(0))
	// rounds half away from zero on the second decimal
	assert.Equal(t, 0.13, round2(0.125))
}
