package repositories

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"church-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrVisitorNotFound signals an operation against a visitor id that does not
// exist where presence is required
var ErrVisitorNotFound = errors.New("visitor not found")

type VisitorRepository struct {
	DB *pgxpool.Pool
}

func NewVisitorRepository(db *pgxpool.Pool) *VisitorRepository {
	return &VisitorRepository{DB: db}
}

const visitorColumns = `id, name, email, phone,
	address_street, address_city, address_state, address_zip,
	birth_date, gender, marital_status, profession, how_did_you_know,
	COALESCE(interests, '{}') as interests, observations,
	first_visit_date, last_visit_date, total_visits,
	follow_up_status, assigned_to,
	is_member, member_id, converted_to_member_at,
	status, created_by, created_at, updated_at`

func scanVisitor(row pgx.Row) (*models.Visitor, error) {
	var v models.Visitor
	var street, city, state, zip *string
	err := row.Scan(&v.ID, &v.Name, &v.Email, &v.Phone,
		&street, &city, &state, &zip,
		&v.BirthDate, &v.Gender, &v.MaritalStatus, &v.Profession, &v.HowDidYouKnow,
		&v.Interests, &v.Observations,
		&v.FirstVisitDate, &v.LastVisitDate, &v.TotalVisits,
		&v.FollowUpStatus, &v.AssignedTo,
		&v.IsMember, &v.MemberID, &v.ConvertedToMemberAt,
		&v.Status, &v.CreatedBy, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if street != nil || city != nil || state != nil || zip != nil {
		v.Address = &models.Address{
			Street: deref(street),
			City:   deref(city),
			State:  deref(state),
			Zip:    deref(zip),
		}
	}
	return &v, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Create persists a new visitor. The store assigns the id, stamps both audit
// timestamps and forces total_visits=1 (creation implies the first visit).
// Absent optional fields are stored as NULL.
func (r *VisitorRepository) Create(ctx context.Context, req *models.CreateVisitorRequest, createdBy int) (*models.Visitor, error) {
	var street, city, state, zip *string
	if req.Address != nil {
		street, city, state, zip = &req.Address.Street, &req.Address.City, &req.Address.State, &req.Address.Zip
	}

	v := newVisitorFromRequest(req, createdBy)

	err := r.DB.QueryRow(ctx,
		`INSERT INTO visitors(name, email, phone,
			address_street, address_city, address_state, address_zip,
			birth_date, gender, marital_status, profession, how_did_you_know,
			interests, observations, first_visit_date, total_visits,
			follow_up_status, assigned_to, status, created_by)
         VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, 1, $16, $17, $18, $19)
         RETURNING id, created_at, updated_at`,
		v.Name, v.Email, v.Phone,
		street, city, state, zip,
		v.BirthDate, v.Gender, v.MaritalStatus, v.Profession, v.HowDidYouKnow,
		v.Interests, v.Observations, v.FirstVisitDate,
		v.FollowUpStatus, v.AssignedTo, v.Status, v.CreatedBy,
	).Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// newVisitorFromRequest applies the creation defaults: first visit counted,
// active, follow-up pending. Interests is never nil — the column is NOT NULL
// and an explicit NULL would bypass its '{}' default.
func newVisitorFromRequest(req *models.CreateVisitorRequest, createdBy int) *models.Visitor {
	interests := req.Interests
	if interests == nil {
		interests = []string{}
	}

	return &models.Visitor{
		Name:            req.Name,
		Email:           req.Email,
		Phone:           req.Phone,
		Address:         req.Address,
		BirthDate:       req.BirthDate,
		Gender:          req.Gender,
		MaritalStatus:   req.MaritalStatus,
		Profession:      req.Profession,
		HowDidYouKnow:   req.HowDidYouKnow,
		Interests:       interests,
		Observations:    req.Observations,
		FirstVisitDate:  req.FirstVisitDate,
		TotalVisits:     1,
		ContactAttempts: []*models.ContactAttempt{},
		FollowUpStatus:  models.FollowUpPending,
		AssignedTo:      req.AssignedTo,
		Status:          models.VisitorActive,
		CreatedBy:       createdBy,
	}
}

// Get returns the visitor with its contact attempts, or (nil, nil) when the
// id does not exist
func (r *VisitorRepository) Get(ctx context.Context, id int) (*models.Visitor, error) {
	row := r.DB.QueryRow(ctx,
		`SELECT `+visitorColumns+` FROM visitors WHERE id=$1`, id)

	v, err := scanVisitor(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	v.ContactAttempts, err = r.listContactAttempts(ctx, v.ID)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (r *VisitorRepository) listContactAttempts(ctx context.Context, visitorID int) ([]*models.ContactAttempt, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, visitor_id, date, type, method, notes, successful, next_contact_date, contacted_by, created_at
         FROM contact_attempts WHERE visitor_id=$1 ORDER BY id ASC`, visitorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	attempts := []*models.ContactAttempt{}
	for rows.Next() {
		var a models.ContactAttempt
		err := rows.Scan(&a.ID, &a.VisitorID, &a.Date, &a.Type, &a.Method, &a.Notes,
			&a.Successful, &a.NextContactDate, &a.ContactedBy, &a.CreatedAt)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, &a)
	}
	return attempts, rows.Err()
}

// encodeCursor packs the keyset position of the last row of a page into an
// opaque string
func encodeCursor(createdAt time.Time, id int) string {
	raw := fmt.Sprintf("%d:%d", createdAt.UnixMicro(), id)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

func decodeCursor(cursor string) (time.Time, int, error) {
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("invalid cursor: %w", err)
	}
	var micros int64
	var id int
	if _, err := fmt.Sscanf(string(raw), "%d:%d", &micros, &id); err != nil {
		return time.Time{}, 0, fmt.Errorf("invalid cursor: %w", err)
	}
	return time.UnixMicro(micros).UTC(), id, nil
}

// buildListQuery composes the filtered listing query. Predicates are added
// conjunctively; search matches name/email/phone case-insensitively at query
// time so a page is never shrunk below pageSize by post-filtering.
func buildListQuery(f models.VisitorFilters, pageSize int, cursor string) (string, []interface{}, error) {
	var conds []string
	var args []interface{}

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Status != "" {
		conds = append(conds, "status = "+arg(f.Status))
	}
	if f.FollowUpStatus != "" {
		conds = append(conds, "follow_up_status = "+arg(f.FollowUpStatus))
	}
	if f.AssignedTo != nil {
		conds = append(conds, "assigned_to = "+arg(*f.AssignedTo))
	}
	if f.DateStart != nil {
		conds = append(conds, "first_visit_date >= "+arg(*f.DateStart))
	}
	if f.DateEnd != nil {
		conds = append(conds, "first_visit_date <= "+arg(*f.DateEnd))
	}
	if f.Search != "" {
		p := arg("%" + f.Search + "%")
		conds = append(conds, fmt.Sprintf(
			"(name ILIKE %s OR COALESCE(email, '') ILIKE %s OR COALESCE(phone, '') ILIKE %s)", p, p, p))
	}
	if cursor != "" {
		createdAt, id, err := decodeCursor(cursor)
		if err != nil {
			return "", nil, err
		}
		conds = append(conds, fmt.Sprintf("(created_at, id) < (%s, %s)", arg(createdAt), arg(id)))
	}

	query := `SELECT ` + visitorColumns + ` FROM visitors`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	// Overfetch by one to detect hasMore without a separate count query
	query += " ORDER BY created_at DESC, id DESC LIMIT " + arg(pageSize+1)

	return query, args, nil
}

// List returns one newest-first page of visitors matching the filters,
// paginated by an opaque keyset cursor
func (r *VisitorRepository) List(ctx context.Context, f models.VisitorFilters, pageSize int, cursor string) (*models.VisitorPage, error) {
	if pageSize <= 0 {
		pageSize = 20
	}

	query, args, err := buildListQuery(f, pageSize, cursor)
	if err != nil {
		return nil, err
	}

	rows, err := r.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	visitors := []*models.Visitor{}
	for rows.Next() {
		v, err := scanVisitor(rows)
		if err != nil {
			return nil, err
		}
		visitors = append(visitors, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return buildVisitorPage(visitors, pageSize), nil
}

// buildVisitorPage trims the overfetched row set down to pageSize. The extra
// row only signals hasMore; the cursor points at the last row actually
// returned.
func buildVisitorPage(visitors []*models.Visitor, pageSize int) *models.VisitorPage {
	page := &models.VisitorPage{Visitors: visitors}
	if len(visitors) > pageSize {
		page.Visitors = visitors[:pageSize]
		page.HasMore = true
	}
	if n := len(page.Visitors); n > 0 && page.HasMore {
		last := page.Visitors[n-1]
		page.NextCursor = encodeCursor(last.CreatedAt, last.ID)
	}
	return page
}

// ListAll returns every visitor newest-first, without attempts. Used by the
// report and backup exports, which need the full set in one pass.
func (r *VisitorRepository) ListAll(ctx context.Context) ([]*models.Visitor, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT `+visitorColumns+` FROM visitors ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	visitors := []*models.Visitor{}
	for rows.Next() {
		v, err := scanVisitor(rows)
		if err != nil {
			return nil, err
		}
		visitors = append(visitors, v)
	}
	return visitors, rows.Err()
}

// Update applies a partial update. Only fields present in the request are
// written; updated_at is always stamped. Unknown fields in the JSON body
// never reach this layer (the request type is the allow-list).
func (r *VisitorRepository) Update(ctx context.Context, id int, req *models.UpdateVisitorRequest) error {
	var sets []string
	var args []interface{}

	set := func(col string, v interface{}) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}

	if req.Name != nil {
		set("name", *req.Name)
	}
	if req.Email != nil {
		set("email", *req.Email)
	}
	if req.Phone != nil {
		set("phone", *req.Phone)
	}
	if req.Address != nil {
		set("address_street", req.Address.Street)
		set("address_city", req.Address.City)
		set("address_state", req.Address.State)
		set("address_zip", req.Address.Zip)
	}
	if req.BirthDate != nil {
		set("birth_date", *req.BirthDate)
	}
	if req.Gender != nil {
		set("gender", *req.Gender)
	}
	if req.MaritalStatus != nil {
		set("marital_status", *req.MaritalStatus)
	}
	if req.Profession != nil {
		set("profession", *req.Profession)
	}
	if req.HowDidYouKnow != nil {
		set("how_did_you_know", *req.HowDidYouKnow)
	}
	if req.Interests != nil {
		set("interests", req.Interests)
	}
	if req.Observations != nil {
		set("observations", *req.Observations)
	}
	if req.LastVisitDate != nil {
		set("last_visit_date", *req.LastVisitDate)
	}
	if req.TotalVisits != nil {
		set("total_visits", *req.TotalVisits)
	}
	if req.FollowUpStatus != nil {
		set("follow_up_status", *req.FollowUpStatus)
	}
	if req.AssignedTo != nil {
		set("assigned_to", *req.AssignedTo)
	}
	if req.IsMember != nil {
		set("is_member", *req.IsMember)
	}
	if req.MemberID != nil {
		set("member_id", *req.MemberID)
	}
	if req.ConvertedToMemberAt != nil {
		set("converted_to_member_at", *req.ConvertedToMemberAt)
	}
	if req.Status != nil {
		set("status", *req.Status)
	}

	sets = append(sets, "updated_at = NOW()")

	args = append(args, id)
	query := fmt.Sprintf("UPDATE visitors SET %s WHERE id = $%d",
		strings.Join(sets, ", "), len(args))

	tag, err := r.DB.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("visitor %d: %w", id, ErrVisitorNotFound)
	}
	return nil
}

// Delete removes the visitor together with its visit records and contact
// attempts in a single transaction
func (r *VisitorRepository) Delete(ctx context.Context, id int) error {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM visit_records WHERE visitor_id=$1`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM contact_attempts WHERE visitor_id=$1`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `DELETE FROM visitors WHERE id=$1`, id); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// AddContactAttempt appends one outreach attempt and derives the visitor's
// follow-up status from it: completed when the attempt succeeded,
// in_progress otherwise. The derivation deliberately ignores the previous
// follow-up status. The append and the status write are one transaction, so
// concurrent attempts are never lost.
func (r *VisitorRepository) AddContactAttempt(ctx context.Context, visitorID int, req *models.AddContactAttemptRequest, contactedBy int) (*models.ContactAttempt, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var exists int
	err = tx.QueryRow(ctx, `SELECT id FROM visitors WHERE id=$1 FOR UPDATE`, visitorID).Scan(&exists)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("visitor %d: %w", visitorID, ErrVisitorNotFound)
	}
	if err != nil {
		return nil, err
	}

	a := &models.ContactAttempt{
		VisitorID:       visitorID,
		Date:            req.Date,
		Type:            req.Type,
		Method:          req.Method,
		Notes:           req.Notes,
		Successful:      req.Successful,
		NextContactDate: req.NextContactDate,
		ContactedBy:     contactedBy,
	}
	err = tx.QueryRow(ctx,
		`INSERT INTO contact_attempts(visitor_id, date, type, method, notes, successful, next_contact_date, contacted_by)
         VALUES($1, $2, $3, $4, $5, $6, $7, $8)
         RETURNING id, created_at`,
		a.VisitorID, a.Date, a.Type, a.Method, a.Notes, a.Successful, a.NextContactDate, a.ContactedBy,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return nil, err
	}

	status := models.FollowUpInProgress
	if req.Successful {
		status = models.FollowUpCompleted
	}
	_, err = tx.Exec(ctx,
		`UPDATE visitors SET follow_up_status=$1, updated_at=NOW() WHERE id=$2`,
		status, visitorID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return a, nil
}

// RecordVisit inserts the attendance record and increments the visitor's
// counter as one atomic unit; a failure leaves neither write applied
func (r *VisitorRepository) RecordVisit(ctx context.Context, req *models.RecordVisitRequest, registeredBy int) (*models.VisitRecord, error) {
	tx, err := r.DB.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	rec := &models.VisitRecord{
		VisitorID:    req.VisitorID,
		VisitDate:    req.VisitDate,
		Service:      req.Service,
		RegisteredBy: registeredBy,
		Notes:        req.Notes,
		BroughtBy:    req.BroughtBy,
	}
	err = tx.QueryRow(ctx,
		`INSERT INTO visit_records(visitor_id, visit_date, service, registered_by, notes, brought_by)
         VALUES($1, $2, $3, $4, $5, $6)
         RETURNING id, created_at`,
		rec.VisitorID, rec.VisitDate, rec.Service, rec.RegisteredBy, rec.Notes, rec.BroughtBy,
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return nil, err
	}

	tag, err := tx.Exec(ctx,
		`UPDATE visitors SET total_visits = total_visits + 1, last_visit_date=$1, updated_at=NOW() WHERE id=$2`,
		req.VisitDate, req.VisitorID)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("visitor %d: %w", req.VisitorID, ErrVisitorNotFound)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return rec, nil
}

// VisitHistory returns the visitor's attendance records newest-first
func (r *VisitorRepository) VisitHistory(ctx context.Context, visitorID int) ([]*models.VisitRecord, error) {
	rows, err := r.DB.Query(ctx,
		`SELECT id, visitor_id, visit_date, service, registered_by, notes, brought_by, created_at
         FROM visit_records WHERE visitor_id=$1 ORDER BY visit_date DESC, id DESC`, visitorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []*models.VisitRecord{}
	for rows.Next() {
		var rec models.VisitRecord
		err := rows.Scan(&rec.ID, &rec.VisitorID, &rec.VisitDate, &rec.Service,
			&rec.RegisteredBy, &rec.Notes, &rec.BroughtBy, &rec.CreatedAt)
		if err != nil {
			return nil, err
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}

// ConvertToMember promotes a visitor through the generic update path
func (r *VisitorRepository) ConvertToMember(ctx context.Context, visitorID int, memberID string, convertedAt time.Time) error {
	isMember := true
	status := models.VisitorConverted
	followUp := models.FollowUpCompleted
	return r.Update(ctx, visitorID, &models.UpdateVisitorRequest{
		IsMember:            &isMember,
		MemberID:            &memberID,
		ConvertedToMemberAt: &convertedAt,
		Status:              &status,
		FollowUpStatus:      &followUp,
	})
}

// Stats scans the current visitor set and derives the dashboard aggregates.
// Rates are percentages rounded half-up to 2 decimals; an empty set yields
// all zeros.
func (r *VisitorRepository) Stats(ctx context.Context, monthStart time.Time) (*models.VisitorStats, error) {
	var s models.VisitorStats
	var visitSum int
	var returned int

	err := r.DB.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE first_visit_date >= $1),
		       COUNT(*) FILTER (WHERE status = 'active'),
		       COUNT(*) FILTER (WHERE status = 'converted'),
		       COUNT(*) FILTER (WHERE follow_up_status = 'pending'),
		       COALESCE(SUM(total_visits), 0),
		       COUNT(*) FILTER (WHERE total_visits > 1)
		FROM visitors`, monthStart,
	).Scan(&s.TotalVisitors, &s.NewThisMonth, &s.ActiveVisitors,
		&s.ConvertedToMembers, &s.PendingFollowUp, &visitSum, &returned)
	if err != nil {
		return nil, err
	}

	if s.TotalVisitors > 0 {
		s.AverageVisitsPerVisitor = round2(float64(visitSum) / float64(s.TotalVisitors))
		s.RetentionRate = round2(100 * float64(returned) / float64(s.TotalVisitors))
		s.ConversionRate = round2(100 * float64(s.ConvertedToMembers) / float64(s.TotalVisitors))
	}
	return &s, nil
}

// round2 rounds half-up to two decimal places
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
