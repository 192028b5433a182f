package models

import "time"

// VisitorStatus is the overall tracking state of a visitor
type VisitorStatus string

const (
	VisitorActive    VisitorStatus = "active"
	VisitorInactive  VisitorStatus = "inactive"
	VisitorConverted VisitorStatus = "converted"
	VisitorNoContact VisitorStatus = "no_contact"
)

func (s VisitorStatus) Valid() bool {
	switch s {
	case VisitorActive, VisitorInactive, VisitorConverted, VisitorNoContact:
		return true
	}
	return false
}

// FollowUpStatus is the outreach-workflow state, independent of membership
type FollowUpStatus string

const (
	FollowUpPending    FollowUpStatus = "pending"
	FollowUpInProgress FollowUpStatus = "in_progress"
	FollowUpCompleted  FollowUpStatus = "completed"
	FollowUpNoResponse FollowUpStatus = "no_response"
)

func (s FollowUpStatus) Valid() bool {
	switch s {
	case FollowUpPending, FollowUpInProgress, FollowUpCompleted, FollowUpNoResponse:
		return true
	}
	return false
}

type Gender string

const (
	GenderMasculine Gender = "masculine"
	GenderFeminine  Gender = "feminine"
)

func (g Gender) Valid() bool {
	return g == GenderMasculine || g == GenderFeminine
}

type MaritalStatus string

const (
	MaritalSingle   MaritalStatus = "single"
	MaritalMarried  MaritalStatus = "married"
	MaritalDivorced MaritalStatus = "divorced"
	MaritalWidowed  MaritalStatus = "widowed"
)

func (m MaritalStatus) Valid() bool {
	switch m {
	case MaritalSingle, MaritalMarried, MaritalDivorced, MaritalWidowed:
		return true
	}
	return false
}

// Address is the optional mailing address of a visitor
type Address struct {
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip"`
}

type Visitor struct {
	ID            int            `json:"id"`
	Name          string         `json:"name"`
	Email         *string        `json:"email,omitempty"`
	Phone         *string        `json:"phone,omitempty"`
	Address       *Address       `json:"address,omitempty"`
	BirthDate     *time.Time     `json:"birth_date,omitempty"`
	Gender        *Gender        `json:"gender,omitempty"`
	MaritalStatus *MaritalStatus `json:"marital_status,omitempty"`
	Profession    *string        `json:"profession,omitempty"`
	HowDidYouKnow *string        `json:"how_did_you_know,omitempty"`
	Interests     []string       `json:"interests"`
	Observations  *string        `json:"observations,omitempty"`

	FirstVisitDate time.Time  `json:"first_visit_date"`
	LastVisitDate  *time.Time `json:"last_visit_date,omitempty"`
	TotalVisits    int        `json:"total_visits"`

	ContactAttempts []*ContactAttempt `json:"contact_attempts"`
	FollowUpStatus  FollowUpStatus    `json:"follow_up_status"`
	AssignedTo      *int              `json:"assigned_to,omitempty"`

	IsMember            bool       `json:"is_member"`
	MemberID            *string    `json:"member_id,omitempty"`
	ConvertedToMemberAt *time.Time `json:"converted_to_member_at,omitempty"`

	Status    VisitorStatus `json:"status"`
	CreatedBy int           `json:"created_by"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// CreateVisitorRequest represents the request body for registering a visitor
type CreateVisitorRequest struct {
	Name           string         `json:"name"`
	Email          *string        `json:"email"`
	Phone          *string        `json:"phone"`
	Address        *Address       `json:"address"`
	BirthDate      *time.Time     `json:"birth_date"`
	Gender         *Gender        `json:"gender"`
	MaritalStatus  *MaritalStatus `json:"marital_status"`
	Profession     *string        `json:"profession"`
	HowDidYouKnow  *string        `json:"how_did_you_know"`
	Interests      []string       `json:"interests"`
	Observations   *string        `json:"observations"`
	FirstVisitDate time.Time      `json:"first_visit_date"`
	AssignedTo     *int           `json:"assigned_to"`
}

// UpdateVisitorRequest is a partial update: nil fields are left untouched.
// Fields outside this set are ignored even if present in the JSON body.
type UpdateVisitorRequest struct {
	Name                *string         `json:"name"`
	Email               *string         `json:"email"`
	Phone               *string         `json:"phone"`
	Address             *Address        `json:"address"`
	BirthDate           *time.Time      `json:"birth_date"`
	Gender              *Gender         `json:"gender"`
	MaritalStatus       *MaritalStatus  `json:"marital_status"`
	Profession          *string         `json:"profession"`
	HowDidYouKnow       *string         `json:"how_did_you_know"`
	Interests           []string        `json:"interests"`
	Observations        *string         `json:"observations"`
	LastVisitDate       *time.Time      `json:"last_visit_date"`
	TotalVisits         *int            `json:"total_visits"`
	FollowUpStatus      *FollowUpStatus `json:"follow_up_status"`
	AssignedTo          *int            `json:"assigned_to"`
	IsMember            *bool           `json:"is_member"`
	MemberID            *string         `json:"member_id"`
	ConvertedToMemberAt *time.Time      `json:"converted_to_member_at"`
	Status              *VisitorStatus  `json:"status"`
}

// VisitorFilters narrows a visitor listing; zero values mean "no predicate"
type VisitorFilters struct {
	Status         VisitorStatus  `json:"status"`
	FollowUpStatus FollowUpStatus `json:"follow_up_status"`
	AssignedTo     *int           `json:"assigned_to"`
	DateStart      *time.Time     `json:"date_start"`
	DateEnd        *time.Time     `json:"date_end"`
	Search         string         `json:"search"`
}

// VisitorPage is one page of a cursor-paginated listing
type VisitorPage struct {
	Visitors   []*Visitor `json:"visitors"`
	HasMore    bool       `json:"has_more"`
	NextCursor string     `json:"next_cursor,omitempty"`
}

// VisitorStats is derived by scanning the current visitor set, never persisted
type VisitorStats struct {
	TotalVisitors          int     `json:"total_visitors"`
	NewThisMonth           int     `json:"new_this_month"`
	ActiveVisitors         int     `json:"active_visitors"`
	ConvertedToMembers     int     `json:"converted_to_members"`
	PendingFollowUp        int     `json:"pending_follow_up"`
	AverageVisitsPerVisitor float64 `json:"average_visits_per_visitor"`
	RetentionRate          float64 `json:"retention_rate"`
	ConversionRate         float64 `json:"conversion_rate"`
}
