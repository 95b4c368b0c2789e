package models

import "time"

// Tier is one of the fixed ranked buckets, S highest and D lowest.
type Tier string

const (
	TierS Tier = "S"
	TierA Tier = "A"
	TierB Tier = "B"
	TierC Tier = "C"
	TierD Tier = "D"
)

// Tiers lists every tier in rank order.
var Tiers = []Tier{TierS, TierA, TierB, TierC, TierD}

// DefaultTier receives items that have not been placed yet.
const DefaultTier = TierD

// Valid reports whether t is one of the known tiers.
func (t Tier) Valid() bool {
	switch t {
	case TierS, TierA, TierB, TierC, TierD:
		return true
	}
	return false
}

// Board maps each tier to the ordered item ids placed in it.
type Board map[Tier][]string

// ParticipantState tracks where a participant is with a project.
type ParticipantState string

const (
	StateNotStarted ParticipantState = "not_started"
	StateEditing    ParticipantState = "editing"
	StateSubmitted  ParticipantState = "submitted"
)

// AnonymousName replaces a blank participant name in results.
const AnonymousName = "(anonymous)"

// Request types

type UpdateProjectRequest struct {
	Title string `json:"title"`
}

type SubmitBoardRequest struct {
	ParticipantName string `json:"participant_name"`
	Board           Board  `json:"board"`
}

type ExportBoardRequest struct {
	ParticipantName string `json:"participant_name"`
	Board           Board  `json:"board"`
}

// Response types

type AddItemsResponse struct {
	Items []Item `json:"items"`
}

type SubmitBoardResponse struct {
	Created bool   `json:"created"`
	Message string `json:"message"`
}

type MyBoardResponse struct {
	State           ParticipantState `json:"state"`
	ParticipantName string           `json:"participant_name,omitempty"`
	Board           Board            `json:"board"`
	UpdatedAt       *time.Time       `json:"updated_at,omitempty"`
}

// Domain types

type Project struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

type Item struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"project_id"`
	Name      string    `json:"name"`
	ImageURL  string    `json:"image_url"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}

type ProjectWithItems struct {
	Project Project `json:"project"`
	Items   []Item  `json:"items"`
}

type Submission struct {
	ProjectID       string    `json:"project_id"`
	ParticipantID   string    `json:"-"` // Never expose in JSON
	ParticipantName string    `json:"participant_name"`
	Board           Board     `json:"board"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Aggregate types

// Stat lists, per tier, the participant names that placed an item there.
type Stat map[Tier][]string

// TierCounts is how many submissions placed an item in each tier.
type TierCounts map[Tier]int

type ItemResult struct {
	Item   Item       `json:"item"`
	Tiers  Stat       `json:"tiers"`
	Counts TierCounts `json:"counts"`
}

type ProjectResults struct {
	Project         Project      `json:"project"`
	SubmissionCount int          `json:"submission_count"`
	ItemCount       int          `json:"item_count"`
	Items           []ItemResult `json:"items"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
