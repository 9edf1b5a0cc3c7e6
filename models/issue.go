package models

import "time"

// IssueCategory enum
type IssueCategory string

const (
	Roads          IssueCategory = "Roads & Potholes"
	StreetLighting IssueCategory = "Street Lighting"
	Sanitation     IssueCategory = "Sanitation"
	Transportation IssueCategory = "Public Transportation"
	Parks          IssueCategory = "Parks & Recreation"
	TrafficSignals IssueCategory = "Traffic Signals"
	Sidewalks      IssueCategory = "Sidewalks"
	Drainage       IssueCategory = "Drainage"
	Other          IssueCategory = "Other"
)

// Categories lists every reportable category, in the order the form shows them.
var Categories = []IssueCategory{
	Roads, StreetLighting, Sanitation, Transportation,
	Parks, TrafficSignals, Sidewalks, Drainage, Other,
}

func (c IssueCategory) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// IssueStatus enum
type IssueStatus string

const (
	StatusSubmitted  IssueStatus = "submitted"
	StatusInProgress IssueStatus = "in_progress"
	StatusCompleted  IssueStatus = "completed"
)

func (s IssueStatus) Valid() bool {
	switch s {
	case StatusSubmitted, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// rank orders statuses along the workflow chain.
func (s IssueStatus) rank() int {
	switch s {
	case StatusSubmitted:
		return 0
	case StatusInProgress:
		return 1
	case StatusCompleted:
		return 2
	}
	return -1
}

// Next returns the status that follows s in the workflow.
// completed is terminal and maps to itself.
func (s IssueStatus) Next() IssueStatus {
	switch s {
	case StatusSubmitted:
		return StatusInProgress
	case StatusInProgress:
		return StatusCompleted
	default:
		return s
	}
}

// CanAdvanceTo reports whether moving from s to next keeps the workflow
// moving forward. Re-applying the current status counts as forward.
func (s IssueStatus) CanAdvanceTo(next IssueStatus) bool {
	return s.Valid() && next.Valid() && next.rank() >= s.rank()
}

// Coordinates is a latitude/longitude pair.
type Coordinates struct {
	Lat float64 `bson:"lat" json:"lat"`
	Lng float64 `bson:"lng" json:"lng"`
}

// Issue represents a civic issue reported by a user
type Issue struct {
	ID          string        `bson:"_id" json:"id"`
	UserID      string        `bson:"userId" json:"userId"`
	Title       string        `bson:"title" json:"title"`
	Description string        `bson:"description" json:"description"`
	Category    IssueCategory `bson:"category" json:"category"`
	Photo       *string       `bson:"photo,omitempty" json:"photo,omitempty"`
	Coordinates Coordinates   `bson:"coordinates" json:"coordinates"`
	Address     string        `bson:"address,omitempty" json:"address,omitempty"`
	Status      IssueStatus   `bson:"status" json:"status"`
	Timestamp   int64         `bson:"timestamp" json:"timestamp"`
	CreatedAt   time.Time     `bson:"createdAt" json:"createdAt"`
}
