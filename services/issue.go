package services

import (
	"context"
	"strings"
	"time"

	"civic-reporter-be/models"
	"civic-reporter-be/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IssueService owns creation validation and the status workflow.
type IssueService struct {
	issues store.IssueStore
}

func NewIssueService(issues store.IssueStore) *IssueService {
	return &IssueService{issues: issues}
}

// CreateIssueInput is the reporting form payload.
type CreateIssueInput struct {
	Title       string
	Description string
	Category    string
	Photo       *string
	Coordinates *models.Coordinates
	Address     string
}

// Create validates the form payload and records a new issue owned by user,
// starting at submitted.
func (s *IssueService) Create(ctx context.Context, user models.User, in CreateIssueInput) (models.Issue, error) {
	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	category := models.IssueCategory(strings.TrimSpace(in.Category))

	switch {
	case title == "":
		return models.Issue{}, invalidInput("title is required")
	case len(title) > 200:
		return models.Issue{}, invalidInput("title must be at most 200 characters")
	case description == "":
		return models.Issue{}, invalidInput("description is required")
	case len(description) > 1000:
		return models.Issue{}, invalidInput("description must be at most 1000 characters")
	case !category.Valid():
		return models.Issue{}, invalidInput("unknown category")
	case in.Coordinates == nil:
		return models.Issue{}, invalidInput("coordinates are required")
	}

	now := time.Now().UTC()
	issue := models.Issue{
		ID:          primitive.NewObjectID().Hex(),
		UserID:      user.ID,
		Title:       title,
		Description: description,
		Category:    category,
		Photo:       in.Photo,
		Coordinates: *in.Coordinates,
		Address:     strings.TrimSpace(in.Address),
		Status:      models.StatusSubmitted,
		Timestamp:   now.UnixMilli(),
		CreatedAt:   now,
	}
	if err := s.issues.Create(ctx, issue); err != nil {
		return models.Issue{}, err
	}
	return issue, nil
}

func (s *IssueService) List(ctx context.Context, filter store.IssueFilter) ([]models.Issue, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, invalidInput("unknown status")
	}
	if filter.Category != "" && !filter.Category.Valid() {
		return nil, invalidInput("unknown category")
	}
	return s.issues.GetAll(ctx, filter)
}

func (s *IssueService) Get(ctx context.Context, id string) (models.Issue, error) {
	return s.issues.GetByID(ctx, id)
}

// ByStatus is a filter convenience over List.
func (s *IssueService) ByStatus(ctx context.Context, status models.IssueStatus) ([]models.Issue, error) {
	return s.List(ctx, store.IssueFilter{Status: status})
}

// UpdateIssueInput carries the editable issue fields. Nil fields stay as
// they are.
type UpdateIssueInput struct {
	Title       *string
	Description *string
	Category    *string
	Photo       *string
	Coordinates *models.Coordinates
	Address     *string
	Status      *string
}

// Update patches an issue. Status changes go through the same forward-only
// rule as UpdateStatus.
func (s *IssueService) Update(ctx context.Context, id string, in UpdateIssueInput) (models.Issue, error) {
	current, err := s.issues.GetByID(ctx, id)
	if err != nil {
		return models.Issue{}, err
	}

	patch := store.IssuePatch{
		Photo:       in.Photo,
		Coordinates: in.Coordinates,
	}
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return models.Issue{}, invalidInput("title cannot be empty")
		}
		patch.Title = &title
	}
	if in.Description != nil {
		description := strings.TrimSpace(*in.Description)
		if description == "" {
			return models.Issue{}, invalidInput("description cannot be empty")
		}
		patch.Description = &description
	}
	if in.Category != nil {
		category := models.IssueCategory(strings.TrimSpace(*in.Category))
		if !category.Valid() {
			return models.Issue{}, invalidInput("unknown category")
		}
		patch.Category = &category
	}
	if in.Address != nil {
		address := strings.TrimSpace(*in.Address)
		patch.Address = &address
	}
	if in.Status != nil {
		status := models.IssueStatus(*in.Status)
		if !current.Status.CanAdvanceTo(status) {
			return models.Issue{}, invalidInput("status cannot move backwards")
		}
		patch.Status = &status
		// Guard against a concurrent writer moving the status between
		// this read and the write.
		patch.ExpectedStatus = &current.Status
	}

	if err := s.issues.Update(ctx, id, patch); err != nil {
		return models.Issue{}, err
	}
	return s.issues.GetByID(ctx, id)
}

// UpdateStatus advances an issue along the workflow. Backward moves are
// rejected; re-applying the current status is a harmless no-op, which
// keeps completed terminal.
func (s *IssueService) UpdateStatus(ctx context.Context, id string, next models.IssueStatus) (models.Issue, error) {
	current, err := s.issues.GetByID(ctx, id)
	if err != nil {
		return models.Issue{}, err
	}
	if !current.Status.CanAdvanceTo(next) {
		return models.Issue{}, invalidInput("status cannot move backwards")
	}
	// Conditional on the status just read: a concurrent writer that
	// commits first makes this a conflict instead of a regression.
	patch := store.IssuePatch{Status: &next, ExpectedStatus: &current.Status}
	if err := s.issues.Update(ctx, id, patch); err != nil {
		return models.Issue{}, err
	}
	current.Status = next
	return current, nil
}

// NextStatus exposes the workflow chain: submitted, in_progress, completed.
func (s *IssueService) NextStatus(current models.IssueStatus) models.IssueStatus {
	return current.Next()
}

func (s *IssueService) Delete(ctx context.Context, id string) error {
	return s.issues.Delete(ctx, id)
}

// StatusCounts aggregates the whole collection, recomputed on demand.
type StatusCounts struct {
	Submitted  int64 `json:"submitted"`
	InProgress int64 `json:"in_progress"`
	Completed  int64 `json:"completed"`
}

func (s *IssueService) StatusCounts(ctx context.Context) (StatusCounts, error) {
	counts, err := s.issues.CountByStatus(ctx)
	if err != nil {
		return StatusCounts{}, err
	}
	return StatusCounts{
		Submitted:  counts[models.StatusSubmitted],
		InProgress: counts[models.StatusInProgress],
		Completed:  counts[models.StatusCompleted],
	}, nil
}

// defaultRecentLimit is how many pins the map view renders at once.
const defaultRecentLimit = 19

// Recent returns the newest issues for the map view. Out-of-range limits
// fall back to the map's pin budget.
func (s *IssueService) Recent(ctx context.Context, limit int) ([]models.Issue, error) {
	if limit < 1 || limit > 100 {
		limit = defaultRecentLimit
	}
	return s.issues.Recent(ctx, limit)
}
