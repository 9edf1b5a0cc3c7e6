package store

import (
	"context"
	"errors"

	"civic-reporter-be/models"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a guarded update loses to a concurrent
// writer and no longer applies.
var ErrConflict = errors.New("concurrent modification")

// ErrCorruptState is returned when persisted data can no longer be decoded.
var ErrCorruptState = errors.New("corrupt stored state")

// IssueFilter narrows a listing. Zero-valued fields match everything.
type IssueFilter struct {
	Status   models.IssueStatus
	Category models.IssueCategory
	Search   string // case-insensitive match on title or description
}

// IssuePatch carries the fields an update may change. Nil fields stay
// untouched. Identity, ownership and creation instants are not patchable.
type IssuePatch struct {
	Title       *string
	Description *string
	Category    *models.IssueCategory
	Photo       *string
	Coordinates *models.Coordinates
	Address     *string
	Status      *models.IssueStatus

	// ExpectedStatus makes the patch conditional: it only applies while
	// the stored status still equals it, otherwise ErrConflict. Guards
	// the forward-only workflow against concurrent writers.
	ExpectedStatus *models.IssueStatus
}

// IssueStore defines persistence operations for issues.
type IssueStore interface {
	GetAll(ctx context.Context, filter IssueFilter) ([]models.Issue, error)
	GetByID(ctx context.Context, id string) (models.Issue, error)
	GetByUser(ctx context.Context, userID string) ([]models.Issue, error)
	Create(ctx context.Context, issue models.Issue) error
	Update(ctx context.Context, id string, patch IssuePatch) error
	Delete(ctx context.Context, id string) error
	CountByStatus(ctx context.Context) (map[models.IssueStatus]int64, error)
	Recent(ctx context.Context, limit int) ([]models.Issue, error)
	BackfillOwnership(ctx context.Context, ownerID string) (int64, error)
}

// UserStore defines persistence operations for users.
type UserStore interface {
	GetByID(ctx context.Context, id string) (models.User, error)
	Upsert(ctx context.Context, user models.User) error
}

// MetaStore tracks the stored schema version so migrations run once.
type MetaStore interface {
	SchemaVersion(ctx context.Context) (int, error)
	SetSchemaVersion(ctx context.Context, version int) error
}
