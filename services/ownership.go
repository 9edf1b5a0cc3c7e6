package services

import (
	"context"
	"errors"

	"civic-reporter-be/models"
	"civic-reporter-be/store"
)

// schemaVersionOwnership is the version at which every issue carries an owner.
const schemaVersionOwnership = 1

// OwnershipService answers who may see and touch which issues.
type OwnershipService struct {
	issues store.IssueStore
	meta   store.MetaStore
}

func NewOwnershipService(issues store.IssueStore, meta store.MetaStore) *OwnershipService {
	return &OwnershipService{issues: issues, meta: meta}
}

// MyIssues lists the issues owned by user. No caller, no issues.
func (s *OwnershipService) MyIssues(ctx context.Context, user *models.User) ([]models.Issue, error) {
	if user == nil || user.ID == "" {
		return []models.Issue{}, nil
	}
	return s.issues.GetByUser(ctx, user.ID)
}

// CanModify reports whether user may change or delete the issue: the owner
// may, an admin always may. Unknown issues and missing callers may not.
func (s *OwnershipService) CanModify(ctx context.Context, user *models.User, issueID string) (bool, error) {
	if user == nil || user.ID == "" {
		return false, nil
	}
	issue, err := s.issues.GetByID(ctx, issueID)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if user.IsAdmin() {
		return true, nil
	}
	return issue.UserID == user.ID, nil
}

// MigrateOwnership backfills the legacy owner onto issues recorded before
// issues carried one, then records the schema version so later boots skip
// it. Returns how many records were touched.
func (s *OwnershipService) MigrateOwnership(ctx context.Context) (int64, error) {
	version, err := s.meta.SchemaVersion(ctx)
	if err != nil {
		return 0, err
	}
	if version >= schemaVersionOwnership {
		return 0, nil
	}
	touched, err := s.issues.BackfillOwnership(ctx, models.LegacyOwnerID)
	if err != nil {
		return 0, err
	}
	if err := s.meta.SetSchemaVersion(ctx, schemaVersionOwnership); err != nil {
		return touched, err
	}
	return touched, nil
}
