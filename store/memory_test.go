package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"civic-reporter-be/models"
)

func sampleIssue(id, userID string, status models.IssueStatus) models.Issue {
	now := time.Now().UTC()
	return models.Issue{
		ID:          id,
		UserID:      userID,
		Title:       "Pothole on 5th",
		Description: "deep pothole",
		Category:    models.Roads,
		Coordinates: models.Coordinates{Lat: 12.9, Lng: 77.6},
		Status:      status,
		Timestamp:   now.UnixMilli(),
		CreatedAt:   now,
	}
}

func TestMemoryCreateAndGet(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()

	if err := mem.Create(ctx, sampleIssue("i1", "u1", models.StatusSubmitted)); err != nil {
		t.Fatalf("Create: %v", err)
	}

	issue, err := mem.GetByID(ctx, "i1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if issue.UserID != "u1" {
		t.Errorf("UserID = %q, want u1", issue.UserID)
	}

	if _, err := mem.GetByID(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID(missing) = %v, want ErrNotFound", err)
	}
}

func TestMemoryUpdateMergesPatch(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()
	mem.Create(ctx, sampleIssue("i1", "u1", models.StatusSubmitted))

	title := "Bigger pothole"
	if err := mem.Update(ctx, "i1", IssuePatch{Title: &title}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	issue, _ := mem.GetByID(ctx, "i1")
	if issue.Title != "Bigger pothole" {
		t.Errorf("Title = %q, want Bigger pothole", issue.Title)
	}
	if issue.Description != "deep pothole" {
		t.Errorf("Description changed by unrelated patch: %q", issue.Description)
	}
	if issue.Status != models.StatusSubmitted {
		t.Errorf("Status changed by unrelated patch: %q", issue.Status)
	}
}

func TestMemoryUpdateMissing(t *testing.T) {
	mem := NewMemory()
	title := "x"
	err := mem.Update(context.Background(), "ghost", IssuePatch{Title: &title})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Update(missing) = %v, want ErrNotFound", err)
	}
}

func TestMemoryGuardedUpdateConflict(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()
	mem.Create(ctx, sampleIssue("i1", "u1", models.StatusCompleted))

	// A writer that read submitted before someone else completed the
	// issue must not land its write.
	next := models.StatusInProgress
	expected := models.StatusSubmitted
	err := mem.Update(ctx, "i1", IssuePatch{Status: &next, ExpectedStatus: &expected})
	if !errors.Is(err, ErrConflict) {
		t.Fatalf("stale guarded update = %v, want ErrConflict", err)
	}

	issue, _ := mem.GetByID(ctx, "i1")
	if issue.Status != models.StatusCompleted {
		t.Errorf("status = %q, terminal status was overwritten", issue.Status)
	}

	// With the guard matching the stored status the patch applies.
	completed := models.StatusCompleted
	if err := mem.Update(ctx, "i1", IssuePatch{Status: &completed, ExpectedStatus: &completed}); err != nil {
		t.Errorf("matching guarded update = %v, want nil", err)
	}
}

func TestMemoryDelete(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()
	mem.Create(ctx, sampleIssue("i1", "u1", models.StatusSubmitted))

	if err := mem.Delete(ctx, "i1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	all, err := mem.GetAll(ctx, IssueFilter{})
	if err != nil {
		t.Fatalf("GetAll: %v", err)
	}
	for _, issue := range all {
		if issue.ID == "i1" {
			t.Error("deleted issue still present")
		}
	}

	if err := mem.Delete(ctx, "i1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete = %v, want ErrNotFound", err)
	}
}

func TestMemoryFilters(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()

	first := sampleIssue("i1", "u1", models.StatusSubmitted)
	second := sampleIssue("i2", "u1", models.StatusCompleted)
	second.Title = "Broken street light"
	second.Category = models.StreetLighting
	second.Address = "221B Baker Street"
	mem.Create(ctx, first)
	mem.Create(ctx, second)

	byStatus, _ := mem.GetAll(ctx, IssueFilter{Status: models.StatusCompleted})
	if len(byStatus) != 1 || byStatus[0].ID != "i2" {
		t.Errorf("status filter returned %v", byStatus)
	}

	byCategory, _ := mem.GetAll(ctx, IssueFilter{Category: models.Roads})
	if len(byCategory) != 1 || byCategory[0].ID != "i1" {
		t.Errorf("category filter returned %v", byCategory)
	}

	bySearch, _ := mem.GetAll(ctx, IssueFilter{Search: "STREET LIGHT"})
	if len(bySearch) != 1 || bySearch[0].ID != "i2" {
		t.Errorf("search filter returned %v", bySearch)
	}

	// Search also covers category and address.
	byAddress, _ := mem.GetAll(ctx, IssueFilter{Search: "baker"})
	if len(byAddress) != 1 || byAddress[0].ID != "i2" {
		t.Errorf("address search returned %v", byAddress)
	}
	byCategoryText, _ := mem.GetAll(ctx, IssueFilter{Search: "potholes"})
	if len(byCategoryText) != 1 || byCategoryText[0].ID != "i1" {
		t.Errorf("category search returned %v", byCategoryText)
	}
}

func TestMemoryCountByStatus(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()
	mem.Create(ctx, sampleIssue("i1", "u1", models.StatusSubmitted))
	mem.Create(ctx, sampleIssue("i2", "u1", models.StatusSubmitted))
	mem.Create(ctx, sampleIssue("i3", "u2", models.StatusInProgress))

	counts, err := mem.CountByStatus(ctx)
	if err != nil {
		t.Fatalf("CountByStatus: %v", err)
	}
	if counts[models.StatusSubmitted] != 2 {
		t.Errorf("submitted = %d, want 2", counts[models.StatusSubmitted])
	}
	if counts[models.StatusInProgress] != 1 {
		t.Errorf("in_progress = %d, want 1", counts[models.StatusInProgress])
	}
	if counts[models.StatusCompleted] != 0 {
		t.Errorf("completed = %d, want 0", counts[models.StatusCompleted])
	}
}

func TestMemoryBackfillOwnership(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()

	orphan := sampleIssue("old", "", models.StatusSubmitted)
	owned := sampleIssue("new", "u1", models.StatusSubmitted)
	mem.Create(ctx, orphan)
	mem.Create(ctx, owned)

	touched, err := mem.BackfillOwnership(ctx, models.LegacyOwnerID)
	if err != nil {
		t.Fatalf("BackfillOwnership: %v", err)
	}
	if touched != 1 {
		t.Errorf("touched = %d, want 1", touched)
	}

	migrated, _ := mem.GetByID(ctx, "old")
	if migrated.UserID != models.LegacyOwnerID {
		t.Errorf("orphan owner = %q, want legacy", migrated.UserID)
	}
	kept, _ := mem.GetByID(ctx, "new")
	if kept.UserID != "u1" {
		t.Errorf("owned issue was rewritten: %q", kept.UserID)
	}
}

func TestMemoryRecentNewestFirst(t *testing.T) {
	mem := NewMemory()
	ctx := context.Background()
	mem.Create(ctx, sampleIssue("i1", "u1", models.StatusSubmitted))
	mem.Create(ctx, sampleIssue("i2", "u1", models.StatusSubmitted))
	mem.Create(ctx, sampleIssue("i3", "u1", models.StatusSubmitted))

	recent, err := mem.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(recent) != 2 || recent[0].ID != "i3" || recent[1].ID != "i2" {
		t.Errorf("Recent returned %v", recent)
	}
}

func TestMemoryUsers(t *testing.T) {
	mem := NewMemory()
	users := mem.Users()
	ctx := context.Background()

	if _, err := users.GetByID(ctx, "nobody"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID(nobody) = %v, want ErrNotFound", err)
	}

	user := models.User{ID: "u1", Type: models.TypeUser, Email: "a@x.com"}
	if err := users.Upsert(ctx, user); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	got, err := users.GetByID(ctx, "u1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Email != "a@x.com" {
		t.Errorf("Email = %q", got.Email)
	}
}
