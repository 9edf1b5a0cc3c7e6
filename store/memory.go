package store

import (
	"context"
	"strings"
	"sync"

	"civic-reporter-be/models"
)

// Memory keeps everything in process memory. It backs the test suite.
type Memory struct {
	mu     sync.RWMutex
	issues []models.Issue
	users  map[string]models.User
	schema int
}

func NewMemory() *Memory {
	return &Memory{users: make(map[string]models.User)}
}

func matchesFilter(issue models.Issue, filter IssueFilter) bool {
	if filter.Status != "" && issue.Status != filter.Status {
		return false
	}
	if filter.Category != "" && issue.Category != filter.Category {
		return false
	}
	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(issue.Title), needle) &&
			!strings.Contains(strings.ToLower(issue.Description), needle) &&
			!strings.Contains(strings.ToLower(string(issue.Category)), needle) &&
			!strings.Contains(strings.ToLower(issue.Address), needle) {
			return false
		}
	}
	return true
}

func (m *Memory) GetAll(_ context.Context, filter IssueFilter) ([]models.Issue, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]models.Issue, 0, len(m.issues))
	for _, issue := range m.issues {
		if matchesFilter(issue, filter) {
			result = append(result, issue)
		}
	}
	return result, nil
}

func (m *Memory) GetByID(_ context.Context, id string) (models.Issue, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, issue := range m.issues {
		if issue.ID == id {
			return issue, nil
		}
	}
	return models.Issue{}, ErrNotFound
}

func (m *Memory) GetByUser(_ context.Context, userID string) ([]models.Issue, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]models.Issue, 0)
	for _, issue := range m.issues {
		if issue.UserID == userID {
			result = append(result, issue)
		}
	}
	return result, nil
}

func (m *Memory) Create(_ context.Context, issue models.Issue) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.issues = append(m.issues, issue)
	return nil
}

func applyPatch(issue *models.Issue, patch IssuePatch) {
	if patch.Title != nil {
		issue.Title = *patch.Title
	}
	if patch.Description != nil {
		issue.Description = *patch.Description
	}
	if patch.Category != nil {
		issue.Category = *patch.Category
	}
	if patch.Photo != nil {
		issue.Photo = patch.Photo
	}
	if patch.Coordinates != nil {
		issue.Coordinates = *patch.Coordinates
	}
	if patch.Address != nil {
		issue.Address = *patch.Address
	}
	if patch.Status != nil {
		issue.Status = *patch.Status
	}
}

func (m *Memory) Update(_ context.Context, id string, patch IssuePatch) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.issues {
		if m.issues[i].ID == id {
			if patch.ExpectedStatus != nil && m.issues[i].Status != *patch.ExpectedStatus {
				return ErrConflict
			}
			applyPatch(&m.issues[i], patch)
			return nil
		}
	}
	return ErrNotFound
}

func (m *Memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.issues {
		if m.issues[i].ID == id {
			m.issues = append(m.issues[:i], m.issues[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (m *Memory) CountByStatus(_ context.Context) (map[models.IssueStatus]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := make(map[models.IssueStatus]int64)
	for _, issue := range m.issues {
		counts[issue.Status]++
	}
	return counts, nil
}

func (m *Memory) Recent(_ context.Context, limit int) ([]models.Issue, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// Newest first; creation order is oldest first.
	result := make([]models.Issue, 0, limit)
	for i := len(m.issues) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, m.issues[i])
	}
	return result, nil
}

func (m *Memory) BackfillOwnership(_ context.Context, ownerID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var touched int64
	for i := range m.issues {
		if m.issues[i].UserID == "" {
			m.issues[i].UserID = ownerID
			touched++
		}
	}
	return touched, nil
}

// MemoryUsers is the in-memory UserStore.
type MemoryUsers struct {
	mem *Memory
}

func (m *Memory) Users() *MemoryUsers { return &MemoryUsers{mem: m} }

func (u *MemoryUsers) GetByID(_ context.Context, id string) (models.User, error) {
	u.mem.mu.RLock()
	defer u.mem.mu.RUnlock()

	user, ok := u.mem.users[id]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return user, nil
}

func (u *MemoryUsers) Upsert(_ context.Context, user models.User) error {
	u.mem.mu.Lock()
	defer u.mem.mu.Unlock()

	if existing, ok := u.mem.users[user.ID]; ok {
		user.CreatedAt = existing.CreatedAt
	}
	u.mem.users[user.ID] = user
	return nil
}

func (m *Memory) SchemaVersion(_ context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.schema, nil
}

func (m *Memory) SetSchemaVersion(_ context.Context, version int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.schema = version
	return nil
}
