package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"civic-reporter-be/models"
	"civic-reporter-be/store"

	"golang.org/x/crypto/bcrypt"
)

// TODO: replace the hardcoded admin credentials with real user records
// before this runs anywhere that matters.
const adminEmail = "admin@civic.com"

var adminPasswordHash, _ = bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.DefaultCost)

// AuthService derives and persists user identities. There is no real
// credential verification beyond the placeholder admin check.
type AuthService struct {
	users store.UserStore
}

func NewAuthService(users store.UserStore) *AuthService {
	return &AuthService{users: users}
}

// ValidateAdminCredentials compares against the placeholder admin secret.
func ValidateAdminCredentials(email, password string) bool {
	if !strings.EqualFold(strings.TrimSpace(email), adminEmail) {
		return false
	}
	return bcrypt.CompareHashAndPassword(adminPasswordHash, []byte(password)) == nil
}

// Login constructs the caller's identity and persists the user record.
// The same email always yields the same identity; an empty email yields a
// fresh one. Admin logins must pass the placeholder credential check.
func (s *AuthService) Login(ctx context.Context, userType models.UserType, email, password string) (models.User, error) {
	if !userType.Valid() {
		return models.User{}, invalidInput("unknown user type")
	}
	if userType == models.TypeAdmin && !ValidateAdminCredentials(email, password) {
		return models.User{}, ErrUnauthenticated
	}

	now := time.Now().UTC()
	user := models.User{
		ID:        models.DeriveUserID(email),
		Type:      userType,
		Email:     strings.TrimSpace(email),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.users.Upsert(ctx, user); err != nil {
		return models.User{}, err
	}
	return user, nil
}

// CurrentUser resolves an identity presented on a request. An unknown id
// means the caller is not authenticated, not that the lookup failed.
func (s *AuthService) CurrentUser(ctx context.Context, id string) (models.User, error) {
	if id == "" {
		return models.User{}, ErrUnauthenticated
	}
	user, err := s.users.GetByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return models.User{}, ErrUnauthenticated
	}
	if err != nil {
		return models.User{}, err
	}
	return user, nil
}
