package services

import (
	"context"
	"errors"
	"testing"

	"civic-reporter-be/models"
	"civic-reporter-be/store"
)

func newAuthFixture() *AuthService {
	return NewAuthService(store.NewMemory().Users())
}

func TestLoginStableIdentityForEmail(t *testing.T) {
	auth := newAuthFixture()
	ctx := context.Background()

	first, err := auth.Login(ctx, models.TypeUser, "a@x.com", "")
	if err != nil {
		t.Fatalf("first Login: %v", err)
	}
	second, err := auth.Login(ctx, models.TypeUser, "a@x.com", "")
	if err != nil {
		t.Fatalf("second Login: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("same email produced different identities: %q vs %q", first.ID, second.ID)
	}

	other, _ := auth.Login(ctx, models.TypeUser, "b@x.com", "")
	if other.ID == first.ID {
		t.Error("different emails collided on one identity")
	}
}

func TestLoginEmailNormalization(t *testing.T) {
	auth := newAuthFixture()
	ctx := context.Background()

	plain, _ := auth.Login(ctx, models.TypeUser, "a@x.com", "")
	shouty, _ := auth.Login(ctx, models.TypeUser, "  A@X.COM ", "")
	if plain.ID != shouty.ID {
		t.Errorf("case/whitespace variants split the identity: %q vs %q", plain.ID, shouty.ID)
	}
}

func TestLoginFreshIdentityWithoutEmail(t *testing.T) {
	auth := newAuthFixture()
	ctx := context.Background()

	first, err := auth.Login(ctx, models.TypeUser, "", "")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	second, err := auth.Login(ctx, models.TypeUser, "", "")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if first.ID == second.ID {
		t.Error("anonymous logins must not share an identity")
	}
}

func TestLoginRejectsUnknownType(t *testing.T) {
	auth := newAuthFixture()
	_, err := auth.Login(context.Background(), "superuser", "a@x.com", "")
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Errorf("err = %v, want ValidationError", err)
	}
}

func TestAdminLogin(t *testing.T) {
	auth := newAuthFixture()
	ctx := context.Background()

	if _, err := auth.Login(ctx, models.TypeAdmin, "admin@civic.com", "wrong"); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("wrong password: err = %v, want ErrUnauthenticated", err)
	}
	if _, err := auth.Login(ctx, models.TypeAdmin, "who@else.com", "admin123"); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("wrong email: err = %v, want ErrUnauthenticated", err)
	}

	admin, err := auth.Login(ctx, models.TypeAdmin, "admin@civic.com", "admin123")
	if err != nil {
		t.Fatalf("admin Login: %v", err)
	}
	if !admin.IsAdmin() {
		t.Error("admin login did not produce an admin user")
	}
}

func TestValidateAdminCredentials(t *testing.T) {
	if !ValidateAdminCredentials("admin@civic.com", "admin123") {
		t.Error("placeholder credentials should validate")
	}
	if ValidateAdminCredentials("admin@civic.com", "hunter2") {
		t.Error("wrong password should not validate")
	}
}

func TestCurrentUser(t *testing.T) {
	auth := newAuthFixture()
	ctx := context.Background()

	user, _ := auth.Login(ctx, models.TypeUser, "a@x.com", "")

	got, err := auth.CurrentUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("CurrentUser: %v", err)
	}
	if got.Email != "a@x.com" {
		t.Errorf("Email = %q", got.Email)
	}

	if _, err := auth.CurrentUser(ctx, ""); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("empty id: err = %v, want ErrUnauthenticated", err)
	}
	if _, err := auth.CurrentUser(ctx, "user_nobody"); !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("unknown id: err = %v, want ErrUnauthenticated", err)
	}
}
