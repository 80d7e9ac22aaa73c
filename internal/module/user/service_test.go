package user

import (
	"context"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/simp-lee/homemarket/internal/domain"
)

// setupTestDB creates an in-memory SQLite database with the User table.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&domain.User{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func setupService(t *testing.T) (domain.UserService, domain.UserRepository) {
	t.Helper()
	repo := NewUserRepository(setupTestDB(t))
	return NewUserService(repo), repo
}

func createUser(t *testing.T, repo domain.UserRepository, name, email string) *domain.User {
	t.Helper()
	user := &domain.User{Name: name, Email: email}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func TestGetUser(t *testing.T) {
	svc, repo := setupService(t)
	want := createUser(t, repo, "Alice", "alice@example.com")

	got, err := svc.GetUser(context.Background(), want.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Name != "Alice" || got.Email != "alice@example.com" {
		t.Errorf("got %+v", got)
	}

	if _, err := svc.GetUser(context.Background(), 999); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	svc, repo := setupService(t)
	user := createUser(t, repo, "Alice", "alice@example.com")

	got, err := svc.UpdateProfile(context.Background(), user.ID, " Alicia ", "")
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if got.Name != "Alicia" {
		t.Errorf("expected trimmed new name, got %q", got.Name)
	}
	if got.Email != "alice@example.com" {
		t.Errorf("empty email must leave the old value, got %q", got.Email)
	}

	got, err = svc.UpdateProfile(context.Background(), user.ID, "", "alicia@example.com")
	if err != nil {
		t.Fatalf("UpdateProfile: %v", err)
	}
	if got.Name != "Alicia" || got.Email != "alicia@example.com" {
		t.Errorf("got %+v", got)
	}

	stored, err := repo.GetByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.Email != "alicia@example.com" {
		t.Errorf("change not persisted: %+v", stored)
	}
}

func TestUpdateProfileValidation(t *testing.T) {
	svc, repo := setupService(t)
	user := createUser(t, repo, "Alice", "alice@example.com")

	tests := []struct {
		name    string
		newName string
		email   string
	}{
		{"name too long", strings.Repeat("x", 101), ""},
		{"malformed email", "", "not-an-email"},
		{"email with display name", "", "Bob <bob@example.com>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpdateProfile(context.Background(), user.ID, tt.newName, tt.email)
			if !domain.IsValidation(err) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestUpdateProfileDuplicateEmail(t *testing.T) {
	svc, repo := setupService(t)
	createUser(t, repo, "Alice", "alice@example.com")
	bob := createUser(t, repo, "Bob", "bob@example.com")

	_, err := svc.UpdateProfile(context.Background(), bob.ID, "", "alice@example.com")
	if !domain.IsAlreadyExists(err) {
		t.Fatalf("expected already exists, got %v", err)
	}
}

func TestUpdateProfileUnknownUser(t *testing.T) {
	svc, _ := setupService(t)
	if _, err := svc.UpdateProfile(context.Background(), 999, "New Name", ""); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestRepositoryDuplicateEmail(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	createUser(t, repo, "Alice", "same@example.com")

	err := repo.Create(context.Background(), &domain.User{Name: "Clone", Email: "same@example.com"})
	if !domain.IsAlreadyExists(err) {
		t.Fatalf("expected already exists, got %v", err)
	}
}

func TestRepositoryGetByEmail(t *testing.T) {
	repo := NewUserRepository(setupTestDB(t))
	want := createUser(t, repo, "Alice", "alice@example.com")

	got, err := repo.GetByEmail(context.Background(), "alice@example.com")
	if err != nil {
		t.Fatalf("GetByEmail: %v", err)
	}
	if got.ID != want.ID {
		t.Errorf("expected user %d, got %d", want.ID, got.ID)
	}

	if _, err := repo.GetByEmail(context.Background(), "nobody@example.com"); !domain.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}
