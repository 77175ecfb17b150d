package store

import (
	"context"
	"errors"
	"testing"

	"github.com/dukerupert/grocerybuddy/internal/model"
)

func TestUserCreate(t *testing.T) {
	us := NewUserStore(setupTestDB(t))

	u, err := us.Create(context.Background(), "alice", "alice@x.com", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if u.ID == 0 {
		t.Error("expected non-zero ID")
	}
	if u.Username != "alice" || u.Email != "alice@x.com" || u.PasswordHash != "hash" {
		t.Errorf("got %+v", u)
	}
	if u.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}
}

func TestUserCreateDuplicate(t *testing.T) {
	us := NewUserStore(setupTestDB(t))
	ctx := context.Background()

	if _, err := us.Create(ctx, "alice", "alice@x.com", "hash"); err != nil {
		t.Fatalf("create user: %v", err)
	}

	tests := []struct {
		name     string
		username string
		email    string
	}{
		{"same username", "alice", "other@x.com"},
		{"same email", "bob", "alice@x.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := us.Create(ctx, tt.username, tt.email, "hash")
			if !errors.Is(err, model.ErrConflict) {
				t.Fatalf("err = %v, want ErrConflict", err)
			}
		})
	}
}

func TestUserUniquenessIsCaseSensitive(t *testing.T) {
	us := NewUserStore(setupTestDB(t))
	ctx := context.Background()

	if _, err := us.Create(ctx, "alice", "alice@x.com", "hash"); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if _, err := us.Create(ctx, "Alice", "Alice@x.com", "hash"); err != nil {
		t.Fatalf("case-different user should be allowed: %v", err)
	}
}

func TestUserGetByIdentifier(t *testing.T) {
	us := NewUserStore(setupTestDB(t))
	ctx := context.Background()

	created, err := us.Create(ctx, "alice", "alice@x.com", "hash")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	for _, ident := range []string{"alice", "alice@x.com"} {
		u, err := us.GetByIdentifier(ctx, ident)
		if err != nil {
			t.Fatalf("get %q: %v", ident, err)
		}
		if u == nil || u.ID != created.ID {
			t.Errorf("get %q = %+v, want id %d", ident, u, created.ID)
		}
	}

	u, err := us.GetByIdentifier(ctx, "nobody")
	if err != nil {
		t.Fatalf("get nobody: %v", err)
	}
	if u != nil {
		t.Errorf("expected nil for unknown identifier, got %+v", u)
	}
}

func TestUserGetByIDNotFound(t *testing.T) {
	us := NewUserStore(setupTestDB(t))

	u, err := us.GetByID(context.Background(), 99999)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if u != nil {
		t.Errorf("expected nil, got %+v", u)
	}
}

func TestUserExists(t *testing.T) {
	us := NewUserStore(setupTestDB(t))
	ctx := context.Background()

	if _, err := us.Create(ctx, "alice", "alice@x.com", "hash"); err != nil {
		t.Fatalf("create user: %v", err)
	}

	exists, err := us.Exists(ctx, "alice", "new@x.com")
	if err != nil || !exists {
		t.Errorf("Exists(username taken) = %v, %v", exists, err)
	}
	exists, err = us.Exists(ctx, "bob", "bob@x.com")
	if err != nil || exists {
		t.Errorf("Exists(free) = %v, %v", exists, err)
	}
}
