package store

import (
	"context"
	"testing"
	"time"

	"github.com/dukerupert/grocerybuddy/internal/model"
)

func TestSessionCreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	ss := NewSessionStore(db)
	u := createTestUser(t, db, "alice")
	ctx := context.Background()

	sess := &model.Session{Token: "tok-1", UserID: u.ID, ExpiresAt: time.Now().Add(7 * 24 * time.Hour)}
	if err := ss.Create(ctx, sess); err != nil {
		t.Fatalf("create session: %v", err)
	}

	got, err := ss.Get(ctx, "tok-1")
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	if got == nil {
		t.Fatal("expected session, got nil")
	}
	if got.UserID != u.ID {
		t.Errorf("user_id = %d, want %d", got.UserID, u.ID)
	}
	if got.Username != "alice" || got.Email != "alice@example.com" {
		t.Errorf("identity = %q/%q", got.Username, got.Email)
	}
	if !got.ExpiresAt.Equal(sess.ExpiresAt) {
		t.Errorf("expires_at = %v, want %v", got.ExpiresAt, sess.ExpiresAt)
	}
}

func TestSessionGetUnknown(t *testing.T) {
	ss := NewSessionStore(setupTestDB(t))

	got, err := ss.Get(context.Background(), "missing")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}

func TestSessionExpired(t *testing.T) {
	db := setupTestDB(t)
	ss := NewSessionStore(db)
	u := createTestUser(t, db, "alice")
	ctx := context.Background()

	expired := &model.Session{Token: "old", UserID: u.ID, ExpiresAt: time.Now().Add(-time.Hour)}
	live := &model.Session{Token: "new", UserID: u.ID, ExpiresAt: time.Now().Add(time.Hour)}
	for _, s := range []*model.Session{expired, live} {
		if err := ss.Create(ctx, s); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	if got, _ := ss.Get(ctx, "old"); got != nil {
		t.Error("expected expired session to be hidden")
	}

	n, err := ss.DeleteExpired(ctx)
	if err != nil {
		t.Fatalf("delete expired: %v", err)
	}
	if n != 1 {
		t.Errorf("deleted %d, want 1", n)
	}
	if got, _ := ss.Get(ctx, "new"); got == nil {
		t.Error("live session should survive cleanup")
	}
}

func TestSessionDelete(t *testing.T) {
	db := setupTestDB(t)
	ss := NewSessionStore(db)
	u := createTestUser(t, db, "alice")
	ctx := context.Background()

	if err := ss.Create(ctx, &model.Session{Token: "tok", UserID: u.ID, ExpiresAt: time.Now().Add(time.Hour)}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := ss.Delete(ctx, "tok"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got, _ := ss.Get(ctx, "tok"); got != nil {
		t.Error("expected session to be gone")
	}
	if err := ss.Delete(ctx, "tok"); err != nil {
		t.Errorf("deleting twice should not fail: %v", err)
	}
}
