package session

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/dukerupert/grocerybuddy/internal/model"
)

func TestRedisStore(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set")
	}
	ctx := context.Background()
	rdb, err := DialRedis(ctx, url)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer rdb.Close()

	s := NewRedisStore(rdb)
	sess := &model.Session{Token: "redis-test-token", UserID: 1, Username: "alice", ExpiresAt: time.Now().Add(time.Minute)}
	if err := s.Create(ctx, sess); err != nil {
		t.Fatalf("create: %v", err)
	}
	t.Cleanup(func() { s.Delete(ctx, sess.Token) })

	got, err := s.Get(ctx, sess.Token)
	if err != nil || got == nil {
		t.Fatalf("get = %+v, %v", got, err)
	}
	if got.Username != "alice" {
		t.Errorf("username = %q", got.Username)
	}

	if err := s.Delete(ctx, sess.Token); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got, _ := s.Get(ctx, sess.Token); got != nil {
		t.Error("expected nil after delete")
	}
}

func TestDialRedisBadURL(t *testing.T) {
	if _, err := DialRedis(context.Background(), "not a url"); err == nil {
		t.Error("expected error for bad url")
	}
}
