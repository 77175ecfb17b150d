package service

import (
	"database/sql"
	"sync"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/dukerupert/grocerybuddy/internal/database"
	"github.com/dukerupert/grocerybuddy/internal/store"
	"github.com/dukerupert/grocerybuddy/internal/websocket"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()
	return NewAuthService(store.NewUserStore(setupTestDB(t)), bcrypt.MinCost)
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []sentMessage
}

type sentMessage struct {
	ownerID int64
	msg     websocket.Message
}

func (n *recordingNotifier) Publish(ownerID int64, msg websocket.Message) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentMessage{ownerID, msg})
}

func (n *recordingNotifier) types() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.sent))
	for i, s := range n.sent {
		out[i] = s.msg.Type
	}
	return out
}
