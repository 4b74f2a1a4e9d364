package conversation

import (
	"database/sql"
	"testing"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestStoreAddAndGetRecent(t *testing.T) {
	store, err := NewStore(openTestDB(t), 10)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	sessionID := "telegram:123"

	if err := store.Add(sessionID, "user", "hello"); err != nil {
		t.Fatalf("failed to add message: %v", err)
	}
	if err := store.Add(sessionID, "assistant", "hi there"); err != nil {
		t.Fatalf("failed to add message: %v", err)
	}

	messages, err := store.GetRecent(sessionID)
	if err != nil {
		t.Fatalf("failed to get recent: %v", err)
	}

	if len(messages) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(messages))
	}
	if messages[0].Role != "user" || messages[0].Content != "hello" {
		t.Errorf("unexpected first message: %+v", messages[0])
	}
	if messages[1].Role != "assistant" || messages[1].Content != "hi there" {
		t.Errorf("unexpected second message: %+v", messages[1])
	}
}

func TestStoreMaxMessages(t *testing.T) {
	maxMessages := 5
	store, err := NewStore(openTestDB(t), maxMessages)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	sessionID := "telegram:123"

	for i := 0; i < 10; i++ {
		if err := store.Add(sessionID, "user", "message"); err != nil {
			t.Fatalf("failed to add message: %v", err)
		}
	}

	messages, err := store.GetRecent(sessionID)
	if err != nil {
		t.Fatalf("failed to get recent: %v", err)
	}

	if len(messages) != maxMessages {
		t.Errorf("expected %d messages (max), got %d", maxMessages, len(messages))
	}
}

func TestStoreSessionIsolation(t *testing.T) {
	store, err := NewStore(openTestDB(t), 10)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	session1 := "telegram:111"
	session2 := "discord:222"

	store.Add(session1, "user", "session1 message")
	store.Add(session2, "user", "session2 message")

	messages1, _ := store.GetRecent(session1)
	messages2, _ := store.GetRecent(session2)

	if len(messages1) != 1 || messages1[0].Content != "session1 message" {
		t.Errorf("session1 mismatch: %+v", messages1)
	}
	if len(messages2) != 1 || messages2[0].Content != "session2 message" {
		t.Errorf("session2 mismatch: %+v", messages2)
	}
}

func TestStoreClear(t *testing.T) {
	store, err := NewStore(openTestDB(t), 10)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	sessionID := "telegram:123"

	store.Add(sessionID, "user", "hello")
	store.Add(sessionID, "assistant", "hi")

	if err := store.Clear(sessionID); err != nil {
		t.Fatalf("failed to clear: %v", err)
	}

	messages, _ := store.GetRecent(sessionID)
	if len(messages) != 0 {
		t.Errorf("expected 0 messages after clear, got %d", len(messages))
	}
}

func TestStoreDefaultMaxMessages(t *testing.T) {
	store, err := NewStore(openTestDB(t), 0)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	sessionID := "test"

	for i := 0; i < 20; i++ {
		store.Add(sessionID, "user", "msg")
	}

	messages, _ := store.GetRecent(sessionID)
	if len(messages) != defaultMaxMessages {
		t.Errorf("expected default %d messages, got %d", defaultMaxMessages, len(messages))
	}
}
