// Package conversation keeps a rolling window of recent messages per session,
// stored in the same SQLite database as the embedding cache.
package conversation

import (
	"database/sql"
	"fmt"
	"time"
)

const defaultMaxMessages = 12

type Message struct {
	Role      string
	Content   string
	CreatedAt time.Time
}

type Store struct {
	db          *sql.DB
	maxMessages int
}

const schema = `
CREATE TABLE IF NOT EXISTS recent_messages (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id TEXT NOT NULL,
    role TEXT NOT NULL,
    content TEXT NOT NULL,
    created_at DATETIME DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_recent_messages_session ON recent_messages(session_id, id DESC);
`

// NewStore creates a conversation buffer on the provided database connection.
func NewStore(db *sql.DB, maxMessages int) (*Store, error) {
	if maxMessages <= 0 {
		maxMessages = defaultMaxMessages
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("conversation schema: %w", err)
	}
	return &Store{db: db, maxMessages: maxMessages}, nil
}

// Add appends a message and trims the session window FIFO.
func (s *Store) Add(sessionID, role, content string) error {
	_, err := s.db.Exec(
		`INSERT INTO recent_messages (session_id, role, content) VALUES (?, ?, ?)`,
		sessionID, role, content,
	)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(`
		DELETE FROM recent_messages
		WHERE session_id = ? AND id NOT IN (
			SELECT id FROM recent_messages
			WHERE session_id = ?
			ORDER BY id DESC
			LIMIT ?
		)`, sessionID, sessionID, s.maxMessages)
	return err
}

// GetRecent returns the session window oldest first.
func (s *Store) GetRecent(sessionID string) ([]Message, error) {
	rows, err := s.db.Query(`
		SELECT role, content, created_at
		FROM recent_messages
		WHERE session_id = ?
		ORDER BY id ASC
		LIMIT ?`, sessionID, s.maxMessages)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []Message
	for rows.Next() {
		var m Message
		var createdAt string
		if err := rows.Scan(&m.Role, &m.Content, &createdAt); err != nil {
			return nil, err
		}
		m.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		messages = append(messages, m)
	}

	return messages, rows.Err()
}

func (s *Store) Clear(sessionID string) error {
	_, err := s.db.Exec(`DELETE FROM recent_messages WHERE session_id = ?`, sessionID)
	return err
}
