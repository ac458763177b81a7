package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/schemalens/schemalens/internal/session"
)

// GetPrompt returns the cached prompt text for key, reporting whether a live
// entry was found. Expired entries are removed lazily.
func (d *DB) GetPrompt(key string) (string, bool, error) {
	row := d.conn.QueryRow("SELECT content, expires_at FROM prompts WHERE key = ?", key)

	var content string
	var expiresAt sql.NullString
	err := row.Scan(&content, &expiresAt)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get prompt %q: %w", key, err)
	}

	if expiresAt.Valid {
		exp, err := time.Parse(time.RFC3339, expiresAt.String)
		if err == nil && time.Now().After(exp) {
			_, _ = d.conn.Exec("DELETE FROM prompts WHERE key = ?", key)
			return "", false, nil
		}
	}
	return content, true, nil
}

// SetPrompt stores or replaces the prompt text for key. A zero ttl means the
// entry never expires.
func (d *DB) SetPrompt(key, content string, ttl time.Duration) error {
	var expiresAt any
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl).UTC().Format(time.RFC3339)
	}
	_, err := d.conn.Exec(
		`INSERT INTO prompts (key, content, expires_at, updated_at) VALUES (?, ?, ?, datetime('now'))
		 ON CONFLICT(key) DO UPDATE SET content = excluded.content, expires_at = excluded.expires_at, updated_at = excluded.updated_at`,
		key, content, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("set prompt %q: %w", key, err)
	}
	return nil
}

// DeletePrompt removes the cached prompt for key.
func (d *DB) DeletePrompt(key string) error {
	_, err := d.conn.Exec("DELETE FROM prompts WHERE key = ?", key)
	if err != nil {
		return fmt.Errorf("delete prompt %q: %w", key, err)
	}
	return nil
}

// PromptKeys lists the keys of all cached prompts.
func (d *DB) PromptKeys() ([]string, error) {
	rows, err := d.conn.Query("SELECT key FROM prompts ORDER BY key")
	if err != nil {
		return nil, fmt.Errorf("list prompts: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scan prompt key: %w", err)
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// History loads the chat history for a thread; a thread never seen before has
// an empty history.
func (d *DB) History(threadID string) ([]session.Turn, error) {
	row := d.conn.QueryRow("SELECT history FROM sessions WHERE thread_id = ?", threadID)

	var raw string
	err := row.Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load history for %q: %w", threadID, err)
	}

	var turns []session.Turn
	if err := json.Unmarshal([]byte(raw), &turns); err != nil {
		return nil, fmt.Errorf("decode history for %q: %w", threadID, err)
	}
	return turns, nil
}

// SaveHistory persists the chat history for a thread, last write wins.
func (d *DB) SaveHistory(threadID string, turns []session.Turn) error {
	data, err := json.Marshal(turns)
	if err != nil {
		return fmt.Errorf("encode history for %q: %w", threadID, err)
	}
	_, err = d.conn.Exec(
		`INSERT INTO sessions (thread_id, history, updated_at) VALUES (?, ?, datetime('now'))
		 ON CONFLICT(thread_id) DO UPDATE SET history = excluded.history, updated_at = excluded.updated_at`,
		threadID, string(data),
	)
	if err != nil {
		return fmt.Errorf("save history for %q: %w", threadID, err)
	}
	return nil
}

// ReviewEvent is a row in the review_events audit log.
type ReviewEvent struct {
	ID        int    `json:"id"`
	ThreadID  string `json:"thread_id"`
	Stage     string `json:"stage"`
	Outcome   string `json:"outcome"`
	Detail    string `json:"detail,omitempty"`
	Timestamp string `json:"timestamp"`
}

// LogReviewEvent records one pipeline stage transition.
func (d *DB) LogReviewEvent(threadID, stage, outcome, detail string) error {
	_, err := d.conn.Exec(
		"INSERT INTO review_events (thread_id, stage, outcome, detail) VALUES (?, ?, ?, ?)",
		threadID, stage, outcome, detail,
	)
	if err != nil {
		return fmt.Errorf("log review event: %w", err)
	}
	return nil
}

// RecentEvents returns the most recent review events, newest first.
func (d *DB) RecentEvents(limit int) ([]ReviewEvent, error) {
	rows, err := d.conn.Query(
		`SELECT id, COALESCE(thread_id, ''), stage, outcome, COALESCE(detail, ''), timestamp
		 FROM review_events ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent events: %w", err)
	}
	defer rows.Close()

	var events []ReviewEvent
	for rows.Next() {
		var e ReviewEvent
		if err := rows.Scan(&e.ID, &e.ThreadID, &e.Stage, &e.Outcome, &e.Detail, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan review event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
