// Package threadstore is the SQLite persistence layer for chat threads and
// conversation checkpoints.
//
// Notes:
//   - Data is scoped by session_id (the caller identity). The same thread id
//     under two sessions is two independent rows.
//   - WAL is enabled to support concurrent reads while writing.
package threadstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	p := filepath.Clean(strings.TrimSpace(path))
	if p == "" {
		return nil, errors.New("missing db path")
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o700); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", p)
	if err != nil {
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	// One writer connection; SQLite serializes writes anyway.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Thread is one conversation owned by a session.
type Thread struct {
	ID              int64  `json:"id"`
	SessionID       string `json:"session_id"`
	ThreadID        string `json:"thread_id"`
	Label           string `json:"thread_label"`
	CreatedAtUnixMs int64  `json:"created_at_unix_ms"`
}

// SaveThread inserts the (session, thread) pair if absent and returns the
// canonical row either way. The label of an existing thread is not changed.
func (s *Store) SaveThread(ctx context.Context, sessionID, threadID, label string) (*Thread, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store not initialized")
	}
	sessionID = strings.TrimSpace(sessionID)
	threadID = strings.TrimSpace(threadID)
	if sessionID == "" || threadID == "" {
		return nil, errors.New("missing session or thread id")
	}
	now := time.Now().UnixMilli()
	_, err := s.db.ExecContext(ctx, `
INSERT OR IGNORE INTO session_threads (session_id, thread_id, thread_label, created_at_unix_ms)
VALUES (?, ?, ?, ?)
`, sessionID, threadID, strings.TrimSpace(label), now)
	if err != nil {
		return nil, fmt.Errorf("save thread: %w", err)
	}
	return s.GetThread(ctx, sessionID, threadID)
}

// GetThread returns the thread, or (nil, nil) when the session has no such
// thread.
func (s *Store) GetThread(ctx context.Context, sessionID, threadID string) (*Thread, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store not initialized")
	}
	row := s.db.QueryRowContext(ctx, `
SELECT id, session_id, thread_id, thread_label, created_at_unix_ms
FROM session_threads
WHERE session_id = ? AND thread_id = ?
`, strings.TrimSpace(sessionID), strings.TrimSpace(threadID))
	var t Thread
	if err := row.Scan(&t.ID, &t.SessionID, &t.ThreadID, &t.Label, &t.CreatedAtUnixMs); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get thread: %w", err)
	}
	return &t, nil
}

// ListThreads returns the session's threads, newest first.
func (s *Store) ListThreads(ctx context.Context, sessionID string) ([]Thread, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store not initialized")
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT id, session_id, thread_id, thread_label, created_at_unix_ms
FROM session_threads
WHERE session_id = ?
ORDER BY created_at_unix_ms DESC, id DESC
`, strings.TrimSpace(sessionID))
	if err != nil {
		return nil, fmt.Errorf("list threads: %w", err)
	}
	defer rows.Close()

	out := make([]Thread, 0, 16)
	for rows.Next() {
		var t Thread
		if err := rows.Scan(&t.ID, &t.SessionID, &t.ThreadID, &t.Label, &t.CreatedAtUnixMs); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// RenameLabel updates a thread's label and returns the number of rows
// affected. A thread id belonging to another session affects zero rows; that
// is not an error.
func (s *Store) RenameLabel(ctx context.Context, sessionID, threadID, label string) (int64, error) {
	if s == nil || s.db == nil {
		return 0, errors.New("store not initialized")
	}
	res, err := s.db.ExecContext(ctx, `
UPDATE session_threads
SET thread_label = ?
WHERE session_id = ? AND thread_id = ?
`, strings.TrimSpace(label), strings.TrimSpace(sessionID), strings.TrimSpace(threadID))
	if err != nil {
		return 0, fmt.Errorf("rename thread: %w", err)
	}
	return res.RowsAffected()
}

// DeleteThread removes a thread and its checkpoints, returning the number of
// thread rows affected.
func (s *Store) DeleteThread(ctx context.Context, sessionID, threadID string) (int64, error) {
	if s == nil || s.db == nil {
		return 0, errors.New("store not initialized")
	}
	sessionID = strings.TrimSpace(sessionID)
	threadID = strings.TrimSpace(threadID)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `
DELETE FROM session_threads WHERE session_id = ? AND thread_id = ?
`, sessionID, threadID)
	if err != nil {
		return 0, fmt.Errorf("delete thread: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if affected > 0 {
		if _, err := tx.ExecContext(ctx, `
DELETE FROM conversation_checkpoints WHERE session_id = ? AND thread_id = ?
`, sessionID, threadID); err != nil {
			return 0, fmt.Errorf("delete checkpoints: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return affected, nil
}

// ListSessions returns every session id that owns at least one thread.
func (s *Store) ListSessions(ctx context.Context) ([]string, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store not initialized")
	}
	rows, err := s.db.QueryContext(ctx, `
SELECT DISTINCT session_id FROM session_threads ORDER BY session_id
`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	out := make([]string, 0, 8)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// DeleteSession removes all threads and checkpoints of a session, returning
// the number of thread rows affected.
func (s *Store) DeleteSession(ctx context.Context, sessionID string) (int64, error) {
	if s == nil || s.db == nil {
		return 0, errors.New("store not initialized")
	}
	sessionID = strings.TrimSpace(sessionID)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `DELETE FROM session_threads WHERE session_id = ?`, sessionID)
	if err != nil {
		return 0, fmt.Errorf("delete session: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM conversation_checkpoints WHERE session_id = ?`, sessionID); err != nil {
		return 0, fmt.Errorf("delete session checkpoints: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return affected, nil
}

func initSchema(db *sql.DB) error {
	if db == nil {
		return errors.New("nil db")
	}
	if _, err := db.Exec(`PRAGMA journal_mode=WAL;`); err != nil {
		return fmt.Errorf("pragma journal_mode: %w", err)
	}
	if _, err := db.Exec(`PRAGMA busy_timeout=3000;`); err != nil {
		return fmt.Errorf("pragma busy_timeout: %w", err)
	}
	return migrateSchema(db)
}

func migrateSchema(db *sql.DB) error {
	const targetVersion = 1

	var v int
	if err := db.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return fmt.Errorf("pragma user_version: %w", err)
	}
	if v >= targetVersion {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS session_threads (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  session_id TEXT NOT NULL,
  thread_id TEXT NOT NULL,
  thread_label TEXT NOT NULL DEFAULT '',
  created_at_unix_ms INTEGER NOT NULL,
  UNIQUE(session_id, thread_id)
);
CREATE INDEX IF NOT EXISTS idx_session_threads_session_created ON session_threads(session_id, created_at_unix_ms DESC, id DESC);

CREATE TABLE IF NOT EXISTS conversation_checkpoints (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  session_id TEXT NOT NULL,
  thread_id TEXT NOT NULL,
  state_json TEXT NOT NULL,
  created_at_unix_ms INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_conversation_checkpoints_thread ON conversation_checkpoints(session_id, thread_id, id DESC);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(fmt.Sprintf(`PRAGMA user_version=%d;`, targetVersion)); err != nil {
		return err
	}
	return tx.Commit()
}
