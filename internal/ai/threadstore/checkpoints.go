package threadstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Checkpoints are append-only: every PutState writes a new row and the latest
// row wins. Old rows are pruned past a bounded history so an interrupted
// write can never corrupt the current snapshot.
const checkpointKeepPerThread = 20

// PutState appends a new conversation snapshot for the thread.
func (s *Store) PutState(ctx context.Context, sessionID, threadID string, stateJSON []byte) error {
	if s == nil || s.db == nil {
		return errors.New("store not initialized")
	}
	sessionID = strings.TrimSpace(sessionID)
	threadID = strings.TrimSpace(threadID)
	if sessionID == "" || threadID == "" {
		return errors.New("missing session or thread id")
	}
	if len(stateJSON) == 0 {
		return errors.New("empty state")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
INSERT INTO conversation_checkpoints (session_id, thread_id, state_json, created_at_unix_ms)
VALUES (?, ?, ?, ?)
`, sessionID, threadID, string(stateJSON), time.Now().UnixMilli()); err != nil {
		return fmt.Errorf("put state: %w", err)
	}
	if err := pruneThreadCheckpointsTx(ctx, tx, sessionID, threadID); err != nil {
		return err
	}
	return tx.Commit()
}

// GetState returns the latest snapshot for the thread, or (nil, nil) when
// none exists.
func (s *Store) GetState(ctx context.Context, sessionID, threadID string) ([]byte, error) {
	if s == nil || s.db == nil {
		return nil, errors.New("store not initialized")
	}
	row := s.db.QueryRowContext(ctx, `
SELECT state_json
FROM conversation_checkpoints
WHERE session_id = ? AND thread_id = ?
ORDER BY id DESC
LIMIT 1
`, strings.TrimSpace(sessionID), strings.TrimSpace(threadID))
	var raw string
	if err := row.Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get state: %w", err)
	}
	return []byte(raw), nil
}

func pruneThreadCheckpointsTx(ctx context.Context, tx *sql.Tx, sessionID, threadID string) error {
	_, err := tx.ExecContext(ctx, `
DELETE FROM conversation_checkpoints
WHERE session_id = ? AND thread_id = ? AND id NOT IN (
  SELECT id FROM conversation_checkpoints
  WHERE session_id = ? AND thread_id = ?
  ORDER BY id DESC
  LIMIT ?
)
`, sessionID, threadID, sessionID, threadID, checkpointKeepPerThread)
	if err != nil {
		return fmt.Errorf("prune checkpoints: %w", err)
	}
	return nil
}
