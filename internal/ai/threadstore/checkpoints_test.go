package threadstore

import (
	"context"
	"fmt"
	"testing"
)

func TestPutGetState(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()

	state, err := store.GetState(ctx, "user_1", "th_1")
	if err != nil {
		t.Fatalf("GetState (empty): %v", err)
	}
	if state != nil {
		t.Fatalf("GetState on empty thread = %s, want nil", state)
	}

	if err := store.PutState(ctx, "user_1", "th_1", []byte(`{"v":1}`)); err != nil {
		t.Fatalf("PutState: %v", err)
	}
	if err := store.PutState(ctx, "user_1", "th_1", []byte(`{"v":2}`)); err != nil {
		t.Fatalf("PutState (second): %v", err)
	}

	state, err = store.GetState(ctx, "user_1", "th_1")
	if err != nil {
		t.Fatalf("GetState: %v", err)
	}
	if string(state) != `{"v":2}` {
		t.Fatalf("GetState=%s, want the latest checkpoint", state)
	}

	// Checkpoints are session scoped.
	other, err := store.GetState(ctx, "user_2", "th_1")
	if err != nil {
		t.Fatalf("GetState (other session): %v", err)
	}
	if other != nil {
		t.Fatalf("GetState leaked state across sessions: %s", other)
	}
}

func TestCheckpointPruning(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	ctx := context.Background()

	for i := 0; i < checkpointKeepPerThread+10; i++ {
		if err := store.PutState(ctx, "user_1", "th_1", fmt.Appendf(nil, `{"v":%d}`, i)); err != nil {
			t.Fatalf("PutState(%d): %v", i, err)
		}
	}

	var count int
	row := store.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM conversation_checkpoints WHERE session_id = ? AND thread_id = ?`,
		"user_1", "th_1")
	if err := row.Scan(&count); err != nil {
		t.Fatalf("count checkpoints: %v", err)
	}
	if count != checkpointKeepPerThread {
		t.Fatalf("checkpoint count=%d, want %d", count, checkpointKeepPerThread)
	}

	state, err := store.GetState(ctx, "user_1", "th_1")
	if err != nil {
		t.Fatalf("GetState: %v", err)
	}
	want := fmt.Sprintf(`{"v":%d}`, checkpointKeepPerThread+9)
	if string(state) != want {
		t.Fatalf("GetState=%s, want %s", state, want)
	}
}
