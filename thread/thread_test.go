package thread

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/becomeliminal/concierge/core"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()

	sqlite, err := NewSQLiteStore(filepath.Join(t.TempDir(), "threads.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlite.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": sqlite,
	}
}

func TestStore_EmptyHistoryForNewEmail(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			history, err := store.History(context.Background(), "new@example.com")
			require.NoError(t, err)
			assert.Empty(t, history)
		})
	}
}

func TestStore_AppendAndHistoryRoundTrip(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			turn1 := []core.Message{
				core.UserMessage("Add a meeting tomorrow at 3pm"),
				{Role: "assistant", Blocks: []core.ContentBlock{
					core.NewToolUseBlock("tu_1", "add_schedule_item", []byte(`{"description":"meeting"}`)),
				}},
				{Role: "user", Blocks: []core.ContentBlock{
					core.NewToolResultBlock("tu_1", "Added to schedule", false),
				}},
				core.AssistantMessage("Done, added the meeting."),
			}
			require.NoError(t, store.Append(ctx, "a@example.com", turn1...))

			history, err := store.History(ctx, "a@example.com")
			require.NoError(t, err)
			require.Len(t, history, 4)
			assert.Equal(t, turn1, history)

			// A second turn resumes and extends the same thread.
			require.NoError(t, store.Append(ctx, "a@example.com",
				core.UserMessage("when is it again?"),
				core.AssistantMessage("Tomorrow at 3pm."),
			))

			history, err = store.History(ctx, "a@example.com")
			require.NoError(t, err)
			require.Len(t, history, 6)
			assert.Equal(t, "when is it again?", history[4].Blocks[0].Text)
		})
	}
}

func TestStore_ThreadsAreIsolatedByEmail(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, store.Append(ctx, "a@example.com", core.UserMessage("a says hi")))
			require.NoError(t, store.Append(ctx, "b@example.com", core.UserMessage("b says hi")))

			historyA, err := store.History(ctx, "a@example.com")
			require.NoError(t, err)
			require.Len(t, historyA, 1)
			assert.Equal(t, "a says hi", historyA[0].Blocks[0].Text)

			historyB, err := store.History(ctx, "b@example.com")
			require.NoError(t, err)
			require.Len(t, historyB, 1)
			assert.Equal(t, "b says hi", historyB[0].Blocks[0].Text)
		})
	}
}

func TestSQLiteStore_PersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "threads.db")

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, store.Append(ctx, "a@example.com", core.UserMessage("remember me")))
	require.NoError(t, store.Close())

	reopened, err := NewSQLiteStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	history, err := reopened.History(ctx, "a@example.com")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "remember me", history[0].Blocks[0].Text)
}
