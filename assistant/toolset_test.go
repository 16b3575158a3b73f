package assistant

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/becomeliminal/concierge/core"
	"github.com/becomeliminal/concierge/memory"
)

// fakeManager stores notes per user in a slice and returns them all on
// search, which is enough to exercise the tool contracts.
type fakeManager struct {
	notes map[string][]memory.Note
}

func newFakeManager() *fakeManager {
	return &fakeManager{notes: make(map[string][]memory.Note)}
}

func (f *fakeManager) Add(ctx context.Context, userID, text string) error {
	f.notes[userID] = append(f.notes[userID], memory.NewNote(userID, text))
	return nil
}

func (f *fakeManager) Search(ctx context.Context, userID, query string) ([]memory.Note, error) {
	return f.notes[userID], nil
}

func (f *fakeManager) RecordConversation(ctx context.Context, userID, userMessage, assistantResponse string) error {
	return f.Add(ctx, userID, "User: "+userMessage+"\nAssistant: "+assistantResponse)
}

func execTool(t *testing.T, ts *Toolset, name, userID string, input map[string]interface{}) string {
	t.Helper()

	var tool core.Tool
	for _, candidate := range ts.Tools() {
		if candidate.Definition().Name == name {
			tool = candidate
			break
		}
	}
	require.NotNil(t, tool, "tool %s not found", name)

	raw, err := json.Marshal(input)
	require.NoError(t, err)

	out, err := tool.Execute(context.Background(), &core.ToolParams{UserID: userID, Input: raw})
	require.NoError(t, err)
	return out
}

func TestGetCurrentDate(t *testing.T) {
	now := time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)
	ts := NewToolset(newFakeManager(), WithClock(func() time.Time { return now }))

	out := execTool(t, ts, "get_current_date", "a@example.com", nil)
	assert.Equal(t, "2024-03-15", out)
}

func TestGetDayOfWeek(t *testing.T) {
	ts := NewToolset(newFakeManager())

	out := execTool(t, ts, "get_day_of_week", "a@example.com", map[string]interface{}{
		"date_string": "2024-01-01",
	})
	assert.Equal(t, "Monday", out)
}

func TestGetDayOfWeek_MalformedDateReturnsLiteral(t *testing.T) {
	ts := NewToolset(newFakeManager())

	out := execTool(t, ts, "get_day_of_week", "a@example.com", map[string]interface{}{
		"date_string": "01-01-2024",
	})
	assert.Equal(t, msgInvalidDate, out)
}

func TestAddScheduleItem_Confirmation(t *testing.T) {
	ts := NewToolset(newFakeManager())

	out := execTool(t, ts, "add_schedule_item", "a@example.com", map[string]interface{}{
		"email":       "a@example.com",
		"date_time":   "2024-03-15 14:00",
		"duration":    "30",
		"description": "Dentist",
	})
	assert.Contains(t, out, "Dentist")
	assert.Contains(t, out, "2024-03-15 14:00")
	assert.Contains(t, out, "30")
}

func TestAddScheduleItem_DateOnly(t *testing.T) {
	ts := NewToolset(newFakeManager())

	out := execTool(t, ts, "add_schedule_item", "a@example.com", map[string]interface{}{
		"email":       "a@example.com",
		"date_time":   "2024-03-15",
		"duration":    "45",
		"description": "Team offsite",
	})
	assert.Contains(t, out, "Team offsite")
	assert.Contains(t, out, "2024-03-15 00:00")
}

func TestAddScheduleItem_MalformedInputReturnsLiteral(t *testing.T) {
	ts := NewToolset(newFakeManager())

	out := execTool(t, ts, "add_schedule_item", "a@example.com", map[string]interface{}{
		"email":       "a@example.com",
		"date_time":   "next tuesday",
		"duration":    "30",
		"description": "Dentist",
	})
	assert.Equal(t, msgInvalidSchedule, out)

	out = execTool(t, ts, "add_schedule_item", "a@example.com", map[string]interface{}{
		"email":       "a@example.com",
		"date_time":   "2024-03-15 14:00",
		"duration":    "half an hour",
		"description": "Dentist",
	})
	assert.Equal(t, msgInvalidSchedule, out)
}

func TestGetSchedule_RoundTrip(t *testing.T) {
	mem := newFakeManager()
	ts := NewToolset(mem)

	execTool(t, ts, "add_schedule_item", "a@example.com", map[string]interface{}{
		"email":       "a@example.com",
		"date_time":   "2024-03-15 14:00",
		"duration":    "30",
		"description": "Dentist",
	})

	out := execTool(t, ts, "get_schedule", "a@example.com", map[string]interface{}{
		"email":      "a@example.com",
		"start_date": "2024-03-14",
		"end_date":   "2024-03-16",
	})
	assert.Contains(t, out, "Dentist")
	assert.Contains(t, out, "Schedule: ")
}

func TestGetSchedule_EmptyReturnsLiteral(t *testing.T) {
	ts := NewToolset(newFakeManager())

	out := execTool(t, ts, "get_schedule", "a@example.com", map[string]interface{}{
		"email":      "a@example.com",
		"start_date": "2024-03-14",
		"end_date":   "2024-03-16",
	})
	assert.Equal(t, msgNoScheduleItems, out)
}

func TestGetSchedule_MalformedDateReturnsLiteral(t *testing.T) {
	ts := NewToolset(newFakeManager())

	out := execTool(t, ts, "get_schedule", "a@example.com", map[string]interface{}{
		"email":      "a@example.com",
		"start_date": "soon",
		"end_date":   "2024-03-16",
	})
	assert.Equal(t, msgInvalidRange, out)
}

func TestSearchMemories_ScopedToThreadUser(t *testing.T) {
	mem := newFakeManager()
	require.NoError(t, mem.Add(context.Background(), "a@example.com", "likes tea"))
	require.NoError(t, mem.Add(context.Background(), "b@example.com", "likes coffee"))
	ts := NewToolset(mem)

	// The model passes b's email, but the thread belongs to a: results must
	// come from a's memories only.
	out := execTool(t, ts, "search_memories", "a@example.com", map[string]interface{}{
		"query": "likes",
		"email": "b@example.com",
	})
	assert.Contains(t, out, "tea")
	assert.NotContains(t, out, "coffee")
}

func TestSearchMemories_EmptyResult(t *testing.T) {
	ts := NewToolset(newFakeManager())

	out := execTool(t, ts, "search_memories", "a@example.com", map[string]interface{}{
		"query": "anything",
		"email": "a@example.com",
	})
	assert.Equal(t, "[]", out)
}
