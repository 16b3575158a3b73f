// Package assistant defines the personal-assistant tool set and system
// prompt: date awareness, memory search, and schedule management on top of
// the memory manager.
package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/becomeliminal/concierge/core"
	"github.com/becomeliminal/concierge/memory"
)

// Format-failure payloads returned to the model as ordinary strings, never
// as Go errors, so it can recover conversationally.
const (
	msgInvalidDate     = "Invalid date format. Please use YYYY-MM-DD."
	msgInvalidSchedule = "Invalid date, time, or duration format. Please try again."
	msgInvalidRange    = "Invalid date format. Please use YYYY-MM-DD or YYYY-MM-DD HH:MM."
	msgNoScheduleItems = "No schedule items found for the given date range."
)

// scheduleItem is the logical schedule record. It has no table of its own:
// it is serialized into a memory note and recovered only via semantic
// search.
type scheduleItem struct {
	DateTime    string `json:"date_time"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
}

// schedulePrefix tags schedule notes so they are recognizable in search
// results and queryable as "Schedule: <start> to <end>".
const schedulePrefix = "Schedule: "

// Toolset holds the assistant tools' shared dependencies.
type Toolset struct {
	memory memory.Manager
	now    func() time.Time
}

// ToolsetOption configures a Toolset.
type ToolsetOption func(*Toolset)

// WithClock overrides the time source (for tests).
func WithClock(now func() time.Time) ToolsetOption {
	return func(t *Toolset) {
		t.now = now
	}
}

// NewToolset creates the assistant tool set over the given memory manager.
func NewToolset(mem memory.Manager, opts ...ToolsetOption) *Toolset {
	t := &Toolset{
		memory: mem,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Tools returns the five assistant tools, ready for registration.
func (t *Toolset) Tools() []core.Tool {
	return []core.Tool{
		core.NewFuncTool(core.ToolDefinition{
			Name:        "get_current_date",
			Description: "Get the current date.",
			InputSchema: ObjectSchema(map[string]interface{}{}),
		}, t.getCurrentDate),

		core.NewFuncTool(core.ToolDefinition{
			Name:        "get_day_of_week",
			Description: "Determine the day of the week for a given date.",
			InputSchema: ObjectSchema(map[string]interface{}{
				"date_string": StringProperty("The date to look up, formatted YYYY-MM-DD"),
			}, "date_string"),
		}, t.getDayOfWeek),

		core.NewFuncTool(core.ToolDefinition{
			Name:        "search_memories",
			Description: "Search for past memories and schedule items based on a query and email.",
			InputSchema: ObjectSchema(map[string]interface{}{
				"query": StringProperty("The search query, usually the user's latest message"),
				"email": StringProperty("The user's email address"),
			}, "query", "email"),
		}, t.searchMemories),

		core.NewFuncTool(core.ToolDefinition{
			Name:        "add_schedule_item",
			Description: "Add a new item to the user's schedule.",
			InputSchema: ObjectSchema(map[string]interface{}{
				"email":       StringProperty("The user's email address"),
				"date_time":   StringProperty("When the item starts, formatted YYYY-MM-DD HH:MM or YYYY-MM-DD"),
				"duration":    StringProperty("Duration in minutes, as an integer string"),
				"description": StringProperty("What the schedule item is"),
			}, "email", "date_time", "duration", "description"),
		}, t.addScheduleItem),

		core.NewFuncTool(core.ToolDefinition{
			Name:        "get_schedule",
			Description: "Retrieve schedule items for a given date range.",
			InputSchema: ObjectSchema(map[string]interface{}{
				"email":      StringProperty("The user's email address"),
				"start_date": StringProperty("Range start, formatted YYYY-MM-DD or YYYY-MM-DD HH:MM"),
				"end_date":   StringProperty("Range end, formatted YYYY-MM-DD or YYYY-MM-DD HH:MM"),
			}, "email", "start_date", "end_date"),
		}, t.getSchedule),
	}
}

func (t *Toolset) getCurrentDate(ctx context.Context, params *core.ToolParams) (string, error) {
	return t.now().Format(dateLayout), nil
}

func (t *Toolset) getDayOfWeek(ctx context.Context, params *core.ToolParams) (string, error) {
	var in struct {
		DateString string `json:"date_string"`
	}
	if err := json.Unmarshal(params.Input, &in); err != nil {
		return "", fmt.Errorf("bad tool input: %w", err)
	}

	date, err := time.Parse(dateLayout, in.DateString)
	if err != nil {
		return msgInvalidDate, nil
	}
	return date.Weekday().String(), nil
}

func (t *Toolset) searchMemories(ctx context.Context, params *core.ToolParams) (string, error) {
	var in struct {
		Query string `json:"query"`
		Email string `json:"email"`
	}
	if err := json.Unmarshal(params.Input, &in); err != nil {
		return "", fmt.Errorf("bad tool input: %w", err)
	}

	// Scope is always the thread's user, whatever email the model passed.
	notes, err := t.memory.Search(ctx, params.UserID, in.Query)
	if err != nil {
		return "", fmt.Errorf("search memories: %w", err)
	}
	return stringifyNotes(notes), nil
}

func (t *Toolset) addScheduleItem(ctx context.Context, params *core.ToolParams) (string, error) {
	var in struct {
		Email       string `json:"email"`
		DateTime    string `json:"date_time"`
		Duration    string `json:"duration"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal(params.Input, &in); err != nil {
		return "", fmt.Errorf("bad tool input: %w", err)
	}

	start, err := parseDate(in.DateTime)
	if err != nil {
		return msgInvalidSchedule, nil
	}
	minutes, err := strconv.Atoi(in.Duration)
	if err != nil {
		return msgInvalidSchedule, nil
	}
	duration := time.Duration(minutes) * time.Minute

	item := scheduleItem{
		DateTime:    start.Format("2006-01-02T15:04:05"),
		Duration:    duration.String(),
		Description: in.Description,
	}
	payload, err := json.Marshal(item)
	if err != nil {
		return "", fmt.Errorf("marshal schedule item: %w", err)
	}

	if err := t.memory.Add(ctx, params.UserID, schedulePrefix+string(payload)); err != nil {
		return "", fmt.Errorf("store schedule item: %w", err)
	}

	return fmt.Sprintf("Added to schedule: %s on %s for %s minutes",
		in.Description, start.Format(dateTimeLayout), in.Duration), nil
}

func (t *Toolset) getSchedule(ctx context.Context, params *core.ToolParams) (string, error) {
	var in struct {
		Email     string `json:"email"`
		StartDate string `json:"start_date"`
		EndDate   string `json:"end_date"`
	}
	if err := json.Unmarshal(params.Input, &in); err != nil {
		return "", fmt.Errorf("bad tool input: %w", err)
	}

	start, err := parseDate(in.StartDate)
	if err != nil {
		return msgInvalidRange, nil
	}
	end, err := parseDate(in.EndDate)
	if err != nil {
		return msgInvalidRange, nil
	}

	// Best effort: the range query is semantic search over serialized
	// items, not a true range filter.
	query := fmt.Sprintf("%s%s to %s", schedulePrefix, start.Format(dateLayout), end.Format(dateLayout))
	notes, err := t.memory.Search(ctx, params.UserID, query)
	if err != nil {
		return "", fmt.Errorf("search schedule: %w", err)
	}
	if len(notes) == 0 {
		return msgNoScheduleItems, nil
	}
	return stringifyNotes(notes), nil
}

// stringifyNotes renders search results as a JSON list of note texts.
func stringifyNotes(notes []memory.Note) string {
	texts := make([]string, 0, len(notes))
	for _, note := range notes {
		texts = append(texts, note.Text)
	}
	out, err := json.Marshal(texts)
	if err != nil {
		return "[]"
	}
	return string(out)
}
