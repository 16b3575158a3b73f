package engine_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/becomeliminal/concierge/core"
	"github.com/becomeliminal/concierge/engine"
)

func TestRegistry_NamesInRegistrationOrder(t *testing.T) {
	registry := engine.NewToolRegistry()
	registry.Register(
		staticTool("get_current_date", "2024-01-01"),
		staticTool("search_memories", "[]"),
		staticTool("add_schedule_item", "added"),
	)

	want := []string{"get_current_date", "search_memories", "add_schedule_item"}
	if got := registry.Names(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestRegistry_ReregisterReplacesWithoutReordering(t *testing.T) {
	registry := engine.NewToolRegistry()
	registry.Register(
		staticTool("get_current_date", "2024-01-01"),
		staticTool("search_memories", "[]"),
	)
	registry.Register(staticTool("get_current_date", "2025-01-01"))

	want := []string{"get_current_date", "search_memories"}
	if got := registry.Names(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	tool, ok := registry.Get("get_current_date")
	if !ok {
		t.Fatal("tool missing after re-registration")
	}
	out, err := tool.Execute(context.Background(), &core.ToolParams{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if out != "2025-01-01" {
		t.Fatalf("expected replacement tool, got %q", out)
	}
}
