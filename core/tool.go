package core

import (
	"context"
	"encoding/json"
)

// ToolDefinition describes a tool the reasoning model may invoke.
// InputSchema is a JSON Schema object (see the schema helpers in the
// assistant package for building them).
type ToolDefinition struct {
	Name        string
	Description string
	InputSchema map[string]interface{}
}

// ToolParams carries the execution context for a tool call.
type ToolParams struct {
	// UserID is the identity of the conversation thread (the user's email).
	// Tools that touch per-user state must scope by this value, not by any
	// model-supplied argument, so one thread can never read another's data.
	UserID string

	// Input is the raw JSON arguments the model supplied.
	Input json.RawMessage
}

// Tool is a named, schema-typed operation the agent loop can execute.
//
// Execute returns the payload handed back to the model as a tool_result.
// By contract, malformed input (bad date formats etc.) is reported as an
// ordinary string payload with a nil error so the model can recover
// conversationally; a non-nil error marks the tool_result as an error.
type Tool interface {
	Definition() ToolDefinition
	Execute(ctx context.Context, params *ToolParams) (string, error)
}

// ToolFunc is the handler signature for function-backed tools.
type ToolFunc func(ctx context.Context, params *ToolParams) (string, error)

// FuncTool adapts a plain function to the Tool interface.
type FuncTool struct {
	def ToolDefinition
	fn  ToolFunc
}

// NewFuncTool creates a Tool from a definition and a handler.
func NewFuncTool(def ToolDefinition, fn ToolFunc) *FuncTool {
	return &FuncTool{def: def, fn: fn}
}

func (t *FuncTool) Definition() ToolDefinition {
	return t.def
}

func (t *FuncTool) Execute(ctx context.Context, params *ToolParams) (string, error) {
	return t.fn(ctx, params)
}
