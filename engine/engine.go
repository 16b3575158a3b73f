// Package engine implements the agent graph: a two-state loop that
// alternates between invoking the reasoning model (AGENT) and executing the
// tool calls it requested (TOOLS) until the model answers without tools.
package engine

import (
	"context"
	"fmt"
	"log"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/becomeliminal/concierge/core"
	"github.com/becomeliminal/concierge/memory"
)

// DefaultModel is used when Input.Model is empty.
const DefaultModel = "claude-sonnet-4-20250514"

const (
	defaultMaxTokens = 4096
	defaultMaxTurns  = 20
)

// Engine drives the agent loop against the Anthropic Messages API.
type Engine struct {
	client   *anthropic.Client
	registry *ToolRegistry
	memory   memory.Manager // optional
}

// Option configures the engine.
type Option func(*Engine)

// WithMemory wires a memory manager into the engine. When set, every
// completed turn records the exchange under the user's identifier.
func WithMemory(m memory.Manager) Option {
	return func(e *Engine) {
		e.memory = m
	}
}

// NewEngine creates an engine with the given Anthropic client and registry.
func NewEngine(client *anthropic.Client, registry *ToolRegistry, opts ...Option) *Engine {
	e := &Engine{
		client:   client,
		registry: registry,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registry returns the engine's tool registry.
func (e *Engine) Registry() *ToolRegistry {
	return e.registry
}

// Input represents the input to an agent run.
type Input struct {
	// UserMessage is the user's message for this turn.
	UserMessage string

	// Email identifies the conversation thread and scopes memory access.
	Email string

	// History contains previous messages in the conversation.
	History []core.Message

	// SystemPrompt is the system instruction. Required; callers build it
	// with the user's email embedded (see assistant.SystemPrompt).
	SystemPrompt string

	// Model overrides DefaultModel when set.
	Model string

	// MaxTokens is the maximum response tokens (default 4096).
	MaxTokens int64

	// MaxTurns caps AGENT visits per run (default 20).
	MaxTurns int
}

// Output represents the output from an agent run.
type Output struct {
	// Type indicates the kind of output.
	Type OutputType

	// Text is the final assistant answer when Type is OutputComplete.
	Text string

	// Transcript contains every message appended during the run (the user
	// message, assistant responses, tool results) for thread persistence.
	Transcript []core.Message

	// Error is set when Type is OutputError.
	Error error
}

// OutputType indicates the kind of output from an agent run.
type OutputType int

const (
	// OutputComplete indicates the agent produced a final answer.
	OutputComplete OutputType = iota

	// OutputError indicates the run aborted; Error has the cause.
	OutputError
)

// Run executes the agent loop to termination.
//
// Each iteration is one AGENT visit. A response with tool_use blocks moves
// to TOOLS: every requested call is executed and its result appended, in
// request order, then control returns to AGENT. A response without tool
// calls ends the run; the exchange is then recorded to memory. There is no
// retry anywhere: a failed model call aborts the turn.
func (e *Engine) Run(ctx context.Context, input *Input) (*Output, error) {
	model := input.Model
	if model == "" {
		model = DefaultModel
	}
	maxTokens := input.MaxTokens
	if maxTokens == 0 {
		maxTokens = defaultMaxTokens
	}
	maxTurns := input.MaxTurns
	if maxTurns == 0 {
		maxTurns = defaultMaxTurns
	}

	session := newSession(input.History)
	if input.UserMessage != "" {
		session.AddUserMessage(input.UserMessage)
	}

	apiTools := e.registry.ToAPITools()

	for {
		if ctx.Err() != nil {
			return e.fail(session, fmt.Errorf("run cancelled: %w", ctx.Err()))
		}
		if session.turnCount >= maxTurns {
			return e.fail(session, fmt.Errorf("exceeded maximum turns (%d)", maxTurns))
		}
		session.turnCount++

		params := anthropic.MessageNewParams{
			Model:     anthropic.Model(model),
			MaxTokens: maxTokens,
			Messages:  session.Messages(),
			System: []anthropic.TextBlockParam{
				{Text: input.SystemPrompt},
			},
		}
		if len(apiTools) > 0 {
			params.Tools = apiTools
		}

		resp, err := e.client.Messages.New(ctx, params)
		if err != nil {
			return e.fail(session, fmt.Errorf("model call failed: %w", err))
		}

		var textResponse string
		var toolResults []core.ContentBlock

		for _, block := range resp.Content {
			switch block.Type {
			case "text":
				textResponse += block.Text

			case "tool_use":
				result := e.executeTool(ctx, input.Email, block.ID, block.Name, []byte(block.Input))
				toolResults = append(toolResults, result)
			}
		}

		// AGENT -> END: no tool calls means this is the final answer.
		if len(toolResults) == 0 {
			session.AddAssistantMessage(textResponse)

			if e.memory != nil && input.UserMessage != "" {
				if err := e.memory.RecordConversation(ctx, input.Email, input.UserMessage, textResponse); err != nil {
					log.Printf("[ENGINE] Failed to record conversation: %v", err)
				}
			}

			return &Output{
				Type:       OutputComplete,
				Text:       textResponse,
				Transcript: session.Transcript(),
			}, nil
		}

		// AGENT -> TOOLS -> AGENT: append the response and all results,
		// then loop back to the model.
		session.AddAssistantResponse(resp)
		session.AddToolResults(toolResults)
	}
}

// executeTool runs a single requested tool call and builds its tool_result.
// Unknown names fail fast with an error result rather than being ignored;
// handler errors become error results so the model can react.
func (e *Engine) executeTool(ctx context.Context, email, id, name string, input []byte) core.ContentBlock {
	tool, ok := e.registry.Get(name)
	if !ok {
		log.Printf("[ENGINE] Unknown tool requested: %s", name)
		return core.NewToolResultBlock(id, fmt.Sprintf("unknown tool: %s", name), true)
	}

	result, err := tool.Execute(ctx, &core.ToolParams{
		UserID: email,
		Input:  input,
	})
	if err != nil {
		log.Printf("[ENGINE] Tool %s failed: %v", name, err)
		return core.NewToolResultBlock(id, err.Error(), true)
	}

	log.Printf("[ENGINE] Tool %s executed", name)
	return core.NewToolResultBlock(id, result, false)
}

// fail builds the error output for an aborted run. The transcript is still
// returned so callers can decide what, if anything, to persist.
func (e *Engine) fail(session *session, err error) (*Output, error) {
	return &Output{
		Type:       OutputError,
		Transcript: session.Transcript(),
		Error:      err,
	}, err
}
