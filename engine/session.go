package engine

import (
	"encoding/json"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/becomeliminal/concierge/core"
)

// session accumulates the conversation for one agent run. It owns the
// canonical []core.Message form; the Anthropic params are derived on demand.
// Messages appended after the restored history form the turn's transcript,
// which the caller persists back to the thread store.
type session struct {
	msgs      []core.Message
	restored  int // messages that came from history, excluded from Transcript
	turnCount int
}

func newSession(history []core.Message) *session {
	msgs := make([]core.Message, len(history))
	copy(msgs, history)
	return &session{msgs: msgs, restored: len(history)}
}

func (s *session) AddUserMessage(text string) {
	s.msgs = append(s.msgs, core.UserMessage(text))
}

// AddAssistantMessage appends a plain-text assistant message.
func (s *session) AddAssistantMessage(text string) {
	s.msgs = append(s.msgs, core.AssistantMessage(text))
}

// AddAssistantResponse appends a model response, preserving tool_use blocks.
func (s *session) AddAssistantResponse(resp *anthropic.Message) {
	s.msgs = append(s.msgs, core.Message{
		Role:   "assistant",
		Blocks: responseBlocks(resp),
	})
}

// AddToolResults appends all tool results for one TOOLS visit as a single
// user message, in the order the calls were requested.
func (s *session) AddToolResults(results []core.ContentBlock) {
	s.msgs = append(s.msgs, core.Message{Role: "user", Blocks: results})
}

// Transcript returns the messages appended during this run.
func (s *session) Transcript() []core.Message {
	return s.msgs[s.restored:]
}

// Messages converts the session to Anthropic message params.
func (s *session) Messages() []anthropic.MessageParam {
	out := make([]anthropic.MessageParam, 0, len(s.msgs))
	for _, msg := range s.msgs {
		blocks := make([]anthropic.ContentBlockParamUnion, 0, len(msg.Blocks))
		for _, b := range msg.Blocks {
			blocks = append(blocks, blockParam(b))
		}
		if msg.Role == "assistant" {
			out = append(out, anthropic.NewAssistantMessage(blocks...))
		} else {
			out = append(out, anthropic.NewUserMessage(blocks...))
		}
	}
	return out
}

// blockParam converts a persisted content block to an API param block.
func blockParam(b core.ContentBlock) anthropic.ContentBlockParamUnion {
	switch b.Type {
	case "tool_use":
		return anthropic.ContentBlockParamUnion{OfToolUse: &anthropic.ToolUseBlockParam{
			Type:  "tool_use",
			ID:    b.ID,
			Name:  b.Name,
			Input: json.RawMessage(b.Input),
		}}
	case "tool_result":
		return anthropic.NewToolResultBlock(b.ToolUseID, b.Content, b.IsError)
	default:
		return anthropic.NewTextBlock(b.Text)
	}
}

// responseBlocks converts a model response to persisted content blocks.
func responseBlocks(resp *anthropic.Message) []core.ContentBlock {
	blocks := make([]core.ContentBlock, 0, len(resp.Content))
	for _, block := range resp.Content {
		switch block.Type {
		case "text":
			blocks = append(blocks, core.NewTextBlock(block.Text))
		case "tool_use":
			blocks = append(blocks, core.NewToolUseBlock(block.ID, block.Name, []byte(block.Input)))
		}
	}
	return blocks
}
