package core

// Message is one entry in a persisted conversation thread.
// Threads are append-only: every turn adds the user message, each assistant
// response, and the tool results that were fed back to the model, so a later
// turn can restore the full exchange including tool_use/tool_result pairs.
type Message struct {
	Role   string         `json:"role"` // "user" or "assistant"
	Blocks []ContentBlock `json:"blocks"`
}

// ContentBlock is a tagged variant of the content a message can carry.
// Exactly one shape is populated depending on Type.
type ContentBlock struct {
	Type string `json:"type"` // "text", "tool_use", or "tool_result"

	// text
	Text string `json:"text,omitempty"`

	// tool_use
	ID    string `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Input []byte `json:"input,omitempty"`

	// tool_result
	ToolUseID string `json:"tool_use_id,omitempty"`
	Content   string `json:"content,omitempty"`
	IsError   bool   `json:"is_error,omitempty"`
}

// NewTextBlock creates a text content block.
func NewTextBlock(text string) ContentBlock {
	return ContentBlock{Type: "text", Text: text}
}

// NewToolUseBlock creates a tool_use content block.
func NewToolUseBlock(id, name string, input []byte) ContentBlock {
	return ContentBlock{Type: "tool_use", ID: id, Name: name, Input: input}
}

// NewToolResultBlock creates a tool_result content block.
func NewToolResultBlock(toolUseID, content string, isError bool) ContentBlock {
	return ContentBlock{Type: "tool_result", ToolUseID: toolUseID, Content: content, IsError: isError}
}

// UserMessage creates a user message with a single text block.
func UserMessage(text string) Message {
	return Message{Role: "user", Blocks: []ContentBlock{NewTextBlock(text)}}
}

// AssistantMessage creates an assistant message with a single text block.
func AssistantMessage(text string) Message {
	return Message{Role: "assistant", Blocks: []ContentBlock{NewTextBlock(text)}}
}
