package memory

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Note is a single memory record: free text owned by one user.
// The text is the only schema; schedule items, conversation exchanges, and
// anything else the assistant remembers all share this shape.
type Note struct {
	ID        string
	UserID    string
	Text      string
	CreatedAt time.Time

	// Similarity is set on query results (cosine, highest first).
	Similarity float32
}

// NewNote creates a Note with a fresh ID for the given owner.
func NewNote(userID, text string) Note {
	return Note{
		ID:        uuid.New().String(),
		UserID:    userID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
}

// Manager orchestrates memory operations. This is the interface the tools
// and the engine use; implementations decide how to embed, store, and rank.
type Manager interface {
	// Add stores a free-text memory under the user's identifier.
	Add(ctx context.Context, userID string, text string) error

	// Search returns memories relevant to the query, scoped to the user.
	// Results are ordered as the store returns them and may be empty.
	Search(ctx context.Context, userID string, query string) ([]Note, error)

	// RecordConversation stores a completed exchange (the user's message and
	// the assistant's final answer) as a memory. Called by the engine once
	// per finished turn.
	RecordConversation(ctx context.Context, userID string, userMessage string, assistantResponse string) error
}

// Store is the vector storage backend interface.
// Implementations: chromem.Store (embedded, local). Memories from one user
// must never be returned for another.
type Store interface {
	// Store saves a note with its embedding.
	Store(ctx context.Context, note Note, embedding []float32) error

	// Query retrieves up to limit notes for the user by vector similarity,
	// highest similarity first.
	Query(ctx context.Context, userID string, embedding []float32, limit int) ([]Note, error)

	// Close releases resources.
	Close() error
}

// Embedder converts text to vector embeddings.
// Implementations: openai.Embedder (API-backed), mock.Embedder (tests).
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimensions() int
}
