package memory

import (
	"context"
	"fmt"
	"log"

	"github.com/dgraph-io/ristretto"
)

// SimpleManager is the provided Manager implementation: embed, store, query.
// The system prompt tells the model to search memory on every turn, so the
// same query text is embedded over and over; an in-process ristretto cache
// keeps those repeat embeddings off the API.
type SimpleManager struct {
	store      Store
	embedder   Embedder
	config     *Config
	embedCache *ristretto.Cache
}

// Config holds SimpleManager configuration.
type Config struct {
	// Enabled toggles the memory system on/off. When disabled, Add and
	// RecordConversation are no-ops and Search returns nothing.
	Enabled bool

	// MaxResults caps how many notes a Search returns.
	// Default: 10
	MaxResults int

	// CacheMaxCost bounds the embedding cache size in bytes.
	// Default: 8 MiB
	CacheMaxCost int64
}

// DefaultConfig returns defaults suitable for local runs.
var DefaultConfig = &Config{
	Enabled:      true,
	MaxResults:   10,
	CacheMaxCost: 8 << 20,
}

// NewSimpleManager creates a SimpleManager over the given store and embedder.
func NewSimpleManager(store Store, embedder Embedder, config *Config) (*SimpleManager, error) {
	if config == nil {
		config = DefaultConfig
	}
	if config.MaxResults <= 0 {
		config.MaxResults = DefaultConfig.MaxResults
	}
	maxCost := config.CacheMaxCost
	if maxCost <= 0 {
		maxCost = DefaultConfig.CacheMaxCost
	}

	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10_000,
		MaxCost:     maxCost,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create embedding cache: %w", err)
	}

	return &SimpleManager{
		store:      store,
		embedder:   embedder,
		config:     config,
		embedCache: cache,
	}, nil
}

// Add stores a free-text memory under the user's identifier.
func (m *SimpleManager) Add(ctx context.Context, userID string, text string) error {
	if !m.config.Enabled {
		return nil
	}

	embedding, err := m.embed(ctx, text)
	if err != nil {
		return fmt.Errorf("embed memory: %w", err)
	}

	note := NewNote(userID, text)
	if err := m.store.Store(ctx, note, embedding); err != nil {
		return fmt.Errorf("store memory: %w", err)
	}

	log.Printf("[MEMORY] Stored note for user=%s: %q", userID, truncateLog(text, 60))
	return nil
}

// Search returns memories relevant to the query, scoped to the user.
func (m *SimpleManager) Search(ctx context.Context, userID string, query string) ([]Note, error) {
	if !m.config.Enabled {
		return nil, nil
	}

	embedding, err := m.embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	notes, err := m.store.Query(ctx, userID, embedding, m.config.MaxResults)
	if err != nil {
		return nil, fmt.Errorf("query store: %w", err)
	}

	if len(notes) > 0 {
		log.Printf("[MEMORY] Retrieved %d notes for query %q (top similarity %.3f)",
			len(notes), truncateLog(query, 50), notes[0].Similarity)
	} else {
		log.Printf("[MEMORY] Retrieved 0 notes for query %q", truncateLog(query, 50))
	}
	return notes, nil
}

// RecordConversation stores a completed exchange as a memory.
// The stored text mirrors what the assistant will later search for:
// "User: ...\nAssistant: ...".
func (m *SimpleManager) RecordConversation(ctx context.Context, userID string, userMessage string, assistantResponse string) error {
	if userMessage == "" && assistantResponse == "" {
		return nil
	}
	return m.Add(ctx, userID, fmt.Sprintf("User: %s\nAssistant: %s", userMessage, assistantResponse))
}

// embed returns the embedding for text, consulting the cache first.
func (m *SimpleManager) embed(ctx context.Context, text string) ([]float32, error) {
	if cached, ok := m.embedCache.Get(text); ok {
		if embedding, ok := cached.([]float32); ok {
			return embedding, nil
		}
	}

	embedding, err := m.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	m.embedCache.Set(text, embedding, int64(4*len(embedding)))
	return embedding, nil
}

// truncateLog truncates text for logging.
func truncateLog(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
