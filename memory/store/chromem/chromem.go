// Package chromem implements the memory.Store interface on top of
// chromem-go, a pure Go embedded vector database.
package chromem

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	chromem "github.com/philippgille/chromem-go"

	"github.com/becomeliminal/concierge/memory"
)

// Store keeps one chromem collection per user so memories are isolated by
// construction: a query can only ever touch the caller's collection.
type Store struct {
	db          *chromem.DB
	collections map[string]*chromem.Collection
	mu          sync.RWMutex
}

// New creates an in-memory chromem store.
func New() (*Store, error) {
	return &Store{
		db:          chromem.NewDB(),
		collections: make(map[string]*chromem.Collection),
	}, nil
}

// getOrCreateCollection returns the collection for a user.
func (s *Store) getOrCreateCollection(userID string) (*chromem.Collection, error) {
	s.mu.RLock()
	col, exists := s.collections[userID]
	s.mu.RUnlock()

	if exists {
		return col, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Double-check after acquiring write lock
	if col, exists := s.collections[userID]; exists {
		return col, nil
	}

	col, err := s.db.CreateCollection(
		fmt.Sprintf("user_%s", userID),
		nil, // no collection metadata
		nil, // embeddings are provided by the caller
	)
	if err != nil {
		return nil, fmt.Errorf("create collection: %w", err)
	}

	s.collections[userID] = col
	return col, nil
}

// Store saves a note with its embedding.
func (s *Store) Store(ctx context.Context, note memory.Note, embedding []float32) error {
	col, err := s.getOrCreateCollection(note.UserID)
	if err != nil {
		return err
	}

	doc := chromem.Document{
		ID:        note.ID,
		Content:   note.Text,
		Embedding: embedding,
		Metadata: map[string]string{
			"user_id":    note.UserID,
			"created_at": note.CreatedAt.Format(time.RFC3339),
		},
	}

	if err := col.AddDocument(ctx, doc); err != nil {
		return fmt.Errorf("add document: %w", err)
	}

	log.Printf("[CHROMEM] Stored note id=%s user=%s", note.ID, note.UserID)
	return nil
}

// Query retrieves up to limit notes for the user by vector similarity.
func (s *Store) Query(ctx context.Context, userID string, embedding []float32, limit int) ([]memory.Note, error) {
	col, err := s.getOrCreateCollection(userID)
	if err != nil {
		return nil, err
	}

	// Metadata filter is redundant with per-user collections but cheap.
	where := map[string]string{"user_id": userID}

	// chromem requires nResults <= collection size; shrink until it fits.
	var results []chromem.Result
	for currentLimit := limit; currentLimit >= 1; currentLimit-- {
		results, err = col.QueryEmbedding(ctx, embedding, currentLimit, where, nil)
		if err == nil {
			break
		}

		if isInsufficientDocsError(err) {
			if currentLimit == 1 {
				return nil, nil // collection is empty
			}
			continue
		}

		return nil, fmt.Errorf("chromem query: %w", err)
	}

	notes := make([]memory.Note, 0, len(results))
	for _, result := range results {
		createdAt, _ := time.Parse(time.RFC3339, result.Metadata["created_at"])
		notes = append(notes, memory.Note{
			ID:         result.ID,
			UserID:     result.Metadata["user_id"],
			Text:       result.Content,
			CreatedAt:  createdAt,
			Similarity: result.Similarity,
		})
	}

	log.Printf("[CHROMEM] Query user=%s returned %d notes", userID, len(notes))
	return notes, nil
}

// Close releases resources. chromem keeps everything in memory, so this is
// a no-op kept for the Store contract.
func (s *Store) Close() error {
	return nil
}

// isInsufficientDocsError checks if the query failed because the collection
// holds fewer documents than were requested.
func isInsufficientDocsError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "nResults must be") || strings.Contains(msg, "number of documents")
}
