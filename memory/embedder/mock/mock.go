// Package mock provides a deterministic embedder for tests and offline runs.
package mock

import (
	"context"
	"hash/fnv"
	"math"
)

// Embedder generates deterministic embeddings from a text hash. It gives no
// real semantic similarity, but identical text always embeds identically,
// which is enough for store round-trips and isolation tests.
type Embedder struct {
	dimensions int
}

// New creates a mock embedder with 1536 dimensions (matching the OpenAI
// backend so the two are interchangeable at startup).
func New() *Embedder {
	return &Embedder{dimensions: 1536}
}

// Embed creates a deterministic unit-vector embedding from text.
func (m *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	h := fnv.New64a()
	h.Write([]byte(text))

	embedding := make([]float32, m.dimensions)
	seed := h.Sum64()
	for i := 0; i < m.dimensions; i++ {
		// LCG seeded by the text hash
		seed = seed*6364136223846793005 + 1442695040888963407
		embedding[i] = float32(int64(seed)) / float32(math.MaxInt64)
	}

	return normalize(embedding), nil
}

// Dimensions returns the embedding size.
func (m *Embedder) Dimensions() int {
	return m.dimensions
}

func normalize(vec []float32) []float32 {
	var norm float32
	for _, v := range vec {
		norm += v * v
	}
	if norm == 0 {
		return vec
	}

	norm = float32(math.Sqrt(float64(norm)))
	normalized := make([]float32, len(vec))
	for i, v := range vec {
		normalized[i] = v / norm
	}
	return normalized
}
