// Package openai provides an Embedder backed by the OpenAI Embeddings API.
package openai

import (
	"context"
	"errors"

	openai "github.com/sashabaranov/go-openai"
)

// Embedder calls the OpenAI Embeddings API (text-embedding-ada-002).
type Embedder struct {
	client     *openai.Client
	model      openai.EmbeddingModel
	dimensions int
}

// Config configures the OpenAI embedder.
type Config struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// BaseURL overrides the API base URL (optional).
	BaseURL string
}

// New creates an OpenAI embedder.
func New(cfg Config) (*Embedder, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai embedder: API key is required")
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Embedder{
		client:     openai.NewClientWithConfig(clientCfg),
		model:      openai.AdaEmbeddingV2,
		dimensions: 1536,
	}, nil
}

// Embed converts a single text to an embedding vector.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: e.model,
	})
	if err != nil {
		return nil, err
	}

	if len(resp.Data) == 0 {
		return nil, errors.New("openai embedder: no data returned")
	}

	return resp.Data[0].Embedding, nil
}

// Dimensions returns the embedding vector size.
func (e *Embedder) Dimensions() int {
	return e.dimensions
}
