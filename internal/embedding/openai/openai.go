// Package openai implements the embedding capability against an
// OpenAI-compatible embeddings endpoint. Local servers (TEI, LocalAI,
// Ollama's OpenAI shim) speak the same dialect, which is how a 384-dim
// sentence-transformer model ends up behind this client.
package openai

import (
	"context"
	"fmt"
	"os"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

type Config struct {
	BaseURL   string
	APIKeyEnv string
	Model     string
	Dimension int
	Timeout   time.Duration
}

// Client wraps the go-openai embeddings API as a batched encoder with a
// fixed output dimension.
type Client struct {
	api       *openai.Client
	model     string
	dimension int
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.Model == "" {
		return nil, fmt.Errorf("embedding model not configured")
	}
	if cfg.Dimension <= 0 {
		return nil, fmt.Errorf("embedding dimension not configured")
	}
	key := ""
	if cfg.APIKeyEnv != "" {
		key = os.Getenv(cfg.APIKeyEnv)
	}
	occfg := openai.DefaultConfig(key)
	if cfg.BaseURL != "" {
		occfg.BaseURL = cfg.BaseURL
	}
	if cfg.Timeout > 0 {
		occfg.HTTPClient.Timeout = cfg.Timeout
	}
	return &Client{
		api:       openai.NewClientWithConfig(occfg),
		model:     cfg.Model,
		dimension: cfg.Dimension,
	}, nil
}

// Encode embeds all texts in a single batched request, preserving input
// order.
func (c *Client) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	resp, err := c.api.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(c.model),
		Input: texts,
	})
	if err != nil {
		return nil, fmt.Errorf("create embeddings: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("got %d embeddings for %d texts", len(resp.Data), len(texts))
	}
	out := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(out) {
			return nil, fmt.Errorf("embedding index %d out of range", d.Index)
		}
		vec := make([]float32, len(d.Embedding))
		for i := range d.Embedding {
			vec[i] = float32(d.Embedding[i])
		}
		if len(vec) != c.dimension {
			return nil, fmt.Errorf("embedding dimension %d, want %d", len(vec), c.dimension)
		}
		out[d.Index] = vec
	}
	return out, nil
}

// Dimension returns the configured vector size.
func (c *Client) Dimension() int { return c.dimension }
