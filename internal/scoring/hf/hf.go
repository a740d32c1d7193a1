// Package hf implements the cross-encoder scoring capability against a
// text-embeddings-inference style /rerank endpoint, which jointly encodes
// each (query, passage) pair server-side.
package hf

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

type Config struct {
	URL     string
	Timeout time.Duration
}

// Client is a minimal REST client for a reranker server.
type Client struct {
	url        string
	client     *http.Client
	maxRetries int
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("reranker URL not configured")
	}
	t := cfg.Timeout
	if t == 0 {
		t = 30 * time.Second
	}
	return &Client{
		url:        cfg.URL,
		client:     &http.Client{Timeout: t},
		maxRetries: 3,
	}, nil
}

type rerankRequest struct {
	Query     string   `json:"query"`
	Texts     []string `json:"texts"`
	RawScores bool     `json:"raw_scores"`
}

type rerankResult struct {
	Index int     `json:"index"`
	Score float32 `json:"score"`
}

// Score returns one relevance score per passage, in passage order. The
// server replies sorted by score, so results are mapped back by index.
func (c *Client) Score(ctx context.Context, query string, passages []string) ([]float32, error) {
	if len(passages) == 0 {
		return nil, nil
	}
	body, err := json.Marshal(rerankRequest{Query: query, Texts: passages, RawScores: true})
	if err != nil {
		return nil, fmt.Errorf("marshal rerank request: %w", err)
	}
	url := c.url + "/rerank"
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = err
			if attempt < c.maxRetries {
				time.Sleep(retryDelay(attempt))
				continue
			}
			return nil, lastErr
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			delay := retryDelay(attempt)
			if ra := resp.Header.Get("Retry-After"); ra != "" {
				if secs, err := strconv.Atoi(ra); err == nil {
					delay = time.Duration(secs) * time.Second
				}
			}
			_ = resp.Body.Close()
			lastErr = fmt.Errorf("rerank failed: %s", resp.Status)
			if attempt < c.maxRetries {
				time.Sleep(delay)
				continue
			}
			return nil, lastErr
		}

		payload, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= 300 {
			return nil, fmt.Errorf("rerank failed: %s", resp.Status)
		}

		var results []rerankResult
		if err := json.Unmarshal(payload, &results); err != nil {
			return nil, fmt.Errorf("decode rerank response: %w", err)
		}
		scores := make([]float32, len(passages))
		seen := make([]bool, len(passages))
		for _, r := range results {
			if r.Index < 0 || r.Index >= len(passages) {
				return nil, fmt.Errorf("rerank result index %d out of range", r.Index)
			}
			scores[r.Index] = r.Score
			seen[r.Index] = true
		}
		for i, ok := range seen {
			if !ok {
				return nil, fmt.Errorf("rerank response missing score for passage %d", i)
			}
		}
		return scores, nil
	}
	return nil, lastErr
}

func retryDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	base := 200 * time.Millisecond
	d := base << attempt
	if d > 5*time.Second {
		d = 5 * time.Second
	}
	return d
}
