// Package llamacpp implements the generation capability against a
// llama.cpp-server /completion endpoint. The prompt is already rendered in
// the model's chat template by the caller; this client only runs bounded
// continuation.
package llamacpp

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

// Client is a minimal REST client for a llama.cpp completion server.
type Client struct {
	url        string
	client     *http.Client
	maxRetries int
}

func NewClient(cfg Config) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("generator URL not configured")
	}
	t := cfg.Timeout
	if t == 0 {
		t = 120 * time.Second
	}
	return &Client{
		url:        cfg.URL,
		client:     &http.Client{Timeout: t},
		maxRetries: 2,
	}, nil
}

type completionRequest struct {
	Prompt   string   `json:"prompt"`
	NPredict int      `json:"n_predict"`
	Stop     []string `json:"stop,omitempty"`
}

type completionResponse struct {
	Content string `json:"content"`
}

// Complete generates at most maxNewTokens of continuation, stopping at the
// stop string. The returned text is the prompt plus the continuation, the
// full decoded sequence the marker extractor expects.
func (c *Client) Complete(ctx context.Context, prompt string, maxNewTokens int, stop string) (string, error) {
	reqBody := completionRequest{Prompt: prompt, NPredict: maxNewTokens}
	if stop != "" {
		reqBody.Stop = []string{stop}
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal completion request: %w", err)
	}
	url := c.url + "/completion"
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
		if err != nil {
			return "", err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = err
			if attempt < c.maxRetries {
				time.Sleep(retryDelay(attempt))
				continue
			}
			return "", lastErr
		}

		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			delay := retryDelay(attempt)
			if ra := resp.Header.Get("Retry-After"); ra != "" {
				if secs, err := strconv.Atoi(ra); err == nil {
					delay = time.Duration(secs) * time.Second
				}
			}
			_ = resp.Body.Close()
			lastErr = fmt.Errorf("completion failed: %s", resp.Status)
			if attempt < c.maxRetries {
				time.Sleep(delay)
				continue
			}
			return "", lastErr
		}

		payload, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			return "", err
		}
		if resp.StatusCode >= 300 {
			return "", fmt.Errorf("completion failed: %s", resp.Status)
		}

		var out completionResponse
		if err := json.Unmarshal(payload, &out); err != nil {
			return "", fmt.Errorf("decode completion response: %w", err)
		}
		return prompt + out.Content, nil
	}
	return "", lastErr
}

func retryDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	base := 500 * time.Millisecond
	d := base << attempt
	if d > 5*time.Second {
		d = 5 * time.Second
	}
	return d
}
