// Package inference provides the client to the load-balanced generation
// cluster. The balancer owns replica selection; this client only ever
// talks to the single logical balancer address, caches responses by
// prompt fingerprint, and records per-model latency statistics.
package inference

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// BackendError represents a failed generation request to the cluster.
type BackendError struct {
	StatusCode int
	Body       string
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("generation request failed: HTTP %d: %s", e.StatusCode, e.Body)
}

// IsRetryable returns true for server errors (5xx). Client errors (4xx)
// are considered permanent.
func (e *BackendError) IsRetryable() bool {
	return e.StatusCode >= 500
}

// Options are the sampling parameters forwarded with every request.
type Options struct {
	Temperature      float64 `json:"temperature"`
	TopP             float64 `json:"top_p"`
	MaxTokens        int     `json:"max_tokens"`
	FrequencyPenalty float64 `json:"frequency_penalty"`
}

// DefaultOptions matches the cluster's production sampling profile.
func DefaultOptions() Options {
	return Options{Temperature: 0.7, TopP: 0.9, MaxTokens: 2048, FrequencyPenalty: 0.1}
}

type generateRequest struct {
	Model   string  `json:"model"`
	Prompt  string  `json:"prompt"`
	Stream  bool    `json:"stream"`
	Options Options `json:"options"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Client sends generation prompts through the cluster load balancer.
// It is safe for concurrent use by multiple pipeline workers.
type Client struct {
	balancerURL string
	options     Options
	httpClient  *http.Client
	stats       *Stats
	logger      *slog.Logger

	mu    sync.Mutex
	cache map[string]string
}

func NewClient(balancerURL string, timeout time.Duration, options Options, stats *Stats, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		balancerURL: balancerURL,
		options:     options,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		stats:  stats,
		logger: logger,
		cache:  make(map[string]string),
	}
}

// Fingerprint returns the stable cache key for a (prompt, model) pair.
func Fingerprint(prompt, model string) string {
	h := sha256.New()
	h.Write([]byte(prompt))
	h.Write([]byte{0})
	h.Write([]byte(model))
	return hex.EncodeToString(h.Sum(nil))
}

// Generate returns the generated text for a prompt, or the empty string
// as a signaled soft failure when the backend errors out. Cache hits
// return the stored text without a network call and without touching
// the stats counters; counting a zero-latency hit would skew the
// average toward zero.
func (c *Client) Generate(ctx context.Context, prompt, model string) string {
	key := Fingerprint(prompt, model)

	c.mu.Lock()
	if cached, ok := c.cache[key]; ok {
		c.mu.Unlock()
		c.logger.Debug("inference cache hit", "model", model, "fingerprint", key[:12])
		return cached
	}
	c.mu.Unlock()

	start := time.Now()
	text, err := c.request(ctx, prompt, model)
	elapsed := time.Since(start)

	if err != nil {
		c.stats.Record(model, elapsed, false)
		c.logger.Error("generation failed", "model", model, "elapsed_ms", elapsed.Milliseconds(), "error", err)
		return ""
	}

	c.stats.Record(model, elapsed, true)

	c.mu.Lock()
	c.cache[key] = text
	c.mu.Unlock()

	c.logger.Debug("generated content", "model", model, "elapsed_ms", elapsed.Milliseconds(), "chars", len(text))
	return text
}

func (c *Client) request(ctx context.Context, prompt, model string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Model:   model,
		Prompt:  prompt,
		Stream:  false,
		Options: c.options,
	})
	if err != nil {
		return "", fmt.Errorf("marshal generate payload: %w", err)
	}

	url := c.balancerURL + "/api/generate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &BackendError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var result generateResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("parse response JSON: %w", err)
	}

	return result.Response, nil
}
