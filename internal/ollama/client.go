// internal/ollama/client.go
// Package ollama implements the model-server collaborator over Ollama's
// native HTTP API.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mwiater/ollamabench/internal/appconfig"
	"github.com/mwiater/ollamabench/internal/benchmark"
	"github.com/mwiater/ollamabench/internal/logging"
)

const userAgent = "ollamabench"

// Client talks to a single Ollama server. It satisfies benchmark.Client.
type Client struct {
	baseURL     string
	client      *http.Client
	timeout     time.Duration
	temperature float64
	maxTokens   int
}

// New constructs a Client configured with the run's base URL, generation
// options, and per-request timeout.
func New(cfg appconfig.Config) *Client {
	timeout := cfg.RequestTimeout()
	return &Client{
		baseURL: strings.TrimRight(cfg.OllamaURL, "/"),
		client: &http.Client{
			Timeout:   timeout,
			Transport: &http.Transport{ForceAttemptHTTP2: false},
		},
		timeout:     timeout,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}
}

// tagsResponse is the shape of GET /api/tags.
type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

// generateResponse is the shape of a non-streaming POST /api/generate reply.
type generateResponse struct {
	Model              string `json:"model"`
	Response           string `json:"response"`
	Done               bool   `json:"done"`
	TotalDuration      int64  `json:"total_duration"`
	LoadDuration       int64  `json:"load_duration"`
	PromptEvalCount    int    `json:"prompt_eval_count"`
	PromptEvalDuration int64  `json:"prompt_eval_duration"`
	EvalCount          int    `json:"eval_count"`
	EvalDuration       int64  `json:"eval_duration"`
}

// HealthCheck verifies the server answers on /api/tags. Any failure here is
// run-aborting, so it surfaces as a benchmark.ConnectError.
func (c *Client) HealthCheck(ctx context.Context) error {
	resp, cancel, err := c.get(ctx, "/api/tags")
	if err != nil {
		return &benchmark.ConnectError{URL: c.baseURL, Err: err}
	}
	defer cancel()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &benchmark.ConnectError{URL: c.baseURL, Err: fmt.Errorf("/api/tags returned %s", resp.Status)}
	}
	return nil
}

// ListModels returns the names of the models installed on the server.
func (c *Client) ListModels(ctx context.Context) ([]string, error) {
	resp, cancel, err := c.get(ctx, "/api/tags")
	if err != nil {
		return nil, &benchmark.ConnectError{URL: c.baseURL, Err: err}
	}
	defer cancel()
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &benchmark.ConnectError{URL: c.baseURL, Err: fmt.Errorf("/api/tags returned %s", resp.Status)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	logging.LogRequest("OLLAMA->BENCH", c.baseURL, "", body)

	var tags tagsResponse
	if err := json.Unmarshal(body, &tags); err != nil {
		return nil, fmt.Errorf("could not parse model list from %s: %w", c.baseURL, err)
	}

	names := make([]string, len(tags.Models))
	for i, m := range tags.Models {
		names[i] = m.Name
	}
	return names, nil
}

// ModelExists reports whether the named model is installed on the server.
func (c *Client) ModelExists(ctx context.Context, model string) (bool, error) {
	models, err := c.ListModels(ctx)
	if err != nil {
		return false, err
	}
	for _, name := range models {
		if name == model {
			return true, nil
		}
	}
	return false, nil
}

// Generate issues one non-streaming generation request and derives a Sample
// from the server's timing fields. Transport failures, bad statuses, and
// malformed bodies become failed Samples rather than errors; only a missing
// model or a cancelled context aborts the run.
func (c *Client) Generate(ctx context.Context, model, prompt string) (benchmark.Sample, error) {
	// num_predict and temperature ride along on every request; temperature is
	// fixed per run so iterations are comparable.
	payload := map[string]any{
		"model":  model,
		"prompt": prompt,
		"stream": false,
		"options": map[string]any{
			"temperature": c.temperature,
			"num_predict": c.maxTokens,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return benchmark.Sample{}, fmt.Errorf("could not marshal generate request: %w", err)
	}
	logging.LogRequest("BENCH->OLLAMA", c.baseURL, model, body)

	start := time.Now()
	timestamp := start.UTC()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return benchmark.Sample{}, fmt.Errorf("could not build generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr == context.Canceled {
			return benchmark.Sample{}, ctxErr
		}
		return failedSample(model, prompt, timestamp, start, err.Error()), nil
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return failedSample(model, prompt, timestamp, start, fmt.Sprintf("could not read response: %v", err)), nil
	}
	logging.LogRequest("OLLAMA->BENCH", c.baseURL, model, respBody)

	if resp.StatusCode != http.StatusOK {
		// A 404, or an error body naming the model, means the model vanished
		// after pre-flight validation. That escalates past sample level.
		if resp.StatusCode == http.StatusNotFound || strings.Contains(strings.ToLower(string(respBody)), "model") {
			return benchmark.Sample{}, &benchmark.ModelNotFoundError{Model: model}
		}
		return failedSample(model, prompt, timestamp, start,
			fmt.Sprintf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))), nil
	}

	var gen generateResponse
	if err := json.Unmarshal(respBody, &gen); err != nil {
		return failedSample(model, prompt, timestamp, start, fmt.Sprintf("could not parse response: %v", err)), nil
	}

	sample := benchmark.Sample{
		Model:            model,
		Prompt:           prompt,
		Timestamp:        timestamp,
		Success:          true,
		TotalDurationMs:  time.Since(start).Milliseconds(),
		PromptTokens:     gen.PromptEvalCount,
		CompletionTokens: gen.EvalCount,
	}

	// TTFT is approximated by the prompt evaluation phase; the request is
	// non-streaming, so true first-token latency is not observable.
	if gen.PromptEvalDuration > 0 {
		sample.TimeToFirstTokenMs = gen.PromptEvalDuration / int64(time.Millisecond)
	}

	// Throughput counts generated tokens against generation time only,
	// excluding prompt evaluation.
	if gen.EvalDuration > 0 && gen.EvalCount > 0 {
		sample.TokensPerSecond = float64(gen.EvalCount) * float64(time.Second) / float64(gen.EvalDuration)
	}

	return sample, nil
}

// get issues a GET with the client timeout applied. The caller must invoke
// the returned cancel func once it is done with the response body.
func (c *Client) get(ctx context.Context, path string) (*http.Response, context.CancelFunc, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)

	endpoint := c.baseURL + path
	logging.LogRequest("BENCH->OLLAMA", endpoint, "", map[string]string{"method": http.MethodGet})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		cancel()
		return nil, nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := c.client.Do(req)
	if err != nil {
		cancel()
		return nil, nil, err
	}
	return resp, cancel, nil
}

// failedSample normalizes a per-request failure into Sample form: metrics
// zeroed, wall time preserved, diagnostic attached.
func failedSample(model, prompt string, timestamp time.Time, start time.Time, reason string) benchmark.Sample {
	return benchmark.Sample{
		Model:           model,
		Prompt:          prompt,
		Timestamp:       timestamp,
		Success:         false,
		TotalDurationMs: time.Since(start).Milliseconds(),
		Error:           reason,
	}
}
