package aiextract

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"time"

	"labmark/internal/config"
	"labmark/internal/port"
)

const (
	apiURL     = "https://api.anthropic.com/v1/messages"
	apiVersion = "2023-06-01"

	maxAttemptsPerModel = 3
	baseBackoff         = time.Second
	maxBackoff          = 30 * time.Second

	// The provider's documented permanently-unavailable code; retrying it
	// within a run is pointless.
	statusPermanentlyUnavailable = 529
)

// Client implements port.AIExtractor against an Anthropic-style Messages API.
// Candidate models are tried in preference order; the retry/backoff state
// machine (model index, attempt index) uses an injectable sleeper so tests
// run without real timers.
type Client struct {
	apiKey   string
	models   []string
	endpoint string
	client   *http.Client
	sleep    func(time.Duration)
	jitter   func(time.Duration) time.Duration
}

// NewClient creates a client from provider config.
func NewClient(cfg *config.AIConfig) *Client {
	return newClient(cfg, apiURL)
}

// NewClientWithEndpoint creates a client pointing at a custom API endpoint (for testing).
func NewClientWithEndpoint(cfg *config.AIConfig, endpoint string) *Client {
	return newClient(cfg, endpoint)
}

func newClient(cfg *config.AIConfig, endpoint string) *Client {
	models := cfg.Models
	if len(models) == 0 {
		models = []string{"claude-sonnet-4-20250514"}
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &Client{
		apiKey:   cfg.APIKey,
		models:   models,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		sleep:    time.Sleep,
		jitter: func(d time.Duration) time.Duration {
			return time.Duration(rand.Int63n(int64(d)))
		},
	}
}

// SetSleeper replaces the sleep and jitter functions (tests).
func (c *Client) SetSleeper(sleep func(time.Duration), jitter func(time.Duration) time.Duration) {
	c.sleep = sleep
	c.jitter = jitter
}

// Extract runs the extraction request through the model cascade.
func (c *Client) Extract(ctx context.Context, req port.AIExtractionRequest) (*port.AIExtractionResult, error) {
	prompt := BuildExtractionPrompt(req.Text)

	var lastErr error
	for _, model := range c.models {
		text, warnings, err := c.completeWithRetry(ctx, model, prompt)
		if err != nil {
			var rl *RateLimitError
			if errors.As(err, &rl) {
				// 429 aborts the whole cascade; the caller owns the backoff.
				return nil, err
			}
			var nm *modelError
			if errors.As(err, &nm) && nm.advance {
				log.Printf("aiextract.Client: model %s not recognized, advancing", model)
				lastErr = err
				continue
			}
			lastErr = err
			continue
		}

		result, perr := parsePayload(text)
		if perr != nil {
			// Malformed output means no AI rows, never a fatal error
			// for the pipeline.
			log.Printf("aiextract.Client: unusable payload from %s: %v", model, perr)
			return &port.AIExtractionResult{Model: model, Warnings: append(warnings, perr.Error())}, nil
		}
		result.Model = model
		result.Warnings = warnings
		return result, nil
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no candidate models configured")
	}
	return nil, fmt.Errorf("all candidate models failed: %w", lastErr)
}

// modelError wraps a per-model failure; advance means try the next model.
type modelError struct {
	err     error
	advance bool
}

func (e *modelError) Error() string { return e.err.Error() }
func (e *modelError) Unwrap() error { return e.err }

// completeWithRetry is the per-model attempt loop: transient 5xx failures
// back off exponentially with jitter up to maxAttemptsPerModel.
func (c *Client) completeWithRetry(ctx context.Context, model, prompt string) (string, []string, error) {
	var lastErr error
	for attempt := 0; attempt < maxAttemptsPerModel; attempt++ {
		if attempt > 0 {
			delay := baseBackoff << (attempt - 1)
			if delay > maxBackoff {
				delay = maxBackoff
			}
			delay += c.jitter(500 * time.Millisecond)
			c.sleep(delay)
		}

		text, truncated, err := c.complete(ctx, model, prompt)
		if err == nil {
			if truncated {
				return c.continueTruncated(ctx, model, text)
			}
			return text, nil, nil
		}

		var rl *RateLimitError
		if errors.As(err, &rl) {
			return "", nil, err
		}
		var me *modelError
		if errors.As(err, &me) {
			return "", nil, me
		}
		var ue *UnavailableError
		if errors.As(err, &ue) {
			return "", nil, &modelError{err: ue, advance: true}
		}
		lastErr = err
	}
	return "", nil, fmt.Errorf("model %s: %w", model, lastErr)
}

// continueTruncated issues exactly one continuation request; if it also
// succeeds the outputs are concatenated with a possibly-incomplete notice.
func (c *Client) continueTruncated(ctx context.Context, model, partial string) (string, []string, error) {
	cont, _, err := c.complete(ctx, model, BuildContinuationPrompt(partial))
	if err != nil {
		return partial, []string{"output truncated; continuation failed"}, nil
	}
	return partial + cont, []string{"response possibly incomplete"}, nil
}

// apiResponse models the provider's Messages API response.
type apiResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

func (c *Client) complete(ctx context.Context, model, prompt string) (string, bool, error) {
	reqBody := map[string]any{
		"model":      model,
		"max_tokens": 16384,
		"messages": []map[string]any{
			{"role": "user", "content": prompt},
		},
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", false, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", false, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", false, fmt.Errorf("calling extraction API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", false, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		baseErr := fmt.Errorf("extraction API error (status %d): %s", resp.StatusCode, truncate(string(respBody), 300))
		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			retryAfter := ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
			return "", false, NewRateLimitError("anthropic", baseErr, retryAfter)
		case modelNotRecognized(resp.StatusCode, string(respBody)):
			return "", false, &modelError{err: baseErr, advance: true}
		case resp.StatusCode == statusPermanentlyUnavailable:
			return "", false, &UnavailableError{Status: resp.StatusCode, Err: baseErr}
		case resp.StatusCode < http.StatusInternalServerError:
			// Remaining 4xx (auth, malformed request) will not improve on
			// retry; fail the model immediately.
			return "", false, &modelError{err: baseErr}
		default:
			return "", false, baseErr
		}
	}

	var parsed apiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return "", false, fmt.Errorf("unmarshaling response: %w", err)
	}
	if len(parsed.Content) == 0 {
		return "", false, fmt.Errorf("empty response from API")
	}
	return parsed.Content[0].Text, parsed.StopReason == "max_tokens", nil
}

// parsePayload recovers, validates, and decodes the extraction payload.
func parsePayload(text string) (*port.AIExtractionResult, error) {
	raw := RecoverJSON(text)
	if raw == nil {
		return nil, fmt.Errorf("no JSON object in model output")
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parsing model JSON output: %w", err)
	}
	if err := ValidatePayload(doc); err != nil {
		return nil, err
	}

	var result port.AIExtractionResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decoding extraction payload: %w", err)
	}
	return &result, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
