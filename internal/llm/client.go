// Package llm talks to an OpenAI-compatible chat completion endpoint.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultEndpoint = "https://openrouter.ai/api/v1/chat/completions"
	DefaultModel    = "deepseek/deepseek-chat"
	DefaultTimeout  = 30 * time.Second
)

// Completer returns the model's reply to a single user prompt.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Config for the Client.
type Config struct {
	APIKey   string
	Endpoint string        // full chat/completions URL
	Model    string        // e.g. "deepseek/deepseek-chat"
	Timeout  time.Duration // http client timeout
}

type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends prompt as one user message and returns the content of the
// first choice. Every failure is a *ServiceError. There are no retries.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	reqID := uuid.New().String()
	start := time.Now()

	body, err := json.Marshal(chatRequest{
		Model:    c.cfg.Model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", &ServiceError{Reason: "encode request", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", &ServiceError{Reason: "build request", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	c.logger.Info("llm.request",
		"req_id", reqID,
		"model", c.cfg.Model,
		"prompt_chars", len(prompt),
	)

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("llm.error", "req_id", reqID, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return "", &ServiceError{Reason: "send request", Err: err}
	}
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			c.logger.Warn("llm.response_body_close_error", "req_id", reqID, "error", err)
		}
	}(resp.Body)

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Error("llm.error", "req_id", reqID, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return "", &ServiceError{Reason: "read response", Status: resp.StatusCode, Err: err}
	}

	c.logger.Info("llm.response",
		"req_id", reqID,
		"status", resp.StatusCode,
		"bytes", len(raw),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode/100 != 2 {
		c.logger.Error("llm.error", "req_id", reqID, "status", resp.StatusCode, "body", truncate(string(raw), 2<<10))
		return "", &ServiceError{Reason: "non-2xx response", Status: resp.StatusCode}
	}

	var cc chatResponse
	if err := json.Unmarshal(raw, &cc); err != nil {
		c.logger.Error("llm.error", "req_id", reqID, "error", err, "raw_bytes", len(raw))
		return "", &ServiceError{Reason: "decode response", Status: resp.StatusCode, Err: err}
	}
	if len(cc.Choices) == 0 {
		c.logger.Error("llm.error", "req_id", reqID, "reason", "no choices", "body", truncate(string(raw), 2<<10))
		return "", &ServiceError{Reason: "no choices in response", Status: resp.StatusCode}
	}
	return cc.Choices[0].Message.Content, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return fmt.Sprintf("%s...(truncated %d bytes)", s[:max], len(s)-max)
}
