// Package resolve sends annotated source to an LLM and parses the
// returned reference-resolution report. Responses are cached in SQLite
// keyed by (source hash, model, prompt version).
package resolve

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"idmark/internal/config"
	"idmark/internal/errors"
)

// Client is a minimal OpenAI-compatible chat-completions client.
type Client struct {
	hc     *http.Client
	url    string
	apiKey string
	model  string
}

// NewClient builds a client from config, overriding the model if model is
// non-empty. The API key is read from the environment variable named in
// cfg.APIKeyEnv.
func NewClient(cfg *config.Config, model string) (*Client, error) {
	if model == "" {
		model = cfg.Model
	}
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, errors.NewInvalidRequest(
			fmt.Sprintf("missing API key: set %s in your environment", cfg.APIKeyEnv))
	}
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 60
	}
	return &Client{
		hc:     &http.Client{Timeout: time.Duration(timeout) * time.Second},
		url:    strings.TrimRight(cfg.BaseURL, "/") + "/chat/completions",
		apiKey: key,
		model:  model,
	}, nil
}

// Model returns the model name the client sends.
func (c *Client) Model() string { return c.model }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete sends a single user prompt and returns the assistant text.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: 0,
	})
	if err != nil {
		return "", errors.NewInternal(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", errors.NewInternal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", errors.NewUpstream(0, err.Error())
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 8<<20))
	if err != nil {
		return "", errors.NewUpstream(resp.StatusCode, err.Error())
	}
	if resp.StatusCode != http.StatusOK {
		return "", errors.NewUpstream(resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", errors.NewUpstream(resp.StatusCode, "malformed completion response")
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "", errors.NewUpstream(resp.StatusCode, "empty completion response")
	}
	return parsed.Choices[0].Message.Content, nil
}
