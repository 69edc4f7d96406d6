package openai_provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrMissingAPIKey is returned when the client was built without a credential.
var ErrMissingAPIKey = errors.New("llm api key not configured")

// client talks to any OpenAI-compatible chat completions endpoint (OpenAI, Groq).
type client struct {
	apiKey       string
	endpoint     string
	model        string
	systemPrompt string
	temperature  float64
	maxTokens    int
	httpClient   *http.Client
	logger       *zap.Logger
}

// Options configures NewClient.
type Options struct {
	APIKey       string
	BaseURL      string // e.g. https://api.groq.com/openai/v1
	Model        string
	SystemPrompt string
	Temperature  float64
	MaxTokens    int
	Timeout      time.Duration
	HTTPClient   *http.Client
	Logger       *zap.Logger
}

// Message represents a message in a conversation
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// request represents a request to the chat completions API
type request struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

// response represents a response from the chat completions API
type response struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewClient creates a new chat completions client
func NewClient(opts Options) *client {
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &client{
		apiKey:       strings.TrimSpace(opts.APIKey),
		endpoint:     strings.TrimRight(opts.BaseURL, "/") + "/chat/completions",
		model:        opts.Model,
		systemPrompt: opts.SystemPrompt,
		temperature:  opts.Temperature,
		maxTokens:    opts.MaxTokens,
		httpClient:   hc,
		logger:       logger,
	}
}

// Query sends prompt as the user message after the configured system prompt
// and returns the first choice's content.
func (c *client) Query(ctx context.Context, prompt string) (string, error) {
	if c.apiKey == "" {
		return "", ErrMissingAPIKey
	}
	var messages []Message
	if c.systemPrompt != "" {
		messages = append(messages, Message{Role: "system", Content: c.systemPrompt})
	}
	messages = append(messages, Message{Role: "user", Content: prompt})
	return c.sendRequest(ctx, messages)
}

// sendRequest sends a request to the chat completions API
func (c *client) sendRequest(ctx context.Context, messages []Message) (string, error) {
	requestBody := request{
		Model:       c.model,
		Messages:    messages,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}

	c.logger.Debug("sending chat completion",
		zap.String("model", c.model),
		zap.Float64("temperature", c.temperature),
		zap.Int("max_tokens", c.maxTokens),
		zap.Int("prompt_chars", len(messages[len(messages)-1].Content)),
	)

	jsonData, err := json.Marshal(requestBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	var out response
	if err := json.Unmarshal(body, &out); err != nil {
		if resp.StatusCode != http.StatusOK {
			return "", fmt.Errorf("API returned status: %d", resp.StatusCode)
		}
		return "", fmt.Errorf("failed to parse response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if out.Error != nil && out.Error.Message != "" {
			return "", fmt.Errorf("API returned status %d: %s", resp.StatusCode, out.Error.Message)
		}
		return "", fmt.Errorf("API returned status: %d", resp.StatusCode)
	}

	c.logger.Debug("received chat completion", zap.String("status", resp.Status), zap.Int("choices", len(out.Choices)))

	if len(out.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}
	return out.Choices[0].Message.Content, nil
}
