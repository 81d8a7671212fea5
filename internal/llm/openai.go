package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// OpenAIClient implements Client for OpenAI-compatible chat completion endpoints.
type OpenAIClient struct {
	apiKey     string
	config     *Config
	httpClient *http.Client
}

// NewOpenAIClient creates a client. A nil httpClient gets a 60s timeout.
func NewOpenAIClient(config *Config, apiKey string, httpClient *http.Client) (*OpenAIClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if config == nil {
		config = DefaultOpenAIConfig()
	}
	if config.BaseURL == "" {
		withBase := *config
		withBase.BaseURL = DefaultOpenAIBaseURL
		config = &withBase
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	return &OpenAIClient{apiKey: apiKey, config: config, httpClient: httpClient}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	MaxTokens      int               `json:"max_tokens,omitempty"`
	Temperature    float32           `json:"temperature"`
	ResponseFormat map[string]string `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type errorBody struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Generate implements Client.
func (c *OpenAIClient) Generate(ctx context.Context, req Request) (string, error) {
	model := modelFor(c.config, req)
	if model == "" {
		return "", &APIError{Provider: ProviderOpenAI, Category: CategoryBadRequest, Message: fmt.Sprintf("no model configured for tier %s", req.Tier)}
	}

	body := chatRequest{
		Model:       model,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	}
	if req.System != "" {
		body.Messages = append(body.Messages, chatMessage{Role: "system", Content: req.System})
	}
	body.Messages = append(body.Messages, chatMessage{Role: "user", Content: req.User})
	if req.JSON {
		body.ResponseFormat = map[string]string{"type": "json_object"}
	}

	raw, err := c.post(ctx, strings.TrimRight(c.config.BaseURL, "/")+"/chat/completions", body)
	if err != nil {
		return "", err
	}

	var cc chatResponse
	if err := json.Unmarshal(raw, &cc); err != nil {
		return "", &APIError{Provider: ProviderOpenAI, Category: CategoryUnknown, Message: "decode response", Cause: err}
	}
	if len(cc.Choices) == 0 {
		return "", Classify(ProviderOpenAI, fmt.Errorf("no choices in response: %w", ErrEmptyResponse))
	}
	return cc.Choices[0].Message.Content, nil
}

func (c *OpenAIClient) post(ctx context.Context, url string, body chatRequest) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, &APIError{Provider: ProviderOpenAI, Category: CategoryBadRequest, Message: "marshal request", Cause: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, &APIError{Provider: ProviderOpenAI, Category: CategoryBadRequest, Message: "build request", Cause: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, Classify(ProviderOpenAI, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, Classify(ProviderOpenAI, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{
			Provider:   ProviderOpenAI,
			StatusCode: resp.StatusCode,
			Category:   CategoryForStatus(resp.StatusCode),
			Message:    strings.TrimSpace(string(data)),
		}
		var eb errorBody
		if json.Unmarshal(data, &eb) == nil && eb.Error.Message != "" {
			apiErr.Message = eb.Error.Message
			if eb.Error.Type == "rate_limit_exceeded" || eb.Error.Type == "rate_limit_error" {
				apiErr.Category = CategoryRateLimit
			}
		}
		return nil, apiErr
	}
	return data, nil
}

// Close implements Client.
func (c *OpenAIClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
