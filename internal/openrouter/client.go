package openrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// DefaultAPIURL is the OpenRouter chat completions endpoint
const DefaultAPIURL = "https://openrouter.ai/api/v1/chat/completions"

const referer = "https://github.com/ridwanfathin/invoice-insights-service"

// OpenRouterError represents an error that occurred during OpenRouter API interaction
type OpenRouterError struct {
	Op  string // Operation that caused the error
	Err error  // Original error
}

// Error implements the error interface
func (e *OpenRouterError) Error() string {
	if e.Err == nil {
		return "openrouter error: " + e.Op
	}
	return "openrouter error: " + e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying error
func (e *OpenRouterError) Unwrap() error {
	return e.Err
}

// Client represents a client for the OpenRouter API. One client serves both
// document extraction and the streaming assistant.
type Client struct {
	apiKey      string
	apiURL      string
	httpClient  *http.Client
	modelID     string
	chatModelID string
	timeout     time.Duration
	logger      *zap.Logger
}

// Config holds configuration for the OpenRouter client
type Config struct {
	APIKey      string
	APIURL      string
	ModelID     string
	ChatModelID string
	Timeout     time.Duration
}

// DefaultConfig returns a default configuration for the OpenRouter client
func DefaultConfig() *Config {
	return &Config{
		APIURL:      DefaultAPIURL,
		ModelID:     "google/gemini-2.5-flash",
		ChatModelID: "google/gemini-2.5-flash",
		Timeout:     60 * time.Second,
	}
}

// NewClient creates a new OpenRouter client
func NewClient(config *Config, logger *zap.Logger) *Client {
	if config == nil {
		config = DefaultConfig()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	apiURL := config.APIURL
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}

	chatModelID := config.ChatModelID
	if chatModelID == "" {
		chatModelID = config.ModelID
	}

	return &Client{
		apiKey:      config.APIKey,
		apiURL:      apiURL,
		modelID:     config.ModelID,
		chatModelID: chatModelID,
		timeout:     config.Timeout,
		logger:      logger.Named("openrouter"),
		// The streaming assistant relies on the request context instead of a
		// client-wide timeout, so only the extraction path sets one.
		httpClient: &http.Client{},
	}
}

// message is one entry of a chat completions request. Content is either a
// string or a list of content parts.
type message struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

type imageURL struct {
	URL string `json:"url"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type completionRequest struct {
	Model          string          `json:"model"`
	Messages       []message       `json:"messages"`
	Stream         bool            `json:"stream,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
	Temperature    *float64        `json:"temperature,omitempty"`
}

func (c *Client) checkAPIKey() error {
	if c.apiKey == "" {
		return &OpenRouterError{
			Op:  "validate_configuration",
			Err: fmt.Errorf("OpenRouter API key is not configured. Please set OPENROUTER_API_KEY environment variable"),
		}
	}
	return nil
}

// newRequest builds an authenticated chat completions request
func (c *Client) newRequest(ctx context.Context, op string, payload completionRequest) (*http.Request, error) {
	requestData, err := json.Marshal(payload)
	if err != nil {
		return nil, &OpenRouterError{
			Op:  "marshal_request",
			Err: fmt.Errorf("failed to marshal request payload: %w", err),
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(requestData))
	if err != nil {
		return nil, &OpenRouterError{
			Op:  op,
			Err: fmt.Errorf("failed to create request: %w", err),
		}
	}

	// Set headers
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("HTTP-Referer", referer)
	if payload.Stream {
		req.Header.Set("Accept", "text/event-stream")
	}

	return req, nil
}
