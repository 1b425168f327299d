package mlxclient

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

	"github.com/ridwanfathin/invoice-insights-service/internal/domain"
)

// ErrDocumentNotArchived is returned when a document has no public URL. The
// MLX service downloads documents itself and cannot take inline data.
var ErrDocumentNotArchived = errors.New("document has no archive URL")

// Client represents a client for the MLX-VLM service
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Config holds configuration for the MLX client
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// NewClient creates a new MLX-VLM client
func NewClient(config *Config) *Client {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 300 * time.Second // 5 minutes default
	}

	return &Client{
		baseURL: strings.TrimSuffix(config.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ExtractInvoiceData extracts structured data from an archived invoice document using MLX-VLM
func (c *Client) ExtractInvoiceData(ctx context.Context, doc domain.Document) (*domain.ExtractedInvoice, error) {
	if doc.URL == "" {
		return nil, ErrDocumentNotArchived
	}

	jsonData, err := json.Marshal(map[string]string{
		"image_url": doc.URL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/extract", bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	// Send request
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	// Read response
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	// Check status code
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("MLX service error (status %d): %s", resp.StatusCode, string(respBody))
	}

	// Parse response
	var invoice domain.ExtractedInvoice
	if err := json.Unmarshal(respBody, &invoice); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if invoice.IsEmpty() {
		return nil, fmt.Errorf("MLX service returned no invoice data")
	}

	return &invoice, nil
}

// HealthCheck checks if the MLX service is healthy
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("health check failed (status %d): %s", resp.StatusCode, string(body))
	}

	return nil
}
