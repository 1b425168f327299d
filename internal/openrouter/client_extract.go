package openrouter

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"

	"github.com/ridwanfathin/invoice-insights-service/internal/domain"
	"github.com/ridwanfathin/invoice-insights-service/internal/prompt"
	"go.uber.org/zap"
)

// ExtractInvoiceData extracts structured data from a prepared invoice document.
// The document travels inline as a base64 data URL.
func (c *Client) ExtractInvoiceData(ctx context.Context, doc domain.Document) (*domain.ExtractedInvoice, error) {
	if err := c.checkAPIKey(); err != nil {
		return nil, err
	}

	if len(doc.Data) == 0 {
		return nil, &OpenRouterError{
			Op:  "validate_document",
			Err: fmt.Errorf("document %q is empty", doc.FileName),
		}
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	dataURL := fmt.Sprintf("data:%s;base64,%s", doc.MediaType, base64.StdEncoding.EncodeToString(doc.Data))

	temperature := 0.0
	payload := completionRequest{
		Model: c.modelID,
		Messages: []message{
			{
				Role:    "system",
				Content: []contentPart{{Type: "text", Text: prompt.Extraction}},
			},
			{
				Role: "user",
				Content: []contentPart{
					{Type: "text", Text: prompt.ExtractionUser},
					{Type: "image_url", ImageURL: &imageURL{URL: dataURL}},
				},
			},
		},
		ResponseFormat: &responseFormat{Type: "json_object"},
		Temperature:    &temperature,
	}

	req, err := c.newRequest(ctx, "create_extract_request", payload)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("Sending extraction request",
		zap.String("file", doc.FileName),
		zap.String("media_type", doc.MediaType),
		zap.Int("bytes", len(doc.Data)),
		zap.String("model", c.modelID),
	)

	// Send the request
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &OpenRouterError{
			Op:  "send_extract_request",
			Err: fmt.Errorf("failed to send request: %w", err),
		}
	}
	defer resp.Body.Close()

	// Read the response body
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &OpenRouterError{
			Op:  "read_response",
			Err: fmt.Errorf("failed to read response body: %w", err),
		}
	}

	// Check for error status code
	if resp.StatusCode != http.StatusOK {
		return nil, &OpenRouterError{
			Op:  "check_api_response",
			Err: fmt.Errorf("API error: %s - %s", resp.Status, string(respBody)),
		}
	}

	return c.parseOpenRouterResponse(respBody)
}
