package openrouter

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/ridwanfathin/invoice-insights-service/internal/domain"
	"go.uber.org/zap"
)

var (
	fenceOpenRegex  = regexp.MustCompile("```(?:json)?\\s*")
	fenceCloseRegex = regexp.MustCompile("```\\s*")
	jsonObjectRegex = regexp.MustCompile(`\{[\s\S]*\}`)
)

type completionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// parseOpenRouterResponse parses the JSON response from the OpenRouter API
func (c *Client) parseOpenRouterResponse(respBody []byte) (*domain.ExtractedInvoice, error) {
	var response completionResponse
	if err := json.Unmarshal(respBody, &response); err != nil {
		return nil, &OpenRouterError{
			Op:  "parse_response_json",
			Err: fmt.Errorf("failed to unmarshal response: %w", err),
		}
	}

	if response.Error != nil {
		return nil, &OpenRouterError{
			Op:  "check_api_response",
			Err: fmt.Errorf("API error: %s", response.Error.Message),
		}
	}

	// Check if we have any choices in the response
	if len(response.Choices) == 0 {
		return nil, &OpenRouterError{
			Op:  "check_response_choices",
			Err: fmt.Errorf("no choices in response"),
		}
	}

	content := response.Choices[0].Message.Content

	// First, try to parse the entire content as JSON
	var invoice domain.ExtractedInvoice
	err := json.Unmarshal([]byte(content), &invoice)
	if err == nil {
		return checkExtracted(&invoice)
	}

	c.logger.Debug("Model content is not plain JSON, trying fenced extraction", zap.Error(err))
	return extractJSONWithRegex(content)
}

// extractJSONWithRegex strips markdown fences and parses the outermost JSON
// object found in the model output
func extractJSONWithRegex(content string) (*domain.ExtractedInvoice, error) {
	content = fenceOpenRegex.ReplaceAllString(content, "")
	content = fenceCloseRegex.ReplaceAllString(content, "")

	jsonMatch := jsonObjectRegex.FindString(strings.TrimSpace(content))
	if jsonMatch == "" {
		return nil, &OpenRouterError{
			Op:  "extract_json_with_regex",
			Err: fmt.Errorf("no JSON object in model response"),
		}
	}

	var invoice domain.ExtractedInvoice
	if err := json.Unmarshal([]byte(jsonMatch), &invoice); err != nil {
		return nil, &OpenRouterError{
			Op:  "extract_json_with_regex",
			Err: fmt.Errorf("failed to parse extracted JSON: %w", err),
		}
	}

	return checkExtracted(&invoice)
}

func checkExtracted(invoice *domain.ExtractedInvoice) (*domain.ExtractedInvoice, error) {
	if invoice.IsEmpty() {
		return nil, &OpenRouterError{
			Op:  "check_extracted_data",
			Err: fmt.Errorf("failed to extract invoice data from model response"),
		}
	}
	return invoice, nil
}
