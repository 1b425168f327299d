package openrouter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ridwanfathin/invoice-insights-service/internal/domain"
	"github.com/ridwanfathin/invoice-insights-service/internal/prompt"
	"go.uber.org/zap"
)

const (
	sseDataPrefix = "data:"
	sseDone       = "[DONE]"
)

type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// StreamChat sends the transcript plus a new prompt and calls onChunk with
// every text fragment as it arrives. Chunks already delivered stay delivered
// when the stream fails midway.
func (c *Client) StreamChat(ctx context.Context, history []domain.Message, userPrompt string, onChunk func(string)) error {
	if err := c.checkAPIKey(); err != nil {
		return err
	}

	messages := make([]message, 0, len(history)+2)
	messages = append(messages, message{Role: "system", Content: prompt.Assistant})
	for _, m := range history {
		messages = append(messages, message{Role: chatRole(m.Role), Content: m.Text})
	}
	messages = append(messages, message{Role: "user", Content: userPrompt})

	req, err := c.newRequest(ctx, "create_chat_request", completionRequest{
		Model:    c.chatModelID,
		Messages: messages,
		Stream:   true,
	})
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &OpenRouterError{
			Op:  "send_chat_request",
			Err: fmt.Errorf("failed to send request: %w", err),
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &OpenRouterError{
			Op:  "check_api_response",
			Err: fmt.Errorf("API error: %s - %s", resp.Status, string(body)),
		}
	}

	return c.readStream(resp.Body, onChunk)
}

// readStream consumes a server-sent events body line by line. Malformed
// events are skipped; [DONE] ends the stream.
func (c *Client) readStream(body io.Reader, onChunk func(string)) error {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		// Blank separators and ": OPENROUTER PROCESSING" keep-alive comments
		if line == "" || strings.HasPrefix(line, ":") {
			continue
		}
		if !strings.HasPrefix(line, sseDataPrefix) {
			continue
		}

		data := strings.TrimSpace(strings.TrimPrefix(line, sseDataPrefix))
		if data == sseDone {
			return nil
		}

		var chunk streamChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			c.logger.Warn("Skipping malformed stream chunk", zap.String("data", data), zap.Error(err))
			continue
		}

		if chunk.Error != nil {
			return &OpenRouterError{
				Op:  "read_chat_stream",
				Err: fmt.Errorf("API error: %s", chunk.Error.Message),
			}
		}

		for _, choice := range chunk.Choices {
			if choice.Delta.Content != "" {
				onChunk(choice.Delta.Content)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return &OpenRouterError{
			Op:  "read_chat_stream",
			Err: fmt.Errorf("stream interrupted: %w", err),
		}
	}

	return nil
}

func chatRole(role domain.Role) string {
	if role == domain.RoleModel {
		return "assistant"
	}
	return "user"
}
