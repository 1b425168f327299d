// Package gigachat answers assistant questions through Sber GigaChat
package gigachat

import (
	"context"
	"fmt"
	"strings"

	"github.com/Role1776/gigago"
	"github.com/ridwanfathin/invoice-insights-service/internal/domain"
	"github.com/ridwanfathin/invoice-insights-service/internal/prompt"
	"go.uber.org/zap"
)

// Config holds configuration for the GigaChat assistant
type Config struct {
	APIKey             string
	Scope              string
	InsecureSkipVerify bool
}

type generateFunc func(ctx context.Context, messages []gigago.Message) (string, error)

// Assistant is a non-streaming assistant: the whole answer is delivered as a
// single chunk once GigaChat responds.
type Assistant struct {
	generate generateFunc
	logger   *zap.Logger
}

// New creates a GigaChat assistant
func New(ctx context.Context, cfg *Config, logger *zap.Logger) (*Assistant, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GigaChat API key is not configured")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := []gigago.Option{
		gigago.WithCustomScope(cfg.Scope),
	}

	if cfg.InsecureSkipVerify {
		opts = append(opts, gigago.WithCustomInsecureSkipVerify(true))
		logger.Warn("GigaChat TLS certificate verification is disabled")
	}

	client, err := gigago.NewClient(ctx, cfg.APIKey, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GigaChat client: %w", err)
	}

	model := client.GenerativeModel("GigaChat")
	model.SystemInstruction = prompt.Assistant
	model.Temperature = 0.3

	generate := func(ctx context.Context, messages []gigago.Message) (string, error) {
		resp, err := model.Generate(ctx, messages)
		if err != nil {
			return "", err
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("no response from GigaChat")
		}
		return resp.Choices[0].Message.Content, nil
	}

	return &Assistant{generate: generate, logger: logger.Named("gigachat")}, nil
}

// StreamChat sends the transcript and the new prompt as one user turn and
// delivers the answer in one chunk
func (a *Assistant) StreamChat(ctx context.Context, history []domain.Message, userPrompt string, onChunk func(string)) error {
	messages := []gigago.Message{
		{Role: gigago.RoleUser, Content: transcript(history, userPrompt)},
	}

	content, err := a.generate(ctx, messages)
	if err != nil {
		return fmt.Errorf("failed to generate response: %w", err)
	}

	content = strings.TrimSpace(content)
	a.logger.Debug("GigaChat answered", zap.Int("length", len(content)))
	if content != "" {
		onChunk(content)
	}
	return nil
}

// transcript flattens earlier turns into the prompt so the model keeps the
// thread of the conversation
func transcript(history []domain.Message, userPrompt string) string {
	if len(history) == 0 {
		return userPrompt
	}

	var b strings.Builder
	b.WriteString("Conversación previa:\n")
	for _, m := range history {
		speaker := "Usuario"
		if m.Role == domain.RoleModel {
			speaker = "Asistente"
		}
		fmt.Fprintf(&b, "%s: %s\n", speaker, m.Text)
	}
	b.WriteString("\n")
	b.WriteString(userPrompt)
	return b.String()
}
