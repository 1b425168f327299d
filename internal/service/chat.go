package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/ridwanfathin/invoice-insights-service/internal/domain"
	"github.com/ridwanfathin/invoice-insights-service/internal/prompt"
	"github.com/ridwanfathin/invoice-insights-service/internal/repository"
	"go.uber.org/zap"
)

// Greeting opens every transcript
const Greeting = "Hola. Soy el asistente de análisis. Puede preguntarme sobre esta propuesta o sobre los datos de las facturas que ha procesado."

// FallbackReply prefixes the error shown when the assistant produced nothing
const FallbackReply = "Lo siento, no he podido procesar tu solicitud."

var (
	// ErrChatBusy is returned while another message is being answered
	ErrChatBusy = errors.New("chat is busy answering another message")

	// ErrEmptyMessage is returned for blank user messages
	ErrEmptyMessage = errors.New("message is empty")
)

// Assistant streams an answer to a prompt given the prior conversation
type Assistant interface {
	StreamChat(ctx context.Context, history []domain.Message, userPrompt string, onChunk func(string)) error
}

// ChatService owns the single analysis conversation. One message is answered
// at a time; the model reply grows in the transcript as chunks arrive.
type ChatService struct {
	assistant Assistant
	repo      repository.InvoiceRepository
	logger    *zap.Logger

	mu       sync.Mutex
	busy     bool
	messages []domain.Message
}

// NewChatService creates a chat service with a transcript holding the greeting
func NewChatService(assistant Assistant, repo repository.InvoiceRepository, logger *zap.Logger) *ChatService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatService{
		assistant: assistant,
		repo:      repo,
		logger:    logger.Named("chat"),
		messages:  []domain.Message{{Role: domain.RoleModel, Text: Greeting}},
	}
}

// Messages returns a copy of the transcript
func (s *ChatService) Messages() []domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Message(nil), s.messages...)
}

// Busy reports whether a message is being answered
func (s *ChatService) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Send appends the user message and streams the model reply, calling onChunk
// for every fragment. When includeContext is set the extracted records are
// sent along with the question. On failure the partial reply is kept, or a
// fallback text replaces an empty one, and the error is returned. The final
// model message is returned in both cases.
func (s *ChatService) Send(ctx context.Context, text string, includeContext bool, onChunk func(string)) (domain.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Message{}, ErrEmptyMessage
	}

	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return domain.Message{}, ErrChatBusy
	}
	s.busy = true
	// The greeting is presentation only and never reaches the model
	history := append([]domain.Message(nil), s.messages[1:]...)
	s.messages = append(s.messages,
		domain.Message{Role: domain.RoleUser, Text: text},
		domain.Message{Role: domain.RoleModel},
	)
	reply := len(s.messages) - 1
	s.mu.Unlock()

	userPrompt, err := s.buildPrompt(ctx, text, includeContext)
	if err == nil {
		err = s.assistant.StreamChat(ctx, history, userPrompt, func(chunk string) {
			if chunk == "" {
				return
			}
			s.mu.Lock()
			s.messages[reply].Text += chunk
			s.mu.Unlock()
			if onChunk != nil {
				onChunk(chunk)
			}
		})
	}
	if err != nil {
		s.logger.Warn("Chat request failed", zap.Error(err))
	}

	// The reply is read before busy clears so a later Send cannot shift it
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil && s.messages[reply].Text == "" {
		s.messages[reply].Text = FallbackReply + " " + err.Error()
	}
	s.busy = false
	return s.messages[reply], err
}

// Reset clears the transcript back to the greeting
func (s *ChatService) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return ErrChatBusy
	}
	s.messages = []domain.Message{{Role: domain.RoleModel, Text: Greeting}}
	return nil
}

func (s *ChatService) buildPrompt(ctx context.Context, text string, includeContext bool) (string, error) {
	if !includeContext {
		return text, nil
	}

	records, err := s.repo.Records(ctx)
	if err != nil {
		return "", err
	}
	return prompt.WithInvoiceContext(text, records, len(records))
}
