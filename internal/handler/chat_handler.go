package handler

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/ridwanfathin/invoice-insights-service/internal/domain"
	"github.com/ridwanfathin/invoice-insights-service/internal/model"
	"github.com/ridwanfathin/invoice-insights-service/internal/service"
	"go.uber.org/zap"
)

// ChatService is the analysis conversation
type ChatService interface {
	Send(ctx context.Context, text string, includeContext bool, onChunk func(string)) (domain.Message, error)
	Messages() []domain.Message
	Busy() bool
	Reset() error
}

// ChatHandler streams assistant replies as server-sent events
type ChatHandler struct {
	chat   ChatService
	logger *zap.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(chat ChatService, logger *zap.Logger) *ChatHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatHandler{chat: chat, logger: logger}
}

// RegisterRoutes registers the handler's routes with the given router
func (h *ChatHandler) RegisterRoutes(router gin.IRouter) {
	router.POST("/chat", h.SendMessage)
	router.GET("/chat/messages", h.GetMessages)
	router.DELETE("/chat/messages", h.ResetMessages)
}

// SendMessage handles the POST /v1/chat endpoint
// @Summary Ask the assistant
// @Description Streams the reply as server-sent events: "message" events carry text chunks, then a single "done" or "error" event carries the final model message. With includeContext the extracted invoices are sent along with the question.
// @Tags chat
// @Accept json
// @Produce text/event-stream
// @Param request body model.ChatRequest true "Message"
// @Success 200 {object} model.ChatChunk "Event stream"
// @Failure 400 {object} model.ErrorResponse "Empty message"
// @Failure 409 {object} model.ErrorResponse "Another message is being answered"
// @Router /v1/chat [post]
func (h *ChatHandler) SendMessage(c *gin.Context) {
	var request model.ChatRequest
	if err := bindJSON(c, &request); err != nil {
		respondBadRequest(c, err.Error(), newErrorDetail("message", "Message is required"))
		return
	}

	streaming := false
	startStream := func() {
		if streaming {
			return
		}
		streaming = true
		// Content-Type is set by c.SSEvent
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")
		c.Header("X-Accel-Buffering", "no")
		c.Status(StatusOK)
	}

	reply, err := h.chat.Send(c.Request.Context(), request.Message, request.IncludeContext, func(chunk string) {
		startStream()
		c.SSEvent("message", model.ChatChunk{Text: chunk})
		c.Writer.Flush()
	})

	// Nothing was answered, a plain error response is still possible
	if !streaming && (errors.Is(err, service.ErrChatBusy) || errors.Is(err, service.ErrEmptyMessage)) {
		respondServiceError(h.logger, c, "failed_to_send_message", err)
		return
	}

	startStream()
	if err != nil {
		h.logger.Warn("Chat reply failed", zap.Error(err))
		c.SSEvent("error", model.ChatFailure{Error: err.Error(), Message: reply})
	} else {
		c.SSEvent("done", model.ChatDone{Message: reply})
	}
	c.Writer.Flush()
}

// GetMessages handles the GET /v1/chat/messages endpoint
// @Summary Get the transcript
// @Tags chat
// @Produce json
// @Success 200 {object} model.ChatTranscriptResponse "Transcript"
// @Router /v1/chat/messages [get]
func (h *ChatHandler) GetMessages(c *gin.Context) {
	respondOK(c, model.ChatTranscriptResponse{
		Messages: h.chat.Messages(),
		Busy:     h.chat.Busy(),
	})
}

// ResetMessages handles the DELETE /v1/chat/messages endpoint
// @Summary Reset the transcript
// @Description Start over with only the greeting
// @Tags chat
// @Success 204 "Reset"
// @Failure 409 {object} model.ErrorResponse "Another message is being answered"
// @Router /v1/chat/messages [delete]
func (h *ChatHandler) ResetMessages(c *gin.Context) {
	if err := h.chat.Reset(); err != nil {
		respondServiceError(h.logger, c, "failed_to_reset_chat", err)
		return
	}
	respondNoContent(c)
}

