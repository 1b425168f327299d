package model

import "github.com/ridwanfathin/invoice-insights-service/internal/domain"

// ChatRequest is a message sent to the analysis assistant
type ChatRequest struct {
	Message        string `json:"message" binding:"required"`
	IncludeContext bool   `json:"includeContext"`
}

// ChatChunk is the payload of a "message" stream event
type ChatChunk struct {
	Text string `json:"text"`
}

// ChatDone is the payload of the final "done" stream event
type ChatDone struct {
	Message domain.Message `json:"message"`
}

// ChatFailure is the payload of an "error" stream event
type ChatFailure struct {
	Error   string         `json:"error"`
	Message domain.Message `json:"message"`
}

// ChatTranscriptResponse is the conversation so far
type ChatTranscriptResponse struct {
	Messages []domain.Message `json:"messages"`
	Busy     bool             `json:"busy"`
}
