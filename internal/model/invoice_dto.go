package model

import (
	"github.com/ridwanfathin/invoice-insights-service/internal/domain"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Status  string        `json:"status"`
	Message string        `json:"message"`
	Details []ErrorDetail `json:"details,omitempty"`
}

// ErrorDetail represents detailed error information
type ErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// HealthResponse is returned by the health check
type HealthResponse struct {
	Status string `json:"status"`
}

// RejectedUpload explains why an uploaded file was not registered
type RejectedUpload struct {
	FileName string `json:"fileName"`
	Reason   string `json:"reason"`
}

// UploadResponse is returned after registering a batch of uploads
type UploadResponse struct {
	Files    []*domain.InvoiceFile `json:"files"`
	Rejected []RejectedUpload      `json:"rejected"`
}

// InvoiceFileListResponse wraps a list of invoice files
type InvoiceFileListResponse struct {
	Files []*domain.InvoiceFile `json:"files"`
	Count int                   `json:"count"`
}

// NewInvoiceFileListResponse builds a list response
func NewInvoiceFileListResponse(files []*domain.InvoiceFile) InvoiceFileListResponse {
	if files == nil {
		files = []*domain.InvoiceFile{}
	}
	return InvoiceFileListResponse{Files: files, Count: len(files)}
}

// AlertListResponse wraps a list of alerts
type AlertListResponse struct {
	Alerts []domain.Alert `json:"alerts"`
	Count  int            `json:"count"`
}
