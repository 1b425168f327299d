package domain

import "time"

// ProcessingStatus tracks where an uploaded document is in the extraction flow
type ProcessingStatus string

const (
	StatusIdle       ProcessingStatus = "idle"
	StatusProcessing ProcessingStatus = "processing"
	StatusSuccess    ProcessingStatus = "success"
	StatusError      ProcessingStatus = "error"
)

// InvoiceFile is an uploaded document and the outcome of its extraction.
// Each file owns its own slot; concurrent extractions never share one.
type InvoiceFile struct {
	ID          string           `json:"id"`
	FileName    string           `json:"fileName"`
	MediaType   string           `json:"mediaType"`
	Size        int64            `json:"size"`
	Status      ProcessingStatus `json:"status"`
	Record      *InvoiceRecord   `json:"record,omitempty"`
	Error       string           `json:"error,omitempty"`
	ArchiveURL  string           `json:"archiveUrl,omitempty"`
	UploadedAt  time.Time        `json:"uploadedAt"`
	ProcessedAt *time.Time       `json:"processedAt,omitempty"`

	// Content is held in memory until the file is processed successfully
	Content []byte `json:"-"`
}

// Role identifies the author of a chat message
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Message is one entry of the assistant transcript
type Message struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// Document is the payload handed to an extractor
type Document struct {
	FileName  string
	MediaType string
	Data      []byte

	// URL is the archived copy, when the document was archived
	URL string
}
