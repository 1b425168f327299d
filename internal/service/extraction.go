package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/ridwanfathin/invoice-insights-service/internal/domain"
)

var (
	// ErrFileBusy is returned when a file is already being extracted
	ErrFileBusy = errors.New("invoice file is already being processed")

	// ErrAlreadyProcessed is returned when retrying a file that succeeded
	ErrAlreadyProcessed = errors.New("invoice file was already processed")
)

// Extractor turns a prepared document into raw invoice fields
type Extractor interface {
	ExtractInvoiceData(ctx context.Context, doc domain.Document) (*domain.ExtractedInvoice, error)
}

// DocumentPreparer sniffs and converts uploads into extractor input
type DocumentPreparer interface {
	Detect(data []byte) (string, error)
	Prepare(fileName string, data []byte) (domain.Document, error)
}

// Archiver keeps a copy of uploaded documents and returns its public URL
type Archiver interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// ExtractionError represents an error that occurred while extracting one file
type ExtractionError struct {
	// Op is the operation that failed
	Op string

	// FileID identifies the file being extracted
	FileID string

	// Err is the underlying error
	Err error
}

// Error returns a string representation of the error
func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %s: %v", e.Op, e.FileID, e.Err)
	}
	return e.Op + " " + e.FileID
}

// Unwrap returns the underlying error
func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Upload is a document received from a client
type Upload struct {
	FileName string
	Data     []byte
}

// Rejection explains why an upload was not registered
type Rejection struct {
	FileName string `json:"fileName"`
	Reason   string `json:"reason"`
}

// RegisterResult is the outcome of registering a batch of uploads
type RegisterResult struct {
	Files    []*domain.InvoiceFile `json:"files"`
	Rejected []Rejection           `json:"rejected"`
}
