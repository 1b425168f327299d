package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/ridwanfathin/invoice-insights-service/internal/domain"
)

// ErrNotFound is returned when no file has the requested id
var ErrNotFound = errors.New("invoice file not found")

// RepositoryError represents an error that occurred within a repository
type RepositoryError struct {
	// Op is the operation that failed
	Op string

	// Err is the underlying error
	Err error
}

// Error returns a string representation of the error
func (e *RepositoryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op
}

// Unwrap returns the underlying error
func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// InvoiceRepository defines the interface for invoice file storage operations.
// Implementations hand out copies; callers change stored files through Update.
type InvoiceRepository interface {
	// Add stores a new file. It reports false when a file with the same id
	// already exists, in which case nothing changes.
	Add(ctx context.Context, file *domain.InvoiceFile) (bool, error)

	// Get retrieves a file by its id
	Get(ctx context.Context, id string) (*domain.InvoiceFile, error)

	// List returns every file in upload order
	List(ctx context.Context) ([]*domain.InvoiceFile, error)

	// Update applies fn to the stored file atomically. When fn returns an
	// error the stored file is left as it was.
	Update(ctx context.Context, id string, fn func(file *domain.InvoiceFile) error) (*domain.InvoiceFile, error)

	// Delete removes a file
	Delete(ctx context.Context, id string) error

	// Records returns the extracted records of successfully processed files in
	// upload order
	Records(ctx context.Context) ([]domain.InvoiceRecord, error)
}
