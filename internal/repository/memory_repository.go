package repository

import (
	"context"
	"sync"

	"github.com/ridwanfathin/invoice-insights-service/internal/domain"
)

// MemoryRepository implements InvoiceRepository in process memory. Everything
// is lost on restart.
type MemoryRepository struct {
	mutex sync.RWMutex
	files map[string]*domain.InvoiceFile
	order []string
}

// NewMemoryRepository creates an empty in-memory repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		files: make(map[string]*domain.InvoiceFile),
	}
}

func checkContext(ctx context.Context, op string) error {
	select {
	case <-ctx.Done():
		return &RepositoryError{Op: op, Err: ctx.Err()}
	default:
		return nil
	}
}

// Add stores a new file
func (r *MemoryRepository) Add(ctx context.Context, file *domain.InvoiceFile) (bool, error) {
	if err := checkContext(ctx, "add_file"); err != nil {
		return false, err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.files[file.ID]; exists {
		return false, nil
	}

	r.files[file.ID] = cloneFile(file)
	r.order = append(r.order, file.ID)
	return true, nil
}

// Get retrieves a file by its id
func (r *MemoryRepository) Get(ctx context.Context, id string) (*domain.InvoiceFile, error) {
	if err := checkContext(ctx, "get_file"); err != nil {
		return nil, err
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	file, ok := r.files[id]
	if !ok {
		return nil, &RepositoryError{Op: "get_file", Err: ErrNotFound}
	}
	return cloneFile(file), nil
}

// List returns every file in upload order
func (r *MemoryRepository) List(ctx context.Context) ([]*domain.InvoiceFile, error) {
	if err := checkContext(ctx, "list_files"); err != nil {
		return nil, err
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	files := make([]*domain.InvoiceFile, 0, len(r.order))
	for _, id := range r.order {
		files = append(files, cloneFile(r.files[id]))
	}
	return files, nil
}

// Update applies fn to a copy of the stored file and stores the result
func (r *MemoryRepository) Update(ctx context.Context, id string, fn func(file *domain.InvoiceFile) error) (*domain.InvoiceFile, error) {
	if err := checkContext(ctx, "update_file"); err != nil {
		return nil, err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	stored, ok := r.files[id]
	if !ok {
		return nil, &RepositoryError{Op: "update_file", Err: ErrNotFound}
	}

	working := cloneFile(stored)
	if err := fn(working); err != nil {
		return nil, err
	}
	// The id is the map key and cannot change
	working.ID = id

	r.files[id] = working
	return cloneFile(working), nil
}

// Delete removes a file
func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	if err := checkContext(ctx, "delete_file"); err != nil {
		return err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.files[id]; !ok {
		return &RepositoryError{Op: "delete_file", Err: ErrNotFound}
	}

	delete(r.files, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Records returns the records of successfully processed files in upload order
func (r *MemoryRepository) Records(ctx context.Context) ([]domain.InvoiceRecord, error) {
	if err := checkContext(ctx, "list_records"); err != nil {
		return nil, err
	}

	r.mutex.RLock()
	defer r.mutex.RUnlock()

	records := make([]domain.InvoiceRecord, 0, len(r.order))
	for _, id := range r.order {
		file := r.files[id]
		if file.Status != domain.StatusSuccess || file.Record == nil {
			continue
		}
		records = append(records, cloneRecord(file.Record))
	}
	return records, nil
}

func cloneFile(file *domain.InvoiceFile) *domain.InvoiceFile {
	clone := *file
	if file.Record != nil {
		record := cloneRecord(file.Record)
		clone.Record = &record
	}
	if file.ProcessedAt != nil {
		processedAt := *file.ProcessedAt
		clone.ProcessedAt = &processedAt
	}
	return &clone
}

func cloneRecord(record *domain.InvoiceRecord) domain.InvoiceRecord {
	clone := *record
	if record.LineItems != nil {
		clone.LineItems = append([]domain.LineItem(nil), record.LineItems...)
	}
	return clone
}
