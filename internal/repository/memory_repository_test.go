package repository

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/ridwanfathin/invoice-insights-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFile(id string, status domain.ProcessingStatus, provider string) *domain.InvoiceFile {
	file := &domain.InvoiceFile{ID: id, FileName: id + ".pdf", Status: status}
	if provider != "" {
		file.Record = &domain.InvoiceRecord{ID: id, Provider: provider, LineItems: []domain.LineItem{{Description: "Flete"}}}
	}
	return file
}

func TestMemoryRepository_AddAndList(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	added, err := repo.Add(ctx, newFile("b", domain.StatusIdle, ""))
	require.NoError(t, err)
	assert.True(t, added)

	_, err = repo.Add(ctx, newFile("a", domain.StatusIdle, ""))
	require.NoError(t, err)

	added, err = repo.Add(ctx, newFile("b", domain.StatusError, ""))
	require.NoError(t, err)
	assert.False(t, added, "same id is ignored")

	files, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "b", files[0].ID)
	assert.Equal(t, domain.StatusIdle, files[0].Status)
	assert.Equal(t, "a", files[1].ID)
}

func TestMemoryRepository_GetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	_, _ = repo.Add(ctx, newFile("a", domain.StatusSuccess, "MSC"))

	got, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	got.Record.Provider = "changed"
	got.Record.LineItems[0].Description = "changed"

	again, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "MSC", again.Record.Provider)
	assert.Equal(t, "Flete", again.Record.LineItems[0].Description)
}

func TestMemoryRepository_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()

	_, err := repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = repo.Update(ctx, "missing", func(*domain.InvoiceFile) error { return nil })
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, "missing"), ErrNotFound)
}

func TestMemoryRepository_Update(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	_, _ = repo.Add(ctx, newFile("a", domain.StatusIdle, ""))

	updated, err := repo.Update(ctx, "a", func(f *domain.InvoiceFile) error {
		f.Status = domain.StatusProcessing
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusProcessing, updated.Status)

	boom := errors.New("boom")
	_, err = repo.Update(ctx, "a", func(f *domain.InvoiceFile) error {
		f.Status = domain.StatusError
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, _ := repo.Get(ctx, "a")
	assert.Equal(t, domain.StatusProcessing, got.Status, "failed update leaves the file untouched")
}

func TestMemoryRepository_DeleteAndRecords(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	_, _ = repo.Add(ctx, newFile("a", domain.StatusSuccess, "Maersk"))
	_, _ = repo.Add(ctx, newFile("b", domain.StatusError, ""))
	_, _ = repo.Add(ctx, newFile("c", domain.StatusSuccess, "MSC"))
	_, _ = repo.Add(ctx, newFile("d", domain.StatusSuccess, "COSCO"))

	require.NoError(t, repo.Delete(ctx, "c"))

	records, err := repo.Records(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Maersk", records[0].Provider)
	assert.Equal(t, "COSCO", records[1].Provider)
}

func TestMemoryRepository_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewMemoryRepository().List(ctx)

	var repoErr *RepositoryError
	require.ErrorAs(t, err, &repoErr)
	assert.Equal(t, "list_files", repoErr.Op)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryRepository_ConcurrentUpdates(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	for i := 0; i < 20; i++ {
		_, _ = repo.Add(ctx, newFile(fmt.Sprintf("f%d", i), domain.StatusIdle, ""))
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			_, err := repo.Update(ctx, id, func(f *domain.InvoiceFile) error {
				f.Status = domain.StatusSuccess
				f.Record = &domain.InvoiceRecord{ID: id, Provider: id}
				return nil
			})
			assert.NoError(t, err)
		}(fmt.Sprintf("f%d", i))
	}
	wg.Wait()

	records, err := repo.Records(ctx)
	require.NoError(t, err)
	require.Len(t, records, 20)
	for i, record := range records {
		assert.Equal(t, fmt.Sprintf("f%d", i), record.ID, "each file keeps its own slot")
	}
}
