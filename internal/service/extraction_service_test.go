package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ridwanfathin/invoice-insights-service/internal/domain"
	"github.com/ridwanfathin/invoice-insights-service/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newExtractionService(extractor *fakeExtractor, opts ...ExtractionOption) (*ExtractionService, *repository.MemoryRepository) {
	repo := repository.NewMemoryRepository()
	opts = append([]ExtractionOption{WithClock(fixedClock)}, opts...)
	return NewExtractionService(repo, extractor, fakePreparer{}, 2, nil, opts...), repo
}

func TestRegister(t *testing.T) {
	svc, _ := newExtractionService(newFakeExtractor())
	ctx := context.Background()

	result, err := svc.Register(ctx, []Upload{
		{FileName: "a.pdf", Data: []byte("invoice-a")},
		{FileName: "notes.txt", Data: []byte("text: hello")},
		{FileName: "empty.pdf"},
		{FileName: "a-copy.pdf", Data: []byte("invoice-a")},
	})
	require.NoError(t, err)

	require.Len(t, result.Files, 2)
	assert.Equal(t, result.Files[0].ID, result.Files[1].ID, "same content maps to the same file")
	assert.Equal(t, "a.pdf", result.Files[1].FileName, "the first upload wins")
	assert.Equal(t, domain.StatusIdle, result.Files[0].Status)
	assert.Equal(t, testNow, result.Files[0].UploadedAt)
	assert.Nil(t, result.Files[0].Content)

	require.Len(t, result.Rejected, 2)
	assert.Equal(t, "notes.txt", result.Rejected[0].FileName)
	assert.Equal(t, "empty.pdf", result.Rejected[1].FileName)

	files, err := svc.Files(ctx)
	require.NoError(t, err)
	assert.Len(t, files, 1)
}

func TestFileID_IsContentBased(t *testing.T) {
	assert.Equal(t, FileID([]byte("x")), FileID([]byte("x")))
	assert.NotEqual(t, FileID([]byte("x")), FileID([]byte("y")))
}

func TestProcessPending_IsolatesFailures(t *testing.T) {
	extractor := newFakeExtractor()
	extractor.results["ok-1"] = &domain.ExtractedInvoice{
		Provider:      "  MSC ",
		InvoiceNumber: "MSC-1",
		IssueDate:     "2024-03-05",
		Total:         domain.RawFloat(100),
	}
	svc, _ := newExtractionService(extractor)
	ctx := context.Background()

	_, err := svc.Register(ctx, []Upload{
		{FileName: "ok-1.pdf", Data: []byte("ok-1")},
		{FileName: "broken.pdf", Data: []byte("fail:model unavailable")},
		{FileName: "ok-2.pdf", Data: []byte("ok-2")},
	})
	require.NoError(t, err)

	files, err := svc.ProcessPending(ctx)
	require.NoError(t, err)
	require.Len(t, files, 3)

	assert.Equal(t, domain.StatusSuccess, files[0].Status)
	require.NotNil(t, files[0].Record)
	assert.Equal(t, "MSC", files[0].Record.Provider)
	assert.Equal(t, files[0].ID, files[0].Record.ID)
	assert.Equal(t, "2024-03-05", files[0].Record.IssueDate.String())
	require.NotNil(t, files[0].ProcessedAt)

	assert.Equal(t, domain.StatusError, files[1].Status)
	assert.Contains(t, files[1].Error, "model unavailable")
	assert.Nil(t, files[1].Record)

	assert.Equal(t, domain.StatusSuccess, files[2].Status)
	assert.Equal(t, 3, extractor.calls)
}

func TestProcessPending_BoundsConcurrency(t *testing.T) {
	extractor := newFakeExtractor()
	extractor.delay = 20 * time.Millisecond
	svc, _ := newExtractionService(extractor)
	ctx := context.Background()

	uploads := make([]Upload, 6)
	for i := range uploads {
		uploads[i] = Upload{FileName: fmt.Sprintf("%d.pdf", i), Data: []byte(fmt.Sprintf("doc-%d", i))}
	}
	_, err := svc.Register(ctx, uploads)
	require.NoError(t, err)

	_, err = svc.ProcessPending(ctx)
	require.NoError(t, err)

	assert.Equal(t, 6, extractor.calls)
	assert.LessOrEqual(t, extractor.peak, 2)
}

func TestProcessPending_SkipsSettledFiles(t *testing.T) {
	extractor := newFakeExtractor()
	svc, _ := newExtractionService(extractor)
	ctx := context.Background()

	_, err := svc.Register(ctx, []Upload{{FileName: "a.pdf", Data: []byte("a")}})
	require.NoError(t, err)
	_, err = svc.ProcessPending(ctx)
	require.NoError(t, err)
	_, err = svc.ProcessPending(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, extractor.calls)
}

func TestProcessOne_Retry(t *testing.T) {
	extractor := newFakeExtractor()
	svc, repo := newExtractionService(extractor)
	ctx := context.Background()

	result, err := svc.Register(ctx, []Upload{{FileName: "a.pdf", Data: []byte("fail:timeout")}})
	require.NoError(t, err)
	id := result.Files[0].ID

	file, err := svc.ProcessOne(ctx, id)
	require.NoError(t, err, "extraction failures are reported on the file")
	assert.Equal(t, domain.StatusError, file.Status)

	_, err = repo.Update(ctx, id, func(f *domain.InvoiceFile) error {
		f.Content = []byte("recovered")
		return nil
	})
	require.NoError(t, err)

	file, err = svc.ProcessOne(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSuccess, file.Status)
	assert.Empty(t, file.Error)

	_, err = svc.ProcessOne(ctx, id)
	assert.ErrorIs(t, err, ErrAlreadyProcessed)

	_, err = svc.ProcessOne(ctx, "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestProcessOne_Busy(t *testing.T) {
	svc, repo := newExtractionService(newFakeExtractor())
	ctx := context.Background()

	result, err := svc.Register(ctx, []Upload{{FileName: "a.pdf", Data: []byte("a")}})
	require.NoError(t, err)
	id := result.Files[0].ID

	_, err = repo.Update(ctx, id, func(f *domain.InvoiceFile) error {
		f.Status = domain.StatusProcessing
		return nil
	})
	require.NoError(t, err)

	_, err = svc.ProcessOne(ctx, id)
	assert.ErrorIs(t, err, ErrFileBusy)
	assert.ErrorIs(t, svc.Remove(ctx, id), ErrFileBusy)
}

func TestProcessUpload(t *testing.T) {
	svc, _ := newExtractionService(newFakeExtractor())
	ctx := context.Background()

	file, err := svc.ProcessUpload(ctx, Upload{FileName: "a.pdf", Data: []byte("INV-9")})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSuccess, file.Status)
	assert.Equal(t, "INV-9", file.Record.InvoiceNumber)

	again, err := svc.ProcessUpload(ctx, Upload{FileName: "b.pdf", Data: []byte("INV-9")})
	require.NoError(t, err)
	assert.Equal(t, file.ID, again.ID)

	_, err = svc.ProcessUpload(ctx, Upload{FileName: "n.txt", Data: []byte("text: nope")})
	var extractionErr *ExtractionError
	assert.True(t, errors.As(err, &extractionErr))
}

func TestProcess_Archives(t *testing.T) {
	extractor := newFakeExtractor()
	archiver := &fakeArchiver{}
	svc, _ := newExtractionService(extractor, WithArchiver(archiver))

	file, err := svc.ProcessUpload(context.Background(), Upload{FileName: "dir/a.pdf", Data: []byte("a")})
	require.NoError(t, err)

	require.Len(t, archiver.keys, 1)
	assert.Equal(t, file.ID+"/a.pdf", archiver.keys[0])
	assert.Equal(t, "https://archive.test/"+archiver.keys[0], file.ArchiveURL)
	assert.Equal(t, []string{file.ArchiveURL}, extractor.urls)
}

func TestProcess_ArchiveFailureStillExtracts(t *testing.T) {
	extractor := newFakeExtractor()
	svc, _ := newExtractionService(extractor, WithArchiver(&fakeArchiver{err: errors.New("bucket missing")}))

	file, err := svc.ProcessUpload(context.Background(), Upload{FileName: "a.pdf", Data: []byte("a")})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSuccess, file.Status)
	assert.Empty(t, file.ArchiveURL)
}

func TestRemove(t *testing.T) {
	svc, _ := newExtractionService(newFakeExtractor())
	ctx := context.Background()

	result, err := svc.Register(ctx, []Upload{{FileName: "a.pdf", Data: []byte("a")}})
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, result.Files[0].ID))
	_, err = svc.File(ctx, result.Files[0].ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
