package service

import (
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/ridwanfathin/invoice-insights-service/internal/domain"
	"github.com/ridwanfathin/invoice-insights-service/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// fileNamespace scopes content-derived file ids
var fileNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("invoice-insights-service/files"))

// ExtractionService registers uploaded documents and runs them through the
// extractor. Every file moves idle → processing → success|error on its own;
// a failed extraction never affects the others.
type ExtractionService struct {
	repo       repository.InvoiceRepository
	extractor  Extractor
	preparer   DocumentPreparer
	archiver   Archiver
	maxWorkers int
	logger     *zap.Logger
	now        func() time.Time
}

// ExtractionOption customises an ExtractionService
type ExtractionOption func(*ExtractionService)

// WithArchiver stores every document in object storage before extraction
func WithArchiver(archiver Archiver) ExtractionOption {
	return func(s *ExtractionService) {
		s.archiver = archiver
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) ExtractionOption {
	return func(s *ExtractionService) {
		s.now = now
	}
}

// NewExtractionService creates a new extraction service
func NewExtractionService(repo repository.InvoiceRepository, extractor Extractor, preparer DocumentPreparer, maxWorkers int, logger *zap.Logger, opts ...ExtractionOption) *ExtractionService {
	if maxWorkers <= 0 {
		maxWorkers = 5 // Default to 5 workers
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &ExtractionService{
		repo:       repo,
		extractor:  extractor,
		preparer:   preparer,
		maxWorkers: maxWorkers,
		logger:     logger.Named("extraction"),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FileID derives the stable id of a document from its content, so the same
// document uploaded twice maps to the same file.
func FileID(data []byte) string {
	return uuid.NewSHA1(fileNamespace, data).String()
}

// Register stores uploads as idle files. Uploads that are not images or PDFs
// are rejected; uploads already known are returned as stored.
func (s *ExtractionService) Register(ctx context.Context, uploads []Upload) (*RegisterResult, error) {
	result := &RegisterResult{
		Files:    make([]*domain.InvoiceFile, 0, len(uploads)),
		Rejected: make([]Rejection, 0),
	}

	for _, upload := range uploads {
		if len(upload.Data) == 0 {
			result.Rejected = append(result.Rejected, Rejection{FileName: upload.FileName, Reason: "empty file"})
			continue
		}

		mediaType, err := s.preparer.Detect(upload.Data)
		if err != nil {
			result.Rejected = append(result.Rejected, Rejection{FileName: upload.FileName, Reason: err.Error()})
			continue
		}

		file := &domain.InvoiceFile{
			ID:         FileID(upload.Data),
			FileName:   upload.FileName,
			MediaType:  mediaType,
			Size:       int64(len(upload.Data)),
			Status:     domain.StatusIdle,
			UploadedAt: s.now().UTC(),
			Content:    upload.Data,
		}

		added, err := s.repo.Add(ctx, file)
		if err != nil {
			return nil, err
		}

		if !added {
			s.logger.Debug("Upload already registered", zap.String("file_id", file.ID), zap.String("file", upload.FileName))
			existing, err := s.repo.Get(ctx, file.ID)
			if err != nil {
				return nil, err
			}
			file = existing
		} else {
			s.logger.Info("Registered upload",
				zap.String("file_id", file.ID),
				zap.String("file", upload.FileName),
				zap.String("media_type", mediaType),
				zap.Int64("bytes", file.Size),
			)
		}

		result.Files = append(result.Files, publicCopy(file))
	}

	return result, nil
}

// ProcessPending extracts every idle file concurrently, at most maxWorkers at
// a time, and returns the full file list once all of them settled
func (s *ExtractionService) ProcessPending(ctx context.Context) ([]*domain.InvoiceFile, error) {
	files, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.maxWorkers)

	pending := 0
	for _, file := range files {
		if file.Status != domain.StatusIdle {
			continue
		}
		pending++
		id := file.ID
		g.Go(func() error {
			// Extraction failures are recorded on the file, not returned,
			// so one bad document never cancels its siblings
			_, err := s.process(gctx, id)
			switch {
			case err == nil, isExtractionFailure(err):
				return nil
			case errors.Is(err, ErrFileBusy), errors.Is(err, ErrAlreadyProcessed):
				// Claimed by a concurrent retry
				return nil
			default:
				return err
			}
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Info("Processed pending uploads", zap.Int("count", pending))
	return s.Files(ctx)
}

// ProcessOne extracts a single idle or failed file. The returned error is nil
// when the extraction itself failed; the failure is on the file.
func (s *ExtractionService) ProcessOne(ctx context.Context, id string) (*domain.InvoiceFile, error) {
	file, err := s.process(ctx, id)
	if err != nil && !isExtractionFailure(err) {
		return nil, err
	}
	return file, nil
}

// ProcessUpload registers a single upload and extracts it right away
func (s *ExtractionService) ProcessUpload(ctx context.Context, upload Upload) (*domain.InvoiceFile, error) {
	result, err := s.Register(ctx, []Upload{upload})
	if err != nil {
		return nil, err
	}
	if len(result.Rejected) > 0 {
		return nil, &ExtractionError{Op: "register", Err: errors.New(result.Rejected[0].Reason)}
	}

	file := result.Files[0]
	if file.Status == domain.StatusSuccess {
		return file, nil
	}
	return s.ProcessOne(ctx, file.ID)
}

// Files returns every registered file
func (s *ExtractionService) Files(ctx context.Context) ([]*domain.InvoiceFile, error) {
	files, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range files {
		files[i] = publicCopy(files[i])
	}
	return files, nil
}

// File returns one registered file
func (s *ExtractionService) File(ctx context.Context, id string) (*domain.InvoiceFile, error) {
	file, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return publicCopy(file), nil
}

// Remove deletes a file unless it is being processed
func (s *ExtractionService) Remove(ctx context.Context, id string) error {
	file, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if file.Status == domain.StatusProcessing {
		return ErrFileBusy
	}
	return s.repo.Delete(ctx, id)
}

// process claims the file, extracts it and records the outcome
func (s *ExtractionService) process(ctx context.Context, id string) (*domain.InvoiceFile, error) {
	claimed, err := s.repo.Update(ctx, id, func(f *domain.InvoiceFile) error {
		switch f.Status {
		case domain.StatusProcessing:
			return ErrFileBusy
		case domain.StatusSuccess:
			return ErrAlreadyProcessed
		}
		f.Status = domain.StatusProcessing
		f.Error = ""
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger := s.logger.With(zap.String("file_id", id), zap.String("file", claimed.FileName))
	start := s.now()

	record, archiveURL, extractErr := s.extract(ctx, claimed)

	// Record the outcome even when the request that triggered it went away
	updated, err := s.repo.Update(context.WithoutCancel(ctx), id, func(f *domain.InvoiceFile) error {
		processedAt := s.now().UTC()
		f.ProcessedAt = &processedAt
		if archiveURL != "" {
			f.ArchiveURL = archiveURL
		}
		if extractErr != nil {
			f.Status = domain.StatusError
			f.Error = extractErr.Error()
			return nil
		}
		f.Status = domain.StatusSuccess
		f.Record = record
		f.Content = nil
		return nil
	})
	if err != nil {
		return nil, err
	}

	if extractErr != nil {
		logger.Warn("Invoice extraction failed", zap.Error(extractErr))
		return publicCopy(updated), extractErr
	}

	logger.Info("Invoice extracted",
		zap.String("provider", record.Provider),
		zap.String("invoice_number", record.InvoiceNumber),
		zap.Duration("took", s.now().Sub(start)),
	)
	return publicCopy(updated), nil
}

// extract prepares, optionally archives and extracts one document
func (s *ExtractionService) extract(ctx context.Context, file *domain.InvoiceFile) (*domain.InvoiceRecord, string, error) {
	if len(file.Content) == 0 {
		return nil, "", &ExtractionError{Op: "load_content", FileID: file.ID, Err: errors.New("document content is no longer available")}
	}

	doc, err := s.preparer.Prepare(file.FileName, file.Content)
	if err != nil {
		return nil, "", &ExtractionError{Op: "prepare_document", FileID: file.ID, Err: err}
	}

	var archiveURL string
	if s.archiver != nil {
		key := path.Join(file.ID, path.Base(file.FileName))
		archiveURL, err = s.archiver.Upload(ctx, key, file.Content, file.MediaType)
		if err != nil {
			// Extractors that read inline data can carry on without the archive
			s.logger.Warn("Failed to archive document", zap.String("file_id", file.ID), zap.Error(err))
			archiveURL = ""
		}
		doc.URL = archiveURL
	}

	raw, err := s.extractor.ExtractInvoiceData(ctx, doc)
	if err != nil {
		return nil, archiveURL, &ExtractionError{Op: "extract_invoice", FileID: file.ID, Err: err}
	}

	record := domain.NormalizeExtraction(*raw, file.ID)
	return &record, archiveURL, nil
}

func isExtractionFailure(err error) bool {
	var extractionErr *ExtractionError
	return errors.As(err, &extractionErr)
}

// publicCopy drops the in-memory document bytes from a file handed out of the
// service
func publicCopy(file *domain.InvoiceFile) *domain.InvoiceFile {
	clone := *file
	clone.Content = nil
	return &clone
}

// String implements fmt.Stringer for log fields
func (r Rejection) String() string {
	return fmt.Sprintf("%s: %s", r.FileName, r.Reason)
}
