package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ridwanfathin/invoice-insights-service/internal/domain"
	"github.com/ridwanfathin/invoice-insights-service/internal/fixtures"
	"github.com/ridwanfathin/invoice-insights-service/internal/repository"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

// fakePreparer accepts everything except content starting with "text:"
type fakePreparer struct{}

func (fakePreparer) Detect(data []byte) (string, error) {
	if strings.HasPrefix(string(data), "text:") {
		return "", errors.New("unsupported media type text/plain")
	}
	return "application/pdf", nil
}

func (fakePreparer) Prepare(fileName string, data []byte) (domain.Document, error) {
	return domain.Document{FileName: fileName, MediaType: "image/jpeg", Data: data}, nil
}

// fakeExtractor answers by document content. Content starting with "fail:"
// returns an error.
type fakeExtractor struct {
	mu       sync.Mutex
	results  map[string]*domain.ExtractedInvoice
	calls    int
	inFlight int
	peak     int
	delay    time.Duration
	urls     []string
}

func newFakeExtractor() *fakeExtractor {
	return &fakeExtractor{results: make(map[string]*domain.ExtractedInvoice)}
}

func (f *fakeExtractor) ExtractInvoiceData(ctx context.Context, doc domain.Document) (*domain.ExtractedInvoice, error) {
	f.mu.Lock()
	f.calls++
	f.inFlight++
	if f.inFlight > f.peak {
		f.peak = f.inFlight
	}
	f.urls = append(f.urls, doc.URL)
	result := f.results[string(doc.Data)]
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	content := string(doc.Data)
	if strings.HasPrefix(content, "fail:") {
		return nil, errors.New(strings.TrimPrefix(content, "fail:"))
	}
	if result == nil {
		return &domain.ExtractedInvoice{Provider: "Maersk", InvoiceNumber: content}, nil
	}
	return result, nil
}

type fakeArchiver struct {
	err  error
	keys []string
}

func (a *fakeArchiver) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	if a.err != nil {
		return "", a.err
	}
	a.keys = append(a.keys, key)
	return "https://archive.test/" + key, nil
}

// fakeAssistant streams its chunks then returns err
type fakeAssistant struct {
	chunks  []string
	err     error
	history []domain.Message
	prompt  string
	block   chan struct{}
}

func (a *fakeAssistant) StreamChat(ctx context.Context, history []domain.Message, userPrompt string, onChunk func(string)) error {
	a.history = history
	a.prompt = userPrompt
	if a.block != nil {
		<-a.block
	}
	for _, chunk := range a.chunks {
		onChunk(chunk)
	}
	return a.err
}

func seededRepository(t *testing.T) *repository.MemoryRepository {
	t.Helper()
	repo := repository.NewMemoryRepository()
	files, err := fixtures.DemoFiles(testNow)
	require.NoError(t, err)
	for _, file := range files {
		added, err := repo.Add(context.Background(), file)
		require.NoError(t, err)
		require.True(t, added)
	}
	return repo
}
