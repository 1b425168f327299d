// Package fixtures ships a demo set of already processed shipping invoices.
// It exercises every alert kind and is used to seed the store and in tests.
package fixtures

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ridwanfathin/invoice-insights-service/internal/domain"
)

//go:embed demo_invoices.json
var demoInvoicesJSON []byte

type demoEntry struct {
	ID       string               `json:"id"`
	FileName string               `json:"fileName"`
	Record   domain.InvoiceRecord `json:"record"`
}

func load() ([]demoEntry, error) {
	var entries []demoEntry
	if err := json.Unmarshal(demoInvoicesJSON, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode demo invoices: %w", err)
	}
	for i := range entries {
		entries[i].Record.ID = entries[i].ID
	}
	return entries, nil
}

// DemoRecords returns the demo invoice records in file order
func DemoRecords() ([]domain.InvoiceRecord, error) {
	entries, err := load()
	if err != nil {
		return nil, err
	}
	records := make([]domain.InvoiceRecord, 0, len(entries))
	for _, entry := range entries {
		records = append(records, entry.Record)
	}
	return records, nil
}

// DemoFiles returns the demo records wrapped as successfully processed files
func DemoFiles(now time.Time) ([]*domain.InvoiceFile, error) {
	entries, err := load()
	if err != nil {
		return nil, err
	}
	files := make([]*domain.InvoiceFile, 0, len(entries))
	for _, entry := range entries {
		record := entry.Record
		processedAt := now
		files = append(files, &domain.InvoiceFile{
			ID:          entry.ID,
			FileName:    entry.FileName,
			MediaType:   "application/pdf",
			Status:      domain.StatusSuccess,
			Record:      &record,
			UploadedAt:  now,
			ProcessedAt: &processedAt,
		})
	}
	return files, nil
}

// MustDemoRecords is DemoRecords for tests and static setup
func MustDemoRecords() []domain.InvoiceRecord {
	records, err := DemoRecords()
	if err != nil {
		panic(err)
	}
	return records
}
