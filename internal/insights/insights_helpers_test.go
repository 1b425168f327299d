package insights

import (
	"time"

	"github.com/ridwanfathin/invoice-insights-service/internal/domain"
	"github.com/shopspring/decimal"
)

var testValidated = domain.NewValidatedProviderSet(domain.DefaultValidatedProviders...)

func testOptions(now time.Time) Options {
	return Options{Validated: testValidated, Now: now}
}

func date(year int, month time.Month, day int) domain.DateOnly {
	return domain.NewDate(year, month, day)
}

func invoice(id, provider, number string, issued domain.DateOnly, total string, items ...domain.LineItem) domain.InvoiceRecord {
	return domain.InvoiceRecord{
		ID:            id,
		Provider:      provider,
		InvoiceNumber: number,
		IssueDate:     issued,
		Total:         domain.Known(decimal.RequireFromString(total)),
		LineItems:     items,
	}
}

func item(description, total string) domain.LineItem {
	return domain.LineItem{
		Description: description,
		Quantity:    domain.Known(decimal.NewFromInt(1)),
		UnitPrice:   domain.Known(decimal.RequireFromString(total)),
		TotalPrice:  domain.Known(decimal.RequireFromString(total)),
	}
}

func refs(records []domain.InvoiceRecord) []*domain.InvoiceRecord {
	out := make([]*domain.InvoiceRecord, len(records))
	for i := range records {
		out[i] = &records[i]
	}
	return out
}

func detect(records []domain.InvoiceRecord, opts Options) []domain.Alert {
	rs := refs(records)
	return DetectAlerts(rs, Aggregate(rs), opts)
}

func alertsOfKind(alerts []domain.Alert, kind domain.AlertKind) []domain.Alert {
	var out []domain.Alert
	for _, a := range alerts {
		if a.Kind == kind {
			out = append(out, a)
		}
	}
	return out
}
