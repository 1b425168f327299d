package domain

import "github.com/shopspring/decimal"

// AlertKind classifies what a detector found
type AlertKind string

const (
	AlertDuplicate      AlertKind = "duplicate"
	AlertAnomaly        AlertKind = "anomaly"
	AlertNewProvider    AlertKind = "new_provider"
	AlertMissingInvoice AlertKind = "missing_invoice"
	AlertCostTrend      AlertKind = "cost_trend"
)

// AlertKinds lists every kind in a fixed order
var AlertKinds = []AlertKind{
	AlertDuplicate,
	AlertAnomaly,
	AlertNewProvider,
	AlertMissingInvoice,
	AlertCostTrend,
}

// Valid reports whether k is a known alert kind
func (k AlertKind) Valid() bool {
	for _, known := range AlertKinds {
		if k == known {
			return true
		}
	}
	return false
}

// Alert is a derived finding. Alerts are rebuilt on every recomputation and
// their ids are stable for the same input.
type Alert struct {
	ID             string    `json:"id"`
	Kind           AlertKind `json:"kind"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Date           DateOnly  `json:"date"`
	SourceRecordID string    `json:"sourceRecordId,omitempty"`
}

// ProviderAggregate holds the spend of one provider. Records points into the
// input collection and is only valid for the recomputation that built it.
type ProviderAggregate struct {
	Provider    string           `json:"provider"`
	TotalBilled decimal.Decimal  `json:"totalBilled"`
	RecordCount int              `json:"recordCount"`
	Records     []*InvoiceRecord `json:"-"`
}

// Average returns TotalBilled / RecordCount, or zero for an empty aggregate
func (a *ProviderAggregate) Average() decimal.Decimal {
	if a.RecordCount == 0 {
		return decimal.Zero
	}
	return a.TotalBilled.Div(decimal.NewFromInt(int64(a.RecordCount)))
}

// SeriesPoint is the spend of one calendar month
type SeriesPoint struct {
	Label  string          `json:"label"`
	Year   int             `json:"year"`
	Month  int             `json:"month"`
	Amount decimal.Decimal `json:"amount"`
}

// Dashboard is the read-only view model consumed by the presentation layer
type Dashboard struct {
	TotalBilled              decimal.Decimal          `json:"totalBilled"`
	RecordCount              int                      `json:"recordCount"`
	ProviderAggregates       []*ProviderAggregate     `json:"providerAggregates"`
	Alerts                   []Alert                  `json:"alerts"`
	UnvalidatedProviderCount int                      `json:"unvalidatedProviderCount"`
	ProviderTimeSeries       map[string][]SeriesPoint `json:"providerTimeSeries"`
	ConceptTimeSeries        map[string][]SeriesPoint `json:"conceptTimeSeries"`
	Providers                []string                 `json:"providers"`
	Concepts                 []string                 `json:"concepts"`
}
