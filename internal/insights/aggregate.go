package insights

import (
	"sort"

	"github.com/ridwanfathin/invoice-insights-service/internal/domain"
	"github.com/shopspring/decimal"
)

// Aggregation is the result of grouping aggregable records by provider
type Aggregation struct {
	// ByProvider maps the exact provider name to its aggregate
	ByProvider map[string]*domain.ProviderAggregate

	// Order lists providers in first-seen order
	Order []string

	TotalBilled decimal.Decimal
}

// Aggregate groups records by exact provider name in a single pass.
// Records that are not aggregable are skipped.
func Aggregate(records []*domain.InvoiceRecord) *Aggregation {
	agg := &Aggregation{
		ByProvider:  make(map[string]*domain.ProviderAggregate),
		TotalBilled: decimal.Zero,
	}

	for _, record := range records {
		if !record.Aggregable() {
			continue
		}

		stats, ok := agg.ByProvider[record.Provider]
		if !ok {
			stats = &domain.ProviderAggregate{
				Provider:    record.Provider,
				TotalBilled: decimal.Zero,
			}
			agg.ByProvider[record.Provider] = stats
			agg.Order = append(agg.Order, record.Provider)
		}

		stats.TotalBilled = stats.TotalBilled.Add(record.TotalAmount())
		stats.RecordCount++
		stats.Records = append(stats.Records, record)
	}

	for _, provider := range agg.Order {
		agg.TotalBilled = agg.TotalBilled.Add(agg.ByProvider[provider].TotalBilled)
	}

	return agg
}

// Providers returns the aggregates in first-seen order
func (a *Aggregation) Providers() []*domain.ProviderAggregate {
	out := make([]*domain.ProviderAggregate, 0, len(a.Order))
	for _, provider := range a.Order {
		out = append(out, a.ByProvider[provider])
	}
	return out
}

// SortedByTotal returns the aggregates sorted by total billed, highest first.
// Ties keep first-seen order.
func (a *Aggregation) SortedByTotal() []*domain.ProviderAggregate {
	out := a.Providers()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalBilled.GreaterThan(out[j].TotalBilled)
	})
	return out
}

// UnvalidatedCount counts distinct providers missing from the allow-list
func (a *Aggregation) UnvalidatedCount(validated domain.ValidatedProviderSet) int {
	count := 0
	for _, provider := range a.Order {
		if !validated.Contains(provider) {
			count++
		}
	}
	return count
}
