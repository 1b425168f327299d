// Package insights derives the dashboard from a snapshot of invoice records:
// provider aggregates, alerts and monthly spend series.
//
// Everything here is a pure function of its input. Nothing is cached between
// calls and nothing is mutated; callers rebuild the whole view model whenever
// the record collection changes.
package insights

import (
	"time"

	"github.com/ridwanfathin/invoice-insights-service/internal/domain"
)

// Options are the read-only inputs of a recomputation besides the records
type Options struct {
	// Validated is the allow-list used by new provider detection
	Validated domain.ValidatedProviderSet

	// Now is the reference time for missing invoice detection and for alerts
	// that have no issue date. Zero means time.Now(). It is read in UTC, the
	// zone issue dates are kept in.
	Now time.Time

	// Catalog renders alert texts. Nil means the Spanish catalog.
	Catalog *Catalog
}

func (o Options) withDefaults() Options {
	if o.Now.IsZero() {
		o.Now = time.Now()
	}
	o.Now = o.Now.UTC()
	if o.Catalog == nil {
		o.Catalog = DefaultCatalog()
	}
	return o
}

// Build recomputes the dashboard view model from the full record collection
func Build(records []domain.InvoiceRecord, opts Options) *domain.Dashboard {
	opts = opts.withDefaults()

	refs := make([]*domain.InvoiceRecord, 0, len(records))
	for i := range records {
		if records[i].Aggregable() {
			refs = append(refs, &records[i])
		}
	}

	agg := Aggregate(refs)
	series := BuildTimeSeries(refs, opts.Catalog)

	concepts := series.Concepts
	if concepts == nil {
		concepts = []string{}
	}
	providers := append([]string{}, agg.Order...)

	return &domain.Dashboard{
		TotalBilled:              agg.TotalBilled,
		RecordCount:              len(records),
		ProviderAggregates:       agg.SortedByTotal(),
		Alerts:                   DetectAlerts(refs, agg, opts),
		UnvalidatedProviderCount: agg.UnvalidatedCount(opts.Validated),
		ProviderTimeSeries:       series.ByProvider,
		ConceptTimeSeries:        series.ByConcept,
		Providers:                providers,
		Concepts:                 concepts,
	}
}
