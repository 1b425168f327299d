package insights

import (
	"sort"
	"time"

	"github.com/ridwanfathin/invoice-insights-service/internal/domain"
	"github.com/shopspring/decimal"
)

// TimeSeries holds monthly spend per provider and per concept
type TimeSeries struct {
	ByProvider map[string][]domain.SeriesPoint
	ByConcept  map[string][]domain.SeriesPoint

	// Concepts lists line item descriptions in first-seen order
	Concepts []string
}

type monthKey struct {
	year  int
	month time.Month
}

type seriesBuilder struct {
	catalog *Catalog
	points  map[string]map[monthKey]decimal.Decimal
}

func newSeriesBuilder(catalog *Catalog) *seriesBuilder {
	return &seriesBuilder{
		catalog: catalog,
		points:  make(map[string]map[monthKey]decimal.Decimal),
	}
}

func (b *seriesBuilder) add(name string, date domain.DateOnly, amount decimal.Decimal) {
	buckets, ok := b.points[name]
	if !ok {
		buckets = make(map[monthKey]decimal.Decimal)
		b.points[name] = buckets
	}
	key := monthKey{year: date.Year(), month: date.Month()}
	buckets[key] = buckets[key].Add(amount)
}

// build returns each series sorted chronologically by year, then month
func (b *seriesBuilder) build() map[string][]domain.SeriesPoint {
	out := make(map[string][]domain.SeriesPoint, len(b.points))
	for name, buckets := range b.points {
		series := make([]domain.SeriesPoint, 0, len(buckets))
		for key, amount := range buckets {
			series = append(series, domain.SeriesPoint{
				Label:  b.catalog.MonthYearLabel(key.year, key.month),
				Year:   key.year,
				Month:  int(key.month),
				Amount: amount,
			})
		}
		sort.Slice(series, func(i, j int) bool {
			if series[i].Year != series[j].Year {
				return series[i].Year < series[j].Year
			}
			return series[i].Month < series[j].Month
		})
		out[name] = series
	}
	return out
}

// BuildTimeSeries buckets invoice totals by (provider, month) and line item
// totals by (concept, month) across all providers. Records without an issue
// date cannot be placed on the timeline and are skipped.
func BuildTimeSeries(records []*domain.InvoiceRecord, catalog *Catalog) *TimeSeries {
	if catalog == nil {
		catalog = DefaultCatalog()
	}

	providers := newSeriesBuilder(catalog)
	concepts := newSeriesBuilder(catalog)
	seenConcepts := make(map[string]struct{})
	var conceptOrder []string

	for _, record := range records {
		if !record.Aggregable() || !record.IssueDate.Known() {
			continue
		}

		providers.add(record.Provider, record.IssueDate, record.TotalAmount())

		for _, item := range record.LineItems {
			if item.Description == "" {
				continue
			}
			if _, ok := seenConcepts[item.Description]; !ok {
				seenConcepts[item.Description] = struct{}{}
				conceptOrder = append(conceptOrder, item.Description)
			}
			concepts.add(item.Description, record.IssueDate, domain.Amount(item.TotalPrice))
		}
	}

	return &TimeSeries{
		ByProvider: providers.build(),
		ByConcept:  concepts.build(),
		Concepts:   conceptOrder,
	}
}
