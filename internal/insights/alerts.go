package insights

import (
	"fmt"
	"sort"
	"time"

	"github.com/ridwanfathin/invoice-insights-service/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	// AnomalyThreshold is the multiple of a provider's average above which an
	// invoice is flagged
	AnomalyThreshold = decimal.RequireFromString("1.75")

	// TrendThresholdPercent is the minimum first-to-last increase for a cost trend
	TrendThresholdPercent = decimal.NewFromInt(15)

	// RecurringMinMonths is how many distinct months make a provider recurring
	RecurringMinMonths = 3

	// TrendMinEntries is the minimum history length for trend detection, both
	// per provider and per concept
	TrendMinEntries = 3

	hundred = decimal.NewFromInt(100)
)

// detector carries the inputs shared by every pass
type detector struct {
	records []*domain.InvoiceRecord
	agg     *Aggregation
	opts    Options
	today   domain.DateOnly
	alerts  []domain.Alert
}

// DetectAlerts runs the five detection passes over aggregable records and
// returns the alerts sorted by date, newest first. Alerts with the same date
// keep the order in which they were raised.
func DetectAlerts(records []*domain.InvoiceRecord, agg *Aggregation, opts Options) []domain.Alert {
	opts = opts.withDefaults()
	d := &detector{
		records: records,
		agg:     agg,
		opts:    opts,
		today:   domain.NewDate(opts.Now.Year(), opts.Now.Month(), opts.Now.Day()),
		alerts:  make([]domain.Alert, 0),
	}

	d.scanDuplicatesAndNewProviders()
	d.detectAnomalies()

	dated := d.datedByProvider()
	d.detectMissingInvoices(dated)
	d.detectCostTrends(dated)

	sort.SliceStable(d.alerts, func(i, j int) bool {
		return d.alerts[i].Date.Time.After(d.alerts[j].Date.Time)
	})
	return d.alerts
}

func (d *detector) add(kind domain.AlertKind, id, title, description string, date domain.DateOnly, source string) {
	d.alerts = append(d.alerts, domain.Alert{
		ID:             id,
		Kind:           kind,
		Title:          title,
		Description:    description,
		Date:           date,
		SourceRecordID: source,
	})
}

// dateOrToday returns the record's issue date, or today when it is unknown
func (d *detector) dateOrToday(record *domain.InvoiceRecord) domain.DateOnly {
	if record.IssueDate.Known() {
		return record.IssueDate
	}
	return d.today
}

func duplicateKey(record *domain.InvoiceRecord) string {
	total := ""
	if record.Total.Valid {
		total = record.Total.Decimal.String()
	}
	return record.Provider + "\x00" + record.InvoiceNumber + "\x00" + total
}

// scanDuplicatesAndNewProviders is the first pass. The first record with a
// given (provider, invoice number, total) key is the baseline; every later one
// is a duplicate. A provider outside the allow-list raises one alert on the
// record where it first appears.
func (d *detector) scanDuplicatesAndNewProviders() {
	seenKeys := make(map[string]struct{})
	seenProviders := make(map[string]struct{})

	for _, record := range d.records {
		if !record.Aggregable() {
			continue
		}

		if _, seen := seenProviders[record.Provider]; !seen {
			seenProviders[record.Provider] = struct{}{}
			if !d.opts.Validated.Contains(record.Provider) {
				title, desc := d.opts.Catalog.newProvider(record.Provider)
				d.add(domain.AlertNewProvider, "new-"+record.ID, title, desc, d.dateOrToday(record), record.ID)
			}
		}

		key := duplicateKey(record)
		if _, seen := seenKeys[key]; seen {
			title, desc := d.opts.Catalog.duplicate(record.InvoiceNumber, record.Provider)
			d.add(domain.AlertDuplicate, "dup-"+record.ID, title, desc, d.dateOrToday(record), record.ID)
			continue
		}
		seenKeys[key] = struct{}{}
	}
}

// detectAnomalies flags records whose total is strictly above the provider's
// average times AnomalyThreshold. The average includes the record itself.
func (d *detector) detectAnomalies() {
	for _, stats := range d.agg.Providers() {
		avg := stats.Average()
		if !avg.IsPositive() {
			continue
		}
		threshold := avg.Mul(AnomalyThreshold)

		for _, record := range stats.Records {
			total := record.TotalAmount()
			if !total.GreaterThan(threshold) {
				continue
			}
			percent := total.Div(avg).Sub(decimal.NewFromInt(1)).Mul(hundred).Round(0).IntPart()
			title, desc := d.opts.Catalog.anomaly(record.Provider, total, percent)
			d.add(domain.AlertAnomaly, "anom-"+record.ID, title, desc, d.dateOrToday(record), record.ID)
		}
	}
}

// providerHistory holds the dated records of one provider in input order
type providerHistory struct {
	provider string
	records  []*domain.InvoiceRecord
}

func (d *detector) datedByProvider() []*providerHistory {
	index := make(map[string]*providerHistory)
	var ordered []*providerHistory

	for _, record := range d.records {
		if !record.Aggregable() || !record.IssueDate.Known() {
			continue
		}
		history, ok := index[record.Provider]
		if !ok {
			history = &providerHistory{provider: record.Provider}
			index[record.Provider] = history
			ordered = append(ordered, history)
		}
		history.records = append(history.records, record)
	}
	return ordered
}

// detectMissingInvoices treats a provider billed in RecurringMinMonths or more
// distinct months as recurring and reports every month strictly between its
// first and last month that has no invoice and is before the current month.
// Months are compared by month of year only, regardless of the year.
func (d *detector) detectMissingInvoices(histories []*providerHistory) {
	currentMonth := d.opts.Now.Month()

	for _, history := range histories {
		var months [13]bool
		distinct := 0
		minMonth, maxMonth := time.December, time.January
		for _, record := range history.records {
			m := record.IssueDate.Month()
			if !months[m] {
				months[m] = true
				distinct++
			}
			if m < minMonth {
				minMonth = m
			}
			if m > maxMonth {
				maxMonth = m
			}
		}

		if distinct < RecurringMinMonths {
			continue
		}

		for m := minMonth + 1; m < maxMonth; m++ {
			if months[m] || m >= currentMonth {
				continue
			}
			title, desc := d.opts.Catalog.missingInvoice(history.provider, m)
			id := fmt.Sprintf("miss-%s-%d", history.provider, int(m))
			d.add(domain.AlertMissingInvoice, id, title, desc, d.today, "")
		}
	}
}

// conceptEntry is one occurrence of a line item concept
type conceptEntry struct {
	date     domain.DateOnly
	total    decimal.Decimal
	recordID string
}

// detectCostTrends looks, per provider with enough dated invoices, for line
// item concepts whose price rose at every step and by more than
// TrendThresholdPercent overall. Any flat or falling step cancels the trend.
func (d *detector) detectCostTrends(histories []*providerHistory) {
	for _, history := range histories {
		if len(history.records) < TrendMinEntries {
			continue
		}

		concepts := make(map[string][]conceptEntry)
		var order []string
		for _, record := range history.records {
			for _, item := range record.LineItems {
				if item.Description == "" {
					continue
				}
				if _, ok := concepts[item.Description]; !ok {
					order = append(order, item.Description)
				}
				concepts[item.Description] = append(concepts[item.Description], conceptEntry{
					date:     record.IssueDate,
					total:    domain.Amount(item.TotalPrice),
					recordID: record.ID,
				})
			}
		}

		for _, concept := range order {
			entries := concepts[concept]
			if len(entries) < TrendMinEntries {
				continue
			}
			percent, ok := risingTrend(entries)
			if !ok || !percent.GreaterThan(TrendThresholdPercent) {
				continue
			}

			last := entries[len(entries)-1]
			title, desc := d.opts.Catalog.costTrend(concept, history.provider, percent.Round(0).IntPart())
			id := fmt.Sprintf("trend-%s-%s", history.provider, concept)
			d.add(domain.AlertCostTrend, id, title, desc, last.date, last.recordID)
		}
	}
}

// risingTrend sorts entries by date and returns the first-to-last percentage
// change when every step strictly increases. It reports false for any
// non-increasing step or when the series starts at zero or below.
func risingTrend(entries []conceptEntry) (decimal.Decimal, bool) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].date.Time.Before(entries[j].date.Time)
	})

	for i := 1; i < len(entries); i++ {
		if !entries[i].total.GreaterThan(entries[i-1].total) {
			return decimal.Zero, false
		}
	}

	first := entries[0].total
	if !first.IsPositive() {
		return decimal.Zero, false
	}
	last := entries[len(entries)-1].total
	return last.Sub(first).Div(first).Mul(hundred), true
}
