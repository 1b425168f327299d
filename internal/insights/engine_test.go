package insights

import (
	"testing"
	"time"

	"github.com/ridwanfathin/invoice-insights-service/internal/domain"
	"github.com/ridwanfathin/invoice-insights-service/internal/fixtures"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_DemoData(t *testing.T) {
	records := fixtures.MustDemoRecords()

	dashboard := Build(records, testOptions(june2024))

	assert.Equal(t, len(records), dashboard.RecordCount)
	assert.True(t, decimal.RequireFromString("70627.85").Equal(dashboard.TotalBilled), dashboard.TotalBilled.String())
	assert.Equal(t, 1, dashboard.UnvalidatedProviderCount)

	order := make([]string, 0, len(dashboard.ProviderAggregates))
	for _, p := range dashboard.ProviderAggregates {
		order = append(order, p.Provider)
	}
	assert.Equal(t, []string{"Maersk", "MSC", "Hapag-Lloyd", "COSCO", "Seaway Logistics", "CMA CGM"}, order)

	maersk := dashboard.ProviderAggregates[0]
	assert.True(t, decimal.RequireFromString("23201.00").Equal(maersk.TotalBilled), "duplicates are flagged, not excluded")
	assert.Equal(t, 3, maersk.RecordCount)

	ids := make([]string, 0, len(dashboard.Alerts))
	for _, a := range dashboard.Alerts {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []string{
		"miss-Hapag-Lloyd-3",
		"new-mock-seaway-1",
		"trend-COSCO-Almacenamiento en Frío",
		"dup-mock-maersk-1-dup",
	}, ids)

	duplicates := alertsOfKind(dashboard.Alerts, domain.AlertDuplicate)
	require.Len(t, duplicates, 1)
	assert.Equal(t, "mock-maersk-1-dup", duplicates[0].SourceRecordID)

	trend := alertsOfKind(dashboard.Alerts, domain.AlertCostTrend)
	require.Len(t, trend, 1)
	assert.Equal(t, `El coste de "Almacenamiento en Frío" de COSCO ha subido un 33%.`, trend[0].Description)
}

func TestBuild_TimeSeries(t *testing.T) {
	dashboard := Build(fixtures.MustDemoRecords(), testOptions(june2024))

	maersk := dashboard.ProviderTimeSeries["Maersk"]
	require.Len(t, maersk, 2)
	assert.Equal(t, "Ene '24", maersk[0].Label)
	assert.True(t, decimal.RequireFromString("15001").Equal(maersk[0].Amount))
	assert.Equal(t, "Mar '24", maersk[1].Label)
	assert.True(t, decimal.NewFromInt(8200).Equal(maersk[1].Amount))

	cold := dashboard.ConceptTimeSeries["Almacenamiento en Frío"]
	require.Len(t, cold, 4)
	for i, point := range cold {
		assert.Equal(t, i+1, point.Month)
	}

	require.NotEmpty(t, dashboard.Concepts)
	assert.Equal(t, "Transporte Contenedor 40ft", dashboard.Concepts[0])
	assert.Equal(t, "Tasas Portuarias", dashboard.Concepts[1])
	assert.Equal(t, []string{"Maersk", "MSC", "Seaway Logistics", "CMA CGM", "Hapag-Lloyd", "COSCO"}, dashboard.Providers)
}

func TestBuild_SeriesAcrossYears(t *testing.T) {
	records := []domain.InvoiceRecord{
		invoice("a", "MSC", "1", date(2024, 2, 1), "10"),
		invoice("b", "MSC", "2", date(2023, 11, 1), "20"),
		invoice("c", "MSC", "3", date(2024, 2, 20), "5"),
		{ID: "d", Provider: "MSC", InvoiceNumber: "4", Total: domain.KnownFloat(99)},
	}

	series := Build(records, testOptions(june2024)).ProviderTimeSeries["MSC"]

	require.Len(t, series, 2)
	assert.Equal(t, "Nov '23", series[0].Label)
	assert.Equal(t, "Feb '24", series[1].Label)
	assert.True(t, decimal.NewFromInt(15).Equal(series[1].Amount))
}

func TestBuild_IsPure(t *testing.T) {
	records := fixtures.MustDemoRecords()
	opts := testOptions(june2024)

	first := Build(records, opts)
	second := Build(records, opts)

	assert.Equal(t, first.Alerts, second.Alerts)
	assert.Equal(t, first.Providers, second.Providers)
	assert.True(t, first.TotalBilled.Equal(second.TotalBilled))
}

func TestBuild_Empty(t *testing.T) {
	dashboard := Build(nil, Options{Now: time.Now()})

	assert.Zero(t, dashboard.RecordCount)
	assert.True(t, dashboard.TotalBilled.IsZero())
	assert.Empty(t, dashboard.Alerts)
	assert.NotNil(t, dashboard.Alerts)
	assert.Empty(t, dashboard.Providers)
	assert.NotNil(t, dashboard.Concepts)
}

func TestCatalog(t *testing.T) {
	es := NewCatalog("es-ES")
	assert.Equal(t, "Ago", es.MonthShort(time.August))
	assert.Equal(t, "Dic '25", es.MonthYearLabel(2025, time.December))

	en := NewCatalog("en")
	assert.Equal(t, "Aug", en.MonthShort(time.August))
	assert.Equal(t, "€12.50", en.Money(decimal.RequireFromString("12.5")))

	assert.Equal(t, "es", NewCatalog("not a locale").Locale())
}
