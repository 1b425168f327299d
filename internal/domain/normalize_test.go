package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want DateOnly
	}{
		{"2024-01-15", NewDate(2024, time.January, 15)},
		{" 2024-03-10 ", NewDate(2024, time.March, 10)},
		{"2024-03-10T12:30:00Z", NewDate(2024, time.March, 10)},
		{"2024/02/28", NewDate(2024, time.February, 28)},
		{"28/02/2024", NewDate(2024, time.February, 28)},
		{"28.02.2024", NewDate(2024, time.February, 28)},
		{"", DateOnly{}},
		{"next tuesday", DateOnly{}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseDate(tt.in)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeExtraction(t *testing.T) {
	raw := ExtractedInvoice{
		Provider:      "  Maersk ",
		TaxID:         "A12345678",
		InvoiceNumber: " INV-2024-001",
		IssueDate:     "2024-01-15",
		DueDate:       "not a date",
		Total:         RawFloat(7500.5),
		LineItems: []ExtractedLineItem{
			{Description: " Transporte ", TotalPrice: RawFloat(6000)},
			{Description: "   "},
			{TotalPrice: RawFloat(10)},
		},
	}

	record := NormalizeExtraction(raw, "file-1")

	assert.Equal(t, "file-1", record.ID)
	assert.Equal(t, "Maersk", record.Provider)
	assert.Equal(t, "INV-2024-001", record.InvoiceNumber)
	assert.Equal(t, NewDate(2024, time.January, 15), record.IssueDate)
	assert.False(t, record.DueDate.Known())
	assert.True(t, record.Total.Valid)
	assert.False(t, record.TaxAmount.Valid)
	require.Len(t, record.LineItems, 2)
	assert.Equal(t, "Transporte", record.LineItems[0].Description)
	assert.Equal(t, "", record.LineItems[1].Description)
	assert.True(t, record.Aggregable())
}

func TestNormalizeExtraction_NoProvider(t *testing.T) {
	record := NormalizeExtraction(ExtractedInvoice{InvoiceNumber: "X"}, "id")

	assert.False(t, record.Aggregable())
	assert.True(t, record.TotalAmount().IsZero())
	assert.NotNil(t, record.LineItems)
}

func TestExtractedInvoice_IsEmpty(t *testing.T) {
	assert.True(t, (&ExtractedInvoice{}).IsEmpty())
	assert.True(t, (&ExtractedInvoice{TaxID: "B1"}).IsEmpty())
	assert.False(t, (&ExtractedInvoice{Total: RawFloat(1)}).IsEmpty())
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1500.5", "1500.5"},
		{"1.234,56", "1234.56"},
		{"1,234.56", "1234.56"},
		{"12,50 €", "12.5"},
		{"EUR 7.500", "7500"},
		{"1.234.567", "1234567"},
		{"0.125", "0.125"},
		{"1234.567", "1234.567"},
		{"-1.234,5", "-1234.5"},
		{"(200,00)", "-200"},
		{" 42 ", "42"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParseAmount(tt.in)
			require.True(t, got.Valid)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got.Decimal), "got %s", got.Decimal)
		})
	}
}

func TestParseAmount_Unknown(t *testing.T) {
	for _, in := range []string{"", "   ", "n/a", "EUR", "-"} {
		assert.False(t, ParseAmount(in).Valid, in)
	}
}

func TestExtractedInvoice_LenientAmounts(t *testing.T) {
	tests := []struct {
		name  string
		json  string
		valid bool
		want  string
	}{
		{"number", `{"total": 1500.5}`, true, "1500.5"},
		{"exponent", `{"total": 1.5e3}`, true, "1500"},
		{"empty string", `{"total": ""}`, false, ""},
		{"null", `{"total": null}`, false, ""},
		{"missing", `{}`, false, ""},
		{"european string", `{"total": "1.234,56"}`, true, "1234.56"},
		{"garbage string", `{"total": "unknown"}`, false, ""},
		{"boolean", `{"total": true}`, false, ""},
		{"object", `{"total": {"value": 1}}`, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var raw ExtractedInvoice
			require.NoError(t, json.Unmarshal([]byte(tt.json), &raw))
			assert.Equal(t, tt.valid, raw.Total.Valid)
			if tt.valid {
				assert.True(t, decimal.RequireFromString(tt.want).Equal(raw.Total.Decimal))
			}
		})
	}
}

func TestNormalizeExtraction_BadAmountKeepsRecord(t *testing.T) {
	var raw ExtractedInvoice
	err := json.Unmarshal([]byte(`{
		"provider": "Maersk",
		"invoiceNumber": "A1",
		"total": 1500.5,
		"taxableBase": "",
		"taxAmount": "IVA",
		"lineItems": [{"description": "Flete", "quantity": "2", "unitPrice": "100,50", "totalPrice": ""}]
	}`), &raw)
	require.NoError(t, err)

	record := NormalizeExtraction(raw, "id")

	assert.True(t, record.Aggregable())
	assert.True(t, decimal.RequireFromString("1500.5").Equal(record.Total.Decimal))
	assert.False(t, record.TaxableBase.Valid)
	assert.False(t, record.TaxAmount.Valid)
	require.Len(t, record.LineItems, 1)
	require.True(t, record.LineItems[0].TotalPrice.Valid)
	assert.True(t, decimal.RequireFromString("201").Equal(record.LineItems[0].TotalPrice.Decimal))
}

func TestNormalizeExtraction_DerivesTotal(t *testing.T) {
	record := NormalizeExtraction(ExtractedInvoice{
		Provider:    "MSC",
		TaxableBase: RawFloat(1000),
		TaxAmount:   RawFloat(210),
	}, "id")

	require.True(t, record.Total.Valid)
	assert.True(t, decimal.NewFromInt(1210).Equal(record.Total.Decimal))

	partial := NormalizeExtraction(ExtractedInvoice{Provider: "MSC", TaxableBase: RawFloat(1000)}, "id")
	assert.False(t, partial.Total.Valid)
}

func TestInvoiceRecord_JSON(t *testing.T) {
	record := InvoiceRecord{
		ID:        "r1",
		Provider:  "MSC",
		IssueDate: NewDate(2024, time.April, 5),
		Total:     Known(decimal.RequireFromString("15000.50")),
	}

	data, err := json.Marshal(record)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "2024-04-05", raw["issueDate"])
	assert.Nil(t, raw["dueDate"])
	assert.Equal(t, 15000.5, raw["total"])
	assert.Nil(t, raw["taxAmount"])

	var back InvoiceRecord
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, record.IssueDate, back.IssueDate)
	assert.False(t, back.DueDate.Known())
	assert.True(t, back.Total.Decimal.Equal(record.Total.Decimal))
}

func TestValidatedProviderSet(t *testing.T) {
	set := NewValidatedProviderSet("Maersk", " MSC ", "")

	assert.Equal(t, 2, set.Len())
	assert.True(t, set.Contains("MSC"))
	assert.False(t, set.Contains("maersk"))
	assert.False(t, ValidatedProviderSet{}.Contains("Maersk"))
}

func TestAlertKind_Valid(t *testing.T) {
	assert.True(t, AlertCostTrend.Valid())
	assert.False(t, AlertKind("bogus").Valid())
}
