package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts are rendered as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// DateLayout is the wire format for calendar dates
const DateLayout = "2006-01-02"

// DateOnly is a calendar date without time of day. The zero value means the
// date is unknown.
type DateOnly struct {
	time.Time
}

// NewDate builds a DateOnly from a year, month and day in UTC
func NewDate(year int, month time.Month, day int) DateOnly {
	return DateOnly{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Known reports whether the date was present in the source document
func (d DateOnly) Known() bool {
	return !d.Time.IsZero()
}

// String returns the date as YYYY-MM-DD, or an empty string when unknown
func (d DateOnly) String() string {
	if !d.Known() {
		return ""
	}
	return d.Time.Format(DateLayout)
}

// UnmarshalJSON implements custom unmarshaling for date-only strings
func (d *DateOnly) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		d.Time = time.Time{}
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}

	if s == "" {
		d.Time = time.Time{}
		return nil
	}

	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// MarshalJSON implements custom marshaling for date-only strings
func (d DateOnly) MarshalJSON() ([]byte, error) {
	if !d.Known() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Time.Format(DateLayout))
}

// LineItem is a single billed concept on an invoice
type LineItem struct {
	Description string              `json:"description"`
	Quantity    decimal.NullDecimal `json:"quantity"`
	UnitPrice   decimal.NullDecimal `json:"unitPrice"`
	TotalPrice  decimal.NullDecimal `json:"totalPrice"`
}

// InvoiceRecord is the normalized result of extracting one document.
// Amounts that were absent from the document stay invalid (unknown) so they
// can be told apart from a real zero when rendered.
type InvoiceRecord struct {
	ID            string              `json:"id"`
	Provider      string              `json:"provider"`
	TaxID         string              `json:"taxId"`
	InvoiceNumber string              `json:"invoiceNumber"`
	IssueDate     DateOnly            `json:"issueDate"`
	DueDate       DateOnly            `json:"dueDate"`
	Total         decimal.NullDecimal `json:"total"`
	TaxableBase   decimal.NullDecimal `json:"taxableBase"`
	TaxAmount     decimal.NullDecimal `json:"taxAmount"`
	LineItems     []LineItem          `json:"lineItems"`
}

// Aggregable reports whether the record can take part in aggregation and
// alerting. Records without a provider are kept for display only.
func (r *InvoiceRecord) Aggregable() bool {
	return r.Provider != ""
}

// TotalAmount returns the invoice total, or zero when unknown
func (r *InvoiceRecord) TotalAmount() decimal.Decimal {
	return Amount(r.Total)
}

// Amount returns the value of a nullable amount, treating unknown as zero
func Amount(n decimal.NullDecimal) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	return n.Decimal
}

// Known wraps a decimal as a present amount
func Known(d decimal.Decimal) decimal.NullDecimal {
	return decimal.NewNullDecimal(d)
}

// KnownFloat wraps a float as a present amount
func KnownFloat(f float64) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.NewFromFloat(f))
}
