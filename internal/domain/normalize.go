package domain

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RawAmount is an amount as an extractor wrote it: a JSON number, a
// formatted string such as "1.234,56 EUR", or null. Decoding never fails;
// anything that does not read as a number is an unknown amount.
type RawAmount struct {
	decimal.NullDecimal
}

// UnmarshalJSON implements json.Unmarshaler
func (a *RawAmount) UnmarshalJSON(data []byte) error {
	a.NullDecimal = decimal.NullDecimal{}

	text := strings.TrimSpace(string(data))
	switch {
	case text == "" || text == "null":
		return nil
	case strings.HasPrefix(text, `"`):
		var s string
		if err := json.Unmarshal(data, &s); err == nil {
			a.NullDecimal = ParseAmount(s)
		}
		return nil
	}

	if d, err := decimal.NewFromString(text); err == nil {
		a.NullDecimal = Known(d)
	}
	return nil
}

// RawFloat wraps a float as a present raw amount
func RawFloat(f float64) RawAmount {
	return RawAmount{KnownFloat(f)}
}

// ParseAmount reads a human formatted amount. Currency symbols and spaces are
// ignored. When both '.' and ',' appear, the last one is the decimal
// separator. A repeated separator groups thousands, and so does a single one
// between a non-zero group of up to three digits and exactly three digits
// ("1.234"). Anything without digits yields an unknown amount.
func ParseAmount(s string) decimal.NullDecimal {
	s = strings.TrimSpace(s)
	neg := strings.HasPrefix(s, "-") || (strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")"))

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' {
			b.WriteRune(r)
		}
	}
	clean := b.String()
	if strings.IndexFunc(clean, func(r rune) bool { return r >= '0' && r <= '9' }) < 0 {
		return decimal.NullDecimal{}
	}

	clean = normalizeSeparators(clean)
	if neg {
		clean = "-" + clean
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return Known(d)
}

// normalizeSeparators rewrites digits with '.' and ',' into a plain decimal
// string with '.' as the only separator
func normalizeSeparators(s string) string {
	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")

	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			return strings.Replace(strings.ReplaceAll(s, ".", ""), ",", ".", 1)
		}
		return strings.ReplaceAll(s, ",", "")
	case lastComma >= 0:
		return resolveSingleSeparator(s, ",")
	case lastDot >= 0:
		return resolveSingleSeparator(s, ".")
	}
	return s
}

func resolveSingleSeparator(s, sep string) string {
	if strings.Count(s, sep) > 1 {
		return strings.ReplaceAll(s, sep, "")
	}

	at := strings.Index(s, sep)
	head, tail := s[:at], s[at+1:]
	if len(tail) == 3 && len(head) >= 1 && len(head) <= 3 && strings.TrimLeft(head, "0") != "" {
		return head + tail
	}
	return head + "." + tail
}

// ExtractedLineItem is a line item exactly as returned by an extractor
type ExtractedLineItem struct {
	Description string    `json:"description"`
	Quantity    RawAmount `json:"quantity"`
	UnitPrice   RawAmount `json:"unitPrice"`
	TotalPrice  RawAmount `json:"totalPrice"`
}

// ExtractedInvoice is the raw structured output of an extraction service.
// Any field may be missing.
type ExtractedInvoice struct {
	Provider      string              `json:"provider"`
	TaxID         string              `json:"taxId"`
	InvoiceNumber string              `json:"invoiceNumber"`
	IssueDate     string              `json:"issueDate"`
	DueDate       string              `json:"dueDate"`
	Total         RawAmount           `json:"total"`
	TaxableBase   RawAmount           `json:"taxableBase"`
	TaxAmount     RawAmount           `json:"taxAmount"`
	LineItems     []ExtractedLineItem `json:"lineItems"`
}

// IsEmpty reports whether nothing useful was extracted
func (e *ExtractedInvoice) IsEmpty() bool {
	return e.Provider == "" && e.InvoiceNumber == "" && !e.Total.Valid && len(e.LineItems) == 0
}

var dateLayouts = []string{
	DateLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006/01/02",
	"02/01/2006",
	"02-01-2006",
	"02.01.2006",
}

// ParseDate parses the date formats extractors commonly return. Unparseable
// or empty input yields the unknown date.
func ParseDate(s string) DateOnly {
	s = strings.TrimSpace(s)
	if s == "" {
		return DateOnly{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return NewDate(t.Year(), t.Month(), t.Day())
		}
	}
	return DateOnly{}
}

// NormalizeExtraction turns raw extractor output into a record usable by the
// aggregation passes. It never fails: missing text stays empty, missing
// amounts stay unknown, and a record without a provider is simply not
// aggregable. A missing total is derived from base plus tax, and a missing
// line total from quantity times unit price, when both parts are known.
func NormalizeExtraction(raw ExtractedInvoice, id string) InvoiceRecord {
	record := InvoiceRecord{
		ID:            id,
		Provider:      strings.TrimSpace(raw.Provider),
		TaxID:         strings.TrimSpace(raw.TaxID),
		InvoiceNumber: strings.TrimSpace(raw.InvoiceNumber),
		IssueDate:     ParseDate(raw.IssueDate),
		DueDate:       ParseDate(raw.DueDate),
		Total:         raw.Total.NullDecimal,
		TaxableBase:   raw.TaxableBase.NullDecimal,
		TaxAmount:     raw.TaxAmount.NullDecimal,
		LineItems:     make([]LineItem, 0, len(raw.LineItems)),
	}

	if !record.Total.Valid && record.TaxableBase.Valid && record.TaxAmount.Valid {
		record.Total = Known(record.TaxableBase.Decimal.Add(record.TaxAmount.Decimal))
	}

	for _, item := range raw.LineItems {
		description := strings.TrimSpace(item.Description)
		total := item.TotalPrice.NullDecimal
		if !total.Valid && item.Quantity.Valid && item.UnitPrice.Valid {
			total = Known(item.Quantity.Decimal.Mul(item.UnitPrice.Decimal))
		}
		if description == "" && !total.Valid {
			continue
		}
		record.LineItems = append(record.LineItems, LineItem{
			Description: description,
			Quantity:    item.Quantity.NullDecimal,
			UnitPrice:   item.UnitPrice.NullDecimal,
			TotalPrice:  total,
		})
	}

	return record
}
