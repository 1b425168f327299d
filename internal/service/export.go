package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/ridwanfathin/invoice-insights-service/internal/domain"
	"github.com/ridwanfathin/invoice-insights-service/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// Detail selects the export layout
type Detail string

const (
	// DetailEssential writes one row per invoice
	DetailEssential Detail = "essential"

	// DetailDetailed writes one row per line item
	DetailDetailed Detail = "detailed"
)

const exportSheet = "Facturas"

var (
	essentialHeaders = []string{"Proveedor", "NIF/CIF", "Nº Factura", "Fecha Emisión", "Fecha Vencimiento", "Base Imponible", "Impuestos", "Total Factura"}
	lineItemHeaders  = []string{"Concepto - Descripción", "Concepto - Cantidad", "Concepto - Precio Unitario", "Concepto - Total"}
)

// Filter narrows a file list. Text fields match by case-insensitive
// substring; a date bound only matches records with a known issue date.
type Filter struct {
	Provider      string
	TaxID         string
	InvoiceNumber string
	From          domain.DateOnly
	To            domain.DateOnly
	Status        domain.ProcessingStatus
}

// recordFilters reports whether any field other than Status is set
func (f Filter) recordFilters() bool {
	return f.Provider != "" || f.TaxID != "" || f.InvoiceNumber != "" || f.From.Known() || f.To.Known()
}

// Match reports whether a file passes the filter
func (f Filter) Match(file *domain.InvoiceFile) bool {
	if f.Status != "" && file.Status != f.Status {
		return false
	}
	if !f.recordFilters() {
		return true
	}

	record := file.Record
	if record == nil {
		return false
	}
	if !containsFold(record.Provider, f.Provider) ||
		!containsFold(record.TaxID, f.TaxID) ||
		!containsFold(record.InvoiceNumber, f.InvoiceNumber) {
		return false
	}
	if f.From.Known() && (!record.IssueDate.Known() || record.IssueDate.Before(f.From.Time)) {
		return false
	}
	if f.To.Known() && (!record.IssueDate.Known() || record.IssueDate.After(f.To.Time)) {
		return false
	}
	return true
}

func containsFold(value, part string) bool {
	return strings.Contains(strings.ToLower(value), strings.ToLower(part))
}

// ExportService renders extracted invoices as spreadsheets
type ExportService struct {
	repo repository.InvoiceRepository
}

// NewExportService creates a new export service
func NewExportService(repo repository.InvoiceRepository) *ExportService {
	return &ExportService{repo: repo}
}

// Filtered returns the files matching filter in upload order
func (s *ExportService) Filtered(ctx context.Context, filter Filter) ([]*domain.InvoiceFile, error) {
	files, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]*domain.InvoiceFile, 0, len(files))
	for _, file := range files {
		if filter.Match(file) {
			matched = append(matched, publicCopy(file))
		}
	}
	return matched, nil
}

// Records returns the extracted records of successful files matching filter
func (s *ExportService) Records(ctx context.Context, filter Filter) ([]domain.InvoiceRecord, error) {
	filter.Status = domain.StatusSuccess
	files, err := s.Filtered(ctx, filter)
	if err != nil {
		return nil, err
	}

	records := make([]domain.InvoiceRecord, 0, len(files))
	for _, file := range files {
		if file.Record != nil {
			records = append(records, *file.Record)
		}
	}
	return records, nil
}

// WriteCSV writes the matching records as CSV
func (s *ExportService) WriteCSV(ctx context.Context, w io.Writer, filter Filter, detail Detail) error {
	records, err := s.Records(ctx, filter)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(Headers(detail)); err != nil {
		return err
	}
	for _, row := range Rows(records, detail) {
		line := make([]string, len(row))
		for i, cell := range row {
			line[i] = cell.String()
		}
		if err := cw.Write(line); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes the matching records as a single sheet workbook. Known
// amounts are stored as numbers.
func (s *ExportService) WriteXLSX(ctx context.Context, w io.Writer, filter Filter, detail Detail) error {
	records, err := s.Records(ctx, filter)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return err
	}

	for i, header := range Headers(detail) {
		if err := setCell(f, i+1, 1, header); err != nil {
			return err
		}
	}

	for r, row := range Rows(records, detail) {
		for c, cell := range row {
			if err := setCell(f, c+1, r+2, cell.Value()); err != nil {
				return err
			}
		}
	}

	return f.Write(w)
}

func setCell(f *excelize.File, col, row int, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	return f.SetCellValue(exportSheet, cell, value)
}

// Cell is one exported value: text, or an amount that may be unknown
type Cell struct {
	Text   string
	Amount decimal.NullDecimal
	IsNum  bool
}

// String renders the cell for CSV; unknown amounts are empty
func (c Cell) String() string {
	if !c.IsNum {
		return c.Text
	}
	if !c.Amount.Valid {
		return ""
	}
	return c.Amount.Decimal.String()
}

// Value returns the spreadsheet value of the cell
func (c Cell) Value() interface{} {
	if !c.IsNum {
		return c.Text
	}
	if !c.Amount.Valid {
		return ""
	}
	return c.Amount.Decimal.InexactFloat64()
}

func textCell(s string) Cell               { return Cell{Text: s} }
func amountCell(n decimal.NullDecimal) Cell { return Cell{Amount: n, IsNum: true} }
func dateCell(d domain.DateOnly) Cell       { return Cell{Text: d.String()} }

// Headers returns the column titles for a layout
func Headers(detail Detail) []string {
	headers := append([]string{}, essentialHeaders...)
	if detail == DetailDetailed {
		headers = append(headers, lineItemHeaders...)
	}
	return headers
}

// Rows lays records out for export. The detailed layout repeats the invoice
// columns on every line item row and writes a single row with empty line
// item columns for invoices without line items.
func Rows(records []domain.InvoiceRecord, detail Detail) [][]Cell {
	rows := make([][]Cell, 0, len(records))
	for i := range records {
		record := &records[i]
		head := []Cell{
			textCell(record.Provider),
			textCell(record.TaxID),
			textCell(record.InvoiceNumber),
			dateCell(record.IssueDate),
			dateCell(record.DueDate),
			amountCell(record.TaxableBase),
			amountCell(record.TaxAmount),
			amountCell(record.Total),
		}

		if detail != DetailDetailed {
			rows = append(rows, head)
			continue
		}

		if len(record.LineItems) == 0 {
			rows = append(rows, append(head, textCell(""), textCell(""), textCell(""), textCell("")))
			continue
		}

		for _, item := range record.LineItems {
			row := append(append([]Cell{}, head...),
				textCell(item.Description),
				amountCell(item.Quantity),
				amountCell(item.UnitPrice),
				amountCell(item.TotalPrice),
			)
			rows = append(rows, row)
		}
	}
	return rows
}

// ParseDetail maps a query value to a layout, defaulting to essential
func ParseDetail(s string) (Detail, error) {
	switch Detail(strings.ToLower(strings.TrimSpace(s))) {
	case "", DetailEssential:
		return DetailEssential, nil
	case DetailDetailed:
		return DetailDetailed, nil
	default:
		return "", fmt.Errorf("unknown export detail %q", s)
	}
}
