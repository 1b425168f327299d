package handler

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/ridwanfathin/invoice-insights-service/internal/service"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportService renders filtered invoices as spreadsheets
type ExportService interface {
	WriteCSV(ctx context.Context, w io.Writer, filter service.Filter, detail service.Detail) error
	WriteXLSX(ctx context.Context, w io.Writer, filter service.Filter, detail service.Detail) error
}

// ExportHandler serves spreadsheet downloads
type ExportHandler struct {
	export ExportService
	logger *zap.Logger
}

// NewExportHandler creates a new export handler
func NewExportHandler(export ExportService, logger *zap.Logger) *ExportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportHandler{export: export, logger: logger}
}

// RegisterRoutes registers the handler's routes with the given router
func (h *ExportHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/export", h.Export)
}

// Export handles the GET /v1/export endpoint
// @Summary Export invoices
// @Description Download the successfully extracted invoices matching the filters. The essential layout has one row per invoice; the detailed layout has one row per line item.
// @Tags export
// @Produce text/csv
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param format query string false "File format" Enums(csv, xlsx) default(csv)
// @Param detail query string false "Layout" Enums(essential, detailed) default(essential)
// @Param provider query string false "Provider name contains"
// @Param taxId query string false "Tax id contains"
// @Param invoiceNumber query string false "Invoice number contains"
// @Param from query string false "Issued on or after (YYYY-MM-DD)"
// @Param to query string false "Issued on or before (YYYY-MM-DD)"
// @Success 200 {file} file "Spreadsheet"
// @Failure 400 {object} model.ErrorResponse "Invalid query parameters"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /v1/export [get]
func (h *ExportHandler) Export(c *gin.Context) {
	filter, errs := parseFilter(c)
	if len(errs) > 0 {
		respondBadRequest(c, ErrInvalidQueryParams, filterErrorDetails(errs)...)
		return
	}

	detail, err := service.ParseDetail(getQueryString(c, "detail"))
	if err != nil {
		respondBadRequest(c, ErrInvalidQueryParams, newErrorDetail("detail", err.Error()))
		return
	}

	format := strings.ToLower(c.DefaultQuery("format", "csv"))
	var (
		write       func(context.Context, io.Writer, service.Filter, service.Detail) error
		contentType string
	)
	switch format {
	case "csv":
		write, contentType = h.export.WriteCSV, "text/csv; charset=utf-8"
	case "xlsx":
		write, contentType = h.export.WriteXLSX, xlsxContentType
	default:
		respondBadRequest(c, ErrInvalidQueryParams, newErrorDetail("format", "Format must be csv or xlsx"))
		return
	}

	// Render fully before writing so a failure can still be reported
	var buf bytes.Buffer
	if err := write(c.Request.Context(), &buf, filter, detail); err != nil {
		logError(h.logger, c, "failed_to_export", err, zap.String("format", format))
		respondInternalServerError(c, ErrExportFailed)
		return
	}

	fileName := fmt.Sprintf("facturas_%s.%s", exportSuffix(detail), format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", fileName))
	c.Data(StatusOK, contentType, buf.Bytes())
}

func exportSuffix(detail service.Detail) string {
	if detail == service.DetailDetailed {
		return "detallado"
	}
	return "esencial"
}
