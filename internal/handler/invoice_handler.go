package handler

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/ridwanfathin/invoice-insights-service/internal/domain"
	"github.com/ridwanfathin/invoice-insights-service/internal/model"
	"github.com/ridwanfathin/invoice-insights-service/internal/service"
	"go.uber.org/zap"
)

// InvoiceService is the extraction workflow used by InvoiceHandler
type InvoiceService interface {
	Register(ctx context.Context, uploads []service.Upload) (*service.RegisterResult, error)
	ProcessPending(ctx context.Context) ([]*domain.InvoiceFile, error)
	ProcessOne(ctx context.Context, id string) (*domain.InvoiceFile, error)
	ProcessUpload(ctx context.Context, upload service.Upload) (*domain.InvoiceFile, error)
	File(ctx context.Context, id string) (*domain.InvoiceFile, error)
	Remove(ctx context.Context, id string) error
}

// InvoiceFinder lists invoice files matching a filter
type InvoiceFinder interface {
	Filtered(ctx context.Context, filter service.Filter) ([]*domain.InvoiceFile, error)
}

// InvoiceHandler handles HTTP requests for invoice uploads and extraction
type InvoiceHandler struct {
	invoices    InvoiceService
	finder      InvoiceFinder
	maxFileSize int64
	logger      *zap.Logger
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoices InvoiceService, finder InvoiceFinder, maxFileSize int64, logger *zap.Logger) *InvoiceHandler {
	if maxFileSize <= 0 {
		maxFileSize = 10 * 1024 * 1024 // 10MB default
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvoiceHandler{
		invoices:    invoices,
		finder:      finder,
		maxFileSize: maxFileSize,
		logger:      logger,
	}
}

// RegisterRoutes registers the handler's routes with the given router
func (h *InvoiceHandler) RegisterRoutes(router gin.IRouter) {
	router.POST("/invoices", h.UploadInvoices)
	router.GET("/invoices", h.ListInvoices)
	router.POST("/invoices/process", h.ProcessPending)
	router.POST("/invoices/process-file", h.ProcessFile)
	router.GET("/invoices/:id", h.GetInvoice)
	router.DELETE("/invoices/:id", h.DeleteInvoice)
	router.POST("/invoices/:id/retry", h.RetryInvoice)
}

// UploadInvoices handles a request to register invoice documents
// @Summary Upload invoices
// @Description Register one or more invoice images or PDFs. Files are stored as idle until processed; the same document uploaded twice is registered once.
// @Tags invoices
// @Accept multipart/form-data
// @Produce json
// @Param files formData file true "Invoice images or PDFs"
// @Success 201 {object} model.UploadResponse "Registered files and rejected uploads"
// @Failure 400 {object} model.ErrorResponse "Bad request"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /v1/invoices [post]
func (h *InvoiceHandler) UploadInvoices(c *gin.Context) {
	uploads, err := readFormFiles(c, "files", h.maxFileSize)
	if err != nil {
		respondBadRequest(c, err.Error(), newErrorDetail("files", "At least one image or PDF is required"))
		return
	}

	result, err := h.invoices.Register(c.Request.Context(), uploads)
	if err != nil {
		respondServiceError(h.logger, c, "failed_to_register_uploads", err)
		return
	}

	response := model.UploadResponse{
		Files:    result.Files,
		Rejected: make([]model.RejectedUpload, 0, len(result.Rejected)),
	}
	for _, rejection := range result.Rejected {
		response.Rejected = append(response.Rejected, model.RejectedUpload{
			FileName: rejection.FileName,
			Reason:   rejection.Reason,
		})
	}

	respondCreated(c, response)
}

// ListInvoices handles a request to list invoice files
// @Summary List invoices
// @Description List uploaded invoice files in upload order. Text filters match by case-insensitive substring; a date range only matches invoices with a known issue date.
// @Tags invoices
// @Produce json
// @Param provider query string false "Provider name contains"
// @Param taxId query string false "Tax id contains"
// @Param invoiceNumber query string false "Invoice number contains"
// @Param from query string false "Issued on or after (YYYY-MM-DD)"
// @Param to query string false "Issued on or before (YYYY-MM-DD)"
// @Param status query string false "Processing status" Enums(idle, processing, success, error)
// @Success 200 {object} model.InvoiceFileListResponse "Invoice files"
// @Failure 400 {object} model.ErrorResponse "Invalid query parameters"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /v1/invoices [get]
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	filter, errs := parseFilter(c)
	if len(errs) > 0 {
		respondBadRequest(c, ErrInvalidQueryParams, filterErrorDetails(errs)...)
		return
	}

	files, err := h.finder.Filtered(c.Request.Context(), filter)
	if err != nil {
		respondServiceError(h.logger, c, "failed_to_list_invoices", err)
		return
	}

	respondOK(c, model.NewInvoiceFileListResponse(files))
}

// ProcessPending handles a request to extract every idle file
// @Summary Process pending invoices
// @Description Extract every idle file concurrently. Each file ends as success or error on its own.
// @Tags invoices
// @Produce json
// @Success 200 {object} model.InvoiceFileListResponse "All invoice files after processing"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /v1/invoices/process [post]
func (h *InvoiceHandler) ProcessPending(c *gin.Context) {
	files, err := h.invoices.ProcessPending(c.Request.Context())
	if err != nil {
		respondServiceError(h.logger, c, "failed_to_process_pending", err)
		return
	}

	respondOK(c, model.NewInvoiceFileListResponse(files))
}

// ProcessFile handles a request to upload and extract a single document
// @Summary Process an invoice
// @Description Upload a single invoice image or PDF and extract its data right away
// @Tags invoices
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Invoice image or PDF"
// @Success 200 {object} domain.InvoiceFile "Processed file; status tells whether extraction succeeded"
// @Failure 400 {object} model.ErrorResponse "Bad request"
// @Failure 415 {object} model.ErrorResponse "Unsupported document type"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /v1/invoices/process-file [post]
func (h *InvoiceHandler) ProcessFile(c *gin.Context) {
	uploads, err := readFormFiles(c, "file", h.maxFileSize)
	if err != nil {
		respondBadRequest(c, err.Error(), newErrorDetail("file", "An image or PDF is required"))
		return
	}

	file, err := h.invoices.ProcessUpload(c.Request.Context(), uploads[0])
	if err != nil {
		var extractionErr *service.ExtractionError
		if errors.As(err, &extractionErr) {
			respondWithError(c, StatusUnsupportedMediaType, extractionErr.Err.Error())
			return
		}
		respondServiceError(h.logger, c, "failed_to_process_file", err)
		return
	}

	respondOK(c, file)
}

// GetInvoice handles a request to fetch one invoice file
// @Summary Get an invoice
// @Tags invoices
// @Produce json
// @Param id path string true "File id"
// @Success 200 {object} domain.InvoiceFile "Invoice file"
// @Failure 404 {object} model.ErrorResponse "Not found"
// @Router /v1/invoices/{id} [get]
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	id, err := getPathParam(c, "id")
	if err != nil {
		respondBadRequest(c, ErrInvalidID)
		return
	}

	file, err := h.invoices.File(c.Request.Context(), id)
	if err != nil {
		respondServiceError(h.logger, c, "failed_to_get_invoice", err)
		return
	}

	respondOK(c, file)
}

// DeleteInvoice handles a request to remove an invoice file
// @Summary Delete an invoice
// @Description Remove a file and its extracted data. Files being processed cannot be removed.
// @Tags invoices
// @Param id path string true "File id"
// @Success 204 "Deleted"
// @Failure 404 {object} model.ErrorResponse "Not found"
// @Failure 409 {object} model.ErrorResponse "File is being processed"
// @Router /v1/invoices/{id} [delete]
func (h *InvoiceHandler) DeleteInvoice(c *gin.Context) {
	id, err := getPathParam(c, "id")
	if err != nil {
		respondBadRequest(c, ErrInvalidID)
		return
	}

	if err := h.invoices.Remove(c.Request.Context(), id); err != nil {
		respondServiceError(h.logger, c, "failed_to_delete_invoice", err)
		return
	}

	respondNoContent(c)
}

// RetryInvoice handles a request to extract a failed file again
// @Summary Retry an invoice
// @Description Extract an idle or failed file again
// @Tags invoices
// @Produce json
// @Param id path string true "File id"
// @Success 200 {object} domain.InvoiceFile "File after the attempt"
// @Failure 404 {object} model.ErrorResponse "Not found"
// @Failure 409 {object} model.ErrorResponse "File is being processed or already succeeded"
// @Router /v1/invoices/{id}/retry [post]
func (h *InvoiceHandler) RetryInvoice(c *gin.Context) {
	id, err := getPathParam(c, "id")
	if err != nil {
		respondBadRequest(c, ErrInvalidID)
		return
	}

	file, err := h.invoices.ProcessOne(c.Request.Context(), id)
	if err != nil {
		respondServiceError(h.logger, c, "failed_to_retry_invoice", err)
		return
	}

	respondOK(c, file)
}

func filterErrorDetails(errs []error) []model.ErrorDetail {
	details := make([]model.ErrorDetail, 0, len(errs))
	for _, err := range errs {
		details = append(details, newErrorDetail("query", err.Error()))
	}
	return details
}
