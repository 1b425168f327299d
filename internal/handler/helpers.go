package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ridwanfathin/invoice-insights-service/internal/domain"
	"github.com/ridwanfathin/invoice-insights-service/internal/repository"
	"github.com/ridwanfathin/invoice-insights-service/internal/service"
	"go.uber.org/zap"
)

// getPathParam retrieves a path parameter and validates it's not empty
func getPathParam(c *gin.Context, paramName string) (string, error) {
	value := c.Param(paramName)
	if value == "" {
		return "", fmt.Errorf("%s is required", paramName)
	}
	return value, nil
}

// getQueryString retrieves a string query parameter
func getQueryString(c *gin.Context, paramName string) string {
	return c.Query(paramName)
}

// parseDate parses a date string in YYYY-MM-DD format. An empty string is
// an unset date.
func parseDate(dateStr string) (domain.DateOnly, error) {
	if dateStr == "" {
		return domain.DateOnly{}, nil
	}

	date, err := time.Parse(domain.DateLayout, dateStr)
	if err != nil {
		return domain.DateOnly{}, fmt.Errorf("invalid date format: expected YYYY-MM-DD")
	}

	return domain.DateOnly{Time: date}, nil
}

// parseFilter reads the invoice filter from the query string
func parseFilter(c *gin.Context) (service.Filter, []error) {
	filter := service.Filter{
		Provider:      getQueryString(c, "provider"),
		TaxID:         getQueryString(c, "taxId"),
		InvoiceNumber: getQueryString(c, "invoiceNumber"),
		Status:        domain.ProcessingStatus(getQueryString(c, "status")),
	}

	var errs []error
	var err error
	if filter.From, err = parseDate(getQueryString(c, "from")); err != nil {
		errs = append(errs, fmt.Errorf("from: %w", err))
	}
	if filter.To, err = parseDate(getQueryString(c, "to")); err != nil {
		errs = append(errs, fmt.Errorf("to: %w", err))
	}

	switch filter.Status {
	case "", domain.StatusIdle, domain.StatusProcessing, domain.StatusSuccess, domain.StatusError:
	default:
		errs = append(errs, fmt.Errorf("status: unknown status %q", filter.Status))
	}

	return filter, errs
}

// readFormFiles reads every file sent under fieldName
func readFormFiles(c *gin.Context, fieldName string, maxSize int64) ([]service.Upload, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, fmt.Errorf("failed to parse form data: %w", err)
	}

	headers := form.File[fieldName]
	if len(headers) == 0 {
		return nil, fmt.Errorf("no %s provided", fieldName)
	}

	uploads := make([]service.Upload, 0, len(headers))
	for _, header := range headers {
		if header.Size > maxSize {
			return nil, fmt.Errorf("%s exceeds the %d byte limit", header.Filename, maxSize)
		}

		file, err := header.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", header.Filename, err)
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", header.Filename, err)
		}

		uploads = append(uploads, service.Upload{FileName: header.Filename, Data: data})
	}
	return uploads, nil
}

// bindJSON binds JSON request body to a struct
func bindJSON(c *gin.Context, obj interface{}) error {
	if err := c.ShouldBindJSON(obj); err != nil {
		return fmt.Errorf("invalid JSON format: %v", err)
	}
	return nil
}

// logError records a failed request with its context
func logError(logger *zap.Logger, c *gin.Context, event string, err error, fields ...zap.Field) {
	fields = append(fields,
		zap.String("event", event),
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	logger.Error("Request failed", fields...)
	_ = c.Error(err)
}

// respondServiceError maps service and repository errors to responses
func respondServiceError(logger *zap.Logger, c *gin.Context, event string, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		respondNotFound(c, ErrResourceNotFound)
	case errors.Is(err, service.ErrFileBusy):
		respondConflict(c, err.Error())
	case errors.Is(err, service.ErrAlreadyProcessed):
		respondConflict(c, err.Error())
	case errors.Is(err, service.ErrChatBusy):
		respondConflict(c, ErrChatBusy)
	case errors.Is(err, service.ErrEmptyMessage):
		respondBadRequest(c, err.Error(), newErrorDetail("message", "Message is required"))
	default:
		logError(logger, c, event, err)
		respondWithError(c, http.StatusInternalServerError, ErrInternalServer)
	}
}
