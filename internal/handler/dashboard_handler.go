package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/ridwanfathin/invoice-insights-service/internal/domain"
	"github.com/ridwanfathin/invoice-insights-service/internal/model"
	"go.uber.org/zap"
)

// DashboardService computes the dashboard view model
type DashboardService interface {
	Dashboard(ctx context.Context) (*domain.Dashboard, error)
	Alerts(ctx context.Context, kind domain.AlertKind) ([]domain.Alert, error)
}

// DashboardHandler serves aggregates, alerts and spend series
type DashboardHandler struct {
	dashboard DashboardService
	logger    *zap.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboard DashboardService, logger *zap.Logger) *DashboardHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardHandler{dashboard: dashboard, logger: logger}
}

// RegisterRoutes registers the handler's routes with the given router
func (h *DashboardHandler) RegisterRoutes(router gin.IRouter) {
	router.GET("/dashboard", h.GetDashboard)
	router.GET("/alerts", h.ListAlerts)
}

// GetDashboard handles the GET /v1/dashboard endpoint
// @Summary Get the dashboard
// @Description Totals per provider, alerts and monthly spend series, recomputed from every successfully extracted invoice
// @Tags dashboard
// @Produce json
// @Success 200 {object} domain.Dashboard "Dashboard"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /v1/dashboard [get]
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	dashboard, err := h.dashboard.Dashboard(c.Request.Context())
	if err != nil {
		respondServiceError(h.logger, c, "failed_to_build_dashboard", err)
		return
	}

	respondOK(c, dashboard)
}

// ListAlerts handles the GET /v1/alerts endpoint
// @Summary List alerts
// @Description Alerts sorted newest first, optionally limited to one kind
// @Tags dashboard
// @Produce json
// @Param kind query string false "Alert kind" Enums(duplicate, anomaly, new_provider, missing_invoice, cost_trend)
// @Success 200 {object} model.AlertListResponse "Alerts"
// @Failure 400 {object} model.ErrorResponse "Unknown alert kind"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /v1/alerts [get]
func (h *DashboardHandler) ListAlerts(c *gin.Context) {
	kind := domain.AlertKind(getQueryString(c, "kind"))
	if kind != "" && !kind.Valid() {
		respondBadRequest(c, ErrInvalidQueryParams, newErrorDetail("kind", "Unknown alert kind"))
		return
	}

	alerts, err := h.dashboard.Alerts(c.Request.Context(), kind)
	if err != nil {
		respondServiceError(h.logger, c, "failed_to_list_alerts", err)
		return
	}

	respondOK(c, model.AlertListResponse{Alerts: alerts, Count: len(alerts)})
}
