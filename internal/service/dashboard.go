package service

import (
	"context"
	"time"

	"github.com/ridwanfathin/invoice-insights-service/internal/domain"
	"github.com/ridwanfathin/invoice-insights-service/internal/insights"
	"github.com/ridwanfathin/invoice-insights-service/internal/repository"
)

// DashboardService recomputes the dashboard from the current records
type DashboardService struct {
	repo      repository.InvoiceRepository
	validated domain.ValidatedProviderSet
	catalog   *insights.Catalog
	now       func() time.Time
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(repo repository.InvoiceRepository, validated domain.ValidatedProviderSet, catalog *insights.Catalog, now func() time.Time) *DashboardService {
	if now == nil {
		now = time.Now
	}
	if catalog == nil {
		catalog = insights.DefaultCatalog()
	}
	return &DashboardService{
		repo:      repo,
		validated: validated,
		catalog:   catalog,
		now:       now,
	}
}

// Dashboard builds the full view model from a snapshot of the records
func (s *DashboardService) Dashboard(ctx context.Context) (*domain.Dashboard, error) {
	records, err := s.repo.Records(ctx)
	if err != nil {
		return nil, err
	}

	return insights.Build(records, insights.Options{
		Validated: s.validated,
		Now:       s.now(),
		Catalog:   s.catalog,
	}), nil
}

// Alerts returns the current alerts, optionally limited to one kind
func (s *DashboardService) Alerts(ctx context.Context, kind domain.AlertKind) ([]domain.Alert, error) {
	dashboard, err := s.Dashboard(ctx)
	if err != nil {
		return nil, err
	}
	if kind == "" {
		return dashboard.Alerts, nil
	}

	alerts := make([]domain.Alert, 0)
	for _, alert := range dashboard.Alerts {
		if alert.Kind == kind {
			alerts = append(alerts, alert)
		}
	}
	return alerts, nil
}
