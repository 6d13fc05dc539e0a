package service

import (
	"fmt"

	"github.com/MKhiriev/go-institute-sync/internal/config"
	"github.com/MKhiriev/go-institute-sync/internal/gateway"
	"github.com/MKhiriev/go-institute-sync/internal/logger"
	"github.com/MKhiriev/go-institute-sync/internal/store"
	"github.com/MKhiriev/go-institute-sync/internal/validators"
	"github.com/MKhiriev/go-institute-sync/models"
)

type Services struct {
	AppInfoService    AppInfoService
	DashboardService  DashboardService
	CollectionService CollectionService
	LeadService       LeadService
}

func NewServices(remote gateway.Source, storages *store.Storages, cfg config.StructuredConfig, build models.AppBuildInfo, logger *logger.Logger) (*Services, error) {
	appInfo, err := NewAppInfoService(cfg.App, build, logger)
	if err != nil {
		return nil, fmt.Errorf("app info service: %w", err)
	}

	collections, err := NewCollectionService(remote, storages.Leads, cfg.Gateway.RequestTimeout, logger)
	if err != nil {
		return nil, fmt.Errorf("collection service: %w", err)
	}

	leadValidator, err := validators.NewLeadValidator()
	if err != nil {
		return nil, fmt.Errorf("lead validator: %w", err)
	}
	leads := NewLeadValidationService(leadValidator).Wrap(NewLeadService(storages.Leads, logger))

	return &Services{
		AppInfoService:    appInfo,
		DashboardService:  NewDashboardService(logger),
		CollectionService: collections,
		LeadService:       leads,
	}, nil
}
