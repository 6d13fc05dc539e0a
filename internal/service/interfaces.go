package service

import (
	"context"

	"github.com/MKhiriev/go-institute-sync/internal/cache"
	"github.com/MKhiriev/go-institute-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

type AppInfoService interface {
	GetBuildInfo(ctx context.Context) models.AppBuildInfo
}

// DashboardService resolves what the signed-in user can see.
type DashboardService interface {
	Dashboard(ctx context.Context) (models.Dashboard, error)
}

// CollectionService keeps one synchronized collection per name for the
// lifetime of the process. Every call is checked against the role of the
// session carried by ctx.
type CollectionService interface {
	Open(ctx context.Context, name string) error
	State(ctx context.Context, name string) (models.SyncState, error)
	Watch(ctx context.Context, name string, fn cache.Observer) (func(), error)
	Refresh(ctx context.Context, name string) error
	Close(ctx context.Context) error
}

type LeadService interface {
	ListLeads(ctx context.Context) ([]models.Lead, error)
	CreateLead(ctx context.Context, lead models.Lead) (models.Lead, error)
	UpdateLead(ctx context.Context, id string, lead models.Lead) (models.Lead, error)
	DeleteLead(ctx context.Context, id string) error
}
