package handler

import (
	"github.com/MKhiriev/go-institute-sync/internal/config"
	"github.com/MKhiriev/go-institute-sync/internal/handler/http"
	"github.com/MKhiriev/go-institute-sync/internal/logger"
	"github.com/MKhiriev/go-institute-sync/internal/service"
)

type Handlers struct {
	HTTP *http.Handler
}

func NewHandlers(services *service.Services, cfg config.StructuredConfig, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	if cfg.Server.HTTPAddress == "" {
		return nil, errNoHandlersAreCreated
	}
	if cfg.App.JWTSecret == "" {
		return nil, errNoSessionSecret
	}

	return &Handlers{HTTP: http.NewHandler(services, cfg, logger)}, nil
}
