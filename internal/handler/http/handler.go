package http

import (
	"time"

	"github.com/gorilla/websocket"

	"github.com/MKhiriev/go-institute-sync/internal/config"
	"github.com/MKhiriev/go-institute-sync/internal/logger"
	"github.com/MKhiriev/go-institute-sync/internal/service"
	"github.com/MKhiriev/go-institute-sync/internal/utils"
)

type Handler struct {
	services *service.Services

	jwtSecret      string
	requestTimeout time.Duration
	upgrader       websocket.Upgrader
	idGenerator    *utils.UUIDGenerator

	logger *logger.Logger
}

func NewHandler(services *service.Services, cfg config.StructuredConfig, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services:       services,
		jwtSecret:      cfg.App.JWTSecret,
		requestTimeout: cfg.Server.RequestTimeout,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
		idGenerator: utils.NewUUIDGenerator(),
		logger:      logger,
	}
}
