package main

import (
	"context"
	"fmt"
	"os"

	"github.com/MKhiriev/go-institute-sync/internal/config"
	"github.com/MKhiriev/go-institute-sync/internal/handler"
	"github.com/MKhiriev/go-institute-sync/internal/logger"
	"github.com/MKhiriev/go-institute-sync/internal/server"
	"github.com/MKhiriev/go-institute-sync/internal/service"
	"github.com/MKhiriev/go-institute-sync/internal/store"
	"github.com/MKhiriev/go-institute-sync/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	build := buildInfo()
	printBuildInfo(build)

	log := logger.NewLogger("institute-dashboard")
	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}
	if err = logger.SetLevel(cfg.App.LogLevel); err != nil {
		log.Warn().Err(err).Str("level", cfg.App.LogLevel).Msg("unknown log level, keeping debug")
	}

	log.Debug().Str("gateway", cfg.Gateway.Kind).Str("address", cfg.Server.HTTPAddress).Msg("received configs")

	if err = run(context.Background(), *cfg, build, log); err != nil {
		log.Err(err).Msg("dashboard stopped with error")
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.StructuredConfig, build models.AppBuildInfo, log *logger.Logger) error {
	remote, err := newGateway(ctx, cfg.Gateway, log)
	if err != nil {
		return fmt.Errorf("error creating gateway: %w", err)
	}
	defer closeGateway(remote, log)

	storages, err := store.NewStorages(ctx, cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("error creating storages: %w", err)
	}
	defer func() {
		if cErr := storages.Close(); cErr != nil {
			log.Err(cErr).Msg("error closing storages")
		}
	}()

	services, err := service.NewServices(remote, storages, cfg, build, log)
	if err != nil {
		return fmt.Errorf("error creating services: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.Workers.ShutdownTimeout)
		defer cancel()
		if cErr := services.CollectionService.Close(shutdownCtx); cErr != nil {
			log.Err(cErr).Msg("error stopping synchronizers")
		}
	}()

	handlers, err := handler.NewHandlers(services, cfg, log)
	if err != nil {
		return fmt.Errorf("error creating handlers: %w", err)
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		return fmt.Errorf("error creating server: %w", err)
	}

	return srv.RunServer(ctx)
}

func buildInfo() models.AppBuildInfo {
	info := models.AppBuildInfo{Version: buildVersion, Date: buildDate, Commit: buildCommit}
	if info.Version == "" {
		info.Version = "N/A"
	}
	if info.Date == "" {
		info.Date = "N/A"
	}
	if info.Commit == "" {
		info.Commit = "N/A"
	}
	return info
}

func printBuildInfo(info models.AppBuildInfo) {
	fmt.Printf("Build version: %s\n", info.Version)
	fmt.Printf("Build date: %s\n", info.Date)
	fmt.Printf("Build commit: %s\n", info.Commit)
}
