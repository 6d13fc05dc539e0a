package main

import (
	"context"
	"fmt"
	"io"

	"github.com/MKhiriev/go-institute-sync/internal/config"
	"github.com/MKhiriev/go-institute-sync/internal/gateway"
	"github.com/MKhiriev/go-institute-sync/internal/logger"
	"github.com/MKhiriev/go-institute-sync/migrations"
)

// newGateway builds the remote store selected by cfg.Kind. The postgres
// gateway is migrated before use; the memory gateway is seeded with demo
// data.
func newGateway(ctx context.Context, cfg config.Gateway, log *logger.Logger) (gateway.Source, error) {
	gwLog := log.WithField("gateway", cfg.Kind)

	switch cfg.Kind {
	case config.GatewayREST:
		return gateway.NewRESTGateway(cfg, gwLog)
	case config.GatewayPostgres:
		pg, err := gateway.NewPostgresGateway(ctx, cfg, gwLog)
		if err != nil {
			return nil, err
		}
		if err = migrations.Migrate(pg.DB(), migrations.DialectPostgres); err != nil {
			pg.Close()
			return nil, fmt.Errorf("postgres migration failed: %w", err)
		}
		return pg, nil
	case config.GatewayMemory, "":
		mem := gateway.NewMemoryGateway()
		seedDemo(mem)
		return mem, nil
	default:
		return nil, fmt.Errorf("%w: %q", gateway.ErrUnknownGatewayKind, cfg.Kind)
	}
}

func closeGateway(source gateway.Source, log *logger.Logger) {
	closer, ok := source.(io.Closer)
	if !ok {
		return
	}
	if err := closer.Close(); err != nil {
		log.Err(err).Str("func", "closeGateway").Msg("error closing gateway")
	}
}
