package http

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-institute-sync/internal/config"
	"github.com/MKhiriev/go-institute-sync/internal/logger"
	"github.com/MKhiriev/go-institute-sync/internal/service"
)

// ─────────────────────────────────────────────
// NewHandler
// ─────────────────────────────────────────────

func TestNewHandler_StoresDependencies(t *testing.T) {
	svc := &service.Services{}
	log := logger.Nop()
	cfg := config.StructuredConfig{
		App:    config.App{JWTSecret: "s3cret"},
		Server: config.Server{RequestTimeout: 5 * time.Second},
	}

	h := NewHandler(svc, cfg, log)

	require.NotNil(t, h)
	assert.Equal(t, svc, h.services)
	assert.Equal(t, log, h.logger)
	assert.Equal(t, "s3cret", h.jwtSecret)
	assert.Equal(t, 5*time.Second, h.requestTimeout)
	assert.NotNil(t, h.idGenerator)
}

func TestNewHandler_IndependentInstances(t *testing.T) {
	h1 := newTestHandler(nil)
	h2 := newTestHandler(nil)

	assert.NotSame(t, h1, h2)
}
