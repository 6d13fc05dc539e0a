package http

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-institute-sync/internal/config"
	"github.com/MKhiriev/go-institute-sync/internal/logger"
	"github.com/MKhiriev/go-institute-sync/internal/service"
	"github.com/MKhiriev/go-institute-sync/internal/utils"
	"github.com/MKhiriev/go-institute-sync/models"
)

const testSecret = "test-secret"

// newTestHandler создаёт Handler с nop-логгером и тестовым секретом.
func newTestHandler(services *service.Services) *Handler {
	if services == nil {
		services = &service.Services{}
	}
	cfg := config.StructuredConfig{App: config.App{JWTSecret: testSecret}}
	return NewHandler(services, cfg, logger.Nop())
}

// tokenFor выпускает валидный токен сессии для роли.
func tokenFor(t *testing.T, role models.Role) string {
	t.Helper()
	token, err := utils.GenerateSessionToken(models.Session{UserID: "u-1", Name: "Priya", Role: role}, time.Hour, testSecret)
	require.NoError(t, err)
	return token
}

func authorize(t *testing.T, r *http.Request, role models.Role) *http.Request {
	t.Helper()
	r.Header.Set("Authorization", "Bearer "+tokenFor(t, role))
	return r
}
