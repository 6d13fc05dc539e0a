package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-institute-sync/internal/mock"
	"github.com/MKhiriev/go-institute-sync/internal/service"
	"github.com/MKhiriev/go-institute-sync/models"
)

func TestGetVersion(t *testing.T) {
	ctrl := gomock.NewController(t)
	appInfo := mock.NewMockAppInfoService(ctrl)
	appInfo.EXPECT().GetBuildInfo(gomock.Any()).
		Return(models.AppBuildInfo{Version: "v1.4.0", Date: "2026-10-01", Commit: "9f2c1e"})

	router := newTestHandler(&service.Services{AppInfoService: appInfo}).Init()
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/version", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"version":"v1.4.0","date":"2026-10-01","commit":"9f2c1e"}`, rr.Body.String())
}
