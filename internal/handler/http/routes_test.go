package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKhiriev/go-institute-sync/internal/app"
	"github.com/MKhiriev/go-institute-sync/internal/utils"
)

func TestInit_Ping(t *testing.T) {
	router := newTestHandler(nil).Init()

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/ping", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
	assert.NotEmpty(t, rr.Header().Get(traceIDHeader))
}

func TestInit_NotFoundIsJSON(t *testing.T) {
	router := newTestHandler(nil).Init()

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/unknown", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	var body utils.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, app.MsgRouteNotFound, body.Error)
}

func TestInit_MethodNotAllowed(t *testing.T) {
	router := newTestHandler(nil).Init()

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/api/ping", nil))

	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}

// protectedRoutes lists every route behind the auth middleware.
var protectedRoutes = []struct {
	method string
	path   string
}{
	{http.MethodGet, "/api/session"},
	{http.MethodGet, "/api/dashboard"},
	{http.MethodGet, "/api/collections/batches"},
	{http.MethodPost, "/api/collections/batches/refresh"},
	{http.MethodGet, "/api/collections/batches/watch"},
	{http.MethodGet, "/api/leads"},
	{http.MethodPost, "/api/leads"},
	{http.MethodPut, "/api/leads/l1"},
	{http.MethodDelete, "/api/leads/l1"},
}

func TestInit_ProtectedRoutesRequireSession(t *testing.T) {
	router := newTestHandler(nil).Init()

	for _, rc := range protectedRoutes {
		t.Run(rc.method+" "+rc.path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(rc.method, rc.path, nil))

			assert.Equal(t, http.StatusUnauthorized, rr.Code)
		})
	}
}
