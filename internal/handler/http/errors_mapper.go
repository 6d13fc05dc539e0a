package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-institute-sync/internal/app"
	"github.com/MKhiriev/go-institute-sync/internal/gateway"
	"github.com/MKhiriev/go-institute-sync/internal/logger"
	"github.com/MKhiriev/go-institute-sync/internal/service"
	"github.com/MKhiriev/go-institute-sync/internal/store"
	"github.com/MKhiriev/go-institute-sync/internal/utils"
	"github.com/MKhiriev/go-institute-sync/internal/validators"
	"github.com/MKhiriev/go-institute-sync/models"
)

var errorStatusMap = map[error]int{
	service.ErrNoSession:          http.StatusUnauthorized,
	service.ErrAccessDenied:       http.StatusForbidden,
	service.ErrUnknownCollection:  http.StatusNotFound,
	service.ErrLeadNotFound:       http.StatusNotFound,
	service.ErrCollectionsClosed:  http.StatusServiceUnavailable,
	service.ErrInvalidLeadPayload: http.StatusInternalServerError,
	models.ErrUnknownRole:         http.StatusForbidden,

	validators.ErrValidation:      http.StatusBadRequest,
	validators.ErrUnsupportedType: http.StatusBadRequest,

	store.ErrRecordNotFound: http.StatusNotFound,

	gateway.ErrJoinRejected:        http.StatusBadGateway,
	gateway.ErrRealtimeClosed:      http.StatusBadGateway,
	gateway.ErrBadGateway:          http.StatusBadGateway,
	gateway.ErrUnauthorized:        http.StatusBadGateway,
	gateway.ErrInvalidIdentifier:   http.StatusBadRequest,
	gateway.ErrInternalServerError: http.StatusBadGateway,
	gateway.ErrNotAcceptable:       http.StatusBadGateway,
	gateway.ErrRangeNotSatisfiable: http.StatusBadGateway,
	gateway.ErrUnavailable:         http.StatusServiceUnavailable,
	gateway.ErrGatewayTimeout:      http.StatusGatewayTimeout,
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

// writeServiceError logs err and writes it as an error response. Validation
// errors carry their per-field messages; server errors hide their details.
func writeServiceError(w http.ResponseWriter, r *http.Request, funcName string, err error) {
	status := statusFromError(err)

	log := logger.FromRequest(r)
	if status >= http.StatusInternalServerError {
		log.Err(err).Str("func", funcName).Msg("request failed")
	} else {
		log.Warn().Err(err).Str("func", funcName).Int("status", status).Msg("request rejected")
	}

	var vErr *validators.ValidationError
	switch {
	case errors.As(err, &vErr):
		utils.WriteError(w, status, validators.ErrValidation.Error(), vErr.Fields)
	case status == http.StatusInternalServerError:
		utils.WriteError(w, status, app.MsgInternalServerError, nil)
	default:
		utils.WriteError(w, status, err.Error(), nil)
	}
}
