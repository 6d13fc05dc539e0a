package http

import (
	"net/http"

	"github.com/MKhiriev/go-institute-sync/internal/service"
	"github.com/MKhiriev/go-institute-sync/internal/utils"
)

func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	session, ok := utils.SessionFromContext(r.Context())
	if !ok {
		writeServiceError(w, r, "*Handler.getSession", service.ErrNoSession)
		return
	}
	utils.WriteJSON(w, session, http.StatusOK)
}

func (h *Handler) getDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.services.DashboardService.Dashboard(r.Context())
	if err != nil {
		writeServiceError(w, r, "*Handler.getDashboard", err)
		return
	}
	utils.WriteJSON(w, dashboard, http.StatusOK)
}
