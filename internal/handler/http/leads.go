package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MKhiriev/go-institute-sync/internal/app"
	"github.com/MKhiriev/go-institute-sync/internal/logger"
	"github.com/MKhiriev/go-institute-sync/internal/utils"
	"github.com/MKhiriev/go-institute-sync/models"
)

// maxLeadBodySize bounds a lead request body.
const maxLeadBodySize = 64 << 10

func (h *Handler) listLeads(w http.ResponseWriter, r *http.Request) {
	leads, err := h.services.LeadService.ListLeads(r.Context())
	if err != nil {
		writeServiceError(w, r, "*Handler.listLeads", err)
		return
	}
	utils.WriteJSON(w, leads, http.StatusOK)
}

func (h *Handler) createLead(w http.ResponseWriter, r *http.Request) {
	lead, ok := decodeLead(w, r, "*Handler.createLead")
	if !ok {
		return
	}

	created, err := h.services.LeadService.CreateLead(r.Context(), lead)
	if err != nil {
		writeServiceError(w, r, "*Handler.createLead", err)
		return
	}
	utils.WriteJSON(w, created, http.StatusCreated)
}

func (h *Handler) updateLead(w http.ResponseWriter, r *http.Request) {
	lead, ok := decodeLead(w, r, "*Handler.updateLead")
	if !ok {
		return
	}

	updated, err := h.services.LeadService.UpdateLead(r.Context(), chi.URLParam(r, "id"), lead)
	if err != nil {
		writeServiceError(w, r, "*Handler.updateLead", err)
		return
	}
	utils.WriteJSON(w, updated, http.StatusOK)
}

func (h *Handler) deleteLead(w http.ResponseWriter, r *http.Request) {
	if err := h.services.LeadService.DeleteLead(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, "*Handler.deleteLead", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeLead(w http.ResponseWriter, r *http.Request, funcName string) (models.Lead, bool) {
	var lead models.Lead
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxLeadBodySize)).Decode(&lead); err != nil {
		logger.FromRequest(r).Err(errors.Join(ErrInvalidJSON, err)).Str("func", funcName).Send()
		utils.WriteError(w, http.StatusBadRequest, app.MsgInvalidDataProvided, nil)
		return models.Lead{}, false
	}
	return lead, true
}
