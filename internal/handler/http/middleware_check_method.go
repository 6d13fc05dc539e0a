// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"

	"github.com/MKhiriev/go-institute-sync/internal/app"
	"github.com/MKhiriev/go-institute-sync/internal/utils"
)

// notFound is registered as the router's NotFound handler so that unknown
// paths get the same JSON error body as every other failure.
func notFound(w http.ResponseWriter, r *http.Request) {
	utils.WriteError(w, http.StatusNotFound, app.MsgRouteNotFound, nil)
}

// methodNotAllowed is registered as the router's MethodNotAllowed handler.
// It answers 405 with a JSON error body.
func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	utils.WriteError(w, http.StatusMethodNotAllowed, app.MsgMethodNotAllowed, nil)
}
