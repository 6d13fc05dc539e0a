// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used across the
// dashboard sync HTTP handlers and middleware.
//
// All Msg* constants are human-readable message strings written into HTTP
// response bodies to describe the outcome of a request.
package app

const (
	// MsgInvalidDataProvided is returned when the request body cannot be
	// decoded as JSON.
	MsgInvalidDataProvided = "invalid data provided"

	// MsgInternalServerError is returned when an unexpected server-side
	// failure occurs. Details are logged, never sent.
	MsgInternalServerError = "internal server error"

	// MsgRouteNotFound is returned for paths the router does not know.
	MsgRouteNotFound = "route not found"

	// MsgMethodNotAllowed is returned when the path exists but not for the
	// request method.
	MsgMethodNotAllowed = "method not allowed"

	// MsgTokenIsExpiredOrInvalid is returned when a session token is either
	// expired or cannot be verified.
	MsgTokenIsExpiredOrInvalid = "token is expired or invalid"
)
