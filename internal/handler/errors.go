// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package handler

import "errors"

var (
	// errNoHandlersAreCreated is returned by NewHandlers when no HTTP address
	// is configured. This is treated as a fatal misconfiguration.
	errNoHandlersAreCreated = errors.New("no handlers are created")

	// errNoSessionSecret is returned when session tokens could not be
	// verified because no secret is configured.
	errNoSessionSecret = errors.New("session token secret is not configured")
)
