// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import "errors"

var (
	errNoServersAreCreated = errors.New("no servers are created")

	// errShutdownTimedOut is returned when in-flight requests outlive the
	// shutdown timeout.
	errShutdownTimedOut = errors.New("server shutdown timed out")
)
