package config

import "errors"

// Validation errors returned by [StructuredConfig.validate].
var (
	// ErrInvalidServerConfigs indicates a missing HTTP listen address.
	ErrInvalidServerConfigs = errors.New("invalid server configuration")
	// ErrInvalidAppConfigs indicates invalid application-level settings
	// (for example, missing jwt secret).
	ErrInvalidAppConfigs = errors.New("invalid app configuration")
	// ErrInvalidGatewayConfigs indicates an unknown gateway kind or a kind
	// missing its connection settings.
	ErrInvalidGatewayConfigs = errors.New("invalid gateway configuration")
	// ErrInvalidTimeouts indicates a negative timeout.
	ErrInvalidTimeouts = errors.New("invalid timeout configuration")
)
