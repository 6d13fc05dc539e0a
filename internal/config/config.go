// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// Gateway kinds accepted in [Gateway.Kind].
const (
	GatewayREST     = "rest"
	GatewayPostgres = "postgres"
	GatewayMemory   = "memory"
)

// StructuredConfig is the top-level configuration container of the dashboard
// sync service. It is populated by merging defaults, environment variables,
// command-line flags and an optional JSON file.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings: name, log level and the secret
	// used to verify session tokens issued by the auth provider.
	App App `envPrefix:"APP_"`

	// Gateway selects and configures the remote store gateway.
	Gateway Gateway `envPrefix:"GATEWAY_"`

	// Storage configures the local persisted key-value store.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds the HTTP listen address and timeouts.
	Server Server `envPrefix:"SERVER_"`

	// Workers holds lifecycle settings for the collection synchronizers.
	Workers Workers `envPrefix:"WORKERS_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values.
type App struct {
	// Name is reported in logs as the "role" field.
	// Env: APP_NAME
	Name string `env:"NAME"`

	// LogLevel is a zerolog level name ("debug", "info", "warn", ...).
	// Env: APP_LOG_LEVEL
	LogLevel string `env:"LOG_LEVEL"`

	// JWTSecret verifies HS256 session tokens of the auth provider.
	// Env: APP_JWT_SECRET
	JWTSecret string `env:"JWT_SECRET"`

	// Version is the semantic version of the running application.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Gateway configures the remote store gateway.
type Gateway struct {
	// Kind is one of "rest", "postgres" or "memory".
	// Env: GATEWAY_KIND
	Kind string `env:"KIND"`

	// URL is the base URL of the hosted database REST endpoint.
	// Env: GATEWAY_URL
	URL string `env:"URL"`

	// RealtimeURL is the websocket endpoint of the change feed. When empty
	// it is derived from URL.
	// Env: GATEWAY_REALTIME_URL
	RealtimeURL string `env:"REALTIME_URL"`

	// APIKey is sent as the "apikey" header and the default bearer token.
	// Env: GATEWAY_API_KEY
	APIKey string `env:"API_KEY"`

	// DSN is the PostgreSQL connection string for the "postgres" kind.
	// Env: GATEWAY_DATABASE_URI
	DSN string `env:"DATABASE_URI"`

	// RequestTimeout bounds a single select.
	// Env: GATEWAY_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Storage groups local storage settings.
type Storage struct {
	// KV configures the persisted key-value store.
	KV KV `envPrefix:"KV_"`
}

// KV holds the SQLite settings of the key-value store.
type KV struct {
	// DSN is the SQLite file path. Empty or ":memory:" keeps values in memory.
	// Env: STORAGE_KV_DSN
	DSN string `env:"DSN"`
}

// Server holds network and timeout settings for the HTTP transport.
type Server struct {
	// HTTPAddress is the listen address in "host:port" form.
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout is the maximum duration of a single non-streaming request.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Workers holds synchronizer lifecycle settings.
type Workers struct {
	// ShutdownTimeout bounds how long stopping all synchronizers may take.
	// Env: WORKERS_SHUTDOWN_TIMEOUT
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"`
}

// GetStructuredConfig loads, merges and validates the configuration from all
// available sources in the following priority order (later sources override
// earlier non-zero fields):
//  1. Defaults
//  2. Environment variables
//  3. Command-line flags
//  4. JSON file (path resolved from sources 2 and 3)
func GetStructuredConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withDefaults().
		withEnv().
		withFlags().
		withJSON().
		build()
}

func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			Name:     "institute-dashboard",
			LogLevel: "info",
		},
		Gateway: Gateway{
			Kind:           GatewayMemory,
			RequestTimeout: 15 * time.Second,
		},
		Server: Server{
			HTTPAddress:    "localhost:8080",
			RequestTimeout: 30 * time.Second,
		},
		Workers: Workers{
			ShutdownTimeout: 10 * time.Second,
		},
	}
}
