// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "fmt"

// validate checks that the final merged [StructuredConfig] is usable at
// startup.
func (cfg *StructuredConfig) validate() error {
	if cfg.Server.HTTPAddress == "" {
		return ErrInvalidServerConfigs
	}

	if cfg.App.JWTSecret == "" {
		return fmt.Errorf("%w: jwt secret is required", ErrInvalidAppConfigs)
	}

	switch cfg.Gateway.Kind {
	case GatewayMemory:
	case GatewayREST:
		if cfg.Gateway.URL == "" {
			return fmt.Errorf("%w: url is required for %q gateway", ErrInvalidGatewayConfigs, cfg.Gateway.Kind)
		}
	case GatewayPostgres:
		if cfg.Gateway.DSN == "" {
			return fmt.Errorf("%w: dsn is required for %q gateway", ErrInvalidGatewayConfigs, cfg.Gateway.Kind)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidGatewayConfigs, cfg.Gateway.Kind)
	}

	if cfg.Gateway.RequestTimeout < 0 || cfg.Server.RequestTimeout < 0 || cfg.Workers.ShutdownTimeout < 0 {
		return ErrInvalidTimeouts
	}

	return nil
}
